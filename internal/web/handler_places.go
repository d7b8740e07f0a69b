package web

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"satwatch/internal/geo"
	"satwatch/internal/service"
)

const maxUploadSize = 10 * 1024 * 1024 // 10 MB

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) handleListPlaces(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if q.Has("page") {
		page, err := strconv.Atoi(q.Get("page"))
		if err != nil || page < 1 {
			respondError(w, http.StatusBadRequest, "invalid page")
			return
		}
		result, err := s.service.List(r.Context(), page)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "failed to list places")
			s.logger.Error("list places failed", "error", err)
			return
		}
		respondJSON(w, http.StatusOK, result)
		return
	}

	locations, err := s.service.ListAll(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list places")
		s.logger.Error("list places failed", "error", err)
		return
	}

	// skip/limit offsets for parity with the upstream gateway contract.
	if skip, err := strconv.Atoi(q.Get("skip")); err == nil && skip > 0 {
		if skip > len(locations) {
			skip = len(locations)
		}
		locations = locations[skip:]
	}
	if limit, err := strconv.Atoi(q.Get("limit")); err == nil && limit >= 0 && limit < len(locations) {
		locations = locations[:limit]
	}
	respondJSON(w, http.StatusOK, locations)
}

type createPlaceRequest struct {
	Name        string          `json:"name" validate:"required,max=200"`
	Description string          `json:"description" validate:"max=2000"`
	Geometry    json.RawMessage `json:"geometry" validate:"required"`
}

func (s *Server) handleCreatePlace(w http.ResponseWriter, r *http.Request) {
	var req createPlaceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "name and geometry are required")
		return
	}
	feature, err := geo.Decode(req.Geometry)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid GeoJSON geometry")
		return
	}

	loc, err := s.service.Create(r.Context(), req.Name, req.Description, feature)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to save place")
		s.logger.Error("create place failed", "error", err)
		return
	}
	respondJSON(w, http.StatusCreated, loc)
}

func (s *Server) handleUploadPlace(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		respondError(w, http.StatusBadRequest, "failed to parse form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "geojson file required")
		return
	}
	defer func() {
		if err := file.Close(); err != nil {
			s.logger.Error("close upload file", "error", err)
		}
	}()

	content, err := io.ReadAll(io.LimitReader(file, maxUploadSize))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to read file")
		s.logger.Error("read upload failed", "filename", header.Filename, "error", err)
		return
	}

	loc, err := s.service.Upload(r.Context(), header.Filename, content)
	if errors.Is(err, geo.ErrInvalidFormat) {
		respondError(w, http.StatusBadRequest, "Invalid GeoJSON file format")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to save place")
		s.logger.Error("upload place failed", "filename", header.Filename, "error", err)
		return
	}
	respondJSON(w, http.StatusCreated, loc)
}

func (s *Server) handleDrawPlace(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxUploadSize))
	if err != nil {
		respondError(w, http.StatusBadRequest, "failed to read body")
		return
	}
	// The drawing control emits well-formed Features, but the boundary
	// re-validates anyway; the trust only extends to skipping a user-facing
	// banner here.
	feature, err := geo.Decode(body)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid GeoJSON feature")
		return
	}

	loc, err := s.service.RecordDrawn(r.Context(), feature)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to save place")
		s.logger.Error("record drawn place failed", "error", err)
		return
	}
	respondJSON(w, http.StatusCreated, loc)
}

func (s *Server) handleGetPlace(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	loc, err := s.service.Get(r.Context(), id)
	if errors.Is(err, service.ErrNotFound) {
		respondError(w, http.StatusNotFound, "place not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to get place")
		s.logger.Error("get place failed", "id", id, "error", err)
		return
	}
	respondJSON(w, http.StatusOK, loc)
}

func (s *Server) handleDeletePlace(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.service.Delete(r.Context(), id); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to delete place")
		s.logger.Error("delete place failed", "id", id, "error", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleBBox(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	box := geo.BBox{}
	var err error
	if box.MinLon, err = strconv.ParseFloat(q.Get("min_lon"), 64); err != nil {
		respondError(w, http.StatusBadRequest, "min_lon is required")
		return
	}
	if box.MinLat, err = strconv.ParseFloat(q.Get("min_lat"), 64); err != nil {
		respondError(w, http.StatusBadRequest, "min_lat is required")
		return
	}
	if box.MaxLon, err = strconv.ParseFloat(q.Get("max_lon"), 64); err != nil {
		respondError(w, http.StatusBadRequest, "max_lon is required")
		return
	}
	if box.MaxLat, err = strconv.ParseFloat(q.Get("max_lat"), 64); err != nil {
		respondError(w, http.StatusBadRequest, "max_lat is required")
		return
	}
	if !box.Valid() {
		respondError(w, http.StatusBadRequest, "invalid bounding box")
		return
	}

	locations, err := s.service.WithinBBox(r.Context(), box)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to query places")
		s.logger.Error("bbox query failed", "error", err)
		return
	}
	respondJSON(w, http.StatusOK, locations)
}

func (s *Server) handleNearby(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	lat, err := strconv.ParseFloat(q.Get("lat"), 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "lat is required")
		return
	}
	lon, err := strconv.ParseFloat(q.Get("lon"), 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "lon is required")
		return
	}
	distance, err := strconv.ParseFloat(q.Get("distance"), 64)
	if err != nil || distance <= 0 {
		respondError(w, http.StatusBadRequest, "distance must be a positive number of meters")
		return
	}

	locations, err := s.service.Nearby(r.Context(), lat, lon, distance)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to query places")
		s.logger.Error("nearby query failed", "error", err)
		return
	}
	respondJSON(w, http.StatusOK, locations)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.service.Stats(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to compute stats")
		s.logger.Error("stats failed", "error", err)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

func (s *Server) handleNotifications(w http.ResponseWriter, r *http.Request) {
	if msg, ok := s.notifier.Current(); ok {
		respondJSON(w, http.StatusOK, map[string]any{"message": msg})
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"message": nil})
}
