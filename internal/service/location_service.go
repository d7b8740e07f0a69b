// Package service orchestrates the upload/draw/list/delete flows over the
// location store.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"satwatch/internal/domain"
	"satwatch/internal/geo"
	"satwatch/internal/notify"
	"satwatch/internal/pagination"
)

// ErrNotFound is returned by Get for an unknown id. Delete never returns it;
// deleting an absent record is a no-op.
var ErrNotFound = errors.New("service: location not found")

// locationStore is the subset of store.Store the service requires; it is
// normally the cache layer.
type locationStore interface {
	List(ctx context.Context) ([]domain.Location, error)
	Save(ctx context.Context, loc domain.Location) error
	Delete(ctx context.Context, id string) error
}

type LocationService struct {
	store    locationStore
	notifier *notify.Center
	logger   *slog.Logger
	pageSize int
}

type Option func(*LocationService)

// WithPageSize overrides the default page size for List.
func WithPageSize(n int) Option {
	return func(s *LocationService) {
		if n > 0 {
			s.pageSize = n
		}
	}
}

func New(store locationStore, notifier *notify.Center, logger *slog.Logger, opts ...Option) *LocationService {
	s := &LocationService{
		store:    store,
		notifier: notifier,
		logger:   logger,
		pageSize: pagination.DefaultPageSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Upload validates an uploaded GeoJSON file and stores it as a location
// named after the file. Invalid content surfaces a transient error banner
// and nothing is stored.
func (s *LocationService) Upload(ctx context.Context, filename string, content []byte) (domain.Location, error) {
	feature, err := geo.Decode(content)
	if err != nil {
		s.notifier.Error("Invalid GeoJSON file format")
		s.logger.Warn("upload rejected", "filename", filename, "error", err)
		return domain.Location{}, err
	}

	loc := domain.NewUploadedLocation(filename, feature)
	if err := s.store.Save(ctx, loc); err != nil {
		s.notifier.Error("Failed to save location")
		return domain.Location{}, fmt.Errorf("save uploaded location: %w", err)
	}
	s.logger.Info("location uploaded", "id", loc.ID, "name", loc.Name)
	return loc, nil
}

// RecordDrawn stores a shape drawn on the map, auto-named from the count of
// locations fetched at draw time. The counter is display-only; racing draws
// may repeat a name.
func (s *LocationService) RecordDrawn(ctx context.Context, feature geo.Feature) (domain.Location, error) {
	existing, err := s.store.List(ctx)
	if err != nil {
		return domain.Location{}, fmt.Errorf("count existing locations: %w", err)
	}

	loc := domain.NewDrawnLocation(len(existing), feature)
	if err := s.store.Save(ctx, loc); err != nil {
		s.notifier.Error("Failed to save location")
		return domain.Location{}, fmt.Errorf("save drawn location: %w", err)
	}
	s.logger.Info("location drawn", "id", loc.ID, "name", loc.Name)
	return loc, nil
}

// Create stores an explicitly named place.
func (s *LocationService) Create(ctx context.Context, name, description string, feature geo.Feature) (domain.Location, error) {
	loc := domain.NewNamedLocation(name, description, feature)
	if err := s.store.Save(ctx, loc); err != nil {
		s.notifier.Error("Failed to save location")
		return domain.Location{}, fmt.Errorf("save location: %w", err)
	}
	s.logger.Info("location created", "id", loc.ID, "name", loc.Name)
	return loc, nil
}

// ListAll returns the whole collection in insertion order.
func (s *LocationService) ListAll(ctx context.Context) ([]domain.Location, error) {
	return s.store.List(ctx)
}

// List returns one page of the collection plus pagination metadata,
// recomputed from a full fetch every time.
func (s *LocationService) List(ctx context.Context, page int) (domain.Page, error) {
	items, err := s.store.List(ctx)
	if err != nil {
		return domain.Page{}, err
	}
	return domain.Page{
		Items:      pagination.Slice(items, page, s.pageSize),
		Page:       page,
		PerPage:    s.pageSize,
		TotalPages: pagination.TotalPages(len(items), s.pageSize),
	}, nil
}

// Get finds one location by id, or ErrNotFound.
func (s *LocationService) Get(ctx context.Context, id string) (domain.Location, error) {
	items, err := s.store.List(ctx)
	if err != nil {
		return domain.Location{}, err
	}
	for _, loc := range items {
		if loc.ID == id {
			return loc, nil
		}
	}
	return domain.Location{}, ErrNotFound
}

// Delete removes a location by id. Unknown ids are a silent no-op.
func (s *LocationService) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		s.notifier.Error("Failed to delete location")
		return fmt.Errorf("delete location: %w", err)
	}
	s.logger.Info("location deleted", "id", id)
	return nil
}

// WithinBBox returns the locations whose bounds intersect the query box.
// Locations with undecodable coordinates are skipped, not fatal.
func (s *LocationService) WithinBBox(ctx context.Context, box geo.BBox) ([]domain.Location, error) {
	items, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	matched := make([]domain.Location, 0, len(items))
	for _, loc := range items {
		bounds, err := loc.Geometry.Bounds()
		if err != nil {
			s.logger.Debug("skipping unmeasurable geometry", "id", loc.ID, "error", err)
			continue
		}
		if bounds.Intersects(box) {
			matched = append(matched, loc)
		}
	}
	return matched, nil
}

// Nearby returns the locations whose centroid lies within distanceMeters of
// the query point.
func (s *LocationService) Nearby(ctx context.Context, lat, lon, distanceMeters float64) ([]domain.Location, error) {
	items, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	matched := make([]domain.Location, 0, len(items))
	for _, loc := range items {
		cLat, cLon, err := loc.Geometry.Centroid()
		if err != nil {
			s.logger.Debug("skipping unmeasurable geometry", "id", loc.ID, "error", err)
			continue
		}
		if geo.HaversineMeters(lat, lon, cLat, cLon) <= distanceMeters {
			matched = append(matched, loc)
		}
	}
	return matched, nil
}

// Stats are the dashboard aggregates.
type Stats struct {
	TotalPlaces  int     `json:"totalPlaces"`
	TotalAreaKm2 float64 `json:"totalAreaKm2"`
	NewestAt     string  `json:"newestAt,omitempty"`
}

// Stats summarizes the collection for the dashboard cards.
func (s *LocationService) Stats(ctx context.Context) (Stats, error) {
	items, err := s.store.List(ctx)
	if err != nil {
		return Stats{}, err
	}
	st := Stats{TotalPlaces: len(items)}
	var newest time.Time
	for _, loc := range items {
		if area, err := loc.Geometry.ApproxAreaKm2(); err == nil {
			st.TotalAreaKm2 += area
		}
		if ts, err := time.Parse(time.RFC3339, loc.CreatedAt); err == nil && ts.After(newest) {
			newest = ts
			st.NewestAt = loc.CreatedAt
		}
	}
	return st, nil
}
