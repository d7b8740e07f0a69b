package web_test

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"satwatch/internal/cache"
	"satwatch/internal/domain"
	"satwatch/internal/notify"
	"satwatch/internal/service"
	"satwatch/internal/store/memory"
	"satwatch/internal/web"
)

const validFeature = `{
	"type": "Feature",
	"properties": {},
	"geometry": {"type": "Polygon", "coordinates": [[[0,0],[1,0],[1,1],[0,1],[0,0]]]}
}`

func newTestServer(t *testing.T, opts web.Options) *httptest.Server {
	t.Helper()
	n := notify.New()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cached := cache.New(memory.New(), cache.WithNotifier(n))
	svc := service.New(cached, n, logger)
	srv := httptest.NewServer(web.NewServer(svc, n, logger, opts))
	t.Cleanup(srv.Close)
	return srv
}

func createPlace(t *testing.T, baseURL, name string) domain.Location {
	t.Helper()
	body := fmt.Sprintf(`{"name": %q, "description": "", "geometry": %s}`, name, validFeature)
	resp, err := http.Post(baseURL+"/api/v1/places/", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var loc domain.Location
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&loc))
	return loc
}

func listPlaces(t *testing.T, baseURL string) []domain.Location {
	t.Helper()
	resp, err := http.Get(baseURL + "/api/v1/places/")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var locations []domain.Location
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&locations))
	return locations
}

func TestCreateAndListRoundTrip(t *testing.T) {
	srv := newTestServer(t, web.Options{})

	// Prime the list cache, then mutate: the next list must see the record.
	assert.Empty(t, listPlaces(t, srv.URL))

	loc := createPlace(t, srv.URL, "cordoba-north")

	got := listPlaces(t, srv.URL)
	require.Len(t, got, 1)
	assert.Equal(t, loc.ID, got[0].ID)
	assert.Equal(t, "cordoba-north", got[0].Name)
	assert.Equal(t, loc.CreatedAt, got[0].CreatedAt)
}

func TestCreateValidatesEnvelope(t *testing.T) {
	srv := newTestServer(t, web.Options{})

	cases := map[string]string{
		"missing name":     fmt.Sprintf(`{"description": "", "geometry": %s}`, validFeature),
		"missing geometry": `{"name": "x"}`,
		"invalid geometry": `{"name": "x", "geometry": {"type": "NotAFeature"}}`,
		"not json":         `nope`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			resp, err := http.Post(srv.URL+"/api/v1/places/", "application/json", strings.NewReader(body))
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}

	assert.Empty(t, listPlaces(t, srv.URL))
}

func uploadFile(t *testing.T, baseURL, filename, content string) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	resp, err := http.Post(baseURL+"/api/v1/places/upload", mw.FormDataContentType(), &buf)
	require.NoError(t, err)
	return resp
}

func TestUploadNamesFromFilename(t *testing.T) {
	srv := newTestServer(t, web.Options{})

	resp := uploadFile(t, srv.URL, "forest-area.geojson", validFeature)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var loc domain.Location
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&loc))
	assert.Equal(t, "forest-area", loc.Name)
}

func TestUploadRejectsInvalidGeoJSON(t *testing.T) {
	srv := newTestServer(t, web.Options{})

	resp := uploadFile(t, srv.URL, "bad.geojson", `{"type": "NotAFeature"}`)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// The rejected upload never reaches the store.
	assert.Empty(t, listPlaces(t, srv.URL))

	// And the transient error banner is visible.
	nresp, err := http.Get(srv.URL + "/api/v1/notifications")
	require.NoError(t, err)
	defer nresp.Body.Close()
	var payload struct {
		Message *notify.Message `json:"message"`
	}
	require.NoError(t, json.NewDecoder(nresp.Body).Decode(&payload))
	require.NotNil(t, payload.Message)
	assert.Equal(t, notify.KindError, payload.Message.Kind)
}

func TestDrawAutoNames(t *testing.T) {
	srv := newTestServer(t, web.Options{})

	for i, want := range []string{"Area of Interest 1", "Area of Interest 2"} {
		resp, err := http.Post(srv.URL+"/api/v1/places/draw", "application/json", strings.NewReader(validFeature))
		require.NoError(t, err)
		var loc domain.Location
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&loc))
		resp.Body.Close()
		require.Equal(t, http.StatusCreated, resp.StatusCode, "draw %d", i+1)
		assert.Equal(t, want, loc.Name)
	}
}

func TestListPagination(t *testing.T) {
	srv := newTestServer(t, web.Options{})
	for i := 0; i < 12; i++ {
		createPlace(t, srv.URL, fmt.Sprintf("place-%02d", i))
	}

	resp, err := http.Get(srv.URL + "/api/v1/places/?page=3")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var page domain.Page
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&page))
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 5, page.PerPage)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "place-10", page.Items[0].Name)

	beyond, err := http.Get(srv.URL + "/api/v1/places/?page=4")
	require.NoError(t, err)
	defer beyond.Body.Close()
	var empty domain.Page
	require.NoError(t, json.NewDecoder(beyond.Body).Decode(&empty))
	assert.Empty(t, empty.Items)
}

func TestListSkipLimit(t *testing.T) {
	srv := newTestServer(t, web.Options{})
	for i := 0; i < 6; i++ {
		createPlace(t, srv.URL, fmt.Sprintf("place-%02d", i))
	}

	resp, err := http.Get(srv.URL + "/api/v1/places/?skip=2&limit=3")
	require.NoError(t, err)
	defer resp.Body.Close()

	var locations []domain.Location
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&locations))
	require.Len(t, locations, 3)
	assert.Equal(t, "place-02", locations[0].Name)
}

func TestGetPlace(t *testing.T) {
	srv := newTestServer(t, web.Options{})
	loc := createPlace(t, srv.URL, "target")

	resp, err := http.Get(srv.URL + "/api/v1/places/" + loc.ID)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	missing, err := http.Get(srv.URL + "/api/v1/places/no-such-id")
	require.NoError(t, err)
	defer missing.Body.Close()
	assert.Equal(t, http.StatusNotFound, missing.StatusCode)
}

func TestDeleteIsIdempotent(t *testing.T) {
	srv := newTestServer(t, web.Options{})
	loc := createPlace(t, srv.URL, "doomed")

	for i := 0; i < 2; i++ {
		req, err := http.NewRequest(http.MethodDelete, srv.URL+"/api/v1/places/"+loc.ID, nil)
		require.NoError(t, err)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusNoContent, resp.StatusCode, "delete %d", i+1)
	}

	assert.Empty(t, listPlaces(t, srv.URL))
}

func TestBBoxQuery(t *testing.T) {
	srv := newTestServer(t, web.Options{})
	createPlace(t, srv.URL, "near-origin")

	resp, err := http.Get(srv.URL + "/api/v1/places/bbox?min_lon=-1&min_lat=-1&max_lon=2&max_lat=2")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var locations []domain.Location
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&locations))
	assert.Len(t, locations, 1)

	bad, err := http.Get(srv.URL + "/api/v1/places/bbox?min_lon=-1&min_lat=-1&max_lon=2")
	require.NoError(t, err)
	defer bad.Body.Close()
	assert.Equal(t, http.StatusBadRequest, bad.StatusCode)
}

func TestNearbyQuery(t *testing.T) {
	srv := newTestServer(t, web.Options{})
	createPlace(t, srv.URL, "near-origin")

	resp, err := http.Get(srv.URL + "/api/v1/places/nearby?lat=0&lon=0&distance=100000")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var locations []domain.Location
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&locations))
	assert.Len(t, locations, 1)

	bad, err := http.Get(srv.URL + "/api/v1/places/nearby?lat=0&lon=0&distance=-5")
	require.NoError(t, err)
	defer bad.Body.Close()
	assert.Equal(t, http.StatusBadRequest, bad.StatusCode)
}

func TestStats(t *testing.T) {
	srv := newTestServer(t, web.Options{})
	createPlace(t, srv.URL, "one")
	createPlace(t, srv.URL, "two")

	resp, err := http.Get(srv.URL + "/api/v1/stats")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var stats service.Stats
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&stats))
	assert.Equal(t, 2, stats.TotalPlaces)
	assert.Greater(t, stats.TotalAreaKm2, 0.0)
}

func TestAuthEnforcement(t *testing.T) {
	secret := []byte("test-secret")
	srv := newTestServer(t, web.Options{AuthSecret: secret})

	resp, err := http.Get(srv.URL + "/api/v1/places/")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(secret)
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/v1/places/", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	authed, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	authed.Body.Close()
	assert.Equal(t, http.StatusOK, authed.StatusCode)

	// Health stays open.
	health, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	health.Body.Close()
	assert.Equal(t, http.StatusOK, health.StatusCode)
}

func TestRateLimit(t *testing.T) {
	srv := newTestServer(t, web.Options{RateLimitRPS: 1, RateLimitBurst: 2})

	statuses := make([]int, 0, 5)
	for i := 0; i < 5; i++ {
		resp, err := http.Get(srv.URL + "/api/v1/places/")
		require.NoError(t, err)
		resp.Body.Close()
		statuses = append(statuses, resp.StatusCode)
	}
	assert.Contains(t, statuses, http.StatusTooManyRequests)
}
