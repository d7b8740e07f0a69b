package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"satwatch/internal/geo"
)

func testFeature(t *testing.T) geo.Feature {
	t.Helper()
	f, err := geo.Decode([]byte(`{
		"type": "Feature",
		"geometry": {"type": "Polygon", "coordinates": [[[0,0],[1,0],[1,1],[0,0]]]}
	}`))
	require.NoError(t, err)
	return f
}

func TestNewUploadedLocationStripsSuffix(t *testing.T) {
	loc := NewUploadedLocation("forest-area.geojson", testFeature(t))
	assert.Equal(t, "forest-area", loc.Name)
}

func TestNewUploadedLocationKeepsOtherNames(t *testing.T) {
	loc := NewUploadedLocation("forest-area.json", testFeature(t))
	assert.Equal(t, "forest-area.json", loc.Name)
}

func TestNewDrawnLocationAutoName(t *testing.T) {
	loc := NewDrawnLocation(0, testFeature(t))
	assert.Equal(t, "Area of Interest 1", loc.Name)

	loc = NewDrawnLocation(1, testFeature(t))
	assert.Equal(t, "Area of Interest 2", loc.Name)
}

func TestNewLocationIdentity(t *testing.T) {
	f := testFeature(t)
	a := NewNamedLocation("a", "", f)
	b := NewNamedLocation("b", "", f)

	_, err := uuid.Parse(a.ID)
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestNewLocationTimestamp(t *testing.T) {
	loc := NewNamedLocation("x", "", testFeature(t))

	ts, err := time.Parse(time.RFC3339, loc.CreatedAt)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().UTC(), ts, 5*time.Second)
}
