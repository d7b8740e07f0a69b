// Package domain holds the Location entity and the factory that turns
// validated geometry into records.
package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"satwatch/internal/geo"
)

// Location is a user-defined named polygon area of interest. ID, CreatedAt,
// and Geometry are immutable after creation; there is no update path, a
// change is delete plus recreate.
type Location struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	CreatedAt   string      `json:"createdAt"`
	Geometry    geo.Feature `json:"geometry"`
}

// Page is the ephemeral paginated view over the stored collection. It is
// recomputed on every list fetch and never persisted.
type Page struct {
	Items      []Location `json:"items"`
	Page       int        `json:"page"`
	PerPage    int        `json:"perPage"`
	TotalPages int        `json:"totalPages"`
}

const uploadSuffix = ".geojson"

// NewUploadedLocation builds a record from an uploaded file. The display
// name is the filename with the .geojson suffix stripped.
func NewUploadedLocation(filename string, f geo.Feature) Location {
	return newLocation(strings.TrimSuffix(filename, uploadSuffix), "", f)
}

// NewDrawnLocation builds a record for a shape drawn on the map.
// existingCount is the total fetched at draw time; it is a display counter
// only, so two racing draws may produce the same name. Names are not a
// uniqueness key.
func NewDrawnLocation(existingCount int, f geo.Feature) Location {
	return newLocation(fmt.Sprintf("Area of Interest %d", existingCount+1), "", f)
}

// NewNamedLocation builds a record with an explicit name and description.
func NewNamedLocation(name, description string, f geo.Feature) Location {
	return newLocation(name, description, f)
}

func newLocation(name, description string, f geo.Feature) Location {
	return Location{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
		Geometry:    f,
	}
}
