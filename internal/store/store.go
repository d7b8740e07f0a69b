// Package store defines the persistence contract for the location
// collection. Backends live in subpackages; memory for tests and
// development, badgerkv for durable storage.
package store

import (
	"context"
	"errors"

	"satwatch/internal/domain"
)

// ErrCorrupt is returned when the persisted collection cannot be decoded.
// The store does not fall back to an empty collection: a save issued on top
// of a silently emptied list would overwrite whatever is left of the blob.
var ErrCorrupt = errors.New("store: persisted collection is corrupt")

// Store is the injected persistence backend for location records.
//
// Implementations must preserve insertion order: List returns records in the
// order they were saved, and Delete removes without reordering the rest.
// Delete of an unknown id is a no-op, not an error.
type Store interface {
	List(ctx context.Context) ([]domain.Location, error)
	Save(ctx context.Context, loc domain.Location) error
	Delete(ctx context.Context, id string) error
}
