// Package memory provides an in-memory Store used by tests and as a
// throwaway development backend.
package memory

import (
	"context"
	"sync"

	"satwatch/internal/domain"
)

type Store struct {
	mu        sync.Mutex
	locations []domain.Location
}

func New() *Store {
	return &Store{}
}

func (s *Store) List(ctx context.Context) ([]domain.Location, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Location, len(s.locations))
	copy(out, s.locations)
	return out, nil
}

func (s *Store) Save(ctx context.Context, loc domain.Location) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.locations = append(s.locations, loc)
	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.locations[:0]
	for _, loc := range s.locations {
		if loc.ID != id {
			kept = append(kept, loc)
		}
	}
	s.locations = kept
	return nil
}
