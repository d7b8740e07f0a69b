// Package badgerkv persists the location collection in BadgerDB under a
// single fixed key, mirroring the one-blob-per-origin layout the browser
// client used. Reads decode the whole collection; writes are
// read-modify-write over the same blob.
package badgerkv

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"satwatch/internal/domain"
	"satwatch/internal/store"
)

// collectionKey matches the storage key of the original client, so a blob
// exported from it drops straight in.
const collectionKey = "satellite_locations"

type Store struct {
	db         *badger.DB
	writeDelay time.Duration

	// mu serializes read-modify-write cycles. The source this design comes
	// from let concurrent writers race on the blob and lose updates; here
	// writes go through a single-writer queue instead.
	mu sync.Mutex
}

type Option func(*Store)

// WithWriteDelay makes every mutation wait before touching the blob. The
// original client slept 800ms to simulate network latency; the delay is kept
// available for parity experiments and defaults to zero.
func WithWriteDelay(d time.Duration) Option {
	return func(s *Store) { s.writeDelay = d }
}

// Open opens or creates a durable store in dir.
func Open(dir string, opts ...Option) (*Store, error) {
	db, err := badger.Open(badger.DefaultOptions(dir).WithLogger(nil))
	if err != nil {
		return nil, fmt.Errorf("open badger at %s: %w", dir, err)
	}
	return newStore(db, opts...), nil
}

// OpenInMemory opens a non-durable store backed by Badger's in-memory mode.
func OpenInMemory(opts ...Option) (*Store, error) {
	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	if err != nil {
		return nil, fmt.Errorf("open in-memory badger: %w", err)
	}
	return newStore(db, opts...), nil
}

func newStore(db *badger.DB, opts ...Option) *Store {
	s := &Store{db: db}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) List(ctx context.Context) ([]domain.Location, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var locations []domain.Location
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		locations, err = readCollection(txn)
		return err
	})
	if err != nil {
		return nil, err
	}
	return locations, nil
}

func (s *Store) Save(ctx context.Context, loc domain.Location) error {
	return s.mutate(ctx, func(locations []domain.Location) []domain.Location {
		return append(locations, loc)
	})
}

func (s *Store) Delete(ctx context.Context, id string) error {
	return s.mutate(ctx, func(locations []domain.Location) []domain.Location {
		kept := locations[:0]
		for _, loc := range locations {
			if loc.ID != id {
				kept = append(kept, loc)
			}
		}
		return kept
	})
}

// mutate runs one read-modify-write cycle against the collection blob.
func (s *Store) mutate(ctx context.Context, apply func([]domain.Location) []domain.Location) error {
	if err := s.wait(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.db.Update(func(txn *badger.Txn) error {
		locations, err := readCollection(txn)
		if err != nil {
			return err
		}
		data, err := json.Marshal(apply(locations))
		if err != nil {
			return fmt.Errorf("encode collection: %w", err)
		}
		if err := txn.Set([]byte(collectionKey), data); err != nil {
			return fmt.Errorf("write collection: %w", err)
		}
		return nil
	})
}

// wait blocks for the configured write delay, bailing out early if the
// caller gives up. The mutation has not been applied at that point.
func (s *Store) wait(ctx context.Context) error {
	if s.writeDelay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(s.writeDelay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func readCollection(txn *badger.Txn) ([]domain.Location, error) {
	item, err := txn.Get([]byte(collectionKey))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read collection: %w", err)
	}
	var locations []domain.Location
	err = item.Value(func(val []byte) error {
		if err := json.Unmarshal(val, &locations); err != nil {
			return fmt.Errorf("%w: %v", store.ErrCorrupt, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return locations, nil
}
