package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"satwatch/internal/domain"
	"satwatch/internal/geo"
)

func testLocation(t *testing.T, name string) domain.Location {
	t.Helper()
	f, err := geo.Decode([]byte(`{
		"type": "Feature",
		"geometry": {"type": "Polygon", "coordinates": [[[0,0],[1,0],[1,1],[0,0]]]}
	}`))
	require.NoError(t, err)
	return domain.NewNamedLocation(name, "", f)
}

func TestSaveListRoundTrip(t *testing.T) {
	s := New()
	ctx := context.Background()

	loc := testLocation(t, "round-trip")
	require.NoError(t, s.Save(ctx, loc))

	got, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, loc, got[0])
}

func TestListPreservesInsertionOrder(t *testing.T) {
	s := New()
	ctx := context.Background()

	names := []string{"first", "second", "third"}
	for _, n := range names {
		require.NoError(t, s.Save(ctx, testLocation(t, n)))
	}

	got, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)
	for i, n := range names {
		assert.Equal(t, n, got[i].Name)
	}
}

func TestDeleteKeepsOrderAndIsIdempotent(t *testing.T) {
	s := New()
	ctx := context.Background()

	a := testLocation(t, "a")
	b := testLocation(t, "b")
	c := testLocation(t, "c")
	for _, loc := range []domain.Location{a, b, c} {
		require.NoError(t, s.Save(ctx, loc))
	}

	require.NoError(t, s.Delete(ctx, b.ID))
	got, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].Name)
	assert.Equal(t, "c", got[1].Name)

	// Second delete of the same id changes nothing.
	require.NoError(t, s.Delete(ctx, b.ID))
	again, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, got, again)
}

func TestDeleteUnknownIDIsNoOp(t *testing.T) {
	s := New()
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, testLocation(t, "only")))
	require.NoError(t, s.Delete(ctx, "no-such-id"))

	got, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestListReturnsCopy(t *testing.T) {
	s := New()
	ctx := context.Background()
	require.NoError(t, s.Save(ctx, testLocation(t, "original")))

	got, err := s.List(ctx)
	require.NoError(t, err)
	got[0].Name = "mutated"

	fresh, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, "original", fresh[0].Name)
}
