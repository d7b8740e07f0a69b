package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, TotalPages(0, 5))
	assert.Equal(t, 1, TotalPages(1, 5))
	assert.Equal(t, 1, TotalPages(5, 5))
	assert.Equal(t, 2, TotalPages(6, 5))
	assert.Equal(t, 3, TotalPages(12, 5))
	assert.Equal(t, 0, TotalPages(10, 0))
}

func TestSliceTwelveItemsPageSizeFive(t *testing.T) {
	items := make([]int, 12)
	for i := range items {
		items[i] = i
	}

	assert.Equal(t, []int{0, 1, 2, 3, 4}, Slice(items, 1, 5))
	assert.Equal(t, []int{5, 6, 7, 8, 9}, Slice(items, 2, 5))
	assert.Equal(t, []int{10, 11}, Slice(items, 3, 5))
	assert.Empty(t, Slice(items, 4, 5))
}

func TestSliceEdgeCases(t *testing.T) {
	assert.Empty(t, Slice([]string{}, 1, 5))
	assert.Empty(t, Slice([]string{"a"}, 0, 5))
	assert.Empty(t, Slice([]string{"a"}, -1, 5))
	assert.Empty(t, Slice([]string{"a"}, 1, 0))
}

func TestSliceIsIdempotent(t *testing.T) {
	items := []string{"a", "b", "c", "d", "e", "f"}
	first := Slice(items, 2, 5)
	second := Slice(items, 2, 5)
	assert.Equal(t, first, second)
	assert.Equal(t, []string{"f"}, first)
}
