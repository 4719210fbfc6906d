package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasOverlap(t *testing.T) {
	items := []Item{{ID: "a", X: 2, Y: 2, W: 2, H: 2}}

	assert.True(t, HasOverlap(items, 2, 2, 1, 1), "same cell")
	assert.True(t, HasOverlap(items, 3, 3, 2, 2), "corner intersection")
	assert.True(t, HasOverlap(items, 0, 0, 3, 3), "candidate covers item corner")

	// Touching edges is not an overlap.
	assert.False(t, HasOverlap(items, 4, 2, 1, 1), "right edge touch")
	assert.False(t, HasOverlap(items, 0, 2, 2, 2), "left edge touch")
	assert.False(t, HasOverlap(items, 2, 4, 2, 2), "bottom edge touch")
	assert.False(t, HasOverlap(items, 2, 0, 2, 2), "top edge touch")

	assert.False(t, HasOverlap(nil, 0, 0, 5, 5), "empty container")
}

func TestFindPlacementRowMajor(t *testing.T) {
	x, y, ok := FindPlacement(nil, 1, 1, GridCols, GridRows)
	require.True(t, ok)
	assert.Equal(t, 0, x)
	assert.Equal(t, 0, y)

	// Fill (0,0): next 1×1 slot is (1,0), not (0,1).
	items := []Item{{X: 0, Y: 0, W: 1, H: 1}}
	x, y, ok = FindPlacement(items, 1, 1, GridCols, GridRows)
	require.True(t, ok)
	assert.Equal(t, 1, x)
	assert.Equal(t, 0, y)

	// Block the whole first row: a 2×2 lands at (0,1).
	items = []Item{{X: 0, Y: 0, W: GridCols, H: 1}}
	x, y, ok = FindPlacement(items, 2, 2, GridCols, GridRows)
	require.True(t, ok)
	assert.Equal(t, 0, x)
	assert.Equal(t, 1, y)
}

func TestFindPlacementDeterministic(t *testing.T) {
	items := []Item{
		{X: 0, Y: 0, W: 4, H: 2},
		{X: 6, Y: 0, W: 4, H: 3},
		{X: 0, Y: 4, W: 2, H: 2},
	}
	x1, y1, ok1 := FindPlacement(items, 3, 2, GridCols, GridRows)
	x2, y2, ok2 := FindPlacement(items, 3, 2, GridCols, GridRows)
	require.True(t, ok1)
	require.True(t, ok2)
	assert.Equal(t, x1, x2)
	assert.Equal(t, y1, y2)
	// First fit for a 3×2 given the occupancy above is (4,0)? No: columns
	// 4-5 are free on rows 0-1 but the footprint is 3 wide and column 6 is
	// taken, so the scan settles at row 2.
	assert.Equal(t, 0, x1)
	assert.Equal(t, 2, y1)
}

func TestFindPlacementFull(t *testing.T) {
	items := []Item{{X: 0, Y: 0, W: GridCols, H: GridRows}}
	_, _, ok := FindPlacement(items, 1, 1, GridCols, GridRows)
	assert.False(t, ok)

	// Footprint larger than the container can never fit.
	_, _, ok = FindPlacement(nil, GridCols+1, 1, GridCols, GridRows)
	assert.False(t, ok)
	_, _, ok = FindPlacement(nil, 0, 1, GridCols, GridRows)
	assert.False(t, ok, "degenerate footprint")
}

func TestIncrementalBatchPlacement(t *testing.T) {
	// Granting N copies places each against the growing set: 1×1 items land
	// at (0,0), (1,0), (2,0).
	var items []Item
	for i := 0; i < 3; i++ {
		x, y, ok := FindPlacement(items, 1, 1, GridCols, GridRows)
		require.True(t, ok)
		assert.Equal(t, i, x)
		assert.Equal(t, 0, y)
		items = append(items, Item{ID: NewItemID("Roccia"), X: x, Y: y, W: 1, H: 1})
	}
	for i := range items {
		for j := i + 1; j < len(items); j++ {
			assert.False(t, HasOverlap(items[i:i+1], items[j].X, items[j].Y, items[j].W, items[j].H))
		}
	}
}
