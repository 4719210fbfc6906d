package world

// Player grid footprint. External storages declare their own size.
const (
	GridCols = 10
	GridRows = 7
)

// HasOverlap reports whether a w×h rectangle at (x, y) intersects any item
// already in the container. Ranges are open: items touching edge to edge do
// not overlap.
func HasOverlap(items []Item, x, y, w, h int) bool {
	for i := range items {
		it := &items[i]
		if x < it.X+it.W && it.X < x+w && y < it.Y+it.H && it.Y < y+h {
			return true
		}
	}
	return false
}

// FindPlacement scans the grid row-major (y outer, x inner) and returns the
// first free slot for a w×h footprint. The scan order is part of the wire
// contract: it decides where granted items land on every client.
func FindPlacement(items []Item, w, h, cols, rows int) (x, y int, ok bool) {
	if w < 1 || h < 1 || w > cols || h > rows {
		return 0, 0, false
	}
	for y := 0; y <= rows-h; y++ {
		for x := 0; x <= cols-w; x++ {
			if !HasOverlap(items, x, y, w, h) {
				return x, y, true
			}
		}
	}
	return 0, 0, false
}
