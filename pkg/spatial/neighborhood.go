package spatial

// Neighborhood masks and words index the 3×3 window in row-major (dy, dx)
// order: offset k = (dy+1)*3 + (dx+1), so k=0 is the upper-left neighbor,
// k=4 the center cell and k=8 the lower-right neighbor.

const (
	// NeighborCount is the number of offsets in a 3×3 window.
	NeighborCount = 9

	// NeighborCenter is the offset index of the window's own cell.
	NeighborCenter = 4

	materialFieldBits = 4
	materialFieldMask = 0xF
)

// NeighborIndex converts a (dx, dy) offset in {-1,0,1}² to its window index.
func NeighborIndex(dx, dy int) int {
	if dx < -1 || dx > 1 || dy < -1 || dy > 1 {
		panic(outOfBounds(dx, dy, 2, 2))
	}
	return (dy+1)*3 + (dx + 1)
}

// NeighborOffset converts a window index back to its (dx, dy) offset.
func NeighborOffset(k int) (dx, dy int) {
	if k < 0 || k >= NeighborCount {
		panic(outOfBounds(k, 0, NeighborCount, 1))
	}
	return k%3 - 1, k/3 - 1
}

// NeighborEmpty reports whether offset k of an empty-neighborhood mask is set.
func NeighborEmpty(mask uint16, k int) bool {
	return mask&(1<<uint(k)) != 0
}

// NeighborMaterial extracts the material id at offset k of a packed
// material-neighborhood word.
func NeighborMaterial(word uint64, k int) Material {
	return Material(word >> uint(k*materialFieldBits) & materialFieldMask)
}

func packMaterial(word uint64, k int, m Material) uint64 {
	return word | uint64(m)<<uint(k*materialFieldBits)
}
