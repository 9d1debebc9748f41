package spatial

// Material is a small enumerated cell material id. Ids must fit the 4-bit
// packing budget; the zero value doubles as the out-of-bounds sentinel.
type Material uint8

const (
	// MaterialVoid is the sentinel id used for out-of-bounds neighbors.
	MaterialVoid Material = 0

	// MaterialMax is the largest id the packed neighborhood word can carry.
	MaterialMax Material = 15
)

// Grid is the read-only cell view a cache is built from. The cache borrows
// the grid for the duration of a build and never mutates it; mutating the
// grid while a build is in flight is the caller's bug to prevent.
type Grid interface {
	Width() int
	Height() int
	EmptyAt(x, y int) bool
	WallAt(x, y int) bool
	MaterialAt(x, y int) Material
}

// ValidateMaterials checks every cell's material id against the packing
// budget. It returns ErrMaterialOverflow for the first offending cell.
func ValidateMaterials(g Grid) error {
	w, h := g.Width(), g.Height()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if m := g.MaterialAt(x, y); m > MaterialMax {
				return materialOverflow(m, x, y)
			}
		}
	}
	return nil
}
