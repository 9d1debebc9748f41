package spatial

// View is the query surface shared by the precomputed cache and the
// cache-bypass path. All queries are O(1)-ish, read-only and allocation
// free, and panic with ErrOutOfBounds on out-of-range coordinates.
type View interface {
	Width() int
	Height() int
	Empty(x, y int) bool
	Wall(x, y int) bool
	EmptyNeighborhood(x, y int) uint16
	MaterialNeighborhood(x, y int) uint64
}

// Direct answers every query by re-deriving it from the raw grid. It exists
// to verify the cache (its answers must match a Cache built from the same
// snapshot bit for bit) and to diagnose suspected cache bugs.
type Direct struct {
	g Grid
}

// NewDirect wraps a grid in the cache-bypass view. Material ids are
// validated once up front.
func NewDirect(g Grid) (*Direct, error) {
	if g.Width() <= 0 || g.Height() <= 0 {
		return nil, ErrInvalidDimension
	}
	if err := ValidateMaterials(g); err != nil {
		return nil, err
	}
	return &Direct{g: g}, nil
}

// NewView returns the cached view when useCache is set and the direct
// re-derivation view otherwise. Both expose identical semantics; the
// toggle is an explicit value, never process-wide state.
func NewView(g Grid, useCache bool, opts Options) (View, error) {
	if useCache {
		return Build(g, opts)
	}
	return NewDirect(g)
}

// Width reports the underlying grid's horizontal extent.
func (d *Direct) Width() int { return d.g.Width() }

// Height reports the underlying grid's vertical extent.
func (d *Direct) Height() int { return d.g.Height() }

// Empty reports whether cell (x, y) is currently empty.
func (d *Direct) Empty(x, y int) bool {
	d.checkBounds(x, y)
	return d.g.EmptyAt(x, y)
}

// Wall reports whether cell (x, y) is currently a wall.
func (d *Direct) Wall(x, y int) bool {
	d.checkBounds(x, y)
	return d.g.WallAt(x, y)
}

// EmptyNeighborhood derives the 9-bit empty mask around (x, y) from the grid.
func (d *Direct) EmptyNeighborhood(x, y int) uint16 {
	d.checkBounds(x, y)
	w, h := d.g.Width(), d.g.Height()
	var mask uint16
	k := 0
	for dy := -1; dy <= 1; dy++ {
		ny := y + dy
		for dx := -1; dx <= 1; dx++ {
			nx := x + dx
			if nx >= 0 && nx < w && ny >= 0 && ny < h && d.g.EmptyAt(nx, ny) {
				mask |= 1 << uint(k)
			}
			k++
		}
	}
	return mask
}

// MaterialNeighborhood derives the packed material word around (x, y) from
// the grid.
func (d *Direct) MaterialNeighborhood(x, y int) uint64 {
	d.checkBounds(x, y)
	return packMaterialNeighborhood(d.g, x, y)
}

func (d *Direct) checkBounds(x, y int) {
	if x < 0 || x >= d.g.Width() || y < 0 || y >= d.g.Height() {
		panic(outOfBounds(x, y, d.g.Width(), d.g.Height()))
	}
}
