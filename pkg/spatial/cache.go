package spatial

import (
	"errors"
	"runtime"
	"sync"
)

// Options selects how a cache build executes. The zero value is the
// sequential correctness baseline.
type Options struct {
	// Parallel fans the build passes out across row bands.
	Parallel bool

	// Workers bounds the number of bands used by a parallel build.
	// Zero means one band per available CPU.
	Workers int

	// Debug is an opaque companion payload carried alongside the cache
	// for diagnostics. The cache stores it untouched and never reads it.
	Debug any
}

func (o Options) workers() int {
	if o.Workers > 0 {
		return o.Workers
	}
	return runtime.NumCPU()
}

// Cache holds the precomputed neighborhood tables for one grid snapshot.
// It is fully populated by Build, immutable afterwards, and safe for
// concurrent readers. There is no incremental update path: any change to
// the source grid requires a full rebuild.
type Cache struct {
	w, h int

	empty *Bitmap
	wall  *Bitmap

	emptyHoods    []uint16
	materialHoods []uint64

	debug any
}

// Build derives a cache from one linear classification pass over the grid
// followed by the two neighborhood passes. The grid is borrowed read-only
// for the duration of the call.
func Build(g Grid, opts Options) (*Cache, error) {
	w, h := g.Width(), g.Height()
	if w <= 0 || h <= 0 {
		return nil, ErrInvalidDimension
	}

	empty, err := NewBitmap(w, h)
	if err != nil {
		return nil, err
	}
	wall, err := NewBitmap(w, h)
	if err != nil {
		return nil, err
	}

	c := &Cache{
		w:             w,
		h:             h,
		empty:         empty,
		wall:          wall,
		emptyHoods:    make([]uint16, w*h),
		materialHoods: make([]uint64, w*h),
		debug:         opts.Debug,
	}

	// Pass 1: classify every cell into the empty/wall bitmaps. A cell may
	// be neither (settled matter); absence from both maps is meaningful.
	// Material ids are validated here so the packing pass cannot truncate.
	// The split is over word-aligned flat spans, not rows: with a width
	// that is not a multiple of 64 adjacent rows share bitmap words, and
	// banded Set calls on a shared word would race.
	if err := c.runCells(opts, func(i0, i1 int) error {
		for i := i0; i < i1; i++ {
			x, y := i%w, i/w
			if m := g.MaterialAt(x, y); m > MaterialMax {
				return materialOverflow(m, x, y)
			}
			if g.EmptyAt(x, y) {
				empty.Set(x, y)
			}
			if g.WallAt(x, y) {
				wall.Set(x, y)
			}
		}
		return nil
	}); err != nil {
		return nil, err
	}

	// Pass 2 reads the now-complete empty bitmap; pass 3 reads only the raw
	// grid. The pass-1 barrier above is the only ordering either needs, so
	// a parallel build runs the two concurrently. A sequential build runs
	// them inline: it is the single-threaded correctness baseline, and it
	// may borrow a grid that is not safe for concurrent access.
	hoods := func() error {
		return c.runRows(opts, func(y0, y1 int) error {
			for y := y0; y < y1; y++ {
				for x := 0; x < w; x++ {
					c.emptyHoods[y*w+x] = empty.Neighborhood3x3(x, y)
				}
			}
			return nil
		})
	}
	materials := func() error {
		return c.runRows(opts, func(y0, y1 int) error {
			for y := y0; y < y1; y++ {
				for x := 0; x < w; x++ {
					c.materialHoods[y*w+x] = packMaterialNeighborhood(g, x, y)
				}
			}
			return nil
		})
	}

	if !opts.Parallel {
		if err := hoods(); err != nil {
			return nil, err
		}
		if err := materials(); err != nil {
			return nil, err
		}
		return c, nil
	}

	var wg sync.WaitGroup
	var hoodsErr, materialsErr error
	wg.Add(2)
	go func() {
		defer wg.Done()
		hoodsErr = hoods()
	}()
	go func() {
		defer wg.Done()
		materialsErr = materials()
	}()
	wg.Wait()
	if err := errors.Join(hoodsErr, materialsErr); err != nil {
		return nil, err
	}

	return c, nil
}

// packMaterialNeighborhood reads the 3×3 window straight from the grid and
// packs each neighbor's material id into its 4-bit field. Out-of-bounds
// neighbors carry MaterialVoid.
func packMaterialNeighborhood(g Grid, x, y int) uint64 {
	w, h := g.Width(), g.Height()
	var word uint64
	k := 0
	for dy := -1; dy <= 1; dy++ {
		ny := y + dy
		for dx := -1; dx <= 1; dx++ {
			nx := x + dx
			if nx >= 0 && nx < w && ny >= 0 && ny < h {
				word = packMaterial(word, k, g.MaterialAt(nx, ny))
			}
			k++
		}
	}
	return word
}

// runCells executes fn over flat cell indexes [0, w*h) split into spans
// whose boundaries fall on 64-cell multiples, so no two spans touch the
// same word of a bitmap indexed by the flat layout. Sequential mode runs a
// single span; each span sees a half-open [i0, i1) range.
func (c *Cache) runCells(opts Options, fn func(i0, i1 int) error) error {
	n := c.w * c.h
	if !opts.Parallel || n <= 64 {
		return fn(0, n)
	}

	words := (n + 63) / 64
	bands := opts.workers()
	if bands > words {
		bands = words
	}

	errs := make([]error, bands)
	var wg sync.WaitGroup
	for i := 0; i < bands; i++ {
		i0 := i * words / bands * 64
		i1 := (i + 1) * words / bands * 64
		if i1 > n {
			i1 = n
		}
		wg.Add(1)
		go func(i, i0, i1 int) {
			defer wg.Done()
			errs[i] = fn(i0, i1)
		}(i, i0, i1)
	}
	wg.Wait()
	return errors.Join(errs...)
}

// runRows executes fn over [0, h) split into row bands. Sequential mode
// runs a single band; each band sees a half-open [y0, y1) range.
func (c *Cache) runRows(opts Options, fn func(y0, y1 int) error) error {
	if !opts.Parallel || c.h == 1 {
		return fn(0, c.h)
	}

	bands := opts.workers()
	if bands > c.h {
		bands = c.h
	}

	errs := make([]error, bands)
	var wg sync.WaitGroup
	for i := 0; i < bands; i++ {
		y0 := i * c.h / bands
		y1 := (i + 1) * c.h / bands
		wg.Add(1)
		go func(i, y0, y1 int) {
			defer wg.Done()
			errs[i] = fn(y0, y1)
		}(i, y0, y1)
	}
	wg.Wait()
	return errors.Join(errs...)
}

// Debug returns the companion payload supplied at build time, if any.
func (c *Cache) Debug() any { return c.debug }

// Width reports the cached grid's horizontal extent.
func (c *Cache) Width() int { return c.w }

// Height reports the cached grid's vertical extent.
func (c *Cache) Height() int { return c.h }

// Empty reports whether cell (x, y) was empty at build time.
func (c *Cache) Empty(x, y int) bool { return c.empty.Test(x, y) }

// Wall reports whether cell (x, y) was a wall at build time.
func (c *Cache) Wall(x, y int) bool { return c.wall.Test(x, y) }

// EmptyNeighborhood returns the 9-bit empty mask around (x, y).
func (c *Cache) EmptyNeighborhood(x, y int) uint16 {
	c.checkBounds(x, y)
	return c.emptyHoods[y*c.w+x]
}

// MaterialNeighborhood returns the packed material word around (x, y).
// Extract individual fields with NeighborMaterial.
func (c *Cache) MaterialNeighborhood(x, y int) uint64 {
	c.checkBounds(x, y)
	return c.materialHoods[y*c.w+x]
}

func (c *Cache) checkBounds(x, y int) {
	if x < 0 || x >= c.w || y < 0 || y >= c.h {
		panic(outOfBounds(x, y, c.w, c.h))
	}
}
