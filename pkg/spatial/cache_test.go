package spatial

import (
	"math/rand/v2"
	"runtime"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

// testGrid is a minimal Grid over a flat material buffer: id 0 is empty,
// id 1 is wall, anything else is settled matter.
type testGrid struct {
	w, h  int
	cells []Material
}

func newTestGrid(w, h int) *testGrid {
	return &testGrid{w: w, h: h, cells: make([]Material, w*h)}
}

func (g *testGrid) Width() int                  { return g.w }
func (g *testGrid) Height() int                 { return g.h }
func (g *testGrid) EmptyAt(x, y int) bool       { return g.cells[y*g.w+x] == MaterialVoid }
func (g *testGrid) WallAt(x, y int) bool        { return g.cells[y*g.w+x] == 1 }
func (g *testGrid) MaterialAt(x, y int) Material { return g.cells[y*g.w+x] }

func randomTestGrid(w, h int, seed uint64) *testGrid {
	g := newTestGrid(w, h)
	rng := rand.New(rand.NewPCG(seed, 0))
	for i := range g.cells {
		g.cells[i] = Material(rng.IntN(6))
	}
	return g
}

func TestBuildInvalidGrid(t *testing.T) {
	_, err := Build(&testGrid{w: 0, h: 5}, Options{})
	require.ErrorIs(t, err, ErrInvalidDimension)
}

func TestBuildClassificationFidelity(t *testing.T) {
	g := randomTestGrid(37, 23, 7)
	c, err := Build(g, Options{})
	require.NoError(t, err)

	for y := 0; y < g.h; y++ {
		for x := 0; x < g.w; x++ {
			require.Equal(t, g.EmptyAt(x, y), c.Empty(x, y), "empty at (%d,%d)", x, y)
			require.Equal(t, g.WallAt(x, y), c.Wall(x, y), "wall at (%d,%d)", x, y)
		}
	}
}

func TestBuildPackingFidelity(t *testing.T) {
	g := randomTestGrid(19, 13, 99)
	c, err := Build(g, Options{})
	require.NoError(t, err)

	for y := 0; y < g.h; y++ {
		for x := 0; x < g.w; x++ {
			mask := c.EmptyNeighborhood(x, y)
			word := c.MaterialNeighborhood(x, y)
			for k := 0; k < NeighborCount; k++ {
				dx, dy := NeighborOffset(k)
				nx, ny := x+dx, y+dy
				inBounds := nx >= 0 && nx < g.w && ny >= 0 && ny < g.h

				wantEmpty := inBounds && g.EmptyAt(nx, ny)
				require.Equal(t, wantEmpty, NeighborEmpty(mask, k),
					"empty bit %d of (%d,%d)", k, x, y)

				wantMat := MaterialVoid
				if inBounds {
					wantMat = g.MaterialAt(nx, ny)
				}
				require.Equal(t, wantMat, NeighborMaterial(word, k),
					"material field %d of (%d,%d)", k, x, y)
			}
		}
	}
}

func TestWallAtCenterScenario(t *testing.T) {
	g := newTestGrid(3, 3)
	g.cells[1*3+1] = 1 // wall at (1,1), everything else empty

	c, err := Build(g, Options{})
	require.NoError(t, err)

	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			require.Equal(t, x == 1 && y == 1, c.Wall(x, y))
		}
	}

	// All 8 neighbors of the wall are empty; the wall's own center bit is not.
	require.Equal(t, uint16(0x1EF), c.EmptyNeighborhood(1, 1))

	// A corner window has 5 out-of-bounds fields, all the void sentinel.
	word := c.MaterialNeighborhood(0, 0)
	for _, k := range []int{0, 1, 2, 3, 6} {
		require.Equal(t, MaterialVoid, NeighborMaterial(word, k))
	}
	require.Equal(t, Material(1), NeighborMaterial(word, 8), "the wall sits at offset (1,1)")
}

func TestSequentialParallelIdentical(t *testing.T) {
	g := randomTestGrid(97, 65, 41)

	seq, err := Build(g, Options{})
	require.NoError(t, err)
	for _, workers := range []int{0, 1, 3, 16} {
		par, err := Build(g, Options{Parallel: true, Workers: workers})
		require.NoError(t, err)
		diff := cmp.Diff(seq, par, cmp.AllowUnexported(Cache{}, Bitmap{}))
		require.Empty(t, diff, "workers=%d", workers)
	}
}

func TestParallelBuildWordStraddlingRows(t *testing.T) {
	// A width that is not a multiple of 64 makes adjacent rows share
	// bitmap words, so banded classification must never split mid-word:
	// concurrent read-modify-writes on a shared word drop bits.
	g := randomTestGrid(65, 512, 1)

	seq, err := Build(g, Options{})
	require.NoError(t, err)
	for _, workers := range []int{2, 8, 32} {
		par, err := Build(g, Options{Parallel: true, Workers: workers})
		require.NoError(t, err)
		diff := cmp.Diff(seq, par, cmp.AllowUnexported(Cache{}, Bitmap{}))
		require.Empty(t, diff, "workers=%d", workers)
	}
}

// countingGrid wraps a grid with a plain access counter, making it unsafe
// for concurrent use. Sequential builds must tolerate such a grid.
type countingGrid struct {
	*testGrid
	reads int
}

func (g *countingGrid) MaterialAt(x, y int) Material {
	g.reads++
	return g.testGrid.MaterialAt(x, y)
}

func TestSequentialBuildSingleThreaded(t *testing.T) {
	g := &countingGrid{testGrid: randomTestGrid(33, 21, 17)}

	before := runtime.NumGoroutine()
	_, err := Build(g, Options{})
	require.NoError(t, err)
	require.Equal(t, before, runtime.NumGoroutine(), "sequential build must not spawn goroutines")

	// Classification reads each cell once; packing reads each in-bounds
	// (cell, neighbor) pair once.
	want := g.w*g.h + (3*g.w-2)*(3*g.h-2)
	require.Equal(t, want, g.reads)
}

func TestCacheDirectEquivalence(t *testing.T) {
	g := randomTestGrid(61, 47, 5)

	cached, err := NewView(g, true, Options{Parallel: true})
	require.NoError(t, err)
	direct, err := NewView(g, false, Options{})
	require.NoError(t, err)

	for y := 0; y < g.h; y++ {
		for x := 0; x < g.w; x++ {
			require.Equal(t, direct.Empty(x, y), cached.Empty(x, y))
			require.Equal(t, direct.Wall(x, y), cached.Wall(x, y))
			require.Equal(t, direct.EmptyNeighborhood(x, y), cached.EmptyNeighborhood(x, y))
			require.Equal(t, direct.MaterialNeighborhood(x, y), cached.MaterialNeighborhood(x, y))
		}
	}
}

func TestRebuildLocality(t *testing.T) {
	g := randomTestGrid(24, 18, 11)
	const cx, cy = 10, 7
	g.cells[cy*g.w+cx] = MaterialVoid

	before, err := Build(g, Options{})
	require.NoError(t, err)

	g.cells[cy*g.w+cx] = 1 // empty -> wall

	after, err := Build(g, Options{})
	require.NoError(t, err)

	for y := 0; y < g.h; y++ {
		for x := 0; x < g.w; x++ {
			idx := y*g.w + x
			near := x >= cx-1 && x <= cx+1 && y >= cy-1 && y <= cy+1
			if !near {
				require.Equal(t, before.empty.Test(x, y), after.empty.Test(x, y))
				require.Equal(t, before.wall.Test(x, y), after.wall.Test(x, y))
				require.Equal(t, before.emptyHoods[idx], after.emptyHoods[idx],
					"empty hood at (%d,%d) must be untouched", x, y)
				require.Equal(t, before.materialHoods[idx], after.materialHoods[idx],
					"material hood at (%d,%d) must be untouched", x, y)
			}
		}
	}

	require.False(t, before.Wall(cx, cy))
	require.True(t, after.Wall(cx, cy))
	require.True(t, before.Empty(cx, cy))
	require.False(t, after.Empty(cx, cy))
	require.NotEqual(t, before.emptyHoods[cy*g.w+cx], after.emptyHoods[cy*g.w+cx])
}

func TestMaterialOverflow(t *testing.T) {
	g := randomTestGrid(8, 8, 3)
	g.cells[3*8+4] = 16

	_, err := Build(g, Options{})
	require.ErrorIs(t, err, ErrMaterialOverflow)

	_, err = Build(g, Options{Parallel: true, Workers: 4})
	require.ErrorIs(t, err, ErrMaterialOverflow)

	_, err = NewDirect(g)
	require.ErrorIs(t, err, ErrMaterialOverflow)
}

func TestDebugPayloadCarried(t *testing.T) {
	g := newTestGrid(2, 2)
	c, err := Build(g, Options{Debug: "tick-9"})
	require.NoError(t, err)
	require.Equal(t, "tick-9", c.Debug())
}

func TestCacheStrictBounds(t *testing.T) {
	g := newTestGrid(5, 4)
	c, err := Build(g, Options{})
	require.NoError(t, err)

	requireOutOfBoundsPanic(t, func() { c.Empty(5, 0) })
	requireOutOfBoundsPanic(t, func() { c.Wall(0, 4) })
	requireOutOfBoundsPanic(t, func() { c.EmptyNeighborhood(-1, 0) })
	requireOutOfBoundsPanic(t, func() { c.MaterialNeighborhood(0, -1) })

	d, err := NewDirect(g)
	require.NoError(t, err)
	requireOutOfBoundsPanic(t, func() { d.Empty(5, 0) })
	requireOutOfBoundsPanic(t, func() { d.EmptyNeighborhood(0, 4) })
}
