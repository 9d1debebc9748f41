package sand

import "fallsand/pkg/spatial"

// Window indices for the offsets the movement rules care about. The view
// packs the 3×3 window in row-major (dy, dx) order.
var (
	kUp        = spatial.NeighborIndex(0, -1)
	kLeft      = spatial.NeighborIndex(-1, 0)
	kRight     = spatial.NeighborIndex(1, 0)
	kDown      = spatial.NeighborIndex(0, 1)
	kDownLeft  = spatial.NeighborIndex(-1, 1)
	kDownRight = spatial.NeighborIndex(1, 1)
)

// applyRules moves matter for one tick. Decisions read only the snapshot
// view; writes go to the next buffer, with a claim bitmap resolving
// competing moves in scan order. The scan runs bottom-up so falling matter
// vacates cells before the row above is considered, and the horizontal
// direction alternates per tick to keep lateral flow unbiased.
func (w *World) applyRules(view spatial.View) {
	claimed, err := spatial.NewBitmap(w.w, w.h)
	if err != nil {
		panic(err)
	}

	leftToRight := w.tick%2 == 0
	for y := w.h - 1; y >= 0; y-- {
		if leftToRight {
			for x := 0; x < w.w; x++ {
				w.stepCell(view, claimed, x, y, leftToRight)
			}
			continue
		}
		for x := w.w - 1; x >= 0; x-- {
			w.stepCell(view, claimed, x, y, leftToRight)
		}
	}
}

func (w *World) stepCell(view spatial.View, claimed *spatial.Bitmap, x, y int, leftToRight bool) {
	if claimed.Test(x, y) {
		return
	}
	switch w.cur[y*w.w+x] {
	case MatSand:
		w.stepSand(view, claimed, x, y, leftToRight)
	case MatWater:
		w.stepWater(view, claimed, x, y, leftToRight)
	case MatPlant:
		w.stepPlant(view, claimed, x, y)
	}
}

// stepSand drops a grain straight down, sinks it through water, or slides
// it along a diagonal. Out-of-bounds neighbors read as occupied in the mask
// and as void in the material word, so grains never leave the grid.
func (w *World) stepSand(view spatial.View, claimed *spatial.Bitmap, x, y int, leftToRight bool) {
	mask := view.EmptyNeighborhood(x, y)
	if w.tryMove(claimed, mask, x, y, kDown) {
		return
	}

	word := view.MaterialNeighborhood(x, y)
	if spatial.NeighborMaterial(word, kDown) == MatWater && !claimed.Test(x, y+1) {
		w.swapCells(claimed, x, y, x, y+1)
		return
	}

	first, second := kDownLeft, kDownRight
	if !leftToRight {
		first, second = second, first
	}
	if w.tryMove(claimed, mask, x, y, first) {
		return
	}
	w.tryMove(claimed, mask, x, y, second)
}

// stepWater behaves like sand but also spreads sideways when it cannot fall.
func (w *World) stepWater(view spatial.View, claimed *spatial.Bitmap, x, y int, leftToRight bool) {
	mask := view.EmptyNeighborhood(x, y)
	if w.tryMove(claimed, mask, x, y, kDown) {
		return
	}

	diagFirst, diagSecond := kDownLeft, kDownRight
	latFirst, latSecond := kLeft, kRight
	if !leftToRight {
		diagFirst, diagSecond = diagSecond, diagFirst
		latFirst, latSecond = latSecond, latFirst
	}
	if w.tryMove(claimed, mask, x, y, diagFirst) {
		return
	}
	if w.tryMove(claimed, mask, x, y, diagSecond) {
		return
	}
	if w.tryMove(claimed, mask, x, y, latFirst) {
		return
	}
	w.tryMove(claimed, mask, x, y, latSecond)
}

// stepPlant occasionally sprouts into an adjacent empty cell that touches
// wall or stone, so growth spreads along surfaces instead of floating.
func (w *World) stepPlant(view spatial.View, claimed *spatial.Bitmap, x, y int) {
	if w.rng.Float64() >= w.cfg.Params.PlantGrowChance {
		return
	}

	mask := view.EmptyNeighborhood(x, y)
	for _, k := range [...]int{kUp, kLeft, kRight, kDown} {
		if !spatial.NeighborEmpty(mask, k) {
			continue
		}
		dx, dy := spatial.NeighborOffset(k)
		nx, ny := x+dx, y+dy
		if claimed.Test(nx, ny) || !w.touchesAnchor(view, nx, ny) {
			continue
		}
		claimed.Set(nx, ny)
		w.next[ny*w.w+nx] = MatPlant
		return
	}
}

// touchesAnchor reports whether (x, y) has a wall or stone neighbor.
func (w *World) touchesAnchor(view spatial.View, x, y int) bool {
	word := view.MaterialNeighborhood(x, y)
	for k := 0; k < spatial.NeighborCount; k++ {
		if k == spatial.NeighborCenter {
			continue
		}
		switch spatial.NeighborMaterial(word, k) {
		case MatWall, MatStone:
			return true
		}
	}
	return false
}

// tryMove relocates the particle at (x, y) toward window index k when that
// neighbor is empty and unclaimed. It reports whether the move happened.
func (w *World) tryMove(claimed *spatial.Bitmap, mask uint16, x, y, k int) bool {
	if !spatial.NeighborEmpty(mask, k) {
		return false
	}
	dx, dy := spatial.NeighborOffset(k)
	nx, ny := x+dx, y+dy
	if claimed.Test(nx, ny) {
		return false
	}
	claimed.Set(x, y)
	claimed.Set(nx, ny)
	w.next[ny*w.w+nx] = w.cur[y*w.w+x]
	w.next[y*w.w+x] = MatVoid
	return true
}

// swapCells exchanges two cells, claiming both.
func (w *World) swapCells(claimed *spatial.Bitmap, ax, ay, bx, by int) {
	claimed.Set(ax, ay)
	claimed.Set(bx, by)
	w.next[by*w.w+bx] = w.cur[ay*w.w+ax]
	w.next[ay*w.w+ax] = w.cur[by*w.w+bx]
}
