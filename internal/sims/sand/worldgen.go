package sand

import (
	"github.com/aquilax/go-perlin"

	"fallsand/pkg/spatial"
)

const (
	noiseAlpha   = 2.0
	noiseBeta    = 2.0
	noiseOctaves = 3
)

// generateTerrain carves the static rock from perlin noise: dense noise
// becomes wall, the fringe around it becomes stone, and the grid border is
// sealed so matter stays inside the box.
func (w *World) generateTerrain(seed int64) {
	p := perlin.NewPerlin(noiseAlpha, noiseBeta, noiseOctaves, seed)
	scale := w.cfg.Params.NoiseScale
	threshold := w.cfg.Params.WallThreshold

	for y := 0; y < w.h; y++ {
		for x := 0; x < w.w; x++ {
			n := (p.Noise2D(float64(x)*scale, float64(y)*scale) + 1) / 2
			idx := y*w.w + x
			switch {
			case n > threshold:
				w.cur[idx] = MatWall
			case n > threshold-0.05:
				w.cur[idx] = MatStone
			}
		}
	}

	if !w.cfg.Params.BorderWalls {
		return
	}
	for x := 0; x < w.w; x++ {
		w.cur[x] = MatWall
		w.cur[(w.h-1)*w.w+x] = MatWall
	}
	for y := 0; y < w.h; y++ {
		w.cur[y*w.w] = MatWall
		w.cur[y*w.w+w.w-1] = MatWall
	}
}

func (w *World) seedSandPatches() {
	w.seedPatches(MatSand, w.cfg.Params.SandPatchCount,
		w.cfg.Params.SandPatchRadiusMin, w.cfg.Params.SandPatchRadiusMax,
		w.cfg.Params.SandPatchDensity)
}

func (w *World) seedWaterPools() {
	r := w.cfg.Params.WaterPoolRadius
	w.seedPatches(MatWater, w.cfg.Params.WaterPoolCount, r, r, 1)
}

// seedPatches scatters roughly circular blobs of a material over empty
// cells.
func (w *World) seedPatches(m spatial.Material, count, minR, maxR int, density float64) {
	if count <= 0 {
		return
	}
	if minR < 0 {
		minR = 0
	}
	if maxR < minR {
		maxR = minR
	}
	if density <= 0 {
		density = 1
	}
	for p := 0; p < count; p++ {
		cx := w.rng.IntN(w.w)
		cy := w.rng.IntN(w.h)
		radius := minR
		if maxR > minR {
			radius += w.rng.IntN(maxR - minR + 1)
		}
		r2 := radius * radius
		for dy := -radius; dy <= radius; dy++ {
			y := cy + dy
			if y < 0 || y >= w.h {
				continue
			}
			for dx := -radius; dx <= radius; dx++ {
				x := cx + dx
				if x < 0 || x >= w.w {
					continue
				}
				if dx*dx+dy*dy > r2 {
					continue
				}
				if w.rng.Float64() > density {
					continue
				}
				idx := y*w.w + x
				if w.cur[idx] == MatVoid {
					w.cur[idx] = m
				}
			}
		}
	}
}

// seedPlants sprouts the initial flora on empty cells that touch rock.
func (w *World) seedPlants() {
	count := w.cfg.Params.PlantSeedCount
	attempts := count * 20
	for planted := 0; planted < count && attempts > 0; attempts-- {
		x := w.rng.IntN(w.w)
		y := w.rng.IntN(w.h)
		idx := y*w.w + x
		if w.cur[idx] != MatVoid || !w.anchoredAt(x, y) {
			continue
		}
		w.cur[idx] = MatPlant
		planted++
	}
}

// anchoredAt reports whether (x, y) has a wall or stone cell adjacent to it
// in the raw grid. Used during generation, before any view exists.
func (w *World) anchoredAt(x, y int) bool {
	for dy := -1; dy <= 1; dy++ {
		ny := y + dy
		if ny < 0 || ny >= w.h {
			continue
		}
		for dx := -1; dx <= 1; dx++ {
			nx := x + dx
			if nx < 0 || nx >= w.w || (dx == 0 && dy == 0) {
				continue
			}
			switch w.cur[ny*w.w+nx] {
			case MatWall, MatStone:
				return true
			}
		}
	}
	return false
}

func (w *World) spawnAgents() {
	w.agents = w.agents[:0]
	count := w.cfg.Params.AgentCount
	attempts := count * 20
	for len(w.agents) < count && attempts > 0 {
		attempts--
		x := w.rng.IntN(w.w)
		y := w.rng.IntN(w.h)
		if w.cur[y*w.w+x] != MatVoid {
			continue
		}
		w.agents = append(w.agents, Agent{X: x, Y: y})
	}
}
