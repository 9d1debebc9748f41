package sand

import (
	"time"

	"fallsand/internal/core"
	"fallsand/pkg/spatial"
)

// World simulates a falling-sand box. Each tick it snapshots the cell grid
// into a spatial neighborhood view (cached or direct, per config) and applies
// the movement rules against that view only, writing into a second buffer.
type World struct {
	cfg Config

	w, h int
	cur  []spatial.Material
	next []spatial.Material

	agents []Agent

	display []uint8
	rng     *core.RNG

	tick      uint64
	lastBuild time.Duration
}

// New returns a sand world with the provided dimensions using defaults.
func New(w, h int) *World {
	cfg := DefaultConfig()
	cfg.Width = w
	cfg.Height = h
	return NewWithConfig(cfg)
}

// NewWithConfig returns a sand world configured from the provided options.
func NewWithConfig(cfg Config) *World {
	total := cfg.Width * cfg.Height
	if total < 0 {
		total = 0
	}
	return &World{
		cfg:     cfg,
		w:       cfg.Width,
		h:       cfg.Height,
		cur:     make([]spatial.Material, total),
		next:    make([]spatial.Material, total),
		display: make([]uint8, total),
		rng:     core.NewRNG(cfg.Seed),
	}
}

// Name returns the simulation identifier.
func (w *World) Name() string { return "sand" }

// Size reports the grid dimensions.
func (w *World) Size() core.Size { return core.Size{W: w.w, H: w.h} }

// Cells exposes the current display buffer.
func (w *World) Cells() []uint8 { return w.display }

// Materials exposes the active material layer.
func (w *World) Materials() []spatial.Material { return w.cur }

// Agents exposes the creature roster.
func (w *World) Agents() []Agent { return w.agents }

// Tick reports how many steps have run since the last reset.
func (w *World) Tick() uint64 { return w.tick }

// LastBuildDuration reports how long the previous tick's view construction
// took. Zero until the first step.
func (w *World) LastBuildDuration() time.Duration { return w.lastBuild }

// Width reports the horizontal extent of the cell grid.
func (w *World) Width() int { return w.w }

// Height reports the vertical extent of the cell grid.
func (w *World) Height() int { return w.h }

// EmptyAt reports whether cell (x, y) holds no matter.
func (w *World) EmptyAt(x, y int) bool { return w.cur[y*w.w+x] == MatVoid }

// WallAt reports whether cell (x, y) is immovable wall.
func (w *World) WallAt(x, y int) bool { return w.cur[y*w.w+x] == MatWall }

// MaterialAt returns the material id of cell (x, y).
func (w *World) MaterialAt(x, y int) spatial.Material { return w.cur[y*w.w+x] }

// Reset regenerates the world terrain and contents deterministically from
// the seed.
func (w *World) Reset(seed int64) {
	if w.w == 0 || w.h == 0 {
		return
	}
	effective := seed
	if effective == 0 {
		effective = w.cfg.Seed
	}
	w.rng = core.NewRNG(effective)
	w.tick = 0
	w.lastBuild = 0
	for i := range w.cur {
		w.cur[i] = MatVoid
		w.next[i] = MatVoid
	}

	w.generateTerrain(effective)
	w.seedSandPatches()
	w.seedWaterPools()
	w.seedPlants()
	w.spawnAgents()
	copy(w.next, w.cur)
	w.rebuildDisplay()
}

// Step advances the world by one tick: rebuild the neighborhood view, move
// matter, run agents, swap buffers.
func (w *World) Step() {
	if w.w == 0 || w.h == 0 {
		return
	}

	start := time.Now()
	view, err := spatial.NewView(w, w.cfg.UseCache, spatial.Options{
		Parallel: w.cfg.Parallel,
		Workers:  w.cfg.Workers,
		Debug:    w.tick,
	})
	if err != nil {
		// Material ids are compile-time constants and dimensions are
		// validated at construction, so a build failure is a bug.
		panic(err)
	}
	w.lastBuild = time.Since(start)

	copy(w.next, w.cur)
	w.applyRules(view)
	w.stepAgents(view)

	w.cur, w.next = w.next, w.cur
	w.tick++
	w.rebuildDisplay()
}

func (w *World) rebuildDisplay() {
	for i, m := range w.cur {
		w.display[i] = uint8(m)
	}
	for _, a := range w.agents {
		if a.X >= 0 && a.X < w.w && a.Y >= 0 && a.Y < w.h {
			w.display[a.Y*w.w+a.X] = agentCell
		}
	}
}

func init() {
	core.Register("sand", func(cfg map[string]string) core.Sim {
		c := FromMap(cfg)
		return NewWithConfig(c)
	})
}
