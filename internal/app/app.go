//go:build ebiten

package app

import (
	"image/color"
	"time"

	"fallsand/internal/core"
	"fallsand/internal/render"
	"fallsand/internal/ui"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// tickReporter is implemented by sims that expose per-tick diagnostics for
// the overlay readout.
type tickReporter interface {
	Tick() uint64
	LastBuildDuration() time.Duration
}

// Game adapts a core simulation to the ebiten.Game interface.
type Game struct {
	sim     core.Sim
	painter *render.GridPainter
	overlay *ui.Overlay
	fixed   *core.FixedStep

	scale    int
	paused   bool
	tickOnce bool
	seed     int64
	cached   bool
}

// New constructs a Game for the provided simulation. The cached flag is
// display-only; the sim itself owns the view toggle.
func New(sim core.Sim, scale int, seed int64, tps int, cached bool) *Game {
	var palette []color.RGBA
	if pp, ok := sim.(core.PaletteProvider); ok {
		palette = pp.Palette()
	}
	gp := render.NewGridPainter(sim.Size().W, sim.Size().H, palette)
	return &Game{
		sim:     sim,
		painter: gp,
		overlay: ui.NewOverlay(),
		fixed:   core.NewFixedStep(tps),
		scale:   scale,
		seed:    seed,
		cached:  cached,
	}
}

// Reset reinitializes the simulation state with the provided seed.
func (g *Game) Reset(seed int64) {
	g.seed = seed
	g.sim.Reset(seed)
	g.tickOnce = false
}

// Update handles per-frame logic and advances the simulation.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		g.paused = false
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.tickOnce = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.Reset(g.seed)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		g.Reset(time.Now().UnixNano())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyComma) {
		g.fixed.SetTPS(g.fixed.TPS() / 2)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyPeriod) {
		g.fixed.SetTPS(g.fixed.TPS() * 2)
	}

	if g.tickOnce {
		g.sim.Step()
		g.tickOnce = false
	} else if !g.paused && g.fixed.ShouldStep() {
		g.sim.Step()
	}

	if g.overlay != nil {
		g.overlay.Update()
		status := ui.Status{
			Sim:    g.sim.Name(),
			TPS:    g.fixed.TPS(),
			Cached: g.cached,
			Paused: g.paused,
		}
		if tr, ok := g.sim.(tickReporter); ok {
			status.Tick = tr.Tick()
			status.Build = tr.LastBuildDuration()
		}
		g.overlay.SetStatus(status)
	}
	return nil
}

// Draw renders the current simulation state.
func (g *Game) Draw(screen *ebiten.Image) {
	g.painter.Blit(screen, g.sim.Cells(), g.scale)
	if g.overlay != nil {
		g.overlay.Draw(screen)
	}
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	s := g.sim.Size()
	return s.W * g.scale, s.H * g.scale
}
