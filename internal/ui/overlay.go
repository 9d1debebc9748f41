//go:build ebiten

package ui

import (
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Status carries the per-frame readout shown by the overlay.
type Status struct {
	Sim    string
	Tick   uint64
	TPS    int
	Build  time.Duration
	Cached bool
	Paused bool
}

// Overlay draws a small diagnostic readout on top of the simulation.
type Overlay struct {
	visible bool
	status  Status
}

// NewOverlay constructs a new overlay instance, initially visible.
func NewOverlay() *Overlay {
	return &Overlay{visible: true}
}

// SetStatus replaces the displayed readout.
func (o *Overlay) SetStatus(s Status) { o.status = s }

// Update handles the overlay toggle key.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		o.visible = !o.visible
	}
}

// Draw renders the readout when visible.
func (o *Overlay) Draw(screen *ebiten.Image) {
	if !o.visible {
		return
	}
	mode := "cache"
	if !o.status.Cached {
		mode = "direct"
	}
	line := fmt.Sprintf("%s  tick=%d  tps=%d  view=%s  build=%s",
		o.status.Sim, o.status.Tick, o.status.TPS, mode, o.status.Build.Round(time.Microsecond))
	if o.status.Paused {
		line += "  [paused]"
	}
	ebitenutil.DebugPrintAt(screen, line, 4, 4)
}
