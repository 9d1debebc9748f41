//go:build !ebiten

package ui

import "time"

// Status carries the per-frame readout shown by the overlay.
type Status struct {
	Sim    string
	Tick   uint64
	TPS    int
	Build  time.Duration
	Cached bool
	Paused bool
}

// Overlay is a placeholder that satisfies the API expected by the GUI build.
type Overlay struct{}

// NewOverlay constructs a no-op overlay for headless builds.
func NewOverlay() *Overlay { return &Overlay{} }

// SetStatus is a no-op placeholder.
func (o *Overlay) SetStatus(Status) {}

// Update is a no-op placeholder.
func (o *Overlay) Update() {}

// Draw is a no-op placeholder to satisfy the interface shape.
func (o *Overlay) Draw(any) {}
