package sand

import "fallsand/pkg/spatial"

// agentCell is the display-buffer value used to paint agents. It sits past
// the material ids and never enters the cell grid.
const agentCell uint8 = 6

// Agent is a grazing creature living on top of the grid. Its entire
// perception is the two neighborhood queries of the spatial view; it never
// touches raw cells.
type Agent struct {
	X, Y int
	Fed  int
}

// stepAgents grazes and moves every agent against the tick's snapshot view.
func (w *World) stepAgents(view spatial.View) {
	for i := range w.agents {
		w.stepAgent(view, &w.agents[i])
	}
}

func (w *World) stepAgent(view spatial.View, a *Agent) {
	mask := view.EmptyNeighborhood(a.X, a.Y)
	word := view.MaterialNeighborhood(a.X, a.Y)

	// Graze the first adjacent plant.
	for k := 0; k < spatial.NeighborCount; k++ {
		if k == spatial.NeighborCenter {
			continue
		}
		if spatial.NeighborMaterial(word, k) == MatPlant {
			dx, dy := spatial.NeighborOffset(k)
			w.next[(a.Y+dy)*w.w+(a.X+dx)] = MatVoid
			a.Fed++
			break
		}
	}

	// Gravity wins: the boundary policy reads out-of-bounds as occupied,
	// so agents never fall off the grid.
	if spatial.NeighborEmpty(mask, kDown) {
		a.Y++
		return
	}

	// Otherwise wander somewhere open.
	var open []int
	for _, k := range [...]int{kLeft, kRight, kUp} {
		if spatial.NeighborEmpty(mask, k) {
			open = append(open, k)
		}
	}
	if len(open) == 0 {
		return
	}
	dx, dy := spatial.NeighborOffset(open[w.rng.IntN(len(open))])
	a.X += dx
	a.Y += dy
}
