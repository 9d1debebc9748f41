package sand

import "image/color"

var sandPalette = buildSandPalette()

// Palette exposes the color palette used for rendering the sand world.
// Display values index it directly: material ids first, then the agent slot.
func (w *World) Palette() []color.RGBA {
	return sandPalette
}

func buildSandPalette() []color.RGBA {
	palette := make([]color.RGBA, agentCell+1)
	palette[MatVoid] = color.RGBA{R: 12, G: 10, B: 18, A: 255}
	palette[MatWall] = color.RGBA{R: 104, G: 98, B: 92, A: 255}
	palette[MatStone] = color.RGBA{R: 66, G: 64, B: 70, A: 255}
	palette[MatSand] = color.RGBA{R: 212, G: 178, B: 98, A: 255}
	palette[MatWater] = color.RGBA{R: 52, G: 110, B: 198, A: 255}
	palette[MatPlant] = color.RGBA{R: 72, G: 158, B: 74, A: 255}
	palette[agentCell] = color.RGBA{R: 214, G: 70, B: 60, A: 255}
	return palette
}
