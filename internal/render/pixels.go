package render

import "image/color"

// fillPaletteRGBA converts cell values into RGBA pixels using a palette.
// Values past the palette clamp to its last entry; an empty palette clears
// the buffer to transparent black.
func fillPaletteRGBA(buf []byte, cells []uint8, palette []color.RGBA) {
	if len(palette) == 0 {
		for i := range cells {
			base := i * 4
			buf[base+0] = 0
			buf[base+1] = 0
			buf[base+2] = 0
			buf[base+3] = 0
		}
		return
	}

	last := len(palette) - 1
	for i, c := range cells {
		idx := int(c)
		if idx > last {
			idx = last
		}
		base := i * 4
		col := palette[idx]
		buf[base+0] = col.R
		buf[base+1] = col.G
		buf[base+2] = col.B
		buf[base+3] = col.A
	}
}

// grayscalePalette builds an n-entry ramp for sims that expose no palette.
func grayscalePalette(n int) []color.RGBA {
	if n < 2 {
		n = 2
	}
	palette := make([]color.RGBA, n)
	for i := range palette {
		v := uint8(i * 255 / (n - 1))
		palette[i] = color.RGBA{R: v, G: v, B: v, A: 255}
	}
	return palette
}
