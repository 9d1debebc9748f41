package spatial

// Bitmap stores one bit per cell for a fixed width×height domain, packed
// 64 cells to a word in row-major order.
type Bitmap struct {
	w, h  int
	words []uint64
}

// NewBitmap allocates a cleared bitmap with the given dimensions.
func NewBitmap(w, h int) (*Bitmap, error) {
	if w <= 0 || h <= 0 {
		return nil, ErrInvalidDimension
	}
	return &Bitmap{w: w, h: h, words: make([]uint64, (w*h+63)/64)}, nil
}

// Width reports the horizontal extent of the bitmap.
func (b *Bitmap) Width() int { return b.w }

// Height reports the vertical extent of the bitmap.
func (b *Bitmap) Height() int { return b.h }

// Set marks cell (x, y). Out-of-range coordinates panic with ErrOutOfBounds.
func (b *Bitmap) Set(x, y int) {
	b.checkBounds(x, y)
	idx := y*b.w + x
	b.words[idx>>6] |= 1 << uint(idx&63)
}

// Clear unmarks cell (x, y). Out-of-range coordinates panic with ErrOutOfBounds.
func (b *Bitmap) Clear(x, y int) {
	b.checkBounds(x, y)
	idx := y*b.w + x
	b.words[idx>>6] &^= 1 << uint(idx&63)
}

// Test reports whether cell (x, y) is marked. Out-of-range coordinates panic
// with ErrOutOfBounds; boundary defaults apply only through Neighborhood3x3.
func (b *Bitmap) Test(x, y int) bool {
	b.checkBounds(x, y)
	return b.testIndex(y*b.w + x)
}

// Neighborhood3x3 packs the 3×3 window around (x, y) into a 9-bit mask with
// bit (dy+1)*3+(dx+1) set iff the neighbor at (x+dx, y+dy) is marked.
// Neighbors outside the domain contribute a zero bit. The center coordinate
// itself must be in range.
func (b *Bitmap) Neighborhood3x3(x, y int) uint16 {
	b.checkBounds(x, y)
	var mask uint16
	k := 0
	for dy := -1; dy <= 1; dy++ {
		ny := y + dy
		for dx := -1; dx <= 1; dx++ {
			nx := x + dx
			if nx >= 0 && nx < b.w && ny >= 0 && ny < b.h && b.testIndex(ny*b.w+nx) {
				mask |= 1 << uint(k)
			}
			k++
		}
	}
	return mask
}

func (b *Bitmap) testIndex(idx int) bool {
	return b.words[idx>>6]&(1<<uint(idx&63)) != 0
}

func (b *Bitmap) checkBounds(x, y int) {
	if x < 0 || x >= b.w || y < 0 || y >= b.h {
		panic(outOfBounds(x, y, b.w, b.h))
	}
}
