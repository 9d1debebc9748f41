package spatial

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidDimension reports a zero or negative grid dimension.
	ErrInvalidDimension = errors.New("spatial: width and height must be positive")

	// ErrOutOfBounds reports a coordinate outside the grid domain. It is
	// raised as a panic value: an out-of-range coordinate is a caller bug,
	// not a recoverable runtime condition.
	ErrOutOfBounds = errors.New("spatial: coordinate out of bounds")

	// ErrMaterialOverflow reports a material id that does not fit the
	// 4-bit packing budget.
	ErrMaterialOverflow = errors.New("spatial: material id exceeds 4-bit packing budget")
)

func outOfBounds(x, y, w, h int) error {
	return fmt.Errorf("%w: (%d,%d) outside %dx%d", ErrOutOfBounds, x, y, w, h)
}

func materialOverflow(m Material, x, y int) error {
	return fmt.Errorf("%w: id %d at (%d,%d)", ErrMaterialOverflow, m, x, y)
}
