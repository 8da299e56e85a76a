package raster

import "fmt"

// CompositeOperation selects the blend rule used by Composite.
type CompositeOperation int

// Composite operations.
const (
	// Over places the top image over the bottom one with non-premultiplied
	// alpha.
	Over CompositeOperation = iota
)

func (op CompositeOperation) String() string {
	switch op {
	case Over:
		return "over"
	default:
		return fmt.Sprintf("composite(%d)", int(op))
	}
}

// ParseCompositeOperation converts an operation name to a CompositeOperation.
func ParseCompositeOperation(name string) (CompositeOperation, error) {
	switch name {
	case "over", "":
		return Over, nil
	default:
		return 0, fmt.Errorf("%w: unknown composite operation %q", ErrInvalidArgument, name)
	}
}

// Composite blends top over img in place.
//
// For Over, with a the top alpha and b the bottom alpha:
//
//	colour = a*top + b*(1-a)*bottom
//	alpha  = a + b*(1-a)
//
// top must have the same dimensions as img; otherwise ErrDimensionMismatch is
// returned and img is unchanged. An unknown operation returns
// ErrInvalidArgument.
func (img *Image) Composite(top *Image, op CompositeOperation) error {
	if !img.SameSize(top) {
		return fmt.Errorf("failed to composite: %w: top %dx%d, bottom %dx%d",
			ErrDimensionMismatch, top.width, top.height, img.width, img.height)
	}
	if op != Over {
		logger.Printf("invalid composite operation (%d)", int(op))
		return fmt.Errorf("%w: composite operation %d", ErrInvalidArgument, int(op))
	}

	w := img.width
	forEachRow(img.height, func(y int) {
		for i := y * w; i < (y+1)*w; i++ {
			t, b := top.pixels[i], img.pixels[i]
			out := t.Scale(t.A).Add(b.Scale(b.A * (1 - t.A)))
			out.A = t.A + b.A*(1-t.A)
			img.pixels[i] = out
		}
	})
	return nil
}
