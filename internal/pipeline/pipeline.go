package pipeline

import (
	"fmt"
	"math/rand/v2"

	"github.com/ironsheep/raster-tools/internal/raster"
)

// StepError identifies the step of a chain that failed.
type StepError struct {
	Index int
	Op    Op
	Err   error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (%s): %v", e.Index+1, e.Op, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// Options configures Apply.
type Options struct {
	// Rand drives noise steps. Nil means a randomly seeded generator.
	Rand *rand.Rand
}

// Validate checks every step of a chain. The returned error is a
// *StepError for the first invalid step.
func Validate(steps []Step) error {
	for i, s := range steps {
		if err := s.Validate(); err != nil {
			return &StepError{Index: i, Op: s.Op, Err: err}
		}
	}
	return nil
}

// Apply runs steps against img in order. The chain is validated first and
// applied to a copy that replaces img only when every step succeeds.
func Apply(img *raster.Image, steps []Step, opts Options) error {
	if err := Validate(steps); err != nil {
		return err
	}
	work := img.Clone()
	for i, s := range steps {
		if err := apply(work, s, opts); err != nil {
			return &StepError{Index: i, Op: s.Op, Err: err}
		}
	}
	img.Assign(work)
	return nil
}

func apply(img *raster.Image, s Step, opts Options) error {
	switch s.Op {
	case OpGamma:
		return img.ApplyGamma(s.Value)
	case OpBrighten:
		img.Brighten(s.Value)
	case OpContrast:
		img.ChangeContrast(s.Value)
	case OpNoise:
		img.AddNoise(s.Value, opts.Rand)
	case OpExtract:
		c, err := raster.ParseChannel(s.Channel)
		if err != nil {
			return err
		}
		return img.ExtractChannel(c)
	case OpBlur:
		return img.Blur(s.Value)
	case OpSharpen:
		img.Sharpen()
	case OpEdge:
		img.EdgeDetect()
	case OpScale:
		m, err := s.method()
		if err != nil {
			return err
		}
		return img.Scale(s.SX, s.SY, m)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownOp, s.Op)
	}
	return nil
}
