package pipeline

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ironsheep/raster-tools/internal/raster"
)

// Op names a pipeline operation.
type Op string

// Supported operations.
const (
	OpGamma    Op = "gamma"
	OpBrighten Op = "brighten"
	OpContrast Op = "contrast"
	OpNoise    Op = "noise"
	OpExtract  Op = "extract"
	OpBlur     Op = "blur"
	OpSharpen  Op = "sharpen"
	OpEdge     Op = "edge"
	OpScale    Op = "scale"
)

// Ops lists every operation in the order they are documented.
var Ops = []Op{OpGamma, OpBrighten, OpContrast, OpNoise, OpExtract, OpBlur, OpSharpen, OpEdge, OpScale}

// ErrUnknownOp reports a step whose Op is not one of Ops.
var ErrUnknownOp = errors.New("unknown operation")

// Step is one operation in a chain.
//
// Value carries the single numeric argument of gamma (exponent), brighten
// and contrast (factor), noise (magnitude) and blur (sigma). Channel is read
// by extract. SX, SY and Method are read by scale; an empty Method means
// Gaussian resampling.
type Step struct {
	Op      Op      `json:"op"`
	Value   float64 `json:"value,omitempty"`
	Channel string  `json:"channel,omitempty"`
	SX      float64 `json:"sx,omitempty"`
	SY      float64 `json:"sy,omitempty"`
	Method  string  `json:"method,omitempty"`
}

// Validate checks the step's arguments without applying it.
func (s Step) Validate() error {
	switch s.Op {
	case OpGamma, OpBlur:
		if !finite(s.Value) || s.Value < 0 {
			return fmt.Errorf("%w: %s needs a non-negative value, got %g", raster.ErrInvalidArgument, s.Op, s.Value)
		}
	case OpBrighten, OpContrast, OpNoise:
		if !finite(s.Value) {
			return fmt.Errorf("%w: %s value %g", raster.ErrInvalidArgument, s.Op, s.Value)
		}
	case OpExtract:
		if _, err := raster.ParseChannel(s.Channel); err != nil {
			return err
		}
	case OpScale:
		if !finite(s.SX) || !finite(s.SY) || s.SX <= 0 || s.SY <= 0 {
			return fmt.Errorf("%w: scale factors %gx%g", raster.ErrInvalidArgument, s.SX, s.SY)
		}
		if _, err := s.method(); err != nil {
			return err
		}
	case OpSharpen, OpEdge:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownOp, s.Op)
	}
	return nil
}

func (s Step) method() (raster.SamplingMethod, error) {
	if s.Method == "" {
		return raster.GaussianSampling, nil
	}
	return raster.ParseSamplingMethod(s.Method)
}

// String renders the step in the compact form accepted by ParseStep.
func (s Step) String() string {
	switch s.Op {
	case OpGamma, OpBrighten, OpContrast, OpNoise, OpBlur:
		return string(s.Op) + ":" + formatFloat(s.Value)
	case OpExtract:
		return string(s.Op) + ":" + s.Channel
	case OpScale:
		out := string(s.Op) + ":" + formatFloat(s.SX) + "," + formatFloat(s.SY)
		if s.Method != "" {
			out += "," + s.Method
		}
		return out
	default:
		return string(s.Op)
	}
}

// ParseStep parses the compact "op" or "op:arg[,arg...]" form. A scale step
// takes one factor for both axes or two factors, optionally followed by a
// sampling method name.
func ParseStep(text string) (Step, error) {
	name, args, hasArgs := strings.Cut(strings.TrimSpace(text), ":")
	s := Step{Op: Op(strings.ToLower(strings.TrimSpace(name)))}
	var fields []string
	if hasArgs {
		for _, f := range strings.Split(args, ",") {
			fields = append(fields, strings.TrimSpace(f))
		}
	}

	var err error
	switch s.Op {
	case OpGamma, OpBrighten, OpContrast, OpNoise, OpBlur:
		if len(fields) != 1 {
			return s, fmt.Errorf("%w: %s takes one value", raster.ErrInvalidArgument, s.Op)
		}
		s.Value, err = parseFloat(fields[0])
	case OpExtract:
		if len(fields) != 1 {
			return s, fmt.Errorf("%w: extract takes one channel", raster.ErrInvalidArgument)
		}
		s.Channel = strings.ToLower(fields[0])
	case OpSharpen, OpEdge:
		if len(fields) != 0 {
			return s, fmt.Errorf("%w: %s takes no arguments", raster.ErrInvalidArgument, s.Op)
		}
	case OpScale:
		s, err = parseScale(s, fields)
	default:
		return s, fmt.Errorf("%w: %q", ErrUnknownOp, name)
	}
	if err != nil {
		return s, err
	}
	return s, s.Validate()
}

func parseScale(s Step, fields []string) (Step, error) {
	if len(fields) > 0 {
		if _, err := strconv.ParseFloat(fields[len(fields)-1], 64); err != nil {
			s.Method = strings.ToLower(fields[len(fields)-1])
			fields = fields[:len(fields)-1]
		}
	}
	var err error
	switch len(fields) {
	case 1:
		if s.SX, err = parseFloat(fields[0]); err == nil {
			s.SY = s.SX
		}
	case 2:
		if s.SX, err = parseFloat(fields[0]); err == nil {
			s.SY, err = parseFloat(fields[1])
		}
	default:
		err = fmt.Errorf("%w: scale takes one or two factors", raster.ErrInvalidArgument)
	}
	return s, err
}

// ParseSteps parses each element with ParseStep.
func ParseSteps(texts []string) ([]Step, error) {
	steps := make([]Step, 0, len(texts))
	for i, text := range texts {
		s, err := ParseStep(text)
		if err != nil {
			return nil, &StepError{Index: i, Op: s.Op, Err: err}
		}
		steps = append(steps, s)
	}
	return steps, nil
}

func parseFloat(text string) (float64, error) {
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bad number %q", raster.ErrInvalidArgument, text)
	}
	return v, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
