package raster

import (
	"fmt"

	"github.com/anthonynsimon/bild/math/f64"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// Channel identifies one component of a Pixel.
type Channel int

// Pixel channels in storage order.
const (
	Red Channel = iota
	Green
	Blue
	Alpha
)

// NumChannels is the number of channels in a Pixel.
const NumChannels = 4

// Luminance weights (ITU-R BT.601).
const (
	lumaRed   = 0.299
	lumaGreen = 0.587
	lumaBlue  = 0.114
)

// String returns the lower-case channel name.
func (c Channel) String() string {
	switch c {
	case Red:
		return "red"
	case Green:
		return "green"
	case Blue:
		return "blue"
	case Alpha:
		return "alpha"
	default:
		return fmt.Sprintf("channel(%d)", int(c))
	}
}

// Valid reports whether c names one of the four channels.
func (c Channel) Valid() bool {
	return c >= Red && c <= Alpha
}

// ParseChannel converts a channel name ("red", "r", "green", ...) to a Channel.
func ParseChannel(name string) (Channel, error) {
	switch name {
	case "red", "r":
		return Red, nil
	case "green", "g":
		return Green, nil
	case "blue", "b":
		return Blue, nil
	case "alpha", "a":
		return Alpha, nil
	default:
		return 0, fmt.Errorf("%w: unknown channel %q", ErrInvalidArgument, name)
	}
}

// Pixel is an RGBA colour with float64 channels.
//
// Channels are nominally in [0,1] but may leave that range during
// intermediate arithmetic; call Clamp to saturate them.
type Pixel struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
	A float64 `json:"a"`
}

// Black is opaque black, the value returned for failed samples.
var Black = Pixel{A: 1}

// RGBA returns a pixel with the given channels.
func RGBA(r, g, b, a float64) Pixel {
	return Pixel{R: r, G: g, B: b, A: a}
}

// Gray returns an opaque pixel whose colour channels all equal v.
func Gray(v float64) Pixel {
	return Pixel{R: v, G: v, B: v, A: 1}
}

// Channel returns the value of channel c, or 0 if c is invalid.
func (p Pixel) Channel(c Channel) float64 {
	switch c {
	case Red:
		return p.R
	case Green:
		return p.G
	case Blue:
		return p.B
	case Alpha:
		return p.A
	}
	return 0
}

// SetChannel returns a copy of p with channel c set to v.
func (p Pixel) SetChannel(c Channel, v float64) Pixel {
	switch c {
	case Red:
		p.R = v
	case Green:
		p.G = v
	case Blue:
		p.B = v
	case Alpha:
		p.A = v
	}
	return p
}

// Add returns the channel-wise sum p+q.
func (p Pixel) Add(q Pixel) Pixel {
	return Pixel{R: p.R + q.R, G: p.G + q.G, B: p.B + q.B, A: p.A + q.A}
}

// Scale returns p with every channel multiplied by k.
func (p Pixel) Scale(k float64) Pixel {
	return Pixel{R: p.R * k, G: p.G * k, B: p.B * k, A: p.A * k}
}

// Lerp returns (1-t)*p + t*q. Values of t outside [0,1] extrapolate.
func (p Pixel) Lerp(q Pixel, t float64) Pixel {
	return p.Scale(1 - t).Add(q.Scale(t))
}

// Luminance projects the colour channels onto a single brightness value.
func (p Pixel) Luminance() float64 {
	return lumaRed*p.R + lumaGreen*p.G + lumaBlue*p.B
}

// Clamp saturates every channel to [0,1].
func (p Pixel) Clamp() Pixel {
	return Pixel{
		R: f64.Clamp(p.R, 0, 1),
		G: f64.Clamp(p.G, 0, 1),
		B: f64.Clamp(p.B, 0, 1),
		A: f64.Clamp(p.A, 0, 1),
	}
}

// Color converts the colour channels to a go-colorful value for hex and HSL
// reporting. Alpha is dropped.
func (p Pixel) Color() colorful.Color {
	return colorful.Color{R: p.R, G: p.G, B: p.B}.Clamped()
}

// String formats the pixel as "(r, g, b, a)".
func (p Pixel) String() string {
	return fmt.Sprintf("(%g, %g, %g, %g)", p.R, p.G, p.B, p.A)
}
