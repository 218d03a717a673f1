// Package colors maps link weights and lexical records onto display values:
// linear weight normalization, a categorical family palette, a color derived
// from geographic coordinates and a text contrast decision.
package colors

import (
	"fmt"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/floats"
)

// MaxWeight returns the largest weight, or 0 when there are none.
func MaxWeight(weights []float64) float64 {
	if len(weights) == 0 {
		return 0
	}
	return floats.Max(weights)
}

// Normalize rescales raw linearly from [0, max] onto [0, 1]. A zero max
// normalizes everything to 0.
func Normalize(raw, max float64) float64 {
	if max == 0 {
		return 0
	}
	return clamp(raw/max, 0, 1)
}

// Rescale maps v linearly from [d0, d1] onto [r0, r1] without clamping.
func Rescale(v, d0, d1, r0, r1 float64) float64 {
	if d1 == d0 {
		return r0
	}
	return r0 + (v-d0)/(d1-d0)*(r1-r0)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// RGB is an 8-bit display color.
type RGB struct {
	R, G, B uint8
}

// FromColorful converts a go-colorful color, clamping it into the gamut.
func FromColorful(c colorful.Color) RGB {
	r, g, b := c.Clamped().RGB255()
	return RGB{R: r, G: g, B: b}
}

// ParseHex parses a "#rrggbb" string.
func ParseHex(s string) (RGB, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return RGB{}, err
	}
	return FromColorful(c), nil
}

// Hex formats the color as "#rrggbb".
func (c RGB) Hex() string {
	return colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}.Hex()
}

// Contrast is the text color to draw over a background.
type Contrast int

const (
	// Dark text on a light background.
	Dark Contrast = iota
	// Light text on a dark background.
	Light
)

// contrastThreshold is the luminance boundary between Light and Dark.
const contrastThreshold = 125

// Text returns the CSS color of the text.
func (c Contrast) Text() string {
	if c == Light {
		return "#eee"
	}
	return "#000"
}

func (c Contrast) String() string {
	if c == Light {
		return "light"
	}
	return "dark"
}

// Luminance returns the perceived brightness of c on a 0-255 scale.
func Luminance(c RGB) float64 {
	return 0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B)
}

// TextContrast picks light text for backgrounds darker than the threshold
// and dark text otherwise.
func TextContrast(c RGB) Contrast {
	if Luminance(c) < contrastThreshold {
		return Light
	}
	return Dark
}

// MarshalText encodes the color as "#rrggbb".
func (c RGB) MarshalText() ([]byte, error) {
	return []byte(c.Hex()), nil
}

// MarshalText encodes the contrast as its CSS text color.
func (c Contrast) MarshalText() ([]byte, error) {
	return []byte(c.Text()), nil
}

// UnmarshalText decodes a "#rrggbb" color.
func (c *RGB) UnmarshalText(text []byte) error {
	v, err := ParseHex(string(text))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// UnmarshalText decodes a CSS text color written by MarshalText.
func (c *Contrast) UnmarshalText(text []byte) error {
	switch string(text) {
	case Light.Text():
		*c = Light
	case Dark.Text():
		*c = Dark
	default:
		return fmt.Errorf("unknown text color %q", text)
	}
	return nil
}
