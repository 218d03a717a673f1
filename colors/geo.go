package colors

import (
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

const tau = 2 * math.Pi

// Lab is a CIE L*a*b* triple with L in [0, 100] and a, b in [-128, 127].
type Lab struct {
	L, A, B float64
}

// GeoLab maps a geographic coordinate onto the Lab color wheel: longitude
// turns the hue, latitude raises lightness and chroma.
func GeoLab(lon, lat float64) Lab {
	u := Rescale(lon, -180, 180, 0, 1)
	v := Rescale(lat, -90, 90, 0, 1)

	l := 0.61*v + 0.09
	angle := tau/6 - u*tau
	r := 0.311*v + 0.125
	a := math.Sin(angle) * r
	b := math.Cos(angle) * r

	return Lab{
		L: l * 100,
		A: clamp(a*128, -128, 127),
		B: clamp(b*128, -128, 127),
	}
}

// Color converts the Lab triple to display RGB (D65 white point).
func (c Lab) Color() RGB {
	return FromColorful(colorful.Lab(c.L/100, c.A/100, c.B/100))
}

// Geo returns the display color of a geographic coordinate. Nearby
// coordinates get nearby colors.
func Geo(lon, lat float64) RGB {
	return GeoLab(lon, lat).Color()
}
