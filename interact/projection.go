package interact

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Projection maps a (lon, lat) coordinate in degrees onto map pixels.
type Projection func(lon, lat float64) r2.Vec

// Equirectangular is the plate carrée projection of the inset map.
type Equirectangular struct {
	Center    r2.Vec // lon, lat in degrees drawn at Translate
	Translate r2.Vec
	Scale     float64
}

// DefaultMapProjection returns the projection of the 300x200 inset map.
func DefaultMapProjection() Equirectangular {
	return Equirectangular{
		Center:    r2.Vec{X: 65, Y: 25},
		Translate: r2.Vec{X: 210, Y: 53},
		Scale:     48,
	}
}

// Project implements Projection.
func (e Equirectangular) Project(lon, lat float64) r2.Vec {
	const rad = math.Pi / 180
	return r2.Vec{
		X: e.Translate.X + e.Scale*(lon-e.Center.X)*rad,
		Y: e.Translate.Y - e.Scale*(lat-e.Center.Y)*rad,
	}
}
