package physics

import (
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"
	"gonum.org/v1/gonum/spatial/r2"
)

// placer hands out deterministic initial positions sampled from simplex
// noise, so a given seed always yields the same starting layout.
type placer struct {
	noise opensimplex.Noise
	size  r2.Vec
}

func newPlacer(seed int64, size r2.Vec) *placer {
	return &placer{noise: opensimplex.New(seed), size: size}
}

// unit samples the noise field for body i along one axis, in [0, 1].
func (p *placer) unit(i, axis int) float64 {
	v := p.noise.Eval2(float64(i)*7.31+0.37, float64(axis)*97.13+0.59)
	return math.Max(0, math.Min(1, (v+1)/2))
}

// position returns the starting point of body i. Bodies with an already
// placed neighbor start next to it, the others anywhere inside the size.
func (p *placer) position(i int, near r2.Vec, ok bool) r2.Vec {
	u := r2.Vec{X: p.unit(i, 0), Y: p.unit(i, 1)}
	if ok {
		return r2.Add(near, r2.Vec{X: 2*u.X - 1, Y: 2*u.Y - 1})
	}
	return r2.Vec{X: u.X * p.size.X, Y: u.Y * p.size.Y}
}
