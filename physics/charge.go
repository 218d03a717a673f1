package physics

import (
	"math"

	"gonum.org/v1/gonum/spatial/barneshut"
	"gonum.org/v1/gonum/spatial/r2"
)

// particle adapts a body position to the Barnes-Hut plane. Every body
// carries the same unit charge.
type particle struct {
	pos r2.Vec
}

func (p *particle) Coord2() r2.Vec { return p.pos }
func (p *particle) Mass() float64  { return 1 }

// applyCharge pushes every free body away from all other bodies. Charge acts
// on the previous position so it feeds into the Verlet velocity.
func (s *Simulation) applyCharge() {
	if s.params.Charge == 0 || len(s.bodies) < 2 {
		return
	}
	k := s.alpha * s.params.Charge

	if s.params.Theta > 0 && !s.coincident() {
		if s.chargeApprox(k) {
			return
		}
	}
	s.chargeExact(k)
}

// chargeApprox applies the Barnes-Hut approximation. It reports false if
// the plane could not be built.
func (s *Simulation) chargeApprox(k float64) bool {
	particles := make([]barneshut.Particle2, len(s.bodies))
	for i, b := range s.bodies {
		particles[i] = &particle{pos: b.Pos}
	}
	plane, err := barneshut.NewPlane(particles)
	if err != nil {
		return false
	}

	repulse := func(_, _ barneshut.Particle2, _, m2 float64, v r2.Vec) r2.Vec {
		d2 := r2.Norm2(v)
		if d2 == 0 {
			return r2.Vec{}
		}
		return r2.Scale(k*m2/d2, v)
	}
	for i, b := range s.bodies {
		if b.Fixed {
			continue
		}
		f := plane.ForceOn(particles[i], s.params.Theta, repulse)
		b.Prev = r2.Sub(b.Prev, f)
	}
	return true
}

func (s *Simulation) chargeExact(k float64) {
	for i, b := range s.bodies {
		if b.Fixed {
			continue
		}
		for j, o := range s.bodies {
			if i == j {
				continue
			}
			v := r2.Sub(o.Pos, b.Pos)
			d2 := r2.Norm2(v)
			if d2 == 0 {
				v, d2 = jitter(i, j), 1
			}
			b.Prev = r2.Sub(b.Prev, r2.Scale(k/d2, v))
		}
	}
}

// goldenAngle spreads the jitter directions of successive pairs.
var goldenAngle = math.Pi * (3 - math.Sqrt(5))

// jitter returns the unit direction from body i to body j when both share a
// position. The direction depends only on the pair, and jitter(j, i) is
// its opposite, so coincident bodies are pushed apart deterministically.
func jitter(i, j int) r2.Vec {
	lo, hi := min(i, j), max(i, j)
	a := float64(lo*31+hi) * goldenAngle
	u := r2.Vec{X: math.Cos(a), Y: math.Sin(a)}
	if i > j {
		u = r2.Scale(-1, u)
	}
	return u
}

// coincident reports whether two bodies share a position; the quadtree
// cannot separate them.
func (s *Simulation) coincident() bool {
	seen := make(map[r2.Vec]struct{}, len(s.bodies))
	for _, b := range s.bodies {
		if _, ok := seen[b.Pos]; ok {
			return true
		}
		seen[b.Pos] = struct{}{}
	}
	return false
}
