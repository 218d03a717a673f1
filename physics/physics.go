// Package physics implements the force simulation that lays out the concept
// nodes and their label anchors. Bodies are integrated with position Verlet:
// springs pull linked bodies towards a rest length, a charge pushes every
// pair of bodies apart and gravity pulls everything towards the centre.
// The simulation cools down by decaying alpha on every step.
package physics

import (
	"math"

	"github.com/TFMV/colexgraph/models"
	"gonum.org/v1/gonum/spatial/r2"
)

const (
	startAlpha  = 0.1
	coolingRate = 0.99
	minAlpha    = 0.005
)

// Params configures a simulation.
type Params struct {
	Name     string
	Size     r2.Vec  // extent the bodies are placed in; gravity pulls to its centre
	Gravity  float64 // pull towards the centre
	Charge   float64 // negative values repel
	Friction float64 // velocity retained per step
	Theta    float64 // Barnes-Hut opening angle; 0 computes exact sums
	Seed     int64   // seed of the initial placement
}

// Spring joins two bodies. Strength is scaled by alpha on every step.
type Spring struct {
	Source   int
	Target   int
	Distance float64
	Strength float64
}

// Simulation integrates a set of bodies under spring, gravity and charge
// forces.
type Simulation struct {
	params  Params
	bodies  []*models.Body
	springs []Spring
	degree  []float64
	alpha   float64
	steps   int
	placer  *placer
}

// New creates a stopped simulation over bodies and springs. Springs whose
// endpoints are out of range are dropped.
func New(params Params, bodies []*models.Body, springs []Spring) *Simulation {
	if params.Friction == 0 {
		params.Friction = 0.9
	}
	s := &Simulation{
		params: params,
		bodies: bodies,
		degree: make([]float64, len(bodies)),
		placer: newPlacer(params.Seed, params.Size),
	}
	for _, sp := range springs {
		if sp.Source < 0 || sp.Source >= len(bodies) || sp.Target < 0 || sp.Target >= len(bodies) {
			continue
		}
		s.springs = append(s.springs, sp)
		s.degree[sp.Source]++
		s.degree[sp.Target]++
	}
	return s
}

// Name returns the configured name of the simulation.
func (s *Simulation) Name() string {
	return s.params.Name
}

// Start places every body without a position and heats the simulation up.
func (s *Simulation) Start() {
	for i, b := range s.bodies {
		if !b.Placed {
			near, ok := s.neighborPosition(i)
			b.SnapTo(s.placer.position(i, near, ok))
		}
	}
	s.alpha = startAlpha
}

// Restart heats the simulation up without touching positions.
func (s *Simulation) Restart() {
	s.alpha = startAlpha
}

// Resume continues a stopped or cooled simulation.
func (s *Simulation) Resume() {
	s.alpha = startAlpha
}

// Stop halts integration; Step is a no-op until the next Resume.
func (s *Simulation) Stop() {
	s.alpha = 0
}

// Running reports whether Step still moves bodies.
func (s *Simulation) Running() bool {
	return s.alpha > 0
}

// Alpha returns the current temperature.
func (s *Simulation) Alpha() float64 {
	return s.alpha
}

// Steps returns the number of integration steps applied so far.
func (s *Simulation) Steps() int {
	return s.steps
}

// Step advances the simulation by one integration step. It returns true
// once the simulation has cooled down, in which case nothing moved.
func (s *Simulation) Step() bool {
	s.alpha *= coolingRate
	if s.alpha < minAlpha {
		s.alpha = 0
		return true
	}

	s.applySprings()
	s.applyGravity()
	s.applyCharge()
	s.integrate()

	s.steps++
	return false
}

func (s *Simulation) applySprings() {
	for _, sp := range s.springs {
		src, dst := s.bodies[sp.Source], s.bodies[sp.Target]
		d := r2.Sub(dst.Pos, src.Pos)
		l := r2.Norm(d)
		if l == 0 {
			continue
		}
		k := s.alpha * sp.Strength * (l - sp.Distance) / l
		d = r2.Scale(k, d)

		w := s.degree[sp.Source] / (s.degree[sp.Source] + s.degree[sp.Target])
		dst.Pos = r2.Sub(dst.Pos, r2.Scale(w, d))
		src.Pos = r2.Add(src.Pos, r2.Scale(1-w, d))
	}
}

func (s *Simulation) applyGravity() {
	k := s.alpha * s.params.Gravity
	if k == 0 {
		return
	}
	center := r2.Scale(0.5, s.params.Size)
	for _, b := range s.bodies {
		b.Pos = r2.Add(b.Pos, r2.Scale(k, r2.Sub(center, b.Pos)))
	}
}

func (s *Simulation) integrate() {
	for _, b := range s.bodies {
		if b.Fixed {
			b.Pos = b.Prev
			continue
		}
		v := r2.Scale(s.params.Friction, b.Velocity())
		b.Prev = b.Pos
		b.Pos = r2.Add(b.Pos, v)
	}
}

// neighborPosition returns the position of an already placed body linked
// to body i, if any.
func (s *Simulation) neighborPosition(i int) (r2.Vec, bool) {
	for _, sp := range s.springs {
		var other int
		switch i {
		case sp.Source:
			other = sp.Target
		case sp.Target:
			other = sp.Source
		default:
			continue
		}
		if b := s.bodies[other]; b.Placed {
			return b.Pos, true
		}
	}
	return r2.Vec{}, false
}

// Energy returns the summed squared velocity of all free bodies.
func (s *Simulation) Energy() float64 {
	var e float64
	for _, b := range s.bodies {
		if b.Fixed {
			continue
		}
		e += r2.Norm2(b.Velocity())
	}
	if math.IsNaN(e) {
		return math.Inf(1)
	}
	return e
}
