package physics

import (
	"github.com/TFMV/colexgraph/models"
)

// LinkParams configures the springs built from the model.
type LinkParams struct {
	Distance float64
	// Strength is the spring strength of anchor links; for concept links it
	// scales the normalized link weight.
	Strength float64
}

// DefaultPrimary returns the parameters of the concept node layout.
func DefaultPrimary() (Params, LinkParams) {
	return Params{
			Name:     "concepts",
			Gravity:  1,
			Charge:   -3000,
			Friction: 0.9,
			Theta:    0.8,
		}, LinkParams{
			Distance: 50,
			Strength: 10,
		}
}

// DefaultLabels returns the parameters of the label anchor layout.
func DefaultLabels() (Params, LinkParams) {
	return Params{
			Name:     "labels",
			Gravity:  0,
			Charge:   -100,
			Friction: 0.9,
			Theta:    0.8,
		}, LinkParams{
			Distance: 0,
			Strength: 8,
		}
}

// NewPrimary creates the simulation of the concept nodes. Each link becomes
// a spring whose strength is its normalized weight times lp.Strength.
func NewPrimary(m *models.Model, p Params, lp LinkParams) *Simulation {
	bodies := make([]*models.Body, len(m.Nodes))
	for i := range m.Nodes {
		bodies[i] = &m.Nodes[i].Body
	}
	springs := make([]Spring, len(m.Links))
	for k, l := range m.Links {
		springs[k] = Spring{
			Source:   l.Source,
			Target:   l.Target,
			Distance: lp.Distance,
			Strength: l.NormalizedWeight * lp.Strength,
		}
	}
	return New(p, bodies, springs)
}

// NewLabels creates the simulation of the label anchors.
func NewLabels(m *models.Model, p Params, lp LinkParams) *Simulation {
	bodies := make([]*models.Body, len(m.Anchors))
	for i := range m.Anchors {
		bodies[i] = &m.Anchors[i].Body
	}
	springs := make([]Spring, len(m.AnchorLinks))
	for k, l := range m.AnchorLinks {
		springs[k] = Spring{
			Source:   l.Source,
			Target:   l.Target,
			Distance: lp.Distance,
			Strength: lp.Strength * l.Weight,
		}
	}
	return New(p, bodies, springs)
}
