// Package layout drives the two coupled force simulations frame by frame:
// the concept simulation positions nodes, the label simulation keeps every
// label near its node while pushing labels apart. It also implements direct
// dragging of nodes.
package layout

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/TFMV/colexgraph/models"
	"github.com/TFMV/colexgraph/physics"
	"gonum.org/v1/gonum/spatial/r2"
)

// Options configures a Coordinator.
type Options struct {
	Primary      physics.Params
	PrimaryLinks physics.LinkParams
	Labels       physics.Params
	LabelLinks   physics.LinkParams

	// ShiftY is the constant vertical offset of every label glyph.
	ShiftY   float64
	Measurer Measurer
}

// DefaultOptions returns the layout parameters for a canvas of the given
// size less padding.
func DefaultOptions(size r2.Vec, seed int64) Options {
	p, pl := physics.DefaultPrimary()
	l, ll := physics.DefaultLabels()
	p.Size, l.Size = size, size
	p.Seed, l.Seed = seed, seed+1
	return Options{
		Primary:      p,
		PrimaryLinks: pl,
		Labels:       l,
		LabelLinks:   ll,
		ShiftY:       5,
		Measurer:     NewFaceMeasurer(12),
	}
}

// Coordinator owns both simulations of a model. It is not safe for
// concurrent use; callers serialize frames and drag events.
type Coordinator struct {
	model   *models.Model
	primary *physics.Simulation
	labels  *physics.Simulation
	widths  []float64
	shiftY  float64
	frames  int
	cooled  bool
	log     *slog.Logger
}

// New creates a coordinator over m. The simulations are not started.
func New(m *models.Model, opts Options, log *slog.Logger) *Coordinator {
	if log == nil {
		log = slog.Default()
	}
	if opts.Measurer == nil {
		opts.Measurer = NewFaceMeasurer(12)
	}
	c := &Coordinator{
		model:   m,
		primary: physics.NewPrimary(m, opts.Primary, opts.PrimaryLinks),
		labels:  physics.NewLabels(m, opts.Labels, opts.LabelLinks),
		widths:  make([]float64, len(m.Nodes)),
		shiftY:  opts.ShiftY,
		log:     log,
	}
	for i := range m.Nodes {
		c.widths[i] = opts.Measurer.Width(m.Nodes[i].Label)
	}
	return c
}

// Model returns the model the coordinator lays out.
func (c *Coordinator) Model() *models.Model { return c.model }

// Primary returns the concept simulation.
func (c *Coordinator) Primary() *physics.Simulation { return c.primary }

// Labels returns the label simulation.
func (c *Coordinator) Labels() *physics.Simulation { return c.labels }

// Frames returns the number of ticks performed.
func (c *Coordinator) Frames() int { return c.frames }

// Start places the nodes, pins the label anchors next to them and heats
// both simulations up.
func (c *Coordinator) Start() {
	c.primary.Start()
	for i := range c.model.Nodes {
		c.model.Anchors[models.PinnedAnchor(i)].SnapTo(c.model.Nodes[i].Pos)
	}
	c.labels.Start()
	c.cooled = false
	c.log.Debug("layout started",
		"nodes", len(c.model.Nodes),
		"links", len(c.model.Links),
		"anchors", len(c.model.Anchors))
}

// Frame runs one animation frame: a concept simulation step while it is
// still running, followed by a Tick.
func (c *Coordinator) Frame() {
	if c.primary.Running() {
		if c.primary.Step() && !c.cooled {
			c.cooled = true
			c.log.Debug("concept layout cooled down", "steps", c.primary.Steps(), "frame", c.frames)
		}
	}
	c.Tick()
}

// Run performs n frames.
func (c *Coordinator) Run(n int) {
	for i := 0; i < n; i++ {
		c.Frame()
	}
}

// Tick restarts and steps the label simulation, snaps every pinned anchor
// onto its node and recomputes the label glyph offsets. The label
// simulation is reheated on every tick so labels keep separating while
// nodes move.
func (c *Coordinator) Tick() {
	c.labels.Restart()
	c.labels.Step()

	m := c.model
	for i := range m.Nodes {
		node := m.Nodes[i].Pos

		pinned := &m.Anchors[models.PinnedAnchor(i)]
		pinned.SnapTo(node)
		pinned.Shift = r2.Vec{}

		label := &m.Anchors[models.LabelPoint(i)]
		label.Shift = LabelShift(label.Pos, node, c.widths[i], c.shiftY)
	}
	c.frames++
}

// LabelShift returns the glyph offset of a label drawn at anchor for a
// node at node. The label slides left as the anchor moves left of its node
// so the text never covers the node; a zero distance gives no horizontal
// shift.
func LabelShift(anchor, node r2.Vec, width, shiftY float64) r2.Vec {
	diff := r2.Sub(anchor, node)
	dist := r2.Norm(diff)
	if dist == 0 {
		return r2.Vec{Y: shiftY}
	}
	x := width * (diff.X - dist) / (2 * dist)
	return r2.Vec{X: math.Max(-width, math.Min(0, x)), Y: shiftY}
}

func (c *Coordinator) node(i int) (*models.Node, error) {
	n, err := c.model.Node(i)
	if err != nil {
		return nil, fmt.Errorf("drag: %w", err)
	}
	return n, nil
}

// DragStart pauses the concept simulation while node i is dragged.
func (c *Coordinator) DragStart(i int) error {
	if _, err := c.node(i); err != nil {
		return err
	}
	c.primary.Stop()
	return nil
}

// DragMove moves node i by d, carrying its velocity along, and ticks
// immediately so the labels follow.
func (c *Coordinator) DragMove(i int, d r2.Vec) error {
	n, err := c.node(i)
	if err != nil {
		return err
	}
	n.MoveBy(d)
	c.Tick()
	return nil
}

// DragEnd pins node i where it was dropped and resumes the concept
// simulation. The node stays fixed from now on.
func (c *Coordinator) DragEnd(i int) error {
	n, err := c.node(i)
	if err != nil {
		return err
	}
	n.Fixed = true
	n.SnapTo(n.Pos)
	c.Tick()
	c.primary.Resume()
	c.cooled = false
	c.log.Debug("node fixed", "node", i, "id", n.ID, "x", n.Pos.X, "y", n.Pos.Y)
	return nil
}
