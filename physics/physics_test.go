package physics

import (
	"math"
	"testing"

	"github.com/TFMV/colexgraph/models"
	"gonum.org/v1/gonum/spatial/r2"
)

func bodiesAt(points ...r2.Vec) []*models.Body {
	out := make([]*models.Body, len(points))
	for i, p := range points {
		b := &models.Body{}
		b.SnapTo(p)
		out[i] = b
	}
	return out
}

func dist(a, b *models.Body) float64 {
	return r2.Norm(r2.Sub(a.Pos, b.Pos))
}

func TestStepCoolsDown(t *testing.T) {
	s := New(Params{Size: r2.Vec{X: 100, Y: 100}}, bodiesAt(r2.Vec{X: 10, Y: 10}), nil)
	s.Start()

	moving := 0
	for !s.Step() {
		moving++
		if moving > 1000 {
			t.Fatal("simulation never cooled down")
		}
	}
	if moving != 298 {
		t.Errorf("got %d moving steps, want 298", moving)
	}
	if s.Running() {
		t.Error("simulation still running after cooling")
	}
	if s.Steps() != moving {
		t.Errorf("Steps() = %d, want %d", s.Steps(), moving)
	}
}

func TestStopAndResume(t *testing.T) {
	bodies := bodiesAt(r2.Vec{X: 0, Y: 0}, r2.Vec{X: 1, Y: 0})
	s := New(Params{Charge: -100}, bodies, nil)
	s.Start()
	s.Stop()

	before := bodies[0].Pos
	if !s.Step() {
		t.Error("Step on a stopped simulation reported progress")
	}
	if bodies[0].Pos != before {
		t.Error("stopped simulation moved a body")
	}

	s.Resume()
	if s.Alpha() != startAlpha {
		t.Errorf("Alpha() = %v after Resume, want %v", s.Alpha(), startAlpha)
	}
	s.Step()
	if bodies[0].Pos == before {
		t.Error("resumed simulation did not move")
	}
}

func TestChargeRepels(t *testing.T) {
	for _, theta := range []float64{0, 0.8} {
		bodies := bodiesAt(r2.Vec{X: 50, Y: 50}, r2.Vec{X: 55, Y: 50}, r2.Vec{X: 50, Y: 58})
		s := New(Params{Charge: -100, Theta: theta}, bodies, nil)
		s.Start()
		d0 := dist(bodies[0], bodies[1])
		for i := 0; i < 10; i++ {
			s.Step()
		}
		if d := dist(bodies[0], bodies[1]); d <= d0 {
			t.Errorf("theta %v: distance %v did not grow from %v", theta, d, d0)
		}
	}
}

func TestChargeSeparatesCoincidentBodies(t *testing.T) {
	settle := func(theta float64) []*models.Body {
		p := r2.Vec{X: 50, Y: 50}
		bodies := bodiesAt(p, p, p)
		s := New(Params{Charge: -100, Theta: theta}, bodies, nil)
		s.Start()
		for i := 0; i < 5; i++ {
			s.Step()
		}
		return bodies
	}
	for _, theta := range []float64{0, 0.8} {
		bodies := settle(theta)
		for i := range bodies {
			for j := i + 1; j < len(bodies); j++ {
				if d := dist(bodies[i], bodies[j]); d < 1 {
					t.Errorf("theta %v: bodies %d and %d still %v apart", theta, i, j, d)
				}
			}
		}
		again := settle(theta)
		for i := range bodies {
			if bodies[i].Pos != again[i].Pos {
				t.Errorf("theta %v: body %d at %v then %v", theta, i, bodies[i].Pos, again[i].Pos)
			}
		}
	}
}

func TestSpringPulls(t *testing.T) {
	bodies := bodiesAt(r2.Vec{X: 0, Y: 0}, r2.Vec{X: 100, Y: 0})
	s := New(Params{}, bodies, []Spring{{Source: 0, Target: 1, Distance: 10, Strength: 1}})
	s.Start()
	d0 := dist(bodies[0], bodies[1])
	for i := 0; i < 20; i++ {
		s.Step()
	}
	if d := dist(bodies[0], bodies[1]); d >= d0 {
		t.Errorf("distance %v did not shrink from %v", d, d0)
	}
}

func TestGravityPullsToCentre(t *testing.T) {
	bodies := bodiesAt(r2.Vec{X: 0, Y: 0})
	s := New(Params{Size: r2.Vec{X: 200, Y: 100}, Gravity: 1}, bodies, nil)
	s.Start()
	for i := 0; i < 50; i++ {
		s.Step()
	}
	center := r2.Vec{X: 100, Y: 50}
	if d := r2.Norm(r2.Sub(bodies[0].Pos, center)); d >= r2.Norm(center) {
		t.Errorf("body at %v did not approach the centre", bodies[0].Pos)
	}
}

func TestFixedBodyStays(t *testing.T) {
	bodies := bodiesAt(r2.Vec{X: 40, Y: 40}, r2.Vec{X: 45, Y: 40}, r2.Vec{X: 40, Y: 47})
	bodies[0].Fixed = true
	s := New(Params{Size: r2.Vec{X: 100, Y: 100}, Gravity: 1, Charge: -300, Theta: 0.8}, bodies,
		[]Spring{{Source: 0, Target: 1, Distance: 20, Strength: 1}})
	s.Start()

	fixed := bodies[0].Pos
	free := bodies[1].Pos
	for i := 0; i < 30; i++ {
		s.Step()
		if bodies[0].Pos != fixed {
			t.Fatalf("fixed body moved to %v at step %d", bodies[0].Pos, i)
		}
	}
	if bodies[1].Pos == free {
		t.Error("free body did not move")
	}
}

func TestStartIsDeterministic(t *testing.T) {
	mk := func() []*models.Body {
		bodies := make([]*models.Body, 6)
		for i := range bodies {
			bodies[i] = &models.Body{}
		}
		New(Params{Size: r2.Vec{X: 550, Y: 350}, Seed: 42}, bodies,
			[]Spring{{Source: 0, Target: 1}, {Source: 2, Target: 3}}).Start()
		return bodies
	}
	a, b := mk(), mk()
	for i := range a {
		if a[i].Pos != b[i].Pos {
			t.Errorf("body %d placed at %v and %v", i, a[i].Pos, b[i].Pos)
		}
		if !a[i].Placed {
			t.Errorf("body %d not marked placed", i)
		}
		if a[i].Pos.X < -1 || a[i].Pos.X > 551 || a[i].Pos.Y < -1 || a[i].Pos.Y > 351 {
			t.Errorf("body %d placed outside the size: %v", i, a[i].Pos)
		}
	}
	// Linked bodies start next to each other.
	if d := dist(a[0], a[1]); d > math.Sqrt2 {
		t.Errorf("linked bodies start %v apart", d)
	}
}

func TestStartKeepsPlacedBodies(t *testing.T) {
	bodies := bodiesAt(r2.Vec{X: 3, Y: 4})
	New(Params{Size: r2.Vec{X: 100, Y: 100}}, bodies, nil).Start()
	if bodies[0].Pos != (r2.Vec{X: 3, Y: 4}) {
		t.Errorf("placed body moved to %v", bodies[0].Pos)
	}
}

func TestInvalidSpringsDropped(t *testing.T) {
	bodies := bodiesAt(r2.Vec{}, r2.Vec{X: 1})
	s := New(Params{}, bodies, []Spring{{Source: 0, Target: 5}, {Source: 0, Target: 1}})
	if len(s.springs) != 1 {
		t.Errorf("got %d springs, want 1", len(s.springs))
	}
}

func TestNewPrimaryFromModel(t *testing.T) {
	m, err := models.Build(
		[]models.ConceptRecord{{ID: "a"}, {ID: "b"}},
		[][]models.AdjacencyEntry{{{ID: "b", FamilyWeight: 4}}, {}},
	)
	if err != nil {
		t.Fatal(err)
	}
	p, lp := DefaultPrimary()
	s := NewPrimary(m, p, lp)
	if len(s.springs) != 1 || s.springs[0].Strength != 10 || s.springs[0].Distance != 50 {
		t.Errorf("unexpected springs %+v", s.springs)
	}

	lpL := LinkParams{Distance: 0, Strength: 8}
	pl, _ := DefaultLabels()
	ls := NewLabels(m, pl, lpL)
	if len(ls.bodies) != 4 || len(ls.springs) != 2 {
		t.Errorf("label simulation has %d bodies and %d springs", len(ls.bodies), len(ls.springs))
	}
	if ls.springs[1].Source != 2 || ls.springs[1].Target != 3 || ls.springs[1].Strength != 8 {
		t.Errorf("unexpected label spring %+v", ls.springs[1])
	}
}
