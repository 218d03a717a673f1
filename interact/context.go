package interact

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/spatial/r2"
)

// Coloring selects how the family column of a detail table is colored.
type Coloring string

const (
	FamilyColoring Coloring = "Family"
	GeoColoring    Coloring = "Geolocation"
)

// ParseColoring parses a coloring mode name, case-insensitively.
func ParseColoring(s string) (Coloring, error) {
	switch {
	case strings.EqualFold(s, string(FamilyColoring)):
		return FamilyColoring, nil
	case strings.EqualFold(s, string(GeoColoring)), strings.EqualFold(s, "geo"):
		return GeoColoring, nil
	}
	return "", fmt.Errorf("unknown coloring mode %q", s)
}

// Viewport is the pan and zoom transform of the main canvas.
type Viewport struct {
	Translate r2.Vec  `json:"translate"`
	Scale     float64 `json:"scale"`
}

// RenderContext holds the user controlled view settings. It is a value:
// change it with Reduce.
type RenderContext struct {
	Coloring Coloring `json:"coloring"`
	Opacity  int      `json:"opacity"` // percent applied to non-highlighted links
	Viewport Viewport `json:"viewport"`
}

// DefaultContext returns family coloring at full opacity and no zoom.
func DefaultContext() RenderContext {
	return RenderContext{
		Coloring: FamilyColoring,
		Opacity:  100,
		Viewport: Viewport{Scale: 1},
	}
}

// LinkOpacity returns Opacity as a fraction.
func (c RenderContext) LinkOpacity() float64 {
	return float64(c.Opacity) / 100
}

// Action is a change request for a RenderContext.
type Action interface {
	apply(RenderContext) RenderContext
}

// SetColoring switches the coloring mode.
type SetColoring struct {
	Mode Coloring `json:"mode"`
}

// SetOpacity sets the link opacity, clamped to [0, 100].
type SetOpacity struct {
	Percent int `json:"percent"`
}

// SetViewport pans and zooms the main canvas. Non-positive scales are
// ignored.
type SetViewport struct {
	Translate r2.Vec  `json:"translate"`
	Scale     float64 `json:"scale"`
}

func (a SetColoring) apply(c RenderContext) RenderContext {
	if a.Mode == FamilyColoring || a.Mode == GeoColoring {
		c.Coloring = a.Mode
	}
	return c
}

func (a SetOpacity) apply(c RenderContext) RenderContext {
	c.Opacity = max(0, min(100, a.Percent))
	return c
}

func (a SetViewport) apply(c RenderContext) RenderContext {
	c.Viewport.Translate = a.Translate
	if a.Scale > 0 {
		c.Viewport.Scale = a.Scale
	}
	return c
}

// Reduce returns the context that results from applying a to c.
func Reduce(c RenderContext, a Action) RenderContext {
	if a == nil {
		return c
	}
	return a.apply(c)
}
