// Package render draws frames of the concept graph: the main canvas and the
// inset map as SVG, the detail panel as HTML, machine readable JSON
// snapshots, an interactive go-echarts page and PNG rasterizations.
package render

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/TFMV/colexgraph/interact"
	"github.com/TFMV/colexgraph/layout"
	"github.com/TFMV/colexgraph/models"
)

// OutputOptions defines rendering configuration options
type OutputOptions struct {
	Format        string  // svg, map, panel, json, html or png
	Width         float64 // main canvas
	Height        float64
	MapWidth      float64 // inset map
	MapHeight     float64
	Background    string
	MapBackground string
	NodeRadius    float64
	FontSize      float64
	Title         string        // page title of HTML exports
	Timeout       time.Duration // upper bound for a single render

	// Projection places languages on the inset map. Nil selects the
	// default equirectangular projection.
	Projection interact.Projection
}

// Renderer interface defines methods that all rendering backends must implement
type Renderer interface {
	// Render draws one frame using the provided options
	Render(frame *Frame, options *OutputOptions) ([]byte, error)

	// Name returns the name of the renderer
	Name() string

	// Description returns a description of the renderer
	Description() string
}

// NewDefaultOptions creates a default set of output options
func NewDefaultOptions(format string) *OutputOptions {
	return &OutputOptions{
		Format:        format,
		Width:         600,
		Height:        400,
		MapWidth:      300,
		MapHeight:     200,
		Background:    "#fff",
		MapBackground: "#fafafa",
		NodeRadius:    5,
		FontSize:      12,
		Title:         "colexification graph",
		Timeout:       30 * time.Second,
	}
}

func (o *OutputOptions) projection() interact.Projection {
	if o.Projection != nil {
		return o.Projection
	}
	return interact.DefaultMapProjection().Project
}

// Formats lists the names accepted by GetRenderer.
var Formats = []string{"svg", "map", "panel", "json", "html", "png"}

// GetRenderer returns the appropriate renderer based on format. PNG output
// rasterizes through a local headless Chrome; use PNGRenderer directly to
// pick another Converter.
func GetRenderer(format string) (Renderer, error) {
	switch strings.ToLower(format) {
	case "svg":
		return &SVGRenderer{}, nil
	case "map":
		return &MapRenderer{}, nil
	case "panel":
		return &PanelRenderer{}, nil
	case "json":
		return &JSONRenderer{}, nil
	case "html", "echarts":
		return &EChartsRenderer{}, nil
	case "png":
		return &PNGRenderer{Converter: &ChromeConverter{}}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// Frame is everything needed to draw the graph at one point in time.
type Frame struct {
	Index   int
	Alpha   float64
	Running bool
	Model   *models.Model
	Lookups *models.Lookups
	State   *interact.State
	Context interact.RenderContext
}

// NewFrame captures the current frame of a coordinator. A nil handler
// draws the idle display state.
func NewFrame(c *layout.Coordinator, h *interact.Handler, lookups *models.Lookups) *Frame {
	if h == nil {
		h = interact.NewHandler(c.Model(), lookups, nil, nil, interact.DefaultContext(), slog.New(slog.DiscardHandler))
	}
	if lookups == nil {
		lookups = models.NewLookups()
	}
	return &Frame{
		Index:   c.Frames(),
		Alpha:   c.Primary().Alpha(),
		Running: c.Primary().Running(),
		Model:   c.Model(),
		Lookups: lookups,
		State:   h.State(),
		Context: h.Context(),
	}
}

// Generate renders a frame with the renderer named by options.Format. It
// gives up when ctx is done or options.Timeout elapses.
func Generate(ctx context.Context, frame *Frame, options *OutputOptions) ([]byte, error) {
	renderer, err := GetRenderer(options.Format)
	if err != nil {
		return nil, err
	}
	return GenerateWith(ctx, renderer, frame, options)
}

// GenerateWith renders a frame with a specific renderer under the same
// deadline rules as Generate.
func GenerateWith(ctx context.Context, renderer Renderer, frame *Frame, options *OutputOptions) ([]byte, error) {
	type result struct {
		out []byte
		err error
	}
	done := make(chan result, 1)

	go func() {
		out, err := renderer.Render(frame, options)
		done <- result{out, err}
	}()

	timeout := options.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case r := <-done:
		return r.out, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer.C:
		return nil, fmt.Errorf("%s timed out after %s", renderer.Name(), timeout)
	}
}
