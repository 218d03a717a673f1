package cmd

import (
	"net/http"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/TFMV/colexgraph/config"
	"github.com/TFMV/colexgraph/interact"
	"github.com/TFMV/colexgraph/layout"
	"github.com/TFMV/colexgraph/physics"
	"github.com/TFMV/colexgraph/render"
)

// layoutOptions builds the parameters of both simulations from cfg. The
// layout area is the canvas less its padding.
func layoutOptions(cfg *config.Config) layout.Options {
	size := r2.Vec{X: cfg.Canvas.Width - cfg.Canvas.Padding, Y: cfg.Canvas.Height - cfg.Canvas.Padding}
	opts := layout.DefaultOptions(size, cfg.Seed)
	applyForces(&opts.Primary, &opts.PrimaryLinks, cfg.Primary)
	applyForces(&opts.Labels, &opts.LabelLinks, cfg.Labels)
	opts.ShiftY = cfg.View.ShiftY
	opts.Measurer = layout.NewFaceMeasurer(cfg.Canvas.FontSize)
	return opts
}

func applyForces(p *physics.Params, l *physics.LinkParams, f config.ForceConfig) {
	p.Gravity = f.Gravity
	p.Charge = f.Charge
	p.Friction = f.Friction
	p.Theta = f.Theta
	l.Distance = f.LinkDistance
	l.Strength = f.LinkStrength
}

func mapProjection(cfg *config.Config) interact.Equirectangular {
	return interact.Equirectangular{
		Center:    r2.Vec{X: cfg.Map.Center[0], Y: cfg.Map.Center[1]},
		Translate: r2.Vec{X: cfg.Map.Translate[0], Y: cfg.Map.Translate[1]},
		Scale:     cfg.Map.Scale,
	}
}

// renderContext returns the initial view settings.
func renderContext(cfg *config.Config) (interact.RenderContext, error) {
	ctx := interact.DefaultContext()
	if cfg.View.Coloring != "" {
		mode, err := interact.ParseColoring(cfg.View.Coloring)
		if err != nil {
			return ctx, err
		}
		ctx.Coloring = mode
	}
	ctx.Opacity = cfg.View.Opacity
	return ctx, nil
}

func outputOptions(cfg *config.Config, format string) *render.OutputOptions {
	opts := render.NewDefaultOptions(format)
	opts.Width = cfg.Canvas.Width
	opts.Height = cfg.Canvas.Height
	opts.Background = cfg.Canvas.Background
	opts.NodeRadius = cfg.Canvas.NodeRadius
	opts.FontSize = cfg.Canvas.FontSize
	opts.MapWidth = cfg.Map.Width
	opts.MapHeight = cfg.Map.Height
	opts.MapBackground = cfg.Map.Background
	opts.Timeout = cfg.Export.Timeout.Duration
	opts.Projection = mapProjection(cfg).Project
	return opts
}

// converter picks the PNG rasterizer: the configured conversion service,
// or a local headless Chrome.
func converter(cfg *config.Config) render.Converter {
	if cfg.Export.Endpoint != "" {
		return &render.FormConverter{Endpoint: cfg.Export.Endpoint, Client: http.DefaultClient}
	}
	return &render.ChromeConverter{}
}

func renderer(cfg *config.Config, format string) (render.Renderer, error) {
	r, err := render.GetRenderer(format)
	if err != nil {
		return nil, err
	}
	if png, ok := r.(*render.PNGRenderer); ok {
		png.Converter = converter(cfg)
	}
	return r, nil
}
