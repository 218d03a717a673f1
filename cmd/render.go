package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/TFMV/colexgraph/interact"
	"github.com/TFMV/colexgraph/layout"
	"github.com/TFMV/colexgraph/render"
)

// maxFrames bounds a layout run that waits for the concepts to settle.
const maxFrames = 5000

type renderFlags struct {
	frames    int
	format    string
	out       string
	hoverLink int
	hoverNode int
	coloring  string
	opacity   int
	wait      time.Duration
}

func renderCmd(e *env) *cobra.Command {
	var f renderFlags

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Lay out the graph and write one frame",
		Long: "Runs the layout for a number of frames, or until the concept layout\n" +
			"settles, then writes the frame as " + fmt.Sprint(render.Formats) + ".",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runRender(ctx, e, f)
		},
	}

	fl := cmd.Flags()
	fl.IntVarP(&f.frames, "frames", "n", 0, "Frames to run; 0 runs until the concepts settle")
	fl.StringVarP(&f.format, "format", "f", "svg", "Output format")
	fl.StringVarP(&f.out, "out", "o", "", "Output file; - writes to stdout (default colexgraph.<format>)")
	fl.IntVar(&f.hoverLink, "hover-link", -1, "Highlight the link with this index")
	fl.IntVar(&f.hoverNode, "hover-node", -1, "Highlight the concept with this index")
	fl.StringVar(&f.coloring, "coloring", "", "Family or Geolocation (default from config)")
	fl.IntVar(&f.opacity, "opacity", -1, "Opacity of the other links in percent (default from config)")
	fl.DurationVar(&f.wait, "layout-timeout", 30*time.Second, "Give up on the layout after this long and use its current state")
	return cmd
}

func runRender(ctx context.Context, e *env, f renderFlags) error {
	ds, err := e.dataset()
	if err != nil {
		return err
	}
	rctx, err := renderContext(e.cfg)
	if err != nil {
		return err
	}
	if f.coloring != "" {
		mode, err := interact.ParseColoring(f.coloring)
		if err != nil {
			return err
		}
		rctx.Coloring = mode
	}
	if f.opacity >= 0 {
		rctx = interact.Reduce(rctx, interact.SetOpacity{Percent: f.opacity})
	}
	r, err := renderer(e.cfg, f.format)
	if err != nil {
		return err
	}

	coord := layout.New(ds.Model, layoutOptions(e.cfg), e.log)
	coord.Start()
	if err := runLayout(ctx, coord, f.frames, f.wait, e.log); err != nil {
		return err
	}

	h := interact.NewHandler(ds.Model, ds.Lookups, coord, mapProjection(e.cfg).Project, rctx, e.log)
	if f.hoverLink >= 0 {
		if err := h.Handle(interact.LinkHover{Link: f.hoverLink}); err != nil {
			return err
		}
	}
	if f.hoverNode >= 0 {
		if err := h.Handle(interact.NodeLabelHover{Node: f.hoverNode}); err != nil {
			return err
		}
	}

	opts := outputOptions(e.cfg, f.format)
	data, err := render.GenerateWith(ctx, r, render.NewFrame(coord, h, ds.Lookups), opts)
	if err != nil {
		return fmt.Errorf("rendering %s: %w", f.format, err)
	}

	if f.out == "-" {
		_, err := e.out.Write(data)
		return err
	}
	out := f.out
	if out == "" {
		out = "colexgraph." + extension(f.format)
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	fmt.Fprintf(e.out, "%s wrote %s (%d bytes, frame %d)\n", Good.Sprint("✓"), out, len(data), coord.Frames())
	return nil
}

// runLayout steps the layout in the background until n frames have run,
// or the concepts settle when n is 0. Hitting wait keeps whatever state the
// layout reached.
func runLayout(ctx context.Context, coord *layout.Coordinator, n int, wait time.Duration, log *slog.Logger) error {
	limit := n
	if limit <= 0 {
		limit = maxFrames
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < limit; i++ {
			if ctx.Err() != nil {
				return
			}
			if n <= 0 && !coord.Primary().Running() {
				return
			}
			coord.Frame()
		}
	}()

	timeout := time.NewTimer(wait)
	defer timeout.Stop()

	select {
	case <-done:
		if n <= 0 && coord.Primary().Running() {
			log.Warn("concept layout did not settle", "frames", coord.Frames(), "alpha", coord.Primary().Alpha())
		}
		return nil
	case <-timeout.C:
		cancel()
		<-done
		log.Warn("layout timeout, using partial results", "frames", coord.Frames())
		return nil
	case <-ctx.Done():
		<-done
		return ctx.Err()
	}
}

func extension(format string) string {
	switch format {
	case "map":
		return "map.svg"
	case "panel", "echarts":
		return "html"
	default:
		return format
	}
}
