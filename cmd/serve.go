package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/TFMV/colexgraph/server"
)

func serveCmd(e *env) *cobra.Command {
	var (
		addr string
		fps  int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the live viewer",
		Long: "Serves a page that animates the layout and answers hover, drag and\n" +
			"click events. One viewer can be connected at a time.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				e.cfg.Server.Addr = addr
			}
			if fps > 0 {
				e.cfg.Server.FPS = fps
			}
			ds, err := e.dataset()
			if err != nil {
				return err
			}
			rctx, err := renderContext(e.cfg)
			if err != nil {
				return err
			}

			srv := server.New(ds, server.Config{
				Addr:       e.cfg.Server.Addr,
				FPS:        e.cfg.Server.FPS,
				Layout:     layoutOptions(e.cfg),
				Context:    rctx,
				Projection: mapProjection(e.cfg).Project,
				Output:     outputOptions(e.cfg, "svg"),
				Converter:  converter(e.cfg),
			}, e.log)

			fmt.Fprintf(e.out, "%s viewer on %s\n", Brand.Sprint("colexgraph"), Info.Sprintf("http://%s/", e.cfg.Server.Addr))
			fmt.Fprintln(e.out, Subtle.Sprint("  Press Ctrl+C to stop"))

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.Start(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config)")
	cmd.Flags().IntVar(&fps, "fps", 0, "Frames pushed per second while the layout runs (default from config)")
	return cmd
}
