// Package cmd implements the colexgraph command line.
package cmd

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/TFMV/colexgraph/config"
	"github.com/TFMV/colexgraph/ingest"
	"github.com/TFMV/colexgraph/logging"
)

var version = "0.3.0"

type globalFlags struct {
	config   string
	logLevel string
	graph    string
	words    string
	langs    string
	seed     int64
}

// env is what every subcommand runs with once the persistent flags have
// been applied.
type env struct {
	cfg   *config.Config
	log   *slog.Logger
	paths ingest.Paths
	out   io.Writer
}

func (e *env) load(cmd *cobra.Command, flags *globalFlags) error {
	cfg, err := config.Load(flags.config)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = flags.seed
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = flags.logLevel
	}
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}

	e.cfg = cfg
	e.log = logging.New(cmd.ErrOrStderr(), level)
	e.out = cmd.OutOrStdout()
	e.paths = ingest.Paths{
		Graph:     firstNonEmpty(flags.graph, cfg.Data.Graph),
		Words:     firstNonEmpty(flags.words, cfg.Data.Words),
		Languages: firstNonEmpty(flags.langs, cfg.Data.Languages),
	}
	return nil
}

func (e *env) dataset() (*ingest.Dataset, error) {
	return ingest.Load(e.paths, e.log)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func newRootCmd() *cobra.Command {
	var flags globalFlags
	e := &env{}

	root := &cobra.Command{
		Use:   "colexgraph",
		Short: "colexgraph lays out and explores colexification networks",
		Long: Brand.Sprint("colexgraph") + " lays out a concept network with a force simulation\n" +
			Subtle.Sprint("Render frames, serve the live viewer, or inspect links and concepts"),
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return e.load(cmd, &flags)
		},
	}
	root.SetVersionTemplate("colexgraph {{ .Version }}\n")

	pf := root.PersistentFlags()
	pf.StringVarP(&flags.config, "config", "c", "", "TOML configuration file")
	pf.StringVar(&flags.logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	pf.StringVarP(&flags.graph, "graph", "g", "", "Graph document (JSON)")
	pf.StringVar(&flags.words, "words", "", "Word table (JSON)")
	pf.StringVar(&flags.langs, "langs", "", "Language table (GeoJSON, JSON tuples or CSV)")
	pf.Int64Var(&flags.seed, "seed", 1, "Seed of the initial placement")

	root.AddCommand(
		renderCmd(e),
		serveCmd(e),
		inspectCmd(e),
		configCmd(e),
	)
	return root
}

// Execute runs the root command.
func Execute() error {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		Bad.Fprintf(root.ErrOrStderr(), "colexgraph: %v\n", err)
		return err
	}
	return nil
}
