package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/TFMV/colexgraph/ingest"
	"github.com/TFMV/colexgraph/interact"
	"github.com/TFMV/colexgraph/models"
)

func inspectCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Print the detail table of a link or a concept, or graph statistics",
	}
	cmd.AddCommand(inspectLinkCmd(e), inspectNodeCmd(e), inspectStatsCmd(e))
	return cmd
}

func inspectLinkCmd(e *env) *cobra.Command {
	var coloring string

	cmd := &cobra.Command{
		Use:   "link <source-id> <target-id>",
		Short: "List the evidence of the link between two concepts",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, h, err := e.inspector(coloring)
			if err != nil {
				return err
			}
			a, err := nodeIndex(ds.Model, args[0])
			if err != nil {
				return err
			}
			b, err := nodeIndex(ds.Model, args[1])
			if err != nil {
				return err
			}
			k, ok := ds.Model.FindLink(a, b)
			if !ok {
				return fmt.Errorf("no link between %s and %s", args[0], args[1])
			}
			if err := h.Handle(interact.LinkHover{Link: k}); err != nil {
				return err
			}
			e.printLinkPanel(h)
			return nil
		},
	}
	cmd.Flags().StringVar(&coloring, "coloring", "", "Family or Geolocation (default from config)")
	return cmd
}

func inspectNodeCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "node <id>",
		Short: "List the strongest links of a concept",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, h, err := e.inspector("")
			if err != nil {
				return err
			}
			i, err := nodeIndex(ds.Model, args[0])
			if err != nil {
				return err
			}
			if err := h.Handle(interact.NodeLabelHover{Node: i}); err != nil {
				return err
			}
			p := h.State().Panel
			if p == nil {
				fmt.Fprintf(e.out, "  %s has no outgoing links\n", ds.Model.Nodes[i].Label)
				return nil
			}
			e.printNodePanel(p)
			return nil
		},
	}
	return cmd
}

// inspector loads the dataset and a handler without a layout: detail
// tables do not depend on positions.
func (e *env) inspector(coloring string) (*ingest.Dataset, *interact.Handler, error) {
	ds, err := e.dataset()
	if err != nil {
		return nil, nil, err
	}
	rctx, err := renderContext(e.cfg)
	if err != nil {
		return nil, nil, err
	}
	if coloring != "" {
		mode, err := interact.ParseColoring(coloring)
		if err != nil {
			return nil, nil, err
		}
		rctx.Coloring = mode
	}
	h := interact.NewHandler(ds.Model, ds.Lookups, nil, mapProjection(e.cfg).Project, rctx, e.log)
	return ds, h, nil
}

func nodeIndex(m *models.Model, id string) (int, error) {
	i, ok := m.FindNodeByID(models.Key(id))
	if !ok {
		return -1, fmt.Errorf("unknown concept id %q", id)
	}
	return i, nil
}

func (e *env) printLinkPanel(h *interact.Handler) {
	st := h.State()
	p := st.Panel
	fmt.Fprintln(e.out, Brand.Sprint(p.Title))
	fmt.Fprintln(e.out)

	rows := make([][]cell, len(p.Rows))
	for i, r := range p.Rows {
		rows[i] = []cell{
			{text: r.Family, style: swatch(r.Swatch, r.Text)},
			plain(r.Language),
			plain(r.Form),
			plain(r.Gloss),
		}
	}
	table(e.out, []string{"Family", "Language", "Form", "Gloss"}, rows)

	if len(st.Notices) > 0 {
		fmt.Fprintln(e.out)
		for _, n := range st.Notices {
			fmt.Fprintf(e.out, "  %s %v\n", Warn.Sprint("!"), n)
		}
	}
}

func (e *env) printNodePanel(p *interact.Panel) {
	fmt.Fprintln(e.out, Brand.Sprint(p.Title))
	fmt.Fprintln(e.out)

	rows := make([][]cell, len(p.OutEdges))
	for i, r := range p.OutEdges {
		rows[i] = []cell{
			plain(r.TargetLabel),
			plain(string(r.TargetID)),
			plain(r.Community),
			plain(r.Frequency),
		}
	}
	table(e.out, []string{"Concept", "ID", "Community", "Frequency"}, rows)
	fmt.Fprintln(e.out)
	for _, r := range p.OutEdges {
		fmt.Fprintf(e.out, "  %s %s\n", Subtle.Sprint(strconv.Quote(r.TargetLabel)), Info.Sprint(r.RegistryURL))
	}
}
