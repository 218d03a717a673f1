package cmd

import (
	"fmt"
	"math/rand/v2"
	"strconv"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/graph/community"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/TFMV/colexgraph/models"
)

// graphStats summarizes the concept graph as an undirected graph.
type graphStats struct {
	Nodes       int
	Edges       int
	Components  int
	Communities int
}

// statsGraph folds the directed links into one undirected edge per concept
// pair, weighted by the heaviest direction. Self-links are dropped.
func statsGraph(m *models.Model) *simple.WeightedUndirectedGraph {
	g := simple.NewWeightedUndirectedGraph(0, 0)
	for i := range m.Nodes {
		g.AddNode(simple.Node(i))
	}
	for _, l := range m.Links {
		if l.Source == l.Target {
			continue
		}
		w := max(l.RawWeight, 1)
		if e := g.WeightedEdge(int64(l.Source), int64(l.Target)); e != nil && e.Weight() >= w {
			continue
		}
		g.SetWeightedEdge(g.NewWeightedEdge(simple.Node(l.Source), simple.Node(l.Target), w))
	}
	return g
}

func computeStats(m *models.Model, seed int64) graphStats {
	g := statsGraph(m)
	st := graphStats{
		Nodes:      g.Nodes().Len(),
		Edges:      g.Edges().Len(),
		Components: len(topo.ConnectedComponents(g)),
	}
	if st.Edges > 0 {
		src := rand.NewPCG(uint64(seed), 0)
		st.Communities = len(community.Modularize(g, 1, src).Communities())
	} else {
		st.Communities = st.Nodes
	}
	return st
}

func inspectStatsCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Count the nodes, edges, components and communities of the graph",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := e.dataset()
			if err != nil {
				return err
			}
			st := computeStats(ds.Model, e.cfg.Seed)
			e.log.Debug("graph stats", "doc", ds.ID, "nodes", st.Nodes, "edges", st.Edges)

			fmt.Fprintln(e.out, Brand.Sprint("Graph statistics"))
			fmt.Fprintln(e.out)
			table(e.out, []string{"Measure", "Count"}, [][]cell{
				{plain("nodes"), plain(strconv.Itoa(st.Nodes))},
				{plain("edges"), plain(strconv.Itoa(st.Edges))},
				{plain("components"), plain(strconv.Itoa(st.Components))},
				{plain("communities"), plain(strconv.Itoa(st.Communities))},
			})
			return nil
		},
	}
}
