package render

import (
	"bytes"
	"fmt"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/TFMV/colexgraph/interact"
)

// EChartsRenderer outputs a standalone go-echarts page of the frame. Nodes
// keep the positions of the force layout; the page adds its own pan, zoom
// and drag handling.
type EChartsRenderer struct{}

// Name returns the name of the renderer
func (r *EChartsRenderer) Name() string {
	return "ECharts Renderer"
}

// Description returns a description of the renderer
func (r *EChartsRenderer) Description() string {
	return "Renders the frame as an interactive go-echarts HTML page"
}

// Render creates the HTML page of the frame
func (r *EChartsRenderer) Render(frame *Frame, options *OutputOptions) ([]byte, error) {
	if frame == nil || frame.Model == nil {
		return nil, fmt.Errorf("echarts: empty frame")
	}
	s := NewSnapshot(frame)

	nodes := make([]opts.GraphNode, len(s.Nodes))
	for i, n := range s.Nodes {
		label := s.Labels[i]
		nodes[i] = opts.GraphNode{
			Name:       echartsName(i, label.Text),
			X:          float32(n.X),
			Y:          float32(n.Y),
			Value:      float32(len(frame.Model.Neighbors[i])),
			SymbolSize: 2 * options.NodeRadius,
			ItemStyle:  &opts.ItemStyle{Color: label.Fill},
		}
	}

	links := make([]opts.GraphLink, len(s.Links))
	for k := range s.Links {
		link := frame.Model.Links[k]
		links[k] = opts.GraphLink{
			Source: echartsName(link.Source, s.Labels[link.Source].Text),
			Target: echartsName(link.Target, s.Labels[link.Target].Text),
			Value:  float32(link.RawWeight),
		}
	}

	page := components.NewPage()
	page.AddCharts(graphBase(nodes, links, options))

	var buf bytes.Buffer
	if err := page.Render(&buf); err != nil {
		return nil, fmt.Errorf("rendering echarts page: %w", err)
	}
	return buf.Bytes(), nil
}

// echartsName keeps node names unique; go-echarts joins links by name.
func echartsName(i int, label string) string {
	return fmt.Sprintf("%s #%d", label, i)
}

func graphBase(nodes []opts.GraphNode, links []opts.GraphLink, options *OutputOptions) *charts.Graph {
	graph := charts.NewGraph()
	graph.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: options.Title,
			Width:     fmt.Sprintf("%gpx", options.Width),
			Height:    fmt.Sprintf("%gpx", options.Height),
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(false),
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show: opts.Bool(true),
		}),
	)
	graph.AddSeries(
		"concepts",
		nodes,
		links,
		charts.WithGraphChartOpts(
			opts.GraphChart{
				Layout:    "none",
				Draggable: opts.Bool(true),
				Roam:      opts.Bool(true),
			},
		),
		charts.WithLabelOpts(opts.Label{
			Show:     opts.Bool(true),
			Color:    interact.LabelFill,
			Position: "right",
		}),
	)
	return graph
}
