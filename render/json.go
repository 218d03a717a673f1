package render

import (
	"encoding/json"

	"github.com/TFMV/colexgraph/interact"
	"github.com/TFMV/colexgraph/models"
)

// Snapshot is the drawable content of a frame. The SVG renderer, the JSON
// renderer and the live viewer all draw from it.
type Snapshot struct {
	Frame   int                    `json:"frame"`
	Alpha   float64                `json:"alpha"`
	Running bool                   `json:"running"`
	Context interact.RenderContext `json:"context"`
	Nodes   []NodeView             `json:"nodes"`
	Links   []LinkView             `json:"links"`
	Labels  []LabelView            `json:"labels"`
	Panel   *interact.Panel        `json:"panel,omitempty"`
	Markers []interact.Marker      `json:"markers"`
}

// NodeView is a drawn node.
type NodeView struct {
	Index int        `json:"index"`
	ID    models.Key `json:"id"`
	X     float64    `json:"x"`
	Y     float64    `json:"y"`
	Fixed bool       `json:"fixed"`
}

// LinkView is a drawn link.
type LinkView struct {
	Index   int     `json:"index"`
	X1      float64 `json:"x1"`
	Y1      float64 `json:"y1"`
	X2      float64 `json:"x2"`
	Y2      float64 `json:"y2"`
	Width   float64 `json:"width"`
	Stroke  string  `json:"stroke"`
	Opacity float64 `json:"opacity"`
}

// LabelView is the visible label of a node, drawn at its label anchor and
// offset by the anchor's shift.
type LabelView struct {
	Node    int      `json:"node"`
	Anchor  int      `json:"anchor"`
	Text    string   `json:"text"`
	X       float64  `json:"x"`
	Y       float64  `json:"y"`
	DX      float64  `json:"dx"`
	DY      float64  `json:"dy"`
	Fill    string   `json:"fill"`
	Bold    bool     `json:"bold"`
	Tooltip []string `json:"tooltip,omitempty"`
}

// NewSnapshot flattens a frame into its drawable views.
func NewSnapshot(f *Frame) *Snapshot {
	m := f.Model
	s := &Snapshot{
		Frame:   f.Index,
		Alpha:   f.Alpha,
		Running: f.Running,
		Context: f.Context,
		Nodes:   make([]NodeView, len(m.Nodes)),
		Links:   make([]LinkView, len(m.Links)),
		Labels:  make([]LabelView, len(m.Nodes)),
		Markers: []interact.Marker{},
	}
	if f.State != nil {
		s.Panel = f.State.Panel
		if f.State.Markers != nil {
			s.Markers = f.State.Markers
		}
	}

	for i := range m.Nodes {
		n := &m.Nodes[i]
		s.Nodes[i] = NodeView{Index: i, ID: n.ID, X: n.Pos.X, Y: n.Pos.Y, Fixed: n.Fixed}

		a := models.LabelPoint(i)
		anchor := &m.Anchors[a]
		s.Labels[i] = LabelView{
			Node:   i,
			Anchor: a,
			Text:   n.Label,
			X:      anchor.Pos.X,
			Y:      anchor.Pos.Y,
			DX:     anchor.Shift.X,
			DY:     anchor.Shift.Y,
			Fill:   labelFill(f.State, a),
			Bold:   len(n.OutEdges) > 0,
		}
		if len(n.OutEdges) > 0 {
			s.Labels[i].Tooltip = interact.Tooltip(n)
		}
	}

	for k := range m.Links {
		l := &m.Links[k]
		src, dst := m.Nodes[l.Source].Pos, m.Nodes[l.Target].Pos
		style := linkStyle(f, k)
		s.Links[k] = LinkView{
			Index:   k,
			X1:      src.X,
			Y1:      src.Y,
			X2:      dst.X,
			Y2:      dst.Y,
			Width:   l.EdgeWidth,
			Stroke:  style.Stroke,
			Opacity: style.Opacity,
		}
	}
	return s
}

func labelFill(st *interact.State, anchor int) string {
	if st == nil || anchor >= len(st.Labels) {
		return interact.LabelFill
	}
	return st.Labels[anchor]
}

func linkStyle(f *Frame, k int) interact.LinkStyle {
	if f.State == nil || k >= len(f.State.Links) {
		return interact.LinkStyle{Stroke: interact.NeutralStroke, Opacity: f.Context.LinkOpacity()}
	}
	return f.State.Links[k]
}

// JSONRenderer outputs frame snapshots as JSON
type JSONRenderer struct{}

// Name returns the name of the renderer
func (r *JSONRenderer) Name() string {
	return "JSON Renderer"
}

// Description returns a description of the renderer
func (r *JSONRenderer) Description() string {
	return "Renders a frame snapshot as JSON for the live viewer or custom visualizations"
}

// Render creates a JSON representation of the frame
func (r *JSONRenderer) Render(frame *Frame, options *OutputOptions) ([]byte, error) {
	return json.MarshalIndent(NewSnapshot(frame), "", "  ")
}
