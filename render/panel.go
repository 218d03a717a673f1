package render

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/TFMV/colexgraph/interact"
)

var panelTemplate = template.Must(template.New("panel").Parse(`{{if not .}}<div class="panel" hidden></div>
{{else if .Rows}}<div class="panel link-panel">
<p class="title">{{.Title}}</p>
<table>
<tr><th>Family</th><th>Language</th><th>Form</th><th>Gloss</th></tr>
{{range .Rows}}<tr><td style="{{.Style}}">{{.Family}}</td><td>{{.Language}}</td><td>{{.Form}}</td><td title="?{{.WordID}}">{{.Gloss}}</td></tr>
{{end}}</table>
</div>
{{else if .OutEdges}}<div class="panel node-panel">
<p class="title">{{.Title}}</p>
<table>
<tr><th>Concept</th><th>Community</th><th>Frequency</th></tr>
{{range .OutEdges}}<tr><td><a href="{{.RegistryURL}}" target="_blank">{{.TargetLabel}}</a></td><td><a href="{{.CommunityURL}}">{{.Community}}</a></td><td>{{.Frequency}}</td></tr>
{{end}}</table>
</div>
{{else}}<div class="panel link-panel">
<p class="title">{{.Title}}</p>
</div>
{{end}}`))

type panelRow struct {
	interact.DetailRow
	Style template.CSS
}

type panelView struct {
	Title    string
	Rows     []panelRow
	OutEdges []interact.OutEdgeRow
}

func newPanelView(p *interact.Panel) *panelView {
	if p == nil {
		return nil
	}
	v := &panelView{Title: p.Title, OutEdges: p.OutEdges}
	for _, r := range p.Rows {
		v.Rows = append(v.Rows, panelRow{
			DetailRow: r,
			Style:     template.CSS(fmt.Sprintf("background-color: %s; color: %s", r.Swatch.Hex(), r.Text.Text())),
		})
	}
	return v
}

// PanelRenderer outputs the detail panel as an HTML fragment
type PanelRenderer struct{}

// Name returns the name of the renderer
func (r *PanelRenderer) Name() string {
	return "Panel Renderer"
}

// Description returns a description of the renderer
func (r *PanelRenderer) Description() string {
	return "Renders the detail panel of the hovered link or node as HTML"
}

// Render creates the HTML of the panel shown in the frame
func (r *PanelRenderer) Render(frame *Frame, options *OutputOptions) ([]byte, error) {
	var p *interact.Panel
	if frame != nil && frame.State != nil {
		p = frame.State.Panel
	}
	var buf bytes.Buffer
	if err := panelTemplate.Execute(&buf, newPanelView(p)); err != nil {
		return nil, fmt.Errorf("rendering panel: %w", err)
	}
	return buf.Bytes(), nil
}
