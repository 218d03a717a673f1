package render

import (
	"bytes"
	"fmt"
	"html"
	"strings"
)

// Node styling of the main canvas.
const (
	nodeFill        = "#555"
	nodeStroke      = "#FFF"
	nodeStrokeWidth = 3
	labelFont       = "Arial, sans-serif"
	languageDot     = "#888"
	languageDotSize = 1.5
)

// SVGRenderer outputs the main canvas as SVG
type SVGRenderer struct{}

// Name returns the name of the renderer
func (r *SVGRenderer) Name() string {
	return "SVG Renderer"
}

// Description returns a description of the renderer
func (r *SVGRenderer) Description() string {
	return "Renders the concept graph canvas as Scalable Vector Graphics"
}

// Render creates an SVG representation of the frame
func (r *SVGRenderer) Render(frame *Frame, options *OutputOptions) ([]byte, error) {
	if frame == nil || frame.Model == nil {
		return nil, fmt.Errorf("svg: empty frame")
	}
	s := NewSnapshot(frame)
	var buf bytes.Buffer

	fmt.Fprintf(&buf, `<?xml version="1.0" encoding="UTF-8" standalone="no"?>
<svg width="%g" height="%g" viewBox="0 0 %g %g" xmlns="http://www.w3.org/2000/svg">
<rect class="background" width="100%%" height="100%%" fill="%s"/>
`, options.Width, options.Height, options.Width, options.Height, attr(options.Background))

	vp := s.Context.Viewport
	if vp.Scale <= 0 {
		vp.Scale = 1
	}
	fmt.Fprintf(&buf, `<g class="viewport" transform="translate(%.2f,%.2f) scale(%g)">
`, vp.Translate.X, vp.Translate.Y, vp.Scale)

	buf.WriteString("<g class=\"links\">\n")
	for _, l := range s.Links {
		fmt.Fprintf(&buf, `  <line class="link" data-index="%d" x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-opacity="%g" stroke-width="%g"/>
`, l.Index, l.X1, l.Y1, l.X2, l.Y2, attr(l.Stroke), l.Opacity, l.Width)
	}
	buf.WriteString("</g>\n")

	buf.WriteString("<g class=\"nodes\">\n")
	for _, n := range s.Nodes {
		fixed := ""
		if n.Fixed {
			fixed = ` data-fixed="true"`
		}
		fmt.Fprintf(&buf, `  <circle class="node" data-index="%d"%s cx="%.2f" cy="%.2f" r="%g" fill="%s" stroke="%s" stroke-width="%d"/>
`, n.Index, fixed, n.X, n.Y, options.NodeRadius, nodeFill, nodeStroke, nodeStrokeWidth)
	}
	buf.WriteString("</g>\n")

	buf.WriteString("<g class=\"labels\">\n")
	for _, l := range s.Labels {
		weight := "normal"
		if l.Bold {
			weight = "bold"
		}
		fmt.Fprintf(&buf, `  <g class="anchor" data-node="%d" transform="translate(%.2f,%.2f)"><text transform="translate(%.2f,%.2f)" fill="%s" font-family="%s" font-size="%g" font-weight="%s">%s`,
			l.Node, l.X, l.Y, l.DX, l.DY, attr(l.Fill), labelFont, options.FontSize, weight, html.EscapeString(l.Text))
		if len(l.Tooltip) > 0 {
			fmt.Fprintf(&buf, "<title>%s</title>", html.EscapeString(strings.Join(l.Tooltip, "\n")))
		}
		buf.WriteString("</text></g>\n")
	}
	buf.WriteString("</g>\n")

	buf.WriteString("</g>\n</svg>\n")
	return buf.Bytes(), nil
}

// MapRenderer outputs the inset map with every known language location and
// the markers of the hovered link.
type MapRenderer struct{}

// Name returns the name of the renderer
func (r *MapRenderer) Name() string {
	return "Map Renderer"
}

// Description returns a description of the renderer
func (r *MapRenderer) Description() string {
	return "Renders the inset map of language locations as SVG"
}

// Render creates the inset map of the frame
func (r *MapRenderer) Render(frame *Frame, options *OutputOptions) ([]byte, error) {
	if frame == nil {
		return nil, fmt.Errorf("map: empty frame")
	}
	project := options.projection()
	var buf bytes.Buffer

	fmt.Fprintf(&buf, `<?xml version="1.0" encoding="UTF-8" standalone="no"?>
<svg width="%g" height="%g" viewBox="0 0 %g %g" xmlns="http://www.w3.org/2000/svg">
<rect class="background" width="100%%" height="100%%" fill="%s" stroke="#ddd"/>
`, options.MapWidth, options.MapHeight, options.MapWidth, options.MapHeight, attr(options.MapBackground))

	buf.WriteString("<g class=\"languages\">\n")
	if frame.Lookups != nil {
		for _, key := range frame.Lookups.Order {
			lang := frame.Lookups.Languages[key]
			p := project(lang.Lon, lang.Lat)
			fmt.Fprintf(&buf, `  <circle class="language" cx="%.2f" cy="%.2f" r="%g" fill="%s"><title>%s</title></circle>
`, p.X, p.Y, languageDotSize, languageDot, html.EscapeString(lang.Name))
		}
	}
	buf.WriteString("</g>\n")

	buf.WriteString("<g class=\"markers\">\n")
	if frame.State != nil {
		for _, m := range frame.State.Markers {
			fmt.Fprintf(&buf, `  <circle class="marker" cx="%.2f" cy="%.2f" r="%g" fill="%s"><title>%s</title></circle>
`, m.Pos.X, m.Pos.Y, m.Radius, attr(m.Fill), html.EscapeString(m.Language))
		}
	}
	buf.WriteString("</g>\n</svg>\n")
	return buf.Bytes(), nil
}

func attr(s string) string {
	return html.EscapeString(s)
}
