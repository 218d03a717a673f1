package server

import (
	"encoding/base64"
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/TFMV/colexgraph/interact"
	"github.com/TFMV/colexgraph/render"
)

// clientMessage is a message sent by the viewer page.
type clientMessage struct {
	Type    string  `json:"type"`
	Link    int     `json:"link"`
	Node    int     `json:"node"`
	DX      float64 `json:"dx"`
	DY      float64 `json:"dy"`
	Mode    string  `json:"mode"`
	Percent int     `json:"percent"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Scale   float64 `json:"scale"`
	Format  string  `json:"format"`
}

// request is a decoded client message. Exactly one field is set.
type request struct {
	event  interact.Event
	action interact.Action
	export string
}

func (m clientMessage) decode() (request, error) {
	switch m.Type {
	case "hover_link":
		return request{event: interact.LinkHover{Link: m.Link}}, nil
	case "hover_node":
		return request{event: interact.NodeLabelHover{Node: m.Node}}, nil
	case "mouse_out":
		return request{event: interact.MouseOut{}}, nil
	case "drag_start":
		return request{event: interact.DragStart{Node: m.Node}}, nil
	case "drag_move":
		return request{event: interact.DragMove{Node: m.Node, DX: m.DX, DY: m.DY}}, nil
	case "drag_end":
		return request{event: interact.DragEnd{Node: m.Node}}, nil
	case "background_click":
		return request{event: interact.BackgroundClick{}}, nil
	case "coloring":
		mode, err := interact.ParseColoring(m.Mode)
		if err != nil {
			return request{}, err
		}
		return request{action: interact.SetColoring{Mode: mode}}, nil
	case "opacity":
		return request{action: interact.SetOpacity{Percent: m.Percent}}, nil
	case "viewport":
		return request{action: interact.SetViewport{Translate: r2.Vec{X: m.X, Y: m.Y}, Scale: m.Scale}}, nil
	case "export":
		if _, err := render.GetRenderer(m.Format); err != nil {
			return request{}, err
		}
		return request{export: m.Format}, nil
	}
	return request{}, fmt.Errorf("unknown message type %q", m.Type)
}

// serverMessage is a message pushed to the viewer page.
type serverMessage struct {
	Type     string           `json:"type"`
	Session  string           `json:"session,omitempty"`
	Document string           `json:"document,omitempty"`
	Frame    *render.Snapshot `json:"frame,omitempty"`
	Format   string           `json:"format,omitempty"`
	Mime     string           `json:"mime,omitempty"`
	Content  string           `json:"content,omitempty"` // base64
	Error    string           `json:"error,omitempty"`
}

func frameMessage(s *render.Snapshot) serverMessage {
	return serverMessage{Type: "frame", Frame: s}
}

func errorMessage(err error) serverMessage {
	return serverMessage{Type: "error", Error: err.Error()}
}

func exportMessage(format string, data []byte) serverMessage {
	return serverMessage{
		Type:    "export",
		Format:  format,
		Mime:    mimeType(format),
		Content: base64.StdEncoding.EncodeToString(data),
	}
}

func mimeType(format string) string {
	switch format {
	case "svg", "map":
		return "image/svg+xml"
	case "png":
		return "image/png"
	case "json":
		return "application/json"
	default:
		return "text/html"
	}
}
