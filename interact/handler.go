package interact

import (
	"fmt"
	"log/slog"

	"github.com/TFMV/colexgraph/colors"
	"github.com/TFMV/colexgraph/models"
	"gonum.org/v1/gonum/spatial/r2"
)

// Stroke and fill colors of the highlight states.
const (
	NeutralStroke   = "#CCC"
	HighlightStroke = "OliveDrab"
	LabelFill       = "#555"
	HoveredFill     = "DarkBlue"
	NeighborFill    = "FireBrick"
	MarkerFill      = "FireBrick"
	MarkerRadius    = 3
)

// LinkStyle is the stroke of a link.
type LinkStyle struct {
	Stroke  string  `json:"stroke"`
	Opacity float64 `json:"opacity"`
}

// Highlighted reports whether the link is drawn in the highlight stroke.
func (s LinkStyle) Highlighted() bool {
	return s.Stroke == HighlightStroke
}

// Marker is a transient location marker on the inset map.
type Marker struct {
	Pos      r2.Vec  `json:"pos"`
	Radius   float64 `json:"radius"`
	Fill     string  `json:"fill"`
	Language string  `json:"language"`
}

// State is the transient display state derived from pointer events.
type State struct {
	Links   []LinkStyle `json:"links"`
	Labels  []string    `json:"labels"` // fill per label anchor
	Panel   *Panel      `json:"panel,omitempty"`
	Markers []Marker    `json:"markers"`
	Notices []error     `json:"-"`
}

// Dragger receives drag events. layout.Coordinator implements it.
type Dragger interface {
	DragStart(node int) error
	DragMove(node int, d r2.Vec) error
	DragEnd(node int) error
}

// Handler applies events and actions to the display state of one model.
// It is not safe for concurrent use.
type Handler struct {
	model   *models.Model
	lookups *models.Lookups
	drag    Dragger
	project Projection
	ctx     RenderContext
	palette *colors.Palette
	state   State
	log     *slog.Logger
}

// NewHandler creates a handler in the idle state. drag may be nil, in which
// case drag events are ignored; project defaults to the inset map
// projection.
func NewHandler(m *models.Model, lookups *models.Lookups, drag Dragger, project Projection, ctx RenderContext, log *slog.Logger) *Handler {
	if lookups == nil {
		lookups = models.NewLookups()
	}
	if project == nil {
		project = DefaultMapProjection().Project
	}
	if log == nil {
		log = slog.Default()
	}
	h := &Handler{
		model:   m,
		lookups: lookups,
		drag:    drag,
		project: project,
		ctx:     ctx,
		palette: colors.NewPalette(),
		state: State{
			Links:  make([]LinkStyle, len(m.Links)),
			Labels: make([]string, len(m.Anchors)),
		},
		log: log,
	}
	h.resetLinks()
	h.resetLabels()
	return h
}

// Context returns the current render context.
func (h *Handler) Context() RenderContext { return h.ctx }

// State returns the current display state. Callers must not modify it.
func (h *Handler) State() *State { return &h.state }

// Palette returns the family palette shared by every detail table.
func (h *Handler) Palette() *colors.Palette { return h.palette }

// Handle applies one pointer event.
func (h *Handler) Handle(ev Event) error {
	switch e := ev.(type) {
	case LinkHover:
		return h.hoverLink(e.Link)
	case NodeLabelHover:
		return h.hoverNode(e.Node)
	case MouseOut:
		h.resetLinks()
		h.resetLabels()
	case BackgroundClick:
		h.state.Panel = nil
		h.resetLinks()
	case DragStart:
		if h.drag != nil {
			return h.drag.DragStart(e.Node)
		}
	case DragMove:
		if h.drag != nil {
			return h.drag.DragMove(e.Node, e.Delta())
		}
	case DragEnd:
		if h.drag != nil {
			return h.drag.DragEnd(e.Node)
		}
	default:
		return fmt.Errorf("unknown event %T", ev)
	}
	return nil
}

// Dispatch applies a view action through Reduce and updates the display
// state that depends on the context.
func (h *Handler) Dispatch(a Action) {
	prev := h.ctx
	h.ctx = Reduce(h.ctx, a)

	if h.ctx.Coloring != prev.Coloring {
		h.state.Panel = nil
	}
	if h.ctx.Opacity != prev.Opacity {
		for k := range h.state.Links {
			if !h.state.Links[k].Highlighted() {
				h.state.Links[k].Opacity = h.ctx.LinkOpacity()
			}
		}
	}
}

// Swatch returns the background color of a detail row under the current
// coloring mode. The family palette assigns a hue in either mode so the
// assignment order does not depend on the mode.
func (h *Handler) Swatch(row DetailRow) colors.RGB {
	c := h.palette.Color(row.Family)
	if h.ctx.Coloring == GeoColoring {
		c = colors.Geo(row.Lon, row.Lat)
	}
	return c
}

func (h *Handler) hoverLink(k int) error {
	link, err := h.model.Link(k)
	if err != nil {
		return err
	}

	h.resetLinks()
	h.state.Links[k] = LinkStyle{Stroke: HighlightStroke, Opacity: 1}

	rows, total, notices := ResolveRecords(link.Wofam, h.lookups)
	for _, n := range notices {
		h.log.Warn("skipping evidence record", "link", k, "err", n)
	}
	h.state.Notices = notices

	markers := make([]Marker, len(rows))
	for i := range rows {
		rows[i].Swatch = h.Swatch(rows[i])
		rows[i].Text = colors.TextContrast(rows[i].Swatch)
		markers[i] = Marker{
			Pos:      h.project(rows[i].Lon, rows[i].Lat),
			Radius:   MarkerRadius,
			Fill:     MarkerFill,
			Language: rows[i].Language,
		}
	}
	h.state.Markers = markers

	h.state.Panel = &Panel{
		Kind:  LinkPanel,
		Title: linkTitle(total, h.model.Nodes[link.Source].Label, h.model.Nodes[link.Target].Label),
		Rows:  rows,
	}
	return nil
}

func (h *Handler) hoverNode(i int) error {
	n, err := h.model.Node(i)
	if err != nil {
		return err
	}
	if len(n.OutEdges) == 0 {
		return nil
	}

	h.resetLinks()
	h.state.Labels[models.LabelPoint(i)] = HoveredFill
	for _, a := range h.model.Neighbors[i] {
		h.state.Labels[models.PinnedAnchor(a)] = NeighborFill
		h.state.Labels[models.LabelPoint(a)] = NeighborFill
	}
	for _, k := range h.model.NodeLinks[i] {
		h.state.Links[k] = LinkStyle{Stroke: HighlightStroke, Opacity: 1}
	}

	h.state.Notices = nil
	h.state.Panel = &Panel{
		Kind:     NodePanel,
		Title:    nodeTitle(n),
		OutEdges: OutEdgeRows(n),
		Tooltip:  Tooltip(n),
	}
	return nil
}

func (h *Handler) resetLinks() {
	for k := range h.state.Links {
		h.state.Links[k] = LinkStyle{Stroke: NeutralStroke, Opacity: h.ctx.LinkOpacity()}
	}
}

func (h *Handler) resetLabels() {
	for a := range h.state.Labels {
		h.state.Labels[a] = LabelFill
	}
}
