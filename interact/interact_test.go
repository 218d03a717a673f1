package interact

import (
	"errors"
	"log/slog"
	"reflect"
	"testing"

	"github.com/TFMV/colexgraph/colors"
	"github.com/TFMV/colexgraph/models"
	"gonum.org/v1/gonum/spatial/r2"
)

func fixture(t *testing.T, wofam string) (*models.Model, *models.Lookups) {
	t.Helper()
	m, err := models.Build(
		[]models.ConceptRecord{
			{ID: "1", Gloss: "HAND", OutEdge: []models.OutEdge{
				{TargetID: "10", Community: "c1", TargetLabel: "ARM", Frequency: "7", RegistryID: "1673"},
				{TargetID: "11", Community: "c2", TargetLabel: "FINGER", Frequency: "3", RegistryID: "1303"},
				{TargetID: "12", Community: "c3", TargetLabel: "PALM", Frequency: "1", RegistryID: "1732"},
			}},
			{ID: "2", Gloss: "ARM"},
			{ID: "3", Gloss: "TREE"},
		},
		[][]models.AdjacencyEntry{
			{{ID: "2", FamilyWeight: 4, Wofam: wofam}},
			{{ID: "1", FamilyWeight: 2, Wofam: wofam}},
			{},
		},
	)
	if err != nil {
		t.Fatal(err)
	}

	l := models.NewLookups()
	l.Words["w1"] = models.WordEntry{Form: "lima", Gloss: "lima"}
	l.Words["w2"] = models.WordEntry{Form: "besoa", Gloss: "beso"}
	l.Words["w3"] = models.WordEntry{Form: "ruka", Gloss: "ruka"}
	l.AddLanguage(models.Language{Key: "lang1", Name: "Zulu", Family: "famB", Lon: 30, Lat: -28})
	l.AddLanguage(models.Language{Key: "lang2", Name: "Basque", Family: "famA", Lon: -2, Lat: 43})
	l.AddLanguage(models.Language{Key: "lang3", Name: "Aymara", Family: "famA", Lon: -68, Lat: -16})
	return m, l
}

func newHandler(t *testing.T, wofam string, drag Dragger) (*Handler, *models.Model) {
	t.Helper()
	m, l := fixture(t, wofam)
	return NewHandler(m, l, drag, nil, DefaultContext(), slog.New(slog.DiscardHandler)), m
}

func TestLinkHoverSortsRows(t *testing.T) {
	h, _ := newHandler(t, "w1/_/_/lang1/famB;w2/_/_/lang2/famA", nil)
	if err := h.Handle(LinkHover{Link: 0}); err != nil {
		t.Fatal(err)
	}
	p := h.State().Panel
	if p == nil || p.Kind != LinkPanel {
		t.Fatalf("expected link panel, got %+v", p)
	}
	if len(p.Rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(p.Rows))
	}
	if p.Rows[0].Family != "famA" || p.Rows[1].Family != "famB" {
		t.Errorf("rows not sorted by family: %q, %q", p.Rows[0].Family, p.Rows[1].Family)
	}
	if p.Rows[0].Language != "Basque" || p.Rows[0].Gloss != "beso" || p.Rows[0].WordID != "w2" {
		t.Errorf("unexpected first row %+v", p.Rows[0])
	}
	if p.Title != `2 links for "ARM" and "HAND":` {
		t.Errorf("Title = %q", p.Title)
	}
}

func TestRowsTieBreakOnLanguage(t *testing.T) {
	_, l := fixture(t, "")
	rows, total, notices := ResolveRecords("w2/_/_/lang2/famA;w3/_/_/lang3/famA;w1/_/_/lang1/famB", l)
	if total != 3 || len(notices) != 0 {
		t.Fatalf("total %d, notices %v", total, notices)
	}
	got := []string{rows[0].Language, rows[1].Language, rows[2].Language}
	want := []string{"Aymara", "Basque", "Zulu"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("languages %v, want %v", got, want)
	}
}

func TestResolveRecordsSkipsBadRecords(t *testing.T) {
	_, l := fixture(t, "")
	rows, total, notices := ResolveRecords("w1/_/_/lang1/famB;nope/_/_/lang1/famB;w2/_/_/xx/famA;broken", l)
	if total != 4 {
		t.Errorf("total = %d, want 4", total)
	}
	if len(rows) != 1 || rows[0].WordID != "w1" {
		t.Fatalf("rows = %+v", rows)
	}
	if len(notices) != 3 {
		t.Fatalf("got %d notices, want 3: %v", len(notices), notices)
	}

	var unresolved *models.UnresolvedReferenceError
	if !errors.As(notices[0], &unresolved) || unresolved.Kind != models.WordReference || unresolved.Key != "nope" {
		t.Errorf("notice 0 = %v", notices[0])
	}
	if !errors.As(notices[1], &unresolved) || unresolved.Kind != models.LanguageReference || unresolved.Key != "xx" {
		t.Errorf("notice 1 = %v", notices[1])
	}
	var malformed *models.MalformedRecordError
	if !errors.As(notices[2], &malformed) || malformed.Fields != 1 {
		t.Errorf("notice 2 = %v", notices[2])
	}
}

func TestLinkHoverHighlight(t *testing.T) {
	h, _ := newHandler(t, "w1/_/_/lang1/famB", nil)
	h.Dispatch(SetOpacity{Percent: 40})
	if err := h.Handle(LinkHover{Link: 1}); err != nil {
		t.Fatal(err)
	}
	s := h.State()
	if s.Links[1] != (LinkStyle{Stroke: HighlightStroke, Opacity: 1}) {
		t.Errorf("hovered link style %+v", s.Links[1])
	}
	if s.Links[0] != (LinkStyle{Stroke: NeutralStroke, Opacity: 0.4}) {
		t.Errorf("other link style %+v", s.Links[0])
	}
	if len(s.Markers) != 1 {
		t.Fatalf("got %d markers", len(s.Markers))
	}
	want := DefaultMapProjection().Project(30, -28)
	if s.Markers[0].Pos != want || s.Markers[0].Fill != MarkerFill {
		t.Errorf("marker %+v, want at %v", s.Markers[0], want)
	}
}

func TestLinkHoverSwatches(t *testing.T) {
	h, _ := newHandler(t, "w1/_/_/lang1/famB", nil)
	if err := h.Handle(LinkHover{Link: 0}); err != nil {
		t.Fatal(err)
	}
	row := h.State().Panel.Rows[0]
	if row.Swatch != h.Palette().Color("famB") {
		t.Errorf("family swatch %v", row.Swatch)
	}
	if row.Text != colors.TextContrast(row.Swatch) {
		t.Errorf("text contrast %v", row.Text)
	}

	h.Dispatch(SetColoring{Mode: GeoColoring})
	if h.State().Panel != nil {
		t.Error("coloring change did not hide the panel")
	}
	if err := h.Handle(LinkHover{Link: 0}); err != nil {
		t.Fatal(err)
	}
	row = h.State().Panel.Rows[0]
	if row.Swatch != colors.Geo(30, -28) {
		t.Errorf("geo swatch %v, want %v", row.Swatch, colors.Geo(30, -28))
	}
}

func TestLinkHoverOutOfRange(t *testing.T) {
	h, _ := newHandler(t, "", nil)
	if err := h.Handle(LinkHover{Link: 9}); !errors.Is(err, models.ErrLinkIndex) {
		t.Errorf("got %v, want ErrLinkIndex", err)
	}
}

func TestNodeHoverWithoutOutEdgesIsNoop(t *testing.T) {
	h, _ := newHandler(t, "w1/_/_/lang1/famB", nil)
	before := cloneState(h.State())
	if err := h.Handle(NodeLabelHover{Node: 1}); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(before, cloneState(h.State())) {
		t.Error("hovering a node without out edges changed the state")
	}
}

func TestNodeHoverTable(t *testing.T) {
	h, m := newHandler(t, "w1/_/_/lang1/famB", nil)
	if err := h.Handle(NodeLabelHover{Node: 0}); err != nil {
		t.Fatal(err)
	}
	s := h.State()
	p := s.Panel
	if p == nil || p.Kind != NodePanel {
		t.Fatalf("expected node panel, got %+v", p)
	}
	if len(p.OutEdges) != 3 {
		t.Fatalf("got %d rows, want 3", len(p.OutEdges))
	}
	for i, want := range []string{"ARM", "FINGER", "PALM"} {
		if p.OutEdges[i].TargetLabel != want {
			t.Errorf("row %d = %q, want %q", i, p.OutEdges[i].TargetLabel, want)
		}
	}
	if p.OutEdges[0].RegistryURL != RegistryURL+"1673" || p.OutEdges[0].CommunityURL != "?10" {
		t.Errorf("unexpected urls %+v", p.OutEdges[0])
	}
	if !reflect.DeepEqual(p.Tooltip, []string{"10", "11", "12"}) {
		t.Errorf("Tooltip = %v", p.Tooltip)
	}
	if p.Title != `3 links from "HAND" to other concepts:` {
		t.Errorf("Title = %q", p.Title)
	}

	if s.Labels[models.LabelPoint(0)] != HoveredFill {
		t.Errorf("hovered label fill %q", s.Labels[models.LabelPoint(0)])
	}
	if s.Labels[models.LabelPoint(1)] != NeighborFill {
		t.Errorf("neighbor label fill %q", s.Labels[models.LabelPoint(1)])
	}
	if s.Labels[models.LabelPoint(2)] != LabelFill {
		t.Errorf("unrelated label fill %q", s.Labels[models.LabelPoint(2)])
	}
	for _, k := range m.NodeLinks[0] {
		if !s.Links[k].Highlighted() {
			t.Errorf("link %d not highlighted", k)
		}
	}
}

func TestMouseOutResets(t *testing.T) {
	h, _ := newHandler(t, "w1/_/_/lang1/famB", nil)
	h.Handle(NodeLabelHover{Node: 0})
	if err := h.Handle(MouseOut{}); err != nil {
		t.Fatal(err)
	}
	s := h.State()
	for k, l := range s.Links {
		if l != (LinkStyle{Stroke: NeutralStroke, Opacity: 1}) {
			t.Errorf("link %d style %+v", k, l)
		}
	}
	for a, f := range s.Labels {
		if f != LabelFill {
			t.Errorf("label %d fill %q", a, f)
		}
	}
	if s.Panel == nil {
		t.Error("mouse out hid the panel")
	}
}

func TestBackgroundClick(t *testing.T) {
	h, m := newHandler(t, "w1/_/_/lang1/famB", nil)
	m.Nodes[1].Fixed = true
	h.Handle(LinkHover{Link: 0})
	if err := h.Handle(BackgroundClick{}); err != nil {
		t.Fatal(err)
	}
	if h.State().Panel != nil {
		t.Error("panel still visible")
	}
	if h.State().Links[0].Stroke != NeutralStroke {
		t.Errorf("link stroke %q", h.State().Links[0].Stroke)
	}
	if !m.Nodes[1].Fixed {
		t.Error("background click released a fixed node")
	}
}

func TestOpacityKeepsHighlight(t *testing.T) {
	h, _ := newHandler(t, "w1/_/_/lang1/famB", nil)
	h.Handle(LinkHover{Link: 0})
	h.Dispatch(SetOpacity{Percent: 25})
	s := h.State()
	if s.Links[0].Opacity != 1 {
		t.Errorf("highlighted link opacity %v", s.Links[0].Opacity)
	}
	if s.Links[1].Opacity != 0.25 {
		t.Errorf("neutral link opacity %v", s.Links[1].Opacity)
	}
	if h.State().Panel == nil {
		t.Error("opacity change hid the panel")
	}
}

type fakeDragger struct {
	calls []string
	moved r2.Vec
}

func (f *fakeDragger) DragStart(int) error { f.calls = append(f.calls, "start"); return nil }
func (f *fakeDragger) DragMove(_ int, d r2.Vec) error {
	f.calls = append(f.calls, "move")
	f.moved = r2.Add(f.moved, d)
	return nil
}
func (f *fakeDragger) DragEnd(int) error { f.calls = append(f.calls, "end"); return nil }

func TestDragEventsForwarded(t *testing.T) {
	d := &fakeDragger{}
	h, _ := newHandler(t, "", d)
	for _, ev := range []Event{DragStart{Node: 1}, DragMove{Node: 1, DX: 2, DY: 3}, DragMove{Node: 1, DX: 1}, DragEnd{Node: 1}} {
		if err := h.Handle(ev); err != nil {
			t.Fatal(err)
		}
	}
	if !reflect.DeepEqual(d.calls, []string{"start", "move", "move", "end"}) {
		t.Errorf("calls = %v", d.calls)
	}
	if d.moved != (r2.Vec{X: 3, Y: 3}) {
		t.Errorf("moved = %v", d.moved)
	}
}

func TestReduce(t *testing.T) {
	c := DefaultContext()
	c = Reduce(c, SetOpacity{Percent: 140})
	if c.Opacity != 100 {
		t.Errorf("opacity %d, want 100", c.Opacity)
	}
	c = Reduce(c, SetOpacity{Percent: -3})
	if c.Opacity != 0 {
		t.Errorf("opacity %d, want 0", c.Opacity)
	}
	c = Reduce(c, SetColoring{Mode: "Rainbow"})
	if c.Coloring != FamilyColoring {
		t.Errorf("unknown mode accepted: %q", c.Coloring)
	}
	c = Reduce(c, SetViewport{Translate: r2.Vec{X: 5}, Scale: 0})
	if c.Viewport.Scale != 1 || c.Viewport.Translate.X != 5 {
		t.Errorf("viewport %+v", c.Viewport)
	}
	if Reduce(c, nil) != c {
		t.Error("nil action changed the context")
	}
}

func TestParseColoring(t *testing.T) {
	for in, want := range map[string]Coloring{"family": FamilyColoring, "Geolocation": GeoColoring, "geo": GeoColoring} {
		got, err := ParseColoring(in)
		if err != nil || got != want {
			t.Errorf("ParseColoring(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseColoring("x"); err == nil {
		t.Error("expected error")
	}
}

func TestProjectionCenter(t *testing.T) {
	p := DefaultMapProjection()
	if got := p.Project(65, 25); got != p.Translate {
		t.Errorf("centre projects to %v", got)
	}
	east := p.Project(75, 25)
	north := p.Project(65, 35)
	if east.X <= p.Translate.X || north.Y >= p.Translate.Y {
		t.Errorf("unexpected orientation east %v north %v", east, north)
	}
}

func cloneState(s *State) State {
	c := State{
		Links:   append([]LinkStyle(nil), s.Links...),
		Labels:  append([]string(nil), s.Labels...),
		Markers: append([]Marker(nil), s.Markers...),
		Notices: append([]error(nil), s.Notices...),
	}
	if s.Panel != nil {
		p := *s.Panel
		c.Panel = &p
	}
	return c
}
