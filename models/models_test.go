package models

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

const sampleDocument = `{
  "nodes": [
    {"ID": 1, "Gloss": "HAND", "OutEdge": [["10", "c1", "ARM", 7, "1673"]]},
    {"ID": "2", "Gloss": "ARM", "OutEdge": []},
    {"ID": 3, "Gloss": "TREE", "OutEdge": []}
  ],
  "adjacency": [
    [{"id": 2, "FamilyWeight": 4, "wofam": "w1/_/_/l1/f1;w2/_/_/l2/f2"}],
    [{"id": "1", "FamilyWeight": 2, "wofam": "w1/_/_/l1/f1"}, {"id": 3, "FamilyWeight": 1, "wofam": ""}],
    []
  ]
}`

func decodeSample(t *testing.T) *Document {
	t.Helper()
	var doc Document
	if err := json.Unmarshal([]byte(sampleDocument), &doc); err != nil {
		t.Fatal(err)
	}
	return &doc
}

func TestDecodeDocument(t *testing.T) {
	doc := decodeSample(t)
	if doc.Nodes[0].ID != "1" || doc.Nodes[1].ID != "2" {
		t.Errorf("ids decoded as %q, %q", doc.Nodes[0].ID, doc.Nodes[1].ID)
	}
	want := OutEdge{TargetID: "10", Community: "c1", TargetLabel: "ARM", Frequency: "7", RegistryID: "1673"}
	if len(doc.Nodes[0].OutEdge) != 1 || doc.Nodes[0].OutEdge[0] != want {
		t.Errorf("out edge = %+v", doc.Nodes[0].OutEdge)
	}
	if doc.Adjacency[1][1].ID != "3" || doc.Adjacency[0][0].FamilyWeight != 4 {
		t.Errorf("adjacency = %+v", doc.Adjacency)
	}
}

func TestOutEdgeRejectsWrongArity(t *testing.T) {
	var e OutEdge
	if err := json.Unmarshal([]byte(`["10", "c1"]`), &e); err == nil {
		t.Error("expected error for short out edge")
	}
	if err := json.Unmarshal([]byte(`["10", "c1", ["x"], "1", "2"]`), &e); err == nil {
		t.Error("expected error for nested field")
	}
}

func TestOutEdgeEncodesPositionally(t *testing.T) {
	b, err := json.Marshal(OutEdge{TargetID: "10", Community: "c", TargetLabel: "ARM", Frequency: "7", RegistryID: "1"})
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `["10","c","ARM","7","1"]` {
		t.Errorf("got %s", b)
	}
}

func TestWordEntryDecode(t *testing.T) {
	var words map[Key]WordEntry
	if err := json.Unmarshal([]byte(`{"w1": ["lima", "hand"], "7": [3, "arm"]}`), &words); err != nil {
		t.Fatal(err)
	}
	if words["w1"] != (WordEntry{Form: "lima", Gloss: "hand"}) {
		t.Errorf("w1 = %+v", words["w1"])
	}
	if words["7"].Form != "3" {
		t.Errorf("numeric form = %q", words["7"].Form)
	}
}

func TestBuild(t *testing.T) {
	m, err := BuildDocument(decodeSample(t))
	if err != nil {
		t.Fatal(err)
	}
	if len(m.Nodes) != 3 || len(m.Links) != 3 {
		t.Fatalf("got %d nodes, %d links", len(m.Nodes), len(m.Links))
	}
	if len(m.Anchors) != 2*len(m.Nodes) || len(m.AnchorLinks) != len(m.Nodes) {
		t.Errorf("got %d anchors, %d anchor links", len(m.Anchors), len(m.AnchorLinks))
	}
	for i := range m.Nodes {
		al := m.AnchorLinks[i]
		if al.Source != PinnedAnchor(i) || al.Target != LabelPoint(i) || al.Weight != 1 {
			t.Errorf("anchor link %d = %+v", i, al)
		}
		if m.Anchors[PinnedAnchor(i)].Node != i || m.Anchors[LabelPoint(i)].Node != i {
			t.Errorf("anchors of node %d point elsewhere", i)
		}
	}

	l := m.Links[0]
	if l.Source != 1 || l.Target != 0 {
		t.Errorf("link 0 joins %d -> %d", l.Source, l.Target)
	}
	if l.NormalizedWeight != 1 || l.EdgeWidth != 1 {
		t.Errorf("link 0 weight %v width %v", l.NormalizedWeight, l.EdgeWidth)
	}
	if m.Links[1].NormalizedWeight != 0.5 || m.Links[2].NormalizedWeight != 0.25 {
		t.Errorf("normalized weights %v, %v", m.Links[1].NormalizedWeight, m.Links[2].NormalizedWeight)
	}

	if !reflect.DeepEqual(m.Neighbors, [][]int{{1}, {0, 2}, nil}) {
		t.Errorf("Neighbors = %v", m.Neighbors)
	}
	if !reflect.DeepEqual(m.NodeLinks[1], []int{0, 1, 2}) {
		t.Errorf("NodeLinks[1] = %v", m.NodeLinks[1])
	}
	if len(m.Warnings) != 0 {
		t.Errorf("unexpected warnings %v", m.Warnings)
	}
}

func TestBuildWeightsInRange(t *testing.T) {
	m, err := BuildDocument(decodeSample(t))
	if err != nil {
		t.Fatal(err)
	}
	for k, l := range m.Links {
		if l.NormalizedWeight < 0 || l.NormalizedWeight > 1 {
			t.Errorf("link %d normalized weight %v", k, l.NormalizedWeight)
		}
	}
}

func TestBuildZeroWeights(t *testing.T) {
	m, err := Build(
		[]ConceptRecord{{ID: "a"}, {ID: "b"}},
		[][]AdjacencyEntry{{{ID: "b"}}, {{ID: "a"}}},
	)
	if err != nil {
		t.Fatal(err)
	}
	for k, l := range m.Links {
		if l.NormalizedWeight != 0 {
			t.Errorf("link %d normalized to %v", k, l.NormalizedWeight)
		}
	}
}

func TestBuildEmpty(t *testing.T) {
	m, err := Build([]ConceptRecord{}, [][]AdjacencyEntry{})
	if err != nil {
		t.Fatal(err)
	}
	if len(m.Nodes) != 0 || len(m.Links) != 0 || len(m.Anchors) != 0 {
		t.Errorf("non-empty model %+v", m)
	}
}

func TestBuildDeterministic(t *testing.T) {
	a, err := BuildDocument(decodeSample(t))
	if err != nil {
		t.Fatal(err)
	}
	b, err := BuildDocument(decodeSample(t))
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Error("two builds of the same document differ")
	}
}

func TestBuildDuplicateIDLastWins(t *testing.T) {
	m, err := Build(
		[]ConceptRecord{{ID: "x", Gloss: "first"}, {ID: "y"}, {ID: "x", Gloss: "second"}},
		[][]AdjacencyEntry{{}, {{ID: "x", FamilyWeight: 1}}, {}},
	)
	if err != nil {
		t.Fatal(err)
	}
	if m.Links[0].Source != 2 {
		t.Errorf("link resolved to node %d, want 2", m.Links[0].Source)
	}
	var dup *DuplicateIDError
	if len(m.Warnings) != 1 || !errors.As(m.Warnings[0], &dup) {
		t.Fatalf("warnings = %v", m.Warnings)
	}
	if dup.First != 0 || dup.Last != 2 {
		t.Errorf("duplicate = %+v", dup)
	}
	if i, _ := m.FindNodeByID("x"); i != 2 {
		t.Errorf("FindNodeByID = %d", i)
	}
}

func TestBuildUnknownID(t *testing.T) {
	m, err := Build(
		[]ConceptRecord{{ID: "a"}, {ID: "b"}},
		[][]AdjacencyEntry{{{ID: "b", FamilyWeight: 2}, {ID: "zz", FamilyWeight: 9}}, {}},
	)
	if err != nil {
		t.Fatal(err)
	}
	if len(m.Links) != 1 || m.Links[0].NormalizedWeight != 1 {
		t.Errorf("links = %+v", m.Links)
	}
	var unknown *UnknownNodeError
	if len(m.Warnings) != 1 || !errors.As(m.Warnings[0], &unknown) || unknown.ID != "zz" {
		t.Errorf("warnings = %v", m.Warnings)
	}
}

func TestBuildMalformed(t *testing.T) {
	if _, err := Build([]ConceptRecord{{ID: "a"}}, make([][]AdjacencyEntry, 2)); !errors.Is(err, ErrMalformedDocument) {
		t.Errorf("extra rows: got %v", err)
	}
	if _, err := BuildDocument(&Document{Nodes: []ConceptRecord{}}); !errors.Is(err, ErrMalformedDocument) {
		t.Errorf("missing adjacency: got %v", err)
	}
	var doc Document
	if err := json.Unmarshal([]byte(`{"adjacency": []}`), &doc); err != nil {
		t.Fatal(err)
	}
	if _, err := BuildDocument(&doc); !errors.Is(err, ErrMalformedDocument) {
		t.Errorf("missing nodes: got %v", err)
	}
}

func TestModelLookups(t *testing.T) {
	m, err := BuildDocument(decodeSample(t))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m.Node(3); !errors.Is(err, ErrNodeIndex) {
		t.Errorf("Node(3): %v", err)
	}
	if _, err := m.Link(-1); !errors.Is(err, ErrLinkIndex) {
		t.Errorf("Link(-1): %v", err)
	}
	if k, ok := m.FindLink(0, 1); !ok || k != 0 {
		t.Errorf("FindLink(0, 1) = %d, %v", k, ok)
	}
	if _, ok := m.FindLink(0, 2); ok {
		t.Error("FindLink(0, 2) found a link")
	}
	m.Nodes[2].Fixed = true
	if !reflect.DeepEqual(m.Fixed(), []int{2}) {
		t.Errorf("Fixed = %v", m.Fixed())
	}
}

func TestWofam(t *testing.T) {
	in := "w1/_/_/lang1/famB;w2/x/y/lang2/famA"
	records, errs := ParseWofam(in)
	if len(errs) != 0 {
		t.Fatal(errs)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records", len(records))
	}
	if records[1].WordID() != "w2" || records[1].LanguageKey() != "lang2" || records[1].Family() != "famA" {
		t.Errorf("record 1 = %+v", records[1])
	}
	if got := EncodeWofam(records); got != in {
		t.Errorf("EncodeWofam = %q", got)
	}
}

func TestWofamMalformed(t *testing.T) {
	records, errs := ParseWofam("w1/_/_/l1/f1;w2/l2/f2")
	if len(records) != 1 || len(errs) != 1 {
		t.Fatalf("got %d records, %d errors", len(records), len(errs))
	}
	var malformed *MalformedRecordError
	if !errors.As(errs[0], &malformed) || malformed.Fields != 3 {
		t.Errorf("error = %v", errs[0])
	}
	if SplitWofam("") != nil {
		t.Error("empty string should hold no records")
	}
}

func TestBodyMoves(t *testing.T) {
	var b Body
	b.SnapTo(r2Vec(3, 4))
	if !b.Placed || b.Velocity() != r2Vec(0, 0) {
		t.Errorf("after snap %+v", b)
	}
	b.Pos = r2Vec(5, 4)
	b.MoveBy(r2Vec(1, 1))
	if b.Pos != r2Vec(6, 5) || b.Velocity() != r2Vec(2, 0) {
		t.Errorf("after move %+v", b)
	}
}

func TestLookupsKeepOrder(t *testing.T) {
	l := NewLookups()
	l.AddLanguage(Language{Key: "b", Name: "B"})
	l.AddLanguage(Language{Key: "a", Name: "A"})
	l.AddLanguage(Language{Key: "b", Name: "B2"})
	if !reflect.DeepEqual(l.Order, []string{"b", "a"}) {
		t.Errorf("Order = %v", l.Order)
	}
	if l.Languages["b"].Name != "B2" {
		t.Errorf("b = %+v", l.Languages["b"])
	}
	tuple := Language{Name: "Basque", Family: "Isolate", Lon: -2.5, Lat: 43}.Tuple()
	if tuple[4] != "Isolate" || tuple[5] != "-2.5" || tuple[6] != "43" {
		t.Errorf("Tuple = %v", tuple)
	}
}

func r2Vec(x, y float64) r2.Vec { return r2.Vec{X: x, Y: y} }
