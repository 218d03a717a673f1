// Package models provides the data structures of the colexification graph.
// It defines the concept nodes, weighted links, label anchors and the lookup
// tables that back the interactive detail views.
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"gonum.org/v1/gonum/spatial/r2"
)

// Key identifies a concept, a word or a language. Source documents write
// identifiers both as JSON strings and as JSON numbers; Key accepts either
// and compares them as text.
type Key string

// UnmarshalJSON implements json.Unmarshaler.
func (k *Key) UnmarshalJSON(data []byte) error {
	s, err := rawText(data)
	if err != nil {
		return fmt.Errorf("decoding key: %w", err)
	}
	*k = Key(s)
	return nil
}

// rawText renders a JSON scalar as text. Strings are unquoted, numbers and
// booleans keep their literal form and null becomes the empty string.
func rawText(data []byte) (string, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return "", nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return "", err
		}
		return s, nil
	}
	if data[0] == '[' || data[0] == '{' {
		return "", fmt.Errorf("expected scalar, got %s", data)
	}
	return string(data), nil
}

// Body is the physical state a force simulation integrates. Velocity is
// implicit: Pos - Prev.
type Body struct {
	Pos    r2.Vec `json:"pos"`
	Prev   r2.Vec `json:"prev"`
	Fixed  bool   `json:"fixed"`
	Placed bool   `json:"-"` // set once the body has an initial position
}

// Velocity returns the displacement carried into the next integration step.
func (b *Body) Velocity() r2.Vec {
	return r2.Sub(b.Pos, b.Prev)
}

// MoveBy translates both the position and the previous position so the
// carried velocity is unchanged.
func (b *Body) MoveBy(d r2.Vec) {
	b.Pos = r2.Add(b.Pos, d)
	b.Prev = r2.Add(b.Prev, d)
}

// SnapTo places the body exactly at p with zero velocity.
func (b *Body) SnapTo(p r2.Vec) {
	b.Pos = p
	b.Prev = p
	b.Placed = true
}

// OutEdge is one strong link from a concept to a concept of another
// community: (targetConceptId, community, targetLabel, frequency,
// registryId).
type OutEdge struct {
	TargetID    Key    `json:"target_id"`
	Community   string `json:"community"`
	TargetLabel string `json:"target_label"`
	Frequency   string `json:"frequency"`
	RegistryID  string `json:"registry_id"`
}

// UnmarshalJSON decodes the positional 5-element array form.
func (e *OutEdge) UnmarshalJSON(data []byte) error {
	var fields []json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("decoding out edge: %w", err)
	}
	if len(fields) != 5 {
		return fmt.Errorf("decoding out edge: expected 5 fields, got %d", len(fields))
	}
	text := make([]string, len(fields))
	for i, f := range fields {
		s, err := rawText(f)
		if err != nil {
			return fmt.Errorf("decoding out edge field %d: %w", i, err)
		}
		text[i] = s
	}
	*e = OutEdge{
		TargetID:    Key(text[0]),
		Community:   text[1],
		TargetLabel: text[2],
		Frequency:   text[3],
		RegistryID:  text[4],
	}
	return nil
}

// MarshalJSON encodes the positional 5-element array form.
func (e OutEdge) MarshalJSON() ([]byte, error) {
	return json.Marshal([]string{string(e.TargetID), e.Community, e.TargetLabel, e.Frequency, e.RegistryID})
}

// ConceptRecord is a node entry of the graph document.
type ConceptRecord struct {
	ID        Key             `json:"ID"`
	Gloss     string          `json:"Gloss"`
	OutEdge   []OutEdge       `json:"OutEdge"`
	Words     json.RawMessage `json:"Words,omitempty"`
	Languages json.RawMessage `json:"Languages,omitempty"`
	Families  json.RawMessage `json:"Families,omitempty"`
}

// AdjacencyEntry is one neighbor of a row of the adjacency list.
type AdjacencyEntry struct {
	ID           Key             `json:"id"`
	FamilyWeight float64         `json:"FamilyWeight"`
	Families     json.RawMessage `json:"families,omitempty"`
	Languages    json.RawMessage `json:"languages,omitempty"`
	Words        json.RawMessage `json:"words,omitempty"`
	Wofam        string          `json:"wofam"`
}

// Document is the graph document: concept nodes plus one adjacency row per
// node.
type Document struct {
	ID        string             `json:"-"`
	Nodes     []ConceptRecord    `json:"nodes"`
	Adjacency [][]AdjacencyEntry `json:"adjacency"`
}

// Node is a concept of the graph.
type Node struct {
	ID        Key             `json:"id"`
	Label     string          `json:"label"`
	OutEdges  []OutEdge       `json:"out_edges"`
	Words     json.RawMessage `json:"words,omitempty"`
	Languages json.RawMessage `json:"languages,omitempty"`
	Families  json.RawMessage `json:"families,omitempty"`
	Body
}

// Link is a weighted link between two concepts. Source and Target are
// indices into Model.Nodes.
type Link struct {
	Source           int             `json:"source"`
	Target           int             `json:"target"`
	RawWeight        float64         `json:"raw_weight"`
	NormalizedWeight float64         `json:"normalized_weight"`
	EdgeWidth        float64         `json:"edge_width"`
	Wofam            string          `json:"wofam"`
	Families         json.RawMessage `json:"families,omitempty"`
	Languages        json.RawMessage `json:"languages,omitempty"`
	Words            json.RawMessage `json:"words,omitempty"`
}

// LabelAnchor is one of the two label points of a node. Even anchors are
// pinned to their node, odd anchors carry the visible label.
type LabelAnchor struct {
	Node  int    `json:"node"`
	Shift r2.Vec `json:"shift"` // render-time offset of the label glyph
	Body
}

// PinnedAnchor returns the index of the anchor snapped to node i.
func PinnedAnchor(i int) int { return 2 * i }

// LabelPoint returns the index of the anchor carrying node i's label.
func LabelPoint(i int) int { return 2*i + 1 }

// LabelAnchorLink ties the two anchors of a node together.
type LabelAnchorLink struct {
	Source int     `json:"source"`
	Target int     `json:"target"`
	Weight float64 `json:"weight"`
}

// Model is the arena holding every node, link and anchor of a loaded graph.
// All cross references are indices into these slices.
type Model struct {
	Nodes       []Node            `json:"nodes"`
	Links       []Link            `json:"links"`
	Anchors     []LabelAnchor     `json:"anchors"`
	AnchorLinks []LabelAnchorLink `json:"anchor_links"`

	// Neighbors[i] lists the source nodes of adjacency row i in document
	// order.
	Neighbors [][]int `json:"neighbors"`
	// NodeLinks[i] lists every link joining node i with one of its
	// neighbors, in either direction.
	NodeLinks [][]int `json:"node_links"`

	Warnings []error `json:"-"`
}

// WordEntry is a row of the word table: word-id -> [form, gloss].
type WordEntry struct {
	Form  string
	Gloss string
}

// UnmarshalJSON decodes the positional [form, gloss] array.
func (w *WordEntry) UnmarshalJSON(data []byte) error {
	var fields []json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("decoding word entry: %w", err)
	}
	if len(fields) < 2 {
		return fmt.Errorf("decoding word entry: expected 2 fields, got %d", len(fields))
	}
	form, err := rawText(fields[0])
	if err != nil {
		return fmt.Errorf("decoding word form: %w", err)
	}
	gloss, err := rawText(fields[1])
	if err != nil {
		return fmt.Errorf("decoding word gloss: %w", err)
	}
	*w = WordEntry{Form: form, Gloss: gloss}
	return nil
}

// Language is a row of the language table. The positional form is
// [name, variety, glottocode, source, family, lon, lat].
type Language struct {
	Key        string  `json:"key"`
	Name       string  `json:"name"`
	Variety    string  `json:"variety"`
	Glottocode string  `json:"glottocode"`
	Source     string  `json:"source"`
	Family     string  `json:"family"`
	Lon        float64 `json:"lon"`
	Lat        float64 `json:"lat"`
}

// Tuple returns the positional 7-field form of the language entry.
func (l Language) Tuple() [7]string {
	return [7]string{
		l.Name,
		l.Variety,
		l.Glottocode,
		l.Source,
		l.Family,
		strconv.FormatFloat(l.Lon, 'f', -1, 64),
		strconv.FormatFloat(l.Lat, 'f', -1, 64),
	}
}

// Lookups holds the read-only tables used to resolve wofam records.
type Lookups struct {
	Words     map[Key]WordEntry
	Languages map[string]Language
	// Order lists language keys in document order.
	Order []string
}

// NewLookups creates empty lookup tables.
func NewLookups() *Lookups {
	return &Lookups{
		Words:     make(map[Key]WordEntry),
		Languages: make(map[string]Language),
	}
}

// AddLanguage registers a language, keeping document order.
func (l *Lookups) AddLanguage(lang Language) {
	if _, ok := l.Languages[lang.Key]; !ok {
		l.Order = append(l.Order, lang.Key)
	}
	l.Languages[lang.Key] = lang
}
