package interact

import (
	"fmt"
	"sort"

	"github.com/TFMV/colexgraph/colors"
	"github.com/TFMV/colexgraph/models"
)

// RegistryURL is the concept registry the node table links to.
const RegistryURL = "http://concepticon.clld.org/parameters/"

// DetailRow is one resolved evidence record of a link.
type DetailRow struct {
	Family      string     `json:"family"`
	Gloss       string     `json:"gloss"`
	Form        string     `json:"form"`
	WordID      models.Key `json:"word_id"`
	Language    string     `json:"language"`
	LanguageKey string     `json:"language_key"`
	Lon         float64    `json:"lon"`
	Lat         float64    `json:"lat"`

	Swatch colors.RGB      `json:"swatch"`
	Text   colors.Contrast `json:"text"`
}

// ResolveRecords resolves the evidence records of a wofam string against the
// lookup tables. Records that are malformed or reference unknown words or
// languages are skipped and returned as notices. Rows come back sorted by
// family, then language name; ties keep their record order. total counts
// every record of the string, resolved or not.
func ResolveRecords(wofam string, lookups *models.Lookups) (rows []DetailRow, total int, notices []error) {
	raw := models.SplitWofam(wofam)
	total = len(raw)
	for _, s := range raw {
		r, err := models.ParseRecord(s)
		if err != nil {
			notices = append(notices, err)
			continue
		}
		word, ok := lookups.Words[r.WordID()]
		if !ok {
			notices = append(notices, &models.UnresolvedReferenceError{
				Kind:   models.WordReference,
				Key:    string(r.WordID()),
				Record: s,
			})
			continue
		}
		lang, ok := lookups.Languages[r.LanguageKey()]
		if !ok {
			notices = append(notices, &models.UnresolvedReferenceError{
				Kind:   models.LanguageReference,
				Key:    r.LanguageKey(),
				Record: s,
			})
			continue
		}
		rows = append(rows, DetailRow{
			Family:      r.Family(),
			Gloss:       word.Gloss,
			Form:        word.Form,
			WordID:      r.WordID(),
			Language:    lang.Name,
			LanguageKey: r.LanguageKey(),
			Lon:         lang.Lon,
			Lat:         lang.Lat,
		})
	}
	SortRows(rows)
	return rows, total, notices
}

// SortRows orders rows by family, then language name.
func SortRows(rows []DetailRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Family != rows[j].Family {
			return rows[i].Family < rows[j].Family
		}
		return rows[i].Language < rows[j].Language
	})
}

// OutEdgeRow is one row of the table of a node's strong links.
type OutEdgeRow struct {
	TargetID     models.Key `json:"target_id"`
	Community    string     `json:"community"`
	TargetLabel  string     `json:"target_label"`
	Frequency    string     `json:"frequency"`
	RegistryURL  string     `json:"registry_url"`
	CommunityURL string     `json:"community_url"`
}

// OutEdgeRows lists the out edges of a node in their original order.
func OutEdgeRows(n *models.Node) []OutEdgeRow {
	rows := make([]OutEdgeRow, len(n.OutEdges))
	for i, e := range n.OutEdges {
		rows[i] = OutEdgeRow{
			TargetID:     e.TargetID,
			Community:    e.Community,
			TargetLabel:  e.TargetLabel,
			Frequency:    e.Frequency,
			RegistryURL:  RegistryURL + e.RegistryID,
			CommunityURL: "?" + string(e.TargetID),
		}
	}
	return rows
}

// Tooltip lists the raw target ids of a node's out edges, one per line.
func Tooltip(n *models.Node) []string {
	out := make([]string, len(n.OutEdges))
	for i, e := range n.OutEdges {
		out[i] = string(e.TargetID)
	}
	return out
}

// PanelKind tells which table a panel shows.
type PanelKind int

const (
	LinkPanel PanelKind = iota
	NodePanel
)

func (k PanelKind) String() string {
	if k == NodePanel {
		return "node"
	}
	return "link"
}

// Panel is the detail panel shown next to the graph.
type Panel struct {
	Kind     PanelKind    `json:"kind"`
	Title    string       `json:"title"`
	Rows     []DetailRow  `json:"rows,omitempty"`
	OutEdges []OutEdgeRow `json:"out_edges,omitempty"`
	Tooltip  []string     `json:"tooltip,omitempty"`
}

func linkTitle(total int, source, target string) string {
	noun := "links"
	if total == 1 {
		noun = "link"
	}
	return fmt.Sprintf("%d %s for %q and %q:", total, noun, source, target)
}

func nodeTitle(n *models.Node) string {
	if len(n.OutEdges) == 1 {
		return fmt.Sprintf("1 strong link from %q to other concepts:", n.Label)
	}
	return fmt.Sprintf("%d links from %q to other concepts:", len(n.OutEdges), n.Label)
}
