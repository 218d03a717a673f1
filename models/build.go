package models

import (
	"fmt"
	"sort"

	"github.com/TFMV/colexgraph/colors"
)

// edgeWidthFactor scales raw weights into stroke widths.
const edgeWidthFactor = 0.25

// Build creates the model arena from the nodes and adjacency rows of a graph
// document. Row i of the adjacency list holds the neighbors linking into
// node i. Build is pure: identical input always yields an identical model.
//
// Duplicate node ids keep the last occurrence and adjacency entries naming
// unknown ids are dropped; both are reported in Model.Warnings.
func Build(nodes []ConceptRecord, adjacency [][]AdjacencyEntry) (*Model, error) {
	if len(adjacency) > len(nodes) {
		return nil, fmt.Errorf("%w: %d adjacency rows for %d nodes", ErrMalformedDocument, len(adjacency), len(nodes))
	}

	m := &Model{
		Nodes:       make([]Node, len(nodes)),
		Anchors:     make([]LabelAnchor, 0, 2*len(nodes)),
		AnchorLinks: make([]LabelAnchorLink, 0, len(nodes)),
		Neighbors:   make([][]int, len(nodes)),
		NodeLinks:   make([][]int, len(nodes)),
	}

	index := make(map[Key]int, len(nodes))
	for i, rec := range nodes {
		if prev, ok := index[rec.ID]; ok {
			m.Warnings = append(m.Warnings, &DuplicateIDError{ID: rec.ID, First: prev, Last: i})
		}
		index[rec.ID] = i
		m.Nodes[i] = Node{
			ID:        rec.ID,
			Label:     rec.Gloss,
			OutEdges:  rec.OutEdge,
			Words:     rec.Words,
			Languages: rec.Languages,
			Families:  rec.Families,
		}
	}

	// Resolve endpoints and collect the weights before any link exists, the
	// scale depends on all of them.
	type pending struct {
		source, target int
		entry          *AdjacencyEntry
	}
	var resolved []pending
	var weights []float64
	for i := range adjacency {
		for j := range adjacency[i] {
			entry := &adjacency[i][j]
			source, ok := index[entry.ID]
			if !ok {
				m.Warnings = append(m.Warnings, &UnknownNodeError{Row: i, ID: entry.ID})
				continue
			}
			resolved = append(resolved, pending{source: source, target: i, entry: entry})
			weights = append(weights, entry.FamilyWeight)
			m.Neighbors[i] = append(m.Neighbors[i], source)
		}
	}
	maxWeight := colors.MaxWeight(weights)

	m.Links = make([]Link, len(resolved))
	for k, p := range resolved {
		m.Links[k] = Link{
			Source:           p.source,
			Target:           p.target,
			RawWeight:        p.entry.FamilyWeight,
			NormalizedWeight: colors.Normalize(p.entry.FamilyWeight, maxWeight),
			EdgeWidth:        edgeWidthFactor * p.entry.FamilyWeight,
			Wofam:            p.entry.Wofam,
			Families:         p.entry.Families,
			Languages:        p.entry.Languages,
			Words:            p.entry.Words,
		}
	}

	for i := range m.Nodes {
		m.Anchors = append(m.Anchors, LabelAnchor{Node: i}, LabelAnchor{Node: i})
		m.AnchorLinks = append(m.AnchorLinks, LabelAnchorLink{
			Source: PinnedAnchor(i),
			Target: LabelPoint(i),
			Weight: 1,
		})
	}

	m.NodeLinks = nodeLinkIndex(m)
	return m, nil
}

// nodeLinkIndex collects, for every node, the links that join it with one of
// its neighbors regardless of direction.
func nodeLinkIndex(m *Model) [][]int {
	type pair struct{ a, b int }
	key := func(a, b int) pair {
		if a > b {
			a, b = b, a
		}
		return pair{a, b}
	}
	byPair := make(map[pair][]int, len(m.Links))
	for k, l := range m.Links {
		p := key(l.Source, l.Target)
		byPair[p] = append(byPair[p], k)
	}

	out := make([][]int, len(m.Nodes))
	for i, neighbors := range m.Neighbors {
		seen := make(map[int]bool)
		for _, n := range neighbors {
			for _, k := range byPair[key(n, i)] {
				if !seen[k] {
					seen[k] = true
					out[i] = append(out[i], k)
				}
			}
		}
		sort.Ints(out[i])
	}
	return out
}

// BuildDocument builds the model of a decoded graph document.
func BuildDocument(doc *Document) (*Model, error) {
	if doc == nil || doc.Nodes == nil || doc.Adjacency == nil {
		return nil, ErrMalformedDocument
	}
	return Build(doc.Nodes, doc.Adjacency)
}
