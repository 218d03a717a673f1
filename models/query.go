package models

import "fmt"

// Node returns the node at index i.
func (m *Model) Node(i int) (*Node, error) {
	if i < 0 || i >= len(m.Nodes) {
		return nil, fmt.Errorf("%w: %d", ErrNodeIndex, i)
	}
	return &m.Nodes[i], nil
}

// Link returns the link at index k.
func (m *Model) Link(k int) (*Link, error) {
	if k < 0 || k >= len(m.Links) {
		return nil, fmt.Errorf("%w: %d", ErrLinkIndex, k)
	}
	return &m.Links[k], nil
}

// FindNodeByID returns the index of the last node carrying id.
func (m *Model) FindNodeByID(id Key) (int, bool) {
	for i := len(m.Nodes) - 1; i >= 0; i-- {
		if m.Nodes[i].ID == id {
			return i, true
		}
	}
	return -1, false
}

// FindLink returns the index of the first link joining the two nodes in
// either direction.
func (m *Model) FindLink(a, b int) (int, bool) {
	for k, l := range m.Links {
		if (l.Source == a && l.Target == b) || (l.Source == b && l.Target == a) {
			return k, true
		}
	}
	return -1, false
}

// Fixed returns the indices of every node that was placed by hand.
func (m *Model) Fixed() []int {
	var out []int
	for i := range m.Nodes {
		if m.Nodes[i].Fixed {
			out = append(out, i)
		}
	}
	return out
}
