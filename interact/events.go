// Package interact turns pointer events on the graph into highlight state and
// detail panels. Handlers run one at a time; the layout and the model are
// only mutated through drag events.
package interact

import "gonum.org/v1/gonum/spatial/r2"

// Event is a pointer event on the graph surface.
type Event interface {
	event()
}

// LinkHover is sent when the pointer enters a link.
type LinkHover struct {
	Link int `json:"link"`
}

// NodeLabelHover is sent when the pointer enters the label of a node.
type NodeLabelHover struct {
	Node int `json:"node"`
}

// MouseOut is sent when the pointer leaves a link or a label.
type MouseOut struct{}

// DragStart is sent when a node starts being dragged.
type DragStart struct {
	Node int `json:"node"`
}

// DragMove carries the pointer delta of an ongoing drag.
type DragMove struct {
	Node int     `json:"node"`
	DX   float64 `json:"dx"`
	DY   float64 `json:"dy"`
}

// Delta returns the pointer delta as a vector.
func (e DragMove) Delta() r2.Vec { return r2.Vec{X: e.DX, Y: e.DY} }

// DragEnd is sent when a dragged node is released.
type DragEnd struct {
	Node int `json:"node"`
}

// BackgroundClick is sent for clicks outside any link or node.
type BackgroundClick struct{}

func (LinkHover) event()       {}
func (NodeLabelHover) event()  {}
func (MouseOut) event()        {}
func (DragStart) event()       {}
func (DragMove) event()        {}
func (DragEnd) event()         {}
func (BackgroundClick) event() {}
