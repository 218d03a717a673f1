package models

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedDocument is returned when a graph document lacks its
	// nodes or adjacency sections.
	ErrMalformedDocument = errors.New("malformed graph document")

	// ErrNodeIndex is returned for node indices outside the model.
	ErrNodeIndex = errors.New("node index out of range")

	// ErrLinkIndex is returned for link indices outside the model.
	ErrLinkIndex = errors.New("link index out of range")
)

// ReferenceKind names the lookup table a wofam record failed to resolve
// against.
type ReferenceKind string

const (
	WordReference     ReferenceKind = "word"
	LanguageReference ReferenceKind = "language"
)

// UnresolvedReferenceError reports a wofam record whose word id or language
// key is absent from its lookup table.
type UnresolvedReferenceError struct {
	Kind   ReferenceKind
	Key    string
	Record string
}

func (e *UnresolvedReferenceError) Error() string {
	return fmt.Sprintf("unresolved %s %q in record %q", e.Kind, e.Key, e.Record)
}

// MalformedRecordError reports a wofam record that does not have the
// expected number of fields.
type MalformedRecordError struct {
	Record string
	Fields int
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed record %q: %d fields, want %d", e.Record, e.Fields, wofamFields)
}

// DuplicateIDError reports a node id that occurs more than once in a graph
// document. The later occurrence wins.
type DuplicateIDError struct {
	ID    Key
	First int
	Last  int
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("duplicate node id %q at %d and %d, keeping %d", e.ID, e.First, e.Last, e.Last)
}

// UnknownNodeError reports an adjacency entry naming a node id that is not
// part of the document.
type UnknownNodeError struct {
	Row int
	ID  Key
}

func (e *UnknownNodeError) Error() string {
	return fmt.Sprintf("adjacency row %d references unknown node %q", e.Row, e.ID)
}
