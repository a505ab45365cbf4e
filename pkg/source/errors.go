package source

import (
	"errors"
	"fmt"

	"github.com/vinivendra/Gryphon-sub003/pkg/dump"
)

// Sentinel errors.
var (
	ErrUnsupportedConstruct = errors.New("unsupported construct")
	ErrMissingAttribute     = errors.New("missing required attribute")
)

// UnsupportedConstructError reports a node kind, or a node shape, the builder
// does not recognize.
type UnsupportedConstructError struct {
	Range   *dump.Range
	Name    string
	Context string
	Pos     dump.Pos
}

// Error implements error.
func (e *UnsupportedConstructError) Error() string {
	msg := fmt.Sprintf("%s %q", ErrUnsupportedConstruct, e.Name)
	if e.Context != "" {
		msg += " in " + e.Context
	}

	if e.Range.IsValid() {
		return msg + " at " + e.Range.String()
	}

	return msg + " at dump " + e.Pos.String()
}

// Unwrap returns ErrUnsupportedConstruct.
func (e *UnsupportedConstructError) Unwrap() error {
	return ErrUnsupportedConstruct
}

// MissingAttributeError reports a node lacking an attribute its kind requires.
type MissingAttributeError struct {
	Range     *dump.Range
	Node      string
	Attribute string
	Pos       dump.Pos
}

// Error implements error.
func (e *MissingAttributeError) Error() string {
	where := "dump " + e.Pos.String()
	if e.Range.IsValid() {
		where = e.Range.String()
	}

	return fmt.Sprintf("%s: %s needs %s (at %s)", ErrMissingAttribute, e.Node, e.Attribute, where)
}

// Unwrap returns ErrMissingAttribute.
func (e *MissingAttributeError) Unwrap() error {
	return ErrMissingAttribute
}

func unsupported(node *dump.Node, context string) error {
	return &UnsupportedConstructError{Name: node.Name, Context: context, Range: node.Range, Pos: node.Pos}
}

func missing(node *dump.Node, attribute string) error {
	return &MissingAttributeError{Node: node.Name, Attribute: attribute, Range: node.Range, Pos: node.Pos}
}
