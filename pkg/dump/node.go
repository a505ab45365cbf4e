// Package dump provides the generic labeled tree decoded from a front-end
// tree dump, the recursive-descent decoder that produces it, and a canonical
// encoder that writes it back.
package dump

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
)

// Range is a span of the original program text. Lines and columns are 1-based.
type Range struct {
	File      string `json:"file,omitempty"`
	StartLine int    `json:"start_line"`
	StartCol  int    `json:"start_col"`
	EndLine   int    `json:"end_line"`
	EndCol    int    `json:"end_col"`
}

// IsValid reports whether the range carries line information.
func (r *Range) IsValid() bool {
	return r != nil && r.StartLine > 0 && r.StartCol > 0
}

// String returns "file:line:col-line:col".
func (r *Range) String() string {
	if r == nil {
		return "<no range>"
	}

	return fmt.Sprintf("%s:%d:%d-%d:%d", r.File, r.StartLine, r.StartCol, r.EndLine, r.EndCol)
}

// Pos is a position inside the dump text itself.
// Offset is a byte offset; Line and Column are 1-based.
type Pos struct {
	Offset int `json:"offset"`
	Line   int `json:"line"`
	Column int `json:"column"`
}

// String returns "line:column".
func (p Pos) String() string {
	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

// Node is one parenthesized entry of a tree dump.
//
// Fields:
//
//	Name: the node kind, the first token after the opening parenthesis.
//	Standalone: bare identifiers, quoted strings and bracketed strings, in order.
//	Keyed: key=value attributes (keys unique).
//	Children: nested nodes, in order.
//	Range: source range lifted from the range= attribute (optional).
//	Pos: where the node starts inside the dump text.
type Node struct {
	Keyed      map[string]string `json:"keyed,omitempty"`
	Range      *Range            `json:"range,omitempty"`
	Name       string            `json:"name"`
	Standalone []string          `json:"standalone,omitempty"`
	Children   []*Node           `json:"children,omitempty"`
	Pos        Pos               `json:"-"`
}

// Attr returns the keyed attribute value for key.
func (n *Node) Attr(key string) (string, bool) {
	if n == nil {
		return "", false
	}

	value, ok := n.Keyed[key]

	return value, ok
}

// AttrOr returns the keyed attribute value for key, or fallback when absent.
func (n *Node) AttrOr(key, fallback string) string {
	if value, ok := n.Attr(key); ok {
		return value
	}

	return fallback
}

// HasFlag reports whether the standalone attributes contain flag.
func (n *Node) HasFlag(flag string) bool {
	return n != nil && slices.Contains(n.Standalone, flag)
}

// FirstStandalone returns the first standalone attribute, or "".
func (n *Node) FirstStandalone() string {
	if n == nil || len(n.Standalone) == 0 {
		return ""
	}

	return n.Standalone[0]
}

// Child returns the first direct child named name, or nil.
func (n *Node) Child(name string) *Node {
	if n == nil {
		return nil
	}

	for _, child := range n.Children {
		if child.Name == name {
			return child
		}
	}

	return nil
}

// ChildrenNamed returns all direct children named name.
func (n *Node) ChildrenNamed(name string) []*Node {
	if n == nil {
		return nil
	}

	var out []*Node

	for _, child := range n.Children {
		if child.Name == name {
			out = append(out, child)
		}
	}

	return out
}

// Find returns all nodes in the tree (including n) for which predicate is true.
// Traversal is pre-order.
func (n *Node) Find(predicate func(*Node) bool) []*Node {
	if n == nil {
		return nil
	}

	var result []*Node

	n.VisitPreOrder(func(visited *Node) {
		if predicate(visited) {
			result = append(result, visited)
		}
	})

	return result
}

// VisitPreOrder visits all nodes in pre-order (root, then children left-to-right).
func (n *Node) VisitPreOrder(fn func(*Node)) {
	if n == nil {
		return
	}

	stack := []*Node{n}

	for len(stack) > 0 {
		curr := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		fn(curr)

		for idx := len(curr.Children) - 1; idx >= 0; idx-- {
			stack = append(stack, curr.Children[idx])
		}
	}
}

// Equal reports whether two trees carry the same names, attributes, ranges and
// children. Dump positions are ignored.
func Equal(left, right *Node) bool {
	if left == nil || right == nil {
		return left == right
	}

	if left.Name != right.Name ||
		!slices.Equal(left.Standalone, right.Standalone) ||
		!maps.Equal(left.Keyed, right.Keyed) ||
		!equalRanges(left.Range, right.Range) ||
		len(left.Children) != len(right.Children) {
		return false
	}

	for idx := range left.Children {
		if !Equal(left.Children[idx], right.Children[idx]) {
			return false
		}
	}

	return true
}

func equalRanges(left, right *Range) bool {
	if left == nil || right == nil {
		return left == right
	}

	return *left == *right
}

// String returns a compact one-line summary of the node.
func (n *Node) String() string {
	if n == nil {
		return "nil"
	}

	var buf strings.Builder

	buf.WriteString("Node{Name:")
	buf.WriteString(n.Name)

	if len(n.Standalone) > 0 {
		buf.WriteString(",Standalone:")
		buf.WriteString(strings.Join(n.Standalone, " "))
	}

	if len(n.Keyed) > 0 {
		fmt.Fprintf(&buf, ",Keyed:%v", n.Keyed)
	}

	if len(n.Children) > 0 {
		buf.WriteString(",Children:")
		buf.WriteString(strconv.Itoa(len(n.Children)))
	}

	buf.WriteString("}")

	return buf.String()
}
