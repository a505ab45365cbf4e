// Package codegen renders a target tree as Kotlin text together with a map
// from generated spans back to the source ranges they were produced from.
package codegen

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/vinivendra/Gryphon-sub003/pkg/dump"
)

// Translation is a tree of text fragments. A translation built with a source
// range contributes one position map entry when resolved.
type Translation struct {
	rng       *dump.Range
	fragments []fragment
}

// fragment holds either literal text or a nested translation.
type fragment struct {
	nested *Translation
	text   string
}

// NewTranslation returns an empty translation for rng, which may be nil.
func NewTranslation(rng *dump.Range) *Translation {
	return &Translation{rng: rng}
}

// Range returns the source range of t.
func (t *Translation) Range() *dump.Range { return t.rng }

// Append adds literal text.
func (t *Translation) Append(texts ...string) *Translation {
	for _, text := range texts {
		if text != "" {
			t.fragments = append(t.fragments, fragment{text: text})
		}
	}

	return t
}

// AppendTranslation adds child as a nested fragment. Nil is ignored.
func (t *Translation) AppendTranslation(child *Translation) *Translation {
	if child != nil {
		t.fragments = append(t.fragments, fragment{nested: child})
	}

	return t
}

// AppendTranslations adds children separated by sep. Empty children are
// skipped without a separator.
func (t *Translation) AppendTranslations(children []*Translation, sep string) *Translation {
	first := true

	for _, child := range children {
		if child == nil || child.IsEmpty() {
			continue
		}

		if !first {
			t.Append(sep)
		}

		t.AppendTranslation(child)

		first = false
	}

	return t
}

// IsEmpty reports whether t renders no text.
func (t *Translation) IsEmpty() bool {
	for _, f := range t.fragments {
		if f.text != "" || (f.nested != nil && !f.nested.IsEmpty()) {
			return false
		}
	}

	return true
}

// EndsWith reports whether the rendered text ends with suffix.
func (t *Translation) EndsWith(suffix string) bool {
	return strings.HasSuffix(t.String(), suffix)
}

// DropLast removes suffix from the end of t and reports whether it was
// there. Trailing empty fragments are skipped; the suffix may span several
// fragments.
func (t *Translation) DropLast(suffix string) bool {
	if suffix == "" {
		return true
	}

	if !t.EndsWith(suffix) {
		return false
	}

	t.dropBytes(len(suffix))

	return true
}

// dropBytes removes n bytes from the end and returns how many remain to be
// dropped by earlier fragments.
func (t *Translation) dropBytes(n int) int {
	for idx := len(t.fragments) - 1; idx >= 0 && n > 0; idx-- {
		f := &t.fragments[idx]

		if f.nested != nil {
			n = f.nested.dropBytes(n)

			continue
		}

		if n >= len(f.text) {
			n -= len(f.text)
			f.text = ""

			continue
		}

		f.text = f.text[:len(f.text)-n]
		n = 0
	}

	return n
}

// String returns the concatenated text.
func (t *Translation) String() string {
	var sb strings.Builder

	t.write(&sb)

	return sb.String()
}

func (t *Translation) write(sb *strings.Builder) {
	for _, f := range t.fragments {
		if f.nested != nil {
			f.nested.write(sb)

			continue
		}

		sb.WriteString(f.text)
	}
}

// Position is a 1-based line and column in generated text.
type Position struct {
	Line   int
	Column int
}

// MapEntry links a span of generated text to the source range it came from.
// Offset and Length locate the span in the generated text in bytes; End is
// exclusive.
type MapEntry struct {
	Original dump.Range
	Start    Position
	End      Position
	Offset   int
	Length   int
}

// String renders the entry as
// genLS:genCS:genLE:genCE:origLS:origCS:origLE:origCE.
func (e MapEntry) String() string {
	return fmt.Sprintf("%d:%d:%d:%d:%d:%d:%d:%d",
		e.Start.Line, e.Start.Column, e.End.Line, e.End.Column,
		e.Original.StartLine, e.Original.StartCol, e.Original.EndLine, e.Original.EndCol)
}

// Resolve renders t and lists one entry per ranged translation, innermost
// first.
func (t *Translation) Resolve() (string, []MapEntry) {
	r := resolver{pos: Position{Line: 1, Column: 1}}

	t.resolve(&r)

	return r.sb.String(), r.entries
}

type resolver struct {
	entries []MapEntry
	sb      strings.Builder
	pos     Position
}

func (r *resolver) advance(text string) {
	r.sb.WriteString(text)

	for text != "" {
		char, size := utf8.DecodeRuneInString(text)
		text = text[size:]

		if char == '\n' {
			r.pos.Line++
			r.pos.Column = 1

			continue
		}

		r.pos.Column++
	}
}

func (t *Translation) resolve(r *resolver) {
	start, offset := r.pos, r.sb.Len()

	for _, f := range t.fragments {
		if f.nested != nil {
			f.nested.resolve(r)

			continue
		}

		r.advance(f.text)
	}

	if t.rng == nil {
		return
	}

	r.entries = append(r.entries, MapEntry{
		Original: *t.rng,
		Start:    start,
		End:      r.pos,
		Offset:   offset,
		Length:   r.sb.Len() - offset,
	})
}

// FormatMap writes one entry per line.
func FormatMap(entries []MapEntry) string {
	var sb strings.Builder

	for _, entry := range entries {
		sb.WriteString(entry.String())
		sb.WriteByte('\n')
	}

	return sb.String()
}
