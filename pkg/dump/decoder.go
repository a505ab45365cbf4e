package dump

import (
	"fmt"
	"strings"
)

// DefaultMaxIterations bounds the decoder loop when no cap is configured.
const DefaultMaxIterations = 1 << 22

// Keyed attribute names with special value readers.
const (
	KeyRange    = "range"
	KeyLocation = "location"
	KeyDecl     = "decl"
)

// composedKeys are multi-word keys, tried longest first before the generic
// identifier= form.
var composedKeys = []string{
	"interface type",
	"captured type",
	"result type",
}

// Decoder turns tree-dump text into a Node tree.
type Decoder struct {
	// MaxIterations caps the number of decoding steps; zero means DefaultMaxIterations.
	MaxIterations int
}

// Decode parses text with the default Decoder.
func Decode(text string) (*Node, error) {
	return (&Decoder{}).Decode(text)
}

// Decode parses text into a single root node. Content after the root node
// other than whitespace is an error.
func (d *Decoder) Decode(text string) (*Node, error) {
	limit := d.MaxIterations
	if limit <= 0 {
		limit = DefaultMaxIterations
	}

	state := &decodeState{buf: text, line: 1, col: 1, limit: limit}

	state.skipWhitespace()

	if state.atEnd() || state.peek() != '(' {
		return nil, state.fail(ReasonExpectedOpen)
	}

	root, err := state.readNode()
	if err != nil {
		return nil, err
	}

	state.skipWhitespace()

	if !state.atEnd() {
		return nil, state.fail(ReasonTrailingContent)
	}

	return root, nil
}

type decodeState struct {
	buf        string
	lastToken  string
	lastPos    Pos
	off        int
	line       int
	col        int
	iterations int
	limit      int
}

func (s *decodeState) atEnd() bool { return s.off >= len(s.buf) }

func (s *decodeState) peek() byte { return s.buf[s.off] }

func (s *decodeState) pos() Pos {
	return Pos{Offset: s.off, Line: s.line, Column: s.col}
}

func (s *decodeState) advance(n int) {
	for range n {
		if s.off >= len(s.buf) {
			return
		}

		if s.buf[s.off] == '\n' {
			s.line++
			s.col = 1
		} else {
			s.col++
		}

		s.off++
	}
}

func (s *decodeState) tick() error {
	s.iterations++
	if s.iterations > s.limit {
		return s.fail(ReasonIterationCap)
	}

	return nil
}

func (s *decodeState) fail(reason string) error {
	return &MalformedTreeError{
		Reason:    reason,
		LastToken: s.lastToken,
		Pos:       s.lastPos,
		At:        s.pos(),
	}
}

func (s *decodeState) accept(token string, at Pos) {
	s.lastToken = token
	s.lastPos = at
}

func (s *decodeState) skipWhitespace() {
	for !s.atEnd() && isSpace(s.peek()) {
		s.advance(1)
	}
}

func (s *decodeState) readNode() (*Node, error) {
	start := s.pos()

	s.advance(1)

	name := s.readIdentifier()
	if name == "" {
		return nil, s.fail(ReasonMissingName)
	}

	s.accept(name, start)

	node := &Node{Name: name, Pos: start}

	for {
		if err := s.tick(); err != nil {
			return nil, err
		}

		s.skipWhitespace()

		if s.atEnd() {
			return nil, s.fail(ReasonMissingClose)
		}

		at := s.pos()

		switch c := s.peek(); c {
		case ')':
			s.advance(1)

			return node, nil
		case '(':
			child, err := s.readNode()
			if err != nil {
				return nil, err
			}

			node.Children = append(node.Children, child)
		case '"', '\'':
			value, err := s.readQuoted(c)
			if err != nil {
				return nil, err
			}

			node.Standalone = append(node.Standalone, value)
			s.accept(value, at)
		case '[':
			value, err := s.readBracketed()
			if err != nil {
				return nil, err
			}

			node.Standalone = append(node.Standalone, value)
			s.accept(value, at)
		default:
			if err := s.readAttribute(node, at); err != nil {
				return nil, err
			}
		}
	}
}

func (s *decodeState) readAttribute(node *Node, at Pos) error {
	if key, ok := s.readKey(); ok {
		value, err := s.readValue(key)
		if err != nil {
			return err
		}

		s.accept(key+"="+value, at)

		if key == KeyRange {
			if rng, parsed := ParseRange(value); parsed {
				node.Range = rng

				return nil
			}
		}

		if node.Keyed == nil {
			node.Keyed = make(map[string]string)
		}

		node.Keyed[key] = value

		return nil
	}

	token := s.readIdentifier()
	if token == "" {
		return s.fail(fmt.Sprintf("%s %q", ReasonUnexpectedChar, s.peek()))
	}

	node.Standalone = append(node.Standalone, token)
	s.accept(token, at)

	return nil
}

// readKey consumes "key=" when present at the cursor.
func (s *decodeState) readKey() (string, bool) {
	rest := s.buf[s.off:]

	for _, key := range composedKeys {
		if strings.HasPrefix(rest, key+"=") {
			s.advance(len(key) + 1)

			return key, true
		}
	}

	idx := 0
	for idx < len(rest) && isKeyByte(rest[idx]) {
		idx++
	}

	if idx == 0 || idx >= len(rest) || rest[idx] != '=' {
		return "", false
	}

	key := rest[:idx]
	s.advance(idx + 1)

	return key, true
}

func (s *decodeState) readValue(key string) (string, error) {
	if s.atEnd() {
		return "", s.fail(ReasonMissingClose)
	}

	switch c := s.peek(); {
	case c == '"' || c == '\'':
		return s.readQuoted(c)
	case c == '[':
		return s.readBracketed()
	case isSpace(c) || c == ')':
		return "", nil
	case key == KeyLocation:
		return s.readLocation(), nil
	case key == KeyDecl:
		return s.readDeclaration(), nil
	default:
		return s.readIdentifier(), nil
	}
}

// readIdentifier reads a bare token. Parentheses inside the token are tracked
// so declaration paths like main.(file).f(x:) stay whole. A newline ends the
// token unless the next line continues it (see continuesToken).
func (s *decodeState) readIdentifier() string {
	var buf strings.Builder

	startCol := s.col
	depth := 0

	for !s.atEnd() {
		c := s.peek()

		switch {
		case c == '(':
			if buf.Len() == 0 {
				return ""
			}

			depth++
		case c == ')':
			if depth == 0 {
				return buf.String()
			}

			depth--
		case c == '\n':
			if !s.continuesToken(startCol) {
				return buf.String()
			}

			s.skipLineBreak()

			continue
		case c == '"' || c == '\'' || c == '[':
			if buf.Len() == 0 {
				return ""
			}
		case c == ' ' || c == '\t' || c == '\r':
			if depth == 0 {
				return buf.String()
			}
		}

		buf.WriteByte(c)
		s.advance(1)
	}

	return buf.String()
}

// continuesToken reports whether the line after the newline at the cursor is a
// continuation of a token that started at startCol.
func (s *decodeState) continuesToken(startCol int) bool {
	idx := s.off + 1
	indent := 0

	for idx < len(s.buf) && (s.buf[idx] == ' ' || s.buf[idx] == '\t') {
		idx++
		indent++
	}

	if idx >= len(s.buf) {
		return false
	}

	switch s.buf[idx] {
	case '(', ')', '\n', '\r':
		return false
	}

	return indent+1 > startCol
}

func (s *decodeState) skipLineBreak() {
	s.advance(1)

	for !s.atEnd() && (s.peek() == ' ' || s.peek() == '\t') {
		s.advance(1)
	}
}

func (s *decodeState) readQuoted(quote byte) (string, error) {
	s.advance(1)

	var buf strings.Builder

	for !s.atEnd() {
		c := s.peek()

		switch c {
		case quote:
			s.advance(1)

			return buf.String(), nil
		case '\\':
			if s.off+1 >= len(s.buf) {
				return "", s.fail(ReasonUnterminatedString)
			}

			buf.WriteByte(unescape(s.buf[s.off+1]))
			s.advance(2)

			continue
		}

		buf.WriteByte(c)
		s.advance(1)
	}

	return "", s.fail(ReasonUnterminatedString)
}

func unescape(c byte) byte {
	switch c {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	default:
		return c
	}
}

func (s *decodeState) readBracketed() (string, error) {
	s.advance(1)

	start := s.off
	depth := 1

	for !s.atEnd() {
		switch s.peek() {
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				value := s.buf[start:s.off]
				s.advance(1)

				return value, nil
			}
		}

		s.advance(1)
	}

	return "", s.fail(ReasonUnterminatedBrack)
}

// readLocation reads "path with spaces:line:col", stopping right after the
// first line/column suffix that is followed by a delimiter.
func (s *decodeState) readLocation() string {
	rest := s.buf[s.off:]
	if eol := strings.IndexByte(rest, '\n'); eol >= 0 {
		rest = rest[:eol]
	}

	end := locationEnd(rest)
	if end < 0 || strings.ContainsAny(rest[:end], "=[]()\"'") {
		return s.readIdentifier()
	}

	s.advance(end)

	return rest[:end]
}

// readDeclaration reads a declaration path with an optional @location suffix.
func (s *decodeState) readDeclaration() string {
	var buf strings.Builder

	depth := 0

	for !s.atEnd() {
		c := s.peek()

		if c == '@' && depth == 0 {
			s.advance(1)
			buf.WriteByte('@')
			buf.WriteString(s.readLocation())

			return buf.String()
		}

		if c == '(' {
			depth++
		} else if c == ')' {
			if depth == 0 {
				break
			}

			depth--
		} else if isSpace(c) && depth == 0 {
			break
		}

		buf.WriteByte(c)
		s.advance(1)
	}

	return buf.String()
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isKeyByte(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') ||
		c == '_' || c == '-' || c == '.'
}
