package source

import "strings"

// DeclName extracts the simple name from a declaration path such as
// "main.(file).Point.move(by:).x@/tmp/a.swift:3:7" (giving "x") or
// "main.(file).f(_:)" (giving "f").
func DeclName(path string) string {
	if at := lastTopLevel(path, "@"); at >= 0 {
		path = path[:at]
	}

	if dot := lastTopLevel(path, "."); dot >= 0 {
		path = path[dot+1:]
	}

	if paren := strings.IndexByte(path, '('); paren > 0 {
		path = path[:paren]
	}

	return path
}

// ResultType returns the result of a function type such as
// "(Point) -> (Int) -> Int" (giving "Int"). The last arrow outside
// parentheses wins.
func ResultType(functionType string) (string, bool) {
	idx := lastTopLevel(functionType, " -> ")
	if idx < 0 {
		return "", false
	}

	return strings.TrimSpace(functionType[idx+len(" -> "):]), true
}

// lastTopLevel returns the index of the last occurrence of sep that is not
// nested inside (), [] or <>, or -1.
func lastTopLevel(text, sep string) int {
	depth := 0
	found := -1

	for idx := 0; idx < len(text); idx++ {
		switch text[idx] {
		case '(', '[', '<':
			depth++

			continue
		case ')', ']':
			depth--

			continue
		case '>':
			if idx > 0 && text[idx-1] == '-' {
				break
			}

			depth--

			continue
		}

		if depth == 0 && strings.HasPrefix(text[idx:], sep) {
			found = idx
		}
	}

	return found
}

// listParser splits a comma-separated list, keeping commas nested inside
// brackets or quotes, and trims quotes and whitespace from each item.
type listParser struct {
	items   []string
	current strings.Builder
	depth   int
	quote   byte
}

func (p *listParser) processChar(ch byte) {
	switch {
	case p.quote != 0:
		if ch == p.quote {
			p.quote = 0

			return
		}
	case ch == '"' || ch == '\'':
		p.quote = ch

		return
	case ch == '(' || ch == '[' || ch == '<':
		p.depth++
	case ch == ')' || ch == ']' || ch == '>':
		p.depth--
	case ch == ',' && p.depth == 0:
		p.flushItem()

		return
	}

	p.current.WriteByte(ch)
}

func (p *listParser) flushItem() {
	if item := strings.TrimSpace(p.current.String()); item != "" {
		p.items = append(p.items, item)
	}

	p.current.Reset()
}

// ParseList parses "A, B<C, D>, 'E'" into [A B<C, D> E].
func ParseList(text string) []string {
	parser := &listParser{}

	for idx := range len(text) {
		parser.processChar(text[idx])
	}

	parser.flushItem()

	return parser.items
}
