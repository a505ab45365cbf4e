package dump

import (
	"slices"
	"strconv"
	"strings"
)

const encodeIndent = "  "

// Encode writes n in canonical dump form: standalone attributes first, then
// keyed attributes sorted by key, then the range, then one child per line.
// Decode(Encode(n)) yields a tree Equal to n.
func Encode(n *Node) string {
	var buf strings.Builder

	encodeNode(&buf, n, 0)

	return buf.String()
}

func encodeNode(buf *strings.Builder, n *Node, depth int) {
	buf.WriteByte('(')
	buf.WriteString(n.Name)

	for _, value := range n.Standalone {
		buf.WriteByte(' ')
		buf.WriteString(encodeAtom(value))
	}

	keys := make([]string, 0, len(n.Keyed))
	for key := range n.Keyed {
		keys = append(keys, key)
	}

	slices.Sort(keys)

	for _, key := range keys {
		buf.WriteByte(' ')
		buf.WriteString(key)
		buf.WriteByte('=')
		buf.WriteString(encodeAtom(n.Keyed[key]))
	}

	if n.Range != nil {
		buf.WriteString(" range=[")
		buf.WriteString(n.Range.File)
		buf.WriteString(":" + strconv.Itoa(n.Range.StartLine) + ":" + strconv.Itoa(n.Range.StartCol))
		buf.WriteString(" - line:" + strconv.Itoa(n.Range.EndLine) + ":" + strconv.Itoa(n.Range.EndCol))
		buf.WriteByte(']')
	}

	for _, child := range n.Children {
		buf.WriteByte('\n')
		buf.WriteString(strings.Repeat(encodeIndent, depth+1))
		encodeNode(buf, child, depth+1)
	}

	buf.WriteByte(')')
}

// encodeAtom writes value bare when the decoder would read it back unchanged,
// double-quoted otherwise.
func encodeAtom(value string) string {
	if isBareSafe(value) {
		return value
	}

	var buf strings.Builder

	buf.WriteByte('"')

	for idx := range len(value) {
		switch c := value[idx]; c {
		case '"', '\\':
			buf.WriteByte('\\')
			buf.WriteByte(c)
		case '\n':
			buf.WriteString(`\n`)
		case '\t':
			buf.WriteString(`\t`)
		case '\r':
			buf.WriteString(`\r`)
		default:
			buf.WriteByte(c)
		}
	}

	buf.WriteByte('"')

	return buf.String()
}

func isBareSafe(value string) bool {
	if value == "" {
		return false
	}

	for _, key := range composedKeys {
		if first, _, _ := strings.Cut(key, " "); value == first {
			return false
		}
	}

	return !strings.ContainsAny(value, " \t\r\n()\"'[]=")
}
