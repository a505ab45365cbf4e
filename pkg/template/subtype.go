package template

import (
	"maps"
	"slices"
	"strings"
)

// AnyType is the supertype of every type.
const AnyType = "Any"

// SubtypeTable answers "is A a subtype of B" for source type names. Beyond
// the named relations it was given it knows that T <: T?, that arrays are
// covariant in their element and dictionaries in key and value, and that
// everything is a subtype of Any. It is immutable once loading finishes.
type SubtypeTable struct {
	supers map[string][]string
}

// NewSubtypeTable returns a table holding only the built-in rules.
func NewSubtypeTable() *SubtypeTable {
	return &SubtypeTable{supers: make(map[string][]string)}
}

// Add records that sub is a direct subtype of each of supers.
func (t *SubtypeTable) Add(sub string, supers ...string) {
	key := canonicalType(sub)

	for _, super := range supers {
		super = canonicalType(super)
		if !slices.Contains(t.supers[key], super) {
			t.supers[key] = append(t.supers[key], super)
		}
	}
}

// Merge copies every relation of other into t.
func (t *SubtypeTable) Merge(other *SubtypeTable) {
	if other == nil {
		return
	}

	for sub, supers := range other.supers {
		t.Add(sub, supers...)
	}
}

// Relations returns the named relations, keyed by subtype.
func (t *SubtypeTable) Relations() map[string][]string {
	return maps.Clone(t.supers)
}

// IsSubtype reports whether sub is sub or a subtype of super.
func (t *SubtypeTable) IsSubtype(sub, super string) bool {
	sub, super = canonicalType(sub), canonicalType(super)

	if super == AnyType || super == AnyType+"?" {
		return true
	}

	if sub == "" {
		return false
	}

	if sub == super {
		return true
	}

	if inner, ok := strings.CutSuffix(super, "?"); ok {
		if subInner, subOptional := strings.CutSuffix(sub, "?"); subOptional {
			return t.IsSubtype(subInner, inner)
		}

		return t.IsSubtype(sub, inner)
	}

	if strings.HasSuffix(sub, "?") {
		return false
	}

	if subKey, subValue, subDict := dictionaryParts(sub); subDict {
		superKey, superValue, superDict := dictionaryParts(super)

		return superDict && t.IsSubtype(subKey, superKey) && t.IsSubtype(subValue, superValue)
	}

	if subElem, subArray := arrayElement(sub); subArray {
		superElem, superArray := arrayElement(super)

		return superArray && t.IsSubtype(subElem, superElem)
	}

	return t.named(sub, super)
}

// named walks the declared relations breadth first.
func (t *SubtypeTable) named(sub, super string) bool {
	if t == nil {
		return false
	}

	visited := map[string]bool{sub: true}
	queue := []string{sub}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, next := range t.supers[current] {
			if next == super {
				return true
			}

			if !visited[next] {
				visited[next] = true
				queue = append(queue, next)
			}
		}
	}

	return false
}

// canonicalType strips spaces and rewrites Array<T>, Dictionary<K, V> and
// Optional<T> to their sugared forms.
func canonicalType(name string) string {
	name = strings.ReplaceAll(name, " ", "")

	if inner, ok := genericArgument(name, "Array"); ok {
		return "[" + inner + "]"
	}

	if inner, ok := genericArgument(name, "Optional"); ok {
		return inner + "?"
	}

	if inner, ok := genericArgument(name, "Dictionary"); ok {
		if comma := topLevelIndex(inner, ','); comma >= 0 {
			return "[" + inner[:comma] + ":" + inner[comma+1:] + "]"
		}
	}

	return name
}

func genericArgument(name, generic string) (string, bool) {
	if !strings.HasPrefix(name, generic+"<") || !strings.HasSuffix(name, ">") {
		return "", false
	}

	return canonicalType(name[len(generic)+1 : len(name)-1]), true
}

func arrayElement(name string) (string, bool) {
	if !strings.HasPrefix(name, "[") || !strings.HasSuffix(name, "]") {
		return "", false
	}

	inner := name[1 : len(name)-1]
	if topLevelIndex(inner, ':') >= 0 {
		return "", false
	}

	return inner, true
}

func dictionaryParts(name string) (string, string, bool) {
	if !strings.HasPrefix(name, "[") || !strings.HasSuffix(name, "]") {
		return "", "", false
	}

	inner := name[1 : len(name)-1]

	colon := topLevelIndex(inner, ':')
	if colon < 0 {
		return "", "", false
	}

	return inner[:colon], inner[colon+1:], true
}

func topLevelIndex(text string, target byte) int {
	depth := 0

	for idx := range len(text) {
		switch c := text[idx]; {
		case c == '[' || c == '(' || c == '<':
			depth++
		case c == ']' || c == ')' || c == '>':
			depth--
		case c == target && depth == 0:
			return idx
		}
	}

	return -1
}
