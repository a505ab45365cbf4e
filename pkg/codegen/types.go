package codegen

import "strings"

var kotlinTypeNames = map[string]string{
	"Bool":      "Boolean",
	"Void":      "Unit",
	"()":        "Unit",
	"Character": "Char",
	"Substring": "String",
	"Float32":   "Float",
	"Float64":   "Double",
	"Int8":      "Byte",
	"Int16":     "Short",
	"Int32":     "Int",
	"Int64":     "Long",
	"UInt":      "UInt",
	"AnyObject": "Any",
}

// kotlinType spells a source type name in Kotlin: arrays and dictionaries
// become mutable collections, function types keep their arrow, and generic
// arguments are translated in place.
func kotlinType(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}

	if mapped, ok := kotlinTypeNames[name]; ok {
		return mapped
	}

	if arrow := topLevel(name, "->"); arrow >= 0 {
		params := strings.TrimSpace(name[:arrow])
		result := kotlinType(name[arrow+2:])

		if strings.HasPrefix(params, "(") && strings.HasSuffix(params, ")") {
			params = params[1 : len(params)-1]
		}

		return "(" + strings.Join(mapTypes(splitTopLevel(params, ",")), ", ") + ") -> " + result
	}

	if strings.HasSuffix(name, "?") || strings.HasSuffix(name, "!") {
		inner := kotlinType(name[:len(name)-1])
		if strings.Contains(inner, "->") {
			inner = "(" + inner + ")"
		}

		return inner + "?"
	}

	if strings.HasPrefix(name, "[") && strings.HasSuffix(name, "]") {
		inner := name[1 : len(name)-1]

		if colon := topLevel(inner, ":"); colon >= 0 {
			return "MutableMap<" + kotlinType(inner[:colon]) + ", " + kotlinType(inner[colon+1:]) + ">"
		}

		return "MutableList<" + kotlinType(inner) + ">"
	}

	if strings.HasPrefix(name, "(") && strings.HasSuffix(name, ")") {
		elements := mapTypes(splitTopLevel(name[1:len(name)-1], ","))

		switch len(elements) {
		case 1:
			return elements[0]
		case 2:
			return "Pair<" + strings.Join(elements, ", ") + ">"
		case 3:
			return "Triple<" + strings.Join(elements, ", ") + ">"
		}

		return "List<Any?>"
	}

	if open := strings.IndexByte(name, '<'); open > 0 && strings.HasSuffix(name, ">") {
		args := mapTypes(splitTopLevel(name[open+1:len(name)-1], ","))

		return kotlinType(name[:open]) + "<" + strings.Join(args, ", ") + ">"
	}

	return name
}

func mapTypes(names []string) []string {
	out := make([]string, 0, len(names))

	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			continue
		}

		out = append(out, kotlinType(name))
	}

	return out
}

// topLevel returns the index of the first sep outside brackets, or -1.
func topLevel(text, sep string) int {
	depth := 0

	for idx := 0; idx < len(text); idx++ {
		switch text[idx] {
		case '(', '[', '<':
			depth++
		case ')', ']':
			depth--
		case '>':
			if idx == 0 || text[idx-1] != '-' {
				depth--
			}
		}

		if depth == 0 && strings.HasPrefix(text[idx:], sep) {
			return idx
		}
	}

	return -1
}

func splitTopLevel(text, sep string) []string {
	var parts []string

	for {
		idx := topLevel(text, sep)
		if idx < 0 {
			return append(parts, text)
		}

		parts = append(parts, text[:idx])
		text = text[idx+len(sep):]
	}
}

// isVoid reports whether a return type is left unwritten.
func isVoid(name string) bool {
	switch strings.TrimSpace(name) {
	case "", "Void", "()", "Unit":
		return true
	}

	return false
}
