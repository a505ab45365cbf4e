package dump

import (
	"strconv"
	"strings"

	"github.com/coregx/coregex"
)

// Location is a single file:line:col position.
type Location struct {
	File   string
	Line   int
	Column int
}

var lineColSuffix = mustCompile(`:[0-9]+:[0-9]+`)

func mustCompile(pattern string) *coregex.Regexp {
	re, err := coregex.Compile(pattern)
	if err != nil {
		panic("dump: invalid pattern " + pattern + ": " + err.Error())
	}

	return re
}

// ParseLocation splits "path/to file:line:col" into its parts. The path may
// contain spaces and colons; only the trailing :line:col is interpreted.
func ParseLocation(text string) (Location, bool) {
	text = strings.TrimSpace(text)

	matches := lineColSuffix.FindAllStringIndex(text, -1)
	if len(matches) == 0 {
		return Location{}, false
	}

	last := matches[len(matches)-1]
	if last[1] != len(text) {
		return Location{}, false
	}

	parts := strings.Split(text[last[0]+1:], ":")

	line, err := strconv.Atoi(parts[0])
	if err != nil {
		return Location{}, false
	}

	col, err := strconv.Atoi(parts[1])
	if err != nil {
		return Location{}, false
	}

	return Location{File: text[:last[0]], Line: line, Column: col}, true
}

// ParseRange reads the body of a range attribute:
// "/tmp/a.swift:1:3 - line:1:9". The end may omit the file or use the
// literal "line" marker.
func ParseRange(text string) (*Range, bool) {
	startText, endText, found := strings.Cut(text, " - ")
	if !found {
		start, ok := ParseLocation(text)
		if !ok {
			return nil, false
		}

		return &Range{
			File: start.File, StartLine: start.Line, StartCol: start.Column,
			EndLine: start.Line, EndCol: start.Column,
		}, true
	}

	start, ok := ParseLocation(startText)
	if !ok {
		return nil, false
	}

	end, ok := ParseLocation(endText)
	if !ok {
		return nil, false
	}

	return &Range{
		File:      start.File,
		StartLine: start.Line,
		StartCol:  start.Column,
		EndLine:   end.Line,
		EndCol:    end.Column,
	}, true
}

// locationEnd finds where a location value starting at the beginning of line
// ends: right after the first :line:col suffix followed by a delimiter.
// It returns -1 when the line holds no such suffix.
func locationEnd(line string) int {
	for _, match := range lineColSuffix.FindAllStringIndex(line, -1) {
		end := match[1]
		if end == len(line) || isLocationDelimiter(line[end]) {
			return end
		}
	}

	return -1
}

func isLocationDelimiter(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == ')'
}
