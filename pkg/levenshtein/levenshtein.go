// Copyright (c) 2015, Arbo von Monkiewitsch All rights reserved.
// Use of this source code is governed by a BSD-style
// license.

// Package levenshtein ranks names by edit distance, for "did you mean"
// suggestions on mistyped template and command names.
package levenshtein

import "strings"

// Context reuses one scratch column across Distance calls. It is not safe
// for concurrent use.
type Context struct {
	column []int
}

func (ctx *Context) scratch(length int) []int {
	if cap(ctx.column) < length {
		ctx.column = make([]int, length)
	}

	return ctx.column[:length]
}

// Distance is the minimum number of single-rune insertions, deletions and
// substitutions turning str1 into str2. It keeps a single column of the
// edit matrix.
func (ctx *Context) Distance(str1, str2 string) int {
	s1 := []rune(str1)
	s2 := []rune(str2)

	if len(s2) == 0 {
		return len(s1)
	}

	column := ctx.scratch(len(s1) + 1)
	for idx := range column {
		column[idx] = idx
	}

	for col, r2 := range s2 {
		diag := col
		column[0] = col + 1

		for row, r1 := range s1 {
			above := column[row+1]

			cost := 1
			if r1 == r2 {
				cost = 0
			}

			column[row+1] = min(above+1, column[row]+1, diag+cost)
			diag = above
		}
	}

	return column[len(s1)]
}

// Closest returns the candidate nearest to name, ignoring case. Candidates
// further than maxDistance edits away are never suggested; ties keep the
// earlier candidate.
func Closest(name string, candidates []string, maxDistance int) (string, bool) {
	var (
		ctx  Context
		best string
	)

	bestDistance := maxDistance + 1
	lowered := strings.ToLower(name)

	for _, candidate := range candidates {
		distance := ctx.Distance(lowered, strings.ToLower(candidate))
		if distance < bestDistance {
			best, bestDistance = candidate, distance
		}
	}

	return best, bestDistance <= maxDistance
}
