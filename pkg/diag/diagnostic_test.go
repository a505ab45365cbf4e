package diag_test

import (
	"bytes"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vinivendra/Gryphon-sub003/pkg/diag"
	"github.com/vinivendra/Gryphon-sub003/pkg/dump"
)

func TestCollector_WarnAndError(t *testing.T) {
	t.Parallel()

	collector := diag.NewCollector()
	rng := &dump.Range{File: "a.swift", StartLine: 2, StartCol: 3, EndLine: 2, EndCol: 8}

	collector.Warn(diag.StagePass, rng, "mutating method %q", "move")
	collector.Error(diag.StageBuild, nil, "unsupported")

	require.Equal(t, 2, collector.Len())
	require.Len(t, collector.Warnings(), 1)
	require.Len(t, collector.Errors(), 1)

	warning := collector.Warnings()[0]
	assert.Equal(t, `mutating method "move"`, warning.Message)
	assert.Equal(t, "a.swift:2:3: warning: mutating method \"move\"", warning.String())
	assert.Equal(t, "error: unsupported", collector.Errors()[0].String())

	collector.Reset()
	assert.Zero(t, collector.Len())
	assert.Empty(t, collector.Diagnostics())
}

func TestCollector_ConcurrentAppend(t *testing.T) {
	t.Parallel()

	collector := diag.NewCollector()

	var wg sync.WaitGroup

	for worker := range 8 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			scope := collector.Scoped(fmt.Sprintf("unit%d", worker))
			for range 50 {
				scope.Warn(diag.StagePass, nil, "w")
			}
		}()
	}

	wg.Wait()

	assert.Equal(t, 400, collector.Len())
	assert.NotEmpty(t, collector.Warnings()[0].Unit)
}

func TestFormatter_Caret(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	formatter := diag.NewFormatter(&out, false)
	formatter.Format(diag.Diagnostic{
		Severity: diag.SeverityWarning,
		Message:  "mutating method",
		Range:    &dump.Range{File: "a.swift", StartLine: 2, StartCol: 5, EndLine: 2, EndCol: 9},
	}, "struct P {\n    mutating func m() {}\n}")

	assert.Equal(t, "warning: mutating method\n"+
		"  --> a.swift:2:5\n"+
		"  |\n"+
		"2 |     mutating func m() {}\n"+
		"  |     ^^^^\n", out.String())
}

func TestFormatter_NoRange(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	diag.NewFormatter(&out, false).Format(diag.Diagnostic{
		Severity: diag.SeverityError,
		Message:  "boom",
		Unit:     "u.dump",
	}, "")

	assert.Equal(t, "error: boom\n  --> u.dump\n", out.String())
}
