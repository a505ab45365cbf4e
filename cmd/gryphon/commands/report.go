package commands

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/vinivendra/Gryphon-sub003/pkg/diag"
	"github.com/vinivendra/Gryphon-sub003/pkg/transpiler"
)

const (
	statusOK      = "ok"
	statusFailed  = "failed"
	statusSkipped = "skipped"
)

func colorEnabled(opts *GlobalOptions) bool {
	return !opts.NoColor && !color.NoColor
}

// sourceCache resolves the text a diagnostic points into. Decode failures
// point into the dump itself; every other stage points into the original
// source file named by the range, when it is readable.
type sourceCache struct {
	dumps map[string]string
	files map[string]string
}

func newSourceCache(units []transpiler.Unit) *sourceCache {
	cache := &sourceCache{dumps: map[string]string{}, files: map[string]string{}}
	for _, unit := range units {
		cache.dumps[unit.Name] = unit.Text
	}

	return cache
}

func (c *sourceCache) lookup(d diag.Diagnostic) string {
	if d.Stage == diag.StageDecode {
		return c.dumps[d.Unit]
	}

	if d.Range == nil || d.Range.File == "" {
		return ""
	}

	text, ok := c.files[d.Range.File]
	if !ok {
		data, err := os.ReadFile(d.Range.File)
		if err == nil {
			text = string(data)
		}

		c.files[d.Range.File] = text
	}

	return text
}

func printDiagnostics(w io.Writer, colored bool, sources *sourceCache, diagnostics []diag.Diagnostic) {
	formatter := diag.NewFormatter(w, colored)

	for _, d := range diagnostics {
		formatter.Format(d, sources.lookup(d))
	}
}

// renderSummary renders one row per unit of a batch run.
func renderSummary(units []transpiler.Unit, results []*transpiler.Result) string {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.DrawBorder = false
	tbl.Style().Options.SeparateColumns = false

	tbl.AppendHeader(table.Row{"Unit", "Status", "Lines", "Output", "Warnings", "Errors", "Duration"})

	var (
		failed   int
		outBytes uint64
		total    time.Duration
	)

	for idx, unit := range units {
		result := results[idx]
		if result == nil {
			tbl.AppendRow(table.Row{unit.Name, statusSkipped, countLines(unit.Text), "", "", "", ""})

			continue
		}

		status := statusOK
		if len(result.Errors()) > 0 {
			status = statusFailed
			failed++
		}

		outBytes += uint64(len(result.Kotlin))
		total += result.Duration

		tbl.AppendRow(table.Row{
			unit.Name,
			status,
			countLines(unit.Text),
			humanize.Bytes(uint64(len(result.Kotlin))),
			len(result.Warnings()),
			len(result.Errors()),
			result.Duration.Round(time.Microsecond).String(),
		})
	}

	tbl.AppendFooter(table.Row{
		fmt.Sprintf("Total: %d units", len(units)),
		fmt.Sprintf("%d failed", failed),
		"",
		humanize.Bytes(outBytes),
		"",
		"",
		total.Round(time.Microsecond).String(),
	})

	return tbl.Render()
}
