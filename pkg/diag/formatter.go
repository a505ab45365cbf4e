package diag

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
)

// Formatter renders diagnostics with a caret snippet of the original source.
type Formatter struct {
	out     io.Writer
	errorC  *color.Color
	warnC   *color.Color
	gutterC *color.Color
	caretC  *color.Color
}

// NewFormatter returns a Formatter writing to out. Colors are emitted only
// when colored is true.
func NewFormatter(out io.Writer, colored bool) *Formatter {
	f := &Formatter{
		out:     out,
		errorC:  color.New(color.FgRed, color.Bold),
		warnC:   color.New(color.FgYellow, color.Bold),
		gutterC: color.New(color.FgBlue),
		caretC:  color.New(color.FgGreen, color.Bold),
	}

	for _, c := range []*color.Color{f.errorC, f.warnC, f.gutterC, f.caretC} {
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	return f
}

// Format writes d. src is the original source text of the unit, or "" when
// unavailable, in which case only the header line is written.
func (f *Formatter) Format(d Diagnostic, src string) {
	severity := f.errorC
	if d.Severity == SeverityWarning {
		severity = f.warnC
	}

	fmt.Fprintf(f.out, "%s: %s\n", severity.Sprint(string(d.Severity)), d.Message)

	if !d.Range.IsValid() {
		if d.Unit != "" {
			fmt.Fprintf(f.out, "  %s %s\n", f.gutterC.Sprint("-->"), d.Unit)
		}

		return
	}

	file := d.Range.File
	if file == "" {
		file = d.Unit
	}

	fmt.Fprintf(f.out, "  %s %s:%d:%d\n", f.gutterC.Sprint("-->"), file, d.Range.StartLine, d.Range.StartCol)

	lines := strings.Split(src, "\n")
	if src == "" || d.Range.StartLine > len(lines) {
		return
	}

	line := strings.TrimRight(lines[d.Range.StartLine-1], "\r")
	number := strconv.Itoa(d.Range.StartLine)
	pad := strings.Repeat(" ", len(number))

	fmt.Fprintf(f.out, "%s %s\n", pad, f.gutterC.Sprint("|"))
	fmt.Fprintf(f.out, "%s %s %s\n", f.gutterC.Sprint(number), f.gutterC.Sprint("|"), line)
	fmt.Fprintf(f.out, "%s %s %s%s\n", pad, f.gutterC.Sprint("|"),
		strings.Repeat(" ", max(0, d.Range.StartCol-1)), f.caretC.Sprint(carets(d, len(line))))
}

// carets underlines the range on its first line.
func carets(d Diagnostic, lineLen int) string {
	width := 1

	if d.Range.EndLine == d.Range.StartLine && d.Range.EndCol > d.Range.StartCol {
		width = d.Range.EndCol - d.Range.StartCol
	} else if d.Range.EndLine > d.Range.StartLine {
		width = max(1, lineLen-d.Range.StartCol+1)
	}

	return strings.Repeat("^", width)
}

// FormatAll writes every diagnostic, looking sources up by unit name.
func (f *Formatter) FormatAll(diagnostics []Diagnostic, sources map[string]string) {
	for _, d := range diagnostics {
		f.Format(d, sources[d.Unit])
	}
}
