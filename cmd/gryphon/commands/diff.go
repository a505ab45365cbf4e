package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"

	"github.com/vinivendra/Gryphon-sub003/pkg/observability"
	"github.com/vinivendra/Gryphon-sub003/pkg/transpiler"
)

const (
	diffCmdUse   = "diff <unit.dump> <expected.kt>"
	diffCmdShort = "Compare the translation of a dump with expected Kotlin"
	diffArgCount = 2
)

// ErrOutputDiffers is returned when the translation does not match the
// expected file.
var ErrOutputDiffers = errors.New("translation differs from expected output")

// DiffCommand holds the flags of the diff subcommand.
type DiffCommand struct {
	opts          *GlobalOptions
	initTelemetry telemetryInit

	templates []string
	noBuiltin bool
}

// NewDiffCommand creates the diff subcommand.
func NewDiffCommand(opts *GlobalOptions) *cobra.Command {
	return newDiffCommand(opts, observability.Init)
}

func newDiffCommand(opts *GlobalOptions, initTelemetry telemetryInit) *cobra.Command {
	dc := &DiffCommand{opts: opts, initTelemetry: initTelemetry}

	cmd := &cobra.Command{
		Use:   diffCmdUse,
		Short: diffCmdShort,
		Args:  cobra.ExactArgs(diffArgCount),
		RunE:  dc.run,
	}

	cmd.Flags().StringSliceVar(&dc.templates, "templates", nil, "additional template catalogue files")
	cmd.Flags().BoolVar(&dc.noBuiltin, "no-builtin", false, "do not load the built-in templates")

	return cmd
}

func (dc *DiffCommand) run(cmd *cobra.Command, args []string) error {
	unit, err := readUnit(args[0])
	if err != nil {
		return err
	}

	expected, err := os.ReadFile(args[1])
	if err != nil {
		return fmt.Errorf("read expected output: %w", err)
	}

	env, err := setupEnvironment(dc.opts, observability.ModeCLI, dc.initTelemetry, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer env.close()

	if cmd.Flags().Changed("no-builtin") {
		env.cfg.Templates.DisableBuiltin = dc.noBuiltin
	}

	env.cfg.Templates.Files = append(env.cfg.Templates.Files, dc.templates...)

	tr, err := env.newTranspiler()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	result, err := tr.TranspileUnit(ctx, unit)
	if err != nil {
		printDiagnostics(cmd.ErrOrStderr(), colorEnabled(dc.opts), newSourceCache([]transpiler.Unit{unit}), result.Diagnostics)

		return err
	}

	changed := writeLineDiff(cmd.OutOrStdout(), string(expected), result.Kotlin, colorEnabled(dc.opts))
	if changed > 0 {
		return fmt.Errorf("%w: %d lines changed", ErrOutputDiffers, changed)
	}

	if !dc.opts.Quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "%s matches %s\n", args[0], args[1])
	}

	return nil
}

// writeLineDiff prints a line-level unified view of expected versus actual
// and returns the number of inserted or deleted lines.
func writeLineDiff(w io.Writer, expected, actual string, colored bool) int {
	if expected == actual {
		return 0
	}

	dmp := diffmatchpatch.New()

	chars1, chars2, lines := dmp.DiffLinesToChars(expected, actual)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(chars1, chars2, false), lines)

	removed := color.New(color.FgRed)
	added := color.New(color.FgGreen)

	for _, c := range []*color.Color{removed, added} {
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	changed := 0

	for _, d := range diffs {
		for _, line := range splitLines(d.Text) {
			switch d.Type {
			case diffmatchpatch.DiffDelete:
				removed.Fprintf(w, "-%s\n", line)
				changed++
			case diffmatchpatch.DiffInsert:
				added.Fprintf(w, "+%s\n", line)
				changed++
			case diffmatchpatch.DiffEqual:
				fmt.Fprintf(w, " %s\n", line)
			}
		}
	}

	return changed
}

func splitLines(text string) []string {
	if text == "" {
		return nil
	}

	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}
