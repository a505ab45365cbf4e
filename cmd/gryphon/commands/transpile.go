package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/vinivendra/Gryphon-sub003/pkg/codegen"
	"github.com/vinivendra/Gryphon-sub003/pkg/observability"
	"github.com/vinivendra/Gryphon-sub003/pkg/transpiler"
)

const (
	transpileCmdUse   = "transpile <unit.dump>..."
	transpileCmdShort = "Translate Swift tree dumps into Kotlin"
	transpileCmdLong  = `Translate one or more Swift tree dumps into Kotlin.

A single input is written to stdout, or to the file given by --output.
Several inputs, or a directory of .dump files, run as a batch: every unit
gets a .kt file next to its dump, or inside the --output directory, and a
summary table is printed to stderr.`
)

// ErrMapNeedsOutput is returned when --map is used while writing to stdout.
var ErrMapNeedsOutput = errors.New("--map requires --output for a single input")

// TranspileCommand holds the flags of the transpile subcommand.
type TranspileCommand struct {
	opts          *GlobalOptions
	initTelemetry telemetryInit

	output          string
	indent          string
	templates       []string
	positionMap     bool
	noBuiltin       bool
	continueOnError bool
	workers         int
}

// NewTranspileCommand creates the transpile subcommand.
func NewTranspileCommand(opts *GlobalOptions) *cobra.Command {
	return newTranspileCommand(opts, observability.Init)
}

func newTranspileCommand(opts *GlobalOptions, initTelemetry telemetryInit) *cobra.Command {
	tc := &TranspileCommand{opts: opts, initTelemetry: initTelemetry}

	cmd := &cobra.Command{
		Use:   transpileCmdUse,
		Short: transpileCmdShort,
		Long:  transpileCmdLong,
		Args:  cobra.MinimumNArgs(1),
		RunE:  tc.run,
	}

	cmd.Flags().StringVarP(&tc.output, "output", "o", "", "output file, or output directory for a batch")
	cmd.Flags().BoolVar(&tc.positionMap, "map", false, "also write a position map next to each output")
	cmd.Flags().StringVar(&tc.indent, "indent", "", "indentation unit of generated code")
	cmd.Flags().StringSliceVar(&tc.templates, "templates", nil, "additional template catalogue files")
	cmd.Flags().BoolVar(&tc.noBuiltin, "no-builtin", false, "do not load the built-in templates")
	cmd.Flags().BoolVar(&tc.continueOnError, "continue-on-error", false, "keep going after a unit fails")
	cmd.Flags().IntVar(&tc.workers, "workers", 0, "units transpiled in parallel (0 = one per CPU)")

	return cmd
}

func (tc *TranspileCommand) run(cmd *cobra.Command, args []string) error {
	units, batch, err := readUnits(args)
	if err != nil {
		return err
	}

	mode := observability.ModeCLI
	if batch {
		mode = observability.ModeBatch
	}

	env, err := setupEnvironment(tc.opts, mode, tc.initTelemetry, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer env.close()

	err = tc.applyFlags(cmd, env)
	if err != nil {
		return err
	}

	tr, err := env.newTranspiler()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if !batch {
		return tc.single(ctx, cmd, tr, units[0], env.cfg.Output.PositionMap)
	}

	return tc.batch(ctx, cmd, tr, units, env)
}

// applyFlags lets explicitly set flags override the loaded config.
func (tc *TranspileCommand) applyFlags(cmd *cobra.Command, env *environment) error {
	flags := cmd.Flags()

	if flags.Changed("indent") {
		env.cfg.Output.Indent = tc.indent
	}

	if flags.Changed("map") {
		env.cfg.Output.PositionMap = tc.positionMap
	}

	if flags.Changed("no-builtin") {
		env.cfg.Templates.DisableBuiltin = tc.noBuiltin
	}

	if flags.Changed("continue-on-error") {
		env.cfg.Batch.ContinueOnError = tc.continueOnError
	}

	if flags.Changed("workers") {
		env.cfg.Batch.Workers = tc.workers
	}

	env.cfg.Templates.Files = append(env.cfg.Templates.Files, tc.templates...)

	err := env.cfg.Validate()
	if err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	return nil
}

func (tc *TranspileCommand) single(
	ctx context.Context,
	cmd *cobra.Command,
	tr *transpiler.Transpiler,
	unit transpiler.Unit,
	positionMap bool,
) error {
	// A map requested by the config file is skipped when writing to stdout;
	// an explicit --map is an error.
	if tc.positionMap && tc.output == "" {
		return ErrMapNeedsOutput
	}

	result, err := tr.TranspileUnit(ctx, unit)

	if !tc.opts.Quiet || err != nil {
		printDiagnostics(cmd.ErrOrStderr(), colorEnabled(tc.opts), newSourceCache([]transpiler.Unit{unit}), result.Diagnostics)
	}

	if err != nil {
		return err
	}

	if tc.output == "" {
		_, err = io.WriteString(cmd.OutOrStdout(), result.Kotlin)

		return err
	}

	return writeResult(tc.output, result, positionMap)
}

func (tc *TranspileCommand) batch(
	ctx context.Context,
	cmd *cobra.Command,
	tr *transpiler.Transpiler,
	units []transpiler.Unit,
	env *environment,
) error {
	logger := env.providers.Logger

	results, runErr := tr.RunBatch(ctx, units, transpiler.BatchOptions{
		Workers:         env.cfg.Batch.Workers,
		ContinueOnError: env.cfg.Batch.ContinueOnError,
		Progress: func(done, total int, result *transpiler.Result, err error) {
			if logger != nil {
				logger.DebugContext(ctx, "unit finished",
					"done", done, "total", total, "unit", resultName(result), "failed", err != nil)
			}
		},
	})

	errs := []error{runErr}

	for _, result := range results {
		if result == nil || len(result.Errors()) > 0 {
			continue
		}

		err := writeResult(outputPath(result.Unit, tc.output), result, env.cfg.Output.PositionMap)
		if err != nil {
			errs = append(errs, err)
		}
	}

	stderr := cmd.ErrOrStderr()
	sources := newSourceCache(units)

	for _, result := range results {
		if result != nil && (!tc.opts.Quiet || len(result.Errors()) > 0) {
			printDiagnostics(stderr, colorEnabled(tc.opts), sources, result.Diagnostics)
		}
	}

	if !tc.opts.Quiet {
		fmt.Fprintln(stderr, renderSummary(units, results))
	}

	return errors.Join(errs...)
}

func writeResult(path string, result *transpiler.Result, positionMap bool) error {
	err := writeOutput(path, result.Kotlin)
	if err != nil {
		return err
	}

	if !positionMap {
		return nil
	}

	return writeOutput(path+mapExt, codegen.FormatMap(result.Map))
}

func resultName(result *transpiler.Result) string {
	if result == nil {
		return ""
	}

	return result.Unit
}
