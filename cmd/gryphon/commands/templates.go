package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/vinivendra/Gryphon-sub003/pkg/codegen"
	"github.com/vinivendra/Gryphon-sub003/pkg/config"
	"github.com/vinivendra/Gryphon-sub003/pkg/levenshtein"
	"github.com/vinivendra/Gryphon-sub003/pkg/template"
	"github.com/vinivendra/Gryphon-sub003/pkg/transpiler"
)

// suggestDistance is the largest edit distance offered as a suggestion.
const suggestDistance = 3

// ErrUnknownTemplate is returned by "templates show" for a missing name.
var ErrUnknownTemplate = errors.New("unknown template")

type templateFlags struct {
	files     []string
	noBuiltin bool
}

func (f *templateFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&f.files, "templates", nil, "additional template catalogue files")
	cmd.Flags().BoolVar(&f.noBuiltin, "no-builtin", false, "do not load the built-in templates")
}

// load builds the catalogue selected by config and flags.
func (f *templateFlags) load(cmd *cobra.Command, opts *GlobalOptions) (*template.Catalogue, error) {
	cfg, err := config.LoadConfig(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("no-builtin") {
		cfg.Templates.DisableBuiltin = f.noBuiltin
	}

	return transpiler.LoadCatalogue(!cfg.Templates.DisableBuiltin, append(cfg.Templates.Files, f.files...)...)
}

// NewTemplatesCommand creates the templates subcommand group.
func NewTemplatesCommand(opts *GlobalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "Inspect and validate template catalogues",
	}

	cmd.AddCommand(newTemplatesValidateCommand(opts))
	cmd.AddCommand(newTemplatesListCommand(opts))
	cmd.AddCommand(newTemplatesShowCommand(opts))

	return cmd
}

func newTemplatesValidateCommand(opts *GlobalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file.yaml>...",
		Short: "Check catalogue files against the schema and compile their patterns",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var errs []error

			for _, path := range args {
				catalogue, err := template.LoadFile(path)
				if err != nil {
					errs = append(errs, err)

					continue
				}

				if !opts.Quiet {
					fmt.Fprintf(cmd.OutOrStdout(), "%s: %d templates ok\n", path, catalogue.Len())
				}
			}

			return errors.Join(errs...)
		},
	}
}

func newTemplatesListCommand(opts *GlobalOptions) *cobra.Command {
	var flags templateFlags

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the templates in precedence order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			catalogue, err := flags.load(cmd, opts)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderTemplates(catalogue))

			return nil
		},
	}

	flags.register(cmd)

	return cmd
}

func newTemplatesShowCommand(opts *GlobalOptions) *cobra.Command {
	var flags templateFlags

	cmd := &cobra.Command{
		Use:   "show <name>",
		Short: "Show one template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalogue, err := flags.load(cmd, opts)
			if err != nil {
				return err
			}

			tmpl, ok := catalogue.Lookup(args[0])
			if !ok {
				return unknownTemplate(args[0], catalogue)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "name:        %s\n", tmpl.Name)
			fmt.Fprintf(out, "pattern:     %s\n", codegen.Expr(tmpl.Pattern))
			fmt.Fprintf(out, "replacement: %s\n", replacementText(tmpl))

			if vars := template.Variables(tmpl.Pattern); len(vars) > 0 {
				fmt.Fprintf(out, "variables:   %s\n", strings.Join(vars, ", "))
			}

			return nil
		},
	}

	flags.register(cmd)

	return cmd
}

func unknownTemplate(name string, catalogue *template.Catalogue) error {
	names := make([]string, 0, catalogue.Len())
	for _, tmpl := range catalogue.Templates() {
		names = append(names, tmpl.Name)
	}

	if suggestion, ok := levenshtein.Closest(name, names, suggestDistance); ok {
		return fmt.Errorf("%w %q, did you mean %q?", ErrUnknownTemplate, name, suggestion)
	}

	return fmt.Errorf("%w %q", ErrUnknownTemplate, name)
}

// replacementText renders the replacement with its variables unbound, so
// they print under their placeholder names.
func replacementText(tmpl template.Template) string {
	return codegen.Expr(template.Build(tmpl.Replacement, nil, nil))
}

func renderTemplates(catalogue *template.Catalogue) string {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.DrawBorder = false
	tbl.Style().Options.SeparateColumns = false

	tbl.AppendHeader(table.Row{"#", "Name", "Pattern", "Replacement"})

	for idx, tmpl := range catalogue.Templates() {
		tbl.AppendRow(table.Row{idx + 1, tmpl.Name, codegen.Expr(tmpl.Pattern), replacementText(tmpl)})
	}

	tbl.AppendFooter(table.Row{"", fmt.Sprintf("Total: %d templates", catalogue.Len())})

	return tbl.Render()
}
