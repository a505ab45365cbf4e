// Package main provides the entry point for the gryphon CLI tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vinivendra/Gryphon-sub003/cmd/gryphon/commands"
	"github.com/vinivendra/Gryphon-sub003/pkg/version"
)

func main() {
	version.InitBinaryVersion()

	opts := &commands.GlobalOptions{}

	rootCmd := &cobra.Command{
		Use:   "gryphon",
		Short: "Gryphon - Swift to Kotlin translator",
		Long: `Gryphon translates Swift compiler tree dumps into Kotlin source.

Commands:
  transpile   Translate dumps into Kotlin
  diff        Compare a translation with expected Kotlin
  templates   Inspect and validate template catalogues`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "config file (default .gryphon.yaml in CWD or $HOME)")
	rootCmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVarP(&opts.Quiet, "quiet", "q", false, "suppress output")
	rootCmd.PersistentFlags().BoolVar(&opts.NoColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(commands.NewTranspileCommand(opts))
	rootCmd.AddCommand(commands.NewDiffCommand(opts))
	rootCmd.AddCommand(commands.NewTemplatesCommand(opts))
	rootCmd.AddCommand(versionCmd())

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(os.Stdout, "gryphon %s\n", version.String())
		},
	}
}
