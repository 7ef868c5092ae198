package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/msto63/memtrace/internal/render"
)

func newParseCmd(a *app) *cobra.Command {
	var (
		format  string
		summary bool
	)

	cmd := &cobra.Command{
		Use:   "parse <file|->",
		Short: "Parse a trace and print it",
		Long: `Parses a trace, validates it and prints the result with operation
identifiers assigned.

Formats:
  text   canonical trace text
  table  one column per thread
  json   structured document
  yaml   structured document

Examples:
  memtrace parse sb.trace
  memtrace parse --format table sb.trace
  cat sb.trace | memtrace parse --format json -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := a.outputFormat(format)
			if err != nil {
				return err
			}

			t, err := a.parseArg(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}

			opts := a.renderOptions()
			out := cmd.OutOrStdout()
			if err := render.Write(out, t, f, opts); err != nil {
				return err
			}
			if summary {
				fmt.Fprintln(out)
				fmt.Fprint(out, render.Summary(t, opts))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "output format (text, table, json, yaml)")
	cmd.Flags().BoolVarP(&summary, "summary", "s", false, "print a summary after the trace")

	return cmd
}
