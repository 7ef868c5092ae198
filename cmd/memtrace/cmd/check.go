package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/msto63/memtrace/foundation/trace"
	"github.com/msto63/memtrace/internal/render"
)

func newCheckCmd(a *app) *cobra.Command {
	var keepGoing bool

	cmd := &cobra.Command{
		Use:   "check <file|->...",
		Short: "Validate one or more traces",
		Long: `Validates traces and prints one verdict line per input. Stops at the
first rejected trace unless --keep-going is set.

Exit status is 0 when every trace is accepted, 1 when a trace is
rejected and 2 when an input cannot be read.

Examples:
  memtrace check sb.trace mp.trace
  memtrace check --keep-going litmus/*.trace`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := a.renderOptions()
			out := cmd.OutOrStdout()

			var rejected, failed bool
			for _, arg := range args {
				_, err := a.parseArg(arg, cmd.InOrStdin())
				fmt.Fprintln(out, render.Verdict(displayName(arg), err, opts))
				if err == nil {
					continue
				}

				if trace.IsRejected(err) {
					rejected = true
				} else {
					failed = true
				}
				if !keepGoing {
					break
				}
			}

			switch {
			case failed:
				return errReported
			case rejected:
				return errRejected
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&keepGoing, "keep-going", "k", false, "check every input even after a rejection")

	return cmd
}
