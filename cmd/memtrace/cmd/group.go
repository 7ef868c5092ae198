package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newGroupCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "group <fragment>",
		Short: "Parse a single instruction group",
		Long: `Parses exactly one instruction group and prints its records without
identifiers. An atomic pair yields two records.

Examples:
  memtrace group "0: v1 := 1"
  memtrace group "2: {M[3] == 0; M[3] := 4}"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raws, err := a.engine.ParseGroup(args[0])
			if err != nil {
				return err
			}
			for _, r := range raws {
				fmt.Fprintln(cmd.OutOrStdout(), r.String())
			}
			return nil
		},
	}
}
