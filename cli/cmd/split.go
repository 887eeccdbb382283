package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	splitCmd = &cobra.Command{
		Use:   "split [file...]",
		Short: "Dump the statements that will be executed for each revision to stdout",
		RunE: func(cmd *cobra.Command, args []string) error {
			revs, err := revisions(args)
			if err != nil {
				return err
			}
			if len(revs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No revisions found in given paths")
				return nil
			}
			for _, rev := range revs {
				fmt.Fprintf(cmd.OutOrStdout(), "-- %s\n", rev.Name)
				for _, stmt := range rev.Statements.All() {
					fmt.Fprintln(cmd.OutOrStdout(), stmt)
					fmt.Fprintln(cmd.OutOrStdout(), "===")
				}
			}
			return nil
		},
	}
)

func init() {
	rootCmd.AddCommand(splitCmd)
}
