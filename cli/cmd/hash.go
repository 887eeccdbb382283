package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	hashCmd = &cobra.Command{
		Use:   "hash [file...]",
		Short: "Print the checksum recorded for each revision when it is applied",
		RunE: func(cmd *cobra.Command, args []string) error {
			revs, err := revisions(args)
			if err != nil {
				return err
			}
			for _, rev := range revs {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", rev.Checksum, rev.Name)
			}
			return nil
		},
	}
)

func init() {
	rootCmd.AddCommand(hashCmd)
}
