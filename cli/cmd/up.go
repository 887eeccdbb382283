package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/vippsas/sqlrevision"
)

var (
	upCmd = &cobra.Command{
		Use:   "up <dbname>",
		Short: "Applies pending revisions to the SQL database configured in sqlrevision.yaml",
		Long:  "Applies pending revisions to an SQL database, one transaction per revision, executing the statements of each revision one at a time",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logrus.StandardLogger()
			ctx := context.Background()

			if len(args) != 1 {
				_ = cmd.Help()
				return errors.New("Wrong number of arguments")
			}

			revs, err := revisions(nil)
			if err != nil {
				return err
			}

			dbc, dbconfig, err := database(ctx, logger, args[0])
			if err != nil {
				return err
			}
			defer func() {
				_ = dbc.Close()
			}()

			runner := sqlrevision.NewRunner(logger)
			runner.LockTimeout = dbconfig.LockTimeout
			result, err := runner.Up(ctx, dbc, revs)
			if err != nil {
				return err
			}
			for _, name := range result.Applied {
				fmt.Fprintf(cmd.OutOrStdout(), "applied %s\n", name)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d revisions applied, %d already up to date\n",
				len(result.Applied), len(result.Skipped))
			return nil
		},
	}
)

func init() {
	rootCmd.AddCommand(upCmd)
}
