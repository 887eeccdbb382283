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
	statusCmd = &cobra.Command{
		Use:   "status <dbname>",
		Short: "Lists revisions and whether they are applied to the SQL database configured in sqlrevision.yaml",
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

			dbc, _, err := database(ctx, logger, args[0])
			if err != nil {
				return err
			}
			defer func() {
				_ = dbc.Close()
			}()

			statuses, err := sqlrevision.NewRunner(logger).Status(ctx, dbc, revs)
			if err != nil {
				return err
			}
			for _, s := range statuses {
				line := fmt.Sprintf("%-8s %s", s.State, s.Revision.Name)
				if s.AppliedRevision != nil {
					line += fmt.Sprintf(" (%s, %s)", s.AppliedRevision.AppliedAt.Format("2006-01-02 15:04:05"), s.AppliedRevision.Duration)
				}
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	}
)

func init() {
	rootCmd.AddCommand(statusCmd)
}
