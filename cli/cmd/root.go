package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	rootCmd = &cobra.Command{
		Use:          "sqlrevision",
		Short:        "sqlrevision",
		SilenceUsage: true,
		Long:         `CLI tool for applying SQL revision scripts to Microsoft SQL or PostgreSQL, one statement at a time.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				logrus.SetLevel(logrus.DebugLevel)
			}
		},
	}

	directory string
	tags      []string
	verbose   bool
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&directory, "directory", "d", ".", "path to directory and subtree which will be scanned for *.sql-files")
	rootCmd.PersistentFlags().StringSliceVarP(&tags, "tags", "t", nil, "include tags; affects files that are included through the include-if pragma")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log every executed statement")
}
