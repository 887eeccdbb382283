package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var (
	remoteCmd = &cobra.Command{
		Use:   "remote",
		Short: "Lists databases listed in sqlrevision.yaml",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(directory)
			if err != nil {
				return err
			}
			names := make([]string, 0, len(cfg.Databases))
			for k := range cfg.Databases {
				names = append(names, k)
			}
			sort.Strings(names)
			for _, k := range names {
				fmt.Fprintln(cmd.OutOrStdout(), k)
			}
			return nil
		},
	}
)

func init() {
	rootCmd.AddCommand(remoteCmd)
}
