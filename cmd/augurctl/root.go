package main

import (
	"github.com/spf13/cobra"
)

var outputJSON bool

// NewRootCmd returns the root command for the augur CLI
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "augurctl",
		Short:         "augurctl — score posts for virality from the command line",
		Long:          "augurctl runs the augur analysis pipeline locally: feature extraction, weighted scoring with heavy-scorer fallback, and improvement suggestions.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "print raw JSON instead of formatted output")

	rootCmd.AddCommand(newAnalyzeCmd())
	rootCmd.AddCommand(newHashtagsCmd())
	rootCmd.AddCommand(newTrendingCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}
