package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	var logLevelFlag string
	var engineFlag string

	ctx := newCommandContext(&configFlag, &logLevelFlag, &engineFlag)

	rootCmd := &cobra.Command{
		Use:           "gopress",
		Short:         "Variable-data merge and imposition for press documents",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&engineFlag, "engine", "", "Document engine to use when several are linked in")

	rootCmd.AddCommand(newMergeCommand(ctx))
	rootCmd.AddCommand(newImposeCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))
	rootCmd.AddCommand(newHistoryCommand(ctx))

	return rootCmd
}
