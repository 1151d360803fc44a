package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var envFlag string
	var levelFlag string

	ctx := newCommandContext(&envFlag, &levelFlag)

	rootCmd := &cobra.Command{
		Use:           "contractmatch",
		Short:         "Match contract PDFs to ledger rows",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&envFlag, "env-file", "", "Path to a .env file (default .env if present)")
	rootCmd.PersistentFlags().StringVar(&levelFlag, "log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(newRunCommand(ctx))
	rootCmd.AddCommand(newParseCommand())

	return rootCmd
}
