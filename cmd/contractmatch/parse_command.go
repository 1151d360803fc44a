package main

import (
	"github.com/spf13/cobra"

	"github.com/FACorreiaa/contract-matcher/internal/domain/contract/filename"
)

func newParseCommand() *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "parse <filename>...",
		Short: "Show how PDF filenames split into institution, type and number",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, failures := filename.ParseAll(args)
			if jsonOut {
				return writeJSON(cmd.OutOrStdout(), map[string]any{
					"parsed":   parsed,
					"failures": failures,
				})
			}
			renderParsed(cmd.OutOrStdout(), parsed, failures)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}
