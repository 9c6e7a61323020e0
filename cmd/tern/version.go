package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tern/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the tern build fingerprint",
	RunE: func(cmd *cobra.Command, args []string) error {
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "tern %s\n", version.Version)
		if version.GitCommit != "" {
			fmt.Fprintf(w, "commit: %s\n", version.GitCommit)
		}
		if version.BuildDate != "" {
			fmt.Fprintf(w, "built:  %s\n", version.BuildDate)
		}
		return nil
	},
}
