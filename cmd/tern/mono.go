package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var monoCmd = &cobra.Command{
	Use:   "mono [manifest]",
	Short: "Check a project and print its specialization inventory",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := runPipeline(cmd, args)
		if err != nil {
			return err
		}
		if res.HasErrors() {
			return fmt.Errorf("check failed")
		}
		w := cmd.OutOrStdout()
		for _, name := range res.Summary.Specializations {
			fmt.Fprintln(w, name)
		}
		return nil
	},
}
