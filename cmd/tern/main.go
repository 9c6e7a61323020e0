package main

import (
	"os"

	"github.com/spf13/cobra"

	"tern/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "tern",
	Short: "Tern generic-type resolver and specializer",
	Long:  `Tern resolves generic instantiations, checks trait bounds, and specializes generic definitions into concrete code.`,
}

func main() {
	rootCmd.Version = version.Version
	rootCmd.SilenceUsage = true

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(monoCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().Int("jobs", 0, "max concurrent declaration checks (0 = all cores)")
	rootCmd.PersistentFlags().Bool("timings", false, "print per-phase timings")
	rootCmd.PersistentFlags().Bool("no-color", false, "disable colorized output")
	rootCmd.PersistentFlags().String("trace", "", "write a trace log to this file")
	rootCmd.PersistentFlags().String("trace-level", "off", "trace verbosity (off|phase|decl|debug)")
	rootCmd.PersistentFlags().String("cpuprofile", "", "write a CPU profile to this file")
	rootCmd.PersistentFlags().String("memprofile", "", "write a heap profile to this file")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
