package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"tern/internal/project"
)

const manifestTemplate = `[package]
name = "%s"
entries = ["main"]

[budgets]
# Zero values fall back to the built-in defaults.
max_type_vars = 0
max_constraints = 0
max_steps = 0
max_diagnostics = 0

[mono]
max_depth = 0
max_instantiations = 0
dce = false
`

var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Create a starter tern.toml manifest",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "."
		if len(args) == 1 {
			dir = args[0]
		}
		abs, err := filepath.Abs(dir)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(abs, 0o755); err != nil {
			return err
		}
		path := filepath.Join(abs, project.ManifestName)
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists", path)
		}
		content := fmt.Sprintf(manifestTemplate, filepath.Base(abs))
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", path)
		return nil
	},
}
