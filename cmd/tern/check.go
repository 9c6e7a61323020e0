package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"tern/internal/driver"
	"tern/internal/prof"
	"tern/internal/project"
)

var (
	checkNoCache  bool
	checkForce    bool
	checkCacheDir string
)

func init() {
	for _, c := range []*cobra.Command{checkCmd, monoCmd} {
		c.Flags().BoolVar(&checkNoCache, "no-cache", false, "skip the on-disk check cache")
		c.Flags().BoolVar(&checkForce, "force", false, "re-check even when the cache has a clean entry")
		c.Flags().StringVar(&checkCacheDir, "cache-dir", "", "cache location (default: user cache dir)")
	}
}

var checkCmd = &cobra.Command{
	Use:   "check [manifest]",
	Short: "Resolve generics and check trait bounds for a project",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := runPipeline(cmd, args)
		if err != nil {
			return err
		}
		if res.HasErrors() {
			return fmt.Errorf("check failed")
		}
		return nil
	},
}

// runPipeline is the shared body of check and mono: locate the manifest,
// build the unit, run the driver, render diagnostics and timings.
func runPipeline(cmd *cobra.Command, args []string) (*driver.Result, error) {
	man, err := locateManifest(args)
	if err != nil {
		return nil, err
	}

	tracer, cleanup, err := setupTracing(cmd)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	cpuPath, _ := cmd.Root().PersistentFlags().GetString("cpuprofile")
	memPath, _ := cmd.Root().PersistentFlags().GetString("memprofile")
	session, err := prof.Start(cpuPath)
	if err != nil {
		return nil, err
	}
	defer func() {
		session.Stop()
		if err := prof.WriteHeap(memPath); err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), err)
		}
	}()

	opts := driver.OptionsFromManifest(man)
	opts.Tracer = tracer
	opts.Progress = os.Stderr
	opts.Force = checkForce
	opts.Jobs, _ = cmd.Root().PersistentFlags().GetInt("jobs")

	if noColor, _ := cmd.Root().PersistentFlags().GetBool("no-color"); noColor {
		color.NoColor = true
	}
	if !checkNoCache {
		cache, err := driver.OpenDiskCache(checkCacheDir)
		if err != nil {
			return nil, err
		}
		opts.Cache = cache
	}

	unit, files := buildDemoUnit(man)
	res, err := driver.Check(cmd.Context(), unit, opts)
	if err != nil {
		return nil, err
	}

	renderResult(cmd.OutOrStdout(), res, files)

	if timings, _ := cmd.Root().PersistentFlags().GetBool("timings"); timings {
		renderTimings(cmd.OutOrStdout(), res.Timings)
	}
	return res, nil
}

// locateManifest loads the manifest given as an argument, or walks up
// from the working directory.
func locateManifest(args []string) (*project.Manifest, error) {
	if len(args) == 1 {
		return project.Load(args[0])
	}
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	path, ok, err := project.FindManifest(wd)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("no %s found in %s or any parent; run `tern init` first", project.ManifestName, wd)
	}
	return project.Load(path)
}
