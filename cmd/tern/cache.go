package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tern/internal/driver"
)

var cacheDirFlag string

func init() {
	cacheCmd.PersistentFlags().StringVar(&cacheDirFlag, "cache-dir", "", "cache location (default: user cache dir)")
	cacheCmd.AddCommand(cacheCleanCmd)
	cacheCmd.AddCommand(cacheDirCmd)
}

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the on-disk check cache",
}

var cacheCleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Drop every cached check result",
	RunE: func(cmd *cobra.Command, args []string) error {
		cache, err := driver.OpenDiskCache(cacheDirFlag)
		if err != nil {
			return err
		}
		if err := cache.DropAll(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "cleaned %s\n", cache.Dir())
		return nil
	},
}

var cacheDirCmd = &cobra.Command{
	Use:   "dir",
	Short: "Print the resolved cache directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		cache, err := driver.OpenDiskCache(cacheDirFlag)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), cache.Dir())
		return nil
	},
}
