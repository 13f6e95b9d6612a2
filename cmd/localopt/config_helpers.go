package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"localopt/internal/config"
	"localopt/internal/driver"
)

// loadConfig reads --config, or discovers localopt.toml from the working
// directory.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to get config flag: %w", err)
	}
	if path != "" {
		return config.Load(path)
	}
	return config.Discover(".")
}

// openCache opens the configured cache directory; an empty dir means the
// per-user default.
func openCache(cfg config.Config) (*driver.DiskCache, error) {
	return driver.OpenDiskCache(cfg.Cache.Dir)
}
