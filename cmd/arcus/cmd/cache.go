package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/atistler/arcus/internal/catalog"
	"github.com/atistler/arcus/pkg/arcus"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the parsed catalog cache",
}

var cachePathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the cache sidecar files of the configured catalog",
	Args:  cobra.NoArgs,
	RunE:  runCachePath,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the cache sidecar files so the next run re-parses the catalog",
	Args:  cobra.NoArgs,
	RunE:  runCacheClear,
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cachePathCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}

func catalogCache() (*catalog.Cache, string, error) {
	cfg, err := requireConfig()
	if err != nil {
		return nil, "", err
	}
	if cfg.Catalog.Path == "" {
		return nil, "", fmt.Errorf("no catalog configured")
	}
	return arcus.CatalogCache(cfg, current.logger), cfg.Catalog.Path, nil
}

func runCachePath(cmd *cobra.Command, args []string) error {
	cache, path, err := catalogCache()
	if err != nil {
		return err
	}
	md5File, cacheFile, err := cache.Paths(path)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), md5File)
	fmt.Fprintln(cmd.OutOrStdout(), cacheFile)
	return nil
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	cache, path, err := catalogCache()
	if err != nil {
		return err
	}
	if err := cache.Invalidate(path); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), mutedStyle.Render("Cache cleared for "+path))
	return nil
}
