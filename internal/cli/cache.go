package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/skyf0l/basecracker/pkg/cache"
)

func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the on-disk report cache",
		Long: `The cache subcommands only act on the file backend. With [cache] backend
set to redis, mongo or none they fail rather than guess a location.`,
	}
	cmd.AddCommand(c.cacheClearCommand(), c.cachePathCommand())
	return cmd
}

// cacheDir resolves [cache] dir, failing for non-file backends.
func (c *CLI) cacheDir() (string, error) {
	opts, err := c.settings().CacheOptions()
	if err != nil {
		return "", err
	}
	if opts.Backend != cache.BackendFile {
		return "", fmt.Errorf("cache backend is %q; only the file backend has a directory", opts.Backend)
	}
	return opts.Dir, nil
}

func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached results",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := c.cacheDir()
			if err != nil {
				return err
			}
			if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
				printInfo(c.err, "Nothing cached yet")
				return nil
			}

			fc, err := cache.NewFileCache(dir)
			if err != nil {
				return err
			}
			n, err := fc.Clear()
			if err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
			printSuccess(c.err, "Cleared %d cached %s", n, plural(n, "entry", "entries"))
			printDetail(c.err, "%s", dir)
			return nil
		},
	}
}

func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := c.cacheDir()
			if err != nil {
				return err
			}
			fmt.Fprintln(c.out, dir)
			return nil
		},
	}
}
