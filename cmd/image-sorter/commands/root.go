// Package commands implements the CLI commands for the image sorter.
package commands

import (
	"context"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"image-sorter/internal/build"
	"image-sorter/internal/logging"
)

// CLI represents the command line interface for image-sorter.
type CLI struct {
	rootCmd *cobra.Command

	cacheDir    string
	metricsAddr string
	verbose     bool
}

// New creates a new CLI instance.
func New() *CLI {
	rootCmd := &cobra.Command{
		Use:           "image-sorter",
		Short:         "Organize photo collections: find near-duplicate images and sort by capture date",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	c := &CLI{rootCmd: rootCmd}

	rootCmd.PersistentFlags().StringVar(&c.cacheDir, "cache-dir", defaultCacheDir(),
		"Directory for the hash and thumbnail caches")
	rootCmd.PersistentFlags().StringVar(&c.metricsAddr, "metrics-addr", "",
		"Optional address to serve Prometheus metrics on (e.g. :9090)")
	rootCmd.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false,
		"Enable debug logging")

	rootCmd.PersistentPreRun = func(_ *cobra.Command, _ []string) {
		if c.verbose {
			logging.SetLevel(logging.LevelDebug)
		}
		if c.metricsAddr != "" {
			startMetricsServer(c.metricsAddr)
		}
	}

	rootCmd.AddCommand(
		c.newScanCmd(),
		c.newDuplicatesCmd(),
		c.newSortCmd(),
		c.newMoveCmd(),
		c.newDeleteCmd(),
		c.newVersionCmd(),
	)

	return c
}

// Execute runs the CLI with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	return c.rootCmd.ExecuteContext(ctx)
}

// defaultCacheDir is a well-known subdirectory of the OS temp
// directory. It is only a default: the cache root is always threaded
// explicitly from here into the components that use it.
func defaultCacheDir() string {
	return filepath.Join(os.TempDir(), "image-sorter")
}
