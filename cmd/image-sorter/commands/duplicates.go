package commands

import (
	"fmt"
	"sync/atomic"

	"github.com/spf13/cobra"

	"image-sorter/internal/dedupe"
	"image-sorter/internal/scanner"
)

func (c *CLI) newDuplicatesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "duplicates DIR",
		Aliases: []string{"dupes"},
		Short:   "Find visually near-duplicate images under a directory",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			threshold, _ := cmd.Flags().GetInt("threshold")
			if threshold < 0 {
				return fmt.Errorf("threshold must be non-negative, got %d", threshold)
			}
			numWorkers, _ := cmd.Flags().GetInt("workers")

			scanned, err := scanner.Scan(args[0])
			if err != nil {
				return err
			}
			paths := scanned.Paths()

			// Ticks are advisory; this counter is the observer-side
			// running total.
			var done atomic.Int64
			progress := func(string) {
				fmt.Fprintf(cmd.ErrOrStderr(), "\rhashing %d/%d", done.Add(1), len(paths))
			}

			result, err := dedupe.FindDuplicates(cmd.Context(), paths, dedupe.Options{
				Threshold: threshold,
				Workers:   numWorkers,
				CacheDir:  c.cacheDir,
				Progress:  progress,
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.ErrOrStderr())

			out := cmd.OutOrStdout()
			for i, group := range result.Groups {
				fmt.Fprintf(out, "Group %d (%d images):\n", i+1, len(group.Images))
				for _, img := range group.Images {
					fmt.Fprintf(out, "  %s (%.1f KB)\n", img.Path, float64(img.SizeBytes)/1024)
				}
			}
			fmt.Fprintf(out, "%d duplicates in %d groups (%d processed, %d errors)\n",
				result.TotalDuplicates, len(result.Groups), result.Processed, result.Errors)
			return nil
		},
	}
	cmd.Flags().IntP("threshold", "t", 10, "Inclusive Hamming-distance threshold (0 = bit-identical only)")
	cmd.Flags().IntP("workers", "w", 0, "Hashing workers (0 = one per CPU)")
	return cmd
}
