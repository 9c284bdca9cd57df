package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"image-sorter/internal/logging"
	"image-sorter/internal/scanner"
	"image-sorter/internal/thumbs"
)

func (c *CLI) newScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan DIR",
		Short: "Enumerate the images under a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := scanner.Scan(args[0])
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%d images, %.1f MB total\n",
				result.Count(), float64(result.TotalSizeBytes)/(1024*1024))

			pregen, _ := cmd.Flags().GetBool("thumbnails")
			if !pregen {
				return nil
			}

			gen := thumbs.New(c.cacheDir)
			rendered := 0
			for _, img := range result.Images {
				if _, err := gen.Thumbnail(img.Path); err != nil {
					logging.Debug("scan: no thumbnail for %s: %v", img.Path, err)
					continue
				}
				rendered++
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d thumbnails cached\n", rendered)
			return nil
		},
	}
	cmd.Flags().Bool("thumbnails", false, "Pre-render thumbnails into the cache directory")
	return cmd
}
