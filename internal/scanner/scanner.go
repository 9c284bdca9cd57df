// Package scanner enumerates image files in a directory tree.
package scanner

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"image-sorter/internal/imagetypes"
	"image-sorter/internal/logging"
	"image-sorter/internal/metrics"
)

// ScanResult holds the images found under a root directory, in walk
// order, plus their aggregate size.
type ScanResult struct {
	Images         []imagetypes.ImageRecord `json:"images"`
	TotalSizeBytes uint64                   `json:"totalSizeBytes"`
}

// Count returns the number of images found.
func (r *ScanResult) Count() int {
	return len(r.Images)
}

// Scan walks root recursively and collects every file with a supported
// image extension. Hidden files and directories are skipped. A missing
// or non-directory root is an error; entries that cannot be read are
// logged and skipped so one bad file never fails the scan.
func Scan(root string) (*ScanResult, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("cannot access %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", root)
	}

	result := &ScanResult{}

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			logging.Warn("scanner: skipping %s: %v", path, err)
			metrics.ScannerErrorsTotal.Inc()
			return nil
		}

		if strings.HasPrefix(d.Name(), ".") && path != root {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() || !imagetypes.IsImageFile(path) {
			return nil
		}

		fi, err := d.Info()
		if err != nil {
			logging.Warn("scanner: skipping %s: %v", path, err)
			metrics.ScannerErrorsTotal.Inc()
			return nil
		}

		result.Images = append(result.Images, imagetypes.ImageRecord{
			Path:      path,
			Filename:  d.Name(),
			SizeBytes: uint64(fi.Size()),
		})
		result.TotalSizeBytes += uint64(fi.Size())
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}

	metrics.ScannerFilesFound.Add(float64(len(result.Images)))
	logging.Debug("scanner: found %d images (%d bytes) under %s", len(result.Images), result.TotalSizeBytes, root)
	return result, nil
}

// Paths returns just the file paths of a scan, in walk order. This is
// the input shape the duplicate detector takes.
func (r *ScanResult) Paths() []string {
	paths := make([]string, len(r.Images))
	for i, img := range r.Images {
		paths[i] = img.Path
	}
	return paths
}
