// Package thumbs generates JPEG thumbnails for images, cached on disk
// keyed by source path.
package thumbs

import (
	"bytes"
	"crypto/md5" //nolint:gosec // cache key, not security
	"fmt"
	"image/jpeg"
	"os"
	"path/filepath"
	"sync"

	"github.com/disintegration/imaging"

	"image-sorter/internal/logging"
	"image-sorter/internal/metrics"
)

const (
	thumbSize   = 200
	jpegQuality = 80
	cacheSubdir = "thumbs"
)

// Generator renders and caches thumbnails under a cache directory.
type Generator struct {
	cacheDir string
	mu       sync.Mutex
}

// New creates a Generator caching under cacheDir/thumbs.
func New(cacheDir string) *Generator {
	dir := filepath.Join(cacheDir, cacheSubdir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		logging.Warn("thumbs: cannot create cache dir %s: %v", dir, err)
	}
	return &Generator{cacheDir: dir}
}

// Thumbnail returns JPEG thumbnail bytes for the image at path,
// serving from the disk cache when possible.
func (g *Generator) Thumbnail(path string) ([]byte, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("file not accessible: %w", err)
	}

	hash := md5.Sum([]byte(path)) //nolint:gosec
	cachePath := filepath.Join(g.cacheDir, fmt.Sprintf("%x.jpg", hash))

	if data, err := os.ReadFile(cachePath); err == nil {
		metrics.ThumbnailsGeneratedTotal.WithLabelValues("cache").Inc()
		return data, nil
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	// Another caller may have rendered it while we waited on the lock.
	if data, err := os.ReadFile(cachePath); err == nil {
		metrics.ThumbnailsGeneratedTotal.WithLabelValues("cache").Inc()
		return data, nil
	}

	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	thumb := imaging.Fit(img, thumbSize, thumbSize, imaging.Lanczos)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, thumb, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("failed to encode thumbnail: %w", err)
	}

	if err := os.WriteFile(cachePath, buf.Bytes(), 0644); err != nil {
		logging.Warn("thumbs: failed to cache thumbnail for %s: %v", path, err)
	}

	metrics.ThumbnailsGeneratedTotal.WithLabelValues("generated").Inc()
	return buf.Bytes(), nil
}
