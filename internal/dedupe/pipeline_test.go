package dedupe

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
)

func writeSolidPNG(t *testing.T, path string, c color.Color) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 100, 100))
	for y := 0; y < 100; y++ {
		for x := 0; x < 100; x++ {
			img.Set(x, y, c)
		}
	}
	writePNG(t, path, img)
}

func writeGradientPNG(t *testing.T, path string, horizontal bool) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 100, 100))
	for y := 0; y < 100; y++ {
		for x := 0; x < 100; x++ {
			v := uint8(255 * y / 99)
			if horizontal {
				v = uint8(255 * x / 99)
			}
			img.Set(x, y, color.RGBA{R: v, G: v, B: v, A: 255})
		}
	}
	writePNG(t, path, img)
}

func writePNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create %s: %v", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode %s: %v", path, err)
	}
}

func TestFindDuplicatesIdenticalImages(t *testing.T) {
	dir := t.TempDir()
	paths := make([]string, 3)
	for i, name := range []string{"one.png", "two.png", "three.png"} {
		paths[i] = filepath.Join(dir, name)
		writeSolidPNG(t, paths[i], color.RGBA{R: 200, G: 40, B: 40, A: 255})
	}

	result, err := FindDuplicates(context.Background(), paths, Options{
		Threshold: 0,
		CacheDir:  t.TempDir(),
	})
	if err != nil {
		t.Fatalf("FindDuplicates failed: %v", err)
	}

	if len(result.Groups) != 1 {
		t.Fatalf("got %d groups, want 1", len(result.Groups))
	}
	if len(result.Groups[0].Images) != 3 {
		t.Errorf("group has %d images, want 3", len(result.Groups[0].Images))
	}
	if result.TotalDuplicates != 2 {
		t.Errorf("TotalDuplicates = %d, want 2", result.TotalDuplicates)
	}
	if result.Processed != 3 || result.Errors != 0 {
		t.Errorf("Processed = %d, Errors = %d, want 3 and 0", result.Processed, result.Errors)
	}
}

func TestFindDuplicatesDifferentImages(t *testing.T) {
	dir := t.TempDir()
	horizontal := filepath.Join(dir, "horizontal.png")
	vertical := filepath.Join(dir, "vertical.png")
	writeGradientPNG(t, horizontal, true)
	writeGradientPNG(t, vertical, false)

	result, err := FindDuplicates(context.Background(), []string{horizontal, vertical}, Options{
		Threshold: 0,
		CacheDir:  t.TempDir(),
	})
	if err != nil {
		t.Fatalf("FindDuplicates failed: %v", err)
	}

	if len(result.Groups) != 0 {
		t.Errorf("got %d groups for different images at threshold 0, want 0", len(result.Groups))
	}
	if result.TotalDuplicates != 0 {
		t.Errorf("TotalDuplicates = %d, want 0", result.TotalDuplicates)
	}
}

func TestFindDuplicatesErrorAccounting(t *testing.T) {
	dir := t.TempDir()
	valid1 := filepath.Join(dir, "a.png")
	valid2 := filepath.Join(dir, "b.png")
	writeGradientPNG(t, valid1, true)
	writeGradientPNG(t, valid2, false)
	missing := filepath.Join(dir, "gone.png")

	result, err := FindDuplicates(context.Background(), []string{valid1, missing, valid2}, Options{
		Threshold: 0,
		CacheDir:  t.TempDir(),
	})
	if err != nil {
		t.Fatalf("FindDuplicates failed: %v", err)
	}

	if result.Processed != 2 {
		t.Errorf("Processed = %d, want 2", result.Processed)
	}
	if result.Errors != 1 {
		t.Errorf("Errors = %d, want 1", result.Errors)
	}
}

func TestFindDuplicatesWarmCacheSkipsDecodes(t *testing.T) {
	dir := t.TempDir()
	cacheDir := t.TempDir()
	paths := make([]string, 2)
	for i, name := range []string{"a.png", "b.png"} {
		paths[i] = filepath.Join(dir, name)
		writeSolidPNG(t, paths[i], color.RGBA{B: 180, A: 255})
	}

	var decodes atomic.Int64
	realOpen := openImage
	openImage = func(path string) (image.Image, error) {
		decodes.Add(1)
		return realOpen(path)
	}
	defer func() { openImage = realOpen }()

	opts := Options{Threshold: 0, CacheDir: cacheDir}

	first, err := FindDuplicates(context.Background(), paths, opts)
	if err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	if got := decodes.Load(); got != 2 {
		t.Fatalf("first run decoded %d images, want 2", got)
	}

	decodes.Store(0)
	second, err := FindDuplicates(context.Background(), paths, opts)
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}

	if got := decodes.Load(); got != 0 {
		t.Errorf("second run decoded %d images, want 0 (cache hits)", got)
	}
	if len(first.Groups) != len(second.Groups) || first.TotalDuplicates != second.TotalDuplicates {
		t.Errorf("runs disagree: first %d groups/%d dups, second %d groups/%d dups",
			len(first.Groups), first.TotalDuplicates, len(second.Groups), second.TotalDuplicates)
	}
}

func TestFindDuplicatesProgressTicks(t *testing.T) {
	dir := t.TempDir()
	paths := make([]string, 3)
	for i, name := range []string{"a.png", "b.png", "c.png"} {
		paths[i] = filepath.Join(dir, name)
		writeGradientPNG(t, paths[i], i%2 == 0)
	}

	var ticks atomic.Int64
	_, err := FindDuplicates(context.Background(), paths, Options{
		Threshold: 0,
		CacheDir:  t.TempDir(),
		Progress:  func(string) { ticks.Add(1) },
	})
	if err != nil {
		t.Fatalf("FindDuplicates failed: %v", err)
	}

	if got := ticks.Load(); got != 3 {
		t.Errorf("got %d progress ticks, want 3", got)
	}
}

func TestFindDuplicatesCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	dir := t.TempDir()
	path := filepath.Join(dir, "a.png")
	writeSolidPNG(t, path, color.RGBA{G: 90, A: 255})

	if _, err := FindDuplicates(ctx, []string{path}, Options{CacheDir: t.TempDir()}); err == nil {
		t.Error("FindDuplicates succeeded with cancelled context, want error")
	}
}

func TestFindDuplicatesEmptyInput(t *testing.T) {
	result, err := FindDuplicates(context.Background(), nil, Options{CacheDir: t.TempDir()})
	if err != nil {
		t.Fatalf("FindDuplicates failed: %v", err)
	}
	if result.Processed != 0 || result.Errors != 0 || len(result.Groups) != 0 {
		t.Errorf("unexpected result for empty input: %+v", result)
	}
}
