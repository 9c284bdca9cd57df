package scanner

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path string, size int) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}
	if err := os.WriteFile(path, make([]byte, size), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}
}

func TestScanCollectsSupportedImages(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.jpg"), 100)
	writeFile(t, filepath.Join(root, "b.PNG"), 200)
	writeFile(t, filepath.Join(root, "nested", "c.webp"), 300)
	writeFile(t, filepath.Join(root, "notes.txt"), 50)
	writeFile(t, filepath.Join(root, "clip.mp4"), 50)

	result, err := Scan(root)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	if result.Count() != 3 {
		t.Fatalf("found %d images, want 3", result.Count())
	}
	if result.TotalSizeBytes != 600 {
		t.Errorf("TotalSizeBytes = %d, want 600", result.TotalSizeBytes)
	}

	names := make(map[string]bool)
	for _, img := range result.Images {
		names[img.Filename] = true
		if img.SizeBytes == 0 {
			t.Errorf("%s has zero size", img.Filename)
		}
	}
	for _, want := range []string{"a.jpg", "b.PNG", "c.webp"} {
		if !names[want] {
			t.Errorf("missing %s in scan result", want)
		}
	}
}

func TestScanSkipsHidden(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "visible.jpg"), 10)
	writeFile(t, filepath.Join(root, ".hidden.jpg"), 10)
	writeFile(t, filepath.Join(root, ".hiddendir", "inside.jpg"), 10)

	result, err := Scan(root)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if result.Count() != 1 {
		t.Errorf("found %d images, want 1 (hidden entries skipped)", result.Count())
	}
}

func TestScanPathsPreserveWalkOrder(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.jpg"), 1)
	writeFile(t, filepath.Join(root, "b.jpg"), 1)
	writeFile(t, filepath.Join(root, "c.jpg"), 1)

	result, err := Scan(root)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	paths := result.Paths()
	if len(paths) != 3 {
		t.Fatalf("got %d paths, want 3", len(paths))
	}
	for i, img := range result.Images {
		if paths[i] != img.Path {
			t.Errorf("paths[%d] = %s, want %s", i, paths[i], img.Path)
		}
	}
}

func TestScanErrors(t *testing.T) {
	t.Run("missing root", func(t *testing.T) {
		if _, err := Scan(filepath.Join(t.TempDir(), "nope")); err == nil {
			t.Error("Scan of missing directory succeeded, want error")
		}
	})

	t.Run("root is a file", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "file.jpg")
		writeFile(t, file, 1)
		if _, err := Scan(file); err == nil {
			t.Error("Scan of a file succeeded, want error")
		}
	})
}
