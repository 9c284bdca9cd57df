package exifdate

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestCaptureDateFallsBackToModTime(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.jpg")
	if err := os.WriteFile(path, []byte("no exif here"), 0644); err != nil {
		t.Fatal(err)
	}
	mtime := time.Date(2022, time.March, 14, 15, 9, 26, 0, time.Local)
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		t.Fatal(err)
	}

	got, err := CaptureDate(path)
	if err != nil {
		t.Fatalf("CaptureDate failed: %v", err)
	}
	if !got.Equal(mtime) {
		t.Errorf("CaptureDate = %v, want mtime %v", got, mtime)
	}
}

func TestCaptureDateMissingFile(t *testing.T) {
	if _, err := CaptureDate(filepath.Join(t.TempDir(), "gone.jpg")); err == nil {
		t.Error("CaptureDate of missing file succeeded, want error")
	}
}

func TestExifTimeLayout(t *testing.T) {
	got, err := time.ParseInLocation(exifTimeLayout, "2021:06:19 22:41:11", time.Local)
	if err != nil {
		t.Fatalf("layout rejects canonical EXIF datetime: %v", err)
	}
	want := time.Date(2021, time.June, 19, 22, 41, 11, 0, time.Local)
	if !got.Equal(want) {
		t.Errorf("parsed %v, want %v", got, want)
	}
}
