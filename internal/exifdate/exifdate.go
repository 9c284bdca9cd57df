// Package exifdate resolves the capture date of an image, preferring
// EXIF metadata and falling back to the filesystem modification time.
package exifdate

import (
	"fmt"
	"os"
	"time"

	"github.com/rwcarlsen/goexif/exif"

	"image-sorter/internal/logging"
)

// exifTimeLayout is the EXIF datetime format: "YYYY:MM:DD HH:MM:SS".
const exifTimeLayout = "2006:01:02 15:04:05"

// dateFields are the EXIF tags consulted, in priority order.
var dateFields = []exif.FieldName{
	exif.DateTimeOriginal,
	exif.DateTimeDigitized,
	exif.DateTime,
}

// CaptureDate returns when the image at path was taken. It reads EXIF
// first and falls back to the file's mtime, so any readable file gets a
// date. The error is non-nil only when the file itself is unreadable.
func CaptureDate(path string) (time.Time, error) {
	if t, ok := exifDate(path); ok {
		return t, nil
	}

	fi, err := os.Stat(path)
	if err != nil {
		return time.Time{}, fmt.Errorf("cannot read date for %s: %w", path, err)
	}
	return fi.ModTime(), nil
}

func exifDate(path string) (time.Time, bool) {
	f, err := os.Open(path)
	if err != nil {
		return time.Time{}, false
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		return time.Time{}, false
	}

	for _, field := range dateFields {
		tag, err := x.Get(field)
		if err != nil {
			continue
		}
		s, err := tag.StringVal()
		if err != nil {
			continue
		}
		t, err := time.ParseInLocation(exifTimeLayout, s, time.Local)
		if err != nil {
			logging.Debug("exifdate: unparseable %s value %q in %s", field, s, path)
			continue
		}
		return t, true
	}
	return time.Time{}, false
}
