package sorter

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"image-sorter/internal/exifdate"
	"image-sorter/internal/logging"
	"image-sorter/internal/metrics"
)

// Method selects how files reach their destination.
type Method string

const (
	// MethodCopy leaves the source file in place.
	MethodCopy Method = "copy"
	// MethodMove renames the source file away.
	MethodMove Method = "move"
)

// Config controls the destination folder layout for date sorting.
type Config struct {
	// UseDayFolder adds a DD level under the month folder.
	UseDayFolder bool
	// UseMonthNames renders month folders as "MM - Name" instead of "MM".
	UseMonthNames bool
}

// OpResult tallies a bulk file operation. Per-item failures are
// recorded and never abort the batch.
type OpResult struct {
	Processed     int      `json:"processed"`
	Succeeded     int      `json:"success"`
	Errors        int      `json:"errors"`
	ErrorMessages []string `json:"errorMessages"`
}

func (r *OpResult) addSuccess() {
	r.Succeeded++
}

func (r *OpResult) addError(format string, args ...interface{}) {
	r.Errors++
	r.ErrorMessages = append(r.ErrorMessages, fmt.Sprintf(format, args...))
}

var monthNames = [12]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// SortByDate places each file into a YYYY/MM[/DD] folder tree under
// targetDir, keyed by its capture date. Destination collisions are
// resolved by suffixing _N before the extension.
func SortByDate(paths []string, targetDir string, method Method, cfg Config) *OpResult {
	result := &OpResult{Processed: len(paths)}

	if _, err := os.Stat(targetDir); err != nil {
		result.addError("target directory does not exist: %s", targetDir)
		return result
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			result.addError("file does not exist: %s", path)
			metrics.SorterOperationsTotal.WithLabelValues(string(method), "error").Inc()
			continue
		}

		date, err := exifdate.CaptureDate(path)
		if err != nil {
			result.addError("cannot read date for %s: %v", path, err)
			metrics.SorterOperationsTotal.WithLabelValues(string(method), "error").Inc()
			continue
		}

		monthFolder := fmt.Sprintf("%02d", date.Month())
		if cfg.UseMonthNames {
			monthFolder = fmt.Sprintf("%02d - %s", date.Month(), monthNames[date.Month()-1])
		}

		destDir := filepath.Join(targetDir, fmt.Sprintf("%d", date.Year()), monthFolder)
		if cfg.UseDayFolder {
			destDir = filepath.Join(destDir, fmt.Sprintf("%02d", date.Day()))
		}

		if err := os.MkdirAll(destDir, 0755); err != nil {
			result.addError("cannot create folder %s: %v", destDir, err)
			metrics.SorterOperationsTotal.WithLabelValues(string(method), "error").Inc()
			continue
		}

		destPath := collisionFreePath(destDir, filepath.Base(path))

		if err := place(path, destPath, method); err != nil {
			result.addError("cannot %s file %s: %v", method, path, err)
			metrics.SorterOperationsTotal.WithLabelValues(string(method), "error").Inc()
			continue
		}
		result.addSuccess()
		metrics.SorterOperationsTotal.WithLabelValues(string(method), "success").Inc()
	}

	logging.Info("sorter: %s by date: %d/%d succeeded, %d errors", method, result.Succeeded, result.Processed, result.Errors)
	return result
}

// Move relocates files directly into targetDir with the same collision
// handling as SortByDate, but no date folders.
func Move(paths []string, targetDir string) *OpResult {
	result := &OpResult{Processed: len(paths)}

	if _, err := os.Stat(targetDir); err != nil {
		result.addError("target directory does not exist: %s", targetDir)
		return result
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			result.addError("file does not exist: %s", path)
			metrics.SorterOperationsTotal.WithLabelValues("move", "error").Inc()
			continue
		}

		destPath := collisionFreePath(targetDir, filepath.Base(path))
		if err := os.Rename(path, destPath); err != nil {
			result.addError("cannot move file %s: %v", path, err)
			metrics.SorterOperationsTotal.WithLabelValues("move", "error").Inc()
			continue
		}
		result.addSuccess()
		metrics.SorterOperationsTotal.WithLabelValues("move", "success").Inc()
	}

	return result
}

// collisionFreePath returns dir/name, or dir/name_N with the smallest N
// that does not collide with an existing file.
func collisionFreePath(dir, name string) string {
	destPath := filepath.Join(dir, name)

	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for counter := 1; ; counter++ {
		if _, err := os.Stat(destPath); os.IsNotExist(err) {
			return destPath
		}
		destPath = filepath.Join(dir, fmt.Sprintf("%s_%d%s", stem, counter, ext))
	}
}

func place(src, dest string, method Method) error {
	if method == MethodMove {
		return os.Rename(src, dest)
	}
	return copyFile(src, dest)
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
