package sorter

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"image-sorter/internal/metrics"
)

// Delete moves files to the user trash following the freedesktop trash
// layout (files/ plus a .trashinfo per entry). There is deliberately no
// permanent-delete fallback: if trashing fails the file stays put and
// the failure is reported.
func Delete(paths []string) *OpResult {
	result := &OpResult{Processed: len(paths)}

	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			result.addError("file does not exist: %s", path)
			metrics.SorterOperationsTotal.WithLabelValues("trash", "error").Inc()
			continue
		}

		if err := trashFile(path); err != nil {
			result.addError("cannot move %s to trash: %v (file left in place)", path, err)
			metrics.SorterOperationsTotal.WithLabelValues("trash", "error").Inc()
			continue
		}
		result.addSuccess()
		metrics.SorterOperationsTotal.WithLabelValues("trash", "success").Inc()
	}

	return result
}

// trashDir resolves the user trash directory per the freedesktop spec.
func trashDir() (string, error) {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot resolve home directory: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "Trash"), nil
}

func trashFile(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	trash, err := trashDir()
	if err != nil {
		return err
	}

	filesDir := filepath.Join(trash, "files")
	infoDir := filepath.Join(trash, "info")
	for _, dir := range []string{filesDir, infoDir} {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return err
		}
	}

	destPath := collisionFreePath(filesDir, filepath.Base(absPath))
	name := filepath.Base(destPath)

	info := fmt.Sprintf("[Trash Info]\nPath=%s\nDeletionDate=%s\n",
		absPath, time.Now().Format("2006-01-02T15:04:05"))
	infoPath := filepath.Join(infoDir, name+".trashinfo")
	if err := os.WriteFile(infoPath, []byte(info), 0600); err != nil {
		return err
	}

	if err := os.Rename(absPath, destPath); err != nil {
		_ = os.Remove(infoPath)
		return err
	}
	return nil
}
