package sorter

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDeleteMovesToTrash(t *testing.T) {
	dataHome := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dataHome)

	dir := t.TempDir()
	file := createFile(t, dir, "unwanted.jpg")

	result := Delete([]string{file})

	if result.Succeeded != 1 || result.Errors != 0 {
		t.Fatalf("Succeeded = %d, Errors = %d, want 1 and 0 (%v)",
			result.Succeeded, result.Errors, result.ErrorMessages)
	}
	if _, err := os.Stat(file); !os.IsNotExist(err) {
		t.Error("file still present after Delete")
	}

	trashed := filepath.Join(dataHome, "Trash", "files", "unwanted.jpg")
	if _, err := os.Stat(trashed); err != nil {
		t.Errorf("file not in trash: %v", err)
	}

	info, err := os.ReadFile(filepath.Join(dataHome, "Trash", "info", "unwanted.jpg.trashinfo"))
	if err != nil {
		t.Fatalf("trashinfo missing: %v", err)
	}
	if !strings.HasPrefix(string(info), "[Trash Info]\n") {
		t.Errorf("trashinfo malformed: %q", info)
	}
	if !strings.Contains(string(info), "Path=") || !strings.Contains(string(info), "DeletionDate=") {
		t.Errorf("trashinfo missing fields: %q", info)
	}
}

func TestDeleteCollisionInTrash(t *testing.T) {
	dataHome := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dataHome)

	dirA := t.TempDir()
	dirB := t.TempDir()
	fileA := createFile(t, dirA, "same.jpg")
	fileB := createFile(t, dirB, "same.jpg")

	if result := Delete([]string{fileA}); result.Succeeded != 1 {
		t.Fatalf("first delete failed: %v", result.ErrorMessages)
	}
	if result := Delete([]string{fileB}); result.Succeeded != 1 {
		t.Fatalf("second delete failed: %v", result.ErrorMessages)
	}

	filesDir := filepath.Join(dataHome, "Trash", "files")
	for _, name := range []string{"same.jpg", "same_1.jpg"} {
		if _, err := os.Stat(filepath.Join(filesDir, name)); err != nil {
			t.Errorf("expected %s in trash: %v", name, err)
		}
	}
}

func TestDeleteMissingFile(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	result := Delete([]string{filepath.Join(t.TempDir(), "gone.jpg")})

	if result.Processed != 1 || result.Errors != 1 || result.Succeeded != 0 {
		t.Errorf("Processed/Errors/Succeeded = %d/%d/%d, want 1/1/0",
			result.Processed, result.Errors, result.Succeeded)
	}
}
