package fs

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"bmm/internal/appdata"

	"github.com/google/uuid"
)

// OSFilesystem is the real filesystem implementation of appdata.Filesystem.
type OSFilesystem struct {
	dirPerm  os.FileMode
	filePerm os.FileMode
}

// NewOSFilesystem creates a filesystem that operates on the real disk.
func NewOSFilesystem() *OSFilesystem {
	return &OSFilesystem{dirPerm: 0755, filePerm: 0644}
}

// Exists reports whether path is present. Symlinks are not followed.
func (f *OSFilesystem) Exists(path string) (bool, error) {
	_, err := os.Lstat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// ReadFile reads the entire contents of a file.
func (f *OSFilesystem) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// MkdirAll creates a directory and all parent directories.
func (f *OSFilesystem) MkdirAll(path string) error {
	return os.MkdirAll(path, f.dirPerm)
}

// WriteFile replaces path with data using a temp file and rename, so readers
// never observe a partially written file.
func (f *OSFilesystem) WriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmpPath := filepath.Join(dir, "."+filepath.Base(path)+"-"+uuid.New().String()+".tmp")

	tmp, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, f.filePerm)
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}

	// Clean up temp file on error
	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("renaming temp file: %w", err)
	}

	committed = true
	return nil
}

// ListModFolders returns the names of the directories directly under dir,
// sorted, skipping anything the matcher ignores. A missing dir yields no
// folders and no error.
func (f *OSFilesystem) ListModFolders(dir string, ignore *IgnoreMatcher) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading mods directory: %w", err)
	}

	var folders []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if ignore != nil && ignore.Match(entry.Name()) {
			continue
		}
		folders = append(folders, entry.Name())
	}
	sort.Strings(folders)
	return folders, nil
}

// Compile-time check that OSFilesystem implements appdata.Filesystem interface
var _ appdata.Filesystem = (*OSFilesystem)(nil)
