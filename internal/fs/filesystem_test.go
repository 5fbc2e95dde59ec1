package fs

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestOSFilesystem_Exists(t *testing.T) {
	f := NewOSFilesystem()
	dir := t.TempDir()
	path := filepath.Join(dir, "app_data")

	exists, err := f.Exists(path)
	if err != nil {
		t.Fatalf("Exists() error = %v", err)
	}
	if exists {
		t.Error("Exists() = true for missing file")
	}

	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatalf("writing test file: %v", err)
	}
	exists, err = f.Exists(path)
	if err != nil {
		t.Fatalf("Exists() error = %v", err)
	}
	if !exists {
		t.Error("Exists() = false for existing file")
	}
}

func TestOSFilesystem_WriteFile(t *testing.T) {
	t.Run("creates and replaces content", func(t *testing.T) {
		t.Parallel()
		f := NewOSFilesystem()
		path := filepath.Join(t.TempDir(), "app_data")

		if err := f.WriteFile(path, []byte("first version")); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}
		if err := f.WriteFile(path, []byte("v2")); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}

		got, err := f.ReadFile(path)
		if err != nil {
			t.Fatalf("ReadFile() error = %v", err)
		}
		if string(got) != "v2" {
			t.Errorf("content = %q, want %q", got, "v2")
		}
	})

	t.Run("leaves no temp files behind", func(t *testing.T) {
		t.Parallel()
		f := NewOSFilesystem()
		dir := t.TempDir()

		if err := f.WriteFile(filepath.Join(dir, "app_data"), []byte{1, 2, 3}); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}

		entries, err := os.ReadDir(dir)
		if err != nil {
			t.Fatalf("ReadDir() error = %v", err)
		}
		for _, e := range entries {
			if strings.HasSuffix(e.Name(), ".tmp") {
				t.Errorf("temp file left behind: %s", e.Name())
			}
		}
		if len(entries) != 1 {
			t.Errorf("len(entries) = %d, want 1", len(entries))
		}
	})

	t.Run("fails when directory is missing", func(t *testing.T) {
		t.Parallel()
		f := NewOSFilesystem()
		path := filepath.Join(t.TempDir(), "missing", "app_data")

		if err := f.WriteFile(path, []byte("x")); err == nil {
			t.Error("WriteFile() expected error for missing directory")
		}
	})
}

func TestOSFilesystem_MkdirAll(t *testing.T) {
	f := NewOSFilesystem()
	dir := filepath.Join(t.TempDir(), "var", "lib", "bonelab_mod_manager")

	if err := f.MkdirAll(dir); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	// Idempotent
	if err := f.MkdirAll(dir); err != nil {
		t.Fatalf("second MkdirAll() error = %v", err)
	}

	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if !info.IsDir() {
		t.Error("expected a directory")
	}
}

func TestOSFilesystem_ListModFolders(t *testing.T) {
	t.Run("lists directories sorted and skips ignored", func(t *testing.T) {
		t.Parallel()
		f := NewOSFilesystem()
		dir := t.TempDir()
		for _, name := range []string{"ModB", "ModA", ".hidden", "Old.disabled"} {
			if err := os.Mkdir(filepath.Join(dir, name), 0755); err != nil {
				t.Fatalf("creating folder: %v", err)
			}
		}
		if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644); err != nil {
			t.Fatalf("writing test file: %v", err)
		}

		got, err := f.ListModFolders(dir, NewIgnoreMatcher([]string{"*.disabled"}))
		if err != nil {
			t.Fatalf("ListModFolders() error = %v", err)
		}
		want := []string{"ModA", "ModB"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("ListModFolders() = %v, want %v", got, want)
		}
	})

	t.Run("missing directory is empty", func(t *testing.T) {
		t.Parallel()
		f := NewOSFilesystem()

		got, err := f.ListModFolders(filepath.Join(t.TempDir(), "Mods"), nil)
		if err != nil {
			t.Fatalf("ListModFolders() error = %v", err)
		}
		if len(got) != 0 {
			t.Errorf("ListModFolders() = %v, want empty", got)
		}
	})
}
