package testutil

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"sync"

	"bmm/internal/appdata"
)

// MockFilesystem is an in-memory appdata.Filesystem for testing.
// Operations can be made to fail by setting the Fail* fields.
type MockFilesystem struct {
	mu    sync.Mutex
	files map[string][]byte
	dirs  map[string]bool

	FailExists error
	FailRead   error
	FailMkdir  error
	FailWrite  error

	// Writes counts successful WriteFile calls; Mutations counts writes and
	// directory creations.
	Writes    int
	Mutations int
}

// NewMockFilesystem creates an empty mock filesystem.
func NewMockFilesystem() *MockFilesystem {
	return &MockFilesystem{
		files: make(map[string][]byte),
		dirs:  make(map[string]bool),
	}
}

// AddFile places a file and its parent directories in the mock filesystem.
func (m *MockFilesystem) AddFile(path string, content []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[filepath.Clean(path)] = append([]byte(nil), content...)
	m.addDirsLocked(filepath.Dir(path))
}

// File returns the content stored at path.
func (m *MockFilesystem) File(path string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[filepath.Clean(path)]
	return data, ok
}

// HasDir reports whether the directory was created.
func (m *MockFilesystem) HasDir(path string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dirs[filepath.Clean(path)]
}

// Paths returns every file path, sorted.
func (m *MockFilesystem) Paths() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	paths := make([]string, 0, len(m.files))
	for p := range m.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

func (m *MockFilesystem) Exists(path string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailExists != nil {
		return false, m.FailExists
	}
	path = filepath.Clean(path)
	_, isFile := m.files[path]
	return isFile || m.dirs[path], nil
}

func (m *MockFilesystem) ReadFile(path string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailRead != nil {
		return nil, m.FailRead
	}
	data, ok := m.files[filepath.Clean(path)]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
	}
	return append([]byte(nil), data...), nil
}

func (m *MockFilesystem) MkdirAll(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailMkdir != nil {
		return m.FailMkdir
	}
	m.addDirsLocked(path)
	m.Mutations++
	return nil
}

func (m *MockFilesystem) WriteFile(path string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrite != nil {
		return m.FailWrite
	}
	path = filepath.Clean(path)
	if !m.dirs[filepath.Dir(path)] {
		return fmt.Errorf("writing %s: parent directory does not exist", path)
	}
	m.files[path] = append([]byte(nil), data...)
	m.Writes++
	m.Mutations++
	return nil
}

func (m *MockFilesystem) addDirsLocked(path string) {
	for p := filepath.Clean(path); ; p = filepath.Dir(p) {
		m.dirs[p] = true
		if filepath.Dir(p) == p {
			return
		}
	}
}

// Compile-time check
var _ appdata.Filesystem = (*MockFilesystem)(nil)
