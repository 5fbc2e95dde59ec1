package appdata

// Filesystem is the storage the Store persists through.
// It abstracts file access so the read/repair/write lifecycle can be tested
// without touching the real filesystem.
type Filesystem interface {
	// Exists reports whether something is present at path.
	Exists(path string) (bool, error)

	// ReadFile returns the full contents of the file at path.
	ReadFile(path string) ([]byte, error)

	// MkdirAll creates path and any missing parents. It succeeds if the
	// directory already exists.
	MkdirAll(path string) error

	// WriteFile replaces the contents of the file at path with data.
	WriteFile(path string, data []byte) error
}
