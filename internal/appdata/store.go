package appdata

import (
	"fmt"
)

// Store loads and saves the AppState snapshot.
// It assumes a single owner of the app data file per process; nothing guards
// against concurrent writers.
type Store struct {
	locator *Locator
	fs      Filesystem
	logger  Logger
}

// NewStore creates a Store with the provided dependencies.
func NewStore(locator *Locator, fs Filesystem, logger Logger) *Store {
	return &Store{
		locator: locator,
		fs:      fs,
		logger:  logger,
	}
}

// Path returns the resolved app data file path.
func (s *Store) Path() (string, error) {
	s.logger.Debug("getting app data path")
	return s.locator.StatePath()
}

// Read loads the snapshot. A missing file is replaced with a freshly written
// default state. A truncated file, or one holding a rejected value, is
// treated as corrupted and reset the same way. Any other decode failure is
// returned and the file is left as it is.
func (s *Store) Read() (*AppState, error) {
	path, err := s.Path()
	if err != nil {
		return nil, err
	}

	exists, err := s.fs.Exists(path)
	if err != nil {
		return nil, fmt.Errorf("%w: checking %s: %w", ErrIO, path, err)
	}
	if !exists {
		return s.writeDefault()
	}

	data, err := s.fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %w", ErrIO, path, err)
	}

	state, err := Decode(data)
	s.logger.Debug("deserialized app data", "bytes", len(data))
	if IsCorruption(err) {
		s.logger.Warn("app data is corrupted, resetting", "path", path, "error", err)
		return s.writeDefault()
	}
	if err != nil {
		return nil, err
	}

	s.logger.Debug("read app data", "mods", len(state.InstalledMods))
	return state, nil
}

// Write persists state, creating the app data directory on first use.
func (s *Store) Write(state *AppState) error {
	path, err := s.Path()
	if err != nil {
		return err
	}

	exists, err := s.fs.Exists(path)
	if err != nil {
		return fmt.Errorf("%w: checking %s: %w", ErrIO, path, err)
	}
	if !exists {
		s.logger.Debug("app data dir does not exist")
		dir, err := s.locator.DirPath()
		if err != nil {
			return err
		}
		if err := s.fs.MkdirAll(dir); err != nil {
			return fmt.Errorf("%w: creating %s: %w", ErrIO, dir, err)
		}
		s.logger.Debug("created app data dir", "dir", dir)
	}

	if err := s.fs.WriteFile(path, Encode(state)); err != nil {
		return fmt.Errorf("%w: writing %s: %w", ErrIO, path, err)
	}
	s.logger.Debug("wrote app data", "path", path)
	return nil
}

// Reset overwrites the snapshot with the default state and returns it.
func (s *Store) Reset() (*AppState, error) {
	return s.writeDefault()
}

// ModsDir returns the folder installed mods belong in for state.
func (s *Store) ModsDir(state *AppState) (string, error) {
	s.logger.Debug("getting mods dir path")
	return s.locator.ModsDir(state)
}

// Inspection describes the on-disk snapshot without repairing it.
type Inspection struct {
	Path   string
	Exists bool
	Size   int
	// DecodeErr is the decode failure, if any. Corrupted reports whether
	// Read would reset the file because of it.
	DecodeErr error
	Corrupted bool
}

// Inspect examines the snapshot file. Unlike Read it never writes.
func (s *Store) Inspect() (*Inspection, error) {
	path, err := s.Path()
	if err != nil {
		return nil, err
	}

	ins := &Inspection{Path: path}
	exists, err := s.fs.Exists(path)
	if err != nil {
		return nil, fmt.Errorf("%w: checking %s: %w", ErrIO, path, err)
	}
	if !exists {
		return ins, nil
	}
	ins.Exists = true

	data, err := s.fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %w", ErrIO, path, err)
	}
	ins.Size = len(data)
	if _, err := Decode(data); err != nil {
		ins.DecodeErr = err
		ins.Corrupted = IsCorruption(err)
	}
	return ins, nil
}

func (s *Store) writeDefault() (*AppState, error) {
	state := NewAppState()
	if err := s.Write(state); err != nil {
		return nil, err
	}
	s.logger.Debug("wrote default app data")
	return state, nil
}
