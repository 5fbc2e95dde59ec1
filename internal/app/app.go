package app

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"bmm/internal/appdata"
	"bmm/internal/config"
	"bmm/internal/encryption"
	"bmm/internal/fs"

	"github.com/google/uuid"
)

// App is the application layer between the CLI and the app data store.
// It constructs all dependencies from config, exposes the read-modify-write
// operations the CLI needs, and owns the log file until Close.
type App struct {
	cfg     *config.Config
	locator *appdata.Locator
	fsys    *fs.OSFilesystem
	store   *appdata.Store
	sealer  *encryption.AgeSealer
	logger  *slog.Logger
	logFile *os.File
}

// New creates a fully wired App for the running host.
// operation identifies the CLI command being run (e.g. "ReadState", "RecordMod").
// The caller must call Close when done.
func New(cfg *config.Config, operation string) (*App, error) {
	return newApp(cfg, operation, appdata.NewLocator(), os.Stderr)
}

func newApp(cfg *config.Config, operation string, locator *appdata.Locator, console io.Writer) (*App, error) {
	level, err := cfg.Level()
	if err != nil {
		return nil, fmt.Errorf("reading log level: %w", err)
	}

	session := uuid.New().String()
	logger, logFile, err := newLogger(cfg.LogDir, level, session, console)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	logger = logger.With("op", operation)

	fsys := fs.NewOSFilesystem()
	store := appdata.NewStore(locator, fsys, &slogAdapter{l: logger})

	return &App{
		cfg:     cfg,
		locator: locator,
		fsys:    fsys,
		store:   store,
		sealer:  encryption.NewAgeSealer(cfg.Token.IdentityFile),
		logger:  logger,
		logFile: logFile,
	}, nil
}

// RequiresPlatform reports whether this host needs a configured platform
// before mods can be located.
func (a *App) RequiresPlatform() bool {
	return a.locator.RequiresPlatform()
}

// StatePath returns where the app data file lives.
func (a *App) StatePath() (string, error) {
	return a.store.Path()
}

// State reads the app data, creating or repairing it as needed.
func (a *App) State() (*appdata.AppState, error) {
	return a.store.Read()
}

// Inspect reports on the app data file without modifying it.
func (a *App) Inspect() (*appdata.Inspection, error) {
	return a.store.Inspect()
}

// Reset overwrites the app data with an empty state.
func (a *App) Reset() error {
	if _, err := a.store.Reset(); err != nil {
		return err
	}
	a.logger.Info("app data reset")
	return nil
}

// ModsDir returns the folder mods are installed into.
func (a *App) ModsDir() (string, error) {
	state, err := a.store.Read()
	if err != nil {
		return "", err
	}
	return a.store.ModsDir(state)
}

// RecordMod stores the install record for id, replacing an older one.
func (a *App) RecordMod(id uint64, dateUpdated uint64, folder string) error {
	if folder == "" {
		return fmt.Errorf("folder must not be empty")
	}
	return a.update(func(state *appdata.AppState) error {
		state.RecordInstall(id, appdata.InstalledMod{DateUpdated: dateUpdated, Folder: folder})
		a.logger.Info("mod recorded", "id", id, "folder", folder, "date_updated", dateUpdated)
		return nil
	})
}

// ForgetMod removes the install record for id. It reports whether a record
// existed; nothing is written when it did not.
func (a *App) ForgetMod(id uint64) (bool, error) {
	state, err := a.store.Read()
	if err != nil {
		return false, err
	}
	if !state.Forget(id) {
		return false, nil
	}
	if err := a.store.Write(state); err != nil {
		return false, err
	}
	a.logger.Info("mod forgotten", "id", id)
	return true, nil
}

// SetPlatform stores the chosen platform and, when token is non-nil, the
// mod.io token. With token sealing on, the token is stored encrypted and the
// identity is created on first use.
func (a *App) SetPlatform(p appdata.Platform, token *string) error {
	var stored *string
	if token != nil {
		v, err := a.sealToken(*token)
		if err != nil {
			return err
		}
		stored = &v
	}

	return a.update(func(state *appdata.AppState) error {
		state.SetPlatform(p)
		if stored != nil {
			state.SetModioToken(*stored)
		}
		a.logger.Info("platform configured", "platform", p.String(), "token_set", token != nil, "sealed", a.cfg.Token.Seal)
		return nil
	})
}

// ModioToken returns the stored mod.io token, opening it if it was sealed.
// ok is false when no token is stored.
func (a *App) ModioToken() (token string, ok bool, err error) {
	state, err := a.store.Read()
	if err != nil {
		return "", false, err
	}
	if state.ModioToken == nil {
		return "", false, nil
	}
	if !encryption.IsSealed(*state.ModioToken) {
		return *state.ModioToken, true, nil
	}

	token, err = a.sealer.Open(*state.ModioToken)
	if err != nil {
		return "", false, fmt.Errorf("opening mod.io token: %w", err)
	}
	return token, true, nil
}

func (a *App) sealToken(token string) (string, error) {
	if !a.cfg.Token.Seal {
		return token, nil
	}
	if !a.sealer.IsConfigured() {
		if err := a.sealer.Setup(); err != nil {
			return "", fmt.Errorf("setting up token identity: %w", err)
		}
		a.logger.Info("created token identity", "path", a.cfg.Token.IdentityFile)
	}
	sealed, err := a.sealer.Seal(token)
	if err != nil {
		return "", fmt.Errorf("sealing mod.io token: %w", err)
	}
	return sealed, nil
}

// ClearPlatform unsets the platform and token.
func (a *App) ClearPlatform() error {
	return a.update(func(state *appdata.AppState) error {
		state.ClearPlatformConfig()
		a.logger.Info("platform cleared")
		return nil
	})
}

// ScanMods compares the records with the folders in the mods directory.
// Folders matching config ignore patterns or the directory's ignore file
// are left out.
func (a *App) ScanMods() (*appdata.Reconciliation, string, error) {
	state, err := a.store.Read()
	if err != nil {
		return nil, "", err
	}
	dir, err := a.store.ModsDir(state)
	if err != nil {
		return nil, "", err
	}

	patterns := append([]string{}, a.cfg.Mods.Ignore...)
	extra, err := fs.ParseIgnoreFile(filepath.Join(dir, fs.IgnoreFileName))
	if err != nil {
		return nil, "", err
	}
	patterns = append(patterns, extra...)

	folders, err := a.fsys.ListModFolders(dir, fs.NewIgnoreMatcher(patterns))
	if err != nil {
		return nil, "", err
	}
	a.logger.Debug("scanned mods dir", "dir", dir, "folders", len(folders))
	return appdata.Reconcile(state, folders), dir, nil
}

func (a *App) update(mutate func(*appdata.AppState) error) error {
	state, err := a.store.Read()
	if err != nil {
		return err
	}
	if err := mutate(state); err != nil {
		return err
	}
	return a.store.Write(state)
}

// Close releases the log file.
func (a *App) Close() error {
	if a.logFile == nil {
		return nil
	}
	if err := a.logFile.Close(); err != nil {
		return fmt.Errorf("closing log file: %w", err)
	}
	a.logFile = nil
	return nil
}
