package appdata

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

const (
	relDirDarwin  = "Library/Application Support/com.valentinegb.bonelab_mod_manager"
	relDirWindows = "bonelab_mod_manager"
	relDirUnix    = "var/lib/bonelab_mod_manager"

	// relDesktopModsDir is Bonelab's own mod folder, relative to the parent
	// of %AppData%.
	relDesktopModsDir = "Locallow/Stress Level Zero/Bonelab/Mods"

	stateFileName = "app_data"
	modsDirName   = "Mods"
)

// Locator resolves where the app data file and the mods folder live.
// Resolution branches on a runtime platform tag rather than build tags so
// every platform's layout can be exercised from any host.
type Locator struct {
	goos      string
	lookupEnv func(string) (string, bool)
}

// NewLocator returns a Locator for the running host.
func NewLocator() *Locator {
	return NewLocatorFor(runtime.GOOS, os.LookupEnv)
}

// NewLocatorFor returns a Locator for the given GOOS value and environment.
func NewLocatorFor(goos string, lookupEnv func(string) (string, bool)) *Locator {
	return &Locator{goos: goos, lookupEnv: lookupEnv}
}

// RequiresPlatform reports whether mods dir resolution depends on the
// configured Platform. Only Windows hosts can target both desktop and Quest.
func (l *Locator) RequiresPlatform() bool {
	return l.goos == "windows"
}

// RootEnvVar names the environment variable holding the app data root.
func (l *Locator) RootEnvVar() string {
	if l.goos == "windows" {
		return "AppData"
	}
	return "HOME"
}

func (l *Locator) relDir() string {
	switch l.goos {
	case "windows":
		return relDirWindows
	case "darwin":
		return relDirDarwin
	default:
		return relDirUnix
	}
}

func (l *Locator) root() (string, error) {
	name := l.RootEnvVar()
	v, ok := l.lookupEnv(name)
	if !ok || v == "" {
		return "", fmt.Errorf("%w: environment variable %s is not set", ErrEnvironment, name)
	}
	return v, nil
}

// DirPath returns the directory holding the app data file.
func (l *Locator) DirPath() (string, error) {
	root, err := l.root()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, filepath.FromSlash(l.relDir())), nil
}

// StatePath returns the app data file path.
func (l *Locator) StatePath() (string, error) {
	dir, err := l.DirPath()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, stateFileName), nil
}

// ModsDir returns the folder installed mods are placed in.
// On Windows the answer depends on state.Platform, which must be set.
func (l *Locator) ModsDir(state *AppState) (string, error) {
	if !l.RequiresPlatform() {
		return l.defaultModsDir()
	}

	if state == nil || state.Platform == nil {
		return "", ErrConfigurationMissing
	}

	if !state.Platform.valid() {
		return "", fmt.Errorf("%w: %s", ErrInvalidPlatform, *state.Platform)
	}
	if *state.Platform == PlatformQuest {
		return l.defaultModsDir()
	}

	root, err := l.root()
	if err != nil {
		return "", err
	}
	parent := filepath.Dir(filepath.Clean(root))
	if parent == filepath.Clean(root) {
		return "", fmt.Errorf("%w: %s value %q does not have a parent", ErrEnvironment, l.RootEnvVar(), root)
	}
	return filepath.Join(parent, filepath.FromSlash(relDesktopModsDir)), nil
}

func (l *Locator) defaultModsDir() (string, error) {
	dir, err := l.DirPath()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, modsDirName), nil
}
