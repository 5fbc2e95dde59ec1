package app

import (
	"fmt"
	"os"
	"path/filepath"

	"bmm/internal/config"
)

// Paths locates bmm's own files. The mod manager's app data file is resolved
// separately by appdata.Locator.
type Paths struct {
	// ConfigPath is BMM_CONFIG_PATH, or ~/.config/bmm.toml.
	ConfigPath string
	// BaseDir is BMM_HOME, or ~/.local/share/bmm. Logs and the token
	// identity default to locations under it.
	BaseDir string
}

// DefaultPaths resolves Paths from the environment, falling back to the
// user's home directory. The home directory is only required for values the
// environment leaves unset.
func DefaultPaths() (Paths, error) {
	configPath, err := envOrHome("BMM_CONFIG_PATH", ".config", "bmm.toml")
	if err != nil {
		return Paths{}, err
	}
	baseDir, err := envOrHome("BMM_HOME", ".local", "share", "bmm")
	if err != nil {
		return Paths{}, err
	}
	return Paths{ConfigPath: configPath, BaseDir: baseDir}, nil
}

// LoadConfig reads the config file, using defaults rooted at BaseDir for
// anything it leaves out.
func (p Paths) LoadConfig() (*config.Config, error) {
	return config.Load(p.ConfigPath, p.BaseDir)
}

// InitConfig writes a default config file and returns what it wrote.
func (p Paths) InitConfig() (*config.Config, error) {
	cfg := config.NewConfig(p.BaseDir)
	if err := config.Init(p.ConfigPath, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func envOrHome(key string, rel ...string) (string, error) {
	if v := os.Getenv(key); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("%s is unset and the home directory is unknown: %w", key, err)
	}
	return filepath.Join(append([]string{home}, rel...)...), nil
}
