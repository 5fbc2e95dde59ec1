package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config represents the configuration of the bmm tool itself. The mod
// manager's state lives in the app data file, not here.
type Config struct {
	BaseDir  string      `toml:"base_dir"`
	LogDir   string      `toml:"log_dir"`
	LogLevel string      `toml:"log_level"` // "debug", "info" (default), "warn" or "error"
	Mods     ModsConfig  `toml:"mods"`
	Token    TokenConfig `toml:"token"`
}

// ModsConfig holds settings for inspecting the mods directory.
type ModsConfig struct {
	// Ignore lists folder name globs that are never reported as untracked.
	Ignore []string `toml:"ignore"`
}

// TokenConfig controls how the mod.io token is kept in the app data file.
type TokenConfig struct {
	// Seal encrypts the token with age before it is stored. Off by default,
	// which stores the token as given.
	Seal bool `toml:"seal"`
	// IdentityFile holds the age identity used to seal and open the token.
	// It is created on first use.
	IdentityFile string `toml:"identity_file"`
}

// NewConfig creates a new Config with default paths under baseDir.
func NewConfig(baseDir string) *Config {
	return &Config{
		BaseDir:  baseDir,
		LogDir:   filepath.Join(baseDir, "log"),
		LogLevel: "info",
		Token: TokenConfig{
			IdentityFile: filepath.Join(baseDir, "token.key"),
		},
	}
}

// Level returns the configured log level. An empty level means info.
func (c *Config) Level() (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", c.LogLevel)
	}
}

// Validate checks the config for values the tool cannot use.
func (c *Config) Validate() error {
	if c.LogDir == "" {
		return fmt.Errorf("log_dir must be set")
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	if c.Token.Seal && c.Token.IdentityFile == "" {
		return fmt.Errorf("token.identity_file must be set when token.seal is on")
	}
	return nil
}

// Manager handles reading and writing configuration.
type Manager struct{}

// Read decodes a Config from the provided reader.
func (m *Manager) Read(r io.Reader) (*Config, error) {
	var cfg Config
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Write encodes a Config to the provided writer.
func (m *Manager) Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ReadFromFile reads a Config from the specified file path.
func ReadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	cfg, err := m.Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	return cfg, nil
}

// Load reads the config at path, falling back to NewConfig(baseDir) when no
// file exists. Values missing from the file keep their defaults.
func Load(path, baseDir string) (*Config, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return NewConfig(baseDir), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	cfg := NewConfig(baseDir)
	if _, err := toml.NewDecoder(f).Decode(cfg); err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	// Paths left at their defaults follow a base_dir set in the file.
	if cfg.BaseDir != baseDir {
		prev, moved := NewConfig(baseDir), NewConfig(cfg.BaseDir)
		if cfg.LogDir == prev.LogDir {
			cfg.LogDir = moved.LogDir
		}
		if cfg.Token.IdentityFile == prev.Token.IdentityFile {
			cfg.Token.IdentityFile = moved.Token.IdentityFile
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// writeToFile writes a Config to the specified file path.
func writeToFile(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	if err := m.Write(f, cfg); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Init initializes a new config file at the specified path with the provided Config.
func Init(path string, cfg *Config) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := writeToFile(path, cfg); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	return nil
}
