package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

const (
	appName     = "notekeep"
	storageFile = "notes-storage.json"
	configFile  = "config.yaml"

	// LocalFile is the project-local config file searched for upwards from the working directory.
	LocalFile = ".notekeep.yaml"
)

// Config holds user-configurable settings read from a YAML file.
type Config struct {
	// Path is the storage document. Relative paths resolve against the config file's directory.
	Path string `yaml:"path"`
	// DebounceDelay is the editor's quiet period before an auto-save.
	DebounceDelay time.Duration `yaml:"debounce_delay"`
	// OptimisticWrites keeps failed mutations in memory instead of undoing them.
	OptimisticWrites bool `yaml:"optimistic_writes"`
	// ReadOnly rejects every mutation.
	ReadOnly bool `yaml:"read_only"`
	// Locale is a BCP 47 tag for name ordering (e.g. "pt-BR").
	Locale string `yaml:"locale"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Path:          DefaultStoragePath(),
		DebounceDelay: 1500 * time.Millisecond,
		LogLevel:      "info",
	}
}

// DefaultStoragePath returns ~/.local/share/notekeep/notes-storage.json.
func DefaultStoragePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return storageFile
	}
	return filepath.Join(home, ".local", "share", appName, storageFile)
}

// DefaultConfigPath returns ~/.config/notekeep/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appName, configFile)
}

// Load reads the config at path, merged over Default. A missing file yields
// the defaults without error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.Path = ExpandPath(cfg.Path)
	if cfg.Path == "" {
		cfg.Path = DefaultStoragePath()
	} else if !filepath.IsAbs(cfg.Path) {
		cfg.Path = filepath.Join(filepath.Dir(path), cfg.Path)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Resolve picks the config file to use: the explicit path if given, else the
// nearest .notekeep.yaml above startDir, else the user config file.
func Resolve(explicit, startDir string) string {
	if explicit != "" {
		return ExpandPath(explicit)
	}
	if found, err := FindLocal(startDir); err == nil {
		return found
	}
	return DefaultConfigPath()
}

// Validate checks field values.
func (c Config) Validate() error {
	if c.DebounceDelay < 0 {
		return fmt.Errorf("debounce_delay must not be negative")
	}
	if _, err := c.Language(); err != nil {
		return err
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Language parses Locale. An empty locale is language.Und (root collation).
func (c Config) Language() (language.Tag, error) {
	if c.Locale == "" {
		return language.Und, nil
	}
	tag, err := language.Parse(c.Locale)
	if err != nil {
		return language.Und, fmt.Errorf("locale %q: %w", c.Locale, err)
	}
	return tag, nil
}

// Level parses LogLevel.
func (c Config) Level() (slog.Level, error) {
	var lvl slog.Level
	if c.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log_level %q: %w", c.LogLevel, err)
	}
	return lvl, nil
}

// ExpandPath expands a leading ~/ to the user's home directory.
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
