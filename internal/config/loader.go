package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const (
	// DefaultConfigFileName is the standard configuration file name.
	DefaultConfigFileName = "kennel.toml"

	// AppDir is the subdirectory used under the XDG config and data homes.
	AppDir = "pedigree"
)

// LoadError represents an error that occurred while loading configuration.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("loading config from %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Load finds and reads the configuration. Sources, in order:
//  1. explicitPath, if set (no fallback)
//  2. $XDG_CONFIG_HOME/pedigree/kennel.toml (or ~/.config/...)
//  3. ./kennel.toml
//  4. defaults, written to the XDG path when createDefault is true
//
// It returns the configuration and the path it came from; the path is empty
// when the defaults could not be written.
func Load(explicitPath string, createDefault bool) (*Config, string, error) {
	if explicitPath != "" {
		cfg, err := loadFromFile(explicitPath)
		if err != nil {
			return nil, "", &LoadError{Path: explicitPath, Err: err}
		}
		return cfg, explicitPath, nil
	}

	xdgPath := xdgConfigPath()
	cwdPath := filepath.Join(".", DefaultConfigFileName)

	for _, p := range []string{xdgPath, cwdPath} {
		if p == "" || !fileExists(p) {
			continue
		}
		cfg, err := loadFromFile(p)
		if err != nil {
			return nil, "", &LoadError{Path: p, Err: err}
		}
		return cfg, p, nil
	}

	if !createDefault {
		return nil, "", fmt.Errorf("no configuration file found; searched: %s, %s", xdgPath, cwdPath)
	}

	cfg := Default()

	target := cwdPath
	if xdgPath != "" {
		if err := os.MkdirAll(filepath.Dir(xdgPath), 0750); err == nil {
			target = xdgPath
		}
	}

	if err := Save(cfg, target); err != nil {
		return cfg, "", nil
	}
	return cfg, target, nil
}

// loadFromFile decodes a TOML file over the defaults and validates the result.
func loadFromFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}

	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, fmt.Errorf("parsing TOML: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown keys: %v", undecoded)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

const fileHeader = `# Kennel pedigree registry configuration
#
# Generated with default values. Edit as needed.
# Heritable-condition associations live under [[analysis.conditions]].

`

// Save writes a configuration to a TOML file.
func Save(cfg *Config, path string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0640)
	if err != nil {
		return fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(fileHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("encoding TOML: %w", err)
	}

	return nil
}

// xdgConfigPath returns the XDG config file path, or "" when no home
// directory can be determined.
func xdgConfigPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, AppDir, DefaultConfigFileName)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", AppDir, DefaultConfigFileName)
}

// xdgDataDir returns the application data directory, or "" when no home
// directory can be determined.
func xdgDataDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, AppDir)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "share", AppDir)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// ConfigPath returns the configuration file path that Load would use.
func ConfigPath(explicitPath string) string {
	if explicitPath != "" {
		return explicitPath
	}

	xdgPath := xdgConfigPath()
	if xdgPath != "" && fileExists(xdgPath) {
		return xdgPath
	}

	cwdPath := filepath.Join(".", DefaultConfigFileName)
	if fileExists(cwdPath) || xdgPath == "" {
		return cwdPath
	}

	return xdgPath
}

// EnsureDataDir resolves the database path, creating its directory.
// Relative paths are placed under the XDG data directory when one exists.
func EnsureDataDir(cfg *Config) (string, error) {
	dbPath := cfg.Database.Path

	if filepath.IsAbs(dbPath) {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0750); err != nil {
			return "", fmt.Errorf("creating database directory: %w", err)
		}
		return dbPath, nil
	}

	dataDir := xdgDataDir()
	if dataDir == "" {
		return dbPath, nil
	}
	if err := os.MkdirAll(dataDir, 0750); err != nil {
		return dbPath, nil
	}
	return filepath.Join(dataDir, dbPath), nil
}

// EnsureLogDir creates the log directory and returns the log file path.
// An empty path means file logging is disabled.
func EnsureLogDir(cfg *Config) (string, error) {
	logPath := cfg.Logging.File
	if logPath == "" {
		return "", nil
	}

	if dir := filepath.Dir(logPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return "", fmt.Errorf("creating log directory: %w", err)
		}
	}

	return logPath, nil
}

// BackupDir returns the directory for database backups, creating it.
func BackupDir(cfg *Config) (string, error) {
	var dir string
	switch {
	case filepath.IsAbs(cfg.Database.Path):
		dir = filepath.Join(filepath.Dir(cfg.Database.Path), "backups")
	case xdgDataDir() != "":
		dir = filepath.Join(xdgDataDir(), "backups")
	default:
		dir = "backups"
	}

	if err := os.MkdirAll(dir, 0750); err != nil {
		return "", fmt.Errorf("creating backup directory: %w", err)
	}
	return dir, nil
}
