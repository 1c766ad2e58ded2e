package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/gofrs/flock"

	"gopress/internal/pdfengine"
)

// Config holds the persisted engine settings.
type Config struct {
	LicenseKey    string `json:"license_key"`
	EngineVersion int    `json:"engine_version"`
}

// Keys addressable through Get and Set.
const (
	KeyLicenseKey    = "license_key"
	KeyEngineVersion = "engine_version"
)

// Default returns the repository defaults used when no file exists.
func Default() Config {
	return Config{EngineVersion: 9}
}

// Keys lists the valid configuration keys in display order.
func Keys() []string {
	keys := []string{KeyLicenseKey, KeyEngineVersion}
	sort.Strings(keys)
	return keys
}

// DefaultConfigPath returns the per-user configuration file location.
func DefaultConfigPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("determine user config dir: %w", err)
	}
	return filepath.Join(base, "gopress", "config.json"), nil
}

// ExpandPath resolves tilde shortcuts and relative segments.
func ExpandPath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", errors.New("empty path")
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("determine home dir: %w", err)
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return filepath.Abs(path)
}

// Load locates and parses a configuration file. An empty path selects the
// default location. The returned bool reports whether the file existed;
// when it did not, defaults are returned.
func Load(path string) (Config, string, bool, error) {
	cfg := Default()

	resolved, err := resolvePath(path)
	if err != nil {
		return cfg, "", false, err
	}

	data, err := os.ReadFile(resolved)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, resolved, false, nil
	}
	if err != nil {
		return cfg, resolved, false, fmt.Errorf("read config %s: %w", resolved, err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, resolved, true, fmt.Errorf("parse config %s: %w", resolved, err)
	}
	if cfg.EngineVersion <= 0 {
		cfg.EngineVersion = Default().EngineVersion
	}
	return cfg, resolved, true, nil
}

// Save writes the configuration to path, holding a sibling lock file for
// the duration so concurrent gopress invocations serialize their writes.
func (c Config) Save(path string) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	lock := flock.New(resolved + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("lock config file: %w", err)
	}
	defer func() { _ = lock.Unlock() }()

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	data = append(data, '\n')

	tmp := resolved + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	if err := os.Rename(tmp, resolved); err != nil {
		return fmt.Errorf("replace config: %w", err)
	}
	return nil
}

// Get returns the display value for a key.
func (c Config) Get(key string) (string, error) {
	switch key {
	case KeyLicenseKey:
		return c.LicenseKey, nil
	case KeyEngineVersion:
		return strconv.Itoa(c.EngineVersion), nil
	default:
		return "", unknownKeyError(key)
	}
}

// Set updates a key from its string form, validating the value.
func (c *Config) Set(key, value string) error {
	switch key {
	case KeyLicenseKey:
		c.LicenseKey = strings.TrimSpace(value)
		return nil
	case KeyEngineVersion:
		version, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil || version <= 0 {
			return fmt.Errorf("engine_version must be a positive integer, got %q", value)
		}
		c.EngineVersion = version
		return nil
	default:
		return unknownKeyError(key)
	}
}

// EngineSettings converts the configuration into engine construction
// parameters.
func (c Config) EngineSettings() pdfengine.Settings {
	return pdfengine.Settings{LicenseKey: c.LicenseKey, Version: c.EngineVersion}
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			return "", err
		}
		return defaultPath, nil
	}
	return ExpandPath(path)
}

func unknownKeyError(key string) error {
	return fmt.Errorf("%q is not a valid configuration option (available: %s)", key, strings.Join(Keys(), ", "))
}
