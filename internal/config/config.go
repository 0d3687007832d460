// Package config loads and persists ditiear's CLI configuration: where
// the content-addressed store lives, the default patch archive name,
// and whether CLI output should use color.
//
// Grounded on the teacher's internal/config/config.go: a global file
// under the user's home directory layered under a per-repository file,
// both encoding/json, repo config winning on conflicts.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Config is ditiear's CLI configuration.
type Config struct {
	Core  CoreConfig  `json:"core"`
	Color ColorConfig `json:"color"`
}

// CoreConfig holds the storage-facing settings.
type CoreConfig struct {
	CASRoot        string `json:"cas_root"`
	DefaultArchive string `json:"default_archive"`
	RootStorePath  string `json:"root_store_path"`
}

// ColorConfig holds the stored color preferences. They are saved, loaded
// and shown by `ditiear config`, but the CLI does not apply them to its
// output; internal/colors decides on color from the terminal environment.
type ColorConfig struct {
	UI   bool `json:"ui"`
	Diff bool `json:"diff"`
}

// DefaultConfig returns ditiear's out-of-the-box settings.
func DefaultConfig() *Config {
	return &Config{
		Core: CoreConfig{
			CASRoot:        ".ditiear/objects",
			DefaultArchive: "update.ditiear",
			RootStorePath:  ".ditiear/roots.db",
		},
		Color: ColorConfig{
			UI:   true,
			Diff: true,
		},
	}
}

func globalConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("config: get home directory: %w", err)
	}
	return filepath.Join(home, ".ditiearconfig"), nil
}

func repoConfigPath() string {
	return filepath.Join(".ditiear", "config")
}

// LoadConfig layers the global config file under the repository config
// file (repository settings win), falling back to DefaultConfig where
// neither is present or parseable.
func LoadConfig() (*Config, error) {
	cfg := DefaultConfig()

	if globalPath, err := globalConfigPath(); err == nil {
		if data, err := os.ReadFile(globalPath); err == nil {
			var globalCfg Config
			if err := json.Unmarshal(data, &globalCfg); err == nil {
				mergeConfig(cfg, &globalCfg)
			}
		}
	}

	if data, err := os.ReadFile(repoConfigPath()); err == nil {
		var repoCfg Config
		if err := json.Unmarshal(data, &repoCfg); err == nil {
			mergeConfig(cfg, &repoCfg)
		}
	}

	return cfg, nil
}

// SaveGlobalConfig writes cfg to the per-user config file.
func SaveGlobalConfig(cfg *Config) error {
	globalPath, err := globalConfigPath()
	if err != nil {
		return err
	}
	return writeConfig(globalPath, cfg)
}

// SaveRepoConfig writes cfg to the per-repository config file, creating
// the .ditiear directory if needed.
func SaveRepoConfig(cfg *Config) error {
	repoPath := repoConfigPath()
	if err := os.MkdirAll(filepath.Dir(repoPath), 0o755); err != nil {
		return fmt.Errorf("config: create %s: %w", filepath.Dir(repoPath), err)
	}
	return writeConfig(repoPath, cfg)
}

func writeConfig(path string, cfg *Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// GetValue reads a dotted key such as "core.cas_root" or "color.ui".
func GetValue(key string) (string, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return "", err
	}

	section, field, err := splitKey(key)
	if err != nil {
		return "", err
	}

	switch section {
	case "core":
		switch field {
		case "cas_root":
			return cfg.Core.CASRoot, nil
		case "default_archive":
			return cfg.Core.DefaultArchive, nil
		case "root_store_path":
			return cfg.Core.RootStorePath, nil
		default:
			return "", fmt.Errorf("config: unknown core field %q", field)
		}
	case "color":
		switch field {
		case "ui":
			return fmt.Sprintf("%t", cfg.Color.UI), nil
		case "diff":
			return fmt.Sprintf("%t", cfg.Color.Diff), nil
		default:
			return "", fmt.Errorf("config: unknown color field %q", field)
		}
	default:
		return "", fmt.Errorf("config: unknown section %q", section)
	}
}

// SetValue writes a dotted key to either the global or repository config.
func SetValue(key, value string, global bool) error {
	var cfg *Config
	path := repoConfigPath()
	if global {
		gp, err := globalConfigPath()
		if err != nil {
			return err
		}
		path = gp
	}

	if data, err := os.ReadFile(path); err == nil {
		cfg = &Config{}
		if err := json.Unmarshal(data, cfg); err != nil {
			cfg = DefaultConfig()
		}
	} else {
		cfg = DefaultConfig()
	}

	section, field, err := splitKey(key)
	if err != nil {
		return err
	}

	switch section {
	case "core":
		switch field {
		case "cas_root":
			cfg.Core.CASRoot = value
		case "default_archive":
			cfg.Core.DefaultArchive = value
		case "root_store_path":
			cfg.Core.RootStorePath = value
		default:
			return fmt.Errorf("config: unknown core field %q", field)
		}
	case "color":
		switch field {
		case "ui":
			cfg.Color.UI = value == "true"
		case "diff":
			cfg.Color.Diff = value == "true"
		default:
			return fmt.Errorf("config: unknown color field %q", field)
		}
	default:
		return fmt.Errorf("config: unknown section %q", section)
	}

	if global {
		return SaveGlobalConfig(cfg)
	}
	return SaveRepoConfig(cfg)
}

func splitKey(key string) (section, field string, err error) {
	parts := strings.SplitN(key, ".", 2)
	if len(parts) != 2 {
		return "", "", fmt.Errorf("config: invalid key %q (expected section.field)", key)
	}
	return parts[0], parts[1], nil
}

// mergeConfig overlays non-empty fields of src onto dst; booleans are
// always taken from src since the zero value is a legitimate setting.
func mergeConfig(dst, src *Config) {
	if src.Core.CASRoot != "" {
		dst.Core.CASRoot = src.Core.CASRoot
	}
	if src.Core.DefaultArchive != "" {
		dst.Core.DefaultArchive = src.Core.DefaultArchive
	}
	if src.Core.RootStorePath != "" {
		dst.Core.RootStorePath = src.Core.RootStorePath
	}
	dst.Color.UI = src.Color.UI
	dst.Color.Diff = src.Color.Diff
}
