// Package config handles configuration loading and leads home resolution.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ---------------------------------------------------------------------------
// Config types
// ---------------------------------------------------------------------------

// StoreConfig names the active and archive documents. Relative paths are
// resolved against the leads home.
type StoreConfig struct {
	Active  string `yaml:"active" validate:"required,nefield=Archive"`
	Archive string `yaml:"archive" validate:"required"`
}

// TimeConfig controls how zone-less dates are read.
type TimeConfig struct {
	Zone string `yaml:"zone" validate:"omitempty,timezone"` // IANA name; empty means the system zone
}

// RedactionConfig controls secret scrubbing of free-text input.
type RedactionConfig struct {
	Enabled bool `yaml:"enabled"`
}

// LeadsConfig is the root per-home configuration.
type LeadsConfig struct {
	Store     StoreConfig     `yaml:"store"`
	Time      TimeConfig      `yaml:"time"`
	Redaction RedactionConfig `yaml:"redaction"`
}

// Default returns a LeadsConfig populated with sensible defaults.
func Default() *LeadsConfig {
	return &LeadsConfig{
		Store: StoreConfig{
			Active:  "leads.json",
			Archive: "archive.json",
		},
		Redaction: RedactionConfig{Enabled: true},
	}
}

var validate = validator.New()

// Validate checks field constraints.
func (c *LeadsConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("config validation failed: %s", strings.Join(msgs, "; "))
		}
		return err
	}
	return nil
}

// Location returns the configured zone, or time.Local.
func (c *LeadsConfig) Location() *time.Location {
	if c.Time.Zone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Time.Zone)
	if err != nil {
		return time.Local
	}
	return loc
}

// ActivePath returns the active store path under home.
func (c *LeadsConfig) ActivePath(home string) string {
	return resolveIn(home, c.Store.Active)
}

// ArchivePath returns the archive store path under home.
func (c *LeadsConfig) ArchivePath(home string) string {
	return resolveIn(home, c.Store.Archive)
}

func resolveIn(home, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(home, p)
}

// Load reads a per-home config.yaml from path.
// If the file does not exist it returns Default() with no error.
// Missing keys retain their default values.
func Load(path string) (*LeadsConfig, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	// Unmarshal into a plain map so we can apply only the keys that are present.
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	if st, ok := raw["store"].(map[string]any); ok {
		if v, ok := st["active"].(string); ok && v != "" {
			cfg.Store.Active = v
		}
		if v, ok := st["archive"].(string); ok && v != "" {
			cfg.Store.Archive = v
		}
	}
	if tm, ok := raw["time"].(map[string]any); ok {
		if v, ok := tm["zone"].(string); ok {
			cfg.Time.Zone = v
		}
	}
	if rd, ok := raw["redaction"].(map[string]any); ok {
		if v, ok := rd["enabled"].(bool); ok {
			cfg.Redaction.Enabled = v
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// ---------------------------------------------------------------------------
// Leads home resolution
// ---------------------------------------------------------------------------

// HomeEnv is the environment variable overriding the leads home.
const HomeEnv = "LEADS_HOME"

// globalConfigPath returns the path to the global leads config file.
// This file stores only leads_home.
func globalConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "leads", "config.yaml"), nil
}

// normalizePath expands ~ and makes the path absolute.
func normalizePath(path string) (string, error) {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, path[2:])
	}
	return filepath.Abs(os.ExpandEnv(path))
}

// ResolveHome returns the leads home path and the source of the resolution.
// Priority: LEADS_HOME env → persisted global config → ~/.leads
// source is one of "env", "config", or "default".
func ResolveHome() (path, source string) {
	if env := os.Getenv(HomeEnv); env != "" {
		p, err := normalizePath(env)
		if err == nil {
			return p, "env"
		}
	}

	if persisted, ok, _ := GetPersistedHome(); ok {
		return persisted, "config"
	}

	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".leads"), "default"
}

// GetHome returns the resolved leads home path.
func GetHome() string {
	path, _ := ResolveHome()
	return path
}

// GetPersistedHome reads leads_home from the global config.
// Returns ("", false, nil) if not set.
func GetPersistedHome() (string, bool, error) {
	cfgPath, err := globalConfigPath()
	if err != nil {
		return "", false, err
	}

	data, err := os.ReadFile(cfgPath)
	if os.IsNotExist(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return "", false, nil
	}

	val, _ := raw["leads_home"].(string)
	val = strings.TrimSpace(val)
	if val == "" {
		return "", false, nil
	}

	p, err := normalizePath(val)
	if err != nil {
		return "", false, err
	}
	return p, true, nil
}

// SetPersistedHome normalizes path and persists it in the global config.
// Returns the normalized path.
func SetPersistedHome(path string) (string, error) {
	normalized, err := normalizePath(path)
	if err != nil {
		return "", err
	}

	cfgPath, err := globalConfigPath()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(cfgPath), 0o755); err != nil {
		return "", err
	}

	// Keep any other keys already in the file.
	var raw map[string]any
	if data, err := os.ReadFile(cfgPath); err == nil {
		_ = yaml.Unmarshal(data, &raw)
	}
	if raw == nil {
		raw = make(map[string]any)
	}
	raw["leads_home"] = normalized

	out, err := yaml.Marshal(raw)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(cfgPath, out, 0o600); err != nil {
		return "", err
	}
	return normalized, nil
}

// ClearPersistedHome removes leads_home from the global config.
// Returns true if the key was present and removed.
// If the file becomes empty after removal it is deleted.
func ClearPersistedHome() (bool, error) {
	cfgPath, err := globalConfigPath()
	if err != nil {
		return false, err
	}

	data, err := os.ReadFile(cfgPath)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return false, nil
	}

	if _, ok := raw["leads_home"]; !ok {
		return false, nil
	}
	delete(raw, "leads_home")

	if len(raw) == 0 {
		_ = os.Remove(cfgPath)
		return true, nil
	}

	out, err := yaml.Marshal(raw)
	if err != nil {
		return false, err
	}
	return true, os.WriteFile(cfgPath, out, 0o600)
}
