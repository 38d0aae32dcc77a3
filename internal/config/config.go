// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/inkwell-tui/inkwell/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete inkwell configuration.
type Config struct {
	Version string `toml:"version" json:"version"`

	// Gateway configuration
	Gateway GatewayConfig `toml:"gateway" json:"gateway"`

	// Assist configuration
	Assist AssistConfig `toml:"assist" json:"assist"`

	// UI configuration
	UI UIConfig `toml:"ui" json:"ui"`

	// Storage configuration
	Storage StorageConfig `toml:"storage" json:"storage"`
}

// GatewayConfig contains the hosted AI gateway connection settings.
type GatewayConfig struct {
	// URL is the gateway API base URL
	URL string `toml:"url" json:"url"`
	// APIKey authenticates requests to the gateway
	APIKey string `toml:"api_key" json:"api_key"`
	// Model selects the generation model
	Model string `toml:"model" json:"model"`
	// TimeoutSecs is the non-streaming request timeout in seconds
	TimeoutSecs int `toml:"timeout_secs" json:"timeout_secs"`
}

// AssistConfig tunes the AI drafting actions.
type AssistConfig struct {
	// MaxInputChars clips how much text an action sends (in runes)
	MaxInputChars int `toml:"max_input_chars" json:"max_input_chars"`
}

// UIConfig contains interface configuration.
type UIConfig struct {
	// Theme is the color theme name: "dark" or "light"
	Theme string `toml:"theme" json:"theme"`
}

// StorageConfig contains draft persistence configuration.
type StorageConfig struct {
	// Dir is the data directory (empty = ~/.inkwell)
	Dir string `toml:"dir" json:"dir"`
	// AutosaveDebounceMs is the quiet period before an autosave fires
	AutosaveDebounceMs int `toml:"autosave_debounce_ms" json:"autosave_debounce_ms"`
	// MaxGenerations bounds the kept generation history per draft (0 = unlimited)
	MaxGenerations int `toml:"max_generations" json:"max_generations"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns a configuration populated with built-in defaults.
func Default() *Config {
	return &Config{
		Version: "1",
		Gateway: GatewayConfig{
			URL:         "http://127.0.0.1:8780",
			Model:       "draft-small",
			TimeoutSecs: 30,
		},
		Assist: AssistConfig{
			MaxInputChars: 6000,
		},
		UI: UIConfig{
			Theme: "dark",
		},
		Storage: StorageConfig{
			AutosaveDebounceMs: 800,
			MaxGenerations:     200,
		},
	}
}

// fillDefaults replaces zero values with defaults, field by field.
func fillDefaults(cfg *Config) {
	def := Default()
	if cfg.Version == "" {
		cfg.Version = def.Version
	}
	if cfg.Gateway.URL == "" {
		cfg.Gateway.URL = def.Gateway.URL
	}
	if cfg.Gateway.Model == "" {
		cfg.Gateway.Model = def.Gateway.Model
	}
	if cfg.Gateway.TimeoutSecs == 0 {
		cfg.Gateway.TimeoutSecs = def.Gateway.TimeoutSecs
	}
	if cfg.Assist.MaxInputChars == 0 {
		cfg.Assist.MaxInputChars = def.Assist.MaxInputChars
	}
	if cfg.UI.Theme == "" {
		cfg.UI.Theme = def.UI.Theme
	}
	if cfg.Storage.AutosaveDebounceMs == 0 {
		cfg.Storage.AutosaveDebounceMs = def.Storage.AutosaveDebounceMs
	}
	if cfg.Storage.MaxGenerations == 0 {
		cfg.Storage.MaxGenerations = def.Storage.MaxGenerations
	}
}

// =============================================================================
// PATHS
// =============================================================================

// ConfigDir returns the inkwell configuration directory (~/.inkwell).
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".inkwell"), nil
}

// ConfigPathTOML returns the path of the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ConfigPathJSON returns the path of the JSON config file.
func ConfigPathJSON() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// EnsureConfigDir creates the configuration directory if needed.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0o700)
}

// =============================================================================
// LOADING
// =============================================================================

// Load reads the configuration, trying TOML first, then JSON, then
// defaults. Environment overrides always apply last.
func Load() (*Config, error) {
	cfg := Default()

	if path, err := ConfigPathTOML(); err == nil {
		if _, statErr := os.Stat(path); statErr == nil {
			if err := loadTOML(cfg, path); err != nil {
				return nil, err
			}
			fillDefaults(cfg)
			cfg.ApplyEnvOverrides()
			return cfg, cfg.Validate()
		}
	}

	if path, err := ConfigPathJSON(); err == nil {
		if _, statErr := os.Stat(path); statErr == nil {
			if err := loadJSON(cfg, path); err != nil {
				return nil, err
			}
			fillDefaults(cfg)
			cfg.ApplyEnvOverrides()
			return cfg, cfg.Validate()
		}
	}

	cfg.ApplyEnvOverrides()
	return cfg, cfg.Validate()
}

// LoadFromPath reads a config file, inferring the format from its
// extension.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()
	var err error
	if strings.HasSuffix(path, ".json") {
		err = loadJSON(cfg, path)
	} else {
		err = loadTOML(cfg, path)
	}
	if err != nil {
		return nil, err
	}
	fillDefaults(cfg)
	cfg.ApplyEnvOverrides()
	return cfg, cfg.Validate()
}

func loadTOML(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

func loadJSON(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

// =============================================================================
// SAVING
// =============================================================================

// Save writes the configuration as TOML to the default path, atomically.
func Save(cfg *Config) error {
	if err := EnsureConfigDir(); err != nil {
		return err
	}
	path, err := ConfigPathTOML()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML writes the configuration as TOML to path.
func SaveTOML(cfg *Config, path string) error {
	var sb strings.Builder
	if err := toml.NewEncoder(&sb).Encode(cfg); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return util.AtomicWriteFile(path, []byte(sb.String()), 0o600)
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Recognized variables:
//   - INKWELL_GATEWAY_URL
//   - INKWELL_API_KEY
//   - INKWELL_MODEL
//   - INKWELL_MAX_INPUT_CHARS
//   - INKWELL_THEME
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("INKWELL_GATEWAY_URL"); v != "" {
		c.Gateway.URL = v
	}
	if v := os.Getenv("INKWELL_API_KEY"); v != "" {
		c.Gateway.APIKey = v
	}
	if v := os.Getenv("INKWELL_MODEL"); v != "" {
		c.Gateway.Model = v
	}
	if v := os.Getenv("INKWELL_MAX_INPUT_CHARS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Assist.MaxInputChars = n
		}
	}
	if v := os.Getenv("INKWELL_THEME"); v != "" {
		c.UI.Theme = v
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError describes a single invalid field.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if !strings.HasPrefix(c.Gateway.URL, "http://") && !strings.HasPrefix(c.Gateway.URL, "https://") {
		return ValidationError{Field: "gateway.url", Message: "must be an http(s) URL"}
	}
	if c.Gateway.TimeoutSecs < 0 {
		return ValidationError{Field: "gateway.timeout_secs", Message: "must not be negative"}
	}
	if c.Assist.MaxInputChars < 0 {
		return ValidationError{Field: "assist.max_input_chars", Message: "must not be negative"}
	}
	if c.UI.Theme != "dark" && c.UI.Theme != "light" {
		return ValidationError{Field: "ui.theme", Message: "must be \"dark\" or \"light\""}
	}
	if c.Storage.AutosaveDebounceMs < 0 {
		return ValidationError{Field: "storage.autosave_debounce_ms", Message: "must not be negative"}
	}
	return nil
}

// =============================================================================
// GLOBAL INSTANCE
// =============================================================================

var (
	globalMu  sync.RWMutex
	globalCfg *Config
)

// Global returns the global configuration instance, loading it on first
// use. Thread-safe.
func Global() *Config {
	globalMu.RLock()
	if globalCfg != nil {
		defer globalMu.RUnlock()
		return globalCfg
	}
	globalMu.RUnlock()

	globalMu.Lock()
	defer globalMu.Unlock()
	if globalCfg == nil {
		cfg, err := Load()
		if err != nil {
			cfg = Default()
			cfg.ApplyEnvOverrides()
		}
		globalCfg = cfg
	}
	return globalCfg
}

// SetGlobal sets the global configuration instance. Thread-safe.
func SetGlobal(cfg *Config) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalCfg = cfg
}

// ResetGlobalForTesting resets the global config state for testing.
func ResetGlobalForTesting() {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalCfg = nil
}
