package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"bam/internal/filter"
)

// Supported log levels
const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

// Config represents the application configuration
type Config struct {
	Version    int            `toml:"version"`
	AppsDir    string         `toml:"apps_dir"`
	Tld        string         `toml:"tld"`
	Aliases    map[string]int `toml:"aliases"` // app name -> port
	Filter     FilterSettings `toml:"filter"`
	UISettings UISettings     `toml:"ui"`
	Log        LogSettings    `toml:"log"`
}

// FilterSettings controls the list filter
type FilterSettings struct {
	// MissingLabel is one of hide, keep or fail.
	MissingLabel string `toml:"missing_label"`
}

// UISettings represents UI-related configuration
type UISettings struct {
	ShowPorts bool `toml:"show_ports"`
	ShowKind  bool `toml:"show_kind"`
	Watch     bool `toml:"watch"` // rebuild the list when apps_dir changes
}

// LogSettings controls the log file
type LogSettings struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// Policy returns the parsed missing label policy
func (c *Config) Policy() (filter.MissingLabelPolicy, error) {
	return filter.ParsePolicy(c.Filter.MissingLabel)
}

// Validate checks that all config values are usable
func (c *Config) Validate() error {
	if _, err := c.Policy(); err != nil {
		return err
	}

	switch c.Log.Level {
	case "", LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", c.Log.Level)
	}

	for name, port := range c.Aliases {
		if name == "" {
			return errors.New("alias with empty name")
		}
		if port < 1 || port > 65535 {
			return fmt.Errorf("alias %q: port %d out of range", name, port)
		}
	}

	return nil
}

// ConfigService handles configuration management
type ConfigService interface {
	Load() (*Config, error)
	Save(config *Config) error
	LoadFromPath(path string) (*Config, error)
	SaveToPath(config *Config, path string) error
	Path() string
}

// configService is the concrete implementation
type configService struct {
	filePath string
}

// NewConfigService creates a config service for the default config file
func NewConfigService() ConfigService {
	return &configService{filePath: filepath.Join(Dir(), "config.toml")}
}

// NewConfigServiceForPath creates a config service bound to path
func NewConfigServiceForPath(path string) ConfigService {
	return &configService{filePath: path}
}

// Dir returns the bam config directory. BAM_CONFIG_DIR overrides ~/.bam.
func Dir() string {
	if dir := os.Getenv("BAM_CONFIG_DIR"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".bam"
	}
	return filepath.Join(home, ".bam")
}

// Path returns the file the service loads from and saves to
func (cs *configService) Path() string {
	return cs.filePath
}

// Load loads the configuration, falling back to defaults if the file doesn't exist
func (cs *configService) Load() (*Config, error) {
	if _, err := os.Stat(cs.filePath); errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}
	return cs.LoadFromPath(cs.filePath)
}

// Save saves the configuration to the service's file
func (cs *configService) Save(config *Config) error {
	return cs.SaveToPath(config, cs.filePath)
}

// LoadFromPath loads configuration from a specific path. Unset fields keep
// their default values.
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if cfg.Aliases == nil {
		cfg.Aliases = make(map[string]int)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// SaveToPath saves configuration to a specific path
func (cs *configService) SaveToPath(config *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	dir := Dir()
	tld := os.Getenv("LOCALTLD")
	if tld == "" {
		tld = "app"
	}

	return &Config{
		Version: 1,
		AppsDir: filepath.Join(dir, "apps"),
		Tld:     tld,
		Aliases: make(map[string]int),
		Filter: FilterSettings{
			MissingLabel: filter.PolicyHide.String(),
		},
		UISettings: UISettings{
			ShowPorts: true,
			ShowKind:  true,
		},
		Log: LogSettings{
			File:  filepath.Join(dir, "bam.log"),
			Level: LogLevelInfo,
		},
	}
}
