package model

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// BackendConfig holds connection settings for the Ajor backend.
type BackendConfig struct {
	// BaseURL is the root URL of the API (e.g. https://api.ajor.example).
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`

	// PollIntervalSec is how often (in seconds) the notification feed
	// is refreshed in the background.
	PollIntervalSec int `mapstructure:"poll_interval_sec" yaml:"poll_interval_sec"`

	// Push enables the WebSocket refresh channel. Polling runs either way.
	Push bool `mapstructure:"push" yaml:"push"`

	// TimeoutSec bounds each HTTP request.
	TimeoutSec int `mapstructure:"timeout_sec" yaml:"timeout_sec"`
}

// DisplayConfig holds UI preferences.
type DisplayConfig struct {
	Theme string `mapstructure:"theme" yaml:"theme"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Backend BackendConfig `mapstructure:"backend" yaml:"backend"`
	Display DisplayConfig `mapstructure:"display" yaml:"display"`
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/ajor/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "ajor", "config.yaml")
}

// DefaultDataDir returns the directory for the local cache database and
// log file, located at ~/.local/share/ajor.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".local", "share", "ajor")
}

func defaultAppConfig() *AppConfig {
	return &AppConfig{
		Backend: BackendConfig{
			BaseURL:         "http://localhost:8080",
			PollIntervalSec: 10,
			Push:            true,
			TimeoutSec:      10,
		},
		Display: DisplayConfig{Theme: "default"},
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetDefault("backend.base_url", "http://localhost:8080")
	v.SetDefault("backend.poll_interval_sec", 10)
	v.SetDefault("backend.push", true)
	v.SetDefault("backend.timeout_sec", 10)
	v.SetDefault("display.theme", "default")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return defaultAppConfig(), nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return defaultAppConfig(), nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := defaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.Backend.PollIntervalSec <= 0 {
		cfg.Backend.PollIntervalSec = 10
	}
	if cfg.Backend.TimeoutSec <= 0 {
		cfg.Backend.TimeoutSec = 10
	}

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("backend", cfg.Backend)
	v.Set("display", cfg.Display)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
