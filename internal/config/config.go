package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config represents the application configuration
type Config struct {
	Backend BackendConfig `json:"backend"`
	Sync    SyncConfig    `json:"sync"`
	Display DisplayConfig `json:"display"`
}

// BackendConfig locates the wellness API
type BackendConfig struct {
	BaseURL           string `json:"base_url"`
	APIToken          string `json:"api_token,omitempty"`
	TimeoutSeconds    int    `json:"timeout_seconds"`
	RequestsPerMinute int    `json:"requests_per_minute"`
}

// SyncConfig holds timer cadences
type SyncConfig struct {
	DebounceSeconds  int `json:"debounce_seconds"`
	TelemetrySeconds int `json:"telemetry_seconds"`
	BatterySeconds   int `json:"battery_seconds"`
}

// DisplayConfig holds display preferences
type DisplayConfig struct {
	ChartPoints int `json:"chart_points"`
}

// Environment overrides, also read from a .env file
const (
	EnvAPIURL          = "WELLNESS_API_URL"
	EnvAPIToken        = "WELLNESS_API_TOKEN"
	EnvDebounceSeconds = "WELLNESS_DEBOUNCE_SECONDS"
)

// ErrNoConfig is returned when the config file doesn't exist
var ErrNoConfig = errors.New("config file not found")

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		Backend: BackendConfig{
			BaseURL:           "http://localhost:8000",
			TimeoutSeconds:    15,
			RequestsPerMinute: 60,
		},
		Sync: SyncConfig{
			DebounceSeconds:  3,
			TelemetrySeconds: 5,
			BatterySeconds:   60,
		},
		Display: DisplayConfig{
			ChartPoints: 30,
		},
	}
}

// Timeout is the HTTP timeout for backend calls
func (b BackendConfig) Timeout() time.Duration {
	return time.Duration(b.TimeoutSeconds) * time.Second
}

// Debounce is the quiet period before a profile is persisted
func (s SyncConfig) Debounce() time.Duration {
	return time.Duration(s.DebounceSeconds) * time.Second
}

// Telemetry is the synthetic heart-rate and step tick
func (s SyncConfig) Telemetry() time.Duration {
	return time.Duration(s.TelemetrySeconds) * time.Second
}

// Battery is the battery poll interval
func (s SyncConfig) Battery() time.Duration {
	return time.Duration(s.BatterySeconds) * time.Second
}

// Load reads the configuration from ~/.wellness/config.json
func Load() (*Config, error) {
	path, err := getConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFile(path)
}

// LoadFile reads the configuration from path and fills in defaults
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, ErrNoConfig
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// applyDefaults fills zero values from DefaultConfig
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Backend.BaseURL == "" {
		c.Backend.BaseURL = defaults.Backend.BaseURL
	}
	if c.Backend.TimeoutSeconds == 0 {
		c.Backend.TimeoutSeconds = defaults.Backend.TimeoutSeconds
	}
	if c.Backend.RequestsPerMinute == 0 {
		c.Backend.RequestsPerMinute = defaults.Backend.RequestsPerMinute
	}
	if c.Sync.DebounceSeconds == 0 {
		c.Sync.DebounceSeconds = defaults.Sync.DebounceSeconds
	}
	if c.Sync.TelemetrySeconds == 0 {
		c.Sync.TelemetrySeconds = defaults.Sync.TelemetrySeconds
	}
	if c.Sync.BatterySeconds == 0 {
		c.Sync.BatterySeconds = defaults.Sync.BatterySeconds
	}
	if c.Display.ChartPoints == 0 {
		c.Display.ChartPoints = defaults.Display.ChartPoints
	}
}

// ApplyEnv loads envFiles (".env" when none are given) if present and then
// applies WELLNESS_* variables over the file configuration.
func (c *Config) ApplyEnv(envFiles ...string) error {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		// Load never overrides variables already set in the environment
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("loading %s: %w", f, err)
		}
	}

	if v := os.Getenv(EnvAPIURL); v != "" {
		c.Backend.BaseURL = v
	}
	if v := os.Getenv(EnvAPIToken); v != "" {
		c.Backend.APIToken = v
	}
	if v := os.Getenv(EnvDebounceSeconds); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s must be a whole number of seconds, got %q", EnvDebounceSeconds, v)
		}
		c.Sync.DebounceSeconds = n
	}
	return nil
}

// Save writes the configuration to ~/.wellness/config.json
func Save(cfg *Config) error {
	path, err := getConfigPath()
	if err != nil {
		return err
	}

	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// CreateExample creates an example config file if none exists
func CreateExample() error {
	path, err := getConfigPath()
	if err != nil {
		return err
	}

	// Check if config already exists
	if _, err := os.Stat(path); err == nil {
		return nil // Config exists, don't overwrite
	}

	example := DefaultConfig()
	return Save(&example)
}

// Validate checks if the config has usable values
func (c *Config) Validate() error {
	u, err := url.Parse(c.Backend.BaseURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("backend.base_url must be an http(s) URL, got %q", c.Backend.BaseURL)
	}
	if c.Backend.TimeoutSeconds <= 0 {
		return fmt.Errorf("backend.timeout_seconds must be positive, got %d", c.Backend.TimeoutSeconds)
	}
	if c.Backend.RequestsPerMinute < 0 {
		return fmt.Errorf("backend.requests_per_minute must not be negative, got %d", c.Backend.RequestsPerMinute)
	}

	if c.Sync.DebounceSeconds <= 0 {
		return fmt.Errorf("sync.debounce_seconds must be positive, got %d", c.Sync.DebounceSeconds)
	}
	if c.Sync.TelemetrySeconds <= 0 {
		return fmt.Errorf("sync.telemetry_seconds must be positive, got %d", c.Sync.TelemetrySeconds)
	}
	if c.Sync.BatterySeconds <= 0 {
		return fmt.Errorf("sync.battery_seconds must be positive, got %d", c.Sync.BatterySeconds)
	}

	if c.Display.ChartPoints < 2 {
		return fmt.Errorf("display.chart_points must be at least 2, got %d", c.Display.ChartPoints)
	}

	return nil
}

// getConfigPath returns the path to the config file
func getConfigPath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// GetConfigDir returns the path to the config directory
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".wellness"), nil
}
