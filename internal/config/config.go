package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/sadopc/foodsurvey/internal/remotelog"
	"github.com/sadopc/foodsurvey/internal/survey"
)

// Environment variables read by applyEnvOverrides.
const (
	EnvEndpoint       = "FOODSURVEY_ENDPOINT"
	EnvLegacyEndpoint = "VITE_GOOGLE_SHEETS_API_URL_V2"
	EnvDatabase       = "FOODSURVEY_DB"
	EnvAdminPassword  = "FOODSURVEY_ADMIN_PASSWORD"
	EnvWriteOnly      = "FOODSURVEY_WRITE_ONLY"
	EnvTimeout        = "FOODSURVEY_TIMEOUT"
	EnvLogFile        = "FOODSURVEY_LOG_FILE"
)

// Config is the kiosk configuration.
type Config struct {
	DatabasePath  string `yaml:"database_path"`
	Endpoint      string `yaml:"endpoint"`
	WriteOnly     bool   `yaml:"write_only"`
	Timeout       string `yaml:"timeout"`
	AdminPassword string `yaml:"admin_password"`
	LogFile       string `yaml:"log_file"`
	Debug         bool   `yaml:"debug"`
}

// Dir returns ~/.config/foodsurvey.
func Dir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "foodsurvey"), nil
}

// DefaultPath returns the config file location.
func DefaultPath() string {
	dir, err := Dir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(dir, "config.yaml")
}

func DefaultConfig() *Config {
	cfg := &Config{
		WriteOnly:     true,
		Timeout:       remotelog.DefaultTimeout.String(),
		AdminPassword: survey.DefaultAdminPassword,
	}
	if dir, err := Dir(); err == nil {
		cfg.DatabasePath = filepath.Join(dir, "foodsurvey.db")
		cfg.LogFile = filepath.Join(dir, "foodsurvey.log")
	}
	return cfg
}

// Load reads the YAML file at path, then a .env file in the working
// directory, then environment overrides. Missing files are not errors.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}
	cfg.applyEnvOverrides()
	return cfg, nil
}

// loadDotEnv exports the variables in path without replacing ones already set.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("load %s: %w", path, err)
}

func (c *Config) applyEnvOverrides() {
	if url := os.Getenv(EnvLegacyEndpoint); url != "" {
		c.Endpoint = url
	}
	if url := os.Getenv(EnvEndpoint); url != "" {
		c.Endpoint = url
	}
	if path := os.Getenv(EnvDatabase); path != "" {
		c.DatabasePath = path
	}
	if pw := os.Getenv(EnvAdminPassword); pw != "" {
		c.AdminPassword = pw
	}
	if v := os.Getenv(EnvWriteOnly); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.WriteOnly = b
		}
	}
	if v := os.Getenv(EnvTimeout); v != "" {
		c.Timeout = v
	}
	if path := os.Getenv(EnvLogFile); path != "" {
		c.LogFile = path
	}
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// GetTimeout returns the remote request timeout.
func (c *Config) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d <= 0 {
		return remotelog.DefaultTimeout
	}
	return d
}

// Remote returns the remote logger settings.
func (c *Config) Remote() remotelog.Config {
	return remotelog.Config{
		Endpoint:  c.Endpoint,
		WriteOnly: c.WriteOnly,
		Timeout:   c.GetTimeout(),
	}
}
