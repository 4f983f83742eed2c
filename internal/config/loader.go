package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Load reads the configuration file, applies defaults, resolves the SMTP
// password from the environment, and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	// Set defaults
	if cfg.Monitor.FetchTimeout.Duration == 0 {
		cfg.Monitor.FetchTimeout.Duration = 10 * time.Second
	}
	if cfg.State.Driver == "" {
		cfg.State.Driver = "file"
	}
	if cfg.SMTP.Port == 0 {
		cfg.SMTP.Port = 587
	}
	if cfg.SMTP.SubjectPrefix == "" {
		cfg.SMTP.SubjectPrefix = "Heat pump"
	}

	if cfg.SMTP.PasswordEnv != "" {
		cfg.SMTP.Password = os.Getenv(cfg.SMTP.PasswordEnv)
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// ValidateConfig validates the configuration
func ValidateConfig(cfg *Config) error {
	if cfg.Monitor.URL == "" {
		return fmt.Errorf("monitor.url is required")
	}

	switch cfg.State.Driver {
	case "file", "sqlite", "sqlite3":
	default:
		return fmt.Errorf("state.driver must be 'file' or 'sqlite', got %q", cfg.State.Driver)
	}
	if cfg.State.Path == "" {
		return fmt.Errorf("state.path is required")
	}

	if cfg.SMTP.Host == "" {
		return fmt.Errorf("smtp.host is required")
	}
	if cfg.SMTP.From == "" {
		return fmt.Errorf("smtp.from is required")
	}
	if cfg.SMTP.To == "" {
		return fmt.Errorf("smtp.to is required")
	}
	if cfg.SMTP.Username != "" && cfg.SMTP.PasswordEnv == "" {
		return fmt.Errorf("smtp.password_env is required when smtp.username is set")
	}

	return nil
}
