package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete isgwatch configuration
type Config struct {
	Monitor MonitorConfig `yaml:"monitor"`
	State   StateConfig   `yaml:"state"`
	SMTP    SMTPConfig    `yaml:"smtp"`
}

// MonitorConfig describes the upstream ISG to watch
type MonitorConfig struct {
	URL          string   `yaml:"url"`
	FetchTimeout Duration `yaml:"fetch_timeout,omitempty"`
}

// StateConfig selects the snapshot backend
type StateConfig struct {
	Driver      string   `yaml:"driver,omitempty"` // "file" (default) or "sqlite"
	Path        string   `yaml:"path"`
	BusyTimeout Duration `yaml:"busy_timeout,omitempty"` // sqlite only
}

// SMTPConfig describes the outgoing mail setup
type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port,omitempty"`     // defaults to 587
	STARTTLS *bool  `yaml:"starttls,omitempty"` // defaults to true
	Username string `yaml:"username,omitempty"`
	// PasswordEnv names the environment variable holding the SMTP
	// password, so the secret stays out of the config file.
	PasswordEnv   string `yaml:"password_env,omitempty"`
	From          string `yaml:"from"`
	To            string `yaml:"to"`
	SubjectPrefix string `yaml:"subject_prefix,omitempty"` // defaults to "Heat pump"

	// Password is resolved from PasswordEnv at load time.
	Password string `yaml:"-"`
}

// UseSTARTTLS reports whether the SMTP session should upgrade to TLS.
func (s SMTPConfig) UseSTARTTLS() bool {
	return s.STARTTLS == nil || *s.STARTTLS
}

// Duration is a time.Duration that unmarshals from a YAML duration
// string such as "10s" or "1m30s".
type Duration struct {
	time.Duration
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	if parsed < 0 {
		return fmt.Errorf("duration %q must be >= 0", raw)
	}
	d.Duration = parsed
	return nil
}
