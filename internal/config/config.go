// Package config defines the toolkit configuration and its YAML loader.
package config

import (
	"errors"
	"fmt"
	"time"
)

// Config is the full farmkit configuration.
type Config struct {
	// Region is the cloud region all clients operate in.
	Region string `mapstructure:"region" yaml:"region"`

	// TableName is the DynamoDB tracking table.
	TableName string `mapstructure:"table_name" yaml:"table_name"`

	// AuditBucket is the S3 bucket for the invocation audit trail.
	// Empty disables auditing.
	AuditBucket string `mapstructure:"audit_bucket" yaml:"audit_bucket,omitempty"`

	// Profile selects a shared-credentials profile. Empty uses the
	// default credential chain.
	Profile string `mapstructure:"profile" yaml:"profile,omitempty"`

	// Endpoint overrides the service endpoint, for local test stacks.
	Endpoint string `mapstructure:"endpoint" yaml:"endpoint,omitempty"`

	// Credentials pins static credentials instead of the default chain.
	Credentials CredentialsConfig `mapstructure:"credentials" yaml:"credentials,omitempty"`

	ImportRetry RetryConfig `mapstructure:"import_retry" yaml:"import_retry"`
	DeleteWait  RetryConfig `mapstructure:"delete_wait" yaml:"delete_wait"`

	// LogLevel is the zap verbosity: debug, info, warn or error.
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`
}

// CredentialsConfig holds an explicit access-key pair. Both fields must
// be set together.
type CredentialsConfig struct {
	AccessKeyID     string `mapstructure:"access_key_id" yaml:"access_key_id,omitempty"`
	SecretAccessKey string `mapstructure:"secret_access_key" yaml:"secret_access_key,omitempty"`
	SessionToken    string `mapstructure:"session_token" yaml:"session_token,omitempty"`
}

// IsSet reports whether static credentials were configured.
func (c CredentialsConfig) IsSet() bool {
	return c.AccessKeyID != "" || c.SecretAccessKey != ""
}

// RetryConfig shapes one bounded-backoff policy.
type RetryConfig struct {
	MaxAttempts int           `mapstructure:"max_attempts" yaml:"max_attempts"`
	BaseDelay   time.Duration `mapstructure:"base_delay" yaml:"base_delay"`
	MaxDelay    time.Duration `mapstructure:"max_delay" yaml:"max_delay"`
}

// Validate checks the configuration for structural errors.
func (c *Config) Validate() error {
	if c.Region == "" {
		return errors.New("region is required")
	}
	if c.TableName == "" {
		return errors.New("table_name is required")
	}
	if c.Credentials.IsSet() && (c.Credentials.AccessKeyID == "" || c.Credentials.SecretAccessKey == "") {
		return errors.New("credentials require both access_key_id and secret_access_key")
	}
	if err := c.ImportRetry.validate("import_retry"); err != nil {
		return err
	}
	if err := c.DeleteWait.validate("delete_wait"); err != nil {
		return err
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level %q is not one of debug, info, warn, error", c.LogLevel)
	}
	return nil
}

func (r *RetryConfig) validate(name string) error {
	if r.MaxAttempts <= 0 {
		return fmt.Errorf("%s.max_attempts must be positive", name)
	}
	if r.BaseDelay <= 0 {
		return fmt.Errorf("%s.base_delay must be positive", name)
	}
	if r.MaxDelay < r.BaseDelay {
		return fmt.Errorf("%s.max_delay must be at least base_delay", name)
	}
	return nil
}

// applyDefaults fills unset fields with the standard policy.
func (c *Config) applyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.ImportRetry.MaxAttempts == 0 {
		c.ImportRetry.MaxAttempts = 5
	}
	if c.ImportRetry.BaseDelay == 0 {
		c.ImportRetry.BaseDelay = 200 * time.Millisecond
	}
	if c.ImportRetry.MaxDelay == 0 {
		c.ImportRetry.MaxDelay = 30 * time.Second
	}
	if c.DeleteWait.MaxAttempts == 0 {
		c.DeleteWait.MaxAttempts = 10
	}
	if c.DeleteWait.BaseDelay == 0 {
		c.DeleteWait.BaseDelay = 200 * time.Millisecond
	}
	if c.DeleteWait.MaxDelay == 0 {
		c.DeleteWait.MaxDelay = 30 * time.Second
	}
}

// Default returns a configuration with every defaultable field filled.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}
