package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application
type Config struct {
	Server        ServerConfig       `yaml:"server"`
	Storage       StorageConfig      `yaml:"storage"`
	Database      DatabaseConfig     `yaml:"database"`
	Snowflake     SnowflakeConfig    `yaml:"snowflake"`
	Notifications NotificationConfig `yaml:"notifications"`
	Pipeline      PipelineConfig     `yaml:"pipeline"`
}

// ServerConfig holds the status HTTP server configuration
type ServerConfig struct {
	Enabled bool   `yaml:"enabled"`
	Port    int    `yaml:"port"`
	Host    string `yaml:"host"`
}

// GetHost returns the server host, with ECS detection
func (c ServerConfig) GetHost() string {
	// On ECS/container, listen on all interfaces
	if os.Getenv("ECS_CONTAINER_METADATA_URI") != "" || os.Getenv("AWS_EXECUTION_ENV") != "" {
		return "0.0.0.0"
	}
	if c.Host == "" {
		return "127.0.0.1"
	}
	return c.Host
}

// StorageConfig holds the S3 inbound/archive queue settings
type StorageConfig struct {
	S3Bucket        string `yaml:"s3_bucket"`
	S3Region        string `yaml:"s3_region"`
	AWSProfile      string `yaml:"aws_profile"`
	IncomingPrefix  string `yaml:"incoming_prefix"`
	ProcessedPrefix string `yaml:"processed_prefix"`
	MaxBatchFiles   int    `yaml:"max_batch_files"`
	MaxFileSizeMB   int    `yaml:"max_file_size_mb"`
}

// DatabaseConfig holds Postgres destination store settings
type DatabaseConfig struct {
	Enabled bool   `yaml:"enabled"`
	URL     string `yaml:"url"`
}

// SnowflakeConfig holds the alternate Snowflake destination store settings
type SnowflakeConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Account   string `yaml:"account"`
	User      string `yaml:"user"`
	Password  string `yaml:"password"`
	Database  string `yaml:"database"`
	Schema    string `yaml:"schema"`
	Warehouse string `yaml:"warehouse"`
}

// NotificationConfig holds SES summary email settings
type NotificationConfig struct {
	Enabled     bool     `yaml:"enabled"`
	Region      string   `yaml:"region"`
	AccessKey   string   `yaml:"access_key"`
	SecretKey   string   `yaml:"secret_key"`
	FromAddress string   `yaml:"from_address"`
	ToAddresses []string `yaml:"to_addresses"`
}

// PipelineConfig holds run scheduling and budget settings
type PipelineConfig struct {
	IntervalMinutes   int `yaml:"interval_minutes"`
	TimeBudgetSeconds int `yaml:"time_budget_seconds"`
}

// Interval returns the schedule interval as a duration.
func (p PipelineConfig) Interval() time.Duration {
	return time.Duration(p.IntervalMinutes) * time.Minute
}

// TimeBudget returns the per-run wall-clock budget as a duration.
func (p PipelineConfig) TimeBudget() time.Duration {
	return time.Duration(p.TimeBudgetSeconds) * time.Second
}

// Load reads configuration from a YAML file and applies defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8090
	}
	if cfg.Storage.S3Region == "" {
		cfg.Storage.S3Region = "us-west-2"
	}
	if cfg.Storage.ProcessedPrefix == "" {
		cfg.Storage.ProcessedPrefix = "processed/"
	}
	if cfg.Storage.MaxBatchFiles == 0 {
		cfg.Storage.MaxBatchFiles = 50
	}
	if cfg.Storage.MaxFileSizeMB == 0 {
		cfg.Storage.MaxFileSizeMB = 10
	}
	if cfg.Notifications.Region == "" {
		cfg.Notifications.Region = "us-west-2"
	}
	if cfg.Snowflake.Schema == "" {
		cfg.Snowflake.Schema = "LINKEDIN_ANALYTICS"
	}
	if cfg.Pipeline.IntervalMinutes == 0 {
		cfg.Pipeline.IntervalMinutes = 360 // every 6 hours
	}
	if cfg.Pipeline.TimeBudgetSeconds == 0 {
		cfg.Pipeline.TimeBudgetSeconds = 270
	}
}

// LoadFromEnv loads configuration with environment variable overrides.
// It automatically loads a .env file (if present) before reading env vars,
// so secrets can live in .env locally and in real env vars on ECS.
func LoadFromEnv(path string) (*Config, error) {
	// Load .env file if it exists (no error if missing)
	_ = godotenv.Load()

	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("LINKEDIN_ETL_S3_BUCKET"); v != "" {
		cfg.Storage.S3Bucket = v
	}
	if v := os.Getenv("LINKEDIN_ETL_S3_REGION"); v != "" {
		cfg.Storage.S3Region = v
	}
	if v := os.Getenv("AWS_PROFILE"); v != "" && cfg.Storage.AWSProfile == "" {
		cfg.Storage.AWSProfile = v
	}

	// Database override (critical for ECS deployment where config.yaml has local defaults)
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		cfg.Database.URL = dbURL
		cfg.Database.Enabled = true
	}

	if v := os.Getenv("SNOWFLAKE_USER"); v != "" {
		cfg.Snowflake.User = v
	}
	if v := os.Getenv("SNOWFLAKE_PASSWORD"); v != "" {
		cfg.Snowflake.Password = v
	}
	if v := os.Getenv("SNOWFLAKE_ACCOUNT"); v != "" {
		cfg.Snowflake.Account = v
	}

	if v := os.Getenv("AWS_SES_ACCESS_KEY"); v != "" {
		cfg.Notifications.AccessKey = v
	}
	if v := os.Getenv("AWS_SES_SECRET_KEY"); v != "" {
		cfg.Notifications.SecretKey = v
	}
	if v := os.Getenv("AWS_SES_REGION"); v != "" {
		cfg.Notifications.Region = v
	}
	if v := os.Getenv("NOTIFY_TO"); v != "" {
		cfg.Notifications.ToAddresses = splitAndTrim(v)
	}

	if v := os.Getenv("STATUS_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}

	return cfg, nil
}

// Validate checks that the configuration is usable for a pipeline run.
func (c *Config) Validate() error {
	if c.Storage.S3Bucket == "" {
		return fmt.Errorf("storage.s3_bucket is required")
	}
	if !c.Database.Enabled && !c.Snowflake.Enabled {
		return fmt.Errorf("at least one destination store (database or snowflake) must be enabled")
	}
	if c.Notifications.Enabled && c.Notifications.FromAddress == "" {
		return fmt.Errorf("notifications.from_address is required when notifications are enabled")
	}
	return nil
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
