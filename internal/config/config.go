// Package config loads the server configuration from an optional YAML file
// and EONJE_* environment variables, in that order of precedence (env wins).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/eonjeswim/eonjeswim/internal/schedule"
)

type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

type RateLimitConfig struct {
	// CreatePerMinute bounds calendar creation per client IP. Zero disables it.
	CreatePerMinute int `yaml:"create_per_minute"`
}

type MaintenanceConfig struct {
	// CleanupCron is a five-field cron spec for dropping stale rate-limit
	// windows.
	CleanupCron string `yaml:"cleanup_cron"`
}

type S3Config struct {
	Endpoint  string `yaml:"endpoint"`
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
}

type BackupConfig struct {
	// Schedule is a five-field cron spec. Empty disables scheduled backups.
	Schedule      string   `yaml:"schedule"`
	Passphrase    string   `yaml:"passphrase"`
	RetentionDays int      `yaml:"retention_days"`
	S3            S3Config `yaml:"s3"`
}

// Enabled reports whether scheduled backups have everything they need.
func (b BackupConfig) Enabled() bool {
	return b.Schedule != "" && b.Passphrase != "" && b.S3.Bucket != ""
}

type Config struct {
	Port              string            `yaml:"port"`
	DBPath            string            `yaml:"db_path"`
	BaseURL           string            `yaml:"base_url"`
	Timezone          string            `yaml:"timezone"`
	Holidays          []string          `yaml:"holidays"`
	DefaultPeriodDays int               `yaml:"default_period_days"`
	MaxPeriodDays     int               `yaml:"max_period_days"`
	Log               LogConfig         `yaml:"log"`
	RateLimit         RateLimitConfig   `yaml:"rate_limit"`
	Maintenance       MaintenanceConfig `yaml:"maintenance"`
	Backup            BackupConfig      `yaml:"backup"`
}

func DefaultConfig() *Config {
	return &Config{
		Port:              "8080",
		DBPath:            "eonjeswim.db",
		Timezone:          "Local",
		Holidays:          append([]string(nil), schedule.DefaultHolidays...),
		DefaultPeriodDays: 14,
		MaxPeriodDays:     schedule.MaxPeriodDays,
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  50,
			MaxBackups: 5,
			MaxAgeDays: 28,
		},
		RateLimit:   RateLimitConfig{CreatePerMinute: 10},
		Maintenance: MaintenanceConfig{CleanupCron: "*/10 * * * *"},
		Backup: BackupConfig{
			RetentionDays: 30,
			S3:            S3Config{Region: "auto"},
		},
	}
}

// Normalize fills zero values left by a partial file.
func (c *Config) Normalize() {
	d := DefaultConfig()
	if c.Port == "" {
		c.Port = d.Port
	}
	if c.DBPath == "" {
		c.DBPath = d.DBPath
	}
	if c.Timezone == "" {
		c.Timezone = d.Timezone
	}
	if c.Holidays == nil {
		c.Holidays = d.Holidays
	}
	if c.DefaultPeriodDays <= 0 {
		c.DefaultPeriodDays = d.DefaultPeriodDays
	}
	if c.MaxPeriodDays <= 0 {
		c.MaxPeriodDays = d.MaxPeriodDays
	}
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
	if c.Log.MaxSizeMB <= 0 {
		c.Log.MaxSizeMB = d.Log.MaxSizeMB
	}
	if c.RateLimit.CreatePerMinute < 0 {
		c.RateLimit.CreatePerMinute = 0
	}
	if c.Maintenance.CleanupCron == "" {
		c.Maintenance.CleanupCron = d.Maintenance.CleanupCron
	}
	if c.Backup.RetentionDays <= 0 {
		c.Backup.RetentionDays = d.Backup.RetentionDays
	}
	if c.Backup.S3.Region == "" {
		c.Backup.S3.Region = d.Backup.S3.Region
	}
}

// Validate checks values that would otherwise fail later at startup.
func (c *Config) Validate() error {
	if _, err := c.Location(); err != nil {
		return err
	}
	// The default period spans DefaultPeriodDays+1 dates.
	if c.DefaultPeriodDays >= c.MaxPeriodDays {
		return fmt.Errorf("default_period_days %d must be below max_period_days %d", c.DefaultPeriodDays, c.MaxPeriodDays)
	}
	for _, h := range c.Holidays {
		if _, err := time.Parse(schedule.DateLayout, h); err != nil {
			return fmt.Errorf("holiday %q: want YYYY-MM-DD", h)
		}
	}
	return nil
}

// Location resolves Timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Load reads path over the defaults when it is non-empty and exists, applies
// environment overrides and normalizes the result. A missing file is not an
// error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
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
	}

	applyEnv(cfg, os.Getenv)
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config, getenv func(string) string) {
	set := func(dst *string, key string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	set(&cfg.Port, "EONJE_PORT")
	set(&cfg.DBPath, "EONJE_DB_PATH")
	set(&cfg.BaseURL, "EONJE_BASE_URL")
	set(&cfg.Timezone, "EONJE_TIMEZONE")
	set(&cfg.Log.Level, "EONJE_LOG_LEVEL")
	set(&cfg.Log.File, "EONJE_LOG_FILE")
	set(&cfg.Backup.Passphrase, "EONJE_BACKUP_PASSPHRASE")
	set(&cfg.Backup.S3.AccessKey, "EONJE_S3_ACCESS_KEY")
	set(&cfg.Backup.S3.SecretKey, "EONJE_S3_SECRET_KEY")

	if v := getenv("EONJE_RATE_LIMIT_CREATE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.RateLimit.CreatePerMinute = n
		}
	}
}

// Path returns the config file named by EONJE_CONFIG, or def.
func Path(def string) string {
	if p := os.Getenv("EONJE_CONFIG"); p != "" {
		return p
	}
	return def
}
