package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ErrMissingConfig is returned when a value required to start a scrape is absent.
var ErrMissingConfig = errors.New("missing configuration")

// Unset marks posts_per_username as not configured.
const Unset = -1

// Config holds all configuration options for a batch scrape
type Config struct {
	// Instagram login and per-account limits
	Instagram InstagramConfig `yaml:"instagram" json:"instagram"`

	// Request pacing inside the Instagram client
	RateLimit RateLimitConfig `yaml:"rate_limit" json:"rate_limit"`

	// Retry behaviour for transient Instagram failures
	Retry RetryConfig `yaml:"retry" json:"retry"`

	// Output location and graph options
	Output OutputConfig `yaml:"output" json:"output"`

	// Optional upload of finished artifacts
	Upload UploadConfig `yaml:"upload" json:"upload"`

	// Optional Postgres mirror of the exported rows
	Database DatabaseConfig `yaml:"database" json:"database"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// InstagramConfig holds the scraping account and request settings
type InstagramConfig struct {
	Username         string        `yaml:"username" json:"username"`
	Password         string        `yaml:"password" json:"password"`
	PostsPerUsername int           `yaml:"posts_per_username" json:"posts_per_username"`
	UserAgent        string        `yaml:"user_agent" json:"user_agent"`
	Timeout          time.Duration `yaml:"timeout" json:"timeout"`
	PageSize         int           `yaml:"page_size" json:"page_size"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	RequestsPerMinute int `yaml:"requests_per_minute" json:"requests_per_minute"`
	BurstSize         int `yaml:"burst_size" json:"burst_size"`
}

// RetryConfig holds retry configuration for the Instagram client
type RetryConfig struct {
	Enabled      bool          `yaml:"enabled" json:"enabled"`
	MaxAttempts  int           `yaml:"max_attempts" json:"max_attempts"`
	BaseDelay    time.Duration `yaml:"base_delay" json:"base_delay"`
	MaxDelay     time.Duration `yaml:"max_delay" json:"max_delay"`
	Multiplier   float64       `yaml:"multiplier" json:"multiplier"`
	JitterFactor float64       `yaml:"jitter_factor" json:"jitter_factor"`
}

// OutputConfig holds output directory configuration
type OutputConfig struct {
	// Directory defaults to the directory of the running executable when empty
	Directory   string `yaml:"directory" json:"directory"`
	DedupeEdges bool   `yaml:"dedupe_edges" json:"dedupe_edges"`
}

// UploadConfig configures the S3-compatible artifact upload
type UploadConfig struct {
	Enabled         bool   `yaml:"enabled" json:"enabled"`
	Endpoint        string `yaml:"endpoint" json:"endpoint"`
	Region          string `yaml:"region" json:"region"`
	Bucket          string `yaml:"bucket" json:"bucket"`
	Prefix          string `yaml:"prefix" json:"prefix"`
	AccessKeyID     string `yaml:"access_key_id" json:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key" json:"secret_access_key"`
}

// DatabaseConfig configures the Postgres sink
type DatabaseConfig struct {
	Enabled  bool   `yaml:"enabled" json:"enabled"`
	URL      string `yaml:"url" json:"url"`
	MaxConns int32  `yaml:"max_conns" json:"max_conns"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with sensible defaults.
// PostsPerUsername starts Unset and has to be provided by the user.
func DefaultConfig() *Config {
	return &Config{
		Instagram: InstagramConfig{
			PostsPerUsername: Unset,
			UserAgent:        "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
			Timeout:          30 * time.Second,
			PageSize:         50,
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: 60,
			BurstSize:         5,
		},
		Retry: RetryConfig{
			Enabled:      true,
			MaxAttempts:  3,
			BaseDelay:    2 * time.Second,
			MaxDelay:     60 * time.Second,
			Multiplier:   2.0,
			JitterFactor: 0.1,
		},
		Upload: UploadConfig{
			Region: "auto",
			Prefix: "igbatch",
		},
		Database: DatabaseConfig{
			MaxConns: 4,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadFromEnv loads configuration from IGBATCH_* environment variables
func (c *Config) LoadFromEnv() error {
	if username := os.Getenv("IGBATCH_USERNAME"); username != "" {
		c.Instagram.Username = username
	}
	if password := os.Getenv("IGBATCH_PASSWORD"); password != "" {
		c.Instagram.Password = password
	}
	if posts := os.Getenv("IGBATCH_POSTS_PER_USERNAME"); posts != "" {
		val, err := strconv.Atoi(posts)
		if err != nil {
			return fmt.Errorf("IGBATCH_POSTS_PER_USERNAME: %w", err)
		}
		c.Instagram.PostsPerUsername = val
	}
	if userAgent := os.Getenv("IGBATCH_USER_AGENT"); userAgent != "" {
		c.Instagram.UserAgent = userAgent
	}

	if rpm := os.Getenv("IGBATCH_REQUESTS_PER_MINUTE"); rpm != "" {
		var val int
		fmt.Sscanf(rpm, "%d", &val)
		if val > 0 {
			c.RateLimit.RequestsPerMinute = val
		}
	}

	if outputDir := os.Getenv("IGBATCH_OUTPUT_DIR"); outputDir != "" {
		c.Output.Directory = outputDir
	}
	if dedupe := os.Getenv("IGBATCH_DEDUPE_EDGES"); dedupe != "" {
		c.Output.DedupeEdges = strings.ToLower(dedupe) == "true"
	}

	// Upload credentials follow the usual AWS names as a fallback
	if key := firstEnv("IGBATCH_UPLOAD_ACCESS_KEY_ID", "AWS_ACCESS_KEY_ID"); key != "" {
		c.Upload.AccessKeyID = key
	}
	if secret := firstEnv("IGBATCH_UPLOAD_SECRET_ACCESS_KEY", "AWS_SECRET_ACCESS_KEY"); secret != "" {
		c.Upload.SecretAccessKey = secret
	}
	if bucket := os.Getenv("IGBATCH_UPLOAD_BUCKET"); bucket != "" {
		c.Upload.Bucket = bucket
	}

	if dsn := firstEnv("IGBATCH_DATABASE_URL", "DATABASE_URL"); dsn != "" {
		c.Database.URL = dsn
	}

	if logLevel := os.Getenv("IGBATCH_LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}

	return nil
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	home := os.Getenv("HOME")
	locations := []string{
		".igbatch.yaml",
		".igbatch.yml",
		filepath.Join(home, ".config", "igbatch", "config.yaml"),
		filepath.Join(home, ".config", "igbatch", "config.yml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid. Absent required values
// are reported wrapped in ErrMissingConfig. The password is not checked here
// because it may come from the credential store.
func (c *Config) Validate() error {
	var errs []error

	if c.Instagram.Username == "" {
		errs = append(errs, fmt.Errorf("%w: instagram.username", ErrMissingConfig))
	}
	if c.Instagram.PostsPerUsername == Unset {
		errs = append(errs, fmt.Errorf("%w: instagram.posts_per_username", ErrMissingConfig))
	} else if c.Instagram.PostsPerUsername < 0 {
		errs = append(errs, errors.New("posts per username cannot be negative"))
	}
	if c.Instagram.Timeout <= 0 {
		errs = append(errs, errors.New("instagram timeout must be positive"))
	}
	if c.Instagram.PageSize <= 0 {
		errs = append(errs, errors.New("page size must be positive"))
	}

	if c.RateLimit.RequestsPerMinute <= 0 {
		errs = append(errs, errors.New("requests per minute must be positive"))
	}
	if c.RateLimit.BurstSize <= 0 {
		errs = append(errs, errors.New("burst size must be positive"))
	}

	if c.Retry.Enabled {
		if c.Retry.MaxAttempts <= 0 {
			errs = append(errs, errors.New("retry max attempts must be positive"))
		}
		if c.Retry.BaseDelay <= 0 || c.Retry.MaxDelay < c.Retry.BaseDelay {
			errs = append(errs, errors.New("retry delays must be positive and max_delay >= base_delay"))
		}
	}

	if c.Upload.Enabled && c.Upload.Bucket == "" {
		errs = append(errs, errors.New("upload bucket is required when upload is enabled"))
	}
	if c.Database.Enabled && c.Database.URL == "" {
		errs = append(errs, errors.New("database url is required when the database sink is enabled"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if outputDir, ok := flags["output"].(string); ok && outputDir != "" {
		c.Output.Directory = outputDir
	}
	if posts, ok := flags["posts"].(int); ok && posts >= 0 {
		c.Instagram.PostsPerUsername = posts
	}
	if dedupe, ok := flags["dedupe-edges"].(bool); ok && dedupe {
		c.Output.DedupeEdges = true
	}
	if upload, ok := flags["upload"].(bool); ok && upload {
		c.Upload.Enabled = true
	}
	if dsn, ok := flags["database-url"].(string); ok && dsn != "" {
		c.Database.URL = dsn
		c.Database.Enabled = true
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	config, err := LoadUnvalidated(configPath, flags)
	if err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// LoadUnvalidated layers all sources like Load but skips validation,
// for commands that inspect a partial configuration.
func LoadUnvalidated(configPath string, flags map[string]interface{}) (*Config, error) {
	// .env files are optional
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".igbatch.env"))

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	config.MergeCommandLineFlags(flags)

	return config, nil
}
