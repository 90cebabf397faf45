// Package config loads gh-trends settings from defaults, an optional YAML
// file and the environment.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Sentinel validation errors.
var (
	ErrInvalidWorkers = errors.New("workers must be positive")
	ErrMissingBucket  = errors.New("s3 bucket and object key must be set")
)

const envPrefix = "GH_TRENDS"

// Config holds application configuration.
type Config struct {
	DataDir     string `mapstructure:"data_dir"`
	InputDir    string `mapstructure:"input_dir"`
	OutputDir   string `mapstructure:"output_dir"`
	SummaryPath string `mapstructure:"summary_path"`
	Workers     int    `mapstructure:"workers"`
	GitHubToken string `mapstructure:"github_token"`
	CacheFile   string `mapstructure:"cache_file"`
	HistoryDB   string `mapstructure:"history_db"`
	S3Bucket    string `mapstructure:"s3_bucket"`
	S3ObjectKey string `mapstructure:"s3_object_key"`
	AWSRegion   string `mapstructure:"aws_region"`
	PathPrefix  string `mapstructure:"path_prefix"`
	DebugMode   bool   `mapstructure:"-"`
	NoCache     bool   `mapstructure:"-"`
	Enrich      bool   `mapstructure:"-"`
}

// legacyEnv maps keys to the un-prefixed variables the deployment already sets.
var legacyEnv = map[string]string{
	"github_token":  "GITHUB_TOKEN",
	"debug":         "DEBUG",
	"s3_bucket":     "S3_BUCKET_NAME",
	"s3_object_key": "S3_OBJECT_KEY",
	"aws_region":    "AWS_REGION",
	"path_prefix":   "PATH_PREFIX",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("data_dir", "data")
	v.SetDefault("input_dir", "src")
	v.SetDefault("output_dir", "dist")
	v.SetDefault("summary_path", "")
	v.SetDefault("workers", 4)
	v.SetDefault("github_token", "")
	v.SetDefault("cache_file", "/tmp/gh-trends-cache.gob")
	v.SetDefault("history_db", "history.db")
	v.SetDefault("s3_bucket", "")
	v.SetDefault("s3_object_key", "")
	v.SetDefault("aws_region", "")
	v.SetDefault("path_prefix", "")
	v.SetDefault("debug", "")
	v.SetDefault("no_cache", "")
	v.SetDefault("enrich", "")
}

// Load reads configuration. An explicit path must exist; without one an
// optional gh-trends.yaml in the working directory is used.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("gh-trends")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, legacy := range legacyEnv {
		if err := v.BindEnv(key, envPrefix+"_"+strings.ToUpper(key), legacy); err != nil {
			return Config{}, fmt.Errorf("binding %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	cfg.DebugMode = truthy(v.GetString("debug"))
	cfg.NoCache = truthy(v.GetString("no_cache"))
	cfg.Enrich = truthy(v.GetString("enrich"))
	if cfg.SummaryPath == "" {
		cfg.SummaryPath = filepath.Join(cfg.InputDir, "_data", "trends.json")
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// FromEnvironment loads configuration without an explicit file and falls
// back to defaults when that fails.
func FromEnvironment() Config {
	cfg, err := Load("")
	if err != nil {
		cfg = Config{
			DataDir:     "data",
			InputDir:    "src",
			OutputDir:   "dist",
			SummaryPath: filepath.Join("src", "_data", "trends.json"),
			Workers:     4,
			CacheFile:   "/tmp/gh-trends-cache.gob",
			HistoryDB:   "history.db",
		}
	}
	return cfg
}

// Validate checks the values that have no usable fallback.
func (c Config) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidWorkers, c.Workers)
	}
	return nil
}

// PublishTarget returns the S3 bucket and key, or ErrMissingBucket.
func (c Config) PublishTarget() (string, string, error) {
	if c.S3Bucket == "" || c.S3ObjectKey == "" {
		return "", "", ErrMissingBucket
	}
	return c.S3Bucket, c.S3ObjectKey, nil
}

// truthy treats anything but "", "0" and "false" as enabled.
func truthy(s string) bool {
	s = strings.TrimSpace(s)
	return s != "" && s != "0" && strings.ToLower(s) != "false"
}
