package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"GITHUB_TOKEN", "DEBUG", "S3_BUCKET_NAME", "S3_OBJECT_KEY", "AWS_REGION", "PATH_PREFIX",
		"GH_TRENDS_DATA_DIR", "GH_TRENDS_INPUT_DIR", "GH_TRENDS_SUMMARY_PATH", "GH_TRENDS_WORKERS",
		"GH_TRENDS_ENRICH", "GH_TRENDS_NO_CACHE", "GH_TRENDS_DEBUG", "GH_TRENDS_GITHUB_TOKEN",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DataDir != "data" {
		t.Errorf("DataDir = %q, want data", cfg.DataDir)
	}
	if cfg.InputDir != "src" {
		t.Errorf("InputDir = %q, want src", cfg.InputDir)
	}
	if cfg.OutputDir != "dist" {
		t.Errorf("OutputDir = %q, want dist", cfg.OutputDir)
	}
	if want := filepath.Join("src", "_data", "trends.json"); cfg.SummaryPath != want {
		t.Errorf("SummaryPath = %q, want %q", cfg.SummaryPath, want)
	}
	if cfg.Workers != 4 {
		t.Errorf("Workers = %d, want 4", cfg.Workers)
	}
	if cfg.GitHubToken != "" {
		t.Errorf("expected empty token, got %q", cfg.GitHubToken)
	}
	if cfg.DebugMode || cfg.Enrich || cfg.NoCache {
		t.Error("expected boolean switches off by default")
	}
	if cfg.CacheFile == "" {
		t.Error("expected non-empty CacheFile")
	}
}

func TestLoad_LegacyEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("GITHUB_TOKEN", "ghp_test123")
	t.Setenv("S3_BUCKET_NAME", "bucket")
	t.Setenv("S3_OBJECT_KEY", "trends/%s.json")
	t.Setenv("PATH_PREFIX", "/trends/")

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.GitHubToken != "ghp_test123" {
		t.Errorf("got %q, want ghp_test123", cfg.GitHubToken)
	}
	if cfg.PathPrefix != "/trends/" {
		t.Errorf("got %q, want /trends/", cfg.PathPrefix)
	}
	bucket, key, err := cfg.PublishTarget()
	if err != nil {
		t.Fatal(err)
	}
	if bucket != "bucket" || key != "trends/%s.json" {
		t.Errorf("got %q %q", bucket, key)
	}
}

func TestLoad_PrefixedEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("GH_TRENDS_DATA_DIR", "/srv/data")
	t.Setenv("GH_TRENDS_INPUT_DIR", "/srv/src")
	t.Setenv("GH_TRENDS_WORKERS", "8")

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DataDir != "/srv/data" {
		t.Errorf("DataDir = %q", cfg.DataDir)
	}
	if cfg.Workers != 8 {
		t.Errorf("Workers = %d, want 8", cfg.Workers)
	}
	if want := filepath.Join("/srv/src", "_data", "trends.json"); cfg.SummaryPath != want {
		t.Errorf("SummaryPath = %q, want %q", cfg.SummaryPath, want)
	}
}

func TestLoad_Switches(t *testing.T) {
	tests := []struct {
		val  string
		want bool
	}{
		{"true", true},
		{"TRUE", true},
		{"1", true},
		{"yes", true},
		{"false", false},
		{"FALSE", false},
		{"0", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run("DEBUG="+tt.val, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("DEBUG", tt.val)
			t.Setenv("GH_TRENDS_ENRICH", tt.val)
			cfg, err := Load("")
			if err != nil {
				t.Fatal(err)
			}
			if cfg.DebugMode != tt.want {
				t.Errorf("DEBUG=%q → DebugMode=%v, want %v", tt.val, cfg.DebugMode, tt.want)
			}
			if cfg.Enrich != tt.want {
				t.Errorf("GH_TRENDS_ENRICH=%q → Enrich=%v, want %v", tt.val, cfg.Enrich, tt.want)
			}
		})
	}
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "gh-trends.yaml")
	body := "data_dir: reports\nsummary_path: out/trends.json\nworkers: 2\nenrich: true\n"
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DataDir != "reports" {
		t.Errorf("DataDir = %q, want reports", cfg.DataDir)
	}
	if cfg.SummaryPath != "out/trends.json" {
		t.Errorf("SummaryPath = %q", cfg.SummaryPath)
	}
	if cfg.Workers != 2 {
		t.Errorf("Workers = %d, want 2", cfg.Workers)
	}
	if !cfg.Enrich {
		t.Error("expected Enrich from file")
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	clearEnv(t)
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing explicit config file")
	}
}

func TestLoad_InvalidWorkers(t *testing.T) {
	clearEnv(t)
	t.Setenv("GH_TRENDS_WORKERS", "0")
	_, err := Load("")
	if !errors.Is(err, ErrInvalidWorkers) {
		t.Errorf("expected ErrInvalidWorkers, got %v", err)
	}
}

func TestPublishTarget_Missing(t *testing.T) {
	_, _, err := Config{S3Bucket: "b"}.PublishTarget()
	if !errors.Is(err, ErrMissingBucket) {
		t.Errorf("expected ErrMissingBucket, got %v", err)
	}
}
