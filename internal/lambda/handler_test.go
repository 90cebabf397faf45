package lambda

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stahnma/gh-trends/internal/cache"
	"github.com/stahnma/gh-trends/internal/commands"
	"github.com/stahnma/gh-trends/internal/config"
)

type fakeS3 struct {
	keys []string
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.keys = append(f.keys, aws.ToString(in.Key))
	return &s3.PutObjectOutput{}, nil
}

func newApp(t *testing.T, client *fakeS3) *commands.App {
	t.Helper()
	root := t.TempDir()
	return &commands.App{
		Config: config.Config{
			DataDir:     filepath.Join(root, "data"),
			InputDir:    filepath.Join(root, "src"),
			SummaryPath: filepath.Join(root, "src", "_data", "trends.json"),
			Workers:     1,
			CacheFile:   filepath.Join(root, "cache.gob"),
			NoCache:     true,
			S3Bucket:    "bucket",
			S3ObjectKey: "daily/%s/trends.json",
		},
		Cache:    cache.New(0),
		S3Client: client,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func writeReport(t *testing.T, app *commands.App, date, name string) {
	t.Helper()
	dir := filepath.Join(app.Config.DataDir, "analysis_"+date)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	content := "# リポジトリ解析: octo/" + name + "\n\nスター数: 10\n"
	if err := os.WriteFile(filepath.Join(dir, "repo_1_"+name+".md"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestHandler(t *testing.T) {
	client := &fakeS3{}
	app := newApp(t, client)
	writeReport(t, app, "2024-01-01", "alpha")
	writeReport(t, app, "2024-01-03", "beta")

	msg, err := NewHandler(app)(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(msg, "s3://bucket/daily/2024-01-03/trends.json") {
		t.Errorf("unexpected message: %s", msg)
	}
	if len(client.keys) != 1 || client.keys[0] != "daily/2024-01-03/trends.json" {
		t.Errorf("unexpected uploads: %v", client.keys)
	}
}

func TestHandler_NoData(t *testing.T) {
	client := &fakeS3{}
	app := newApp(t, client)
	if err := os.MkdirAll(app.Config.DataDir, 0o755); err != nil {
		t.Fatal(err)
	}

	msg, err := NewHandler(app)(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(msg, "No analysis data") {
		t.Errorf("unexpected message: %s", msg)
	}
	if len(client.keys) != 0 {
		t.Errorf("expected no uploads, got %v", client.keys)
	}
}

func TestHandler_MissingBucket(t *testing.T) {
	app := newApp(t, &fakeS3{})
	app.Config.S3Bucket = ""

	_, err := NewHandler(app)(context.Background(), nil)
	if !errors.Is(err, config.ErrMissingBucket) {
		t.Errorf("expected ErrMissingBucket, got %v", err)
	}
}

func TestHandler_MissingDataRoot(t *testing.T) {
	app := newApp(t, &fakeS3{})
	if _, err := NewHandler(app)(context.Background(), nil); err == nil {
		t.Error("expected error for missing data root")
	}
}
