package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/stahnma/gh-trends/internal/cache"
	"github.com/stahnma/gh-trends/internal/config"
	ghub "github.com/stahnma/gh-trends/internal/github"
	"github.com/stahnma/gh-trends/internal/publish"
)

// App holds shared application state.
type App struct {
	Config   config.Config
	Cache    *cache.Cache
	GHClient ghub.Client
	S3Client publish.PutObjectAPI
	Logger   *slog.Logger
	GitSHA   string
	GitDirty string

	flags rootFlags
}

type rootFlags struct {
	configPath string
	dataDir    string
	inputDir   string
	summary    string
	debug      bool
	noCache    bool
}

// NewApp creates a new App from the given configuration.
func NewApp(cfg config.Config, gitSHA, gitDirty string) (*App, error) {
	logger := NewLogger(os.Stderr, cfg.DebugMode)
	c, err := cache.LoadFromFile(cfg.CacheFile, cache.DefaultTTL)
	if err != nil {
		return nil, fmt.Errorf("loading cache: %w", err)
	}

	return &App{
		Config:   cfg,
		Cache:    c,
		Logger:   logger,
		GitSHA:   gitSHA,
		GitDirty: gitDirty,
	}, nil
}

// NewLogger returns the text logger used on the command line.
func NewLogger(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// ensureClient creates the GitHub client if it doesn't exist. Without a
// token the client is unauthenticated and heavily rate limited.
func (a *App) ensureClient() {
	if a.GHClient != nil {
		return
	}
	if a.Config.GitHubToken == "" {
		a.logger().Warn("GITHUB_TOKEN not set, using unauthenticated GitHub API")
	}
	a.GHClient = ghub.NewClient(a.Config.GitHubToken)
}

// ensureS3Client creates the S3 client if it doesn't exist.
func (a *App) ensureS3Client(ctx context.Context) error {
	if a.S3Client != nil {
		return nil
	}
	client, err := publish.NewClient(ctx, a.Config.AWSRegion)
	if err != nil {
		return err
	}
	a.S3Client = client
	return nil
}

// SaveCache saves the cache to disk if caching is enabled.
func (a *App) SaveCache() error {
	if !a.Config.NoCache {
		return a.Cache.SaveToFile(a.Config.CacheFile)
	}
	return nil
}

func (a *App) logger() *slog.Logger {
	if a.Logger == nil {
		a.Logger = slog.Default()
	}
	return a.Logger
}

// applyFlags layers an explicit config file and then any flags given on the
// command line over the configuration the App was created with.
func (a *App) applyFlags(cmd *cobra.Command) error {
	if a.flags.configPath != "" {
		cfg, err := config.Load(a.flags.configPath)
		if err != nil {
			return err
		}
		a.Config = cfg
	}

	f := cmd.Flags()
	if f.Changed("data-dir") {
		a.Config.DataDir = a.flags.dataDir
	}
	if f.Changed("input-dir") {
		a.Config.InputDir = a.flags.inputDir
		a.Config.SummaryPath = filepath.Join(a.flags.inputDir, "_data", "trends.json")
	}
	if f.Changed("summary") {
		a.Config.SummaryPath = a.flags.summary
	}
	if f.Changed("no-cache") {
		a.Config.NoCache = a.flags.noCache
	}
	if f.Changed("debug") {
		a.Config.DebugMode = a.flags.debug
	}
	if f.Changed("debug") || a.Logger == nil {
		a.Logger = NewLogger(cmd.ErrOrStderr(), a.Config.DebugMode)
	}
	return nil
}

// NewRootCommand creates the root cobra command with all subcommands.
func (a *App) NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "gh-trends",
		Short: "Generate static-site content from daily GitHub trend reports.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.applyFlags(cmd)
		},
	}
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&a.flags.configPath, "config", "", "Path to a YAML config file")
	pf.StringVar(&a.flags.dataDir, "data-dir", a.Config.DataDir, "Directory holding analysis_<date> report directories")
	pf.StringVar(&a.flags.inputDir, "input-dir", a.Config.InputDir, "Site input directory that receives generated pages")
	pf.StringVar(&a.flags.summary, "summary", a.Config.SummaryPath, "Path of the trends summary JSON")
	pf.BoolVar(&a.flags.noCache, "no-cache", a.Config.NoCache, "Disable caching")
	pf.BoolVar(&a.flags.debug, "debug", a.Config.DebugMode, "Enable debug logging")

	rootCmd.AddCommand(a.newGenerateCommand())
	rootCmd.AddCommand(a.newLatestCommand())
	rootCmd.AddCommand(a.newSiteCommand())
	rootCmd.AddCommand(a.newHistoryCommand())
	rootCmd.AddCommand(a.newPublishCommand())
	rootCmd.AddCommand(a.newVersionCommand())
	rootCmd.AddCommand(a.newClearCacheCommand())

	return rootCmd
}
