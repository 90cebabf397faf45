// Package trends turns the dated analysis directories into the site content
// tree and the trends summary.
package trends

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/stahnma/gh-trends/internal/page"
	"golang.org/x/sync/errgroup"
)

// Options configures a Generator.
type Options struct {
	DataDir     string
	InputDir    string
	SummaryPath string
	Workers     int
	Enricher    Enricher
	Logger      *slog.Logger
}

// Generator runs one full regeneration.
type Generator struct {
	loader      *Loader
	emitter     *page.Emitter
	summaryPath string
	workers     int
	logger      *slog.Logger
}

// Result describes what a run produced.
type Result struct {
	Dates       []string
	Skipped     []string
	Reports     int
	Pages       int
	Summary     *Summary
	SummaryPath string
}

// New returns a Generator.
func New(opts Options) *Generator {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	return &Generator{
		loader:      NewLoader(opts.DataDir, opts.Enricher, logger),
		emitter:     page.New(opts.InputDir),
		summaryPath: opts.SummaryPath,
		workers:     workers,
		logger:      logger,
	}
}

// Run writes the pages of every date and then the summary. A directory that
// fails is logged and skipped, except that an unreadable latest date fails
// the run and leaves any previous summary in place. No dates at all is not
// an error, but then no summary is written.
func (g *Generator) Run(ctx context.Context) (*Result, error) {
	dates, err := g.loader.ListDates()
	if err != nil {
		return nil, err
	}
	if len(dates) == 0 {
		g.logger.Info("no analysis data found", "dir", g.loader.dataDir)
		return &Result{}, nil
	}

	res := &Result{Dates: dates}
	var mu sync.Mutex
	var eg errgroup.Group
	eg.SetLimit(g.workers)
	for _, date := range dates {
		eg.Go(func() error {
			reports, pages, err := g.processDate(ctx, date)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				g.logger.Error("skipping analysis directory", "dir", g.loader.DateDir(date), "err", err)
				res.Skipped = append(res.Skipped, date)
				return nil
			}
			res.Reports += reports
			res.Pages += pages
			return nil
		})
	}
	_ = eg.Wait()
	if err := ctx.Err(); err != nil {
		return res, err
	}
	sort.Sort(sort.Reverse(sort.StringSlice(res.Skipped)))

	summary, err := BuildSummary(ctx, g.loader, dates)
	if err != nil {
		return res, err
	}
	if err := WriteSummary(g.summaryPath, summary); err != nil {
		return res, fmt.Errorf("writing summary: %w", err)
	}
	res.Summary = &summary
	res.SummaryPath = g.summaryPath
	g.logger.Info("wrote trends summary", "path", g.summaryPath, "latest", summary.LatestDate)
	return res, nil
}

func (g *Generator) processDate(ctx context.Context, date string) (int, int, error) {
	records, err := g.loader.LoadDate(ctx, date)
	if err != nil {
		return 0, 0, err
	}

	path, err := g.emitter.WriteDatePage(date, records)
	if err != nil {
		return 0, 0, err
	}
	g.logger.Debug("generated date page", "date", date, "path", path, "repos", len(records))

	for _, rec := range records {
		path, err := g.emitter.WriteRepoPage(date, rec)
		if err != nil {
			return 0, 0, err
		}
		g.logger.Debug("generated repository page", "date", date, "slug", rec.Slug, "path", path)
	}
	return len(records), len(records) + 1, nil
}
