package trends

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/stahnma/gh-trends/internal/report"
)

const (
	dirPrefix  = "analysis_"
	dateLayout = "2006-01-02"
)

// Enricher fills fields a report did not provide.
type Enricher interface {
	Enrich(ctx context.Context, rec *report.Record) error
}

// Loader reads analysis directories below a data root.
type Loader struct {
	dataDir  string
	enricher Enricher
	logger   *slog.Logger
}

// NewLoader returns a Loader for dataDir. enricher may be nil.
func NewLoader(dataDir string, enricher Enricher, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{dataDir: dataDir, enricher: enricher, logger: logger}
}

// DateDir is the analysis directory of one date.
func (l *Loader) DateDir(date string) string {
	return filepath.Join(l.dataDir, dirPrefix+date)
}

// ListDates returns the dates of all analysis_<YYYY-MM-DD> directories,
// most recent first. Failing to read the data root is the one fatal error of
// a run.
func (l *Loader) ListDates() ([]string, error) {
	entries, err := os.ReadDir(l.dataDir)
	if err != nil {
		return nil, fmt.Errorf("reading data root %s: %w", l.dataDir, err)
	}

	type dated struct {
		date string
		t    time.Time
	}
	var found []dated
	for _, e := range entries {
		if !e.IsDir() && e.Type()&fs.ModeSymlink == 0 {
			continue
		}
		date, ok := strings.CutPrefix(e.Name(), dirPrefix)
		if !ok {
			continue
		}
		t, err := time.Parse(dateLayout, date)
		if err != nil {
			l.logger.Warn("ignoring analysis directory with unparsable date", "dir", e.Name(), "err", err)
			continue
		}
		found = append(found, dated{date: date, t: t})
	}

	sort.Slice(found, func(i, j int) bool { return found[i].t.After(found[j].t) })
	dates := make([]string, len(found))
	for i, d := range found {
		dates[i] = d.date
	}
	return dates, nil
}

// ReportFiles returns the sorted names of the report files of one date.
func (l *Loader) ReportFiles(date string) ([]string, error) {
	entries, err := os.ReadDir(l.DateDir(date))
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && report.IsReportFile(e.Name()) {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

// LoadDate parses every report of one date, ordered by rank. Unreadable or
// misnamed files are logged and skipped; only an unreadable directory is
// returned as an error.
func (l *Loader) LoadDate(ctx context.Context, date string) ([]*report.Record, error) {
	names, err := l.ReportFiles(date)
	if err != nil {
		return nil, err
	}

	dir := l.DateDir(date)
	records := make([]*report.Record, 0, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			l.logger.Warn("skipping unreadable report", "file", path, "err", err)
			continue
		}
		rec, err := report.Parse(string(data), name)
		if err != nil {
			l.logger.Warn("skipping report", "file", path, "err", err)
			continue
		}
		if l.enricher != nil {
			if err := l.enricher.Enrich(ctx, rec); err != nil {
				l.logger.Warn("enrichment failed", "file", path, "err", err)
			}
		}
		records = append(records, rec)
	}

	report.SortByRank(records)
	return dedupeSlugs(records, dir, l.logger), nil
}

// dedupeSlugs keeps the best ranked record of each slug so that two reports
// never write the same detail page.
func dedupeSlugs(records []*report.Record, dir string, logger *slog.Logger) []*report.Record {
	seen := make(map[string]bool, len(records))
	out := records[:0]
	for _, rec := range records {
		if seen[rec.Slug] {
			logger.Warn("skipping duplicate slug", "dir", dir, "slug", rec.Slug, "rank", rec.Rank)
			continue
		}
		seen[rec.Slug] = true
		out = append(out, rec)
	}
	return out
}
