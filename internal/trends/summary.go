package trends

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/stahnma/gh-trends/internal/format"
	"github.com/stahnma/gh-trends/internal/report"
)

// RecentLimit is the number of dates listed in a Summary.
const RecentLimit = 7

// Summary is the site-wide trends data file.
type Summary struct {
	LatestDate    string         `json:"latestDate"`
	LatestTrends  []report.Entry `json:"latestTrends"`
	RecentDates   []string       `json:"recentDates"`
	DateRepoCount map[string]int `json:"dateRepoCount"`
}

// BuildSummary computes the summary for dates, which must be ordered most
// recent first. The latest date is loaded again rather than taken from the
// page generation pass and must be readable. Any other unreadable directory
// counts as zero reports.
func BuildSummary(ctx context.Context, loader *Loader, dates []string) (Summary, error) {
	s := Summary{
		LatestTrends:  []report.Entry{},
		RecentDates:   []string{},
		DateRepoCount: map[string]int{},
	}
	if len(dates) == 0 {
		return s, nil
	}

	s.LatestDate = dates[0]
	records, err := loader.LoadDate(ctx, s.LatestDate)
	if err != nil {
		return Summary{}, fmt.Errorf("reading latest analysis directory %s: %w", loader.DateDir(s.LatestDate), err)
	}
	for _, rec := range records {
		s.LatestTrends = append(s.LatestTrends, rec.Abbrev())
	}

	recent := dates[:min(RecentLimit, len(dates))]
	s.RecentDates = append(s.RecentDates, recent...)
	for _, date := range recent {
		names, err := loader.ReportFiles(date)
		if err != nil {
			loader.logger.Warn("counting reports failed", "dir", loader.DateDir(date), "err", err)
		}
		s.DateRepoCount[date] = len(names)
	}
	return s, nil
}

// MarshalJSON writes dateRepoCount in recentDates order, most recent first,
// so that templates iterating the object see the same order as the list.
func (s Summary) MarshalJSON() ([]byte, error) {
	counts, err := orderedCounts(s.RecentDates, s.DateRepoCount)
	if err != nil {
		return nil, err
	}
	type plain Summary
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	err = enc.Encode(struct {
		plain
		DateRepoCount json.RawMessage `json:"dateRepoCount"`
	}{plain: plain(s), DateRepoCount: counts})
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), err
}

func orderedCounts(order []string, counts map[string]int) (json.RawMessage, error) {
	keys := make([]string, 0, len(counts))
	listed := make(map[string]bool, len(order))
	for _, date := range order {
		if _, ok := counts[date]; ok && !listed[date] {
			keys = append(keys, date)
			listed[date] = true
		}
	}
	var rest []string
	for date := range counts {
		if !listed[date] {
			rest = append(rest, date)
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(rest)))
	keys = append(keys, rest...)

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, date := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(date)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		fmt.Fprintf(&buf, ":%d", counts[date])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// WriteSummary replaces the summary file at path.
func WriteSummary(path string, s Summary) error {
	return format.WriteJSONFile(path, s)
}

// ReadSummary loads a summary written by WriteSummary.
func ReadSummary(path string) (Summary, error) {
	var s Summary
	err := format.ReadJSONFile(path, &s)
	return s, err
}
