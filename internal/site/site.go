// Package site describes how the static-site build consumes the generated
// content tree: its directory layout, template filters, collections and the
// data computed from the trends summary.
package site

import (
	"github.com/stahnma/gh-trends/internal/page"
	"github.com/stahnma/gh-trends/internal/report"
	"github.com/stahnma/gh-trends/internal/trends"
)

// Dirs is the directory layout of the site build.
type Dirs struct {
	Input    string `yaml:"input"`
	Output   string `yaml:"output"`
	Includes string `yaml:"includes"`
	Layouts  string `yaml:"layouts"`
	Data     string `yaml:"data"`
}

// MarkdownOptions configures Markdown rendering.
type MarkdownOptions struct {
	HTML    bool `yaml:"html"`
	Breaks  bool `yaml:"breaks"`
	Linkify bool `yaml:"linkify"`
	Anchors bool `yaml:"anchors"`
}

// Config is the build configuration handed to the templating engine.
type Config struct {
	Dir                    Dirs            `yaml:"dir"`
	MarkdownTemplateEngine string          `yaml:"markdownTemplateEngine"`
	HTMLTemplateEngine     string          `yaml:"htmlTemplateEngine"`
	DataTemplateEngine     string          `yaml:"dataTemplateEngine"`
	PathPrefix             string          `yaml:"pathPrefix"`
	PassthroughCopy        []string        `yaml:"passthroughCopy"`
	Plugins                []string        `yaml:"plugins"`
	Markdown               MarkdownOptions `yaml:"markdown"`
	Filters                []string        `yaml:"filters"`
	Collections            []string        `yaml:"collections"`
	UseGitIgnore           bool            `yaml:"useGitIgnore"`
}

// Default returns the build configuration for the given path prefix.
func Default(pathPrefix string) Config {
	return Config{
		Dir: Dirs{
			Input:    "src",
			Output:   "dist",
			Includes: "_includes",
			Layouts:  "_includes/layouts",
			Data:     "_data",
		},
		MarkdownTemplateEngine: "njk",
		HTMLTemplateEngine:     "njk",
		DataTemplateEngine:     "njk",
		PathPrefix:             pathPrefix,
		PassthroughCopy:        []string{"src/assets"},
		Plugins:                []string{"rss", "syntaxhighlight"},
		Markdown:               MarkdownOptions{HTML: true, Breaks: true, Linkify: true, Anchors: true},
		Filters:                FilterNames(),
		Collections:            []string{"trendsByDate", "archiveByYear"},
	}
}

// Page is the part of a generated page the collections look at.
type Page struct {
	URL   string         `yaml:"url"`
	Date  string         `yaml:"date"`
	Tags  []string       `yaml:"tags"`
	Repos []report.Entry `yaml:"repos"`
}

func (p Page) hasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// TrendsByDate groups trend pages by their date, preserving input order
// within a date.
func TrendsByDate(pages []Page) map[string][]Page {
	grouped := map[string][]Page{}
	for _, p := range pages {
		if !p.hasTag(page.TrendTag) {
			continue
		}
		grouped[p.Date] = append(grouped[p.Date], p)
	}
	return grouped
}

// ArchiveByYear groups the repository lists of trend pages by year, month
// and date. The first page seen for a date wins. Pages with an unparsable
// date are left out.
func ArchiveByYear(pages []Page) map[int]map[int]map[string][]report.Entry {
	grouped := map[int]map[int]map[string][]report.Entry{}
	for _, p := range pages {
		if !p.hasTag(page.TrendTag) {
			continue
		}
		t, err := parseDate(p.Date)
		if err != nil {
			continue
		}
		year, month := t.Year(), int(t.Month())
		if grouped[year] == nil {
			grouped[year] = map[int]map[string][]report.Entry{}
		}
		if grouped[year][month] == nil {
			grouped[year][month] = map[string][]report.Entry{}
		}
		if _, ok := grouped[year][month][p.Date]; ok {
			continue
		}
		repos := p.Repos
		if repos == nil {
			repos = []report.Entry{}
		}
		grouped[year][month][p.Date] = repos
	}
	return grouped
}

// ComputedData is the global data derived from the trends summary.
type ComputedData struct {
	LatestTrends []report.Entry `json:"latestTrends" yaml:"latestTrends"`
	LatestDate   *string        `json:"latestDate" yaml:"latestDate"`
	RecentDates  []string       `json:"recentDates" yaml:"recentDates"`
}

// Computed derives the global data from a summary, which may be nil when no
// summary has been generated yet.
func Computed(s *trends.Summary) ComputedData {
	c := ComputedData{LatestTrends: []report.Entry{}, RecentDates: []string{}}
	if s == nil {
		return c
	}
	if len(s.LatestTrends) > 0 {
		c.LatestTrends = s.LatestTrends
	}
	if s.LatestDate != "" {
		date := s.LatestDate
		c.LatestDate = &date
	}
	if len(s.RecentDates) > 0 {
		c.RecentDates = s.RecentDates
	}
	return c
}
