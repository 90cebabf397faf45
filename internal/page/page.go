// Package page writes the Markdown content tree consumed by the site build:
// one index page per date and one detail page per repository.
package page

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/stahnma/gh-trends/internal/report"
	"gopkg.in/yaml.v3"
)

const (
	DateLayout = "date.njk"
	RepoLayout = "repo.njk"

	TrendTag = "trend"
	RepoTag  = "repo"
)

type dateFrontMatter struct {
	Layout string         `yaml:"layout"`
	Title  string         `yaml:"title"`
	Date   string         `yaml:"date"`
	Repos  []report.Entry `yaml:"repos"`
	Tags   []string       `yaml:"tags"`
}

type repoFrontMatter struct {
	Layout string   `yaml:"layout"`
	Title  string   `yaml:"title"`
	Date   string   `yaml:"date"`
	Repo   repoMeta `yaml:"repo"`
	Tags   []string `yaml:"tags"`
}

type repoMeta struct {
	Rank     int      `yaml:"rank"`
	Name     *string  `yaml:"name"`
	Slug     string   `yaml:"slug"`
	Stars    *int     `yaml:"stars"`
	Language *string  `yaml:"language"`
	Forks    int      `yaml:"forks"`
	License  *string  `yaml:"license"`
	Features []string `yaml:"features"`
}

// Emitter writes pages below <root>/trends.
type Emitter struct {
	root string
}

// New returns an Emitter rooted at the site input directory.
func New(root string) *Emitter {
	return &Emitter{root: root}
}

// DatePath is the index page of one date.
func (e *Emitter) DatePath(date string) string {
	return filepath.Join(e.root, "trends", date, "index.md")
}

// RepoPath is the detail page of one repository on one date.
func (e *Emitter) RepoPath(date, slug string) string {
	return filepath.Join(e.root, "trends", date, slug, "index.md")
}

// WriteDatePage writes the index page listing every record of the date.
func (e *Emitter) WriteDatePage(date string, records []*report.Record) (string, error) {
	content, err := RenderDatePage(date, records)
	if err != nil {
		return "", err
	}
	path := e.DatePath(date)
	return path, writeFile(path, content)
}

// WriteRepoPage writes the detail page of one record.
func (e *Emitter) WriteRepoPage(date string, rec *report.Record) (string, error) {
	content, err := RenderRepoPage(date, rec)
	if err != nil {
		return "", err
	}
	path := e.RepoPath(date, rec.Slug)
	return path, writeFile(path, content)
}

// RenderDatePage renders the date index page. Entries are ordered by rank.
func RenderDatePage(date string, records []*report.Record) ([]byte, error) {
	sorted := make([]*report.Record, len(records))
	copy(sorted, records)
	report.SortByRank(sorted)

	entries := make([]report.Entry, 0, len(sorted))
	for _, rec := range sorted {
		entries = append(entries, rec.Abbrev())
	}
	fm := dateFrontMatter{
		Layout: DateLayout,
		Title:  fmt.Sprintf("%s のGitHubトレンド", date),
		Date:   date,
		Repos:  entries,
		Tags:   []string{TrendTag},
	}
	return render(fm, fmt.Sprintf("%s のGitHubトレンドリポジトリ一覧です。", date))
}

// RenderRepoPage renders the repository detail page. The body is the report
// text unchanged.
func RenderRepoPage(date string, rec *report.Record) ([]byte, error) {
	features := rec.Features
	if features == nil {
		features = []string{}
	}
	meta := repoMeta{
		Rank:     rec.Rank,
		Slug:     rec.Slug,
		Stars:    rec.Stars,
		Language: rec.Language,
		Forks:    rec.ForkCount(),
		License:  rec.License,
		Features: features,
	}
	if rec.Name != "" {
		meta.Name = &rec.Name
	}
	fm := repoFrontMatter{
		Layout: RepoLayout,
		Title:  rec.DisplayName(),
		Date:   date,
		Repo:   meta,
		Tags:   []string{RepoTag, rec.LanguageTag()},
	}
	return render(fm, rec.Content)
}

func render(frontMatter any, body string) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("---\n")
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(frontMatter); err != nil {
		return nil, fmt.Errorf("failed to marshal front matter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to marshal front matter: %w", err)
	}
	buf.WriteString("---\n\n")
	buf.WriteString(body)
	return buf.Bytes(), nil
}

func writeFile(path string, content []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
