// Package report extracts repository records from the daily trend analysis
// reports written upstream as Markdown.
//
// Reports have no schema beyond a fixed heading vocabulary, so every field is
// pulled out by its own extractor and an extractor that finds nothing leaves
// the field absent. Only the filename is mandatory: it carries the rank and
// the slug.
package report

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// ErrMalformedFilename is returned when a report filename does not carry a
// usable rank and slug.
var ErrMalformedFilename = errors.New("malformed report filename")

var (
	filenamePattern   = regexp.MustCompile(`^repo_(\d+)_(.+)\.md$`)
	reportFilePattern = regexp.MustCompile(`^repo_\d+_.*\.md$`)

	namePattern     = regexp.MustCompile(`# リポジトリ解析: ([^\r\n]+)`)
	starsPattern    = regexp.MustCompile(`スター数: ([\d,]+)`)
	forksPattern    = regexp.MustCompile(`フォーク数: ([\d,]+)`)
	languagePattern = regexp.MustCompile(`主要言語: ([^\r\n]+)`)
	licensePattern  = regexp.MustCompile(`ライセンス: ([^\r\n]+)`)
)

const (
	oneLinerHeading = "### 一言で言うと"
	overviewHeading = "## 概要"
	featuresHeading = "### 主な特徴"
)

// Record is one repository as described by one day's report.
type Record struct {
	Rank     int      `json:"rank"`
	Slug     string   `json:"slug"`
	Name     string   `json:"name,omitempty"`
	Stars    *int     `json:"stars,omitempty"`
	Forks    *int     `json:"forks,omitempty"`
	Language *string  `json:"language,omitempty"`
	License  *string  `json:"license,omitempty"`
	Summary  *string  `json:"summary,omitempty"`
	Features []string `json:"features,omitempty"`
	Content  string   `json:"-"`
}

// Entry is the abbreviated form of a Record listed on date pages and in the
// trends summary.
type Entry struct {
	Rank     int    `json:"rank" yaml:"rank"`
	Name     string `json:"name,omitempty" yaml:"name,omitempty"`
	Slug     string `json:"slug" yaml:"slug"`
	Stars    *int   `json:"stars,omitempty" yaml:"stars,omitempty"`
	Language string `json:"language,omitempty" yaml:"language,omitempty"`
	Summary  string `json:"summary,omitempty" yaml:"summary,omitempty"`
}

// IsReportFile reports whether name looks like a repository report. It is
// the discovery filter and is deliberately looser than ParseFilename.
func IsReportFile(name string) bool {
	return reportFilePattern.MatchString(name)
}

// ParseFilename derives rank and slug from a name shaped repo_<rank>_<slug>.md.
func ParseFilename(name string) (int, string, error) {
	m := filenamePattern.FindStringSubmatch(name)
	if m == nil {
		return 0, "", fmt.Errorf("%w: %q", ErrMalformedFilename, name)
	}
	rank, err := strconv.Atoi(m[1])
	if err != nil || rank < 1 {
		return 0, "", fmt.Errorf("%w: %q: bad rank", ErrMalformedFilename, name)
	}
	slug := m[2]
	if slug == "." || slug == ".." || strings.ContainsAny(slug, `/\`) {
		return 0, "", fmt.Errorf("%w: %q: bad slug", ErrMalformedFilename, name)
	}
	return rank, slug, nil
}

// Parse builds a Record from the raw text of a report and its filename.
// Missing fields are left absent; only a malformed filename is an error.
func Parse(content, filename string) (*Record, error) {
	rank, slug, err := ParseFilename(filename)
	if err != nil {
		return nil, err
	}
	rec := &Record{
		Rank:     rank,
		Slug:     slug,
		Stars:    ExtractStars(content),
		Forks:    ExtractForks(content),
		Language: ExtractLanguage(content),
		License:  ExtractLicense(content),
		Summary:  ExtractSummary(content),
		Features: ExtractFeatures(content),
		Content:  content,
	}
	if name := ExtractName(content); name != nil {
		rec.Name = *name
	}
	return rec, nil
}

// ExtractName returns the repository name from the analysis heading.
func ExtractName(content string) *string {
	return matchLine(namePattern, content)
}

// ExtractStars returns the star count with thousands separators removed.
func ExtractStars(content string) *int {
	return matchCount(starsPattern, content)
}

// ExtractForks returns the fork count with thousands separators removed.
func ExtractForks(content string) *int {
	return matchCount(forksPattern, content)
}

// ExtractLanguage returns the primary language line.
func ExtractLanguage(content string) *string {
	return matchLine(languagePattern, content)
}

// ExtractLicense returns the license line.
func ExtractLicense(content string) *string {
	return matchLine(licensePattern, content)
}

// ExtractSummary prefers the one-line summary section and falls back to the
// first line of the legacy overview section.
func ExtractSummary(content string) *string {
	if body, ok := section(content, oneLinerHeading); ok {
		if s := strings.TrimSpace(body); s != "" {
			return &s
		}
	}
	body, ok := section(content, overviewHeading)
	if !ok {
		return nil
	}
	first, _, _ := strings.Cut(strings.TrimSpace(body), "\n")
	first = strings.TrimSpace(first)
	if first == "" {
		return nil
	}
	return &first
}

// ExtractFeatures returns the bullet items of the key features section in
// document order.
func ExtractFeatures(content string) []string {
	for _, rest := range headingBodies(content, featuresHeading) {
		var features []string
		for _, line := range strings.Split(strings.TrimLeft(rest, "\r\n"), "\n") {
			line = strings.TrimSuffix(line, "\r")
			item, ok := strings.CutPrefix(line, "- ")
			if !ok || strings.TrimSpace(item) == "" {
				break
			}
			features = append(features, strings.TrimSpace(item))
		}
		if len(features) > 0 {
			return features
		}
	}
	return nil
}

// Abbrev returns the fields listed on date pages and in the summary.
func (r *Record) Abbrev() Entry {
	e := Entry{Rank: r.Rank, Name: r.Name, Slug: r.Slug, Stars: r.Stars}
	if r.Language != nil {
		e.Language = *r.Language
	}
	if r.Summary != nil {
		e.Summary = *r.Summary
	}
	return e
}

// DisplayName is the repository name, or the slug when the report had no
// analysis heading.
func (r *Record) DisplayName() string {
	if r.Name != "" {
		return r.Name
	}
	return r.Slug
}

// ForkCount returns the fork count, zero when absent.
func (r *Record) ForkCount() int {
	if r.Forks == nil {
		return 0
	}
	return *r.Forks
}

// LanguageTag returns the lang-<language> tag used to group repository pages.
func (r *Record) LanguageTag() string {
	if r.Language == nil || *r.Language == "" {
		return "lang-unknown"
	}
	return "lang-" + strings.ToLower(*r.Language)
}

// SortByRank orders records by rank, then slug.
func SortByRank(records []*Record) {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Rank != records[j].Rank {
			return records[i].Rank < records[j].Rank
		}
		return records[i].Slug < records[j].Slug
	})
}

func matchLine(re *regexp.Regexp, content string) *string {
	m := re.FindStringSubmatch(content)
	if m == nil {
		return nil
	}
	v := strings.TrimSpace(m[1])
	if v == "" {
		return nil
	}
	return &v
}

func matchCount(re *regexp.Regexp, content string) *int {
	m := re.FindStringSubmatch(content)
	if m == nil {
		return nil
	}
	n, err := strconv.Atoi(strings.ReplaceAll(m[1], ",", ""))
	if err != nil {
		return nil
	}
	return &n
}

// section returns the text following heading up to the next ## or ###
// heading, or the end of the document.
func section(content, heading string) (string, bool) {
	for _, rest := range headingBodies(content, heading) {
		body := strings.TrimLeft(rest, "\r\n")
		if strings.HasPrefix(body, "##") {
			return "", true
		}
		if end := strings.Index(body, "\n##"); end >= 0 {
			body = body[:end]
		}
		return body, true
	}
	return "", false
}

// headingBodies returns the remainder of content after every occurrence of
// heading that is immediately followed by a line break.
func headingBodies(content, heading string) []string {
	var bodies []string
	for offset := 0; ; {
		i := strings.Index(content[offset:], heading)
		if i < 0 {
			return bodies
		}
		rest := content[offset+i+len(heading):]
		offset += i + len(heading)
		if strings.HasPrefix(rest, "\n") || strings.HasPrefix(rest, "\r\n") {
			bodies = append(bodies, rest)
		}
	}
}
