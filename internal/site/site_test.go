package site

import (
	"bytes"
	"testing"
	"text/template"
	"time"

	"github.com/stahnma/gh-trends/internal/report"
	"github.com/stahnma/gh-trends/internal/trends"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDefault(t *testing.T) {
	cfg := Default("/gh-trends/")
	assert.Equal(t, "src", cfg.Dir.Input)
	assert.Equal(t, "dist", cfg.Dir.Output)
	assert.Equal(t, "_includes/layouts", cfg.Dir.Layouts)
	assert.Equal(t, "_data", cfg.Dir.Data)
	assert.Equal(t, "njk", cfg.MarkdownTemplateEngine)
	assert.Equal(t, "/gh-trends/", cfg.PathPrefix)
	assert.Equal(t, []string{"src/assets"}, cfg.PassthroughCopy)
	assert.True(t, cfg.Markdown.Linkify)
	assert.True(t, cfg.Markdown.Anchors)
	assert.False(t, cfg.UseGitIgnore)

	out, err := yaml.Marshal(cfg)
	require.NoError(t, err)
	assert.Contains(t, string(out), "layouts: _includes/layouts")
	assert.Contains(t, string(out), "- trendsByDate")
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Hello World", "hello-world"},
		{"  leading and trailing  ", "leading-and-trailing"},
		{"octo/widget.js", "octowidgetjs"},
		{"a -- b", "a-b"},
		{"snake_case_name", "snake_case_name"},
		{"日本語 text", "text"},
		{"---", ""},
		{"Hello\u3000World", "hello-world"},
		{"a\u00a0b", "a-b"},
		{"tab\there\vand\u2003em", "tab-here-and-em"},
		{"\ufeffbom", "bom"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Slugify(tt.in), tt.in)
	}
}

func TestDateFormat(t *testing.T) {
	got, err := DateFormat("2024-01-02")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-02", got)

	got, err = DateFormat(time.Date(2023, 7, 4, 23, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "2023-07-04", got)

	_, err = DateFormat("yesterday")
	assert.ErrorIs(t, err, ErrUnsupportedValue)
	_, err = DateFormat(42)
	assert.ErrorIs(t, err, ErrUnsupportedValue)
}

func TestNumberFormat(t *testing.T) {
	n := 1234567
	var missing *int
	assert.Equal(t, "1,234,567", NumberFormat(n))
	assert.Equal(t, "1,234,567", NumberFormat(&n))
	assert.Equal(t, "12", NumberFormat(int64(12)))
	assert.Equal(t, "0", NumberFormat(nil))
	assert.Equal(t, "0", NumberFormat(missing))
	assert.Equal(t, "0", NumberFormat(0))
	assert.Equal(t, "-9,876", NumberFormat(-9876))
}

func TestToISOString(t *testing.T) {
	fixed := func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 6e6, time.FixedZone("JST", 9*3600)) }

	got, err := ToISOString("now", fixed)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01T18:04:05.006Z", got)

	got, err = ToISOString("2024-01-02", fixed)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-02T00:00:00.000Z", got)

	_, err = ToISOString("not a date", fixed)
	assert.Error(t, err)
}

func TestLimit(t *testing.T) {
	items := []int{1, 2, 3, 4}
	assert.Equal(t, []int{1, 2}, Limit(items, 2))
	assert.Equal(t, items, Limit(items, 10))
	assert.Equal(t, []int{1, 2, 3}, Limit(items, -1))
	assert.Equal(t, []int{}, Limit(items, -10))
	assert.Equal(t, []string{}, Limit[string](nil, 3))
}

func TestTrim(t *testing.T) {
	assert.Equal(t, "abc", Trim("  abc  ", ""))
	assert.Equal(t, "a/b", Trim("//a/b/", "/"))
	assert.Equal(t, "x", Trim("..x..", "."))
	assert.Equal(t, "", Trim("", "/"))
}

func TestFuncMap(t *testing.T) {
	tmpl := template.Must(template.New("t").Funcs(FuncMap()).Parse(
		`{{range limit .Repos 2}}{{.Rank}}:{{slugify .Name}}:{{numberFormat .Stars}} {{end}}|{{trim .Prefix "/"}}|{{trim .Padded}}|{{dateFormat .Date}}`))

	stars := 12345
	var buf bytes.Buffer
	err := tmpl.Execute(&buf, map[string]any{
		"Repos": []report.Entry{
			{Rank: 1, Name: "Octo Widget", Stars: &stars},
			{Rank: 2, Name: "b"},
			{Rank: 3, Name: "c"},
		},
		"Prefix": "/gh-trends/",
		"Padded": "  x ",
		"Date":   "2024-01-02",
	})
	require.NoError(t, err)
	assert.Equal(t, "1:octo-widget:12,345 2:b:0 |gh-trends|x|2024-01-02", buf.String())
}

func TestTrendsByDate(t *testing.T) {
	pages := []Page{
		{URL: "/trends/2024-01-02/", Date: "2024-01-02", Tags: []string{"trend"}},
		{URL: "/trends/2024-01-02/x/", Date: "2024-01-02", Tags: []string{"repo", "lang-go"}},
		{URL: "/trends/2024-01-01/", Date: "2024-01-01", Tags: []string{"trend"}},
	}
	got := TrendsByDate(pages)
	require.Len(t, got, 2)
	assert.Len(t, got["2024-01-02"], 1)
	assert.Equal(t, "/trends/2024-01-01/", got["2024-01-01"][0].URL)
}

func TestArchiveByYear(t *testing.T) {
	first := []report.Entry{{Rank: 1, Slug: "a"}}
	pages := []Page{
		{Date: "2024-01-02", Tags: []string{"trend"}, Repos: first},
		{Date: "2024-01-02", Tags: []string{"trend"}, Repos: []report.Entry{{Rank: 9, Slug: "z"}}},
		{Date: "2024-02-10", Tags: []string{"trend"}},
		{Date: "2023-12-31", Tags: []string{"trend"}},
		{Date: "garbage", Tags: []string{"trend"}},
		{Date: "2024-03-01", Tags: []string{"repo"}},
	}
	got := ArchiveByYear(pages)

	require.Contains(t, got, 2024)
	require.Contains(t, got, 2023)
	assert.Len(t, got, 2)
	assert.Equal(t, first, got[2024][1]["2024-01-02"])
	assert.Equal(t, []report.Entry{}, got[2024][2]["2024-02-10"])
	assert.NotContains(t, got[2024], 3)
	assert.Contains(t, got[2023][12], "2023-12-31")
}

func TestComputed(t *testing.T) {
	empty := Computed(nil)
	assert.Nil(t, empty.LatestDate)
	assert.Equal(t, []report.Entry{}, empty.LatestTrends)
	assert.Equal(t, []string{}, empty.RecentDates)

	s := &trends.Summary{
		LatestDate:   "2024-01-02",
		LatestTrends: []report.Entry{{Rank: 1, Slug: "a"}},
		RecentDates:  []string{"2024-01-02"},
	}
	c := Computed(s)
	require.NotNil(t, c.LatestDate)
	assert.Equal(t, "2024-01-02", *c.LatestDate)
	assert.Equal(t, s.LatestTrends, c.LatestTrends)
	assert.Equal(t, s.RecentDates, c.RecentDates)
}
