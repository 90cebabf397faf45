package site

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"text/template"
	"time"

	"github.com/dustin/go-humanize"
)

// ErrUnsupportedValue is returned by filters given a value they cannot
// interpret as a date.
var ErrUnsupportedValue = errors.New("unsupported value")

const isoLayout = "2006-01-02T15:04:05.000Z"

var (
	whitespaceRun = regexp.MustCompile(`[\s\v\x{00A0}\x{1680}\x{2000}-\x{200A}\x{2028}\x{2029}\x{202F}\x{205F}\x{3000}\x{FEFF}]+`)
	nonWord       = regexp.MustCompile(`[^\w\-]+`)
	hyphenRun     = regexp.MustCompile(`\-\-+`)

	dateLayouts = []string{
		time.RFC3339Nano,
		"2006-01-02T15:04:05",
		"2006-01-02",
	}
)

// FilterNames lists the filters registered with the templating engine.
func FilterNames() []string {
	return []string{"dateFormat", "slugify", "numberFormat", "toISOString", "limit", "trim"}
}

// FuncMap exposes the filters to text/template.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"dateFormat":   DateFormat,
		"slugify":      Slugify,
		"numberFormat": NumberFormat,
		"toISOString": func(v any) (string, error) {
			return ToISOString(v, time.Now)
		},
		"limit": limitAny,
		"trim": func(s string, char ...string) string {
			if len(char) == 0 {
				return Trim(s, "")
			}
			return Trim(s, char[0])
		},
	}
}

// DateFormat renders a date as YYYY-MM-DD.
func DateFormat(v any) (string, error) {
	t, err := toTime(v)
	if err != nil {
		return "", err
	}
	return t.Format("2006-01-02"), nil
}

// Slugify lowercases text, turns whitespace runs into hyphens, drops
// anything that is not a word character or hyphen, collapses repeated
// hyphens and trims them from both ends.
func Slugify(text string) string {
	s := strings.ToLower(text)
	s = whitespaceRun.ReplaceAllString(s, "-")
	s = nonWord.ReplaceAllString(s, "")
	s = hyphenRun.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// NumberFormat groups thousands with commas. Absent and zero values render
// as "0".
func NumberFormat(v any) string {
	switch n := v.(type) {
	case nil:
		return "0"
	case int:
		return humanize.Comma(int64(n))
	case int64:
		return humanize.Comma(n)
	case int32:
		return humanize.Comma(int64(n))
	case *int:
		if n == nil {
			return "0"
		}
		return humanize.Comma(int64(*n))
	case float64:
		return humanize.Commaf(n)
	case float32:
		return humanize.Commaf(float64(n))
	default:
		return fmt.Sprint(v)
	}
}

// ToISOString renders a date as an ISO 8601 UTC timestamp with
// millisecond precision. The string "now" means the current instant.
func ToISOString(v any, now func() time.Time) (string, error) {
	if s, ok := v.(string); ok && s == "now" {
		return now().UTC().Format(isoLayout), nil
	}
	t, err := toTime(v)
	if err != nil {
		return "", err
	}
	return t.UTC().Format(isoLayout), nil
}

// Limit returns at most n leading elements. A negative n drops that many
// trailing elements. A nil slice yields an empty one.
func Limit[T any](items []T, n int) []T {
	if items == nil {
		return []T{}
	}
	if n < 0 {
		n += len(items)
	}
	n = max(0, min(n, len(items)))
	return items[:n]
}

// Trim removes repeated occurrences of char from both ends of s. An empty
// char means a space.
func Trim(s, char string) string {
	if char == "" {
		char = " "
	}
	for strings.HasPrefix(s, char) {
		s = s[len(char):]
	}
	for strings.HasSuffix(s, char) {
		s = s[:len(s)-len(char)]
	}
	return s
}

func limitAny(items any, n int) any {
	v := reflect.ValueOf(items)
	if !v.IsValid() || v.Kind() != reflect.Slice {
		return []any{}
	}
	if n < 0 {
		n += v.Len()
	}
	n = max(0, min(n, v.Len()))
	return v.Slice(0, n).Interface()
}

func toTime(v any) (time.Time, error) {
	switch d := v.(type) {
	case time.Time:
		return d, nil
	case *time.Time:
		if d != nil {
			return *d, nil
		}
	case string:
		return parseDate(d)
	case *string:
		if d != nil {
			return parseDate(*d)
		}
	}
	return time.Time{}, fmt.Errorf("%w: %v", ErrUnsupportedValue, v)
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: date %q", ErrUnsupportedValue, s)
}
