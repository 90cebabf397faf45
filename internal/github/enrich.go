package github

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	gh "github.com/google/go-github/v68/github"
	"github.com/stahnma/gh-trends/internal/cache"
	"github.com/stahnma/gh-trends/internal/report"
	"github.com/stahnma/gh-trends/internal/retry"
)

// Enricher fills fields a report left out with live repository data.
type Enricher struct {
	client  Client
	cache   *cache.Cache
	noCache bool
	retries []retry.Option
}

// NewEnricher returns an Enricher. The cache may be shared with other
// commands; with noCache set it is neither read nor written.
func NewEnricher(client Client, c *cache.Cache, noCache bool) *Enricher {
	return &Enricher{
		client:  client,
		cache:   c,
		noCache: noCache,
		retries: []retry.Option{
			retry.WithMaxRetries(3),
			retry.WithInitialDelay(time.Second),
			retry.WithRetryIf(transient),
		},
	}
}

// Enrich sets stars, forks, language and license on rec when the report did
// not provide them. Records whose name is not owner/repo are left alone.
func (e *Enricher) Enrich(ctx context.Context, rec *report.Record) error {
	if rec.Stars != nil && rec.Forks != nil && rec.Language != nil && rec.License != nil {
		return nil
	}
	owner, name, ok := SplitFullName(rec.Name)
	if !ok {
		return nil
	}
	meta, err := e.Lookup(ctx, owner, name)
	if err != nil {
		return fmt.Errorf("looking up %s/%s: %w", owner, name, err)
	}
	if rec.Stars == nil {
		stars := meta.Stars
		rec.Stars = &stars
	}
	if rec.Forks == nil {
		forks := meta.Forks
		rec.Forks = &forks
	}
	if rec.Language == nil && meta.Language != "" {
		lang := meta.Language
		rec.Language = &lang
	}
	if rec.License == nil && meta.License != "" {
		license := meta.License
		rec.License = &license
	}
	return nil
}

// Lookup returns repository metadata, using the cache.
func (e *Enricher) Lookup(ctx context.Context, owner, name string) (Metadata, error) {
	cacheKey := fmt.Sprintf("repo:%s/%s", owner, name)
	if !e.noCache {
		if val, found := e.cache.Get(cacheKey); found {
			if meta, ok := val.(Metadata); ok {
				slog.Debug("cache hit", "key", cacheKey)
				return meta, nil
			}
		}
		slog.Debug("cache miss", "key", cacheKey)
	}

	var repo *gh.Repository
	err := retry.Do(ctx, func() error {
		var apiErr error
		repo, _, apiErr = e.client.GetRepository(ctx, owner, name)
		return apiErr
	}, e.retries...)
	if err != nil {
		return Metadata{}, err
	}

	meta := Metadata{
		Stars:    repo.GetStargazersCount(),
		Forks:    repo.GetForksCount(),
		Language: repo.GetLanguage(),
		License:  repo.GetLicense().GetSPDXID(),
	}
	if meta.License == "" || meta.License == "NOASSERTION" {
		meta.License = repo.GetLicense().GetName()
	}
	if !e.noCache {
		e.cache.Set(cacheKey, meta)
	}
	return meta, nil
}

// SplitFullName splits "owner/repo", also accepting a github.com URL.
func SplitFullName(fullName string) (string, string, bool) {
	s := strings.TrimSpace(fullName)
	s = strings.TrimPrefix(s, "https://")
	s = strings.TrimPrefix(s, "github.com/")
	s = strings.TrimSuffix(s, "/")
	owner, name, ok := strings.Cut(s, "/")
	if !ok || owner == "" || name == "" || strings.ContainsAny(owner+name, "/ \t") {
		return "", "", false
	}
	return owner, name, true
}

// transient reports whether a GitHub error is worth retrying.
func transient(err error) bool {
	var rateErr *gh.RateLimitError
	if errors.As(err, &rateErr) {
		return false
	}
	var respErr *gh.ErrorResponse
	if errors.As(err, &respErr) && respErr.Response != nil {
		code := respErr.Response.StatusCode
		return code >= 500 || code == http.StatusTooManyRequests
	}
	return true
}
