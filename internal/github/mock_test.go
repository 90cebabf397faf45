package github

import (
	"context"
	"net/http"
	"net/url"

	gh "github.com/google/go-github/v68/github"
)

// mockClient implements Client for testing.
type mockClient struct {
	getRepositoryFn func(ctx context.Context, owner, repo string) (*gh.Repository, *gh.Response, error)
}

func (m *mockClient) GetRepository(ctx context.Context, owner, repo string) (*gh.Repository, *gh.Response, error) {
	return m.getRepositoryFn(ctx, owner, repo)
}

// okResponse returns a *gh.Response with status 200.
func okResponse() *gh.Response {
	return &gh.Response{
		Response: &http.Response{StatusCode: 200},
	}
}

// makeRepository builds a Repository with the fields enrichment reads.
func makeRepository(stars, forks int, language, spdx string) *gh.Repository {
	return &gh.Repository{
		StargazersCount: gh.Ptr(stars),
		ForksCount:      gh.Ptr(forks),
		Language:        gh.Ptr(language),
		License:         &gh.License{SPDXID: gh.Ptr(spdx), Name: gh.Ptr(spdx + " License")},
	}
}

// errorResponse builds an API error with the given status code.
func errorResponse(code int) *gh.ErrorResponse {
	req := &http.Request{Method: http.MethodGet, URL: &url.URL{Scheme: "https", Host: "api.github.com", Path: "/repos/octo/widget"}}
	return &gh.ErrorResponse{Response: &http.Response{StatusCode: code, Request: req}}
}
