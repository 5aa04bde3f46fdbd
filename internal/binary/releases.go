package binary

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Release is one entry of the GitHub release index.
type Release struct {
	TagName    string `json:"tag_name"`
	Prerelease bool   `json:"prerelease"`
}

// ReleaseLister lists releases, newest first.
type ReleaseLister interface {
	ListReleases(ctx context.Context) ([]Release, error)
}

// GitHubReleases reads the release index from the GitHub REST API.
type GitHubReleases struct {
	client    *http.Client
	url       string
	token     string
	userAgent string
}

// NewGitHubReleases creates a lister for url. token may be empty; when set it
// is sent as a bearer token, which lifts the anonymous rate limit in CI.
func NewGitHubReleases(client *http.Client, url, token string) *GitHubReleases {
	if client == nil {
		client = NewHTTPClient()
	}
	return &GitHubReleases{
		client:    client,
		url:       url,
		token:     token,
		userAgent: DefaultUserAgent,
	}
}

// ListReleases implements ReleaseLister.
func (g *GitHubReleases) ListReleases(ctx context.Context) ([]Release, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", g.userAgent)
	if g.token != "" {
		req.Header.Set("Authorization", "Bearer "+g.token)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch release index: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch release index: unexpected status code: %d", resp.StatusCode)
	}

	var releases []Release
	if err := json.NewDecoder(resp.Body).Decode(&releases); err != nil {
		return nil, fmt.Errorf("decode release index: %w", err)
	}

	return releases, nil
}
