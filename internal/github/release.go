package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

// DefaultAPIURL is the public GitHub REST endpoint.
const DefaultAPIURL = "https://api.github.com"

// Upstream monitor repository whose releases pin the generated workflows.
const (
	MonitorOwner = "upptime"
	MonitorRepo  = "uptime-monitor"
)

// ErrNoReleases means the repository has no published releases.
var ErrNoReleases = errors.New("no releases found")

// ResolutionError reports a failed release lookup.
type ResolutionError struct {
	Owner string
	Repo  string
	Err   error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("resolving latest release of %s/%s: %v", e.Owner, e.Repo, e.Err)
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// Client queries the GitHub REST API.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient returns a Client for baseURL. A non-empty token authenticates
// requests through an oauth2 static token source.
func NewClient(baseURL, token string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultAPIURL
	}
	httpClient := &http.Client{Timeout: timeout}
	if token != "" {
		src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient = &http.Client{
			Timeout:   timeout,
			Transport: &oauth2.Transport{Source: src, Base: http.DefaultTransport},
		}
	}
	return &Client{BaseURL: strings.TrimRight(baseURL, "/"), HTTPClient: httpClient}
}

type release struct {
	TagName string `json:"tag_name"`
}

// LatestReleaseTag returns the tag of the most recent release of owner/repo.
// All failures are returned as *ResolutionError.
func (c *Client) LatestReleaseTag(ctx context.Context, owner, repo string) (string, error) {
	tag, err := c.latestReleaseTag(ctx, owner, repo)
	if err != nil {
		return "", &ResolutionError{Owner: owner, Repo: repo, Err: err}
	}
	return tag, nil
}

func (c *Client) latestReleaseTag(ctx context.Context, owner, repo string) (string, error) {
	endpoint := fmt.Sprintf("%s/repos/%s/%s/releases?per_page=1",
		c.BaseURL, url.PathEscape(owner), url.PathEscape(repo))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("creating HTTP request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")

	client := c.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("API request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var releases []release
	if err := json.Unmarshal(body, &releases); err != nil {
		return "", fmt.Errorf("parsing response: %w", err)
	}
	if len(releases) == 0 {
		return "", ErrNoReleases
	}
	if releases[0].TagName == "" {
		return "", fmt.Errorf("latest release has an empty tag")
	}
	return releases[0].TagName, nil
}
