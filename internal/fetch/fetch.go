// Package fetch retrieves profile fields from remote profile pages and
// local PDF exports.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/kalambet/coldreach/internal/profile"
)

const (
	defaultTimeout   = 10 * time.Second
	defaultGitHubAPI = "https://api.github.com"
	browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
	maxPageBytes     = 4 << 20
)

// ErrUnsupported is returned for URLs on hosts the client cannot read.
var ErrUnsupported = errors.New("unsupported profile host")

// Client fetches LinkedIn pages and GitHub user records. It implements
// profile.Fetcher.
type Client struct {
	httpClient *http.Client
	githubAPI  string
	userAgent  string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option { return func(c *Client) { c.httpClient = hc } }

// WithGitHubAPI points GitHub lookups at another API base URL.
func WithGitHubAPI(base string) Option {
	return func(c *Client) { c.githubAPI = strings.TrimRight(base, "/") }
}

// New creates a Client.
func New(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		githubAPI:  defaultGitHubAPI,
		userAgent:  browserUserAgent,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Fetch returns the fields found at profileURL.
func (c *Client) Fetch(ctx context.Context, profileURL string) (profile.Fields, error) {
	u, err := url.Parse(profileURL)
	if err != nil {
		return profile.Fields{}, fmt.Errorf("parsing profile URL: %w", err)
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")

	switch {
	case host == "linkedin.com" || strings.HasSuffix(host, ".linkedin.com"):
		return c.linkedIn(ctx, u.String())
	case host == "github.com":
		user, _, _ := strings.Cut(strings.Trim(u.Path, "/"), "/")
		if user == "" {
			return profile.Fields{}, fmt.Errorf("%w: github URL has no user", ErrUnsupported)
		}
		f, err := c.gitHub(ctx, user)
		if err != nil {
			return profile.Fields{}, err
		}
		f.ProfileURL = profileURL
		return f, nil
	default:
		return profile.Fields{}, fmt.Errorf("%w: %s", ErrUnsupported, host)
	}
}

func (c *Client) get(ctx context.Context, rawURL, accept string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", accept)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", rawURL, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("fetching %s: HTTP %d", rawURL, resp.StatusCode)
	}
	return resp.Body, nil
}
