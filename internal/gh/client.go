package gh

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/go-github/v75/github"

	"github.com/bjulian5/promote/internal/config"
	"github.com/bjulian5/promote/internal/logger"
)

// Client provides the GitHub operations a deployment review needs: listing merged pull
// requests, commit -> pull request lookups, compare, repository listing and workflow dispatch.
// Every call is sequential and blocking.
type Client struct {
	api        *github.Client
	owner      string
	perPage    int
	sort       string
	webURL     string
	maxRetries int
	newBackOff func() backoff.BackOff
	log        *logger.Logger
}

// NewClient creates a GitHub client authenticated with the configured token
func NewClient(cfg config.Config, log *logger.Logger) (*Client, error) {
	api := github.NewClient(nil).WithAuthToken(cfg.Token)
	if cfg.GitHub.BaseURL != "" {
		var err error
		api, err = api.WithEnterpriseURLs(cfg.GitHub.BaseURL, cfg.GitHub.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid GitHub base URL %q: %w", cfg.GitHub.BaseURL, err)
		}
	}
	return newClient(api, cfg, log), nil
}

func newClient(api *github.Client, cfg config.Config, log *logger.Logger) *Client {
	if log == nil {
		log = logger.Nop()
	}
	return &Client{
		api:        api,
		owner:      cfg.Organization,
		perPage:    cfg.GitHub.PerPage,
		sort:       cfg.GitHub.Sort,
		webURL:     cfg.GitHub.WebURL,
		maxRetries: cfg.GitHub.MaxRetries,
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 500 * time.Millisecond
			b.MaxInterval = 5 * time.Second
			return b
		},
		log: log,
	}
}

// Owner returns the organization every call is scoped to
func (c *Client) Owner() string {
	return c.owner
}

// do runs call, retrying transient transport failures with backoff a bounded number of times.
// Anything else (auth, not found, validation, primary rate limit) fails immediately.
func (c *Client) do(ctx context.Context, what string, call func() (*github.Response, error)) error {
	attempt := 0
	op := func() error {
		attempt++
		resp, err := call()
		if err == nil {
			return nil
		}
		if !isTransient(resp, err) {
			return backoff.Permanent(err)
		}
		return err
	}

	b := backoff.WithContext(backoff.WithMaxRetries(c.newBackOff(), uint64(c.maxRetries)), ctx)
	return backoff.RetryNotify(op, b, func(err error, wait time.Duration) {
		c.log.Warnf("%s failed (attempt %d of %d), retrying in %s: %v", what, attempt, c.maxRetries+1, wait, err)
	})
}

// isTransient reports whether a failed call is worth retrying
func isTransient(resp *github.Response, err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		// the primary limit resets on the hour, far beyond any backoff
		return false
	}
	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return true
	}

	if resp != nil && resp.Response != nil {
		return resp.StatusCode >= http.StatusInternalServerError
	}

	// no response at all: connection refused, reset, DNS
	return true
}
