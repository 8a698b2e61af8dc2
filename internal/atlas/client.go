package atlas

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"time"
)

// Common errors.
var (
	ErrNotFound     = errors.New("atlas: resource not found")
	ErrForbidden    = errors.New("atlas: access forbidden")
	ErrUnauthorized = errors.New("atlas: unauthorized")
	ErrServerError  = errors.New("atlas: server error")
)

// Options configures the API client.
type Options struct {
	// APIBase overrides the API root, mainly for tests.
	// Default: APIBase
	APIBase string

	// CDNBase overrides the asset CDN root, mainly for tests.
	// Default: CDNBase
	CDNBase string

	// UserAgent is sent with every request.
	// Default: the package's browser UserAgent
	UserAgent string

	// MaxIdleConnsPerHost sets the maximum idle connections per host.
	// Default: 100
	MaxIdleConnsPerHost int

	// Timeout for individual requests.
	// Default: 30s
	Timeout time.Duration

	// RetryAttempts is the maximum number of retry attempts.
	// Default: 5
	RetryAttempts int

	// RetryBackoff is the initial backoff duration.
	// Default: 1s
	RetryBackoff time.Duration

	// RetryMaxBackoff is the maximum backoff duration.
	// Default: 30s
	RetryMaxBackoff time.Duration
}

// DefaultOptions returns options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		APIBase:             APIBase,
		CDNBase:             CDNBase,
		UserAgent:           UserAgent,
		MaxIdleConnsPerHost: 100,
		Timeout:             30 * time.Second,
		RetryAttempts:       5,
		RetryBackoff:        time.Second,
		RetryMaxBackoff:     30 * time.Second,
	}
}

// Client talks to the Atlas Academy API and asset CDN. Transient
// failures (connection errors, 5xx responses, truncated bodies) are
// retried with exponential backoff; 4xx responses are final.
type Client struct {
	client *http.Client
	opts   Options
}

// NewClient creates a new client with the given options.
func NewClient(opts Options) *Client {
	if opts.APIBase == "" {
		opts.APIBase = APIBase
	}
	if opts.CDNBase == "" {
		opts.CDNBase = CDNBase
	}

	transport := &http.Transport{
		MaxIdleConnsPerHost: opts.MaxIdleConnsPerHost,
		MaxIdleConns:        opts.MaxIdleConnsPerHost * 2,
		IdleConnTimeout:     90 * time.Second,
	}

	return &Client{
		client: &http.Client{
			Transport: transport,
			Timeout:   opts.Timeout,
		},
		opts: opts,
	}
}

// APIBaseURL returns the configured API root.
func (c *Client) APIBaseURL() string { return c.opts.APIBase }

// CDNBaseURL returns the configured CDN root.
func (c *Client) CDNBaseURL() string { return c.opts.CDNBase }

// GetBytes performs a GET request and returns the full response body.
func (c *Client) GetBytes(ctx context.Context, url string) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt <= c.opts.RetryAttempts; attempt++ {
		if attempt > 0 {
			if err := c.backoff(ctx, attempt); err != nil {
				return nil, err
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		if c.opts.UserAgent != "" {
			req.Header.Set("User-Agent", c.opts.UserAgent)
		}

		resp, err := c.client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode >= 500 {
			resp.Body.Close()
			lastErr = fmt.Errorf("%w: %d %s", ErrServerError, resp.StatusCode, resp.Status)
			continue
		}

		if err := checkStatusCode(resp.StatusCode); err != nil {
			resp.Body.Close()
			return nil, err
		}

		data, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			// A connection dropped mid-body retries like a failed dial.
			lastErr = err
			continue
		}
		return data, nil
	}

	return nil, fmt.Errorf("get %s failed after %d attempts: %w", url, c.opts.RetryAttempts+1, lastErr)
}

// GetJSON performs a GET request and decodes the response body into v.
func (c *Client) GetJSON(ctx context.Context, url string, v any) error {
	data, err := c.GetBytes(ctx, url)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", url, err)
	}
	return nil
}

// BasicServants fetches a region's servant export. The export also
// contains enemy rows; see [BasicServant.IsEnemy].
func (c *Client) BasicServants(ctx context.Context, region Region) ([]BasicServant, error) {
	var servants []BasicServant
	if err := c.GetJSON(ctx, c.ServantListURL(region), &servants); err != nil {
		return nil, fmt.Errorf("fetch servant list: %w", err)
	}
	return servants, nil
}

// BasicEquips fetches a region's craft essence export.
func (c *Client) BasicEquips(ctx context.Context, region Region) ([]BasicEquip, error) {
	var equips []BasicEquip
	if err := c.GetJSON(ctx, c.EquipListURL(region), &equips); err != nil {
		return nil, fmt.Errorf("fetch equip list: %w", err)
	}
	return equips, nil
}

// ServantDetail fetches one servant's full record by raw servant id.
func (c *Client) ServantDetail(ctx context.Context, region Region, id int) (*ServantDetail, error) {
	var detail ServantDetail
	if err := c.GetJSON(ctx, c.ServantDetailURL(region, id), &detail); err != nil {
		return nil, fmt.Errorf("fetch servant %d: %w", id, err)
	}
	return &detail, nil
}

// backoff waits for an exponentially increasing duration with jitter.
func (c *Client) backoff(ctx context.Context, attempt int) error {
	backoff := c.opts.RetryBackoff * time.Duration(1<<uint(attempt-1))
	if backoff > c.opts.RetryMaxBackoff {
		backoff = c.opts.RetryMaxBackoff
	}

	// Add jitter: 0.5 to 1.5 of backoff
	jitter := time.Duration(float64(backoff) * (0.5 + rand.Float64()))

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(jitter):
		return nil
	}
}

// checkStatusCode returns an appropriate error for non-success status codes.
func checkStatusCode(code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusNotFound:
		return ErrNotFound
	case code == http.StatusForbidden:
		return ErrForbidden
	case code == http.StatusUnauthorized:
		return ErrUnauthorized
	default:
		return fmt.Errorf("unexpected status code: %d", code)
	}
}
