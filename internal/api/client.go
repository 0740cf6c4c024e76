package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/janmarkuslanger/clubin-prerender/internal/metrics"
)

// Client talks to the Clubin API. Every failure is logged and reported as a
// false return; callers never see an error.
type Client struct {
	base      string
	userAgent string
	http      *http.Client
	limiter   *rate.Limiter
	log       *logrus.Entry
	metrics   metrics.Recorder
}

type ClientOptions struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
	// RateLimit caps requests per second; zero means unlimited.
	RateLimit float64
	Logger    *logrus.Entry
	Metrics   metrics.Recorder
}

func NewClient(opts ClientOptions) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.NoOp{}
	}
	if opts.Logger == nil {
		opts.Logger = logrus.NewEntry(logrus.StandardLogger())
	}
	c := &Client{
		base:      opts.BaseURL,
		userAgent: opts.UserAgent,
		http:      &http.Client{Timeout: opts.Timeout},
		log:       opts.Logger,
		metrics:   opts.Metrics,
	}
	if opts.RateLimit > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	}
	return c
}

// URL joins path onto the API base.
func (c *Client) URL(path string) string {
	return c.base + path
}

// FetchJSON issues a GET and decodes the body into out.
func (c *Client) FetchJSON(ctx context.Context, url string, out any) bool {
	body, ok := c.FetchRaw(ctx, url)
	if !ok {
		return false
	}
	if err := json.Unmarshal(body, out); err != nil {
		c.warn("fetch", url, errors.Wrap(err, "decode response"))
		return false
	}
	return true
}

// FetchRaw issues a GET and returns the body once it is known to be valid JSON.
func (c *Client) FetchRaw(ctx context.Context, url string) ([]byte, bool) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		c.warn("fetch", url, err)
		return nil, false
	}
	body, err := c.do(req)
	if err != nil {
		c.warn("fetch", url, err)
		return nil, false
	}
	if !json.Valid(body) {
		c.warn("fetch", url, errors.New("response is not valid JSON"))
		return nil, false
	}
	return body, true
}

// PostJSON sends payload as a JSON body and decodes the response into out.
func (c *Client) PostJSON(ctx context.Context, url string, payload, out any) bool {
	data, err := json.Marshal(payload)
	if err != nil {
		c.warn("post", url, errors.Wrap(err, "encode payload"))
		return false
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		c.warn("post", url, err)
		return false
	}
	req.Header.Set("Content-Type", "application/json")

	body, err := c.do(req)
	if err != nil {
		c.warn("post", url, err)
		return false
	}
	if err := json.Unmarshal(body, out); err != nil {
		c.warn("post", url, errors.Wrap(err, "decode response"))
		return false
	}
	return true
}

// RegisterShortLink asks the API for a short code aliasing a club or event.
func (c *Client) RegisterShortLink(ctx context.Context, kind ShortLinkKind, targetID string) (string, bool) {
	var resp shortLinkResponse
	ok := c.PostJSON(ctx, c.URL("/shortlinks"), shortLinkRequest{Type: kind, TargetID: targetID}, &resp)
	if !ok || resp.Code == "" {
		return "", false
	}
	return resp.Code, true
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	if c.limiter != nil {
		if err := c.limiter.Wait(req.Context()); err != nil {
			return nil, errors.Wrap(err, "rate limit")
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read response")
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.Errorf("unexpected status %d", resp.StatusCode)
	}
	return body, nil
}

func (c *Client) warn(op, url string, err error) {
	c.metrics.APIFailure(op)
	c.log.WithFields(logrus.Fields{"op": op, "url": url, "error": err}).Warn("api request failed")
}
