// Package finviz scrapes finviz.com quote pages: the fundamentals snapshot
// table, the news feed, analyst ratings, the company profile and chart images.
package finviz

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
)

// DefaultBaseURL is the finviz site root.
const DefaultBaseURL = "https://finviz.com"

// DefaultUserAgent is the user agent string used for HTTP requests.
// finviz rejects requests without a browser-like user agent.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

// Fetcher retrieves finviz documents and chart images.
type Fetcher interface {
	// BaseURL returns the site root, without a trailing slash.
	BaseURL() string
	// FetchDocument downloads and parses the HTML page at url.
	FetchDocument(ctx context.Context, url string) (Node, error)
	// DownloadImage stores the image at url as dir/name.png and returns the path.
	DownloadImage(ctx context.Context, url, name, dir string) (string, error)
}

// Client is the HTTP Fetcher for finviz.
type Client struct {
	baseURL   string
	userAgent string
	http      *http.Client
	log       *logrus.Entry
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at another site root (tests, mirrors).
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithUserAgent overrides DefaultUserAgent.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithLogger sets the logger used for request logging.
func WithLogger(l *logrus.Logger) Option {
	return func(c *Client) { c.log = logrus.NewEntry(l).WithField("component", "finviz") }
}

// NewClient creates a finviz client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:   DefaultBaseURL,
		userAgent: DefaultUserAgent,
		http:      &http.Client{Timeout: 30 * time.Second},
		log:       logrus.NewEntry(logrus.StandardLogger()).WithField("component", "finviz"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the site root.
func (c *Client) BaseURL() string { return c.baseURL }

// QuoteURL returns the quote page URL for ticker.
func (c *Client) QuoteURL(ticker string) string {
	return fmt.Sprintf("%s/quote.ashx?t=%s", c.baseURL, url.QueryEscape(ticker))
}

// FetchDocument downloads and parses the HTML page at url.
func (c *Client) FetchDocument(ctx context.Context, url string) (Node, error) {
	body, err := c.get(ctx, url, "text/html")
	if err != nil {
		return nil, err
	}
	defer body.Close()

	doc, err := ParseHTML(body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", url, err)
	}
	return doc, nil
}

// CurrentPrice returns the text of the lightweight quote endpoint for ticker,
// which is the last price as finviz prints it.
func (c *Client) CurrentPrice(ctx context.Context, ticker string) (string, error) {
	u := fmt.Sprintf("%s/request_quote.ashx?t=%s", c.baseURL, url.QueryEscape(ticker))
	doc, err := c.FetchDocument(ctx, u)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(doc.Text()), nil
}

// DownloadImage stores the image at url as dir/name.png and returns the path.
func (c *Client) DownloadImage(ctx context.Context, url, name, dir string) (string, error) {
	body, err := c.get(ctx, url, "image/png,image/*")
	if err != nil {
		return "", err
	}
	defer body.Close()

	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create image dir: %w", err)
	}

	path := filepath.Join(dir, name+".png")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create image file: %w", err)
	}
	n, err := io.Copy(f, body)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return "", fmt.Errorf("write image %s: %w", path, err)
	}

	c.log.WithFields(logrus.Fields{"path": path, "size": humanize.Bytes(uint64(n))}).Debug("chart image saved")
	return path, nil
}

// get performs a GET request and returns the response body.
// The caller is responsible for closing the returned ReadCloser.
func (c *Client) get(ctx context.Context, url, accept string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", accept)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP GET %s: %w", url, err)
	}

	entry := c.log.WithFields(logrus.Fields{
		"url":     url,
		"status":  resp.StatusCode,
		"elapsed": time.Since(start).Round(time.Millisecond),
	})
	if resp.StatusCode >= 400 {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		entry.Warn("request failed")
		return nil, &HTTPError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(body),
		}
	}
	entry.Debug("fetched")
	return resp.Body, nil
}

// isNotFound reports whether err is an HTTP 404.
func isNotFound(err error) bool {
	var he *HTTPError
	return errors.As(err, &he) && he.StatusCode == http.StatusNotFound
}
