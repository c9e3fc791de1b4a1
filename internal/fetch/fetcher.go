// Package fetch retrieves raw landing-page markup over HTTP.
package fetch

import (
	"context"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// maxBodyBytes caps how much of a page is read. Landing pages past this
// size are truncated, not rejected.
const maxBodyBytes = 2 * 1024 * 1024

// RawDocument is the unparsed result of a successful fetch.
type RawDocument struct {
	Body       []byte
	FinalURL   string // post-redirect URL; equals the input when not tracked
	StatusCode int
}

// Fetcher retrieves a URL with a primary browser-like strategy and a
// minimal secondary strategy. The secondary strategy runs only when the
// primary fails at the transport level; an HTTP error status fails the
// fetch outright.
type Fetcher struct {
	primary   *http.Client
	secondary *http.Client
	limiter   *rate.Limiter
	userAgent string
}

// Option configures the Fetcher.
type Option func(*Fetcher)

// WithPrimaryClient overrides the primary HTTP client.
func WithPrimaryClient(c *http.Client) Option {
	return func(f *Fetcher) { f.primary = c }
}

// WithSecondaryClient overrides the secondary HTTP client.
func WithSecondaryClient(c *http.Client) Option {
	return func(f *Fetcher) { f.secondary = c }
}

// WithTimeouts sets the primary and secondary request timeouts.
func WithTimeouts(primary, secondary time.Duration) Option {
	return func(f *Fetcher) {
		f.primary.Timeout = primary
		f.secondary.Timeout = secondary
	}
}

// WithMaxRedirects bounds redirect following on the primary strategy.
func WithMaxRedirects(n int) Option {
	return func(f *Fetcher) {
		f.primary.CheckRedirect = redirectLimit(n)
	}
}

// WithRateLimit bounds outbound request rate across both strategies.
func WithRateLimit(r rate.Limit, burst int) Option {
	return func(f *Fetcher) { f.limiter = rate.NewLimiter(r, burst) }
}

func redirectLimit(n int) func(*http.Request, []*http.Request) error {
	return func(req *http.Request, via []*http.Request) error {
		if len(via) >= n {
			return eris.Errorf("fetch: stopped after %d redirects", n)
		}
		return nil
	}
}

// NewFetcher creates a Fetcher with browser-like defaults: 15s primary
// timeout, 10s secondary timeout, up to 5 redirects.
func NewFetcher(opts ...Option) *Fetcher {
	transport := func() *http.Transport {
		return &http.Transport{
			DialContext: (&net.Dialer{
				Timeout: 10 * time.Second,
			}).DialContext,
			TLSHandshakeTimeout: 10 * time.Second,
		}
	}
	f := &Fetcher{
		primary: &http.Client{
			Timeout:       15 * time.Second,
			Transport:     transport(),
			CheckRedirect: redirectLimit(5),
		},
		secondary: &http.Client{
			Timeout:   10 * time.Second,
			Transport: transport(),
		},
		limiter:   rate.NewLimiter(2, 4),
		userAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	}
	for _, o := range opts {
		o(f)
	}
	return f
}

// Fetch retrieves a URL. It tries the primary strategy first; on a
// transport-level failure it falls back to the secondary strategy. Any
// HTTP status outside 2xx-3xx on the primary strategy is a failure and
// does not trigger the fallback.
func (f *Fetcher) Fetch(ctx context.Context, targetURL string) (*RawDocument, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "fetch: rate limit wait")
	}

	doc, err := f.fetchPrimary(ctx, targetURL)
	if err == nil {
		return doc, nil
	}
	if !isTransport(err) {
		return nil, err
	}

	zap.L().Debug("fetch: primary strategy failed, trying fallback",
		zap.String("url", targetURL),
		zap.Error(err),
	)
	return f.fetchSecondary(ctx, targetURL)
}

func (f *Fetcher) fetchPrimary(ctx context.Context, targetURL string) (*RawDocument, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "fetch: create request")
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "pt-BR,pt;q=0.9,en;q=0.8")
	req.Header.Set("Upgrade-Insecure-Requests", "1")

	resp, err := f.primary.Do(req)
	if err != nil {
		return nil, transportError{eris.Wrap(err, "fetch: primary request")}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 400 {
		return nil, eris.Errorf("fetch: status %d for %s", resp.StatusCode, targetURL)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, transportError{eris.Wrap(err, "fetch: read body")}
	}

	finalURL := targetURL
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}
	if finalURL != targetURL {
		zap.L().Info("fetch: followed redirect",
			zap.String("from", targetURL),
			zap.String("to", finalURL),
		)
	}

	return &RawDocument{
		Body:       body,
		FinalURL:   finalURL,
		StatusCode: resp.StatusCode,
	}, nil
}

// fetchSecondary issues a minimal GET with a simplified header set. It
// does not track redirects: FinalURL is always the input URL.
func (f *Fetcher) fetchSecondary(ctx context.Context, targetURL string) (*RawDocument, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "fetch: create fallback request")
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")

	resp, err := f.secondary.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "fetch: fallback request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, eris.Errorf("fetch: fallback status %d for %s", resp.StatusCode, targetURL)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, eris.Wrap(err, "fetch: read fallback body")
	}

	return &RawDocument{
		Body:       body,
		FinalURL:   targetURL,
		StatusCode: resp.StatusCode,
	}, nil
}

// transportError marks failures below the HTTP layer, which are the only
// ones that trigger the secondary strategy.
type transportError struct{ error }

func (t transportError) Unwrap() error { return t.error }

func isTransport(err error) bool {
	_, ok := err.(transportError)
	return ok
}
