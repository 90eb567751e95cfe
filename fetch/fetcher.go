// Package fetch downloads mod archives from the catalog with retry, per-host
// circuit breaking and locator resolution.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/dnscache"
)

var (
	ErrNotFound     = errors.New("archive not found")
	ErrUnauthorized = errors.New("download requires valid portal credentials")
	ErrRateLimited  = errors.New("rate limited by catalog")
	ErrUpstreamDown = errors.New("catalog unavailable")

	// ErrMethodNotAllowed is returned for 405, typically a host that
	// refuses HEAD.
	ErrMethodNotAllowed = errors.New("method not allowed")
)

// Archive is an open download of a mod archive.
type Archive struct {
	Body        io.ReadCloser
	Size        int64 // -1 if unknown
	ContentType string
	ETag        string
}

// Source opens archive downloads by absolute URL.
type Source interface {
	Fetch(ctx context.Context, url string) (*Archive, error)
	Head(ctx context.Context, url string) (size int64, contentType string, err error)
}

// Fetcher downloads archives over HTTP.
type Fetcher struct {
	client     *http.Client
	userAgent  string
	maxRetries int
	baseDelay  time.Duration
	username   string
	token      string
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(f *Fetcher) {
		f.client = c
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithMaxRetries sets the maximum retry attempts.
func WithMaxRetries(n int) Option {
	return func(f *Fetcher) {
		f.maxRetries = n
	}
}

// WithBaseDelay sets the base delay for exponential backoff.
func WithBaseDelay(d time.Duration) Option {
	return func(f *Fetcher) {
		f.baseDelay = d
	}
}

// WithCredentials sets the portal username and token. They are sent as the
// "username" and "token" query parameters of every request.
func WithCredentials(username, token string) Option {
	return func(f *Fetcher) {
		f.username = username
		f.token = token
	}
}

// NewFetcher creates a new Fetcher with the given options.
func NewFetcher(opts ...Option) *Fetcher {
	resolver := &dnscache.Resolver{}
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			resolver.Refresh(true)
		}
	}()

	dialer := &net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}

	f := &Fetcher{
		client: &http.Client{
			Timeout: 10 * time.Minute,
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
					host, port, err := net.SplitHostPort(addr)
					if err != nil {
						return nil, err
					}
					ips, err := resolver.LookupHost(ctx, host)
					if err != nil {
						return nil, err
					}
					for _, ip := range ips {
						conn, err := dialer.DialContext(ctx, network, net.JoinHostPort(ip, port))
						if err == nil {
							return conn, nil
						}
					}
					return nil, fmt.Errorf("no reachable address for %s", host)
				},
				MaxIdleConns:          20,
				MaxIdleConnsPerHost:   4,
				IdleConnTimeout:       90 * time.Second,
				TLSHandshakeTimeout:   10 * time.Second,
				ExpectContinueTimeout: 1 * time.Second,
			},
		},
		userAgent:  "modsync/1.0",
		maxRetries: 3,
		baseDelay:  500 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch opens a download of the archive at rawURL.
// The caller must close the returned Archive.Body.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Archive, error) {
	reqURL, err := f.authorize(rawURL)
	if err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 0; attempt <= f.maxRetries; attempt++ {
		if attempt > 0 {
			if err := sleep(ctx, f.delay(attempt)); err != nil {
				return nil, err
			}
		}

		archive, err := f.doFetch(ctx, reqURL)
		if err == nil {
			return archive, nil
		}
		lastErr = err

		if !errors.Is(err, ErrRateLimited) && !errors.Is(err, ErrUpstreamDown) {
			return nil, err
		}
	}
	return nil, lastErr
}

// delay is the wait before the given retry attempt: doubling from baseDelay
// with up to 10% jitter.
func (f *Fetcher) delay(attempt int) time.Duration {
	d := f.baseDelay * time.Duration(math.Pow(2, float64(attempt-1)))
	return d + time.Duration(float64(d)*rand.Float64()*0.1)
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// authorize adds the portal credentials to rawURL, if any are set.
func (f *Fetcher) authorize(rawURL string) (string, error) {
	if f.username == "" && f.token == "" {
		return rawURL, nil
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parsing download URL: %w", err)
	}
	q := u.Query()
	q.Set("username", f.username)
	q.Set("token", f.token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (f *Fetcher) newRequest(ctx context.Context, method, reqURL string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "application/zip, */*")
	return req, nil
}

func (f *Fetcher) doFetch(ctx context.Context, reqURL string) (*Archive, error) {
	req, err := f.newRequest(ctx, http.MethodGet, reqURL)
	if err != nil {
		return nil, err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		// The error text would carry the token in the URL.
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		return nil, fmt.Errorf("downloading archive: %w", err)
	}

	if resp.StatusCode == http.StatusOK {
		return &Archive{
			Body:        resp.Body,
			Size:        contentLength(resp),
			ContentType: resp.Header.Get("Content-Type"),
			ETag:        resp.Header.Get("ETag"),
		}, nil
	}

	defer func() { _ = resp.Body.Close() }()
	return nil, statusError(resp)
}

// Head checks that an archive exists and returns its metadata without
// downloading it.
func (f *Fetcher) Head(ctx context.Context, rawURL string) (size int64, contentType string, err error) {
	reqURL, err := f.authorize(rawURL)
	if err != nil {
		return 0, "", err
	}
	req, err := f.newRequest(ctx, http.MethodHead, reqURL)
	if err != nil {
		return 0, "", err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		return 0, "", fmt.Errorf("head request: %w", err)
	}
	_ = resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, "", statusError(resp)
	}
	return contentLength(resp), resp.Header.Get("Content-Type"), nil
}

func contentLength(resp *http.Response) int64 {
	if cl := resp.Header.Get("Content-Length"); cl != "" {
		if n, err := strconv.ParseInt(cl, 10, 64); err == nil {
			return n
		}
	}
	return -1
}

func statusError(resp *http.Response) error {
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return ErrUnauthorized
	case resp.StatusCode == http.StatusTooManyRequests:
		return ErrRateLimited
	case resp.StatusCode == http.StatusMethodNotAllowed:
		return ErrMethodNotAllowed
	case resp.StatusCode >= 500:
		return ErrUpstreamDown
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}
}
