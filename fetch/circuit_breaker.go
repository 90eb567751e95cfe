package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/cenk/backoff"
	circuit "github.com/rubyist/circuitbreaker"
)

// CircuitBreakerFetcher wraps a Source with one circuit breaker per download
// host. Only transport failures and upstream outages count against a
// breaker; a missing archive or rejected credentials do not.
type CircuitBreakerFetcher struct {
	source    Source
	threshold int64
	breakers  map[string]*circuit.Breaker
	mu        sync.RWMutex
}

// NewCircuitBreakerFetcher wraps source. A breaker trips after threshold
// consecutive failures; threshold <= 0 uses 5.
func NewCircuitBreakerFetcher(source Source, threshold int64) *CircuitBreakerFetcher {
	if threshold <= 0 {
		threshold = 5
	}
	return &CircuitBreakerFetcher{
		source:    source,
		threshold: threshold,
		breakers:  make(map[string]*circuit.Breaker),
	}
}

func (cbf *CircuitBreakerFetcher) breaker(host string) *circuit.Breaker {
	cbf.mu.RLock()
	b, ok := cbf.breakers[host]
	cbf.mu.RUnlock()
	if ok {
		return b
	}

	cbf.mu.Lock()
	defer cbf.mu.Unlock()
	if b, ok := cbf.breakers[host]; ok {
		return b
	}

	reset := backoff.NewExponentialBackOff()
	reset.InitialInterval = 30 * time.Second
	reset.MaxInterval = 5 * time.Minute
	reset.Multiplier = 2.0
	reset.Reset()

	b = circuit.NewBreakerWithOptions(&circuit.Options{
		BackOff:    reset,
		ShouldTrip: circuit.ThresholdTripFunc(cbf.threshold),
	})
	cbf.breakers[host] = b
	return b
}

// countsAgainstHost reports whether err says something about the host's
// health rather than about the requested archive.
func countsAgainstHost(err error) bool {
	return err != nil &&
		!errors.Is(err, ErrNotFound) &&
		!errors.Is(err, ErrUnauthorized) &&
		!errors.Is(err, ErrMethodNotAllowed) &&
		!errors.Is(err, context.Canceled)
}

// call runs op under the breaker for rawURL's host.
func (cbf *CircuitBreakerFetcher) call(rawURL string, op func() error) error {
	host := hostOf(rawURL)
	b := cbf.breaker(host)
	if !b.Ready() {
		return fmt.Errorf("circuit breaker open for %s: %w", host, ErrUpstreamDown)
	}

	var opErr error
	err := b.Call(func() error {
		opErr = op()
		if countsAgainstHost(opErr) {
			return opErr
		}
		return nil
	}, 0)
	if opErr != nil {
		return opErr
	}
	return err
}

// Fetch opens a download through the host's breaker.
func (cbf *CircuitBreakerFetcher) Fetch(ctx context.Context, fetchURL string) (*Archive, error) {
	var archive *Archive
	err := cbf.call(fetchURL, func() error {
		var err error
		archive, err = cbf.source.Fetch(ctx, fetchURL)
		return err
	})
	if err != nil {
		return nil, err
	}
	return archive, nil
}

// Head checks an archive through the host's breaker.
func (cbf *CircuitBreakerFetcher) Head(ctx context.Context, headURL string) (size int64, contentType string, err error) {
	err = cbf.call(headURL, func() error {
		var err error
		size, contentType, err = cbf.source.Head(ctx, headURL)
		return err
	})
	return size, contentType, err
}

// hostOf groups URLs by host; unparsable input is used as its own key.
func hostOf(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		if len(rawURL) > 50 {
			return rawURL[:50]
		}
		return rawURL
	}
	return parsed.Host
}

// BreakerState returns "open" or "closed" for every host seen so far.
func (cbf *CircuitBreakerFetcher) BreakerState() map[string]string {
	cbf.mu.RLock()
	defer cbf.mu.RUnlock()

	states := make(map[string]string, len(cbf.breakers))
	for host, b := range cbf.breakers {
		if b.Tripped() {
			states[host] = "open"
		} else {
			states[host] = "closed"
		}
	}
	return states
}
