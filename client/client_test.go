package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestGetJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Accept"); got != "application/json" {
			t.Errorf("Accept = %q, want application/json", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"name":"Bottleneck"}`))
	}))
	defer server.Close()

	var resp struct {
		Name string `json:"name"`
	}
	if err := DefaultClient().GetJSON(context.Background(), server.URL, &resp); err != nil {
		t.Fatalf("GetJSON failed: %v", err)
	}
	if resp.Name != "Bottleneck" {
		t.Errorf("Name = %q, want %q", resp.Name, "Bottleneck")
	}
}

func TestGetJSONDecodeError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer server.Close()

	var resp map[string]any
	if err := DefaultClient().GetJSON(context.Background(), server.URL, &resp); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestGetBodyRetriesServerErrors(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	c := NewClient(WithBaseDelay(time.Millisecond))
	body, err := c.GetBody(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("GetBody failed: %v", err)
	}
	if string(body) != "ok" {
		t.Errorf("body = %q, want %q", body, "ok")
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestGetBodyRetriesRateLimit(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	c := NewClient(WithBaseDelay(time.Millisecond))
	if _, err := c.GetBody(context.Background(), server.URL); err != nil {
		t.Fatalf("GetBody failed: %v", err)
	}
	if attempts != 2 {
		t.Errorf("attempts = %d, want 2", attempts)
	}
}

func TestGetBodyDoesNotRetryClientErrors(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	c := NewClient(WithBaseDelay(time.Millisecond))
	_, err := c.GetBody(context.Background(), server.URL)

	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected *HTTPError, got %v", err)
	}
	if !httpErr.IsNotFound() {
		t.Errorf("StatusCode = %d, want 404", httpErr.StatusCode)
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1", attempts)
	}
}

func TestGetBodyMaxRetries(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	c := NewClient(WithMaxRetries(2), WithBaseDelay(time.Millisecond))
	_, err := c.GetBody(context.Background(), server.URL)

	var httpErr *HTTPError
	if !errors.As(err, &httpErr) || httpErr.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 HTTPError, got %v", err)
	}
	// Initial attempt + 2 retries
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestWithUserAgentCopies(t *testing.T) {
	base := DefaultClient()
	custom := base.WithUserAgent("custom/1.0")

	if base.UserAgent != "modsync" {
		t.Errorf("base UserAgent = %q, want %q", base.UserAgent, "modsync")
	}
	if custom.UserAgent != "custom/1.0" {
		t.Errorf("custom UserAgent = %q, want %q", custom.UserAgent, "custom/1.0")
	}
}

func TestNotFoundErrorUnwrap(t *testing.T) {
	err := &NotFoundError{Catalog: "factorio", Name: "Bottleneck"}
	if !errors.Is(err, ErrNotFound) {
		t.Error("NotFoundError should match ErrNotFound")
	}
	if err.Error() != "factorio: mod Bottleneck not found" {
		t.Errorf("Error() = %q", err.Error())
	}

	withVersion := &NotFoundError{Catalog: "factorio", Name: "Bottleneck", Version: "1.0.0"}
	if withVersion.Error() != "factorio: mod Bottleneck version 1.0.0 not found" {
		t.Errorf("Error() = %q", withVersion.Error())
	}
}

func TestBuildURLs(t *testing.T) {
	urls := &BaseURLs{
		PageFn:     func(name string) string { return "https://example.test/mod/" + name },
		DownloadFn: func(locator string) string { return "https://example.test" + locator },
	}

	got := BuildURLs(urls, "Bottleneck", "1.0.0", "/download/Bottleneck/1")
	want := map[string]string{
		"page":     "https://example.test/mod/Bottleneck",
		"download": "https://example.test/download/Bottleneck/1",
		"purl":     "pkg:generic/Bottleneck@1.0.0",
	}
	if len(got) != len(want) {
		t.Fatalf("BuildURLs = %v, want %v", got, want)
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("BuildURLs[%q] = %q, want %q", k, got[k], v)
		}
	}
}
