package core

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Catalog is the interface implemented by remote mod catalogs.
type Catalog interface {
	// Name returns the catalog type, also used as the PURL type (e.g. "factorio").
	Name() string

	// FetchListing retrieves the metadata and release history of a mod.
	FetchListing(ctx context.Context, name string) (*Listing, error)

	// URLs returns the URL builder for this catalog.
	URLs() URLBuilder
}

// Factory creates a catalog instance for a given base URL.
type Factory func(baseURL string, client *Client) Catalog

var (
	factories = make(map[string]Factory)
	defaults  = make(map[string]string)
	mu        sync.RWMutex
)

// Register adds a catalog factory under the given type name.
// defaultURL is used when New is called with an empty base URL.
func Register(catalog string, defaultURL string, factory Factory) {
	mu.Lock()
	defer mu.Unlock()
	factories[catalog] = factory
	defaults[catalog] = defaultURL
}

// New creates a catalog client of the given type.
// If baseURL is empty, the default catalog URL is used.
func New(catalog string, baseURL string, client *Client) (Catalog, error) {
	mu.RLock()
	factory, ok := factories[catalog]
	defaultURL := defaults[catalog]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("unknown catalog: %s", catalog)
	}

	if baseURL == "" {
		baseURL = defaultURL
	}

	if client == nil {
		client = DefaultClient()
	}

	return factory(baseURL, client), nil
}

// SupportedCatalogs returns all registered catalog types, sorted.
func SupportedCatalogs() []string {
	mu.RLock()
	defer mu.RUnlock()

	catalogs := make([]string, 0, len(factories))
	for c := range factories {
		catalogs = append(catalogs, c)
	}
	sort.Strings(catalogs)
	return catalogs
}

// DefaultURL returns the default base URL for a catalog type.
func DefaultURL(catalog string) string {
	mu.RLock()
	defer mu.RUnlock()
	return defaults[catalog]
}
