package fetch

import (
	"errors"
	"net/url"
	"path"

	"github.com/git-pkgs/modsync/client"
)

var ErrNoDownloadURL = errors.New("no download URL available")

// Resolver turns release locators into absolute download URLs.
type Resolver struct {
	urls client.URLBuilder
}

// NewResolver creates a resolver backed by a catalog's URL builder.
func NewResolver(urls client.URLBuilder) *Resolver {
	return &Resolver{urls: urls}
}

// Resolve returns the absolute URL for locator. Absolute locators are
// returned unchanged.
func (r *Resolver) Resolve(locator string) (string, error) {
	if locator == "" {
		return "", ErrNoDownloadURL
	}
	if u, err := url.Parse(locator); err == nil && u.IsAbs() {
		return locator, nil
	}
	if r.urls == nil {
		return "", ErrNoDownloadURL
	}
	if resolved := r.urls.Download(locator); resolved != "" {
		return resolved, nil
	}
	return "", ErrNoDownloadURL
}

// FilenameFromURL returns the last path element of rawURL, ignoring any
// query string.
func FilenameFromURL(rawURL string) string {
	if u, err := url.Parse(rawURL); err == nil && u.Path != "" {
		return path.Base(u.Path)
	}
	return path.Base(rawURL)
}
