package core

import (
	"errors"
	"fmt"

	"github.com/git-pkgs/modsync/client"
)

var (
	// ErrInvalidVersion is matched by every *ParseError.
	ErrInvalidVersion = errors.New("invalid version")

	// ErrEmptyCatalog is returned when a listing has no releases.
	ErrEmptyCatalog = errors.New("catalog listing has no releases")

	// ErrNoSuchRelease is returned when no release carries the requested version.
	ErrNoSuchRelease = errors.New("no such release")

	// ErrConfig is matched by every *ConfigError.
	ErrConfig = errors.New("invalid configuration")

	// ErrNotFound is returned when a mod is unknown to the catalog.
	ErrNotFound = client.ErrNotFound
)

// HTTP error types live in client and are aliased here for catalog implementations.
type (
	HTTPError      = client.HTTPError
	NotFoundError  = client.NotFoundError
	RateLimitError = client.RateLimitError
)

// ParseError is returned when no version can be read from an input.
type ParseError struct {
	Input  string
	Source VersionSource
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing version from %s %q: %v", e.Source, e.Input, e.Err)
}

func (e *ParseError) Unwrap() []error {
	return []error{ErrInvalidVersion, e.Err}
}

// EmptyCatalogError is returned by Listing queries on a listing with no releases.
type EmptyCatalogError struct {
	Name string
}

func (e *EmptyCatalogError) Error() string {
	return fmt.Sprintf("%s: catalog listing has no releases", e.Name)
}

func (e *EmptyCatalogError) Unwrap() error {
	return ErrEmptyCatalog
}

// NoSuchReleaseError is returned when an exact version lookup misses.
type NoSuchReleaseError struct {
	Name    string
	Version Version
}

func (e *NoSuchReleaseError) Error() string {
	return fmt.Sprintf("%s: no release with version %s", e.Name, e.Version)
}

func (e *NoSuchReleaseError) Unwrap() error {
	return ErrNoSuchRelease
}

// CatalogFetchError wraps a failure to retrieve or decode a listing.
type CatalogFetchError struct {
	Catalog string
	Name    string
	Err     error
}

func (e *CatalogFetchError) Error() string {
	return fmt.Sprintf("%s: fetching listing for %s: %v", e.Catalog, e.Name, e.Err)
}

func (e *CatalogFetchError) Unwrap() error {
	return e.Err
}

// ConfigError is returned when a configuration document is missing or malformed.
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config %s: %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() []error {
	return []error{ErrConfig, e.Err}
}
