// Package modsync keeps a directory of versioned mod archives in step with a
// remote mod catalog.
//
// For each enabled mod in a mod list, the installed version is read from the
// archive names on disk, the latest version from the catalog, and a decision
// is made whether the newer archive must be fetched. Installed copies are
// never downgraded.
//
// Basic usage:
//
//	import (
//		"context"
//		"github.com/git-pkgs/modsync"
//		_ "github.com/git-pkgs/modsync/all"
//	)
//
//	catalog, err := modsync.New("factorio", "", nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	resolver := modsync.NewResolver(catalog)
//	d, err := resolver.Resolve(ctx, modsync.Artifact{Name: "Bottleneck", Enabled: true}, paths)
//	if err != nil {
//		log.Fatal(err)
//	}
//	if d.NeedsFetch() {
//		fmt.Println("fetch", d.Locator, "as", d.Filename())
//	}
package modsync

import (
	"context"

	"github.com/git-pkgs/purl"

	"github.com/git-pkgs/modsync/client"
	"github.com/git-pkgs/modsync/internal/core"
)

// Re-export types from internal/core
type (
	// Catalog is the interface implemented by remote mod catalogs.
	Catalog = core.Catalog

	// Version is a (major, minor, patch) mod version.
	Version = core.Version

	// Artifact is one entry of a mod list.
	Artifact = core.Artifact

	// Listing is a catalog's metadata and release history for one mod.
	Listing = core.Listing

	// Release is one published version of a mod.
	Release = core.Release

	// Decision is the resolved update action for one mod.
	Decision = core.Decision

	// Outcome is UpToDate or FetchNeeded.
	Outcome = core.Outcome

	// MatchPolicy decides which archive files belong to a mod.
	MatchPolicy = core.MatchPolicy

	// Resolver produces a Decision per mod.
	Resolver = core.Resolver
)

// Re-export types from client
type (
	// Client is an HTTP client with retry logic for catalog APIs.
	Client = client.Client

	// URLBuilder constructs URLs for a catalog.
	URLBuilder = client.URLBuilder

	// RateLimiter controls request pacing.
	RateLimiter = client.RateLimiter
)

// Re-export constants
const (
	UpToDate    = core.UpToDate
	FetchNeeded = core.FetchNeeded

	MatchExact     = core.MatchExact
	MatchSubstring = core.MatchSubstring
)

// Re-export errors
var (
	ErrNotFound       = client.ErrNotFound
	ErrInvalidVersion = core.ErrInvalidVersion
	ErrEmptyCatalog   = core.ErrEmptyCatalog
	ErrNoSuchRelease  = core.ErrNoSuchRelease
	ErrConfig         = core.ErrConfig
)

// Error types
type (
	HTTPError          = client.HTTPError
	NotFoundError      = client.NotFoundError
	RateLimitError     = client.RateLimitError
	ParseError         = core.ParseError
	EmptyCatalogError  = core.EmptyCatalogError
	NoSuchReleaseError = core.NoSuchReleaseError
	CatalogFetchError  = core.CatalogFetchError
)

// New creates a catalog client of the given type.
// If baseURL is empty, the default catalog URL is used.
// If c is nil, DefaultClient() is used.
func New(catalog string, baseURL string, c *Client) (Catalog, error) {
	return core.New(catalog, baseURL, c)
}

// DefaultClient returns a client with sensible defaults:
// - 30s timeout
// - 5 retries with exponential backoff
// - Retry on 429 and 5xx responses
func DefaultClient() *Client {
	return client.DefaultClient()
}

// NewClient creates a new client with the given options.
func NewClient(opts ...Option) *Client {
	return client.NewClient(opts...)
}

// Option configures a Client.
type Option = client.Option

// WithTimeout sets the HTTP client timeout.
var WithTimeout = client.WithTimeout

// WithMaxRetries sets the maximum number of retries.
var WithMaxRetries = client.WithMaxRetries

// SupportedCatalogs returns all registered catalog types.
// Note: catalogs must be imported to be registered.
func SupportedCatalogs() []string {
	return core.SupportedCatalogs()
}

// DefaultURL returns the default base URL of a catalog type.
func DefaultURL(catalog string) string {
	return core.DefaultURL(catalog)
}

// BuildURLs returns a map of all non-empty URLs for a mod release.
// Keys are "page", "api", "download", and "purl".
func BuildURLs(urls URLBuilder, name, version, locator string) map[string]string {
	return client.BuildURLs(urls, name, version, locator)
}

// ParseVersion extracts the first M.m.p triple from text.
func ParseVersion(text string) (Version, error) {
	return core.ParseVersion(text)
}

// VersionFromPath extracts a version from an archive file name.
func VersionFromPath(path string) (Version, error) {
	return core.VersionFromPath(path)
}

// NewVersion builds a Version from a literal triple.
func NewVersion(major, minor, patch int) (Version, error) {
	return core.NewVersion(major, minor, patch)
}

// InstalledVersion returns the highest installed version of name among paths,
// or nil.
func InstalledVersion(name string, paths []string, policy MatchPolicy) *Version {
	return core.InstalledVersion(name, paths, policy)
}

// Decide applies the update table to one mod.
func Decide(name string, installed *Version, listing *Listing) (*Decision, error) {
	return core.Decide(name, installed, listing)
}

// NewResolver creates a resolver backed by catalog using exact matching.
func NewResolver(catalog Catalog) *Resolver {
	return core.NewResolver(catalog)
}

// NewResolverWithPolicy creates a resolver with the given match policy.
func NewResolverWithPolicy(catalog Catalog, policy MatchPolicy) *Resolver {
	return core.NewResolver(catalog, core.WithMatchPolicy(policy))
}

// ArtifactFilename returns "<name>_<M.m.p>.zip".
func ArtifactFilename(name string, v Version) string {
	return core.ArtifactFilename(name, v)
}

// PURL represents a parsed Package URL.
type PURL = purl.PURL

// ParsePURL parses a Package URL string into its components.
// Supports both mod PURLs (pkg:factorio/Bottleneck) and release PURLs
// (pkg:factorio/Bottleneck@0.11.7).
func ParsePURL(purlStr string) (*PURL, error) {
	return purl.Parse(purlStr)
}

// NewFromPURL creates a catalog client from a PURL and returns the parsed
// components: the catalog, the mod name, and the version (empty if absent).
func NewFromPURL(purl string, c *Client) (Catalog, string, string, error) {
	return core.NewFromPURL(purl, c)
}

// FetchListingFromPURL fetches a mod's listing using a PURL.
func FetchListingFromPURL(ctx context.Context, purl string, c *Client) (*Listing, error) {
	return core.FetchListingFromPURL(ctx, purl, c)
}

// FetchReleaseFromPURL fetches the release a versioned PURL names.
func FetchReleaseFromPURL(ctx context.Context, purl string, c *Client) (*Release, error) {
	return core.FetchReleaseFromPURL(ctx, purl, c)
}

// FetchLatestVersion returns the newest version a catalog publishes for name.
func FetchLatestVersion(ctx context.Context, catalog Catalog, name string) (*Version, error) {
	return core.FetchLatestVersion(ctx, catalog, name)
}
