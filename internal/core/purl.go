package core

import (
	"context"
	"fmt"

	packageurl "github.com/package-url/packageurl-go"
)

// PURL wraps packageurl.PackageURL with catalog helpers.
type PURL struct {
	packageurl.PackageURL
}

// FullName returns the mod name as the catalog expects it.
func (p PURL) FullName() string {
	if p.Namespace == "" {
		return p.Name
	}
	return p.Namespace + "/" + p.Name
}

// ArtifactPURL returns the package URL of a mod release, e.g.
// "pkg:factorio/Bottleneck@0.11.7". version may be empty.
func ArtifactPURL(catalog, name, version string) string {
	return packageurl.NewPackageURL(catalog, "", name, version, nil, "").ToString()
}

// ParsePURL parses a Package URL string into its components.
// Supports both mod PURLs (pkg:factorio/Bottleneck) and release PURLs
// (pkg:factorio/Bottleneck@0.11.7).
func ParsePURL(purl string) (*PURL, error) {
	p, err := packageurl.FromString(purl)
	if err != nil {
		return nil, err
	}
	return &PURL{p}, nil
}

// NewFromPURL creates a catalog client from a PURL and returns the parsed components.
// Returns the catalog, mod name, and version (empty if not in PURL).
// A repository_url qualifier overrides the catalog's default base URL.
func NewFromPURL(purl string, client *Client) (Catalog, string, string, error) {
	p, err := ParsePURL(purl)
	if err != nil {
		return nil, "", "", err
	}

	baseURL := p.Qualifiers.Map()["repository_url"]

	c, err := New(p.Type, baseURL, client)
	if err != nil {
		return nil, "", "", err
	}

	return c, p.FullName(), p.Version, nil
}

// FetchListingFromPURL fetches a mod listing using a PURL.
func FetchListingFromPURL(ctx context.Context, purl string, client *Client) (*Listing, error) {
	c, name, _, err := NewFromPURL(purl, client)
	if err != nil {
		return nil, err
	}
	return c.FetchListing(ctx, name)
}

// FetchReleaseFromPURL fetches a specific release using a PURL.
// Returns an error if the PURL doesn't include a version.
func FetchReleaseFromPURL(ctx context.Context, purl string, client *Client) (*Release, error) {
	c, name, version, err := NewFromPURL(purl, client)
	if err != nil {
		return nil, err
	}

	if version == "" {
		return nil, fmt.Errorf("PURL has no version: %s", purl)
	}

	v, err := ParseVersion(version)
	if err != nil {
		return nil, err
	}

	listing, err := c.FetchListing(ctx, name)
	if err != nil {
		return nil, err
	}

	r, err := listing.Release(v)
	if err != nil {
		return nil, &NotFoundError{Catalog: c.Name(), Name: name, Version: version}
	}
	return r, nil
}
