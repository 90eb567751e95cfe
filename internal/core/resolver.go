package core

import (
	"context"
	"errors"
)

// Decide applies the update table to one mod:
//
//	installed == nil          -> FetchNeeded(latest)
//	installed <  latest       -> FetchNeeded(latest)
//	installed >= latest       -> UpToDate
//
// A local copy newer than the catalog is never downgraded.
func Decide(name string, installed *Version, listing *Listing) (*Decision, error) {
	latest, err := listing.LatestVersion()
	if err != nil {
		return nil, err
	}

	d := &Decision{
		Name:      name,
		Installed: installed,
		Latest:    latest,
		Outcome:   UpToDate,
	}
	if installed != nil && !installed.Less(latest) {
		return d, nil
	}

	release, err := listing.Release(latest)
	if err != nil {
		return nil, err
	}
	d.Outcome = FetchNeeded
	d.Release = release
	d.Locator = release.DownloadURL
	return d, nil
}

// Resolver decides, one mod at a time, whether a newer archive is needed.
type Resolver struct {
	catalog Catalog
	policy  MatchPolicy
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithMatchPolicy sets how local archives are matched to mod names.
func WithMatchPolicy(p MatchPolicy) ResolverOption {
	return func(r *Resolver) {
		r.policy = p
	}
}

// NewResolver creates a resolver backed by the given catalog.
func NewResolver(c Catalog, opts ...ResolverOption) *Resolver {
	r := &Resolver{catalog: c, policy: MatchExact}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Catalog returns the catalog the resolver queries.
func (r *Resolver) Catalog() Catalog {
	return r.catalog
}

// Policy returns the resolver's match policy.
func (r *Resolver) Policy() MatchPolicy {
	return r.policy
}

// Resolve fetches the listing for a and compares it with the archives in
// paths. Listing failures are returned as *CatalogFetchError.
func (r *Resolver) Resolve(ctx context.Context, a Artifact, paths []string) (*Decision, error) {
	listing, err := r.catalog.FetchListing(ctx, a.Name)
	if err != nil {
		var fetchErr *CatalogFetchError
		if errors.As(err, &fetchErr) {
			return nil, err
		}
		return nil, &CatalogFetchError{Catalog: r.catalog.Name(), Name: a.Name, Err: err}
	}

	installed := InstalledVersion(a.Name, paths, r.policy)
	return Decide(a.Name, installed, listing)
}
