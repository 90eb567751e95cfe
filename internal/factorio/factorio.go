// Package factorio provides a catalog client for the Factorio mod portal.
package factorio

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/git-pkgs/modsync/internal/core"
)

const (
	DefaultURL = "https://mods.factorio.com"
	catalog    = "factorio"
)

func init() {
	core.Register(catalog, DefaultURL, func(baseURL string, client *core.Client) core.Catalog {
		return New(baseURL, client)
	})
}

type Catalog struct {
	baseURL string
	client  *core.Client
	urls    *URLs
}

func New(baseURL string, client *core.Client) *Catalog {
	if baseURL == "" {
		baseURL = DefaultURL
	}
	if client == nil {
		client = core.DefaultClient()
	}
	c := &Catalog{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  client,
	}
	c.urls = &URLs{baseURL: c.baseURL}
	return c
}

func (c *Catalog) Name() string {
	return catalog
}

func (c *Catalog) URLs() core.URLBuilder {
	return c.urls
}

type modResponse struct {
	Name           string        `json:"name"`
	Title          string        `json:"title"`
	Summary        string        `json:"summary"`
	Owner          string        `json:"owner"`
	Category       string        `json:"category"`
	DownloadsCount int           `json:"downloads_count"`
	Releases       []releaseInfo `json:"releases"`
}

type releaseInfo struct {
	DownloadURL string   `json:"download_url"`
	FileName    string   `json:"file_name"`
	InfoJSON    infoJSON `json:"info_json"`
	ReleasedAt  string   `json:"released_at"`
	Version     string   `json:"version"`
	SHA1        string   `json:"sha1"`
}

type infoJSON struct {
	FactorioVersion string `json:"factorio_version"`
}

func (c *Catalog) FetchListing(ctx context.Context, name string) (*core.Listing, error) {
	var resp modResponse
	if err := c.client.GetJSON(ctx, c.urls.API(name), &resp); err != nil {
		var httpErr *core.HTTPError
		if errors.As(err, &httpErr) && httpErr.IsNotFound() {
			return nil, &core.NotFoundError{Catalog: catalog, Name: name}
		}
		return nil, err
	}

	releases := make([]core.Release, 0, len(resp.Releases))
	for _, r := range resp.Releases {
		var releasedAt time.Time
		if r.ReleasedAt != "" {
			releasedAt, _ = time.Parse(time.RFC3339Nano, r.ReleasedAt)
		}
		releases = append(releases, core.Release{
			Number:      r.Version,
			DownloadURL: r.DownloadURL,
			FileName:    r.FileName,
			SHA1:        r.SHA1,
			ReleasedAt:  releasedAt,
			GameVersion: r.InfoJSON.FactorioVersion,
		})
	}

	return &core.Listing{
		Name:     resp.Name,
		Title:    resp.Title,
		Summary:  resp.Summary,
		Owner:    resp.Owner,
		Releases: releases,
		Metadata: map[string]any{
			"category":  resp.Category,
			"downloads": resp.DownloadsCount,
		},
	}, nil
}

type URLs struct {
	baseURL string
}

func (u *URLs) Page(name string) string {
	return fmt.Sprintf("%s/mod/%s", u.baseURL, url.PathEscape(name))
}

func (u *URLs) API(name string) string {
	return fmt.Sprintf("%s/api/mods/%s", u.baseURL, url.PathEscape(name))
}

// Download resolves a release locator against the portal. Locators are
// normally relative ("/download/Bottleneck/5cc20d63e4ed41000b88d4d9");
// absolute URLs are returned unchanged.
func (u *URLs) Download(locator string) string {
	if locator == "" {
		return ""
	}
	if ref, err := url.Parse(locator); err == nil && ref.IsAbs() {
		return locator
	}
	base, err := url.Parse(u.baseURL + "/")
	if err != nil {
		return ""
	}
	ref, err := url.Parse(locator)
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}

func (u *URLs) PURL(name, version string) string {
	return core.ArtifactPURL(catalog, name, version)
}
