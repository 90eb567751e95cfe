package client

import "fmt"

// URLBuilder constructs URLs for a catalog.
type URLBuilder interface {
	// Page returns the human-facing page of a mod.
	Page(name string) string
	// API returns the listing endpoint of a mod.
	API(name string) string
	// Download turns a release locator into an absolute download URL.
	Download(locator string) string
	// PURL returns the package URL of a mod release.
	PURL(name, version string) string
}

// BaseURLs provides a default URLBuilder implementation.
type BaseURLs struct {
	PageFn     func(name string) string
	APIFn      func(name string) string
	DownloadFn func(locator string) string
	PURLFn     func(name, version string) string
}

func (b *BaseURLs) Page(name string) string {
	if b.PageFn != nil {
		return b.PageFn(name)
	}
	return ""
}

func (b *BaseURLs) API(name string) string {
	if b.APIFn != nil {
		return b.APIFn(name)
	}
	return ""
}

func (b *BaseURLs) Download(locator string) string {
	if b.DownloadFn != nil {
		return b.DownloadFn(locator)
	}
	return ""
}

func (b *BaseURLs) PURL(name, version string) string {
	if b.PURLFn != nil {
		return b.PURLFn(name, version)
	}
	if version == "" {
		return fmt.Sprintf("pkg:%s/%s", "generic", name)
	}
	return fmt.Sprintf("pkg:%s/%s@%s", "generic", name, version)
}

// BuildURLs returns a map of all non-empty URLs for a mod release.
// Keys are "page", "api", "download", and "purl".
func BuildURLs(urls URLBuilder, name, version, locator string) map[string]string {
	result := make(map[string]string)
	if v := urls.Page(name); v != "" {
		result["page"] = v
	}
	if v := urls.API(name); v != "" {
		result["api"] = v
	}
	if locator != "" {
		if v := urls.Download(locator); v != "" {
			result["download"] = v
		}
	}
	if v := urls.PURL(name, version); v != "" {
		result["purl"] = v
	}
	return result
}
