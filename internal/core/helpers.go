package core

import "context"

// FetchLatestVersion returns the newest version a catalog publishes for name.
func FetchLatestVersion(ctx context.Context, c Catalog, name string) (*Version, error) {
	listing, err := c.FetchListing(ctx, name)
	if err != nil {
		return nil, err
	}

	v, err := listing.LatestVersion()
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// Enabled returns the enabled entries of artifacts, in order.
func Enabled(artifacts []Artifact) []Artifact {
	var out []Artifact
	for _, a := range artifacts {
		if a.Enabled {
			out = append(out, a)
		}
	}
	return out
}
