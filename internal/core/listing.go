package core

// LatestVersion returns the greatest release version in the listing.
//
// Releases whose number cannot be parsed are ignored. If the listing has no
// releases an *EmptyCatalogError is returned; if it has releases but none
// parse, the last *ParseError is returned.
func (l *Listing) LatestVersion() (Version, error) {
	if len(l.Releases) == 0 {
		return Version{}, &EmptyCatalogError{Name: l.Name}
	}

	var (
		versions []Version
		lastErr  error
	)
	for _, r := range l.Releases {
		v, err := r.Version()
		if err != nil {
			lastErr = err
			continue
		}
		versions = append(versions, v)
	}

	latest, ok := MaxVersion(versions...)
	if !ok {
		return Version{}, lastErr
	}
	return latest, nil
}

// Release returns the first release whose version equals v.
func (l *Listing) Release(v Version) (*Release, error) {
	for i := range l.Releases {
		rv, err := l.Releases[i].Version()
		if err != nil {
			continue
		}
		if rv.Equal(v) {
			return &l.Releases[i], nil
		}
	}
	return nil, &NoSuchReleaseError{Name: l.Name, Version: v}
}

// ReleaseURL returns the download locator of the release with version v.
func (l *Listing) ReleaseURL(v Version) (string, error) {
	r, err := l.Release(v)
	if err != nil {
		return "", err
	}
	return r.DownloadURL, nil
}

// LatestRelease returns the release carrying LatestVersion.
func (l *Listing) LatestRelease() (*Release, error) {
	v, err := l.LatestVersion()
	if err != nil {
		return nil, err
	}
	return l.Release(v)
}

// LatestURL returns the download locator of the latest release.
func (l *Listing) LatestURL() (string, error) {
	v, err := l.LatestVersion()
	if err != nil {
		return "", err
	}
	return l.ReleaseURL(v)
}
