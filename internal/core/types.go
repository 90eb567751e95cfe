// Package core provides the version model, the catalog registry and the
// update decision engine.
package core

import (
	"fmt"
	"time"
)

// ArchiveExt is the file extension of installed mod archives.
const ArchiveExt = ".zip"

// Artifact is one entry of the desired mod list.
type Artifact struct {
	Name    string
	Enabled bool
	Version string // declared version constraint, informational only
}

// Listing is a catalog's metadata for one mod.
type Listing struct {
	Name     string
	Title    string
	Summary  string
	Owner    string
	Releases []Release
	Metadata map[string]any // catalog-specific data
}

// Release is one published version of a mod.
type Release struct {
	Number      string // version as published by the catalog
	DownloadURL string // opaque locator, usually relative to the catalog URL
	FileName    string
	SHA1        string
	ReleasedAt  time.Time
	GameVersion string
}

// Version parses the release's version number.
func (r Release) Version() (Version, error) {
	return ParseVersion(r.Number)
}

// Outcome is the result of resolving one artifact.
type Outcome int

const (
	UpToDate Outcome = iota
	FetchNeeded
)

func (o Outcome) String() string {
	switch o {
	case UpToDate:
		return "up to date"
	case FetchNeeded:
		return "fetch"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// InstallState describes what was found locally before deciding.
type InstallState int

const (
	NotInstalled InstallState = iota
	Installed
)

func (s InstallState) String() string {
	if s == Installed {
		return "installed"
	}
	return "not installed"
}

// Decision is the resolved update action for one artifact.
type Decision struct {
	Name      string
	Installed *Version // nil when no local archive matched
	Latest    Version
	Outcome   Outcome
	Release   *Release // the latest release; set when Outcome is FetchNeeded
	Locator   string   // download locator of Release
}

// State reports whether an installed copy was found.
func (d *Decision) State() InstallState {
	if d.Installed == nil {
		return NotInstalled
	}
	return Installed
}

// NeedsFetch reports whether the latest release must be downloaded.
func (d *Decision) NeedsFetch() bool {
	return d.Outcome == FetchNeeded
}

// Reason explains the outcome in a few words.
func (d *Decision) Reason() string {
	switch {
	case d.Installed == nil:
		return "not installed"
	case d.Outcome == FetchNeeded:
		return "update available"
	case d.Latest.Less(*d.Installed):
		return "local copy newer than catalog"
	default:
		return "up to date"
	}
}

// Filename returns the archive name the decision's release is stored under.
func (d *Decision) Filename() string {
	return ArtifactFilename(d.Name, d.Latest)
}

// ArtifactFilename returns the archive file name for a mod version,
// "<name>_<major>.<minor>.<patch>.zip".
func ArtifactFilename(name string, v Version) string {
	return fmt.Sprintf("%s_%s%s", name, v, ArchiveExt)
}
