package core

import (
	"fmt"
	"path/filepath"
	"strings"
)

// MatchPolicy decides which local archives belong to a mod name.
type MatchPolicy int

const (
	// MatchExact requires the file name up to the last "_" to equal the mod
	// name, so "Bottleneck" does not claim "BottleneckLite_1.0.0.zip".
	MatchExact MatchPolicy = iota

	// MatchSubstring accepts any path containing the mod name.
	MatchSubstring
)

func (p MatchPolicy) String() string {
	switch p {
	case MatchExact:
		return "exact"
	case MatchSubstring:
		return "substring"
	default:
		return fmt.Sprintf("MatchPolicy(%d)", int(p))
	}
}

// ParseMatchPolicy converts "exact" or "substring" to a MatchPolicy.
func ParseMatchPolicy(s string) (MatchPolicy, error) {
	switch strings.ToLower(s) {
	case "", "exact":
		return MatchExact, nil
	case "substring":
		return MatchSubstring, nil
	default:
		return MatchExact, fmt.Errorf("unknown match policy %q", s)
	}
}

// Matches reports whether path belongs to the mod called name.
func (p MatchPolicy) Matches(name, path string) bool {
	if p == MatchSubstring {
		return strings.Contains(path, name)
	}

	base := filepath.Base(path)
	i := strings.LastIndex(base, "_")
	if i < 0 {
		return false
	}
	return base[:i] == name
}

// VersionOf extracts the version of an archive matched under the policy.
// Exact matching reads only the text after the last "_", so a digit triple
// inside the mod name ("Mod1.2.3x_2.0.0.zip") is not taken as the version.
func (p MatchPolicy) VersionOf(path string) (Version, error) {
	if p == MatchSubstring {
		return VersionFromPath(path)
	}
	base := filepath.Base(path)
	return parse(path, base[strings.LastIndex(base, "_")+1:], SourcePath)
}

// InstalledFiles returns the paths that belong to name under the policy.
func InstalledFiles(name string, paths []string, policy MatchPolicy) []string {
	var matched []string
	for _, p := range paths {
		if policy.Matches(name, p) {
			matched = append(matched, p)
		}
	}
	return matched
}

// InstalledVersion returns the highest version among the archives belonging
// to name, or nil if none match or none carry a parsable version.
func InstalledVersion(name string, paths []string, policy MatchPolicy) *Version {
	var versions []Version
	for _, p := range InstalledFiles(name, paths, policy) {
		v, err := policy.VersionOf(p)
		if err != nil {
			continue
		}
		versions = append(versions, v)
	}

	latest, ok := MaxVersion(versions...)
	if !ok {
		return nil
	}
	return &latest
}
