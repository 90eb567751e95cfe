package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"regexp"
	"strconv"
)

// versionPattern matches the first dotted numeric triple in a string.
var versionPattern = regexp.MustCompile(`(\d+)\.(\d+)\.(\d+)`)

// VersionSource records which constructor produced a Version.
type VersionSource int

const (
	SourceTuple VersionSource = iota
	SourceText
	SourcePath
)

func (s VersionSource) String() string {
	switch s {
	case SourceTuple:
		return "tuple"
	case SourceText:
		return "text"
	case SourcePath:
		return "path"
	default:
		return "unknown"
	}
}

// Version is a mod version: a (major, minor, patch) triple where each
// component fits a signed 8-bit integer.
//
// Two versions are equal when their triples are equal; the source and raw
// text are kept for reporting only. Use Equal and Compare rather than ==.
type Version struct {
	major, minor, patch int8

	source VersionSource
	raw    string
}

// NewVersion builds a Version from a literal triple.
func NewVersion(major, minor, patch int) (Version, error) {
	parts := [3]int{major, minor, patch}
	var out [3]int8
	for i, p := range parts {
		if p < 0 || p > math.MaxInt8 {
			return Version{}, &ParseError{
				Input:  fmt.Sprintf("(%d, %d, %d)", major, minor, patch),
				Source: SourceTuple,
				Err:    fmt.Errorf("component %d out of range", p),
			}
		}
		out[i] = int8(p)
	}
	v := Version{major: out[0], minor: out[1], patch: out[2], source: SourceTuple}
	v.raw = v.String()
	return v, nil
}

// MustVersion is like NewVersion but panics on error.
func MustVersion(major, minor, patch int) Version {
	v, err := NewVersion(major, minor, patch)
	if err != nil {
		panic(err)
	}
	return v
}

// ParseVersion extracts the first M.m.p triple found anywhere in text.
func ParseVersion(text string) (Version, error) {
	return parse(text, text, SourceText)
}

// VersionFromPath extracts a version from the file name of path, e.g.
// "mods/Bottleneck_0.11.7.zip". Directory components are ignored.
func VersionFromPath(path string) (Version, error) {
	return parse(path, filepath.Base(path), SourcePath)
}

func parse(input, subject string, source VersionSource) (Version, error) {
	m := versionPattern.FindStringSubmatch(subject)
	if m == nil {
		return Version{}, &ParseError{Input: input, Source: source, Err: errNoVersionPattern}
	}

	var parts [3]int8
	for i := range parts {
		n, err := strconv.ParseInt(m[i+1], 10, 8)
		if err != nil {
			return Version{}, &ParseError{Input: input, Source: source, Err: err}
		}
		parts[i] = int8(n)
	}

	return Version{
		major:  parts[0],
		minor:  parts[1],
		patch:  parts[2],
		source: source,
		raw:    input,
	}, nil
}

var errNoVersionPattern = errors.New("no M.m.p version pattern")

func (v Version) Major() int { return int(v.major) }
func (v Version) Minor() int { return int(v.minor) }
func (v Version) Patch() int { return int(v.patch) }

// Tuple returns the numeric components.
func (v Version) Tuple() (major, minor, patch int) {
	return int(v.major), int(v.minor), int(v.patch)
}

// Source reports how the version was constructed.
func (v Version) Source() VersionSource { return v.source }

// Raw returns the input the version was parsed from.
func (v Version) Raw() string { return v.raw }

// String returns the canonical "M.m.p" rendering.
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.major, v.minor, v.patch)
}

// Compare returns -1, 0 or +1 depending on whether a sorts before, equal to,
// or after b.
func Compare(a, b Version) int {
	switch {
	case a.major != b.major:
		return cmpInt8(a.major, b.major)
	case a.minor != b.minor:
		return cmpInt8(a.minor, b.minor)
	default:
		return cmpInt8(a.patch, b.patch)
	}
}

func cmpInt8(a, b int8) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func (v Version) Compare(other Version) int { return Compare(v, other) }
func (v Version) Less(other Version) bool   { return Compare(v, other) < 0 }
func (v Version) Equal(other Version) bool  { return Compare(v, other) == 0 }

// MaxVersion returns the greatest of vs, or false if vs is empty.
func MaxVersion(vs ...Version) (Version, bool) {
	var best Version
	for i, v := range vs {
		if i == 0 || best.Less(v) {
			best = v
		}
	}
	return best, len(vs) > 0
}

func (v Version) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.String())
}

func (v *Version) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseVersion(s)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
