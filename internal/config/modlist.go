// Package config loads the desired mod list, portal credentials and tool settings.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/xeipuuv/gojsonschema"

	"github.com/git-pkgs/modsync/internal/core"
)

const modListSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["mods"],
  "properties": {
    "mods": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["name", "enabled"],
        "properties": {
          "name": {"type": "string", "minLength": 1},
          "enabled": {"type": "boolean"},
          "version": {"type": "string"}
        }
      }
    }
  }
}`

var modListSchemaLoader = gojsonschema.NewStringLoader(modListSchema)

type modListDocument struct {
	Mods []modEntry `json:"mods"`
}

type modEntry struct {
	Name    string `json:"name"`
	Enabled bool   `json:"enabled"`
	Version string `json:"version,omitempty"`
}

// ModList is the desired state read from a mod-list.json document.
type ModList struct {
	Path string
	Mods []core.Artifact
}

// LoadModList reads and validates the mod list at path. Any failure is a
// *core.ConfigError.
func LoadModList(fs billy.Basic, path string) (*ModList, error) {
	data, err := util.ReadFile(fs, path)
	if err != nil {
		return nil, &core.ConfigError{Path: path, Err: err}
	}
	return ParseModList(path, data)
}

// ParseModList validates and decodes a mod list document.
func ParseModList(path string, data []byte) (*ModList, error) {
	result, err := gojsonschema.Validate(modListSchemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, &core.ConfigError{Path: path, Err: fmt.Errorf("malformed JSON: %w", err)}
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return nil, &core.ConfigError{Path: path, Err: errors.New(strings.Join(msgs, "; "))}
	}

	var doc modListDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &core.ConfigError{Path: path, Err: err}
	}

	list := &ModList{Path: path, Mods: make([]core.Artifact, 0, len(doc.Mods))}
	// Version is informational. An unparsable constraint is kept verbatim and
	// reported when the mod is checked, so one bad entry does not block the rest.
	for _, m := range doc.Mods {
		list.Mods = append(list.Mods, core.Artifact{
			Name:    m.Name,
			Enabled: m.Enabled,
			Version: m.Version,
		})
	}
	return list, nil
}

// Enabled returns the enabled mods in declared order.
func (l *ModList) Enabled() []core.Artifact {
	return core.Enabled(l.Mods)
}

// Satisfies reports whether v meets a mod's declared version constraint.
// An empty constraint is always satisfied.
func Satisfies(declared string, v core.Version) (bool, error) {
	if declared == "" {
		return true, nil
	}
	c, err := semver.NewConstraint(declared)
	if err != nil {
		return false, err
	}
	sv, err := semver.NewVersion(v.String())
	if err != nil {
		return false, err
	}
	return c.Check(sv), nil
}
