package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"gopkg.in/yaml.v3"

	"github.com/git-pkgs/modsync/internal/core"
)

// DefaultSettingsFile is read when no settings path is given.
const DefaultSettingsFile = "modsync.yml"

// Settings are the tool options stored in modsync.yml.
type Settings struct {
	ModsDir    string   `yaml:"mods_dir"`
	ModList    string   `yaml:"mod_list"`
	PlayerData string   `yaml:"player_data"`
	Catalog    string   `yaml:"catalog"`
	CatalogURL string   `yaml:"catalog_url"`
	Match      string   `yaml:"match"`
	UserAgent  string   `yaml:"user_agent"`
	MaxRetries int      `yaml:"max_retries"`
	Ignore     []string `yaml:"ignore"`
}

// DefaultSettings returns the settings used when modsync.yml is absent.
func DefaultSettings() Settings {
	return Settings{
		ModsDir:    "mods",
		ModList:    "mods/mod-list.json",
		PlayerData: "player-data.json",
		Catalog:    "factorio",
		Match:      core.MatchExact.String(),
		UserAgent:  "modsync/1.0",
		MaxRetries: 3,
		Ignore:     []string{"base"},
	}
}

// LoadSettings reads path over the defaults. A missing file is not an error.
func LoadSettings(fs billy.Basic, path string) (Settings, error) {
	s := DefaultSettings()

	data, err := util.ReadFile(fs, path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return s, &core.ConfigError{Path: path, Err: err}
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return s, &core.ConfigError{Path: path, Err: err}
	}

	if err := s.Validate(); err != nil {
		return s, &core.ConfigError{Path: path, Err: err}
	}
	return s, nil
}

// Validate checks field values that cannot be caught by decoding.
func (s Settings) Validate() error {
	if s.ModsDir == "" {
		return errors.New("mods_dir must not be empty")
	}
	if s.ModList == "" {
		return errors.New("mod_list must not be empty")
	}
	if s.MaxRetries < 0 {
		return fmt.Errorf("max_retries must not be negative, got %d", s.MaxRetries)
	}
	if _, err := core.ParseMatchPolicy(s.Match); err != nil {
		return err
	}
	return nil
}

// MatchPolicy returns the configured archive matching policy.
func (s Settings) MatchPolicy() core.MatchPolicy {
	p, _ := core.ParseMatchPolicy(s.Match)
	return p
}

// Ignored reports whether name is on the ignore list.
func (s Settings) Ignored(name string) bool {
	for _, n := range s.Ignore {
		if n == name {
			return true
		}
	}
	return false
}

// Absolute returns a copy of s with the mods directory, mod list and player
// data paths resolved against the working directory. A filesystem rooted at
// "" rejects paths that climb above it, so "../mods" must be resolved first.
func (s Settings) Absolute() (Settings, error) {
	for _, p := range []*string{&s.ModsDir, &s.ModList, &s.PlayerData} {
		if *p == "" {
			continue
		}
		abs, err := filepath.Abs(*p)
		if err != nil {
			return s, fmt.Errorf("resolving %s: %w", *p, err)
		}
		*p = abs
	}
	return s, nil
}
