package config

import (
	"encoding/json"
	"errors"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"

	"github.com/git-pkgs/modsync/internal/core"
)

// Credentials authenticate downloads from the mod portal.
type Credentials struct {
	Username string `json:"service-username"`
	Token    string `json:"service-token"`
}

// LoadCredentials reads the service username and token from a
// player-data.json file. Other keys in the file are ignored. A missing file
// returns an error matching os.ErrNotExist.
func LoadCredentials(fs billy.Basic, path string) (Credentials, error) {
	data, err := util.ReadFile(fs, path)
	if err != nil {
		return Credentials{}, err
	}

	var c Credentials
	if err := json.Unmarshal(data, &c); err != nil {
		return Credentials{}, &core.ConfigError{Path: path, Err: err}
	}
	if c.Username == "" || c.Token == "" {
		return Credentials{}, &core.ConfigError{Path: path, Err: errors.New("service-username and service-token are required")}
	}
	return c, nil
}
