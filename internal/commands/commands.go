// Package commands implements the modsync subcommands.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-git/go-billy/v5"
	"github.com/inconshreveable/log15"

	"github.com/git-pkgs/modsync/client"
	"github.com/git-pkgs/modsync/fetch"
	"github.com/git-pkgs/modsync/internal/config"
	"github.com/git-pkgs/modsync/internal/core"
)

// Dependencies are shared by every command.
type Dependencies struct {
	FS       billy.Filesystem
	Settings config.Settings
	Catalog  core.Catalog
	Source   fetch.Source
	Out      io.Writer
	Logger   log15.Logger
}

// CommandRunner runs a configured command.
type CommandRunner interface {
	Run(ctx context.Context, args []string) error
}

// NewDependencies builds the catalog client and download source described by
// settings. Portal credentials are read from settings.PlayerData when the
// file exists.
func NewDependencies(fs billy.Filesystem, settings config.Settings, out io.Writer, logger log15.Logger) (Dependencies, error) {
	httpClient := client.NewClient(client.WithMaxRetries(settings.MaxRetries)).WithUserAgent(settings.UserAgent)

	catalog, err := core.New(settings.Catalog, settings.CatalogURL, httpClient)
	if err != nil {
		return Dependencies{}, &core.ConfigError{Path: "catalog", Err: err}
	}

	opts := []fetch.Option{
		fetch.WithUserAgent(settings.UserAgent),
		fetch.WithMaxRetries(settings.MaxRetries),
	}
	creds, err := config.LoadCredentials(fs, settings.PlayerData)
	switch {
	case err == nil:
		opts = append(opts, fetch.WithCredentials(creds.Username, creds.Token))
	case errors.Is(err, os.ErrNotExist):
		logger.Debug("no portal credentials", "path", settings.PlayerData)
	default:
		return Dependencies{}, err
	}

	return Dependencies{
		FS:       fs,
		Settings: settings,
		Catalog:  catalog,
		Source:   fetch.NewCircuitBreakerFetcher(fetch.NewFetcher(opts...), 0),
		Out:      out,
		Logger:   logger,
	}, nil
}

func loadEnabled(deps Dependencies) ([]core.Artifact, error) {
	list, err := config.LoadModList(deps.FS, deps.Settings.ModList)
	if err != nil {
		return nil, err
	}
	enabled := list.Enabled()
	deps.Logger.Debug("loaded mod list", "path", list.Path, "mods", len(list.Mods), "enabled", len(enabled))
	return enabled, nil
}

func summarize(w io.Writer, fetched, pending, failed int) {
	fmt.Fprintf(w, "\n%d fetched, %d pending, %d failed\n", fetched, pending, failed)
}
