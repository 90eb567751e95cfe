package commands

import (
	"context"
	"fmt"

	"github.com/git-pkgs/modsync/fetch"
	"github.com/git-pkgs/modsync/internal/core"
	"github.com/git-pkgs/modsync/internal/scan"
	"github.com/git-pkgs/modsync/internal/updater"
)

// SyncCmd holds the flags of "modsync sync".
type SyncCmd struct {
	DryRun bool `long:"dry-run" short:"n" description:"report what would be fetched without downloading"`
}

func (s SyncCmd) Runner(deps Dependencies) (CommandRunner, error) {
	return Sync{DryRun: s.DryRun, deps: deps}, nil
}

// Sync downloads the latest release of every outdated or missing mod.
type Sync struct {
	DryRun bool

	deps Dependencies
}

func (s Sync) Run(ctx context.Context, _ []string) error {
	artifacts, err := loadEnabled(s.deps)
	if err != nil {
		return err
	}

	settings := s.deps.Settings
	resolver := core.NewResolver(s.deps.Catalog, core.WithMatchPolicy(settings.MatchPolicy()))
	downloader := fetch.NewDownloader(s.deps.FS, s.deps.Source,
		fetch.NewResolver(s.deps.Catalog.URLs()),
		fetch.WithLogger(s.deps.Logger.New("component", "download")))

	u := updater.New(resolver, scan.New(s.deps.FS), downloader, settings.ModsDir,
		updater.WithOutput(s.deps.Out),
		updater.WithLogger(s.deps.Logger),
		updater.WithDryRun(s.DryRun),
		updater.WithIgnore(settings.Ignored))

	report, err := u.Run(ctx, artifacts)
	if report != nil {
		summarize(s.deps.Out, len(report.Fetched()), len(report.Pending()), len(report.Failed()))
	}
	if err != nil {
		return err
	}
	if failed := report.Failed(); len(failed) > 0 {
		return fmt.Errorf("%d of %d mods failed", len(failed), len(report.Results))
	}
	return nil
}

// StatusCmd holds the flags of "modsync status".
type StatusCmd struct{}

func (StatusCmd) Runner(deps Dependencies) (CommandRunner, error) {
	return Sync{DryRun: true, deps: deps}, nil
}
