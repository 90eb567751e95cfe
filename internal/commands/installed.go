package commands

import (
	"context"
	"fmt"

	"github.com/git-pkgs/modsync/internal/core"
	"github.com/git-pkgs/modsync/internal/scan"
)

// InstalledCmd holds the flags of "modsync installed".
type InstalledCmd struct {
	All bool `long:"all" short:"a" description:"also list the archives matched for each mod"`
}

func (i InstalledCmd) Runner(deps Dependencies) (CommandRunner, error) {
	return Installed{All: i.All, deps: deps}, nil
}

// Installed prints the installed version of every enabled mod without
// contacting the catalog.
type Installed struct {
	All bool

	deps Dependencies
}

func (i Installed) Run(_ context.Context, _ []string) error {
	artifacts, err := loadEnabled(i.deps)
	if err != nil {
		return err
	}

	settings := i.deps.Settings
	paths, err := scan.New(i.deps.FS).ListArtifacts(settings.ModsDir)
	if err != nil {
		return fmt.Errorf("scanning %s: %w", settings.ModsDir, err)
	}

	policy := settings.MatchPolicy()
	for _, a := range artifacts {
		version := "None"
		if v := core.InstalledVersion(a.Name, paths, policy); v != nil {
			version = v.String()
		}
		fmt.Fprintf(i.deps.Out, "Mod: %-40s Version: %s\n", a.Name, version)

		if i.All {
			for _, p := range core.InstalledFiles(a.Name, paths, policy) {
				fmt.Fprintf(i.deps.Out, "     %s\n", p)
			}
		}
	}
	return nil
}
