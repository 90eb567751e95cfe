package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/inconshreveable/log15"
	"github.com/jessevdk/go-flags"

	_ "github.com/git-pkgs/modsync/all"
	"github.com/git-pkgs/modsync/internal/commands"
	"github.com/git-pkgs/modsync/internal/config"
)

var version = "unknown"

var RootCmd struct {
	Options struct {
		Config     string `long:"config"      short:"c" default:"modsync.yml" description:"path to the settings file"`
		ModsDir    string `long:"mods-dir"    short:"d"                       description:"directory holding mod archives"`
		ModList    string `long:"mod-list"    short:"m"                       description:"path to mod-list.json"`
		PlayerData string `long:"player-data"                                 description:"path to player-data.json with portal credentials"`
		CatalogURL string `long:"catalog-url"                                 description:"base URL of the mod portal"`
		Match      string `long:"match"                                       description:"archive matching policy (exact or substring)"`
		LogLevel   string `long:"log-level"   short:"l" default:"info"        description:"log level (debug, info, warn, error, crit)"`
		Version    bool   `long:"version"     short:"v"                       description:"print the modsync version"`
	}

	Commands struct {
		Sync      commands.SyncCmd      `command:"sync"      description:"download missing and outdated mods"`
		Status    commands.StatusCmd    `command:"status"    description:"show what sync would download"`
		Installed commands.InstalledCmd `command:"installed" description:"list installed mod versions"`
	}
}

type Cmd interface {
	Runner(commands.Dependencies) (commands.CommandRunner, error)
}

func main() {
	var _ Cmd = RootCmd.Commands.Sync
	var _ Cmd = RootCmd.Commands.Status
	var _ Cmd = RootCmd.Commands.Installed

	root := flags.NewParser(&RootCmd, flags.Default)
	root.SubcommandsOptional = true

	args, err := root.Parse()
	if err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			return
		}
		os.Exit(2)
	}

	if RootCmd.Options.Version {
		fmt.Println(version)
		return
	}
	if root.Active == nil {
		root.WriteHelp(os.Stderr)
		os.Exit(2)
	}

	cmds := map[string]Cmd{
		"sync":      RootCmd.Commands.Sync,
		"status":    RootCmd.Commands.Status,
		"installed": RootCmd.Commands.Installed,
	}

	if err := run(cmds[root.Active.Name], args); err != nil {
		fmt.Fprintf(os.Stderr, "modsync: %v\n", err)
		os.Exit(1)
	}
}

func run(cmd Cmd, args []string) error {
	lvl, err := log15.LvlFromString(RootCmd.Options.LogLevel)
	if err != nil {
		return err
	}
	logger := log15.New()
	logger.SetHandler(log15.LvlFilterHandler(lvl, log15.StreamHandler(os.Stderr, log15.TerminalFormat())))

	fs := osfs.New("")

	configPath, err := filepath.Abs(RootCmd.Options.Config)
	if err != nil {
		return err
	}
	settings, err := config.LoadSettings(fs, configPath)
	if err != nil {
		return err
	}
	applyOverrides(&settings)
	if err := settings.Validate(); err != nil {
		return err
	}
	if settings, err = settings.Absolute(); err != nil {
		return err
	}

	deps, err := commands.NewDependencies(fs, settings, os.Stdout, logger)
	if err != nil {
		return err
	}

	runner, err := cmd.Runner(deps)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return runner.Run(ctx, args)
}

func applyOverrides(s *config.Settings) {
	o := RootCmd.Options
	if o.ModsDir != "" {
		s.ModsDir = o.ModsDir
	}
	if o.ModList != "" {
		s.ModList = o.ModList
	}
	if o.PlayerData != "" {
		s.PlayerData = o.PlayerData
	}
	if o.CatalogURL != "" {
		s.CatalogURL = o.CatalogURL
	}
	if o.Match != "" {
		s.Match = o.Match
	}
}
