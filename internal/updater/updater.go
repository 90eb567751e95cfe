// Package updater runs the resolve-and-fetch loop over a mod list.
package updater

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/inconshreveable/log15"

	"github.com/git-pkgs/modsync/internal/config"
	"github.com/git-pkgs/modsync/internal/core"
)

// Scanner lists the archives present in a directory.
type Scanner interface {
	ListArtifacts(dir string) ([]string, error)
}

// Fetcher stores the release at locator under dest.
type Fetcher interface {
	Fetch(ctx context.Context, locator, dest string) (string, error)
}

// Result is the outcome for one mod of a run.
type Result struct {
	Artifact core.Artifact
	Decision *core.Decision // nil when skipped or on error
	Path     string         // stored archive, set when a download completed
	Skipped  bool
	Err      error
}

// Fetched reports whether an archive was downloaded for this mod.
func (r Result) Fetched() bool {
	return r.Path != ""
}

// Report collects the results of a run in mod-list order.
type Report struct {
	Results []Result
}

// Failed returns the results that ended in an error.
func (r *Report) Failed() []Result {
	var out []Result
	for _, res := range r.Results {
		if res.Err != nil {
			out = append(out, res)
		}
	}
	return out
}

// Fetched returns the results that downloaded an archive.
func (r *Report) Fetched() []Result {
	var out []Result
	for _, res := range r.Results {
		if res.Fetched() {
			out = append(out, res)
		}
	}
	return out
}

// Pending returns the results that need a download which was not made,
// either because of a dry run or a failed fetch.
func (r *Report) Pending() []Result {
	var out []Result
	for _, res := range r.Results {
		if res.Decision != nil && res.Decision.NeedsFetch() && !res.Fetched() {
			out = append(out, res)
		}
	}
	return out
}

// Updater brings a mods directory up to date with a catalog.
type Updater struct {
	resolver *core.Resolver
	scanner  Scanner
	fetcher  Fetcher
	dir      string
	out      io.Writer
	logger   log15.Logger
	dryRun   bool
	ignore   func(name string) bool
}

// Option configures an Updater.
type Option func(*Updater)

// WithLogger sets the diagnostics logger.
func WithLogger(l log15.Logger) Option {
	return func(u *Updater) {
		u.logger = l
	}
}

// WithOutput sets where status lines are written.
func WithOutput(w io.Writer) Option {
	return func(u *Updater) {
		u.out = w
	}
}

// WithDryRun resolves every mod but downloads nothing.
func WithDryRun(dryRun bool) Option {
	return func(u *Updater) {
		u.dryRun = dryRun
	}
}

// WithIgnore skips every mod for which ignored returns true.
func WithIgnore(ignored func(name string) bool) Option {
	return func(u *Updater) {
		u.ignore = ignored
	}
}

// New creates an Updater for the archives in dir.
func New(resolver *core.Resolver, scanner Scanner, fetcher Fetcher, dir string, opts ...Option) *Updater {
	logger := log15.New()
	logger.SetHandler(log15.DiscardHandler())
	u := &Updater{
		resolver: resolver,
		scanner:  scanner,
		fetcher:  fetcher,
		dir:      dir,
		out:      io.Discard,
		logger:   logger,
		ignore:   func(string) bool { return false },
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Run resolves each enabled artifact in order and fetches the ones that are
// missing or outdated. The directory is scanned once up front; a scan
// failure aborts the run. Failures for a single mod are recorded in its
// Result and the run continues. Run stops between mods when ctx is done and
// returns the partial report with ctx's error.
func (u *Updater) Run(ctx context.Context, artifacts []core.Artifact) (*Report, error) {
	paths, err := u.scanner.ListArtifacts(u.dir)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", u.dir, err)
	}
	u.logger.Debug("scanned mods directory", "dir", u.dir, "archives", len(paths))

	report := &Report{}
	for _, a := range artifacts {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if !a.Enabled {
			continue
		}
		report.Results = append(report.Results, u.runOne(ctx, a, paths))
	}
	return report, nil
}

func (u *Updater) runOne(ctx context.Context, a core.Artifact, paths []string) Result {
	res := Result{Artifact: a}
	log := u.logger.New("mod", a.Name)

	if u.ignore(a.Name) {
		res.Skipped = true
		log.Debug("skipping ignored mod")
		fmt.Fprintf(u.out, "Mod: %-40s skipped\n", a.Name)
		return res
	}

	d, err := u.resolver.Resolve(ctx, a, paths)
	if err != nil {
		res.Err = err
		log.Error("resolution failed", "err", err)
		fmt.Fprintf(u.out, "Mod: %-40s error: %v\n", a.Name, err)
		return res
	}
	res.Decision = d
	log = log.New("purl", core.ArtifactPURL(u.resolver.Catalog().Name(), a.Name, d.Latest.String()))

	if ok, err := config.Satisfies(a.Version, d.Latest); err != nil {
		log.Warn("declared version unusable", "declared", a.Version, "err", err)
	} else if !ok {
		log.Warn("latest release outside declared version", "declared", a.Version, "latest", d.Latest)
	}

	fmt.Fprintf(u.out, "Mod: %-40s Installed: %-8s Available: %-8s %s\n",
		a.Name, installedText(d), d.Latest, u.action(d))

	if !d.NeedsFetch() || u.dryRun {
		return res
	}

	dest := filepath.Join(u.dir, d.Filename())
	stored, err := u.fetcher.Fetch(ctx, d.Locator, dest)
	if err != nil {
		res.Err = fmt.Errorf("fetching %s %s: %w", a.Name, d.Latest, err)
		log.Error("download failed", "err", err)
		fmt.Fprintf(u.out, "Mod: %-40s error: %v\n", a.Name, res.Err)
		return res
	}
	res.Path = stored
	log.Info("download completed", "path", stored)
	fmt.Fprintf(u.out, "Download completed: %s\n", stored)
	return res
}

func (u *Updater) action(d *core.Decision) string {
	switch {
	case !d.NeedsFetch():
		return d.Reason()
	case u.dryRun:
		return d.Reason() + ", would fetch"
	default:
		return d.Reason() + ", fetching"
	}
}

func installedText(d *core.Decision) string {
	if d.Installed == nil {
		return "None"
	}
	return d.Installed.String()
}
