package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/inconshreveable/log15"
)

const tempPrefix = ".modsync-"

// Downloader stores archives on a filesystem. Each download is written to a
// temp file in the destination directory and renamed into place, so a
// partial download never carries an archive name.
type Downloader struct {
	fs       billy.Filesystem
	source   Source
	resolver *Resolver
	logger   log15.Logger
}

// DownloaderOption configures a Downloader.
type DownloaderOption func(*Downloader)

// WithLogger sets the logger for download progress.
func WithLogger(l log15.Logger) DownloaderOption {
	return func(d *Downloader) {
		d.logger = l
	}
}

// NewDownloader creates a Downloader that writes to fs.
func NewDownloader(fs billy.Filesystem, source Source, resolver *Resolver, opts ...DownloaderOption) *Downloader {
	logger := log15.New()
	logger.SetHandler(log15.DiscardHandler())
	d := &Downloader{
		fs:       fs,
		source:   source,
		resolver: resolver,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Fetch downloads the release at locator to dest and returns dest.
func (d *Downloader) Fetch(ctx context.Context, locator, dest string) (string, error) {
	downloadURL, err := d.resolver.Resolve(locator)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", locator, err)
	}

	expected, err := d.expectedSize(ctx, downloadURL)
	if err != nil {
		return "", err
	}

	archive, err := d.source.Fetch(ctx, downloadURL)
	if err != nil {
		return "", err
	}
	defer func() { _ = archive.Body.Close() }()
	if archive.Size >= 0 {
		expected = archive.Size
	}

	dir := filepath.Dir(dest)
	if err := d.fs.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating %s: %w", dir, err)
	}

	tmp, err := d.fs.TempFile(dir, tempPrefix)
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	n, err := io.Copy(tmp, archive.Body)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err == nil && expected >= 0 && n != expected {
		err = fmt.Errorf("short download: got %d of %d bytes", n, expected)
	}
	if err != nil {
		_ = d.fs.Remove(tmpName)
		return "", fmt.Errorf("writing %s: %w", dest, err)
	}

	if err := d.fs.Rename(tmpName, dest); err != nil {
		_ = d.fs.Remove(tmpName)
		return "", fmt.Errorf("renaming into %s: %w", dest, err)
	}

	d.logger.Debug("archive stored", "path", dest, "remote", FilenameFromURL(downloadURL), "bytes", n)
	return dest, nil
}

// expectedSize asks the source for the archive size before downloading.
// Missing or forbidden archives fail here without a GET; any other HEAD
// failure leaves the size unknown (-1).
func (d *Downloader) expectedSize(ctx context.Context, downloadURL string) (int64, error) {
	size, _, err := d.source.Head(ctx, downloadURL)
	switch {
	case err == nil:
		return size, nil
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrUnauthorized), ctx.Err() != nil:
		return -1, err
	default:
		d.logger.Debug("head request failed", "remote", FilenameFromURL(downloadURL), "err", err)
		return -1, nil
	}
}
