// Package scan lists the mod archives present in a local directory.
package scan

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"

	"github.com/git-pkgs/modsync/internal/core"
)

// Scanner enumerates archives on a filesystem.
type Scanner struct {
	fs billy.Filesystem
}

func New(fs billy.Filesystem) *Scanner {
	return &Scanner{fs: fs}
}

// ListArtifacts returns the paths of all archives directly inside dir, sorted.
// A missing directory yields an empty list.
func (s *Scanner) ListArtifacts(dir string) ([]string, error) {
	if _, err := s.fs.Stat(dir); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("scanning %s: %w", dir, err)
	}

	matches, err := util.Glob(s.fs, s.fs.Join(dir, "*"+core.ArchiveExt))
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", dir, err)
	}

	paths := make([]string, 0, len(matches))
	for _, m := range matches {
		info, err := s.fs.Stat(m)
		if err != nil || info.IsDir() {
			continue
		}
		paths = append(paths, m)
	}
	sort.Strings(paths)
	return paths, nil
}
