package rewrite

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/compozy/tagflat/pkg/logger"
	"github.com/spf13/afero"
)

// Discoverer expands the paths given on the command line into regular files.
type Discoverer struct {
	fs       afero.Fs
	excludes []string
}

// NewDiscoverer creates a Discoverer. Exclude patterns are doublestar globs
// matched against paths relative to each walked directory and against base
// names; a matching directory is not descended into.
func NewDiscoverer(fs afero.Fs, excludes []string) (*Discoverer, error) {
	patterns := make([]string, 0, len(excludes))
	for _, pattern := range excludes {
		pattern = filepath.ToSlash(pattern)
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid exclude pattern %q", pattern)
		}
		patterns = append(patterns, pattern)
	}
	return &Discoverer{fs: fs, excludes: patterns}, nil
}

// Discover resolves paths. Missing paths and unreadable directories are
// reported as outcomes; every regular file found is returned once, in walk
// order. Files named explicitly are never excluded.
func (d *Discoverer) Discover(ctx context.Context, paths []string) ([]string, []Outcome, error) {
	log := logger.FromContext(ctx)
	var files []string
	var outcomes []Outcome
	seen := make(map[string]struct{})
	add := func(path string) {
		clean := filepath.Clean(path)
		if _, dup := seen[clean]; dup {
			return
		}
		seen[clean] = struct{}{}
		files = append(files, clean)
	}
	for _, root := range paths {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		info, err := d.fs.Stat(root)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				outcomes = append(outcomes, Outcome{Path: root, Status: StatusNotFound})
				continue
			}
			outcomes = append(outcomes, Outcome{Path: root, Status: StatusFailed, Err: fmt.Errorf("failed to stat %s: %w", root, err)})
			continue
		}
		if !info.IsDir() {
			if info.Mode().IsRegular() {
				add(root)
			} else {
				log.Debug("Ignoring non-regular file", "file", root)
			}
			continue
		}
		walkOutcomes, err := d.walk(ctx, root, add)
		if err != nil {
			return nil, nil, err
		}
		outcomes = append(outcomes, walkOutcomes...)
	}
	return files, outcomes, nil
}

func (d *Discoverer) walk(ctx context.Context, root string, add func(string)) ([]Outcome, error) {
	log := logger.FromContext(ctx)
	var outcomes []Outcome
	err := afero.Walk(d.fs, root, func(path string, info os.FileInfo, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			outcomes = append(outcomes, Outcome{Path: path, Status: StatusFailed, Err: fmt.Errorf("failed to walk %s: %w", path, err)})
			if info != nil && info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if path != root && d.Excluded(root, path) {
			log.Debug("Excluded by pattern", "file", path)
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if info.IsDir() {
			return nil
		}
		if !info.Mode().IsRegular() {
			log.Debug("Ignoring non-regular file", "file", path)
			return nil
		}
		add(path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return outcomes, nil
}

// Excluded reports whether path, found under root, matches any exclude
// pattern.
func (d *Discoverer) Excluded(root, path string) bool {
	if len(d.excludes) == 0 {
		return false
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	base := filepath.Base(path)
	for _, pattern := range d.excludes {
		if matched, err := doublestar.Match(pattern, rel); err == nil && matched {
			return true
		}
		if matched, err := doublestar.Match(pattern, base); err == nil && matched {
			return true
		}
	}
	return false
}
