package rewrite

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// Store reads and writes whole documents. It keeps file I/O out of the
// flatten package so the transform can be tested without a file system.
type Store interface {
	Read(path string) (string, error)
	Write(path, text string) error
}

// FSStore is a Store backed by an afero file system.
type FSStore struct {
	fs afero.Fs
}

// NewFSStore creates a Store on fs. Use afero.NewOsFs() for the real disk.
func NewFSStore(fs afero.Fs) *FSStore {
	return &FSStore{fs: fs}
}

// Read returns the file content.
func (s *FSStore) Read(path string) (string, error) {
	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}

// Write replaces the file content. The text goes to a temporary file in the
// same directory which is then renamed over the original, so readers never
// observe a partially written file. The original permission bits are kept.
// A symbolic link is followed and its target is replaced, the link stays.
func (s *FSStore) Write(path, text string) (err error) {
	target, err := s.resolve(path)
	if err != nil {
		return err
	}
	perm := os.FileMode(0o644)
	if info, statErr := s.fs.Stat(target); statErr == nil {
		perm = info.Mode().Perm()
	}
	tmp, err := afero.TempFile(s.fs, filepath.Dir(target), ".tagflat-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", path, err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = s.fs.Remove(tmpName)
		}
	}()
	if _, err = tmp.WriteString(text); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file for %s: %w", path, err)
	}
	if err = s.fs.Chmod(tmpName, perm); err != nil {
		return fmt.Errorf("failed to set permissions on %s: %w", path, err)
	}
	if err = s.fs.Rename(tmpName, target); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}

const maxSymlinks = 40

// resolve follows symbolic links until it reaches a path that is not one.
// File systems without link support return path unchanged.
func (s *FSStore) resolve(path string) (string, error) {
	lstater, ok := s.fs.(afero.Lstater)
	if !ok {
		return path, nil
	}
	reader, ok := s.fs.(afero.LinkReader)
	if !ok {
		return path, nil
	}
	current := path
	for range maxSymlinks {
		info, lstatCalled, err := lstater.LstatIfPossible(current)
		if err != nil {
			if os.IsNotExist(err) {
				return current, nil
			}
			return "", fmt.Errorf("failed to stat %s: %w", path, err)
		}
		if !lstatCalled || info.Mode()&os.ModeSymlink == 0 {
			return current, nil
		}
		link, err := reader.ReadlinkIfPossible(current)
		if err != nil {
			return "", fmt.Errorf("failed to read link %s: %w", current, err)
		}
		if !filepath.IsAbs(link) {
			link = filepath.Join(filepath.Dir(current), link)
		}
		current = link
	}
	return "", fmt.Errorf("failed to resolve %s: too many levels of symbolic links", path)
}
