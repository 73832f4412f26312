package processor

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-multierror"
)

type release struct {
	name string
	fn   func() error
}

// releaseStack holds the resources a run acquired. release runs every entry
// once, newest first.
type releaseStack struct {
	items []release
}

func (s *releaseStack) push(name string, fn func() error) {
	s.items = append(s.items, release{name: name, fn: fn})
}

func (s *releaseStack) release() error {
	var result *multierror.Error
	for i := len(s.items) - 1; i >= 0; i-- {
		if err := s.items[i].fn(); err != nil {
			result = multierror.Append(result, fmt.Errorf("%s: %w", s.items[i].name, err))
		}
	}
	s.items = nil
	return result.ErrorOrNil()
}

// removeFile deletes path; a file that is already gone is not an error.
func removeFile(path string) func() error {
	return func() error {
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		return nil
	}
}

// Archive moves src into dir and returns the new path. A numeric suffix is
// added when dir already holds a file with the same name.
func Archive(src, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create archive dir: %w", err)
	}

	name := filepath.Base(src)
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)

	dest := filepath.Join(dir, name)
	for i := 1; ; i++ {
		if _, err := os.Stat(dest); errors.Is(err, fs.ErrNotExist) {
			break
		}
		dest = filepath.Join(dir, fmt.Sprintf("%s_%d%s", stem, i, ext))
	}

	if err := os.Rename(src, dest); err != nil {
		return "", fmt.Errorf("move to archive: %w", err)
	}
	return dest, nil
}
