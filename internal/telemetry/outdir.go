package telemetry

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const maxVersionProbe = 4096

// EnsureDir creates dir and its parents if absent. An existing directory is
// never modified.
func EnsureDir(dir string) error {
	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return fmt.Errorf("%w: %s", ErrNotDirectory, dir)
		}
		return nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.MkdirAll(dir, 0o755)
}

// CountMatching returns the number of entries in dir whose name contains
// prefix. A missing directory counts as empty.
func CountMatching(dir, prefix string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, nil
		}
		return 0, err
	}

	count := 0
	for _, entry := range entries {
		if strings.Contains(entry.Name(), prefix) {
			count++
		}
	}
	return count, nil
}

// VersionedName formats <prefix>_<index><ext>.
func VersionedName(prefix string, index int, ext string) string {
	return fmt.Sprintf("%s_%d%s", prefix, index, ext)
}

// NextVersionedName returns the path for the next run in dir. The index is
// the number of existing entries containing prefix.
func NextVersionedName(dir, prefix, ext string) (string, int, error) {
	index, err := CountMatching(dir, prefix)
	if err != nil {
		return "", 0, err
	}
	return filepath.Join(dir, VersionedName(prefix, index, ext)), index, nil
}

// CreateVersioned exclusively creates the next versioned file in dir. If the
// scanned name is already taken the index is advanced, so an existing file
// is never truncated.
func CreateVersioned(dir, prefix, ext string) (*os.File, int, error) {
	path, index, err := NextVersionedName(dir, prefix, ext)
	if err != nil {
		return nil, 0, err
	}

	for i := 0; i < maxVersionProbe; i++ {
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			return f, index, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return nil, 0, err
		}
		index++
		path = filepath.Join(dir, VersionedName(prefix, index, ext))
	}

	return nil, 0, fmt.Errorf("%w: %s in %s", ErrVersionsExhausted, prefix, dir)
}
