package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/san-kum/rigidlog/internal/telemetry"
)

// Store reads the artifacts recorded under one output root.
type Store struct {
	baseDir string
	rowDir  string
	docDir  string
}

func New(baseDir string) *Store {
	return &Store{
		baseDir: baseDir,
		rowDir:  filepath.Join(baseDir, telemetry.DefaultRowDir),
		docDir:  filepath.Join(baseDir, telemetry.DefaultDocDir),
	}
}

// WithDirs overrides the row log and document directories. Relative paths
// are resolved against the store root.
func (s *Store) WithDirs(rowDir, docDir string) *Store {
	if rowDir != "" {
		s.rowDir = s.resolve(rowDir)
	}
	if docDir != "" {
		s.docDir = s.resolve(docDir)
	}
	return s
}

func (s *Store) resolve(dir string) string {
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(s.baseDir, dir)
}

func (s *Store) RowDir() string { return s.rowDir }

func (s *Store) DocDir() string { return s.docDir }

// DocumentPath is the path of the document written with prefix.
func (s *Store) DocumentPath(prefix string) string {
	return filepath.Join(s.docDir, prefix+".json")
}

// RunInfo describes one row log on disk.
type RunInfo struct {
	Name    string
	Path    string
	Prefix  string
	Index   int
	Size    int64
	ModTime time.Time
}

// List returns the row logs in the store, ordered by prefix then index.
func (s *Store) List() ([]RunInfo, error) {
	return ListRowLogs(s.rowDir)
}

// ListRowLogs returns every <prefix>_<N>.csv file in dir. A missing dir
// holds no runs.
func ListRowLogs(dir string) ([]RunInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunInfo{}, nil
		}
		return nil, err
	}

	runs := make([]RunInfo, 0)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		prefix, index, ok := parseRunName(entry.Name())
		if !ok {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		runs = append(runs, RunInfo{
			Name:    entry.Name(),
			Path:    filepath.Join(dir, entry.Name()),
			Prefix:  prefix,
			Index:   index,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(runs, func(i, j int) bool {
		if runs[i].Prefix != runs[j].Prefix {
			return runs[i].Prefix < runs[j].Prefix
		}
		return runs[i].Index < runs[j].Index
	})
	return runs, nil
}

func parseRunName(name string) (string, int, bool) {
	base, ok := strings.CutSuffix(name, ".csv")
	if !ok {
		return "", 0, false
	}
	cut := strings.LastIndexByte(base, '_')
	if cut <= 0 {
		return "", 0, false
	}
	index, err := strconv.Atoi(base[cut+1:])
	if err != nil || index < 0 {
		return "", 0, false
	}
	return base[:cut], index, true
}

// Latest returns the highest-indexed row log for prefix.
func (s *Store) Latest(prefix string) (RunInfo, error) {
	runs, err := s.List()
	if err != nil {
		return RunInfo{}, err
	}
	var (
		found RunInfo
		ok    bool
	)
	for _, r := range runs {
		if r.Prefix == prefix && (!ok || r.Index > found.Index) {
			found, ok = r, true
		}
	}
	if !ok {
		return RunInfo{}, fmt.Errorf("storage: no row log for %q in %s", prefix, s.rowDir)
	}
	return found, nil
}

// LoadDocument reads a document written by the telemetry recorder.
func LoadDocument(path string) (*telemetry.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var doc telemetry.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("storage: decode %s: %w", path, err)
	}
	return &doc, nil
}
