package telemetry

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("prior run\n"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestEnsureDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "BodyInfo", "nested")

	if err := EnsureDir(dir); err != nil {
		t.Fatalf("EnsureDir: %v", err)
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		t.Fatalf("expected directory at %s", dir)
	}

	keep := filepath.Join(dir, "keep.csv")
	touch(t, keep)
	if err := EnsureDir(dir); err != nil {
		t.Fatalf("EnsureDir on existing dir: %v", err)
	}
	if _, err := os.Stat(keep); err != nil {
		t.Error("existing directory contents were removed")
	}
}

func TestEnsureDir_FileInTheWay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "BodyInfo")
	touch(t, path)

	err := EnsureDir(path)
	if !errors.Is(err, ErrNotDirectory) {
		t.Errorf("expected ErrNotDirectory, got %v", err)
	}
}

func TestNextVersionedName(t *testing.T) {
	dir := t.TempDir()

	path, index, err := NextVersionedName(dir, "Cradle", ".csv")
	if err != nil {
		t.Fatal(err)
	}
	if index != 0 || filepath.Base(path) != "Cradle_0.csv" {
		t.Errorf("empty dir: got %s (index %d)", path, index)
	}

	touch(t, filepath.Join(dir, "Cradle_0.csv"))
	touch(t, filepath.Join(dir, "Cradle_1.csv"))
	touch(t, filepath.Join(dir, "Billiards_0.csv"))

	path, index, err = NextVersionedName(dir, "Cradle", ".csv")
	if err != nil {
		t.Fatal(err)
	}
	if index != 2 || filepath.Base(path) != "Cradle_2.csv" {
		t.Errorf("got %s (index %d), want Cradle_2.csv", path, index)
	}
}

func TestNextVersionedName_MissingDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "absent")
	_, index, err := NextVersionedName(dir, "Scene", ".csv")
	if err != nil {
		t.Fatal(err)
	}
	if index != 0 {
		t.Errorf("index = %d, want 0", index)
	}
}

func TestCreateVersioned_SkipsTakenName(t *testing.T) {
	dir := t.TempDir()
	// one matching entry, but it occupies the index the scan produces
	taken := filepath.Join(dir, "Geyser_1.csv")
	touch(t, taken)

	f, index, err := CreateVersioned(dir, "Geyser", ".csv")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if index != 2 {
		t.Errorf("index = %d, want 2", index)
	}
	data, _ := os.ReadFile(taken)
	if string(data) != "prior run\n" {
		t.Error("existing run file was modified")
	}
}
