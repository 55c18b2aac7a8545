package telemetry

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/rigidlog/internal/dynamo"
)

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
}

func TestRowRecorder_HeaderAndRows(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "BodyInfo")
	rec := NewRowRecorder(dir, "Cradle", WithLogger(quietLogger()))

	a := sphere("a", 1, 2, 3)
	b := sphere("b", -1, 0.5, 0)
	set := bodies(a, b)

	const ticks = 5
	for i := 0; i < ticks; i++ {
		if err := rec.CaptureFrame(set); err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
		a.pos = a.pos.Add(dynamo.V(0.1, 0, 0))
	}
	if err := rec.Close(); err != nil {
		t.Fatal(err)
	}

	if rec.Path() != filepath.Join(dir, "Cradle_0.csv") {
		t.Errorf("path = %s", rec.Path())
	}
	if rec.Rows() != ticks {
		t.Errorf("Rows() = %d, want %d", rec.Rows(), ticks)
	}

	lines := readLines(t, rec.Path())
	if len(lines) != 1+ticks {
		t.Fatalf("expected %d lines, got %d", 1+ticks, len(lines))
	}

	wantHeader := "a,p_x,p_y,p_z,q_x,q_y,q_z,q_w,v_x,v_y,v_z,w_x,w_y,w_z, ," +
		"b,p_x,p_y,p_z,q_x,q_y,q_z,q_w,v_x,v_y,v_z,w_x,w_y,w_z, ,"
	if lines[0] != wantHeader {
		t.Errorf("header mismatch:\n got %q\nwant %q", lines[0], wantHeader)
	}

	headerFields := strings.Split(lines[0], ",")
	for i, line := range lines[1:] {
		fields := strings.Split(line, ",")
		if len(fields) != len(headerFields) {
			t.Errorf("row %d: %d fields, header has %d", i, len(fields), len(headerFields))
		}

		numeric, blanks := 0, 0
		for _, f := range fields {
			switch f {
			case "":
			case " ":
				blanks++
			default:
				numeric++
			}
		}
		if numeric != 2*len(RowColumns) {
			t.Errorf("row %d: %d numeric fields, want %d", i, numeric, 2*len(RowColumns))
		}
		if blanks != 2 {
			t.Errorf("row %d: %d separator columns, want 2", i, blanks)
		}
	}
}

func TestRowRecorder_FirstRowValues(t *testing.T) {
	dir := t.TempDir()
	rec := NewRowRecorder(dir, "Billiards", WithLogger(quietLogger()))

	a := sphere("a", 1, 2, 3)
	b := sphere("b", 0, 0, 0)
	b.vel = dynamo.V(0, 5, 0)
	b.omega = dynamo.V(0.25, 0, -1)

	if err := rec.CaptureFrame(bodies(a, b)); err != nil {
		t.Fatal(err)
	}
	rec.Close()

	row := readLines(t, rec.Path())[1]
	if !strings.HasPrefix(row, ",1,2,3,0,0,0,1,0,0,0,0,0,0, ,") {
		t.Errorf("unexpected first segment: %q", row)
	}
	if !strings.HasSuffix(row, ",0,0,0,0,0,0,1,0,5,0,0.25,0,-1, ,") {
		t.Errorf("unexpected second segment: %q", row)
	}
}

func TestRowRecorder_LazyOpen(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "BodyInfo")
	rec := NewRowRecorder(dir, "Cradle", WithLogger(quietLogger()))

	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Fatal("directory created before first capture")
	}
	if rec.IsOpen() {
		t.Fatal("recorder open before first capture")
	}
	if err := rec.Close(); err != nil {
		t.Fatalf("closing an unopened recorder: %v", err)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Error("Close created the directory")
	}
}

func TestRowRecorder_Versioning(t *testing.T) {
	dir := t.TempDir()
	set := bodies(sphere("a", 0, 0, 0))

	for run := 0; run < 3; run++ {
		rec := NewRowRecorder(dir, "Bernoulli", WithLogger(quietLogger()))
		if err := rec.CaptureFrame(set); err != nil {
			t.Fatal(err)
		}
		rec.Close()

		if rec.Index() != run {
			t.Errorf("run %d: index %d", run, rec.Index())
		}
	}

	for run := 0; run < 3; run++ {
		lines := readLines(t, filepath.Join(dir, VersionedName("Bernoulli", run, ".csv")))
		if len(lines) != 2 {
			t.Errorf("run %d: %d lines, want 2", run, len(lines))
		}
	}
}

func TestRowRecorder_CloseTwice(t *testing.T) {
	rec := NewRowRecorder(t.TempDir(), "Cradle", WithLogger(quietLogger()))
	set := bodies(sphere("a", 1, 2, 3))

	rec.CaptureFrame(set)
	rec.CaptureFrame(set)
	if err := rec.Close(); err != nil {
		t.Fatal(err)
	}
	before, _ := os.ReadFile(rec.Path())

	if err := rec.Close(); err != nil {
		t.Errorf("second Close returned %v", err)
	}
	after, _ := os.ReadFile(rec.Path())
	if string(before) != string(after) {
		t.Error("file changed after second Close")
	}

	if err := rec.CaptureFrame(set); !errors.Is(err, ErrClosed) {
		t.Errorf("capture after close: got %v, want ErrClosed", err)
	}
}

func TestRowRecorder_OpenFailureRetries(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "BodyInfo")
	touch(t, dir)

	rec := NewRowRecorder(dir, "Cradle", WithLogger(quietLogger()))
	set := bodies(sphere("a", 0, 0, 0))

	if err := rec.CaptureFrame(set); err == nil {
		t.Fatal("expected open failure")
	}
	if rec.IsOpen() || rec.Rows() != 0 {
		t.Fatal("recorder should stay closed after open failure")
	}

	if err := os.Remove(dir); err != nil {
		t.Fatal(err)
	}
	if err := rec.CaptureFrame(set); err != nil {
		t.Fatalf("retry after fixing directory: %v", err)
	}
	rec.Close()

	if lines := readLines(t, rec.Path()); len(lines) != 2 {
		t.Errorf("expected header + 1 row, got %d lines", len(lines))
	}
}

func TestRowRecorder_FlushEvery(t *testing.T) {
	rec := NewRowRecorder(t.TempDir(), "Cradle", WithLogger(quietLogger()), WithFlushEvery(3))
	set := bodies(sphere("a", 0, 0, 0))

	rec.CaptureFrame(set)
	rec.CaptureFrame(set)
	if lines := readLines(t, rec.Path()); len(lines) != 1 {
		t.Errorf("expected only the header on disk, got %d lines", len(lines))
	}

	rec.CaptureFrame(set)
	if lines := readLines(t, rec.Path()); len(lines) != 4 {
		t.Errorf("expected 3 flushed rows, got %d lines", len(lines))
	}
	rec.Close()
}
