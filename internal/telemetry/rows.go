package telemetry

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/san-kum/rigidlog/internal/dynamo"
)

const rowExt = ".csv"

// RowColumns are the per-body field labels of the row log header.
var RowColumns = []string{
	"p_x", "p_y", "p_z",
	"q_x", "q_y", "q_z", "q_w",
	"v_x", "v_y", "v_z",
	"w_x", "w_y", "w_z",
}

// bodySeparator closes every body segment with a blank column.
const bodySeparator = " ,"

// RowRecorder appends one CSV row per tick to a versioned run file.
type RowRecorder struct {
	dir    string
	prefix string
	cfg    settings

	file  *os.File
	w     *bufio.Writer
	path  string
	index int
	rows  int
	buf   []byte

	open   bool
	closed bool
}

func NewRowRecorder(dir, prefix string, opts ...Option) *RowRecorder {
	return &RowRecorder{
		dir:    dir,
		prefix: prefix,
		cfg:    newSettings(opts),
	}
}

// OpenIfNeeded creates the run file and writes the header. It is a no-op
// once the file is open. On failure the recorder stays closed and the next
// call scans the directory again.
func (r *RowRecorder) OpenIfNeeded(bodies []dynamo.Body) error {
	if r.closed {
		return ErrClosed
	}
	if r.open {
		return nil
	}

	if err := EnsureDir(r.dir); err != nil {
		r.cfg.logger.Error("telemetry: failed to create row log directory", "dir", r.dir, "error", err)
		return fmt.Errorf("telemetry: row log dir: %w", err)
	}

	f, index, err := CreateVersioned(r.dir, r.prefix, rowExt)
	if err != nil {
		r.cfg.logger.Error("telemetry: failed to open row log", "dir", r.dir, "prefix", r.prefix, "error", err)
		return fmt.Errorf("telemetry: open row log: %w", err)
	}

	r.file = f
	r.w = bufio.NewWriter(f)
	r.path = f.Name()
	r.index = index
	r.open = true

	if _, err := r.w.Write(appendHeader(r.buf[:0], bodies)); err != nil {
		return r.writeFailed(err)
	}
	if err := r.w.Flush(); err != nil {
		return r.writeFailed(err)
	}

	r.cfg.logger.Debug("telemetry: row log opened", "path", r.path, "bodies", len(bodies))
	return nil
}

// CaptureFrame appends one row holding the state of every body.
func (r *RowRecorder) CaptureFrame(bodies []dynamo.Body) error {
	if err := r.OpenIfNeeded(bodies); err != nil {
		return err
	}

	r.buf = r.buf[:0]
	for _, b := range bodies {
		r.buf = appendSegment(r.buf, b)
	}
	r.buf = append(r.buf, '\n')

	if _, err := r.w.Write(r.buf); err != nil {
		return r.writeFailed(err)
	}
	r.rows++

	if r.rows%r.cfg.flushEvery == 0 {
		if err := r.w.Flush(); err != nil {
			return r.writeFailed(err)
		}
	}
	return nil
}

// Close flushes and closes the run file. Repeated calls are no-ops.
func (r *RowRecorder) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	if !r.open {
		return nil
	}
	r.open = false

	flushErr := r.w.Flush()
	closeErr := r.file.Close()
	if err := errors.Join(flushErr, closeErr); err != nil {
		r.cfg.logger.Error("telemetry: failed to close row log", "path", r.path, "error", err)
		return err
	}
	return nil
}

// Path is the run file path, empty until the file is opened.
func (r *RowRecorder) Path() string { return r.path }

// Index is the version index of the run file.
func (r *RowRecorder) Index() int { return r.index }

// Rows is the number of data rows written.
func (r *RowRecorder) Rows() int { return r.rows }

func (r *RowRecorder) IsOpen() bool { return r.open }

func (r *RowRecorder) writeFailed(err error) error {
	r.cfg.logger.Error("telemetry: row log write failed", "path", r.path, "error", err)
	return fmt.Errorf("telemetry: write row log: %w", err)
}

func appendHeader(buf []byte, bodies []dynamo.Body) []byte {
	for _, b := range bodies {
		buf = append(buf, b.Name()...)
		for _, col := range RowColumns {
			buf = append(buf, ',')
			buf = append(buf, col...)
		}
		buf = append(buf, ',')
		buf = append(buf, bodySeparator...)
	}
	return append(buf, '\n')
}

func appendSegment(buf []byte, b dynamo.Body) []byte {
	p := b.Position()
	q := b.Orientation().XYZW()
	v := b.LinearVelocity()
	w := b.AngularVelocity()

	buf = appendFloats(buf, p.X, p.Y, p.Z)
	buf = appendFloats(buf, q[0], q[1], q[2], q[3])
	buf = appendFloats(buf, v.X, v.Y, v.Z)
	buf = appendFloats(buf, w.X, w.Y, w.Z)
	buf = append(buf, ',')
	return append(buf, bodySeparator...)
}

func appendFloats(buf []byte, vals ...float64) []byte {
	for _, v := range vals {
		buf = append(buf, ',')
		buf = strconv.AppendFloat(buf, v, 'g', -1, 64)
	}
	return buf
}
