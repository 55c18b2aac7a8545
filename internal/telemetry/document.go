package telemetry

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/san-kum/rigidlog/internal/dynamo"
)

const docExt = ".json"

// ObjectMeta is the static description of one tracked body. Geometry fields
// are only set for spheres and boxes.
type ObjectMeta struct {
	Name   string   `json:"name"`
	Type   string   `json:"type,omitempty"`
	Radius *float64 `json:"radius,omitempty"`
	Hx     *float64 `json:"hx,omitempty"`
	Hy     *float64 `json:"hy,omitempty"`
	Hz     *float64 `json:"hz,omitempty"`
}

// Pose is one body's position and (w, x, y, z) quaternion in a frame.
type Pose struct {
	Position   [3]float64 `json:"position"`
	Quaternion [4]float64 `json:"quaternion"`
}

// Frame maps tagged body names to their pose at one tick.
type Frame map[string]Pose

// Document is the on-disk layout of the frame document.
type Document struct {
	Meta   []ObjectMeta `json:"meta"`
	Frames []Frame      `json:"frames"`
}

// DocumentRecorder accumulates metadata and poses and writes them as one
// JSON document at teardown.
type DocumentRecorder struct {
	dir    string
	prefix string
	cfg    settings

	meta       []ObjectMeta
	names      []string
	registered bool

	// frames are stored by registration index and keyed by name on write.
	frames [][]Pose

	flushed bool
}

func NewDocumentRecorder(dir, prefix string, opts ...Option) *DocumentRecorder {
	return &DocumentRecorder{
		dir:    dir,
		prefix: prefix,
		cfg:    newSettings(opts),
		meta:   make([]ObjectMeta, 0),
		frames: make([][]Pose, 0),
	}
}

func metaFor(b dynamo.Body, tag string) ObjectMeta {
	m := ObjectMeta{Name: b.Name() + tag}

	switch s := b.Shape().(type) {
	case dynamo.Sphere:
		r := s.Radius
		m.Type = dynamo.KindSphere.String()
		m.Radius = &r
	case dynamo.Box:
		// doubled half extents, margin included
		hx, hy, hz := 2*s.HalfExtents.X, 2*s.HalfExtents.Y, 2*s.HalfExtents.Z
		m.Type = dynamo.KindBox.String()
		m.Hx, m.Hy, m.Hz = &hx, &hy, &hz
	}
	return m
}

// RegisterObjects builds the metadata list. It must be called exactly once,
// after every tracked body exists.
func (d *DocumentRecorder) RegisterObjects(bodies []dynamo.Body) error {
	if d.flushed {
		return ErrClosed
	}
	if d.registered {
		return ErrAlreadyRegistered
	}

	seen := make(map[string]struct{}, len(bodies))
	meta := make([]ObjectMeta, 0, len(bodies))
	names := make([]string, 0, len(bodies))
	for _, b := range bodies {
		name := b.Name()
		if _, dup := seen[name]; dup {
			return fmt.Errorf("%w: %q", ErrDuplicateName, name)
		}
		seen[name] = struct{}{}
		meta = append(meta, metaFor(b, d.cfg.nameTag))
		names = append(names, name)
	}

	d.meta = meta
	d.names = names
	d.registered = true
	return nil
}

// CaptureFrame appends the pose of every body. bodies must match the
// registered set in count and order.
func (d *DocumentRecorder) CaptureFrame(bodies []dynamo.Body) error {
	if d.flushed {
		return ErrClosed
	}
	if len(bodies) != len(d.meta) {
		return &MismatchError{Want: len(d.meta), Got: len(bodies), Wrapped: ErrBodyCountMismatch}
	}

	poses := make([]Pose, len(bodies))
	for i, b := range bodies {
		if name := b.Name(); name != d.names[i] {
			return &MismatchError{Index: i, WantName: d.names[i], GotName: name, Wrapped: ErrBodyOrderMismatch}
		}
		poses[i] = Pose{
			Position:   b.Position().Array(),
			Quaternion: b.Orientation().WXYZ(),
		}
	}

	d.frames = append(d.frames, poses)
	return nil
}

// Document materializes the accumulated metadata and frames.
func (d *DocumentRecorder) Document() Document {
	doc := Document{
		Meta:   d.Meta(),
		Frames: make([]Frame, len(d.frames)),
	}
	for i, poses := range d.frames {
		frame := make(Frame, len(poses))
		for j, p := range poses {
			frame[d.meta[j].Name] = p
		}
		doc.Frames[i] = frame
	}
	return doc
}

// Meta returns a copy of the metadata list.
func (d *DocumentRecorder) Meta() []ObjectMeta {
	out := make([]ObjectMeta, len(d.meta))
	copy(out, d.meta)
	return out
}

func (d *DocumentRecorder) FrameCount() int { return len(d.frames) }

// Path is the fixed document path. Every run with the same prefix writes
// to it.
func (d *DocumentRecorder) Path() string {
	return filepath.Join(d.dir, d.prefix+docExt)
}

// Flush writes the document. Only the first call writes; failures are
// logged and returned but leave the simulation untouched.
func (d *DocumentRecorder) Flush() error {
	if d.flushed {
		return nil
	}
	d.flushed = true

	if err := EnsureDir(d.dir); err != nil {
		d.cfg.logger.Error("telemetry: failed to create document directory", "dir", d.dir, "error", err)
		return fmt.Errorf("telemetry: document dir: %w", err)
	}

	path := d.Path()
	if err := writeDocument(path, d.Document()); err != nil {
		d.cfg.logger.Error("telemetry: failed to write document", "path", path, "error", err)
		return fmt.Errorf("telemetry: write document: %w", err)
	}

	d.cfg.logger.Debug("telemetry: document written", "path", path, "objects", len(d.meta), "frames", len(d.frames))
	return nil
}

// Close is Flush.
func (d *DocumentRecorder) Close() error { return d.Flush() }

func writeDocument(path string, doc Document) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	encErr := enc.Encode(doc)
	flushErr := w.Flush()
	closeErr := f.Close()
	return errors.Join(encErr, flushErr, closeErr)
}
