package telemetry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/san-kum/rigidlog/internal/dynamo"
)

// Session drives both recorders over one fixed set of tracked bodies.
type Session struct {
	id     string
	rows   *RowRecorder
	doc    *DocumentRecorder
	logger *slog.Logger

	bodies      []dynamo.Body
	registered  bool
	ticks       int
	rowFailures int
	closed      bool
}

// NewSession creates the recorders. No file is touched until the first
// tick or Close.
func NewSession(opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	id := "run_" + uuid.New().String()[:8]
	logger = logger.With("run", id)
	ropts := opts.recorderOptions()
	ropts = append(ropts, WithLogger(logger))
	return &Session{
		id:     id,
		rows:   NewRowRecorder(opts.RowDir, opts.RowPrefix, ropts...),
		doc:    NewDocumentRecorder(opts.DocDir, opts.DocPrefix, ropts...),
		logger: logger,
	}
}

// Register fixes the tracked body set and records its metadata.
func (s *Session) Register(bodies []dynamo.Body) error {
	if s.closed {
		return ErrClosed
	}
	if err := s.doc.RegisterObjects(bodies); err != nil {
		return err
	}
	s.bodies = append([]dynamo.Body(nil), bodies...)
	s.registered = true
	return nil
}

// Tick captures the current state of every tracked body in both formats.
// Row log I/O failures are logged and counted, never returned; a body set
// that no longer matches the metadata is returned as an error.
func (s *Session) Tick() error {
	if s.closed {
		return ErrClosed
	}
	if !s.registered {
		return ErrNotRegistered
	}

	if err := s.rows.CaptureFrame(s.bodies); err != nil {
		s.rowFailures++
	}
	if err := s.doc.CaptureFrame(s.bodies); err != nil {
		return err
	}
	s.ticks++
	return nil
}

// Close releases the row log and writes the document. Only the first call
// has any effect.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	err := errors.Join(s.rows.Close(), s.doc.Flush())
	s.logger.Info("telemetry: session closed",
		"ticks", s.ticks,
		"row_log", s.rows.Path(),
		"document", s.doc.Path(),
		"row_failures", s.rowFailures,
	)
	return err
}

// ID tags every log line of the session.
func (s *Session) ID() string { return s.id }

func (s *Session) Bodies() []dynamo.Body { return s.bodies }

func (s *Session) Ticks() int { return s.ticks }

func (s *Session) RowFailures() int { return s.rowFailures }

func (s *Session) RowLogPath() string { return s.rows.Path() }

func (s *Session) DocumentPath() string { return s.doc.Path() }

func (s *Session) Closed() bool { return s.closed }

// Run opens a session, registers the bodies returned by setup and hands the
// session to loop. The session is closed on every exit path: normal return,
// a setup or loop error, and a panic, which is re-raised after teardown.
// A setup failure still writes a document with the (empty) metadata.
func Run(ctx context.Context, opts Options, setup func(ctx context.Context) ([]dynamo.Body, error), loop func(ctx context.Context, s *Session) error) (err error) {
	s := NewSession(opts)
	defer func() {
		closeErr := s.Close()
		if err == nil && closeErr != nil {
			err = closeErr
		}
	}()

	bodies, err := setup(ctx)
	if err != nil {
		return fmt.Errorf("telemetry: setup: %w", err)
	}
	if err := s.Register(bodies); err != nil {
		return err
	}
	return loop(ctx, s)
}
