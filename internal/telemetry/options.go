package telemetry

import "log/slog"

const (
	DefaultRowDir    = "BodyInfo"
	DefaultDocDir    = "JsonInfo"
	DefaultDocPrefix = "Scene"
	DefaultNameTag   = "_bullet3"
)

type settings struct {
	logger     *slog.Logger
	flushEvery int
	nameTag    string
}

func newSettings(opts []Option) settings {
	s := settings{
		logger:     slog.Default(),
		flushEvery: 1,
		nameTag:    DefaultNameTag,
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// Option configures a recorder.
type Option func(*settings)

// WithLogger sets the logger used for non-fatal I/O failures.
func WithLogger(l *slog.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithFlushEvery flushes the row log every n ticks. Values below 1 flush
// every tick.
func WithFlushEvery(n int) Option {
	return func(s *settings) {
		if n < 1 {
			n = 1
		}
		s.flushEvery = n
	}
}

// WithNameTag sets the suffix appended to body names in the document.
func WithNameTag(tag string) Option {
	return func(s *settings) { s.nameTag = tag }
}

// Options holds the output layout of one session.
type Options struct {
	RowDir     string
	RowPrefix  string
	DocDir     string
	DocPrefix  string
	NameTag    string
	FlushEvery int
	Logger     *slog.Logger
}

// DefaultOptions returns the standard layout for a scene whose row logs use
// rowPrefix.
func DefaultOptions(rowPrefix string) Options {
	return Options{
		RowDir:     DefaultRowDir,
		RowPrefix:  rowPrefix,
		DocDir:     DefaultDocDir,
		DocPrefix:  DefaultDocPrefix,
		NameTag:    DefaultNameTag,
		FlushEvery: 1,
	}
}

func (o Options) recorderOptions() []Option {
	return []Option{
		WithLogger(o.Logger),
		WithFlushEvery(o.FlushEvery),
		WithNameTag(o.NameTag),
	}
}
