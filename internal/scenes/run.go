package scenes

import (
	"context"
	"time"

	"github.com/san-kum/rigidlog/internal/dynamo"
	"github.com/san-kum/rigidlog/internal/physics"
	"github.com/san-kum/rigidlog/internal/telemetry"
)

type RunConfig struct {
	Dt         float64
	Duration   float64
	Params     Params
	Integrator dynamo.Integrator
	Telemetry  telemetry.Options

	// OnProgress is called after every recorded tick.
	OnProgress func(Progress)
}

type Summary struct {
	RunID       string
	Scene       string
	Bodies      int
	Ticks       int
	RowLog      string
	Document    string
	RowFailures int
	SimTime     float64
	Elapsed     time.Duration
}

// Run builds the scene, records every tick and tears the recorders down on
// every exit path. The summary is filled as far as the run got.
func Run(ctx context.Context, entry Entry, cfg RunConfig) (*Summary, error) {
	var (
		sc   *Scene
		sess *telemetry.Session
	)
	summary := &Summary{Scene: entry.Name}
	start := time.Now()

	setup := func(ctx context.Context) ([]dynamo.Body, error) {
		var err error
		sc, err = entry.Build(cfg.Integrator, cfg.Params)
		if err != nil {
			return nil, err
		}
		return sc.Bodies(), nil
	}

	loop := func(ctx context.Context, s *telemetry.Session) error {
		sess = s
		sc.Attach(s)
		sc.OnProgress(cfg.OnProgress)
		return sc.World.Run(ctx, physics.Config{Dt: cfg.Dt, Duration: cfg.Duration})
	}

	err := telemetry.Run(ctx, cfg.Telemetry, setup, loop)

	summary.Elapsed = time.Since(start)
	if sc != nil {
		summary.Bodies = len(sc.Tracked)
		summary.SimTime = sc.World.Time()
	}
	if sess != nil {
		summary.RunID = sess.ID()
		summary.Ticks = sess.Ticks()
		summary.RowLog = sess.RowLogPath()
		summary.Document = sess.DocumentPath()
		summary.RowFailures = sess.RowFailures()
	}
	return summary, err
}
