// Package sim drives the turn loop: on every step it snapshots all body
// positions from the catalog, notifies listeners, records metrics, and
// advances the turn clock.
package sim

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/signalsfoundry/orbit-simulator/catalog"
	"github.com/signalsfoundry/orbit-simulator/internal/logging"
	"github.com/signalsfoundry/orbit-simulator/internal/observability"
	"github.com/signalsfoundry/orbit-simulator/turnctrl"
)

// BodyPosition is one entry of a per-turn snapshot.
type BodyPosition = catalog.BodyPosition

// TurnListener receives the turn number and the positions computed for it.
// Listeners run synchronously inside Step; a slow listener slows the loop.
type TurnListener func(turn int64, positions []BodyPosition)

// MetricsRecorder receives per-turn measurements.
type MetricsRecorder interface {
	ObserveTurn(d time.Duration)
	AddPositionQueries(n int)
	AddTableRecomputes(n int)
}

// Engine couples a catalog with a turn clock.
type Engine struct {
	cat   *catalog.Catalog
	clock *turnctrl.TurnClock

	listeners []TurnListener
	log       logging.Logger
	metrics   MetricsRecorder

	lastRecomputes uint64
}

// Option customises Engine construction.
type Option func(*Engine)

// WithLogger attaches a structured logger for per-turn debug lines.
func WithLogger(log logging.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// WithMetricsRecorder attaches a recorder for turn metrics.
func WithMetricsRecorder(m MetricsRecorder) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// NewEngine constructs an engine over the given catalog. The clock starts
// at turn 0.
func NewEngine(cat *catalog.Catalog, opts ...Option) *Engine {
	e := &Engine{
		cat:   cat,
		clock: turnctrl.NewTurnClock(),
		log:   logging.Noop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.lastRecomputes = cat.Recomputes()
	return e
}

// Clock returns the engine's turn clock.
func (e *Engine) Clock() *turnctrl.TurnClock { return e.clock }

// RegisterTurnListener adds a listener invoked after every step.
// Not safe to call concurrently with Step or Run.
func (e *Engine) RegisterTurnListener(fn TurnListener) {
	e.listeners = append(e.listeners, fn)
}

// Step executes one turn: it snapshots every body's position at the
// current turn, notifies listeners, records metrics, and advances the
// clock.
func (e *Engine) Step(ctx context.Context) []BodyPosition {
	ctx, span := observability.StartSpan(ctx, "sim.Step")
	defer span.End()

	start := time.Now()
	turn := e.clock.Turn()
	positions := e.cat.Snapshot(turn)
	span.SetAttributes(
		attribute.Int64("turn", turn),
		attribute.Int("bodies", len(positions)),
	)

	for _, fn := range e.listeners {
		fn(turn, positions)
	}

	if e.metrics != nil {
		e.metrics.ObserveTurn(time.Since(start))
		e.metrics.AddPositionQueries(len(positions))

		recomputes := e.cat.Recomputes()
		e.metrics.AddTableRecomputes(int(recomputes - e.lastRecomputes))
		e.lastRecomputes = recomputes
	}

	e.log.Debug(ctx, "turn complete",
		logging.Int64("turn", turn),
		logging.Int("bodies", len(positions)),
	)

	e.clock.Advance()
	return positions
}

// Run executes up to turns steps, stopping early when ctx is done. It
// returns the number of steps executed.
func (e *Engine) Run(ctx context.Context, turns int64) int64 {
	ctx, span := observability.StartSpan(ctx, "sim.Run")
	defer span.End()
	span.SetAttributes(attribute.Int64("turns", turns))

	var executed int64
	for executed < turns {
		select {
		case <-ctx.Done():
			e.log.Info(ctx, "run cancelled",
				logging.Int64("executed", executed),
				logging.Int64("requested", turns),
			)
			return executed
		default:
		}
		e.Step(ctx)
		executed++
	}
	return executed
}
