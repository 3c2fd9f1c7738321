package sim

import (
	"context"
	"testing"
	"time"

	"github.com/signalsfoundry/orbit-simulator/catalog"
	"github.com/signalsfoundry/orbit-simulator/model"
	"github.com/signalsfoundry/orbit-simulator/orbit"
)

func newTestCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat := catalog.NewCatalog()

	cfg := orbit.NewConfig()
	cfg.SetMajorWidth(10)
	cfg.SetMinorWidth(5)
	cfg.SetStepCount(4)
	cfg.SetClockwise(true)
	if _, err := cat.AddBody(&model.Body{Name: "a", Kind: model.KindPlanet, Orbit: cfg}); err != nil {
		t.Fatalf("AddBody error: %v", err)
	}
	return cat
}

func TestStepAdvancesClockAndNotifiesListeners(t *testing.T) {
	cat := newTestCatalog(t)
	engine := NewEngine(cat)

	var gotTurns []int64
	var lastPositions []BodyPosition
	engine.RegisterTurnListener(func(turn int64, positions []BodyPosition) {
		gotTurns = append(gotTurns, turn)
		lastPositions = positions
	})

	engine.Step(context.Background())
	engine.Step(context.Background())

	if engine.Clock().Turn() != 2 {
		t.Fatalf("clock at turn %d after two steps, want 2", engine.Clock().Turn())
	}
	if len(gotTurns) != 2 || gotTurns[0] != 0 || gotTurns[1] != 1 {
		t.Fatalf("listener turns = %v, want [0 1]", gotTurns)
	}
	if len(lastPositions) != 1 || lastPositions[0].Name != "a" {
		t.Fatalf("listener positions = %+v, want one entry for a", lastPositions)
	}
	// Turn 1 of a 4-step clockwise orbit sits at (0, -minor).
	if lastPositions[0].Pos.X != 0 || lastPositions[0].Pos.Y != -5 {
		t.Fatalf("turn 1 position = %+v, want (0, -5)", lastPositions[0].Pos)
	}
}

func TestRunExecutesRequestedTurns(t *testing.T) {
	cat := newTestCatalog(t)
	engine := NewEngine(cat)

	if got := engine.Run(context.Background(), 10); got != 10 {
		t.Fatalf("Run executed %d turns, want 10", got)
	}
	if engine.Clock().Turn() != 10 {
		t.Fatalf("clock at turn %d after run, want 10", engine.Clock().Turn())
	}
}

func TestRunStopsOnContextCancellation(t *testing.T) {
	cat := newTestCatalog(t)
	engine := NewEngine(cat)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if got := engine.Run(ctx, 100); got != 0 {
		t.Fatalf("Run executed %d turns after cancellation, want 0", got)
	}
}

type fakeMetrics struct {
	turns      int
	durations  []time.Duration
	queries    int
	recomputes int
}

func (m *fakeMetrics) ObserveTurn(d time.Duration) {
	m.turns++
	m.durations = append(m.durations, d)
}
func (m *fakeMetrics) AddPositionQueries(n int) { m.queries += n }
func (m *fakeMetrics) AddTableRecomputes(n int) { m.recomputes += n }

func TestStepRecordsMetrics(t *testing.T) {
	cat := newTestCatalog(t)
	rec := &fakeMetrics{}
	engine := NewEngine(cat, WithMetricsRecorder(rec))

	engine.Step(context.Background())
	engine.Step(context.Background())

	if rec.turns != 2 {
		t.Fatalf("ObserveTurn called %d times, want 2", rec.turns)
	}
	if rec.queries != 2 {
		t.Fatalf("position queries = %d, want 2", rec.queries)
	}
	// The single orbit builds its table once, on the first step.
	if rec.recomputes != 1 {
		t.Fatalf("table recomputes = %d, want 1", rec.recomputes)
	}
}

func TestStepRecordsRecomputeAfterOrbitUpdate(t *testing.T) {
	cat := newTestCatalog(t)
	rec := &fakeMetrics{}
	engine := NewEngine(cat, WithMetricsRecorder(rec))

	engine.Step(context.Background())

	body, err := cat.BodyByName("a")
	if err != nil {
		t.Fatalf("BodyByName error: %v", err)
	}
	if err := cat.UpdateOrbit(body.ID, func(cfg *orbit.Config) {
		cfg.SetRotation(0.5)
	}); err != nil {
		t.Fatalf("UpdateOrbit error: %v", err)
	}

	engine.Step(context.Background())
	if rec.recomputes != 2 {
		t.Fatalf("table recomputes = %d, want 2 (initial build plus rebuild)", rec.recomputes)
	}
}
