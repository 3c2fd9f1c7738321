package catalog

import (
	"errors"
	"testing"

	"github.com/signalsfoundry/orbit-simulator/model"
	"github.com/signalsfoundry/orbit-simulator/orbit"
)

func newTestBody(name string) *model.Body {
	cfg := orbit.NewConfig()
	cfg.SetMajorWidth(10)
	cfg.SetMinorWidth(5)
	cfg.SetStepCount(4)
	cfg.SetClockwise(true)
	return &model.Body{Name: name, Kind: model.KindPlanet, Orbit: cfg}
}

func TestAddBodyAssignsSequentialIDs(t *testing.T) {
	cat := NewCatalog()

	id1, err := cat.AddBody(newTestBody("a"))
	if err != nil {
		t.Fatalf("AddBody(a) error: %v", err)
	}
	id2, err := cat.AddBody(newTestBody("b"))
	if err != nil {
		t.Fatalf("AddBody(b) error: %v", err)
	}
	if id1 != 1 || id2 != 2 {
		t.Fatalf("IDs = %d, %d, want 1, 2", id1, id2)
	}
	if got := cat.Len(); got != 2 {
		t.Fatalf("Len() = %d, want 2", got)
	}
}

func TestAddBodySkipsExplicitIDsOnAutoAssign(t *testing.T) {
	cat := NewCatalog()

	explicit := newTestBody("explicit")
	explicit.ID = 1
	if _, err := cat.AddBody(explicit); err != nil {
		t.Fatalf("AddBody(explicit) error: %v", err)
	}

	autoID, err := cat.AddBody(newTestBody("auto"))
	if err != nil {
		t.Fatalf("AddBody(auto) error: %v", err)
	}
	if autoID != 2 {
		t.Fatalf("auto-assigned ID = %d, want 2", autoID)
	}
	if got := cat.Len(); got != 2 {
		t.Fatalf("Len() = %d, want 2", got)
	}

	byID, err := cat.BodyByID(1)
	if err != nil || byID.Name != "explicit" {
		t.Fatalf("BodyByID(1) = %v, %v, want explicit", byID, err)
	}
	byID, err = cat.BodyByID(autoID)
	if err != nil || byID.Name != "auto" {
		t.Fatalf("BodyByID(%d) = %v, %v, want auto", autoID, byID, err)
	}
}

func TestAddBodyRejectsInvalidInput(t *testing.T) {
	cat := NewCatalog()
	if _, err := cat.AddBody(newTestBody("a")); err != nil {
		t.Fatalf("AddBody(a) error: %v", err)
	}

	tests := []struct {
		name    string
		body    *model.Body
		wantErr error
	}{
		{"nil body", nil, ErrInvalidBody},
		{"unnamed body", &model.Body{}, ErrInvalidBody},
		{"duplicate name", newTestBody("a"), ErrDuplicateName},
		{"duplicate id", &model.Body{ID: 1, Name: "c"}, ErrDuplicateID},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := cat.AddBody(tc.body); !errors.Is(err, tc.wantErr) {
				t.Fatalf("AddBody error = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestBodyLookups(t *testing.T) {
	cat := NewCatalog()
	id, err := cat.AddBody(newTestBody("luna"))
	if err != nil {
		t.Fatalf("AddBody error: %v", err)
	}

	byID, err := cat.BodyByID(id)
	if err != nil || byID.Name != "luna" {
		t.Fatalf("BodyByID(%d) = %v, %v", id, byID, err)
	}
	byName, err := cat.BodyByName("luna")
	if err != nil || byName.ID != id {
		t.Fatalf("BodyByName(luna) = %v, %v", byName, err)
	}

	if _, err := cat.BodyByID(99); !errors.Is(err, ErrBodyNotFound) {
		t.Fatalf("BodyByID(99) error = %v, want ErrBodyNotFound", err)
	}
	if _, err := cat.BodyByName("nope"); !errors.Is(err, ErrBodyNotFound) {
		t.Fatalf("BodyByName(nope) error = %v, want ErrBodyNotFound", err)
	}
}

func TestListBodiesOrderedByID(t *testing.T) {
	cat := NewCatalog()
	for _, name := range []string{"c", "a", "b"} {
		if _, err := cat.AddBody(newTestBody(name)); err != nil {
			t.Fatalf("AddBody(%s) error: %v", name, err)
		}
	}

	list := cat.ListBodies()
	if len(list) != 3 {
		t.Fatalf("ListBodies() returned %d bodies, want 3", len(list))
	}
	for i, b := range list {
		if b.ID != int64(i+1) {
			t.Fatalf("ListBodies()[%d].ID = %d, want %d", i, b.ID, i+1)
		}
	}
}

func TestRemoveBody(t *testing.T) {
	cat := NewCatalog()
	id, _ := cat.AddBody(newTestBody("a"))

	if err := cat.RemoveBody(id); err != nil {
		t.Fatalf("RemoveBody error: %v", err)
	}
	if got := cat.Len(); got != 0 {
		t.Fatalf("Len() after remove = %d, want 0", got)
	}
	if err := cat.RemoveBody(id); !errors.Is(err, ErrBodyNotFound) {
		t.Fatalf("second RemoveBody error = %v, want ErrBodyNotFound", err)
	}

	// The name is free for reuse after removal.
	if _, err := cat.AddBody(newTestBody("a")); err != nil {
		t.Fatalf("AddBody after remove error: %v", err)
	}
}

func TestUpdateOrbitAndPositionAt(t *testing.T) {
	cat := NewCatalog()
	id, _ := cat.AddBody(newTestBody("a"))

	if err := cat.UpdateOrbit(id, func(cfg *orbit.Config) {
		cfg.SetMajorWidth(8)
		cfg.SetMinorWidth(4)
	}); err != nil {
		t.Fatalf("UpdateOrbit error: %v", err)
	}

	pos, err := cat.PositionAt(id, 0)
	if err != nil {
		t.Fatalf("PositionAt error: %v", err)
	}
	if pos.X != 8 || pos.Y != 0 {
		t.Fatalf("PositionAt(0) = %+v, want (8, 0)", pos)
	}

	if err := cat.UpdateOrbit(99, func(*orbit.Config) {}); !errors.Is(err, ErrBodyNotFound) {
		t.Fatalf("UpdateOrbit(99) error = %v, want ErrBodyNotFound", err)
	}
}

func TestSnapshotOrderedByID(t *testing.T) {
	cat := NewCatalog()
	cat.AddBody(newTestBody("a"))
	cat.AddBody(newTestBody("b"))

	snap := cat.Snapshot(0)
	if len(snap) != 2 {
		t.Fatalf("Snapshot returned %d entries, want 2", len(snap))
	}
	if snap[0].ID != 1 || snap[1].ID != 2 {
		t.Fatalf("Snapshot order = %d, %d, want 1, 2", snap[0].ID, snap[1].ID)
	}
	if snap[0].Pos.X != 10 {
		t.Fatalf("Snapshot[0].Pos = %+v, want X=10", snap[0].Pos)
	}
}

func TestSubscribeReceivesEvents(t *testing.T) {
	cat := NewCatalog()

	var events []Event
	unsubscribe := cat.Subscribe(func(ev Event) {
		events = append(events, ev)
	})

	id, _ := cat.AddBody(newTestBody("a"))
	cat.UpdateOrbit(id, func(cfg *orbit.Config) { cfg.SetRotation(1) })
	cat.RemoveBody(id)

	want := []EventType{EventBodyAdded, EventOrbitUpdated, EventBodyRemoved}
	if len(events) != len(want) {
		t.Fatalf("received %d events, want %d", len(events), len(want))
	}
	for i, ev := range events {
		if ev.Type != want[i] {
			t.Fatalf("event %d type = %v, want %v", i, ev.Type, want[i])
		}
		if ev.ID != id || ev.Name != "a" {
			t.Fatalf("event %d = %+v, want id %d name a", i, ev, id)
		}
	}

	unsubscribe()
	cat.AddBody(newTestBody("b"))
	if len(events) != len(want) {
		t.Fatalf("received event after unsubscribe")
	}
}

func TestUnsubscribeRemovesOnlyOwnCallback(t *testing.T) {
	cat := NewCatalog()

	var first, second, third int
	unsubFirst := cat.Subscribe(func(Event) { first++ })
	unsubSecond := cat.Subscribe(func(Event) { second++ })
	cat.Subscribe(func(Event) { third++ })

	// Removing an earlier subscriber must not shift which callback a
	// later unsubscribe targets.
	unsubFirst()
	unsubSecond()

	cat.AddBody(newTestBody("a"))
	if first != 0 || second != 0 {
		t.Fatalf("unsubscribed callbacks fired: first=%d second=%d", first, second)
	}
	if third != 1 {
		t.Fatalf("remaining callback fired %d times, want 1", third)
	}

	// A second call for the same subscriber is a no-op.
	unsubSecond()
	cat.AddBody(newTestBody("b"))
	if third != 2 {
		t.Fatalf("remaining callback fired %d times, want 2", third)
	}
}

func TestSubscriberMayReenterCatalog(t *testing.T) {
	cat := NewCatalog()

	cat.Subscribe(func(ev Event) {
		// Re-entering the catalog from a callback must not deadlock.
		cat.Len()
	})
	if _, err := cat.AddBody(newTestBody("a")); err != nil {
		t.Fatalf("AddBody error: %v", err)
	}
}

type fakeRecorder struct {
	bodyCount int
	maxDepth  int
}

func (r *fakeRecorder) SetBodyCount(n int)     { r.bodyCount = n }
func (r *fakeRecorder) SetMaxChainDepth(d int) { r.maxDepth = d }

func TestMetricsRecorderTracksMutations(t *testing.T) {
	rec := &fakeRecorder{}
	cat := NewCatalog(WithMetricsRecorder(rec))

	parent := newTestBody("parent")
	child := newTestBody("child")
	cat.AddBody(parent)
	childID, _ := cat.AddBody(child)
	if rec.bodyCount != 2 {
		t.Fatalf("bodyCount = %d, want 2", rec.bodyCount)
	}

	cat.UpdateOrbit(childID, func(cfg *orbit.Config) {
		cfg.SetParent(parent.Orbit)
	})
	if rec.maxDepth != 2 {
		t.Fatalf("maxDepth = %d, want 2", rec.maxDepth)
	}

	cat.RemoveBody(childID)
	if rec.bodyCount != 1 {
		t.Fatalf("bodyCount after remove = %d, want 1", rec.bodyCount)
	}
}

func TestMaxChainDepth(t *testing.T) {
	cat := NewCatalog()
	if got := cat.MaxChainDepth(); got != 0 {
		t.Fatalf("MaxChainDepth() of empty catalog = %d, want 0", got)
	}

	a := newTestBody("a")
	b := newTestBody("b")
	c := newTestBody("c")
	cat.AddBody(a)
	cat.AddBody(b)
	id, _ := cat.AddBody(c)

	b.Orbit.SetParent(a.Orbit)
	cat.UpdateOrbit(id, func(cfg *orbit.Config) {
		cfg.SetParent(b.Orbit)
	})
	if got := cat.MaxChainDepth(); got != 3 {
		t.Fatalf("MaxChainDepth() = %d, want 3", got)
	}
}
