// Package catalog is the thread-safe registry of bodies. It owns body
// lifetimes and supplies the external synchronization that the orbit core
// requires: every access to a registered body's orbit, including position
// queries (which may rebuild a dirty step table), runs under the catalog
// lock.
package catalog

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/signalsfoundry/orbit-simulator/ident"
	"github.com/signalsfoundry/orbit-simulator/internal/logging"
	"github.com/signalsfoundry/orbit-simulator/model"
	"github.com/signalsfoundry/orbit-simulator/orbit"
)

var (
	// ErrBodyNotFound indicates a requested body is not registered.
	ErrBodyNotFound = errors.New("body not found")
	// ErrDuplicateID indicates a body with the same ID already exists.
	ErrDuplicateID = errors.New("body ID already exists")
	// ErrDuplicateName indicates a body with the same name already exists.
	ErrDuplicateName = errors.New("body name already exists")
	// ErrInvalidBody indicates an input body failed structural checks.
	ErrInvalidBody = errors.New("invalid body")
)

// EventType indicates what kind of change happened in the catalog.
type EventType int

const (
	EventBodyAdded EventType = iota
	EventBodyRemoved
	EventOrbitUpdated
)

// Event is emitted to subscribers when the catalog changes.
type Event struct {
	Type EventType
	ID   int64
	Name string
}

// BodyPosition is one entry of a position snapshot.
type BodyPosition struct {
	ID   int64
	Name string
	Pos  orbit.Position
}

// MetricsRecorder receives catalog gauge updates after every mutation.
type MetricsRecorder interface {
	SetBodyCount(count int)
	SetMaxChainDepth(depth int)
}

// Catalog is an in-memory, thread-safe store of bodies.
type Catalog struct {
	mu sync.RWMutex

	byID   map[int64]*model.Body
	byName map[string]*model.Body

	subs      []subscriber
	nextSubID int

	seq     *ident.Sequence
	log     logging.Logger
	metrics MetricsRecorder
}

// subscriber keys a callback by its own ID so unsubscribing one does not
// shift which callback a later unsubscribe removes.
type subscriber struct {
	id int
	fn func(Event)
}

// Option customises Catalog construction.
type Option func(*Catalog)

// WithLogger attaches a structured logger for catalog-level events.
func WithLogger(log logging.Logger) Option {
	return func(c *Catalog) {
		if log != nil {
			c.log = log
		}
	}
}

// WithMetricsRecorder attaches a recorder for the body-count and
// chain-depth gauges.
func WithMetricsRecorder(m MetricsRecorder) Option {
	return func(c *Catalog) {
		c.metrics = m
	}
}

// WithSequence supplies the identity sequence used for bodies registered
// without an ID. Useful when several catalogs must share one ID space.
func WithSequence(seq *ident.Sequence) Option {
	return func(c *Catalog) {
		if seq != nil {
			c.seq = seq
		}
	}
}

// NewCatalog constructs an empty catalog.
func NewCatalog(opts ...Option) *Catalog {
	c := &Catalog{
		byID:   make(map[int64]*model.Body),
		byName: make(map[string]*model.Body),
		seq:    &ident.Sequence{},
		log:    logging.Noop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AddBody registers a body and returns its ID, assigning one from the
// identity sequence when the body carries none. The catalog stores the
// pointer, so the caller must not mutate the body afterwards except
// through UpdateOrbit.
func (c *Catalog) AddBody(b *model.Body) (int64, error) {
	if b == nil {
		return 0, fmt.Errorf("%w: nil body", ErrInvalidBody)
	}
	if b.Name == "" {
		return 0, fmt.Errorf("%w: body has no name", ErrInvalidBody)
	}

	c.mu.Lock()
	if _, exists := c.byName[b.Name]; exists {
		c.mu.Unlock()
		return 0, fmt.Errorf("%w: %q", ErrDuplicateName, b.Name)
	}
	if b.ID != 0 {
		if _, exists := c.byID[b.ID]; exists {
			c.mu.Unlock()
			return 0, fmt.Errorf("%w: %d", ErrDuplicateID, b.ID)
		}
	} else {
		// Explicitly registered IDs may sit ahead of the sequence; skip
		// past them rather than overwrite their bodies.
		id := c.seq.Next()
		for {
			if _, taken := c.byID[id]; !taken {
				break
			}
			id = c.seq.Next()
		}
		b.ID = id
	}
	c.byID[b.ID] = b
	c.byName[b.Name] = b
	c.recordGaugesLocked()
	subs := c.subscribersLocked()
	c.mu.Unlock()

	c.notify(subs, Event{Type: EventBodyAdded, ID: b.ID, Name: b.Name})
	return b.ID, nil
}

// BodyByID returns the body with the given ID.
func (c *Catalog) BodyByID(id int64) (*model.Body, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	b, ok := c.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", ErrBodyNotFound, id)
	}
	return b, nil
}

// BodyByName returns the body with the given name.
func (c *Catalog) BodyByName(name string) (*model.Body, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	b, ok := c.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: name %q", ErrBodyNotFound, name)
	}
	return b, nil
}

// ListBodies returns all bodies ordered by ID. The slice is fresh; the
// pointed-to bodies are shared and must be treated as read-only.
func (c *Catalog) ListBodies() []*model.Body {
	c.mu.RLock()
	defer c.mu.RUnlock()

	res := make([]*model.Body, 0, len(c.byID))
	for _, b := range c.byID {
		res = append(res, b)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res
}

// Len returns the number of registered bodies.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.byID)
}

// RemoveBody unregisters a body. Orbits of other bodies that referenced
// the removed body's orbit as a parent keep their stale pointer; removal
// does not rewire children.
func (c *Catalog) RemoveBody(id int64) error {
	c.mu.Lock()
	b, ok := c.byID[id]
	if !ok {
		c.mu.Unlock()
		return fmt.Errorf("%w: id %d", ErrBodyNotFound, id)
	}
	delete(c.byID, id)
	delete(c.byName, b.Name)
	c.recordGaugesLocked()
	subs := c.subscribersLocked()
	c.mu.Unlock()

	c.notify(subs, Event{Type: EventBodyRemoved, ID: id, Name: b.Name})
	return nil
}

// UpdateOrbit mutates a body's orbit under the write lock and notifies
// subscribers. It is the only sanctioned way to change an orbit after
// registration; mutating the configuration directly races with position
// queries.
func (c *Catalog) UpdateOrbit(id int64, mutate func(*orbit.Config)) error {
	if mutate == nil {
		return nil
	}

	c.mu.Lock()
	b, ok := c.byID[id]
	if !ok {
		c.mu.Unlock()
		return fmt.Errorf("%w: id %d", ErrBodyNotFound, id)
	}
	if b.Orbit == nil {
		b.Orbit = orbit.NewConfig()
	}
	mutate(b.Orbit)
	c.recordGaugesLocked()
	subs := c.subscribersLocked()
	name := b.Name
	c.mu.Unlock()

	c.notify(subs, Event{Type: EventOrbitUpdated, ID: id, Name: name})
	return nil
}

// PositionAt returns a body's position at the given turn. It takes the
// write lock because the query may rebuild a dirty step table.
func (c *Catalog) PositionAt(id int64, turn int64) (orbit.Position, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	b, ok := c.byID[id]
	if !ok {
		return orbit.Position{}, fmt.Errorf("%w: id %d", ErrBodyNotFound, id)
	}
	if b.Orbit == nil {
		return orbit.Position{}, nil
	}
	return b.Orbit.PositionAt(turn), nil
}

// Snapshot returns the position of every body at the given turn, ordered
// by ID. Like PositionAt it takes the write lock.
func (c *Catalog) Snapshot(turn int64) []BodyPosition {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]BodyPosition, 0, len(c.byID))
	for _, b := range c.byID {
		var pos orbit.Position
		if b.Orbit != nil {
			pos = b.Orbit.PositionAt(turn)
		}
		out = append(out, BodyPosition{ID: b.ID, Name: b.Name, Pos: pos})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Recomputes sums the step-table rebuild counters of all registered
// orbits. The simulation engine diffs successive readings to expose a
// recompute rate.
func (c *Catalog) Recomputes() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var total uint64
	for _, b := range c.byID {
		if b.Orbit != nil {
			total += b.Orbit.Recomputes()
		}
	}
	return total
}

// MaxChainDepth returns the length of the longest parent chain among
// registered bodies. A body with no parent has depth 1. Depth is capped
// at the catalog size, which also keeps a cyclic chain from spinning the
// walk forever.
func (c *Catalog) MaxChainDepth() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.maxChainDepthLocked()
}

func (c *Catalog) maxChainDepthLocked() int {
	limit := len(c.byID)
	max := 0
	for _, b := range c.byID {
		depth := 0
		cfg := b.Orbit
		for cfg != nil && depth < limit {
			depth++
			cfg = cfg.Parent()
		}
		if depth > max {
			max = depth
		}
	}
	return max
}

// Subscribe registers a callback for catalog events and returns an
// unsubscribe function. Callbacks run outside the catalog lock, so a
// subscriber may call back into the catalog.
func (c *Catalog) Subscribe(fn func(Event)) (unsubscribe func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextSubID
	c.nextSubID++
	c.subs = append(c.subs, subscriber{id: id, fn: fn})

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		for i, sub := range c.subs {
			if sub.id == id {
				c.subs = append(c.subs[:i], c.subs[i+1:]...)
				return
			}
		}
	}
}

func (c *Catalog) notify(subs []func(Event), ev Event) {
	for _, sub := range subs {
		sub(ev)
	}
}

// subscribersLocked copies the current callbacks so they can be invoked
// after the lock is released.
func (c *Catalog) subscribersLocked() []func(Event) {
	if len(c.subs) == 0 {
		return nil
	}
	fns := make([]func(Event), len(c.subs))
	for i, sub := range c.subs {
		fns[i] = sub.fn
	}
	return fns
}

func (c *Catalog) recordGaugesLocked() {
	if c.metrics == nil {
		return
	}
	c.metrics.SetBodyCount(len(c.byID))
	c.metrics.SetMaxChainDepth(c.maxChainDepthLocked())
}
