// Package orbit implements the orbital geometry core: validated orbit
// configurations, lazily precomputed step tables, and parent-relative
// position queries over discrete turns.
//
// A Config is single-threaded by design. It carries no internal locking,
// and cache invalidation is not atomic with respect to field mutation;
// callers that share configurations across goroutines must guard the
// configuration-and-cache pair with their own lock (the catalog package
// does exactly that).
package orbit

// Config describes one orbit: an ellipse (or a fixed point when both
// widths are zero) traversed in stepCount discrete steps, optionally
// positioned relative to a parent orbit.
//
// The zero-value-style configuration returned by NewConfig is invalid
// (zero widths, zero steps); owners mutate it field by field and check
// Validate before relying on positions. Every geometry setter marks the
// cached step table stale; the next PositionAt call rebuilds it.
type Config struct {
	majorWidth float64
	minorWidth float64
	stepCount  int
	stepOffset int
	rotation   float64
	offsetX    float64
	offsetY    float64
	clockwise  bool

	// parent is a non-owning reference; its lifetime is managed by the
	// caller. A cyclic chain is not detected and recurses unboundedly.
	parent *Config

	steps      []Position
	dirty      bool
	recomputes uint64
}

// NewConfig returns a configuration with default values. The defaults are
// deliberately invalid so that unset orbits report the undefined position
// rather than a plausible one.
func NewConfig() *Config {
	return &Config{dirty: true}
}

// MajorWidth returns the semi-axis width along the unrotated X axis.
func (c *Config) MajorWidth() float64 { return c.majorWidth }

// MinorWidth returns the semi-axis width along the unrotated Y axis.
func (c *Config) MinorWidth() float64 { return c.minorWidth }

// StepCount returns the number of discrete positions per full cycle.
func (c *Config) StepCount() int { return c.stepCount }

// StepOffset returns the phase offset into the step sequence.
func (c *Config) StepOffset() int { return c.stepOffset }

// Rotation returns the ellipse rotation about its origin, in radians.
func (c *Config) Rotation() float64 { return c.rotation }

// OffsetX returns the X translation of the orbit origin relative to the
// parent position (or the absolute origin when no parent is set).
func (c *Config) OffsetX() float64 { return c.offsetX }

// OffsetY returns the Y translation of the orbit origin.
func (c *Config) OffsetY() float64 { return c.offsetY }

// Clockwise reports the direction of travel.
func (c *Config) Clockwise() bool { return c.clockwise }

func (c *Config) SetMajorWidth(w float64) {
	c.majorWidth = w
	c.dirty = true
}

func (c *Config) SetMinorWidth(w float64) {
	c.minorWidth = w
	c.dirty = true
}

func (c *Config) SetStepCount(n int) {
	c.stepCount = n
	c.dirty = true
}

func (c *Config) SetStepOffset(n int) {
	c.stepOffset = n
	c.dirty = true
}

func (c *Config) SetRotation(radians float64) {
	c.rotation = radians
	c.dirty = true
}

func (c *Config) SetOffsetX(x float64) {
	c.offsetX = x
	c.dirty = true
}

func (c *Config) SetOffsetY(y float64) {
	c.offsetY = y
	c.dirty = true
}

func (c *Config) SetClockwise(clockwise bool) {
	c.clockwise = clockwise
	c.dirty = true
}

// Parent returns the parent configuration, or nil for a top-level orbit.
func (c *Config) Parent() *Config { return c.parent }

// SetParent installs a non-owning reference to the parent orbit. The step
// table holds only local geometry, so changing the parent does not
// invalidate it.
func (c *Config) SetParent(parent *Config) { c.parent = parent }

// Recomputes returns how many times the step table has been rebuilt.
// The counter makes the lazy cache observable: it advances only inside
// position queries, never on mutation.
func (c *Config) Recomputes() uint64 { return c.recomputes }
