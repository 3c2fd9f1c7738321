package orbit

import "math"

// rebuild recomputes the step table for one full cycle. Only called with a
// valid configuration.
//
// A fixed point bakes the origin offset into its single entry. Elliptical
// tables hold untranslated local geometry and the offset is applied at
// query time instead. The asymmetry is intentional and long-standing;
// PositionAt depends on it.
func (c *Config) rebuild() {
	c.recomputes++
	c.dirty = false

	if c.majorWidth == 0 {
		c.steps = []Position{{X: c.offsetX, Y: c.offsetY}}
		return
	}

	dir := 1.0
	if c.clockwise {
		dir = -1.0
	}
	anglePerStep := dir * 2 * math.Pi / float64(c.stepCount)
	startAngle := anglePerStep * float64(c.stepOffset)
	sinRot, cosRot := math.Sincos(c.rotation)

	steps := make([]Position, c.stepCount)
	for i := range steps {
		angle := startAngle + float64(i)*anglePerStep
		x := math.Cos(angle) * c.majorWidth
		y := math.Sin(angle) * c.minorWidth
		steps[i] = Position{
			X: x*cosRot - y*sinRot,
			Y: x*sinRot + y*cosRot,
		}
	}
	c.steps = steps
}

// PositionAt returns the position for the given turn, composed through the
// parent chain. It never fails: negative turns clamp to zero, and an
// invalid configuration (or a step table that does not match stepCount)
// yields the undefined position (0,0), which callers must treat as a
// sentinel rather than a real location.
//
// A stale table is rebuilt here, synchronously, before the lookup. Query
// cost is O(parent-chain depth) once the table is warm.
func (c *Config) PositionAt(turn int64) Position {
	if turn < 0 {
		turn = 0
	}
	if !c.IsValid() {
		return Position{}
	}
	if c.dirty {
		c.rebuild()
	}
	if len(c.steps) != c.stepCount {
		return Position{}
	}

	var parentOffset Position
	if c.parent != nil {
		parentOffset = c.parent.PositionAt(turn)
	}
	origin := Position{
		X: parentOffset.X + c.offsetX,
		Y: parentOffset.Y + c.offsetY,
	}

	local := c.steps[0]
	if c.stepCount != 1 {
		local = c.steps[turn%int64(c.stepCount)]
	}
	return origin.Add(local)
}
