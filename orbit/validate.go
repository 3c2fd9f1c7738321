package orbit

// MaxStepCount bounds the precomputed step table for any non-fixed orbit.
const MaxStepCount = 2000

// maxAxisRatio is the largest permitted majorWidth/minorWidth ratio.
// Wider ellipses degenerate visually and numerically.
const maxAxisRatio = 2.0

// fieldNone groups findings that are not attributable to a single field.
const fieldNone = "@"

// FieldError is one validation finding, tagged with the configuration
// field it concerns.
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// Validate checks the configuration against the full rule set and returns
// every applicable finding, in rule order. It is pure: no caches are
// touched, and the same configuration always yields the same findings.
//
// Rules are evaluated unconditionally rather than fail-fast, so one bad
// field does not mask another. The only exceptions: the zero-width
// sub-branches of the fixed-point rule are mutually exclusive, and the
// step-count bounds apply only to non-fixed orbits.
func (c *Config) Validate() []FieldError {
	var errs []FieldError

	fixed := c.majorWidth == 0 && c.minorWidth == 0
	switch {
	case fixed:
		if c.stepCount != 1 {
			errs = append(errs, FieldError{
				Field:   "stepCount",
				Message: "must be one for a fixed point orbit",
			})
		}
	case c.majorWidth == 0:
		errs = append(errs, FieldError{
			Field:   "majorWidth",
			Message: "cannot be zero if minor width is not zero",
		})
	case c.minorWidth == 0:
		errs = append(errs, FieldError{
			Field:   "minorWidth",
			Message: "cannot be zero if major width is not zero",
		})
	}

	if c.majorWidth < 0 {
		errs = append(errs, FieldError{
			Field:   "majorWidth",
			Message: "cannot be negative",
		})
	}
	if c.minorWidth < 0 {
		errs = append(errs, FieldError{
			Field:   "minorWidth",
			Message: "cannot be negative",
		})
	}

	if c.majorWidth < c.minorWidth {
		errs = append(errs,
			FieldError{
				Field:   "majorWidth",
				Message: "must be greater than or equal to minor width",
			},
			FieldError{
				Field:   "minorWidth",
				Message: "must be less than or equal to major width",
			},
		)
	}

	if c.majorWidth > 0 && c.minorWidth > 0 && c.majorWidth >= c.minorWidth &&
		c.majorWidth/c.minorWidth > maxAxisRatio {
		errs = append(errs,
			FieldError{
				Field:   "majorWidth",
				Message: "must have a ratio less than or equal to 2:1",
			},
			FieldError{
				Field:   "minorWidth",
				Message: "must have a ratio less than or equal to 2:1",
			},
		)
	}

	if !fixed {
		if c.stepCount < 1 {
			errs = append(errs, FieldError{
				Field:   "stepCount",
				Message: "must be at least one for any orbit",
			})
		}
		if c.stepCount > MaxStepCount {
			errs = append(errs, FieldError{
				Field:   "stepCount",
				Message: "must be less than or equal to 2000 for any orbit",
			})
		}
	}

	return errs
}

// IsValid reports whether Validate yields no findings.
func (c *Config) IsValid() bool {
	return len(c.Validate()) == 0
}

// ErrorsByField groups validation findings by field name, preserving the
// order in which messages were emitted for each field. Findings with no
// field group under "@". A valid configuration returns a nil map.
func (c *Config) ErrorsByField() map[string][]string {
	errs := c.Validate()
	if len(errs) == 0 {
		return nil
	}
	out := make(map[string][]string, len(errs))
	for _, e := range errs {
		field := e.Field
		if field == "" {
			field = fieldNone
		}
		out[field] = append(out[field], e.Message)
	}
	return out
}
