// Package tleimport fits an orbit configuration to a NORAD two-line
// element set. The satellite is propagated with SGP4 over one orbital
// period; the sampled radii give the semi-axes, and the mean motion gives
// the step count (one turn per minute of period).
package tleimport

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	satellite "github.com/joshuaferrara/go-satellite"

	"github.com/signalsfoundry/orbit-simulator/orbit"
)

// Orbit is the result of fitting a TLE: the configuration plus the
// physical parameters it was derived from. The caller validates the
// configuration; a highly eccentric satellite legitimately fails the
// 2:1 axis-ratio rule.
type Orbit struct {
	Name    string
	NORADID int
	Epoch   time.Time

	PeriodMinutes float64
	ApogeeKm      float64
	PerigeeKm     float64

	Config *orbit.Config
}

type options struct {
	kmPerUnit float64
	samples   int
}

// Option customises the fit.
type Option func(*options)

// WithScale sets how many kilometres one orbit-plane unit represents.
// The default is 1000 km per unit.
func WithScale(kmPerUnit float64) Option {
	return func(o *options) {
		if kmPerUnit > 0 {
			o.kmPerUnit = kmPerUnit
		}
	}
}

// WithSamples sets how many SGP4 samples are taken across one period.
// The default is 360.
func WithSamples(n int) Option {
	return func(o *options) {
		if n > 1 {
			o.samples = n
		}
	}
}

// Fit parses the TLE, samples one orbital period, and returns the fitted
// orbit.
func Fit(name, line1, line2 string, opts ...Option) (*Orbit, error) {
	o := options{kmPerUnit: 1000, samples: 360}
	for _, opt := range opts {
		opt(&o)
	}

	noradID, epoch, err := parseLine1(line1)
	if err != nil {
		return nil, err
	}
	inclinationDeg, meanMotion, err := parseLine2(line2)
	if err != nil {
		return nil, err
	}
	if meanMotion <= 0 {
		return nil, fmt.Errorf("tle %q: mean motion %v is not positive", name, meanMotion)
	}
	periodMinutes := minutesPerDay / meanMotion

	sat := satellite.TLEToSat(line1, line2, satellite.GravityWGS72)

	apogee, perigee := 0.0, math.MaxFloat64
	for i := 0; i < o.samples; i++ {
		frac := float64(i) / float64(o.samples)
		t := epoch.Add(time.Duration(frac * periodMinutes * float64(time.Minute)))

		year, month, day := t.Date()
		hour, min, sec := t.Clock()
		pos, _ := satellite.Propagate(sat, year, int(month), day, hour, min, sec)

		r := math.Sqrt(pos.X*pos.X + pos.Y*pos.Y + pos.Z*pos.Z)
		if r > apogee {
			apogee = r
		}
		if r < perigee {
			perigee = r
		}
	}
	if apogee <= 0 || perigee <= 0 || perigee == math.MaxFloat64 {
		return nil, fmt.Errorf("tle %q: SGP4 propagation produced no usable samples", name)
	}

	// Semi-axes of the equivalent ellipse: a from the radius extremes,
	// b as their geometric mean.
	semiMajorKm := (apogee + perigee) / 2
	semiMinorKm := math.Sqrt(apogee * perigee)

	cfg := orbit.NewConfig()
	cfg.SetMajorWidth(semiMajorKm / o.kmPerUnit)
	cfg.SetMinorWidth(semiMinorKm / o.kmPerUnit)
	cfg.SetStepCount(int(math.Round(periodMinutes)))
	// A prograde satellite (inclination < 90 degrees) travels
	// counterclockwise seen from the north.
	cfg.SetClockwise(inclinationDeg >= 90)

	return &Orbit{
		Name:          strings.TrimSpace(name),
		NORADID:       noradID,
		Epoch:         epoch,
		PeriodMinutes: periodMinutes,
		ApogeeKm:      apogee,
		PerigeeKm:     perigee,
		Config:        cfg,
	}, nil
}

const minutesPerDay = 1440.0

// parseLine1 extracts the NORAD ID (cols 3-7) and epoch (cols 19-32,
// YYDDD.DDDDDDDD) from TLE line 1.
func parseLine1(line1 string) (int, time.Time, error) {
	if !strings.HasPrefix(line1, "1 ") || len(line1) < 32 {
		return 0, time.Time{}, fmt.Errorf("malformed TLE line 1: %q", line1)
	}

	noradID, err := strconv.Atoi(strings.TrimSpace(line1[2:7]))
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("invalid NORAD ID in line 1: %w", err)
	}

	epoch, err := parseEpoch(strings.TrimSpace(line1[18:32]))
	if err != nil {
		return 0, time.Time{}, err
	}
	return noradID, epoch, nil
}

// parseLine2 extracts the inclination (cols 9-16, degrees) and mean
// motion (cols 53-63, revolutions per day) from TLE line 2.
func parseLine2(line2 string) (float64, float64, error) {
	if !strings.HasPrefix(line2, "2 ") || len(line2) < 63 {
		return 0, 0, fmt.Errorf("malformed TLE line 2: %q", line2)
	}

	inclination, err := strconv.ParseFloat(strings.TrimSpace(line2[8:16]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid inclination in line 2: %w", err)
	}
	meanMotion, err := strconv.ParseFloat(strings.TrimSpace(line2[52:63]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid mean motion in line 2: %w", err)
	}
	return inclination, meanMotion, nil
}

// parseEpoch converts a TLE epoch in YYDDD.DDDDDDDD format to time.Time.
// Years 00-56 map to the 2000s, 57-99 to the 1900s.
func parseEpoch(s string) (time.Time, error) {
	if len(s) < 5 {
		return time.Time{}, fmt.Errorf("epoch string too short: %q", s)
	}

	year, err := strconv.Atoi(s[:2])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid epoch year %q: %w", s[:2], err)
	}
	if year >= 57 {
		year += 1900
	} else {
		year += 2000
	}

	dayOfYear, err := strconv.ParseFloat(s[2:], 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid epoch day %q: %w", s[2:], err)
	}

	// dayOfYear is 1-based: day 1 is January 1st.
	t := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
	return t.Add(time.Duration((dayOfYear - 1) * float64(24*time.Hour))), nil
}
