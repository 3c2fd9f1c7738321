package observability

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SimCollector bundles the simulator's Prometheus metrics. It implements
// both the catalog's and the simulation engine's recorder interfaces, so
// one collector instance can be handed to either.
type SimCollector struct {
	gatherer prometheus.Gatherer

	Turns            prometheus.Counter
	TurnDurations    prometheus.Histogram
	PositionQueries  prometheus.Counter
	TableRecomputes  prometheus.Counter
	ValidationErrors *prometheus.CounterVec

	CatalogBodies     prometheus.Gauge
	CatalogChainDepth prometheus.Gauge
}

// NewSimCollector registers the simulation metrics against the provided
// registerer, defaulting to the global Prometheus registry when nil.
// Re-registration of an identical collector is tolerated so tests can
// construct collectors repeatedly.
func NewSimCollector(reg prometheus.Registerer) (*SimCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	turns, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orbitsim_turns_total",
		Help: "Total number of simulation turns executed.",
	}), "orbitsim_turns_total")
	if err != nil {
		return nil, err
	}

	durations, err := registerHistogram(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "orbitsim_turn_duration_seconds",
		Help:    "Wall-clock duration of one simulation turn in seconds.",
		Buckets: []float64{0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	}), "orbitsim_turn_duration_seconds")
	if err != nil {
		return nil, err
	}

	queries, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orbitsim_position_queries_total",
		Help: "Total number of body position queries answered.",
	}), "orbitsim_position_queries_total")
	if err != nil {
		return nil, err
	}

	recomputes, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orbitsim_table_recomputes_total",
		Help: "Total number of step-table rebuilds across all orbits.",
	}), "orbitsim_table_recomputes_total")
	if err != nil {
		return nil, err
	}

	validationErrors := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orbitsim_validation_errors_total",
		Help: "Total number of orbit validation findings, labeled by configuration field.",
	}, []string{"field"})
	validationErrors, err = registerCounterVec(reg, validationErrors, "orbitsim_validation_errors_total")
	if err != nil {
		return nil, err
	}

	bodies, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "orbitsim_catalog_bodies",
		Help: "Current number of bodies in the catalog.",
	}), "orbitsim_catalog_bodies")
	if err != nil {
		return nil, err
	}
	chainDepth, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "orbitsim_catalog_chain_depth",
		Help: "Length of the longest parent chain in the catalog.",
	}), "orbitsim_catalog_chain_depth")
	if err != nil {
		return nil, err
	}

	return &SimCollector{
		gatherer:          gatherer,
		Turns:             turns,
		TurnDurations:     durations,
		PositionQueries:   queries,
		TableRecomputes:   recomputes,
		ValidationErrors:  validationErrors,
		CatalogBodies:     bodies,
		CatalogChainDepth: chainDepth,
	}, nil
}

// Handler exposes a ready-to-use /metrics handler.
func (c *SimCollector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// ObserveTurn records one completed turn and its duration.
func (c *SimCollector) ObserveTurn(d time.Duration) {
	if c == nil {
		return
	}
	if c.Turns != nil {
		c.Turns.Inc()
	}
	if c.TurnDurations != nil {
		c.TurnDurations.Observe(d.Seconds())
	}
}

// AddPositionQueries counts answered position queries.
func (c *SimCollector) AddPositionQueries(n int) {
	if c == nil || c.PositionQueries == nil || n <= 0 {
		return
	}
	c.PositionQueries.Add(float64(n))
}

// AddTableRecomputes counts step-table rebuilds.
func (c *SimCollector) AddTableRecomputes(n int) {
	if c == nil || c.TableRecomputes == nil || n <= 0 {
		return
	}
	c.TableRecomputes.Add(float64(n))
}

// CountValidationFindings feeds a validator's field->messages map into the
// per-field error counter.
func (c *SimCollector) CountValidationFindings(findings map[string][]string) {
	if c == nil || c.ValidationErrors == nil {
		return
	}
	for field, messages := range findings {
		c.ValidationErrors.WithLabelValues(field).Add(float64(len(messages)))
	}
}

// SetBodyCount satisfies the catalog's recorder interface.
func (c *SimCollector) SetBodyCount(count int) {
	if c == nil || c.CatalogBodies == nil {
		return
	}
	c.CatalogBodies.Set(float64(count))
}

// SetMaxChainDepth satisfies the catalog's recorder interface.
func (c *SimCollector) SetMaxChainDepth(depth int) {
	if c == nil || c.CatalogChainDepth == nil {
		return
	}
	c.CatalogChainDepth.Set(float64(depth))
}

func registerCounter(reg prometheus.Registerer, counter prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(counter); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return counter, nil
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogram(reg prometheus.Registerer, hist prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(hist); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return hist, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}
