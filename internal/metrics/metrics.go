package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// BotCollector exposes Prometheus metrics for the enrichment daemon.
type BotCollector struct {
	registry        *prometheus.Registry
	cycles          prometheus.Counter
	cycleErrors     prometheus.Counter
	entitiesCreated *prometheus.CounterVec
	entitiesUpdated *prometheus.CounterVec
	sourceFetches   *prometheus.CounterVec
	breakerState    *prometheus.GaugeVec
	violations      *prometheus.CounterVec
}

// NewBotCollector constructs a collector on a private registry.
func NewBotCollector() (*BotCollector, error) {
	registry := prometheus.NewRegistry()

	cycles := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "wrestlebot",
		Name:      "cycles_total",
		Help:      "Total number of completed orchestrator cycles.",
	})

	cycleErrors := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "wrestlebot",
		Name:      "cycle_errors_total",
		Help:      "Total number of orchestrator cycles that ended in an error.",
	})

	entitiesCreated := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wrestlebot",
		Name:      "entities_created_total",
		Help:      "Entities created in the catalog, by entity type.",
	}, []string{"entity_type"})

	entitiesUpdated := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wrestlebot",
		Name:      "entities_updated_total",
		Help:      "Entities updated in the catalog, by entity type.",
	}, []string{"entity_type"})

	sourceFetches := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wrestlebot",
		Name:      "source_fetches_total",
		Help:      "External source fetch attempts, by source and outcome.",
	}, []string{"source", "outcome"})

	breakerState := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "wrestlebot",
		Name:      "breaker_state",
		Help:      "Circuit breaker state per dependency (0 closed, 1 half-open, 2 open).",
	}, []string{"name"})

	violations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wrestlebot",
		Name:      "integrity_violations_total",
		Help:      "Integrity violations detected, by violation type.",
	}, []string{"violation_type"})

	for _, collector := range []prometheus.Collector{
		cycles, cycleErrors, entitiesCreated, entitiesUpdated,
		sourceFetches, breakerState, violations,
	} {
		if err := registry.Register(collector); err != nil {
			return nil, err
		}
	}

	return &BotCollector{
		registry:        registry,
		cycles:          cycles,
		cycleErrors:     cycleErrors,
		entitiesCreated: entitiesCreated,
		entitiesUpdated: entitiesUpdated,
		sourceFetches:   sourceFetches,
		breakerState:    breakerState,
		violations:      violations,
	}, nil
}

// Handler returns an HTTP handler for exposing Prometheus metrics.
func (c *BotCollector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// RecordCycle counts one completed orchestrator cycle.
func (c *BotCollector) RecordCycle() {
	c.cycles.Inc()
}

// RecordCycleError counts a cycle that ended in an error.
func (c *BotCollector) RecordCycleError() {
	c.cycleErrors.Inc()
}

// RecordEntity counts one catalog write.
func (c *BotCollector) RecordEntity(entityType string, created bool) {
	if created {
		c.entitiesCreated.WithLabelValues(entityType).Inc()
		return
	}
	c.entitiesUpdated.WithLabelValues(entityType).Inc()
}

// RecordSourceFetch counts one external fetch attempt.
func (c *BotCollector) RecordSourceFetch(source, outcome string) {
	c.sourceFetches.WithLabelValues(source, outcome).Inc()
}

// SetBreakerState records the current state of a named circuit breaker.
func (c *BotCollector) SetBreakerState(name string, state float64) {
	c.breakerState.WithLabelValues(name).Set(state)
}

// RecordViolation counts one detected integrity violation.
func (c *BotCollector) RecordViolation(violationType string) {
	c.violations.WithLabelValues(violationType).Inc()
}

// Registry exposes the private registry so one-shot jobs can push
// their counters to a Pushgateway.
func (c *BotCollector) Registry() *prometheus.Registry {
	return c.registry
}
