package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "reactive"

// Collector holds the runtime's counters. Each runtime owns its own
// registry so independent engines never share series.
type Collector struct {
	registry *prometheus.Registry

	Tracks             prometheus.Counter
	Triggers           prometheus.Counter
	EffectRuns         prometheus.Counter
	JobsRun            prometheus.Counter
	Flushes            prometheus.Counter
	ReadonlyViolations prometheus.Counter
	RecursionLimitHits prometheus.Counter
	StoreTargets       prometheus.Gauge
}

// New creates a Collector. When enabled is false the counters still work but
// nothing is registered, so Registry().Gather() returns no families.
func New(enabled bool) *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),

		Tracks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tracks_total",
			Help:      "Dependencies recorded between an active effect and a (target, key) pair.",
		}),
		Triggers: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "triggers_total",
			Help:      "Write notifications that reached the dependency store.",
		}),
		EffectRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "effect_runs_total",
			Help:      "Tracked effect executions.",
		}),
		JobsRun: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "jobs_run_total",
			Help:      "Jobs executed by the batching scheduler.",
		}),
		Flushes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "flushes_total",
			Help:      "Job queue flushes that executed at least one job.",
		}),
		ReadonlyViolations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "readonly_violations_total",
			Help:      "Writes rejected by read-only wrappers.",
		}),
		RecursionLimitHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recursion_limit_hits_total",
			Help:      "Jobs dropped after re-queueing themselves past the recursion limit.",
		}),
		StoreTargets: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "store_targets",
			Help:      "Targets currently holding an entry in the dependency store.",
		}),
	}

	if enabled {
		c.registry.MustRegister(
			c.Tracks,
			c.Triggers,
			c.EffectRuns,
			c.JobsRun,
			c.Flushes,
			c.ReadonlyViolations,
			c.RecursionLimitHits,
			c.StoreTargets,
		)
	}

	return c
}

// Registry returns the registry the collector's metrics are registered in.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
