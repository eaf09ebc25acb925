// Package metrics exposes learning activity as Prometheus metrics.
package metrics

import (
	"github.com/aretw0/rpni/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Collector counts recorded operations. It implements domain.Recorder, so it
// can be handed to the learner next to the operation journal.
type Collector struct {
	operations     *prometheus.CounterVec
	mergeAttempts  prometheus.Counter
	rollbacks      prometheus.Counter
	promotions     prometheus.Counter
	hypothesisSize prometheus.Gauge
	learnedRuns    prometheus.Counter
}

// NewCollector creates the metrics and registers them with reg.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rpni_operations_total",
				Help: "Total number of recorded learning operations",
			},
			[]string{"kind"},
		),
		mergeAttempts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rpni_merge_attempts_total",
			Help: "Total number of red/blue merges tried",
		}),
		rollbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rpni_rollbacks_total",
			Help: "Total number of merges rejected by a negative example",
		}),
		promotions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rpni_promotions_total",
			Help: "Total number of states promoted to red",
		}),
		hypothesisSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "rpni_hypothesis_states",
			Help: "Number of states of the last learned hypothesis",
		}),
		learnedRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rpni_runs_total",
			Help: "Total number of completed learning runs",
		}),
	}

	for _, m := range []prometheus.Collector{
		c.operations, c.mergeAttempts, c.rollbacks, c.promotions, c.hypothesisSize, c.learnedRuns,
	} {
		if err := reg.Register(m); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Record implements domain.Recorder.
func (c *Collector) Record(op domain.Operation) {
	c.operations.WithLabelValues(string(op.Kind)).Inc()
	switch op.Kind {
	case domain.OpMerge:
		c.mergeAttempts.Inc()
	case domain.OpRollback:
		c.rollbacks.Inc()
	case domain.OpPromoteRed:
		c.promotions.Inc()
	}
}

// ObserveRun records the size of a freshly learned hypothesis.
func (c *Collector) ObserveRun(states int) {
	c.hypothesisSize.Set(float64(states))
	c.learnedRuns.Inc()
}
