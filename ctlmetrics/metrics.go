// Package ctlmetrics wires a pipeline stage's control channel (§4.7's
// ctl.Chain) to Prometheus: it answers Size control requests from a
// caller-supplied callback and Tell requests from a per-stage position
// gauge, which it registers, together with a byte counter, on the
// caller's Registerer for a host process to scrape.
package ctlmetrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"

	"github.com/everyday-items/iterio/ctl"
)

// Metrics holds the Prometheus gauge/counter pair a pipeline stage
// publishes: current stream position and cumulative throughput, both
// labeled by stage name so one registry can track several stages.
type Metrics struct {
	position   *prometheus.GaugeVec
	throughput *prometheus.CounterVec
}

// New registers position/throughput metrics under reg (pass
// prometheus.DefaultRegisterer for the global registry, or a fresh
// prometheus.NewRegistry() in tests), namespaced to namespace.
func New(reg prometheus.Registerer, namespace string) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		position: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pipeline_position",
			Help:      "Current position reported by a pipeline stage's control channel.",
		}, []string{"stage"}),
		throughput: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pipeline_units_total",
			Help:      "Total units (bytes, rows, ...) a pipeline stage has stepped through.",
		}, []string{"stage"}),
	}
}

// Observe records n units having just passed through stage, bumping
// both the throughput counter and the position gauge. A non-positive
// n is a no-op.
func (m *Metrics) Observe(stage string, n int) {
	if n <= 0 {
		return
	}
	m.throughput.WithLabelValues(stage).Add(float64(n))
	m.position.WithLabelValues(stage).Add(float64(n))
}

// Handler returns a ctl.Handler that answers ctl.Size from size (when
// size reports ok) and ctl.Tell from the stage's current position
// gauge reading, passing every other request through untouched.
func (m *Metrics) Handler(stage string, size func() (int64, bool)) ctl.Handler {
	return func(req ctl.Request) (ctl.Response, bool) {
		switch req.(type) {
		case ctl.Size:
			if size == nil {
				return nil, false
			}
			n, ok := size()
			if !ok {
				return nil, false
			}
			return n, true
		case ctl.Tell:
			return gaugeValue(m.position.WithLabelValues(stage)), true
		default:
			return nil, false
		}
	}
}

func gaugeValue(g prometheus.Gauge) int64 {
	var pb dto.Metric
	if err := g.Write(&pb); err != nil {
		return 0
	}
	return int64(pb.GetGauge().GetValue())
}
