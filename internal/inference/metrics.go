package inference

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts inference calls by task and outcome.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "inference_requests_total",
				Help: "Total number of model inference calls.",
			},
			[]string{"task", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "inference_request_duration_seconds",
				Help:    "Latency of model inference calls.",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
			},
			[]string{"task"},
		),
	}
	for _, c := range []prometheus.Collector{m.requests, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// observe is a no-op on a nil receiver so clients work without metrics.
func (m *Metrics) observe(task string, err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.requests.WithLabelValues(task, outcome).Inc()
	m.duration.WithLabelValues(task).Observe(elapsed.Seconds())
}
