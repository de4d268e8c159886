package valyu

import "github.com/prometheus/client_golang/prometheus"

const (
	statusSuccess = "success"
	statusError   = "error"
	statusTimeout = "timeout"
)

// Metrics counts API calls and the number of records they return.
// A nil *Metrics records nothing.
type Metrics struct {
	requests *prometheus.CounterVec
	results  *prometheus.HistogramVec
}

// NewMetrics creates unregistered collectors; register them with Collectors.
func NewMetrics() *Metrics {
	return &Metrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "valyu_requests_total",
				Help: "Total Valyu API requests by endpoint and outcome",
			},
			[]string{"endpoint", "status"},
		),
		results: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "valyu_results_returned",
				Help:    "Number of records returned per Valyu API request",
				Buckets: []float64{0, 1, 2, 5, 10, 20, 50},
			},
			[]string{"endpoint"},
		),
	}
}

// Collectors returns the collectors to register with a prometheus.Registerer.
func (m *Metrics) Collectors() []prometheus.Collector {
	if m == nil {
		return nil
	}
	return []prometheus.Collector{m.requests, m.results}
}

func (m *Metrics) observeRequest(endpoint, status string) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(endpoint, status).Inc()
}

func (m *Metrics) observeResults(endpoint string, n int) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(endpoint, statusSuccess).Inc()
	m.results.WithLabelValues(endpoint).Observe(float64(n))
}
