package metrics

import "github.com/prometheus/client_golang/prometheus"

// AppointmentMetrics exposes counters for appointment lifecycle operations.
type AppointmentMetrics struct {
	operationsTotal *prometheus.CounterVec
}

func NewAppointmentMetrics(reg prometheus.Registerer) *AppointmentMetrics {
	m := &AppointmentMetrics{
		operationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "medibot",
			Subsystem: "appointments",
			Name:      "operations_total",
			Help:      "Total appointment lifecycle operations",
		}, []string{"operation", "outcome"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.operationsTotal)
	return m
}

func (m *AppointmentMetrics) ObserveOperation(operation, outcome string) {
	if m == nil {
		return
	}
	m.operationsTotal.WithLabelValues(operation, outcome).Inc()
}

// ChatMetrics exposes counters/histograms for the conversational bridge.
type ChatMetrics struct {
	chatTotal        *prometheus.CounterVec
	interpretLatency prometheus.Histogram
}

func NewChatMetrics(reg prometheus.Registerer) *ChatMetrics {
	m := &ChatMetrics{
		chatTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "medibot",
			Subsystem: "chat",
			Name:      "requests_total",
			Help:      "Total chat utterances by resolved outcome",
		}, []string{"outcome"}),
		interpretLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "medibot",
			Subsystem: "chat",
			Name:      "interpret_latency_seconds",
			Help:      "Latency of the natural-language interpretation call",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.chatTotal, m.interpretLatency)
	return m
}

func (m *ChatMetrics) ObserveChat(outcome string) {
	if m == nil {
		return
	}
	m.chatTotal.WithLabelValues(outcome).Inc()
}

func (m *ChatMetrics) ObserveInterpretLatency(seconds float64) {
	if m == nil {
		return
	}
	m.interpretLatency.Observe(seconds)
}
