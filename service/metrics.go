package service

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Datagram outcomes reported by Metrics.DatagramHandled.
const (
	OutcomeOK       = "ok"
	OutcomeDropped  = "dropped"
	OutcomeThrottle = "throttled"
)

// Metrics holds the protocol engine and directory counters.
type Metrics struct {
	datagrams        *prometheus.CounterVec
	announcements    prometheus.Counter
	directoryQueries *prometheus.CounterVec
	directorySize    prometheus.Histogram
}

// NewMetrics creates the sixpmaster collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		datagrams: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sixp",
			Name:      "datagrams_total",
			Help:      "Datagrams processed, by message type and outcome (ok, dropped, throttled or an error code).",
		}, []string{"type", "outcome"}),
		announcements: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sixp",
			Name:      "announcements_total",
			Help:      "Verified announcements written to the session registry.",
		}),
		directoryQueries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sixp",
			Name:      "directory_requests_total",
			Help:      "Directory listings served, by outcome.",
		}, []string{"outcome"}),
		directorySize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "sixp",
			Name:      "directory_entries",
			Help:      "Number of entries per directory listing.",
			Buckets:   []float64{0, 1, 8, 32, 128, 512, 1024},
		}),
	}
	reg.MustRegister(m.datagrams, m.announcements, m.directoryQueries, m.directorySize)
	return m
}

// DatagramHandled counts one datagram. A nil err counts as ok, otherwise the error code is the outcome.
func (m *Metrics) DatagramHandled(msgType string, err error) {
	outcome := OutcomeOK
	if err != nil {
		outcome = ToSIXPErrorCode(err)
		if outcome == "" {
			outcome = ErrInternalServerError
		}
	}
	m.datagrams.WithLabelValues(msgType, outcome).Inc()
}

// DatagramSkipped counts a datagram that was never handed to the engine.
func (m *Metrics) DatagramSkipped(outcome string) {
	m.datagrams.WithLabelValues("", outcome).Inc()
}

// Announced counts a verified registry write.
func (m *Metrics) Announced() {
	m.announcements.Inc()
}

// DirectoryServed records a listing of n entries, or a failed one when err is not nil.
func (m *Metrics) DirectoryServed(n int, err error) {
	if err != nil {
		m.directoryQueries.WithLabelValues(ToSIXPErrorCode(err)).Inc()
		return
	}
	m.directoryQueries.WithLabelValues(OutcomeOK).Inc()
	m.directorySize.Observe(float64(n))
}
