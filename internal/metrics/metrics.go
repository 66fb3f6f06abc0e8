package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Outcome label values.
const (
	OutcomeOK      = "ok"
	OutcomeError   = "error"
	OutcomeDropped = "dropped"
)

// Metrics holds the panel's Prometheus collectors. A nil *Metrics is valid and
// records nothing, which keeps tests and optional wiring simple.
type Metrics struct {
	requests     *prometheus.CounterVec
	latency      *prometheus.HistogramVec
	pollSkipped  *prometheus.CounterVec
	simRunning   prometheus.Gauge
	simPulses    *prometheus.CounterVec
	watermarkSec prometheus.Gauge
	badTimestamp prometheus.Counter
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "garden_panel_backend_requests_total",
			Help: "Requests sent to the device backend by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "garden_panel_backend_latency_seconds",
			Help:    "Round-trip latency of device backend requests.",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 10),
		}, []string{"endpoint"}),
		pollSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "garden_panel_poll_skipped_total",
			Help: "Poll ticks skipped because the previous request was still in flight.",
		}, []string{"poller"}),
		simRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "garden_panel_simulator_running",
			Help: "1 while a synthetic flow simulation is running.",
		}),
		simPulses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "garden_panel_simulator_pulses_total",
			Help: "Synthetic flow pulses by outcome.",
		}, []string{"outcome"}),
		watermarkSec: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "garden_panel_flow_watermark_seconds",
			Help: "Unix time of the newest flow sample observed.",
		}),
		badTimestamp: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "garden_panel_flow_timestamp_rejected_total",
			Help: "Flow batches rendered without advancing the watermark because their timestamp was unreadable.",
		}),
	}

	reg.MustRegister(m.requests, m.latency, m.pollSkipped, m.simRunning, m.simPulses, m.watermarkSec, m.badTimestamp)
	return m
}

// ObserveRequest records one backend round trip.
func (m *Metrics) ObserveRequest(endpoint, outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(endpoint, outcome).Inc()
	m.latency.WithLabelValues(endpoint).Observe(seconds)
}

// PollSkipped counts a tick dropped by the single-in-flight guard.
func (m *Metrics) PollSkipped(poller string) {
	if m == nil {
		return
	}
	m.pollSkipped.WithLabelValues(poller).Inc()
}

// SetSimulating flips the simulator gauge.
func (m *Metrics) SetSimulating(running bool) {
	if m == nil {
		return
	}
	if running {
		m.simRunning.Set(1)
		return
	}
	m.simRunning.Set(0)
}

// SimulatorPulse counts one synthetic pulse.
func (m *Metrics) SimulatorPulse(outcome string) {
	if m == nil {
		return
	}
	m.simPulses.WithLabelValues(outcome).Inc()
}

// SetWatermark exports the flow watermark as unix seconds.
func (m *Metrics) SetWatermark(unixSeconds float64) {
	if m == nil {
		return
	}
	m.watermarkSec.Set(unixSeconds)
}

// FlowTimestampRejected counts a flow batch whose timestamp could not be read.
func (m *Metrics) FlowTimestampRejected() {
	if m == nil {
		return
	}
	m.badTimestamp.Inc()
}
