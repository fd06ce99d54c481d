package browser

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Failure reasons recorded by Metrics.
const (
	reasonUnsupported = "unsupported_browser"
	reasonEndpoint    = "invalid_endpoint"
	reasonLaunch      = "launch"
	reasonSetup       = "setup"
)

// unsupportedLabel is the browser label for names that are not a Kind.
const unsupportedLabel Kind = "unsupported"

// Metrics tracks session lifecycle counters. A nil *Metrics records nothing.
type Metrics struct {
	sessionsStarted *prometheus.CounterVec
	failures        *prometheus.CounterVec
	active          prometheus.Gauge
	navigations     *prometheus.CounterVec
	quits           *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		sessionsStarted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "browserkit",
			Name:      "sessions_started_total",
			Help:      "Number of browser sessions started.",
		}, []string{"browser", "mode"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "browserkit",
			Name:      "session_failures_total",
			Help:      "Number of failed session initializations.",
		}, []string{"browser", "reason"}),
		active: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "browserkit",
			Name:      "sessions_active",
			Help:      "Number of live browser sessions.",
		}),
		navigations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "browserkit",
			Name:      "navigations_total",
			Help:      "Number of navigations, by environment name or \"url\".",
		}, []string{"target"}),
		quits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "browserkit",
			Name:      "sessions_quit_total",
			Help:      "Number of sessions torn down, by outcome.",
		}, []string{"outcome"}),
	}

	for _, c := range []prometheus.Collector{m.sessionsStarted, m.failures, m.active, m.navigations, m.quits} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) recordStarted(kind Kind, mode Mode) {
	if m == nil {
		return
	}
	m.sessionsStarted.WithLabelValues(string(kind), string(mode)).Inc()
	m.active.Inc()
}

func (m *Metrics) recordFailure(kind Kind, reason string) {
	if m == nil {
		return
	}
	m.failures.WithLabelValues(string(kind), reason).Inc()
}

func (m *Metrics) recordQuit(outcome string) {
	if m == nil {
		return
	}
	m.active.Dec()
	m.quits.WithLabelValues(outcome).Inc()
}

func (m *Metrics) recordNavigate(target string) {
	if m == nil {
		return
	}
	m.navigations.WithLabelValues(target).Inc()
}
