package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "messagely"

// Results of login timestamp update
const (
	LoginUpdateOK      = "ok"
	LoginUpdateFailed  = "failed"
	LoginUpdateDropped = "dropped"
)

// Results of authentication attempt
const (
	AuthSuccess = "success"
	AuthFailure = "failure"
)

// Metrics holds service counters on its own registry
// so several instances (tests) never clash on registration
type Metrics struct {
	registry     *prometheus.Registry
	loginUpdates *prometheus.CounterVec
	authAttempts *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		loginUpdates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "login_timestamp_updates_total",
			Help:      "Background last login timestamp updates by result.",
		}, []string{"result"}),
		authAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_attempts_total",
			Help:      "Username/password checks by result.",
		}, []string{"result"}),
	}

	m.registry.MustRegister(
		m.loginUpdates,
		m.authAttempts,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

func (m *Metrics) LoginUpdate(result string) {
	m.loginUpdates.WithLabelValues(result).Inc()
}

func (m *Metrics) AuthAttempt(result string) {
	m.authAttempts.WithLabelValues(result).Inc()
}

// Handler serves metrics in prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
