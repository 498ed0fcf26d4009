// Package metrics exposes oracle and flow counters to Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "wandergenie"

// Metrics owns a private registry so tests can build as many as they like.
type Metrics struct {
	reg           *prometheus.Registry
	oracleCalls   *prometheus.CounterVec
	oracleSeconds *prometheus.HistogramVec
	flowRuns      *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		oracleCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "oracle_calls_total",
			Help:      "Oracle calls by phase and outcome.",
		}, []string{"phase", "outcome"}),
		oracleSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "oracle_call_seconds",
			Help:      "Oracle call latency by phase.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40, 60},
		}, []string{"phase"}),
		flowRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "flow_runs_total",
			Help:      "Flow runs by flow and outcome.",
		}, []string{"flow", "outcome"}),
	}
	m.reg.MustRegister(
		m.oracleCalls,
		m.oracleSeconds,
		m.flowRuns,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) ObserveOracleCall(phase, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.oracleCalls.WithLabelValues(phase, outcome).Inc()
	m.oracleSeconds.WithLabelValues(phase).Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveFlowRun(flow, outcome string, _ time.Duration) {
	if m == nil {
		return
	}
	m.flowRuns.WithLabelValues(flow, outcome).Inc()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}
