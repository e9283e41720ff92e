package output

import (
	"net/http"

	"github.com/fkie-cad/loadmeter"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// meterMetrics exposes the rendered snapshots of a meter for scraping.
type meterMetrics struct {
	registry *prometheus.Registry

	load        prometheus.Gauge
	bounds      *prometheus.GaugeVec
	ticks       prometheus.Counter
	unavailable prometheus.Counter
}

func newMeterMetrics() *meterMetrics {
	m := &meterMetrics{
		registry: prometheus.NewRegistry(),
		load: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "loadmeter_load",
			Help: "Most recent load sample",
		}),
		bounds: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "loadmeter_axis_bound",
			Help: "Current limits of the value axis of the chart",
		}, []string{"bound"}),
		ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "loadmeter_ticks_total",
			Help: "Number of rendered snapshots",
		}),
		unavailable: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "loadmeter_unavailable_samples_total",
			Help: "Number of samples for which the load could not be determined",
		}),
	}
	m.registry.MustRegister(m.load, m.bounds, m.ticks, m.unavailable)
	return m
}

func (m *meterMetrics) observe(snap loadmeter.Snapshot) {
	m.ticks.Inc()
	if !snap.Available {
		m.unavailable.Inc()
	}
	m.load.Set(snap.Latest)
	m.bounds.WithLabelValues("min").Set(snap.YMin)
	m.bounds.WithLabelValues("max").Set(snap.YMax)
}

func (m *meterMetrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
