// Package metrics exposes registry and export counters in Prometheus format.
package metrics

import (
	"net/http"
	"time"

	"github.com/JonMunkholm/mseboard/internal/core"
	"github.com/JonMunkholm/mseboard/internal/unit"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "mse"

// Recorder implements core.Observer on a private registry.
type Recorder struct {
	registry *prometheus.Registry

	recordsSaved   *prometheus.CounterVec
	recordsDeleted *prometheus.CounterVec
	exports        *prometheus.CounterVec
	exportDuration *prometheus.HistogramVec
	exportBytes    *prometheus.HistogramVec
	exportRecords  *prometheus.HistogramVec
}

var _ core.Observer = (*Recorder)(nil)

// New creates a Recorder. With process set, Go runtime and process
// collectors are registered too.
func New(process bool) *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		recordsSaved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_saved_total",
			Help:      "Records saved, by unit kind and operation.",
		}, []string{"kind", "op"}),
		recordsDeleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_deleted_total",
			Help:      "Records deleted, by unit kind.",
		}, []string{"kind"}),
		exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exports_total",
			Help:      "Workbook exports, by scope and status.",
		}, []string{"scope", "status"}),
		exportDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "export_duration_seconds",
			Help:      "Time spent fetching and rendering a workbook.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
		}, []string{"scope"}),
		exportBytes: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "export_size_bytes",
			Help:      "Size of rendered workbooks.",
			Buckets:   prometheus.ExponentialBuckets(8<<10, 4, 8),
		}, []string{"scope"}),
		exportRecords: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "export_records",
			Help:      "Records per exported workbook.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		}, []string{"scope"}),
	}

	r.registry.MustRegister(
		r.recordsSaved,
		r.recordsDeleted,
		r.exports,
		r.exportDuration,
		r.exportBytes,
		r.exportRecords,
	)
	if process {
		r.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	return r
}

// WatchLimiter publishes the export limiter occupancy as gauges.
func (r *Recorder) WatchLimiter(l *core.ExportLimiter) {
	r.registry.MustRegister(
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "exports_in_progress",
			Help:      "Exports currently holding a slot.",
		}, func() float64 { return float64(l.ActiveCount()) }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "export_slots_available",
			Help:      "Free export slots.",
		}, func() float64 { return float64(l.Available()) }),
	)
}

func (r *Recorder) RecordSaved(kind unit.Kind, created bool) {
	op := "update"
	if created {
		op = "insert"
	}
	r.recordsSaved.WithLabelValues(kind.String(), op).Inc()
}

func (r *Recorder) RecordDeleted(kind unit.Kind) {
	r.recordsDeleted.WithLabelValues(kind.String()).Inc()
}

func (r *Recorder) ExportFinished(scope string, records, size int, elapsed time.Duration, err error) {
	if err != nil {
		r.exports.WithLabelValues(scope, "error").Inc()
		return
	}
	r.exports.WithLabelValues(scope, "success").Inc()
	r.exportDuration.WithLabelValues(scope).Observe(elapsed.Seconds())
	r.exportBytes.WithLabelValues(scope).Observe(float64(size))
	r.exportRecords.WithLabelValues(scope).Observe(float64(records))
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}
