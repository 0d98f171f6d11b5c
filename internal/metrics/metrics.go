// Package metrics exposes Prometheus instruments for the import pipeline
// and the welcome-mail dispatcher.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Row outcome labels.
const (
	OutcomeCreated = "created"
	OutcomeSkipped = "skipped"
	OutcomeError   = "error"
)

// Metrics provides observability for alumni imports and notifications.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	ImportRows         *prometheus.CounterVec
	ImportDuration     prometheus.Histogram
	AlumniCreated      prometheus.Counter
	NotificationsTotal *prometheus.CounterVec
}

// New creates the instruments and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ImportRows: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "alumni_import_rows_total",
			Help: "Rows processed by bulk imports, by outcome",
		}, []string{"outcome"}),
		ImportDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "alumni_import_duration_seconds",
			Help:    "Duration of a bulk import run",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		AlumniCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "alumni_created_total",
			Help: "Total number of alumni records created",
		}),
		NotificationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "alumni_notifications_total",
			Help: "Welcome mails dispatched, by result",
		}, []string{"result"}),
	}
}

// ObserveRow records one processed import row.
func (m *Metrics) ObserveRow(outcome string) {
	if m == nil {
		return
	}
	m.ImportRows.WithLabelValues(outcome).Inc()
}

// ObserveImport records the duration of an import run.
// Call with time.Now() at the start of the run.
func (m *Metrics) ObserveImport(start time.Time) {
	if m == nil {
		return
	}
	m.ImportDuration.Observe(time.Since(start).Seconds())
}

// IncrementCreated records a successful alumni creation.
func (m *Metrics) IncrementCreated() {
	if m == nil {
		return
	}
	m.AlumniCreated.Inc()
}

// ObserveNotification records a dispatch result: "sent", "failed" or "dropped".
func (m *Metrics) ObserveNotification(result string) {
	if m == nil {
		return
	}
	m.NotificationsTotal.WithLabelValues(result).Inc()
}
