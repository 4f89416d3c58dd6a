// Package metrics exposes prometheus counters for comment generation and
// record storage.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// CommentMetrics is nil safe: every Record method on a nil receiver is a
// no-op, so controllers can run without a registry.
type CommentMetrics struct {
	registry *prometheus.Registry

	generatedTotal    *prometheus.CounterVec
	savedTotal        *prometheus.CounterVec
	deletedTotal      *prometheus.CounterVec
	importedRowsTotal *prometheus.CounterVec
	skippedRowsTotal  *prometheus.CounterVec
	exportsTotal      *prometheus.CounterVec
	vocabularyAdded   *prometheus.CounterVec

	collectors []prometheus.Collector
}

func NewCommentMetrics(registry *prometheus.Registry) (*CommentMetrics, error) {
	m := &CommentMetrics{registry: registry}
	m.initMetrics()
	if err := registry.Register(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *CommentMetrics) initMetrics() {
	m.generatedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "commentgen_comments_generated_total",
			Help: "Total number of comment generation requests",
		},
		[]string{"kind", "status"}, // kind: unit, combined
	)

	m.savedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "commentgen_assessments_saved_total",
			Help: "Total number of assessment save attempts",
		},
		[]string{"relatedness", "status"},
	)

	m.deletedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "commentgen_assessments_deleted_total",
			Help: "Total number of assessment delete attempts",
		},
		[]string{"status"},
	)

	m.importedRowsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "commentgen_import_rows_imported_total",
			Help: "Rows persisted by bulk imports",
		},
		[]string{"target", "format"},
	)

	m.skippedRowsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "commentgen_import_rows_skipped_total",
			Help: "Rows skipped by bulk imports",
		},
		[]string{"target", "format"},
	)

	m.exportsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "commentgen_exports_total",
			Help: "Total number of bulk exports",
		},
		[]string{"target", "format"},
	)

	m.vocabularyAdded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "commentgen_vocabulary_terms_added_total",
			Help: "New vocabulary terms inserted",
		},
		[]string{"kind"},
	)

	m.collectors = []prometheus.Collector{
		m.generatedTotal,
		m.savedTotal,
		m.deletedTotal,
		m.importedRowsTotal,
		m.skippedRowsTotal,
		m.exportsTotal,
		m.vocabularyAdded,
	}
}

// Describe implements the Collector interface
func (m *CommentMetrics) Describe(ch chan<- *prometheus.Desc) {
	for _, collector := range m.collectors {
		collector.Describe(ch)
	}
}

// Collect implements the Collector interface
func (m *CommentMetrics) Collect(ch chan<- prometheus.Metric) {
	for _, collector := range m.collectors {
		collector.Collect(ch)
	}
}

func (m *CommentMetrics) RecordGenerate(kind string, err error) {
	if m == nil {
		return
	}
	m.generatedTotal.WithLabelValues(kind, status(err)).Inc()
}

func (m *CommentMetrics) RecordSave(relatedness string, err error) {
	if m == nil {
		return
	}
	m.savedTotal.WithLabelValues(relatedness, status(err)).Inc()
}

func (m *CommentMetrics) RecordDelete(err error) {
	if m == nil {
		return
	}
	m.deletedTotal.WithLabelValues(status(err)).Inc()
}

func (m *CommentMetrics) RecordImport(target, format string, imported, skipped int) {
	if m == nil {
		return
	}
	m.importedRowsTotal.WithLabelValues(target, format).Add(float64(imported))
	m.skippedRowsTotal.WithLabelValues(target, format).Add(float64(skipped))
}

func (m *CommentMetrics) RecordExport(target, format string) {
	if m == nil {
		return
	}
	m.exportsTotal.WithLabelValues(target, format).Inc()
}

func (m *CommentMetrics) RecordVocabularyAdded(kind string, added int64) {
	if m == nil || added <= 0 {
		return
	}
	m.vocabularyAdded.WithLabelValues(kind).Add(float64(added))
}

// Handler serves the registry in the prometheus text format.
func (m *CommentMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		ErrorHandling: promhttp.HTTPErrorOnError,
	})
}

func status(err error) string {
	if err != nil {
		return StatusError
	}
	return StatusSuccess
}
