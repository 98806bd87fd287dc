// Package metrics exposes Prometheus counters for statement ingestion and
// categorization.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/Chandru1806/MCA/internal/models"
)

const namespace = "statement"

// Recorder holds the pipeline counters. It satisfies categorizer.Recorder.
type Recorder struct {
	Registry *prometheus.Registry

	statements  *prometheus.CounterVec
	standardize *prometheus.CounterVec
	rejected    *prometheus.CounterVec
	predictions *prometheus.CounterVec
	repaired    prometheus.Counter
}

// New registers the counters on a fresh registry.
func New() *Recorder {
	return NewWithRegistry(prometheus.NewRegistry())
}

// NewWithRegistry registers the counters on reg.
func NewWithRegistry(reg *prometheus.Registry) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		Registry: reg,
		statements: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "processed_total",
			Help:      "Statements processed, by bank and outcome.",
		}, []string{"bank", "outcome"}),
		standardize: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_standardized_total",
			Help:      "Rows accepted into the canonical schema.",
		}, []string{"bank"}),
		rejected: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_rejected_total",
			Help:      "Rejected rows, counted once per reason.",
		}, []string{"bank", "reason"}),
		predictions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "predictions_total",
			Help:      "Category predictions by category and method.",
		}, []string{"category", "method"}),
		repaired: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_recovered_total",
			Help:      "Rows reconstructed by the repair engine.",
		}),
	}
}

// StatementProcessed records one statement's quality figures.
func (r *Recorder) StatementProcessed(bank models.BankType, std []models.CanonicalTransaction, rejected []models.RejectedRow) {
	outcome := "ok"
	if len(std) == 0 {
		outcome = "empty"
	}
	r.statements.WithLabelValues(string(bank), outcome).Inc()
	r.standardize.WithLabelValues(string(bank)).Add(float64(len(std)))
	for _, row := range rejected {
		for _, reason := range row.Reasons() {
			r.rejected.WithLabelValues(string(bank), string(reason)).Inc()
		}
	}
}

// StatementFailed records a statement that produced no output at all.
func (r *Recorder) StatementFailed(bank models.BankType) {
	r.statements.WithLabelValues(string(bank), "failed").Inc()
}

// RowsRecovered adds n reconstructed rows.
func (r *Recorder) RowsRecovered(n int) {
	r.repaired.Add(float64(n))
}

// PredictionMade counts one category prediction.
func (r *Recorder) PredictionMade(category string, method models.ClassificationMethod) {
	r.predictions.WithLabelValues(category, string(method)).Inc()
}
