package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels.
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeInvalid  = "invalid"
	OutcomeError    = "error"
)

// Metrics holds Prometheus collectors for the KYC workflow.
type Metrics struct {
	StageOutcomes      *prometheus.CounterVec
	CompletionDuration prometheus.Histogram
	Publications       *prometheus.CounterVec
	ProofsIssued       *prometheus.CounterVec
}

// New registers the KYC collectors with reg. A nil reg yields unregistered
// collectors, which tests use to avoid global state.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		StageOutcomes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "kycdid_stage_outcomes_total",
			Help: "KYC stage attempts by stage and outcome",
		}, []string{"stage", "outcome"}),
		CompletionDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "kycdid_completion_duration_seconds",
			Help:    "Duration of KYC completion: derivation, issuance, funding and publishing",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}),
		Publications: f.NewCounterVec(prometheus.CounterOpts{
			Name: "kycdid_did_publications_total",
			Help: "DID registration publications by result",
		}, []string{"result"}),
		ProofsIssued: f.NewCounterVec(prometheus.CounterOpts{
			Name: "kycdid_identity_proofs_total",
			Help: "Identity proofs answered by kind",
		}, []string{"kind"}),
	}
}

func (m *Metrics) ObserveStage(stage, outcome string) {
	if m == nil {
		return
	}
	m.StageOutcomes.WithLabelValues(stage, outcome).Inc()
}

func (m *Metrics) ObserveCompletion(d time.Duration) {
	if m == nil {
		return
	}
	m.CompletionDuration.Observe(d.Seconds())
}

func (m *Metrics) ObservePublication(result string) {
	if m == nil {
		return
	}
	m.Publications.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveProof(kind string) {
	if m == nil {
		return
	}
	m.ProofsIssued.WithLabelValues(kind).Inc()
}
