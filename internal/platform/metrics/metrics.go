package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var latencyBuckets = []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60}

// Metrics provides observability for event intake, ledger commits and evidence linking.
type Metrics struct {
	Submissions         *prometheus.CounterVec
	SubmitDuration      prometheus.Histogram
	CommitDuration      *prometheus.HistogramVec
	InconsistencyWindow prometheus.Counter
	EvidenceFiles       *prometheus.CounterVec
	HTTPDuration        *prometheus.HistogramVec
}

// New creates a Metrics instance registered with reg. Pass nil to use the
// default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Metrics{
		Submissions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "proofsy_event_submissions_total",
			Help: "Event submissions by outcome",
		}, []string{"outcome"}),
		SubmitDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "proofsy_event_submit_duration_seconds",
			Help:    "Duration of event submissions including the ledger commit",
			Buckets: latencyBuckets,
		}),
		CommitDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "proofsy_ledger_commit_duration_seconds",
			Help:    "Duration of external ledger commits by payload kind and outcome",
			Buckets: latencyBuckets,
		}, []string{"kind", "outcome"}),
		InconsistencyWindow: f.NewCounter(prometheus.CounterOpts{
			Name: "proofsy_inconsistency_window_total",
			Help: "Commits that succeeded upstream but were not persisted locally",
		}),
		EvidenceFiles: f.NewCounterVec(prometheus.CounterOpts{
			Name: "proofsy_evidence_files_total",
			Help: "Evidence files linked by outcome",
		}, []string{"outcome"}),
		HTTPDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "proofsy_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status",
			Buckets: latencyBuckets,
		}, []string{"method", "route", "status"}),
	}
}

// IncSubmission records a submission outcome (ok, validation, conflict, upstream, inconsistency).
func (m *Metrics) IncSubmission(outcome string) {
	if m == nil {
		return
	}
	m.Submissions.WithLabelValues(outcome).Inc()
}

// ObserveSubmit records the duration of a submission.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveSubmit(start time.Time) {
	if m == nil {
		return
	}
	m.SubmitDuration.Observe(time.Since(start).Seconds())
}

// ObserveCommit records a ledger commit.
func (m *Metrics) ObserveCommit(kind, outcome string, start time.Time) {
	if m == nil {
		return
	}
	m.CommitDuration.WithLabelValues(kind, outcome).Observe(time.Since(start).Seconds())
}

// IncInconsistency records a commit that has no local record.
func (m *Metrics) IncInconsistency() {
	if m == nil {
		return
	}
	m.InconsistencyWindow.Inc()
}

// AddEvidence records linked and failed evidence files.
func (m *Metrics) AddEvidence(succeeded, failed int) {
	if m == nil {
		return
	}
	m.EvidenceFiles.WithLabelValues("linked").Add(float64(succeeded))
	m.EvidenceFiles.WithLabelValues("failed").Add(float64(failed))
}

// ObserveHTTP records a served request.
func (m *Metrics) ObserveHTTP(method, route, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.HTTPDuration.WithLabelValues(method, route, status).Observe(d.Seconds())
}
