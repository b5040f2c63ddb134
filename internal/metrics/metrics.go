// Package metrics counts engine outcomes with Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels.
const (
	OutcomeOK       = "ok"
	OutcomeRejected = "rejected"
	OutcomeInvalid  = "invalid"
	OutcomeError    = "error"
)

// Recorder groups the engine's counters. A nil *Recorder records nothing.
type Recorder struct {
	Submissions   *prometheus.CounterVec
	PeerImports   *prometheus.CounterVec
	DocumentLoads *prometheus.CounterVec
	Votes         *prometheus.CounterVec
}

// New creates the counters and registers them with reg.
func New(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		Submissions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "peerstat",
				Name:      "answer_submissions_total",
				Help:      "Answer submissions by outcome",
			},
			[]string{"outcome"},
		),
		PeerImports: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "peerstat",
				Name:      "peer_imports_total",
				Help:      "Class snapshot imports by outcome",
			},
			[]string{"outcome"},
		),
		DocumentLoads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "peerstat",
				Name:      "document_loads_total",
				Help:      "Progress document loads by source generation",
			},
			[]string{"generation"},
		),
		Votes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "peerstat",
				Name:      "votes_total",
				Help:      "Votes cast by type",
			},
			[]string{"type"},
		),
	}
	if reg != nil {
		reg.MustRegister(r.Submissions, r.PeerImports, r.DocumentLoads, r.Votes)
	}
	return r
}

func (r *Recorder) Submission(outcome string) {
	if r == nil {
		return
	}
	r.Submissions.WithLabelValues(outcome).Inc()
}

func (r *Recorder) PeerImport(outcome string) {
	if r == nil {
		return
	}
	r.PeerImports.WithLabelValues(outcome).Inc()
}

func (r *Recorder) DocumentLoad(generation string) {
	if r == nil {
		return
	}
	r.DocumentLoads.WithLabelValues(generation).Inc()
}

func (r *Recorder) Vote(voteType string) {
	if r == nil {
		return
	}
	r.Votes.WithLabelValues(voteType).Inc()
}
