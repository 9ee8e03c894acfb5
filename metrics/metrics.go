// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package metrics wires the replica and client state machines to Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the collectors shared by a Replica and the Clients talking
// to it. All fields are safe to use concurrently; nil-valued *Metrics
// pointers are accepted throughout the package (metrics are optional).
type Metrics struct {
	Registry prometheus.Registerer

	ProposalsTotal  *prometheus.CounterVec
	FinalizesTotal  *prometheus.CounterVec
	QuorumResults   *prometheus.CounterVec
	ViewChanges     prometheus.Counter
	ViewNumber      prometheus.Gauge
	MergeDuration   prometheus.Histogram
	MergeUnresolved prometheus.Counter
	RecoveryTotal   prometheus.Counter
}

// New creates and registers the IR metric collectors under the given
// namespace (e.g. "ir_replica" or "ir_client"). Mirrors the
// Registry-plus-Register shape used elsewhere in this codebase.
func New(namespace string, reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Registry: reg,
		ProposalsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "proposals_total",
			Help:      "Number of Propose messages handled, by operation kind.",
		}, []string{"kind"}),
		FinalizesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "finalizes_total",
			Help:      "Number of Finalize messages handled, by operation kind.",
		}, []string{"kind"}),
		QuorumResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quorum_results_total",
			Help:      "Quorums reached by FindQuorum, by kind (fast, normal).",
		}, []string{"kind"}),
		ViewChanges: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "view_changes_total",
			Help:      "Number of view transitions observed.",
		}),
		ViewNumber: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "view_number",
			Help:      "Current view number.",
		}),
		MergeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "merge_duration_seconds",
			Help:      "Time spent resolving peer records during a view change.",
			Buckets:   prometheus.DefBuckets,
		}),
		MergeUnresolved: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "merge_unresolved_entries_total",
			Help:      "Record-store entries that required a deferred-pass tiebreak during merge.",
		}),
		RecoveryTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recovery_total",
			Help:      "Number of consistent proposals refused because this replica was in Recovery.",
		}),
	}

	collectors := []prometheus.Collector{
		m.ProposalsTotal,
		m.FinalizesTotal,
		m.QuorumResults,
		m.ViewChanges,
		m.ViewNumber,
		m.MergeDuration,
		m.MergeUnresolved,
		m.RecoveryTotal,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// ObserveQuorum is a nil-safe helper: replicas and clients call this whether
// or not metrics were configured at construction time.
func (m *Metrics) ObserveQuorum(kind string) {
	if m == nil {
		return
	}
	m.QuorumResults.WithLabelValues(kind).Inc()
}

// ObserveProposal is a nil-safe helper for propose-handler bookkeeping.
func (m *Metrics) ObserveProposal(kind string) {
	if m == nil {
		return
	}
	m.ProposalsTotal.WithLabelValues(kind).Inc()
}

// ObserveFinalize is a nil-safe helper for finalize-handler bookkeeping.
func (m *Metrics) ObserveFinalize(kind string) {
	if m == nil {
		return
	}
	m.FinalizesTotal.WithLabelValues(kind).Inc()
}

// ObserveViewChange is a nil-safe helper for view-transition bookkeeping.
func (m *Metrics) ObserveViewChange(newView uint64) {
	if m == nil {
		return
	}
	m.ViewChanges.Inc()
	m.ViewNumber.Set(float64(newView))
}

// ObserveRecovery is a nil-safe helper that counts a consistent proposal
// refused while the replica is in Recovery.
func (m *Metrics) ObserveRecovery() {
	if m == nil {
		return
	}
	m.RecoveryTotal.Inc()
}
