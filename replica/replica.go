// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package replica implements the per-node Replica state machine: the
// Propose/Finalize handlers, view-skew detection, and the Recovery and
// view-change entry points.
package replica

import (
	"github.com/luxfi/log"

	"github.com/luxfi/ir/config"
	irlog "github.com/luxfi/ir/log"
	"github.com/luxfi/ir/merge"
	"github.com/luxfi/ir/metrics"
	"github.com/luxfi/ir/record"
	"github.com/luxfi/ir/transport"
	"github.com/luxfi/ir/types"
	"github.com/luxfi/ir/view"
)

// Outcome is what a handler returns to its caller (local client stub or
// network layer) on success.
type Outcome[M comparable] struct {
	Message     M
	CurrentView types.ViewNumber
}

// Replica is a single node's protocol state: its view, its record store,
// and the application's Executor.
type Replica[M comparable] struct {
	ID       types.NodeID
	params   config.Parameters
	views    *view.Manager
	store    record.Store[M]
	executor transport.Executor[M]
	log      log.Logger
	metrics  *metrics.Metrics
}

// New constructs a Replica starting in Recovery, per the safe choice
// documented for the ambiguous startup-state question: a restart always
// re-enters Recovery and must catch up before serving Normal traffic.
func New[M comparable](id types.NodeID, params config.Parameters, members []types.NodeID, store record.Store[M], executor transport.Executor[M], logger log.Logger, m *metrics.Metrics) *Replica[M] {
	if logger == nil {
		logger = irlog.NewNoOpLogger()
	}
	return &Replica[M]{
		ID:       id,
		params:   params,
		views:    view.NewManager(0, members),
		store:    store,
		executor: executor,
		log:      logger,
		metrics:  m,
	}
}

// View exposes the replica's current view snapshot, for transport layers
// and tests.
func (r *Replica[M]) View() view.View {
	return r.views.Snapshot()
}

// checkView detects view skew: if observedView is strictly higher than
// this replica's current view, the replica adopts ViewChanging at that
// higher view and returns a *ViewChangingError the caller must propagate
// and retry against. Returns the view to report back and, on success,
// a nil error.
func (r *Replica[M]) checkView(observedView *types.ViewNumber) (view.View, error) {
	snap := r.views.Snapshot()
	if observedView != nil && *observedView > snap.Number {
		current := snap.Number
		newView, ok := r.views.EnterViewChanging(*observedView, snap.Members)
		if ok {
			r.metrics.ObserveViewChange(uint64(*observedView))
			r.log.Info("observed higher view, entering view change", "from", current, "to", *observedView)
		}
		return newView, &ViewChangingError{Current: current, Target: *observedView}
	}
	return snap, nil
}

// ProposeInconsistent handles an InconsistentPropose: requires Normal
// state, writes a tentative record, and runs the executor's
// side-effect-free Evaluate for duplicate detection.
func (r *Replica[M]) ProposeInconsistent(client types.NodeID, seq uint64, msg M, observedView *types.ViewNumber) (Outcome[M], error) {
	r.metrics.ObserveProposal(types.Inconsistent.String())
	snap, err := r.checkView(observedView)
	if err != nil {
		return Outcome[M]{CurrentView: snap.Number}, err
	}
	if snap.State != view.Normal {
		return Outcome[M]{CurrentView: snap.Number}, ErrNotNormal
	}

	evaluated, err := r.executor.Evaluate(msg)
	if err != nil {
		return Outcome[M]{}, err
	}
	slot := record.Slot{Client: client, Sequence: seq}
	stored, err := r.store.RecordTentativeInconsistent(slot, snap.Number, evaluated)
	if err != nil {
		return Outcome[M]{}, err
	}
	return Outcome[M]{Message: stored, CurrentView: snap.Number}, nil
}

// FinalizeInconsistent handles a FinalizeInconsistent: promotes the slot
// to finalized and invokes the executor's authoritative application.
func (r *Replica[M]) FinalizeInconsistent(client types.NodeID, seq uint64, msg M, observedView *types.ViewNumber) (Outcome[M], error) {
	r.metrics.ObserveFinalize(types.Inconsistent.String())
	snap, err := r.checkView(observedView)
	if err != nil {
		return Outcome[M]{CurrentView: snap.Number}, err
	}
	if snap.State != view.Normal {
		return Outcome[M]{CurrentView: snap.Number}, ErrNotNormal
	}

	slot := record.Slot{Client: client, Sequence: seq}
	if err := r.store.PromoteFinalizedInconsistent(slot, snap.Number, msg); err != nil {
		return Outcome[M]{}, err
	}
	if err := r.executor.ExecInconsistent(msg); err != nil {
		return Outcome[M]{}, err
	}
	return Outcome[M]{Message: msg, CurrentView: snap.Number}, nil
}

// ProposeConsistent handles a ConsistentPropose. A replica still in
// Recovery refuses the request so the client can await catch-up.
func (r *Replica[M]) ProposeConsistent(client types.NodeID, seq uint64, msg M, observedView *types.ViewNumber) (Outcome[M], error) {
	r.metrics.ObserveProposal(types.Consistent.String())
	snap, err := r.checkView(observedView)
	if err != nil {
		return Outcome[M]{CurrentView: snap.Number}, err
	}
	if snap.State == view.Recovery {
		r.metrics.ObserveRecovery()
		return Outcome[M]{CurrentView: snap.Number}, &RecoveringError{View: snap.Number}
	}
	if snap.State != view.Normal {
		return Outcome[M]{CurrentView: snap.Number}, ErrNotNormal
	}

	tentative, err := r.executor.ExecConsistent(msg)
	if err != nil {
		return Outcome[M]{}, err
	}
	slot := record.Slot{Client: client, Sequence: seq}
	stored, err := r.store.RecordTentativeConsistent(slot, snap.Number, tentative)
	if err != nil {
		return Outcome[M]{}, err
	}
	return Outcome[M]{Message: stored, CurrentView: snap.Number}, nil
}

// FinalizeConsistent handles a FinalizeConsistent: promotes the slot and
// lets the executor reconcile its tentative evaluation against the
// decided outcome.
func (r *Replica[M]) FinalizeConsistent(client types.NodeID, seq uint64, decided M, observedView *types.ViewNumber) (Outcome[M], error) {
	r.metrics.ObserveFinalize(types.Consistent.String())
	snap, err := r.checkView(observedView)
	if err != nil {
		return Outcome[M]{CurrentView: snap.Number}, err
	}
	if snap.State == view.Recovery {
		return Outcome[M]{CurrentView: snap.Number}, &RecoveringError{View: snap.Number}
	}

	slot := record.Slot{Client: client, Sequence: seq}
	prior, hadPrior, err := r.store.PromoteFinalizedConsistent(slot, snap.Number, decided)
	if err != nil {
		return Outcome[M]{}, err
	}
	var previous M
	if hadPrior {
		previous = prior
	}
	if err := r.executor.ReconcileConsistent(previous, decided); err != nil {
		return Outcome[M]{}, err
	}
	return Outcome[M]{Message: decided, CurrentView: snap.Number}, nil
}

// EnterRecovery forces the replica back into Recovery, e.g. after a
// storage error escalates per the error-propagation policy.
func (r *Replica[M]) EnterRecovery() {
	snap := r.views.Snapshot()
	r.views.EnterViewChanging(snap.Number, snap.Members)
	r.log.Warn("replica entering recovery", "view", snap.Number)
}

// ApplyMerged installs the merge engine's resolved record set and, once a
// normal quorum of peers has acknowledged it, completes the view change
// back to Normal.
func (r *Replica[M]) ApplyMerged(merged map[record.Slot]record.Entry[M], acks int) view.View {
	for slot, entry := range merged {
		switch {
		case entry.Operation.Kind == types.Inconsistent:
			_ = r.store.PromoteFinalizedInconsistent(slot, entry.View, entry.Operation.Message)
		default:
			_, _, _ = r.store.PromoteFinalizedConsistent(slot, entry.View, entry.Operation.Decision)
		}
	}
	if acks < r.params.NormalQuorum() {
		return r.views.Snapshot()
	}
	v := r.views.CompleteViewChange()
	r.log.Info("view change complete", "view", v.Number)
	return v
}

// RunMerge is a convenience wrapper around merge.Engine.Merge using this
// replica's configured cluster size.
func (r *Replica[M]) RunMerge(peers []merge.PeerRecord[M], newView types.ViewNumber, decide merge.DecideFunc[M], tiebreak merge.Less[M]) (map[record.Slot]record.Entry[M], []merge.Unresolved[M]) {
	e := merge.Engine[M]{ClusterSize: r.params.ClusterSize, Decide: decide, Tiebreak: tiebreak}
	return e.Merge(peers, newView)
}
