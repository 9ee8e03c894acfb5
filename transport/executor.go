// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package transport

// Executor is the application callback surface a Replica invokes while
// handling operations. All methods must be safe to call from a single
// replica goroutine at a time per slot; IR serializes calls per
// (client, sequence).
type Executor[M comparable] interface {
	// Evaluate is a side-effect-free evaluation of a proposed inconsistent
	// operation, used for duplicate detection; it must not mutate
	// application state.
	Evaluate(msg M) (M, error)
	// ExecInconsistent is the authoritative, side-effect-ful application
	// of a finalized inconsistent operation.
	ExecInconsistent(msg M) error
	// ExecConsistent is a tentative execution of a proposed consistent
	// operation; its result may later be overridden by Reconcile.
	ExecConsistent(msg M) (M, error)
	// ReconcileConsistent is invoked when a consistent operation is
	// finalized. previousEvaluation is this replica's own tentative
	// result from ExecConsistent; decided is the cluster's agreed
	// outcome. The executor must treat decided as authoritative and roll
	// back any side effects ExecConsistent performed if they diverge.
	ReconcileConsistent(previousEvaluation, decided M) error
}
