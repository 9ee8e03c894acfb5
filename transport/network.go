// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package transport defines the capability interfaces the protocol layer
// consumes: Network (replica-to-replica and client-to-replica RPC),
// Executor (application callbacks), and the errors a Network
// implementation reports.
package transport

import (
	"context"

	"github.com/luxfi/ir/types"
)

// Reply is one destination's outcome for a Propose or sync Finalize call.
type Reply[M comparable] struct {
	Node types.NodeID
	Msg  M
	View types.ViewNumber
	Err  error
}

// Network is the replica's outbound capability reference. The replica
// holds this as a weak handle; the network owns the replicas, not the
// other way around.
type Network[M comparable] interface {
	// ProposeInconsistent fans out an InconsistentPropose to destinations
	// and waits for each to answer or fail.
	ProposeInconsistent(ctx context.Context, destinations []types.NodeID, client types.NodeID, seq uint64, msg M, observedView *types.ViewNumber) []Reply[M]
	// ProposeConsistent fans out a ConsistentPropose the same way.
	ProposeConsistent(ctx context.Context, destinations []types.NodeID, client types.NodeID, seq uint64, msg M) []Reply[M]
	// AsyncFinalizeInconsistent is fire-and-forget, best-effort delivery.
	AsyncFinalizeInconsistent(destinations []types.NodeID, client types.NodeID, seq uint64, msg M)
	// AsyncFinalizeConsistent is fire-and-forget, best-effort delivery.
	AsyncFinalizeConsistent(destinations []types.NodeID, client types.NodeID, seq uint64, msg M)
	// SyncFinalizeConsistent waits for a normal quorum of Finalize
	// acknowledgements before returning.
	SyncFinalizeConsistent(ctx context.Context, destinations []types.NodeID, client types.NodeID, seq uint64, msg M) []Reply[M]
	// Heartbeat is a liveness probe to a single peer; it carries no
	// protocol state. Client and Replica do not call it.
	Heartbeat(ctx context.Context, destination types.NodeID) error
}

// NodeUnreachableError reports that a destination could not be reached at
// all (as distinct from it returning a protocol-level error).
type NodeUnreachableError struct {
	Node types.NodeID
}

func (e *NodeUnreachableError) Error() string {
	return "node unreachable: " + e.Node.String()
}

// ServerError wraps an error surfaced by a remote replica's handler.
type ServerError struct {
	Node types.NodeID
	Kind string
	Err  error
}

func (e *ServerError) Error() string {
	return "server error from " + e.Node.String() + ": " + e.Kind
}

func (e *ServerError) Unwrap() error {
	return e.Err
}
