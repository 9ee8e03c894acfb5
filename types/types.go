// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package types defines the wire-level data model shared by every package
// in this module: node identity, operation records, and view numbers.
package types

import (
	"fmt"

	"github.com/luxfi/ids"
)

// NodeID identifies a replica or client in the cluster.
type NodeID = ids.NodeID

// OperationID uniquely names an operation within a client's sequence.
// It is opaque to the protocol; callers typically derive it from a
// content hash or a (client, sequence number) pair.
type OperationID = ids.ID

// ViewNumber orders view changes. View zero is the cluster's initial,
// unconfigured view.
type ViewNumber uint64

// OperationKind distinguishes the two operation classes IR supports.
type OperationKind uint8

const (
	// Inconsistent operations commute; replicas that disagree on their
	// relative order still converge once merged.
	Inconsistent OperationKind = iota
	// Consistent operations are resolved by a caller-supplied decide
	// function during Finalize; divergent replicas must agree on one
	// outcome.
	Consistent
)

func (k OperationKind) String() string {
	switch k {
	case Inconsistent:
		return "inconsistent"
	case Consistent:
		return "consistent"
	default:
		return fmt.Sprintf("OperationKind(%d)", uint8(k))
	}
}

// OperationStatus tracks an operation's progress through the two-phase
// Propose/Finalize handshake at a single replica.
type OperationStatus uint8

const (
	// Tentative operations have been proposed but not yet finalized.
	// A merge may still replace them.
	Tentative OperationStatus = iota
	// Finalized operations are durable and have been executed.
	Finalized
)

func (s OperationStatus) String() string {
	switch s {
	case Tentative:
		return "tentative"
	case Finalized:
		return "finalized"
	default:
		return fmt.Sprintf("OperationStatus(%d)", uint8(s))
	}
}

// Operation is a single entry in a replica's record store. M is the
// application-supplied message payload type; IR never inspects it beyond
// passing it to the Executor.
type Operation[M comparable] struct {
	ID       OperationID     `json:"id"`
	Client   NodeID          `json:"client"`
	Kind     OperationKind   `json:"kind"`
	Status   OperationStatus `json:"status"`
	Message  M               `json:"message"`
	Decision M               `json:"decision,omitempty"`
}

// Record pairs an operation with the view it was proposed in, as stored
// durably by a single replica.
type Record[M comparable] struct {
	Operation Operation[M]
	View      ViewNumber
}

// QuorumReply is what a replica returns to a client for a Propose or
// Finalize request: its own view of the operation's status plus, for
// consistent operations under contention, its preferred decision.
type QuorumReply[M comparable] struct {
	Replica  NodeID
	View     ViewNumber
	Status   OperationStatus
	Decision M
}

// ClusterSize sanity-bounds are enforced by config.Parameters.Validate,
// not here; this package only models data, not policy.
