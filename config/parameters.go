// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package config holds the tunable parameters of the quorum engine, replica
// and client: cluster sizing, timing, and retry behavior.
package config

import (
	"time"

	"github.com/luxfi/ir/quorum"
)

// Parameters contains the tunables shared by every replica and client in
// a cluster. All replicas and clients in the same cluster must agree on
// ClusterSize; the remaining fields are purely local tuning and may differ
// node to node.
type Parameters struct {
	// ClusterSize is the number of replicas in the cluster (n). Quorum
	// sizes are derived from it via F, FastQuorum and NormalQuorum.
	ClusterSize int

	// ProposeTimeout is the wait bound for Propose replies. Validate
	// requires it to be positive; Client and Replica do not read it, so
	// how long a Propose round waits is up to the Network implementation.
	ProposeTimeout time.Duration
	// FinalizeTimeout is the wait bound for Finalize replies. Validate
	// requires it to be positive; Client and Replica do not read it.
	FinalizeTimeout time.Duration
	// MaxRetries bounds how many times a client retries a Propose round
	// that failed to reach any quorum before giving up.
	MaxRetries int
	// RetryBackoff is the base delay between retried Propose rounds;
	// successive retries back off linearly by this amount.
	RetryBackoff time.Duration

	// MergeAckFanout is the number of peer replicas to query in parallel
	// while merging records during a view change. Validate requires it to
	// be at least 1; the merge engine and Replica do not read it.
	MergeAckFanout int
	// RecoveryPollInterval is the re-poll interval for a replica in
	// Recovery. No code in this module polls on it; it is carried for
	// display and for callers that drive recovery themselves.
	RecoveryPollInterval time.Duration

	// HeartbeatInterval is the liveness heartbeat interval, with zero
	// meaning no heartbeats. Client and Replica send no heartbeats and do
	// not read it.
	HeartbeatInterval time.Duration
}

// F returns the maximum number of simultaneously faulty replicas this
// cluster size tolerates: ⌈(n-1)/2⌉.
func (p Parameters) F() int {
	return quorum.F(p.ClusterSize)
}

// FastQuorum returns the number of matching Propose replies required to
// finalize an operation in one round-trip: ⌊(3f+1)/2⌋ + 1.
func (p Parameters) FastQuorum() int {
	return quorum.FastQuorum(p.ClusterSize)
}

// NormalQuorum returns the number of matching replies required for a
// Finalize round or a merge read: f + 1.
func (p Parameters) NormalQuorum() int {
	return quorum.NormalQuorum(p.ClusterSize)
}

// Validate checks that Parameters describes a cluster IR can compute
// quorums for and that its timing fields are sane.
func (p Parameters) Validate() error {
	if p.ClusterSize < 3 {
		return ErrClusterTooSmall
	}
	if p.ProposeTimeout <= 0 {
		return ErrProposeTimeoutTooLow
	}
	if p.FinalizeTimeout <= 0 {
		return ErrFinalizeTimeoutTooLow
	}
	if p.MaxRetries < 0 {
		return ErrInvalidMaxRetries
	}
	if p.MergeAckFanout < 1 {
		return ErrInvalidMergeAckFanout
	}
	return nil
}

// Default returns parameters tuned for a geographically distributed,
// five-node cluster: generous timeouts, conservative retry behavior.
func Default() Parameters {
	return Parameters{
		ClusterSize:          5,
		ProposeTimeout:       500 * time.Millisecond,
		FinalizeTimeout:      1 * time.Second,
		MaxRetries:           5,
		RetryBackoff:         100 * time.Millisecond,
		MergeAckFanout:       4,
		RecoveryPollInterval: 2 * time.Second,
		HeartbeatInterval:    1 * time.Second,
	}
}

// Fast returns parameters tuned for running a simulated cluster in a
// single process (tests, the demo CLI): minimal timeouts, no heartbeats.
func Fast() Parameters {
	return Parameters{
		ClusterSize:          3,
		ProposeTimeout:       50 * time.Millisecond,
		FinalizeTimeout:      50 * time.Millisecond,
		MaxRetries:           3,
		RetryBackoff:         5 * time.Millisecond,
		MergeAckFanout:       2,
		RecoveryPollInterval: 100 * time.Millisecond,
		HeartbeatInterval:    0,
	}
}

// Strict returns parameters tuned for a single-datacenter, three-node
// cluster that favors correctness margins over latency: tighter retry
// backoff and more retries than Default, with a heartbeat interval set.
func Strict() Parameters {
	return Parameters{
		ClusterSize:          3,
		ProposeTimeout:       150 * time.Millisecond,
		FinalizeTimeout:      300 * time.Millisecond,
		MaxRetries:           8,
		RetryBackoff:         50 * time.Millisecond,
		MergeAckFanout:       2,
		RecoveryPollInterval: 1 * time.Second,
		HeartbeatInterval:    500 * time.Millisecond,
	}
}
