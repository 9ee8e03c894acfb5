// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package client implements the IR client: InvokeInconsistent and
// InvokeConsistent, each a bounded-retry broadcast over the quorum engine.
package client

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/luxfi/log"

	"github.com/luxfi/ir/config"
	irlog "github.com/luxfi/ir/log"
	"github.com/luxfi/ir/metrics"
	"github.com/luxfi/ir/quorum"
	"github.com/luxfi/ir/transport"
	"github.com/luxfi/ir/types"
	"github.com/luxfi/ir/utils"
	safemath "github.com/luxfi/ir/utils/math"
)

// DecideFunc resolves contending candidate messages for a consistent
// operation to a single outcome. It must be deterministic given its
// input set: every client and replica that calls it with the same
// candidates must get the same answer.
type DecideFunc[M comparable] func(candidates []M) M

// Client holds a reference to the network, a locally cached view, and a
// per-instance monotonic sequence counter. It is safe for concurrent use
// by multiple goroutines issuing independent operations.
type Client[M comparable] struct {
	ID      types.NodeID
	network transport.Network[M]
	params  config.Parameters
	decide  DecideFunc[M]
	log     log.Logger
	metrics *metrics.Metrics

	sequence atomic.Uint64

	viewCache              atomicView
	additionalNodesToProbe []types.NodeID
	closed                 *utils.AtomicBool
}

// atomicView is a tiny single-writer-multi-reader cache of the client's
// last-known view; unlike the replica's view.Manager it never transitions
// state, it only tracks the highest view number observed.
type atomicView struct {
	view atomic.Uint64
}

func (a *atomicView) load() types.ViewNumber {
	return types.ViewNumber(a.view.Load())
}

func (a *atomicView) adopt(v types.ViewNumber) bool {
	for {
		cur := a.view.Load()
		if uint64(v) <= cur {
			return false
		}
		if a.view.CompareAndSwap(cur, uint64(v)) {
			return true
		}
	}
}

// New constructs a Client. decide resolves contention for consistent
// operations; the membership to broadcast to is passed to each Invoke call.
func New[M comparable](id types.NodeID, network transport.Network[M], params config.Parameters, decide DecideFunc[M], logger log.Logger, m *metrics.Metrics) *Client[M] {
	if logger == nil {
		logger = irlog.NewNoOpLogger()
	}
	c := &Client[M]{
		ID:      id,
		network: network,
		params:  params,
		decide:  decide,
		log:     logger,
		metrics: m,
		closed:  utils.NewAtomicBool(false),
	}
	return c
}

// AddNodesToProbe appends extra destinations broadcast to on the next
// invocation, alongside the cached view's members. Cleared on the next
// observed view change, mirroring the protocol's additional_nodes_to_probe.
func (c *Client[M]) AddNodesToProbe(nodes ...types.NodeID) {
	c.additionalNodesToProbe = append(c.additionalNodesToProbe, nodes...)
}

// Close marks the client unusable; any Invoke call in flight may still
// complete, but new calls fail immediately with ErrClientClosed.
func (c *Client[M]) Close() {
	c.closed.Set(true)
}

func (c *Client[M]) destinations(members []types.NodeID) []types.NodeID {
	out := make([]types.NodeID, 0, len(members)+len(c.additionalNodesToProbe))
	out = append(out, members...)
	out = append(out, c.additionalNodesToProbe...)
	return out
}

func (c *Client[M]) adoptHighestView(replies []transport.Reply[M]) {
	for _, r := range replies {
		if r.Err == nil && c.viewCache.adopt(r.View) {
			c.additionalNodesToProbe = nil
			c.metrics.ObserveViewChange(uint64(r.View))
		}
	}
}

func votesFrom[M comparable](replies []transport.Reply[M]) []quorum.Vote[M] {
	votes := make([]quorum.Vote[M], 0, len(replies))
	for _, r := range replies {
		if r.Err != nil {
			continue
		}
		votes = append(votes, quorum.Vote[M]{Node: r.Node, Message: r.Msg, View: r.View})
	}
	return votes
}

// backoffDelay returns attempt linear multiples of base, saturating at
// the largest representable duration instead of overflowing if a
// misconfigured base or attempt count would otherwise wrap around.
func backoffDelay(base time.Duration, attempt int) time.Duration {
	total, err := safemath.Mul64(uint64(base), uint64(attempt))
	if err != nil || total > 1<<63-1 {
		return time.Duration(1<<63 - 1)
	}
	return time.Duration(total)
}

// sleep waits for d or ctx's cancellation, whichever comes first.
func sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

// InvokeInconsistent proposes msg as an inconsistent operation and, once
// a quorum of identical replies is observed, asynchronously finalizes it.
// Cluster-too-small is reported without issuing any network calls.
func (c *Client[M]) InvokeInconsistent(ctx context.Context, members []types.NodeID, msg M) (M, error) {
	zero := utils.Zero[M]()
	if c.closed.Get() {
		return zero, types.ErrClientClosed
	}
	if err := c.params.Validate(); err != nil {
		return zero, err
	}

	seq := c.sequence.Add(1) - 1
	dests := c.destinations(members)

	var lastErr error
	for attempt := 0; attempt <= c.params.MaxRetries; attempt++ {
		observed := c.viewCache.load()
		replies := c.network.ProposeInconsistent(ctx, dests, c.ID, seq, msg, &observed)
		c.adoptHighestView(replies)

		votes := votesFrom(replies)
		result, noQuorum, err := quorum.FindQuorum(votes, c.params.ClusterSize)
		if err != nil {
			return zero, err
		}
		if result != nil {
			c.metrics.ObserveQuorum(result.Kind.String())
			c.network.AsyncFinalizeInconsistent(dests, c.ID, seq, result.Message)
			return result.Message, nil
		}

		lastErr = types.WrapError(noQuorum, "invoke inconsistent")
		c.log.Warn("no quorum for inconsistent propose, retrying", "attempt", attempt, "view", noQuorum.View)
		sleep(ctx, backoffDelay(c.params.RetryBackoff, attempt+1))
	}
	return zero, lastErr
}

// InvokeConsistent proposes msg as a consistent operation. On conflict,
// it invokes decide over the candidate set and synchronously finalizes
// the decided value, requiring a further quorum of acknowledgements.
func (c *Client[M]) InvokeConsistent(ctx context.Context, members []types.NodeID, msg M) (M, error) {
	zero := utils.Zero[M]()
	if c.closed.Get() {
		return zero, types.ErrClientClosed
	}
	if err := c.params.Validate(); err != nil {
		return zero, err
	}

	seq := c.sequence.Add(1) - 1
	dests := c.destinations(members)

	var lastErr error
	for attempt := 0; attempt <= c.params.MaxRetries; attempt++ {
		replies := c.network.ProposeConsistent(ctx, dests, c.ID, seq, msg)
		c.adoptHighestView(replies)

		votes := votesFrom(replies)
		result, noQuorum, err := quorum.FindQuorum(votes, c.params.ClusterSize)

		var decided M
		switch {
		case err != nil:
			return zero, err
		case result != nil && result.Kind == quorum.Fast:
			// A fast quorum already agrees: finalize fire-and-forget and
			// return without a second round-trip.
			c.metrics.ObserveQuorum(result.Kind.String())
			c.network.AsyncFinalizeConsistent(dests, c.ID, seq, result.Message)
			return result.Message, nil
		case result != nil:
			c.metrics.ObserveQuorum(result.Kind.String())
			decided = result.Message
		case noQuorum != nil && noQuorum.HasView && countVoters(noQuorum) >= c.params.NormalQuorum():
			decided = c.decide(candidatesOf(noQuorum))
		default:
			lastErr = types.WrapError(noQuorum, "invoke consistent")
			c.log.Warn("no quorum for consistent propose, retrying", "attempt", attempt)
			sleep(ctx, backoffDelay(c.params.RetryBackoff, attempt+1))
			continue
		}

		// Normal-quorum or decided-by-contention path: broadcast the
		// decision synchronously and require a further quorum of
		// acknowledgements before returning it to the caller.
		acks := c.network.SyncFinalizeConsistent(ctx, dests, c.ID, seq, decided)
		c.adoptHighestView(acks)
		ackVotes := votesFrom(acks)
		ackResult, ackNoQuorum, err := quorum.FindQuorum(ackVotes, c.params.ClusterSize)
		if err == nil && ackResult != nil {
			return decided, nil
		}
		if countMatching(acks, decided) >= c.params.NormalQuorum() {
			return decided, nil
		}
		if ackNoQuorum != nil {
			lastErr = types.WrapError(ackNoQuorum, "finalize consistent")
		} else {
			lastErr = types.ErrNoQuorum
		}
		sleep(ctx, backoffDelay(c.params.RetryBackoff, attempt+1))
	}
	return zero, lastErr
}

func countVoters[M comparable](nq *quorum.NoQuorum[M]) int {
	total := 0
	for _, voters := range nq.Tally {
		total += voters.Len()
	}
	return total
}

func candidatesOf[M comparable](nq *quorum.NoQuorum[M]) []M {
	out := make([]M, 0, len(nq.Tally))
	for msg := range nq.Tally {
		out = append(out, msg)
	}
	return out
}

func countMatching[M comparable](replies []transport.Reply[M], want M) int {
	n := 0
	for _, r := range replies {
		if r.Err == nil && r.Msg == want {
			n++
		}
	}
	return n
}

