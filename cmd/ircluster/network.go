// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"context"

	"github.com/luxfi/ir/replica"
	"github.com/luxfi/ir/transport"
	"github.com/luxfi/ir/types"
)

// inMemoryNetwork dispatches client and replica-to-replica calls directly
// to in-process replica.Replica instances, for demo and local-simulation
// purposes; no serialization or real I/O occurs.
type inMemoryNetwork struct {
	replicas map[types.NodeID]*replica.Replica[string]
}

func newInMemoryNetwork() *inMemoryNetwork {
	return &inMemoryNetwork{replicas: map[types.NodeID]*replica.Replica[string]{}}
}

func (n *inMemoryNetwork) add(r *replica.Replica[string]) {
	n.replicas[r.ID] = r
}

func (n *inMemoryNetwork) ProposeInconsistent(ctx context.Context, destinations []types.NodeID, client types.NodeID, seq uint64, msg string, observedView *types.ViewNumber) []transport.Reply[string] {
	replies := make([]transport.Reply[string], 0, len(destinations))
	for _, dest := range destinations {
		r, ok := n.replicas[dest]
		if !ok {
			replies = append(replies, transport.Reply[string]{Node: dest, Err: &transport.NodeUnreachableError{Node: dest}})
			continue
		}
		out, err := r.ProposeInconsistent(client, seq, msg, observedView)
		replies = append(replies, transport.Reply[string]{Node: dest, Msg: out.Message, View: out.CurrentView, Err: wrapServerErr(dest, "propose_inconsistent", err)})
	}
	return replies
}

func (n *inMemoryNetwork) ProposeConsistent(ctx context.Context, destinations []types.NodeID, client types.NodeID, seq uint64, msg string) []transport.Reply[string] {
	replies := make([]transport.Reply[string], 0, len(destinations))
	for _, dest := range destinations {
		r, ok := n.replicas[dest]
		if !ok {
			replies = append(replies, transport.Reply[string]{Node: dest, Err: &transport.NodeUnreachableError{Node: dest}})
			continue
		}
		out, err := r.ProposeConsistent(client, seq, msg, nil)
		replies = append(replies, transport.Reply[string]{Node: dest, Msg: out.Message, View: out.CurrentView, Err: wrapServerErr(dest, "propose_consistent", err)})
	}
	return replies
}

func (n *inMemoryNetwork) AsyncFinalizeInconsistent(destinations []types.NodeID, client types.NodeID, seq uint64, msg string) {
	for _, dest := range destinations {
		if r, ok := n.replicas[dest]; ok {
			_, _ = r.FinalizeInconsistent(client, seq, msg, nil)
		}
	}
}

func (n *inMemoryNetwork) AsyncFinalizeConsistent(destinations []types.NodeID, client types.NodeID, seq uint64, msg string) {
	for _, dest := range destinations {
		if r, ok := n.replicas[dest]; ok {
			_, _ = r.FinalizeConsistent(client, seq, msg, nil)
		}
	}
}

func (n *inMemoryNetwork) SyncFinalizeConsistent(ctx context.Context, destinations []types.NodeID, client types.NodeID, seq uint64, msg string) []transport.Reply[string] {
	replies := make([]transport.Reply[string], 0, len(destinations))
	for _, dest := range destinations {
		r, ok := n.replicas[dest]
		if !ok {
			replies = append(replies, transport.Reply[string]{Node: dest, Err: &transport.NodeUnreachableError{Node: dest}})
			continue
		}
		out, err := r.FinalizeConsistent(client, seq, msg, nil)
		replies = append(replies, transport.Reply[string]{Node: dest, Msg: out.Message, View: out.CurrentView, Err: wrapServerErr(dest, "finalize_consistent", err)})
	}
	return replies
}

func (n *inMemoryNetwork) Heartbeat(ctx context.Context, destination types.NodeID) error {
	if _, ok := n.replicas[destination]; !ok {
		return &transport.NodeUnreachableError{Node: destination}
	}
	return nil
}

func wrapServerErr(node types.NodeID, kind string, err error) error {
	if err == nil {
		return nil
	}
	return &transport.ServerError{Node: node, Kind: kind, Err: err}
}
