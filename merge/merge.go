// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package merge implements the Merge Engine: collapsing a set of peer
// record snapshots into a single resolved record during a view change.
package merge

import (
	"github.com/luxfi/ir/quorum"
	"github.com/luxfi/ir/record"
	"github.com/luxfi/ir/types"
)

// PeerRecord is one replica's record-store snapshot as shipped to the
// view coordinator (or, in a leaderless arrangement, to every peer)
// during a view change.
type PeerRecord[M comparable] struct {
	Node    types.NodeID
	Entries map[record.Slot]record.Entry[M]
}

// DecideFunc resolves a set of candidate messages to a single outcome,
// the same hook used by the client for ProposeConsistent contention.
type DecideFunc[M comparable] func(candidates []M) M

// Less orders messages so an inconsistent-operation tie without a decide
// hook can still be resolved deterministically (lowest by total order).
type Less[M comparable] func(a, b M) bool

// Unresolved describes a slot the first merge pass could not settle:
// no quorum was reached among peer ConsistentPropose or InconsistentPropose
// entries, and deferred resolution (decide hook, or the deterministic
// tiebreak for inconsistent operations) is required.
type Unresolved[M comparable] struct {
	Slot  record.Slot
	Kind  types.OperationKind
	Tally *quorum.NoQuorum[M]
}

// Engine runs the merge algorithm for one view change.
type Engine[M comparable] struct {
	ClusterSize int
	Decide      DecideFunc[M]
	Tiebreak    Less[M]
}

// Merge collapses peers into a single resolved record set. newView is the
// view number the merged records are stamped with. Slots the first pass
// cannot settle are resolved by e.Decide if set, else e.Tiebreak, and are
// also returned in the unresolved list for observability (metrics, logs)
// even though they are fully resolved by the time Merge returns.
func (e Engine[M]) Merge(peers []PeerRecord[M], newView types.ViewNumber) (map[record.Slot]record.Entry[M], []Unresolved[M]) {
	slots := collectSlots(peers)
	merged := make(map[record.Slot]record.Entry[M], len(slots))
	var unresolved []Unresolved[M]

	for slot := range slots {
		peerEntries := entriesFor(peers, slot)
		entries := make([]record.Entry[M], len(peerEntries))
		for i, pe := range peerEntries {
			entries[i] = pe.entry
		}

		if msg, ok := firstMatching(entries, types.Inconsistent, types.Finalized); ok {
			merged[slot] = finalEntry(newView, slot, types.Inconsistent, msg)
			continue
		}
		if msg, ok := firstMatching(entries, types.Consistent, types.Finalized); ok {
			merged[slot] = finalEntry(newView, slot, types.Consistent, msg)
			continue
		}

		kind, allSameKind := soleProposedKind(entries)
		if !allSameKind {
			// Mixed, partially-populated peer set with no finalized entry
			// anywhere: fall back to whichever class has proposals and
			// treat the rest as absent voters, preferring consistent per
			// the dominance rule (Finalize dominates Propose; consistent
			// is resolved out-of-band so it takes precedence when mixed).
			kind = types.Consistent
		}

		votes := votesFor(peerEntries, kind)
		result, noQuorum, err := quorum.FindQuorum(votes, e.ClusterSize)
		if err != nil {
			// Cluster too small to compute a quorum: defer, same as a
			// NoQuorum, so the caller's decide/tiebreak hook resolves it.
			noQuorum = &quorum.NoQuorum[M]{}
		}
		if result != nil {
			merged[slot] = finalEntry(newView, slot, kind, result.Message)
			continue
		}

		resolved := e.resolve(noQuorum, entries)
		merged[slot] = finalEntry(newView, slot, kind, resolved)
		unresolved = append(unresolved, Unresolved[M]{Slot: slot, Kind: kind, Tally: noQuorum})
	}

	return merged, unresolved
}

func (e Engine[M]) resolve(noQuorum *quorum.NoQuorum[M], entries []record.Entry[M]) M {
	candidates := candidateMessages(noQuorum, entries)
	if e.Decide != nil {
		return e.Decide(candidates)
	}
	return lowest(candidates, e.Tiebreak)
}

func candidateMessages[M comparable](noQuorum *quorum.NoQuorum[M], entries []record.Entry[M]) []M {
	if noQuorum != nil && len(noQuorum.Tally) > 0 {
		out := make([]M, 0, len(noQuorum.Tally))
		for msg := range noQuorum.Tally {
			out = append(out, msg)
		}
		return out
	}
	out := make([]M, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Operation.Message)
	}
	return out
}

func lowest[M comparable](candidates []M, less Less[M]) M {
	var best M
	set := false
	for _, c := range candidates {
		if !set {
			best, set = c, true
			continue
		}
		if less != nil && less(c, best) {
			best = c
		}
	}
	return best
}

func collectSlots[M comparable](peers []PeerRecord[M]) map[record.Slot]struct{} {
	slots := make(map[record.Slot]struct{})
	for _, p := range peers {
		for slot := range p.Entries {
			slots[slot] = struct{}{}
		}
	}
	return slots
}

type peerEntry[M comparable] struct {
	node  types.NodeID
	entry record.Entry[M]
}

func entriesFor[M comparable](peers []PeerRecord[M], slot record.Slot) []peerEntry[M] {
	var out []peerEntry[M]
	for _, p := range peers {
		if e, ok := p.Entries[slot]; ok {
			out = append(out, peerEntry[M]{node: p.Node, entry: e})
		}
	}
	return out
}

func firstMatching[M comparable](entries []record.Entry[M], kind types.OperationKind, status types.OperationStatus) (M, bool) {
	for _, e := range entries {
		if e.Operation.Kind == kind && e.Operation.Status == status {
			if status == types.Finalized && kind == types.Consistent {
				return e.Operation.Decision, true
			}
			return e.Operation.Message, true
		}
	}
	var zero M
	return zero, false
}

// soleProposedKind reports the operation kind if every entry shares it,
// which is the common case (a slot is either wholly consistent or wholly
// inconsistent across replicas absent a bug in the application layer).
func soleProposedKind[M comparable](entries []record.Entry[M]) (types.OperationKind, bool) {
	if len(entries) == 0 {
		return types.Inconsistent, true
	}
	kind := entries[0].Operation.Kind
	for _, e := range entries[1:] {
		if e.Operation.Kind != kind {
			return kind, false
		}
	}
	return kind, true
}

func votesFor[M comparable](entries []peerEntry[M], kind types.OperationKind) []quorum.Vote[M] {
	votes := make([]quorum.Vote[M], 0, len(entries))
	for _, pe := range entries {
		if pe.entry.Operation.Kind != kind {
			continue
		}
		votes = append(votes, quorum.Vote[M]{
			Node:    pe.node,
			Message: pe.entry.Operation.Message,
			View:    pe.entry.View,
		})
	}
	return votes
}

func finalEntry[M comparable](view types.ViewNumber, slot record.Slot, kind types.OperationKind, msg M) record.Entry[M] {
	return record.Entry[M]{
		View: view,
		Operation: types.Operation[M]{
			Client:   slot.Client,
			Kind:     kind,
			Status:   types.Finalized,
			Message:  msg,
			Decision: msg,
		},
	}
}
