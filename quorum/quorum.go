// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package quorum implements the pure, deterministic vote-tallying
// algorithm shared by the client (deciding whether a round finished) and
// the merge engine (resolving peer records during a view change). It has
// no knowledge of transport, storage, or views beyond the view number
// carried on each vote.
package quorum

import (
	"fmt"

	"github.com/luxfi/ir/set"
	"github.com/luxfi/ir/types"
)

// Kind distinguishes the two ways a quorum can be reached.
type Kind uint8

const (
	// Fast indicates a quorum reached in a single round-trip: enough
	// identical fast-path replies that no Finalize round is needed to
	// be sure of the outcome.
	Fast Kind = iota
	// Normal indicates a quorum reached only at the weaker, always
	// sufficient normal-quorum threshold.
	Normal
)

func (k Kind) String() string {
	if k == Fast {
		return "fast"
	}
	return "normal"
}

// Vote is the ephemeral tuple a client or merge pass assembles from
// replica responses before calling FindQuorum.
type Vote[M comparable] struct {
	Node    types.NodeID
	Message M
	View    types.ViewNumber
}

// Result is what FindQuorum returns on success.
type Result[M comparable] struct {
	Message         M
	Kind            Kind
	View            types.ViewNumber
	Participants    []types.NodeID
	NonParticipants []types.NodeID
}

// NoQuorum is what FindQuorum returns when no message gathered enough
// matching votes. HasView is false only when the vote set was empty. It
// satisfies the error interface so callers can return it directly and
// retain errors.Is(err, types.ErrNoQuorum) via Unwrap while still
// carrying the view and tally a caller needs to decide whether to retry
// or fall through to contention resolution.
type NoQuorum[M comparable] struct {
	HasView bool
	View    types.ViewNumber
	Tally   map[M]set.Set[types.NodeID]
}

func (nq *NoQuorum[M]) Error() string {
	if !nq.HasView {
		return "no quorum reached: no votes observed"
	}
	voters := 0
	for _, s := range nq.Tally {
		voters += s.Len()
	}
	return fmt.Sprintf("no quorum reached: view %d, %d candidate messages, %d voters", nq.View, len(nq.Tally), voters)
}

func (nq *NoQuorum[M]) Unwrap() error {
	return types.ErrNoQuorum
}

// F returns the maximum number of simultaneously faulty replicas a
// cluster of size n tolerates: ⌈(n-1)/2⌉.
func F(n int) int {
	return n / 2
}

// FastQuorum returns the number of matching replies needed to finalize an
// operation without a second round-trip: ⌊(3f+1)/2⌋ + 1.
func FastQuorum(n int) int {
	f := F(n)
	return (3*f+1)/2 + 1
}

// NormalQuorum returns the number of matching replies needed for a
// Finalize round or a merge read: f + 1.
func NormalQuorum(n int) int {
	return F(n) + 1
}

// FindQuorum tallies votes into view → message → voters, restricts to the
// highest view present, and reports either a Quorum or a NoQuorum
// explanation. n is the cluster size (|members|) the vote set was drawn
// against; it must be at least 3.
//
// A node that votes more than once in the same view with the same message
// is coalesced. A node that votes with two different messages in the same
// view is treated as present in both buckets, so neither bucket can reach
// a quorum at that node's expense alone — this is the byzantine-signal
// handling called for by the tallying rule.
func FindQuorum[M comparable](votes []Vote[M], n int) (*Result[M], *NoQuorum[M], error) {
	if n < 3 {
		return nil, nil, types.ErrClusterTooSmall
	}
	if len(votes) == 0 {
		return nil, &NoQuorum[M]{}, nil
	}

	var maxView types.ViewNumber
	seen := false
	for _, v := range votes {
		if !seen || v.View > maxView {
			maxView = v.View
			seen = true
		}
	}

	tallyHi := make(map[M]set.Set[types.NodeID])
	for _, v := range votes {
		if v.View != maxView {
			continue
		}
		voters, ok := tallyHi[v.Message]
		if !ok {
			voters = make(set.Set[types.NodeID], 1)
			tallyHi[v.Message] = voters
		}
		voters.Add(v.Node)
	}

	var (
		topMsg    M
		topVoters set.Set[types.NodeID]
		topCount  = -1
		tied      bool
	)
	for msg, voters := range tallyHi {
		switch c := voters.Len(); {
		case c > topCount:
			topMsg, topVoters, topCount, tied = msg, voters, c, false
		case c == topCount:
			tied = true
		}
	}
	if tied {
		return nil, &NoQuorum[M]{HasView: true, View: maxView, Tally: tallyHi}, nil
	}

	participants := topVoters.List()
	nonParticipants := nonParticipantsOf(votes, topVoters)

	switch {
	case topCount >= FastQuorum(n):
		return &Result[M]{
			Message:         topMsg,
			Kind:            Fast,
			View:            maxView,
			Participants:    participants,
			NonParticipants: nonParticipants,
		}, nil, nil
	case topCount >= NormalQuorum(n):
		return &Result[M]{
			Message:         topMsg,
			Kind:            Normal,
			View:            maxView,
			Participants:    participants,
			NonParticipants: nonParticipants,
		}, nil, nil
	default:
		return nil, &NoQuorum[M]{HasView: true, View: maxView, Tally: tallyHi}, nil
	}
}

func nonParticipantsOf[M comparable](votes []Vote[M], participants set.Set[types.NodeID]) []types.NodeID {
	seen := make(set.Set[types.NodeID], len(votes))
	var out []types.NodeID
	for _, v := range votes {
		if seen.Contains(v.Node) || participants.Contains(v.Node) {
			continue
		}
		seen.Add(v.Node)
		out = append(out, v.Node)
	}
	return out
}
