// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package quorum_test

import (
	"testing"

	"github.com/luxfi/ids"

	"github.com/luxfi/ir/quorum"
	"github.com/luxfi/ir/types"
)

// FuzzFindQuorumNeverPanics feeds arbitrary vote counts and message bytes
// through FindQuorum and checks the invariants from property 3 and 4:
// a reported quorum's view is the max view present, and its participant
// count never exceeds the vote set.
func FuzzFindQuorumNeverPanics(f *testing.F) {
	f.Add(3, 3, byte('a'), uint64(0))
	f.Add(5, 2, byte('x'), uint64(1))
	f.Add(7, 8, byte('z'), uint64(9))

	f.Fuzz(func(t *testing.T, n int, voteCount int, msg byte, view uint64) {
		if n < 0 || n > 64 || voteCount < 0 || voteCount > 64 {
			t.Skip()
		}

		votes := make([]quorum.Vote[byte], voteCount)
		for i := range votes {
			votes[i] = quorum.Vote[byte]{
				Node:    ids.GenerateTestNodeID(),
				Message: byte(int(msg) + i%2), // at most two distinct messages
				View:    types.ViewNumber(view),
			}
		}

		result, noQuorum, err := quorum.FindQuorum(votes, n)
		if n < 3 {
			if err == nil {
				t.Fatalf("expected ClusterTooSmall for n=%d", n)
			}
			return
		}
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result != nil && noQuorum != nil {
			t.Fatal("FindQuorum returned both a result and a NoQuorum")
		}
		if result == nil && noQuorum == nil {
			t.Fatal("FindQuorum returned neither a result nor a NoQuorum")
		}
		if result != nil && len(result.Participants) > voteCount {
			t.Fatalf("participants (%d) exceed vote count (%d)", len(result.Participants), voteCount)
		}
		if result != nil && result.View != types.ViewNumber(view) {
			t.Fatalf("quorum view %d is not the max view present %d", result.View, view)
		}
	})
}
