// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package quorum_test

import (
	"errors"
	"testing"

	"github.com/luxfi/ids"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/ir/quorum"
	"github.com/luxfi/ir/types"
)

func nodes(n int) []types.NodeID {
	out := make([]types.NodeID, n)
	for i := range out {
		out[i] = ids.GenerateTestNodeID()
	}
	return out
}

func TestSizingWorkedValues(t *testing.T) {
	require := require.New(t)

	cases := []struct {
		n, f, fast, normal int
	}{
		{3, 1, 3, 2},
		{4, 2, 4, 3},
		{5, 2, 4, 3},
		{7, 3, 6, 4},
	}
	for _, c := range cases {
		require.Equal(c.f, quorum.F(c.n), "F(%d)", c.n)
		require.Equal(c.fast, quorum.FastQuorum(c.n), "FastQuorum(%d)", c.n)
		require.Equal(c.normal, quorum.NormalQuorum(c.n), "NormalQuorum(%d)", c.n)
	}
}

func TestFindQuorumClusterTooSmall(t *testing.T) {
	_, _, err := quorum.FindQuorum([]quorum.Vote[string]{}, 2)
	require.ErrorIs(t, err, types.ErrClusterTooSmall)
}

func TestFindQuorumEmptyVotes(t *testing.T) {
	result, noQuorum, err := quorum.FindQuorum[string](nil, 3)
	require.NoError(t, err)
	require.Nil(t, result)
	require.False(t, noQuorum.HasView)
}

func TestFindQuorumFastPath(t *testing.T) {
	vs := nodes(3)
	votes := []quorum.Vote[string]{
		{Node: vs[0], Message: "a", View: 0},
		{Node: vs[1], Message: "a", View: 0},
		{Node: vs[2], Message: "a", View: 0},
	}
	result, noQuorum, err := quorum.FindQuorum(votes, 3)
	require.NoError(t, err)
	require.Nil(t, noQuorum)
	require.Equal(t, "a", result.Message)
	require.Equal(t, quorum.Fast, result.Kind)
	require.Len(t, result.Participants, 3)
}

func TestFindQuorumNormalPathOnPartialResponses(t *testing.T) {
	// n=5: fast=4, normal=3. Only 3 replicas respond, all matching.
	vs := nodes(3)
	votes := []quorum.Vote[string]{
		{Node: vs[0], Message: "x", View: 0},
		{Node: vs[1], Message: "x", View: 0},
		{Node: vs[2], Message: "x", View: 0},
	}
	result, noQuorum, err := quorum.FindQuorum(votes, 5)
	require.NoError(t, err)
	require.Nil(t, noQuorum)
	require.Equal(t, "x", result.Message)
	require.Equal(t, quorum.Normal, result.Kind)
}

func TestFindQuorumTieYieldsNoQuorum(t *testing.T) {
	// n=3: fast=3, normal=2. A 2-2 split across 4 nodes ties.
	vs := nodes(4)
	votes := []quorum.Vote[string]{
		{Node: vs[0], Message: "A", View: 1},
		{Node: vs[1], Message: "A", View: 1},
		{Node: vs[2], Message: "B", View: 1},
		{Node: vs[3], Message: "B", View: 1},
	}
	result, noQuorum, err := quorum.FindQuorum(votes, 3)
	require.NoError(t, err)
	require.Nil(t, result)
	require.True(t, noQuorum.HasView)
	require.Equal(t, types.ViewNumber(1), noQuorum.View)
	require.Len(t, noQuorum.Tally, 2)
}

func TestFindQuorumUsesHighestView(t *testing.T) {
	vs := nodes(3)
	votes := []quorum.Vote[string]{
		{Node: vs[0], Message: "stale", View: 0},
		{Node: vs[1], Message: "fresh", View: 1},
		{Node: vs[2], Message: "fresh", View: 1},
	}
	result, noQuorum, err := quorum.FindQuorum(votes, 3)
	require.NoError(t, err)
	require.Nil(t, noQuorum)
	require.Equal(t, "fresh", result.Message)
	require.Equal(t, types.ViewNumber(1), result.View)
}

func TestFindQuorumCoalescesDuplicateVotes(t *testing.T) {
	// n=3: normal=2. A single node voting twice with the same message
	// must not count twice toward quorum.
	vs := nodes(1)
	votes := []quorum.Vote[string]{
		{Node: vs[0], Message: "a", View: 0},
		{Node: vs[0], Message: "a", View: 0},
	}
	_, noQuorum, err := quorum.FindQuorum(votes, 3)
	require.NoError(t, err)
	require.True(t, noQuorum.HasView)
}

func TestNoQuorumSatisfiesErrorAndUnwraps(t *testing.T) {
	_, noQuorum, err := quorum.FindQuorum[string](nil, 3)
	require.NoError(t, err)

	var asErr error = noQuorum
	require.True(t, errors.Is(asErr, types.ErrNoQuorum))
	require.Contains(t, asErr.Error(), "no quorum reached")
}

func TestFindQuorumByzantineDoubleVoteSplitsBuckets(t *testing.T) {
	// n=3: normal=2. Node 0 votes for both A and B in the same view; its
	// vote lands in both buckets, so each bucket holds two voters. The
	// two buckets tie, and a tie is reported as NoQuorum.
	vs := nodes(3)
	votes := []quorum.Vote[string]{
		{Node: vs[0], Message: "A", View: 0},
		{Node: vs[0], Message: "B", View: 0},
		{Node: vs[1], Message: "A", View: 0},
		{Node: vs[2], Message: "B", View: 0},
	}
	_, noQuorum, err := quorum.FindQuorum(votes, 3)
	require.NoError(t, err)
	require.True(t, noQuorum.HasView)
}
