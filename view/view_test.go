// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package view_test

import (
	"testing"

	"github.com/luxfi/ids"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/ir/types"
	"github.com/luxfi/ir/view"
)

func TestNewManagerStartsInRecovery(t *testing.T) {
	members := []types.NodeID{ids.GenerateTestNodeID(), ids.GenerateTestNodeID()}
	m := view.NewManager(0, members)
	snap := m.Snapshot()
	require.Equal(t, view.Recovery, snap.State)
	require.Equal(t, types.ViewNumber(0), snap.Number)
}

func TestEnterViewChangingRequiresStrictlyHigherNumber(t *testing.T) {
	m := view.NewManager(2, nil)
	_, ok := m.EnterViewChanging(2, nil)
	require.False(t, ok)
	_, ok = m.EnterViewChanging(1, nil)
	require.False(t, ok)

	v, ok := m.EnterViewChanging(3, nil)
	require.True(t, ok)
	require.Equal(t, view.ViewChanging, v.State)
	require.Equal(t, types.ViewNumber(3), v.Number)
}

func TestValidateDetectsConcurrentTransition(t *testing.T) {
	m := view.NewManager(0, nil)
	snap := m.Snapshot()
	require.True(t, m.Validate(snap))

	_, ok := m.EnterViewChanging(1, nil)
	require.True(t, ok)
	require.False(t, m.Validate(snap))
}

func TestCompleteViewChangeReturnsToNormal(t *testing.T) {
	m := view.NewManager(0, nil)
	_, _ = m.EnterViewChanging(1, nil)
	v := m.CompleteViewChange()
	require.Equal(t, view.Normal, v.State)
	require.Equal(t, types.ViewNumber(1), v.Number)
}

func TestCompleteRecoveryBumpsViewAndEntersViewChanging(t *testing.T) {
	m := view.NewManager(4, nil)
	v := m.CompleteRecovery()
	require.Equal(t, types.ViewNumber(5), v.Number)
	require.Equal(t, view.ViewChanging, v.State)
}

func TestCloneIsIndependent(t *testing.T) {
	members := []types.NodeID{ids.GenerateTestNodeID()}
	v := view.View{Number: 1, Members: members, State: view.Normal}
	clone := v.Clone()
	clone.Members[0] = ids.GenerateTestNodeID()
	require.NotEqual(t, v.Members[0], clone.Members[0])
}
