// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package replica_test

import (
	"testing"

	"github.com/luxfi/ids"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/ir/config"
	irlog "github.com/luxfi/ir/log"
	"github.com/luxfi/ir/record"
	"github.com/luxfi/ir/replica"
	"github.com/luxfi/ir/types"
)

type echoExecutor struct{}

func (echoExecutor) Evaluate(msg string) (string, error)             { return msg, nil }
func (echoExecutor) ExecInconsistent(msg string) error               { return nil }
func (echoExecutor) ExecConsistent(msg string) (string, error)       { return msg, nil }
func (echoExecutor) ReconcileConsistent(prev, decided string) error  { return nil }

// reconcileRecorder captures the arguments of the last ReconcileConsistent
// call.
type reconcileRecorder struct {
	echoExecutor
	prev, decided string
}

func (e *reconcileRecorder) ReconcileConsistent(prev, decided string) error {
	e.prev, e.decided = prev, decided
	return nil
}

func newTestReplica(t *testing.T) (*replica.Replica[string], types.NodeID) {
	t.Helper()
	id := ids.GenerateTestNodeID()
	members := []types.NodeID{id, ids.GenerateTestNodeID(), ids.GenerateTestNodeID()}
	r := replica.New[string](id, config.Fast(), members, record.NewMemStore[string](), echoExecutor{}, nil, nil)
	// Handlers that require Normal need the replica out of Recovery; drive
	// it there the way a real cluster would, by applying a merge with a
	// normal quorum of acknowledgements.
	v := r.View()
	r.ApplyMerged(nil, config.Fast().NormalQuorum())
	_ = v
	return r, id
}

func TestProposeInconsistentRequiresNormalState(t *testing.T) {
	r, client := newTestReplica(t)
	_, err := r.ProposeInconsistent(client, 0, "a", nil)
	require.NoError(t, err)

	id := ids.GenerateTestNodeID()
	members := []types.NodeID{id, ids.GenerateTestNodeID(), ids.GenerateTestNodeID()}
	recovering := replica.New[string](id, config.Fast(), members, record.NewMemStore[string](), echoExecutor{}, nil, nil)
	_, err = recovering.ProposeInconsistent(client, 0, "a", nil)
	require.ErrorIs(t, err, replica.ErrNotNormal)
}

func TestProposeConsistentRefusedDuringRecovery(t *testing.T) {
	id := ids.GenerateTestNodeID()
	members := []types.NodeID{id, ids.GenerateTestNodeID(), ids.GenerateTestNodeID()}
	r := replica.New[string](id, config.Fast(), members, record.NewMemStore[string](), echoExecutor{}, nil, nil)

	_, err := r.ProposeConsistent(id, 0, "a", nil)
	require.Error(t, err)
	var recovering *replica.RecoveringError
	require.ErrorAs(t, err, &recovering)
}

func TestFinalizeInconsistentPersistsAndExecutes(t *testing.T) {
	id := ids.GenerateTestNodeID()
	members := []types.NodeID{id, ids.GenerateTestNodeID(), ids.GenerateTestNodeID()}
	store := record.NewMemStore[string]()
	r := replica.New[string](id, config.Fast(), members, store, echoExecutor{}, nil, nil)
	r.ApplyMerged(nil, config.Fast().NormalQuorum())

	out, err := r.FinalizeInconsistent(id, 1, "done", nil)
	require.NoError(t, err)
	require.Equal(t, "done", out.Message)

	entry, ok := store.Find(record.Slot{Client: id, Sequence: 1})
	require.True(t, ok)
	require.Equal(t, types.Finalized, entry.Operation.Status)
	require.Equal(t, "done", entry.Operation.Message)
}

func TestHigherObservedViewTriggersViewChange(t *testing.T) {
	r, client := newTestReplica(t)
	before := r.View().Number
	higher := types.ViewNumber(5)
	_, err := r.ProposeInconsistent(client, 0, "a", &higher)
	require.ErrorIs(t, err, types.ErrStaleView)
	require.Equal(t, higher, r.View().Number)

	var viewChanging *replica.ViewChangingError
	require.ErrorAs(t, err, &viewChanging)
	require.Equal(t, before, viewChanging.Current)
	require.Equal(t, higher, viewChanging.Target)
}

func TestHigherObservedViewIsLogged(t *testing.T) {
	id := ids.GenerateTestNodeID()
	members := []types.NodeID{id, ids.GenerateTestNodeID(), ids.GenerateTestNodeID()}
	logger := &irlog.NoLog{}
	r := replica.New[string](id, config.Fast(), members, record.NewMemStore[string](), echoExecutor{}, logger, nil)
	r.ApplyMerged(nil, config.Fast().NormalQuorum())

	higher := types.ViewNumber(7)
	_, err := r.ProposeInconsistent(id, 0, "a", &higher)
	require.Error(t, err)
	require.Contains(t, logger.Last(), "observed higher view")
}

func TestFinalizeConsistentReconcilesPriorEvaluation(t *testing.T) {
	id := ids.GenerateTestNodeID()
	members := []types.NodeID{id, ids.GenerateTestNodeID(), ids.GenerateTestNodeID()}
	executor := &reconcileRecorder{}
	r := replica.New[string](id, config.Fast(), members, record.NewMemStore[string](), executor, nil, nil)
	r.ApplyMerged(nil, config.Fast().NormalQuorum())

	_, err := r.ProposeConsistent(id, 2, "tentative", nil)
	require.NoError(t, err)

	out, err := r.FinalizeConsistent(id, 2, "decided", nil)
	require.NoError(t, err)
	require.Equal(t, "decided", out.Message)
	require.Equal(t, "tentative", executor.prev)
	require.Equal(t, "decided", executor.decided)
}
