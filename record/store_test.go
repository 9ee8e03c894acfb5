// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package record_test

import (
	"testing"

	"github.com/luxfi/ids"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/ir/record"
	"github.com/luxfi/ir/types"
)

func TestRecordTentativeInconsistentIsIdempotent(t *testing.T) {
	s := record.NewMemStore[string]()
	slot := record.Slot{Client: ids.GenerateTestNodeID(), Sequence: 0}

	msg, err := s.RecordTentativeInconsistent(slot, 0, "a")
	require.NoError(t, err)
	require.Equal(t, "a", msg)

	msg, err = s.RecordTentativeInconsistent(slot, 0, "a")
	require.NoError(t, err)
	require.Equal(t, "a", msg)

	entry, ok := s.Find(slot)
	require.True(t, ok)
	require.Equal(t, types.Tentative, entry.Operation.Status)
}

func TestPromoteFinalizedInconsistentIsNeverDowngraded(t *testing.T) {
	s := record.NewMemStore[string]()
	slot := record.Slot{Client: ids.GenerateTestNodeID(), Sequence: 0}

	require.NoError(t, s.PromoteFinalizedInconsistent(slot, 0, "final"))

	msg, err := s.RecordTentativeInconsistent(slot, 0, "final")
	require.NoError(t, err)
	require.Equal(t, "final", msg)

	entry, ok := s.Find(slot)
	require.True(t, ok)
	require.Equal(t, types.Finalized, entry.Operation.Status)
}

func TestPromoteFinalizedConsistentReturnsPriorMessage(t *testing.T) {
	s := record.NewMemStore[string]()
	slot := record.Slot{Client: ids.GenerateTestNodeID(), Sequence: 1}

	_, err := s.RecordTentativeConsistent(slot, 0, "tentative")
	require.NoError(t, err)

	prior, hadPrior, err := s.PromoteFinalizedConsistent(slot, 0, "decided")
	require.NoError(t, err)
	require.True(t, hadPrior)
	require.Equal(t, "tentative", prior)

	entry, ok := s.Find(slot)
	require.True(t, ok)
	require.Equal(t, types.Finalized, entry.Operation.Status)
	require.Equal(t, "decided", entry.Operation.Decision)
}

func TestInconsistentFinalizeDominatesConsistentPropose(t *testing.T) {
	s := record.NewMemStore[string]()
	slot := record.Slot{Client: ids.GenerateTestNodeID(), Sequence: 0}

	require.NoError(t, s.PromoteFinalizedInconsistent(slot, 0, "final"))

	msg, err := s.RecordTentativeConsistent(slot, 0, "racing-propose")
	require.NoError(t, err)
	require.Equal(t, "final", msg, "a mis-classified ConsistentPropose must not downgrade an InconsistentFinalize")

	entry, ok := s.Find(slot)
	require.True(t, ok)
	require.Equal(t, types.Finalized, entry.Operation.Status)
	require.Equal(t, types.Inconsistent, entry.Operation.Kind)
}

func TestConsistentFinalizeDominatesInconsistentPropose(t *testing.T) {
	s := record.NewMemStore[string]()
	slot := record.Slot{Client: ids.GenerateTestNodeID(), Sequence: 0}

	_, _, err := s.PromoteFinalizedConsistent(slot, 0, "decided")
	require.NoError(t, err)

	msg, err := s.RecordTentativeInconsistent(slot, 0, "racing-propose")
	require.NoError(t, err)
	require.Equal(t, "decided", msg, "a mis-classified InconsistentPropose must not downgrade a ConsistentFinalize")

	entry, ok := s.Find(slot)
	require.True(t, ok)
	require.Equal(t, types.Finalized, entry.Operation.Status)
	require.Equal(t, types.Consistent, entry.Operation.Kind)
}

func TestAllReturnsIndependentSnapshot(t *testing.T) {
	s := record.NewMemStore[string]()
	slot := record.Slot{Client: ids.GenerateTestNodeID(), Sequence: 0}
	_, err := s.RecordTentativeInconsistent(slot, 0, "a")
	require.NoError(t, err)

	snapshot := s.All()
	require.Len(t, snapshot, 1)

	_, err = s.RecordTentativeInconsistent(record.Slot{Client: ids.GenerateTestNodeID(), Sequence: 0}, 0, "b")
	require.NoError(t, err)
	require.Len(t, snapshot, 1, "snapshot must not observe later writes")
}
