// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package record implements the per-replica durable record store: the
// mapping from (client, sequence) to the operation recorded for that slot,
// plus the peer shadow logs a replica keeps during a view change.
package record

import (
	"sync"

	"github.com/luxfi/ir/types"
	"github.com/luxfi/ir/utils"
)

// Slot identifies one (client, sequence) record-store entry.
type Slot struct {
	Client   types.NodeID
	Sequence uint64
}

// Entry is what the store holds for a slot: the last-written operation
// and the view it was written in.
type Entry[M comparable] struct {
	View      types.ViewNumber
	Operation types.Operation[M]
}

// Store is the per-replica durable record store. Implementations must
// make each slot's operations appear atomic to callers; different slots
// may progress concurrently.
type Store[M comparable] interface {
	// RecordTentativeInconsistent writes an InconsistentPropose unless the
	// slot is already finalized, in which case the finalized message is
	// returned unchanged (promotion is never undone).
	RecordTentativeInconsistent(slot Slot, view types.ViewNumber, msg M) (M, error)
	// PromoteFinalizedInconsistent writes an InconsistentFinalize,
	// overwriting any prior Propose for the slot.
	PromoteFinalizedInconsistent(slot Slot, view types.ViewNumber, msg M) error
	// RecordTentativeConsistent writes a ConsistentPropose unless the slot
	// is already finalized.
	RecordTentativeConsistent(slot Slot, view types.ViewNumber, msg M) (M, error)
	// PromoteFinalizedConsistent writes a ConsistentFinalize and returns
	// the message it replaces, if any, so the caller's executor can
	// reconcile tentative side effects.
	PromoteFinalizedConsistent(slot Slot, view types.ViewNumber, msg M) (prior M, hadPrior bool, err error)
	// Find looks up a slot's current entry.
	Find(slot Slot) (Entry[M], bool)
	// All returns every slot currently held, for merge and recovery scans.
	All() map[Slot]Entry[M]
}

// memStore is the in-memory Store implementation used by tests, the demo
// cluster, and any deployment that does not need durability across
// process restarts.
type memStore[M comparable] struct {
	mu      sync.Mutex
	entries map[Slot]Entry[M]
}

// NewMemStore creates an empty in-memory Store.
func NewMemStore[M comparable]() Store[M] {
	return &memStore[M]{entries: make(map[Slot]Entry[M])}
}

func (s *memStore[M]) RecordTentativeInconsistent(slot Slot, view types.ViewNumber, msg M) (M, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[slot]
	if ok && entry.Operation.Status == types.Finalized {
		return finalizedMessage(entry.Operation), nil
	}
	s.entries[slot] = Entry[M]{
		View: view,
		Operation: types.Operation[M]{
			ID:      slot.id(),
			Client:  slot.Client,
			Kind:    types.Inconsistent,
			Status:  types.Tentative,
			Message: msg,
		},
	}
	return msg, nil
}

func (s *memStore[M]) PromoteFinalizedInconsistent(slot Slot, view types.ViewNumber, msg M) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[slot] = Entry[M]{
		View: view,
		Operation: types.Operation[M]{
			ID:      slot.id(),
			Client:  slot.Client,
			Kind:    types.Inconsistent,
			Status:  types.Finalized,
			Message: msg,
		},
	}
	return nil
}

func (s *memStore[M]) RecordTentativeConsistent(slot Slot, view types.ViewNumber, msg M) (M, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[slot]
	if ok && entry.Operation.Status == types.Finalized {
		return finalizedMessage(entry.Operation), nil
	}
	s.entries[slot] = Entry[M]{
		View: view,
		Operation: types.Operation[M]{
			ID:      slot.id(),
			Client:  slot.Client,
			Kind:    types.Consistent,
			Status:  types.Tentative,
			Message: msg,
		},
	}
	return msg, nil
}

func (s *memStore[M]) PromoteFinalizedConsistent(slot Slot, view types.ViewNumber, msg M) (M, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prior, hadPrior := utils.Zero[M](), false
	if entry, ok := s.entries[slot]; ok {
		prior, hadPrior = entry.Operation.Message, true
	}
	s.entries[slot] = Entry[M]{
		View: view,
		Operation: types.Operation[M]{
			ID:       slot.id(),
			Client:   slot.Client,
			Kind:     types.Consistent,
			Status:   types.Finalized,
			Message:  prior,
			Decision: msg,
		},
	}
	return prior, hadPrior, nil
}

func (s *memStore[M]) Find(slot Slot) (Entry[M], bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[slot]
	return entry, ok
}

func (s *memStore[M]) All() map[Slot]Entry[M] {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[Slot]Entry[M], len(s.entries))
	for k, v := range s.entries {
		out[k] = v
	}
	return out
}

// finalizedMessage returns the dominant outcome already recorded for a
// finalized operation, regardless of which class finalized it. A
// ConsistentFinalize's outcome lives in Decision; an
// InconsistentFinalize's lives in Message. Either dominates a later
// *Propose for the same slot: invariant 3 requires an InconsistentFinalize
// to dominate a ConsistentPropose racing it and vice versa, so neither
// Record*Tentative* path may distinguish Kind before checking Status.
func finalizedMessage[M comparable](op types.Operation[M]) M {
	if op.Kind == types.Consistent {
		return op.Decision
	}
	return op.Message
}

// id derives a stable operation ID from the slot. IR treats OperationID as
// opaque; this store only needs it to be deterministic per slot so that
// merge traces can be cross-referenced across replicas.
func (s Slot) id() types.OperationID {
	var id types.OperationID
	copy(id[:], s.Client[:])
	for i := 0; i < 8; i++ {
		id[len(id)-8+i] = byte(s.Sequence >> (8 * (7 - i)))
	}
	return id
}
