// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package record

import (
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/luxfi/database"

	"github.com/luxfi/ir/codec"
	"github.com/luxfi/ir/types"
	"github.com/luxfi/ir/utils"
)

// dbStore is a Store backed by a database.Database, for deployments that
// need a slot's finalized status to survive a replica restart. Each slot
// is a single key; a restart still re-enters Recovery (see the view
// package), but the merge engine's recovery scan reads real history
// instead of an empty map.
//
// dbStore serializes writes with a mutex rather than relying on the
// database for per-key atomicity, since PromoteFinalizedConsistent's
// read-modify-write must observe its own prior write.
type dbStore[M comparable] struct {
	mu        sync.Mutex
	db        database.Database
	nodeIDLen int
}

// NewDBStore wraps db as a Store. Values are JSON-encoded Entry[M]
// records via the package codec; keys are the slot's client node ID
// followed by its sequence number, big-endian.
func NewDBStore[M comparable](db database.Database) Store[M] {
	var zero types.NodeID
	return &dbStore[M]{db: db, nodeIDLen: len(zero[:])}
}

func (s *dbStore[M]) key(slot Slot) []byte {
	key := make([]byte, s.nodeIDLen+8)
	copy(key, slot.Client[:])
	binary.BigEndian.PutUint64(key[s.nodeIDLen:], slot.Sequence)
	return key
}

func (s *dbStore[M]) slotFromKey(key []byte) (Slot, bool) {
	if len(key) != s.nodeIDLen+8 {
		return Slot{}, false
	}
	var client types.NodeID
	copy(client[:], key[:s.nodeIDLen])
	seq := binary.BigEndian.Uint64(key[s.nodeIDLen:])
	return Slot{Client: client, Sequence: seq}, true
}

func (s *dbStore[M]) get(slot Slot) (Entry[M], bool, error) {
	raw, err := s.db.Get(s.key(slot))
	if err == database.ErrNotFound {
		return Entry[M]{}, false, nil
	}
	if err != nil {
		return Entry[M]{}, false, err
	}
	var entry Entry[M]
	if _, err := codec.Codec.Unmarshal(raw, &entry); err != nil {
		return Entry[M]{}, false, fmt.Errorf("record: decoding stored entry: %w", err)
	}
	return entry, true, nil
}

func (s *dbStore[M]) put(slot Slot, entry Entry[M]) error {
	raw, err := codec.Codec.Marshal(codec.CurrentVersion, entry)
	if err != nil {
		return fmt.Errorf("record: encoding entry: %w", err)
	}
	return s.db.Put(s.key(slot), raw)
}

func (s *dbStore[M]) RecordTentativeInconsistent(slot Slot, view types.ViewNumber, msg M) (M, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok, err := s.get(slot)
	if err != nil {
		return msg, err
	}
	if ok && entry.Operation.Status == types.Finalized {
		return finalizedMessage(entry.Operation), nil
	}
	next := Entry[M]{View: view, Operation: types.Operation[M]{
		ID: slot.id(), Client: slot.Client, Kind: types.Inconsistent, Status: types.Tentative, Message: msg,
	}}
	return msg, s.put(slot, next)
}

func (s *dbStore[M]) PromoteFinalizedInconsistent(slot Slot, view types.ViewNumber, msg M) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := Entry[M]{View: view, Operation: types.Operation[M]{
		ID: slot.id(), Client: slot.Client, Kind: types.Inconsistent, Status: types.Finalized, Message: msg,
	}}
	return s.put(slot, next)
}

func (s *dbStore[M]) RecordTentativeConsistent(slot Slot, view types.ViewNumber, msg M) (M, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok, err := s.get(slot)
	if err != nil {
		return msg, err
	}
	if ok && entry.Operation.Status == types.Finalized {
		return finalizedMessage(entry.Operation), nil
	}
	next := Entry[M]{View: view, Operation: types.Operation[M]{
		ID: slot.id(), Client: slot.Client, Kind: types.Consistent, Status: types.Tentative, Message: msg,
	}}
	return msg, s.put(slot, next)
}

func (s *dbStore[M]) PromoteFinalizedConsistent(slot Slot, view types.ViewNumber, msg M) (M, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	zero := utils.Zero[M]()
	prior, hadPrior, err := zero, false, error(nil)
	if entry, ok, getErr := s.get(slot); getErr != nil {
		return zero, false, getErr
	} else if ok {
		prior, hadPrior = entry.Operation.Message, true
	}
	next := Entry[M]{View: view, Operation: types.Operation[M]{
		ID: slot.id(), Client: slot.Client, Kind: types.Consistent, Status: types.Finalized, Message: prior, Decision: msg,
	}}
	if err = s.put(slot, next); err != nil {
		return zero, false, err
	}
	return prior, hadPrior, nil
}

func (s *dbStore[M]) Find(slot Slot) (Entry[M], bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok, err := s.get(slot)
	if err != nil {
		return Entry[M]{}, false
	}
	return entry, ok
}

func (s *dbStore[M]) All() map[Slot]Entry[M] {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := map[Slot]Entry[M]{}
	iter := s.db.NewIterator()
	defer iter.Release()
	for iter.Next() {
		slot, ok := s.slotFromKey(iter.Key())
		if !ok {
			continue
		}
		var entry Entry[M]
		if _, err := codec.Codec.Unmarshal(iter.Value(), &entry); err != nil {
			continue
		}
		out[slot] = entry
	}
	return out
}
