// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package view implements the replica-local View Manager: the current
// view (number, membership, state) and the transitions between Recovery,
// Normal and ViewChanging.
package view

import (
	"sync"

	"github.com/luxfi/ir/types"
)

// State is the replica's view-change state machine position.
type State uint8

const (
	// Recovery is the state every replica starts in, regardless of what
	// state was last persisted; a restart must never silently resume as
	// Normal.
	Recovery State = iota
	// Normal is the steady state in which client requests are served.
	Normal
	// ViewChanging is entered when a higher view is observed or recovery
	// completes; client requests are rejected until the view change
	// resolves back to Normal.
	ViewChanging
)

func (s State) String() string {
	switch s {
	case Recovery:
		return "recovery"
	case Normal:
		return "normal"
	case ViewChanging:
		return "view-changing"
	default:
		return "unknown"
	}
}

// View is the value-typed, freely cloneable tuple every handler reasons
// about: a number, an ordered membership list, and a state.
type View struct {
	Number  types.ViewNumber
	Members []types.NodeID
	State   State
}

// Clone returns an independent copy; Members is copied so callers may
// mutate the returned slice freely.
func (v View) Clone() View {
	members := make([]types.NodeID, len(v.Members))
	copy(members, v.Members)
	return View{Number: v.Number, Members: members, State: v.State}
}

// Equals reports whether two views carry the same number, membership
// (order-sensitive) and state.
func (v View) Equals(other View) bool {
	if v.Number != other.Number || v.State != other.State || len(v.Members) != len(other.Members) {
		return false
	}
	for i, m := range v.Members {
		if other.Members[i] != m {
			return false
		}
	}
	return true
}

// Manager holds a replica's current view under a single-writer,
// multi-reader lock. Snapshot reads the view; Validate reports whether a
// snapshot is still current. The replica handlers take a Snapshot and do
// not re-check it with Validate before writing to the record store.
type Manager struct {
	mu   sync.RWMutex
	view View
}

// NewManager creates a Manager starting in Recovery at the given initial
// membership and view number (typically 0, or the last durably persisted
// number).
func NewManager(number types.ViewNumber, members []types.NodeID) *Manager {
	m := make([]types.NodeID, len(members))
	copy(m, members)
	return &Manager{view: View{Number: number, Members: m, State: Recovery}}
}

// Snapshot returns the current view. Safe to call concurrently with the
// transition methods.
func (m *Manager) Snapshot() View {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.view.Clone()
}

// Validate reports whether the view has not changed since snapshot was
// taken.
func (m *Manager) Validate(snapshot View) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.view.Equals(snapshot)
}

// EnterViewChanging transitions to ViewChanging at a strictly higher view
// number, as required when a handler observes a peer at a higher view
// than its own. Returns the new view, or false if number is not strictly
// greater than the current one.
func (m *Manager) EnterViewChanging(number types.ViewNumber, members []types.NodeID) (View, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if number <= m.view.Number {
		return m.view.Clone(), false
	}
	mem := members
	if mem == nil {
		mem = m.view.Members
	}
	cp := make([]types.NodeID, len(mem))
	copy(cp, mem)
	m.view = View{Number: number, Members: cp, State: ViewChanging}
	return m.view.Clone(), true
}

// CompleteViewChange transitions ViewChanging -> Normal at the same view
// number, once the merge engine's coordinator has gathered a normal
// quorum of acknowledgements for the merged record set.
func (m *Manager) CompleteViewChange() View {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.view.State = Normal
	return m.view.Clone()
}

// CompleteRecovery transitions Recovery -> ViewChanging at one view
// number higher, so the cluster formally re-admits the recovering
// replica, per the recovery protocol.
func (m *Manager) CompleteRecovery() View {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.view = View{
		Number:  m.view.Number + 1,
		Members: append([]types.NodeID(nil), m.view.Members...),
		State:   ViewChanging,
	}
	return m.view.Clone()
}
