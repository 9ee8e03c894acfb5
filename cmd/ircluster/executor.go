// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import "sync"

// registerExecutor implements transport.Executor[string] over a single
// last-writer-wins register, plus an append-only log for inconsistent
// operations (each accepted independently, order unconstrained).
type registerExecutor struct {
	mu       sync.Mutex
	register string
	applied  []string
}

func newRegisterExecutor() *registerExecutor {
	return &registerExecutor{}
}

func (e *registerExecutor) Evaluate(msg string) (string, error) {
	return msg, nil
}

func (e *registerExecutor) ExecInconsistent(msg string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.applied = append(e.applied, msg)
	return nil
}

func (e *registerExecutor) ExecConsistent(msg string) (string, error) {
	return msg, nil
}

func (e *registerExecutor) ReconcileConsistent(previousEvaluation, decided string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.register = decided
	return nil
}

func (e *registerExecutor) snapshot() (register string, applied []string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, len(e.applied))
	copy(out, e.applied)
	return e.register, out
}
