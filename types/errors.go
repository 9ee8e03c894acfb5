// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package types

import "errors"

// Shared sentinel errors returned across the quorum, record, view, replica
// and client packages. Package-specific errors live alongside their
// package; these are the ones that cross package boundaries.
var (
	// ErrClusterTooSmall is returned when a cluster configuration has
	// fewer than three nodes, the minimum IR can compute quorums for.
	ErrClusterTooSmall = errors.New("cluster size must be at least 3")

	// ErrNoQuorum is returned when neither a fast nor a normal quorum of
	// matching replies was reached before replies were exhausted.
	ErrNoQuorum = errors.New("no quorum reached")

	// ErrUnknownOperation is returned when a Finalize or merge references
	// an operation the replica has no record of.
	ErrUnknownOperation = errors.New("unknown operation")

	// ErrStaleView reports view skew between a request and the replica
	// handling it. replica.ViewChangingError unwraps to it when a request
	// carries a view higher than the replica's own.
	ErrStaleView = errors.New("stale view")

	// ErrViewChangeInProgress is returned when a replica rejects new
	// client requests because it is mid view-change.
	ErrViewChangeInProgress = errors.New("view change in progress")

	// ErrNotFinalized is returned when a caller asks for the decided
	// outcome of an operation still in Tentative status.
	ErrNotFinalized = errors.New("operation not finalized")

	// ErrAlreadyFinalized marks an operation that has already reached
	// Finalized status. The record stores do not return it: a Propose
	// retried for a finalized slot gets the finalized message back instead.
	ErrAlreadyFinalized = errors.New("operation already finalized")

	// ErrClientClosed is returned by a Client's Invoke methods once Close
	// has been called; the client must not be used afterward.
	ErrClientClosed = errors.New("client closed")
)

// WrappedError attaches a caller-supplied context string to an underlying
// error while preserving it for errors.Is/errors.As.
type WrappedError struct {
	context string
	err     error
}

func (w *WrappedError) Error() string {
	return w.context + ": " + w.err.Error()
}

func (w *WrappedError) Unwrap() error {
	return w.err
}

// WrapError annotates err with context, e.g. the slot or view it occurred
// at. Chaining WrapError calls composes the context left to right.
func WrapError(err error, context string) error {
	return &WrappedError{context: context, err: err}
}

// IsRetryable reports whether a client encountering err should retry the
// call rather than surface it to its own caller. A view change in
// progress or a no-quorum round are both transient; the rest indicate a
// protocol or configuration problem that a retry will not fix.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrNoQuorum) ||
		errors.Is(err, ErrStaleView) ||
		errors.Is(err, ErrViewChangeInProgress)
}
