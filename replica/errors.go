// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package replica

import (
	"errors"
	"fmt"

	"github.com/luxfi/ir/types"
)

// ErrNotNormal is returned when a handler that requires State == Normal
// is called while the replica is in Recovery or ViewChanging. The
// consistent handlers report Recovery as *RecoveringError instead.
var ErrNotNormal = errors.New("replica is not in normal state")

// RecoveringError is returned by ProposeConsistent and FinalizeConsistent
// when the replica is still catching up; the client should await
// recovery and retry rather than treat this as a protocol failure.
type RecoveringError struct {
	View types.ViewNumber
}

func (e *RecoveringError) Error() string {
	return fmt.Sprintf("replica recovering at view %d", e.View)
}

// ViewChangingError is returned when a handler observes a request tagged
// with a view higher than the replica's own, forcing it into
// ViewChanging at that higher view before it can serve the request.
// Current is the view the replica held before observing the skew;
// Target is the view it is now changing to.
type ViewChangingError struct {
	Current types.ViewNumber
	Target  types.ViewNumber
}

func (e *ViewChangingError) Error() string {
	return fmt.Sprintf("view changing from %d to %d", e.Current, e.Target)
}

// Unwrap lets callers written against the older bare-sentinel contract
// keep using errors.Is(err, types.ErrStaleView).
func (e *ViewChangingError) Unwrap() error {
	return types.ErrStaleView
}
