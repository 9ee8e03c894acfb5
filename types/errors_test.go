// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package types_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/ir/types"
)

func TestWrapErrorPreservesIs(t *testing.T) {
	wrapped := types.WrapError(types.ErrNoQuorum, "slot 7")
	require.True(t, errors.Is(wrapped, types.ErrNoQuorum))
	require.Equal(t, "slot 7: no quorum reached", wrapped.Error())
}

func TestWrapErrorChains(t *testing.T) {
	chained := types.WrapError(types.WrapError(types.ErrStaleView, "round 1"), "replica A")
	require.True(t, errors.Is(chained, types.ErrStaleView))
	require.Equal(t, "replica A: round 1: stale view", chained.Error())
}

func TestIsRetryable(t *testing.T) {
	retryable := []error{types.ErrNoQuorum, types.ErrStaleView, types.ErrViewChangeInProgress}
	notRetryable := []error{types.ErrClusterTooSmall, types.ErrUnknownOperation, types.ErrNotFinalized, types.ErrAlreadyFinalized, types.ErrClientClosed}

	for _, err := range retryable {
		require.Truef(t, types.IsRetryable(err), "%v should be retryable", err)
	}
	for _, err := range notRetryable {
		require.Falsef(t, types.IsRetryable(err), "%v should not be retryable", err)
	}
}
