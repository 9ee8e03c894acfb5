// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package client

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestBackoffDelayLinear(t *testing.T) {
	require.Equal(t, time.Duration(0), backoffDelay(10*time.Millisecond, 0))
	require.Equal(t, 10*time.Millisecond, backoffDelay(10*time.Millisecond, 1))
	require.Equal(t, 30*time.Millisecond, backoffDelay(10*time.Millisecond, 3))
}

func TestBackoffDelaySaturatesOnOverflow(t *testing.T) {
	got := backoffDelay(time.Duration(1<<62), 4)
	require.Equal(t, time.Duration(1<<63-1), got)
}

func TestSleepReturnsOnContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	sleep(ctx, time.Hour)
	require.Less(t, time.Since(start), time.Second)
}
