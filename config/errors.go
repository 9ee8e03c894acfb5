// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"errors"

	"github.com/luxfi/ir/types"
)

// ErrClusterTooSmall re-exports types.ErrClusterTooSmall so callers can
// check either config.Validate or the quorum/client packages against the
// same sentinel.
var ErrClusterTooSmall = types.ErrClusterTooSmall

var (
	ErrProposeTimeoutTooLow  = errors.New("propose timeout must be > 0")
	ErrFinalizeTimeoutTooLow = errors.New("finalize timeout must be > 0")
	ErrInvalidMaxRetries     = errors.New("max retries must be >= 0")
	ErrInvalidMergeAckFanout = errors.New("merge ack fanout must be >= 1")
	ErrUnknownPreset         = errors.New("unknown preset")
)
