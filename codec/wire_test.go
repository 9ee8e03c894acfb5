// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeWireMessageRoundTrip(t *testing.T) {
	cases := []interface{}{
		"hello",
		[]byte("world"),
		int64(42),
		true,
		3.14,
	}
	for _, c := range cases {
		any, err := EncodeWireMessage(c)
		require.NoError(t, err)

		got, err := DecodeWireMessage(any)
		require.NoError(t, err)
		require.Equal(t, c, got)
	}
}

func TestEncodeWireMessageRejectsUnsupportedType(t *testing.T) {
	_, err := EncodeWireMessage(struct{ X int }{X: 1})
	require.Error(t, err)
}
