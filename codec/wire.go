// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"fmt"

	"google.golang.org/protobuf/types/known/anypb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// EncodeWireMessage wraps a scalar application payload in a protobuf Any,
// the envelope used when an Operation's message crosses a gRPC-style
// transport boundary rather than the in-process fakes used by tests. Only
// the scalar kinds IR's examples actually carry are supported; structured
// payloads should be pre-serialized to bytes by the caller.
func EncodeWireMessage(v interface{}) (*anypb.Any, error) {
	switch val := v.(type) {
	case string:
		return anypb.New(wrapperspb.String(val))
	case []byte:
		return anypb.New(wrapperspb.Bytes(val))
	case int64:
		return anypb.New(wrapperspb.Int64(val))
	case bool:
		return anypb.New(wrapperspb.Bool(val))
	case float64:
		return anypb.New(wrapperspb.Double(val))
	default:
		return nil, fmt.Errorf("codec: unsupported wire message type %T", v)
	}
}

// DecodeWireMessage reverses EncodeWireMessage.
func DecodeWireMessage(a *anypb.Any) (interface{}, error) {
	msg, err := a.UnmarshalNew()
	if err != nil {
		return nil, err
	}
	switch v := msg.(type) {
	case *wrapperspb.StringValue:
		return v.Value, nil
	case *wrapperspb.BytesValue:
		return v.Value, nil
	case *wrapperspb.Int64Value:
		return v.Value, nil
	case *wrapperspb.BoolValue:
		return v.Value, nil
	case *wrapperspb.DoubleValue:
		return v.Value, nil
	default:
		return nil, fmt.Errorf("codec: unsupported wire message type %T", msg)
	}
}
