// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package irutil holds small helpers shared across packages that don't
// warrant their own package.
package irutil

import "fmt"

// MaybeString renders v for logging: nil becomes "<nil>", a fmt.Stringer
// uses its String method, and everything else falls back to a default
// %v format. Useful when logging an Operation's generic message payload
// without requiring every application type to implement Stringer.
func MaybeString(v interface{}) string {
	if v == nil {
		return "<nil>"
	}
	if s, ok := v.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%v", v)
}
