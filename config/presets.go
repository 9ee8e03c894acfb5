// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import "fmt"

// GetPresetParameters looks up a named preset (default, fast, strict).
func GetPresetParameters(preset string) (Parameters, error) {
	switch preset {
	case "default":
		return Default(), nil
	case "fast":
		return Fast(), nil
	case "strict":
		return Strict(), nil
	default:
		return Parameters{}, fmt.Errorf("unknown preset %q: %w", preset, ErrUnknownPreset)
	}
}

// PresetNames returns all available preset names.
func PresetNames() []string {
	return []string{"default", "fast", "strict"}
}
