// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import "github.com/luxfi/ir/utils/version"

// ProtocolVersion identifies the wire-compatible revision of the IR
// protocol this build speaks. CompatibleWith checks a peer's version
// against it; the Network interface carries no version, so exchanging
// versions with peers is left to the transport.
var ProtocolVersion = version.Application{
	Name:    "ir",
	Version: version.Semantic{Major: 1, Minor: 0, Patch: 0},
}

// CompatibleWith reports whether peerVersion may participate in the same
// cluster as ProtocolVersion, per the major-version compatibility rule.
func CompatibleWith(peerVersion version.Application) bool {
	return ProtocolVersion.Compatible(peerVersion)
}
