// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/luxfi/ir/config"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the protocol version this build speaks",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(config.ProtocolVersion.String())
			return nil
		},
	}
}
