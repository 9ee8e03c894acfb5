// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/luxfi/ir/config"
)

func presetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "presets",
		Short: "List configuration presets and their parameters",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List preset names",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.PresetNames() {
				fmt.Println(name)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show [name]",
		Short: "Show the parameters of a single preset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := config.GetPresetParameters(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("cluster size:           %d\n", params.ClusterSize)
			fmt.Printf("propose timeout:        %s\n", params.ProposeTimeout)
			fmt.Printf("finalize timeout:       %s\n", params.FinalizeTimeout)
			fmt.Printf("max retries:            %d\n", params.MaxRetries)
			fmt.Printf("retry backoff:          %s\n", params.RetryBackoff)
			fmt.Printf("merge ack fanout:       %d\n", params.MergeAckFanout)
			fmt.Printf("recovery poll interval: %s\n", params.RecoveryPollInterval)
			fmt.Printf("heartbeat interval:     %s\n", params.HeartbeatInterval)
			fmt.Printf("f:                      %d\n", params.F())
			fmt.Printf("fast quorum:            %d\n", params.FastQuorum())
			fmt.Printf("normal quorum:          %d\n", params.NormalQuorum())
			return nil
		},
	})

	return cmd
}
