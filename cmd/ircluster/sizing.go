// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/luxfi/ir/quorum"
)

func sizingCmd() *cobra.Command {
	var n int

	cmd := &cobra.Command{
		Use:   "sizing",
		Short: "Print quorum sizes for a given cluster size",
		RunE: func(cmd *cobra.Command, args []string) error {
			if n < 3 {
				return fmt.Errorf("cluster size must be at least 3, got %d", n)
			}
			fmt.Printf("cluster size:    %d\n", n)
			fmt.Printf("f (tolerated):   %d\n", quorum.F(n))
			fmt.Printf("fast quorum:     %d\n", quorum.FastQuorum(n))
			fmt.Printf("normal quorum:   %d\n", quorum.NormalQuorum(n))
			return nil
		},
	}

	cmd.Flags().IntVar(&n, "n", 5, "cluster size")
	return cmd
}
