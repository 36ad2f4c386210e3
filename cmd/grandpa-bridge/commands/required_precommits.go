// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package commands

import (
	"fmt"
	"strconv"

	"github.com/ChainSafe/grandpa-bridge/pkg/header-chain/justification"

	"github.com/spf13/cobra"
)

func newRequiredPrecommitsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "required-precommits <authorities>",
		Short: "Print the number of precommits needed to finalize a block",
		Long: `required-precommits <authorities> prints the number of precommits, or the
total weight, a justification needs to finalize a block with an authority set
of the given size, or total weight.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			authorities, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("failed to parse number of authorities: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), justification.RequiredJustificationPrecommits(authorities))
			return err
		},
	}
}
