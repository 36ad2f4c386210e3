// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package main

import (
	"os"

	"github.com/ChainSafe/grandpa-bridge/cmd/grandpa-bridge/commands"
	"github.com/ChainSafe/grandpa-bridge/internal/log"
)

func main() {
	// verdicts are written to stdout
	log.Patch(log.SetWriter(os.Stderr))
	rootCmd := commands.NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
