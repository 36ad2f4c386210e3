// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ChainSafe/grandpa-bridge/config"
	"github.com/ChainSafe/grandpa-bridge/pkg/header-chain/testutils"

	"github.com/spf13/cobra"
)

// Names of the files written by the generate command.
const (
	generatedJustificationFile = "justification.hex"
	generatedConfigFile        = "config.toml"
)

func newGenerateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a justification signed by development keys",
		Long: `generate writes a justification for a test header signed by the
development keyring (Alice, Bob, Charlie...), together with the configuration
to verify it. It is meant for development and testing only.`,
		Args: cobra.NoArgs,
		RunE: execGenerate,
	}

	cmd.Flags().String("out-dir", ".", "Directory to write the justification and configuration to")
	cmd.Flags().Uint32("header-number", 1, "Number of the finalized test header")
	cmd.Flags().Uint64("round", testutils.TestGrandpaRound, "Round of the commit")
	cmd.Flags().Uint64("set-id", testutils.TestGrandpaSetID, "Authority set id")
	cmd.Flags().Uint16("authorities", 3, "Number of development authorities signing")
	cmd.Flags().Uint32("ancestors", 2, "Number of votes ancestries")
	cmd.Flags().Uint32("forks", 1, "Number of forks the ancestries are split across")
	return cmd
}

func execGenerate(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()
	outDir, err := flags.GetString("out-dir")
	if err != nil {
		return fmt.Errorf("failed to get --out-dir: %s", err)
	}
	number, err := flags.GetUint32("header-number")
	if err != nil {
		return fmt.Errorf("failed to get --header-number: %s", err)
	}
	round, err := flags.GetUint64("round")
	if err != nil {
		return fmt.Errorf("failed to get --round: %s", err)
	}
	setID, err := flags.GetUint64("set-id")
	if err != nil {
		return fmt.Errorf("failed to get --set-id: %s", err)
	}
	authorities, err := flags.GetUint16("authorities")
	if err != nil {
		return fmt.Errorf("failed to get --authorities: %s", err)
	}
	ancestors, err := flags.GetUint32("ancestors")
	if err != nil {
		return fmt.Errorf("failed to get --ancestors: %s", err)
	}
	forks, err := flags.GetUint32("forks")
	if err != nil {
		return fmt.Errorf("failed to get --forks: %s", err)
	}
	if forks == 0 || uint32(authorities) < forks {
		return fmt.Errorf("--forks must be between 1 and --authorities (%d), got %d", authorities, forks)
	}

	keyring := make([]testutils.AccountWeight, authorities)
	for i, account := range testutils.Accounts(authorities) {
		keyring[i] = testutils.AccountWeight{Account: account, Weight: 1}
	}

	header := testutils.TestHeader(number)
	generated := testutils.MakeJustificationForHeader(testutils.JustificationGeneratorParams{
		Header:      header,
		Round:       round,
		SetID:       setID,
		Authorities: keyring,
		Ancestors:   ancestors,
		Forks:       forks,
	})

	cfg := config.Default()
	cfg.AuthoritySet.SetID = setID
	for _, accountWeight := range keyring {
		cfg.AuthoritySet.Authorities = append(cfg.AuthoritySet.Authorities, config.AuthorityConfig{
			PublicKey: accountWeight.Account.Public().Hex(),
			Weight:    uint64(accountWeight.Weight),
		})
	}

	err = os.MkdirAll(outDir, 0700)
	if err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	err = writeJustification(filepath.Join(outDir, generatedJustificationFile), generated)
	if err != nil {
		return err
	}
	err = config.Write(filepath.Join(outDir, generatedConfigFile), cfg)
	if err != nil {
		return err
	}

	logger.Infof("generated justification of %d precommits and %d votes ancestries in %s",
		len(generated.Commit.Precommits), len(generated.VotesAncestries), outDir)
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "--header-hash %s --header-number %d\n", header.Hash(), number)
	return err
}
