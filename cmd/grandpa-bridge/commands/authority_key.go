// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package commands

import (
	"fmt"

	"github.com/ChainSafe/grandpa-bridge/lib/crypto/ed25519"

	bip39 "github.com/cosmos/go-bip39"
	"github.com/spf13/cobra"
)

// mnemonicEntropyBits is the entropy of generated mnemonics, 24 words.
const mnemonicEntropyBits = 256

func newAuthorityKeyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "authority-key",
		Short: "Derive the authority entry of a mnemonic",
		Long: `authority-key derives the ed25519 authority key of a bip39 mnemonic and
prints the entry to add to the authority set of the configuration.
Without --mnemonic, a new mnemonic is generated and printed first.`,
		Args: cobra.NoArgs,
		RunE: execAuthorityKey,
	}

	cmd.Flags().String("mnemonic", "", "bip39 mnemonic to derive the authority key from")
	cmd.Flags().String("password", "", "Password of the mnemonic")
	cmd.Flags().Uint64("weight", 1, "Voting weight of the authority")
	return cmd
}

func execAuthorityKey(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()
	mnemonic, err := flags.GetString("mnemonic")
	if err != nil {
		return fmt.Errorf("failed to get --mnemonic: %s", err)
	}
	password, err := flags.GetString("password")
	if err != nil {
		return fmt.Errorf("failed to get --password: %s", err)
	}
	weight, err := flags.GetUint64("weight")
	if err != nil {
		return fmt.Errorf("failed to get --weight: %s", err)
	}
	if weight == 0 {
		return fmt.Errorf("--weight cannot be zero")
	}

	out := cmd.OutOrStdout()
	if mnemonic == "" {
		mnemonic, err = newMnemonic()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(out, "# mnemonic: %s\n", mnemonic)
		if err != nil {
			return err
		}
	}

	keypair, err := ed25519.NewKeypairFromMnemonic(mnemonic, password)
	if err != nil {
		return fmt.Errorf("deriving authority key: %w", err)
	}

	_, err = fmt.Fprintf(out, "[[authority-set.authorities]]\npublic-key = %q\nweight = %d\n",
		keypair.Public().Hex(), weight)
	return err
}

func newMnemonic() (string, error) {
	entropy, err := bip39.NewEntropy(mnemonicEntropyBits)
	if err != nil {
		return "", fmt.Errorf("generating entropy: %w", err)
	}
	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", fmt.Errorf("generating mnemonic: %w", err)
	}
	return mnemonic, nil
}
