// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package testutils

import (
	"encoding/binary"
	"fmt"

	"github.com/ChainSafe/grandpa-bridge/lib/crypto/ed25519"
	grandpa "github.com/ChainSafe/grandpa-bridge/pkg/finality-grandpa"
	"github.com/ChainSafe/grandpa-bridge/pkg/header-chain/justification"
)

// Account is a test account whose ed25519 seed is its little endian
// encoded id padded with zeros.
type Account uint16

// Well known test accounts.
const (
	Alice Account = iota
	Bob
	Charlie
	Dave
	Eve
	Ferdie
)

// Keypair returns the ed25519 keypair of the account.
func (a Account) Keypair() *ed25519.Keypair {
	seed := make([]byte, ed25519.SeedLength)
	binary.LittleEndian.PutUint16(seed, uint16(a))
	keypair, err := ed25519.NewKeypairFromSeed(seed)
	if err != nil {
		panic(fmt.Sprintf("creating keypair for account %d: %s", a, err))
	}
	return keypair
}

// Public returns the authority id of the account.
func (a Account) Public() justification.AuthorityID {
	return a.Keypair().PublicKeyBytes()
}

// Sign signs the message with the key of the account.
func (a Account) Sign(message []byte) justification.AuthoritySignature {
	signature, err := a.Keypair().Sign(message)
	if err != nil {
		panic(fmt.Sprintf("signing with account %d: %s", a, err))
	}

	var signatureBytes justification.AuthoritySignature
	copy(signatureBytes[:], signature)
	return signatureBytes
}

// AccountWeight is an account with its voting weight.
type AccountWeight struct {
	Account Account
	Weight  grandpa.VoterWeight
}

// Accounts returns the first n test accounts.
func Accounts(n uint16) []Account {
	accounts := make([]Account, n)
	for i := range accounts {
		accounts[i] = Account(i)
	}
	return accounts
}

// TestKeyring returns Alice, Bob and Charlie, each with a weight of 1.
func TestKeyring() []AccountWeight {
	return []AccountWeight{
		{Account: Alice, Weight: 1},
		{Account: Bob, Weight: 1},
		{Account: Charlie, Weight: 1},
	}
}

// AuthorityList converts accounts with their weights to voter weights.
func AuthorityList(keyring []AccountWeight) []grandpa.IDWeight[justification.AuthorityID] {
	authorities := make([]grandpa.IDWeight[justification.AuthorityID], len(keyring))
	for i, accountWeight := range keyring {
		authorities[i] = grandpa.IDWeight[justification.AuthorityID]{
			ID:     accountWeight.Account.Public(),
			Weight: accountWeight.Weight,
		}
	}
	return authorities
}

// VerificationContext returns the context of the test keyring for the
// given authority set id.
func VerificationContext(setID uint64) justification.VerificationContext {
	context, err := justification.NewVerificationContext(AuthorityList(TestKeyring()), setID)
	if err != nil {
		panic(fmt.Sprintf("creating verification context: %s", err))
	}
	return context
}
