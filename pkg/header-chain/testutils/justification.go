// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package testutils

import (
	"bytes"
	"fmt"

	"github.com/ChainSafe/grandpa-bridge/dot/types"
	"github.com/ChainSafe/grandpa-bridge/lib/common"
	grandpa "github.com/ChainSafe/grandpa-bridge/pkg/finality-grandpa"
	"github.com/ChainSafe/grandpa-bridge/pkg/header-chain/justification"

	"github.com/centrifuge/go-substrate-rpc-client/v4/scale"
)

const (
	// TestGrandpaRound is the round of generated justifications by default.
	TestGrandpaRound uint64 = 1
	// TestGrandpaSetID is the authority set id of generated justifications by default.
	TestGrandpaSetID uint64 = 1
)

type (
	// Justification is a justification of bridged chain headers.
	Justification = justification.Justification[common.Hash, types.BlockNumber, types.Header]
	// SignedPrecommit is a precommit of a bridged chain header.
	SignedPrecommit = grandpa.SignedPrecommit[common.Hash, types.BlockNumber,
		justification.AuthoritySignature, justification.AuthorityID]
)

// JustificationGeneratorParams configures a generated justification.
type JustificationGeneratorParams struct {
	// The header which is finalized by the justification.
	Header types.Header
	// The round of the commit.
	Round uint64
	// The authority set id of the commit.
	SetID uint64
	// The authorities signing precommits, one precommit each.
	Authorities []AccountWeight
	// The number of headers in the votes ancestries, split across the forks.
	Ancestors uint32
	// The number of forks descending from the header, each voted on by
	// authorities in a round robin fashion.
	Forks uint32
}

// DefaultJustificationGeneratorParams returns the parameters of a justification
// of the header signed by the test keyring with two ancestors on a single fork.
func DefaultJustificationGeneratorParams(header types.Header) JustificationGeneratorParams {
	return JustificationGeneratorParams{
		Header:      header,
		Round:       TestGrandpaRound,
		SetID:       TestGrandpaSetID,
		Authorities: TestKeyring(),
		Ancestors:   2,
		Forks:       1,
	}
}

// MakeDefaultJustification returns a justification for the header generated
// with the default parameters.
func MakeDefaultJustification(header types.Header) Justification {
	return MakeJustificationForHeader(DefaultJustificationGeneratorParams(header))
}

// MakeJustificationForHeader generates a valid justification for the header.
// It panics when there are no forks or more forks than authorities.
func MakeJustificationForHeader(params JustificationGeneratorParams) Justification {
	if params.Forks == 0 {
		panic("need at least one fork to have a chain")
	}
	if int(params.Forks) > len(params.Authorities) {
		panic("cannot create precommits for all the forks with fewer authorities than forks")
	}

	ancestors := params.Ancestors
	targetDepth := (ancestors + params.Forks - 1) / params.Forks

	var votesAncestries []types.Header
	precommitTargets := make([]grandpa.HashNumber[common.Hash, types.BlockNumber], params.Forks)
	for fork := uint32(0); fork < params.Forks; fork++ {
		depth := ancestors
		if ancestors >= targetDepth {
			ancestors -= targetDepth
			depth = targetDepth
		}

		chain := generateChain(fork, depth+1, params.Header)
		// the finalized header itself is not part of the ancestries
		votesAncestries = append(votesAncestries, chain[1:]...)

		tip := chain[len(chain)-1]
		precommitTargets[fork] = grandpa.HashNumber[common.Hash, types.BlockNumber]{
			Hash:   tip.Hash(),
			Number: tip.Number(),
		}
	}

	precommits := make([]SignedPrecommit, len(params.Authorities))
	for i, authority := range params.Authorities {
		target := precommitTargets[i%int(params.Forks)]
		precommits[i] = MakeSignedPrecommit(authority.Account, target, params.Round, params.SetID)
	}

	return Justification{
		Round: params.Round,
		Commit: grandpa.Commit[common.Hash, types.BlockNumber,
			justification.AuthoritySignature, justification.AuthorityID]{
			TargetHash:   params.Header.Hash(),
			TargetNumber: params.Header.Number(),
			Precommits:   precommits,
		},
		VotesAncestries: votesAncestries,
	}
}

// MakeSignedPrecommit returns the precommit of the account for the target.
func MakeSignedPrecommit(account Account, target grandpa.HashNumber[common.Hash, types.BlockNumber],
	round, setID uint64) SignedPrecommit {
	precommit := grandpa.Precommit[common.Hash, types.BlockNumber]{
		TargetHash:   target.Hash,
		TargetNumber: target.Number,
	}
	payload, err := justification.SigningPayload(precommit, round, setID)
	if err != nil {
		panic(fmt.Sprintf("encoding precommit: %s", err))
	}

	return SignedPrecommit{
		Precommit: precommit,
		Signature: account.Sign(payload),
		ID:        account.Public(),
	}
}

// generateChain returns the ancestor followed by depth-1 descendants.
// Descendants carry the fork id in their digest so that headers at the
// same height on different forks have different hashes.
func generateChain(forkID, depth uint32, ancestor types.Header) []types.Header {
	var encodedForkID bytes.Buffer
	err := scale.NewEncoder(&encodedForkID).Encode(forkID)
	if err != nil {
		panic(fmt.Sprintf("encoding fork id: %s", err))
	}

	headers := []types.Header{ancestor}
	for i := uint32(1); i < depth; i++ {
		parent := headers[i-1]
		header := newHeader(parent.Hash(), parent.Number()+1, types.Digest{encodedForkID.Bytes()})
		headers = append(headers, header)
	}
	return headers
}
