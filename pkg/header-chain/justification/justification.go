// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package justification

import (
	"github.com/ChainSafe/grandpa-bridge/internal/log"
	"github.com/ChainSafe/grandpa-bridge/lib/crypto/ed25519"
	grandpa "github.com/ChainSafe/grandpa-bridge/pkg/finality-grandpa"

	"golang.org/x/exp/constraints"
)

var logger = log.NewFromGlobal(log.AddContext("pkg", "justification"))

// AuthorityID is the identity of a GRANDPA authority, its ed25519 public key.
type AuthorityID = ed25519.PublicKeyBytes

// AuthoritySignature is the ed25519 signature of an authority over a precommit.
type AuthoritySignature = ed25519.SignatureBytes

// Header is the view of a bridged chain header needed to follow vote ancestry.
type Header[H comparable, N constraints.Unsigned] interface {
	Hash() H
	ParentHash() H
	Number() N
}

// Justification is a GRANDPA justification for block finality. It includes a
// commit message and an ancestry proof including all headers routing the
// precommit target blocks to the commit target block.
type Justification[H comparable, N constraints.Unsigned, Hdr Header[H, N]] struct {
	// The round in which the commit was made.
	Round uint64
	// The commit claiming finality of its target.
	Commit grandpa.Commit[H, N, AuthoritySignature, AuthorityID]
	// Headers linking precommit targets to the commit target, excluding
	// the commit target itself.
	VotesAncestries []Hdr
}

// CommitTarget returns the block the justification claims to finalize.
func (j Justification[H, N, Hdr]) CommitTarget() grandpa.HashNumber[H, N] {
	return j.Commit.Target()
}

// VerificationContext holds everything, beyond the justification itself, that
// is needed to verify a justification. It is borrowed read-only by every call.
type VerificationContext struct {
	// The voter set of the authority set the justification is produced by.
	VoterSet grandpa.VoterSet[AuthorityID]
	// The id of that authority set. It is part of every signed message,
	// votes from other sets do not verify.
	AuthoritySetID uint64
}

// NewVerificationContext builds a verification context from an authority
// list and set id.
func NewVerificationContext(authorities []grandpa.IDWeight[AuthorityID], setID uint64) (VerificationContext, error) {
	voters, err := grandpa.NewVoterSet(authorities)
	if err != nil {
		return VerificationContext{}, err
	}
	return VerificationContext{
		VoterSet:       *voters,
		AuthoritySetID: setID,
	}, nil
}
