// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package grandpa

// HashNumber contains a block hash and block number
type HashNumber[Hash, Number any] struct {
	Hash   Hash
	Number Number
}

// Precommit is a precommit for a block and its ancestors.
type Precommit[Hash, Number any] struct {
	// The target block's hash.
	TargetHash Hash
	// The target block's number.
	TargetNumber Number
}

// Target returns the block the precommit votes for.
func (p Precommit[Hash, Number]) Target() HashNumber[Hash, Number] {
	return HashNumber[Hash, Number]{
		Hash:   p.TargetHash,
		Number: p.TargetNumber,
	}
}

// SignedPrecommit is a signed precommit message.
type SignedPrecommit[Hash, Number, Signature, ID any] struct {
	// The precommit message which has been signed.
	Precommit Precommit[Hash, Number]
	// The signature on the message.
	Signature Signature
	// The ID of the signer.
	ID ID
}

// Commit is a commit message which is an aggregate of precommits.
type Commit[Hash, Number, Signature, ID any] struct {
	// The target block's hash.
	TargetHash Hash
	// The target block's number.
	TargetNumber Number
	// Precommits for target block or any block after it that justify this commit.
	Precommits []SignedPrecommit[Hash, Number, Signature, ID]
}

// Target returns the block the commit claims to be finalized.
func (c Commit[Hash, Number, Signature, ID]) Target() HashNumber[Hash, Number] {
	return HashNumber[Hash, Number]{
		Hash:   c.TargetHash,
		Number: c.TargetNumber,
	}
}
