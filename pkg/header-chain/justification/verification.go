// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package justification

import (
	"bytes"
	"fmt"

	grandpa "github.com/ChainSafe/grandpa-bridge/pkg/finality-grandpa"

	"golang.org/x/exp/constraints"
	"golang.org/x/exp/slices"
)

// RequiredJustificationPrecommits returns the number of precommits, or the
// weight, needed for a justification to finalize a block with a voter set of
// the given size, or total weight.
func RequiredJustificationPrecommits(authoritiesSetLength uint64) uint64 {
	return uint64(grandpa.Threshold(grandpa.VoterWeight(authoritiesSetLength)))
}

// Verifier verifies justifications using a given signature verifier.
type Verifier[H comparable, N constraints.Unsigned, Hdr Header[H, N]] struct {
	signatures SignatureVerifier
}

// NewVerifier returns a verifier checking precommit signatures with the
// given signature verifier.
func NewVerifier[H comparable, N constraints.Unsigned, Hdr Header[H, N]](
	signatures SignatureVerifier) *Verifier[H, N, Hdr] {
	return &Verifier[H, N, Hdr]{signatures: signatures}
}

// VerifyJustification verifies, with ed25519 signatures, that the justification
// finalizes the given target. See Verifier.VerifyJustification.
func VerifyJustification[H comparable, N constraints.Unsigned, Hdr Header[H, N]](
	finalizedTarget grandpa.HashNumber[H, N], context VerificationContext,
	justification Justification[H, N, Hdr]) error {
	return NewVerifier[H, N, Hdr](ed25519SignatureVerifier{}).
		VerifyJustification(finalizedTarget, context, justification)
}

// VerifyAndOptimizeJustification verifies, with ed25519 signatures, that the
// justification finalizes the given target and strips whatever it does not need.
// See Verifier.VerifyAndOptimizeJustification.
func VerifyAndOptimizeJustification[H comparable, N constraints.Unsigned, Hdr Header[H, N]](
	finalizedTarget grandpa.HashNumber[H, N], context VerificationContext,
	justification *Justification[H, N, Hdr]) error {
	return NewVerifier[H, N, Hdr](ed25519SignatureVerifier{}).
		VerifyAndOptimizeJustification(finalizedTarget, context, justification)
}

// VerifyJustification verifies that the justification finalizes the given
// target with the voter set of the context. Every precommit must come from a
// distinct authority of the set with a valid signature, the accepted weight
// must reach the supermajority threshold and every votes ancestry must be on
// the route of an accepted precommit. Precommits targeting blocks that do not
// descend from the target are ignored.
func (v *Verifier[H, N, Hdr]) VerifyJustification(finalizedTarget grandpa.HashNumber[H, N],
	context VerificationContext, justification Justification[H, N, Hdr]) error {
	_, err := v.verify(finalizedTarget, context, justification, strictPolicy[H]{})
	return err
}

// VerifyAndOptimizeJustification verifies the justification like
// VerifyJustification does but, instead of failing, removes precommits that
// are invalid, unrelated or cast after the threshold was reached, and votes
// ancestries that are duplicated or unused. It still fails when the target
// does not match or when the remaining weight is below the threshold, in
// which case the justification is left untouched.
func (v *Verifier[H, N, Hdr]) VerifyAndOptimizeJustification(finalizedTarget grandpa.HashNumber[H, N],
	context VerificationContext, justification *Justification[H, N, Hdr]) error {
	policy := &optimizer[H]{}
	_, err := v.verify(finalizedTarget, context, *justification, policy)
	if err != nil {
		return err
	}

	removedPrecommits := len(policy.extraPrecommits)
	removedAncestries := len(justification.VotesAncestries)
	if len(policy.extraPrecommits) > 0 {
		justification.Commit.Precommits = removeIndexes(justification.Commit.Precommits, policy.extraPrecommits)
	}
	if len(policy.duplicateAncestries) > 0 {
		justification.VotesAncestries = removeIndexes(justification.VotesAncestries, policy.duplicateAncestries)
	}
	if len(policy.redundantAncestries) > 0 {
		justification.VotesAncestries = slices.DeleteFunc(slices.Clone(justification.VotesAncestries),
			func(header Hdr) bool {
				_, redundant := policy.redundantAncestries[header.Hash()]
				return redundant
			})
	}
	removedAncestries -= len(justification.VotesAncestries)

	logger.Debugf("optimized justification for block %v #%d: removed %d precommits and %d votes ancestries",
		finalizedTarget.Hash, finalizedTarget.Number, removedPrecommits, removedAncestries)
	return nil
}

// verify runs the verification steps in order and returns the accepted weight.
func (v *Verifier[H, N, Hdr]) verify(finalizedTarget grandpa.HashNumber[H, N], context VerificationContext,
	justification Justification[H, N, Hdr], policy verificationPolicy[H]) (grandpa.VoterWeight, error) {
	if context.VoterSet.Len() == 0 {
		return 0, fmt.Errorf("verifying justification: %w", grandpa.ErrEmptyVoterSet)
	}

	target := justification.CommitTarget()
	if target.Hash != finalizedTarget.Hash || target.Number != finalizedTarget.Number {
		return 0, fmt.Errorf("%w: justification targets block %v #%d, expected %v #%d",
			ErrInvalidJustificationTarget, target.Hash, target.Number,
			finalizedTarget.Hash, finalizedTarget.Number)
	}

	chain, duplicates := newAncestryChain[H, N](finalizedTarget, justification.VotesAncestries)
	if len(duplicates) > 0 {
		err := policy.onDuplicateVotesAncestries(duplicates)
		if err != nil {
			return 0, err
		}
	}

	threshold := context.VoterSet.Threshold()
	var (
		weight  grandpa.VoterWeight
		payload bytes.Buffer
		voted   = make(map[AuthorityID]struct{}, len(justification.Commit.Precommits))
	)
	for i, signed := range justification.Commit.Precommits {
		if policy.skipRedundantVotes() && weight >= threshold {
			policy.onRedundantVote(i)
			continue
		}

		voter := context.VoterSet.Get(signed.ID)
		if voter == nil {
			err := policy.onUnknownAuthority(i, signed.ID)
			if err != nil {
				return 0, err
			}
			continue
		}

		if _, ok := voted[signed.ID]; ok {
			err := policy.onDuplicateAuthorityVote(i, signed.ID)
			if err != nil {
				return 0, err
			}
			continue
		}

		err := encodeSigningPayload(&payload, signed.Precommit, justification.Round, context.AuthoritySetID)
		if err != nil {
			return 0, err
		}
		if !v.signatures.Verify(signed.ID, payload.Bytes(), signed.Signature) {
			err := policy.onInvalidAuthoritySignature(i, signed.ID)
			if err != nil {
				return 0, err
			}
			continue
		}

		route, ok := chain.ancestry(signed.Precommit.Target())
		if !ok {
			logger.Debugf("ignoring precommit %d from authority %s: block %v #%d does not descend from block %v #%d",
				i, signed.ID, signed.Precommit.TargetHash, signed.Precommit.TargetNumber,
				finalizedTarget.Hash, finalizedTarget.Number)
			policy.onUnrelatedAncestryVote(i, signed.ID)
			continue
		}
		chain.markVisited(route)
		voted[signed.ID] = struct{}{}

		err = weight.CheckedAdd(voter.Weight())
		if err != nil {
			return 0, fmt.Errorf("accumulating precommit weight: %w", err)
		}
		logger.Tracef("accepted precommit %d from authority %s with weight %d, cumulative weight %d/%d",
			i, signed.ID, voter.Weight(), weight, threshold)
	}

	if weight < threshold {
		return 0, fmt.Errorf("%w: %d, required %d", ErrTooLowCumulativeWeight, weight, threshold)
	}

	if !chain.isFullyVisited() {
		err := policy.onRedundantVotesAncestries(chain.unvisitedHashes())
		if err != nil {
			return 0, err
		}
	}

	return weight, nil
}
