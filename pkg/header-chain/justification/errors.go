// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package justification

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidJustificationTarget is returned when the justification does not
	// target the header being finalized.
	ErrInvalidJustificationTarget = errors.New("invalid justification target")
	// ErrDuplicateVotesAncestries is returned when the votes ancestries contain
	// the same header more than once.
	ErrDuplicateVotesAncestries = errors.New("duplicate votes ancestries")
	// ErrRedundantVotesAncestries is returned when the votes ancestries contain
	// headers that no accepted precommit routes through.
	ErrRedundantVotesAncestries = errors.New("redundant votes ancestries")
	// ErrTooLowCumulativeWeight is returned when the accepted precommits do not
	// reach the supermajority threshold.
	ErrTooLowCumulativeWeight = errors.New("too low cumulative weight")

	// ErrPrecommit matches any *PrecommitError.
	ErrPrecommit = errors.New("invalid precommit")
	// ErrUnknownAuthority is returned for a precommit signed by an authority
	// outside of the voter set.
	ErrUnknownAuthority = errors.New("unknown authority")
	// ErrDuplicateAuthorityVote is returned when an authority contributes more
	// than one vote.
	ErrDuplicateAuthorityVote = errors.New("duplicate authority vote")
	// ErrInvalidAuthoritySignature is returned for a precommit whose signature
	// does not verify.
	ErrInvalidAuthoritySignature = errors.New("invalid authority signature")
)

// PrecommitError is the error returned for a single invalid precommit.
type PrecommitError struct {
	// Index of the precommit in the commit.
	Index int
	// Authority which signed the precommit.
	Authority AuthorityID
	// Err is one of ErrUnknownAuthority, ErrDuplicateAuthorityVote
	// or ErrInvalidAuthoritySignature.
	Err error
}

func (e *PrecommitError) Error() string {
	return fmt.Sprintf("%s: precommit %d from authority %s: %s",
		ErrPrecommit, e.Index, e.Authority, e.Err)
}

func (e *PrecommitError) Unwrap() error {
	return e.Err
}

// Is makes every precommit error match ErrPrecommit.
func (e *PrecommitError) Is(target error) bool {
	return target == ErrPrecommit
}
