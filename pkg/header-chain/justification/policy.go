// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package justification

import (
	"fmt"

	"golang.org/x/exp/slices"
)

// verificationPolicy decides what happens to precommits and votes ancestries
// that do not contribute to a justification. A returned error aborts the
// verification, otherwise the offending item is left out.
type verificationPolicy[H comparable] interface {
	// skipRedundantVotes reports whether precommits cast once the threshold
	// is reached are left out without being checked.
	skipRedundantVotes() bool
	onRedundantVote(index int)
	onUnknownAuthority(index int, authority AuthorityID) error
	onDuplicateAuthorityVote(index int, authority AuthorityID) error
	onInvalidAuthoritySignature(index int, authority AuthorityID) error
	onUnrelatedAncestryVote(index int, authority AuthorityID)
	onDuplicateVotesAncestries(indexes []int) error
	onRedundantVotesAncestries(hashes map[H]struct{}) error
}

// strictPolicy rejects any justification carrying invalid precommits or
// unneeded votes ancestries. Precommits targeting blocks that do not
// descend from the commit target are ignored.
type strictPolicy[H comparable] struct{}

func (strictPolicy[H]) skipRedundantVotes() bool { return false }

func (strictPolicy[H]) onRedundantVote(int) {}

func (strictPolicy[H]) onUnknownAuthority(index int, authority AuthorityID) error {
	return &PrecommitError{Index: index, Authority: authority, Err: ErrUnknownAuthority}
}

func (strictPolicy[H]) onDuplicateAuthorityVote(index int, authority AuthorityID) error {
	return &PrecommitError{Index: index, Authority: authority, Err: ErrDuplicateAuthorityVote}
}

func (strictPolicy[H]) onInvalidAuthoritySignature(index int, authority AuthorityID) error {
	return &PrecommitError{Index: index, Authority: authority, Err: ErrInvalidAuthoritySignature}
}

func (strictPolicy[H]) onUnrelatedAncestryVote(int, AuthorityID) {}

func (strictPolicy[H]) onDuplicateVotesAncestries(indexes []int) error {
	return fmt.Errorf("%w: %d duplicate headers, first at index %d",
		ErrDuplicateVotesAncestries, len(indexes), indexes[0])
}

func (strictPolicy[H]) onRedundantVotesAncestries(hashes map[H]struct{}) error {
	return fmt.Errorf("%w: %d headers not on any precommit route",
		ErrRedundantVotesAncestries, len(hashes))
}

// optimizer records everything a justification can do without, so that it
// can be removed once verification succeeds.
type optimizer[H comparable] struct {
	extraPrecommits     []int
	duplicateAncestries []int
	redundantAncestries map[H]struct{}
}

func (*optimizer[H]) skipRedundantVotes() bool { return true }

func (o *optimizer[H]) onRedundantVote(index int) {
	o.extraPrecommits = append(o.extraPrecommits, index)
}

func (o *optimizer[H]) onUnknownAuthority(index int, _ AuthorityID) error {
	o.extraPrecommits = append(o.extraPrecommits, index)
	return nil
}

func (o *optimizer[H]) onDuplicateAuthorityVote(index int, _ AuthorityID) error {
	o.extraPrecommits = append(o.extraPrecommits, index)
	return nil
}

func (o *optimizer[H]) onInvalidAuthoritySignature(index int, _ AuthorityID) error {
	o.extraPrecommits = append(o.extraPrecommits, index)
	return nil
}

func (o *optimizer[H]) onUnrelatedAncestryVote(index int, _ AuthorityID) {
	o.extraPrecommits = append(o.extraPrecommits, index)
}

func (o *optimizer[H]) onDuplicateVotesAncestries(indexes []int) error {
	o.duplicateAncestries = indexes
	return nil
}

func (o *optimizer[H]) onRedundantVotesAncestries(hashes map[H]struct{}) error {
	o.redundantAncestries = hashes
	return nil
}

// removeIndexes returns a copy of items without the items at the given
// ascending indexes.
func removeIndexes[T any](items []T, indexes []int) []T {
	items = slices.Clone(items)
	for i := len(indexes) - 1; i >= 0; i-- {
		items = slices.Delete(items, indexes[i], indexes[i]+1)
	}
	return items
}
