// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package justification

import (
	grandpa "github.com/ChainSafe/grandpa-bridge/pkg/finality-grandpa"

	"golang.org/x/exp/constraints"
)

// ancestryChain indexes the votes ancestries of a justification so that a
// precommit target can be routed back to the commit target. It also keeps
// track of the entries no accepted vote has routed through yet.
type ancestryChain[H comparable, N constraints.Unsigned] struct {
	base      grandpa.HashNumber[H, N]
	parents   map[H]H
	unvisited map[H]struct{}
}

// newAncestryChain indexes the given headers by hash. The indexes of headers
// whose hash was already seen are returned, the first occurrence is the one
// indexed.
func newAncestryChain[H comparable, N constraints.Unsigned, Hdr Header[H, N]](
	base grandpa.HashNumber[H, N], headers []Hdr) (chain ancestryChain[H, N], duplicates []int) {
	chain = ancestryChain[H, N]{
		base:      base,
		parents:   make(map[H]H, len(headers)),
		unvisited: make(map[H]struct{}, len(headers)),
	}
	for i, header := range headers {
		hash := header.Hash()
		if _, ok := chain.parents[hash]; ok {
			duplicates = append(duplicates, i)
			continue
		}
		chain.parents[hash] = header.ParentHash()
		chain.unvisited[hash] = struct{}{}
	}
	return chain, duplicates
}

// ancestry returns the route of entries from the precommit target down to,
// and excluding, the base. The route stops early at the first entry that an
// earlier accepted vote already routed through, since the rest of that path
// is known to reach the base. It returns false when the target is not a
// descendant of the base through the indexed entries.
func (ac ancestryChain[H, N]) ancestry(target grandpa.HashNumber[H, N]) (route []H, ok bool) {
	if target.Number < ac.base.Number {
		return nil, false
	}

	current := target.Hash
	// every step consumes a distinct entry unless the entries form a cycle
	maxSteps := len(ac.parents) + 1
	for steps := 0; current != ac.base.Hash; steps++ {
		if steps >= maxSteps {
			return nil, false
		}
		parent, ok := ac.parents[current]
		if !ok {
			return nil, false
		}
		if _, unvisited := ac.unvisited[current]; !unvisited {
			return route, true
		}
		route = append(route, current)
		current = parent
	}
	return route, true
}

// markVisited records that an accepted vote routed through the given entries.
func (ac ancestryChain[H, N]) markVisited(route []H) {
	for _, hash := range route {
		delete(ac.unvisited, hash)
	}
}

// isFullyVisited reports whether every indexed entry was routed through.
func (ac ancestryChain[H, N]) isFullyVisited() bool {
	return len(ac.unvisited) == 0
}

// unvisitedHashes returns the set of entries no accepted vote routed through.
func (ac ancestryChain[H, N]) unvisitedHashes() map[H]struct{} {
	hashes := make(map[H]struct{}, len(ac.unvisited))
	for hash := range ac.unvisited {
		hashes[hash] = struct{}{}
	}
	return hashes
}
