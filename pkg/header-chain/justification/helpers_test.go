// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package justification

import (
	"testing"

	grandpa "github.com/ChainSafe/grandpa-bridge/pkg/finality-grandpa"
	"github.com/stretchr/testify/require"
)

type testHeader struct {
	hash   string
	parent string
	number uint32
}

func (h testHeader) Hash() string       { return h.hash }
func (h testHeader) ParentHash() string { return h.parent }
func (h testHeader) Number() uint32     { return h.number }

type testJustification = Justification[string, uint32, testHeader]

type testSignedPrecommit = grandpa.SignedPrecommit[string, uint32, AuthoritySignature, AuthorityID]

func testAuthority(b byte) AuthorityID {
	return AuthorityID{b}
}

func signedPrecommit(authority AuthorityID, targetHash string, targetNumber uint32) testSignedPrecommit {
	return testSignedPrecommit{
		Precommit: grandpa.Precommit[string, uint32]{
			TargetHash:   targetHash,
			TargetNumber: targetNumber,
		},
		ID: authority,
	}
}

func newTestContext(t *testing.T, setID uint64, weights ...grandpa.VoterWeight) VerificationContext {
	t.Helper()

	authorities := make([]grandpa.IDWeight[AuthorityID], len(weights))
	for i, weight := range weights {
		authorities[i] = grandpa.IDWeight[AuthorityID]{
			ID:     testAuthority(byte(i + 1)),
			Weight: weight,
		}
	}
	context, err := NewVerificationContext(authorities, setID)
	require.NoError(t, err)
	return context
}

var testTarget = grandpa.HashNumber[string, uint32]{Hash: "target", Number: 10}

// newTestJustification returns a justification of three authorities voting
// for the target and two descendants of it:
//
//	target <- a <- b
func newTestJustification() testJustification {
	return testJustification{
		Round: 1,
		Commit: grandpa.Commit[string, uint32, AuthoritySignature, AuthorityID]{
			TargetHash:   testTarget.Hash,
			TargetNumber: testTarget.Number,
			Precommits: []testSignedPrecommit{
				signedPrecommit(testAuthority(1), "b", 12),
				signedPrecommit(testAuthority(2), "a", 11),
				signedPrecommit(testAuthority(3), "target", 10),
			},
		},
		VotesAncestries: []testHeader{
			{hash: "a", parent: "target", number: 11},
			{hash: "b", parent: "a", number: 12},
		},
	}
}
