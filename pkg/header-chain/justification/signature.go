// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package justification

import "github.com/ChainSafe/grandpa-bridge/lib/crypto/ed25519"

//go:generate mockgen -destination=mock_signature_verifier_test.go -package $GOPACKAGE . SignatureVerifier

// SignatureVerifier verifies authority signatures over signing payloads.
type SignatureVerifier interface {
	Verify(authority AuthorityID, message []byte, signature AuthoritySignature) bool
}

type ed25519SignatureVerifier struct{}

func (ed25519SignatureVerifier) Verify(authority AuthorityID, message []byte, signature AuthoritySignature) bool {
	return ed25519.Verify(authority, message, signature)
}
