// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package ed25519

import (
	"bytes"
	"fmt"

	"github.com/ChainSafe/grandpa-bridge/lib/common"

	bip39 "github.com/cosmos/go-bip39"
	"golang.org/x/crypto/ed25519"
)

const (
	// PublicKeyLength is the fixed Public Key Length
	PublicKeyLength int = 32
	// SeedLength is the length of an ed25519 seed
	SeedLength int = 32
	// SignatureLength is the length of a ed25519 signature
	SignatureLength int = 64
)

// PublicKeyBytes is an encoded ed25519 public key. It is comparable and
// used as the authority identity.
type PublicKeyBytes [PublicKeyLength]byte

// Hex returns the 0x prefixed hex encoding of the public key bytes.
func (b PublicKeyBytes) Hex() string {
	return common.BytesToHex(b[:])
}

// Compare orders public key bytes lexicographically.
func (b PublicKeyBytes) Compare(other PublicKeyBytes) int {
	return bytes.Compare(b[:], other[:])
}

// String returns the hex encoding of the public key bytes.
func (b PublicKeyBytes) String() string {
	return b.Hex()
}

// SignatureBytes is an encoded ed25519 signature.
type SignatureBytes [SignatureLength]byte

// Keypair is a ed25519 public-private keypair
type Keypair struct {
	public  *PublicKey
	private ed25519.PrivateKey
}

// PublicKey is the public half of an ed25519 keypair
type PublicKey ed25519.PublicKey

// NewKeypair returns an ed25519 Keypair given a ed25519 private key
func NewKeypair(priv ed25519.PrivateKey) *Keypair {
	pubkey := PublicKey(priv.Public().(ed25519.PublicKey))
	return &Keypair{
		public:  &pubkey,
		private: priv,
	}
}

// NewKeypairFromSeed generates a new ed25519 keypair from a 32 byte seed
func NewKeypairFromSeed(seed []byte) (*Keypair, error) {
	if len(seed) != SeedLength {
		return nil, fmt.Errorf("cannot generate key from seed: seed is not %d bytes long", SeedLength)
	}

	priv := ed25519.NewKeyFromSeed(seed)
	return NewKeypair(priv), nil
}

// NewKeypairFromMnemonic returns a new Keypair using the given mnemonic and password.
// The keypair seed is the first 32 bytes of the bip39 seed.
func NewKeypairFromMnemonic(mnemonic, password string) (*Keypair, error) {
	seed, err := bip39.NewSeedWithErrorChecking(mnemonic, password)
	if err != nil {
		return nil, err
	}
	return NewKeypairFromSeed(seed[:SeedLength])
}

// NewPublicKey returns an ed25519 public key from 32 byte input
func NewPublicKey(in []byte) (*PublicKey, error) {
	if len(in) != PublicKeyLength {
		return nil, fmt.Errorf("cannot create public key: input is not %d bytes", PublicKeyLength)
	}
	pub := PublicKey(append([]byte(nil), in...))
	return &pub, nil
}

// Sign uses the keypair to sign the message using the ed25519 signature algorithm
func (kp *Keypair) Sign(msg []byte) ([]byte, error) {
	return ed25519.Sign(kp.private, msg), nil
}

// Public returns the keypair's public key
func (kp *Keypair) Public() *PublicKey {
	return kp.public
}

// PublicKeyBytes returns the keypair's public key as comparable bytes.
func (kp *Keypair) PublicKeyBytes() PublicKeyBytes {
	return kp.public.AsBytes()
}

// Encode returns the encoded public key
func (k *PublicKey) Encode() []byte {
	return append([]byte(nil), []byte(*k)...)
}

// Hex returns the public key as a '0x' prefixed hex string
func (k *PublicKey) Hex() string {
	return common.BytesToHex(k.Encode())
}

// AsBytes returns the public key as a fixed size array
func (k *PublicKey) AsBytes() PublicKeyBytes {
	var b PublicKeyBytes
	copy(b[:], *k)
	return b
}

// Verify verifies the signature bytes over msg for the public key bytes.
func Verify(pub PublicKeyBytes, msg []byte, sig SignatureBytes) bool {
	return ed25519.Verify(ed25519.PublicKey(pub[:]), msg, sig[:])
}
