// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package ed25519

import (
	"testing"

	"github.com/ChainSafe/grandpa-bridge/lib/common"

	bip39 "github.com/cosmos/go-bip39"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestKeypair(t *testing.T, b byte) *Keypair {
	t.Helper()
	seed := make([]byte, SeedLength)
	seed[0] = b
	kp, err := NewKeypairFromSeed(seed)
	require.NoError(t, err)
	return kp
}

func TestSignAndVerify(t *testing.T) {
	t.Parallel()

	kp := newTestKeypair(t, 1)

	msg := []byte("helloworld")
	sig, err := kp.Sign(msg)
	require.NoError(t, err)

	var sigBytes SignatureBytes
	copy(sigBytes[:], sig)
	require.True(t, Verify(kp.PublicKeyBytes(), msg, sigBytes))
	require.False(t, Verify(newTestKeypair(t, 2).PublicKeyBytes(), msg, sigBytes))

	sigBytes[0] ^= 1
	require.False(t, Verify(kp.PublicKeyBytes(), msg, sigBytes))
}

func TestNewKeypairFromSeed(t *testing.T) {
	t.Parallel()

	kp1 := newTestKeypair(t, 7)
	kp2 := newTestKeypair(t, 7)
	assert.Equal(t, kp1.PublicKeyBytes(), kp2.PublicKeyBytes())
	assert.NotEqual(t, kp1.PublicKeyBytes(), newTestKeypair(t, 8).PublicKeyBytes())

	_, err := NewKeypairFromSeed(make([]byte, SeedLength-1))
	require.EqualError(t, err, "cannot generate key from seed: seed is not 32 bytes long")
}

func TestNewPublicKey(t *testing.T) {
	t.Parallel()

	kp := newTestKeypair(t, 3)

	pub, err := NewPublicKey(kp.Public().Encode())
	require.NoError(t, err)
	assert.Equal(t, kp.Public(), pub)
	assert.Equal(t, kp.PublicKeyBytes(), pub.AsBytes())
	assert.Equal(t, kp.Public().Hex(), kp.PublicKeyBytes().Hex())

	_, err = NewPublicKey(kp.Public().Encode()[1:])
	require.EqualError(t, err, "cannot create public key: input is not 32 bytes")
}

func TestNewKeypairFromMnemonic(t *testing.T) {
	t.Parallel()

	entropy, err := bip39.NewEntropy(128)
	require.NoError(t, err)

	mnemonic, err := bip39.NewMnemonic(entropy)
	require.NoError(t, err)

	kp1, err := NewKeypairFromMnemonic(mnemonic, "")
	require.NoError(t, err)
	kp2, err := NewKeypairFromMnemonic(mnemonic, "")
	require.NoError(t, err)
	assert.Equal(t, kp1.PublicKeyBytes(), kp2.PublicKeyBytes())

	withPassword, err := NewKeypairFromMnemonic(mnemonic, "password")
	require.NoError(t, err)
	assert.NotEqual(t, kp1.PublicKeyBytes(), withPassword.PublicKeyBytes())

	_, err = NewKeypairFromMnemonic("not a mnemonic", "")
	require.Error(t, err)
}

func TestNewKeypairFromMnemonic_Again(t *testing.T) {
	t.Parallel()

	mnemonic := "twist sausage october vivid neglect swear crumble hawk beauty fabric egg fragile"
	kp, err := NewKeypairFromMnemonic(mnemonic, "")
	require.NoError(t, err)

	expectedPubkey := common.MustHexToBytes("0xf56d9231e7b7badd3f1e10ad15ef8aa08b70839723d0a2d10d7329f0ea2b8c61")
	require.Equal(t, expectedPubkey, kp.Public().Encode())
}

func TestPublicKeyBytes_Compare(t *testing.T) {
	t.Parallel()

	low := PublicKeyBytes{1}
	high := PublicKeyBytes{2}
	assert.Negative(t, low.Compare(high))
	assert.Positive(t, high.Compare(low))
	assert.Zero(t, low.Compare(low))
	assert.Equal(t, "0x01"+"00000000000000000000000000000000000000000000000000000000000000", low.String())
}
