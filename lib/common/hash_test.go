// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	randomHashString = "0x580d77a9136035a0bc3c3cd86286172f7f81291164c5914266073a30466fba21"
	emptyHash        = "0x0000000000000000000000000000000000000000000000000000000000000000"
)

func TestHash_UnmarshalText(t *testing.T) {
	t.Parallel()

	testCases := map[string]struct {
		hash     string
		errMsg   string
		expected string
	}{
		"empty params":  {hash: "", errMsg: "invalid hash format"},
		"valid params":  {hash: randomHashString, expected: randomHashString},
		"quoted params": {hash: `"` + randomHashString + `"`, expected: randomHashString},
		"zero hash":     {hash: "0x", expected: emptyHash},
		"not prefixed":  {hash: "zz", errMsg: "could not byteify non 0x prefixed string"},
		"too long":      {hash: randomHashString + "00", errMsg: "hash is 33 bytes, expected at most 32"},
	}

	for name, testCase := range testCases {
		testCase := testCase
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			var h Hash
			err := h.UnmarshalText([]byte(testCase.hash))
			if testCase.errMsg != "" {
				require.EqualError(t, err, testCase.errMsg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, testCase.expected, h.String())
		})
	}
}

func TestHash_MarshalText(t *testing.T) {
	t.Parallel()

	h := MustHexToHash(randomHashString)
	text, err := h.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, randomHashString, string(text))
}

func Test_Hash_IsEmpty(t *testing.T) {
	t.Parallel()

	testCases := map[string]struct {
		hash  Hash
		empty bool
	}{
		"empty": {
			empty: true,
		},
		"not empty": {
			hash: Hash{1},
		},
	}

	for name, testCase := range testCases {
		testCase := testCase
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			empty := testCase.hash.IsEmpty()

			assert.Equal(t, testCase.empty, empty)
		})
	}
}

func Test_Hash_Short(t *testing.T) {
	t.Parallel()

	h := MustHexToHash(randomHashString)
	assert.Equal(t, "0x580d77a9...466fba21", h.Short())
}

func TestHexToBytes(t *testing.T) {
	t.Parallel()

	b, err := HexToBytes("0x0102ff")
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 0xff}, b)

	b, err = HexToBytes("0x102")
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2}, b)

	_, err = HexToBytes("0102")
	require.ErrorIs(t, err, errNotPrefixed)

	assert.Equal(t, "0x0102ff", BytesToHex([]byte{1, 2, 0xff}))
}
