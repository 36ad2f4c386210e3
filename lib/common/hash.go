// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package common

import (
	"errors"
	"fmt"
	"strings"
)

// HashLength is the expected length of the common.Hash type
const HashLength = 32

// EmptyHash is the zero value hash. Headers with no parent carry it.
var EmptyHash = Hash{}

var errNotPrefixed = errors.New("could not byteify non 0x prefixed string")

// Hash used to store a blake2b hash
type Hash [HashLength]byte

// NewHash casts a byte slice to a Hash.
// If the input is longer than 32 bytes, it takes the first 32 bytes.
func NewHash(in []byte) (res Hash) {
	copy(res[:], in)
	return res
}

// ToBytes turns a hash to a byte slice
func (h Hash) ToBytes() []byte {
	b := [HashLength]byte(h)
	return b[:]
}

// IsEmpty returns true if the hash is empty, false otherwise.
func (h Hash) IsEmpty() bool {
	return h == EmptyHash
}

// String returns the hex string for the hash
func (h Hash) String() string {
	return fmt.Sprintf("0x%x", h[:])
}

// Short returns the first 4 bytes and the last 4 bytes of the hex string for the hash
func (h Hash) Short() string {
	const nBytes = 4
	return fmt.Sprintf("0x%x...%x", h[:nBytes], h[len(h)-nBytes:])
}

// MarshalText encodes the hash as 0x prefixed hex.
func (h Hash) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

// UnmarshalText decodes a 0x prefixed hex string into the hash.
func (h *Hash) UnmarshalText(text []byte) error {
	trimmed := strings.Trim(string(text), "\"")
	if len(trimmed) < 2 {
		return errors.New("invalid hash format")
	}

	decoded, err := HexToHash(trimmed)
	if err != nil {
		return err
	}
	*h = decoded
	return nil
}

// HexToHash turns a 0x prefixed hex string into type Hash.
// Inputs shorter than 32 bytes are right padded with zeroes,
// longer inputs are rejected.
func HexToHash(in string) (Hash, error) {
	out, err := HexToBytes(in)
	if err != nil {
		return Hash{}, err
	}
	if len(out) > HashLength {
		return Hash{}, fmt.Errorf("hash is %d bytes, expected at most %d", len(out), HashLength)
	}
	return NewHash(out), nil
}

// MustHexToHash turns a 0x prefixed hex string into type Hash
// it panics if it cannot turn the string into a Hash
func MustHexToHash(in string) Hash {
	h, err := HexToHash(in)
	if err != nil {
		panic(err)
	}
	return h
}
