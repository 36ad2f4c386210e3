// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package types

import (
	"fmt"
	"math/big"

	"github.com/centrifuge/go-substrate-rpc-client/v4/scale"
	"golang.org/x/exp/slices"
)

const (
	// otherDigestIndex is the SCALE variant index of an `Other` digest item.
	otherDigestIndex byte = 0
	// digestItemChunkSize is the number of bytes a digest item buffer grows
	// by while decoding, so that its size follows the input actually read.
	digestItemChunkSize = 1 << 10
)

// DigestItem is an opaque digest log carried by a bridged header.
// It encodes as the `Other` digest variant.
type DigestItem []byte

// Digest is the list of digest logs of a header.
type Digest []DigestItem

func (d Digest) copy() Digest {
	if d == nil {
		return nil
	}
	cp := make(Digest, len(d))
	for i, item := range d {
		cp[i] = append(DigestItem(nil), item...)
	}
	return cp
}

// Encode implements scale.Encodeable
func (d Digest) Encode(encoder scale.Encoder) error {
	err := encoder.EncodeUintCompact(*big.NewInt(int64(len(d))))
	if err != nil {
		return err
	}

	for _, item := range d {
		err = encoder.PushByte(otherDigestIndex)
		if err != nil {
			return err
		}
		err = encoder.Encode([]byte(item))
		if err != nil {
			return err
		}
	}
	return nil
}

// Decode implements scale.Decodeable
func (d *Digest) Decode(decoder scale.Decoder) error {
	length, err := decoder.DecodeUintCompact()
	if err != nil {
		return err
	}
	if !length.IsUint64() {
		return fmt.Errorf("%w: digest length %s", ErrInvalidHeader, length)
	}

	items := Digest{}
	for i := uint64(0); i < length.Uint64(); i++ {
		index, err := decoder.ReadOneByte()
		if err != nil {
			return err
		}
		if index != otherDigestIndex {
			return fmt.Errorf("%w: unsupported digest item variant %d", ErrInvalidHeader, index)
		}

		item, err := decodeDigestItem(decoder)
		if err != nil {
			return err
		}
		items = append(items, item)
	}

	*d = items
	return nil
}

// decodeDigestItem reads a length prefixed digest item. The claimed length is
// not trusted: bytes are read in chunks and the read fails on the first
// missing byte.
func decodeDigestItem(decoder scale.Decoder) (DigestItem, error) {
	length, err := decoder.DecodeUintCompact()
	if err != nil {
		return nil, err
	}
	if !length.IsUint64() {
		return nil, fmt.Errorf("%w: digest item length %s", ErrInvalidHeader, length)
	}

	remaining := length.Uint64()
	item := make(DigestItem, 0, min(remaining, digestItemChunkSize))
	for remaining > 0 {
		chunk := int(min(remaining, digestItemChunkSize))
		start := len(item)
		item = slices.Grow(item, chunk)[:start+chunk]
		err = decoder.Read(item[start:])
		if err != nil {
			return nil, fmt.Errorf("%w: digest item of %s bytes: %w", ErrInvalidHeader, length, err)
		}
		remaining -= uint64(chunk)
	}
	return item, nil
}
