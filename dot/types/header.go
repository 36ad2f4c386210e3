// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package types

import (
	"bytes"
	"errors"
	"fmt"
	"math/big"

	"github.com/ChainSafe/grandpa-bridge/lib/common"

	"github.com/centrifuge/go-substrate-rpc-client/v4/scale"
)

// ErrInvalidHeader is returned when a header cannot be decoded.
var ErrInvalidHeader = errors.New("invalid header")

// BlockNumber is the block number type of the bridged chain.
type BlockNumber = uint32

// Header is a block header of the bridged chain. Headers are immutable,
// the hash is computed once on construction or decoding.
type Header struct {
	parentHash     common.Hash
	number         BlockNumber
	stateRoot      common.Hash
	extrinsicsRoot common.Hash
	digest         Digest
	hash           common.Hash
}

// NewHeader creates a new block header and sets its hash field
func NewHeader(parentHash, stateRoot, extrinsicsRoot common.Hash, number BlockNumber, digest Digest) (*Header, error) {
	bh := &Header{
		parentHash:     parentHash,
		number:         number,
		stateRoot:      stateRoot,
		extrinsicsRoot: extrinsicsRoot,
		digest:         digest.copy(),
	}

	err := bh.setHash()
	if err != nil {
		return nil, err
	}
	return bh, nil
}

func (bh *Header) setHash() error {
	enc, err := bh.MarshalSCALE()
	if err != nil {
		return err
	}

	bh.hash, err = common.Blake2bHash(enc)
	return err
}

// Hash returns the blake2b hash of the SCALE encoded header.
func (bh Header) Hash() common.Hash {
	return bh.hash
}

// ParentHash returns the hash of the parent header.
func (bh Header) ParentHash() common.Hash {
	return bh.parentHash
}

// Number returns the block number.
func (bh Header) Number() BlockNumber {
	return bh.number
}

// String returns the formatted header as a string
func (bh Header) String() string {
	return fmt.Sprintf("ParentHash=%s Number=%d StateRoot=%s ExtrinsicsRoot=%s Digest=%v Hash=%s",
		bh.parentHash, bh.number, bh.stateRoot, bh.extrinsicsRoot, bh.digest, bh.hash)
}

// Encode implements scale.Encodeable. The block number is compact encoded.
func (bh Header) Encode(encoder scale.Encoder) error {
	err := encoder.Encode(bh.parentHash)
	if err != nil {
		return err
	}

	err = encoder.EncodeUintCompact(*new(big.Int).SetUint64(uint64(bh.number)))
	if err != nil {
		return err
	}

	err = encoder.Encode(bh.stateRoot)
	if err != nil {
		return err
	}

	err = encoder.Encode(bh.extrinsicsRoot)
	if err != nil {
		return err
	}

	return bh.digest.Encode(encoder)
}

// Decode implements scale.Decodeable and sets the header hash.
func (bh *Header) Decode(decoder scale.Decoder) error {
	var decoded Header
	err := decoder.Decode(&decoded.parentHash)
	if err != nil {
		return err
	}

	number, err := decoder.DecodeUintCompact()
	if err != nil {
		return err
	}
	if !number.IsUint64() || number.Uint64() > uint64(^BlockNumber(0)) {
		return fmt.Errorf("%w: block number %s out of range", ErrInvalidHeader, number)
	}
	decoded.number = BlockNumber(number.Uint64())

	err = decoder.Decode(&decoded.stateRoot)
	if err != nil {
		return err
	}

	err = decoder.Decode(&decoded.extrinsicsRoot)
	if err != nil {
		return err
	}

	err = decoded.digest.Decode(decoder)
	if err != nil {
		return err
	}

	err = decoded.setHash()
	if err != nil {
		return err
	}

	*bh = decoded
	return nil
}

// MarshalSCALE returns the SCALE encoding of a header
func (bh Header) MarshalSCALE() ([]byte, error) {
	buffer := bytes.NewBuffer(nil)
	err := scale.NewEncoder(buffer).Encode(bh)
	if err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}
