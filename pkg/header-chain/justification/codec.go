// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package justification

import (
	"bytes"
	"errors"
	"fmt"
	"math/big"

	grandpa "github.com/ChainSafe/grandpa-bridge/pkg/finality-grandpa"

	"github.com/centrifuge/go-substrate-rpc-client/v4/scale"
	"golang.org/x/exp/constraints"
)

var (
	// ErrJustificationTooLarge is returned when encoded justification exceeds
	// the maximum accepted size.
	ErrJustificationTooLarge = errors.New("justification too large")

	errSequenceTooLong = errors.New("sequence length exceeds remaining input")
	errTrailingBytes   = errors.New("trailing bytes after justification")
)

// DecodeJustification decodes a SCALE encoded justification no larger than
// maxSize bytes. Sequence lengths are checked against the number of items the
// remaining input can hold before anything is allocated.
func DecodeJustification[H comparable, N constraints.Unsigned, Hdr Header[H, N]](
	encoded []byte, maxSize int) (justification Justification[H, N, Hdr], err error) {
	if len(encoded) > maxSize {
		return justification, fmt.Errorf("%w: %d bytes, maximum is %d",
			ErrJustificationTooLarge, len(encoded), maxSize)
	}

	reader := bytes.NewReader(encoded)
	decoder := scale.NewDecoder(reader)

	err = decoder.Decode(&justification.Round)
	if err != nil {
		return justification, fmt.Errorf("decoding round: %w", err)
	}
	err = decoder.Decode(&justification.Commit.TargetHash)
	if err != nil {
		return justification, fmt.Errorf("decoding commit target hash: %w", err)
	}
	err = decoder.Decode(&justification.Commit.TargetNumber)
	if err != nil {
		return justification, fmt.Errorf("decoding commit target number: %w", err)
	}

	length, err := decodeLength(decoder, reader,
		minEncodedSize[grandpa.SignedPrecommit[H, N, AuthoritySignature, AuthorityID]]())
	if err != nil {
		return justification, fmt.Errorf("decoding precommits length: %w", err)
	}
	justification.Commit.Precommits =
		make([]grandpa.SignedPrecommit[H, N, AuthoritySignature, AuthorityID], length)
	for i := range justification.Commit.Precommits {
		err = decoder.Decode(&justification.Commit.Precommits[i])
		if err != nil {
			return justification, fmt.Errorf("decoding precommit %d: %w", i, err)
		}
	}

	length, err = decodeLength(decoder, reader, minEncodedSize[Hdr]())
	if err != nil {
		return justification, fmt.Errorf("decoding votes ancestries length: %w", err)
	}
	justification.VotesAncestries = make([]Hdr, length)
	for i := range justification.VotesAncestries {
		err = decoder.Decode(&justification.VotesAncestries[i])
		if err != nil {
			return justification, fmt.Errorf("decoding votes ancestry %d: %w", i, err)
		}
	}

	if reader.Len() != 0 {
		return justification, fmt.Errorf("%w: %d bytes", errTrailingBytes, reader.Len())
	}
	return justification, nil
}

// decodeLength decodes a compact sequence length of items taking at least
// itemSize bytes each, and fails if the remaining input cannot hold them.
func decodeLength(decoder *scale.Decoder, reader *bytes.Reader, itemSize int) (int, error) {
	length, err := decoder.DecodeUintCompact()
	if err != nil {
		return 0, err
	}
	maxItems := reader.Len() / itemSize
	if length.Cmp(big.NewInt(int64(maxItems))) > 0 {
		return 0, fmt.Errorf("%w: %s items of at least %d bytes for %d bytes",
			errSequenceTooLong, length, itemSize, reader.Len())
	}
	return int(length.Int64()), nil
}

// minEncodedSize returns the encoded size of the zero value of T. Zero values
// encode with the shortest compact lengths and integers, so no encoded T is
// smaller.
func minEncodedSize[T any]() int {
	var (
		zero   T
		buffer bytes.Buffer
	)
	err := scale.NewEncoder(&buffer).Encode(zero)
	if err != nil || buffer.Len() == 0 {
		return 1
	}
	return buffer.Len()
}

// EncodeJustification returns the SCALE encoding of the justification.
func EncodeJustification[H comparable, N constraints.Unsigned, Hdr Header[H, N]](
	justification Justification[H, N, Hdr]) ([]byte, error) {
	var buffer bytes.Buffer
	err := scale.NewEncoder(&buffer).Encode(justification)
	if err != nil {
		return nil, fmt.Errorf("encoding justification: %w", err)
	}
	return buffer.Bytes(), nil
}
