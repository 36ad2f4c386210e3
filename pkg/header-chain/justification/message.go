// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package justification

import (
	"bytes"
	"fmt"

	grandpa "github.com/ChainSafe/grandpa-bridge/pkg/finality-grandpa"

	"github.com/centrifuge/go-substrate-rpc-client/v4/scale"
	"golang.org/x/exp/constraints"
)

// precommitStage is the index of the precommit variant of a GRANDPA message.
const precommitStage uint8 = 1

// fullPrecommit is the message an authority signs when precommitting.
type fullPrecommit[H comparable, N constraints.Unsigned] struct {
	Stage     uint8
	Precommit grandpa.Precommit[H, N]
	Round     uint64
	SetID     uint64
}

// SigningPayload returns the encoded message that an authority of the set
// setID signs to precommit in the given round.
func SigningPayload[H comparable, N constraints.Unsigned](
	precommit grandpa.Precommit[H, N], round, setID uint64) ([]byte, error) {
	var buffer bytes.Buffer
	err := encodeSigningPayload(&buffer, precommit, round, setID)
	if err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

// encodeSigningPayload resets the buffer and writes the signing payload to it.
func encodeSigningPayload[H comparable, N constraints.Unsigned](
	buffer *bytes.Buffer, precommit grandpa.Precommit[H, N], round, setID uint64) error {
	buffer.Reset()
	err := scale.NewEncoder(buffer).Encode(fullPrecommit[H, N]{
		Stage:     precommitStage,
		Precommit: precommit,
		Round:     round,
		SetID:     setID,
	})
	if err != nil {
		return fmt.Errorf("encoding signing payload: %w", err)
	}
	return nil
}
