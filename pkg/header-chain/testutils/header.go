// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package testutils

import (
	"fmt"

	"github.com/ChainSafe/grandpa-bridge/dot/types"
	"github.com/ChainSafe/grandpa-bridge/lib/common"
	grandpa "github.com/ChainSafe/grandpa-bridge/pkg/finality-grandpa"
)

// TestHeader returns a header with the given number whose parent is the
// header with the previous number and empty fields.
func TestHeader(number types.BlockNumber) types.Header {
	parentHash := common.EmptyHash
	if number != 0 {
		parentHash = newHeader(common.EmptyHash, number-1, nil).Hash()
	}
	return newHeader(parentHash, number, nil)
}

// HeaderID returns the hash and number of TestHeader(number).
func HeaderID(number types.BlockNumber) grandpa.HashNumber[common.Hash, types.BlockNumber] {
	return grandpa.HashNumber[common.Hash, types.BlockNumber]{
		Hash:   TestHeader(number).Hash(),
		Number: number,
	}
}

func newHeader(parentHash common.Hash, number types.BlockNumber, digest types.Digest) types.Header {
	header, err := types.NewHeader(parentHash, common.EmptyHash, common.EmptyHash, number, digest)
	if err != nil {
		panic(fmt.Sprintf("creating header #%d: %s", number, err))
	}
	return *header
}
