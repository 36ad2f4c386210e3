// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package grandpa

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testID string

func (id testID) Compare(other testID) int {
	return strings.Compare(string(id), string(other))
}

func TestNewVoterSet(t *testing.T) {
	t.Parallel()

	testCases := map[string]struct {
		weights     []IDWeight[testID]
		ids         []testID
		totalWeight VoterWeight
		threshold   VoterWeight
		err         error
	}{
		"no_weights": {
			err: ErrEmptyVoterSet,
		},
		"only_zero_weights": {
			weights: []IDWeight[testID]{{ID: "a"}, {ID: "b"}},
			err:     ErrEmptyVoterSet,
		},
		"overflow": {
			weights: []IDWeight[testID]{
				{ID: "a", Weight: math.MaxUint64},
				{ID: "b", Weight: 1},
			},
			err: ErrVoterWeightOverflow,
		},
		"ordered_by_id": {
			weights: []IDWeight[testID]{
				{ID: "c", Weight: 1},
				{ID: "a", Weight: 2},
				{ID: "zero"},
				{ID: "b", Weight: 3},
			},
			ids:         []testID{"a", "b", "c"},
			totalWeight: 6,
			threshold:   5,
		},
		"partial_weights_accumulate": {
			weights: []IDWeight[testID]{
				{ID: "a", Weight: 1},
				{ID: "b", Weight: 1},
				{ID: "a", Weight: 2},
			},
			ids:         []testID{"a", "b"},
			totalWeight: 4,
			threshold:   3,
		},
	}

	for name, testCase := range testCases {
		testCase := testCase
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			voters, err := NewVoterSet(testCase.weights)
			if testCase.err != nil {
				require.ErrorIs(t, err, testCase.err)
				require.Nil(t, voters)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, len(testCase.ids), voters.Len())
			for _, id := range testCase.ids {
				assert.NotNil(t, voters.Get(id), "voter %s", id)
			}
			assert.Nil(t, voters.Get("zero"))
			assert.Equal(t, testCase.totalWeight, voters.TotalWeight())
			assert.Equal(t, testCase.threshold, voters.Threshold())
		})
	}
}

func TestVoterSet_Get(t *testing.T) {
	t.Parallel()

	voters, err := NewVoterSet([]IDWeight[testID]{
		{ID: "bob", Weight: 3},
		{ID: "alice", Weight: 5},
	})
	require.NoError(t, err)

	info := voters.Get("alice")
	require.NotNil(t, info)
	assert.Equal(t, VoterWeight(5), info.Weight())

	info = voters.Get("bob")
	require.NotNil(t, info)
	assert.Equal(t, VoterWeight(3), info.Weight())

	assert.Nil(t, voters.Get("charlie"))
}

func TestThreshold(t *testing.T) {
	t.Parallel()

	assert.Equal(t, VoterWeight(0), Threshold(0))
	assert.Equal(t, VoterWeight(math.MaxUint64-(math.MaxUint64-1)/3), Threshold(math.MaxUint64))

	previous := VoterWeight(0)
	for total := VoterWeight(1); total <= 200; total++ {
		threshold := Threshold(total)
		assert.Equal(t, 2*total/3+1, threshold, "total weight %d", total)
		// strictly more than two thirds
		assert.Greater(t, 3*threshold, 2*total, "total weight %d", total)
		assert.GreaterOrEqual(t, threshold, previous)
		previous = threshold
	}

	// fewer than 3 voters require every vote
	assert.Equal(t, VoterWeight(1), Threshold(1))
	assert.Equal(t, VoterWeight(2), Threshold(2))
	assert.Equal(t, VoterWeight(3), Threshold(3))
}

func TestVoterWeight_CheckedAdd(t *testing.T) {
	t.Parallel()

	weight := VoterWeight(math.MaxUint64 - 1)
	require.NoError(t, weight.CheckedAdd(1))
	assert.Equal(t, VoterWeight(math.MaxUint64), weight)

	err := weight.CheckedAdd(1)
	require.ErrorIs(t, err, ErrVoterWeightOverflow)
	assert.Equal(t, VoterWeight(math.MaxUint64), weight)
}
