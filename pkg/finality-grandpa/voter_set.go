// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package grandpa

import (
	"errors"
	"math"

	"github.com/tidwall/btree"
	"golang.org/x/exp/slices"
)

var (
	// ErrEmptyVoterSet is returned when no voter with a non-zero weight is given.
	ErrEmptyVoterSet = errors.New("voter set is empty")
	// ErrVoterWeightOverflow is returned when the total voter weight exceeds the uint64 range.
	ErrVoterWeightOverflow = errors.New("total voter weight overflows")
)

// VoterWeight is the weight of a voter, or a sum of voter weights.
type VoterWeight uint64

// CheckedAdd adds other to the weight, failing instead of wrapping around.
func (vw *VoterWeight) CheckedAdd(other VoterWeight) error {
	if uint64(*vw) > math.MaxUint64-uint64(other) {
		return ErrVoterWeightOverflow
	}
	*vw += other
	return nil
}

// Identity is a voter identity with a total order.
type Identity[ID any] interface {
	comparable
	Compare(other ID) int
}

// IDWeight is a voter ID with its weight.
type IDWeight[ID any] struct {
	ID     ID
	Weight VoterWeight
}

type idVoterInfo[ID any] struct {
	ID ID
	VoterInfo
}

// A (non-empty) set of voters and associated weights.
//
// A `VoterSet` identifies all voters that are permitted to vote in a round
// of the protocol and their associated weights. A `VoterSet` is furthermore
// equipped with a total order, given by the ordering of the voter's IDs.
type VoterSet[ID Identity[ID]] struct {
	voters      []idVoterInfo[ID]
	threshold   VoterWeight
	totalWeight VoterWeight
}

// NewVoterSet creates a voter set from a weight distribution.
//
// If the distribution contains multiple weights for the same voter ID, they are
// understood to be partial weights and are accumulated. As a result, the
// order of the weights is irrelevant. Zero weights are ignored.
//
// It fails with ErrEmptyVoterSet if no non-zero weight is given, and with
// ErrVoterWeightOverflow if the total weight exceeds the uint64 range.
func NewVoterSet[ID Identity[ID]](weights []IDWeight[ID]) (*VoterSet[ID], error) {
	var totalWeight VoterWeight
	voters := btree.NewBTreeG(func(a, b idVoterInfo[ID]) bool {
		return a.ID.Compare(b.ID) < 0
	})
	for _, iw := range weights {
		if iw.Weight == 0 {
			continue
		}

		err := totalWeight.CheckedAdd(iw.Weight)
		if err != nil {
			return nil, err
		}

		voter, has := voters.Get(idVoterInfo[ID]{ID: iw.ID})
		if !has {
			voter = idVoterInfo[ID]{ID: iw.ID}
		}
		// cannot overflow, the total weight bounds every partial sum
		voter.weight += iw.Weight
		voters.Set(voter)
	}

	if voters.Len() == 0 {
		return nil, ErrEmptyVoterSet
	}

	orderedVoters := make([]idVoterInfo[ID], 0, voters.Len())
	voters.Scan(func(voter idVoterInfo[ID]) bool {
		orderedVoters = append(orderedVoters, voter)
		return true
	})

	return &VoterSet[ID]{
		voters:      orderedVoters,
		totalWeight: totalWeight,
		threshold:   Threshold(totalWeight),
	}, nil
}

// Get the voter info for the voter with the given ID, if any.
func (vs VoterSet[ID]) Get(id ID) *VoterInfo {
	idx, ok := slices.BinarySearchFunc(vs.voters, idVoterInfo[ID]{ID: id}, func(a, b idVoterInfo[ID]) int {
		return a.ID.Compare(b.ID)
	})
	if ok {
		info := vs.voters[idx].VoterInfo
		return &info
	}
	return nil
}

// Len returns the size of the set.
func (vs VoterSet[ID]) Len() int {
	return len(vs.voters)
}

// Threshold returns the threshold vote weight required for supermajority
// w.r.t. this set of voters.
func (vs VoterSet[ID]) Threshold() VoterWeight {
	return vs.threshold
}

// TotalWeight returns the total weight of all voters.
func (vs VoterSet[ID]) TotalWeight() VoterWeight {
	return vs.totalWeight
}

// VoterInfo is information about a voter in a `VoterSet`.
type VoterInfo struct {
	weight VoterWeight
}

// Weight returns the weight of the voter.
func (vi VoterInfo) Weight() VoterWeight {
	return vi.weight
}

// Threshold computes the supermajority threshold weight given the total
// voting weight, that is the smallest weight strictly greater than two thirds
// of the total. It is equal to floor(2*total/3)+1 without overflowing.
func Threshold(totalWeight VoterWeight) VoterWeight {
	if totalWeight == 0 {
		return 0
	}
	faulty := (totalWeight - 1) / 3
	return totalWeight - faulty
}
