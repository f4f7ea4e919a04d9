// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package routing

import (
	"context"
	"math/rand/v2"

	"go.uber.org/atomic"

	"github.com/tochemey/stage/address"
	"github.com/tochemey/stage/hash"
)

// Strategy picks the node that hosts a new activation.
// Callers never pass an empty candidate list.
type Strategy interface {
	Select(ctx context.Context, id ActivationID, candidates []address.NodeIdentity) (address.NodeIdentity, error)
}

// RandomStrategy picks a candidate uniformly at random
type RandomStrategy struct{}

var _ Strategy = RandomStrategy{}

// NewRandomStrategy creates a RandomStrategy
func NewRandomStrategy() RandomStrategy {
	return RandomStrategy{}
}

// Select implements Strategy
func (RandomStrategy) Select(_ context.Context, _ ActivationID, candidates []address.NodeIdentity) (address.NodeIdentity, error) {
	return candidates[rand.IntN(len(candidates))], nil
}

// RoundRobinStrategy cycles through the candidates
type RoundRobinStrategy struct {
	next *atomic.Uint64
}

var _ Strategy = (*RoundRobinStrategy)(nil)

// NewRoundRobinStrategy creates a RoundRobinStrategy
func NewRoundRobinStrategy() *RoundRobinStrategy {
	return &RoundRobinStrategy{next: atomic.NewUint64(0)}
}

// Select implements Strategy
func (s *RoundRobinStrategy) Select(_ context.Context, _ ActivationID, candidates []address.NodeIdentity) (address.NodeIdentity, error) {
	index := (s.next.Inc() - 1) % uint64(len(candidates))
	return candidates[index], nil
}

// RendezvousStrategy picks the candidate with the highest hash of
// (activation, node). A given activation lands on the same node for a given
// membership, and only activations of departed nodes move when it shrinks.
type RendezvousStrategy struct {
	hasher hash.Hasher
}

var _ Strategy = (*RendezvousStrategy)(nil)

// NewRendezvousStrategy creates a RendezvousStrategy
func NewRendezvousStrategy(hasher hash.Hasher) *RendezvousStrategy {
	if hasher == nil {
		hasher = hash.DefaultHasher()
	}
	return &RendezvousStrategy{hasher: hasher}
}

// Select implements Strategy
func (s *RendezvousStrategy) Select(_ context.Context, id ActivationID, candidates []address.NodeIdentity) (address.NodeIdentity, error) {
	activation := id.Encode()

	var (
		best      address.NodeIdentity
		bestScore uint64
	)
	for index, candidate := range candidates {
		score := hash.Weight(s.hasher, activation, candidate.ID())
		if index == 0 || score > bestScore || (score == bestScore && candidate.ID() < best.ID()) {
			best = candidate
			bestScore = score
		}
	}
	return best, nil
}
