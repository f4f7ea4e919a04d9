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
	"fmt"

	"github.com/tochemey/stage/address"
	"github.com/tochemey/stage/descriptor"
	gerrors "github.com/tochemey/stage/errors"
	"github.com/tochemey/stage/key"
	"github.com/tochemey/stage/log"
)

// Resolver maps an addressable to the node hosting its activation
type Resolver struct {
	self      address.NodeIdentity
	view      ClusterView
	directory Directory
	strategy  Strategy
	logger    log.Logger
}

// NewResolver creates a Resolver for the given node
func NewResolver(self address.NodeIdentity, view ClusterView, directory Directory, opts ...Option) *Resolver {
	resolver := &Resolver{
		self:      self,
		view:      view,
		directory: directory,
		strategy:  NewRendezvousStrategy(nil),
		logger:    log.DiscardLogger,
	}

	for _, opt := range opts {
		opt.Apply(resolver)
	}
	return resolver
}

// Resolve returns where the activation of (actor, k) lives, placing it when
// it has no owner yet. The directory is consulted first and an owner found
// there is kept while it is still a member. It fails with
// NoAvailableNodeError when no member is eligible to host it.
func (r *Resolver) Resolve(ctx context.Context, actor *descriptor.ActorDescriptor, k key.Key) (address.NetTarget, error) {
	if actor.Routing.ForceLocal {
		return address.Local(), nil
	}

	id := ActivationID{ActorType: actor.Name, Key: k}
	owner, ok, err := r.directory.Get(ctx, id)
	if err != nil {
		return address.NetTarget{}, fmt.Errorf("failed to lookup activation (%s): %w", id, err)
	}

	// the local node hosts what it owns for as long as it runs
	if ok && owner.Equal(r.self) {
		return address.Local(), nil
	}

	members, err := r.view.Members(ctx)
	if err != nil {
		return address.NetTarget{}, fmt.Errorf("failed to fetch cluster members: %w", err)
	}

	if ok {
		if contains(members, owner) {
			return r.target(owner), nil
		}

		r.logger.Debugf("activation (%s) owner (%s) left the cluster, replacing it", id, owner)
		if err := r.directory.Remove(ctx, id); err != nil {
			return address.NetTarget{}, fmt.Errorf("failed to remove activation (%s): %w", id, err)
		}
	}

	candidates := members
	if !actor.Routing.AllowLocal {
		candidates = make([]address.NodeIdentity, 0, len(members))
		for _, member := range members {
			if !member.Equal(r.self) {
				candidates = append(candidates, member)
			}
		}
	}

	if len(candidates) == 0 {
		return address.NetTarget{}, gerrors.NewNoAvailableNodeError(actor.Name)
	}

	chosen, err := r.strategy.Select(ctx, id, candidates)
	if err != nil {
		return address.NetTarget{}, err
	}

	owner, claimed, err := r.directory.PutIfAbsent(ctx, id, chosen)
	if err != nil {
		return address.NetTarget{}, fmt.Errorf("failed to claim activation (%s): %w", id, err)
	}

	if claimed {
		r.logger.Debugf("activation (%s) placed on (%s)", id, owner)
	}
	return r.target(owner), nil
}

// Forget removes the placement of an activation
func (r *Resolver) Forget(ctx context.Context, id ActivationID) error {
	return r.directory.Remove(ctx, id)
}

// Self returns the node the resolver runs on
func (r *Resolver) Self() address.NodeIdentity {
	return r.self
}

func (r *Resolver) target(owner address.NodeIdentity) address.NetTarget {
	if owner.Equal(r.self) {
		return address.Local()
	}
	return address.Remote(owner)
}

func contains(members []address.NodeIdentity, node address.NodeIdentity) bool {
	for _, member := range members {
		if member.Equal(node) {
			return true
		}
	}
	return false
}
