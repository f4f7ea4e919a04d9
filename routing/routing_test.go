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
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tochemey/stage/address"
	"github.com/tochemey/stage/descriptor"
	gerrors "github.com/tochemey/stage/errors"
	"github.com/tochemey/stage/key"
)

var (
	nodeA = address.NewNodeIdentityWithID("node-a", "127.0.0.1", 9001)
	nodeB = address.NewNodeIdentityWithID("node-b", "127.0.0.1", 9002)
	nodeC = address.NewNodeIdentityWithID("node-c", "127.0.0.1", 9003)
)

// unreachableView fails every membership lookup
type unreachableView struct{}

func (unreachableView) Members(context.Context) ([]address.NodeIdentity, error) {
	return nil, errors.New("membership unavailable")
}

func actor(policy descriptor.RoutingPolicy) *descriptor.ActorDescriptor {
	return &descriptor.ActorDescriptor{Name: "Greeter", KeyKind: key.StringKind, Routing: policy}
}

func TestResolver(t *testing.T) {
	ctx := context.Background()

	t.Run("With no member", func(t *testing.T) {
		resolver := NewResolver(nodeA, NewStaticView(), NewMemoryDirectory())
		_, err := resolver.Resolve(ctx, actor(descriptor.DefaultRoutingPolicy), key.String("x"))
		require.Error(t, err)

		var noNode *gerrors.NoAvailableNodeError
		require.ErrorAs(t, err, &noNode)
		assert.Equal(t, "Greeter", noNode.ActorType)
	})

	t.Run("With local placement excluded", func(t *testing.T) {
		resolver := NewResolver(nodeA, NewStaticView(nodeA), NewMemoryDirectory())
		_, err := resolver.Resolve(ctx, actor(descriptor.RoutingPolicy{}), key.String("x"))
		assert.ErrorIs(t, err, gerrors.ErrNoAvailableNode)

		target, err := resolver.Resolve(ctx, actor(descriptor.DefaultRoutingPolicy), key.String("x"))
		require.NoError(t, err)
		assert.True(t, target.IsLocal())
	})

	t.Run("With forced local placement", func(t *testing.T) {
		resolver := NewResolver(nodeA, NewStaticView(), NewMemoryDirectory())
		target, err := resolver.Resolve(ctx, actor(descriptor.RoutingPolicy{ForceLocal: true}), key.String("x"))
		require.NoError(t, err)
		assert.True(t, target.IsLocal())
	})

	t.Run("With remote only placement", func(t *testing.T) {
		resolver := NewResolver(nodeA, NewStaticView(nodeA, nodeB), NewMemoryDirectory())
		for i := range 20 {
			target, err := resolver.Resolve(ctx, actor(descriptor.RoutingPolicy{}), key.Int32(int32(i)))
			require.NoError(t, err)
			assert.Equal(t, address.Remote(nodeB), target)
		}
	})

	t.Run("With stable placement shared by every node", func(t *testing.T) {
		view := NewStaticView(nodeA, nodeB, nodeC)
		directory := NewMemoryDirectory()
		resolvers := []*Resolver{
			NewResolver(nodeA, view, directory, WithStrategy(NewRandomStrategy())),
			NewResolver(nodeB, view, directory, WithStrategy(NewRandomStrategy())),
			NewResolver(nodeC, view, directory, WithStrategy(NewRandomStrategy())),
		}

		for i := range 10 {
			k := key.Int64(int64(i))
			var owners []address.NodeIdentity
			for _, resolver := range resolvers {
				target, err := resolver.Resolve(ctx, actor(descriptor.DefaultRoutingPolicy), k)
				require.NoError(t, err)
				owners = append(owners, target.Resolve(resolver.Self()))
			}
			assert.Equal(t, owners[0], owners[1])
			assert.Equal(t, owners[0], owners[2])
		}
		assert.Equal(t, 10, directory.Len())
	})

	t.Run("With concurrent placement claimed once", func(t *testing.T) {
		view := NewStaticView(nodeA, nodeB, nodeC)
		directory := NewMemoryDirectory()
		var wg sync.WaitGroup
		owners := make([]address.NodeIdentity, 30)
		for i := range owners {
			wg.Add(1)
			go func() {
				defer wg.Done()
				self := []address.NodeIdentity{nodeA, nodeB, nodeC}[i%3]
				resolver := NewResolver(self, view, directory, WithStrategy(NewRoundRobinStrategy()))
				target, err := resolver.Resolve(ctx, actor(descriptor.DefaultRoutingPolicy), key.String("shared"))
				assert.NoError(t, err)
				owners[i] = target.Resolve(self)
			}()
		}
		wg.Wait()
		for _, owner := range owners {
			assert.Equal(t, owners[0], owner)
		}
	})

	t.Run("With departed owner replaced", func(t *testing.T) {
		view := NewMutableView(nodeA, nodeB)
		directory := NewMemoryDirectory()
		id := ActivationID{ActorType: "Greeter", Key: key.String("x")}
		_, claimed, err := directory.PutIfAbsent(ctx, id, nodeC)
		require.NoError(t, err)
		require.True(t, claimed)

		resolver := NewResolver(nodeA, view, directory)
		target, err := resolver.Resolve(ctx, actor(descriptor.DefaultRoutingPolicy), key.String("x"))
		require.NoError(t, err)
		owner := target.Resolve(nodeA)
		assert.NotEqual(t, nodeC, owner)

		recorded, ok, err := directory.Get(ctx, id)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, owner, recorded)
	})

	t.Run("With a local owner served from the directory", func(t *testing.T) {
		directory := NewMemoryDirectory()
		id := ActivationID{ActorType: "Greeter", Key: key.String("x")}
		_, _, err := directory.PutIfAbsent(ctx, id, nodeA)
		require.NoError(t, err)

		resolver := NewResolver(nodeA, unreachableView{}, directory)
		target, err := resolver.Resolve(ctx, actor(descriptor.DefaultRoutingPolicy), key.String("x"))
		require.NoError(t, err)
		assert.True(t, target.IsLocal())

		// unplaced activations still need the membership
		_, err = resolver.Resolve(ctx, actor(descriptor.DefaultRoutingPolicy), key.String("y"))
		assert.ErrorContains(t, err, "membership unavailable")
	})

	t.Run("With forget", func(t *testing.T) {
		directory := NewMemoryDirectory()
		resolver := NewResolver(nodeA, NewStaticView(nodeA), directory)
		_, err := resolver.Resolve(ctx, actor(descriptor.DefaultRoutingPolicy), key.String("x"))
		require.NoError(t, err)
		require.NoError(t, resolver.Forget(ctx, ActivationID{ActorType: "Greeter", Key: key.String("x")}))
		assert.Zero(t, directory.Len())
	})
}

func TestStrategies(t *testing.T) {
	ctx := context.Background()
	candidates := []address.NodeIdentity{nodeA, nodeB, nodeC}
	id := ActivationID{ActorType: "Greeter", Key: key.String("x")}

	t.Run("With round robin", func(t *testing.T) {
		strategy := NewRoundRobinStrategy()
		for i := range 6 {
			node, err := strategy.Select(ctx, id, candidates)
			require.NoError(t, err)
			assert.Equal(t, candidates[i%3], node)
		}
	})

	t.Run("With random", func(t *testing.T) {
		strategy := NewRandomStrategy()
		for range 20 {
			node, err := strategy.Select(ctx, id, candidates)
			require.NoError(t, err)
			assert.Contains(t, candidates, node)
		}
	})

	t.Run("With rendezvous", func(t *testing.T) {
		strategy := NewRendezvousStrategy(nil)
		first, err := strategy.Select(ctx, id, candidates)
		require.NoError(t, err)
		again, err := strategy.Select(ctx, id, []address.NodeIdentity{nodeC, nodeB, nodeA})
		require.NoError(t, err)
		assert.Equal(t, first, again)

		// only activations of a removed node move
		remaining := make([]address.NodeIdentity, 0, 2)
		for _, candidate := range candidates {
			if !candidate.Equal(nodeC) {
				remaining = append(remaining, candidate)
			}
		}
		for i := range 50 {
			id := ActivationID{ActorType: "Greeter", Key: key.String(fmt.Sprintf("k-%d", i))}
			before, _ := strategy.Select(ctx, id, candidates)
			after, _ := strategy.Select(ctx, id, remaining)
			if !before.Equal(nodeC) {
				assert.Equal(t, before, after)
			}
		}
	})
}

func TestClusterViews(t *testing.T) {
	ctx := context.Background()

	view := NewMutableView()
	assert.True(t, view.Add(nodeB))
	assert.True(t, view.Add(nodeA))
	assert.False(t, view.Add(nodeA))
	assert.True(t, view.Contains(nodeA))

	members, err := view.Members(ctx)
	require.NoError(t, err)
	assert.Equal(t, []address.NodeIdentity{nodeA, nodeB}, members)

	view.Remove(nodeA)
	members, err = view.Members(ctx)
	require.NoError(t, err)
	assert.Equal(t, []address.NodeIdentity{nodeB}, members)

	static := NewStaticView(nodeC, nodeA)
	members, err = static.Members(ctx)
	require.NoError(t, err)
	assert.Equal(t, []address.NodeIdentity{nodeA, nodeC}, members)
}

func TestMemoryDirectory(t *testing.T) {
	ctx := context.Background()
	directory := NewMemoryDirectory()
	first := ActivationID{ActorType: "Greeter", Key: key.Int32(1)}
	second := ActivationID{ActorType: "Greeter", Key: key.Int32(2)}

	owner, claimed, err := directory.PutIfAbsent(ctx, first, nodeA)
	require.NoError(t, err)
	assert.True(t, claimed)
	assert.Equal(t, nodeA, owner)

	owner, claimed, err = directory.PutIfAbsent(ctx, first, nodeB)
	require.NoError(t, err)
	assert.False(t, claimed)
	assert.Equal(t, nodeA, owner)

	_, _, err = directory.PutIfAbsent(ctx, second, nodeA)
	require.NoError(t, err)
	require.NoError(t, directory.RemoveNode(ctx, nodeA))
	assert.Zero(t, directory.Len())

	_, ok, err := directory.Get(ctx, first)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, "Greeter/int32:1", first.String())
}

func TestActivationIDEncode(t *testing.T) {
	// both render as String/string:b/none
	first := ActivationID{ActorType: "String", Key: key.String("b/none")}
	second := ActivationID{ActorType: "String/string:b", Key: key.NoKey()}
	require.Equal(t, first.String(), second.String())

	assert.NotEqual(t, first.Encode(), second.Encode())
	assert.Equal(t, "6:String/string:b/none", first.Encode())
	assert.Equal(t, ActivationID{ActorType: "String", Key: key.String("b/none")}.Encode(), first.Encode())
}
