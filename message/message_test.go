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

package message

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/tochemey/stage/address"
	"github.com/tochemey/stage/key"
)

func TestInvocation(t *testing.T) {
	beatles, err := structpb.NewList([]any{"John", "Ringo", "Paul", "George"})
	require.NoError(t, err)

	invocation := &Invocation{
		ActorType: "Band",
		Key:       key.String("beatles"),
		Method:    "Members",
		Args:      []proto.Message{beatles, nil},
	}
	assert.Equal(t, "Band(string:beatles).Members", invocation.String())

	clone := invocation.Clone()
	require.Len(t, clone.Args, 2)
	assert.Nil(t, clone.Args[1])
	assert.True(t, proto.Equal(beatles, clone.Args[0]))

	clone.Args[0].(*structpb.ListValue).Values[0] = structpb.NewStringValue("Pete")
	assert.Equal(t, "John", beatles.GetValues()[0].GetStringValue())
}

func TestMessage(t *testing.T) {
	self := address.NewNodeIdentityWithID("a", "127.0.0.1", 1)
	other := address.NewNodeIdentityWithID("b", "127.0.0.1", 2)

	t.Run("With one-way request", func(t *testing.T) {
		msg := NewRequest(&Invocation{ActorType: "A", Key: key.NoKey(), Method: "M"}, 0)
		assert.False(t, msg.HasID())
		assert.Zero(t, msg.ID())
	})

	t.Run("With reply", func(t *testing.T) {
		msg := NewRequest(&Invocation{ActorType: "A", Key: key.NoKey(), Method: "M"}, 42)
		msg.Source = self
		msg.Target = address.Remote(other)

		reply := msg.Reply(other, &ResponseNormal{Value: wrapperspb.String("ok")})
		assert.True(t, reply.HasID())
		assert.EqualValues(t, 42, reply.ID())
		assert.Equal(t, other, reply.Source)
		assert.Equal(t, address.Remote(self), reply.Target)
		assert.Contains(t, reply.String(), "response[id=42")
		assert.Contains(t, msg.String(), "request A(none).M")
	})

	t.Run("With direction names", func(t *testing.T) {
		assert.Equal(t, "outbound", Outbound.String())
		assert.Equal(t, "inbound", Inbound.String())
	})
}
