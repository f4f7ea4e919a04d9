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

package codec

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/tochemey/stage/address"
	gerrors "github.com/tochemey/stage/errors"
	"github.com/tochemey/stage/internal/compression"
	"github.com/tochemey/stage/key"
	"github.com/tochemey/stage/message"
)

var (
	source = address.NewNodeIdentityWithID("node-a", "127.0.0.1", 9000)
	target = address.NewNodeIdentityWithID("node-b", "127.0.0.1", 9001)
)

func codecs(t *testing.T) map[string]*Codec {
	t.Helper()
	out := map[string]*Codec{}
	for _, algorithm := range []compression.Algorithm{compression.None, compression.Zstd, compression.Brotli} {
		compressor, err := compression.New(algorithm)
		require.NoError(t, err)
		out[algorithm.String()] = New(WithCompression(compressor))
	}
	return out
}

func TestCodecRequests(t *testing.T) {
	keys := []key.Key{
		key.NoKey(),
		key.Int32(1234),
		key.Int64(-5678),
		key.String("Hello"),
		key.Guid(uuid.New()),
	}

	for name, codec := range codecs(t) {
		t.Run(name, func(t *testing.T) {
			for _, k := range keys {
				msg := message.NewRequest(&message.Invocation{
					ActorType:   "Echo",
					Key:         k,
					Method:      "Echo",
					MethodIndex: 3,
					Args:        []proto.Message{wrapperspb.String("Hello"), nil, wrapperspb.Int32(42)},
				}, 10)
				msg.Source = source
				msg.Target = address.Remote(target)

				frame, err := codec.Encode(msg)
				require.NoError(t, err)
				assert.Equal(t, byte(codec.Algorithm()), frame[0])

				decoded, err := codec.Decode(frame)
				require.NoError(t, err)
				assert.True(t, decoded.HasID())
				assert.EqualValues(t, 10, decoded.ID())
				assert.Equal(t, source, decoded.Source)
				assert.Equal(t, address.Remote(target), decoded.Target)

				request, ok := decoded.Content.(*message.RequestInvocation)
				require.True(t, ok)
				invocation := request.Invocation
				assert.Equal(t, "Echo", invocation.ActorType)
				assert.True(t, k.Equal(invocation.Key), k.String())
				assert.Equal(t, "Echo", invocation.Method)
				assert.EqualValues(t, 3, invocation.MethodIndex)
				require.Len(t, invocation.Args, 3)
				assert.True(t, proto.Equal(wrapperspb.String("Hello"), invocation.Args[0]))
				assert.Nil(t, invocation.Args[1])
				assert.True(t, proto.Equal(wrapperspb.Int32(42), invocation.Args[2]))
			}
		})
	}
}

func TestCodecResponses(t *testing.T) {
	codec := New()

	t.Run("With normal response", func(t *testing.T) {
		msg := &message.Message{Content: &message.ResponseNormal{Value: wrapperspb.Int64(7)}, Source: target}
		msg.SetID(99)

		frame, err := codec.Encode(msg)
		require.NoError(t, err)
		decoded, err := codec.Decode(frame)
		require.NoError(t, err)

		assert.EqualValues(t, 99, decoded.ID())
		assert.True(t, decoded.Target.IsLocal())
		normal, ok := decoded.Content.(*message.ResponseNormal)
		require.True(t, ok)
		assert.True(t, proto.Equal(wrapperspb.Int64(7), normal.Value))
	})

	t.Run("With nil value", func(t *testing.T) {
		msg := &message.Message{Content: &message.ResponseNormal{}}
		msg.SetID(1)
		frame, err := codec.Encode(msg)
		require.NoError(t, err)
		decoded, err := codec.Decode(frame)
		require.NoError(t, err)
		assert.Nil(t, decoded.Content.(*message.ResponseNormal).Value)
	})

	t.Run("With error response", func(t *testing.T) {
		msg := &message.Message{Content: &message.ResponseError{Kind: "IllegalState", Message: "boom"}}
		msg.SetID(5)
		frame, err := codec.Encode(msg)
		require.NoError(t, err)
		decoded, err := codec.Decode(frame)
		require.NoError(t, err)

		failure, ok := decoded.Content.(*message.ResponseError)
		require.True(t, ok)
		assert.Equal(t, "IllegalState", failure.Kind)
		assert.Equal(t, "boom", failure.Message)
	})

	t.Run("With one-way request", func(t *testing.T) {
		msg := message.NewRequest(&message.Invocation{ActorType: "A", Key: key.NoKey(), Method: "M"}, 0)
		frame, err := codec.Encode(msg)
		require.NoError(t, err)
		decoded, err := codec.Decode(frame)
		require.NoError(t, err)
		assert.False(t, decoded.HasID())
	})
}

func TestCodecLargePayload(t *testing.T) {
	payload := strings.Repeat("x", 2*DefaultBufferSize)
	for name, codec := range codecs(t) {
		t.Run(name, func(t *testing.T) {
			msg := &message.Message{Content: &message.ResponseNormal{Value: wrapperspb.String(payload)}}
			msg.SetID(1)

			frame, err := codec.Encode(msg)
			require.NoError(t, err)
			decoded, err := codec.Decode(frame)
			require.NoError(t, err)
			assert.Equal(t, payload, decoded.Content.(*message.ResponseNormal).Value.(*wrapperspb.StringValue).GetValue())
		})
	}
}

func TestCodecCopySemantics(t *testing.T) {
	codec := New()
	beatles, err := structpb.NewList([]any{"John", "Ringo", "Paul", "George"})
	require.NoError(t, err)

	msg := &message.Message{Content: &message.ResponseNormal{Value: beatles}}
	msg.SetID(1)
	frame, err := codec.Encode(msg)
	require.NoError(t, err)
	decoded, err := codec.Decode(frame)
	require.NoError(t, err)

	copied := decoded.Content.(*message.ResponseNormal).Value.(*structpb.ListValue)
	assert.NotSame(t, beatles, copied)
	copied.Values = copied.Values[:1]
	assert.Len(t, beatles.GetValues(), 4)
}

func TestCodecDecodesAnyCompression(t *testing.T) {
	zstd, err := compression.New(compression.Zstd)
	require.NoError(t, err)
	producer := New(WithCompression(zstd))
	consumer := New()

	msg := &message.Message{Content: &message.ResponseNormal{Value: wrapperspb.String("Hola")}}
	msg.SetID(3)
	frame, err := producer.Encode(msg)
	require.NoError(t, err)

	decoded, err := consumer.Decode(frame)
	require.NoError(t, err)
	assert.True(t, proto.Equal(wrapperspb.String("Hola"), decoded.Content.(*message.ResponseNormal).Value))
}

func TestCodecInvalidInput(t *testing.T) {
	codec := New()

	_, err := codec.Encode(nil)
	assert.ErrorIs(t, err, gerrors.ErrInvalidMessage)
	_, err = codec.Encode(&message.Message{})
	assert.ErrorIs(t, err, gerrors.ErrInvalidMessage)

	for _, frame := range [][]byte{nil, {0}, {0, 0xff, 0xff}, {42, 1, 2}, {byte(compression.Zstd), 1, 2, 3}} {
		_, err := codec.Decode(frame)
		assert.ErrorIs(t, err, gerrors.ErrInvalidMessage)
	}
}
