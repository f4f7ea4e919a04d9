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

package descriptor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"

	gerrors "github.com/tochemey/stage/errors"
	"github.com/tochemey/stage/key"
)

func noop(context.Context, any, []proto.Message) (proto.Message, error) {
	return nil, nil
}

func TestActorDescriptor(t *testing.T) {
	descriptor := &ActorDescriptor{
		Name:    "Greeter",
		KeyKind: key.StringKind,
		Routing: DefaultRoutingPolicy,
		Methods: []*MethodDescriptor{
			{Name: "Greet", Index: 0, Invoke: noop},
			{Name: "Count", Index: 1, Invoke: noop},
		},
	}

	t.Run("With valid descriptor", func(t *testing.T) {
		require.NoError(t, descriptor.Validate())
		assert.Equal(t, "safe", descriptor.Execution.String())
		assert.Equal(t, "concurrent", Concurrent.String())
	})

	t.Run("With method lookup", func(t *testing.T) {
		method, err := descriptor.Method("Count")
		require.NoError(t, err)
		assert.EqualValues(t, 1, method.Index)

		method, err = descriptor.MethodByIndex(0)
		require.NoError(t, err)
		assert.Equal(t, "Greet", method.Name)

		_, err = descriptor.Method("Unknown")
		assert.ErrorIs(t, err, gerrors.ErrMethodNotFound)
		_, err = descriptor.MethodByIndex(9)
		assert.ErrorIs(t, err, gerrors.ErrMethodNotFound)
	})

	t.Run("With invalid descriptors", func(t *testing.T) {
		testCases := map[string]*ActorDescriptor{
			"empty name":        {KeyKind: key.NoKeyKind},
			"invalid kind":      {Name: "A", KeyKind: key.InvalidKind},
			"invalid execution": {Name: "A", Execution: ExecutionStrategy(7)},
			"duplicate name": {Name: "A", Methods: []*MethodDescriptor{
				{Name: "M", Index: 0, Invoke: noop}, {Name: "M", Index: 1, Invoke: noop},
			}},
			"duplicate index": {Name: "A", Methods: []*MethodDescriptor{
				{Name: "M", Index: 0, Invoke: noop}, {Name: "N", Index: 0, Invoke: noop},
			}},
			"missing invoker": {Name: "A", Methods: []*MethodDescriptor{{Name: "M"}}},
		}
		for name, descriptor := range testCases {
			t.Run(name, func(t *testing.T) {
				assert.Error(t, descriptor.Validate())
			})
		}
	})
}
