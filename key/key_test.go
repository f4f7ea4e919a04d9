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

package key

import (
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gerrors "github.com/tochemey/stage/errors"
)

func TestKey(t *testing.T) {
	guid := uuid.New()

	t.Run("With structural equality", func(t *testing.T) {
		testCases := []struct {
			name  string
			left  Key
			right Key
			equal bool
		}{
			{name: "no key", left: NoKey(), right: NoKey(), equal: true},
			{name: "zero value is no key", left: Key{}, right: NoKey(), equal: true},
			{name: "same int32", left: Int32(1234), right: Int32(1234), equal: true},
			{name: "different int32", left: Int32(1234), right: Int32(4321), equal: false},
			{name: "same int64", left: Int64(5432), right: Int64(5432), equal: true},
			{name: "int32 and int64 with same value", left: Int32(10), right: Int64(10), equal: false},
			{name: "same string", left: String("MyKey"), right: String("MyKey"), equal: true},
			{name: "different string", left: String("MyKey"), right: String("mykey"), equal: false},
			{name: "same guid", left: Guid(guid), right: Guid(guid), equal: true},
			{name: "different guid", left: Guid(guid), right: Guid(uuid.New()), equal: false},
			{name: "empty string and no key", left: String(""), right: NoKey(), equal: false},
			{name: "zero int64 and no key", left: Int64(0), right: NoKey(), equal: false},
		}

		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				assert.Equal(t, tc.equal, tc.left.Equal(tc.right))
				assert.Equal(t, tc.equal, tc.left == tc.right)
				if tc.equal {
					assert.Equal(t, tc.left.Hash(), tc.right.Hash())
				}
			})
		}
	})

	t.Run("With map key usage", func(t *testing.T) {
		activations := map[Key]int{}
		activations[String("a")]++
		activations[String("a")]++
		activations[Int64(1)]++
		assert.Len(t, activations, 2)
		assert.Equal(t, 2, activations[String("a")])
	})

	t.Run("With typed accessors", func(t *testing.T) {
		v32, ok := Int32(7).Int32Value()
		require.True(t, ok)
		assert.EqualValues(t, 7, v32)

		_, ok = Int32(7).Int64Value()
		assert.False(t, ok)

		v64, ok := Int64(-9).Int64Value()
		require.True(t, ok)
		assert.EqualValues(t, -9, v64)

		text, ok := String("x").StringValue()
		require.True(t, ok)
		assert.Equal(t, "x", text)

		id, ok := Guid(guid).GuidValue()
		require.True(t, ok)
		assert.Equal(t, guid, id)

		_, ok = NoKey().GuidValue()
		assert.False(t, ok)
	})

	t.Run("With MatchKind", func(t *testing.T) {
		require.NoError(t, Int64(1).MatchKind(Int64Kind))
		require.NoError(t, NoKey().MatchKind(NoKeyKind))

		err := String("a").MatchKind(Int64Kind)
		require.Error(t, err)
		assert.ErrorIs(t, err, gerrors.ErrKeyMismatch)

		var mismatch *gerrors.KeyMismatchError
		require.ErrorAs(t, err, &mismatch)
		assert.Equal(t, "int64", mismatch.Expected)
		assert.Equal(t, "string", mismatch.Actual)
	})

	t.Run("With string round trip", func(t *testing.T) {
		keys := []Key{NoKey(), Int32(-3), Int64(1 << 40), String("with:colon"), Guid(guid)}
		for _, k := range keys {
			parsed, err := Parse(k.String())
			require.NoError(t, err)
			assert.Equal(t, k, parsed)
		}
		assert.Equal(t, "int32:1234", Int32(1234).String())
		assert.Equal(t, "none", NoKey().String())
	})

	t.Run("With invalid strings", func(t *testing.T) {
		for _, s := range []string{"", "int32", "int32:abc", "int32:99999999999", "guid:nope", "float:1"} {
			_, err := Parse(s)
			assert.Error(t, err, s)
		}
	})

	t.Run("With binary round trip", func(t *testing.T) {
		keys := []Key{NoKey(), Int32(-3), Int64(1 << 40), String(""), String("MyKey"), Guid(guid)}
		for _, k := range keys {
			bytea, err := k.MarshalBinary()
			require.NoError(t, err)

			var decoded Key
			require.NoError(t, decoded.UnmarshalBinary(bytea))
			assert.Equal(t, k, decoded)
		}
	})

	t.Run("With invalid binary", func(t *testing.T) {
		var decoded Key
		assert.Error(t, decoded.UnmarshalBinary(nil))
		assert.Error(t, decoded.UnmarshalBinary([]byte{byte(Int64Kind), 1}))
		assert.Error(t, decoded.UnmarshalBinary([]byte{byte(GuidKind), 1, 2}))
		assert.Error(t, decoded.UnmarshalBinary([]byte{42}))

		// an Int32 key carrying a value no int32 can hold
		outOfRange, err := Int64(math.MaxInt32 + 1).MarshalBinary()
		require.NoError(t, err)
		outOfRange[0] = byte(Int32Kind)
		assert.ErrorContains(t, decoded.UnmarshalBinary(outOfRange), "out of range")

		lowest, err := Int32(math.MinInt32).MarshalBinary()
		require.NoError(t, err)
		require.NoError(t, decoded.UnmarshalBinary(lowest))
		assert.Equal(t, Int32(math.MinInt32), decoded)
	})

	t.Run("With distinct hashes across variants", func(t *testing.T) {
		assert.NotEqual(t, Int32(1).Hash(), Int64(1).Hash())
		assert.NotEqual(t, String("1").Hash(), Int64(1).Hash())
	})
}

func TestKind(t *testing.T) {
	for _, kind := range []Kind{NoKeyKind, Int32Kind, Int64Kind, StringKind, GuidKind} {
		assert.Equal(t, kind, ParseKind(kind.String()))
	}
	assert.Equal(t, InvalidKind, ParseKind("float"))
	assert.Equal(t, "invalid", Kind(99).String())
}
