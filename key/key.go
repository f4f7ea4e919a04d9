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

// Package key defines the identity of addressable actor activations.
//
// A Key is a tagged union over five variants:
//
//   - NoKey: at most one activation per actor type
//   - Int32 / Int64: numeric identities
//   - String: textual identities
//   - Guid: 128-bit identities
//
// Keys are immutable values. Two keys are equal when both their variant and
// their value are equal, which makes Key usable as a Go map key. Together
// with the actor type name a Key fully determines a logical actor.
package key

import (
	"encoding"
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/zeebo/xxh3"

	gerrors "github.com/tochemey/stage/errors"
)

const kindSeparator = ":"

// Key identifies an activation of an addressable actor type.
// The zero value is NoKey.
type Key struct {
	kind   Kind
	number int64
	text   string
	guid   uuid.UUID
}

var (
	_ fmt.Stringer               = Key{}
	_ encoding.BinaryMarshaler   = Key{}
	_ encoding.BinaryUnmarshaler = (*Key)(nil)
)

// NoKey returns the key of singleton-per-type actors
func NoKey() Key {
	return Key{kind: NoKeyKind}
}

// Int32 returns an Int32 key
func Int32(value int32) Key {
	return Key{kind: Int32Kind, number: int64(value)}
}

// Int64 returns an Int64 key
func Int64(value int64) Key {
	return Key{kind: Int64Kind, number: value}
}

// String returns a String key
func String(value string) Key {
	return Key{kind: StringKind, text: value}
}

// Guid returns a Guid key
func Guid(value uuid.UUID) Key {
	return Key{kind: GuidKind, guid: value}
}

// Kind returns the key variant
func (k Key) Kind() Kind {
	return k.kind
}

// Int32Value returns the value of an Int32 key
func (k Key) Int32Value() (int32, bool) {
	if k.kind != Int32Kind {
		return 0, false
	}
	return int32(k.number), true
}

// Int64Value returns the value of an Int64 key
func (k Key) Int64Value() (int64, bool) {
	if k.kind != Int64Kind {
		return 0, false
	}
	return k.number, true
}

// StringValue returns the value of a String key
func (k Key) StringValue() (string, bool) {
	if k.kind != StringKind {
		return "", false
	}
	return k.text, true
}

// GuidValue returns the value of a Guid key
func (k Key) GuidValue() (uuid.UUID, bool) {
	if k.kind != GuidKind {
		return uuid.Nil, false
	}
	return k.guid, true
}

// Equal reports whether both keys have the same variant and value
func (k Key) Equal(other Key) bool {
	return k == other
}

// Hash returns a structural hash of the key. Equal keys have equal hashes.
func (k Key) Hash() uint64 {
	bytea, _ := k.MarshalBinary()
	return xxh3.Hash(bytea)
}

// MatchKind returns a KeyMismatchError when the key variant differs from the expected kind
func (k Key) MatchKind(expected Kind) error {
	if k.kind != expected {
		return gerrors.NewKeyMismatchError(expected.String(), k.kind.String())
	}
	return nil
}

// String returns the textual form of the key: "kind:value", or "none" for NoKey
func (k Key) String() string {
	switch k.kind {
	case NoKeyKind:
		return NoKeyKind.String()
	case Int32Kind, Int64Kind:
		return k.kind.String() + kindSeparator + strconv.FormatInt(k.number, 10)
	case StringKind:
		return k.kind.String() + kindSeparator + k.text
	case GuidKind:
		return k.kind.String() + kindSeparator + k.guid.String()
	default:
		return InvalidKind.String()
	}
}

// Parse reconstructs a Key from its textual form
func Parse(s string) (Key, error) {
	if s == NoKeyKind.String() {
		return NoKey(), nil
	}

	parts := strings.SplitN(s, kindSeparator, 2)
	if len(parts) != 2 {
		return Key{}, fmt.Errorf("invalid key (%s)", s)
	}

	kind := ParseKind(parts[0])
	switch kind {
	case Int32Kind:
		value, err := strconv.ParseInt(parts[1], 10, 32)
		if err != nil {
			return Key{}, fmt.Errorf("invalid int32 key (%s): %w", s, err)
		}
		return Int32(int32(value)), nil
	case Int64Kind:
		value, err := strconv.ParseInt(parts[1], 10, 64)
		if err != nil {
			return Key{}, fmt.Errorf("invalid int64 key (%s): %w", s, err)
		}
		return Int64(value), nil
	case StringKind:
		return String(parts[1]), nil
	case GuidKind:
		value, err := uuid.Parse(parts[1])
		if err != nil {
			return Key{}, fmt.Errorf("invalid guid key (%s): %w", s, err)
		}
		return Guid(value), nil
	default:
		return Key{}, fmt.Errorf("invalid key kind (%s)", parts[0])
	}
}

// MarshalBinary encodes the key as its kind tag followed by the value bytes
func (k Key) MarshalBinary() ([]byte, error) {
	switch k.kind {
	case NoKeyKind:
		return []byte{byte(NoKeyKind)}, nil
	case Int32Kind, Int64Kind:
		out := make([]byte, 9)
		out[0] = byte(k.kind)
		binary.BigEndian.PutUint64(out[1:], uint64(k.number))
		return out, nil
	case StringKind:
		out := make([]byte, 1, 1+len(k.text))
		out[0] = byte(StringKind)
		return append(out, k.text...), nil
	case GuidKind:
		out := make([]byte, 17)
		out[0] = byte(GuidKind)
		copy(out[1:], k.guid[:])
		return out, nil
	default:
		return nil, fmt.Errorf("invalid key kind (%d)", k.kind)
	}
}

// UnmarshalBinary decodes a key produced by MarshalBinary
func (k *Key) UnmarshalBinary(data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("invalid key: empty payload")
	}

	kind := Kind(data[0])
	payload := data[1:]
	switch kind {
	case NoKeyKind:
		*k = NoKey()
	case Int32Kind, Int64Kind:
		if len(payload) != 8 {
			return fmt.Errorf("invalid %s key: expected 8 bytes got %d", kind, len(payload))
		}
		number := int64(binary.BigEndian.Uint64(payload))
		if kind == Int32Kind && (number < math.MinInt32 || number > math.MaxInt32) {
			return fmt.Errorf("invalid int32 key: %d is out of range", number)
		}
		*k = Key{kind: kind, number: number}
	case StringKind:
		*k = String(string(payload))
	case GuidKind:
		value, err := uuid.FromBytes(payload)
		if err != nil {
			return fmt.Errorf("invalid guid key: %w", err)
		}
		*k = Guid(value)
	default:
		return fmt.Errorf("invalid key kind (%d)", kind)
	}
	return nil
}
