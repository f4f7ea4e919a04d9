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

// Package hash provides the hashing used by placement strategies
package hash

import "github.com/zeebo/xxh3"

// Hasher maps bytes to a 64-bit hash
type Hasher interface {
	HashCode(key []byte) uint64
}

// HasherFunc adapts a function to Hasher
type HasherFunc func(key []byte) uint64

// HashCode implements Hasher
func (f HasherFunc) HashCode(key []byte) uint64 {
	return f(key)
}

// DefaultHasher hashes with XXH3
func DefaultHasher() Hasher {
	return HasherFunc(xxh3.Hash)
}

// Weight scores member for key. Rendezvous placement assigns key to the
// member with the highest weight.
func Weight(hasher Hasher, key, member string) uint64 {
	buf := make([]byte, 0, len(key)+len(member)+1)
	buf = append(buf, key...)
	buf = append(buf, 0)
	buf = append(buf, member...)
	return hasher.HashCode(buf)
}
