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

package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultHasher(t *testing.T) {
	hasher := DefaultHasher()
	assert.Equal(t, hasher.HashCode([]byte("Hello")), hasher.HashCode([]byte("Hello")))
	assert.NotEqual(t, hasher.HashCode([]byte("Hello")), hasher.HashCode([]byte("Hola")))
}

func TestWeight(t *testing.T) {
	hasher := DefaultHasher()
	assert.Equal(t, Weight(hasher, "Greeter/string:john", "node-a"), Weight(hasher, "Greeter/string:john", "node-a"))
	assert.NotEqual(t, Weight(hasher, "Greeter/string:john", "node-a"), Weight(hasher, "Greeter/string:john", "node-b"))

	// the separator keeps key and member apart
	assert.NotEqual(t, Weight(hasher, "ab", "c"), Weight(hasher, "a", "bc"))

	constant := HasherFunc(func([]byte) uint64 { return 7 })
	assert.Equal(t, uint64(7), Weight(constant, "k", "m"))
}
