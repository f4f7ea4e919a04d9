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

package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

func TestChain(t *testing.T) {
	t.Run("With no violation", func(t *testing.T) {
		err := New().
			AddValidator(NewEmptyStringValidator("name", "stage")).
			AddAssertion(true, "unused").
			Validate()
		assert.NoError(t, err)
	})

	t.Run("With every violation reported", func(t *testing.T) {
		err := New(AllErrors()).
			AddValidator(NewEmptyStringValidator("name", " ")).
			AddAssertion(false, "timeout must be positive").
			Validate()
		require.Error(t, err)
		assert.Len(t, multierr.Errors(err), 2)
		assert.EqualError(t, err, "the [name] is required; timeout must be positive")
	})

	t.Run("With fail fast", func(t *testing.T) {
		err := New(FailFast()).
			AddAssertion(false, "first").
			AddAssertion(false, "second").
			Validate()
		assert.EqualError(t, err, "first")
	})
}

func TestIDValidator(t *testing.T) {
	valid := []string{"node-a", "node_1", "a.b.c", "N0de"}
	for _, id := range valid {
		assert.NoError(t, NewIDValidator(id).Validate(), id)
	}

	invalid := []string{"", "  ", "-node", "node a", "node/a", strings.Repeat("a", maxIDLength+1)}
	for _, id := range invalid {
		assert.Error(t, NewIDValidator(id).Validate(), id)
	}
	assert.ErrorIs(t, NewIDValidator("node/a").Validate(), errInvalidID)
}

func TestTCPAddressValidator(t *testing.T) {
	valid := []string{"127.0.0.1:0", "localhost:3320", "[::1]:65535"}
	for _, address := range valid {
		assert.NoError(t, NewTCPAddressValidator(address).Validate(), address)
	}

	invalid := []string{"", "127.0.0.1", ":3320", "127.0.0.1:port", "127.0.0.1:65536", "127.0.0.1:-1"}
	for _, address := range invalid {
		assert.Error(t, NewTCPAddressValidator(address).Validate(), address)
	}
}
