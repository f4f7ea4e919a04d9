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

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tochemey/stage/address"
	gerrors "github.com/tochemey/stage/errors"
	"github.com/tochemey/stage/internal/compression"
	"github.com/tochemey/stage/log"
)

func TestNew(t *testing.T) {
	t.Run("With defaults", func(t *testing.T) {
		config, err := New("orders")
		require.NoError(t, err)
		assert.Equal(t, "orders", config.Name)
		assert.True(t, config.AllowLoopback)
		assert.Equal(t, DefaultTimeout, config.DefaultTimeout)
		assert.Equal(t, compression.None, config.Compression)
		assert.Equal(t, log.InfoLevel, config.LogLevel)
		assert.NotEmpty(t, config.Node.ID())
		assert.Nil(t, config.NATS)
	})

	t.Run("With name required", func(t *testing.T) {
		_, err := New("")
		assert.ErrorIs(t, err, gerrors.ErrNameRequired)
	})

	t.Run("With invalid settings", func(t *testing.T) {
		_, err := New("orders", WithDefaultTimeout(0))
		assert.Error(t, err)
		_, err = New("orders", WithNode(address.NewNodeIdentityWithID("", "127.0.0.1", 80)))
		assert.Error(t, err)
		_, err = New("orders", WithLogLevel(log.InvalidLevel))
		assert.Error(t, err)
		_, err = New("orders", WithNATS("", "orders", time.Second))
		assert.Error(t, err)
	})
}

func TestOptions(t *testing.T) {
	node := address.NewNodeIdentityWithID("node-1", "127.0.0.1", 9000)
	testCases := []struct {
		name           string
		option         Option
		expectedConfig Config
	}{
		{
			name:           "WithNode",
			option:         WithNode(node),
			expectedConfig: Config{Node: node},
		},
		{
			name:           "WithAllowLoopback",
			option:         WithAllowLoopback(true),
			expectedConfig: Config{AllowLoopback: true},
		},
		{
			name:           "WithDefaultTimeout",
			option:         WithDefaultTimeout(2 * time.Second),
			expectedConfig: Config{DefaultTimeout: 2 * time.Second},
		},
		{
			name:           "WithCompression",
			option:         WithCompression(compression.Zstd),
			expectedConfig: Config{Compression: compression.Zstd},
		},
		{
			name:           "WithLogLevel",
			option:         WithLogLevel(log.DebugLevel),
			expectedConfig: Config{LogLevel: log.DebugLevel},
		},
		{
			name:           "WithNATS",
			option:         WithNATS("nats://127.0.0.1:4222", "orders", time.Second),
			expectedConfig: Config{NATS: &NATS{URL: "nats://127.0.0.1:4222", SubjectPrefix: "orders", Timeout: time.Second}},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var cfg Config
			tc.option.Apply(&cfg)
			assert.Equal(t, tc.expectedConfig, cfg)
		})
	}
}

func TestLoad(t *testing.T) {
	t.Run("With full file", func(t *testing.T) {
		content := `
name: orders
node:
  id: node-1
  host: 127.0.0.1
  port: 9000
allowLoopback: false
defaultTimeout: 250ms
compression: brotli
logLevel: debug
nats:
  url: nats://127.0.0.1:4222
  subjectPrefix: orders
  timeout: 1s
`
		path := filepath.Join(t.TempDir(), "stage.yaml")
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		config, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "orders", config.Name)
		assert.Equal(t, address.NewNodeIdentityWithID("node-1", "127.0.0.1", 9000), config.Node)
		assert.False(t, config.AllowLoopback)
		assert.Equal(t, 250*time.Millisecond, config.DefaultTimeout)
		assert.Equal(t, compression.Brotli, config.Compression)
		assert.Equal(t, log.DebugLevel, config.LogLevel)
		require.NotNil(t, config.NATS)
		assert.Equal(t, NATS{URL: "nats://127.0.0.1:4222", SubjectPrefix: "orders", Timeout: time.Second}, *config.NATS)
	})

	t.Run("With minimal file and environment overrides", func(t *testing.T) {
		t.Setenv("STAGE_NAME", "billing")
		t.Setenv("STAGE_LOG_LEVEL", "error")
		t.Setenv("STAGE_NATS_URL", "nats://10.0.0.1:4222")

		config, err := Parse([]byte("name: orders\n"))
		require.NoError(t, err)
		assert.Equal(t, "billing", config.Name)
		assert.True(t, config.AllowLoopback)
		assert.Equal(t, log.ErrorLevel, config.LogLevel)
		require.NotNil(t, config.NATS)
		assert.Equal(t, "nats://10.0.0.1:4222", config.NATS.URL)
	})

	t.Run("With invalid files", func(t *testing.T) {
		for _, content := range []string{
			"name: [",
			"name: orders\ndefaultTimeout: soon\n",
			"name: orders\ncompression: gzip\n",
			"name: orders\nlogLevel: loud\n",
			"name: orders\nnats:\n  url: nats://x\n  timeout: later\n",
			"allowLoopback: true\n",
		} {
			_, err := Parse([]byte(content))
			assert.Error(t, err, content)
		}
	})

	t.Run("With missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.Error(t, err)
	})
}
