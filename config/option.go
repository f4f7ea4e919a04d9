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
	"time"

	"github.com/tochemey/stage/address"
	"github.com/tochemey/stage/internal/compression"
	"github.com/tochemey/stage/log"
)

// Option is the interface that applies a configuration option.
type Option interface {
	// Apply sets the Option value of a config.
	Apply(config *Config)
}

var _ Option = OptionFunc(nil)

// OptionFunc implements the Option interface.
type OptionFunc func(config *Config)

// Apply applies the option
func (f OptionFunc) Apply(c *Config) {
	f(c)
}

// WithNode sets the local node identity
func WithNode(node address.NodeIdentity) Option {
	return OptionFunc(func(config *Config) {
		config.Node = node
	})
}

// WithAllowLoopback sets whether local invocations skip the codec
func WithAllowLoopback(allow bool) Option {
	return OptionFunc(func(config *Config) {
		config.AllowLoopback = allow
	})
}

// WithDefaultTimeout sets the timeout of invocations without one
func WithDefaultTimeout(timeout time.Duration) Option {
	return OptionFunc(func(config *Config) {
		config.DefaultTimeout = timeout
	})
}

// WithCompression sets the compression of encoded frames
func WithCompression(algorithm compression.Algorithm) Option {
	return OptionFunc(func(config *Config) {
		config.Compression = algorithm
	})
}

// WithLogLevel sets the level of the default logger
func WithLogLevel(level log.Level) Option {
	return OptionFunc(func(config *Config) {
		config.LogLevel = level
	})
}

// WithNATS sets the NATS transport settings
func WithNATS(url, subjectPrefix string, timeout time.Duration) Option {
	return OptionFunc(func(config *Config) {
		config.NATS = &NATS{URL: url, SubjectPrefix: subjectPrefix, Timeout: timeout}
	})
}
