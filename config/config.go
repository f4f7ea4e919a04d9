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

// Package config holds the settings of a stage.
//
// A Config is built in code with New and functional options, or loaded from
// a YAML file with Load:
//
//	name: orders
//	node:
//	  id: node-1
//	  host: 127.0.0.1
//	  port: 9000
//	allowLoopback: true
//	defaultTimeout: 10s
//	compression: zstd
//	logLevel: info
//	nats:
//	  url: nats://127.0.0.1:4222
//	  subjectPrefix: orders
//	  timeout: 1s
package config

import (
	"time"

	"github.com/tochemey/stage/address"
	gerrors "github.com/tochemey/stage/errors"
	"github.com/tochemey/stage/internal/compression"
	"github.com/tochemey/stage/internal/validation"
	"github.com/tochemey/stage/log"
)

const (
	// DefaultTimeout bounds a request without a timeout of its own
	DefaultTimeout = 10 * time.Second
)

// NATS holds the settings of the NATS transport
type NATS struct {
	URL           string
	SubjectPrefix string
	Timeout       time.Duration
}

// Config represents the stage configuration
type Config struct {
	// Specifies the stage name
	Name string
	// Specifies the local node identity
	Node address.NodeIdentity
	// Specifies whether invocations that resolve to the local node skip the
	// codec. When false local invocations are encoded and decoded like remote
	// ones, which gives them the same copy semantics. The default value is true
	AllowLoopback bool
	// Specifies how long a caller waits for a response when the invocation
	// sets no timeout. The default value is 10s
	DefaultTimeout time.Duration
	// Specifies the compression applied to encoded frames
	Compression compression.Algorithm
	// Specifies the log level of the default logger
	LogLevel log.Level
	// Specifies the NATS transport settings. Nil when the stage runs on an
	// in-process transport
	NATS *NATS
}

var _ validation.Validator = (*Config)(nil)

// New creates an instance of Config
func New(name string, options ...Option) (*Config, error) {
	if name == "" {
		return nil, gerrors.ErrNameRequired
	}

	config := &Config{
		Name:           name,
		Node:           address.NewNodeIdentity("127.0.0.1", 0),
		AllowLoopback:  true,
		DefaultTimeout: DefaultTimeout,
		Compression:    compression.None,
		LogLevel:       log.InfoLevel,
	}

	for _, opt := range options {
		opt.Apply(config)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks the configuration
func (c *Config) Validate() error {
	chain := validation.New(validation.FailFast()).
		AddValidator(validation.NewEmptyStringValidator("name", c.Name)).
		AddValidator(c.Node).
		AddAssertion(c.DefaultTimeout > 0, "default timeout must be positive").
		AddAssertion(c.Compression <= compression.Brotli, "invalid compression").
		AddAssertion(c.LogLevel >= log.InfoLevel && c.LogLevel < log.InvalidLevel, "invalid log level")

	if c.NATS != nil {
		chain = chain.AddValidator(validation.NewEmptyStringValidator("nats url", c.NATS.URL))
	}
	return chain.Validate()
}
