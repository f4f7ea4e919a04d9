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

package stage

import (
	"go.opentelemetry.io/otel/metric"

	"github.com/tochemey/stage/log"
	"github.com/tochemey/stage/message"
	"github.com/tochemey/stage/routing"
	"github.com/tochemey/stage/transport"
)

// Option is the interface that applies a configuration option.
type Option interface {
	// Apply sets the Option value of a Stage.
	Apply(stage *Stage)
}

var _ Option = OptionFunc(nil)

// OptionFunc implements the Option interface.
type OptionFunc func(stage *Stage)

// Apply applies the Stage's option
func (f OptionFunc) Apply(stage *Stage) {
	f(stage)
}

// WithTransport sets the transport frames travel on.
// By default the stage uses the NATS transport when the configuration
// carries NATS settings, otherwise a private in-process transport.
func WithTransport(transport transport.Transport) Option {
	return OptionFunc(func(stage *Stage) {
		stage.transport = transport
	})
}

// WithClusterView sets the source of cluster membership.
// When unset the transport is used when it can list members.
func WithClusterView(view routing.ClusterView) Option {
	return OptionFunc(func(stage *Stage) {
		stage.view = view
	})
}

// WithDirectory sets the activation placement directory
func WithDirectory(directory routing.Directory) Option {
	return OptionFunc(func(stage *Stage) {
		stage.directory = directory
	})
}

// WithPlacementStrategy sets how a node is chosen for a new activation
func WithPlacementStrategy(strategy routing.Strategy) Option {
	return OptionFunc(func(stage *Stage) {
		stage.strategy = strategy
	})
}

// WithCodec sets the wire codec
func WithCodec(codec message.Codec) Option {
	return OptionFunc(func(stage *Stage) {
		stage.codec = codec
	})
}

// WithLogger sets the logger
func WithLogger(logger log.Logger) Option {
	return OptionFunc(func(stage *Stage) {
		stage.logger = logger
	})
}

// WithMeterProvider sets the OpenTelemetry meter provider of the engine counters
func WithMeterProvider(provider metric.MeterProvider) Option {
	return OptionFunc(func(stage *Stage) {
		stage.meterProvider = provider
	})
}
