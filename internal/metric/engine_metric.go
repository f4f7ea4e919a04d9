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

// Package metric holds the OpenTelemetry instruments of the message engine.
package metric

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/tochemey/stage"

// EngineMetric defines the message engine instrumentation
type EngineMetric struct {
	// Specifies the total number of requests handed to the transport
	requestsSent metric.Int64Counter
	// Specifies the total number of responses received
	responsesReceived metric.Int64Counter
	// Specifies the total number of responses without a pending request
	orphanResponses metric.Int64Counter
	// Specifies the total number of requests that timed out
	requestTimeouts metric.Int64Counter
	// Specifies the number of requests awaiting a response
	pendingRequests metric.Int64ObservableGauge

	registration metric.Registration
}

// NewEngineMetric creates an instance of EngineMetric. pending is observed
// on every collection to report the number of requests in flight.
// A nil provider falls back to the global meter provider.
func NewEngineMetric(provider metric.MeterProvider, pending func() int64) (*EngineMetric, error) {
	if provider == nil {
		provider = otel.GetMeterProvider()
	}
	meter := provider.Meter(instrumentationName)

	engineMetric := new(EngineMetric)
	var err error
	if engineMetric.requestsSent, err = meter.Int64Counter(
		"stage_requests_sent",
		metric.WithDescription("Total number of requests sent"),
	); err != nil {
		return nil, fmt.Errorf("failed to create requestsSent instrument, %w", err)
	}

	if engineMetric.responsesReceived, err = meter.Int64Counter(
		"stage_responses_received",
		metric.WithDescription("Total number of responses received"),
	); err != nil {
		return nil, fmt.Errorf("failed to create responsesReceived instrument, %w", err)
	}

	if engineMetric.orphanResponses, err = meter.Int64Counter(
		"stage_orphan_responses",
		metric.WithDescription("Total number of responses received without a pending request"),
	); err != nil {
		return nil, fmt.Errorf("failed to create orphanResponses instrument, %w", err)
	}

	if engineMetric.requestTimeouts, err = meter.Int64Counter(
		"stage_request_timeouts",
		metric.WithDescription("Total number of requests that timed out"),
	); err != nil {
		return nil, fmt.Errorf("failed to create requestTimeouts instrument, %w", err)
	}

	if engineMetric.pendingRequests, err = meter.Int64ObservableGauge(
		"stage_pending_requests",
		metric.WithDescription("Number of requests awaiting a response"),
	); err != nil {
		return nil, fmt.Errorf("failed to create pendingRequests instrument, %w", err)
	}

	if engineMetric.registration, err = meter.RegisterCallback(func(_ context.Context, observer metric.Observer) error {
		observer.ObserveInt64(engineMetric.pendingRequests, pending())
		return nil
	}, engineMetric.pendingRequests); err != nil {
		return nil, fmt.Errorf("failed to register pendingRequests callback, %w", err)
	}

	return engineMetric, nil
}

// RequestSent records one request handed to the transport
func (x *EngineMetric) RequestSent(ctx context.Context) {
	x.requestsSent.Add(ctx, 1)
}

// ResponseReceived records one response received
func (x *EngineMetric) ResponseReceived(ctx context.Context) {
	x.responsesReceived.Add(ctx, 1)
}

// OrphanResponse records one response without pending request
func (x *EngineMetric) OrphanResponse(ctx context.Context) {
	x.orphanResponses.Add(ctx, 1)
}

// RequestTimeout records one timed out request
func (x *EngineMetric) RequestTimeout(ctx context.Context) {
	x.requestTimeouts.Add(ctx, 1)
}

// Close unregisters the observable callback
func (x *EngineMetric) Close() error {
	if x.registration == nil {
		return nil
	}
	return x.registration.Unregister()
}
