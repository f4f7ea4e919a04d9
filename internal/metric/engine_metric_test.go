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

package metric

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

func TestEngineMetric(t *testing.T) {
	t.Run("With custom provider", func(t *testing.T) {
		provider := &recorderMeterProvider{MeterProvider: noop.NewMeterProvider()}
		engineMetric, err := NewEngineMetric(provider, func() int64 { return 3 })
		require.NoError(t, err)

		assert.Equal(t, []string{instrumentationName}, provider.called)
		assert.Equal(t, []string{
			"stage_requests_sent",
			"stage_responses_received",
			"stage_orphan_responses",
			"stage_request_timeouts",
			"stage_pending_requests",
		}, provider.meter.instruments)

		ctx := context.Background()
		engineMetric.RequestSent(ctx)
		engineMetric.ResponseReceived(ctx)
		engineMetric.OrphanResponse(ctx)
		engineMetric.RequestTimeout(ctx)
		assert.NoError(t, engineMetric.Close())
	})

	t.Run("With global provider", func(t *testing.T) {
		prevProvider := otel.GetMeterProvider()
		provider := &recorderMeterProvider{MeterProvider: noop.NewMeterProvider()}
		otel.SetMeterProvider(provider)
		t.Cleanup(func() {
			otel.SetMeterProvider(prevProvider)
		})

		engineMetric, err := NewEngineMetric(nil, func() int64 { return 0 })
		require.NoError(t, err)
		require.NotNil(t, engineMetric)
		assert.Equal(t, []string{instrumentationName}, provider.called)
	})
}

type recorderMeterProvider struct {
	metric.MeterProvider
	called []string
	meter  *recorderMeter
}

func (p *recorderMeterProvider) Meter(name string, opts ...metric.MeterOption) metric.Meter {
	p.called = append(p.called, name)
	p.meter = &recorderMeter{Meter: p.MeterProvider.Meter(name, opts...)}
	return p.meter
}

type recorderMeter struct {
	metric.Meter
	instruments []string
}

func (m *recorderMeter) Int64Counter(name string, opts ...metric.Int64CounterOption) (metric.Int64Counter, error) {
	m.instruments = append(m.instruments, name)
	return m.Meter.Int64Counter(name, opts...)
}

func (m *recorderMeter) Int64ObservableGauge(name string, opts ...metric.Int64ObservableGaugeOption) (metric.Int64ObservableGauge, error) {
	m.instruments = append(m.instruments, name)
	return m.Meter.Int64ObservableGauge(name, opts...)
}
