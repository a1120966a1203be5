// SPDX-License-Identifier: Unlicense OR MIT

package app

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/loomui/loom/app"

type telemetry struct {
	tracer   trace.Tracer
	messages metric.Int64Counter
	queries  metric.Float64Histogram
	windows  metric.Int64UpDownCounter
}

func newTelemetry(tp trace.TracerProvider, mp metric.MeterProvider) *telemetry {
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	t := &telemetry{tracer: tp.Tracer(instrumentationName)}
	meter := mp.Meter(instrumentationName)
	// Instrument constructors return usable no-op instruments alongside
	// their errors.
	t.messages, _ = meter.Int64Counter("loom.dispatch.messages",
		metric.WithDescription("Messages routed to the main thread."))
	t.queries, _ = meter.Float64Histogram("loom.dispatch.query.duration",
		metric.WithDescription("Time spent waiting for main thread replies."),
		metric.WithUnit("s"))
	t.windows, _ = meter.Int64UpDownCounter("loom.windows",
		metric.WithDescription("Live windows."))
	return t
}

func (t *telemetry) routed(ctx context.Context, mode string) {
	if t.messages == nil {
		return
	}
	t.messages.Add(ctx, 1, metric.WithAttributes(attribute.String("mode", mode)))
}

func (t *telemetry) answered(ctx context.Context, name string, d time.Duration) {
	if t.queries == nil {
		return
	}
	t.queries.Record(ctx, d.Seconds(), metric.WithAttributes(attribute.String("query", name)))
}

func (t *telemetry) windowDelta(ctx context.Context, n int64) {
	if t.windows == nil {
		return
	}
	t.windows.Add(ctx, n)
}

func (t *telemetry) start(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}
