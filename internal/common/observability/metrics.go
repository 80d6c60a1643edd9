package observability

import (
	"context"
	"log"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
)

type Observability struct {
	meterProvider   *metric.MeterProvider
	meter           otelmetric.Meter
	fetchCounter    otelmetric.Int64Counter
	cacheCounter    otelmetric.Int64Counter
	fallbackCounter otelmetric.Int64Counter
	fetchDuration   otelmetric.Float64Histogram
}

func New(serviceName string) *Observability {
	exporter, err := prometheus.New()
	if err != nil {
		log.Printf("Failed to create Prometheus exporter: %v", err)
		return &Observability{}
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	fetchCounter, _ := meter.Int64Counter(
		"suggestions.fetches",
		otelmetric.WithDescription("Number of provider fetches"),
	)

	cacheCounter, _ := meter.Int64Counter(
		"suggestions.cache.lookups",
		otelmetric.WithDescription("Cache lookups by outcome"),
	)

	fallbackCounter, _ := meter.Int64Counter(
		"suggestions.fallbacks",
		otelmetric.WithDescription("Number of mock-data fallbacks"),
	)

	fetchDuration, _ := meter.Float64Histogram(
		"suggestions.fetch.duration",
		otelmetric.WithDescription("Provider fetch duration"),
		otelmetric.WithUnit("ms"),
	)

	return &Observability{
		meterProvider:   provider,
		meter:           meter,
		fetchCounter:    fetchCounter,
		cacheCounter:    cacheCounter,
		fallbackCounter: fallbackCounter,
		fetchDuration:   fetchDuration,
	}
}

func (o *Observability) RecordFetch(ctx context.Context, source, status string) {
	if o.fetchCounter != nil {
		o.fetchCounter.Add(ctx, 1, otelmetric.WithAttributes(
			attribute.String("source", source),
			attribute.String("status", status),
		))
	}
}

func (o *Observability) RecordCacheLookup(ctx context.Context, source string, hit bool) {
	if o.cacheCounter != nil {
		outcome := "miss"
		if hit {
			outcome = "hit"
		}
		o.cacheCounter.Add(ctx, 1, otelmetric.WithAttributes(
			attribute.String("source", source),
			attribute.String("outcome", outcome),
		))
	}
}

func (o *Observability) RecordFallback(ctx context.Context, source, reason string) {
	if o.fallbackCounter != nil {
		o.fallbackCounter.Add(ctx, 1, otelmetric.WithAttributes(
			attribute.String("source", source),
			attribute.String("reason", reason),
		))
	}
}

func (o *Observability) RecordFetchDuration(ctx context.Context, source string, duration time.Duration) {
	if o.fetchDuration != nil {
		o.fetchDuration.Record(ctx, float64(duration.Milliseconds()), otelmetric.WithAttributes(
			attribute.String("source", source),
		))
	}
}

func (o *Observability) Shutdown() {
	if o.meterProvider != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		o.meterProvider.Shutdown(ctx)
	}
}
