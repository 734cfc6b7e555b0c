package telemetry

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	"github.com/dealguard-ai/dealguard/internal/redact"
)

// Config controls telemetry setup.
type Config struct {
	Enabled  bool
	Endpoint string
	Protocol string // grpc | http
	Service  string
	Version  string
}

// Provider wires tracer/meter providers and exposes analysis instruments.
type Provider struct {
	Enabled bool
	tracer  trace.Tracer
	meter   metric.Meter

	analysesCounter metric.Int64Counter
	analyzeDuration metric.Float64Histogram
	detectorHits    metric.Int64Counter
	nerDuration     metric.Float64Histogram
	shutdownTraces  func(context.Context) error
	shutdownMetrics func(context.Context) error
}

// NewProvider configures OTLP exporters + providers. When disabled, returns
// no-op providers so call sites never branch.
func NewProvider(ctx context.Context, cfg Config) (*Provider, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if !cfg.Enabled {
		p := &Provider{
			Enabled: false,
			tracer:  trace.NewNoopTracerProvider().Tracer(""),
			meter:   noop.NewMeterProvider().Meter(""),
		}
		p.initInstruments()
		return p, nil
	}

	redact.Logf("telemetry enabled (OTLP %s) endpoint=%s", strings.ToLower(cfg.Protocol), cfg.Endpoint)

	res, err := resource.New(ctx,
		resource.WithFromEnv(),
		resource.WithTelemetrySDK(),
		resource.WithAttributes(
			attribute.String("service.name", cfg.Service),
			attribute.String("service.version", cfg.Version),
		),
	)
	if err != nil {
		return nil, err
	}

	var tp *sdktrace.TracerProvider
	var mp *sdkmetric.MeterProvider

	switch strings.ToLower(cfg.Protocol) {
	case "", "grpc":
		texp, err := otlptracegrpc.New(ctx, otlptracegrpc.WithEndpoint(cfg.Endpoint), otlptracegrpc.WithInsecure())
		if err != nil {
			return nil, err
		}
		tp = sdktrace.NewTracerProvider(
			sdktrace.WithSampler(sdktrace.AlwaysSample()),
			sdktrace.WithBatcher(texp),
			sdktrace.WithResource(res),
		)
		mexp, err := otlpmetricgrpc.New(ctx, otlpmetricgrpc.WithEndpoint(cfg.Endpoint), otlpmetricgrpc.WithInsecure())
		if err != nil {
			return nil, err
		}
		mp = sdkmetric.NewMeterProvider(
			sdkmetric.WithReader(sdkmetric.NewPeriodicReader(mexp)),
			sdkmetric.WithResource(res),
		)
	case "http":
		texp, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpoint(cfg.Endpoint), otlptracehttp.WithInsecure())
		if err != nil {
			return nil, err
		}
		tp = sdktrace.NewTracerProvider(
			sdktrace.WithSampler(sdktrace.AlwaysSample()),
			sdktrace.WithBatcher(texp),
			sdktrace.WithResource(res),
		)
		mexp, err := otlpmetrichttp.New(ctx, otlpmetrichttp.WithEndpoint(cfg.Endpoint), otlpmetrichttp.WithInsecure())
		if err != nil {
			return nil, err
		}
		mp = sdkmetric.NewMeterProvider(
			sdkmetric.WithReader(sdkmetric.NewPeriodicReader(mexp)),
			sdkmetric.WithResource(res),
		)
	default:
		redact.Logf("telemetry: unknown protocol %q, telemetry disabled", cfg.Protocol)
		return NewProvider(ctx, Config{Enabled: false})
	}

	p := &Provider{
		Enabled:         true,
		tracer:          tp.Tracer(cfg.Service),
		meter:           mp.Meter(cfg.Service),
		shutdownTraces:  tp.Shutdown,
		shutdownMetrics: mp.Shutdown,
	}
	p.initInstruments()
	return p, nil
}

func (p *Provider) initInstruments() {
	p.analysesCounter, _ = p.meter.Int64Counter("dealguard.analyses",
		metric.WithDescription("Completed analyses by tier"))
	p.analyzeDuration, _ = p.meter.Float64Histogram("dealguard.analyze.duration_ms",
		metric.WithDescription("End-to-end analysis latency"))
	p.detectorHits, _ = p.meter.Int64Counter("dealguard.detector.hits",
		metric.WithDescription("Signal detector hits by label"))
	p.nerDuration, _ = p.meter.Float64Histogram("dealguard.ner.duration_ms",
		metric.WithDescription("Entity recognition latency"))
}

// StartSpan opens a span on the provider's tracer.
func (p *Provider) StartSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return p.tracer.Start(ctx, name)
}

// RecordAnalysis counts one completed analysis. Attribute values pass
// through SafeAttributes so raw message content can never ride along.
func (p *Provider) RecordAnalysis(ctx context.Context, tier string, score int, durationMs float64) {
	attrs := metric.WithAttributes(SafeAttributes(map[string]interface{}{
		"tier":  tier,
		"score": score,
	})...)
	p.analysesCounter.Add(ctx, 1, attrs)
	p.analyzeDuration.Record(ctx, durationMs, attrs)
}

// RecordDetectorHit counts one fired detector.
func (p *Provider) RecordDetectorHit(ctx context.Context, label string) {
	attrs := metric.WithAttributes(SafeAttributes(map[string]interface{}{
		"detector": label,
	})...)
	p.detectorHits.Add(ctx, 1, attrs)
}

// RecordNER records one entity-recognition attempt.
func (p *Provider) RecordNER(ctx context.Context, durationMs float64, ok bool) {
	attrs := metric.WithAttributes(SafeAttributes(map[string]interface{}{
		"ok": ok,
	})...)
	p.nerDuration.Record(ctx, durationMs, attrs)
}

// Shutdown flushes exporters. Safe on a disabled provider.
func (p *Provider) Shutdown(ctx context.Context) {
	if p.shutdownTraces != nil {
		if err := p.shutdownTraces(ctx); err != nil {
			redact.Logf("telemetry: trace shutdown: %v", err)
		}
	}
	if p.shutdownMetrics != nil {
		if err := p.shutdownMetrics(ctx); err != nil {
			redact.Logf("telemetry: metric shutdown: %v", err)
		}
	}
}
