// Copyright (c) 2025 Routewire Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package otel initializes the global OTel SDK from routewire config.
package otel

import (
	"context"
	"fmt"
	"time"

	"github.com/routewire/routewire/concurrent"
	"github.com/routewire/routewire/config"
	"github.com/routewire/routewire/internal/detector"

	"go.opentelemetry.io/contrib/instrumentation/runtime"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/log/global"
	"go.opentelemetry.io/otel/sdk/log"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// Initialize configures the global trace, meter and logger providers.
func Initialize(ctx context.Context, cfg config.OTel) error {
	r, err := detectResource(ctx, cfg.Resource)
	if err != nil {
		return err
	}

	grpcCache := concurrent.NewCache[string, *grpc.ClientConn]()

	err = initTracing(ctx, cfg.Trace, r, grpcCache)
	if err != nil {
		return err
	}

	err = initMetrics(ctx, cfg.Metric, r, grpcCache)
	if err != nil {
		return err
	}

	return initLogging(ctx, cfg.Log, r, grpcCache)
}

func detectResource(ctx context.Context, cfg config.Resource) (*resource.Resource, error) {
	return resource.Detect(
		ctx,
		detector.TelemetrySDK(),
		detector.Host(),
		detector.ServiceName(cfg.ServiceName),
		detector.ServiceVersion(cfg.ServiceVersion),
	)
}

type grpcConnCache = concurrent.Cache[string, *grpc.ClientConn]

func getOrNewClientConn(cfg config.OTLP, cache *grpcConnCache) (*grpc.ClientConn, error) {
	return cache.GetOr(cfg.Target, func() (*grpc.ClientConn, error) {
		return grpc.NewClient(
			cfg.Target,
			// TODO: support secure transport credentials
			grpc.WithTransportCredentials(insecure.NewCredentials()),
		)
	})
}

// UnknownOTLPConnTypeError
type UnknownOTLPConnTypeError struct {
	Type config.OTLPConnType
}

func (e UnknownOTLPConnTypeError) Error() string {
	return fmt.Sprintf("unknown otlp conn type: %q", e.Type)
}

// UnknownSpanProcessorTypeError
type UnknownSpanProcessorTypeError struct {
	Type config.SpanProcessorType
}

func (e UnknownSpanProcessorTypeError) Error() string {
	return fmt.Sprintf("unknown span processor type: %q", e.Type)
}

func initTracing(ctx context.Context, cfg config.Trace, r *resource.Resource, cache *grpcConnCache) error {
	exp, err := initSpanExporter(ctx, cfg.Exporter, cache)
	if err != nil {
		return err
	}

	sp, err := initSpanProcessor(cfg.Processor, exp)
	if err != nil {
		return err
	}

	tp := trace.NewTracerProvider(
		trace.WithSpanProcessor(sp),
		trace.WithSampler(trace.TraceIDRatioBased(cfg.Sampling.Ratio)),
		trace.WithResource(r),
	)
	otel.SetTracerProvider(tp)
	return nil
}

func initSpanExporter(ctx context.Context, cfg config.Exporter, cache *grpcConnCache) (trace.SpanExporter, error) {
	if cfg.OTLP.Target == "" {
		return noopSpanExporter{}, nil
	}

	switch cfg.OTLP.Type {
	case config.OTLPGRPC:
		cc, err := getOrNewClientConn(cfg.OTLP, cache)
		if err != nil {
			return nil, err
		}

		return otlptracegrpc.New(
			ctx,
			otlptracegrpc.WithGRPCConn(cc),
		)
	case config.OTLPHTTP:
		return otlptracehttp.New(
			ctx,
			otlptracehttp.WithEndpoint(cfg.OTLP.Target),
		)
	default:
		return nil, UnknownOTLPConnTypeError{
			Type: cfg.OTLP.Type,
		}
	}
}

func initSpanProcessor(cfg config.SpanProcessor, exp trace.SpanExporter) (trace.SpanProcessor, error) {
	switch cfg.Type {
	case config.BatchSpanProcessorType:
		bsp := trace.NewBatchSpanProcessor(
			exp,
			trace.WithBatchTimeout(cfg.Batch.ExportInterval),
			trace.WithMaxExportBatchSize(cfg.Batch.MaxSize),
		)
		return bsp, nil
	default:
		return nil, UnknownSpanProcessorTypeError{
			Type: cfg.Type,
		}
	}
}

// UnknownMetricReaderTypeError
type UnknownMetricReaderTypeError struct {
	Type config.MetricReaderType
}

func (e UnknownMetricReaderTypeError) Error() string {
	return fmt.Sprintf("unknown metric reader type: %q", e.Type)
}

func initMetrics(ctx context.Context, cfg config.Metric, r *resource.Resource, cache *grpcConnCache) error {
	exp, err := initMetricExporter(ctx, cfg.Exporter, cache)
	if err != nil {
		return err
	}

	reader, err := initMetricReader(cfg.Reader, exp)
	if err != nil {
		return err
	}

	mp := metric.NewMeterProvider(
		metric.WithReader(reader),
		metric.WithResource(r),
	)
	otel.SetMeterProvider(mp)

	return runtime.Start(
		runtime.WithMinimumReadMemStatsInterval(time.Second),
	)
}

func initMetricExporter(ctx context.Context, cfg config.Exporter, cache *grpcConnCache) (metric.Exporter, error) {
	if cfg.OTLP.Target == "" {
		return noopMetricExporter{}, nil
	}

	switch cfg.OTLP.Type {
	case config.OTLPGRPC:
		cc, err := getOrNewClientConn(cfg.OTLP, cache)
		if err != nil {
			return nil, err
		}

		return otlpmetricgrpc.New(
			ctx,
			otlpmetricgrpc.WithGRPCConn(cc),
		)
	case config.OTLPHTTP:
		return otlpmetrichttp.New(
			ctx,
			otlpmetrichttp.WithEndpoint(cfg.OTLP.Target),
		)
	default:
		return nil, UnknownOTLPConnTypeError{
			Type: cfg.OTLP.Type,
		}
	}
}

func initMetricReader(cfg config.MetricReader, exp metric.Exporter) (metric.Reader, error) {
	switch cfg.Type {
	case config.PeriodicReaderType:
		reader := metric.NewPeriodicReader(
			exp,
			metric.WithInterval(cfg.Periodic.ExportInterval),
			metric.WithProducer(runtime.NewProducer()),
		)
		return reader, nil
	default:
		return nil, UnknownMetricReaderTypeError{
			Type: cfg.Type,
		}
	}
}

// UnknownLogProcessorTypeError
type UnknownLogProcessorTypeError struct {
	Type config.LogProcessorType
}

func (e UnknownLogProcessorTypeError) Error() string {
	return fmt.Sprintf("unknown log processor type: %q", e.Type)
}

func initLogging(ctx context.Context, cfg config.Log, r *resource.Resource, cache *grpcConnCache) error {
	exp, err := initLogExporter(ctx, cfg.Exporter, cache)
	if err != nil {
		return err
	}

	lp, err := initLogProcessor(cfg.Processor, exp)
	if err != nil {
		return err
	}

	provider := log.NewLoggerProvider(
		log.WithProcessor(lp),
		log.WithResource(r),
	)
	global.SetLoggerProvider(provider)
	return nil
}

func initLogExporter(ctx context.Context, cfg config.Exporter, cache *grpcConnCache) (log.Exporter, error) {
	if cfg.OTLP.Target == "" {
		return newSlogExporter(), nil
	}

	switch cfg.OTLP.Type {
	case config.OTLPGRPC:
		cc, err := getOrNewClientConn(cfg.OTLP, cache)
		if err != nil {
			return nil, err
		}

		return otlploggrpc.New(
			ctx,
			otlploggrpc.WithGRPCConn(cc),
		)
	case config.OTLPHTTP:
		return otlploghttp.New(
			ctx,
			otlploghttp.WithEndpoint(cfg.OTLP.Target),
		)
	default:
		return nil, UnknownOTLPConnTypeError{
			Type: cfg.OTLP.Type,
		}
	}
}

func initLogProcessor(cfg config.LogProcessor, exp log.Exporter) (log.Processor, error) {
	switch cfg.Type {
	case config.SimpleLogProcessorType:
		return log.NewSimpleProcessor(exp), nil
	case config.BatchLogProcessorType:
		lp := log.NewBatchProcessor(
			exp,
			log.WithExportInterval(cfg.Batch.ExportInterval),
			log.WithExportMaxBatchSize(cfg.Batch.MaxSize),
		)
		return lp, nil
	default:
		return nil, UnknownLogProcessorTypeError{
			Type: cfg.Type,
		}
	}
}
