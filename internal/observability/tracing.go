package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/paswerklabs/paswerk/internal/config"
)

// NewTracerProvider wires an OTLP gRPC exporter when tracing is enabled.
// Disabled tracing hands out a noop tracer so callers never nil-check.
func NewTracerProvider(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) (trace.TracerProvider, error) {
	if !cfg.Tracing.Enabled {
		return noop.NewTracerProvider(), nil
	}

	exporter, err := otlptracegrpc.New(
		context.Background(),
		otlptracegrpc.WithEndpoint(cfg.Tracing.Endpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
	otel.SetTracerProvider(tp)

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			log.Info("flushing trace spans")
			return tp.Shutdown(ctx)
		},
	})

	return tp, nil
}
