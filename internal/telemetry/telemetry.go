// Package telemetry installs the OpenTelemetry meter provider that exports
// run metrics to an OTLP collector.
package telemetry

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/jmylchreest/huegrid/internal/version"
)

const serviceName = "huegrid"

// Environment variables read by LoadConfig.
const (
	EnvEnabled  = "HUEGRID_OTEL_ENABLED"
	EnvEndpoint = "HUEGRID_OTEL_ENDPOINT"
	EnvInsecure = "HUEGRID_OTEL_INSECURE"
)

// Config holds OTLP exporter configuration.
type Config struct {
	Endpoint string
	Enabled  bool
	Insecure bool
}

// LoadConfig loads the exporter configuration from environment variables.
func LoadConfig() Config {
	enabled, _ := strconv.ParseBool(os.Getenv(EnvEnabled))
	insecure, _ := strconv.ParseBool(os.Getenv(EnvInsecure))

	return Config{
		Endpoint: os.Getenv(EnvEndpoint),
		Enabled:  enabled,
		Insecure: insecure,
	}
}

// Shutdown flushes pending metrics and stops the exporter.
type Shutdown func(context.Context) error

// Setup installs a global meter provider exporting over OTLP/gRPC. When
// export is disabled it installs nothing and returns a no-op Shutdown.
func Setup(ctx context.Context, cfg Config) (Shutdown, error) {
	if !cfg.Enabled {
		return func(context.Context) error { return nil }, nil
	}
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("%s is set but %s is empty", EnvEnabled, EnvEndpoint)
	}

	opts := []otlpmetricgrpc.Option{
		otlpmetricgrpc.WithEndpoint(cfg.Endpoint),
	}
	if cfg.Insecure {
		opts = append(opts, otlpmetricgrpc.WithDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())))
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}

	exp, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating OTLP exporter: %w", err)
	}

	provider, err := Install(ctx, sdkmetric.NewPeriodicReader(exp))
	if err != nil {
		return nil, err
	}
	return provider.Shutdown, nil
}

// Install creates a meter provider reading through reader and makes it the
// global provider.
func Install(ctx context.Context, reader sdkmetric.Reader) (*sdkmetric.MeterProvider, error) {
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(version.Short()),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(reader),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(provider)
	return provider, nil
}
