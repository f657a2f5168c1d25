package metrics

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	sdk "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/hodei-artifacts/hodei/internal/build"
	"github.com/hodei-artifacts/hodei/internal/log"
)

type Config struct {
	Enabled bool `conf:"enabled" yaml:"enabled" json:"enabled"`

	// Exporter selects the metric exporter: stdout, otlp-grpc or otlp-http.
	Exporter string `conf:"exporter" yaml:"exporter" json:"exporter"`

	// Endpoint of the OTLP collector, host:port. Ignored by stdout.
	Endpoint string `conf:"endpoint" yaml:"endpoint" json:"endpoint"`

	// Insecure disables TLS on the OTLP connection.
	Insecure bool `conf:"insecure" yaml:"insecure" json:"insecure"`

	Interval time.Duration `conf:"interval" yaml:"interval" json:"interval"`
}

func (c Config) interval() time.Duration {
	if c.Interval <= 0 {
		return 30 * time.Second
	}

	return c.Interval
}

// NewProvider builds the meter provider from the config. It returns nil when
// metrics are disabled; callers must tolerate a nil provider.
func NewProvider(cfg Config) (*sdk.MeterProvider, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	exporter, err := newExporter(cfg)
	if err != nil {
		return nil, fmt.Errorf("create metric exporter: %w", err)
	}

	res, err := resource.Merge(resource.Default(), resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName("hodei"),
		semconv.ServiceVersion(build.Version),
	))
	if err != nil {
		return nil, fmt.Errorf("create metric resource: %w", err)
	}

	reader := sdk.NewPeriodicReader(exporter, sdk.WithInterval(cfg.interval()))

	return sdk.NewMeterProvider(sdk.WithReader(reader), sdk.WithResource(res)), nil
}

func newExporter(cfg Config) (sdk.Exporter, error) {
	switch cfg.Exporter {
	case "", "stdout":
		return stdoutmetric.New()
	case "otlp-grpc":
		opts := []otlpmetricgrpc.Option{}
		if cfg.Endpoint != "" {
			opts = append(opts, otlpmetricgrpc.WithEndpoint(cfg.Endpoint))
		}

		if cfg.Insecure {
			opts = append(opts, otlpmetricgrpc.WithInsecure())
		}

		return otlpmetricgrpc.New(context.Background(), opts...)
	case "otlp-http":
		opts := []otlpmetrichttp.Option{}
		if cfg.Endpoint != "" {
			opts = append(opts, otlpmetrichttp.WithEndpoint(cfg.Endpoint))
		}

		if cfg.Insecure {
			opts = append(opts, otlpmetrichttp.WithInsecure())
		}

		return otlpmetrichttp.New(context.Background(), opts...)
	default:
		return nil, fmt.Errorf("unknown metric exporter: %q", cfg.Exporter)
	}
}

// SetupMetrics installs the provider as the global meter provider.
func SetupMetrics(provider *sdk.MeterProvider, name string) error {
	otel.SetMeterProvider(provider)

	log.Info(context.Background(), "metrics enabled", log.String("service", name))

	return nil
}
