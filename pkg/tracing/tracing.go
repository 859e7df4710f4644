package tracing

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/simple-lms/console"

type Options struct {
	Endpoint    string
	ServiceName string
}

// Setup installs the global tracer provider. Without an endpoint spans are
// recorded but not exported.
func Setup(ctx context.Context, opts Options, logger *logrus.Logger) (func(context.Context) error, error) {
	res := resource.NewSchemaless(attribute.String("service.name", opts.ServiceName))
	providerOpts := []sdktrace.TracerProviderOption{sdktrace.WithResource(res)}

	if opts.Endpoint != "" {
		exp, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpointURL(opts.Endpoint))
		if err != nil {
			return nil, errors.Wrap(err, "create otlp exporter")
		}
		providerOpts = append(providerOpts, sdktrace.WithBatcher(exp))
		if logger != nil {
			logger.WithField("component", "tracing").WithField("endpoint", opts.Endpoint).Info("exporting traces")
		}
	}

	tp := sdktrace.NewTracerProvider(providerOpts...)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})
	return tp.Shutdown, nil
}

// Tracer returns the console's named tracer from the global provider.
func Tracer() trace.Tracer {
	return otel.Tracer(instrumentationName)
}
