package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

type testPropagator struct{}

func (testPropagator) Inject(context.Context, propagation.TextMapCarrier) {}

func (testPropagator) Extract(ctx context.Context, _ propagation.TextMapCarrier) context.Context {
	return ctx
}

func (testPropagator) Fields() []string { return nil }

type testErrorHandler struct{}

func (testErrorHandler) Handle(error) {}

// withSentinels installs recognizable globals and restores the originals
// when the test ends.
func withSentinels(t *testing.T) *sdktrace.TracerProvider {
	t.Helper()
	origTP := otel.GetTracerProvider()
	origPropagator := otel.GetTextMapPropagator()
	origErrorHandler := otel.GetErrorHandler()
	t.Cleanup(func() {
		otel.SetTracerProvider(origTP)
		otel.SetTextMapPropagator(origPropagator)
		otel.SetErrorHandler(origErrorHandler)
	})

	sentinel := sdktrace.NewTracerProvider()
	t.Cleanup(func() { _ = sentinel.Shutdown(context.Background()) })

	otel.SetTracerProvider(sentinel)
	otel.SetTextMapPropagator(testPropagator{})
	otel.SetErrorHandler(testErrorHandler{})
	return sentinel
}

func TestSetupTracingDisabled(t *testing.T) {
	sentinel := withSentinels(t)

	shutdown, err := SetupTracing(context.Background(), TracingConfig{})
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))

	assert.Same(t, sentinel, otel.GetTracerProvider())
	assert.IsType(t, testPropagator{}, otel.GetTextMapPropagator())
	assert.IsType(t, testErrorHandler{}, otel.GetErrorHandler())
}

func TestSetupTracingEnabled(t *testing.T) {
	sentinel := withSentinels(t)

	shutdown, err := SetupTracing(context.Background(), TracingConfig{
		Endpoint:    "localhost:4318",
		Insecure:    true,
		ServiceName: "mcpdash-test",
		Version:     "0.0.1",
		InstanceID:  "abc",
	})
	require.NoError(t, err)

	tp := otel.GetTracerProvider()
	assert.NotSame(t, sentinel, tp)
	_, isSDK := tp.(*sdktrace.TracerProvider)
	assert.True(t, isSDK)

	_, span := Tracer("test").Start(context.Background(), "probe")
	assert.True(t, span.SpanContext().IsValid())
	span.End()

	// Shutdown restores globals even if the collector is unreachable.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = shutdown(ctx)

	assert.Same(t, sentinel, otel.GetTracerProvider())
	assert.IsType(t, testPropagator{}, otel.GetTextMapPropagator())
	assert.IsType(t, testErrorHandler{}, otel.GetErrorHandler())
}
