package observability

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/sdk/resource"

	"github.com/tbourn/go-product-api/internal/config"
)

func TestSetupOTel_DisabledIsNoop(t *testing.T) {
	shutdown, err := SetupOTel(context.Background(), config.OTELConfig{Enabled: false}, "test")
	if err != nil {
		t.Fatalf("err = %v", err)
	}
	if shutdown == nil {
		t.Fatalf("nil shutdown")
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown err = %v", err)
	}
}

func TestSetupOTel_ExporterFailure(t *testing.T) {
	prev := newOTLPExporterFn
	t.Cleanup(func() { newOTLPExporterFn = prev })
	newOTLPExporterFn = func(ctx context.Context, client otlptrace.Client) (*otlptrace.Exporter, error) {
		return nil, errors.New("export down")
	}

	_, err := SetupOTel(context.Background(), config.OTELConfig{
		Enabled:     true,
		Endpoint:    "localhost:4317",
		Insecure:    true,
		ServiceName: "product-api-test",
	}, "test")
	if err == nil || err.Error() != "export down" {
		t.Fatalf("err = %v", err)
	}
}

func TestSetupOTel_ResourceFailure(t *testing.T) {
	prevExp := newOTLPExporterFn
	prevRes := newServiceResourceFn
	t.Cleanup(func() {
		newOTLPExporterFn = prevExp
		newServiceResourceFn = prevRes
	})
	newOTLPExporterFn = func(ctx context.Context, client otlptrace.Client) (*otlptrace.Exporter, error) {
		return &otlptrace.Exporter{}, nil
	}
	newServiceResourceFn = func(ctx context.Context, serviceName, version string) (*resource.Resource, error) {
		return nil, errors.New("bad resource")
	}

	_, err := SetupOTel(context.Background(), config.OTELConfig{
		Enabled:  true,
		Endpoint: "localhost:4317",
		Insecure: true,
	}, "test")
	if err == nil || err.Error() != "bad resource" {
		t.Fatalf("err = %v", err)
	}
}
