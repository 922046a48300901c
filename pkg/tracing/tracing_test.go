package tracing

import (
	"context"
	"testing"
)

func TestNewProvider_Disabled(t *testing.T) {
	p, err := NewProvider(context.Background(), Config{})
	if err != nil {
		t.Fatalf("NewProvider() error = %v", err)
	}
	if p.Enabled() {
		t.Error("provider without endpoint should be disabled")
	}
	if err := p.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}

	_, span := Tracer().Start(context.Background(), "noop")
	span.End()
}

func TestNewProvider_InvalidSampleRate(t *testing.T) {
	_, err := NewProvider(context.Background(), Config{Endpoint: "localhost:4318", SampleRate: 2})
	if err == nil {
		t.Fatal("expected error for sample_rate > 1")
	}
}
