package otel

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel"
)

func TestNewProviders_DisabledWithoutEndpoint(t *testing.T) {
	ctx := context.Background()
	for _, endpoint := range []string{"", "   "} {
		p, err := NewProviders(ctx, endpoint, "bloodbank-test", false)
		if err != nil {
			t.Fatalf("NewProviders(%q): %v", endpoint, err)
		}
		if p.TracerProvider == nil || p.MeterProvider == nil || p.LoggerProvider == nil {
			t.Fatalf("NewProviders(%q) left a provider nil", endpoint)
		}
		if err := p.Shutdown(ctx); err != nil {
			t.Errorf("Shutdown: %v", err)
		}
	}
}

func TestNewProviders_RejectsBadEndpoint(t *testing.T) {
	for _, endpoint := range []string{"://invalid", "http://[invalid", "http://"} {
		if _, err := NewProviders(context.Background(), endpoint, "bloodbank-test", false); err == nil {
			t.Errorf("NewProviders(%q) should fail", endpoint)
		}
	}
}

func TestSetGlobal(t *testing.T) {
	p, err := NewProviders(context.Background(), "", "bloodbank-test", false)
	if err != nil {
		t.Fatalf("NewProviders: %v", err)
	}
	oldTP, oldMP := otel.GetTracerProvider(), otel.GetMeterProvider()
	t.Cleanup(func() {
		otel.SetTracerProvider(oldTP)
		otel.SetMeterProvider(oldMP)
	})

	p.SetGlobal()
	if otel.GetTracerProvider() != p.TracerProvider {
		t.Error("global TracerProvider not replaced")
	}
	if otel.GetMeterProvider() != p.MeterProvider {
		t.Error("global MeterProvider not replaced")
	}
}

func TestParseEndpoint(t *testing.T) {
	tests := []struct {
		endpoint     string
		override     bool
		wantTarget   string
		wantInsecure bool
	}{
		{"localhost:4317", false, "localhost:4317", true},
		{"http://collector:4317/v1/traces", false, "collector:4317", true},
		{"https://collector:4317", false, "collector:4317", false},
		{"https://collector:4317", true, "collector:4317", true},
	}
	for _, tt := range tests {
		got, err := parseEndpoint(tt.endpoint, tt.override)
		if err != nil {
			t.Fatalf("parseEndpoint(%q): %v", tt.endpoint, err)
		}
		if got.target != tt.wantTarget || got.insecure != tt.wantInsecure {
			t.Errorf("parseEndpoint(%q, %v) = %+v", tt.endpoint, tt.override, got)
		}
	}
}
