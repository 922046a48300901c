// Package tracing 初始化 OpenTelemetry TracerProvider（OTLP HTTP 导出）。
//
// Endpoint 为空时不导出，Tracer 退化为全局 noop 实现。
package tracing

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// TracerName 是 vidrec 内部 span 使用的 tracer 名称。
const TracerName = "github.com/rushteam/vidrec"

// Config 是链路追踪配置。
type Config struct {
	// Endpoint OTLP HTTP 地址（host:port），为空时关闭追踪
	Endpoint string `mapstructure:"endpoint"`

	// Insecure 关闭 TLS（仅开发环境）
	Insecure bool `mapstructure:"insecure"`

	// SampleRate 采样率 [0, 1]，默认 1
	SampleRate float64 `mapstructure:"sample_rate"`

	ServiceName string `mapstructure:"service_name"`
}

// Provider 持有 TracerProvider，负责关闭时刷新 span。
type Provider struct {
	tp *sdktrace.TracerProvider
}

// NewProvider 按配置创建 Provider 并设置为全局 TracerProvider。
func NewProvider(ctx context.Context, cfg Config) (*Provider, error) {
	if cfg.Endpoint == "" {
		return &Provider{}, nil
	}
	if cfg.SampleRate < 0 || cfg.SampleRate > 1 {
		return nil, fmt.Errorf("tracing: sample_rate must be in [0, 1], got %v", cfg.SampleRate)
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = "vidrec"
	}

	opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	exporter, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("tracing: create exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(attribute.String("service.name", cfg.ServiceName)),
	)
	if err != nil {
		return nil, fmt.Errorf("tracing: create resource: %w", err)
	}

	sampler := sdktrace.AlwaysSample()
	if cfg.SampleRate > 0 && cfg.SampleRate < 1 {
		sampler = sdktrace.TraceIDRatioBased(cfg.SampleRate)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sampler)),
		sdktrace.WithBatcher(exporter, sdktrace.WithBatchTimeout(5*time.Second)),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	return &Provider{tp: tp}, nil
}

// Enabled 报告是否在导出 span。
func (p *Provider) Enabled() bool {
	return p != nil && p.tp != nil
}

// Shutdown 刷新并关闭导出器。
func (p *Provider) Shutdown(ctx context.Context) error {
	if !p.Enabled() {
		return nil
	}
	if err := p.tp.Shutdown(ctx); err != nil {
		return fmt.Errorf("tracing: shutdown: %w", err)
	}
	return nil
}

// Tracer 返回 vidrec 使用的 tracer（取自全局 TracerProvider）。
func Tracer() trace.Tracer {
	return otel.Tracer(TracerName)
}
