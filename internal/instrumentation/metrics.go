package instrumentation

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics records application metrics via OpenTelemetry instruments.
// A zero-value Metrics is a safe no-op recorder.
type Metrics struct {
	toolInvocationsTotal metric.Int64Counter
	toolDuration         metric.Float64Histogram

	apiOperationsTotal   metric.Int64Counter
	apiOperationDuration metric.Float64Histogram

	authTotal metric.Int64Counter
}

// NewMetrics creates the metric instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}
	var err error

	m.toolInvocationsTotal, err = meter.Int64Counter(
		"mcp_tool_invocations_total",
		metric.WithDescription("Total number of MCP tool invocations"),
	)
	if err != nil {
		return nil, err
	}

	m.toolDuration, err = meter.Float64Histogram(
		"mcp_tool_duration_seconds",
		metric.WithDescription("Duration of MCP tool invocations"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	m.apiOperationsTotal, err = meter.Int64Counter(
		"ticktick_api_operations_total",
		metric.WithDescription("Total number of TickTick API operations"),
	)
	if err != nil {
		return nil, err
	}

	m.apiOperationDuration, err = meter.Float64Histogram(
		"ticktick_api_operation_duration_seconds",
		metric.WithDescription("Duration of TickTick API operations"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	m.authTotal, err = meter.Int64Counter(
		"ticktick_auth_total",
		metric.WithDescription("Total number of TickTick authentication attempts"),
	)
	if err != nil {
		return nil, err
	}

	return m, nil
}

// RecordToolInvocation records a single MCP tool invocation.
func (m *Metrics) RecordToolInvocation(ctx context.Context, toolName, status string, duration time.Duration) {
	if m.toolInvocationsTotal == nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String("tool", toolName),
		attribute.String("status", status),
	)
	m.toolInvocationsTotal.Add(ctx, 1, attrs)
	m.toolDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordAPIOperation records a TickTick backend operation.
func (m *Metrics) RecordAPIOperation(ctx context.Context, operation, status string, duration time.Duration) {
	if m.apiOperationsTotal == nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("status", status),
	)
	m.apiOperationsTotal.Add(ctx, 1, attrs)
	m.apiOperationDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordAuth records an authentication attempt result ("success" or "error").
func (m *Metrics) RecordAuth(ctx context.Context, result string) {
	if m.authTotal == nil {
		return
	}
	m.authTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("result", result)))
}
