// Package instrumentation provides OpenTelemetry metrics and tracing
// plus an audit log of MCP tool invocations.
//
// The Provider wires a meter provider (prometheus, OTLP or stdout
// exporter) and an optional tracer provider (OTLP, stdout or none),
// configured through environment variables; see DefaultConfig. Metrics
// cover tool invocations, TickTick API operations and authentication
// attempts. The audit log goes through slog and never contains
// credentials or task contents.
package instrumentation
