package instrumentation

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"
)

// Status values for metrics and audit logging.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// ToolInvocation captures one MCP tool call for the audit trail.
type ToolInvocation struct {
	Tool      string
	Operation string // backend operation (list, get, create, update, delete)

	StartTime time.Time
	Duration  time.Duration
	Success   bool
	Error     string

	TraceID string
	SpanID  string
}

// NewToolInvocation starts a record for the named tool.
func NewToolInvocation(tool string) *ToolInvocation {
	return &ToolInvocation{
		Tool:      tool,
		StartTime: time.Now(),
	}
}

// WithOperation records the backend operation type.
func (ti *ToolInvocation) WithOperation(operation string) *ToolInvocation {
	ti.Operation = operation
	return ti
}

// WithSpanContext captures the trace and span ids from the context, if
// a recording span is present.
func (ti *ToolInvocation) WithSpanContext(ctx context.Context) *ToolInvocation {
	span := trace.SpanContextFromContext(ctx)
	if span.IsValid() {
		ti.TraceID = span.TraceID().String()
		ti.SpanID = span.SpanID().String()
	}
	return ti
}

// Complete finalizes the record with the given outcome.
func (ti *ToolInvocation) Complete(success bool, err error) {
	ti.Duration = time.Since(ti.StartTime)
	ti.Success = success
	if err != nil {
		ti.Error = err.Error()
	}
}

// Status returns "success" or "error" based on the outcome.
func (ti *ToolInvocation) Status() string {
	if ti.Success {
		return StatusSuccess
	}
	return StatusError
}

// LogAttrs returns slog attributes for structured logging.
func (ti *ToolInvocation) LogAttrs() []slog.Attr {
	attrs := []slog.Attr{
		slog.String("tool", ti.Tool),
		slog.Duration("duration", ti.Duration),
		slog.Bool("success", ti.Success),
	}
	if ti.Operation != "" {
		attrs = append(attrs, slog.String("operation", ti.Operation))
	}
	if ti.TraceID != "" {
		attrs = append(attrs, slog.String("trace_id", ti.TraceID))
	}
	if ti.Error != "" {
		attrs = append(attrs, slog.String("error", ti.Error))
	}
	return attrs
}

// AuditLogger writes the tool invocation audit trail via slog. No
// credentials or task contents are ever logged.
type AuditLogger struct {
	logger  *slog.Logger
	enabled bool
}

// NewAuditLogger creates an audit logger. When disabled, LogToolInvocation
// is a no-op.
func NewAuditLogger(logger *slog.Logger, enabled bool) *AuditLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditLogger{logger: logger, enabled: enabled}
}

// LogToolInvocation records a completed tool invocation.
func (a *AuditLogger) LogToolInvocation(ti *ToolInvocation) {
	if a == nil || !a.enabled {
		return
	}
	a.logger.LogAttrs(context.Background(), slog.LevelInfo, "tool invocation", ti.LogAttrs()...)
}
