// Package common provides shared helpers for MCP tool handlers:
// coercion of loosely-typed tool arguments into the types the handlers
// declare, and the instrumentation wrapper that records metrics and
// audit entries around every tool invocation.
package common
