// Package instrumentation provides OpenTelemetry metrics and tracing for
// the calendar agent.
//
// The Provider owns the meter and tracer providers and the exporter
// wiring (Prometheus, OTLP or stdout). The Metrics recorder covers the
// agent's hot paths: conversation turns, reasoning calls, tool dispatches,
// Google Calendar API operations and OAuth attempts. A zero Metrics value
// is a valid no-op recorder, so callers never need nil checks.
package instrumentation
