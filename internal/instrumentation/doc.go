// Package instrumentation provides OpenTelemetry metrics and tracing for the
// mailsift pipeline.
//
// Configuration is environment-driven (see Config). Metrics can be exported
// via Prometheus (scraped from an optional /metrics endpoint during a run),
// OTLP, or stdout; traces via OTLP or stdout, disabled by default since most
// runs are short-lived batch jobs.
//
// The Metrics recorder is nil-safe: a zero value records nothing, so callers
// never need to guard recording calls.
package instrumentation
