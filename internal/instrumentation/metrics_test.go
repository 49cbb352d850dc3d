package instrumentation

import (
	"context"
	"testing"
	"time"
)

func newTestProvider(t *testing.T, ctx context.Context) *Provider {
	t.Helper()

	provider, err := NewProvider(ctx, Config{
		ServiceName:     "test-service",
		ServiceVersion:  "1.0.0",
		Enabled:         true,
		MetricsExporter: ExporterPrometheus,
		TracingExporter: ExporterNone,
	})
	if err != nil {
		t.Fatalf("failed to create provider: %v", err)
	}
	t.Cleanup(func() { _ = provider.Shutdown(ctx) })
	return provider
}

func TestMetrics_RecordMessageOutcome(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	provider := newTestProvider(t, ctx)

	metrics := provider.Metrics()
	if metrics == nil {
		t.Fatal("expected metrics to be non-nil")
	}

	// Should not panic
	metrics.RecordMessageOutcome(ctx, "emitted")
	metrics.RecordMessageOutcome(ctx, "skipped")
	metrics.RecordMessageOutcome(ctx, "fetch_failed")
}

func TestMetrics_RecordGmailOperation(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	provider := newTestProvider(t, ctx)
	metrics := provider.Metrics()

	metrics.RecordGmailOperation(ctx, OperationSearch, StatusSuccess, 120*time.Millisecond)
	metrics.RecordGmailOperation(ctx, OperationGetMessage, StatusError, 30*time.Second)
	metrics.RecordAttachmentBytes(ctx, 2048)
	metrics.RecordRecordEmitted(ctx, 512)
}

func TestMetrics_ZeroValueIsNoOp(t *testing.T) {
	ctx := context.Background()
	var m Metrics

	// A zero-value recorder must be safe to use.
	m.RecordMessageOutcome(ctx, "emitted")
	m.RecordRecordEmitted(ctx, 10)
	m.RecordGmailOperation(ctx, OperationSearch, StatusSuccess, time.Second)
	m.RecordAttachmentBytes(ctx, 1)
}

func TestProviderDisabled(t *testing.T) {
	ctx := context.Background()

	provider, err := NewProvider(ctx, Config{Enabled: false})
	if err != nil {
		t.Fatalf("NewProvider() error = %v", err)
	}

	if provider.Enabled() {
		t.Error("expected provider to be disabled")
	}
	if provider.Metrics() == nil {
		t.Error("disabled provider must still return a no-op metrics recorder")
	}
	if err := provider.Shutdown(ctx); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}
