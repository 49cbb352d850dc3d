package instrumentation

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys - using constants for consistency and DRY
const (
	attrOperation = "operation"
	attrStatus    = "status"
	attrOutcome   = "outcome"
)

// Metrics provides methods for recording observability metrics.
// All recording methods are safe to call on a zero-value Metrics, which
// acts as a no-op recorder.
type Metrics struct {
	// Pipeline metrics
	messagesProcessedTotal metric.Int64Counter
	recordsEmittedTotal    metric.Int64Counter
	extractedTextBytes     metric.Int64Counter

	// Gmail API metrics
	gmailOperationsTotal   metric.Int64Counter
	gmailOperationDuration metric.Float64Histogram
	attachmentBytesTotal   metric.Int64Counter
}

// NewMetrics creates a new Metrics instance with all metrics initialized.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}

	var err error

	m.messagesProcessedTotal, err = meter.Int64Counter(
		"pipeline_messages_processed_total",
		metric.WithDescription("Total number of messages that reached a terminal pipeline state"),
		metric.WithUnit("{message}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create pipeline_messages_processed_total counter: %w", err)
	}

	m.recordsEmittedTotal, err = meter.Int64Counter(
		"pipeline_records_emitted_total",
		metric.WithDescription("Total number of extracted records handed to the sink"),
		metric.WithUnit("{record}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create pipeline_records_emitted_total counter: %w", err)
	}

	m.extractedTextBytes, err = meter.Int64Counter(
		"pipeline_extracted_text_bytes_total",
		metric.WithDescription("Total size of extracted text handed to the sink"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create pipeline_extracted_text_bytes_total counter: %w", err)
	}

	m.gmailOperationsTotal, err = meter.Int64Counter(
		"gmail_api_operations_total",
		metric.WithDescription("Total number of Gmail API operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create gmail_api_operations_total counter: %w", err)
	}

	m.gmailOperationDuration, err = meter.Float64Histogram(
		"gmail_api_operation_duration_seconds",
		metric.WithDescription("Gmail API operation duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create gmail_api_operation_duration_seconds histogram: %w", err)
	}

	m.attachmentBytesTotal, err = meter.Int64Counter(
		"gmail_attachment_bytes_total",
		metric.WithDescription("Total size of attachment payloads fetched from Gmail"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create gmail_attachment_bytes_total counter: %w", err)
	}

	return m, nil
}

// RecordMessageOutcome records one message reaching a terminal pipeline state.
func (m *Metrics) RecordMessageOutcome(ctx context.Context, outcome string) {
	if m.messagesProcessedTotal == nil {
		return // Instrumentation not initialized
	}
	m.messagesProcessedTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrOutcome, outcome),
	))
}

// RecordRecordEmitted records a successfully emitted record and the size of
// its extracted text.
func (m *Metrics) RecordRecordEmitted(ctx context.Context, textBytes int) {
	if m.recordsEmittedTotal == nil || m.extractedTextBytes == nil {
		return
	}
	m.recordsEmittedTotal.Add(ctx, 1)
	m.extractedTextBytes.Add(ctx, int64(textBytes))
}

// RecordGmailOperation records a Gmail API operation with its status and duration.
//
// Parameters:
//   - operation: Operation type (search, get_message, get_attachment)
//   - status: Result status ("success" or "error")
//   - duration: Time taken for the operation, including retries
func (m *Metrics) RecordGmailOperation(ctx context.Context, operation, status string, duration time.Duration) {
	if m.gmailOperationsTotal == nil || m.gmailOperationDuration == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrOperation, operation),
		attribute.String(attrStatus, status),
	}

	m.gmailOperationsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.gmailOperationDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordAttachmentBytes records the size of a fetched attachment payload.
func (m *Metrics) RecordAttachmentBytes(ctx context.Context, n int) {
	if m.attachmentBytesTotal == nil {
		return
	}
	m.attachmentBytesTotal.Add(ctx, int64(n))
}
