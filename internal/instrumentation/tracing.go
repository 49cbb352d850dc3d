package instrumentation

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the default tracer name for the mailsift package.
const TracerName = "github.com/teemow/mailsift"

// Span attribute keys for pipeline operations.
const (
	// SpanAttrMessageID is the Gmail message identifier attribute.
	SpanAttrMessageID = "pipeline.message_id"

	// SpanAttrOutcome is the terminal outcome attribute.
	SpanAttrOutcome = "pipeline.outcome"

	// SpanAttrContentType is the selected attachment's content type.
	SpanAttrContentType = "pipeline.content_type"
)

// StartMessageSpan starts a span covering one message's trip through the
// pipeline. The caller must end the returned span.
func StartMessageSpan(ctx context.Context, messageID string) (context.Context, trace.Span) {
	tracer := otel.Tracer(TracerName)
	return tracer.Start(ctx, "pipeline.process_message",
		trace.WithAttributes(attribute.String(SpanAttrMessageID, messageID)),
	)
}

// EndMessageSpan records the outcome on the span and ends it.
func EndMessageSpan(span trace.Span, outcome string, err error) {
	span.SetAttributes(attribute.String(SpanAttrOutcome, outcome))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
