package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Common log attribute keys for consistent naming across the codebase.
const (
	KeyOperation   = "operation"
	KeyQuery       = "query"
	KeyMessageID   = "message_id"
	KeyAttachment  = "attachment"
	KeyContentType = "content_type"
	KeyOutcome     = "outcome"
	KeyStatus      = "status"
	KeyError       = "error"
)

// Status values for consistent logging.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// WithOperation returns a logger with the operation attribute set.
func WithOperation(logger *slog.Logger, operation string) *slog.Logger {
	return logger.With(slog.String(KeyOperation, operation))
}

// WithMessageID returns a logger with the message_id attribute set.
func WithMessageID(logger *slog.Logger, id string) *slog.Logger {
	return logger.With(slog.String(KeyMessageID, id))
}

// Operation returns a slog attribute for the operation name.
func Operation(op string) slog.Attr {
	return slog.String(KeyOperation, op)
}

// Query returns a slog attribute for the search query.
func Query(q string) slog.Attr {
	return slog.String(KeyQuery, q)
}

// MessageID returns a slog attribute for a Gmail message identifier.
func MessageID(id string) slog.Attr {
	return slog.String(KeyMessageID, id)
}

// Attachment returns a slog attribute for an attachment filename.
func Attachment(name string) slog.Attr {
	return slog.String(KeyAttachment, name)
}

// ContentType returns a slog attribute for a MIME content type.
func ContentType(ct string) slog.Attr {
	return slog.String(KeyContentType, ct)
}

// Outcome returns a slog attribute for a per-message pipeline outcome.
func Outcome(outcome string) slog.Attr {
	return slog.String(KeyOutcome, outcome)
}

// Status returns a slog attribute for the status.
func Status(status string) slog.Attr {
	return slog.String(KeyStatus, status)
}

// Err returns a slog attribute for an error.
// If err is nil, returns an empty Group attribute that will be omitted from output.
// This allows safely passing Err(maybeNilErr) without adding empty attributes.
//
// Usage:
//
//	logger.Info("operation", logging.Err(err))  // Safe even if err is nil
func Err(err error) slog.Attr {
	if err == nil {
		// Return an empty Group that slog will omit from output
		return slog.Group("")
	}
	return slog.String(KeyError, err.Error())
}

// ParseLevel converts a textual log level to a slog.Level.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", level)
	}
}

// NewLogger creates a slog.Logger writing to w with the given level and
// format ("text" or "json"). Unknown formats fall back to text.
func NewLogger(w io.Writer, level slog.Level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
