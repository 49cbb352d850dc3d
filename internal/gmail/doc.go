// Package gmail provides read-only access to Gmail messages and attachments
// for the extraction pipeline.
//
// The package wraps the Gmail Users service and exposes three operations:
//   - ForeachMessage: paginated iteration over the ids of all messages
//     matching a search query
//   - FetchMessage: message metadata plus its attachment manifest
//   - FetchAttachment: the decoded bytes of a single attachment
//
// Fetch operations retry transient provider errors (rate limits, timeouts,
// server errors) with bounded exponential backoff before reporting a
// FetchError. A rejected query or failed result page is reported as a
// SearchError, which is fatal to a run.
package gmail
