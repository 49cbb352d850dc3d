package gmail

import (
	"context"
	"encoding/base64"
	"fmt"

	gmail "google.golang.org/api/gmail/v1"

	"github.com/teemow/mailsift/internal/retry"
)

const (
	// MaxAttachmentSize defines the maximum attachment size in bytes (25MB)
	MaxAttachmentSize = 25 * 1024 * 1024
)

// MessageSummary holds the per-message metadata the pipeline needs, together
// with the message's full attachment manifest. It is ephemeral: discarded
// once a record or a skip decision has been produced.
type MessageSummary struct {
	ID      string
	Subject string
	// Date is the raw Date header value. The pipeline does not reformat it.
	Date        string
	Attachments []*AttachmentInfo
}

// AttachmentInfo represents one manifest entry: an attachment's metadata and
// the reference needed to fetch its bytes.
type AttachmentInfo struct {
	MessageID    string
	PartID       string
	AttachmentID string
	Filename     string
	MimeType     string
	Size         int64
}

// FetchMessage retrieves a message's metadata and attachment manifest in one
// call. Transient API errors are retried with bounded backoff; once attempts
// are exhausted (or the error is permanent) a *FetchError is returned.
func (c *Client) FetchMessage(ctx context.Context, messageID string) (*MessageSummary, error) {
	msg, err := retry.Do(ctx, c.retry, func() (*gmail.Message, error) {
		m, err := c.svc.Messages.Get("me", messageID).Format("full").Context(ctx).Do()
		if err != nil {
			return nil, classifyTransient(err)
		}
		return m, nil
	})
	if err != nil {
		return nil, &FetchError{MessageID: messageID, Err: err}
	}

	return summarize(msg), nil
}

// FetchAttachment retrieves and decodes the raw bytes of one attachment.
// Retry semantics match FetchMessage.
func (c *Client) FetchAttachment(ctx context.Context, messageID, attachmentID string) ([]byte, error) {
	if messageID == "" {
		return nil, fmt.Errorf("messageID is required")
	}
	if attachmentID == "" {
		return nil, fmt.Errorf("attachmentID is required")
	}

	att, err := retry.Do(ctx, c.retry, func() (*gmail.MessagePartBody, error) {
		a, err := c.svc.Messages.Attachments.Get("me", messageID, attachmentID).Context(ctx).Do()
		if err != nil {
			return nil, classifyTransient(err)
		}
		return a, nil
	})
	if err != nil {
		return nil, &FetchError{MessageID: messageID, Err: err}
	}

	if att.Size > MaxAttachmentSize {
		return nil, &FetchError{
			MessageID: messageID,
			Err:       fmt.Errorf("attachment size %d exceeds maximum size %d", att.Size, MaxAttachmentSize),
		}
	}

	data, err := decodeBody(att.Data)
	if err != nil {
		return nil, &FetchError{MessageID: messageID, Err: err}
	}
	return data, nil
}

// decodeBody decodes base64url-encoded part data (Gmail API uses RFC 4648
// base64url encoding), falling back to standard base64.
func decodeBody(data string) ([]byte, error) {
	decoded, err := base64.URLEncoding.DecodeString(data)
	if err != nil {
		decoded, err = base64.StdEncoding.DecodeString(data)
		if err != nil {
			return nil, fmt.Errorf("failed to decode attachment data: %w", err)
		}
	}
	return decoded, nil
}

// summarize builds a MessageSummary from a full API message. The manifest
// preserves the order in which parts appear in the payload tree; that order
// is arbitrary but stable within one fetch, which is all the selection
// policy relies on.
func summarize(msg *gmail.Message) *MessageSummary {
	summary := &MessageSummary{
		ID:      msg.Id,
		Subject: headerValue(msg, "Subject"),
		Date:    headerValue(msg, "Date"),
	}

	walkParts(msg.Payload, func(part *gmail.MessagePart) {
		if part.Filename != "" && part.Body != nil && part.Body.AttachmentId != "" {
			summary.Attachments = append(summary.Attachments, &AttachmentInfo{
				MessageID:    msg.Id,
				PartID:       part.PartId,
				AttachmentID: part.Body.AttachmentId,
				Filename:     part.Filename,
				MimeType:     part.MimeType,
				Size:         part.Body.Size,
			})
		}
	})

	return summary
}

// headerValue returns the value of the named header from the message payload,
// or the empty string if absent.
func headerValue(msg *gmail.Message, name string) string {
	if msg.Payload == nil {
		return ""
	}
	for _, h := range msg.Payload.Headers {
		if h.Name == name {
			return h.Value
		}
	}
	return ""
}

// walkParts recursively walks through message parts
func walkParts(part *gmail.MessagePart, fn func(*gmail.MessagePart)) {
	if part == nil {
		return
	}

	fn(part)

	for _, subpart := range part.Parts {
		walkParts(subpart, fn)
	}
}
