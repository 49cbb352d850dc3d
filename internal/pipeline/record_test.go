package pipeline

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/mailsift/internal/gmail"
)

func TestNewRecord(t *testing.T) {
	msg := &gmail.MessageSummary{
		ID:      "msg-42",
		Subject: "Rate Confirmation for order #12345",
		Date:    "Mon, 2 Jun 2025 10:04:00 -0500",
	}
	att := &gmail.AttachmentInfo{
		MessageID:    "msg-42",
		AttachmentID: "att-1",
		Filename:     "confirmation.pdf",
		MimeType:     "application/pdf",
	}

	rec := NewRecord(msg, att, "extracted text", "has:attachment", []string{"application/pdf"})

	assert.Equal(t, "msg-42", rec.MessageID)
	assert.Equal(t, "Rate Confirmation for order #12345", rec.Subject)
	assert.Equal(t, "Mon, 2 Jun 2025 10:04:00 -0500", rec.Date)
	assert.Equal(t, "confirmation.pdf", rec.AttachmentName)
	assert.Equal(t, "has:attachment", rec.Query)
	assert.Equal(t, []string{"application/pdf"}, rec.ContentTypes)
	assert.Equal(t, "extracted text", rec.Text)
}

func TestNewRecord_CopiesContentTypes(t *testing.T) {
	msg := &gmail.MessageSummary{ID: "msg-1"}
	att := &gmail.AttachmentInfo{Filename: "doc.pdf"}
	types := []string{"application/pdf"}

	rec := NewRecord(msg, att, "text", "q", types)
	types[0] = "image/png"

	assert.Equal(t, []string{"application/pdf"}, rec.ContentTypes)
}

func TestRecord_JSONFieldNames(t *testing.T) {
	rec := &Record{
		MessageID:      "msg-1",
		Subject:        "subject",
		Date:           "date",
		AttachmentName: "doc.pdf",
		Query:          "q",
		ContentTypes:   []string{"application/pdf"},
		Text:           "text",
	}

	data, err := json.Marshal(rec)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(data, &fields))

	for _, key := range []string{
		"messageId", "subject", "date", "attachmentName",
		"gmailQueryUsed", "targetMimes", "attachmentContentText",
	} {
		assert.Contains(t, fields, key)
	}
}
