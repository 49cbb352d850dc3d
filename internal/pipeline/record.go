package pipeline

import (
	"github.com/teemow/mailsift/internal/gmail"
)

// Record is the terminal, immutable output entity: one successfully
// processed (message, attachment) pair. Field names follow the dataset
// schema consumed downstream.
type Record struct {
	MessageID      string   `json:"messageId" db:"message_id"`
	Subject        string   `json:"subject" db:"subject"`
	Date           string   `json:"date" db:"date"`
	AttachmentName string   `json:"attachmentName" db:"attachment_name"`
	Query          string   `json:"gmailQueryUsed" db:"query"`
	ContentTypes   []string `json:"targetMimes" db:"-"`
	Text           string   `json:"attachmentContentText" db:"text"`
}

// NewRecord assembles a record from message metadata, the selected
// attachment, the extracted text, and the run's parameters. It is a pure
// function with no failure path: well-formed inputs always produce a record.
//
// The allow-list is copied so later mutation of the run configuration cannot
// alter an already-assembled record.
func NewRecord(msg *gmail.MessageSummary, att *gmail.AttachmentInfo, text, query string, contentTypes []string) *Record {
	types := make([]string, len(contentTypes))
	copy(types, contentTypes)

	return &Record{
		MessageID:      msg.ID,
		Subject:        msg.Subject,
		Date:           msg.Date,
		AttachmentName: att.Filename,
		Query:          query,
		ContentTypes:   types,
		Text:           text,
	}
}
