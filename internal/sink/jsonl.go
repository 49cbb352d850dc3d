package sink

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/teemow/mailsift/internal/pipeline"
)

// JSONL writes records as JSON Lines: one JSON object per record, one record
// per line. It implements pipeline.Sink.
type JSONL struct {
	enc    *json.Encoder
	closer io.Closer
}

// NewJSONL wraps an existing writer. The caller retains ownership of w;
// Close is a no-op.
func NewJSONL(w io.Writer) *JSONL {
	return &JSONL{enc: json.NewEncoder(w)}
}

// OpenJSONLFile creates (or truncates) a JSONL output file at path.
// Close flushes and closes the file.
func OpenJSONLFile(path string) (*JSONL, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating output file: %w", err)
	}
	return &JSONL{enc: json.NewEncoder(f), closer: f}, nil
}

// Append writes one record as a single line.
func (s *JSONL) Append(rec *pipeline.Record) error {
	if err := s.enc.Encode(rec); err != nil {
		return fmt.Errorf("encoding record %s: %w", rec.MessageID, err)
	}
	return nil
}

// Close closes the underlying file, if this sink owns one.
func (s *JSONL) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}
