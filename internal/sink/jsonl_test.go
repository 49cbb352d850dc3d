package sink

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/mailsift/internal/pipeline"
)

func testRecord(id string) *pipeline.Record {
	return &pipeline.Record{
		MessageID:      id,
		Subject:        "Rate Confirmation for order #100",
		Date:           "Mon, 2 Jun 2025 10:04:00 -0500",
		AttachmentName: "confirmation.pdf",
		Query:          "has:attachment",
		ContentTypes:   []string{"application/pdf"},
		Text:           "line one\nline two",
	}
}

func TestJSONL_Append(t *testing.T) {
	var buf bytes.Buffer
	s := NewJSONL(&buf)

	require.NoError(t, s.Append(testRecord("m1")))
	require.NoError(t, s.Append(testRecord("m2")))
	require.NoError(t, s.Close())

	scanner := bufio.NewScanner(&buf)
	var ids []string
	for scanner.Scan() {
		var rec pipeline.Record
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &rec))
		ids = append(ids, rec.MessageID)
		assert.Equal(t, "line one\nline two", rec.Text)
	}
	require.NoError(t, scanner.Err())
	assert.Equal(t, []string{"m1", "m2"}, ids)
}

func TestOpenJSONLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.jsonl")

	s, err := OpenJSONLFile(path)
	require.NoError(t, err)
	require.NoError(t, s.Append(testRecord("m1")))
	require.NoError(t, s.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var rec pipeline.Record
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(data), &rec))
	assert.Equal(t, "m1", rec.MessageID)
}

func TestOpenJSONLFile_BadPath(t *testing.T) {
	_, err := OpenJSONLFile(filepath.Join(t.TempDir(), "missing", "records.jsonl"))
	assert.Error(t, err)
}
