package cmd

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRecordSink(t *testing.T) {
	t.Run("jsonl file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.jsonl")
		s, closeFn, err := newRecordSink("jsonl", path)
		require.NoError(t, err)
		assert.NotNil(t, s)
		assert.NoError(t, closeFn())
	})

	t.Run("jsonl stdout", func(t *testing.T) {
		s, closeFn, err := newRecordSink("jsonl", "-")
		require.NoError(t, err)
		assert.NotNil(t, s)
		assert.NoError(t, closeFn())
	})

	t.Run("sqlite", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.db")
		s, closeFn, err := newRecordSink("sqlite", path)
		require.NoError(t, err)
		assert.NotNil(t, s)
		assert.NoError(t, closeFn())
	})

	t.Run("unknown format", func(t *testing.T) {
		_, _, err := newRecordSink("csv", "out.csv")
		assert.Error(t, err)
	})
}

func TestSplitContentTypes(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"application/pdf", []string{"application/pdf"}},
		{"application/pdf, text/plain", []string{"application/pdf", "text/plain"}},
		{" application/pdf ,, ", []string{"application/pdf"}},
		{",", []string{}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, splitContentTypes(tt.input), "input %q", tt.input)
	}
}

func TestVersionCmd(t *testing.T) {
	SetVersion("1.2.3")

	var out bytes.Buffer
	cmd := newVersionCmd()
	cmd.SetOut(&out)
	cmd.Run(cmd, nil)

	assert.Equal(t, "mailsift version 1.2.3\n", out.String())
}

func TestRunCmdFlags(t *testing.T) {
	cmd := newRunCmd()

	query, err := cmd.Flags().GetString("query")
	require.NoError(t, err)
	assert.Contains(t, query, "Rate Confirmation")

	types, err := cmd.Flags().GetStringSlice("content-type")
	require.NoError(t, err)
	assert.Equal(t, []string{"application/pdf"}, types)

	format, err := cmd.Flags().GetString("format")
	require.NoError(t, err)
	assert.Equal(t, "jsonl", format)
}
