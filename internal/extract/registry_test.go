package extract

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryDefaults(t *testing.T) {
	r := NewRegistry()

	assert.True(t, r.Supports("application/pdf"))
	assert.True(t, r.Supports("Application/PDF"), "lookup should be case-insensitive")
	assert.False(t, r.Supports("application/msword"))
	assert.Equal(t, []string{"application/pdf"}, r.ContentTypes())
}

func TestRegistryRegister(t *testing.T) {
	r := NewRegistry()
	r.Register("Text/Plain", func(data []byte) (string, error) {
		return string(data), nil
	})

	require.True(t, r.Supports("text/plain"))

	text, err := r.Convert("TEXT/PLAIN", []byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, "hello", text)
}

func TestConvertUnregisteredType(t *testing.T) {
	r := NewRegistry()

	_, err := r.Convert("application/zip", []byte{0x50, 0x4b})
	require.Error(t, err)

	var extErr *ExtractionError
	assert.False(t, errors.As(err, &extErr),
		"unregistered type is a configuration bug, not an extraction failure")
}

func TestConvertConverterFailure(t *testing.T) {
	r := NewRegistry()
	cause := fmt.Errorf("corrupt content")
	r.Register("application/test", func(data []byte) (string, error) {
		return "", cause
	})

	_, err := r.Convert("application/test", []byte("x"))

	var extErr *ExtractionError
	require.ErrorAs(t, err, &extErr)
	assert.Equal(t, "application/test", extErr.ContentType)
	assert.ErrorIs(t, err, cause)
}

func TestConvertEmptyTextIsExtractionError(t *testing.T) {
	r := NewRegistry()
	r.Register("application/test", func(data []byte) (string, error) {
		return "   \n\t ", nil
	})

	_, err := r.Convert("application/test", []byte("x"))

	var extErr *ExtractionError
	require.ErrorAs(t, err, &extErr)
}

func TestPDFToTextCorruptBytes(t *testing.T) {
	_, err := PDFToText([]byte("this is not a pdf"))
	require.Error(t, err)
}

func TestPDFToTextTruncatedHeader(t *testing.T) {
	// A valid header with a truncated body must not panic.
	_, err := PDFToText([]byte("%PDF-1.7\n"))
	require.Error(t, err)
}

func TestPDFToTextEmptyInput(t *testing.T) {
	_, err := PDFToText(nil)
	require.Error(t, err)
}
