package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ContentTypePDF is the content type handled by the default converter.
const ContentTypePDF = "application/pdf"

// PDFToText extracts plain text from PDF bytes.
//
// The underlying parser panics on some malformed inputs, so the conversion is
// wrapped in a recover to keep corrupt attachments from taking down the run.
func PDFToText(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf parser panicked: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to parse pdf: %w", err)
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("failed to extract pdf text: %w", err)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return "", fmt.Errorf("failed to read pdf text: %w", err)
	}

	return strings.TrimSpace(buf.String()), nil
}
