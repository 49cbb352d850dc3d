package extract

import (
	"fmt"
	"sort"
	"strings"
)

// Converter turns the raw bytes of one attachment into plain text.
type Converter func(data []byte) (string, error)

// ExtractionError reports content that the registered converter could not
// turn into text: corrupt files, encrypted content, or content with zero
// extractable text. It is scoped to one attachment and never aborts a run.
type ExtractionError struct {
	ContentType string
	Err         error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction from %s content failed: %v", e.ContentType, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// Registry maps content types to converters. Content types are matched
// case-insensitively. New converters can be registered without touching the
// selector or the driver.
type Registry struct {
	converters map[string]Converter
}

// NewRegistry returns a registry with the default converters installed.
// Currently that is the PDF text converter.
func NewRegistry() *Registry {
	r := &Registry{converters: make(map[string]Converter)}
	r.Register(ContentTypePDF, PDFToText)
	return r
}

// Register installs a converter for a content type, replacing any existing
// registration for the same type.
func (r *Registry) Register(contentType string, conv Converter) {
	r.converters[strings.ToLower(contentType)] = conv
}

// Supports reports whether a converter is registered for the content type.
func (r *Registry) Supports(contentType string) bool {
	_, ok := r.converters[strings.ToLower(contentType)]
	return ok
}

// ContentTypes returns the registered content types in sorted order.
func (r *Registry) ContentTypes() []string {
	types := make([]string, 0, len(r.converters))
	for ct := range r.converters {
		types = append(types, ct)
	}
	sort.Strings(types)
	return types
}

// Convert dispatches to the converter registered for the content type and
// returns the extracted text. Failures and empty extraction results are
// reported as *ExtractionError.
//
// An unregistered content type is a configuration bug, not an extraction
// failure: the allow-list is the only gate that should admit content here.
func (r *Registry) Convert(contentType string, data []byte) (string, error) {
	conv, ok := r.converters[strings.ToLower(contentType)]
	if !ok {
		return "", fmt.Errorf("no converter registered for content type %q", contentType)
	}

	text, err := conv(data)
	if err != nil {
		return "", &ExtractionError{ContentType: contentType, Err: err}
	}
	if strings.TrimSpace(text) == "" {
		return "", &ExtractionError{ContentType: contentType, Err: fmt.Errorf("no extractable text")}
	}
	return text, nil
}
