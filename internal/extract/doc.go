// Package extract converts attachment bytes into plain text.
//
// Conversion is dispatched through a registry keyed by content type, so new
// converters can be added without modifying the attachment selector or the
// pipeline driver. The default registry handles application/pdf.
//
// The extractor performs no semantic cleanup beyond what the underlying
// conversion yields: no de-hyphenation, whitespace collapsing, or OCR
// fallback. Text fidelity is bounded by the converter's own guarantees.
package extract
