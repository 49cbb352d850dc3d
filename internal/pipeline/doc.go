// Package pipeline turns Gmail messages into extracted-text records.
//
// The driver walks every message matching a search query, picks at most one
// attachment per message via a content-type allow-list, converts its bytes to
// text, and hands the assembled record to a sink. Each message reaches
// exactly one terminal outcome (emitted, skipped, fetch-failed or
// extraction-failed); individual failures are counted in the run summary and
// never abort the run.
package pipeline
