// Package sink provides destinations for extracted records: a JSON Lines
// writer for flat-file datasets and a SQLite database for queryable ones.
// Sinks are not safe for concurrent use; the pipeline driver serializes
// appends.
package sink
