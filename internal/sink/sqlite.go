package sink

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/teemow/mailsift/internal/pipeline"
)

const recordsSchema = `
	CREATE TABLE IF NOT EXISTS records (
		id              INTEGER PRIMARY KEY AUTOINCREMENT,
		message_id      TEXT NOT NULL,
		subject         TEXT NOT NULL,
		date            TEXT NOT NULL,
		attachment_name TEXT NOT NULL,
		query           TEXT NOT NULL,
		content_types   TEXT NOT NULL,
		text            TEXT NOT NULL,
		created_at      TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_records_message_id ON records(message_id);
`

// SQLite appends records to a local SQLite database, giving runs a queryable
// dataset instead of a flat file. It implements pipeline.Sink.
//
// The table is append-only: re-running a query adds rows rather than
// replacing them, so one database can accumulate several runs.
type SQLite struct {
	db *sqlx.DB
}

// NewSQLite opens (or creates) a SQLite database at dbPath, enables WAL mode
// and ensures the records table exists.
func NewSQLite(dbPath string) (*SQLite, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	if _, err := db.Exec(recordsSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating records table: %w", err)
	}

	return &SQLite{db: db}, nil
}

// Append inserts one record.
func (s *SQLite) Append(rec *pipeline.Record) error {
	contentTypes, err := json.Marshal(rec.ContentTypes)
	if err != nil {
		return fmt.Errorf("marshaling content types for record %s: %w", rec.MessageID, err)
	}

	_, err = s.db.Exec(`
		INSERT INTO records (
			message_id, subject, date, attachment_name,
			query, content_types, text, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.MessageID, rec.Subject, rec.Date, rec.AttachmentName,
		rec.Query, string(contentTypes), rec.Text, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("inserting record %s: %w", rec.MessageID, err)
	}

	return nil
}

// Records returns all stored records ordered by insertion. Intended for
// inspection and tests; the pipeline itself only appends.
func (s *SQLite) Records() ([]*pipeline.Record, error) {
	rows, err := s.db.Queryx(`
		SELECT message_id, subject, date, attachment_name, query, content_types, text
		FROM records ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	var records []*pipeline.Record
	for rows.Next() {
		var (
			rec          pipeline.Record
			contentTypes string
		)
		err := rows.Scan(
			&rec.MessageID, &rec.Subject, &rec.Date, &rec.AttachmentName,
			&rec.Query, &contentTypes, &rec.Text,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning record row: %w", err)
		}
		if err := json.Unmarshal([]byte(contentTypes), &rec.ContentTypes); err != nil {
			return nil, fmt.Errorf("unmarshaling content types: %w", err)
		}
		records = append(records, &rec)
	}

	return records, rows.Err()
}

// Close closes the underlying database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}
