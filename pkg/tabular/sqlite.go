package tabular

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite" // CGO-free SQLite driver.

	"github.com/Sumatoshi-tech/yearcal/pkg/listing"
)

const createEventsTable = `
CREATE TABLE IF NOT EXISTS events(
  position INTEGER NOT NULL,
  date     TEXT    NOT NULL,
  title    TEXT    NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_events_date ON events(date);
`

// SQLiteWriter stores export rows in an SQLite database.
type SQLiteWriter struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path and ensures the
// events table exists.
func OpenSQLite(path string) (*SQLiteWriter, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	_, err = db.Exec(createEventsTable)
	if err != nil {
		db.Close()

		return nil, fmt.Errorf("create events table: %w", err)
	}

	return &SQLiteWriter{db: db}, nil
}

// WriteRows replaces the table contents with rows in one transaction.
// Position is the zero-based chronological index.
func (s *SQLiteWriter) WriteRows(ctx context.Context, rows []listing.Row) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if err != nil {
			err = errors.Join(err, tx.Rollback())
		}
	}()

	_, err = tx.ExecContext(ctx, `DELETE FROM events`)
	if err != nil {
		return fmt.Errorf("clear events: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO events(position, date, title) VALUES(?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, row := range rows {
		_, err = stmt.ExecContext(ctx, i, row.Date, row.Title)
		if err != nil {
			return fmt.Errorf("insert event %d: %w", i, err)
		}
	}

	err = tx.Commit()
	if err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// ReadRows returns the stored rows in position order.
func (s *SQLiteWriter) ReadRows(ctx context.Context) ([]listing.Row, error) {
	rs, err := s.db.QueryContext(ctx, `SELECT date, title FROM events ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rs.Close()

	var rows []listing.Row

	for rs.Next() {
		var row listing.Row

		err = rs.Scan(&row.Date, &row.Title)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}

		rows = append(rows, row)
	}

	err = rs.Err()
	if err != nil {
		return nil, fmt.Errorf("read events: %w", err)
	}

	return rows, nil
}

// Close closes the database.
func (s *SQLiteWriter) Close() error {
	return s.db.Close()
}
