package durable

import (
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// SQLiteStore is the concrete Store backing a "durable"-kind connection:
// a single SQLite table storing each transaction's encoded payload,
// opened in WAL mode. Each Append commits on its own, so its record is
// visible to readers as soon as Append returns, before any Force.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if absent) a SQLite-backed transaction log
// at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("durable: open %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("durable: ping %s: %w", path, err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("durable: %s: %w", p, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("durable: apply schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Append(record []byte) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO tx_log (ts_nanos, payload) VALUES (?, ?)`,
		time.Now().UTC().UnixNano(), record,
	)
	if err != nil {
		return 0, fmt.Errorf("durable: append: %w", err)
	}
	return res.LastInsertId()
}

func (s *SQLiteStore) ReadAt(offset int64) ([]byte, error) {
	var payload []byte
	err := s.db.QueryRow(`SELECT payload FROM tx_log WHERE seq = ?`, offset).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &BeyondEndOfFileError{Region: "tx_log", Offset: offset}
	}
	if err != nil {
		return nil, fmt.Errorf("durable: read at %d: %w", offset, err)
	}
	return payload, nil
}

func (s *SQLiteStore) Len() (int64, error) {
	var n sql.NullInt64
	if err := s.db.QueryRow(`SELECT MAX(seq) FROM tx_log`).Scan(&n); err != nil {
		return 0, fmt.Errorf("durable: len: %w", err)
	}
	return n.Int64, nil
}

// Force runs a full WAL checkpoint, copying every prior (already
// committed) Append into the main database file.
func (s *SQLiteStore) Force() error {
	if _, err := s.db.Exec("PRAGMA wal_checkpoint(FULL)"); err != nil {
		return fmt.Errorf("durable: force: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
