package cas

import (
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `CREATE TABLE IF NOT EXISTS blobs (
	hash INTEGER PRIMARY KEY,
	data BLOB NOT NULL
)`

// SQLiteCAS persists entries in a single SQLite table, so snapshots outlive
// the process.
type SQLiteCAS struct {
	db *sql.DB
}

func OpenSQLiteCAS(path string) (*SQLiteCAS, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema in %s: %w", path, err)
	}
	return &SQLiteCAS{db: db}, nil
}

func (s *SQLiteCAS) Close() error {
	return s.db.Close()
}

func (s *SQLiteCAS) getValue(h Hash) (bool, []byte, error) {
	var data []byte
	err := s.db.QueryRow(`SELECT data FROM blobs WHERE hash = ?`, int64(h)).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil, nil
	}
	if err != nil {
		return false, nil, fmt.Errorf("reading %s: %w", h, err)
	}
	return true, data, nil
}

func (s *SQLiteCAS) putValue(h Hash, data []byte) error {
	if _, err := s.db.Exec(`INSERT OR IGNORE INTO blobs (hash, data) VALUES (?, ?)`, int64(h), data); err != nil {
		return fmt.Errorf("writing %s: %w", h, err)
	}
	return nil
}

func (s *SQLiteCAS) Has(hash Hash) bool {
	has, _, err := s.getValue(hash)
	return err == nil && has
}

func (s *SQLiteCAS) Put(item Hashable) (Hash, error) {
	return put(s, item)
}

func (s *SQLiteCAS) Len() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM blobs`).Scan(&n)
	return n, err
}
