// Package rowstore wraps the embedded relational store (SQLite via the
// pure-Go modernc.org/sqlite driver) that backs the secrets table: one row
// per secret, WAL-journaled, with a forced checkpoint available for the
// integrity sealer.
package rowstore

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS secrets (
	key_hash TEXT PRIMARY KEY,
	key_enc  BLOB NOT NULL,
	iv       BLOB NOT NULL,
	cipher   BLOB NOT NULL,
	created  INTEGER NOT NULL,
	updated  INTEGER NOT NULL
);`

// Row is one persisted secret.
type Row struct {
	KeyHash string
	KeyEnc  []byte
	IV      []byte
	Cipher  []byte
	Created int64
	Updated int64
}

// Store wraps the secrets table.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens (creating if needed) the database at path, in WAL journal mode
// with foreign keys on and a 5s busy timeout, and ensures the schema exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("set %s: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// Upsert inserts or updates the row for keyHash. On conflict, key_enc, iv,
// cipher, and updated are overwritten; created is preserved.
func (s *Store) Upsert(keyHash string, keyEnc, iv, cipher []byte, now int64) error {
	_, err := s.db.Exec(`
		INSERT INTO secrets (key_hash, key_enc, iv, cipher, created, updated)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(key_hash) DO UPDATE SET
			key_enc = excluded.key_enc,
			iv      = excluded.iv,
			cipher  = excluded.cipher,
			updated = excluded.updated
	`, keyHash, keyEnc, iv, cipher, now, now)
	if err != nil {
		return fmt.Errorf("upsert row: %w", err)
	}
	return nil
}

// FindByHash returns the row for keyHash, or nil if no row exists.
func (s *Store) FindByHash(keyHash string) (*Row, error) {
	row := s.db.QueryRow(`
		SELECT key_hash, key_enc, iv, cipher, created, updated
		FROM secrets WHERE key_hash = ?
	`, keyHash)
	var r Row
	if err := row.Scan(&r.KeyHash, &r.KeyEnc, &r.IV, &r.Cipher, &r.Created, &r.Updated); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("find row: %w", err)
	}
	return &r, nil
}

// FindAll returns every row, used once on open to build the name index.
func (s *Store) FindAll() ([]Row, error) {
	rows, err := s.db.Query(`SELECT key_hash, key_enc, iv, cipher, created, updated FROM secrets`)
	if err != nil {
		return nil, fmt.Errorf("find all rows: %w", err)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var r Row
		if err := rows.Scan(&r.KeyHash, &r.KeyEnc, &r.IV, &r.Cipher, &r.Created, &r.Updated); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return out, nil
}

// DeleteByHash removes the row for keyHash, reporting whether one existed.
func (s *Store) DeleteByHash(keyHash string) (bool, error) {
	res, err := s.db.Exec(`DELETE FROM secrets WHERE key_hash = ?`, keyHash)
	if err != nil {
		return false, fmt.Errorf("delete row: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

// Checkpoint forces a TRUNCATE-style WAL checkpoint: all committed data
// lands in the main file and the WAL is emptied.
func (s *Store) Checkpoint() error {
	var busy, log, checkpointed int
	row := s.db.QueryRow(`PRAGMA wal_checkpoint(TRUNCATE)`)
	if err := row.Scan(&busy, &log, &checkpointed); err != nil {
		return fmt.Errorf("wal checkpoint: %w", err)
	}
	if busy != 0 {
		return fmt.Errorf("wal checkpoint: database busy")
	}
	return nil
}

// FilePath returns the absolute path to the main database file.
func (s *Store) FilePath() string { return s.path }

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}
