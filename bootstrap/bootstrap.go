// ════════════════════════════════════════════════════════════════════════════════════════════════
// ⚡ BOOTSTRAP — SYMBOL DIRECTORY PERSISTENCE
// ────────────────────────────────────────────────────────────────────────────────────────────────
// Component: Persists the interned symbol directory across restarts.
//
// Description:
//   Stock Directory messages only arrive once per trading session; a
//   process that restarts mid-session would otherwise lose every symbol it
//   had already interned. This package keeps a small sqlite3-backed table
//   mapping symbol token to the stable id it was assigned, so a restart can
//   reload the same ids instead of re-deriving them from scratch.
// ════════════════════════════════════════════════════════════════════════════════════════════════

package bootstrap

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"itchfeed/debug"
	"itchfeed/symboltable"
	"itchfeed/types"
)

// Store wraps a sqlite3 database holding the persisted symbol directory.
type Store struct {
	db *sql.DB
}

// Open opens (creating if absent) the sqlite3 database at path and ensures
// its schema exists.
func Open(path string) (*Store, error) {
	db, err := openWithRetry(path)
	if err != nil {
		return nil, err
	}
	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

//go:inline
func openWithRetry(path string) (*sql.DB, error) {
	var lastErr error
	for attempt := 0; attempt < 5; attempt++ {
		db, err := sql.Open("sqlite3", path)
		if err != nil {
			return nil, err
		}
		if err := db.Ping(); err != nil {
			db.Close()
			lastErr = err
			debug.DropMessage("BOOTSTRAP", "database busy, retrying")
			continue
		}
		return db, nil
	}
	return nil, fmt.Errorf("bootstrap: open database after retries: %w", lastErr)
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS symbol_directory (
		symbol_id INTEGER PRIMARY KEY,
		token     TEXT NOT NULL UNIQUE
	) WITHOUT ROWID;
	`
	_, err := s.db.Exec(schema)
	return err
}

// Load populates tbl with every previously-persisted symbol, preserving the
// same id each token was assigned before. Only meaningful against a freshly
// constructed, empty tbl: ids are reproduced by interning in ascending
// symbol_id order, relying on Table's own sequential assignment to land on
// the same id rather than by forcing it directly. Returns the number of
// symbols restored.
func (s *Store) Load(tbl *symboltable.Table) (int, error) {
	rows, err := s.db.Query(`SELECT symbol_id, token FROM symbol_directory ORDER BY symbol_id ASC`)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	n := 0
	for rows.Next() {
		var id int
		var token string
		if err := rows.Scan(&id, &token); err != nil {
			return n, err
		}
		var padded [8]byte
		copy(padded[:], token)
		for i := len(token); i < 8; i++ {
			padded[i] = ' '
		}
		tbl.Intern(padded[:])
		n++
	}
	return n, rows.Err()
}

// Persist writes sym's assigned id to the directory, ignoring a token
// already recorded.
func (s *Store) Persist(id types.SymbolID, token []byte) error {
	_, err := s.db.Exec(
		`INSERT OR IGNORE INTO symbol_directory (symbol_id, token) VALUES (?, ?)`,
		int(id), string(token),
	)
	return err
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
