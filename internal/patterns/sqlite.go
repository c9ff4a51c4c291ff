package patterns

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/aps-tools/invoice-extract/internal/common"
	"github.com/aps-tools/invoice-extract/internal/grammar"
	"github.com/aps-tools/invoice-extract/internal/token"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS learned_patterns (
	signature TEXT PRIMARY KEY,
	name      TEXT NOT NULL DEFAULT '',
	pattern   TEXT NOT NULL,
	field_map TEXT NOT NULL,
	category  TEXT NOT NULL DEFAULT ''
);`

// SQLiteStore keeps learned patterns in a SQLite database. Same contract
// as FileStore; useful when several tools share one store on disk.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger

	mu       sync.Mutex
	compiled map[token.ShapeSignature]*grammar.Grammar
}

// OpenSQLiteStore opens (and if needed initializes) the database at path.
// Use ":memory:" for an ephemeral store.
func OpenSQLiteStore(path string, logger *slog.Logger) (*SQLiteStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open pattern store: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init pattern store schema: %w", err)
	}
	return &SQLiteStore{
		db:       db,
		logger:   logger,
		compiled: make(map[token.ShapeSignature]*grammar.Grammar),
	}, nil
}

func (s *SQLiteStore) Lookup(sig token.ShapeSignature) (*grammar.Grammar, bool) {
	s.mu.Lock()
	if g, ok := s.compiled[sig]; ok {
		s.mu.Unlock()
		return g, true
	}
	s.mu.Unlock()

	row := s.db.QueryRow(
		`SELECT name, pattern, field_map, category FROM learned_patterns WHERE signature = ?`,
		string(sig))
	var e Entry
	var fieldsJSON string
	if err := row.Scan(&e.Name, &e.Pattern, &fieldsJSON, &e.Category); err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.logger.Warn("patterns.sqlite.lookup_failed", "signature", string(sig), "error", err)
		}
		return nil, false
	}
	e.Signature = sig
	if err := json.Unmarshal([]byte(fieldsJSON), &e.Fields); err != nil {
		s.logger.Warn("patterns.sqlite.corrupt_fields", "signature", string(sig), "error", err)
		return nil, false
	}

	g, err := compile(e)
	if err != nil {
		s.logger.Warn("patterns.compile_failed", "signature", string(sig), "error", err)
		return nil, false
	}
	s.mu.Lock()
	s.compiled[sig] = g
	s.mu.Unlock()
	return g, true
}

func (s *SQLiteStore) Put(e Entry) error {
	if _, err := compile(e); err != nil {
		return err
	}
	fieldsJSON, err := json.Marshal(e.Fields)
	if err != nil {
		return fmt.Errorf("encode field map: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO learned_patterns (signature, name, pattern, field_map, category)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(signature) DO UPDATE SET
		 name = excluded.name, pattern = excluded.pattern,
		 field_map = excluded.field_map, category = excluded.category`,
		string(e.Signature), e.Name, e.Pattern, string(fieldsJSON), e.Category)
	if err != nil {
		return fmt.Errorf("save learned pattern: %w", err)
	}
	s.mu.Lock()
	delete(s.compiled, e.Signature)
	s.mu.Unlock()
	return nil
}

func (s *SQLiteStore) Delete(sig token.ShapeSignature) error {
	res, err := s.db.Exec(`DELETE FROM learned_patterns WHERE signature = ?`, string(sig))
	if err != nil {
		return fmt.Errorf("delete learned pattern: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("no learned pattern for signature %q: %w", sig, common.ErrNotFound)
	}
	s.mu.Lock()
	delete(s.compiled, sig)
	s.mu.Unlock()
	return nil
}

func (s *SQLiteStore) All() ([]Entry, error) {
	rows, err := s.db.Query(
		`SELECT signature, name, pattern, field_map, category FROM learned_patterns ORDER BY signature`)
	if err != nil {
		return nil, fmt.Errorf("list learned patterns: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var sig, fieldsJSON string
		if err := rows.Scan(&sig, &e.Name, &e.Pattern, &fieldsJSON, &e.Category); err != nil {
			return nil, err
		}
		e.Signature = token.ShapeSignature(sig)
		if err := json.Unmarshal([]byte(fieldsJSON), &e.Fields); err != nil {
			s.logger.Warn("patterns.sqlite.corrupt_fields", "signature", sig, "error", err)
			continue
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Close() error { return s.db.Close() }
