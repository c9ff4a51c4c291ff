package patterns

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"sync"

	"github.com/aps-tools/invoice-extract/internal/common"
	"github.com/aps-tools/invoice-extract/internal/grammar"
	"github.com/aps-tools/invoice-extract/internal/token"
)

// FileStore keeps learned patterns in a single JSON document, rewritten
// atomically after every mutation.
type FileStore struct {
	path   string
	logger *slog.Logger

	mu       sync.Mutex
	entries  map[token.ShapeSignature]Entry
	compiled map[token.ShapeSignature]*grammar.Grammar
}

// OpenFileStore loads the store at path. A missing or corrupt file loads
// as an empty store, not an error.
func OpenFileStore(path string, logger *slog.Logger) *FileStore {
	if logger == nil {
		logger = slog.Default()
	}
	s := &FileStore{
		path:     path,
		logger:   logger,
		entries:  make(map[token.ShapeSignature]Entry),
		compiled: make(map[token.ShapeSignature]*grammar.Grammar),
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("patterns.load_failed", "path", path, "error", err)
		}
		return s
	}
	var doc map[token.ShapeSignature]Entry
	if err := json.Unmarshal(raw, &doc); err != nil {
		logger.Warn("patterns.corrupt_store", "path", path, "error", err)
		return s
	}
	for sig, e := range doc {
		e.Signature = sig
		s.entries[sig] = e
	}
	return s
}

// Lookup returns the compiled grammar learned for sig, if any. Entries
// that no longer compile are skipped rather than failing the cascade.
func (s *FileStore) Lookup(sig token.ShapeSignature) (*grammar.Grammar, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if g, ok := s.compiled[sig]; ok {
		return g, true
	}
	e, ok := s.entries[sig]
	if !ok {
		return nil, false
	}
	g, err := compile(e)
	if err != nil {
		s.logger.Warn("patterns.compile_failed", "signature", string(sig), "error", err)
		return nil, false
	}
	s.compiled[sig] = g
	return g, true
}

// Put validates and inserts-or-replaces the entry, then persists.
func (s *FileStore) Put(e Entry) error {
	if _, err := compile(e); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[e.Signature] = e
	delete(s.compiled, e.Signature)
	return s.save()
}

// Delete removes the entry for sig and persists.
func (s *FileStore) Delete(sig token.ShapeSignature) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[sig]; !ok {
		return fmt.Errorf("no learned pattern for signature %q: %w", sig, common.ErrNotFound)
	}
	delete(s.entries, sig)
	delete(s.compiled, sig)
	return s.save()
}

// All returns every entry ordered by signature.
func (s *FileStore) All() ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Entry, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Signature < out[j].Signature })
	return out, nil
}

func (s *FileStore) Close() error { return nil }

// save rewrites the whole document via a temp file so a crash never leaves
// a half-written store behind.
func (s *FileStore) save() error {
	doc := make(map[token.ShapeSignature]Entry, len(s.entries))
	for sig, e := range s.entries {
		doc[sig] = e
	}
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode patterns: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("write patterns: %w", err)
	}
	return os.Rename(tmp, s.path)
}
