package catalog

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"sync"
)

// CorrectionsCache persists accepted raw→corrected name pairs as a small
// CSV so corrections survive restarts. Missing or corrupt files load as
// an empty cache.
type CorrectionsCache struct {
	path string

	mu      sync.Mutex
	entries map[string]string
}

// OpenCorrectionsCache loads the cache at path, tolerating a missing file.
func OpenCorrectionsCache(path string) *CorrectionsCache {
	c := &CorrectionsCache{path: path, entries: make(map[string]string)}
	f, err := os.Open(path)
	if err != nil {
		return c
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return c
	}
	for i, row := range rows {
		if i == 0 || len(row) < 2 { // skip header
			continue
		}
		c.entries[row[0]] = row[1]
	}
	return c
}

// Entries returns a copy of the cached pairs.
func (c *CorrectionsCache) Entries() map[string]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]string, len(c.entries))
	for k, v := range c.entries {
		out[k] = v
	}
	return out
}

// Put records a correction and rewrites the backing file.
func (c *CorrectionsCache) Put(raw, corrected string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[raw] = corrected
	return c.save()
}

func (c *CorrectionsCache) save() error {
	tmp := c.path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create corrections file: %w", err)
	}
	w := csv.NewWriter(f)
	_ = w.Write([]string{"raw_name", "corrected_name"})

	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		_ = w.Write([]string{k, c.entries[k]})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("write corrections file: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, c.path)
}
