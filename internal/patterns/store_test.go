package patterns

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/aps-tools/invoice-extract/internal/common"
	"github.com/aps-tools/invoice-extract/internal/token"
)

func testEntry() Entry {
	return Entry{
		Signature: "<TXT> <NUM> <NUM>",
		Name:      "toner-line",
		Pattern:   `(\w+)\s+(\d+)\s+([\d.]+)`,
		Fields: map[string][]int{
			"description": {1},
			"quantity":    {2},
			"total":       {3},
		},
		Category: "other",
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "patterns.json")

	store := OpenFileStore(path, nil)
	if err := store.Put(testEntry()); err != nil {
		t.Fatalf("Put: %v", err)
	}

	// a fresh handle must see the persisted entry
	reopened := OpenFileStore(path, nil)
	g, ok := reopened.Lookup("<TXT> <NUM> <NUM>")
	if !ok {
		t.Fatal("Lookup after reopen failed")
	}
	if g.Name != "toner-line" {
		t.Errorf("grammar name = %q", g.Name)
	}
	if _, ok := g.Match("TONER 5 10.00"); !ok {
		t.Error("compiled grammar does not match its shape")
	}

	entries, err := reopened.All()
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(entries) != 1 || entries[0].Signature != "<TXT> <NUM> <NUM>" {
		t.Errorf("entries = %+v", entries)
	}
}

func TestFileStoreDelete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "patterns.json")
	store := OpenFileStore(path, nil)
	if err := store.Put(testEntry()); err != nil {
		t.Fatalf("Put: %v", err)
	}

	if err := store.Delete("<TXT> <NUM> <NUM>"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok := store.Lookup("<TXT> <NUM> <NUM>"); ok {
		t.Error("deleted entry still resolvable")
	}
	if err := store.Delete("<TXT> <NUM> <NUM>"); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("deleting an absent signature = %v, want ErrNotFound", err)
	}
}

func TestFileStoreRejectsInvalidEntry(t *testing.T) {
	store := OpenFileStore(filepath.Join(t.TempDir(), "patterns.json"), nil)

	bad := testEntry()
	bad.Fields["total"] = []int{7} // beyond the capture-group count
	if err := store.Put(bad); err == nil {
		t.Error("expected slot-range error")
	}

	bad = testEntry()
	bad.Pattern = `(`
	if err := store.Put(bad); err == nil {
		t.Error("expected pattern compile error")
	}
}

func TestFileStoreCorruptFileLoadsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "patterns.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	store := OpenFileStore(path, nil)
	entries, err := store.All()
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("entries = %d, want empty store from corrupt file", len(entries))
	}

	// the store must be usable for new writes after a corrupt load
	if err := store.Put(testEntry()); err != nil {
		t.Fatalf("Put after corrupt load: %v", err)
	}
}

func TestFileStoreMissingFileLoadsEmpty(t *testing.T) {
	store := OpenFileStore(filepath.Join(t.TempDir(), "nope.json"), nil)
	entries, err := store.All()
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("entries = %d, want 0", len(entries))
	}
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	store, err := OpenSQLiteStore(":memory:", nil)
	if err != nil {
		t.Fatalf("OpenSQLiteStore: %v", err)
	}
	defer store.Close()

	if err := store.Put(testEntry()); err != nil {
		t.Fatalf("Put: %v", err)
	}

	g, ok := store.Lookup("<TXT> <NUM> <NUM>")
	if !ok {
		t.Fatal("Lookup failed")
	}
	if _, ok := g.Match("TONER 5 10.00"); !ok {
		t.Error("compiled grammar does not match its shape")
	}

	// Put on the same signature replaces
	replacement := testEntry()
	replacement.Pattern = `(\w+)\s+(\d+)\s+([\d,.]+)`
	if err := store.Put(replacement); err != nil {
		t.Fatalf("Put replacement: %v", err)
	}
	entries, err := store.All()
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(entries) != 1 || entries[0].Pattern != replacement.Pattern {
		t.Errorf("entries = %+v", entries)
	}

	if err := store.Delete("<TXT> <NUM> <NUM>"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := store.Delete("<TXT> <NUM> <NUM>"); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("deleting an absent signature = %v, want ErrNotFound", err)
	}
}

func TestSQLiteStorePersistsAcrossOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "patterns.db")

	store, err := OpenSQLiteStore(path, nil)
	if err != nil {
		t.Fatalf("OpenSQLiteStore: %v", err)
	}
	if err := store.Put(testEntry()); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := OpenSQLiteStore(path, nil)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	if _, ok := reopened.Lookup(token.ShapeSignature("<TXT> <NUM> <NUM>")); !ok {
		t.Error("entry lost across reopen")
	}
}

func TestValidateEntry(t *testing.T) {
	if err := ValidateEntry(testEntry(), "TONER 5 10.00"); err != nil {
		t.Errorf("valid entry rejected: %v", err)
	}

	if err := ValidateEntry(testEntry(), "completely different line"); !errors.Is(err, common.ErrValidation) {
		t.Errorf("entry not matching its sample = %v, want ErrValidation", err)
	}

	bad := testEntry()
	bad.Fields["quantity"] = []int{9}
	if err := ValidateEntry(bad, "TONER 5 10.00"); err == nil {
		t.Error("entry accepted with slot beyond capture-group count")
	}

	empty := testEntry()
	empty.Pattern = ""
	if err := ValidateEntry(empty, ""); err == nil {
		t.Error("entry accepted with empty pattern")
	}
}
