package catalog

import (
	"os"
	"path/filepath"
	"testing"
)

func TestBestMatchTokenOrderInsensitive(t *testing.T) {
	m := NewLevenshteinMatcher(
		[]string{"Acme Waste Management", "Beta Recycling"}, 0.80, nil, nil)

	corrected, score, ok := m.BestMatch("Waste Acme Management")
	if !ok {
		t.Fatalf("no match, score %.2f", score)
	}
	if corrected != "Acme Waste Management" {
		t.Errorf("corrected = %q", corrected)
	}
}

func TestBestMatchMisspelling(t *testing.T) {
	m := NewLevenshteinMatcher(
		[]string{"Acme Waste Management", "Beta Recycling"}, 0.80, nil, nil)

	corrected, _, ok := m.BestMatch("Acme Waste Managment")
	if !ok || corrected != "Acme Waste Management" {
		t.Errorf("got %q, %v", corrected, ok)
	}
}

func TestBestMatchBelowThreshold(t *testing.T) {
	m := NewLevenshteinMatcher(
		[]string{"Acme Waste Management"}, 0.80, nil, nil)

	if _, _, ok := m.BestMatch("zzz qqq unrelated"); ok {
		t.Error("accepted a match below the threshold")
	}
}

func TestBestMatchRemembersCorrections(t *testing.T) {
	m := NewLevenshteinMatcher([]string{"Acme Waste Management"}, 0.80, nil, nil)

	if _, _, ok := m.BestMatch("Acme Waste Managment"); !ok {
		t.Fatal("initial match failed")
	}
	// the remembered correction resolves exactly, with score 1.0
	corrected, score, ok := m.BestMatch("Acme Waste Managment")
	if !ok || corrected != "Acme Waste Management" || score != 1.0 {
		t.Errorf("remembered correction: %q %.2f %v", corrected, score, ok)
	}
}

func TestCorrectionsCachePersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrections.csv")

	cache := OpenCorrectionsCache(path)
	m := NewLevenshteinMatcher([]string{"Acme Waste Management"}, 0.80, cache, nil)
	if _, _, ok := m.BestMatch("Acme Waste Managment"); !ok {
		t.Fatal("match failed")
	}

	reopened := OpenCorrectionsCache(path)
	entries := reopened.Entries()
	if entries["Acme Waste Managment"] != "Acme Waste Management" {
		t.Errorf("correction not persisted: %+v", entries)
	}

	// a matcher seeded from the reopened cache resolves without a catalog
	m2 := NewLevenshteinMatcher(nil, 0.80, reopened, nil)
	corrected, score, ok := m2.BestMatch("Acme Waste Managment")
	if !ok || corrected != "Acme Waste Management" || score != 1.0 {
		t.Errorf("seeded matcher: %q %.2f %v", corrected, score, ok)
	}
}

func TestCorrectionsCacheTolerantLoad(t *testing.T) {
	dir := t.TempDir()

	if c := OpenCorrectionsCache(filepath.Join(dir, "missing.csv")); len(c.Entries()) != 0 {
		t.Error("missing file should load empty")
	}

	corrupt := filepath.Join(dir, "corrupt.csv")
	if err := os.WriteFile(corrupt, []byte("\"unterminated"), 0o644); err != nil {
		t.Fatal(err)
	}
	if c := OpenCorrectionsCache(corrupt); len(c.Entries()) != 0 {
		t.Error("corrupt file should load empty")
	}
}

func TestLoadNamesCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.csv")
	content := "site_code,standard_name\nS123,Acme Waste Management\nS456,Beta Recycling\nS789,\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	names, err := LoadNamesCSV(path)
	if err != nil {
		t.Fatalf("LoadNamesCSV: %v", err)
	}
	if len(names) != 2 || names[0] != "Acme Waste Management" || names[1] != "Beta Recycling" {
		t.Errorf("names = %v", names)
	}
}

func TestLoadNamesCSVFirstColumnFallback(t *testing.T) {
	path := filepath.Join(t.TempDir(), "names.csv")
	content := "name\nAcme Waste Management\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	names, err := LoadNamesCSV(path)
	if err != nil {
		t.Fatalf("LoadNamesCSV: %v", err)
	}
	if len(names) != 1 || names[0] != "Acme Waste Management" {
		t.Errorf("names = %v", names)
	}
}
