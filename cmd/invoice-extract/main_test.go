package main

import (
	"os"
	"path/filepath"
	"testing"
)

const testVendorJSON = `{
  "vendor": "testco",
  "record_start": "^\\d{2}/\\d{2}/\\d{2}\\s",
  "grammars": [
    {
      "name": "simple",
      "pattern": "(\\d{2}/\\d{2}/\\d{2})\\s+(.+?)\\s+([\\d.]+)",
      "fields": {"date": [1], "description": [2], "total": [3]}
    }
  ]
}`

func TestResolveVendor(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vendor.json")
	if err := os.WriteFile(path, []byte(testVendorJSON), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name       string
		flagValue  string
		configured string
		want       string
	}{
		{"flag wins over environment", "aud-suffix", path, "aud-suffix"},
		{"environment path when flag unset", "", path, "testco"},
		{"wastedge when nothing configured", "", "", "wastedge"},
		{"flag as config path", path, "", "testco"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := resolveVendor(tt.flagValue, tt.configured)
			if err != nil {
				t.Fatalf("resolveVendor: %v", err)
			}
			if cfg.Vendor != tt.want {
				t.Errorf("vendor = %q, want %q", cfg.Vendor, tt.want)
			}
		})
	}

	if _, err := resolveVendor("", filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for a missing vendor config path")
	}
}
