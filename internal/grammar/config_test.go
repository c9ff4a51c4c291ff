package grammar

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const validVendorJSON = `{
  "vendor": "testco",
  "currency_codes": ["AUD"],
  "header_marker": "^Services\\s*/\\s*Site:",
  "record_start": "^\\d{2}/\\d{2}/\\d{2}\\s",
  "noise_patterns": ["(?i)^confidential"],
  "line_rounding": true,
  "tax_rate": 0.1,
  "grammars": [
    {
      "name": "simple",
      "pattern": "(\\d{2}/\\d{2}/\\d{2})\\s+(.+?)\\s+([\\d.]+)",
      "category": "booking",
      "fields": {"date": [1], "description": [2], "total": [3]}
    }
  ]
}`

func writeVendorConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vendor.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadVendorConfig(t *testing.T) {
	cfg, err := LoadVendorConfig(writeVendorConfig(t, validVendorJSON))
	if err != nil {
		t.Fatalf("LoadVendorConfig: %v", err)
	}
	if cfg.Vendor != "testco" {
		t.Errorf("vendor = %q", cfg.Vendor)
	}
	if !cfg.LineRounding || cfg.TaxRate != 0.1 {
		t.Errorf("options not carried: %+v", cfg)
	}
	if !cfg.RecordStart.MatchString("12/05/23 foo") {
		t.Error("record_start not compiled")
	}
	if cfg.HeaderMarker == nil || !cfg.HeaderMarker.MatchString("Services / Site: S1") {
		t.Error("header_marker not compiled")
	}
	if len(cfg.Grammars) != 1 || cfg.Grammars[0].Name != "simple" {
		t.Errorf("grammars = %+v", cfg.Grammars)
	}
	if _, ok := cfg.Grammars[0].Match("12/05/23 Bin Exchange 90.00"); !ok {
		t.Error("loaded grammar does not match")
	}
}

func TestLoadVendorConfigSchemaErrors(t *testing.T) {
	tests := []struct {
		name    string
		mangle  func(string) string
		wantErr string
	}{
		{
			"unknown field name",
			func(s string) string { return strings.Replace(s, `"date"`, `"frobnicate"`, 1) },
			"schema",
		},
		{
			"missing record start",
			func(s string) string { return strings.Replace(s, `"record_start"`, `"record_begin"`, 1) },
			"schema",
		},
		{
			"zero slot index",
			func(s string) string { return strings.Replace(s, `"date": [1]`, `"date": [0]`, 1) },
			"schema",
		},
		{
			"not json at all",
			func(string) string { return "{nope" },
			"",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadVendorConfig(writeVendorConfig(t, tt.mangle(validVendorJSON)))
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.wantErr != "" && !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadVendorConfigBadGrammarPattern(t *testing.T) {
	mangled := strings.Replace(validVendorJSON,
		`(\\d{2}/\\d{2}/\\d{2})\\s+(.+?)\\s+([\\d.]+)`, `(`, 1)
	_, err := LoadVendorConfig(writeVendorConfig(t, mangled))
	if err == nil {
		t.Fatal("expected compile error from malformed grammar pattern")
	}
	if !strings.Contains(err.Error(), "compile pattern") {
		t.Errorf("error = %v", err)
	}
}

func TestLoadVendorConfigMissingFile(t *testing.T) {
	if _, err := LoadVendorConfig(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestBuiltinVendor(t *testing.T) {
	for _, name := range []string{"wastedge", "aud-suffix"} {
		cfg, ok := BuiltinVendor(name)
		if !ok {
			t.Fatalf("builtin %q missing", name)
		}
		if cfg.RecordStart == nil || cfg.HeaderMarker == nil || len(cfg.Grammars) == 0 {
			t.Errorf("builtin %q incomplete: %+v", name, cfg)
		}
	}
	if _, ok := BuiltinVendor("nope"); ok {
		t.Error("unknown builtin resolved")
	}
}
