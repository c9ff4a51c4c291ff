package grammar

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"

	"github.com/aps-tools/invoice-extract/constants"
	"github.com/aps-tools/invoice-extract/internal/common"
	"github.com/aps-tools/invoice-extract/internal/entity"
)

// VendorConfig is everything the pipeline needs to parse one vendor's
// invoice layout. Built once at load time; immutable afterwards.
type VendorConfig struct {
	Vendor        string
	CurrencyCodes []string
	HeaderMarker  *regexp.Regexp
	RecordStart   *regexp.Regexp
	NoisePatterns []string
	LineRounding  bool
	TaxRate       float64 // 0 means use the global configuration
	Tolerance     float64 // 0 means use the global configuration
	Grammars      []*Grammar
}

// vendorConfigDoc is the JSON wire shape of a vendor configuration file.
type vendorConfigDoc struct {
	Vendor        string       `json:"vendor"`
	CurrencyCodes []string     `json:"currency_codes,omitempty"`
	HeaderMarker  string       `json:"header_marker,omitempty"`
	RecordStart   string       `json:"record_start"`
	NoisePatterns []string     `json:"noise_patterns,omitempty"`
	LineRounding  bool         `json:"line_rounding,omitempty"`
	TaxRate       float64      `json:"tax_rate,omitempty"`
	Tolerance     float64      `json:"tolerance,omitempty"`
	Grammars      []grammarDoc `json:"grammars"`
}

type grammarDoc struct {
	Name     string           `json:"name"`
	Pattern  string           `json:"pattern"`
	Category string           `json:"category,omitempty"`
	Fields   map[string][]int `json:"fields"`
}

// LoadVendorConfig reads, schema-validates, and compiles a vendor
// configuration file. Any malformed pattern or field mapping fails here,
// never mid-document.
func LoadVendorConfig(path string) (*VendorConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, common.WrapError(err, "read vendor config")
	}
	if err := ValidateJSONAgainstSchema(BuildVendorConfigSchema(), raw); err != nil {
		return nil, fmt.Errorf("vendor config %s: %w", path, err)
	}
	var doc vendorConfigDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode vendor config: %w", err)
	}
	return compileVendorConfig(&doc)
}

func compileVendorConfig(doc *vendorConfigDoc) (*VendorConfig, error) {
	recordStart, err := regexp.Compile(doc.RecordStart)
	if err != nil {
		return nil, fmt.Errorf("vendor %q: compile record_start: %w", doc.Vendor, err)
	}
	var headerMarker *regexp.Regexp
	if doc.HeaderMarker != "" {
		headerMarker, err = regexp.Compile(doc.HeaderMarker)
		if err != nil {
			return nil, fmt.Errorf("vendor %q: compile header_marker: %w", doc.Vendor, err)
		}
	}
	grammars := make([]*Grammar, 0, len(doc.Grammars))
	for _, gd := range doc.Grammars {
		fields := make(map[entity.Field][]int, len(gd.Fields))
		for name, slots := range gd.Fields {
			fields[entity.Field(name)] = slots
		}
		category, _ := constants.Canonicalize(gd.Category)
		g, err := Compile(gd.Name, gd.Pattern, fields, category)
		if err != nil {
			return nil, fmt.Errorf("vendor %q: %w", doc.Vendor, err)
		}
		grammars = append(grammars, g)
	}
	return &VendorConfig{
		Vendor:        doc.Vendor,
		CurrencyCodes: doc.CurrencyCodes,
		HeaderMarker:  headerMarker,
		RecordStart:   recordStart,
		NoisePatterns: doc.NoisePatterns,
		LineRounding:  doc.LineRounding,
		TaxRate:       doc.TaxRate,
		Tolerance:     doc.Tolerance,
		Grammars:      grammars,
	}, nil
}

// Record-start shapes for the built-in layouts. The wastedge layout also
// starts period-charge records on their "N x CODE @ rate / Lift" line.
var (
	reWastedgeStart   = regexp.MustCompile(`^\d{2}/\d{2}/\d{2}\s+[\d.]+|^\d+\s+x\s+`)
	reWastedgeHeader  = regexp.MustCompile(`^Services\s*/\s*Site:`)
	reAUDSuffixStart  = regexp.MustCompile(`^\d{2}\.\d{2}\.\d{4}\s`)
	reAUDSuffixHeader = regexp.MustCompile(`^R-[A-Z0-9]+\s`)
)

// BuiltinVendor returns one of the compiled-in vendor configurations:
// "wastedge" or "aud-suffix".
func BuiltinVendor(name string) (*VendorConfig, bool) {
	switch name {
	case "wastedge":
		return &VendorConfig{
			Vendor:        "wastedge",
			CurrencyCodes: []string{"AUD"},
			HeaderMarker:  reWastedgeHeader,
			RecordStart:   reWastedgeStart,
			Grammars:      WastedgeGrammars(),
		}, true
	case "aud-suffix":
		return &VendorConfig{
			Vendor:        "aud-suffix",
			CurrencyCodes: []string{"AUD"},
			HeaderMarker:  reAUDSuffixHeader,
			RecordStart:   reAUDSuffixStart,
			Grammars:      AUDSuffixGrammars(),
		}, true
	}
	return nil, false
}
