package token

import (
	"testing"

	"github.com/aps-tools/invoice-extract/constants"
)

func TestClassify(t *testing.T) {
	c := NewClassifier()

	tests := []struct {
		name string
		tok  string
		want constants.TokenClass
	}{
		{"slash date", "12/05/23", constants.TokenDate},
		{"dot date", "03.01.2024", constants.TokenDate},
		{"integer", "2", constants.TokenNumber},
		{"decimal", "45.00", constants.TokenNumber},
		{"thousands separator", "1,234.50", constants.TokenNumber},
		{"reference number", "1001.5", constants.TokenNumber},
		{"currency code", "AUD", constants.TokenCurrency},
		{"currency code lowercase", "aud", constants.TokenCurrency},
		{"word", "Exchange", constants.TokenText},
		{"mixed alnum", "REC240", constants.TokenText},
		{"trailing dot not a number", "45.", constants.TokenText},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Classify(tt.tok); got != tt.want {
				t.Errorf("Classify(%q) = %q, want %q", tt.tok, got, tt.want)
			}
		})
	}
}

func TestClassifyDateBeatsNumber(t *testing.T) {
	// a dotted date is all digits and dots but must never classify as a number
	c := NewClassifier()
	if got := c.Classify("01.03.2024"); got != constants.TokenDate {
		t.Fatalf("Classify(01.03.2024) = %q, want %q", got, constants.TokenDate)
	}
}

func TestSignature(t *testing.T) {
	c := NewClassifier()

	tests := []struct {
		name string
		line string
		want ShapeSignature
	}{
		{
			"charge line",
			"12/05/23 1001.5 Bin Exchange 2 45.00 90.00",
			"<DATE> <NUM> <TXT> <TXT> <NUM> <NUM> <NUM>",
		},
		{
			"aud suffix line",
			"01.03.2024 Bin Rental 50.00 AUD",
			"<DATE> <TXT> <TXT> <NUM> <CUR>",
		},
		{"empty line", "", ""},
		{"whitespace only", "   \t ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Signature(tt.line); got != tt.want {
				t.Errorf("Signature(%q) = %q, want %q", tt.line, got, tt.want)
			}
		})
	}
}

func TestSignatureStability(t *testing.T) {
	// lines with different literals but the same token shapes share a signature
	c := NewClassifier()
	a := c.Signature("12/05/23 1001.5 Bin Exchange 2 45.00 90.00")
	b := c.Signature("19/05/23 2002.0 Crane Hire 4 12.50 50.00")
	if a != b {
		t.Fatalf("signatures differ: %q vs %q", a, b)
	}
}

func TestCustomCurrencyCodes(t *testing.T) {
	c := NewClassifier("usd", "NZD")
	if got := c.Classify("USD"); got != constants.TokenCurrency {
		t.Errorf("Classify(USD) = %q, want currency", got)
	}
	if got := c.Classify("AUD"); got != constants.TokenText {
		t.Errorf("Classify(AUD) = %q, want text when AUD is not configured", got)
	}
}
