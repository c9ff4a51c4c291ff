package grammar

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/aps-tools/invoice-extract/internal/entity"
)

// Fields holding monetary or quantity values; these get normalized after a
// match. Coercion failure empties the field, never demotes the record.
var numericFields = map[entity.Field]bool{
	entity.FieldQuantity:  true,
	entity.FieldUnitPrice: true,
	entity.FieldTotal:     true,
	entity.FieldTax:       true,
	entity.FieldTipping:   true,
	entity.FieldBilledQty: true,
}

// NormalizeNumber strips thousands separators and currency adornments,
// keeping the decimal point. ok is false when the result does not parse
// as a decimal.
func NormalizeNumber(s string) (string, bool) {
	cleaned := strings.TrimSpace(s)
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.TrimPrefix(cleaned, "$")
	if cleaned == "" {
		return "", false
	}
	if _, err := strconv.ParseFloat(cleaned, 64); err != nil {
		return "", false
	}
	return cleaned, true
}

// Docket and reference artifacts that leak into merged descriptions.
var descriptionNoise = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(EPD|TH|AGR|RYD)\w*[\\/]\d+\b`),
	regexp.MustCompile(`(?i)\b(EPD|TH|AGR|RYD)\w*\d+(\.\d+)?\b`),
	regexp.MustCompile(`\b\d{5,}(\.\d+)?\b`),
	regexp.MustCompile(`\b\d{3}-\d{5}\b`),
	regexp.MustCompile(`(?i)\bNO DOCKET\b`),
	regexp.MustCompile(`(?i)\bN/A\b`),
	regexp.MustCompile(`(?i)\bNA\b`),
	regexp.MustCompile(`(?i)\bT\d{5}[\\/]\d\b`),
	regexp.MustCompile(`(?i)\bD\d{5}[\\/]\d\b`),
}

var reMultiSpace = regexp.MustCompile(`\s{2,}`)

// CleanDescription scrubs docket/reference noise from a description and
// collapses the leftover whitespace.
func CleanDescription(desc string) string {
	cleaned := desc
	for _, re := range descriptionNoise {
		cleaned = re.ReplaceAllString(cleaned, "")
	}
	return strings.TrimSpace(reMultiSpace.ReplaceAllString(cleaned, " "))
}
