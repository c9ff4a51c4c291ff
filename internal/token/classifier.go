package token

import (
	"regexp"
	"strings"

	"github.com/aps-tools/invoice-extract/constants"
)

// ShapeSignature is the space-joined sequence of token classes for a line.
// Two lines with identical token-class sequences share a signature
// regardless of literal content; learned patterns are keyed on it.
type ShapeSignature string

// Default date shapes observed across vendor templates.
var defaultDateShapes = []*regexp.Regexp{
	regexp.MustCompile(`^\d{2}/\d{2}/\d{2}$`),   // DD/MM/YY
	regexp.MustCompile(`^\d{2}\.\d{2}\.\d{4}$`), // DD.MM.YYYY
}

// digits and commas with at most one decimal point
var reNumber = regexp.MustCompile(`^\d[\d,]*(\.\d+)?$`)

// Classifier assigns a coarse class to each whitespace token. Pure; safe
// for concurrent use after construction.
type Classifier struct {
	dateShapes []*regexp.Regexp
	currency   map[string]struct{}
}

// NewClassifier builds a classifier for the given currency codes. Empty
// input defaults to AUD. Date shapes default to DD/MM/YY and DD.MM.YYYY.
func NewClassifier(currencyCodes ...string) *Classifier {
	if len(currencyCodes) == 0 {
		currencyCodes = []string{"AUD"}
	}
	currency := make(map[string]struct{}, len(currencyCodes))
	for _, code := range currencyCodes {
		currency[strings.ToUpper(strings.TrimSpace(code))] = struct{}{}
	}
	return &Classifier{
		dateShapes: defaultDateShapes,
		currency:   currency,
	}
}

// Classify returns the class for one whitespace-delimited token.
// Precedence is fixed: date shape, then number, then currency code, then text.
func (c *Classifier) Classify(tok string) constants.TokenClass {
	for _, shape := range c.dateShapes {
		if shape.MatchString(tok) {
			return constants.TokenDate
		}
	}
	if reNumber.MatchString(tok) {
		return constants.TokenNumber
	}
	if _, ok := c.currency[strings.ToUpper(tok)]; ok {
		return constants.TokenCurrency
	}
	return constants.TokenText
}

// Signature derives the shape signature for a whole line.
func (c *Classifier) Signature(line string) ShapeSignature {
	tokens := strings.Fields(line)
	classes := make([]string, len(tokens))
	for i, tok := range tokens {
		classes[i] = string(c.Classify(tok))
	}
	return ShapeSignature(strings.Join(classes, " "))
}
