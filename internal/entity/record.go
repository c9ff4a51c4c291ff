package entity

import (
	"github.com/aps-tools/invoice-extract/constants"
)

// Field names a semantic slot a grammar can populate on a ChargeRecord.
type Field string

const (
	FieldDate        Field = "date"
	FieldReference   Field = "reference"
	FieldDescription Field = "description"
	FieldTipping     Field = "tipping"
	FieldPeriod      Field = "period"
	FieldBilledQty   Field = "billed_qty"
	FieldQuantity    Field = "quantity"
	FieldUnitPrice   Field = "unit_price"
	FieldTotal       Field = "total"
	FieldTax         Field = "tax"
)

// KnownFields lists every field a grammar may map a capture slot to.
var KnownFields = []Field{
	FieldDate,
	FieldReference,
	FieldDescription,
	FieldTipping,
	FieldPeriod,
	FieldBilledQty,
	FieldQuantity,
	FieldUnitPrice,
	FieldTotal,
	FieldTax,
}

// IsKnownField reports whether name is a recognized semantic field.
func IsKnownField(name Field) bool {
	for _, f := range KnownFields {
		if f == name {
			return true
		}
	}
	return false
}

// ChargeRecord is one matched (possibly multi-line) charge. Missing slots
// are empty strings, never nil. Immutable after creation.
type ChargeRecord struct {
	InvoiceNo   string             `json:"invoice_no"`
	Header      *SectionHeader     `json:"header,omitempty"`
	Category    constants.Category `json:"category"`
	GrammarName string             `json:"grammar_name"`

	Date        string `json:"date"`
	Reference   string `json:"reference"`
	Description string `json:"description"`
	Tipping     string `json:"tipping,omitempty"`
	Period      string `json:"period,omitempty"`
	BilledQty   string `json:"billed_qty,omitempty"`
	Quantity    string `json:"quantity"`
	UnitPrice   string `json:"unit_price"`
	Total       string `json:"total"`
	Tax         string `json:"tax,omitempty"`
}

// Set assigns a field by name. Unknown fields are ignored; callers are
// expected to have validated the mapping at configuration time.
func (r *ChargeRecord) Set(f Field, value string) {
	switch f {
	case FieldDate:
		r.Date = value
	case FieldReference:
		r.Reference = value
	case FieldDescription:
		r.Description = value
	case FieldTipping:
		r.Tipping = value
	case FieldPeriod:
		r.Period = value
	case FieldBilledQty:
		r.BilledQty = value
	case FieldQuantity:
		r.Quantity = value
	case FieldUnitPrice:
		r.UnitPrice = value
	case FieldTotal:
		r.Total = value
	case FieldTax:
		r.Tax = value
	}
}

// Get returns a field by name, empty for unknown fields.
func (r *ChargeRecord) Get(f Field) string {
	switch f {
	case FieldDate:
		return r.Date
	case FieldReference:
		return r.Reference
	case FieldDescription:
		return r.Description
	case FieldTipping:
		return r.Tipping
	case FieldPeriod:
		return r.Period
	case FieldBilledQty:
		return r.BilledQty
	case FieldQuantity:
		return r.Quantity
	case FieldUnitPrice:
		return r.UnitPrice
	case FieldTotal:
		return r.Total
	case FieldTax:
		return r.Tax
	}
	return ""
}

// UnmatchedLine is a raw line (or merged fragment) that no grammar
// matched. It is a diagnostic artifact and is never silently dropped.
type UnmatchedLine struct {
	InvoiceNo string         `json:"invoice_no"`
	Page      int            `json:"page"`
	Ordinal   int            `json:"ordinal"`
	Header    *SectionHeader `json:"header,omitempty"`
	Text      string         `json:"text"`
	Reason    string         `json:"reason"`
}
