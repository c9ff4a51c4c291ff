package entity

import (
	"github.com/shopspring/decimal"

	"github.com/aps-tools/invoice-extract/constants"
)

// ReconciliationResult is the verdict for one invoice-grouping key.
// Difference follows the derived − declared sign convention.
type ReconciliationResult struct {
	InvoiceNo  string                `json:"invoice_no"`
	Subtotal   decimal.Decimal       `json:"subtotal"`
	Tax        decimal.Decimal       `json:"tax"`
	Gross      decimal.Decimal       `json:"gross"`
	Declared   decimal.Decimal       `json:"declared"`
	Difference decimal.Decimal       `json:"difference"`
	Records    int                   `json:"records"`
	Status     constants.ReconStatus `json:"status"`
}
