package pipeline

import (
	"regexp"
	"strings"

	"github.com/aps-tools/invoice-extract/internal/entity"
)

// metadataWindow bounds how many lines after an invoice marker are
// searched for header metadata.
const metadataWindow = 20

var (
	reInvoiceMarker = regexp.MustCompile(`(?i)^(?:Tax Invoice|Invoice No\.?)\s*:?\s*(\d+)`)

	reTaxInvoice    = regexp.MustCompile(`(?i)(?:Tax Invoice|Invoice No\.?)\s*:?\s*(\d+)`)
	reAccountNumber = regexp.MustCompile(`(?i)Account Number\s*:?\s*([\d.]+)`)
	reBillingPeriod = regexp.MustCompile(`(?i)Billing Period\s*:?\s*(.+)`)
	reInvoiceDate   = regexp.MustCompile(`(?i)Invoice Date\s*:?\s*([\d/.]+)`)
	reDeclaredTotal = regexp.MustCompile(`(?i)^Total(?:\s+Payable)?\s*:?\s*\$?\s*([\d,]+\.\d{2})`)
)

// invoiceMarker reports whether line begins a new invoice within the same
// document, returning the invoice number.
func invoiceMarker(line string) (string, bool) {
	m := reInvoiceMarker.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return "", false
	}
	return m[1], true
}

// extractMetadata scrapes document-level invoice fields from the opening
// lines of one invoice chunk. Fields it cannot find stay empty; the
// reconciler turns a missing declared total into an UNDETERMINED verdict
// rather than an error.
func extractMetadata(lines []entity.TextLine) entity.InvoiceMetadata {
	var md entity.InvoiceMetadata
	limit := len(lines)
	if limit > metadataWindow {
		limit = metadataWindow
	}
	for _, line := range lines[:limit] {
		text := strings.TrimSpace(line.Text)
		if md.TaxInvoice == "" {
			if m := reTaxInvoice.FindStringSubmatch(text); m != nil {
				md.TaxInvoice = m[1]
			}
		}
		if md.AccountNumber == "" {
			if m := reAccountNumber.FindStringSubmatch(text); m != nil {
				md.AccountNumber = m[1]
			}
		}
		if md.BillingPeriod == "" {
			if m := reBillingPeriod.FindStringSubmatch(text); m != nil {
				md.BillingPeriod = strings.TrimSpace(m[1])
			}
		}
		if md.InvoiceDate == "" {
			if m := reInvoiceDate.FindStringSubmatch(text); m != nil {
				md.InvoiceDate = m[1]
			}
		}
		if md.DeclaredTotal == "" {
			if m := reDeclaredTotal.FindStringSubmatch(text); m != nil {
				md.DeclaredTotal = m[1]
			}
		}
	}
	// the declared total may sit at the foot of the invoice, outside the
	// header window
	if md.DeclaredTotal == "" {
		for _, line := range lines[limit:] {
			if m := reDeclaredTotal.FindStringSubmatch(strings.TrimSpace(line.Text)); m != nil {
				md.DeclaredTotal = m[1]
				break
			}
		}
	}
	return md
}
