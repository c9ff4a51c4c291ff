package entity

// SectionHeader is the site/customer context that scopes charge records
// until the next header marker supersedes it. Records hold it by reference.
type SectionHeader struct {
	SiteCode string `json:"site_code"`
	Customer string `json:"customer"`
	Address  string `json:"address"`
	State    string `json:"state,omitempty"`
	Postcode string `json:"postcode,omitempty"`
}

// InvoiceMetadata holds the document-level fields scraped from invoice
// header text. DeclaredTotal is kept raw; the reconciler parses it.
type InvoiceMetadata struct {
	TaxInvoice    string `json:"tax_invoice"`
	AccountNumber string `json:"account_number,omitempty"`
	BillingPeriod string `json:"billing_period,omitempty"`
	InvoiceDate   string `json:"invoice_date,omitempty"`
	DeclaredTotal string `json:"declared_total,omitempty"`
}
