package reconcile

import (
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/aps-tools/invoice-extract/constants"
	"github.com/aps-tools/invoice-extract/internal/entity"
)

// Config selects the tax rule, tolerance, and rounding policy. Vendors
// differ on whether already-rounded line totals are summed or each
// quantity × unit price is rounded per line first; both are supported and
// the choice is explicit, never hard-coded.
type Config struct {
	TaxRate      decimal.Decimal
	Tolerance    decimal.Decimal
	LineRounding bool
}

// NewConfig builds a Config from plain float inputs.
func NewConfig(taxRate, tolerance float64, lineRounding bool) Config {
	return Config{
		TaxRate:      decimal.NewFromFloat(taxRate),
		Tolerance:    decimal.NewFromFloat(tolerance),
		LineRounding: lineRounding,
	}
}

// Engine aggregates extracted monetary fields per invoice key and compares
// the derived gross against the declared total.
type Engine struct {
	cfg    Config
	logger *slog.Logger
}

func NewEngine(cfg Config, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{cfg: cfg, logger: logger}
}

// Reconcile produces the verdict for one invoice-grouping key. It never
// fails: an unparsable declared total yields an UNDETERMINED result.
// Difference is derived − declared.
func (e *Engine) Reconcile(invoiceNo, declared string, records []*entity.ChargeRecord) entity.ReconciliationResult {
	subtotal := decimal.Zero
	for _, rec := range records {
		subtotal = subtotal.Add(e.lineAmount(rec))
	}

	tax := subtotal.Mul(e.cfg.TaxRate).Round(2)
	gross := subtotal.Add(tax).Round(2)

	res := entity.ReconciliationResult{
		InvoiceNo: invoiceNo,
		Subtotal:  subtotal.Round(2),
		Tax:       tax,
		Gross:     gross,
		Records:   len(records),
	}

	declaredDec, ok := parseAmount(declared)
	if !ok {
		res.Status = constants.ReconUndetermined
		e.logger.Warn("reconcile.undetermined", "invoice_no", invoiceNo, "declared", declared)
		return res
	}
	res.Declared = declaredDec
	res.Difference = gross.Sub(declaredDec).Round(2)

	if res.Difference.Abs().LessThan(e.cfg.Tolerance) {
		res.Status = constants.ReconMatch
	} else {
		res.Status = constants.ReconMismatch
	}
	return res
}

// lineAmount is one record's contribution to the subtotal. Under the
// per-line rounding policy it is round(quantity × unit price, 2); the
// extracted total is the fallback when either factor is missing.
// Unparsable values contribute zero, never an error.
func (e *Engine) lineAmount(rec *entity.ChargeRecord) decimal.Decimal {
	if e.cfg.LineRounding {
		qty, qok := parseAmount(rec.Quantity)
		price, pok := parseAmount(rec.UnitPrice)
		if qok && pok {
			return qty.Mul(price).Round(2)
		}
	}
	total, ok := parseAmount(rec.Total)
	if !ok {
		return decimal.Zero
	}
	return total
}

func parseAmount(s string) (decimal.Decimal, bool) {
	cleaned := strings.TrimSpace(s)
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.TrimPrefix(cleaned, "$")
	if cleaned == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}
