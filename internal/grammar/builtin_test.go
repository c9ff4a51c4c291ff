package grammar

import (
	"testing"

	"github.com/aps-tools/invoice-extract/constants"
	"github.com/aps-tools/invoice-extract/internal/entity"
)

func matchBuiltin(t *testing.T, grammars []*Grammar, line string) *entity.ChargeRecord {
	t.Helper()
	c := NewCascade(grammars, nil, nil, nil)
	rec, reason, ok := c.Match(line, "1", nil)
	if !ok {
		t.Fatalf("no grammar matched %q: %s", line, reason)
	}
	return rec
}

func TestWastedgeDisposalTonnage(t *testing.T) {
	rec := matchBuiltin(t, WastedgeGrammars(),
		"12/05/23 1001.5 Waste Disposal Charge 3.5 tonnes 1 150.00 525.00")

	if rec.GrammarName != "disposal-tonnage" {
		t.Fatalf("grammar = %q", rec.GrammarName)
	}
	if rec.Category != constants.Disposal {
		t.Errorf("category = %q", rec.Category)
	}
	if rec.Tipping != "3.5" {
		t.Errorf("tipping = %q, want 3.5", rec.Tipping)
	}
	if rec.Quantity != "1" || rec.UnitPrice != "150.00" || rec.Total != "525.00" {
		t.Errorf("amounts = %q/%q/%q", rec.Quantity, rec.UnitPrice, rec.Total)
	}
}

func TestWastedgePeriodCharges(t *testing.T) {
	// as merged from its two physical lines by the continuation merger
	rec := matchBuiltin(t, WastedgeGrammars(),
		"2 x REC240 @ 12.50 / Lift Site: S400 Acme Depot 2 12.50 25.00")

	if rec.GrammarName != "period-charges" {
		t.Fatalf("grammar = %q", rec.GrammarName)
	}
	if rec.Category != constants.PeriodCharges {
		t.Errorf("category = %q", rec.Category)
	}
	if rec.Description != "REC240 Acme Depot" {
		t.Errorf("description = %q, want split slots joined", rec.Description)
	}
	if rec.Reference != "S400" {
		t.Errorf("reference = %q", rec.Reference)
	}
	if rec.Quantity != "2" || rec.UnitPrice != "12.50" || rec.Total != "25.00" {
		t.Errorf("amounts = %q/%q/%q", rec.Quantity, rec.UnitPrice, rec.Total)
	}
}

func TestWastedgeDecimalQuantityFallsThrough(t *testing.T) {
	// integer-quantity booking cannot explain a decimal quantity; the
	// decimal variant further down the cascade must pick it up
	rec := matchBuiltin(t, WastedgeGrammars(),
		"12/05/23 1002.0 Green Waste 1.5 30.00 45.00")

	if rec.GrammarName != "booking-decimal-qty" {
		t.Fatalf("grammar = %q", rec.GrammarName)
	}
	if rec.Quantity != "1.5" {
		t.Errorf("quantity = %q, want 1.5", rec.Quantity)
	}
}

func TestAUDSuffixManualPrice(t *testing.T) {
	rec := matchBuiltin(t, AUDSuffixGrammars(),
		"01.03.2024 Waste Services Manual Price Extra Collection 100.00 10.00 110.00 AUD")

	if rec.GrammarName != "manual-price" {
		t.Fatalf("grammar = %q", rec.GrammarName)
	}
	if rec.Category != constants.ManualPrice {
		t.Errorf("category = %q", rec.Category)
	}
	if rec.Description != "Waste Services Extra Collection" {
		t.Errorf("description = %q", rec.Description)
	}
	if rec.Total != "100.00" || rec.Tax != "10.00" {
		t.Errorf("total/tax = %q/%q", rec.Total, rec.Tax)
	}
}

func TestAUDSuffixQtyWeight(t *testing.T) {
	rec := matchBuiltin(t, AUDSuffixGrammars(),
		"02.03.2024 General Waste FFS - Qty/Weight D12345/1 1.250 TO 95.00 TO 118.75 11.88 130.63 AUD Billed Qty 1.250 TO")

	if rec.GrammarName != "ffs-qty-weight" {
		t.Fatalf("grammar = %q", rec.GrammarName)
	}
	if rec.Category != constants.QtyWeight {
		t.Errorf("category = %q", rec.Category)
	}
	if rec.Reference != "D12345/1" {
		t.Errorf("reference = %q", rec.Reference)
	}
	if rec.Quantity != "1.250" || rec.UnitPrice != "95.00" || rec.Total != "118.75" || rec.Tax != "11.88" {
		t.Errorf("amounts = %q/%q/%q/%q", rec.Quantity, rec.UnitPrice, rec.Total, rec.Tax)
	}
	if rec.BilledQty != "1.250" {
		t.Errorf("billed qty = %q", rec.BilledQty)
	}
}

func TestAUDSuffixFrontLift(t *testing.T) {
	rec := matchBuiltin(t, AUDSuffixGrammars(),
		"05.03.2024 Front Lift Service 01.03.2024 to 31.03.2024 SVC-001 4.000 EA 25.00 EA 100.00 10.00 110.00 AUD")

	if rec.GrammarName != "front-lift" {
		t.Fatalf("grammar = %q", rec.GrammarName)
	}
	if rec.Period != "01.03.2024 to 31.03.2024" {
		t.Errorf("period = %q", rec.Period)
	}
	if rec.Reference != "SVC-001" {
		t.Errorf("reference = %q", rec.Reference)
	}
	if rec.Quantity != "4.000" || rec.UnitPrice != "25.00" || rec.Total != "100.00" {
		t.Errorf("amounts = %q/%q/%q", rec.Quantity, rec.UnitPrice, rec.Total)
	}
}

func TestAUDSuffixRentalPeriod(t *testing.T) {
	rec := matchBuiltin(t, AUDSuffixGrammars(),
		"01.03.2024 Bin Rental 240L 01.03.2024 to 31.03.2024 1.000 EA 50.00 EA 50.00 5.00 55.00 AUD")

	if rec.GrammarName != "rental-period" {
		t.Fatalf("grammar = %q", rec.GrammarName)
	}
	if rec.Category != constants.Rental {
		t.Errorf("category = %q", rec.Category)
	}
	if rec.Description != "Bin Rental 240L" {
		t.Errorf("description = %q", rec.Description)
	}
	if rec.Period != "01.03.2024 to 31.03.2024" {
		t.Errorf("period = %q", rec.Period)
	}
	if rec.Total != "50.00" || rec.Tax != "5.00" {
		t.Errorf("total/tax = %q/%q", rec.Total, rec.Tax)
	}
}
