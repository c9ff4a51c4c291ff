package grammar

import (
	"github.com/aps-tools/invoice-extract/constants"
	"github.com/aps-tools/invoice-extract/internal/entity"
)

// Built-in cascades for the two invoice layouts we see most. Ordering
// matters: specialized shapes sit before the general ones that would
// otherwise shadow them.

// WastedgeGrammars covers the wastedge.com layout: DD/MM/YY record starts,
// integer or decimal quantities, disposal lines carrying tonnage, and
// two-line period charges (merged into one candidate by the continuation
// merger before they get here).
func WastedgeGrammars() []*Grammar {
	return []*Grammar{
		MustCompile("disposal-tonnage",
			`(\d{2}/\d{2}/\d{2})\s+([\d.]+)\s+(.*?(?:Disposal Charge|Rebate)\D*?([\d.]+)\s+tonnes?.*?)\s+(\d+)\s+\$?([\d,.]+)\s+\$?([\d,.]+)`,
			map[entity.Field][]int{
				entity.FieldDate:        {1},
				entity.FieldReference:   {2},
				entity.FieldDescription: {3},
				entity.FieldTipping:     {4},
				entity.FieldQuantity:    {5},
				entity.FieldUnitPrice:   {6},
				entity.FieldTotal:       {7},
			},
			constants.Disposal),
		MustCompile("period-charges",
			`(\d+)\s+x\s+(.+?)\s+@\s*([\d.]+)\s*/\s*Lift\s+Site:\s*(\S+)\s+(.+?)\s+(\d+)\s+([\d.]+)\s+([\d.]+)`,
			map[entity.Field][]int{
				entity.FieldDescription: {2, 5},
				entity.FieldReference:   {4},
				entity.FieldQuantity:    {6},
				entity.FieldUnitPrice:   {7},
				entity.FieldTotal:       {8},
			},
			constants.PeriodCharges),
		MustCompile("booking",
			`(\d{2}/\d{2}/\d{2})\s+([\d.]+)\s+(.+?)\s+(\d+)\s+\$?([\d,.]+)\s+\$?([\d,.]+)\s*(.*)`,
			map[entity.Field][]int{
				entity.FieldDate:        {1},
				entity.FieldReference:   {2},
				entity.FieldDescription: {3, 7},
				entity.FieldQuantity:    {4},
				entity.FieldUnitPrice:   {5},
				entity.FieldTotal:       {6},
			},
			constants.Booking),
		MustCompile("booking-decimal-qty",
			`(\d{2}/\d{2}/\d{2})\s+([\d.]+)\s+(.+?)\s+([\d.]+)\s+\$?([\d,.]+)\s+\$?([\d,.]+)\s*(.*)`,
			map[entity.Field][]int{
				entity.FieldDate:        {1},
				entity.FieldReference:   {2},
				entity.FieldDescription: {3, 7},
				entity.FieldQuantity:    {4},
				entity.FieldUnitPrice:   {5},
				entity.FieldTotal:       {6},
			},
			constants.Booking),
	}
}

// AUDSuffixGrammars covers the SAP-style layout whose charge lines end in
// an "AUD" currency token: DD.MM.YYYY record starts, rental periods,
// FFS qty/weight charges, front-lift service lines, and manual-price
// blocks assembled from continuation lines.
func AUDSuffixGrammars() []*Grammar {
	return []*Grammar{
		MustCompile("manual-price",
			`(\d{2}\.\d{2}\.\d{4})\s+(.+?)\s+Manual Price\s+(.+?)\s+([\d,.]+)\s+([\d,.]+)\s+([\d,.]+)\s+AUD.*`,
			map[entity.Field][]int{
				entity.FieldDate:        {1},
				entity.FieldDescription: {2, 3},
				entity.FieldTotal:       {4},
				entity.FieldTax:         {5},
			},
			constants.ManualPrice),
		MustCompile("ffs-qty-weight",
			`(\d{2}\.\d{2}\.\d{4})\s+(.+?)\s+FFS - (?:Qty/Weight|Load)\s+([\w\-./\\]+)\s+([\d.]+)\s+\w+\s+([\d.]+)\s+[\w.]+\s+([\d,.]+)\s+([\d,.]+)\s+([\d,.]+)\s+AUD(?:\s+Billed Qty\s+([\d.]+)\s+\w+)?.*`,
			map[entity.Field][]int{
				entity.FieldDate:        {1},
				entity.FieldDescription: {2},
				entity.FieldReference:   {3},
				entity.FieldQuantity:    {4},
				entity.FieldUnitPrice:   {5},
				entity.FieldTotal:       {6},
				entity.FieldTax:         {7},
				entity.FieldBilledQty:   {9},
			},
			constants.QtyWeight),
		MustCompile("front-lift",
			`(\d{2}\.\d{2}\.\d{4})\s+(.+?)\s+(\d{2}\.\d{2}\.\d{4} to \d{2}\.\d{2}\.\d{4})\s+(.+?)\s+([\d.]+)\s+\w+\s+([\d.]+)\s+\w+\s+([\d,.]+)\s+([\d,.]+)\s+([\d,.]+)\s+AUD.*`,
			map[entity.Field][]int{
				entity.FieldDate:        {1},
				entity.FieldDescription: {2},
				entity.FieldPeriod:      {3},
				entity.FieldReference:   {4},
				entity.FieldQuantity:    {5},
				entity.FieldUnitPrice:   {6},
				entity.FieldTotal:       {7},
				entity.FieldTax:         {8},
			},
			constants.FrontLift),
		MustCompile("rental-period",
			`(\d{2}\.\d{2}\.\d{4})\s+(.+?)\s+(\d{2}\.\d{2}\.\d{4} to \d{2}\.\d{2}\.\d{4})\s+([\d.]+)\s+\w+\s+([\d.]+)\s+[\w.]+\s+([\d,.]+)\s+([\d,.]+)\s+([\d,.]+)\s+AUD(?:\s+Billed Qty\s+([\d.]+)\s+\w+)?.*`,
			map[entity.Field][]int{
				entity.FieldDate:        {1},
				entity.FieldDescription: {2},
				entity.FieldPeriod:      {3},
				entity.FieldQuantity:    {4},
				entity.FieldUnitPrice:   {5},
				entity.FieldTotal:       {6},
				entity.FieldTax:         {7},
				entity.FieldBilledQty:   {9},
			},
			constants.Rental),
	}
}
