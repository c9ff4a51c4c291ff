package constants

import (
	"strings"
)

type Category string

const (
	Booking       Category = "Booking"
	Disposal      Category = "Disposal"
	Rental        Category = "Rental"
	PeriodCharges Category = "PeriodCharges"
	ManualPrice   Category = "ManualPrice"
	FrontLift     Category = "FrontLift"
	QtyWeight     Category = "QtyWeight"
	Rebate        Category = "Rebate"
	Other         Category = "Other"
)

var allCategories = []Category{
	Booking,
	Disposal,
	Rental,
	PeriodCharges,
	ManualPrice,
	FrontLift,
	QtyWeight,
	Rebate,
	Other,
}

func AsStringSlice() []string {
	result := make([]string, len(allCategories))
	for i, cat := range allCategories {
		result[i] = string(cat)
	}
	return result
}

func Canonicalize(input string) (Category, bool) {
	if input == "" {
		return Other, false
	}

	normalized := strings.ToLower(strings.TrimSpace(input))

	// synonyms map
	synonyms := map[string]Category{
		"disposal charge":  Disposal,
		"tipping":          Disposal,
		"period charges":   PeriodCharges,
		"period charge":    PeriodCharges,
		"manual price":     ManualPrice,
		"front lift":       FrontLift,
		"frontlift":        FrontLift,
		"ffs - qty/weight": QtyWeight,
		"qty/weight":       QtyWeight,
	}

	if cat, ok := synonyms[normalized]; ok {
		return cat, true
	}

	// check if it matches any category string
	for _, cat := range allCategories {
		if normalized == strings.ToLower(string(cat)) {
			return cat, true
		}
	}

	return Other, false
}
