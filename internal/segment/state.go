package segment

import "strings"

var stateMap = map[string]string{
	"new south wales":              "NSW",
	"victoria":                     "VIC",
	"queensland":                   "QLD",
	"south australia":              "SA",
	"western australia":            "WA",
	"tasmania":                     "TAS",
	"northern territory":           "NT",
	"australian capital territory": "ACT",
	"nsw":                          "NSW",
	"vic":                          "VIC",
	"qld":                          "QLD",
	"sa":                           "SA",
	"wa":                           "WA",
	"tas":                          "TAS",
	"nt":                           "NT",
	"act":                          "ACT",
}

// NormalizeState maps a jurisdiction label to its canonical code. Unknown
// labels are uppercased and returned as-is.
func NormalizeState(raw string) string {
	if canonical, ok := stateMap[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return canonical
	}
	return strings.ToUpper(strings.TrimSpace(raw))
}
