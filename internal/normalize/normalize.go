package normalize

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/aps-tools/invoice-extract/internal/entity"
)

// Running footers and boilerplate observed across vendor templates.
var defaultNoisePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)powered by wastedge`),
	regexp.MustCompile(`(?i)^page[: ]*\d+`),
	regexp.MustCompile(`(?i)tax invoice[: ]*\d+.*invoice date[: ]*\d{2}/\d{2}/\d{2}`),
	regexp.MustCompile(`(?i)^acc[: ]*\d+\.\d+`),
}

// Filter removes noise lines (page footers, boilerplate, running header
// fragments) from a page's line sequence. Conservative: surviving lines
// keep their content and order untouched.
type Filter struct {
	patterns []*regexp.Regexp
}

// NewFilter builds a filter from the default noise patterns plus any
// custom ones. An invalid custom pattern is a configuration error.
func NewFilter(custom ...string) (*Filter, error) {
	patterns := make([]*regexp.Regexp, 0, len(defaultNoisePatterns)+len(custom))
	patterns = append(patterns, defaultNoisePatterns...)
	for _, p := range custom {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("compile noise pattern %q: %w", p, err)
		}
		patterns = append(patterns, re)
	}
	return &Filter{patterns: patterns}, nil
}

// IsNoise reports whether a single line matches any noise pattern.
func (f *Filter) IsNoise(line string) bool {
	trimmed := strings.TrimSpace(line)
	for _, re := range f.patterns {
		if re.MatchString(trimmed) {
			return true
		}
	}
	return false
}

// Apply partitions lines into kept and noise, preserving order in both.
// Every input line lands in exactly one of the two slices.
func (f *Filter) Apply(lines []entity.TextLine) (kept, noise []entity.TextLine) {
	for _, line := range lines {
		if f.IsNoise(line.Text) {
			noise = append(noise, line)
			continue
		}
		kept = append(kept, line)
	}
	return kept, noise
}
