package grammar

import (
	"fmt"
	"regexp"

	"github.com/aps-tools/invoice-extract/constants"
	"github.com/aps-tools/invoice-extract/internal/entity"
)

// Grammar is one line shape: a pattern with capture slots, a mapping from
// semantic fields to slot indexes, and a category tag. Immutable once
// compiled. A field mapped to several slots gets the captures joined with
// single spaces (used for split descriptions).
type Grammar struct {
	Name     string
	Pattern  string
	Fields   map[entity.Field][]int // 1-based capture-group indexes
	Category constants.Category

	re *regexp.Regexp
}

// Compile validates and compiles a grammar definition. A malformed pattern,
// an unknown field name, or a slot index outside the capture-group count is
// a configuration error; nothing invalid is ever returned.
func Compile(name, pattern string, fields map[entity.Field][]int, category constants.Category) (*Grammar, error) {
	if name == "" {
		return nil, fmt.Errorf("grammar name must not be empty")
	}
	// Anchor so a grammar only wins when it explains the whole candidate.
	re, err := regexp.Compile(`\A(?:` + pattern + `)\z`)
	if err != nil {
		return nil, fmt.Errorf("grammar %q: compile pattern: %w", name, err)
	}
	groups := re.NumSubexp()
	for field, slots := range fields {
		if !entity.IsKnownField(field) {
			return nil, fmt.Errorf("grammar %q: unknown field %q", name, field)
		}
		if len(slots) == 0 {
			return nil, fmt.Errorf("grammar %q: field %q has no slots", name, field)
		}
		for _, slot := range slots {
			if slot < 1 || slot > groups {
				return nil, fmt.Errorf("grammar %q: field %q slot %d outside capture-group count %d", name, field, slot, groups)
			}
		}
	}
	return &Grammar{
		Name:     name,
		Pattern:  pattern,
		Fields:   fields,
		Category: category,
		re:       re,
	}, nil
}

// MustCompile is Compile for built-in grammars; it panics on error.
func MustCompile(name, pattern string, fields map[entity.Field][]int, category constants.Category) *Grammar {
	g, err := Compile(name, pattern, fields, category)
	if err != nil {
		panic(err)
	}
	return g
}

// Match attempts the grammar against the full candidate string and returns
// the raw captured value per mapped field. No-match is an ordinary result,
// not an error.
func (g *Grammar) Match(candidate string) (map[entity.Field]string, bool) {
	m := g.re.FindStringSubmatch(candidate)
	if m == nil {
		return nil, false
	}
	values := make(map[entity.Field]string, len(g.Fields))
	for field, slots := range g.Fields {
		value := ""
		for _, slot := range slots {
			if slot >= len(m) {
				continue
			}
			if m[slot] == "" {
				continue
			}
			if value != "" {
				value += " "
			}
			value += m[slot]
		}
		values[field] = value
	}
	return values, true
}
