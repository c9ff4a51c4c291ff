package patterns

import (
	"fmt"

	"github.com/aps-tools/invoice-extract/constants"
	"github.com/aps-tools/invoice-extract/internal/common"
	"github.com/aps-tools/invoice-extract/internal/entity"
	"github.com/aps-tools/invoice-extract/internal/grammar"
	"github.com/aps-tools/invoice-extract/internal/token"
)

// Entry is one learned pattern as persisted: the pattern text, the
// field-to-slot map, and a category label, keyed by the shape signature it
// was learned from.
type Entry struct {
	Signature token.ShapeSignature `json:"signature"`
	Name      string               `json:"name,omitempty"`
	Pattern   string               `json:"pattern"`
	Fields    map[string][]int     `json:"field_map"`
	Category  string               `json:"category,omitempty"`
}

// Store is the durable signature→grammar mapping the cascade consults as
// its final stage. Implementations persist after every mutation and treat
// a missing or corrupt backing document as empty, never as a startup
// failure. Single-writer by design; a host layering concurrency over the
// pipeline must serialize mutations.
type Store interface {
	grammar.LearnedLookup

	// Put validates and inserts-or-replaces the entry for its signature.
	Put(e Entry) error
	// Delete removes the entry for sig; deleting an absent key is an error.
	Delete(sig token.ShapeSignature) error
	// All returns every entry, ordered by signature.
	All() ([]Entry, error)
	Close() error
}

// compile turns an entry into a matchable grammar, enforcing that the
// pattern compiles and every slot index is within its capture-group count.
func compile(e Entry) (*grammar.Grammar, error) {
	if e.Pattern == "" {
		return nil, fmt.Errorf("learned pattern for signature %q: empty pattern", e.Signature)
	}
	name := e.Name
	if name == "" {
		name = "learned"
	}
	fields := make(map[entity.Field][]int, len(e.Fields))
	for f, slots := range e.Fields {
		fields[entity.Field(f)] = slots
	}
	category, _ := constants.Canonicalize(e.Category)
	return grammar.Compile(name, e.Pattern, fields, category)
}

// ValidateEntry checks an entry before it may be saved: the mapping must
// compile (slot indexes within the captured-group count) and the pattern
// must actually match the sample line it was learned from. Invalid
// mappings are never silently saved.
func ValidateEntry(e Entry, sample string) error {
	g, err := compile(e)
	if err != nil {
		return err
	}
	if sample != "" {
		if _, ok := g.Match(sample); !ok {
			return fmt.Errorf("learned pattern for signature %q does not match its sample line: %w",
				e.Signature, common.ErrValidation)
		}
	}
	return nil
}
