package grammar

import (
	"fmt"
	"log/slog"

	"github.com/aps-tools/invoice-extract/internal/entity"
	"github.com/aps-tools/invoice-extract/internal/token"
)

// LearnedLookup is the slice of the learned-pattern store the cascade
// needs: a read-only lookup by shape signature.
type LearnedLookup interface {
	Lookup(sig token.ShapeSignature) (*Grammar, bool)
}

// Cascade tries an ordered list of grammars against a candidate string.
// First match wins; more specific grammars must be listed before general
// ones that could shadow them. On exhaustion the learned store is
// consulted by shape signature as a last stage.
type Cascade struct {
	grammars   []*Grammar
	classifier *token.Classifier
	learned    LearnedLookup // may be nil
	logger     *slog.Logger
}

func NewCascade(grammars []*Grammar, classifier *token.Classifier, learned LearnedLookup, logger *slog.Logger) *Cascade {
	if logger == nil {
		logger = slog.Default()
	}
	if classifier == nil {
		classifier = token.NewClassifier()
	}
	return &Cascade{
		grammars:   grammars,
		classifier: classifier,
		learned:    learned,
		logger:     logger,
	}
}

// Grammars returns the configured grammar list in evaluation order.
func (c *Cascade) Grammars() []*Grammar {
	return c.grammars
}

// Match classifies one accumulated candidate. On success it returns a
// populated ChargeRecord carrying the section header by reference. On
// failure it returns a human-readable reason; it never raises for data.
func (c *Cascade) Match(candidate, invoiceNo string, header *entity.SectionHeader) (*entity.ChargeRecord, string, bool) {
	for _, g := range c.grammars {
		if values, ok := g.Match(candidate); ok {
			return c.build(g, values, invoiceNo, header), "", true
		}
	}

	sig := c.classifier.Signature(candidate)
	if c.learned != nil {
		if g, ok := c.learned.Lookup(sig); ok {
			if values, ok := g.Match(candidate); ok {
				c.logger.Debug("cascade.learned_match", "grammar", g.Name, "signature", string(sig))
				return c.build(g, values, invoiceNo, header), "", true
			}
		}
	}

	return nil, fmt.Sprintf("no grammar in cascade matched shape-signature %q", sig), false
}

func (c *Cascade) build(g *Grammar, values map[entity.Field]string, invoiceNo string, header *entity.SectionHeader) *entity.ChargeRecord {
	rec := &entity.ChargeRecord{
		InvoiceNo:   invoiceNo,
		Header:      header,
		Category:    g.Category,
		GrammarName: g.Name,
	}
	for field, raw := range values {
		if numericFields[field] {
			normalized, ok := NormalizeNumber(raw)
			if !ok {
				c.logger.Debug("cascade.coerce_failed", "grammar", g.Name, "field", string(field), "value", raw)
				rec.Set(field, "")
				continue
			}
			rec.Set(field, normalized)
			continue
		}
		if field == entity.FieldDescription {
			raw = CleanDescription(raw)
		}
		rec.Set(field, raw)
	}
	return rec
}
