package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/aps-tools/invoice-extract/internal/catalog"
	"github.com/aps-tools/invoice-extract/internal/common"
	"github.com/aps-tools/invoice-extract/internal/entity"
	"github.com/aps-tools/invoice-extract/internal/grammar"
	"github.com/aps-tools/invoice-extract/internal/merge"
	"github.com/aps-tools/invoice-extract/internal/normalize"
	"github.com/aps-tools/invoice-extract/internal/reconcile"
	"github.com/aps-tools/invoice-extract/internal/segment"
	"github.com/aps-tools/invoice-extract/internal/token"
)

// Result is the complete output of one document pass: the three exported
// tables plus the line-accounting slices (noise and skipped) that let a
// caller verify no input line was lost or double-counted.
type Result struct {
	DocumentID     uuid.UUID                     `json:"document_id"`
	Metadata       []entity.InvoiceMetadata      `json:"metadata"`
	Records        []*entity.ChargeRecord        `json:"records"`
	Unmatched      []entity.UnmatchedLine        `json:"unmatched"`
	Reconciliation []entity.ReconciliationResult `json:"reconciliation"`
	Noise          []entity.TextLine             `json:"-"`
	Skipped        []entity.TextLine             `json:"-"`
}

// Processor wires the normalizer, segmenter, continuation merger, grammar
// cascade, and reconciliation engine into one synchronous document pass.
type Processor struct {
	vendor    *grammar.VendorConfig
	filter    *normalize.Filter
	segmenter *segment.Segmenter
	merger    *merge.Merger
	cascade   *grammar.Cascade
	recon     *reconcile.Engine
	logger    *slog.Logger
}

// NewProcessor builds a processor for one vendor configuration. All
// configuration problems (bad noise patterns, malformed grammars) surface
// here, before any document is touched. store and matcher may be nil.
func NewProcessor(cfg *common.Config, vendor *grammar.VendorConfig, store grammar.LearnedLookup, matcher catalog.Matcher, logger *slog.Logger) (*Processor, error) {
	if logger == nil {
		logger = slog.Default()
	}
	filter, err := normalize.NewFilter(vendor.NoisePatterns...)
	if err != nil {
		return nil, err
	}

	codes := vendor.CurrencyCodes
	if len(codes) == 0 && cfg.Parse.CurrencyCode != "" {
		codes = []string{cfg.Parse.CurrencyCode}
	}
	classifier := token.NewClassifier(codes...)
	cascade := grammar.NewCascade(vendor.Grammars, classifier, store, logger)
	segmenter := segment.NewSegmenter(vendor.HeaderMarker, matcher, logger)
	merger := merge.NewMerger(vendor.RecordStart, cfg.Parse.MaxContinuation, logger)

	taxRate := cfg.Reconcile.TaxRate
	if vendor.TaxRate > 0 {
		taxRate = vendor.TaxRate
	}
	tolerance := cfg.Reconcile.Tolerance
	if vendor.Tolerance > 0 {
		tolerance = vendor.Tolerance
	}
	lineRounding := cfg.Reconcile.LineRounding || vendor.LineRounding
	recon := reconcile.NewEngine(reconcile.NewConfig(taxRate, tolerance, lineRounding), logger)

	return &Processor{
		vendor:    vendor,
		filter:    filter,
		segmenter: segmenter,
		merger:    merger,
		cascade:   cascade,
		recon:     recon,
		logger:    logger,
	}, nil
}

// chunk is the run of lines belonging to one invoice within a document.
type chunk struct {
	marker *entity.TextLine // the "Tax Invoice NNN" line, nil for the first chunk
	lines  []entity.TextLine
}

// Process runs the synchronous pass over one document's pages. Data
// problems degrade to diagnostic records; the only errors returned are
// context cancellation between pages.
func (p *Processor) Process(ctx context.Context, pages [][]string) (*Result, error) {
	start := time.Now()
	res := &Result{DocumentID: documentID(ctx)}

	var kept []entity.TextLine
	for pageNum, page := range pages {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		lines := make([]entity.TextLine, 0, len(page))
		for i, text := range page {
			lines = append(lines, entity.TextLine{Page: pageNum + 1, Ordinal: i + 1, Text: text})
		}
		pageKept, noise := p.filter.Apply(lines)
		kept = append(kept, pageKept...)
		res.Noise = append(res.Noise, noise...)
	}

	for _, c := range splitChunks(kept) {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		p.processChunk(c, res)
	}

	log := p.logger
	if rid := common.RequestIDFromContext(ctx); rid != "" {
		log = log.With("request_id", rid)
	}
	log.Info("pipeline.done",
		"document_id", res.DocumentID.String(),
		"invoices", len(res.Metadata),
		"records", len(res.Records),
		"unmatched", len(res.Unmatched),
		"noise", len(res.Noise),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return res, nil
}

// documentID reuses a caller-assigned document ID when the context carries
// one, otherwise assigns a fresh one.
func documentID(ctx context.Context) uuid.UUID {
	if raw := common.DocumentIDFromContext(ctx); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			return id
		}
	}
	return uuid.New()
}

// splitChunks partitions the document's surviving lines at invoice
// markers. Lines before the first marker form their own chunk so that
// single-invoice documents without a leading marker still parse.
func splitChunks(lines []entity.TextLine) []chunk {
	var chunks []chunk
	current := chunk{}
	started := false

	for _, line := range lines {
		if _, ok := invoiceMarker(line.Text); ok {
			if started || len(current.lines) > 0 {
				chunks = append(chunks, current)
			}
			marker := line
			current = chunk{marker: &marker}
			started = true
			continue
		}
		current.lines = append(current.lines, line)
	}
	if started || len(current.lines) > 0 {
		chunks = append(chunks, current)
	}
	return chunks
}

func (p *Processor) processChunk(c chunk, res *Result) {
	scan := c.lines
	if c.marker != nil {
		scan = append([]entity.TextLine{*c.marker}, c.lines...)
		res.Skipped = append(res.Skipped, *c.marker)
	}
	md := extractMetadata(scan)
	res.Metadata = append(res.Metadata, md)

	var records []*entity.ChargeRecord
	for _, block := range p.segmenter.Segment(c.lines) {
		out := p.merger.ProcessBlock(block, md.TaxInvoice, p.cascade)
		records = append(records, out.Records...)
		res.Unmatched = append(res.Unmatched, out.Unmatched...)
		res.Skipped = append(res.Skipped, out.Skipped...)
	}
	res.Records = append(res.Records, records...)

	res.Reconciliation = append(res.Reconciliation,
		p.recon.Reconcile(md.TaxInvoice, md.DeclaredTotal, records))
}
