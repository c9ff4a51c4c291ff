package merge

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/aps-tools/invoice-extract/internal/entity"
	"github.com/aps-tools/invoice-extract/internal/grammar"
	"github.com/aps-tools/invoice-extract/internal/segment"
)

// DefaultMaxContinuation bounds how many continuation lines one record may
// absorb before it is forcibly closed.
const DefaultMaxContinuation = 5

var reSubTotal = regexp.MustCompile(`(?i)^sub\s*total`)

// Transient artifacts that may interleave a record without being part of
// it: docket numbers, reference codes, and column-header reprints. They
// are skipped mid-record without closing the accumulator.
var transientPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^\d{5,}(\.\d+)?$`),
	regexp.MustCompile(`^[A-Z]{2,5}\d+(\.\d+)?$`),
	regexp.MustCompile(`^[A-Z]{2,5}\d+[\\/]\d+$`),
	regexp.MustCompile(`^\d{3}-\d{5}$`),
	regexp.MustCompile(`(?i)^no docket$`),
	regexp.MustCompile(`(?i)^n/?a$`),
	regexp.MustCompile(`(?i)^t\d{5}[\\/]\d$`),
	regexp.MustCompile(`(?i)^date\s+ref\s+no\b`),
	regexp.MustCompile(`(?i)^services$`),
}

// state of the merger within one block.
type state int

const (
	stateSeek state = iota // no open record
	stateOpen              // a record-start line has been seen
)

// Result is what merging one block produces. Skipped keeps every line that
// was consumed as a terminator, blank, or transient artifact, so callers
// can account for all input lines.
type Result struct {
	Records   []*entity.ChargeRecord
	Unmatched []entity.UnmatchedLine
	Skipped   []entity.TextLine
}

// Merger assembles one or more physical lines into record candidates and
// hands each flushed candidate to the grammar cascade.
type Merger struct {
	recordStart     *regexp.Regexp
	maxContinuation int
	logger          *slog.Logger
}

func NewMerger(recordStart *regexp.Regexp, maxContinuation int, logger *slog.Logger) *Merger {
	if maxContinuation <= 0 {
		maxContinuation = DefaultMaxContinuation
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Merger{
		recordStart:     recordStart,
		maxContinuation: maxContinuation,
		logger:          logger,
	}
}

type accumulator struct {
	start         entity.TextLine
	parts         []string
	continuations int
}

func (a *accumulator) text() string {
	return strings.Join(a.parts, " ")
}

// ProcessBlock runs the state machine over one header-scoped block. An
// accumulator open at end of block is flushed exactly once.
func (m *Merger) ProcessBlock(block segment.Block, invoiceNo string, cascade *grammar.Cascade) Result {
	var res Result
	var acc *accumulator
	st := stateSeek

	flush := func() {
		if acc == nil {
			return
		}
		candidate := acc.text()
		rec, reason, ok := cascade.Match(candidate, invoiceNo, block.Header)
		if ok {
			res.Records = append(res.Records, rec)
		} else {
			res.Unmatched = append(res.Unmatched, entity.UnmatchedLine{
				InvoiceNo: invoiceNo,
				Page:      acc.start.Page,
				Ordinal:   acc.start.Ordinal,
				Header:    block.Header,
				Text:      candidate,
				Reason:    reason,
			})
		}
		acc = nil
	}

	for _, line := range block.Lines {
		trimmed := strings.TrimSpace(line.Text)

		switch st {
		case stateSeek:
			switch {
			case trimmed == "" || reSubTotal.MatchString(trimmed) || isTransient(trimmed):
				res.Skipped = append(res.Skipped, line)
			case m.recordStart.MatchString(trimmed):
				acc = &accumulator{start: line, parts: []string{trimmed}}
				st = stateOpen
			default:
				// orphaned content under the current header
				res.Unmatched = append(res.Unmatched, entity.UnmatchedLine{
					InvoiceNo: invoiceNo,
					Page:      line.Page,
					Ordinal:   line.Ordinal,
					Header:    block.Header,
					Text:      trimmed,
					Reason:    "outside any record",
				})
			}

		case stateOpen:
			switch {
			case m.recordStart.MatchString(trimmed):
				// a new record start closes the current one, no SEEK between
				flush()
				acc = &accumulator{start: line, parts: []string{trimmed}}
			case trimmed == "" || reSubTotal.MatchString(trimmed):
				flush()
				st = stateSeek
				res.Skipped = append(res.Skipped, line)
			case isTransient(trimmed):
				res.Skipped = append(res.Skipped, line)
			default:
				if acc.continuations >= m.maxContinuation {
					m.logger.Debug("merge.force_close",
						"page", acc.start.Page, "ordinal", acc.start.Ordinal,
						"continuations", acc.continuations)
					flush()
					st = stateSeek
					// the line that broke the bound is orphaned content
					res.Unmatched = append(res.Unmatched, entity.UnmatchedLine{
						InvoiceNo: invoiceNo,
						Page:      line.Page,
						Ordinal:   line.Ordinal,
						Header:    block.Header,
						Text:      trimmed,
						Reason:    "continuation bound exceeded",
					})
					continue
				}
				acc.parts = append(acc.parts, trimmed)
				acc.continuations++
			}
		}
	}

	flush()
	return res
}

func isTransient(line string) bool {
	for _, re := range transientPatterns {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}
