package segment

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/aps-tools/invoice-extract/internal/catalog"
	"github.com/aps-tools/invoice-extract/internal/entity"
)

// DefaultMarker is the header marker used by the wastedge layout. A
// marker ending in ":" is a label and gets stripped before the code and
// descriptor are parsed; any other marker is part of the code itself.
var DefaultMarker = regexp.MustCompile(`^Services\s*/\s*Site:`)

var (
	reCodeDescriptor = regexp.MustCompile(`^(\S+)\s+(.*)$`)
	rePostcodeOnly   = regexp.MustCompile(`^\d{4}$`)
	reTrailingState  = regexp.MustCompile(`\b([A-Za-z]{2,3})\s+(\d{4})$`)
)

// Block is one run of lines scoped by a section header. Header is nil for
// lines that precede any header marker.
type Block struct {
	Header *entity.SectionHeader
	Lines  []entity.TextLine
}

// Segmenter partitions normalized lines into header-scoped blocks. The
// current header carries forward until the next marker supersedes it.
type Segmenter struct {
	marker  *regexp.Regexp
	matcher catalog.Matcher // optional fuzzy name correction
	logger  *slog.Logger
}

func NewSegmenter(marker *regexp.Regexp, matcher catalog.Matcher, logger *slog.Logger) *Segmenter {
	if marker == nil {
		marker = DefaultMarker
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Segmenter{marker: marker, matcher: matcher, logger: logger}
}

// Segment scans lines in order, opening a new block at every header
// marker. A line holding only a four-digit postal code directly after a
// header is consumed into that header, not forwarded as block content.
// A header line that cannot be decomposed is logged and kept as block
// content under the previous header, which stays in effect.
func (s *Segmenter) Segment(lines []entity.TextLine) []Block {
	var blocks []Block
	current := Block{}

	flush := func() {
		if current.Header != nil || len(current.Lines) > 0 {
			blocks = append(blocks, current)
		}
	}

	for i := 0; i < len(lines); i++ {
		line := lines[i]
		trimmed := strings.TrimSpace(line.Text)
		loc := s.marker.FindStringIndex(trimmed)
		if loc == nil || loc[0] != 0 {
			current.Lines = append(current.Lines, line)
			continue
		}

		header, ok := s.parseHeader(trimmed)
		if !ok {
			s.logger.Warn("segment.malformed_header",
				"page", line.Page, "ordinal", line.Ordinal, "line", trimmed)
			current.Lines = append(current.Lines, line)
			continue
		}

		// postal-code-only follow-up line belongs to the header
		if i+1 < len(lines) {
			next := strings.TrimSpace(lines[i+1].Text)
			if rePostcodeOnly.MatchString(next) {
				header.Postcode = next
				i++
			}
		}

		flush()
		current = Block{Header: header}
	}
	flush()
	return blocks
}

// parseHeader decomposes the remainder after the marker into code,
// customer name, and address. When no " - " delimiter is present the
// positional fallback (first two tokens = name) is best-effort only.
func (s *Segmenter) parseHeader(line string) (*entity.SectionHeader, bool) {
	raw := line
	if label := s.marker.FindString(line); strings.HasSuffix(label, ":") {
		raw = strings.TrimSpace(line[len(label):])
	}
	m := reCodeDescriptor.FindStringSubmatch(raw)
	if m == nil {
		return nil, false
	}
	code, rest := m[1], strings.TrimSpace(m[2])

	var name, address string
	if before, after, found := strings.Cut(rest, " - "); found {
		name, address = strings.TrimSpace(before), strings.TrimSpace(after)
	} else {
		parts := strings.Fields(rest)
		switch {
		case len(parts) >= 3:
			name = strings.Join(parts[:2], " ")
			address = strings.Join(parts[2:], " ")
		case len(parts) == 2:
			name, address = parts[0], parts[1]
		case len(parts) == 1:
			name = parts[0]
		default:
			return nil, false
		}
	}

	header := &entity.SectionHeader{
		SiteCode: code,
		Customer: name,
		Address:  address,
	}

	if sm := reTrailingState.FindStringSubmatch(address); sm != nil {
		header.State = NormalizeState(sm[1])
		header.Postcode = sm[2]
	}

	if s.matcher != nil && header.Customer != "" {
		if corrected, score, ok := s.matcher.BestMatch(header.Customer); ok {
			s.logger.Debug("segment.name_corrected",
				"raw", header.Customer, "corrected", corrected, "score", score)
			header.Customer = corrected
		}
	}
	return header, true
}
