package export

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/aps-tools/invoice-extract/constants"
	"github.com/aps-tools/invoice-extract/internal/entity"
	"github.com/aps-tools/invoice-extract/internal/pipeline"
)

const (
	sheetCharges        = "Charges"
	sheetUnmatched      = "Unmatched Lines"
	sheetReconciliation = "Reconciliation"
)

// Service turns a pipeline result into XLSX bytes: one sheet per output
// table, ready for download or archiving.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// WriteXLSX returns a workbook with the Charges, Unmatched Lines, and
// Reconciliation sheets. All three are written even when empty so
// consumers always see the same workbook shape.
func (s *Service) WriteXLSX(res *pipeline.Result) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	if err := s.writeCharges(f, res.Records); err != nil {
		return nil, err
	}
	if err := s.writeUnmatched(f, res.Unmatched); err != nil {
		return nil, err
	}
	if err := s.writeReconciliation(f, res.Reconciliation); err != nil {
		return nil, err
	}

	// drop the default sheet excelize creates
	defaultSheet := f.GetSheetName(0)
	if defaultSheet != sheetCharges {
		_ = f.DeleteSheet(defaultSheet)
	}
	if index, err := f.GetSheetIndex(sheetCharges); err == nil && index != -1 {
		f.SetActiveSheet(index)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"document_id", res.DocumentID.String(),
		"charges", len(res.Records),
		"unmatched", len(res.Unmatched),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func newSheet(f *excelize.File, name string, headers []string) error {
	if _, err := f.NewSheet(name); err != nil {
		return err
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(name, cell, h)
	}
	return nil
}

func (s *Service) writeCharges(f *excelize.File, records []*entity.ChargeRecord) error {
	headers := []string{
		"Tax Invoice",
		"Site",
		"Customer",
		"Address",
		"State",
		"Date",
		"Ref No",
		"Description",
		"Tipping",
		"Qty",
		"Price",
		"Total",
		"Category",
	}
	if err := newSheet(f, sheetCharges, headers); err != nil {
		return err
	}

	row := 2
	for _, r := range records {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheetCharges, cell, v)
		}

		site, customer, address, state := "", "", "", ""
		if r.Header != nil {
			site = r.Header.SiteCode
			customer = r.Header.Customer
			address = r.Header.Address
			state = r.Header.State
		}

		write(1, r.InvoiceNo)
		write(2, site)
		write(3, customer)
		write(4, address)
		write(5, state)
		write(6, r.Date)
		write(7, r.Reference)
		write(8, truncate(r.Description, 140))
		write(9, r.Tipping)
		write(10, r.Quantity)
		write(11, r.UnitPrice)
		write(12, r.Total)
		write(13, string(r.Category))
		row++
	}

	_ = f.SetColWidth(sheetCharges, "A", "B", 14)
	_ = f.SetColWidth(sheetCharges, "C", "D", 28)
	_ = f.SetColWidth(sheetCharges, "F", "G", 12)
	_ = f.SetColWidth(sheetCharges, "H", "H", 48)
	_ = f.SetColWidth(sheetCharges, "I", "L", 12)
	return nil
}

func (s *Service) writeUnmatched(f *excelize.File, unmatched []entity.UnmatchedLine) error {
	headers := []string{"Tax Invoice", "Page", "Line", "Site", "Text", "Reason"}
	if err := newSheet(f, sheetUnmatched, headers); err != nil {
		return err
	}

	row := 2
	for _, u := range unmatched {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheetUnmatched, cell, v)
		}

		site := ""
		if u.Header != nil {
			site = u.Header.SiteCode
		}

		write(1, u.InvoiceNo)
		write(2, u.Page)
		write(3, u.Ordinal)
		write(4, site)
		write(5, truncate(u.Text, 200))
		write(6, u.Reason)
		row++
	}

	_ = f.SetColWidth(sheetUnmatched, "E", "E", 80)
	_ = f.SetColWidth(sheetUnmatched, "F", "F", 48)
	return nil
}

func (s *Service) writeReconciliation(f *excelize.File, results []entity.ReconciliationResult) error {
	headers := []string{"Tax Invoice", "Records", "Subtotal", "Tax", "Gross", "Declared", "Difference", "Status"}
	if err := newSheet(f, sheetReconciliation, headers); err != nil {
		return err
	}

	row := 2
	for _, r := range results {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheetReconciliation, cell, v)
		}

		write(1, r.InvoiceNo)
		write(2, r.Records)
		write(3, r.Subtotal.StringFixed(2))
		write(4, r.Tax.StringFixed(2))
		write(5, r.Gross.StringFixed(2))
		// no declared total was found, so there is nothing to compare against
		if r.Status == constants.ReconUndetermined {
			write(6, "")
			write(7, "")
		} else {
			write(6, r.Declared.StringFixed(2))
			write(7, r.Difference.StringFixed(2))
		}
		write(8, string(r.Status))
		row++
	}

	_ = f.SetColWidth(sheetReconciliation, "A", "A", 14)
	_ = f.SetColWidth(sheetReconciliation, "C", "G", 14)
	return nil
}

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	if n <= 1 {
		return s[:n]
	}
	return s[:n-1] + "…"
}
