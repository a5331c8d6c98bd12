package export

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/billbook/backend/internal/domain/ledger"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// ContentTypeXLSX is the MIME type of the generated workbooks
const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const (
	maxSheetNameLen  = 31
	defaultSheetName = "Ledger"
	dateFormat       = "dd-mm-yyyy"
)

var (
	entryHeaders   = []any{"Date", "Type", "Description", "Debit", "Credit", "Balance"}
	invoiceHeaders = []any{"Invoice Number", "Invoice Date", "Total", "Deposited", "Remaining"}
)

// LedgerWorkbook writes ledgers to an XLSX workbook, one sheet per ledger.
// Each sheet carries the running entries, the per-invoice balances and the
// totals.
type LedgerWorkbook struct {
	f      *excelize.File
	styles workbookStyles
	names  map[string]int
	sheets int
}

type workbookStyles struct {
	header int
	amount int
	date   int
	total  int
}

// NewLedgerWorkbook creates an empty workbook
func NewLedgerWorkbook() (*LedgerWorkbook, error) {
	f := excelize.NewFile()
	styles, err := newWorkbookStyles(f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return &LedgerWorkbook{f: f, styles: styles, names: make(map[string]int)}, nil
}

func newWorkbookStyles(f *excelize.File) (workbookStyles, error) {
	var s workbookStyles
	var err error

	amountFmt := indianNumFmt
	dateFmt := dateFormat

	if s.header, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"DDEBF7"}},
	}); err != nil {
		return s, fmt.Errorf("failed to create header style: %w", err)
	}
	if s.amount, err = f.NewStyle(&excelize.Style{CustomNumFmt: &amountFmt}); err != nil {
		return s, fmt.Errorf("failed to create amount style: %w", err)
	}
	if s.date, err = f.NewStyle(&excelize.Style{CustomNumFmt: &dateFmt}); err != nil {
		return s, fmt.Errorf("failed to create date style: %w", err)
	}
	if s.total, err = f.NewStyle(&excelize.Style{
		Font:         &excelize.Font{Bold: true},
		CustomNumFmt: &amountFmt,
	}); err != nil {
		return s, fmt.Errorf("failed to create total style: %w", err)
	}
	return s, nil
}

// AddLedger appends a sheet for l and returns the sheet name used
func (w *LedgerWorkbook) AddLedger(l *ledger.Ledger) (string, error) {
	if l == nil {
		return "", fmt.Errorf("ledger is nil")
	}

	title := l.BuyerName
	if title == "" {
		title = l.BuyerKey
	}
	name := w.uniqueSheetName(title)

	// the first ledger takes over the default sheet
	if w.sheets == 0 {
		if err := w.f.SetSheetName(w.f.GetSheetName(0), name); err != nil {
			return "", fmt.Errorf("failed to name sheet %q: %w", name, err)
		}
	} else if _, err := w.f.NewSheet(name); err != nil {
		return "", fmt.Errorf("failed to add sheet %q: %w", name, err)
	}
	w.sheets++

	sw := sheetWriter{f: w.f, sheet: name, styles: w.styles}
	sw.writeLedger(l)
	if sw.err != nil {
		return "", fmt.Errorf("failed to write sheet %q: %w", name, sw.err)
	}
	return name, nil
}

// Sheets returns the sheet names in order
func (w *LedgerWorkbook) Sheets() []string {
	return w.f.GetSheetList()
}

// WriteTo serialises the workbook to out
func (w *LedgerWorkbook) WriteTo(out io.Writer) (int64, error) {
	if w.sheets == 0 {
		return 0, fmt.Errorf("workbook has no ledgers")
	}
	w.f.SetActiveSheet(0)
	return w.f.WriteTo(out)
}

// Close releases the workbook's temporary resources
func (w *LedgerWorkbook) Close() error {
	return w.f.Close()
}

// uniqueSheetName strips characters spreadsheets reject, truncates to the
// sheet name limit and disambiguates repeated names
func (w *LedgerWorkbook) uniqueSheetName(title string) string {
	base := strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return '-'
		}
		return r
	}, strings.TrimSpace(title))
	base = strings.Trim(base, "'")
	if base == "" {
		base = defaultSheetName
	}
	base = truncateRunes(base, maxSheetNameLen)

	key := strings.ToLower(base)
	n := w.names[key]
	w.names[key] = n + 1
	if n == 0 {
		return base
	}

	suffix := fmt.Sprintf(" (%d)", n+1)
	name := truncateRunes(base, maxSheetNameLen-utf8.RuneCountInString(suffix)) + suffix
	w.names[strings.ToLower(name)]++
	return name
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

// sheetWriter keeps the first error so the layout code stays linear
type sheetWriter struct {
	f      *excelize.File
	sheet  string
	styles workbookStyles
	row    int
	err    error
}

func (s *sheetWriter) writeLedger(l *ledger.Ledger) {
	s.row = 1
	s.setRow(1, []any{"Buyer", l.BuyerName})
	s.row++
	s.setRow(1, []any{"Buyer key", l.BuyerKey})
	s.row++
	s.setRow(1, []any{"Outstanding", FormatAmount(l.TotalRemainingBalance)})
	s.row += 2

	s.header(entryHeaders)
	for _, e := range l.Entries {
		s.setRow(1, []any{e.Date, string(e.Type), e.Description, amountCell(e.Debit), amountCell(e.Credit), e.Balance.InexactFloat64()})
		s.style("A", "A", s.styles.date)
		s.style("D", "F", s.styles.amount)
		s.row++
	}
	s.row++

	s.header(invoiceHeaders)
	for _, inv := range l.Invoices {
		s.setRow(1, []any{inv.InvoiceNumber, inv.InvoiceDate, inv.Total.InexactFloat64(), inv.Deposited.InexactFloat64(), inv.Remaining.InexactFloat64()})
		s.style("B", "B", s.styles.date)
		s.style("C", "E", s.styles.amount)
		s.row++
	}
	s.row++

	s.setRow(1, []any{"Total invoiced", l.TotalInvoiceAmount.InexactFloat64()})
	s.style("B", "B", s.styles.total)
	s.row++
	s.setRow(1, []any{"Total deposited", l.TotalDepositAmount.InexactFloat64()})
	s.style("B", "B", s.styles.total)
	s.row++
	s.setRow(1, []any{"Total remaining", l.TotalRemainingBalance.InexactFloat64()})
	s.style("B", "B", s.styles.total)
	s.row++

	if s.err == nil {
		s.err = s.f.SetColWidth(s.sheet, "A", "A", 16)
	}
	if s.err == nil {
		s.err = s.f.SetColWidth(s.sheet, "B", "F", 18)
	}
}

func (s *sheetWriter) header(values []any) {
	s.setRow(1, values)
	last, _ := excelize.ColumnNumberToName(len(values))
	s.style("A", last, s.styles.header)
	s.row++
}

// setRow writes values starting at column col of the current row
func (s *sheetWriter) setRow(col int, values []any) {
	if s.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(col, s.row)
	if err != nil {
		s.err = err
		return
	}
	s.err = s.f.SetSheetRow(s.sheet, cell, &values)
}

func (s *sheetWriter) style(from, to string, style int) {
	if s.err != nil {
		return
	}
	s.err = s.f.SetCellStyle(s.sheet, fmt.Sprintf("%s%d", from, s.row), fmt.Sprintf("%s%d", to, s.row), style)
}

// amountCell leaves the cell empty for the missing side of an entry
func amountCell(d *decimal.Decimal) any {
	if d == nil {
		return nil
	}
	return d.InexactFloat64()
}
