// Package ledger reads contract rows from a spreadsheet ledger and writes matched
// contract numbers and attachment links back into it without disturbing any other cell.
package ledger

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/FACorreiaa/contract-matcher/internal/domain/contract"
)

// Workbook is an in-memory copy of the ledger. The source file is never written;
// changes only reach disk through SaveAs.
type Workbook struct {
	file       *excelize.File
	sheet      string
	cols       ColumnIndex
	rows       [][]string
	linkStyles map[int]int // original style id -> hyperlink variant
}

// Open loads the ledger at path and resolves the required columns on the active sheet.
// A missing column fails here, before any row is read or mutated.
func Open(path string, names Columns) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger: %w", err)
	}

	w, err := newWorkbook(f, names)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return w, nil
}

func newWorkbook(f *excelize.File, names Columns) (*Workbook, error) {
	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	if sheet == "" {
		return nil, fmt.Errorf("ledger has no active sheet")
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}

	var header []string
	if len(rows) > 0 {
		header = rows[0]
	}
	cols, err := ResolveColumns(header, names)
	if err != nil {
		return nil, err
	}

	return &Workbook{
		file:       f,
		sheet:      sheet,
		cols:       cols,
		rows:       rows,
		linkStyles: make(map[int]int),
	}, nil
}

// Sheet returns the name of the sheet being matched.
func (w *Workbook) Sheet() string {
	return w.sheet
}

// Columns returns the resolved column numbers.
func (w *Workbook) Columns() ColumnIndex {
	return w.cols
}

// Rows returns every data row below the header. Ordinals are 1-based.
func (w *Workbook) Rows() []contract.LedgerRow {
	if len(w.rows) <= 1 {
		return nil
	}

	out := make([]contract.LedgerRow, 0, len(w.rows)-1)
	for i := 1; i < len(w.rows); i++ {
		r := w.rows[i]
		get := func(col int) string {
			if col-1 < len(r) {
				return r[col-1]
			}
			return ""
		}
		out = append(out, contract.LedgerRow{
			Ordinal:        i,
			Institution:    get(w.cols.Institution),
			ContractType:   get(w.cols.ContractType),
			ContractNumber: get(w.cols.ContractNumber),
			Attachment:     get(w.cols.Attachment),
		})
	}
	return out
}

// SaveAs writes the workbook, including applied mutations, to path.
func (w *Workbook) SaveAs(path string) error {
	if err := w.file.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save ledger: %w", err)
	}
	return nil
}

// Close releases the workbook.
func (w *Workbook) Close() error {
	return w.file.Close()
}

// cell converts a row ordinal and column number to a cell reference; the header
// occupies sheet row 1.
func cell(ordinal, col int) (string, error) {
	return excelize.CoordinatesToCellName(col, ordinal+1)
}
