// Package testsupport builds ledger and PDF fixtures for tests.
package testsupport

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

// LedgerHeader is the header row of the standard contract ledger template,
// with an extra column that matching never touches.
var LedgerHeader = []string{"序号", "机构", "合同类型", "合同编号", "合同原件"}

// FillColor marks the styled cells WriteLedger plants in every data row.
const FillColor = "FFF2CC"

// WriteLedger writes an xlsx ledger with header and rows to path. Column A of every
// data row gets a solid fill so tests can check that styling survives a run.
func WriteLedger(t testing.TB, path string, header []string, rows [][]string) {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Sheet1"
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		t.Fatalf("write header: %v", err)
	}

	fill, err := f.NewStyle(&excelize.Style{
		Fill:   excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{FillColor}},
		Border: []excelize.Border{{Type: "bottom", Color: "000000", Style: 1}},
	})
	if err != nil {
		t.Fatalf("new style: %v", err)
	}

	for i, r := range rows {
		rowNum := i + 2
		values := r
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", rowNum), &values); err != nil {
			t.Fatalf("write row %d: %v", rowNum, err)
		}
		ref := fmt.Sprintf("A%d", rowNum)
		if err := f.SetCellStyle(sheet, ref, ref, fill); err != nil {
			t.Fatalf("style row %d: %v", rowNum, err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save %s: %v", path, err)
	}
}

// WritePDF writes a small file with recognisable content to dir/name and returns its path.
func WritePDF(t testing.TB, dir, name string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	content := []byte("%PDF-1.4\n% " + name + "\n%%EOF\n")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}
