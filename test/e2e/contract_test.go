// Package e2etest provides end-to-end tests for contract matching runs.
package e2etest

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/FACorreiaa/contract-matcher/internal/domain/contract"
	"github.com/FACorreiaa/contract-matcher/internal/domain/contract/index"
	"github.com/FACorreiaa/contract-matcher/internal/domain/contract/report"
	"github.com/FACorreiaa/contract-matcher/internal/domain/contract/service"
	"github.com/FACorreiaa/contract-matcher/internal/testsupport"
	"github.com/FACorreiaa/contract-matcher/pkg/metrics"
)

func newService(m *metrics.RunMetrics) *service.MatchService {
	return service.NewMatchService(slog.New(slog.NewTextHandler(io.Discard, nil))).WithObserver(m)
}

// TestThreeRowLedger walks the reference scenario: two of three rows have a PDF.
func TestThreeRowLedger(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()

	ledgerPath := filepath.Join(in, "合同台账.xlsx")
	testsupport.WriteLedger(t, ledgerPath, testsupport.LedgerHeader, [][]string{
		{"1", "Bank1", "Loan", "", ""},
		{"2", "Bank1", "Guarantee", "", ""},
		{"3", "Bank2", "Loan", "", ""},
	})
	pdfs := []string{
		testsupport.WritePDF(t, in, "Bank1-Loan-1001.pdf"),
		testsupport.WritePDF(t, in, "Bank2-Loan-2002.pdf"),
	}
	dest := filepath.Join(out, "合同台账.xlsx")

	m := metrics.New()
	r, err := newService(m).Execute(context.Background(), service.RunConfig{
		LedgerPath:      ledgerPath,
		PDFPaths:        pdfs,
		DestinationPath: dest,
	})
	require.NoError(t, err)

	t.Run("Report", func(t *testing.T) {
		assert.Equal(t, 3, r.TotalRows)
		assert.Equal(t, 2, r.MatchedCount)
		assert.Equal(t, 1, r.UnmatchedCount)
		assert.Equal(t, 2, r.AttachmentCopyCount)
		require.Len(t, r.Unmatched, 1)
		assert.Equal(t, contract.Key{Institution: "Bank1", ContractType: "Guarantee"}, r.Unmatched[0].Key)
	})

	t.Run("Ledger", func(t *testing.T) {
		f, err := excelize.OpenFile(dest)
		require.NoError(t, err)
		defer f.Close()

		get := func(ref string) string {
			v, err := f.GetCellValue("Sheet1", ref)
			require.NoError(t, err)
			return v
		}
		assert.Equal(t, "1001", get("D2"))
		assert.Equal(t, "2002", get("D4"))
		assert.Empty(t, get("D3"))
		assert.Empty(t, get("E3"))

		for ref, target := range map[string]string{
			"E2": "合同PDF附件/Bank1-Loan-1001.pdf",
			"E4": "合同PDF附件/Bank2-Loan-2002.pdf",
		} {
			ok, link, err := f.GetCellHyperLink("Sheet1", ref)
			require.NoError(t, err)
			assert.True(t, ok, ref)
			assert.Equal(t, target, link)
			assert.FileExists(t, filepath.Join(out, filepath.FromSlash(link)), "link %s resolves inside the bundle", ref)
		}
	})

	t.Run("Attachments", func(t *testing.T) {
		for _, src := range pdfs {
			want, err := os.ReadFile(src)
			require.NoError(t, err)
			got, err := os.ReadFile(filepath.Join(out, index.DefaultFolderName, filepath.Base(src)))
			require.NoError(t, err)
			assert.True(t, bytes.Equal(want, got), "attachment %s is byte identical", filepath.Base(src))
		}
	})

	t.Run("SourceUntouched", func(t *testing.T) {
		f, err := excelize.OpenFile(ledgerPath)
		require.NoError(t, err)
		defer f.Close()
		v, err := f.GetCellValue("Sheet1", "D2")
		require.NoError(t, err)
		assert.Empty(t, v)
	})

	t.Run("Rerun", func(t *testing.T) {
		again, err := newService(m).Execute(context.Background(), service.RunConfig{
			LedgerPath:      ledgerPath,
			PDFPaths:        pdfs,
			DestinationPath: dest,
		})
		require.NoError(t, err)
		assert.Equal(t, r.MatchedCount, again.MatchedCount)
		entries, err := os.ReadDir(filepath.Join(out, index.DefaultFolderName))
		require.NoError(t, err)
		assert.Len(t, entries, 2)
	})
}

// TestGeneratedLedger checks the tally invariant on a larger generated ledger.
func TestGeneratedLedger(t *testing.T) {
	faker := gofakeit.New(7)
	in := t.TempDir()

	institutions := []string{"Bank1", "Bank2", "Bank3", "Trust1"}
	types := []string{"Loan", "Guarantee", "Lease", "Credit-Line"}

	var rows [][]string
	var pdfs []string
	for i := 1; i <= 60; i++ {
		inst := institutions[faker.Number(0, len(institutions)-1)]
		typ := types[faker.Number(0, len(types)-1)]
		if i%13 == 0 {
			inst = contract.NullMarker
		}
		rows = append(rows, []string{faker.Numerify("###"), inst, typ, "", ""})
		if faker.Bool() {
			pdfs = append(pdfs, testsupport.WritePDF(t, in, inst+"-"+typ+"-"+faker.Numerify("####")+".pdf"))
		}
	}
	ledgerPath := filepath.Join(in, "ledger.xlsx")
	testsupport.WriteLedger(t, ledgerPath, testsupport.LedgerHeader, rows)

	r, err := newService(metrics.New()).Execute(context.Background(), service.RunConfig{
		LedgerPath:      ledgerPath,
		PDFPaths:        pdfs,
		DestinationPath: filepath.Join(t.TempDir(), "out.xlsx"),
	})
	require.NoError(t, err)

	assert.Equal(t, r.TotalRows, r.MatchedCount+r.UnmatchedCount+r.SkippedCount)
	assert.GreaterOrEqual(t, r.SkippedCount, 4)
	assert.LessOrEqual(t, r.AttachmentCopyCount, len(pdfs))

	var buf bytes.Buffer
	require.NoError(t, report.WriteCSV(&buf, r))
	assert.Contains(t, buf.String(), "kind,row,institution,contract_type,filename,detail")
}
