package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"

	"github.com/FACorreiaa/contract-matcher/internal/domain/contract"
	"github.com/FACorreiaa/contract-matcher/internal/domain/contract/report"
)

func renderReport(w io.Writer, r *contract.RunReport) {
	if r.Failed() {
		fmt.Fprintf(w, "Run %s failed: %s\n", r.RunID, r.Failure)
		if len(r.CopyFailures) > 0 {
			fmt.Fprintf(w, "%d attachment(s) were not delivered\n", len(r.CopyFailures))
		}
		return
	}

	rows := [][]string{
		{"Ledger rows", strconv.Itoa(r.TotalRows)},
		{"Matched", strconv.Itoa(r.MatchedCount)},
		{"Unmatched", strconv.Itoa(r.UnmatchedCount)},
		{"Skipped", strconv.Itoa(r.SkippedCount)},
		{"Unparsable PDFs", strconv.Itoa(len(r.ParseFailures))},
		{"Key collisions", strconv.Itoa(len(r.Collisions))},
		{"Attachments copied", strconv.Itoa(r.AttachmentCopyCount)},
	}
	fmt.Fprintln(w, renderTable("Run "+r.RunID.String(), []string{"Stage", "Count"}, rows, []columnAlignment{alignLeft, alignRight}))

	if r.LedgerPath != "" {
		fmt.Fprintf(w, "Ledger:      %s\n", r.LedgerPath)
		fmt.Fprintf(w, "Attachments: %s\n", r.AttachmentDir)
	}

	diags := report.Diagnostics(r)
	if len(diags) == 0 {
		return
	}
	drows := make([][]string, 0, len(diags))
	for _, d := range diags {
		key := ""
		if d.Institution != "" || d.ContractType != "" {
			key = contract.Key{Institution: d.Institution, ContractType: d.ContractType}.String()
		}
		drows = append(drows, []string{d.Kind, d.Row, key, d.Filename, d.Detail})
	}
	fmt.Fprintln(w, renderTable(
		"Diagnostics",
		[]string{"Kind", "Row", "Key", "File", "Detail"},
		drows,
		[]columnAlignment{alignLeft, alignRight},
	))
}

func renderParsed(w io.Writer, parsed []contract.ParsedContract, failures []contract.ParseFailure) {
	rows := make([][]string, 0, len(parsed)+len(failures))
	for _, p := range parsed {
		rows = append(rows, []string{filepath.Base(p.SourcePath), p.Institution, p.ContractType, p.ContractNumber, ""})
	}
	for _, f := range failures {
		rows = append(rows, []string{f.Filename, "", "", "", f.Reason})
	}
	fmt.Fprintln(w, renderTable("", []string{"File", "Institution", "Type", "Number", "Error"}, rows, nil))
}
