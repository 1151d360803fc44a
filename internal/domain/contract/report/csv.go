// Package report flattens a run report into diagnostic records for export.
package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/gocarina/gocsv"

	"github.com/FACorreiaa/contract-matcher/internal/domain/contract"
)

// Diagnostic kinds, one per non-fatal error class plus skipped rows.
var (
	KindParseFailure = contract.ErrMalformedFilename.Error()
	KindCollision    = contract.ErrKeyCollision.Error()
	KindUnmatched    = contract.ErrUnmatchedRow.Error()
	KindCopyFailure  = contract.ErrAttachmentCopy.Error()
	KindSkipped      = "skipped row"
)

// Diagnostic is one exported line.
type Diagnostic struct {
	Kind         string `csv:"kind"`
	Row          string `csv:"row"`
	Institution  string `csv:"institution"`
	ContractType string `csv:"contract_type"`
	Filename     string `csv:"filename"`
	Detail       string `csv:"detail"`
}

// Diagnostics lists every itemised problem in the report: parse failures, collisions,
// unmatched rows, skipped rows, then copy failures.
func Diagnostics(r *contract.RunReport) []Diagnostic {
	var out []Diagnostic

	for _, f := range r.ParseFailures {
		out = append(out, Diagnostic{Kind: KindParseFailure, Filename: f.Filename, Detail: f.Reason})
	}
	for _, c := range r.Collisions {
		out = append(out, Diagnostic{
			Kind:         KindCollision,
			Institution:  c.Key.Institution,
			ContractType: c.Key.ContractType,
			Filename:     c.Kept,
			Detail:       fmt.Sprintf("replaced %s", c.Discarded),
		})
	}
	for _, u := range r.Unmatched {
		d := Diagnostic{
			Kind:         KindUnmatched,
			Row:          strconv.Itoa(u.Row),
			Institution:  u.Key.Institution,
			ContractType: u.Key.ContractType,
		}
		if len(u.Suggestions) > 0 {
			d.Detail = fmt.Sprintf("did you mean %v", u.Suggestions)
		}
		out = append(out, d)
	}
	for _, s := range r.Skipped {
		out = append(out, Diagnostic{Kind: KindSkipped, Row: strconv.Itoa(s.Row), Detail: s.Reason})
	}
	for _, f := range r.CopyFailures {
		out = append(out, Diagnostic{Kind: KindCopyFailure, Filename: f.Filename, Detail: f.Reason})
	}

	return out
}

// WriteCSV writes the report's diagnostics as CSV with a header line.
func WriteCSV(w io.Writer, r *contract.RunReport) error {
	rows := Diagnostics(r)
	if rows == nil {
		rows = []Diagnostic{}
	}
	if err := gocsv.Marshal(&rows, w); err != nil {
		return fmt.Errorf("failed to write diagnostics: %w", err)
	}
	return nil
}
