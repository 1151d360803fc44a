// Package contract holds the model shared by the contract matching engine:
// join keys, parsed attachments, ledger rows, match outcomes and the run report.
package contract

import (
	"strings"

	"github.com/google/uuid"
)

// NullMarker is the literal a spreadsheet export leaves behind for an empty cell.
const NullMarker = "nan"

// Key joins a PDF to a ledger row. Components are whitespace-trimmed and
// compared exactly (case-sensitive).
type Key struct {
	Institution  string `json:"institution"`
	ContractType string `json:"contract_type"`
}

// NewKey builds a Key from raw institution and contract type values.
func NewKey(institution, contractType string) Key {
	return Key{
		Institution:  strings.TrimSpace(institution),
		ContractType: strings.TrimSpace(contractType),
	}
}

// IsBlank reports whether either component is empty or the null marker.
func (k Key) IsBlank() bool {
	return isBlank(k.Institution) || isBlank(k.ContractType)
}

func (k Key) String() string {
	return k.Institution + "-" + k.ContractType
}

func isBlank(s string) bool {
	return s == "" || s == NullMarker
}

// ParsedContract is a PDF whose filename decomposed into a key and a contract number.
type ParsedContract struct {
	Institution    string `json:"institution"`
	ContractType   string `json:"contract_type"`
	ContractNumber string `json:"contract_number"`
	SourcePath     string `json:"source_path"`
}

// Key returns the join key of the parsed contract.
func (p ParsedContract) Key() Key {
	return NewKey(p.Institution, p.ContractType)
}

// AttachmentEntry describes one indexed PDF.
type AttachmentEntry struct {
	ContractNumber string
	SourcePath     string // absolute path of the source PDF
	Filename       string // original filename, also the name inside the bundle
	RelativePath   string // bundle-relative link target, e.g. "合同PDF附件/a.pdf"
}

// LedgerRow is one data row of the ledger. Ordinal is 1-based with the header excluded.
type LedgerRow struct {
	Ordinal        int
	Institution    string
	ContractType   string
	ContractNumber string
	Attachment     string
}

// Key returns the join key of the row.
func (r LedgerRow) Key() Key {
	return NewKey(r.Institution, r.ContractType)
}

// Outcome classifies a ledger row after matching.
type Outcome string

const (
	OutcomeMatched   Outcome = "matched"
	OutcomeUnmatched Outcome = "unmatched"
	OutcomeSkipped   Outcome = "skipped"
)

// MatchResult is the per-row outcome. Entry is set only for OutcomeMatched,
// Reason only for OutcomeSkipped.
type MatchResult struct {
	Row     int
	Key     Key
	Outcome Outcome
	Entry   *AttachmentEntry
	Reason  string
}

// Mutation is a write the ledger writer applies to one row.
type Mutation struct {
	Row   int
	Entry AttachmentEntry
}

// ParseFailure records a PDF whose name did not fit the expected pattern.
type ParseFailure struct {
	Filename string `json:"filename"`
	Reason   string `json:"reason"`
}

// Collision records two PDFs that resolved to the same key.
type Collision struct {
	Key       Key    `json:"key"`
	Kept      string `json:"kept"`
	Discarded string `json:"discarded"`
}

// UnmatchedRow is a ledger row whose key is absent from the index.
type UnmatchedRow struct {
	Row         int      `json:"row"`
	Key         Key      `json:"key"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// SkippedRow is a ledger row with a blank key.
type SkippedRow struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// CopyFailure records an attachment that could not be copied into the bundle.
type CopyFailure struct {
	Filename string `json:"filename"`
	Reason   string `json:"reason"`
}

// RunReport is the only value handed back to the presentation layer.
type RunReport struct {
	RunID               uuid.UUID      `json:"run_id"`
	TotalRows           int            `json:"total_rows"`
	MatchedCount        int            `json:"matched_count"`
	UnmatchedCount      int            `json:"unmatched_count"`
	SkippedCount        int            `json:"skipped_count"`
	AttachmentCopyCount int            `json:"attachment_copy_count"`
	ParseFailures       []ParseFailure `json:"parse_failures,omitempty"`
	Collisions          []Collision    `json:"collisions,omitempty"`
	Unmatched           []UnmatchedRow `json:"unmatched,omitempty"`
	Skipped             []SkippedRow   `json:"skipped,omitempty"`
	CopyFailures        []CopyFailure  `json:"copy_failures,omitempty"`
	LedgerPath          string         `json:"ledger_path,omitempty"`
	AttachmentDir       string         `json:"attachment_dir,omitempty"`
	Failure             string         `json:"failure,omitempty"`
}

// Failed reports whether the run ended with a fatal error.
func (r *RunReport) Failed() bool {
	return r.Failure != ""
}

// FailureReport returns a report describing only a fatal error.
func FailureReport(runID uuid.UUID, err error) *RunReport {
	return &RunReport{
		RunID:   runID,
		Failure: err.Error(),
	}
}
