// Package matcher joins ledger rows against the attachment index.
// Matching is a pure function of its inputs; it performs no I/O.
package matcher

import (
	"github.com/FACorreiaa/contract-matcher/internal/domain/contract"
)

// Lookup is the read side of the attachment index.
type Lookup interface {
	Lookup(key contract.Key) (contract.AttachmentEntry, bool)
	Keys() []contract.Key
}

// Outcome is everything Match produces for one ledger.
type Outcome struct {
	Results   []contract.MatchResult
	Mutations []contract.Mutation
	Report    contract.RunReport
}

// Match classifies rows in ledger order. Rows with a blank key are skipped and
// kept out of both the matched and unmatched tallies.
func Match(rows []contract.LedgerRow, idx Lookup) Outcome {
	out := Outcome{
		Results: make([]contract.MatchResult, 0, len(rows)),
	}
	suggester := newSuggester(idx.Keys())

	for _, row := range rows {
		res := Classify(row, idx)
		out.Results = append(out.Results, res)
		out.Report.TotalRows++

		switch res.Outcome {
		case contract.OutcomeMatched:
			out.Report.MatchedCount++
			out.Mutations = append(out.Mutations, contract.Mutation{Row: row.Ordinal, Entry: *res.Entry})
		case contract.OutcomeUnmatched:
			out.Report.UnmatchedCount++
			out.Report.Unmatched = append(out.Report.Unmatched, contract.UnmatchedRow{
				Row:         row.Ordinal,
				Key:         res.Key,
				Suggestions: suggester.suggest(res.Key),
			})
		case contract.OutcomeSkipped:
			out.Report.SkippedCount++
			out.Report.Skipped = append(out.Report.Skipped, contract.SkippedRow{Row: row.Ordinal, Reason: res.Reason})
		}
	}

	return out
}

// Classify decides the outcome of a single row.
func Classify(row contract.LedgerRow, idx Lookup) contract.MatchResult {
	key := row.Key()
	res := contract.MatchResult{Row: row.Ordinal, Key: key}

	if key.IsBlank() {
		res.Outcome = contract.OutcomeSkipped
		res.Reason = "blank institution or contract type"
		return res
	}

	entry, ok := idx.Lookup(key)
	if !ok {
		res.Outcome = contract.OutcomeUnmatched
		return res
	}

	res.Outcome = contract.OutcomeMatched
	res.Entry = &entry
	return res
}
