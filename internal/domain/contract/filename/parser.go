// Package filename decomposes contract PDF filenames of the form
// <institution>-<contract type>-<contract number>.pdf into a join key and a contract number.
package filename

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/FACorreiaa/contract-matcher/internal/domain/contract"
)

// DefaultSeparator splits filename segments.
const DefaultSeparator = "-"

const minSegments = 3

// UnparsableError reports a filename that does not fit the expected pattern.
type UnparsableError struct {
	Filename string
	Reason   string
}

func (e *UnparsableError) Error() string {
	return fmt.Sprintf("cannot parse %q: %s", e.Filename, e.Reason)
}

func (e *UnparsableError) Unwrap() error {
	return contract.ErrMalformedFilename
}

// Parser splits filenames on a single separator.
type Parser struct {
	sep string
}

// NewParser creates a parser for the given separator; an empty separator selects the default.
func NewParser(sep string) *Parser {
	if sep == "" {
		sep = DefaultSeparator
	}
	return &Parser{sep: sep}
}

var defaultParser = NewParser(DefaultSeparator)

// Parse decomposes a file path or bare filename with the default separator.
func Parse(path string) (contract.ParsedContract, error) {
	return defaultParser.Parse(path)
}

// ParseAll parses every path, keeping input order for both results and failures.
func ParseAll(paths []string) ([]contract.ParsedContract, []contract.ParseFailure) {
	return defaultParser.ParseAll(paths)
}

// Parse decomposes path. The first segment is the institution, the last the contract
// number; everything in between is re-joined into the contract type.
func (p *Parser) Parse(path string) (contract.ParsedContract, error) {
	name := filepath.Base(path)
	stem := strings.TrimSuffix(name, filepath.Ext(name))

	parts := strings.Split(stem, p.sep)
	if len(parts) < minSegments {
		return contract.ParsedContract{}, &UnparsableError{Filename: name, Reason: "too few segments"}
	}

	for _, part := range parts[1 : len(parts)-1] {
		if strings.TrimSpace(part) == "" {
			return contract.ParsedContract{}, &UnparsableError{Filename: name, Reason: "empty segment"}
		}
	}

	institution := strings.TrimSpace(parts[0])
	contractType := strings.TrimSpace(strings.Join(parts[1:len(parts)-1], p.sep))
	number := strings.TrimSpace(parts[len(parts)-1])

	switch {
	case institution == "":
		return contract.ParsedContract{}, &UnparsableError{Filename: name, Reason: "empty institution"}
	case number == "":
		return contract.ParsedContract{}, &UnparsableError{Filename: name, Reason: "empty contract number"}
	}

	return contract.ParsedContract{
		Institution:    institution,
		ContractType:   contractType,
		ContractNumber: number,
		SourcePath:     path,
	}, nil
}

// ParseAll parses every path, keeping input order for both results and failures.
func (p *Parser) ParseAll(paths []string) ([]contract.ParsedContract, []contract.ParseFailure) {
	parsed := make([]contract.ParsedContract, 0, len(paths))
	var failures []contract.ParseFailure

	for _, path := range paths {
		pc, err := p.Parse(path)
		if err != nil {
			reason := err.Error()
			var ue *UnparsableError
			if errors.As(err, &ue) {
				reason = ue.Reason
			}
			failures = append(failures, contract.ParseFailure{
				Filename: filepath.Base(path),
				Reason:   reason,
			})
			continue
		}
		parsed = append(parsed, pc)
	}

	return parsed, failures
}
