package ledger

import (
	"fmt"
	"strings"

	"github.com/FACorreiaa/contract-matcher/internal/domain/contract"
)

// Columns names the four required header cells.
type Columns struct {
	Institution    string
	ContractType   string
	ContractNumber string
	Attachment     string
}

// DefaultColumns returns the header names used by the contract ledger template.
func DefaultColumns() Columns {
	return Columns{
		Institution:    "机构",
		ContractType:   "合同类型",
		ContractNumber: "合同编号",
		Attachment:     "合同原件",
	}
}

func (c Columns) withDefaults() Columns {
	d := DefaultColumns()
	if c.Institution == "" {
		c.Institution = d.Institution
	}
	if c.ContractType == "" {
		c.ContractType = d.ContractType
	}
	if c.ContractNumber == "" {
		c.ContractNumber = d.ContractNumber
	}
	if c.Attachment == "" {
		c.Attachment = d.Attachment
	}
	return c
}

// ColumnIndex holds the resolved 1-based column numbers.
type ColumnIndex struct {
	Institution    int
	ContractType   int
	ContractNumber int
	Attachment     int
}

// MissingColumnsError lists required header names absent from the ledger.
type MissingColumnsError struct {
	Missing []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("ledger is missing required columns: %s", strings.Join(e.Missing, ", "))
}

func (e *MissingColumnsError) Unwrap() error {
	return contract.ErrMissingRequiredColumn
}

// ResolveColumns maps header names to column numbers once. Every missing name is
// reported together so the caller can fix the ledger in one pass.
func ResolveColumns(header []string, names Columns) (ColumnIndex, error) {
	names = names.withDefaults()

	positions := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if _, dup := positions[h]; !dup {
			positions[h] = i + 1
		}
	}

	var missing []string
	find := func(name string) int {
		if pos, ok := positions[name]; ok {
			return pos
		}
		missing = append(missing, name)
		return 0
	}

	idx := ColumnIndex{
		Institution:    find(names.Institution),
		ContractType:   find(names.ContractType),
		ContractNumber: find(names.ContractNumber),
		Attachment:     find(names.Attachment),
	}
	if len(missing) > 0 {
		return ColumnIndex{}, &MissingColumnsError{Missing: missing}
	}
	return idx, nil
}
