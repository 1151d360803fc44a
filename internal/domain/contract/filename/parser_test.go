package filename

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/contract-matcher/internal/domain/contract"
)

func TestParse(t *testing.T) {
	t.Run("three segments", func(t *testing.T) {
		pc, err := Parse("A-B-C.pdf")
		require.NoError(t, err)
		assert.Equal(t, "A", pc.Institution)
		assert.Equal(t, "B", pc.ContractType)
		assert.Equal(t, "C", pc.ContractNumber)
		assert.Equal(t, "A-B-C.pdf", pc.SourcePath)
	})

	t.Run("multi-segment contract type is re-joined", func(t *testing.T) {
		pc, err := Parse("A-B1-B2-C.pdf")
		require.NoError(t, err)
		assert.Equal(t, "A", pc.Institution)
		assert.Equal(t, "B1-B2", pc.ContractType)
		assert.Equal(t, "C", pc.ContractNumber)
	})

	t.Run("keeps full source path", func(t *testing.T) {
		pc, err := Parse("/data/in/南京银行-借款合同-2024001.pdf")
		require.NoError(t, err)
		assert.Equal(t, "南京银行", pc.Institution)
		assert.Equal(t, "借款合同", pc.ContractType)
		assert.Equal(t, "2024001", pc.ContractNumber)
		assert.Equal(t, "/data/in/南京银行-借款合同-2024001.pdf", pc.SourcePath)
	})

	t.Run("trims whitespace around segments", func(t *testing.T) {
		pc, err := Parse(" Bank1 - Loan - 1001 .pdf")
		require.NoError(t, err)
		assert.Equal(t, contract.Key{Institution: "Bank1", ContractType: "Loan"}, pc.Key())
		assert.Equal(t, "1001", pc.ContractNumber)
	})

	t.Run("extension is optional", func(t *testing.T) {
		pc, err := Parse("X-Loan-001")
		require.NoError(t, err)
		assert.Equal(t, "001", pc.ContractNumber)
	})
}

func TestParse_Unparsable(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		reason string
	}{
		{"single segment", "onlyonepart.pdf", "too few segments"},
		{"single letter", "A.pdf", "too few segments"},
		{"two segments", "A-B.pdf", "too few segments"},
		{"empty institution", "-B-C.pdf", "empty institution"},
		{"empty number", "A-B-.pdf", "empty contract number"},
		{"empty middle segment", "A--C.pdf", "empty segment"},
		{"blank middle segment", "A-B- -C.pdf", "empty segment"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pc, err := Parse(tt.input)
			require.Error(t, err)
			assert.Equal(t, contract.ParsedContract{}, pc)
			assert.True(t, errors.Is(err, contract.ErrMalformedFilename))

			var ue *UnparsableError
			require.ErrorAs(t, err, &ue)
			assert.Equal(t, tt.reason, ue.Reason)
		})
	}
}

func TestParser_CustomSeparator(t *testing.T) {
	p := NewParser("_")

	pc, err := p.Parse("Bank1_Loan_Guarantee_77.pdf")
	require.NoError(t, err)
	assert.Equal(t, "Loan_Guarantee", pc.ContractType)

	_, err = p.Parse("Bank1-Loan-77.pdf")
	assert.ErrorIs(t, err, contract.ErrMalformedFilename)
}

func TestParseAll(t *testing.T) {
	parsed, failures := ParseAll([]string{
		"/in/Bank1-Loan-1001.pdf",
		"/in/notes.pdf",
		"/in/Bank2-Loan-2002.pdf",
	})

	require.Len(t, parsed, 2)
	assert.Equal(t, "1001", parsed[0].ContractNumber)
	assert.Equal(t, "2002", parsed[1].ContractNumber)

	require.Len(t, failures, 1)
	assert.Equal(t, contract.ParseFailure{Filename: "notes.pdf", Reason: "too few segments"}, failures[0])
}
