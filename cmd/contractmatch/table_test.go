package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderTable(t *testing.T) {
	out := renderTable("Run", []string{"Stage", "Count"}, [][]string{{"Matched", "7"}, {"Skipped"}}, []columnAlignment{alignLeft, alignRight})

	assert.Contains(t, out, "Run")
	assert.Contains(t, out, "│     7 │", "counts are right aligned")
	assert.Equal(t, 2, strings.Count(out, "Skipped")+strings.Count(out, "Matched"))

	assert.Empty(t, renderTable("ignored", nil, [][]string{{"x"}}, nil))
	assert.NotContains(t, renderTable("", []string{"File"}, nil, nil), "ignored")
}

func TestWriteJSON_KeepsFilenamesReadable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeJSON(&buf, map[string]string{"filename": "A&B-Loan-<1>.pdf"}))
	assert.Contains(t, buf.String(), `"A&B-Loan-<1>.pdf"`)
}
