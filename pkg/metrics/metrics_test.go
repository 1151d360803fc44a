package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/contract-matcher/internal/domain/contract"
)

func TestObserve(t *testing.T) {
	m := New()
	m.Observe(&contract.RunReport{
		TotalRows:           3,
		MatchedCount:        2,
		UnmatchedCount:      1,
		AttachmentCopyCount: 2,
		ParseFailures:       []contract.ParseFailure{{Filename: "x.pdf"}},
	})
	m.Observe(contract.FailureReport(uuid.Nil, errors.New("boom")))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.runs.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.runs.WithLabelValues("failed")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.rows.WithLabelValues("matched")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.rows.WithLabelValues("unmatched")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.parseFailures))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.copied))
}

func TestWriteTextfile(t *testing.T) {
	m := New()
	m.Observe(&contract.RunReport{MatchedCount: 1, AttachmentCopyCount: 1})

	path := filepath.Join(t.TempDir(), "contract_matcher.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `contract_matcher_ledger_rows_total{outcome="matched"} 1`)
	assert.Contains(t, string(data), "contract_matcher_attachments_copied_total 1")
}

func TestRegistry(t *testing.T) {
	m := New()
	m.Observe(&contract.RunReport{TotalRows: 2, MatchedCount: 1, SkippedCount: 1})

	n, err := testutil.GatherAndCount(m.Registry(), "contract_matcher_runs_total", "contract_matcher_ledger_rows_total")
	require.NoError(t, err)
	assert.Equal(t, 4, n, "one run series plus three row outcome series")
}
