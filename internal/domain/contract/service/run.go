package service

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/FACorreiaa/contract-matcher/internal/domain/contract"
	"github.com/FACorreiaa/contract-matcher/internal/domain/contract/bundle"
	"github.com/FACorreiaa/contract-matcher/pkg/storage"
)

var (
	// ErrRunClosed is returned when bundling a run whose workspace is gone.
	ErrRunClosed = errors.New("run already closed")
	// ErrRunBundled is returned when bundling a run a second time.
	ErrRunBundled = errors.New("run already bundled")
)

// Run is a prepared, not yet delivered, matching run. Its workspace holds the
// updated ledger until Close.
type Run struct {
	service       *MatchService
	log           *slog.Logger
	cfg           RunConfig
	workspace     *storage.Workspace
	workingLedger string
	attachments   []contract.AttachmentEntry
	mutations     []contract.Mutation
	results       []contract.MatchResult
	report        contract.RunReport
	bundled       bool
	closed        bool
}

// Report returns the match statistics gathered so far.
func (r *Run) Report() *contract.RunReport {
	rep := r.report
	return &rep
}

// Results returns the per-row outcomes in ledger order.
func (r *Run) Results() []contract.MatchResult {
	return r.results
}

// Mutations returns the writes applied to the working ledger.
func (r *Run) Mutations() []contract.Mutation {
	return r.mutations
}

// Attachments returns the matched entries the bundle will copy.
func (r *Run) Attachments() []contract.AttachmentEntry {
	return r.attachments
}

// Bundle delivers the updated ledger to destinationPath with the matched attachments
// beside it. A run is bundled at most once. It always returns a report; a fatal error yields a report holding only the
// failure and the enumerated attachments that were not delivered.
func (r *Run) Bundle(ctx context.Context, destinationPath string) (*contract.RunReport, error) {
	if r.closed {
		return contract.FailureReport(r.report.RunID, ErrRunClosed), ErrRunClosed
	}
	if r.bundled {
		return contract.FailureReport(r.report.RunID, ErrRunBundled), ErrRunBundled
	}
	r.bundled = true

	ctx, span := r.service.tracer.Start(ctx, "contract.bundle")
	defer span.End()

	b := bundle.New(r.cfg.folder(), r.log)
	res, err := b.Bundle(ctx, r.workingLedger, r.attachments, destinationPath)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		r.log.ErrorContext(ctx, "bundle failed", slog.Any("error", err))

		report := contract.FailureReport(r.report.RunID, err)
		report.CopyFailures = res.Failures
		r.service.observe(report)
		return report, err
	}

	report := r.report
	report.AttachmentCopyCount = res.Copied
	report.CopyFailures = res.Failures
	report.LedgerPath = res.LedgerPath
	report.AttachmentDir = res.AttachmentDir
	span.SetAttributes(attribute.Int("copied", res.Copied), attribute.Int("failed", len(res.Failures)))

	r.service.observe(&report)
	return &report, nil
}

// Close removes the workspace. A run that was never bundled has its match report
// recorded here. Safe to call more than once.
func (r *Run) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	if !r.bundled {
		r.service.observe(r.Report())
	}
	return r.workspace.Close()
}
