// Package service orchestrates a matching run: parse → index → match → write, then,
// once the caller has reviewed the statistics, bundle.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/contract-matcher/internal/domain/contract"
	"github.com/FACorreiaa/contract-matcher/internal/domain/contract/filename"
	"github.com/FACorreiaa/contract-matcher/internal/domain/contract/index"
	"github.com/FACorreiaa/contract-matcher/internal/domain/contract/ledger"
	"github.com/FACorreiaa/contract-matcher/internal/domain/contract/matcher"
	"github.com/FACorreiaa/contract-matcher/pkg/storage"
)

const tracerName = "github.com/FACorreiaa/contract-matcher/internal/domain/contract/service"

// RunConfig is everything one run depends on.
type RunConfig struct {
	LedgerPath       string
	PDFPaths         []string
	DestinationPath  string
	Columns          ledger.Columns
	AttachmentFolder string
	CollisionPolicy  index.CollisionPolicy
}

// Validate checks the inputs Prepare needs.
func (c RunConfig) Validate() error {
	if c.LedgerPath == "" {
		return errors.New("ledger path is required")
	}
	if c.AttachmentFolder != "" && c.AttachmentFolder != filepath.Base(c.AttachmentFolder) {
		return fmt.Errorf("attachment folder %q must be a plain name", c.AttachmentFolder)
	}
	if _, err := index.ParseCollisionPolicy(string(c.CollisionPolicy)); err != nil {
		return err
	}
	return nil
}

func (c RunConfig) folder() string {
	if c.AttachmentFolder == "" {
		return index.DefaultFolderName
	}
	return c.AttachmentFolder
}

// Observer receives every finished report.
type Observer interface {
	Observe(r *contract.RunReport)
}

// MatchService runs contract matching. It keeps no state between runs.
type MatchService struct {
	logger   *slog.Logger
	observer Observer // Optional: nil if metrics are not collected
	tracer   trace.Tracer
}

// NewMatchService creates a new match service
func NewMatchService(logger *slog.Logger) *MatchService {
	if logger == nil {
		logger = slog.Default()
	}
	return &MatchService{
		logger: logger,
		tracer: otel.Tracer(tracerName),
	}
}

// WithObserver adds a report observer, typically run metrics.
func (s *MatchService) WithObserver(o Observer) *MatchService {
	s.observer = o
	return s
}

// Prepare parses, indexes, matches and writes the updated ledger into a private
// workspace. The returned Run must be closed. On error nothing is left on disk.
func (s *MatchService) Prepare(ctx context.Context, cfg RunConfig) (*Run, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	runID := uuid.New()
	log := s.logger.With(slog.String("run_id", runID.String()))
	ctx, span := s.tracer.Start(ctx, "contract.prepare", trace.WithAttributes(
		attribute.String("run.id", runID.String()),
		attribute.Int("pdf.count", len(cfg.PDFPaths)),
	))
	defer span.End()

	run, err := s.prepare(ctx, log, runID, cfg)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return run, nil
}

func (s *MatchService) prepare(ctx context.Context, log *slog.Logger, runID uuid.UUID, cfg RunConfig) (*Run, error) {
	_, span := s.tracer.Start(ctx, "contract.parse")
	parsed, parseFailures := filename.ParseAll(cfg.PDFPaths)
	span.SetAttributes(attribute.Int("parsed", len(parsed)), attribute.Int("failed", len(parseFailures)))
	span.End()
	for _, f := range parseFailures {
		log.WarnContext(ctx, "cannot parse pdf filename", slog.String("file", f.Filename), slog.String("reason", f.Reason))
	}

	_, span = s.tracer.Start(ctx, "contract.index")
	idx, collisions := index.Build(parsed, index.Options{FolderName: cfg.folder(), Policy: cfg.CollisionPolicy})
	span.SetAttributes(attribute.Int("keys", idx.Len()), attribute.Int("collisions", len(collisions)))
	span.End()
	for _, c := range collisions {
		log.WarnContext(ctx, "duplicate contract key",
			slog.String("key", c.Key.String()),
			slog.String("kept", c.Kept),
			slog.String("discarded", c.Discarded),
		)
	}
	log.InfoContext(ctx, "attachments indexed", slog.Int("parsed", len(parsed)), slog.Int("keys", idx.Len()))

	wb, err := ledger.Open(cfg.LedgerPath, cfg.Columns)
	if err != nil {
		return nil, err
	}
	defer wb.Close()

	rows := wb.Rows()
	cols := wb.Columns()
	log.InfoContext(ctx, "ledger loaded",
		slog.String("sheet", wb.Sheet()),
		slog.Int("rows", len(rows)),
		slog.Group("columns",
			slog.Int("institution", cols.Institution),
			slog.Int("contract_type", cols.ContractType),
			slog.Int("contract_number", cols.ContractNumber),
			slog.Int("attachment", cols.Attachment),
		),
	)

	_, span = s.tracer.Start(ctx, "contract.match")
	outcome := matcher.Match(rows, idx)
	span.SetAttributes(
		attribute.Int("matched", outcome.Report.MatchedCount),
		attribute.Int("unmatched", outcome.Report.UnmatchedCount),
		attribute.Int("skipped", outcome.Report.SkippedCount),
	)
	span.End()
	for _, u := range outcome.Report.Unmatched {
		log.DebugContext(ctx, "row not matched", slog.Int("row", u.Row), slog.String("key", u.Key.String()))
	}

	ws, err := storage.NewWorkspace(runID)
	if err != nil {
		return nil, err
	}

	_, span = s.tracer.Start(ctx, "contract.write")
	workingLedger := ws.Path("ledger" + strings.ToLower(filepath.Ext(cfg.LedgerPath)))
	err = wb.Apply(outcome.Mutations)
	if err == nil {
		err = wb.SaveAs(workingLedger)
	}
	span.End()
	if err != nil {
		ws.Close()
		return nil, err
	}

	report := outcome.Report
	report.RunID = runID
	report.ParseFailures = parseFailures
	report.Collisions = collisions

	log.InfoContext(ctx, "ledger matched",
		slog.Int("total", report.TotalRows),
		slog.Int("matched", report.MatchedCount),
		slog.Int("unmatched", report.UnmatchedCount),
		slog.Int("skipped", report.SkippedCount),
	)

	return &Run{
		service:       s,
		log:           log,
		cfg:           cfg,
		workspace:     ws,
		workingLedger: workingLedger,
		attachments:   matchedEntries(outcome.Mutations),
		mutations:     outcome.Mutations,
		results:       outcome.Results,
		report:        report,
	}, nil
}

// Execute runs every stage against cfg.DestinationPath. It always returns a report;
// on a fatal error the report describes only the failure.
func (s *MatchService) Execute(ctx context.Context, cfg RunConfig) (*contract.RunReport, error) {
	run, err := s.Prepare(ctx, cfg)
	if err != nil {
		report := contract.FailureReport(uuid.New(), err)
		s.observe(report)
		return report, err
	}
	defer run.Close()

	return run.Bundle(ctx, cfg.DestinationPath)
}

func (s *MatchService) observe(r *contract.RunReport) {
	if s.observer != nil {
		s.observer.Observe(r)
	}
}

// matchedEntries returns each matched attachment once, in row order.
func matchedEntries(mutations []contract.Mutation) []contract.AttachmentEntry {
	seen := make(map[string]bool, len(mutations))
	out := make([]contract.AttachmentEntry, 0, len(mutations))
	for _, m := range mutations {
		if seen[m.Entry.Filename] {
			continue
		}
		seen[m.Entry.Filename] = true
		out = append(out, m.Entry)
	}
	return out
}
