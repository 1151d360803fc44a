// Package bundle materialises the deliverable: the updated ledger plus a sibling
// folder holding copies of the matched PDFs, laid out so the ledger's relative links resolve.
package bundle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/FACorreiaa/contract-matcher/internal/domain/contract"
	"github.com/FACorreiaa/contract-matcher/internal/domain/contract/index"
	"github.com/FACorreiaa/contract-matcher/pkg/storage"
)

// Result describes what landed at the destination.
type Result struct {
	LedgerPath    string
	AttachmentDir string
	Copied        int
	Failures      []contract.CopyFailure
}

// Bundler copies a mutated ledger and its attachments to a destination.
type Bundler struct {
	folderName string
	logger     *slog.Logger
}

// New creates a bundler writing attachments into folderName next to the destination ledger.
// folderName must match the prefix used for the ledger's relative links.
func New(folderName string, logger *slog.Logger) *Bundler {
	if folderName == "" {
		folderName = index.DefaultFolderName
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Bundler{folderName: folderName, logger: logger}
}

// Bundle copies mutatedLedgerPath to destinationLedgerPath and every entry's PDF into the
// attachment folder. If the destination cannot take the ledger nothing is left behind
// and every entry is reported as a failure. A single PDF that fails to copy is recorded
// and the rest continue. Re-running with the same inputs overwrites the previous output.
func (b *Bundler) Bundle(ctx context.Context, mutatedLedgerPath string, entries []contract.AttachmentEntry, destinationLedgerPath string) (*Result, error) {
	dest, err := filepath.Abs(destinationLedgerPath)
	if err != nil {
		return b.unavailable(entries, err)
	}
	destDir := filepath.Dir(dest)
	attachDir := filepath.Join(destDir, b.folderName)

	if err := storage.EnsureWritableDir(destDir); err != nil {
		return b.unavailable(entries, err)
	}

	_, statErr := os.Stat(attachDir)
	created := errors.Is(statErr, os.ErrNotExist)
	if err := os.MkdirAll(attachDir, 0o755); err != nil {
		return b.unavailable(entries, fmt.Errorf("failed to create attachment folder: %w", err))
	}

	if _, err := storage.CopyFile(mutatedLedgerPath, dest); err != nil {
		if created {
			os.Remove(attachDir)
		}
		return b.unavailable(entries, fmt.Errorf("failed to write ledger: %w", err))
	}

	res := &Result{
		LedgerPath:    dest,
		AttachmentDir: attachDir,
	}
	for _, e := range entries {
		target := filepath.Join(attachDir, e.Filename)
		if _, err := storage.CopyFile(e.SourcePath, target); err != nil {
			b.logger.WarnContext(ctx, "attachment copy failed",
				slog.String("file", e.Filename),
				slog.Any("error", err),
			)
			res.Failures = append(res.Failures, contract.CopyFailure{
				Filename: e.Filename,
				Reason:   fmt.Errorf("%w: %w", contract.ErrAttachmentCopy, err).Error(),
			})
			continue
		}
		res.Copied++
	}

	b.logger.InfoContext(ctx, "bundle written",
		slog.String("ledger", dest),
		slog.String("attachments", attachDir),
		slog.Int("copied", res.Copied),
		slog.Int("failed", len(res.Failures)),
	)
	return res, nil
}

func (b *Bundler) unavailable(entries []contract.AttachmentEntry, cause error) (*Result, error) {
	err := fmt.Errorf("%w: %w", contract.ErrDestinationUnavailable, cause)
	res := &Result{Failures: make([]contract.CopyFailure, 0, len(entries))}
	for _, e := range entries {
		res.Failures = append(res.Failures, contract.CopyFailure{Filename: e.Filename, Reason: err.Error()})
	}
	return res, err
}
