package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/FACorreiaa/contract-matcher/internal/domain/contract"
	"github.com/FACorreiaa/contract-matcher/internal/domain/contract/index"
	"github.com/FACorreiaa/contract-matcher/internal/domain/contract/ledger"
	"github.com/FACorreiaa/contract-matcher/internal/domain/contract/report"
	"github.com/FACorreiaa/contract-matcher/internal/domain/contract/service"
	"github.com/FACorreiaa/contract-matcher/pkg/config"
	"github.com/FACorreiaa/contract-matcher/pkg/metrics"
)

type runOptions struct {
	ledgerPath      string
	outPath         string
	dryRun          bool
	yes             bool
	open            bool
	jsonOut         bool
	reportCSV       string
	metricsTextfile string
	attachmentsDir  string
	collision       string
}

func newRunCommand(ctx *commandContext) *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run --ledger <ledger.xlsx> --out <output.xlsx> <pdf or dir>...",
		Short: "Match PDFs to ledger rows and write the linked ledger with its attachments",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			return runMatch(cmd, ctx, cfg, opts, args)
		},
	}

	cmd.Flags().StringVar(&opts.ledgerPath, "ledger", "", "Ledger spreadsheet to match (required)")
	cmd.Flags().StringVar(&opts.outPath, "out", "", "Where to write the updated ledger")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Report match statistics without writing anything")
	cmd.Flags().BoolVarP(&opts.yes, "yes", "y", false, "Skip the confirmation prompt")
	cmd.Flags().BoolVar(&opts.open, "open", false, "Open the output folder when done")
	cmd.Flags().BoolVar(&opts.jsonOut, "json", false, "Output the run report as JSON")
	cmd.Flags().StringVar(&opts.reportCSV, "report-csv", "", "Write diagnostics as CSV to this path")
	cmd.Flags().StringVar(&opts.metricsTextfile, "metrics-textfile", "", "Write Prometheus metrics to this path")
	cmd.Flags().StringVar(&opts.attachmentsDir, "attachments-dir", "", "Name of the attachment folder beside the output ledger")
	cmd.Flags().StringVar(&opts.collision, "collision", "", "Which PDF wins a duplicate key: first or last")
	_ = cmd.MarkFlagRequired("ledger")

	return cmd
}

func (o runOptions) runConfig(cfg *config.Config, pdfs []string) (service.RunConfig, error) {
	policyName := cfg.Matching.CollisionPolicy
	if o.collision != "" {
		policyName = o.collision
	}
	policy, err := index.ParseCollisionPolicy(policyName)
	if err != nil {
		return service.RunConfig{}, err
	}

	folder := cfg.Matching.AttachmentDir
	if o.attachmentsDir != "" {
		folder = o.attachmentsDir
	}

	return service.RunConfig{
		LedgerPath:      o.ledgerPath,
		PDFPaths:        pdfs,
		DestinationPath: o.outPath,
		Columns: ledger.Columns{
			Institution:    cfg.Columns.Institution,
			ContractType:   cfg.Columns.ContractType,
			ContractNumber: cfg.Columns.ContractNumber,
			Attachment:     cfg.Columns.Attachment,
		},
		AttachmentFolder: folder,
		CollisionPolicy:  policy,
	}, nil
}

func runMatch(cmd *cobra.Command, ctx *commandContext, cfg *config.Config, opts runOptions, args []string) error {
	if !opts.dryRun && strings.TrimSpace(opts.outPath) == "" {
		return errors.New("--out is required unless --dry-run is set")
	}
	if opts.metricsTextfile == "" {
		opts.metricsTextfile = cfg.Metrics.Textfile
	}

	pdfs, err := expandInputs(args)
	if err != nil {
		return err
	}
	if len(pdfs) == 0 {
		return errors.New("no PDF files given: pass PDF files or directories containing them")
	}
	runCfg, err := opts.runConfig(cfg, pdfs)
	if err != nil {
		return err
	}

	log := ctx.logger(cmd.ErrOrStderr())
	runMetrics := metrics.New()
	svc := service.NewMatchService(log).WithObserver(runMetrics)

	run, err := svc.Prepare(cmd.Context(), runCfg)
	if err != nil {
		failed := contract.FailureReport(uuid.New(), err)
		runMetrics.Observe(failed)
		if outErr := emitReport(cmd, opts, failed, runMetrics); outErr != nil {
			log.Error("failed to write run outputs", "error", outErr)
		}
		return err
	}
	defer run.Close()

	if opts.dryRun {
		if err := run.Close(); err != nil {
			return err
		}
		return emitReport(cmd, opts, run.Report(), runMetrics)
	}

	if !opts.yes && !opts.jsonOut && isTerminal(cmd.InOrStdin()) {
		renderReport(cmd.OutOrStdout(), run.Report())
		ok, err := confirm(cmd.InOrStdin(), cmd.OutOrStdout(), fmt.Sprintf("Write %s and its attachments?", runCfg.DestinationPath))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(cmd.OutOrStdout(), "Aborted, nothing written.")
			return run.Close()
		}
	}

	final, bundleErr := run.Bundle(cmd.Context(), runCfg.DestinationPath)
	if err := emitReport(cmd, opts, final, runMetrics); err != nil {
		return errors.Join(bundleErr, err)
	}
	if bundleErr != nil {
		return bundleErr
	}

	if opts.open {
		if err := openPath(final.AttachmentDir); err != nil {
			log.Warn("could not open output folder", "error", err)
		}
	}
	return nil
}

func emitReport(cmd *cobra.Command, opts runOptions, r *contract.RunReport, m *metrics.RunMetrics) error {
	if opts.jsonOut {
		if err := writeJSON(cmd.OutOrStdout(), r); err != nil {
			return err
		}
	} else {
		renderReport(cmd.OutOrStdout(), r)
	}

	if opts.reportCSV != "" {
		f, err := os.Create(opts.reportCSV)
		if err != nil {
			return fmt.Errorf("create report csv: %w", err)
		}
		if err := report.WriteCSV(f, r); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
	}

	if opts.metricsTextfile != "" {
		if err := m.WriteTextfile(opts.metricsTextfile); err != nil {
			return err
		}
	}
	return nil
}
