// Package pipeline runs the LinkedIn analytics import: list inbound
// exports, classify each by filename, parse and enrich its rows, persist
// them, and archive the file. Files are processed strictly one at a time;
// a file either lands completely or stays in the inbound folder for the
// next run.
package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ignite/linkedin-analytics-etl/internal/linkedin"
	"github.com/ignite/linkedin-analytics-etl/internal/notify"
	"github.com/ignite/linkedin-analytics-etl/internal/pkg/logger"
	"github.com/ignite/linkedin-analytics-etl/internal/queue"
	"github.com/ignite/linkedin-analytics-etl/internal/status"
	"github.com/ignite/linkedin-analytics-etl/internal/store"
)

// FileQueue is the inbound/archive surface the pipeline drives.
type FileQueue interface {
	List(ctx context.Context) ([]queue.ReportFile, error)
	Fetch(ctx context.Context, key string) (string, error)
	Archive(ctx context.Context, file queue.ReportFile, category string, sequence int) error
	PutSummary(ctx context.Context, key string, body []byte) error
}

// Notifier sends run emails; *notify.Notifier satisfies it.
type Notifier interface {
	SendRunSummary(ctx context.Context, summary notify.RunSummary) error
	SendFailure(ctx context.Context, runID string, runErr error) error
}

// Options wires the pipeline's collaborators. Mirror, Notifier, and
// Status may be nil.
type Options struct {
	Queue    FileQueue
	Store    store.TabularStore
	Mirror   store.TabularStore
	Notifier Notifier
	Status   *status.Server

	MaxBatchFiles int
	TimeBudget    time.Duration
	SummaryPrefix string

	// Now is the clock, overridable in tests.
	Now func() time.Time
}

// Pipeline is the batch importer.
type Pipeline struct {
	opts       Options
	classifier *linkedin.Classifier
	archiveSeq int
}

// RunResult tallies one run.
type RunResult struct {
	RunID       string             `json:"run_id"`
	StartedAt   time.Time          `json:"started_at"`
	Elapsed     time.Duration      `json:"elapsed"`
	Success     bool               `json:"success"`
	Processed   int                `json:"processed"`
	Skipped     int                `json:"skipped"`
	Failed      int                `json:"failed"`
	RowsWritten int                `json:"rows_written"`
	PerCategory map[string]int     `json:"per_category"`
	Errors      []notify.FileError `json:"errors,omitempty"`
}

// New builds a pipeline.
func New(opts Options) *Pipeline {
	if opts.MaxBatchFiles <= 0 {
		opts.MaxBatchFiles = 50
	}
	if opts.TimeBudget <= 0 {
		opts.TimeBudget = 270 * time.Second
	}
	if opts.Now == nil {
		opts.Now = func() time.Time { return time.Now().UTC() }
	}
	if opts.SummaryPrefix == "" {
		opts.SummaryPrefix = "processed/runs/"
	}
	return &Pipeline{opts: opts, classifier: linkedin.NewClassifier()}
}

// Run executes one batch and reports the outcome. A listing failure is
// the only error returned; per-file failures are tallied and left in the
// inbound folder for the next run.
func (p *Pipeline) Run(ctx context.Context) (RunResult, error) {
	start := p.opts.Now()
	result := RunResult{
		RunID:       "run-" + start.Format("20060102-150405"),
		StartedAt:   start,
		PerCategory: map[string]int{},
	}

	if p.opts.Status != nil {
		p.opts.Status.SetRunning(true)
		defer p.publishStatus(&result)
	}

	files, err := p.opts.Queue.List(ctx)
	if err != nil {
		result.Elapsed = p.opts.Now().Sub(start)
		p.notifyFailure(result.RunID, err)
		return result, fmt.Errorf("failed to list inbound files: %w", err)
	}
	if len(files) > p.opts.MaxBatchFiles {
		logger.Info("batch capped", "inbound", len(files), "cap", p.opts.MaxBatchFiles)
		files = files[:p.opts.MaxBatchFiles]
	}

	deadline := start.Add(p.opts.TimeBudget)
	for _, file := range files {
		if p.opts.Now().After(deadline) {
			logger.Warn("time budget exhausted, remaining files stay queued",
				"remaining", len(files)-result.Processed-result.Skipped-result.Failed)
			break
		}
		p.processFile(ctx, file, &result)
	}

	result.Success = result.Failed == 0
	result.Elapsed = p.opts.Now().Sub(start)

	p.writeSummary(ctx, result)
	p.notifySummary(result)

	logger.Info("run complete",
		"run_id", result.RunID, "processed", result.Processed,
		"skipped", result.Skipped, "failed", result.Failed,
		"rows", result.RowsWritten, "elapsed", result.Elapsed.String())
	return result, nil
}

// errUnknownType marks files no classifier pattern recognized.
var errUnknownType = errors.New("unrecognized report type")

func (p *Pipeline) processFile(ctx context.Context, file queue.ReportFile, result *RunResult) {
	reportType := p.classifier.Classify(file.Name)
	logger.Info("processing file", "name", file.Name, "type", string(reportType))

	rows, err := p.ingest(ctx, file, reportType, result.RunID)
	switch {
	case errors.Is(err, errUnknownType):
		// Archive unrecognized files too; retrying them forever helps
		// nobody, and the archive keeps them inspectable.
		result.Skipped++
		p.logImport(ctx, result.RunID, file, reportType, 0, store.StatusSkipped, err.Error())
		p.archive(ctx, file, "unrecognized", result)
	case err != nil:
		result.Failed++
		result.Errors = append(result.Errors, notify.FileError{File: file.Name, Reason: err.Error()})
		logger.Error("file failed", "name", file.Name, "error", err.Error())
		p.logImport(ctx, result.RunID, file, reportType, 0, store.StatusFailed, err.Error())
	default:
		result.Processed++
		result.RowsWritten += rows
		result.PerCategory[string(reportType)]++
		p.logImport(ctx, result.RunID, file, reportType, rows, store.StatusImported, "")
		p.archive(ctx, file, string(reportType), result)
	}
}

// ingest parses and persists one file, returning rows written.
func (p *Pipeline) ingest(ctx context.Context, file queue.ReportFile, reportType linkedin.ReportType, runID string) (int, error) {
	if reportType == linkedin.TypeUnknown {
		return 0, errUnknownType
	}

	content, err := p.opts.Queue.Fetch(ctx, file.Key)
	if err != nil {
		return 0, err
	}

	period := linkedin.ExtractPeriodAt(file.Name, p.opts.Now())
	if !period.Detected {
		logger.Warn("no date in filename, using run date", "name", file.Name)
	}

	if reportType == linkedin.TypeDemographicsReport {
		return p.ingestDemographics(ctx, file, content, period, runID)
	}

	dest, err := linkedin.DestinationFor(reportType)
	if err != nil {
		return 0, err
	}

	rows, err := linkedin.Tokenize(content, dest.DelimiterHint)
	if err != nil {
		return 0, err
	}

	headerIdx := 0
	if dest.LocateHeader {
		headerIdx = linkedin.LocateHeaderRow(rows, dest.HeaderKeywords)
	}

	table := linkedin.Objectify(rows, headerIdx)
	if len(table.Records) == 0 {
		return 0, fmt.Errorf("no data records after header row %d", headerIdx)
	}

	linkedin.EnrichTable(table, linkedin.EnrichOptions{
		Period:      period,
		ProcessedAt: p.opts.Now(),
		DateColumns: dest.DateColumns,
	})

	return p.persist(ctx, file, reportType, dest, table, runID)
}

// ingestDemographics splits a bundled export into sections and persists
// each to its own table. An unregistered section label fails the whole
// file so new LinkedIn segments never vanish silently.
func (p *Pipeline) ingestDemographics(ctx context.Context, file queue.ReportFile, content string, period linkedin.PeriodInfo, runID string) (int, error) {
	sections := linkedin.ParseDemographicsSections(content)
	if len(sections) == 0 {
		return 0, errors.New("no demographics sections found")
	}

	total := 0
	for _, section := range sections {
		dest, err := linkedin.SectionDestination(section.Type)
		if err != nil {
			return 0, err
		}

		table := &linkedin.Table{Headers: section.Headers, Records: section.Records}
		linkedin.EnrichTable(table, linkedin.EnrichOptions{
			Period:      period,
			ProcessedAt: p.opts.Now(),
		})

		n, err := p.persist(ctx, file, linkedin.TypeDemographicsReport, dest, table, runID)
		if err != nil {
			return 0, fmt.Errorf("section %s: %w", section.Type, err)
		}
		total += n
	}
	return total, nil
}

func (p *Pipeline) persist(ctx context.Context, file queue.ReportFile, reportType linkedin.ReportType, dest linkedin.Destination, table *linkedin.Table, runID string) (int, error) {
	dateColumn := ""
	if len(dest.DateColumns) > 0 {
		dateColumn = dest.DateColumns[0]
	}
	batch := store.Batch{
		Table:      dest.Table,
		Mode:       dest.Mode,
		Headers:    table.Headers,
		Records:    table.Records,
		RunID:      runID,
		SourceFile: file.Name,
		ReportType: string(reportType),
		DateColumn: dateColumn,
	}

	n, err := p.opts.Store.Write(ctx, batch)
	if err != nil {
		return 0, err
	}

	if p.opts.Mirror != nil {
		if _, err := p.opts.Mirror.Write(ctx, batch); err != nil {
			logger.Warn("mirror write failed", "table", dest.Table, "error", err.Error())
		}
	}
	return n, nil
}

func (p *Pipeline) archive(ctx context.Context, file queue.ReportFile, category string, result *RunResult) {
	p.archiveSeq++
	if err := p.opts.Queue.Archive(ctx, file, category, p.archiveSeq); err != nil {
		// The data is already stored; an archive failure means the file
		// will be re-imported next run, which append tables will notice
		// in the ledger.
		logger.Error("archive failed", "name", file.Name, "error", err.Error())
		result.Errors = append(result.Errors, notify.FileError{
			File: file.Name, Reason: "archive failed: " + err.Error(),
		})
	}
}

func (p *Pipeline) logImport(ctx context.Context, runID string, file queue.ReportFile, reportType linkedin.ReportType, rows int, statusName, errMsg string) {
	err := p.opts.Store.LogImport(ctx, store.ImportLogEntry{
		RunID:      runID,
		SourceFile: file.Name,
		ReportType: string(reportType),
		Rows:       rows,
		Status:     statusName,
		Error:      errMsg,
	})
	if err != nil {
		logger.Warn("import ledger write failed", "file", file.Name, "error", err.Error())
	}
}

func (p *Pipeline) writeSummary(ctx context.Context, result RunResult) {
	body, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		logger.Error("failed to marshal run summary", "error", err.Error())
		return
	}
	key := p.opts.SummaryPrefix + result.RunID + ".json"
	if err := p.opts.Queue.PutSummary(ctx, key, body); err != nil {
		logger.Warn("failed to store run summary", "key", key, "error", err.Error())
	}
}

// notifySummary fires the email without blocking the run; delivery
// problems are logged, never propagated.
func (p *Pipeline) notifySummary(result RunResult) {
	if p.opts.Notifier == nil {
		return
	}
	summary := notify.RunSummary{
		RunID:       result.RunID,
		StartedAt:   result.StartedAt,
		Elapsed:     result.Elapsed,
		Processed:   result.Processed,
		Skipped:     result.Skipped,
		Failed:      result.Failed,
		PerCategory: result.PerCategory,
		Errors:      result.Errors,
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := p.opts.Notifier.SendRunSummary(ctx, summary); err != nil {
			logger.Warn("summary email failed", "error", err.Error())
		}
	}()
}

func (p *Pipeline) notifyFailure(runID string, runErr error) {
	if p.opts.Notifier == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := p.opts.Notifier.SendFailure(ctx, runID, runErr); err != nil {
			logger.Warn("failure email failed", "error", err.Error())
		}
	}()
}

func (p *Pipeline) publishStatus(result *RunResult) {
	p.opts.Status.RecordRun(status.RunStatus{
		RunID:       result.RunID,
		StartedAt:   result.StartedAt,
		FinishedAt:  result.StartedAt.Add(result.Elapsed),
		Success:     result.Success,
		Processed:   result.Processed,
		Skipped:     result.Skipped,
		Failed:      result.Failed,
		PerCategory: result.PerCategory,
	})
}
