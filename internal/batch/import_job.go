package batch

import (
	"context"
	"fmt"
	"loan-eligibility/internal/config"
	"loan-eligibility/internal/importer"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

const defaultImportTimeout = 10 * time.Minute

type ImportRunner interface {
	ImportDir(ctx context.Context, dir string) (*importer.Result, error)
}

// ImportJob runs the spreadsheet import. Overlapping runs are skipped.
type ImportJob struct {
	runner  ImportRunner
	dataDir string
	logger  *slog.Logger

	mu      sync.Mutex
	running bool
}

func NewImportJob(runner ImportRunner, dataDir string, logger *slog.Logger) *ImportJob {
	if runner == nil || logger == nil {
		panic("ImportJob dependencies cannot be nil")
	}
	return &ImportJob{
		runner:  runner,
		dataDir: dataDir,
		logger:  logger.With("job", "SpreadsheetImport"),
	}
}

func (j *ImportJob) Run(ctx context.Context) (*importer.Result, error) {
	if !j.begin() {
		j.logger.WarnContext(ctx, "Previous import still running, skipping this run.")
		return nil, nil
	}
	defer j.end()

	startTime := time.Now()
	j.logger.InfoContext(ctx, "Starting spreadsheet import job.", slog.String("dataDir", j.dataDir))

	result, err := j.runner.ImportDir(ctx, j.dataDir)
	if err != nil {
		j.logger.ErrorContext(ctx, "Spreadsheet import failed.", slog.Any("error", err), slog.Duration("duration", time.Since(startTime)))
		return nil, fmt.Errorf("import from %s failed: %w", j.dataDir, err)
	}

	j.logger.InfoContext(ctx, "Spreadsheet import job finished.",
		slog.Duration("duration", time.Since(startTime)),
		slog.Int("customers_created", result.CustomersCreated),
		slog.Int("loans_created", result.LoansCreated),
	)
	return result, nil
}

func (j *ImportJob) begin() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.running {
		return false
	}
	j.running = true
	return true
}

func (j *ImportJob) end() {
	j.mu.Lock()
	j.running = false
	j.mu.Unlock()
}

// StartScheduler starts a cron scheduler and registers the import job on
// cfg.Schedule. With no schedule the scheduler runs with no entries.
func StartScheduler(cfg config.ImportConfig, job *ImportJob, logger *slog.Logger) (*cron.Cron, error) {
	logger.Info("Initializing batch job scheduler...")
	c := cron.New()

	if cfg.Schedule == "" {
		logger.Info("Import schedule not configured, periodic import disabled.")
		c.Start()
		return c, nil
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultImportTimeout
	}

	jobID, err := c.AddJob(cfg.Schedule, cron.FuncJob(func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if _, runErr := job.Run(ctx); runErr != nil {
			logger.Error("Scheduled import finished with error", slog.Any("error", runErr))
		}
	}))
	if err != nil {
		return nil, fmt.Errorf("invalid import schedule %q: %w", cfg.Schedule, err)
	}

	logger.Info("Scheduled spreadsheet import job", "schedule", cfg.Schedule, "job_id", jobID)
	c.Start()
	return c, nil
}
