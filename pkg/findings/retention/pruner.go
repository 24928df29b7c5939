package retention

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"mercator-hq/strictvalue/pkg/config"
	"mercator-hq/strictvalue/pkg/findings"
	"mercator-hq/strictvalue/pkg/findings/export"
)

// Pruner enforces the retention policy on stored runs.
type Pruner struct {
	storage   findings.Storage
	config    config.RetentionConfig
	logger    *slog.Logger
	scheduler *Scheduler
	now       func() time.Time
}

// NewPruner creates a pruner for storage.
func NewPruner(storage findings.Storage, cfg config.RetentionConfig) *Pruner {
	p := &Pruner{
		storage: storage,
		config:  cfg,
		logger:  slog.Default().With("component", "findings.retention"),
		now:     time.Now,
	}
	p.scheduler = NewScheduler(p)
	return p
}

// Prune deletes runs older than the retention period, then the oldest runs
// beyond MaxRuns. It returns the number of runs deleted.
func (p *Pruner) Prune(ctx context.Context) (int64, error) {
	var total int64

	if p.config.Days > 0 {
		deleted, err := p.pruneByAge(ctx)
		if err != nil {
			return total, fmt.Errorf("prune by age failed: %w", err)
		}
		total += deleted
	}

	if p.config.MaxRuns > 0 {
		deleted, err := p.pruneByCount(ctx)
		if err != nil {
			return total, fmt.Errorf("prune by count failed: %w", err)
		}
		total += deleted
	}

	if total > 0 {
		p.logger.Info("findings pruning completed",
			"deleted_runs", total,
			"retention_days", p.config.Days,
			"max_runs", p.config.MaxRuns,
		)
	} else {
		p.logger.Debug("no runs pruned",
			"retention_days", p.config.Days,
			"max_runs", p.config.MaxRuns,
		)
	}

	return total, nil
}

func (p *Pruner) pruneByAge(ctx context.Context) (int64, error) {
	cutoff := p.now().AddDate(0, 0, -p.config.Days)
	query := &findings.RunQuery{EndTime: &cutoff}

	if p.config.ArchiveBeforeDelete {
		runs, err := p.storage.ListRuns(ctx, query)
		if err != nil {
			return 0, findings.NewRetentionError(p.config.Days, err)
		}
		if err := p.archive(ctx, runs, "age"); err != nil {
			return 0, findings.NewRetentionError(p.config.Days, err)
		}
	}

	deleted, err := p.storage.DeleteRuns(ctx, query)
	if err != nil {
		return 0, findings.NewRetentionError(p.config.Days, err)
	}
	return deleted, nil
}

func (p *Pruner) pruneByCount(ctx context.Context) (int64, error) {
	count, err := p.storage.CountRuns(ctx, &findings.RunQuery{})
	if err != nil {
		return 0, fmt.Errorf("failed to count runs: %w", err)
	}
	if count <= p.config.MaxRuns {
		return 0, nil
	}

	// Oldest runs beyond the cap.
	excess := count - p.config.MaxRuns
	runs, err := p.storage.ListRuns(ctx, &findings.RunQuery{SortOrder: "asc", Limit: int(excess)})
	if err != nil {
		return 0, fmt.Errorf("failed to list runs: %w", err)
	}
	if len(runs) == 0 {
		return 0, nil
	}

	p.logger.Info("run count exceeds limit, pruning oldest",
		"current_count", count,
		"max_runs", p.config.MaxRuns,
		"to_delete", len(runs),
	)

	if p.config.ArchiveBeforeDelete {
		if err := p.archive(ctx, runs, "count"); err != nil {
			return 0, fmt.Errorf("archive failed: %w", err)
		}
	}

	ids := make([]string, len(runs))
	for i, run := range runs {
		ids[i] = run.ID
	}

	deleted, err := p.storage.DeleteRuns(ctx, &findings.RunQuery{IDs: ids})
	if err != nil {
		return 0, fmt.Errorf("delete failed: %w", err)
	}
	return deleted, nil
}

// archive exports the findings of runs to a timestamped JSON file.
func (p *Pruner) archive(ctx context.Context, runs []*findings.Run, reason string) error {
	var all []*findings.Finding
	for _, run := range runs {
		fs, err := p.storage.QueryFindings(ctx, &findings.Query{RunID: run.ID, SortOrder: "asc"})
		if err != nil {
			return fmt.Errorf("failed to query findings for archiving: %w", err)
		}
		all = append(all, fs...)
	}
	if len(all) == 0 {
		return nil
	}

	if err := os.MkdirAll(p.config.ArchivePath, 0o755); err != nil {
		return fmt.Errorf("failed to create archive directory: %w", err)
	}

	name := fmt.Sprintf("findings-%s-%s.json", reason, p.now().UTC().Format("2006-01-02-150405"))
	path := filepath.Join(p.config.ArchivePath, name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create archive file: %w", err)
	}
	defer f.Close()

	if err := export.NewJSONExporter(true).Export(ctx, all, f); err != nil {
		return fmt.Errorf("failed to export findings to archive: %w", err)
	}

	p.logger.Info("findings archived",
		"archive_file", path,
		"finding_count", len(all),
		"run_count", len(runs),
	)
	return nil
}

// Start starts the cron scheduler.
func (p *Pruner) Start(ctx context.Context) error {
	return p.scheduler.Start(ctx)
}

// Stop stops the cron scheduler.
func (p *Pruner) Stop() {
	p.scheduler.Stop()
}

// NextPruning returns the next scheduled pruning time, or nil.
func (p *Pruner) NextPruning() *time.Time {
	return p.scheduler.NextRun()
}
