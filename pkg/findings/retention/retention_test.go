package retention

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"mercator-hq/strictvalue/pkg/config"
	"mercator-hq/strictvalue/pkg/findings"
	"mercator-hq/strictvalue/pkg/findings/storage"
)

var now = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

func seed(t *testing.T, ages ...time.Duration) *storage.MemoryStorage {
	t.Helper()

	s := storage.NewMemoryStorage()
	for i, age := range ages {
		started := now.Add(-age)
		run := &findings.Run{
			ID:          string(rune('a' + i)),
			StartedAt:   started,
			CompletedAt: started,
			Status:      findings.RunStatusFindings,
			Findings: []*findings.Finding{{
				ID: "f" + string(rune('a'+i)), RunID: string(rune('a' + i)),
				Source: "a.css", Property: "color", Value: "red", RecordedAt: started,
			}},
		}
		if err := s.StoreRun(context.Background(), run); err != nil {
			t.Fatal(err)
		}
	}
	return s
}

func newPruner(s findings.Storage, cfg config.RetentionConfig) *Pruner {
	p := NewPruner(s, cfg)
	p.now = func() time.Time { return now }
	return p
}

func TestPruner_Prune(t *testing.T) {
	day := 24 * time.Hour

	tests := []struct {
		name        string
		ages        []time.Duration
		cfg         config.RetentionConfig
		wantDeleted int64
		wantLeft    []string
	}{
		{
			name:        "by age",
			ages:        []time.Duration{40 * day, 31 * day, 2 * day},
			cfg:         config.RetentionConfig{Days: 30},
			wantDeleted: 2,
			wantLeft:    []string{"c"},
		},
		{
			name:        "by count keeps newest",
			ages:        []time.Duration{3 * day, 2 * day, 1 * day},
			cfg:         config.RetentionConfig{MaxRuns: 1},
			wantDeleted: 2,
			wantLeft:    []string{"c"},
		},
		{
			name:        "age then count",
			ages:        []time.Duration{60 * day, 3 * day, 2 * day, 1 * day},
			cfg:         config.RetentionConfig{Days: 30, MaxRuns: 2},
			wantDeleted: 2,
			wantLeft:    []string{"d", "c"},
		},
		{
			name:     "nothing to prune",
			ages:     []time.Duration{day},
			cfg:      config.RetentionConfig{Days: 30, MaxRuns: 10},
			wantLeft: []string{"a"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := seed(t, tt.ages...)

			deleted, err := newPruner(s, tt.cfg).Prune(context.Background())
			if err != nil {
				t.Fatalf("Prune() error = %v", err)
			}
			if deleted != tt.wantDeleted {
				t.Errorf("deleted = %d, want %d", deleted, tt.wantDeleted)
			}

			runs, _ := s.ListRuns(context.Background(), &findings.RunQuery{})
			if len(runs) != len(tt.wantLeft) {
				t.Fatalf("left %d runs, want %d", len(runs), len(tt.wantLeft))
			}
			for i, run := range runs {
				if run.ID != tt.wantLeft[i] {
					t.Errorf("runs[%d] = %s, want %s", i, run.ID, tt.wantLeft[i])
				}
			}
		})
	}
}

func TestPruner_Archive(t *testing.T) {
	dir := t.TempDir()
	s := seed(t, 90*24*time.Hour, time.Hour)

	p := newPruner(s, config.RetentionConfig{Days: 30, ArchiveBeforeDelete: true, ArchivePath: dir})
	if _, err := p.Prune(context.Background()); err != nil {
		t.Fatal(err)
	}

	files, err := filepath.Glob(filepath.Join(dir, "findings-age-*.json"))
	if err != nil || len(files) != 1 {
		t.Fatalf("archive files = %v, %v", files, err)
	}
	data, err := os.ReadFile(files[0])
	if err != nil {
		t.Fatal(err)
	}
	if len(data) == 0 || data[0] != '[' {
		t.Errorf("archive content = %q", data)
	}
}

func TestScheduler(t *testing.T) {
	p := NewPruner(storage.NewMemoryStorage(), config.RetentionConfig{Days: 30, PruneSchedule: "0 3 * * *"})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := p.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if !p.scheduler.IsRunning() {
		t.Error("scheduler should be running")
	}

	next := p.NextPruning()
	if next == nil || next.Hour() != 3 || next.Minute() != 0 {
		t.Errorf("NextPruning() = %v", next)
	}

	p.Stop()
	if p.scheduler.IsRunning() {
		t.Error("scheduler should be stopped")
	}
}

func TestScheduler_Config(t *testing.T) {
	tests := []struct {
		name     string
		schedule string
		wantErr  bool
		running  bool
	}{
		{name: "empty schedule", schedule: ""},
		{name: "invalid", schedule: "every day", wantErr: true},
		{name: "hourly", schedule: "0 * * * *", running: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPruner(storage.NewMemoryStorage(), config.RetentionConfig{PruneSchedule: tt.schedule})
			err := p.Start(context.Background())
			if (err != nil) != tt.wantErr {
				t.Fatalf("Start() error = %v, wantErr %v", err, tt.wantErr)
			}
			if p.scheduler.IsRunning() != tt.running {
				t.Errorf("IsRunning() = %v, want %v", p.scheduler.IsRunning(), tt.running)
			}
			p.Stop()
		})
	}
}
