package storage

import (
	"context"
	"sync"

	"mercator-hq/strictvalue/pkg/findings"
)

// MemoryStorage keeps runs in memory. It backs tests and lint runs that do
// not need persistence.
type MemoryStorage struct {
	runs map[string]*findings.Run
	mu   sync.RWMutex
}

// NewMemoryStorage creates an empty in-memory store.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		runs: make(map[string]*findings.Run),
	}
}

// StoreRun stores a deep copy of run.
func (s *MemoryStorage) StoreRun(ctx context.Context, run *findings.Run) error {
	if err := ctx.Err(); err != nil {
		return findings.NewStorageError("memory", "store", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.runs[run.ID] = copyRun(run, true)
	return nil
}

// GetRun returns a copy of the run with its findings.
func (s *MemoryStorage) GetRun(ctx context.Context, id string) (*findings.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := s.runs[id]
	if !ok {
		return nil, findings.ErrRunNotFound
	}
	return copyRun(run, true), nil
}

// ListRuns returns matching runs without findings.
func (s *MemoryStorage) ListRuns(ctx context.Context, query *findings.RunQuery) ([]*findings.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := []*findings.Run{}
	for _, run := range s.runs {
		if matchesRun(run, query) {
			results = append(results, copyRun(run, false))
		}
	}

	sortRuns(results, query.SortOrder)
	return paginate(results, query.Offset, query.Limit), nil
}

// CountRuns returns the number of matching runs.
func (s *MemoryStorage) CountRuns(ctx context.Context, query *findings.RunQuery) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int64
	for _, run := range s.runs {
		if matchesRun(run, query) {
			count++
		}
	}
	return count, nil
}

// DeleteRuns removes matching runs.
func (s *MemoryStorage) DeleteRuns(ctx context.Context, query *findings.RunQuery) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var deleted int64
	for id, run := range s.runs {
		if matchesRun(run, query) {
			delete(s.runs, id)
			deleted++
		}
	}
	return deleted, nil
}

// QueryFindings returns matching findings.
func (s *MemoryStorage) QueryFindings(ctx context.Context, query *findings.Query) ([]*findings.Finding, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := s.collect(query)
	return paginate(results, query.Offset, query.Limit), nil
}

// QueryFindingsStream streams matching findings.
func (s *MemoryStorage) QueryFindingsStream(ctx context.Context, query *findings.Query) (<-chan *findings.Finding, <-chan error, error) {
	findingsCh := make(chan *findings.Finding, 100)
	errCh := make(chan error, 1)

	s.mu.RLock()
	results := paginate(s.collect(query), query.Offset, query.Limit)
	s.mu.RUnlock()

	go func() {
		defer close(findingsCh)
		defer close(errCh)

		for _, f := range results {
			select {
			case <-ctx.Done():
				errCh <- ctx.Err()
				return
			case findingsCh <- f:
			}
		}
	}()

	return findingsCh, errCh, nil
}

// CountFindings returns the number of matching findings.
func (s *MemoryStorage) CountFindings(ctx context.Context, query *findings.Query) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int64
	for _, run := range s.runs {
		for _, f := range run.Findings {
			if matchesFinding(f, query) {
				count++
			}
		}
	}
	return count, nil
}

// Ping always succeeds.
func (s *MemoryStorage) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Close is a no-op.
func (s *MemoryStorage) Close() error {
	return nil
}

// collect returns sorted copies of matching findings. Callers hold the lock.
func (s *MemoryStorage) collect(query *findings.Query) []*findings.Finding {
	results := []*findings.Finding{}
	for _, run := range s.runs {
		for _, f := range run.Findings {
			if matchesFinding(f, query) {
				copied := *f
				copied.EligibleTypes = append([]string(nil), f.EligibleTypes...)
				results = append(results, &copied)
			}
		}
	}

	sortFindings(results, query.SortBy, query.SortOrder)
	return results
}

func copyRun(run *findings.Run, withFindings bool) *findings.Run {
	copied := *run
	copied.Inputs = append([]string(nil), run.Inputs...)
	copied.Rules = append([]string(nil), run.Rules...)
	copied.Findings = nil

	if withFindings {
		for _, f := range run.Findings {
			fc := *f
			fc.EligibleTypes = append([]string(nil), f.EligibleTypes...)
			copied.Findings = append(copied.Findings, &fc)
		}
	}
	return &copied
}
