package findings

import (
	"context"
	"io"
	"time"
)

// Run statuses.
const (
	RunStatusClean    = "clean"
	RunStatusFindings = "findings"
	RunStatusError    = "error"
)

// Run is one persisted lint run and the findings it produced.
type Run struct {
	// Identity
	ID string `json:"id"` // UUID v4

	// Timestamps
	StartedAt   time.Time `json:"started_at"`
	CompletedAt time.Time `json:"completed_at"`

	// Inputs
	ConfigPath   string   `json:"config_path,omitempty"`
	Inputs       []string `json:"inputs"`
	Rules        []string `json:"rules"`
	Declarations int      `json:"declarations"`
	FixMode      bool     `json:"fix_mode"`

	// Outcome
	Status       string `json:"status"`
	Error        string `json:"error,omitempty"`
	FindingCount int    `json:"finding_count"`

	// Findings is populated by GetRun and left empty by ListRuns.
	Findings []*Finding `json:"findings,omitempty"`
}

// Duration returns how long the run took.
func (r *Run) Duration() time.Duration {
	return r.CompletedAt.Sub(r.StartedAt)
}

// Finding is one persisted rejected declaration value.
type Finding struct {
	ID          string `json:"id"`          // UUID v4
	RunID       string `json:"run_id"`      // Owning run
	Fingerprint string `json:"fingerprint"` // Stable across runs, see Fingerprint

	Rule     string `json:"rule"`
	Source   string `json:"source"`
	Property string `json:"property"`
	Value    string `json:"value"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`

	Severity      string   `json:"severity"`
	Message       string   `json:"message"`
	EligibleTypes []string `json:"eligible_types"`

	// Set when the rejected value came from an expanded shorthand.
	Longhand      string `json:"longhand,omitempty"`
	LonghandValue string `json:"longhand_value,omitempty"`

	Fixed      string `json:"fixed,omitempty"`
	FixApplied bool   `json:"fix_applied"`

	RecordedAt time.Time `json:"recorded_at"`
}

// Query filters findings.
type Query struct {
	// Time range over RecordedAt, both inclusive
	StartTime *time.Time `json:"start_time,omitempty"`
	EndTime   *time.Time `json:"end_time,omitempty"`

	// Filters
	RunID       string `json:"run_id,omitempty"`
	Rule        string `json:"rule,omitempty"`
	Source      string `json:"source,omitempty"`
	Property    string `json:"property,omitempty"`
	Severity    string `json:"severity,omitempty"`
	Fingerprint string `json:"fingerprint,omitempty"`

	// Pagination
	Limit  int `json:"limit,omitempty"`
	Offset int `json:"offset,omitempty"`

	// Sorting
	SortBy    string `json:"sort_by,omitempty"`    // "recorded_at", "source", "property", "severity", "rule", "line"
	SortOrder string `json:"sort_order,omitempty"` // "asc", "desc"
}

// RunQuery filters runs.
type RunQuery struct {
	// IDs selects specific runs.
	IDs []string `json:"ids,omitempty"`

	// Time range over StartedAt, both inclusive
	StartTime *time.Time `json:"start_time,omitempty"`
	EndTime   *time.Time `json:"end_time,omitempty"`

	Status string `json:"status,omitempty"`

	Limit     int    `json:"limit,omitempty"`
	Offset    int    `json:"offset,omitempty"`
	SortOrder string `json:"sort_order,omitempty"` // by StartedAt, default "desc"
}

// Storage persists lint runs and their findings.
// Implementations must be safe for concurrent use.
type Storage interface {
	// StoreRun persists a run together with its findings atomically.
	StoreRun(ctx context.Context, run *Run) error

	// GetRun returns a run with its findings, or ErrRunNotFound.
	GetRun(ctx context.Context, id string) (*Run, error)

	// ListRuns returns runs matching the query without their findings.
	ListRuns(ctx context.Context, query *RunQuery) ([]*Run, error)

	// CountRuns returns the number of runs matching the query.
	CountRuns(ctx context.Context, query *RunQuery) (int64, error)

	// DeleteRuns removes matching runs and their findings and returns the
	// number of runs deleted.
	DeleteRuns(ctx context.Context, query *RunQuery) (int64, error)

	// QueryFindings returns findings matching the query.
	QueryFindings(ctx context.Context, query *Query) ([]*Finding, error)

	// QueryFindingsStream streams matching findings. Both channels are
	// closed when the query completes; errCh carries at most one error.
	//
	//   findingsCh, errCh, err := store.QueryFindingsStream(ctx, q)
	//   for f := range findingsCh { ... }
	//   if err := <-errCh; err != nil { ... }
	QueryFindingsStream(ctx context.Context, query *Query) (<-chan *Finding, <-chan error, error)

	// CountFindings returns the number of findings matching the query.
	CountFindings(ctx context.Context, query *Query) (int64, error)

	// Ping checks that the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}

// Exporter writes findings in some output format.
type Exporter interface {
	Export(ctx context.Context, findings []*Finding, w io.Writer) error
}
