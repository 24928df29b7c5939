package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"

	"mercator-hq/strictvalue/pkg/config"
	"mercator-hq/strictvalue/pkg/findings"
)

// Supported database/sql driver names.
const (
	DriverModernC = "sqlite"  // modernc.org/sqlite, pure Go
	DriverCGO     = "sqlite3" // github.com/mattn/go-sqlite3
)

// sortColumns whitelists ORDER BY columns for findings queries.
var sortColumns = map[string]string{
	"recorded_at": "recorded_at",
	"source":      "source",
	"property":    "property",
	"severity":    "severity",
	"rule":        "rule",
	"line":        "line",
}

// SQLiteStorage implements findings.Storage on SQLite.
type SQLiteStorage struct {
	db     *sql.DB
	config config.SQLiteConfig
	logger *slog.Logger
}

// NewSQLiteStorage opens the database at cfg.Path with cfg.Driver and
// creates the schema.
func NewSQLiteStorage(cfg config.SQLiteConfig) (*SQLiteStorage, error) {
	if cfg.Driver == "" {
		cfg.Driver = DriverModernC
	}
	if cfg.Driver != DriverModernC && cfg.Driver != DriverCGO {
		return nil, findings.NewStorageError("sqlite", "open",
			fmt.Errorf("unsupported driver %q (valid: %s, %s)", cfg.Driver, DriverModernC, DriverCGO))
	}

	logger := slog.Default().With("component", "findings.storage.sqlite")

	if dir := filepath.Dir(cfg.Path); cfg.Path != ":memory:" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, findings.NewStorageError("sqlite", "open", err)
		}
	}

	db, err := sql.Open(cfg.Driver, cfg.Path)
	if err != nil {
		return nil, findings.NewStorageError("sqlite", "open", err)
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}

	s := &SQLiteStorage{
		db:     db,
		config: cfg,
		logger: logger,
	}

	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("SQLite storage initialized",
		"path", cfg.Path,
		"driver", cfg.Driver,
		"journal_mode", cfg.JournalMode,
	)

	return s, nil
}

// initialize applies pragmas and creates the schema.
func (s *SQLiteStorage) initialize() error {
	if mode := s.config.JournalMode; mode != "" {
		if _, err := s.db.Exec(fmt.Sprintf("PRAGMA journal_mode=%s;", mode)); err != nil {
			return findings.NewStorageError("sqlite", "set_journal_mode", err)
		}
	}

	if s.config.BusyTimeout > 0 {
		if _, err := s.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", s.config.BusyTimeout.Milliseconds())); err != nil {
			return findings.NewStorageError("sqlite", "set_busy_timeout", err)
		}
	}

	if _, err := s.db.Exec(Schema); err != nil {
		return findings.NewStorageError("sqlite", "create_schema", err)
	}

	if _, err := s.db.Exec(InsertSchemaVersion, SchemaVersion); err != nil {
		return findings.NewStorageError("sqlite", "insert_schema_version", err)
	}

	var version int
	err := s.db.QueryRow(GetSchemaVersion).Scan(&version)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return findings.NewStorageError("sqlite", "get_schema_version", err)
	}
	if version != SchemaVersion {
		return findings.NewStorageError("sqlite", "schema_version_mismatch",
			fmt.Errorf("expected schema version %d, got %d", SchemaVersion, version))
	}

	return nil
}

// StoreRun inserts the run and its findings in one transaction.
func (s *SQLiteStorage) StoreRun(ctx context.Context, run *findings.Run) error {
	inputs, _ := json.Marshal(run.Inputs)
	rules, _ := json.Marshal(run.Rules)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return findings.NewStorageError("sqlite", "begin", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, insertRun,
		run.ID, run.StartedAt.UnixNano(), run.CompletedAt.UnixNano(),
		nullString(run.ConfigPath), string(inputs), string(rules),
		run.Declarations, run.FixMode, run.Status, nullString(run.Error), len(run.Findings),
	)
	if err != nil {
		return findings.NewStorageError("sqlite", "store_run", err)
	}

	if len(run.Findings) > 0 {
		stmt, err := tx.PrepareContext(ctx, insertFinding)
		if err != nil {
			return findings.NewStorageError("sqlite", "prepare", err)
		}
		defer stmt.Close()

		for _, f := range run.Findings {
			types, _ := json.Marshal(f.EligibleTypes)
			_, err := stmt.ExecContext(ctx,
				f.ID, run.ID, f.Fingerprint, f.Rule, f.Source, f.Property, f.Value, f.Line, f.Column,
				f.Severity, f.Message, string(types),
				nullString(f.Longhand), nullString(f.LonghandValue), nullString(f.Fixed), f.FixApplied,
				f.RecordedAt.UnixNano(),
			)
			if err != nil {
				return findings.NewStorageError("sqlite", "store_finding", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return findings.NewStorageError("sqlite", "commit", err)
	}
	return nil
}

// GetRun returns a run with its findings.
func (s *SQLiteStorage) GetRun(ctx context.Context, id string) (*findings.Run, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+runColumns+" FROM runs WHERE id = ?", id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, findings.ErrRunNotFound
	}
	if err != nil {
		return nil, findings.NewStorageError("sqlite", "get_run", err)
	}

	run.Findings, err = s.QueryFindings(ctx, &findings.Query{RunID: id, SortBy: "source", SortOrder: "asc"})
	if err != nil {
		return nil, err
	}
	return run, nil
}

// ListRuns returns matching runs without findings.
func (s *SQLiteStorage) ListRuns(ctx context.Context, query *findings.RunQuery) ([]*findings.Run, error) {
	where, args := buildRunWhere(query)

	sqlQuery := "SELECT " + runColumns + " FROM runs" + where
	if strings.EqualFold(query.SortOrder, "asc") {
		sqlQuery += " ORDER BY started_at ASC"
	} else {
		sqlQuery += " ORDER BY started_at DESC"
	}
	sqlQuery += limitClause(query.Limit, query.Offset)

	rows, err := s.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, findings.NewStorageError("sqlite", "list_runs", err)
	}
	defer rows.Close()

	runs := []*findings.Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, findings.NewStorageError("sqlite", "scan", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, findings.NewStorageError("sqlite", "list_runs", err)
	}

	return runs, nil
}

// CountRuns returns the number of matching runs.
func (s *SQLiteStorage) CountRuns(ctx context.Context, query *findings.RunQuery) (int64, error) {
	where, args := buildRunWhere(query)

	var count int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM runs"+where, args...).Scan(&count); err != nil {
		return 0, findings.NewStorageError("sqlite", "count_runs", err)
	}
	return count, nil
}

// DeleteRuns removes matching runs and their findings in one transaction.
func (s *SQLiteStorage) DeleteRuns(ctx context.Context, query *findings.RunQuery) (int64, error) {
	where, args := buildRunWhere(query)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, findings.NewStorageError("sqlite", "begin", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM findings WHERE run_id IN (SELECT id FROM runs"+where+")", args...); err != nil {
		return 0, findings.NewStorageError("sqlite", "delete_findings", err)
	}

	result, err := tx.ExecContext(ctx, "DELETE FROM runs"+where, args...)
	if err != nil {
		return 0, findings.NewStorageError("sqlite", "delete_runs", err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, findings.NewStorageError("sqlite", "delete_runs", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, findings.NewStorageError("sqlite", "commit", err)
	}
	return deleted, nil
}

// QueryFindings returns matching findings.
func (s *SQLiteStorage) QueryFindings(ctx context.Context, query *findings.Query) ([]*findings.Finding, error) {
	sqlQuery, args := buildFindingsQuery(query)

	rows, err := s.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, findings.NewStorageError("sqlite", "query", err)
	}
	defer rows.Close()

	results := []*findings.Finding{}
	for rows.Next() {
		f, err := scanFinding(rows)
		if err != nil {
			return nil, findings.NewStorageError("sqlite", "scan", err)
		}
		results = append(results, f)
	}
	if err := rows.Err(); err != nil {
		return nil, findings.NewStorageError("sqlite", "query", err)
	}

	return results, nil
}

// QueryFindingsStream streams matching findings row by row.
func (s *SQLiteStorage) QueryFindingsStream(ctx context.Context, query *findings.Query) (<-chan *findings.Finding, <-chan error, error) {
	findingsCh := make(chan *findings.Finding, 100)
	errCh := make(chan error, 1)

	sqlQuery, args := buildFindingsQuery(query)

	go func() {
		defer close(findingsCh)
		defer close(errCh)

		rows, err := s.db.QueryContext(ctx, sqlQuery, args...)
		if err != nil {
			errCh <- findings.NewStorageError("sqlite", "query_stream", err)
			return
		}
		defer rows.Close()

		for rows.Next() {
			f, err := scanFinding(rows)
			if err != nil {
				errCh <- findings.NewStorageError("sqlite", "scan", err)
				return
			}

			select {
			case <-ctx.Done():
				errCh <- ctx.Err()
				return
			case findingsCh <- f:
			}
		}

		if err := rows.Err(); err != nil {
			errCh <- findings.NewStorageError("sqlite", "query_stream", err)
		}
	}()

	return findingsCh, errCh, nil
}

// CountFindings returns the number of matching findings.
func (s *SQLiteStorage) CountFindings(ctx context.Context, query *findings.Query) (int64, error) {
	where, args := buildFindingWhere(query)

	var count int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM findings"+where, args...).Scan(&count); err != nil {
		return 0, findings.NewStorageError("sqlite", "count", err)
	}
	return count, nil
}

// Ping checks the database connection.
func (s *SQLiteStorage) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return findings.NewStorageError("sqlite", "ping", err)
	}
	return nil
}

// Close closes the database.
func (s *SQLiteStorage) Close() error {
	if err := s.db.Close(); err != nil {
		return findings.NewStorageError("sqlite", "close", err)
	}

	s.logger.Info("SQLite storage closed")
	return nil
}

func buildFindingsQuery(query *findings.Query) (string, []any) {
	where, args := buildFindingWhere(query)

	column, ok := sortColumns[query.SortBy]
	if !ok {
		column = "recorded_at"
	}
	order := "DESC"
	if strings.EqualFold(query.SortOrder, "asc") {
		order = "ASC"
	}

	sqlQuery := "SELECT " + findingColumns + " FROM findings" + where +
		fmt.Sprintf(" ORDER BY %s %s, source ASC, line ASC, column_number ASC", column, order) +
		limitClause(query.Limit, query.Offset)

	return sqlQuery, args
}

// buildFindingWhere returns a " WHERE ..." clause (or "") and its arguments.
func buildFindingWhere(query *findings.Query) (string, []any) {
	var conditions []string
	var args []any

	if query.StartTime != nil {
		conditions = append(conditions, "recorded_at >= ?")
		args = append(args, query.StartTime.UnixNano())
	}
	if query.EndTime != nil {
		conditions = append(conditions, "recorded_at <= ?")
		args = append(args, query.EndTime.UnixNano())
	}

	for _, filter := range []struct {
		column string
		value  string
	}{
		{"run_id", query.RunID},
		{"rule", query.Rule},
		{"source", query.Source},
		{"property", query.Property},
		{"severity", query.Severity},
		{"fingerprint", query.Fingerprint},
	} {
		if filter.value != "" {
			conditions = append(conditions, filter.column+" = ?")
			args = append(args, filter.value)
		}
	}

	return joinWhere(conditions), args
}

func buildRunWhere(query *findings.RunQuery) (string, []any) {
	var conditions []string
	var args []any

	if len(query.IDs) > 0 {
		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(query.IDs)), ",")
		conditions = append(conditions, "id IN ("+placeholders+")")
		for _, id := range query.IDs {
			args = append(args, id)
		}
	}
	if query.StartTime != nil {
		conditions = append(conditions, "started_at >= ?")
		args = append(args, query.StartTime.UnixNano())
	}
	if query.EndTime != nil {
		conditions = append(conditions, "started_at <= ?")
		args = append(args, query.EndTime.UnixNano())
	}
	if query.Status != "" {
		conditions = append(conditions, "status = ?")
		args = append(args, query.Status)
	}

	return joinWhere(conditions), args
}

func joinWhere(conditions []string) string {
	if len(conditions) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(conditions, " AND ")
}

func limitClause(limit, offset int) string {
	switch {
	case limit > 0 && offset > 0:
		return fmt.Sprintf(" LIMIT %d OFFSET %d", limit, offset)
	case limit > 0:
		return fmt.Sprintf(" LIMIT %d", limit)
	case offset > 0:
		return fmt.Sprintf(" LIMIT -1 OFFSET %d", offset)
	default:
		return ""
	}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*findings.Run, error) {
	var run findings.Run
	var startedAt, completedAt int64
	var configPath, inputs, rules, errorVal sql.NullString

	err := row.Scan(
		&run.ID, &startedAt, &completedAt, &configPath, &inputs, &rules,
		&run.Declarations, &run.FixMode, &run.Status, &errorVal, &run.FindingCount,
	)
	if err != nil {
		return nil, err
	}

	run.StartedAt = time.Unix(0, startedAt).UTC()
	run.CompletedAt = time.Unix(0, completedAt).UTC()
	run.ConfigPath = configPath.String
	run.Error = errorVal.String
	if inputs.Valid {
		_ = json.Unmarshal([]byte(inputs.String), &run.Inputs)
	}
	if rules.Valid {
		_ = json.Unmarshal([]byte(rules.String), &run.Rules)
	}

	return &run, nil
}

func scanFinding(row scanner) (*findings.Finding, error) {
	var f findings.Finding
	var recordedAt int64
	var types, longhand, longhandValue, fixed sql.NullString

	err := row.Scan(
		&f.ID, &f.RunID, &f.Fingerprint, &f.Rule, &f.Source, &f.Property, &f.Value, &f.Line, &f.Column,
		&f.Severity, &f.Message, &types, &longhand, &longhandValue, &fixed, &f.FixApplied,
		&recordedAt,
	)
	if err != nil {
		return nil, err
	}

	f.RecordedAt = time.Unix(0, recordedAt).UTC()
	f.Longhand = longhand.String
	f.LonghandValue = longhandValue.String
	f.Fixed = fixed.String
	if types.Valid {
		_ = json.Unmarshal([]byte(types.String), &f.EligibleTypes)
	}

	return &f, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
