package query

import (
	"fmt"

	"mercator-hq/strictvalue/pkg/config"
	"mercator-hq/strictvalue/pkg/findings"
)

// ValidSortFields contains the fields findings can be sorted by.
var ValidSortFields = map[string]bool{
	"recorded_at": true,
	"source":      true,
	"property":    true,
	"severity":    true,
	"rule":        true,
	"line":        true,
}

// ValidSortOrders contains the valid sort orders.
var ValidSortOrders = map[string]bool{
	"asc":  true,
	"desc": true,
}

// ValidRunStatuses contains the statuses runs can be filtered by.
var ValidRunStatuses = map[string]bool{
	findings.RunStatusClean:    true,
	findings.RunStatusFindings: true,
	findings.RunStatusError:    true,
}

// Validator checks queries against the configured limits.
type Validator struct {
	DefaultLimit int
	MaxLimit     int
}

// New creates a validator from the findings query configuration.
func New(cfg config.QueryConfig) *Validator {
	v := &Validator{
		DefaultLimit: cfg.DefaultLimit,
		MaxLimit:     cfg.MaxLimit,
	}
	if v.DefaultLimit <= 0 {
		v.DefaultLimit = config.DefaultFindingsQueryDefaultLimit
	}
	if v.MaxLimit <= 0 {
		v.MaxLimit = config.DefaultFindingsQueryMaxLimit
	}
	return v
}

// Validate returns a *findings.QueryError for the first invalid parameter.
func (v *Validator) Validate(q *findings.Query) error {
	if err := v.validatePage(q.Limit, q.Offset); err != nil {
		return err
	}

	if q.SortBy != "" && !ValidSortFields[q.SortBy] {
		return findings.NewQueryError("sort_by", fmt.Errorf("invalid sort field: %s", q.SortBy))
	}
	if q.SortOrder != "" && !ValidSortOrders[q.SortOrder] {
		return findings.NewQueryError("sort_order", fmt.Errorf("invalid sort order: %s (must be 'asc' or 'desc')", q.SortOrder))
	}

	if q.StartTime != nil && q.EndTime != nil && q.StartTime.After(*q.EndTime) {
		return findings.NewQueryError("start_time", fmt.Errorf("start_time must be before end_time"))
	}

	return nil
}

// ValidateRuns validates a run query.
func (v *Validator) ValidateRuns(q *findings.RunQuery) error {
	if err := v.validatePage(q.Limit, q.Offset); err != nil {
		return err
	}

	if q.SortOrder != "" && !ValidSortOrders[q.SortOrder] {
		return findings.NewQueryError("sort_order", fmt.Errorf("invalid sort order: %s (must be 'asc' or 'desc')", q.SortOrder))
	}
	if q.Status != "" && !ValidRunStatuses[q.Status] {
		return findings.NewQueryError("status", fmt.Errorf("invalid status: %s (must be 'clean', 'findings', or 'error')", q.Status))
	}
	if q.StartTime != nil && q.EndTime != nil && q.StartTime.After(*q.EndTime) {
		return findings.NewQueryError("start_time", fmt.Errorf("start_time must be before end_time"))
	}

	return nil
}

// ApplyDefaults fills in the default limit and ordering.
func (v *Validator) ApplyDefaults(q *findings.Query) {
	if q.Limit == 0 {
		q.Limit = v.DefaultLimit
	}
	if q.SortBy == "" {
		q.SortBy = "recorded_at"
	}
	if q.SortOrder == "" {
		q.SortOrder = "desc"
	}
}

// ApplyRunDefaults fills in the default limit and ordering for run queries.
func (v *Validator) ApplyRunDefaults(q *findings.RunQuery) {
	if q.Limit == 0 {
		q.Limit = v.DefaultLimit
	}
	if q.SortOrder == "" {
		q.SortOrder = "desc"
	}
}

func (v *Validator) validatePage(limit, offset int) error {
	if limit < 0 {
		return findings.NewQueryError("limit", fmt.Errorf("limit must be >= 0, got %d", limit))
	}
	if limit > v.MaxLimit {
		return findings.NewQueryError("limit", fmt.Errorf("limit must be <= %d, got %d", v.MaxLimit, limit))
	}
	if offset < 0 {
		return findings.NewQueryError("offset", fmt.Errorf("offset must be >= 0, got %d", offset))
	}
	return nil
}
