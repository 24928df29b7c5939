package query

import (
	"errors"
	"testing"
	"time"

	"mercator-hq/strictvalue/pkg/config"
	"mercator-hq/strictvalue/pkg/findings"
)

func TestValidate(t *testing.T) {
	v := New(config.QueryConfig{DefaultLimit: 50, MaxLimit: 500})
	now := time.Now()
	earlier := now.Add(-time.Hour)

	tests := []struct {
		name      string
		query     *findings.Query
		wantField string
	}{
		{name: "empty", query: &findings.Query{}},
		{name: "full", query: &findings.Query{Limit: 500, Offset: 10, SortBy: "line", SortOrder: "asc", StartTime: &earlier, EndTime: &now}},
		{name: "negative limit", query: &findings.Query{Limit: -1}, wantField: "limit"},
		{name: "limit over max", query: &findings.Query{Limit: 501}, wantField: "limit"},
		{name: "negative offset", query: &findings.Query{Offset: -5}, wantField: "offset"},
		{name: "bad sort field", query: &findings.Query{SortBy: "value"}, wantField: "sort_by"},
		{name: "bad sort order", query: &findings.Query{SortOrder: "up"}, wantField: "sort_order"},
		{name: "inverted range", query: &findings.Query{StartTime: &now, EndTime: &earlier}, wantField: "start_time"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.query)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				return
			}

			var qe *findings.QueryError
			if !errors.As(err, &qe) {
				t.Fatalf("Validate() error = %v, want *QueryError", err)
			}
			if qe.Field != tt.wantField {
				t.Errorf("field = %q, want %q", qe.Field, tt.wantField)
			}
		})
	}
}

func TestValidateRuns(t *testing.T) {
	v := New(config.QueryConfig{})

	if err := v.ValidateRuns(&findings.RunQuery{Status: findings.RunStatusError, SortOrder: "asc"}); err != nil {
		t.Errorf("valid run query rejected: %v", err)
	}
	if err := v.ValidateRuns(&findings.RunQuery{Status: "passed"}); err == nil {
		t.Error("invalid status accepted")
	}
	if err := v.ValidateRuns(&findings.RunQuery{Limit: config.DefaultFindingsQueryMaxLimit + 1}); err == nil {
		t.Error("limit over default max accepted")
	}
}

func TestApplyDefaults(t *testing.T) {
	v := New(config.QueryConfig{DefaultLimit: 25})

	q := &findings.Query{}
	v.ApplyDefaults(q)
	if q.Limit != 25 || q.SortBy != "recorded_at" || q.SortOrder != "desc" {
		t.Errorf("ApplyDefaults() = %+v", q)
	}

	q = &findings.Query{Limit: 3, SortBy: "line", SortOrder: "asc"}
	v.ApplyDefaults(q)
	if q.Limit != 3 || q.SortBy != "line" || q.SortOrder != "asc" {
		t.Errorf("ApplyDefaults() overwrote explicit values: %+v", q)
	}

	rq := &findings.RunQuery{}
	v.ApplyRunDefaults(rq)
	if rq.Limit != 25 || rq.SortOrder != "desc" {
		t.Errorf("ApplyRunDefaults() = %+v", rq)
	}
}
