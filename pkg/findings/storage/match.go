package storage

import (
	"sort"
	"strings"

	"mercator-hq/strictvalue/pkg/findings"
)

func matchesFinding(f *findings.Finding, q *findings.Query) bool {
	if q.StartTime != nil && f.RecordedAt.Before(*q.StartTime) {
		return false
	}
	if q.EndTime != nil && f.RecordedAt.After(*q.EndTime) {
		return false
	}
	if q.RunID != "" && f.RunID != q.RunID {
		return false
	}
	if q.Rule != "" && f.Rule != q.Rule {
		return false
	}
	if q.Source != "" && f.Source != q.Source {
		return false
	}
	if q.Property != "" && f.Property != q.Property {
		return false
	}
	if q.Severity != "" && f.Severity != q.Severity {
		return false
	}
	if q.Fingerprint != "" && f.Fingerprint != q.Fingerprint {
		return false
	}
	return true
}

func matchesRun(r *findings.Run, q *findings.RunQuery) bool {
	if len(q.IDs) > 0 {
		found := false
		for _, id := range q.IDs {
			if id == r.ID {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if q.StartTime != nil && r.StartedAt.Before(*q.StartTime) {
		return false
	}
	if q.EndTime != nil && r.StartedAt.After(*q.EndTime) {
		return false
	}
	if q.Status != "" && r.Status != q.Status {
		return false
	}
	return true
}

// sortFindings orders findings by field, falling back to source, line and
// column so the order is deterministic.
func sortFindings(fs []*findings.Finding, by, order string) {
	desc := !strings.EqualFold(order, "asc")
	if by == "" {
		by = "recorded_at"
	}

	less := func(a, b *findings.Finding) int {
		switch by {
		case "source":
			return strings.Compare(a.Source, b.Source)
		case "property":
			return strings.Compare(a.Property, b.Property)
		case "severity":
			return strings.Compare(a.Severity, b.Severity)
		case "rule":
			return strings.Compare(a.Rule, b.Rule)
		case "line":
			return a.Line - b.Line
		default:
			return a.RecordedAt.Compare(b.RecordedAt)
		}
	}

	sort.SliceStable(fs, func(i, j int) bool {
		if c := less(fs[i], fs[j]); c != 0 {
			if desc {
				return c > 0
			}
			return c < 0
		}
		if c := strings.Compare(fs[i].Source, fs[j].Source); c != 0 {
			return c < 0
		}
		if fs[i].Line != fs[j].Line {
			return fs[i].Line < fs[j].Line
		}
		return fs[i].Column < fs[j].Column
	})
}

func sortRuns(runs []*findings.Run, order string) {
	asc := strings.EqualFold(order, "asc")
	sort.SliceStable(runs, func(i, j int) bool {
		if asc {
			return runs[i].StartedAt.Before(runs[j].StartedAt)
		}
		return runs[i].StartedAt.After(runs[j].StartedAt)
	})
}

func paginate[T any](items []T, offset, limit int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return items[:0]
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
