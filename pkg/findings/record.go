package findings

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/google/uuid"

	"mercator-hq/strictvalue/pkg/strictvalue"
)

// NewRun creates a run with a fresh ID and start time.
func NewRun(configPath string, inputs []string, fixMode bool) *Run {
	return &Run{
		ID:         uuid.New().String(),
		StartedAt:  time.Now().UTC(),
		ConfigPath: configPath,
		Inputs:     append([]string(nil), inputs...),
		FixMode:    fixMode,
	}
}

// Add records a rule finding on the run.
func (r *Run) Add(rule string, f strictvalue.Finding) *Finding {
	types := make([]string, len(f.EligibleTypes))
	for i, t := range f.EligibleTypes {
		types[i] = string(t)
	}

	finding := &Finding{
		ID:            uuid.New().String(),
		RunID:         r.ID,
		Fingerprint:   Fingerprint(rule, f.Source, f.Property, f.Value),
		Rule:          rule,
		Source:        f.Source,
		Property:      f.Property,
		Value:         f.Value,
		Line:          f.Position.Line,
		Column:        f.Position.Column,
		Severity:      f.Severity,
		Message:       f.Message,
		EligibleTypes: types,
		Longhand:      f.Longhand,
		LonghandValue: f.LonghandValue,
		Fixed:         f.Fixed,
		FixApplied:    f.FixApplied,
		RecordedAt:    time.Now().UTC(),
	}

	r.Findings = append(r.Findings, finding)
	r.FindingCount = len(r.Findings)
	return finding
}

// Complete stamps the completion time and derives the status. A non-nil err
// marks the run as errored.
func (r *Run) Complete(declarations int, err error) {
	r.CompletedAt = time.Now().UTC()
	r.Declarations = declarations
	r.FindingCount = len(r.Findings)

	switch {
	case err != nil:
		r.Status = RunStatusError
		r.Error = err.Error()
	case r.FindingCount > 0:
		r.Status = RunStatusFindings
	default:
		r.Status = RunStatusClean
	}
}

// Fingerprint identifies a finding across runs. Line and column are left
// out so unrelated edits above a declaration do not change it.
func Fingerprint(rule, source, property, value string) string {
	h := sha256.New()
	for _, part := range []string{rule, source, property, value} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
