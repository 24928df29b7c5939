package lint

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"mercator-hq/strictvalue/pkg/strictvalue"
)

// Finding is a rule finding tagged with the rule that reported it.
type Finding struct {
	Rule string `json:"rule"`
	strictvalue.Finding
}

// Summary is the outcome of a lint run.
type Summary struct {
	RunID        string        `json:"run_id"`
	Status       string        `json:"status"`
	Files        int           `json:"files"`
	Declarations int           `json:"declarations"`
	Checked      int           `json:"checked"`
	Findings     []Finding     `json:"findings"`
	Fixed        int           `json:"fixed"`
	FixErrors    []string      `json:"fix_errors,omitempty"`
	Rewritten    []string      `json:"rewritten,omitempty"`
	Duration     time.Duration `json:"duration_ns"`
}

// Count returns the number of findings with the given severity.
func (s *Summary) Count(severity string) int {
	n := 0
	for _, f := range s.Findings {
		if f.Severity == severity {
			n++
		}
	}
	return n
}

// Failed reports whether the findings cross the failOn threshold:
// "error" fails on error findings, "warning" on warnings or errors, and
// "never" never fails. Unknown severities count as errors.
func (s *Summary) Failed(failOn string) bool {
	threshold := severityRank(failOn)
	if failOn == "never" {
		return false
	}
	for _, f := range s.Findings {
		if severityRank(f.Severity) >= threshold {
			return true
		}
	}
	return false
}

func severityRank(severity string) int {
	if severity == "warning" {
		return 1
	}
	return 2
}

// WriteText renders findings grouped by source, one per line:
//
//	app.css
//	  3:11  error  Expected variable or function for "#fff" of "color"  colors
func (s *Summary) WriteText(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 2, 2, ' ', 0)

	source := ""
	for i, f := range s.Findings {
		if i == 0 || f.Source != source {
			if i > 0 {
				fmt.Fprintln(tw)
			}
			source = f.Source
			fmt.Fprintln(tw, source)
		}
		msg := f.Message
		if f.FixApplied {
			msg += fmt.Sprintf(" (fixed: %s)", f.Fixed)
		}
		fmt.Fprintf(tw, "  %d:%d\t%s\t%s\t%s\n", f.Position.Line, f.Position.Column, f.Severity, msg, f.Rule)
	}
	if len(s.Findings) > 0 {
		fmt.Fprintln(tw)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	for _, e := range s.FixErrors {
		fmt.Fprintf(w, "fix failed: %s\n", e)
	}

	problems := "problems"
	if len(s.Findings) == 1 {
		problems = "problem"
	}
	_, err := fmt.Fprintf(w, "%d %s (%d errors, %d warnings) in %d declarations from %d files\n",
		len(s.Findings), problems, s.Count("error"), s.Count("warning"), s.Declarations, s.Files)
	return err
}
