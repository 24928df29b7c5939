package export

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"
	"strings"
	"time"

	"mercator-hq/strictvalue/pkg/findings"
)

// CSVExporter writes findings as CSV rows.
type CSVExporter struct {
	// IncludeHeader writes a header row first.
	IncludeHeader bool
}

// NewCSVExporter creates a CSV exporter.
func NewCSVExporter(includeHeader bool) *CSVExporter {
	return &CSVExporter{IncludeHeader: includeHeader}
}

// Header returns the CSV column names.
func Header() []string {
	return []string{
		"id", "run_id", "fingerprint", "rule",
		"source", "line", "column", "property", "value",
		"severity", "message", "eligible_types",
		"longhand", "longhand_value", "fixed", "fix_applied",
		"recorded_at",
	}
}

// Export writes all findings.
func (e *CSVExporter) Export(ctx context.Context, fs []*findings.Finding, w io.Writer) error {
	writer := csv.NewWriter(w)

	if e.IncludeHeader {
		if err := writer.Write(Header()); err != nil {
			return findings.NewExportError("csv", 0, err)
		}
	}

	for i, f := range fs {
		if err := writer.Write(row(f)); err != nil {
			return findings.NewExportError("csv", i, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return findings.NewExportError("csv", len(fs), err)
	}
	return nil
}

// ExportStream writes findings from a channel, flushing every 100 rows.
func (e *CSVExporter) ExportStream(ctx context.Context, findingsCh <-chan *findings.Finding, w io.Writer) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if e.IncludeHeader {
		if err := writer.Write(Header()); err != nil {
			return findings.NewExportError("csv", 0, err)
		}
	}

	count := 0
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case f, ok := <-findingsCh:
			if !ok {
				writer.Flush()
				if err := writer.Error(); err != nil {
					return findings.NewExportError("csv", count, err)
				}
				return nil
			}

			if err := writer.Write(row(f)); err != nil {
				return findings.NewExportError("csv", count, err)
			}
			count++

			if count%100 == 0 {
				writer.Flush()
				if err := writer.Error(); err != nil {
					return findings.NewExportError("csv", count, err)
				}
			}
		}
	}
}

func row(f *findings.Finding) []string {
	recorded := ""
	if !f.RecordedAt.IsZero() {
		recorded = f.RecordedAt.Format(time.RFC3339)
	}

	return []string{
		f.ID,
		f.RunID,
		f.Fingerprint,
		f.Rule,
		f.Source,
		strconv.Itoa(f.Line),
		strconv.Itoa(f.Column),
		f.Property,
		f.Value,
		f.Severity,
		f.Message,
		strings.Join(f.EligibleTypes, " "),
		f.Longhand,
		f.LonghandValue,
		f.Fixed,
		strconv.FormatBool(f.FixApplied),
		recorded,
	}
}
