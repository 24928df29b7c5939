package export

import (
	"context"
	"encoding/json"
	"io"

	"mercator-hq/strictvalue/pkg/findings"
)

// JSONExporter writes findings as a JSON array.
type JSONExporter struct {
	// Pretty enables indentation.
	Pretty bool
}

// NewJSONExporter creates a JSON exporter.
func NewJSONExporter(pretty bool) *JSONExporter {
	return &JSONExporter{Pretty: pretty}
}

// Export writes all findings as one JSON array. An empty slice writes "[]".
func (e *JSONExporter) Export(ctx context.Context, fs []*findings.Finding, w io.Writer) error {
	if fs == nil {
		fs = []*findings.Finding{}
	}

	enc := json.NewEncoder(w)
	if e.Pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(fs); err != nil {
		return findings.NewExportError("json", len(fs), err)
	}
	return nil
}

// ExportStream writes findings from a channel as a JSON array without
// holding them all in memory.
func (e *JSONExporter) ExportStream(ctx context.Context, findingsCh <-chan *findings.Finding, w io.Writer) error {
	if _, err := io.WriteString(w, "["); err != nil {
		return findings.NewExportError("json", 0, err)
	}

	count := 0
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case f, ok := <-findingsCh:
			if !ok {
				if _, err := io.WriteString(w, "]\n"); err != nil {
					return findings.NewExportError("json", count, err)
				}
				return nil
			}

			if count > 0 {
				if _, err := io.WriteString(w, ","); err != nil {
					return findings.NewExportError("json", count, err)
				}
			}
			if e.Pretty {
				if _, err := io.WriteString(w, "\n  "); err != nil {
					return findings.NewExportError("json", count, err)
				}
			}

			data, err := e.marshal(f)
			if err != nil {
				return findings.NewExportError("json", count, err)
			}
			if _, err := w.Write(data); err != nil {
				return findings.NewExportError("json", count, err)
			}
			count++
		}
	}
}

func (e *JSONExporter) marshal(f *findings.Finding) ([]byte, error) {
	if e.Pretty {
		return json.MarshalIndent(f, "  ", "  ")
	}
	return json.Marshal(f)
}
