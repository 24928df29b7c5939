package export

import (
	"fmt"

	"mercator-hq/strictvalue/pkg/findings"
)

// New returns the exporter for format ("json" or "csv").
func New(format string, pretty bool) (findings.Exporter, error) {
	switch format {
	case "json":
		return NewJSONExporter(pretty), nil
	case "csv":
		return NewCSVExporter(true), nil
	default:
		return nil, findings.NewExportError(format, 0, fmt.Errorf("unsupported format %q (valid: json, csv)", format))
	}
}
