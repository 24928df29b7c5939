package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"testing"
)

type report struct {
	Findings int `json:"findings"`
}

func (r report) WriteText(w io.Writer) error {
	_, err := io.WriteString(w, "2 problems\n")
	return err
}

func TestTextFormatter(t *testing.T) {
	tests := []struct {
		name string
		data any
		want string
	}{
		{name: "plain value", data: "test message", want: "test message\n"},
		{name: "text writer", data: report{Findings: 2}, want: "2 problems\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			formatter := &TextFormatter{}

			output, err := formatter.Format(tt.data)
			if err != nil {
				t.Fatalf("Format() error = %v", err)
			}
			if string(output) != tt.want {
				t.Errorf("Format() = %q, want %q", output, tt.want)
			}
		})
	}
}

func TestJSONFormatter(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := NewFormatter(FormatJSON).FormatTo(buf, report{Findings: 2}); err != nil {
		t.Fatalf("FormatTo() error = %v", err)
	}

	var got report
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if got.Findings != 2 {
		t.Errorf("findings = %d", got.Findings)
	}

	compact, err := (&JSONFormatter{}).Format(report{Findings: 1})
	if err != nil || string(compact) != `{"findings":1}` {
		t.Errorf("Format() = %s, %v", compact, err)
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    OutputFormat
		wantErr bool
	}{
		{in: "", want: FormatText},
		{in: "text", want: FormatText},
		{in: "json", want: FormatJSON},
		{in: "junit", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v", tt.in, err)
			continue
		}
		if err != nil {
			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Errorf("error type = %T, want *ConfigError", err)
			}
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
