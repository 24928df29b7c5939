package lint

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"mercator-hq/strictvalue/pkg/strictvalue"
)

// ErrNoInputs is returned when a run has no declaration files to read.
var ErrNoInputs = errors.New("no declaration inputs")

// Input file formats.
const (
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// Entry is one declaration as written in an input file.
type Entry struct {
	Source   string `json:"source,omitempty" yaml:"source,omitempty"`
	Property string `json:"property" yaml:"property"`
	Value    string `json:"value" yaml:"value"`
	Line     int    `json:"line,omitempty" yaml:"line,omitempty"`
	Column   int    `json:"column,omitempty" yaml:"column,omitempty"`
	Between  string `json:"between,omitempty" yaml:"between,omitempty"`
}

// File is a parsed declaration input file.
type File struct {
	Path    string
	Format  string
	Entries []Entry

	mode fs.FileMode
}

// InputError reports an unreadable or malformed input file.
type InputError struct {
	Path  string
	Index int
	Cause error
}

func (e *InputError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("input %s: entry %d: %v", e.Path, e.Index, e.Cause)
	}
	return fmt.Sprintf("input %s: %v", e.Path, e.Cause)
}

func (e *InputError) Unwrap() error {
	return e.Cause
}

// Declarations converts the entries to declarations. Entries without a
// source are attributed to the file.
func (f *File) Declarations() []strictvalue.Declaration {
	decls := make([]strictvalue.Declaration, len(f.Entries))
	for i, e := range f.Entries {
		source := e.Source
		if source == "" {
			source = f.Path
		}
		decls[i] = strictvalue.Declaration{
			Source:   source,
			Property: e.Property,
			Value:    e.Value,
			Position: strictvalue.Position{Line: e.Line, Column: e.Column},
			Between:  e.Between,
		}
	}
	return decls
}

// Expand resolves input patterns to a sorted, de-duplicated list of files.
// A pattern may be a file, a directory (searched recursively for .yaml,
// .yml and .json files), or a glob.
func Expand(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	add := func(path string) {
		path = filepath.Clean(path)
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, pattern := range patterns {
		if info, err := os.Stat(pattern); err == nil {
			if !info.IsDir() {
				add(pattern)
				continue
			}
			err := filepath.WalkDir(pattern, func(path string, d fs.DirEntry, err error) error {
				if err != nil {
					return err
				}
				if d.IsDir() {
					if path != pattern && strings.HasPrefix(d.Name(), ".") {
						return filepath.SkipDir
					}
					return nil
				}
				if formatOf(path) != "" {
					add(path)
				}
				return nil
			})
			if err != nil {
				return nil, fmt.Errorf("failed to walk %s: %w", pattern, err)
			}
			continue
		}

		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid input pattern %q: %w", pattern, err)
		}
		if len(matches) == 0 && !hasMeta(pattern) {
			return nil, &InputError{Path: pattern, Index: -1, Cause: fs.ErrNotExist}
		}
		for _, m := range matches {
			add(m)
		}
	}

	sort.Strings(files)
	return files, nil
}

func hasMeta(pattern string) bool {
	return strings.ContainsAny(pattern, `*?[\`)
}

func formatOf(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".json":
		return FormatJSON
	default:
		return ""
	}
}

// ReadFile parses a YAML or JSON list of declaration entries.
func ReadFile(path string) (*File, error) {
	format := formatOf(path)
	if format == "" {
		return nil, &InputError{Path: path, Index: -1, Cause: errors.New("unsupported file extension")}
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, &InputError{Path: path, Index: -1, Cause: err}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &InputError{Path: path, Index: -1, Cause: err}
	}

	f := &File{Path: path, Format: format, mode: info.Mode().Perm()}
	if len(bytes.TrimSpace(data)) > 0 {
		switch format {
		case FormatJSON:
			err = json.Unmarshal(data, &f.Entries)
		default:
			err = yaml.Unmarshal(data, &f.Entries)
		}
		if err != nil {
			return nil, &InputError{Path: path, Index: -1, Cause: err}
		}
	}

	for i, e := range f.Entries {
		if e.Property == "" {
			return nil, &InputError{Path: path, Index: i, Cause: errors.New("property is required")}
		}
	}
	return f, nil
}

// WriteFile writes the entries back in the file's original format.
func WriteFile(f *File) error {
	var (
		data []byte
		err  error
	)
	switch f.Format {
	case FormatJSON:
		data, err = json.MarshalIndent(f.Entries, "", "  ")
		data = append(data, '\n')
	default:
		data, err = yaml.Marshal(f.Entries)
	}
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", f.Path, err)
	}

	mode := f.mode
	if mode == 0 {
		mode = 0o644
	}
	if err := os.WriteFile(f.Path, data, mode); err != nil {
		return fmt.Errorf("failed to write %s: %w", f.Path, err)
	}
	return nil
}
