// Package source decodes JSON and YAML documents into the value model that
// okskema schemas validate: nil, bool, string, json.Number (or another Go
// numeric type), []any and map[string]any.
package source

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Format identifies a document encoding.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

func (f Format) String() string {
	switch f {
	case FormatYAML:
		return "yaml"
	default:
		return "json"
	}
}

// ParseFormat resolves a format name ("json", "yaml" or "yml").
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "json", "":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return FormatJSON, fmt.Errorf("source: unknown format %q", name)
}

// FormatOf guesses the format from a file name; anything that is not
// .yaml/.yml is treated as JSON.
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatJSON
}

// Options tunes decoding.
type Options struct {
	// RejectDuplicateKeys fails when a JSON object repeats a property name.
	// YAML mappings always reject duplicates.
	RejectDuplicateKeys bool
	// MaxDepth limits container nesting; 0 means unlimited.
	MaxDepth int
}

// Decode reads exactly one document from r.
func Decode(r io.Reader, f Format, opts Options) (any, error) {
	if f == FormatYAML {
		return DecodeYAML(r, opts)
	}
	return DecodeJSON(r, opts)
}

// DecodeAll reads every document from r: newline-delimited or concatenated
// JSON values, or a multi-document YAML stream.
func DecodeAll(r io.Reader, f Format, opts Options) ([]any, error) {
	if f == FormatYAML {
		return decodeYAMLStream(r, opts)
	}
	return decodeJSONStream(r, opts)
}

// DepthError reports a document nested deeper than Options.MaxDepth.
type DepthError struct {
	Pointer string
	Max     int
}

func (e *DepthError) Error() string {
	return fmt.Sprintf("source: nesting exceeds max depth %d at %s", e.Max, e.Pointer)
}

// DuplicateKeyError reports a property name repeated within one object.
type DuplicateKeyError struct {
	Pointer string
	Key     string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("source: duplicate key %q at %s", e.Key, e.Pointer)
}
