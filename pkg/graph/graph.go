package graph

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/stresslayout/pkg/errors"
)

// =============================================================================
// Graph Serialization API
// =============================================================================

// FormatFromPath picks the input format from a file extension: .yaml and
// .yml are YAML, anything else is JSON.
func FormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatJSON
}

// ReadGraphFile reads a graph from a JSON or YAML file.
func ReadGraphFile(path string) (Graph, error) {
	var g Graph
	err := decodeFile(path, &g)
	return g, err
}

// ReadGraph decodes a graph in the given format from r.
func ReadGraph(r io.Reader, format string) (Graph, error) {
	var g Graph
	err := decode(r, format, &g)
	return g, err
}

// ReadRectsFile reads a list of rectangles from a JSON or YAML file.
func ReadRectsFile(path string) ([]Rect, error) {
	var rs []Rect
	err := decodeFile(path, &rs)
	return rs, err
}

// WriteResult writes r as indented JSON.
func WriteResult(r Result, w io.Writer) error {
	return encode(w, r)
}

// WriteResultFile writes r as indented JSON to path.
func WriteResultFile(r Result, path string) error {
	return writeFile(path, r)
}

// MarshalResult returns r as indented JSON.
func MarshalResult(r Result) ([]byte, error) {
	var buf bytes.Buffer
	if err := encode(&buf, r); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteRects writes rs as indented JSON.
func WriteRects(rs []Rect, w io.Writer) error {
	return encode(w, rs)
}

// =============================================================================
// Internal Implementation
// =============================================================================

func decodeFile(path string, v any) error {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer f.Close()
	if err := decode(f, FormatFromPath(path), v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode %s", path)
	}
	return nil
}

func decode(r io.Reader, format string, v any) error {
	switch format {
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(v); err != nil && err != io.EOF {
			return errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode yaml")
		}
		return nil
	case FormatJSON, "":
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(v); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode json")
		}
		return nil
	}
	return errors.New(errors.ErrCodeUnsupported, "unsupported format %q", format)
}

func encode(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode")
	}
	return nil
}

func writeFile(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "create %s", path)
	}
	defer f.Close()
	return encode(f, v)
}
