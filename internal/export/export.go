// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export serializes song collections, first-line indexes and
// table rows to JSON, YAML, Markdown, HTML, CSV and XLSX.
package export

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/songbook/pkg/types"
)

// ErrUnknownFormat is returned for output formats that have no writer.
var ErrUnknownFormat = errors.New("unknown output format")

// ParseOutputFormat validates a songs output format name.
func ParseOutputFormat(s string) (types.OutputFormat, error) {
	switch f := types.OutputFormat(s); f {
	case types.OutputJSON, types.OutputYAML, types.OutputMarkdown, types.OutputHTML:
		return f, nil
	case "":
		return types.OutputJSON, nil
	default:
		return "", fmt.Errorf("%w %q: use json, yaml, markdown or html", ErrUnknownFormat, s)
	}
}

// ParseRowFormat validates a rows output format name.
func ParseRowFormat(s string) (types.RowFormat, error) {
	switch f := types.RowFormat(s); f {
	case types.RowsCSV, types.RowsXLSX:
		return f, nil
	case "":
		return types.RowsCSV, nil
	default:
		return "", fmt.Errorf("%w %q: use csv or xlsx", ErrUnknownFormat, s)
	}
}

// WriteSongs writes songs to w in the given format. title names the
// collection in Markdown and HTML output.
func WriteSongs(w io.Writer, format types.OutputFormat, title string, songs []types.Song) error {
	switch format {
	case types.OutputJSON, "":
		return WriteJSON(w, songs)
	case types.OutputYAML:
		return WriteYAML(w, songs)
	case types.OutputMarkdown:
		return WriteMarkdown(w, title, songs)
	case types.OutputHTML:
		return WriteHTML(w, title, songs)
	default:
		return fmt.Errorf("%w %q", ErrUnknownFormat, format)
	}
}

// WriteJSON writes songs as an indented JSON array of {"title","lyrics"}
// objects. Non-ASCII text and HTML characters are written literally.
func WriteJSON(w io.Writer, songs []types.Song) error {
	if songs == nil {
		songs = []types.Song{}
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(songs); err != nil {
		return fmt.Errorf("encoding songs JSON: %w", err)
	}
	return nil
}

// WriteYAML writes songs as a YAML sequence.
func WriteYAML(w io.Writer, songs []types.Song) error {
	if songs == nil {
		songs = []types.Song{}
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(songs); err != nil {
		return fmt.Errorf("encoding songs YAML: %w", err)
	}
	return enc.Close()
}

// ReadJSON loads a songs JSON file written by WriteJSON. Records missing a
// title or lyrics get empty strings.
func ReadJSON(path string) ([]types.Song, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading songs file: %w", err)
	}
	var songs []types.Song
	if err := json.Unmarshal(data, &songs); err != nil {
		return nil, fmt.Errorf("parsing songs file %s: %w", path, err)
	}
	if songs == nil {
		songs = []types.Song{}
	}
	return songs, nil
}

// WriteFileAtomic writes the output of fn to path through a temporary file
// in the same directory, renaming it into place only when fn succeeds.
func WriteFileAtomic(path string, fn func(io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temporary file: %w", err)
	}
	tmpPath := tmp.Name()
	fail := func(err error) error {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}

	bw := bufio.NewWriter(tmp)
	if err := fn(bw); err != nil {
		return fail(err)
	}
	if err := bw.Flush(); err != nil {
		return fail(fmt.Errorf("writing %s: %w", path, err))
	}
	if err := tmp.Chmod(0o644); err != nil {
		return fail(fmt.Errorf("setting permissions on %s: %w", path, err))
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing %s: %w", path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}
