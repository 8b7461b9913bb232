// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert turns lyrics documents into song collection files: load,
// segment on the collection's delimiter, optionally normalize titles, and
// write songs plus an optional first-line index.
package convert

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/songbook/internal/export"
	"github.com/pdiddy/songbook/internal/segment"
	"github.com/pdiddy/songbook/internal/source"
	"github.com/pdiddy/songbook/pkg/types"
)

// indexSuffix is appended to the base name of the first-line index file.
const indexSuffix = "-index.csv"

// Loader reads a source document. source.Load is the production loader;
// tests substitute canned documents.
type Loader interface {
	Load(path string) (*source.Document, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(path string) (*source.Document, error)

// Load calls f(path).
func (f LoaderFunc) Load(path string) (*source.Document, error) { return f(path) }

// BatchResult holds the outcome of a batch conversion run.
type BatchResult struct {
	Converted int
	Skipped   int
	Failed    int

	// Songs counts songs written across all converted files.
	Songs int
}

// Total returns the total number of files processed.
func (r BatchResult) Total() int {
	return r.Converted + r.Skipped + r.Failed
}

// HasFailures reports whether any file failed conversion.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// Pipeline converts documents with one delimiter configuration.
type Pipeline struct {
	cfg    types.ConversionConfig
	delim  segment.Delimiter
	loader Loader
	logger *zap.Logger
}

// New validates cfg and builds a Pipeline. A nil loader uses source.Load;
// a nil logger discards diagnostics.
func New(cfg types.ConversionConfig, loader Loader, logger *zap.Logger) (*Pipeline, error) {
	delim, err := segment.FromPreset(cfg.Preset)
	if err != nil {
		return nil, err
	}
	format, err := export.ParseOutputFormat(string(cfg.Format))
	if err != nil {
		return nil, err
	}
	cfg.Format = format
	if cfg.OutputDir == "" {
		cfg.OutputDir = "."
	}
	if loader == nil {
		loader = LoaderFunc(source.Load)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{cfg: cfg, delim: delim, loader: loader, logger: logger}, nil
}

// Songs loads the document at path and segments it. Titles are normalized
// when the pipeline is configured to.
func (p *Pipeline) Songs(path string) ([]types.Song, error) {
	doc, err := p.loader.Load(path)
	if err != nil {
		return nil, err
	}

	songs := segment.Segment(doc.Text, p.delim)
	if p.cfg.Normalize {
		songs = segment.Normalize(songs, NormalizeMarker(p.cfg.Preset))
	}
	p.logger.Debug("segmented document",
		zap.String("path", path),
		zap.String("preset", p.cfg.Preset.Name),
		zap.Int("bytes", len(doc.Text)),
		zap.Int("songs", len(songs)),
	)
	return songs, nil
}

// OutputPath returns where the songs of the document at path are written.
func (p *Pipeline) OutputPath(path string) string {
	return filepath.Join(p.cfg.OutputDir, baseName(path)+p.cfg.Format.Ext())
}

// IndexPath returns where the first-line index of the document at path is
// written.
func (p *Pipeline) IndexPath(path string) string {
	return filepath.Join(p.cfg.OutputDir, baseName(path)+indexSuffix)
}

// ConvertFile converts a single document, writing the collection (and its
// index, if enabled) to the output directory. Existing output is skipped
// unless Force is set. Progress is reported to w.
func (p *Pipeline) ConvertFile(path string, w io.Writer) (types.ConversionStatus, int) {
	base := baseName(path)
	outPath := p.OutputPath(path)

	if !p.cfg.Force {
		if _, err := os.Stat(outPath); err == nil {
			fmt.Fprintf(w, "skipped: %s (already exists)\n", base)
			return types.ConversionSkipped, 0
		}
	}

	songs, err := p.Songs(path)
	if err != nil {
		fmt.Fprintf(w, "failed:  %s (%v)\n", base, err)
		return types.ConversionFailed, 0
	}

	err = export.WriteFileAtomic(outPath, func(out io.Writer) error {
		return export.WriteSongs(out, p.cfg.Format, base, songs)
	})
	if err != nil {
		fmt.Fprintf(w, "failed:  %s (%v)\n", base, err)
		return types.ConversionFailed, 0
	}

	if p.cfg.Index {
		entries := segment.BuildIndex(songs)
		err := export.WriteFileAtomic(p.IndexPath(path), func(out io.Writer) error {
			return export.WriteIndex(out, types.RowsCSV, entries)
		})
		if err != nil {
			fmt.Fprintf(w, "failed:  %s index (%v)\n", base, err)
			return types.ConversionFailed, 0
		}
	}

	if len(songs) == 0 {
		p.logger.Warn("delimiter not found", zap.String("path", path), zap.String("preset", p.cfg.Preset.Name))
	}
	fmt.Fprintf(w, "converted: %s (%d songs)\n", base, len(songs))
	return types.ConversionDone, len(songs)
}

// ConvertBatch converts paths in order, printing per-file status to w and
// returning a summary.
func (p *Pipeline) ConvertBatch(paths []string, w io.Writer) BatchResult {
	var result BatchResult
	for _, path := range paths {
		status, n := p.ConvertFile(path, w)
		switch status {
		case types.ConversionDone:
			result.Converted++
			result.Songs += n
		case types.ConversionSkipped:
			result.Skipped++
		case types.ConversionFailed:
			result.Failed++
		}
	}
	fmt.Fprintf(w, "\nBatch summary: %d converted, %d skipped, %d failed (total: %d, songs: %d)\n",
		result.Converted, result.Skipped, result.Failed, result.Total(), result.Songs)
	return result
}

// SourceFiles lists the convertible documents directly inside dir, sorted
// by name.
func SourceFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading source directory %s: %w", dir, err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") || !source.Supported(e.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

// NormalizeMarker returns the marker word used for canonical titles: the
// preset label when set, otherwise its marker.
func NormalizeMarker(p types.Preset) string {
	if p.Label != "" {
		return p.Label
	}
	return p.Marker
}

func baseName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}
