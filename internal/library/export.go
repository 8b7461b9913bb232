// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package library

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/songbook/internal/export"
	"github.com/pdiddy/songbook/pkg/types"
)

const exportLimit = 1000000

// ExportYAML writes the library (or the subset selected by opts) to
// dir/export.yaml and returns the path written.
func (s *Store) ExportYAML(ctx context.Context, opts QueryOptions) (string, error) {
	songs, err := s.exportSongs(ctx, opts)
	if err != nil {
		return "", err
	}

	path := filepath.Join(s.dir, "export.yaml")
	err = export.WriteFileAtomic(path, func(w io.Writer) error {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(songs); err != nil {
			return fmt.Errorf("marshaling YAML: %w", err)
		}
		return enc.Close()
	})
	return path, err
}

// ExportJSON writes the library (or the subset selected by opts) to
// dir/export.json and returns the path written.
func (s *Store) ExportJSON(ctx context.Context, opts QueryOptions) (string, error) {
	songs, err := s.exportSongs(ctx, opts)
	if err != nil {
		return "", err
	}

	path := filepath.Join(s.dir, "export.json")
	err = export.WriteFileAtomic(path, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if err := enc.Encode(songs); err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		return nil
	})
	return path, err
}

func (s *Store) exportSongs(ctx context.Context, opts QueryOptions) ([]types.LibrarySong, error) {
	if opts.MaxResults <= 0 {
		opts.MaxResults = exportLimit
	}
	songs, err := s.Search(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}
	return songs, nil
}
