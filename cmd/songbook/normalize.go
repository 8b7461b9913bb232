// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/songbook/internal/convert"
	"github.com/pdiddy/songbook/internal/export"
	"github.com/pdiddy/songbook/internal/segment"
)

var normalizeCmd = &cobra.Command{
	Use:   "normalize <songs.json>",
	Short: "Rewrite song titles as a uniform numbered sequence",
	Long: `Normalize reads a song collection written by convert and replaces every
title with "<marker> <N>", numbering songs from 1 in order. Lyrics are
unchanged. The marker defaults to the preset's label (or marker).`,
	Args: cobra.ExactArgs(1),
	RunE: runNormalize,
}

func runNormalize(cmd *cobra.Command, args []string) error {
	in := args[0]

	marker, _ := cmd.Flags().GetString("marker")
	if marker == "" {
		configured, err := configuredPresets()
		if err != nil {
			return err
		}
		preset, err := convert.LookupPreset(presetName(cmd), configured)
		if err != nil {
			return err
		}
		marker = convert.NormalizeMarker(preset)
	}

	songs, err := export.ReadJSON(in)
	if err != nil {
		return err
	}
	normalized := segment.Normalize(songs, marker)

	out, _ := cmd.Flags().GetString("out")
	if out == "" {
		out = siblingPath(in, "-normalized.json")
	}
	err = export.WriteFileAtomic(out, func(w io.Writer) error {
		return export.WriteJSON(w, normalized)
	})
	if err != nil {
		return err
	}

	fmt.Printf("Normalized %d songs to %s\n", len(normalized), out)
	return nil
}

// presetName returns --preset when given, else the configured default.
func presetName(cmd *cobra.Command) string {
	if cmd.Flags().Changed("preset") {
		name, _ := cmd.Flags().GetString("preset")
		return name
	}
	if name := viper.GetString("convert.preset"); name != "" {
		return name
	}
	return "aruthal"
}

// siblingPath returns the path next to path with its extension replaced by
// suffix.
func siblingPath(path, suffix string) string {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return filepath.Join(filepath.Dir(path), base+suffix)
}

func init() {
	normalizeCmd.Flags().String("marker", "", "title marker for canonical titles (default: from --preset)")
	normalizeCmd.Flags().String("preset", "aruthal", "preset whose label or marker is used when --marker is empty")
	normalizeCmd.Flags().String("out", "", "output file (default: <name>-normalized.json)")

	rootCmd.AddCommand(normalizeCmd)
}
