// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/pdiddy/songbook/internal/export"
	"github.com/pdiddy/songbook/internal/segment"
	"github.com/pdiddy/songbook/internal/source"
	"github.com/pdiddy/songbook/internal/table"
	"github.com/pdiddy/songbook/pkg/types"
)

var indexCmd = &cobra.Command{
	Use:   "index <songs.json>",
	Short: "Build a first-line index of a song collection",
	Long: `Index reads a song collection written by convert and writes one row per
song: the first line of its lyrics and its 1-based position. Songs with
empty lyrics get an empty key.`,
	Args: cobra.ExactArgs(1),
	RunE: runIndex,
}

func runIndex(cmd *cobra.Command, args []string) error {
	in := args[0]
	format, err := rowFormatFlag(cmd)
	if err != nil {
		return err
	}

	songs, err := export.ReadJSON(in)
	if err != nil {
		return err
	}
	entries := segment.BuildIndex(songs)

	out, _ := cmd.Flags().GetString("out")
	if out == "" {
		out = siblingPath(in, "-index."+string(format))
	}
	err = export.WriteFileAtomic(out, func(w io.Writer) error {
		return export.WriteIndex(w, format, entries)
	})
	if err != nil {
		return err
	}

	fmt.Printf("Created index with %d entries at %s\n", len(entries), out)
	return nil
}

var tableCmd = &cobra.Command{
	Use:   "table <document>",
	Short: "Extract the rows of a document's index table",
	Long: `Table reads the tables of a DOCX document and writes every row as a
CSV or XLSX record. Documents without tables (plain text, PDF) are read
line by line, splitting columns at tabs or runs of two or more spaces.`,
	Args: cobra.ExactArgs(1),
	RunE: runTable,
}

func runTable(cmd *cobra.Command, args []string) error {
	in := args[0]
	format, err := rowFormatFlag(cmd)
	if err != nil {
		return err
	}

	doc, err := source.Load(in)
	if err != nil {
		return err
	}
	rows := table.Rows(doc)

	out, _ := cmd.Flags().GetString("out")
	if out == "" {
		out = siblingPath(in, "."+string(format))
	}
	err = export.WriteFileAtomic(out, func(w io.Writer) error {
		return export.WriteRows(w, format, rows)
	})
	if err != nil {
		return err
	}

	fmt.Printf("Extracted %d rows to %s\n", len(rows), out)
	return nil
}

func rowFormatFlag(cmd *cobra.Command) (types.RowFormat, error) {
	s, _ := cmd.Flags().GetString("format")
	return export.ParseRowFormat(s)
}

func init() {
	indexCmd.Flags().String("format", "csv", "index format: csv or xlsx")
	indexCmd.Flags().String("out", "", "output file (default: <name>-index.<format>)")

	tableCmd.Flags().String("format", "csv", "row format: csv or xlsx")
	tableCmd.Flags().String("out", "", "output file (default: <name>.<format>)")

	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(tableCmd)
}
