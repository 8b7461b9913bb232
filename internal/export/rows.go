// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/pdiddy/songbook/pkg/types"
)

// IndexSheet is the worksheet name used for XLSX output.
const IndexSheet = "Index"

// IndexRows converts index entries into "key,position" rows.
func IndexRows(entries []types.IndexEntry) [][]string {
	rows := make([][]string, len(entries))
	for i, e := range entries {
		rows[i] = []string{e.Key, strconv.Itoa(e.Position)}
	}
	return rows
}

// WriteIndex writes index entries in the given row format.
func WriteIndex(w io.Writer, format types.RowFormat, entries []types.IndexEntry) error {
	switch format {
	case types.RowsCSV, "":
		return WriteRowsCSV(w, IndexRows(entries))
	case types.RowsXLSX:
		rows := make([][]any, len(entries))
		for i, e := range entries {
			rows[i] = []any{e.Key, e.Position}
		}
		return writeXLSX(w, rows)
	default:
		return fmt.Errorf("%w %q", ErrUnknownFormat, format)
	}
}

// WriteRows writes table rows in the given row format.
func WriteRows(w io.Writer, format types.RowFormat, rows [][]string) error {
	switch format {
	case types.RowsCSV, "":
		return WriteRowsCSV(w, rows)
	case types.RowsXLSX:
		cells := make([][]any, len(rows))
		for i, r := range rows {
			cells[i] = make([]any, len(r))
			for j, c := range r {
				cells[i][j] = c
			}
		}
		return writeXLSX(w, cells)
	default:
		return fmt.Errorf("%w %q", ErrUnknownFormat, format)
	}
}

// WriteRowsCSV writes rows as CSV without a header row.
func WriteRowsCSV(w io.Writer, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("writing CSV: %w", err)
	}
	return nil
}

// writeXLSX writes rows into the Index sheet of a new workbook.
func writeXLSX(w io.Writer, rows [][]any) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), IndexSheet); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("addressing row %d: %w", i+1, err)
		}
		row := r
		if err := f.SetSheetRow(IndexSheet, cell, &row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+1, err)
		}
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}
