// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package table flattens index documents into rows of cell text.
package table

import (
	"regexp"
	"strings"

	"github.com/pdiddy/songbook/internal/source"
)

var spaceRun = regexp.MustCompile(` {2,}`)

// Rows returns the table rows of doc. Documents without tables fall back to
// their paragraphs: blank paragraphs are skipped, a paragraph holding a tab
// splits on tabs, one holding a run of two or more spaces splits on those
// runs (empty pieces dropped), and anything else is a single column.
func Rows(doc *source.Document) [][]string {
	if len(doc.Rows) > 0 {
		rows := make([][]string, len(doc.Rows))
		for i, r := range doc.Rows {
			cells := make([]string, len(r))
			for j, c := range r {
				cells[j] = strings.TrimSpace(c)
			}
			rows[i] = cells
		}
		return rows
	}

	var rows [][]string
	for _, p := range doc.Paragraphs {
		if row := splitParagraph(p); row != nil {
			rows = append(rows, row)
		}
	}
	return rows
}

func splitParagraph(p string) []string {
	text := strings.TrimSpace(p)
	switch {
	case text == "":
		return nil
	case strings.Contains(text, "\t"):
		return strings.Split(text, "\t")
	case spaceRun.MatchString(text):
		var cols []string
		for _, c := range spaceRun.Split(text, -1) {
			if c = strings.TrimSpace(c); c != "" {
				cols = append(cols, c)
			}
		}
		return cols
	default:
		return []string{text}
	}
}
