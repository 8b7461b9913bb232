// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

const docxBodyPart = "word/document.xml"

// parseDOCX reads the main document part of a DOCX archive.
func parseDOCX(data []byte) (*Document, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("opening DOCX archive: %w", err)
	}

	var part *zip.File
	for _, f := range r.File {
		if strings.EqualFold(f.Name, docxBodyPart) {
			part = f
			break
		}
	}
	if part == nil {
		return nil, fmt.Errorf("DOCX archive has no %s", docxBodyPart)
	}

	rc, err := part.Open()
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", docxBodyPart, err)
	}
	defer rc.Close()

	return parseDocumentXML(rc)
}

// docxWalker accumulates paragraphs and table rows while streaming
// WordprocessingML tokens.
type docxWalker struct {
	doc Document

	para     strings.Builder
	row      []string
	cellText []string
	span     int

	tableDepth    int
	runDepth      int
	fallbackDepth int
}

// parseDocumentXML extracts body paragraphs and table rows from
// word/document.xml. Runs contribute <w:t> text, <w:tab/> as a tab and
// <w:br/>, <w:cr/> as line breaks. Paragraphs inside table cells are joined
// with newlines into the cell text; nested tables fold into their outer
// cell. A cell spanning several grid columns (w:gridSpan) repeats its text
// once per column. mc:Fallback content duplicates mc:Choice and is skipped.
func parseDocumentXML(r io.Reader) (*Document, error) {
	dec := xml.NewDecoder(r)
	w := &docxWalker{}

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", docxBodyPart, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if err := w.start(dec, t); err != nil {
				return nil, err
			}
		case xml.EndElement:
			w.end(t)
		}
	}

	w.doc.Text = strings.Join(w.doc.Paragraphs, "\n")
	return &w.doc, nil
}

func (w *docxWalker) start(dec *xml.Decoder, t xml.StartElement) error {
	if t.Name.Local == "Fallback" {
		w.fallbackDepth++
		return nil
	}
	if w.fallbackDepth > 0 {
		return nil
	}

	switch t.Name.Local {
	case "tbl":
		w.tableDepth++
	case "tr":
		if w.tableDepth == 1 {
			w.row = nil
		}
	case "tc":
		if w.tableDepth == 1 {
			w.cellText = nil
			w.span = 1
		}
	case "gridSpan":
		if w.tableDepth == 1 {
			w.span = gridSpan(t)
		}
	case "r":
		w.runDepth++
	case "t":
		if w.runDepth == 0 {
			return nil
		}
		var text string
		if err := dec.DecodeElement(&text, &t); err != nil {
			return fmt.Errorf("decoding text run: %w", err)
		}
		w.para.WriteString(text)
	case "tab":
		if w.runDepth > 0 {
			w.para.WriteByte('\t')
		}
	case "br", "cr":
		if w.runDepth > 0 {
			w.para.WriteByte('\n')
		}
	}
	return nil
}

func (w *docxWalker) end(t xml.EndElement) {
	if t.Name.Local == "Fallback" {
		w.fallbackDepth--
		return
	}
	if w.fallbackDepth > 0 {
		return
	}

	switch t.Name.Local {
	case "p":
		text := norm.NFC.String(w.para.String())
		w.para.Reset()
		if w.tableDepth == 0 {
			w.doc.Paragraphs = append(w.doc.Paragraphs, text)
		} else {
			w.cellText = append(w.cellText, text)
		}
	case "r":
		w.runDepth--
	case "tc":
		if w.tableDepth == 1 {
			text := strings.TrimSpace(strings.Join(w.cellText, "\n"))
			for range max(w.span, 1) {
				w.row = append(w.row, text)
			}
		}
	case "tr":
		if w.tableDepth == 1 {
			w.doc.Rows = append(w.doc.Rows, w.row)
			w.row = nil
		}
	case "tbl":
		w.tableDepth--
	}
}

// gridSpan reads the w:val of a w:gridSpan element. Missing or malformed
// values count as a single column.
func gridSpan(t xml.StartElement) int {
	for _, a := range t.Attr {
		if a.Name.Local != "val" {
			continue
		}
		if n, err := strconv.Atoi(strings.TrimSpace(a.Value)); err == nil && n > 0 {
			return n
		}
	}
	return 1
}
