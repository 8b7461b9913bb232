// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package source loads lyrics documents (plain text, HTML, DOCX, PDF) into
// memory as Unicode NFC text, keeping paragraph and table structure where
// the format has it.
package source

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"golang.org/x/text/unicode/norm"
)

// ErrUnsupported is returned for document formats that cannot be read.
var ErrUnsupported = errors.New("unsupported document format")

// Document is a source file read fully into memory.
type Document struct {
	// Path is the file the document was loaded from.
	Path string

	// Text is the full document text. For DOCX it is the body paragraphs
	// joined by newlines.
	Text string

	// Paragraphs holds body paragraphs in order (lines, for plain text and
	// PDF). Paragraphs inside tables are not included.
	Paragraphs []string

	// Rows holds the rows of every table, in document order, as trimmed
	// cell text. Only DOCX documents have tables.
	Rows [][]string
}

// Extensions lists the file extensions Load understands.
var Extensions = []string{".txt", ".text", ".md", ".html", ".htm", ".docx", ".pdf"}

// Supported reports whether path has an extension Load understands.
func Supported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range Extensions {
		if e == ext {
			return true
		}
	}
	return false
}

// Load reads the document at path. The format is chosen by extension;
// unknown extensions are read as UTF-8 text.
func Load(path string) (*Document, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".doc" {
		return nil, fmt.Errorf("%s: %w (legacy .doc, save as .docx)", path, ErrUnsupported)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var doc *Document
	switch ext {
	case ".docx":
		doc, err = parseDOCX(data)
	case ".pdf":
		doc, err = parsePDF(data)
	case ".html", ".htm":
		doc, err = parseHTML(data)
	default:
		doc, err = parseText(data)
	}
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	doc.Path = path
	return doc, nil
}

// FromText builds a Document from in-memory text.
func FromText(text string) *Document {
	text = norm.NFC.String(strings.TrimPrefix(text, "\ufeff"))
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return &Document{
		Text:       text,
		Paragraphs: lines,
	}
}

func parseText(data []byte) (*Document, error) {
	if !utf8.Valid(data) {
		return nil, errors.New("text is not valid UTF-8")
	}
	return FromText(string(data)), nil
}

func parsePDF(data []byte) (*Document, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("opening PDF: %w", err)
	}
	plain, err := r.GetPlainText()
	if err != nil {
		return nil, fmt.Errorf("extracting PDF text: %w", err)
	}
	out, err := io.ReadAll(plain)
	if err != nil {
		return nil, fmt.Errorf("reading PDF text: %w", err)
	}
	return FromText(string(out)), nil
}
