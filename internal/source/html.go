// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// blockElements end the current line of text.
var blockElements = map[atom.Atom]bool{
	atom.Address: true, atom.Article: true, atom.Aside: true, atom.Blockquote: true,
	atom.Dd: true, atom.Div: true, atom.Dl: true, atom.Dt: true,
	atom.Figcaption: true, atom.Figure: true, atom.Footer: true, atom.Header: true,
	atom.Hr: true, atom.Li: true, atom.Main: true, atom.Nav: true,
	atom.Ol: true, atom.Pre: true, atom.Section: true, atom.Table: true,
	atom.Td: true, atom.Th: true, atom.Tr: true, atom.Ul: true,
}

// paragraphElements are additionally separated from their neighbours by a
// blank line, which keeps stanza breaks.
var paragraphElements = map[atom.Atom]bool{
	atom.P: true, atom.H1: true, atom.H2: true, atom.H3: true,
	atom.H4: true, atom.H5: true, atom.H6: true,
}

// skippedElements never contribute text.
var skippedElements = map[atom.Atom]bool{
	atom.Head: true, atom.Script: true, atom.Style: true,
	atom.Noscript: true, atom.Template: true, atom.Title: true,
}

// parseHTML reads a saved lyrics page as plain text. Text nodes are kept
// verbatim apart from whitespace folding; <br> and block elements end
// lines, and paragraphs are separated by a blank line.
func parseHTML(data []byte) (*Document, error) {
	root, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	node := root
	if body := findElement(root, atom.Body); body != nil {
		node = body
	}

	var w htmlText
	w.walk(node)
	return FromText(w.text()), nil
}

func findElement(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, a); found != nil {
			return found
		}
	}
	return nil
}

type htmlText struct {
	b   strings.Builder
	pre int
}

func (w *htmlText) walk(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		w.writeText(n.Data)
		return
	case html.ElementNode:
		if skippedElements[n.DataAtom] {
			return
		}
		if n.DataAtom == atom.Br {
			w.b.WriteByte('\n')
			return
		}
	}

	block := n.Type == html.ElementNode && blockElements[n.DataAtom]
	para := n.Type == html.ElementNode && paragraphElements[n.DataAtom]
	switch {
	case para:
		w.blankLine()
	case block:
		w.endLine()
	}
	if n.DataAtom == atom.Pre {
		w.pre++
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.walk(c)
	}

	if n.DataAtom == atom.Pre {
		w.pre--
	}
	switch {
	case para:
		w.blankLine()
	case block:
		w.endLine()
	}
}

func (w *htmlText) writeText(s string) {
	if w.pre > 0 {
		w.b.WriteString(s)
		return
	}
	if s == "" {
		return
	}
	folded := strings.Join(strings.Fields(s), " ")
	if isHTMLSpace(s[0]) {
		w.space()
	}
	if folded == "" {
		return
	}
	w.b.WriteString(folded)
	if isHTMLSpace(s[len(s)-1]) {
		w.space()
	}
}

// space separates inline text with one space, never at the start of a line.
func (w *htmlText) space() {
	if cur := w.b.String(); !w.atLineStart() && !strings.HasSuffix(cur, " ") {
		w.b.WriteByte(' ')
	}
}

func (w *htmlText) atLineStart() bool {
	cur := w.b.String()
	return cur == "" || strings.HasSuffix(cur, "\n")
}

func (w *htmlText) endLine() {
	if !w.atLineStart() {
		w.b.WriteByte('\n')
	}
}

func (w *htmlText) blankLine() {
	w.endLine()
	if cur := w.b.String(); cur != "" && !strings.HasSuffix(cur, "\n\n") {
		w.b.WriteByte('\n')
	}
}

// text returns the collected lines, each trimmed, with runs of blank lines
// folded to one and none at either end.
func (w *htmlText) text() string {
	var out []string
	for _, l := range strings.Split(w.b.String(), "\n") {
		l = strings.TrimSpace(l)
		if l == "" && (len(out) == 0 || out[len(out)-1] == "") {
			continue
		}
		out = append(out, l)
	}
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return strings.Join(out, "\n")
}

func isHTMLSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}
