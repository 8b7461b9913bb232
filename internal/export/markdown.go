// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/pdiddy/songbook/pkg/types"
)

var (
	mdEscaper = strings.NewReplacer(
		`\`, `\\`, "`", "\\`", `*`, `\*`, `_`, `\_`,
		`[`, `\[`, `]`, `\]`, `<`, `\<`, `>`, `\>`, `#`, `\#`, `|`, `\|`,
	)
	listMarker = regexp.MustCompile(`^(\d+)([.)])`)
)

// WriteMarkdown writes songs as a Markdown songbook: the collection title as
// a level-one heading, each song title as a level-two heading, and lyric
// lines separated by hard line breaks.
func WriteMarkdown(w io.Writer, title string, songs []types.Song) error {
	var b strings.Builder
	if title != "" {
		fmt.Fprintf(&b, "# %s\n\n", escapeLine(title))
	}
	for _, s := range songs {
		fmt.Fprintf(&b, "## %s\n\n", escapeLine(s.Title))
		if s.Lyrics != "" {
			b.WriteString(lyricsMarkdown(s.Lyrics))
			b.WriteString("\n\n")
		}
	}
	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("writing Markdown: %w", err)
	}
	return nil
}

// lyricsMarkdown keeps blank lines as stanza breaks and turns every other
// line break into a Markdown hard break.
func lyricsMarkdown(lyrics string) string {
	lines := strings.Split(lyrics, "\n")
	var b strings.Builder
	for i, l := range lines {
		l = strings.TrimSpace(l)
		b.WriteString(escapeLine(l))
		if i == len(lines)-1 {
			break
		}
		next := strings.TrimSpace(lines[i+1])
		if l != "" && next != "" {
			b.WriteString("  ")
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func escapeLine(s string) string {
	s = mdEscaper.Replace(s)
	if strings.HasPrefix(s, "-") || strings.HasPrefix(s, "+") || strings.HasPrefix(s, "=") {
		s = `\` + s
	}
	return listMarker.ReplaceAllString(s, `$1\$2`)
}

var pageTemplate = template.Must(template.New("songbook").Parse(`<!DOCTYPE html>
<html lang="ta">
<head>
  <meta charset="utf-8">
  <title>{{.Title}}</title>
</head>
<body>
{{.Content}}</body>
</html>
`))

// WriteHTML renders the Markdown songbook to a standalone HTML page.
func WriteHTML(w io.Writer, title string, songs []types.Song) error {
	var md bytes.Buffer
	if err := WriteMarkdown(&md, title, songs); err != nil {
		return err
	}

	gm := goldmark.New()
	var body bytes.Buffer
	if err := gm.Convert(md.Bytes(), &body); err != nil {
		return fmt.Errorf("rendering HTML: %w", err)
	}

	data := struct {
		Title   string
		Content template.HTML
	}{Title: title, Content: template.HTML(body.String())}
	if err := pageTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("writing HTML: %w", err)
	}
	return nil
}
