// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package segment splits lyrics documents into songs on a recurring title
// marker, normalizes song titles, and builds first-line indexes.
package segment

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/pdiddy/songbook/pkg/types"
)

// Segment splits document into songs at every occurrence of d. Each song
// spans from one occurrence up to the next (or the end of the document).
// The title line is the occurrence plus the rest of its line; the lines
// after it form the lyrics.
//
// Text before the first occurrence is preamble and is dropped, as is any
// span holding nothing but whitespace after the delimiter. A document
// without occurrences yields an empty, non-nil slice.
func Segment(document string, d Delimiter) []types.Song {
	songs := []types.Song{}
	if document == "" || d == nil {
		return songs
	}

	matches := d.Matches(document)
	for i, m := range matches {
		end := len(document)
		if i+1 < len(matches) {
			end = matches[i+1].Start
		}
		if song, ok := buildSong(document[m.Start:end], m.End-m.Start, m.Number, d.Label()); ok {
			songs = append(songs, song)
		}
	}
	return songs
}

// buildSong turns one span into a Song. matchLen is the length of the
// delimiter occurrence at the start of span.
func buildSong(span string, matchLen int, number, label string) (types.Song, bool) {
	rest := span[matchLen:]
	if strings.TrimSpace(rest) == "" {
		return types.Song{}, false
	}

	head, tail, _ := strings.Cut(rest, "\n")

	var (
		title string
		lines []string
	)
	switch {
	case number != "":
		// The number is the identity of the song; whatever follows it on
		// the title line belongs to the lyrics.
		if label != "" {
			title = label + " " + number
		} else {
			title = collapse(span[:matchLen])
		}
		if strings.TrimSpace(head) != "" {
			lines = append(lines, head)
		}
	case label != "":
		title = collapse(label + " " + head)
	default:
		title = collapse(span[:matchLen] + head)
	}

	lines = append(lines, strings.Split(tail, "\n")...)
	return types.Song{Title: title, Lyrics: joinLines(lines)}, true
}

// joinLines right-trims every line and joins them, trimming the result.
func joinLines(lines []string) string {
	for i, l := range lines {
		lines[i] = strings.TrimRightFunc(l, unicode.IsSpace)
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// collapse trims s and folds internal whitespace runs into single spaces.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Normalize returns songs with every title rewritten to "<marker> <N>".
// N is the number found after marker in the existing title, or the song's
// 1-based position when the title carries none. Lyrics are untouched and
// the input slice is not modified. Duplicate titles are left as they are.
func Normalize(songs []types.Song, marker string) []types.Song {
	marker = norm.NFC.String(marker)
	re := numberPattern(marker)
	out := make([]types.Song, len(songs))
	for i, s := range songs {
		n := strconv.Itoa(i + 1)
		if m := re.FindStringSubmatch(s.Title); m != nil {
			n = m[1]
		}
		out[i] = types.Song{
			Title:  strings.TrimSpace(marker + " " + n),
			Lyrics: s.Lyrics,
		}
	}
	return out
}

// BuildIndex returns one entry per song, in order, keyed by the first line
// of its lyrics. Keys are neither deduplicated nor sorted.
func BuildIndex(songs []types.Song) []types.IndexEntry {
	entries := make([]types.IndexEntry, len(songs))
	for i, s := range songs {
		entries[i] = types.IndexEntry{
			Key:      FirstLine(s.Lyrics),
			Position: i + 1,
		}
	}
	return entries
}

// FirstLine returns the trimmed first line of lyrics.
func FirstLine(lyrics string) string {
	first, _, _ := strings.Cut(lyrics, "\n")
	return strings.TrimSpace(first)
}
