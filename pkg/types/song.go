// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ConversionStatus indicates the outcome of converting one source document
// into a song collection.
type ConversionStatus string

const (
	ConversionDone    ConversionStatus = "converted"
	ConversionSkipped ConversionStatus = "skipped"
	ConversionFailed  ConversionStatus = "failed"
)

// Song is one record segmented out of a lyrics document. Both fields are
// trimmed; Lyrics keeps its internal line breaks with trailing whitespace
// removed from every line.
type Song struct {
	// Title is derived from the delimiter occurrence that opened the song
	// (e.g. "பாடல் 12").
	Title string `json:"title" yaml:"title"`

	// Lyrics is the text between the title line and the next delimiter.
	Lyrics string `json:"lyrics" yaml:"lyrics"`
}

// IndexEntry pairs the first lyric line of a song with its 1-based position
// in the collection.
type IndexEntry struct {
	Key      string `json:"key" yaml:"key"`
	Position int    `json:"position" yaml:"position"`
}

// LibrarySong is a Song stored in the song library.
type LibrarySong struct {
	Song `yaml:",inline"`

	// ID is a deterministic UUID derived from collection, position and title.
	ID string `json:"id" yaml:"id"`

	// Collection names the songbook the song was ingested from.
	Collection string `json:"collection" yaml:"collection"`

	// Position is the 1-based position of the song in its collection.
	Position int `json:"position" yaml:"position"`

	// FirstLine is the index key of the song (first lyric line).
	FirstLine string `json:"first_line" yaml:"first_line"`
}
