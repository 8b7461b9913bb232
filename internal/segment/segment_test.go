// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package segment

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/songbook/pkg/types"
)

const marker = "பாடல்"

func TestSegment(t *testing.T) {
	tests := []struct {
		name  string
		doc   string
		delim Delimiter
		want  []types.Song
	}{
		{
			name:  "literal marker splits songs",
			doc:   "பாடல்1\nline A\nline B\nபாடல்2\nline C",
			delim: Literal(marker),
			want: []types.Song{
				{Title: "பாடல்1", Lyrics: "line A\nline B"},
				{Title: "பாடல்2", Lyrics: "line C"},
			},
		},
		{
			name:  "preamble before first marker is dropped",
			doc:   "Songs for the youth camp\nedition 3\n\nபாடல் 1\nfirst\n",
			delim: Literal(marker),
			want: []types.Song{
				{Title: "பாடல் 1", Lyrics: "first"},
			},
		},
		{
			name:  "trailing whitespace on lyric lines is trimmed",
			doc:   "பாடல் 1  \r\n  line A   \r\nline B\t\r\n\r\n",
			delim: Literal(marker),
			want: []types.Song{
				{Title: "பாடல் 1", Lyrics: "line A\nline B"},
			},
		},
		{
			name:  "whitespace-only span is discarded",
			doc:   "பாடல்   \n\nபாடல்2\nline",
			delim: Literal(marker),
			want: []types.Song{
				{Title: "பாடல்2", Lyrics: "line"},
			},
		},
		{
			name:  "title without lyrics is kept",
			doc:   "பாடல் 7\n",
			delim: Literal(marker),
			want: []types.Song{
				{Title: "பாடல் 7", Lyrics: ""},
			},
		},
		{
			name:  "label replaces consumed marker",
			doc:   "பாடல்- 1\nline A\nபாடல்-2\nline B",
			delim: WithLabel(Literal("பாடல்-"), marker),
			want: []types.Song{
				{Title: "பாடல் 1", Lyrics: "line A"},
				{Title: "பாடல் 2", Lyrics: "line B"},
			},
		},
		{
			name:  "numbered marker rebuilds canonical titles",
			doc:   "பாடல் - 12\nline A\nபாடல்13\nline B\nபாடல் -14\nline C",
			delim: Numbered(marker),
			want: []types.Song{
				{Title: "பாடல் 12", Lyrics: "line A"},
				{Title: "பாடல் 13", Lyrics: "line B"},
				{Title: "பாடல் 14", Lyrics: "line C"},
			},
		},
		{
			name:  "numbered marker keeps Tamil digits",
			doc:   "பாடல் ௧௨\nline A\nபாடல்-௧௩\nline B",
			delim: Numbered(marker),
			want: []types.Song{
				{Title: "பாடல் ௧௨", Lyrics: "line A"},
				{Title: "பாடல் ௧௩", Lyrics: "line B"},
			},
		},
		{
			name:  "text after numbered title moves into lyrics",
			doc:   "பாடல் 3 Praise Him\nline A",
			delim: Numbered(marker),
			want: []types.Song{
				{Title: "பாடல் 3", Lyrics: "Praise Him\nline A"},
			},
		},
		{
			name:  "numbered marker without digits is not a boundary",
			doc:   "பாடல் 1\nபாடல் means song\nபாடல் 2\nline",
			delim: Numbered(marker),
			want: []types.Song{
				{Title: "பாடல் 1", Lyrics: "பாடல் means song"},
				{Title: "பாடல் 2", Lyrics: "line"},
			},
		},
		{
			name:  "repeated titles are not deduplicated",
			doc:   "பாடல் 1\na\nபாடல் 1\nb",
			delim: Numbered(marker),
			want: []types.Song{
				{Title: "பாடல் 1", Lyrics: "a"},
				{Title: "பாடல் 1", Lyrics: "b"},
			},
		},
		{
			name:  "marker never occurs",
			doc:   "just some text\nwithout songs",
			delim: Literal(marker),
			want:  []types.Song{},
		},
		{
			name:  "empty document",
			doc:   "",
			delim: Literal(marker),
			want:  []types.Song{},
		},
		{
			name:  "empty literal marker matches nothing",
			doc:   "பாடல் 1\nline",
			delim: Literal(""),
			want:  []types.Song{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Segment(tt.doc, tt.delim)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSegment_CountMatchesOccurrences(t *testing.T) {
	for k := 0; k <= 5; k++ {
		var b strings.Builder
		b.WriteString("preamble\n")
		for i := 1; i <= k; i++ {
			b.WriteString("பாடல் ")
			b.WriteString(strings.Repeat("x", i))
			b.WriteString("\nlyrics line\n\n")
		}
		assert.Len(t, Segment(b.String(), Literal(marker)), k, "k=%d", k)
	}
}

func TestSegment_ReconstructsDocument(t *testing.T) {
	doc := "intro\nபாடல் 1\nline A\n  line B\nபாடல் 2\nline C\n"
	songs := Segment(doc, Literal(marker))
	require.Len(t, songs, 2)

	var parts []string
	for _, s := range songs {
		parts = append(parts, s.Title, s.Lyrics)
	}
	rebuilt := strings.Fields(strings.Join(parts, "\n"))

	_, body, found := strings.Cut(doc, "\n")
	require.True(t, found)
	assert.Equal(t, strings.Fields(body), rebuilt)
}

func TestPattern(t *testing.T) {
	d, err := Pattern(`Hymn\s+(\d+)`, "Hymn")
	require.NoError(t, err)

	got := Segment("Hymn 4\nAmazing grace\nHymn  5\nHow great", d)
	assert.Equal(t, []types.Song{
		{Title: "Hymn 4", Lyrics: "Amazing grace"},
		{Title: "Hymn 5", Lyrics: "How great"},
	}, got)
}

func TestPattern_WithoutCaptureKeepsMatchedText(t *testing.T) {
	d, err := Pattern(`(?m)^Song\b`, "")
	require.NoError(t, err)

	got := Segment("Song One\nla la\nSong Two\nlo lo", d)
	assert.Equal(t, []types.Song{
		{Title: "Song One", Lyrics: "la la"},
		{Title: "Song Two", Lyrics: "lo lo"},
	}, got)
}

func TestPattern_Invalid(t *testing.T) {
	_, err := Pattern(`(unclosed`, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "compiling delimiter pattern")
}

func TestFromPreset(t *testing.T) {
	tests := []struct {
		name    string
		preset  types.Preset
		doc     string
		want    []string
		wantErr string
	}{
		{
			name:   "literal",
			preset: types.Preset{Name: "aruthal", Marker: marker},
			doc:    "பாடல்1\na\nபாடல்2\nb",
			want:   []string{"பாடல்1", "பாடல்2"},
		},
		{
			name:   "literal with label",
			preset: types.Preset{Name: "sunday-school", Marker: "பாடல்-", Label: marker},
			doc:    "பாடல்-1\na\nபாடல்-2\nb",
			want:   []string{"பாடல் 1", "பாடல் 2"},
		},
		{
			name:   "numbered",
			preset: types.Preset{Name: "manamakizh", Marker: marker, Numbered: true},
			doc:    "பாடல் -1\na\nபாடல்2\nb",
			want:   []string{"பாடல் 1", "பாடல் 2"},
		},
		{
			name:   "explicit pattern falls back to marker label",
			preset: types.Preset{Name: "hymns", Marker: "Hymn", Pattern: `Hymn #(\d+)`},
			doc:    "Hymn #9\na",
			want:   []string{"Hymn 9"},
		},
		{
			name:   "decomposed marker matches composed document",
			preset: types.Preset{Name: "nfc", Marker: "\u0b95\u0bc6\u0bbe"},
			doc:    "\u0b95\u0bca 1\na\n\u0b95\u0bca 2\nb",
			want:   []string{"\u0b95\u0bca 1", "\u0b95\u0bca 2"},
		},
		{
			name:   "decomposed numbered marker and label are composed",
			preset: types.Preset{Name: "nfc", Marker: "\u0b95\u0bc6\u0bbe-", Label: "\u0b95\u0bc6\u0bbe", Numbered: true},
			doc:    "\u0b95\u0bca-1\na",
			want:   []string{"\u0b95\u0bca 1"},
		},
		{
			name:    "missing marker",
			preset:  types.Preset{Name: "broken"},
			wantErr: "marker or pattern required",
		},
		{
			name:    "bad pattern",
			preset:  types.Preset{Name: "broken", Pattern: `[`},
			wantErr: "compiling delimiter pattern",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := FromPreset(tt.preset)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)

			var titles []string
			for _, s := range Segment(tt.doc, d) {
				titles = append(titles, s.Title)
			}
			assert.Equal(t, tt.want, titles)
		})
	}
}

func TestNormalize(t *testing.T) {
	in := []types.Song{
		{Title: "பாடல்-12", Lyrics: "a"},
		{Title: "Untitled", Lyrics: "b"},
		{Title: "பாடல் - 3 (chorus)", Lyrics: "c"},
		{Title: "", Lyrics: "d"},
	}
	got := Normalize(in, marker)

	assert.Equal(t, []types.Song{
		{Title: "பாடல் 12", Lyrics: "a"},
		{Title: "பாடல் 2", Lyrics: "b"},
		{Title: "பாடல் 3", Lyrics: "c"},
		{Title: "பாடல் 4", Lyrics: "d"},
	}, got)
	assert.Equal(t, "Untitled", in[1].Title, "input must not be modified")
}

func TestNormalize_TamilDigits(t *testing.T) {
	in := []types.Song{
		{Title: "பாடல் ௧௨", Lyrics: "a"},
		{Title: "பாடல்-௧௩", Lyrics: "b"},
	}
	assert.Equal(t, []types.Song{
		{Title: "பாடல் ௧௨", Lyrics: "a"},
		{Title: "பாடல் ௧௩", Lyrics: "b"},
	}, Normalize(in, marker))
}

func TestNormalize_DecomposedMarker(t *testing.T) {
	in := []types.Song{{Title: "\u0b95\u0bca 4", Lyrics: "a"}}
	got := Normalize(in, "\u0b95\u0bc6\u0bbe")
	assert.Equal(t, []types.Song{{Title: "\u0b95\u0bca 4", Lyrics: "a"}}, got)
}

func TestNormalize_Idempotent(t *testing.T) {
	in := []types.Song{
		{Title: "பாடல்7"},
		{Title: "no number"},
		{Title: "பாடல் 7"},
	}
	once := Normalize(in, marker)
	assert.Equal(t, once, Normalize(once, marker))
}

func TestNormalize_Empty(t *testing.T) {
	assert.Empty(t, Normalize(nil, marker))
}

func TestBuildIndex(t *testing.T) {
	songs := []types.Song{
		{Title: "பாடல் 1", Lyrics: "  Amazing grace  \nhow sweet"},
		{Title: "பாடல் 2", Lyrics: "Amazing grace"},
		{Title: "பாடல் 3", Lyrics: ""},
	}
	assert.Equal(t, []types.IndexEntry{
		{Key: "Amazing grace", Position: 1},
		{Key: "Amazing grace", Position: 2},
		{Key: "", Position: 3},
	}, BuildIndex(songs))
}
