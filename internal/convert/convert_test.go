// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/songbook/internal/export"
	"github.com/pdiddy/songbook/internal/source"
	"github.com/pdiddy/songbook/pkg/types"
)

// fakeLoader returns canned documents or errors per path.
type fakeLoader struct {
	texts  map[string]string
	errors map[string]error
}

func (f *fakeLoader) Load(path string) (*source.Document, error) {
	if err, ok := f.errors[path]; ok {
		return nil, err
	}
	if text, ok := f.texts[path]; ok {
		return source.FromText(text), nil
	}
	return nil, errors.New("unexpected path: " + path)
}

func newPipeline(t *testing.T, cfg types.ConversionConfig, loader Loader) *Pipeline {
	t.Helper()
	p, err := New(cfg, loader, nil)
	require.NoError(t, err)
	return p
}

func TestConvertFile(t *testing.T) {
	tests := []struct {
		name       string
		loader     *fakeLoader
		preCreate  bool
		force      bool
		wantStatus types.ConversionStatus
		wantSongs  int
		wantLog    string
	}{
		{
			name:       "successful conversion",
			loader:     &fakeLoader{texts: map[string]string{"in/book.txt": "பாடல் 1\na\nபாடல் 2\nb"}},
			wantStatus: types.ConversionDone,
			wantSongs:  2,
			wantLog:    "converted: book (2 songs)",
		},
		{
			name:       "skip existing output",
			loader:     &fakeLoader{},
			preCreate:  true,
			wantStatus: types.ConversionSkipped,
			wantLog:    "skipped:",
		},
		{
			name:       "force overwrites existing output",
			loader:     &fakeLoader{texts: map[string]string{"in/book.txt": "பாடல் 1\na"}},
			preCreate:  true,
			force:      true,
			wantStatus: types.ConversionDone,
			wantSongs:  1,
			wantLog:    "converted:",
		},
		{
			name:       "load failure",
			loader:     &fakeLoader{errors: map[string]error{"in/book.txt": errors.New("corrupt archive")}},
			wantStatus: types.ConversionFailed,
			wantLog:    "failed:  book (corrupt archive)",
		},
		{
			name:       "delimiter never found",
			loader:     &fakeLoader{texts: map[string]string{"in/book.txt": "no songs here"}},
			wantStatus: types.ConversionDone,
			wantLog:    "converted: book (0 songs)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outDir := t.TempDir()
			if tt.preCreate {
				require.NoError(t, os.WriteFile(filepath.Join(outDir, "book.json"), []byte("[]"), 0o644))
			}

			cfg := types.ConversionConfig{
				Preset:    types.Preset{Name: "aruthal", Marker: "பாடல்"},
				OutputDir: outDir,
				Force:     tt.force,
			}
			p := newPipeline(t, cfg, tt.loader)

			var log bytes.Buffer
			status, n := p.ConvertFile("in/book.txt", &log)

			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantSongs, n)
			assert.Contains(t, log.String(), tt.wantLog)
		})
	}
}

func TestConvertFile_NormalizeAndIndex(t *testing.T) {
	outDir := t.TempDir()
	loader := &fakeLoader{texts: map[string]string{
		"sunday.txt": "Sunday school songs\nபாடல்-3\nஇயேசு நல்லவர்\nபாடல்- \nbody without number\n",
	}}
	cfg := types.ConversionConfig{
		Preset:    types.Preset{Name: "sunday-school", Marker: "பாடல்-", Label: "பாடல்"},
		Normalize: true,
		Index:     true,
		OutputDir: outDir,
	}
	p := newPipeline(t, cfg, loader)

	var log bytes.Buffer
	status, n := p.ConvertFile("sunday.txt", &log)
	require.Equal(t, types.ConversionDone, status, log.String())
	assert.Equal(t, 2, n)

	songs, err := export.ReadJSON(filepath.Join(outDir, "sunday.json"))
	require.NoError(t, err)
	assert.Equal(t, []types.Song{
		{Title: "பாடல் 3", Lyrics: "இயேசு நல்லவர்"},
		{Title: "பாடல் 2", Lyrics: "body without number"},
	}, songs)

	index, err := os.ReadFile(filepath.Join(outDir, "sunday-index.csv"))
	require.NoError(t, err)
	assert.Equal(t, "இயேசு நல்லவர்,1\nbody without number,2\n", string(index))
}

func TestConvertFile_Formats(t *testing.T) {
	tests := []struct {
		format   types.OutputFormat
		file     string
		contains string
	}{
		{types.OutputYAML, "book.yaml", "title: பாடல் 1"},
		{types.OutputMarkdown, "book.md", "## பாடல் 1"},
		{types.OutputHTML, "book.html", "<h2>பாடல் 1</h2>"},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			outDir := t.TempDir()
			loader := &fakeLoader{texts: map[string]string{"book.docx": "பாடல் 1\nline"}}
			cfg := types.ConversionConfig{
				Preset:    types.Preset{Name: "m", Marker: "பாடல்", Numbered: true},
				Format:    tt.format,
				OutputDir: outDir,
			}
			p := newPipeline(t, cfg, loader)

			status, _ := p.ConvertFile("book.docx", &bytes.Buffer{})
			require.Equal(t, types.ConversionDone, status)

			data, err := os.ReadFile(filepath.Join(outDir, tt.file))
			require.NoError(t, err)
			assert.Contains(t, string(data), tt.contains)
		})
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	_, err := New(types.ConversionConfig{Preset: types.Preset{Name: "x"}}, nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "marker or pattern required")

	_, err = New(types.ConversionConfig{
		Preset: types.Preset{Name: "x", Marker: "பாடல்"},
		Format: "docx",
	}, nil, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, export.ErrUnknownFormat))
}

func TestConvertBatch(t *testing.T) {
	outDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(outDir, "b.json"), []byte("[]"), 0o644))

	loader := &fakeLoader{
		texts: map[string]string{
			"a.txt": "பாடல் 1\nx\nபாடல் 2\ny\nபாடல் 3\nz",
			"b.txt": "பாடல் 1\nx",
		},
		errors: map[string]error{
			"c.txt": errors.New("bad document"),
		},
	}
	cfg := types.ConversionConfig{
		Preset:    types.Preset{Name: "aruthal", Marker: "பாடல்"},
		OutputDir: outDir,
	}
	p := newPipeline(t, cfg, loader)

	var log bytes.Buffer
	result := p.ConvertBatch([]string{"a.txt", "b.txt", "c.txt"}, &log)

	assert.Equal(t, 1, result.Converted)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, 3, result.Songs)
	assert.Equal(t, 3, result.Total())
	assert.True(t, result.HasFailures())
	assert.Contains(t, log.String(), "Batch summary:")
}

func TestConvertFile_RealLoader(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "aruthal.txt")
	require.NoError(t, os.WriteFile(in, []byte("முன்னுரை\nபாடல்1\nline A\nline B\nபாடல்2\nline C\n"), 0o644))

	cfg := types.ConversionConfig{
		Preset:    types.Preset{Name: "aruthal", Marker: "பாடல்"},
		OutputDir: filepath.Join(dir, "out"),
	}
	p := newPipeline(t, cfg, nil)

	var log bytes.Buffer
	status, n := p.ConvertFile(in, &log)
	require.Equal(t, types.ConversionDone, status, log.String())
	assert.Equal(t, 2, n)

	data, err := os.ReadFile(filepath.Join(dir, "out", "aruthal.json"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "[\n  {\n    \"title\": \"பாடல்1\""))
}

func TestConvertFile_HTMLLyricsVerbatim(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "songs.html")
	page := `<p>பாடல் 1<br>1. Hallelujah *Amen*<br>- chorus -<br>line_with_under [x]</p><p>பாடல் 2<br><b>line C</b></p>`
	require.NoError(t, os.WriteFile(in, []byte(page), 0o644))

	cfg := types.ConversionConfig{
		Preset:    types.Preset{Name: "html", Marker: "பாடல்"},
		OutputDir: filepath.Join(dir, "out"),
	}
	p := newPipeline(t, cfg, nil)

	var log bytes.Buffer
	status, n := p.ConvertFile(in, &log)
	require.Equal(t, types.ConversionDone, status, log.String())
	assert.Equal(t, 2, n)

	songs, err := export.ReadJSON(filepath.Join(dir, "out", "songs.json"))
	require.NoError(t, err)
	assert.Equal(t, []types.Song{
		{Title: "பாடல் 1", Lyrics: "1. Hallelujah *Amen*\n- chorus -\nline_with_under [x]"},
		{Title: "பாடல் 2", Lyrics: "line C"},
	}, songs)
}

func TestSourceFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.docx", "a.txt", "c.pdf", "notes.json", ".hidden.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.txt"), 0o755))

	got, err := SourceFiles(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.txt"),
		filepath.Join(dir, "b.docx"),
		filepath.Join(dir, "c.pdf"),
	}, got)

	_, err = SourceFiles(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestPresets(t *testing.T) {
	names := func(ps []types.Preset) []string {
		var out []string
		for _, p := range ps {
			out = append(out, p.Name)
		}
		return out
	}

	assert.Equal(t, []string{"aruthal", "manamakizh", "sunday-school"}, names(Presets(nil)))

	configured := []types.Preset{
		{Name: "aruthal", Marker: "Song"},
		{Name: "hymns", Marker: "Hymn", Numbered: true},
		{Marker: "nameless"},
	}
	all := Presets(configured)
	assert.Equal(t, []string{"aruthal", "hymns", "manamakizh", "sunday-school"}, names(all))

	p, err := LookupPreset("aruthal", configured)
	require.NoError(t, err)
	assert.Equal(t, "Song", p.Marker)

	p, err = LookupPreset("sunday-school", nil)
	require.NoError(t, err)
	assert.Equal(t, "பாடல்", NormalizeMarker(p))

	_, err = LookupPreset("missing", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown preset "missing"`)
}
