// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Preset names a delimiter configuration for one song collection.
type Preset struct {
	// Name identifies the preset on the command line (e.g. "sunday-school").
	Name string `json:"name" yaml:"name" mapstructure:"name"`

	// Marker is the recurring title marker that opens every song.
	Marker string `json:"marker" yaml:"marker" mapstructure:"marker"`

	// Label, when set, replaces the matched marker at the start of each
	// title (e.g. marker "பாடல்-" with label "பாடல்").
	Label string `json:"label,omitempty" yaml:"label,omitempty" mapstructure:"label"`

	// Numbered matches the marker followed by an optional dash and digits
	// and rebuilds titles as "<label or marker> <number>".
	Numbered bool `json:"numbered,omitempty" yaml:"numbered,omitempty" mapstructure:"numbered"`

	// Pattern is an explicit regular expression used instead of Marker for
	// matching. Its first capture group, if any, is the song number.
	Pattern string `json:"pattern,omitempty" yaml:"pattern,omitempty" mapstructure:"pattern"`
}

// OutputFormat selects how a song collection is serialized.
type OutputFormat string

const (
	OutputJSON     OutputFormat = "json"
	OutputYAML     OutputFormat = "yaml"
	OutputMarkdown OutputFormat = "markdown"
	OutputHTML     OutputFormat = "html"
)

// Ext returns the file extension, with leading dot, for the format.
func (f OutputFormat) Ext() string {
	switch f {
	case OutputYAML:
		return ".yaml"
	case OutputMarkdown:
		return ".md"
	case OutputHTML:
		return ".html"
	default:
		return ".json"
	}
}

// RowFormat selects how index and table rows are serialized.
type RowFormat string

const (
	RowsCSV  RowFormat = "csv"
	RowsXLSX RowFormat = "xlsx"
)

// ConversionConfig holds settings for the convert stage.
type ConversionConfig struct {
	// Preset is the delimiter configuration used to split documents.
	Preset Preset `json:"preset" yaml:"preset"`

	// Normalize rewrites every title to "<marker> <number>" after
	// segmentation.
	Normalize bool `json:"normalize" yaml:"normalize"`

	// Format selects the songs output format (default json).
	Format OutputFormat `json:"format" yaml:"format"`

	// Index also writes a first-line index CSV next to the songs file.
	Index bool `json:"index" yaml:"index"`

	// OutputDir is the directory that receives converted collections.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// Force overwrites outputs that already exist.
	Force bool `json:"force" yaml:"force"`
}

// LibraryConfig holds settings for the song library.
type LibraryConfig struct {
	// Dir is the directory holding songbook.db and exports.
	Dir string `json:"dir" yaml:"dir"`

	// MaxResults is the default maximum number of search results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}
