// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package segment

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/pdiddy/songbook/pkg/types"
)

// Match is one delimiter occurrence in a document. Start and End are byte
// offsets; Number holds the captured song number, if the delimiter
// captures one.
type Match struct {
	Start  int
	End    int
	Number string
}

// Delimiter locates the recurring title marker that opens every song.
// Literal and pattern delimiters implement it.
type Delimiter interface {
	// Matches returns all non-overlapping, non-empty occurrences in text,
	// in order.
	Matches(text string) []Match

	// Label returns the canonical title prefix, or "" to keep the matched
	// text as the title prefix.
	Label() string
}

type literal struct {
	marker string
}

// Literal returns a Delimiter matching exact occurrences of marker.
func Literal(marker string) Delimiter {
	return literal{marker: marker}
}

func (l literal) Matches(text string) []Match {
	if l.marker == "" {
		return nil
	}
	var out []Match
	for pos := 0; pos < len(text); {
		i := strings.Index(text[pos:], l.marker)
		if i < 0 {
			break
		}
		start := pos + i
		end := start + len(l.marker)
		out = append(out, Match{Start: start, End: end})
		pos = end
	}
	return out
}

func (l literal) Label() string { return "" }

type pattern struct {
	re    *regexp.Regexp
	label string
}

// Pattern compiles expr into a Delimiter. When expr has a capture group,
// its first group is taken as the song number and titles are rebuilt as
// "<label> <number>".
func Pattern(expr, label string) (Delimiter, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("compiling delimiter pattern %q: %w", expr, err)
	}
	return pattern{re: re, label: label}, nil
}

// Numbered returns a Delimiter matching marker, an optional dash and a run
// of digits, e.g. "பாடல் 12", "பாடல்-12" or "பாடல் - 12". Titles become
// "<marker> <number>".
func Numbered(marker string) Delimiter {
	return pattern{re: numberPattern(marker), label: marker}
}

func (p pattern) Matches(text string) []Match {
	var out []Match
	capture := p.re.NumSubexp() > 0
	for _, loc := range p.re.FindAllStringSubmatchIndex(text, -1) {
		if loc[0] == loc[1] {
			continue
		}
		m := Match{Start: loc[0], End: loc[1]}
		if capture && loc[2] >= 0 {
			m.Number = text[loc[2]:loc[3]]
		}
		out = append(out, m)
	}
	return out
}

func (p pattern) Label() string { return p.label }

type labeled struct {
	Delimiter
	label string
}

// WithLabel wraps d so that titles start with label instead of the matched
// marker text.
func WithLabel(d Delimiter, label string) Delimiter {
	if label == "" {
		return d
	}
	return labeled{Delimiter: d, label: label}
}

func (l labeled) Label() string { return l.label }

// FromPreset builds the Delimiter described by a collection preset. Marker,
// label and pattern are NFC-normalized to match loaded documents.
func FromPreset(p types.Preset) (Delimiter, error) {
	p.Marker = norm.NFC.String(p.Marker)
	p.Label = norm.NFC.String(p.Label)
	p.Pattern = norm.NFC.String(p.Pattern)

	switch {
	case p.Pattern != "":
		label := p.Label
		if label == "" {
			label = p.Marker
		}
		return Pattern(p.Pattern, label)
	case p.Marker == "":
		return nil, fmt.Errorf("preset %q: marker or pattern required", p.Name)
	case p.Numbered:
		return WithLabel(Numbered(p.Marker), p.Label), nil
	default:
		return WithLabel(Literal(p.Marker), p.Label), nil
	}
}

// numberPattern matches marker followed by an optional dash and the digits
// of a song number, captured in group 1.
func numberPattern(marker string) *regexp.Regexp {
	return regexp.MustCompile(regexp.QuoteMeta(marker) + `\s*-?\s*(\p{Nd}+)`)
}
