// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"fmt"
	"sort"

	"github.com/pdiddy/songbook/pkg/types"
)

const tamilSong = "பாடல்"

// builtinPresets covers the songbooks this tool was first written for.
var builtinPresets = []types.Preset{
	{Name: "aruthal", Marker: tamilSong},
	{Name: "sunday-school", Marker: tamilSong + "-", Label: tamilSong},
	{Name: "manamakizh", Marker: tamilSong, Numbered: true},
}

// Presets merges configured presets over the built-in ones. A configured
// preset replaces a built-in with the same name. The result is sorted by
// name.
func Presets(configured []types.Preset) []types.Preset {
	byName := make(map[string]types.Preset, len(builtinPresets)+len(configured))
	for _, p := range builtinPresets {
		byName[p.Name] = p
	}
	for _, p := range configured {
		if p.Name != "" {
			byName[p.Name] = p
		}
	}

	out := make([]types.Preset, 0, len(byName))
	for _, p := range byName {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// LookupPreset finds the preset called name among the built-in and
// configured presets.
func LookupPreset(name string, configured []types.Preset) (types.Preset, error) {
	for _, p := range Presets(configured) {
		if p.Name == name {
			return p, nil
		}
	}
	return types.Preset{}, fmt.Errorf("unknown preset %q", name)
}
