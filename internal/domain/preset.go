package domain

import "fmt"

// Preset is a named style modifier applied to a generation request
type Preset string

const (
	PresetFuturistic       Preset = "Futuristic"
	PresetModernMinimalism Preset = "Modern Minimalism"
	PresetSurrealism       Preset = "Surrealism"
)

// DefaultPreset is selected until the user picks another one
const DefaultPreset = PresetFuturistic

// Presets lists the selectable presets in display order
var Presets = []Preset{
	PresetFuturistic,
	PresetModernMinimalism,
	PresetSurrealism,
}

// Valid reports whether p belongs to the preset set
func (p Preset) Valid() bool {
	for _, known := range Presets {
		if p == known {
			return true
		}
	}
	return false
}

func (p Preset) String() string {
	return string(p)
}

// ParsePreset converts user input into a Preset
func ParsePreset(s string) (Preset, error) {
	p := Preset(s)
	if !p.Valid() {
		return "", fmt.Errorf("unknown preset %q", s)
	}
	return p, nil
}
