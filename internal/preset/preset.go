// Package preset defines the named motion presets selectable at runtime.
// The table is built once at startup and never mutated; callers always
// receive value copies.
package preset

import (
	"fmt"
	"sort"
)

// Pattern identifies the target-position formula driving the node field.
type Pattern int

const (
	Flow Pattern = iota
	Explosion
	Wave
	Sphere
)

func (p Pattern) String() string {
	switch p {
	case Flow:
		return "flow"
	case Explosion:
		return "explosion"
	case Wave:
		return "wave"
	case Sphere:
		return "sphere"
	}
	return fmt.Sprintf("pattern(%d)", int(p))
}

// RGB is a color with channels in [0, 1].
type RGB struct {
	R, G, B float64
}

// Lerp returns the componentwise interpolation toward other at t in [0, 1].
func (c RGB) Lerp(other RGB, t float64) RGB {
	return RGB{
		R: c.R + (other.R-c.R)*t,
		G: c.G + (other.G-c.G)*t,
		B: c.B + (other.B-c.B)*t,
	}
}

// Params are the pattern-specific numeric knobs. Not every pattern reads
// every field.
type Params struct {
	Radius    float64
	Spread    float64
	Amplitude float64
	Frequency float64
	// Wavelength is the grid spacing used by the wave pattern.
	Wavelength float64
	FlowSpeed  float64
}

// Effects controls how aggressively nodes chase their targets and pulse.
type Effects struct {
	Randomness     float64
	PulseSpeed     float64
	PulseIntensity float64
	LerpFactor     float64
}

// Preset is an immutable bundle of motion, color and bloom parameters.
type Preset struct {
	Name        string
	Description string
	Background  RGB
	Palette     []RGB
	Speed       float64
	// WaveIntensity scales the vertical displacement terms.
	WaveIntensity float64
	Pattern       Pattern
	Params        Params
	Bloom         float64
}

var table = map[string]Preset{
	"flow": {
		Name:        "flow",
		Description: "Signals drifting along the helix, slow rotation",
		Background:  RGB{0.02, 0.03, 0.08},
		Palette: []RGB{
			{0.25, 0.65, 1.0},
			{0.45, 0.35, 0.95},
			{0.2, 0.9, 0.85},
		},
		Speed:         0.6,
		WaveIntensity: 1.2,
		Pattern:       Flow,
		Params:        Params{Radius: 9, Spread: 2.5, Amplitude: 1.8, FlowSpeed: 0.4},
		Bloom:         1.4,
	},
	"pulse": {
		Name:        "pulse",
		Description: "Bursting orbits, fast and chaotic",
		Background:  RGB{0.06, 0.01, 0.05},
		Palette: []RGB{
			{1.0, 0.35, 0.45},
			{1.0, 0.6, 0.2},
			{0.95, 0.25, 0.75},
		},
		Speed:         1.4,
		WaveIntensity: 0.8,
		Pattern:       Explosion,
		Params:        Params{Radius: 8, Amplitude: 5.0},
		Bloom:         2.1,
	},
	"wave": {
		Name:        "wave",
		Description: "Grid of nodes rolling like open water",
		Background:  RGB{0.01, 0.04, 0.06},
		Palette: []RGB{
			{0.2, 0.8, 0.9},
			{0.3, 0.55, 1.0},
			{0.6, 0.9, 1.0},
		},
		Speed:         0.9,
		WaveIntensity: 1.0,
		Pattern:       Wave,
		Params:        Params{Amplitude: 3.2, Frequency: 0.6, Wavelength: 2.4},
		Bloom:         1.1,
	},
	"sphere": {
		Name:        "sphere",
		Description: "Breathing sphere, evenly spiraled",
		Background:  RGB{0.03, 0.02, 0.07},
		Palette: []RGB{
			{0.75, 0.55, 1.0},
			{0.35, 0.7, 1.0},
			{0.9, 0.8, 0.5},
		},
		Speed:         0.5,
		WaveIntensity: 0.6,
		Pattern:       Sphere,
		Params:        Params{Radius: 11},
		Bloom:         1.7,
	},
	"nebula": {
		Name:        "nebula",
		Description: "Wide slow drift, deep glow",
		Background:  RGB{0.04, 0.02, 0.09},
		Palette: []RGB{
			{0.85, 0.45, 0.95},
			{0.4, 0.3, 0.9},
			{1.0, 0.7, 0.85},
		},
		Speed:         0.35,
		WaveIntensity: 1.6,
		Pattern:       Flow,
		Params:        Params{Radius: 14, Spread: 4.5, Amplitude: 2.6, FlowSpeed: 0.25},
		Bloom:         2.4,
	},
}

// effects maps each pattern to its easing and pulse tuple.
var effects = map[Pattern]Effects{
	Flow:      {Randomness: 0.06, PulseSpeed: 2.0, PulseIntensity: 0.25, LerpFactor: 0.05},
	Explosion: {Randomness: 0.22, PulseSpeed: 4.5, PulseIntensity: 0.45, LerpFactor: 0.09},
	Wave:      {Randomness: 0.03, PulseSpeed: 1.6, PulseIntensity: 0.2, LerpFactor: 0.07},
	Sphere:    {Randomness: 0.05, PulseSpeed: 2.8, PulseIntensity: 0.3, LerpFactor: 0.06},
}

// Names returns the preset names in stable order, used for key bindings and
// Tab cycling.
func Names() []string {
	names := make([]string, 0, len(table))
	for name := range table {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ByName looks up a preset. The returned value is a copy; the palette slice
// is cloned so callers cannot alias the table.
func ByName(name string) (Preset, bool) {
	p, ok := table[name]
	if !ok {
		return Preset{}, false
	}
	p.Palette = append([]RGB(nil), p.Palette...)
	return p, true
}

// EffectsFor returns the easing and pulse tuple for a pattern.
func EffectsFor(p Pattern) Effects {
	return effects[p]
}
