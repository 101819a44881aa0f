package preset

import "fmt"

// Override adjusts a preset's top-level knobs. Zero fields are left alone.
type Override struct {
	Speed         float64 `toml:"speed"`
	WaveIntensity float64 `toml:"wave_intensity"`
	Bloom         float64 `toml:"bloom"`
}

// Customize applies file-level overrides to the table. It must be called at
// most once, before any component reads a preset; after startup the table is
// immutable.
func Customize(overrides map[string]Override) error {
	for name, ov := range overrides {
		p, ok := table[name]
		if !ok {
			return fmt.Errorf("override for unknown preset %q", name)
		}
		if ov.Speed != 0 {
			p.Speed = ov.Speed
		}
		if ov.WaveIntensity != 0 {
			p.WaveIntensity = ov.WaveIntensity
		}
		if ov.Bloom != 0 {
			p.Bloom = ov.Bloom
		}
		table[name] = p
	}
	return nil
}
