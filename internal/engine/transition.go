package engine

import (
	"github.com/iburimskiy/neural-visualization/internal/config"
	"github.com/iburimskiy/neural-visualization/internal/preset"
)

// transition holds the scene parameters captured when a preset switch
// started, so shared values glide to the new preset instead of snapping.
type transition struct {
	active      bool
	t           float64 // elapsed fraction of the window, 0..1
	fromBG      preset.RGB
	fromBloom   float64
	fromPalette []preset.RGB
}

// switchPreset activates a new preset. The pattern formula changes on the
// next frame (easing absorbs the jump); background, bloom and palette
// interpolate over the transition window.
func (e *Engine) switchPreset(name string) {
	if name == e.active.Name {
		return
	}
	p, ok := preset.ByName(name)
	if !ok {
		return
	}
	e.trans = transition{
		active:      true,
		fromBG:      e.live.Background,
		fromBloom:   e.live.Bloom,
		fromPalette: append([]preset.RGB(nil), e.live.Palette...),
	}
	e.active = p
	e.live = p
	e.blend(0)
}

// stepTransition advances the interpolation and rebuilds the live preset.
func (e *Engine) stepTransition(dt float64) {
	if !e.trans.active {
		return
	}
	e.trans.t += dt / config.TransitionSeconds
	if e.trans.t >= 1 {
		e.trans.active = false
		e.live = e.active
		return
	}
	e.blend(smoothstep(e.trans.t))
}

// blend rebuilds e.live at interpolation k in [0, 1] between the captured
// start values and the active preset.
func (e *Engine) blend(k float64) {
	live := e.active
	live.Background = e.trans.fromBG.Lerp(e.active.Background, k)
	live.Bloom = e.trans.fromBloom + (e.active.Bloom-e.trans.fromBloom)*k

	live.Palette = make([]preset.RGB, len(e.active.Palette))
	for i := range live.Palette {
		from := e.trans.fromPalette[i%len(e.trans.fromPalette)]
		live.Palette[i] = from.Lerp(e.active.Palette[i], k)
	}
	e.live = live
}

// smoothstep is monotonic on [0, 1] and never overshoots its endpoints.
func smoothstep(t float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	return t * t * (3 - 2*t)
}
