package scene

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
)

// Bloom is a two-tap downscale/upscale blur composited additively over the
// scene, approximating a bright-pixel glow.
type Bloom struct {
	half    *ebiten.Image
	quarter *ebiten.Image
}

// NewBloom allocates the downscale targets. Fails rather than panics on
// degenerate dimensions so setup can surface an init error.
func NewBloom(width, height int) (*Bloom, error) {
	if width < 4 || height < 4 {
		return nil, fmt.Errorf("bloom targets need at least 4x4 pixels, got %dx%d", width, height)
	}
	return &Bloom{
		half:    ebiten.NewImage(width/2, height/2),
		quarter: ebiten.NewImage(width/4, height/4),
	}, nil
}

// Apply blurs src through the downscale chain and adds it onto dst scaled by
// strength.
func (b *Bloom) Apply(dst, src *ebiten.Image, strength float64) {
	if b == nil || b.half == nil || b.quarter == nil {
		return
	}
	b.half.Clear()
	b.quarter.Clear()

	down := &ebiten.DrawImageOptions{Filter: ebiten.FilterLinear}
	down.GeoM.Scale(0.5, 0.5)
	b.half.DrawImage(src, down)

	down = &ebiten.DrawImageOptions{Filter: ebiten.FilterLinear}
	down.GeoM.Scale(0.5, 0.5)
	b.quarter.DrawImage(b.half, down)

	s := float32(strength)
	up := &ebiten.DrawImageOptions{Filter: ebiten.FilterLinear, Blend: ebiten.BlendLighter}
	up.GeoM.Scale(2, 2)
	up.ColorScale.Scale(0.35*s, 0.35*s, 0.35*s, 1)
	dst.DrawImage(b.half, up)

	up = &ebiten.DrawImageOptions{Filter: ebiten.FilterLinear, Blend: ebiten.BlendLighter}
	up.GeoM.Scale(4, 4)
	up.ColorScale.Scale(0.5*s, 0.5*s, 0.5*s, 1)
	dst.DrawImage(b.quarter, up)
}

// Dispose releases the blur targets. Safe on a nil or partially built chain.
func (b *Bloom) Dispose() {
	if b == nil {
		return
	}
	if b.half != nil {
		b.half.Deallocate()
		b.half = nil
	}
	if b.quarter != nil {
		b.quarter.Deallocate()
		b.quarter = nil
	}
}
