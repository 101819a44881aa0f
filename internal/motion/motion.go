// Package motion advances node positions, colors and sizes each frame
// according to the active preset's pattern.
package motion

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/iburimskiy/neural-visualization/internal/field"
	"github.com/iburimskiy/neural-visualization/internal/preset"
)

// Selection is the interaction state read (never written) by the pattern
// engine. Indices are -1 when empty.
type Selection struct {
	Hovered  int
	Selected int
}

// NoSelection is the empty selection state.
var NoSelection = Selection{Hovered: -1, Selected: -1}

// Target computes the pattern's target position for node i of n at time t.
// amp is the audio amplitude in [0, 1]; 0 reproduces the silent trajectory
// exactly.
func Target(pr preset.Preset, t float64, i, n int, nd *field.Node, amp float64) mgl64.Vec3 {
	switch pr.Pattern {
	case preset.Explosion:
		return explosionTarget(pr, t, nd)
	case preset.Wave:
		return waveTarget(pr, t, i, n, amp)
	case preset.Sphere:
		return sphereTarget(pr, t, i, n, nd)
	default:
		return flowTarget(pr, t, nd, amp)
	}
}

// flowTarget drives nodes along a slowly rotating circle with a small
// time-varying radial offset, while three sinusoids of the spatial
// coordinates and time displace them vertically.
func flowTarget(pr preset.Preset, t float64, nd *field.Node, amp float64) mgl64.Vec3 {
	k := pr.Params
	angle := nd.BaseAngle + t*k.FlowSpeed*pr.Speed
	radius := k.Radius + math.Sin(t*0.5+nd.Activation*2*math.Pi)*k.Spread*0.4

	x := math.Cos(angle) * radius
	z := math.Sin(angle) * radius
	wave := pr.WaveIntensity * (1 + amp)
	y := nd.HeightProgress +
		math.Sin(x*0.3+t*pr.Speed)*wave +
		math.Sin(z*0.5+t*pr.Speed*1.3)*k.Amplitude*0.4 +
		math.Sin((x+z)*0.15+t*pr.Speed*0.7)*wave*0.5
	return mgl64.Vec3{x, y, z}
}

// explosionTarget oscillates the orbit radius itself while the angular
// position advances with time, giving a faster, more chaotic shape.
func explosionTarget(pr preset.Preset, t float64, nd *field.Node) mgl64.Vec3 {
	k := pr.Params
	nodeTime := t*pr.Speed + nd.Activation*2*math.Pi
	radius := k.Radius * (1 + math.Sin(nodeTime)*0.3)
	angle := nd.BaseAngle + t*pr.Speed

	return mgl64.Vec3{
		math.Cos(angle) * radius,
		math.Sin(nodeTime*3) * k.Amplitude,
		math.Sin(angle) * radius,
	}
}

// waveTarget arranges nodes on a fixed 10-wide grid and rolls their height
// with two superimposed sinusoids.
func waveTarget(pr preset.Preset, t float64, i, n int, amp float64) mgl64.Vec3 {
	k := pr.Params
	rows := (n + 9) / 10
	baseX := (float64(i%10) - 4.5) * k.Wavelength
	baseZ := (float64(i/10) - float64(rows-1)/2) * k.Wavelength

	ampl := k.Amplitude * pr.WaveIntensity * (1 + amp)
	y := math.Sin(baseX*k.Frequency+t*pr.Speed)*ampl +
		math.Sin(baseX*k.Frequency*0.5+t*pr.Speed*0.8)*ampl*0.4
	return mgl64.Vec3{baseX, y, baseZ}
}

// sphereTarget spreads nodes over an evolving spherical surface using the
// phi = acos(-1 + 2i/n) spiral with a bouncing radius term.
func sphereTarget(pr preset.Preset, t float64, i, n int, nd *field.Node) mgl64.Vec3 {
	k := pr.Params
	phi := math.Acos(-1 + 2*float64(i)/float64(n))
	theta := math.Sqrt(float64(n)*math.Pi)*phi + t*pr.Speed
	radius := k.Radius * (1 + math.Sin(t*2*pr.Speed+nd.Activation*math.Pi)*0.15)

	return mgl64.Vec3{
		radius * math.Sin(phi) * math.Cos(theta),
		radius * math.Cos(phi),
		radius * math.Sin(phi) * math.Sin(theta),
	}
}

// Advance recomputes every node's target, eases the live position toward it
// and applies per-axis jitter, then rewrites color and size. It reads but
// never writes sel.
func Advance(nodes []field.Node, pr preset.Preset, t, amp float64, rng *rand.Rand, sel Selection) {
	eff := preset.EffectsFor(pr.Pattern)
	n := len(nodes)
	for i := range nodes {
		nd := &nodes[i]
		nd.Target = Target(pr, t, i, n, nd, amp)

		for axis := 0; axis < 3; axis++ {
			step := (nd.Target[axis] - nd.Position[axis]) * eff.LerpFactor
			jitter := (rng.Float64() - 0.5) * eff.Randomness
			nd.Velocity[axis] = step
			nd.Position[axis] += step + jitter
		}

		nd.Color = colorFor(pr, eff, t, i, sel)
		nd.Size = sizeFor(eff, t, i, nd.BaseSize, sel)
	}
}

// colorFor resolves the per-frame node color. Selection wins over hover,
// hover wins over the idle palette pulse.
func colorFor(pr preset.Preset, eff preset.Effects, t float64, i int, sel Selection) preset.RGB {
	if i == sel.Selected {
		v := 0.9 + math.Sin(t*6+float64(i)*0.1)*0.1
		return preset.RGB{R: clamp01(v), G: clamp01(v), B: clamp01(v * 0.96)}
	}

	base := pr.Palette[i%len(pr.Palette)]
	if i == sel.Hovered {
		pulse := 1.5 + math.Sin(t*10)*0.15
		return preset.RGB{
			R: clamp01(base.R * pulse),
			G: clamp01(base.G * pulse),
			B: clamp01(base.B * pulse),
		}
	}

	pulse := math.Sin(t*eff.PulseSpeed+float64(i)*0.1) * eff.PulseIntensity * 0.2
	return preset.RGB{
		R: clamp01(base.R + pulse),
		G: clamp01(base.G + pulse),
		B: clamp01(base.B + pulse),
	}
}

func sizeFor(eff preset.Effects, t float64, i int, base float64, sel Selection) float64 {
	if i == sel.Selected {
		return base * 1.8
	}
	size := base * (1 + math.Sin(t*eff.PulseSpeed+float64(i)*0.1)*eff.PulseIntensity)
	if i == sel.Hovered {
		size *= 1.4
	}
	return size
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
