package motion

import (
	"math"
	"math/rand"
	"testing"

	"github.com/iburimskiy/neural-visualization/internal/field"
	"github.com/iburimskiy/neural-visualization/internal/preset"
)

func mustPreset(t *testing.T, name string) preset.Preset {
	t.Helper()
	p, ok := preset.ByName(name)
	if !ok {
		t.Fatalf("preset %q missing", name)
	}
	return p
}

func TestTargetsFiniteAllPatterns(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	nodes := field.Generate(100, field.ModeHelix, rng)

	for _, name := range preset.Names() {
		p := mustPreset(t, name)
		for _, tm := range []float64{0, 0.016, 1, 10, 1000} {
			for i := range nodes {
				target := Target(p, tm, i, len(nodes), &nodes[i], 0)
				for axis := 0; axis < 3; axis++ {
					if math.IsNaN(target[axis]) || math.IsInf(target[axis], 0) {
						t.Fatalf("%s t=%v node %d axis %d: non-finite target", name, tm, i, axis)
					}
				}
			}
		}
	}
}

// The per-axis displacement must stay within the easing step plus the jitter
// budget, for every pattern and a range of times.
func TestAdvanceDisplacementBound(t *testing.T) {
	for _, name := range preset.Names() {
		p := mustPreset(t, name)
		eff := preset.EffectsFor(p.Pattern)

		rng := rand.New(rand.NewSource(7))
		nodes := field.Generate(150, field.ModeHelix, rng)

		tm := 0.0
		for frame := 0; frame < 120; frame++ {
			before := make([]field.Node, len(nodes))
			copy(before, nodes)

			tm += 1.0 / 60.0
			Advance(nodes, p, tm, 0, rng, NoSelection)

			for i := range nodes {
				for axis := 0; axis < 3; axis++ {
					moved := math.Abs(nodes[i].Position[axis] - before[i].Position[axis])
					bound := math.Abs(nodes[i].Target[axis]-before[i].Position[axis])*eff.LerpFactor + eff.Randomness
					if moved > bound+1e-12 {
						t.Fatalf("%s frame %d node %d axis %d: moved %v, bound %v", name, frame, i, axis, moved, bound)
					}
				}
			}
		}
	}
}

// Velocity must record exactly the easing step toward the new target, with
// the jitter excluded. The renderer stretches it into motion trails.
func TestAdvanceRecordsEasingVelocity(t *testing.T) {
	p := mustPreset(t, "pulse")
	eff := preset.EffectsFor(p.Pattern)

	rng := rand.New(rand.NewSource(3))
	nodes := field.Generate(80, field.ModeHelix, rng)

	before := make([]field.Node, len(nodes))
	copy(before, nodes)

	Advance(nodes, p, 0.5, 0, rng, NoSelection)

	for i := range nodes {
		for axis := 0; axis < 3; axis++ {
			want := (nodes[i].Target[axis] - before[i].Position[axis]) * eff.LerpFactor
			if nodes[i].Velocity[axis] != want {
				t.Fatalf("node %d axis %d: velocity %v, want easing step %v",
					i, axis, nodes[i].Velocity[axis], want)
			}
		}
	}
}

// Two identically seeded runs must be bit-for-bit identical, and a zero
// audio amplitude must not alter the trajectory.
func TestAdvanceDeterministic(t *testing.T) {
	p := mustPreset(t, "flow")

	run := func() []field.Node {
		rng := rand.New(rand.NewSource(11))
		nodes := field.Generate(60, field.ModeHelix, rng)
		for frame := 1; frame <= 30; frame++ {
			Advance(nodes, p, float64(frame)/60, 0, rng, NoSelection)
		}
		return nodes
	}

	a, b := run(), run()
	for i := range a {
		if a[i].Position != b[i].Position {
			t.Fatalf("node %d diverged between identical runs: %v vs %v", i, a[i].Position, b[i].Position)
		}
	}
}

func TestAmplitudeScalesVerticalOnly(t *testing.T) {
	p := mustPreset(t, "flow")
	rng := rand.New(rand.NewSource(3))
	nodes := field.Generate(10, field.ModeHelix, rng)

	quiet := Target(p, 2.5, 4, len(nodes), &nodes[4], 0)
	loud := Target(p, 2.5, 4, len(nodes), &nodes[4], 1)

	if quiet[0] != loud[0] || quiet[2] != loud[2] {
		t.Errorf("amplitude must not move nodes horizontally: %v vs %v", quiet, loud)
	}
}

func TestWavePatternGridLayout(t *testing.T) {
	p := mustPreset(t, "wave")
	rng := rand.New(rand.NewSource(4))
	nodes := field.Generate(100, field.ModeHelix, rng)

	// Nodes sharing index mod 10 share an x column; same index div 10
	// shares a z row.
	a := Target(p, 1, 3, 100, &nodes[3], 0)
	b := Target(p, 1, 13, 100, &nodes[13], 0)
	if a[0] != b[0] {
		t.Errorf("column mismatch: %v vs %v", a[0], b[0])
	}
	c := Target(p, 1, 30, 100, &nodes[30], 0)
	d := Target(p, 1, 31, 100, &nodes[31], 0)
	if c[2] != d[2] {
		t.Errorf("row mismatch: %v vs %v", c[2], d[2])
	}
}

func TestSpherePatternOnSphere(t *testing.T) {
	p := mustPreset(t, "sphere")
	rng := rand.New(rand.NewSource(5))
	nodes := field.Generate(50, field.ModeHelix, rng)

	// All nodes with the same activation sit on the same radius at a given
	// time; radius stays within the bounce band.
	for i := range nodes {
		nodes[i].Activation = 0.5
	}
	r0 := Target(p, 3, 0, 50, &nodes[0], 0).Len()
	for i := 1; i < 50; i++ {
		r := Target(p, 3, i, 50, &nodes[i], 0).Len()
		if math.Abs(r-r0) > 1e-9 {
			t.Fatalf("node %d: radius %v differs from %v", i, r, r0)
		}
	}
	if r0 < p.Params.Radius*0.84 || r0 > p.Params.Radius*1.16 {
		t.Errorf("radius %v outside bounce band around %v", r0, p.Params.Radius)
	}
}

func TestColorPriority(t *testing.T) {
	p := mustPreset(t, "flow")
	eff := preset.EffectsFor(p.Pattern)

	idle := colorFor(p, eff, 1.0, 5, NoSelection)
	hovered := colorFor(p, eff, 1.0, 5, Selection{Hovered: 5, Selected: -1})
	selected := colorFor(p, eff, 1.0, 5, Selection{Hovered: 5, Selected: 5})

	if idle == hovered {
		t.Error("hover must brighten the idle color")
	}
	if selected.R < 0.8 || selected.G < 0.8 || selected.B < 0.7 {
		t.Errorf("selected color should be near white, got %+v", selected)
	}
	if selected == hovered {
		t.Error("selection must override hover")
	}

	for _, c := range []preset.RGB{idle, hovered, selected} {
		for _, v := range []float64{c.R, c.G, c.B} {
			if v < 0 || v > 1 {
				t.Fatalf("channel %v outside [0,1]", v)
			}
		}
	}
}

func TestSelectedSizeEnlarged(t *testing.T) {
	eff := preset.EffectsFor(preset.Flow)
	base := 0.3
	sel := sizeFor(eff, 2.0, 8, base, Selection{Hovered: -1, Selected: 8})
	idle := sizeFor(eff, 2.0, 8, base, NoSelection)
	if sel <= idle {
		t.Errorf("selected size %v should exceed idle %v", sel, idle)
	}
	if sel != base*1.8 {
		t.Errorf("selected size %v, want %v", sel, base*1.8)
	}
}
