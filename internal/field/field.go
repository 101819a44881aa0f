// Package field generates the initial node cloud the motion engine animates.
package field

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/iburimskiy/neural-visualization/internal/preset"
)

// Mode selects the spatial distribution used for initial placement.
type Mode int

const (
	// ModeHelix places nodes on two intertwined strands.
	ModeHelix Mode = iota
	// ModeShell scatters nodes uniformly on a spherical shell band.
	ModeShell
)

// Node is one animated point. The engine owns the slice and mutates nodes in
// place every frame; the count is fixed after generation.
type Node struct {
	Position mgl64.Vec3
	Target   mgl64.Vec3
	Velocity mgl64.Vec3

	// Activation is a per-node random phase in [0, 1) desynchronizing
	// otherwise identical nodes.
	Activation float64

	// Strand tags the node's sub-group (0 or 1) for helix layouts.
	Strand int

	// BaseAngle and HeightProgress are the parametric coordinates from the
	// generation pass, reused by patterns that orbit the original layout.
	BaseAngle      float64
	HeightProgress float64

	BaseSize float64

	// Render-facing outputs, rewritten every frame by the motion engine.
	Color preset.RGB
	Size  float64
}

const (
	helixTurns  = 3.0
	helixRadius = 9.0
	helixHeight = 22.0

	shellInnerRadius = 8.0
	shellOuterRadius = 13.0
)

// Generate produces n nodes with the given distribution. The rng drives
// activation phases, base sizes and shell placement; pass a seeded source
// for reproducible fields.
func Generate(n int, mode Mode, rng *rand.Rand) []Node {
	nodes := make([]Node, n)
	switch mode {
	case ModeShell:
		generateShell(nodes, rng)
	default:
		generateHelix(nodes, rng)
	}
	for i := range nodes {
		nodes[i].Target = nodes[i].Position
		nodes[i].Activation = rng.Float64()
		nodes[i].BaseSize = 0.22 + rng.Float64()*0.14
		nodes[i].Size = nodes[i].BaseSize
	}
	return nodes
}

// generateHelix splits nodes into two strands phase-shifted by pi. Odd
// counts put the extra node on strand 0.
func generateHelix(nodes []Node, rng *rand.Rand) {
	n := len(nodes)
	firstLen := n - n/2
	for i := range nodes {
		strand := 0
		idx, strandLen := i, firstLen
		if i >= firstLen {
			strand = 1
			idx, strandLen = i-firstLen, n/2
		}
		progress := 0.0
		if strandLen > 1 {
			progress = float64(idx) / float64(strandLen-1)
		}
		angle := progress*2*math.Pi*helixTurns + float64(strand)*math.Pi
		height := (progress - 0.5) * helixHeight

		nodes[i].Strand = strand
		nodes[i].BaseAngle = angle
		nodes[i].HeightProgress = height
		nodes[i].Position = mgl64.Vec3{
			math.Cos(angle) * helixRadius,
			height,
			math.Sin(angle) * helixRadius,
		}
	}
}

// generateShell places nodes at a uniform random direction and a radius
// inside [shellInnerRadius, shellOuterRadius].
func generateShell(nodes []Node, rng *rand.Rand) {
	for i := range nodes {
		azimuth := rng.Float64() * 2 * math.Pi
		// acos keeps the polar density uniform over the sphere.
		polar := math.Acos(2*rng.Float64() - 1)
		radius := shellInnerRadius + rng.Float64()*(shellOuterRadius-shellInnerRadius)

		nodes[i].Strand = i % 2
		nodes[i].BaseAngle = azimuth
		nodes[i].HeightProgress = radius * math.Cos(polar)
		nodes[i].Position = mgl64.Vec3{
			radius * math.Sin(polar) * math.Cos(azimuth),
			radius * math.Cos(polar),
			radius * math.Sin(polar) * math.Sin(azimuth),
		}
	}
}

// Connections finds up to k neighbors within maxDist for every node, used to
// draw line segments in shell mode. This is an all-pairs O(n^2) scan and is
// acceptable only while n stays small (<= 300 or so); do not reuse for large
// fields without a spatial index.
func Connections(nodes []Node, k int, maxDist float64) [][]int {
	out := make([][]int, len(nodes))
	maxSq := maxDist * maxDist
	for i := range nodes {
		type cand struct {
			j    int
			dist float64
		}
		var cands []cand
		for j := range nodes {
			if j == i {
				continue
			}
			d := nodes[i].Position.Sub(nodes[j].Position).LenSqr()
			if d <= maxSq {
				cands = append(cands, cand{j, d})
			}
		}
		for len(cands) > 0 && len(out[i]) < k {
			best := 0
			for c := 1; c < len(cands); c++ {
				if cands[c].dist < cands[best].dist {
					best = c
				}
			}
			out[i] = append(out[i], cands[best].j)
			cands[best] = cands[len(cands)-1]
			cands = cands[:len(cands)-1]
		}
	}
	return out
}
