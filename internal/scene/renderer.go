package scene

import (
	"fmt"
	"image/color"
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/iburimskiy/neural-visualization/internal/field"
	"github.com/iburimskiy/neural-visualization/internal/preset"
)

// trailFrames stretches the one-frame easing step into a visible tail.
const trailFrames = 6.0

// Renderer projects the node cloud and draws it with bloom. It owns the
// float32 buffer mirrors the engine refreshes every frame; the draw path
// treats them as read-only input.
type Renderer struct {
	width  int
	height int

	scene *ebiten.Image
	bloom *Bloom

	// Derived per-node buffers, rewritten from the node slice each frame.
	Positions  []float32 // xyz triples
	Colors     []float32 // rgb triples
	Sizes      []float32
	Velocities []float32 // xyz triples, last easing step per node

	sprites []sprite

	pairs      [][2]int
	pairsBuilt bool
}

type sprite struct {
	index  int
	x, y   float32
	radius float32
	depth  float64
	clr    color.RGBA

	// Trail tail in screen space, valid when hasTail is set.
	tailX, tailY float32
	hasTail      bool
}

// NewRenderer allocates the offscreen scene target and bloom chain. Returns
// an error instead of starting with unusable render targets.
func NewRenderer(width, height int) (*Renderer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("renderer needs a positive viewport, got %dx%d", width, height)
	}
	bloom, err := NewBloom(width, height)
	if err != nil {
		return nil, err
	}
	return &Renderer{
		width:  width,
		height: height,
		scene:  ebiten.NewImage(width, height),
		bloom:  bloom,
	}, nil
}

// Sync rewrites the buffer mirrors from the authoritative node slice.
func (r *Renderer) Sync(nodes []field.Node) {
	n := len(nodes)
	if len(r.Sizes) != n {
		r.Positions = make([]float32, n*3)
		r.Colors = make([]float32, n*3)
		r.Sizes = make([]float32, n)
		r.Velocities = make([]float32, n*3)
		r.sprites = make([]sprite, 0, n)
	}
	for i := range nodes {
		nd := &nodes[i]
		r.Positions[i*3+0] = float32(nd.Position[0])
		r.Positions[i*3+1] = float32(nd.Position[1])
		r.Positions[i*3+2] = float32(nd.Position[2])
		r.Colors[i*3+0] = float32(nd.Color.R)
		r.Colors[i*3+1] = float32(nd.Color.G)
		r.Colors[i*3+2] = float32(nd.Color.B)
		r.Sizes[i] = float32(nd.Size)
		r.Velocities[i*3+0] = float32(nd.Velocity[0])
		r.Velocities[i*3+1] = float32(nd.Velocity[1])
		r.Velocities[i*3+2] = float32(nd.Velocity[2])
	}
}

// Draw renders the synced buffers through the camera onto screen, then runs
// the bloom pass. connections may be nil.
func (r *Renderer) Draw(screen *ebiten.Image, cam *Camera, bg preset.RGB, bloomStrength float64, connections [][]int) {
	if r.scene == nil {
		return
	}
	screen.Fill(rgbaOf(bg, 0xff))
	r.scene.Clear()

	r.project(cam)
	r.drawConnections(connections)

	// Painter's order, far nodes first.
	sort.Slice(r.sprites, func(i, j int) bool { return r.sprites[i].depth > r.sprites[j].depth })
	for _, s := range r.sprites {
		if s.hasTail {
			dx := float64(s.x - s.tailX)
			dy := float64(s.y - s.tailY)
			if dx*dx+dy*dy > 4 {
				clr := color.RGBA{R: s.clr.R / 3, G: s.clr.G / 3, B: s.clr.B / 3, A: 0x99}
				vector.StrokeLine(r.scene, s.tailX, s.tailY, s.x, s.y, s.radius*0.6, clr, true)
			}
		}
		vector.DrawFilledCircle(r.scene, s.x, s.y, s.radius, s.clr, true)
	}

	screen.DrawImage(r.scene, nil)
	r.bloom.Apply(screen, r.scene, bloomStrength)
}

// project fills the sprite list from the buffer mirrors, culling nodes
// behind the camera.
func (r *Renderer) project(cam *Camera) {
	vp := cam.ViewProjection(float64(r.width) / float64(r.height))
	focal := float64(r.height) / 2 / math.Tan(cam.FOV/2)

	r.sprites = r.sprites[:0]
	for i := 0; i < len(r.Sizes); i++ {
		world := mgl64.Vec4{
			float64(r.Positions[i*3+0]),
			float64(r.Positions[i*3+1]),
			float64(r.Positions[i*3+2]),
			1,
		}
		clip := vp.Mul4x1(world)
		w := clip.W()
		if w <= cam.Near {
			continue
		}
		sx := (clip.X()/w*0.5 + 0.5) * float64(r.width)
		sy := (0.5 - clip.Y()/w*0.5) * float64(r.height)
		radius := float64(r.Sizes[i]) * focal / w
		if radius < 0.8 {
			radius = 0.8
		}

		// Distant nodes fade slightly so depth reads without real fog.
		depthRange := cam.MaxDistance - cam.MinDistance
		if depthRange <= 0 {
			depthRange = 1
		}
		fade := 1.0 - 0.4*clamp01((w-cam.MinDistance)/depthRange)
		s := sprite{
			index:  i,
			x:      float32(sx),
			y:      float32(sy),
			radius: float32(radius),
			depth:  w,
			clr: color.RGBA{
				R: uint8(float64(r.Colors[i*3+0]) * fade * 255),
				G: uint8(float64(r.Colors[i*3+1]) * fade * 255),
				B: uint8(float64(r.Colors[i*3+2]) * fade * 255),
				A: 0xff,
			},
		}

		// Trail anchored a few frames back along the easing velocity.
		tail := mgl64.Vec4{
			world.X() - float64(r.Velocities[i*3+0])*trailFrames,
			world.Y() - float64(r.Velocities[i*3+1])*trailFrames,
			world.Z() - float64(r.Velocities[i*3+2])*trailFrames,
			1,
		}
		tclip := vp.Mul4x1(tail)
		if tw := tclip.W(); tw > cam.Near {
			s.tailX = float32((tclip.X()/tw*0.5 + 0.5) * float64(r.width))
			s.tailY = float32((0.5 - tclip.Y()/tw*0.5) * float64(r.height))
			s.hasTail = true
		}
		r.sprites = append(r.sprites, s)
	}
}

// drawConnections strokes the neighbor segments computed at generation time.
// Uses the projected sprite positions, so it must run after project.
func (r *Renderer) drawConnections(connections [][]int) {
	if len(connections) == 0 {
		return
	}
	onScreen := make(map[int]sprite, len(r.sprites))
	for _, s := range r.sprites {
		onScreen[s.index] = s
	}
	if !r.pairsBuilt {
		r.pairs = connectionPairs(connections)
		r.pairsBuilt = true
	}
	for _, p := range r.pairs {
		a, ok := onScreen[p[0]]
		if !ok {
			continue
		}
		b, ok := onScreen[p[1]]
		if !ok {
			continue
		}
		clr := color.RGBA{R: a.clr.R / 2, G: a.clr.G / 2, B: a.clr.B / 2, A: 0x66}
		vector.StrokeLine(r.scene, a.x, a.y, b.x, b.y, 1, clr, true)
	}
}

// connectionPairs flattens a neighbor list into unique undirected pairs.
// k-nearest lists are asymmetric, so a pair may appear from either endpoint
// or from both; each one is kept exactly once, smaller index first.
func connectionPairs(connections [][]int) [][2]int {
	seen := make(map[[2]int]bool)
	var pairs [][2]int
	for i, neighbors := range connections {
		for _, j := range neighbors {
			a, b := i, j
			if a > b {
				a, b = b, a
			}
			key := [2]int{a, b}
			if seen[key] {
				continue
			}
			seen[key] = true
			pairs = append(pairs, key)
		}
	}
	return pairs
}

// Resize rebuilds the render targets for a new viewport. Idempotent for
// unchanged dimensions.
func (r *Renderer) Resize(width, height int) error {
	if width == r.width && height == r.height {
		return nil
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("renderer needs a positive viewport, got %dx%d", width, height)
	}
	bloom, err := NewBloom(width, height)
	if err != nil {
		return err
	}
	r.Dispose()
	r.width = width
	r.height = height
	r.scene = ebiten.NewImage(width, height)
	r.bloom = bloom
	return nil
}

// Size returns the current viewport dimensions.
func (r *Renderer) Size() (int, int) {
	return r.width, r.height
}

// Dispose releases all render targets. Safe to call repeatedly and after a
// partial setup.
func (r *Renderer) Dispose() {
	if r == nil {
		return
	}
	if r.scene != nil {
		r.scene.Deallocate()
		r.scene = nil
	}
	r.bloom.Dispose()
	r.bloom = nil
}

func rgbaOf(c preset.RGB, alpha uint8) color.RGBA {
	return color.RGBA{
		R: uint8(clamp01(c.R) * 255),
		G: uint8(clamp01(c.G) * 255),
		B: uint8(clamp01(c.B) * 255),
		A: alpha,
	}
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
