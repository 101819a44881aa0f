// Package scene owns everything between world space and the screen: the
// orbit camera, cursor ray picking, the software point pipeline and the
// bloom post-processing chain.
package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/iburimskiy/neural-visualization/internal/field"
)

var worldUp = mgl64.Vec3{0, 1, 0}

// Camera is an auto-rotating orbit camera around a fixed look-at point.
type Camera struct {
	Azimuth   float64
	Elevation float64
	Distance  float64

	MinDistance float64
	MaxDistance float64

	// RotateRate is the auto-rotation target in radians per second; the
	// live rate is damped toward it so zoom interruptions settle smoothly.
	RotateRate float64
	rate       float64

	LookAt mgl64.Vec3
	FOV    float64 // radians
	Near   float64
	Far    float64
}

// NewCamera returns an orbit camera at the given distance with clamping
// bounds and auto-rotation rate.
func NewCamera(distance, minDist, maxDist, rotateRate float64) *Camera {
	return &Camera{
		Azimuth:     0.6,
		Elevation:   0.25,
		Distance:    distance,
		MinDistance: minDist,
		MaxDistance: maxDist,
		RotateRate:  rotateRate,
		FOV:         45 * math.Pi / 180,
		Near:        0.1,
		Far:         500,
	}
}

// Step advances auto-rotation by dt seconds, damping the live rate toward
// the configured one.
func (c *Camera) Step(dt float64) {
	c.rate += (c.RotateRate - c.rate) * 0.05
	c.Azimuth += c.rate * dt
}

// Zoom moves the camera along the view axis by delta world units, clamped to
// [MinDistance, MaxDistance]. Positive delta zooms in.
func (c *Camera) Zoom(delta float64) {
	c.Distance -= delta
	if c.Distance < c.MinDistance {
		c.Distance = c.MinDistance
	}
	if c.Distance > c.MaxDistance {
		c.Distance = c.MaxDistance
	}
}

// Eye returns the camera position from its spherical coordinates.
func (c *Camera) Eye() mgl64.Vec3 {
	return c.LookAt.Add(mgl64.Vec3{
		c.Distance * math.Cos(c.Azimuth) * math.Cos(c.Elevation),
		c.Distance * math.Sin(c.Elevation),
		c.Distance * math.Sin(c.Azimuth) * math.Cos(c.Elevation),
	})
}

// ViewProjection builds the combined matrix for the given aspect ratio.
func (c *Camera) ViewProjection(aspect float64) mgl64.Mat4 {
	proj := mgl64.Perspective(c.FOV, aspect, c.Near, c.Far)
	view := mgl64.LookAtV(c.Eye(), c.LookAt, worldUp)
	return proj.Mul4(view)
}

// Ray returns the world-space ray through normalized device coordinates
// (x right, y up, both in [-1, 1]).
func (c *Camera) Ray(ndcX, ndcY, aspect float64) (origin, dir mgl64.Vec3) {
	origin = c.Eye()
	forward := c.LookAt.Sub(origin).Normalize()
	right := forward.Cross(worldUp).Normalize()
	up := right.Cross(forward)

	tanFov := math.Tan(c.FOV / 2)
	dir = forward.
		Add(right.Mul(ndcX * tanFov * aspect)).
		Add(up.Mul(ndcY * tanFov)).
		Normalize()
	return origin, dir
}

// pickSlop widens the hit radius so small nodes stay clickable.
const pickSlop = 2.0

// Pick casts a ray through the cursor position and returns the index of the
// nearest intersected node, or -1 when the ray misses the cloud.
func Pick(cam *Camera, nodes []field.Node, cursorX, cursorY, width, height int) int {
	if width <= 0 || height <= 0 {
		return -1
	}
	ndcX := 2*float64(cursorX)/float64(width) - 1
	ndcY := 1 - 2*float64(cursorY)/float64(height)
	origin, dir := cam.Ray(ndcX, ndcY, float64(width)/float64(height))

	best := -1
	bestAlong := math.Inf(1)
	for i := range nodes {
		v := nodes[i].Position.Sub(origin)
		along := v.Dot(dir)
		if along <= cam.Near {
			continue
		}
		perpSq := v.LenSqr() - along*along
		tol := nodes[i].Size * pickSlop
		if perpSq <= tol*tol && along < bestAlong {
			best = i
			bestAlong = along
		}
	}
	return best
}
