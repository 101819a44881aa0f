package scene

import (
	"math"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/iburimskiy/neural-visualization/internal/field"
)

func testCamera() *Camera {
	return NewCamera(34, 12, 80, 0.15)
}

func TestZoomClampedUnderAnySequence(t *testing.T) {
	cam := testCamera()
	rng := rand.New(rand.NewSource(1))

	for i := 0; i < 1000; i++ {
		cam.Zoom((rng.Float64() - 0.5) * 40)
		if cam.Distance < cam.MinDistance || cam.Distance > cam.MaxDistance {
			t.Fatalf("step %d: distance %v escaped [%v, %v]", i, cam.Distance, cam.MinDistance, cam.MaxDistance)
		}
	}

	cam.Zoom(1e9)
	if cam.Distance != cam.MinDistance {
		t.Errorf("huge zoom-in should pin to min distance, got %v", cam.Distance)
	}
	cam.Zoom(-1e9)
	if cam.Distance != cam.MaxDistance {
		t.Errorf("huge zoom-out should pin to max distance, got %v", cam.Distance)
	}
}

func TestStepAdvancesAzimuthOnly(t *testing.T) {
	cam := testCamera()
	az, el, dist := cam.Azimuth, cam.Elevation, cam.Distance

	for i := 0; i < 60; i++ {
		cam.Step(1.0 / 60.0)
	}
	if cam.Azimuth <= az {
		t.Error("auto-rotation should advance azimuth")
	}
	if cam.Elevation != el || cam.Distance != dist {
		t.Error("auto-rotation must not change elevation or distance")
	}
}

func TestCenterRayHitsLookAt(t *testing.T) {
	cam := testCamera()
	origin, dir := cam.Ray(0, 0, 16.0/10)

	toTarget := cam.LookAt.Sub(origin).Normalize()
	if dir.Sub(toTarget).Len() > 1e-12 {
		t.Fatalf("center ray %v should aim at the look-at point, want %v", dir, toTarget)
	}
}

func TestPickNodeUnderCursor(t *testing.T) {
	cam := testCamera()
	// One node halfway between the eye and the look-at point, dead center.
	mid := cam.Eye().Add(cam.LookAt.Sub(cam.Eye()).Mul(0.5))
	nodes := []field.Node{
		{Position: mgl64.Vec3{100, 100, 100}, Size: 0.3},
		{Position: mid, Size: 0.3},
	}

	const w, h = 1280, 800
	got := Pick(cam, nodes, w/2, h/2, w, h)
	if got != 1 {
		t.Fatalf("expected center pick to hit node 1, got %d", got)
	}
}

func TestPickNearestWins(t *testing.T) {
	cam := testCamera()
	toward := cam.LookAt.Sub(cam.Eye()).Normalize()
	near := cam.Eye().Add(toward.Mul(10))
	far := cam.Eye().Add(toward.Mul(25))
	nodes := []field.Node{
		{Position: far, Size: 0.4},
		{Position: near, Size: 0.4},
	}

	const w, h = 1280, 800
	if got := Pick(cam, nodes, w/2, h/2, w, h); got != 1 {
		t.Fatalf("nearest node along the ray should win, got %d", got)
	}
}

func TestPickMiss(t *testing.T) {
	cam := testCamera()
	nodes := []field.Node{
		{Position: mgl64.Vec3{0, 200, 0}, Size: 0.3},
	}
	const w, h = 1280, 800
	if got := Pick(cam, nodes, w/2, h/2, w, h); got != -1 {
		t.Fatalf("expected miss, got %d", got)
	}
	if got := Pick(cam, nil, w/2, h/2, w, h); got != -1 {
		t.Fatalf("empty cloud should miss, got %d", got)
	}
	if got := Pick(cam, nodes, 10, 10, 0, 0); got != -1 {
		t.Fatalf("degenerate viewport should miss, got %d", got)
	}
}

func TestPickIgnoresNodesBehindCamera(t *testing.T) {
	cam := testCamera()
	away := cam.Eye().Sub(cam.LookAt.Sub(cam.Eye()).Normalize().Mul(10))
	nodes := []field.Node{
		{Position: away, Size: 5},
	}
	const w, h = 1280, 800
	if got := Pick(cam, nodes, w/2, h/2, w, h); got != -1 {
		t.Fatalf("node behind the camera must not be pickable, got %d", got)
	}
}

func TestViewProjectionMapsLookAtToCenter(t *testing.T) {
	cam := testCamera()
	vp := cam.ViewProjection(16.0 / 10)

	clip := vp.Mul4x1(cam.LookAt.Vec4(1))
	if clip.W() <= 0 {
		t.Fatal("look-at point should be in front of the camera")
	}
	if math.Abs(clip.X()/clip.W()) > 1e-9 || math.Abs(clip.Y()/clip.W()) > 1e-9 {
		t.Errorf("look-at point should project to NDC center, got (%v, %v)", clip.X()/clip.W(), clip.Y()/clip.W())
	}
}
