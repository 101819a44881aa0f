package scene

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/iburimskiy/neural-visualization/internal/field"
	"github.com/iburimskiy/neural-visualization/internal/preset"
)

func TestConnectionPairsKeepsAsymmetricNeighbors(t *testing.T) {
	// 1 is a neighbor of 0 and of 2, but lists nobody itself. Both
	// segments must survive the flattening.
	connections := [][]int{{1}, {}, {1}}

	pairs := connectionPairs(connections)
	if len(pairs) != 2 {
		t.Fatalf("got %d pairs %v, want 2", len(pairs), pairs)
	}
	want := map[[2]int]bool{{0, 1}: true, {1, 2}: true}
	for _, p := range pairs {
		if !want[p] {
			t.Errorf("unexpected pair %v", p)
		}
	}
}

func TestConnectionPairsDeduplicatesMutualNeighbors(t *testing.T) {
	connections := [][]int{{1}, {0}}

	pairs := connectionPairs(connections)
	if len(pairs) != 1 {
		t.Fatalf("mutual neighbors should collapse to one pair, got %v", pairs)
	}
	if pairs[0] != [2]int{0, 1} {
		t.Errorf("pair should be ordered smaller index first, got %v", pairs[0])
	}
}

func TestSyncMirrorsNodeBuffers(t *testing.T) {
	nodes := []field.Node{
		{
			Position: mgl64.Vec3{1, 2, 3},
			Velocity: mgl64.Vec3{0.1, -0.2, 0.3},
			Color:    preset.RGB{R: 0.5, G: 0.25, B: 1},
			Size:     0.4,
		},
		{
			Position: mgl64.Vec3{-4, 5, -6},
			Velocity: mgl64.Vec3{-0.05, 0, 0.02},
			Color:    preset.RGB{R: 1, G: 0, B: 0},
			Size:     0.7,
		},
	}

	r := &Renderer{width: 64, height: 64}
	r.Sync(nodes)

	if len(r.Positions) != 6 || len(r.Colors) != 6 || len(r.Velocities) != 6 || len(r.Sizes) != 2 {
		t.Fatalf("buffer lengths %d/%d/%d/%d do not match 2 nodes",
			len(r.Positions), len(r.Colors), len(r.Velocities), len(r.Sizes))
	}
	for i, nd := range nodes {
		for axis := 0; axis < 3; axis++ {
			if r.Positions[i*3+axis] != float32(nd.Position[axis]) {
				t.Errorf("node %d position axis %d not mirrored", i, axis)
			}
			if r.Velocities[i*3+axis] != float32(nd.Velocity[axis]) {
				t.Errorf("node %d velocity axis %d not mirrored", i, axis)
			}
		}
		if r.Sizes[i] != float32(nd.Size) {
			t.Errorf("node %d size not mirrored", i)
		}
	}
}

func TestResizeRejectsDegenerateViewport(t *testing.T) {
	r := &Renderer{width: 64, height: 64}

	if err := r.Resize(64, 64); err != nil {
		t.Fatalf("resize to current dimensions should be a no-op, got %v", err)
	}
	if err := r.Resize(2, 2); err == nil {
		t.Fatal("resize below the bloom minimum should fail")
	}
	if w, h := r.Size(); w != 64 || h != 64 {
		t.Errorf("failed resize must keep the previous viewport, got %dx%d", w, h)
	}
}
