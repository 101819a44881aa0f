// Package engine drives the visualization: it owns the node field, the
// camera, the selection state and the per-frame loop wiring them together.
package engine

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/iburimskiy/neural-visualization/internal/config"
	"github.com/iburimskiy/neural-visualization/internal/field"
	"github.com/iburimskiy/neural-visualization/internal/motion"
	"github.com/iburimskiy/neural-visualization/internal/preset"
	"github.com/iburimskiy/neural-visualization/internal/scene"
)

const frameDt = 1.0 / 60.0

// Options configures a new engine.
type Options struct {
	Config config.Config
	Mode   field.Mode
	Preset string
	// AudioPath optionally starts audio-reactive mode with this track.
	AudioPath string
}

// Engine implements ebiten.Game. All state is mutated from Update and the
// synchronous input handlers it calls; nothing runs concurrently except the
// audio tap, which shares only its own locked ring buffer.
type Engine struct {
	cfg config.Config
	rng *rand.Rand

	nodes       []field.Node
	connections [][]int

	cam      *scene.Camera
	renderer *scene.Renderer

	presetNames []string
	active      preset.Preset // selected preset, immutable
	live        preset.Preset // blended values during a transition
	trans       transition

	sel  motion.Selection
	time float64

	audio       *audioState
	audioErr    error
	audioPaused bool
	amp         float64

	renderErr error

	alive bool
}

// New builds the engine and its render targets. The returned error is the
// only initialization failure surface; the loop must not be started when it
// is non-nil.
func New(opts Options) (*Engine, error) {
	e, err := newState(opts)
	if err != nil {
		return nil, err
	}
	r, err := scene.NewRenderer(opts.Config.Window.Width, opts.Config.Window.Height)
	if err != nil {
		e.Close()
		return nil, fmt.Errorf("init graphics: %w", err)
	}
	e.renderer = r

	if opts.AudioPath != "" {
		if err := e.loadAudio(opts.AudioPath); err != nil {
			// Audio is decorative on top of decorative; keep running silent.
			e.audioErr = err
		}
	}
	return e, nil
}

// newState builds everything that does not need a graphics context.
func newState(opts Options) (*Engine, error) {
	cfg := opts.Config
	p, ok := preset.ByName(opts.Preset)
	if !ok {
		return nil, fmt.Errorf("unknown preset %q", opts.Preset)
	}

	seed := cfg.Field.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	e := &Engine{
		cfg:         cfg,
		rng:         rng,
		nodes:       field.Generate(cfg.Field.Nodes, opts.Mode, rng),
		presetNames: preset.Names(),
		active:      p,
		live:        p,
		sel:         motion.NoSelection,
		alive:       true,
	}
	if opts.Mode == field.ModeShell {
		e.connections = field.Connections(e.nodes, config.ConnectionNeighbors, config.ConnectionMaxDist)
	}
	e.cam = scene.NewCamera(
		cfg.Camera.Distance,
		cfg.Camera.MinDistance,
		cfg.Camera.MaxDistance,
		cfg.Camera.RotateRate,
	)
	return e, nil
}

// Update runs one simulation frame. A closed engine terminates the loop
// without touching any state.
func (e *Engine) Update() error {
	if !e.alive {
		return ebiten.Termination
	}
	if quit := e.handleInput(); quit {
		e.Close()
		return ebiten.Termination
	}

	e.step(frameDt)

	if e.renderer != nil {
		e.renderer.Sync(e.nodes)
	}
	return nil
}

// step advances time, camera, preset blending and the motion engine. It is
// the whole simulation; rendering only mirrors its output.
func (e *Engine) step(dt float64) {
	if !e.alive {
		return
	}
	e.time += dt
	e.cam.Step(dt)
	e.stepTransition(dt)
	e.amp = config.SmoothingFactor*e.amp + (1-config.SmoothingFactor)*e.audioAmplitude()
	motion.Advance(e.nodes, e.live, e.time, e.amp, e.rng, e.sel)
}

// Draw renders the last synced buffers. No-op after Close.
func (e *Engine) Draw(screen *ebiten.Image) {
	if !e.alive || e.renderer == nil {
		return
	}
	e.renderer.Draw(screen, e.cam, e.live.Background, e.live.Bloom, e.connections)
	e.drawHUD(screen)
}

func (e *Engine) drawHUD(screen *ebiten.Image) {
	status := fmt.Sprintf("%s - %s", e.active.Name, e.active.Description)
	ebitenutil.DebugPrintAt(screen, status, 12, 12)

	help := "1-5/Tab: preset | click: select | wheel: zoom | O: open audio | Esc/Q: quit"
	if e.audio != nil {
		if e.audioPaused {
			help = "Space: play | " + help
		} else {
			help = "Space: pause | " + help
		}
	}
	if e.audioErr != nil {
		help += " | audio error: " + e.audioErr.Error()
	}
	if e.renderErr != nil {
		help += " | resize error: " + e.renderErr.Error()
	}
	_, h := e.renderer.Size()
	ebitenutil.DebugPrintAt(screen, help, 12, h-24)
}

// Layout resizes the render targets when the window changes. Idempotent for
// stable dimensions.
func (e *Engine) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth <= 0 || outsideHeight <= 0 {
		return e.cfg.Window.Width, e.cfg.Window.Height
	}
	if e.alive && e.renderer != nil {
		// A failed resize keeps the previous render targets; surface it
		// instead of drawing into a viewport that no longer matches.
		e.renderErr = e.renderer.Resize(outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}

// Close flips the liveness flag, stops audio and releases render targets.
// Safe to call twice and after partial initialization.
func (e *Engine) Close() {
	if !e.alive {
		return
	}
	e.alive = false
	e.stopAudio()
	if e.renderer != nil {
		e.renderer.Dispose()
		e.renderer = nil
	}
}

// Nodes exposes the authoritative node slice, read-only by convention.
func (e *Engine) Nodes() []field.Node {
	return e.nodes
}
