package engine

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/iburimskiy/neural-visualization/internal/config"
	"github.com/iburimskiy/neural-visualization/internal/scene"
)

// presetKeys maps number keys to entries of the ordered preset list.
var presetKeys = []ebiten.Key{
	ebiten.KeyDigit1,
	ebiten.KeyDigit2,
	ebiten.KeyDigit3,
	ebiten.KeyDigit4,
	ebiten.KeyDigit5,
}

// handleInput polls pointer, wheel and keyboard state for this frame. All
// effects are mutations of selection, camera or preset state picked up by
// the same frame's step; nothing here blocks the loop. Returns true when the
// user asked to quit.
func (e *Engine) handleInput() bool {
	width, height := e.renderer.Size()
	cursorX, cursorY := ebiten.CursorPosition()

	e.hoverAt(cursorX, cursorY, width, height)
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		e.clickAt(cursorX, cursorY, width, height)
	}

	if _, wheelY := ebiten.Wheel(); wheelY != 0 {
		e.cam.Zoom(wheelY * config.ZoomStep)
	}

	for i, key := range presetKeys {
		if i < len(e.presetNames) && inpututil.IsKeyJustPressed(key) {
			e.switchPreset(e.presetNames[i])
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		e.cyclePreset()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		e.toggleAudioPause()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyO) {
		if err := e.openAudioDialog(); err != nil {
			e.audioErr = err
		}
	}

	return inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ)
}

// hoverAt updates the hovered index from a cursor ray test. The previously
// hovered node needs no explicit reset: the motion engine recomputes every
// node's color from the selection state each frame.
func (e *Engine) hoverAt(cursorX, cursorY, width, height int) {
	e.sel.Hovered = scene.Pick(e.cam, e.nodes, cursorX, cursorY, width, height)
}

// clickAt toggles selection of the node under the cursor. Clicking the
// already selected node deselects it; clicking another node moves the
// selection; clicking empty space leaves it alone.
func (e *Engine) clickAt(cursorX, cursorY, width, height int) {
	hit := scene.Pick(e.cam, e.nodes, cursorX, cursorY, width, height)
	if hit < 0 {
		return
	}
	if hit == e.sel.Selected {
		e.sel.Selected = -1
		return
	}
	e.sel.Selected = hit
}

func (e *Engine) cyclePreset() {
	for i, name := range e.presetNames {
		if name == e.active.Name {
			e.switchPreset(e.presetNames[(i+1)%len(e.presetNames)])
			return
		}
	}
}
