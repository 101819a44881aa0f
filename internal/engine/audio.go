package engine

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/flac"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"
	"github.com/ncruces/zenity"

	"github.com/iburimskiy/neural-visualization/internal/config"
)

// amplitudeTap wraps a beep.Streamer and records the last N samples into a
// ring buffer so the frame loop can derive an amplitude from recently played
// audio. The Stream side runs on the speaker goroutine; the ring is the only
// shared state.
type amplitudeTap struct {
	source    beep.Streamer
	buffer    [][2]float64
	nextIndex int
	mu        sync.RWMutex
}

func newAmplitudeTap(src beep.Streamer, ringSize int) *amplitudeTap {
	return &amplitudeTap{
		source: src,
		buffer: make([][2]float64, ringSize),
	}
}

func (t *amplitudeTap) Stream(samples [][2]float64) (int, bool) {
	n, ok := t.source.Stream(samples)
	if n > 0 {
		t.mu.Lock()
		for i := 0; i < n; i++ {
			t.buffer[t.nextIndex] = samples[i]
			t.nextIndex++
			if t.nextIndex >= len(t.buffer) {
				t.nextIndex = 0
			}
		}
		t.mu.Unlock()
	}
	return n, ok
}

func (t *amplitudeTap) Err() error { return t.source.Err() }

// amplitude returns the compressed RMS of the last n samples, in [0, 1].
func (t *amplitudeTap) amplitude(n int) float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if n > len(t.buffer) {
		n = len(t.buffer)
	}
	idx := t.nextIndex - 1
	if idx < 0 {
		idx = len(t.buffer) - 1
	}
	var sumSquares float64
	for i := 0; i < n; i++ {
		mono := (t.buffer[idx][0] + t.buffer[idx][1]) * 0.5
		sumSquares += mono * mono
		idx--
		if idx < 0 {
			idx = len(t.buffer) - 1
		}
	}
	if n == 0 {
		return 0
	}
	rms := math.Sqrt(sumSquares / float64(n))
	// Compress so quiet passages still move the field.
	return math.Pow(rms, 0.3)
}

// audioState owns the playback chain for the optional audio-reactive mode.
type audioState struct {
	file     *os.File
	streamer beep.StreamSeekCloser
	format   beep.Format
	ctrl     *beep.Ctrl
	tap      *amplitudeTap
	initDone bool
}

// audioAmplitude reads the current tap amplitude, 0 when no track plays.
func (e *Engine) audioAmplitude() float64 {
	if e.audio == nil || e.audio.tap == nil || e.audioPaused {
		return 0
	}
	return e.audio.tap.amplitude(2048)
}

// loadAudio decodes the file by extension and starts playback through the
// amplitude tap.
func (e *Engine) loadAudio(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}

	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		streamer, format, err = wav.Decode(f)
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	case ".flac":
		streamer, format, err = flac.Decode(f)
	default:
		_ = f.Close()
		return errors.New("unsupported audio type: " + filepath.Ext(path))
	}
	if err != nil {
		_ = f.Close()
		return fmt.Errorf("decode %s: %w", path, err)
	}

	tap := newAmplitudeTap(streamer, config.AudioRingSize)
	ctrl := &beep.Ctrl{Streamer: tap}

	// Clear and Init take the speaker mutex themselves; speaker.Lock here
	// would deadlock. Lock is only for mutating a playing streamer.
	bufferSize := format.SampleRate.N(time.Second / 20)
	initDone := e.audio != nil && e.audio.initDone
	sameRate := e.audio != nil && e.audio.format.SampleRate == format.SampleRate
	switch {
	case !initDone:
		if err := speaker.Init(format.SampleRate, bufferSize); err != nil {
			_ = streamer.Close()
			_ = f.Close()
			return fmt.Errorf("init speaker: %w", err)
		}
	case !sameRate:
		speaker.Clear()
		if err := speaker.Init(format.SampleRate, bufferSize); err != nil {
			_ = streamer.Close()
			_ = f.Close()
			return fmt.Errorf("reinit speaker: %w", err)
		}
	default:
		speaker.Clear()
	}

	e.installAudio(&audioState{
		file:     f,
		streamer: streamer,
		format:   format,
		ctrl:     ctrl,
		tap:      tap,
		initDone: true,
	})

	speaker.Play(beep.Seq(ctrl, beep.Callback(func() {
		_ = streamer.Close()
		_ = f.Close()
	})))
	return nil
}

// openAudioDialog asks for a track with a native file picker, the same way
// the player picks files. Cancel is not an error.
func (e *Engine) openAudioDialog() error {
	filename, err := zenity.SelectFile(
		zenity.Title("Open Audio Track"),
		zenity.FileFilters{{
			Name:     "Audio",
			Patterns: []string{"*.wav", "*.mp3", "*.flac"},
		}},
	)
	if err != nil {
		if errors.Is(err, zenity.ErrCanceled) {
			return nil
		}
		return err
	}
	return e.loadAudio(filename)
}

func (e *Engine) toggleAudioPause() {
	if e.audio == nil || e.audio.ctrl == nil {
		return
	}
	speaker.Lock()
	e.audioPaused = !e.audioPaused
	e.audio.ctrl.Paused = e.audioPaused
	speaker.Unlock()
}

// installAudio swaps in a freshly decoded playback chain. The previous
// chain was detached from the mixer by Clear, so its end-of-stream callback
// can never fire; close it here or every track switch leaks the decoder and
// the file handle.
func (e *Engine) installAudio(next *audioState) {
	e.audio.closeChain()
	e.audio = next
	e.audioPaused = false
	e.audioErr = nil
}

// closeChain closes the decoder and its backing file. The end-of-stream
// callback closes them too when playback ran to completion; the duplicate
// closes are ignored.
func (a *audioState) closeChain() {
	if a == nil {
		return
	}
	if a.streamer != nil {
		_ = a.streamer.Close()
	}
	if a.file != nil {
		_ = a.file.Close()
	}
}

// stopAudio tears the playback chain down. Safe with no audio loaded or a
// partially built chain.
func (e *Engine) stopAudio() {
	if e.audio == nil {
		return
	}
	if e.audio.initDone {
		speaker.Clear()
	}
	e.audio.closeChain()
	e.audio = nil
}
