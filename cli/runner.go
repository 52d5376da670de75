// Package cli provides a monitor window for a running session.
// It plays the chip output live and draws one envelope meter per voice.
package cli

import (
	"fmt"
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	emubridge "github.com/user-none/emswp/bridge/ebiten"
	"github.com/user-none/emswp/session"
	"github.com/user-none/emswp/ui"
)

// framesPerSecond is how often the emulation goroutine renders a chunk.
const framesPerSecond = 60

// chunkFrames is the number of frames rendered per loop iteration. Rates
// below framesPerSecond still advance one frame each time.
func chunkFrames(rate int) int {
	return max(rate/framesPerSecond, 1)
}

// ADT buffer thresholds.
const (
	adtMinBuffer = 50 * time.Millisecond
	adtMaxBuffer = 100 * time.Millisecond
)

// Runner wraps a session for monitor mode.
// The chip runs on a dedicated goroutine with audio-driven timing.
// The Ebiten thread handles keys and draws from the shared meters.
type Runner struct {
	session     *session.Session
	audioPlayer *ui.AudioPlayer
	view        *emubridge.Meters

	// Sample budget per chunk and the ADT thresholds in bytes
	chunk            int
	minBuffer        int
	maxBuffer        int
	restartRequested chan struct{}

	// ADT goroutine control
	emuControl   *ui.EmuControl
	sharedMeters *ui.SharedMeters
	emuDone      chan struct{}
}

// NewRunner creates a new Runner driving the given session.
// Audio initialization failure is non-fatal; the meters still run.
func NewRunner(s *session.Session) *Runner {
	rate := s.SampleRate()
	player, err := ui.NewAudioPlayer(rate, 1.0)
	if err != nil {
		log.Printf("Warning: audio initialization failed: %v", err)
	}

	r := &Runner{
		session:          s,
		audioPlayer:      player,
		view:             emubridge.NewMeters(),
		chunk:            chunkFrames(rate),
		minBuffer:        ui.BytesFor(rate, adtMinBuffer),
		maxBuffer:        ui.BytesFor(rate, adtMaxBuffer),
		restartRequested: make(chan struct{}, 1),
		emuControl:       ui.NewEmuControl(),
		sharedMeters:     &ui.SharedMeters{},
		emuDone:          make(chan struct{}),
	}

	// Start emulation goroutine
	go r.emulationLoop()

	return r
}

// Close cleans up the runner's resources.
func (r *Runner) Close() {
	// Stop emulation goroutine
	if r.emuControl != nil {
		r.emuControl.Stop()
		<-r.emuDone
	}

	if r.audioPlayer != nil {
		r.audioPlayer.Close()
		r.audioPlayer = nil
	}
	r.view.Close()
}

// emulationLoop runs on a dedicated goroutine with ADT. The chip keeps
// running past the session length so tails and MEG feedback stay audible.
func (r *Runner) emulationLoop() {
	defer close(r.emuDone)

	frameTime := time.Second / framesPerSecond
	lastFrameTime := time.Now()

	for {
		if !r.emuControl.CheckPause() {
			return
		}

		select {
		case <-r.restartRequested:
			r.session.Restart()
			if r.audioPlayer != nil {
				r.audioPlayer.Flush()
			}
		default:
		}

		samples := r.session.Step(r.chunk)

		// Queue audio
		if r.audioPlayer != nil {
			r.audioPlayer.QueueSamples(samples)
		}

		r.sharedMeters.Update(r.session.Chip(), samples, r.session.EventsDone())

		// ADT sleep
		elapsed := time.Since(lastFrameTime)
		sleepTime := frameTime - elapsed

		if r.audioPlayer != nil {
			bufferLevel := r.audioPlayer.GetBufferLevel()
			if bufferLevel < r.minBuffer {
				sleepTime = time.Duration(float64(sleepTime) * 0.9)
			} else if bufferLevel > r.maxBuffer {
				sleepTime = time.Duration(float64(sleepTime) * 1.1)
			}
		}

		if sleepTime > time.Millisecond {
			time.Sleep(sleepTime)
		}

		lastFrameTime = time.Now()
	}
}

// Update implements ebiten.Game. Space pauses, R restarts and Escape
// quits.
func (r *Runner) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if !ebiten.IsFocused() {
		return nil
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		r.emuControl.TogglePause()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		select {
		case r.restartRequested <- struct{}{}:
		default:
		}
	}
	return nil
}

// Draw implements ebiten.Game.
func (r *Runner) Draw(screen *ebiten.Image) {
	s := r.sharedMeters.Read()
	r.view.Draw(screen, s)

	state := "playing"
	switch {
	case r.emuControl.IsPaused():
		state = "paused"
	case s.Done:
		state = "done"
	}
	seconds := float64(s.Tick) / float64(r.session.SampleRate())
	ebitenutil.DebugPrint(screen, fmt.Sprintf("%7.2fs  %s  active %d", seconds, state, activeVoices(s)))
}

// Layout implements ebiten.Game.
func (r *Runner) Layout(outsideWidth, outsideHeight int) (int, int) {
	return r.view.Layout(outsideWidth, outsideHeight)
}

func activeVoices(s *ui.MeterSnapshot) int {
	n := 0
	for _, v := range s.Voices {
		if v.Mode != "idle" {
			n++
		}
	}
	return n
}
