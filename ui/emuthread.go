package ui

import (
	"sync"
	"time"

	"github.com/user-none/emswp/emu"
)

// MeterSnapshot is the chip state the monitor draws.
type MeterSnapshot struct {
	Voices [emu.VoiceCount]emu.VoiceStatus
	Tick   uint64
	Peak   [2]int16 // Largest output magnitude since the last update
	Done   bool     // Every scheduled event has fired
}

// VoiceSource is the part of the chip a snapshot is taken from.
type VoiceSource interface {
	VoiceStatus(ch int) emu.VoiceStatus
	TickCount() uint64
}

// SharedMeters holds voice state written by the emulation goroutine
// and read by Ebiten's Draw() method. Uses separate write and read
// snapshots so the emu goroutine can write new data while Draw uses the
// read copy.
type SharedMeters struct {
	mu    sync.Mutex
	write MeterSnapshot // Written by emu goroutine under lock
	read  MeterSnapshot // Snapshot copied on Read for safe external use
}

// Update records the state of every voice and the output peak of the
// samples rendered since the last update.
func (sm *SharedMeters) Update(src VoiceSource, samples []int16, done bool) {
	var peak [2]int16
	for i, s := range samples {
		if s == -32768 {
			s = 32767
		} else if s < 0 {
			s = -s
		}
		if s > peak[i&1] {
			peak[i&1] = s
		}
	}

	sm.mu.Lock()
	for ch := range sm.write.Voices {
		sm.write.Voices[ch] = src.VoiceStatus(ch)
	}
	sm.write.Tick = src.TickCount()
	sm.write.Peak = peak
	sm.write.Done = done
	sm.mu.Unlock()
}

// Read returns a snapshot of the latest update. The returned pointer
// stays valid until the next Read.
func (sm *SharedMeters) Read() *MeterSnapshot {
	sm.mu.Lock()
	sm.read = sm.write
	sm.mu.Unlock()
	return &sm.read
}

// EmuControl manages pause/resume/stop coordination between
// the Ebiten thread and the emulation goroutine.
type EmuControl struct {
	mu       sync.Mutex
	pauseReq bool
	paused   bool
	running  bool
	stopReq  bool
	ackCh    chan struct{}
}

// NewEmuControl creates a new emulation control.
func NewEmuControl() *EmuControl {
	return &EmuControl{
		running: true,
		ackCh:   make(chan struct{}, 1),
	}
}

// RequestPause asks the emulation goroutine to pause and blocks
// until it acknowledges the pause.
func (ec *EmuControl) RequestPause() {
	ec.mu.Lock()
	if ec.paused || ec.pauseReq {
		ec.mu.Unlock()
		return
	}
	ec.pauseReq = true
	ec.mu.Unlock()

	// Wait for emu goroutine to acknowledge
	<-ec.ackCh
}

// RequestResume tells the emulation goroutine to resume.
func (ec *EmuControl) RequestResume() {
	ec.mu.Lock()
	ec.pauseReq = false
	ec.paused = false
	ec.mu.Unlock()
}

// CheckPause is called by the emulation goroutine between frames.
// If a pause has been requested, it sends an acknowledgment and
// spins until resumed or stopped. Returns false if the goroutine
// should exit.
func (ec *EmuControl) CheckPause() bool {
	ec.mu.Lock()
	if !ec.running || ec.stopReq {
		ec.mu.Unlock()
		return false
	}
	if !ec.pauseReq {
		ec.mu.Unlock()
		return true
	}

	// Acknowledge pause request
	ec.paused = true
	ec.mu.Unlock()

	// Non-blocking send of ack (buffer size 1)
	select {
	case ec.ackCh <- struct{}{}:
	default:
	}

	// Spin-wait until resumed or stopped
	for {
		ec.mu.Lock()
		if !ec.running || ec.stopReq {
			ec.mu.Unlock()
			return false
		}
		if !ec.pauseReq {
			ec.paused = false
			ec.mu.Unlock()
			return true
		}
		ec.mu.Unlock()
		time.Sleep(10 * time.Millisecond)
	}
}

// Stop signals the emulation goroutine to exit.
func (ec *EmuControl) Stop() {
	ec.mu.Lock()
	ec.running = false
	ec.stopReq = true
	// Also clear pause so CheckPause unblocks
	ec.pauseReq = false
	ec.mu.Unlock()
}

// IsPaused returns true if the emulation goroutine is currently paused.
func (ec *EmuControl) IsPaused() bool {
	ec.mu.Lock()
	p := ec.paused
	ec.mu.Unlock()
	return p
}

// TogglePause pauses a running goroutine or resumes a paused one.
// Returns true when the goroutine is now paused.
func (ec *EmuControl) TogglePause() bool {
	if ec.IsPaused() {
		ec.RequestResume()
		return false
	}
	ec.RequestPause()
	return true
}
