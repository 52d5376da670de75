package ui

import (
	"fmt"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

// ringBufferTime is how much audio the ring buffer holds before it
// starts dropping the oldest frames.
const ringBufferTime = 170 * time.Millisecond

// AudioPlayer manages audio playback via oto.
// It writes int16 stereo samples to a ring buffer which oto's player
// reads from in a pull model.
type AudioPlayer struct {
	player     *oto.Player
	ringBuffer *AudioRingBuffer
	sampleRate int
}

// oto context singleton. oto allows one context per process, so the
// first player fixes the output rate.
var (
	otoCtx      *oto.Context
	otoRate     int
	otoInitOnce sync.Once
	otoInitErr  error
)

// ensureOtoContext initializes the oto audio context on first use.
func ensureOtoContext(sampleRate int) (*oto.Context, error) {
	otoInitOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   sampleRate,
			ChannelCount: 2,
			Format:       oto.FormatSignedInt16LE,
			BufferSize:   50 * time.Millisecond,
		}
		var readyChan chan struct{}
		otoCtx, readyChan, otoInitErr = oto.NewContext(op)
		if otoInitErr != nil {
			return
		}
		otoRate = sampleRate
		<-readyChan
	})
	if otoInitErr == nil && otoRate != sampleRate {
		return nil, fmt.Errorf("audio context already running at %d Hz", otoRate)
	}
	return otoCtx, otoInitErr
}

// NewAudioPlayer creates and initializes audio playback via oto at the
// chip's output rate.
func NewAudioPlayer(sampleRate int, volume float64) (*AudioPlayer, error) {
	ctx, err := ensureOtoContext(sampleRate)
	if err != nil {
		return nil, fmt.Errorf("oto audio not available: %w", err)
	}

	rb := NewAudioRingBuffer(BytesFor(sampleRate, ringBufferTime))
	player := ctx.NewPlayer(rb)
	player.SetBufferSize(BytesFor(sampleRate, 100*time.Millisecond))
	player.SetVolume(volume)
	player.Play()

	return &AudioPlayer{
		player:     player,
		ringBuffer: rb,
		sampleRate: sampleRate,
	}, nil
}

// BytesFor returns the size of d worth of 16-bit stereo audio at
// sampleRate, rounded down to whole frames.
func BytesFor(sampleRate int, d time.Duration) int {
	frames := int(int64(sampleRate) * int64(d) / int64(time.Second))
	return frames * frameBytes
}

// QueueSamples writes interleaved int16 stereo samples to the ring
// buffer for oto to consume.
func (a *AudioPlayer) QueueSamples(samples []int16) {
	if len(samples) == 0 {
		return
	}
	a.ringBuffer.WriteSamples(samples)
}

// GetBufferLevel returns the total bytes of audio data currently buffered
// (ring buffer + oto player internal buffer). Used for ADT pacing.
func (a *AudioPlayer) GetBufferLevel() int {
	return a.ringBuffer.Buffered() + a.player.BufferedSize()
}

// SampleRate returns the playback rate.
func (a *AudioPlayer) SampleRate() int {
	return a.sampleRate
}

// Flush drops audio that has not reached oto yet, e.g. after a restart.
func (a *AudioPlayer) Flush() {
	a.ringBuffer.Clear()
}

// SetVolume sets the playback volume (0.0 = silent, 1.0 = full).
func (a *AudioPlayer) SetVolume(vol float64) {
	a.player.SetVolume(vol)
}

// Close cleans up audio resources.
func (a *AudioPlayer) Close() {
	if a.ringBuffer != nil {
		a.ringBuffer.Close()
	}
	if a.player != nil {
		a.player.Close()
	}
}
