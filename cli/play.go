package cli

import (
	"context"
	"time"

	"github.com/user-none/emswp/session"
	"github.com/user-none/emswp/ui"
)

// Play renders the session to the audio device without a window and
// returns once the whole piece has been heard or ctx is cancelled.
func Play(ctx context.Context, s *session.Session) error {
	rate := s.SampleRate()
	player, err := ui.NewAudioPlayer(rate, 1.0)
	if err != nil {
		return err
	}
	defer player.Close()

	maxBuffer := ui.BytesFor(rate, adtMaxBuffer)
	frameTime := time.Second / framesPerSecond
	err = s.Render(ctx, chunkFrames(rate), func(samples []int16) error {
		player.QueueSamples(samples)
		for player.GetBufferLevel() > maxBuffer {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(frameTime / 2):
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	// Drain what is still queued
	for player.GetBufferLevel() > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(frameTime):
		}
	}
	return nil
}
