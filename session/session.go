// Package session plays a patch on a chip: it applies the registers,
// fires the key schedule and MIDI notes on time and collects the output.
package session

import (
	"context"

	"github.com/user-none/emswp/emu"
	"github.com/user-none/emswp/patch"
	"github.com/user-none/emswp/rom"
	"github.com/user-none/emswp/seq"
)

// TailSeconds is rendered after the last event when a patch does not
// set its own length, so releases and MEG delays can ring out.
const TailSeconds = 2

// Session owns one chip and the event sources driving it.
type Session struct {
	chip    *emu.SWP30
	patch   *patch.Patch
	events  []seq.Event
	sched   *patch.Schedule
	player  *seq.Player
	length  uint64
	verbose bool
}

// New creates a chip at the patch's sample rate and applies the patch.
// events may be nil when the patch only uses its own key list.
func New(p *patch.Patch, r rom.Reader, events []seq.Event, cfg emu.Config) (*Session, error) {
	cfg.SampleRate = p.SampleRate
	chip, err := emu.New(r, cfg)
	if err != nil {
		return nil, err
	}
	s := &Session{
		chip:    chip,
		patch:   p,
		events:  events,
		verbose: cfg.Verbose,
	}
	s.start()

	if p.Seconds > 0 {
		s.length = uint64(p.Ticks())
	} else {
		last := s.sched.Length()
		if s.player != nil {
			last = max(last, s.player.Length())
		}
		s.length = last + uint64(TailSeconds*p.SampleRate)
	}
	return s, nil
}

func (s *Session) start() {
	s.patch.Apply(s.chip.Registers())
	s.sched = s.patch.NewSchedule()
	s.player = nil
	if len(s.events) > 0 {
		s.player = seq.NewPlayer(s.patch, s.events)
		s.player.Verbose = s.verbose
	}
}

// Restart resets the chip and plays from the beginning.
func (s *Session) Restart() {
	s.chip.Reset()
	s.start()
}

// Chip returns the chip being driven.
func (s *Session) Chip() *emu.SWP30 {
	return s.chip
}

// SampleRate returns the output rate.
func (s *Session) SampleRate() int {
	return s.patch.SampleRate
}

// Length returns the number of ticks Render produces.
func (s *Session) Length() uint64 {
	return s.length
}

// Done reports whether Length ticks have been rendered.
func (s *Session) Done() bool {
	return s.chip.TickCount() >= s.length
}

// EventsDone reports whether every key and note event has fired.
func (s *Session) EventsDone() bool {
	return s.sched.Done() && (s.player == nil || s.player.Done())
}

// Step renders frames ticks, firing the events due before each one. The
// returned interleaved stereo samples are only valid until the next Step.
func (s *Session) Step(frames int) []int16 {
	r := s.chip.Registers()
	for i := 0; i < frames; i++ {
		tick := s.chip.TickCount()
		s.sched.Advance(r, tick)
		if s.player != nil {
			s.player.Advance(r, tick)
		}
		s.chip.GenerateSamples(1)
	}
	return s.chip.GetBuffer()
}

// Render steps to the end in chunks of up to chunk frames and hands each
// one to fn. A chunk below 1 renders one frame at a time.
func (s *Session) Render(ctx context.Context, chunk int, fn func([]int16) error) error {
	chunk = max(chunk, 1)
	for !s.Done() {
		if err := ctx.Err(); err != nil {
			return err
		}
		n := int(min(uint64(chunk), s.length-s.chip.TickCount()))
		if err := fn(s.Step(n)); err != nil {
			return err
		}
	}
	return nil
}
