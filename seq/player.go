package seq

import (
	"log"
	"math"

	"github.com/user-none/emswp/emu"
	"github.com/user-none/emswp/patch"
)

// Player fires note events against the output tick count.
type Player struct {
	events []Event
	next   int
	parts  map[uint8]*part

	// Verbose logs every note and the voice it lands on.
	Verbose bool
}

type part struct {
	inst  *patch.Instrument
	alloc *Allocator
}

// NewPlayer binds the events to the patch's instruments. Events on
// channels without an instrument are ignored.
func NewPlayer(p *patch.Patch, events []Event) *Player {
	pl := &Player{events: events, parts: make(map[uint8]*part)}
	for i := range p.Instruments {
		in := &p.Instruments[i]
		pl.parts[uint8(in.Channel)] = &part{inst: in, alloc: NewAllocator(in.Voices)}
	}
	return pl
}

// Advance fires every event due at or before tick.
func (pl *Player) Advance(r *emu.Registers, tick uint64) {
	for pl.next < len(pl.events) && pl.events[pl.next].Tick <= tick {
		pl.fire(r, pl.events[pl.next])
		pl.next++
	}
}

func (pl *Player) fire(r *emu.Registers, e Event) {
	pt, ok := pl.parts[e.Channel]
	if !ok {
		return
	}
	if !e.On {
		if v, ok := pt.alloc.NoteOff(e.Key); ok {
			r.KeyOffVoice(v)
			if pl.Verbose {
				log.Printf("seq: ch %d key %d off voice %d", e.Channel, e.Key, v)
			}
		}
		return
	}

	v, stolen := pt.alloc.NoteOn(e.Key)
	in := pt.inst
	in.Params.Apply(r, v)
	r.SetPitch(v, Pitch(in.Pitch, int(e.Key)-in.Root))
	r.SetReleaseGlo(v, uint16(in.Release)<<8|uint16(VelocityLevel(in.Global, e.Velocity)))
	// A falling then rising mask bit restarts a voice that is still held
	r.KeyOffVoice(v)
	r.KeyOnVoice(v)
	if pl.Verbose {
		log.Printf("seq: ch %d key %d vel %d on voice %d (stolen %v)", e.Channel, e.Key, e.Velocity, v, stolen)
	}
}

// Done reports whether every event has fired.
func (pl *Player) Done() bool {
	return pl.next >= len(pl.events)
}

// Length returns the tick of the last event.
func (pl *Player) Length() uint64 {
	if len(pl.events) == 0 {
		return 0
	}
	return pl.events[len(pl.events)-1].Tick
}

// Pitch shifts a pitch register value by semis semitones. The register
// holds a signed octave in bits 15-12 over a linear 12-bit mantissa;
// results outside the eight octaves either way clamp.
func Pitch(base uint16, semis int) uint16 {
	oct := int(int16(base) >> 12)
	ratio := math.Ldexp(1+float64(base&0xfff)/4096, oct) * math.Exp2(float64(semis)/12)

	frac, exp := math.Frexp(ratio) // ratio = frac * 2^exp, frac in [0.5, 1)
	oct = exp - 1
	m := int(math.Round((frac*2 - 1) * 4096))
	if m == 4096 {
		m = 0
		oct++
	}
	switch {
	case oct > 7:
		return 0x7fff
	case oct < -8:
		return 0x8000
	}
	return uint16(oct&0xf)<<12 | uint16(m)
}

// VelocityLevel adds a velocity attenuation to a global level: velocity
// 127 leaves it unchanged and every 4 steps below add 1/16 octave.
func VelocityLevel(global, velocity uint8) uint8 {
	l := int(global) + (127-int(velocity&0x7f))/4
	return uint8(min(l, 0xff))
}
