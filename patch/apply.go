package patch

import (
	"sort"

	"github.com/user-none/emswp/emu"
)

// Apply writes the MEG tables and every configured voice through the
// register interface. Instruments are applied later by the sequencer.
func (p *Patch) Apply(r *emu.Registers) {
	m := &p.MEG
	r.SetMEGProgramAddress(0)
	for _, w := range m.Words() {
		for sel := 0; sel < 4; sel++ {
			r.SetMEGProgram(sel, uint16(w>>(16*sel)))
		}
	}
	for i, c := range m.ConstTable() {
		r.SetMEGConst(i, uint16(c))
	}
	for i, v := range m.Offsets {
		r.SetMEGOffset(i, v)
	}
	for i, v := range m.LFOs {
		r.SetMEGLFO(i, v)
	}
	for i, v := range m.Maps {
		r.SetMEGMap(i, v)
	}

	for i := range p.Voices {
		p.Voices[i].Params.Apply(r, p.Voices[i].Voice)
	}
}

// SampleAddress returns the sample_address register value.
func (s *Sample) SampleAddress() uint32 {
	a := sampleFormats[s.Format]<<30 | s.Address&0x1ffffff
	if s.Stereo {
		a |= 1 << 29
	}
	return a
}

// SampleEnd returns the sample_end register value.
func (s *Sample) SampleEnd() uint32 {
	e := s.End & 0xffffff
	if s.OneShot {
		e |= 1 << 31
	}
	return e
}

func levelOr(l *uint8, def uint8) uint16 {
	if l == nil {
		return uint16(def)
	}
	return uint16(*l)
}

// Apply writes the parameters to voice ch.
func (v *Params) Apply(r *emu.Registers, ch int) {
	start := v.Sample.Start & 0xffffff
	end := v.Sample.SampleEnd()
	addr := v.Sample.SampleAddress()
	r.SetSampleStartH(ch, uint16(start>>16))
	r.SetSampleStartL(ch, uint16(start))
	r.SetSampleEndH(ch, uint16(end>>16))
	r.SetSampleEndL(ch, uint16(end))
	r.SetSampleAddressH(ch, uint16(addr>>16))
	r.SetSampleAddressL(ch, uint16(addr))

	r.SetPitch(ch, v.Pitch)
	r.SetAttack(ch, v.Attack)
	r.SetDecay1(ch, v.Decay1)
	r.SetDecay2(ch, v.Decay2)
	r.SetReleaseGlo(ch, uint16(v.Release)<<8|uint16(v.Global))
	r.SetPan(ch, uint16(v.Pan[0]&0xf)<<8|uint16(v.Pan[1]&0xf))

	r.SetDryRev(ch, levelOr(v.Dry, 0)<<8|levelOr(v.Reverb, 0xff))
	r.SetChoVar(ch, levelOr(v.Chorus, 0xff)<<8|levelOr(v.Variation, 0xff))
	for sel, rt := range v.Routing {
		r.SetRouting(ch, sel, rt)
	}

	r.SetLPFCutoff(ch, v.LPF.Cutoff)
	r.SetLPFCutoffInc(ch, v.LPF.Inc)
	r.SetLPFReso(ch, v.LPF.Reso)
	r.SetHPFCutoff(ch, v.HPF)
	for i := 0; i < 6; i++ {
		var c int16
		if i < len(v.EQ) {
			c = v.EQ[i]
		}
		r.SetEQ(ch, i, uint16(c))
	}
}

// Schedule plays the patch's key events against the output tick count.
type Schedule struct {
	events []scheduled
	next   int
}

type scheduled struct {
	tick  uint64
	voice int
	off   bool
}

// NewSchedule converts the key events to ticks at the patch sample rate.
// Events at the same tick keep their file order.
func (p *Patch) NewSchedule() *Schedule {
	s := &Schedule{events: make([]scheduled, len(p.Events))}
	for i, e := range p.Events {
		s.events[i] = scheduled{
			tick:  uint64(e.At * float64(p.SampleRate)),
			voice: e.Voice,
			off:   e.Off,
		}
	}
	sort.SliceStable(s.events, func(i, j int) bool {
		return s.events[i].tick < s.events[j].tick
	})
	return s
}

// Advance fires every event due at or before tick.
func (s *Schedule) Advance(r *emu.Registers, tick uint64) {
	for s.next < len(s.events) && s.events[s.next].tick <= tick {
		e := s.events[s.next]
		if e.off {
			r.KeyOffVoice(e.voice)
		} else {
			r.KeyOnVoice(e.voice)
		}
		s.next++
	}
}

// Done reports whether every event has fired.
func (s *Schedule) Done() bool {
	return s.next >= len(s.events)
}

// Length returns the tick of the last event.
func (s *Schedule) Length() uint64 {
	if len(s.events) == 0 {
		return 0
	}
	return s.events[len(s.events)-1].tick
}
