package emu

import "github.com/user-none/emswp/meg"

// Registers is the host's view of the chip: one accessor pair per register
// field. Address decoding is left to the caller. Voice indexes wrap at 64
// and table indexes outside a table are ignored on write and read as 0.
// Every field reads back what was written except the MEG program address,
// which is reduced modulo the program size.
type Registers struct {
	c *SWP30
}

func (r *Registers) voice(ch int) *voice {
	return &r.c.voices[ch&0x3f]
}

func hi16(v uint32) uint16 { return uint16(v >> 16) }
func lo16(v uint32) uint16 { return uint16(v) }

func setHi16(v *uint32, data uint16) { *v = *v&0x0000ffff | uint32(data)<<16 }
func setLo16(v *uint32, data uint16) { *v = *v&0xffff0000 | uint32(data) }

// --- Per-voice sample registers ---

// SampleStartH returns the high half of the loop start, in samples.
func (r *Registers) SampleStartH(ch int) uint16 { return hi16(r.voice(ch).sampleStart) }

// SampleStartL returns the low half of the loop start.
func (r *Registers) SampleStartL(ch int) uint16 { return lo16(r.voice(ch).sampleStart) }

// SetSampleStartH writes the high half of the loop start.
func (r *Registers) SetSampleStartH(ch int, data uint16) { setHi16(&r.voice(ch).sampleStart, data) }

// SetSampleStartL writes the low half of the loop start.
func (r *Registers) SetSampleStartL(ch int, data uint16) { setLo16(&r.voice(ch).sampleStart, data) }

// SampleEndH returns the high half of the sample end; bit 15 is the
// one-shot flag.
func (r *Registers) SampleEndH(ch int) uint16 { return hi16(r.voice(ch).sampleEnd) }

// SampleEndL returns the low half of the sample end.
func (r *Registers) SampleEndL(ch int) uint16 { return lo16(r.voice(ch).sampleEnd) }

// SetSampleEndH writes the high half of the sample end and the one-shot
// flag.
func (r *Registers) SetSampleEndH(ch int, data uint16) { setHi16(&r.voice(ch).sampleEnd, data) }

// SetSampleEndL writes the low half of the sample end.
func (r *Registers) SetSampleEndL(ch int, data uint16) { setLo16(&r.voice(ch).sampleEnd, data) }

// SampleAddressH returns the format, stereo flag and high address bits.
func (r *Registers) SampleAddressH(ch int) uint16 { return hi16(r.voice(ch).sampleAddress) }

// SampleAddressL returns the low half of the sample word address.
func (r *Registers) SampleAddressL(ch int) uint16 { return lo16(r.voice(ch).sampleAddress) }

// SetSampleAddressH writes the format, stereo flag and high address bits.
func (r *Registers) SetSampleAddressH(ch int, data uint16) {
	setHi16(&r.voice(ch).sampleAddress, data)
}

// SetSampleAddressL writes the low half of the sample word address.
func (r *Registers) SetSampleAddressL(ch int, data uint16) {
	setLo16(&r.voice(ch).sampleAddress, data)
}

// Pitch returns the pitch register: signed octave over a 12-bit fraction.
func (r *Registers) Pitch(ch int) uint16 { return r.voice(ch).pitch }

// SetPitch writes the pitch register. It takes effect on the next tick.
func (r *Registers) SetPitch(ch int, data uint16) { r.voice(ch).pitch = data }

// --- Per-voice envelope registers ---

// Attack returns the attack register (delay flag and rate).
func (r *Registers) Attack(ch int) uint16 { return r.voice(ch).attack }

// SetAttack writes the attack register.
func (r *Registers) SetAttack(ch int, data uint16) { r.voice(ch).attack = data }

// Decay1 returns the decay1 register (hold flag, rate and breakpoint).
func (r *Registers) Decay1(ch int) uint16 { return r.voice(ch).decay1 }

// SetDecay1 writes the decay1 register.
func (r *Registers) SetDecay1(ch int, data uint16) { r.voice(ch).decay1 = data }

// Decay2 returns the decay2 register (rate and sustain).
func (r *Registers) Decay2(ch int) uint16 { return r.voice(ch).decay2 }

// SetDecay2 writes the decay2 register.
func (r *Registers) SetDecay2(ch int, data uint16) { r.voice(ch).decay2 = data }

// ReleaseGlo returns the release rate in the high byte and the global
// level in the low byte.
func (r *Registers) ReleaseGlo(ch int) uint16 { return r.voice(ch).releaseGlo }

// SetReleaseGlo writes the release rate and global level. The level slews
// toward the new value.
func (r *Registers) SetReleaseGlo(ch int, data uint16) { r.voice(ch).releaseGlo = data }

// --- Per-voice mix registers ---

// Pan returns the raw pan register.
func (r *Registers) Pan(ch int) uint16 { return r.voice(ch).pan }

// SetPan stores the pan register and resolves both sides through the
// pan law table.
func (r *Registers) SetPan(ch int, data uint16) {
	v := r.voice(ch)
	v.pan = data
	v.resolvePan()
}

// DryRev returns the dry level in the high byte and the reverb send in
// the low byte.
func (r *Registers) DryRev(ch int) uint16 { return r.voice(ch).dryRev }

// SetDryRev writes the dry level and reverb send.
func (r *Registers) SetDryRev(ch int, data uint16) { r.voice(ch).dryRev = data }

// ChoVar returns the chorus send in the high byte and the variation send
// in the low byte.
func (r *Registers) ChoVar(ch int) uint16 { return r.voice(ch).choVar }

// SetChoVar writes the chorus and variation sends.
func (r *Registers) SetChoVar(ch int, data uint16) { r.voice(ch).choVar = data }

// Routing returns routing selector sel (0 reverb, 1 chorus, 2 variation).
func (r *Registers) Routing(ch, sel int) uint16 {
	if sel < 0 || sel >= 3 {
		return 0
	}
	return r.voice(ch).routing[sel]
}

// SetRouting writes routing selector sel. Other selectors are ignored.
func (r *Registers) SetRouting(ch, sel int, data uint16) {
	if sel < 0 || sel >= 3 {
		return
	}
	r.voice(ch).routing[sel] = data
}

// --- Per-voice filter registers ---

// LPFCutoff returns the low-pass cutoff target.
func (r *Registers) LPFCutoff(ch int) uint16 { return r.voice(ch).lpfCutoff }

// SetLPFCutoff writes the low-pass cutoff target.
func (r *Registers) SetLPFCutoff(ch int, data uint16) { r.voice(ch).lpfCutoff = data }

// LPFCutoffInc returns the cutoff slew rate.
func (r *Registers) LPFCutoffInc(ch int) uint16 { return r.voice(ch).lpfCutoffInc }

// SetLPFCutoffInc writes the cutoff slew rate; 0 jumps to the target.
func (r *Registers) SetLPFCutoffInc(ch int, data uint16) { r.voice(ch).lpfCutoffInc = data }

// LPFReso returns the low-pass resonance.
func (r *Registers) LPFReso(ch int) uint16 { return r.voice(ch).lpfReso }

// SetLPFReso writes the low-pass resonance.
func (r *Registers) SetLPFReso(ch int, data uint16) { r.voice(ch).lpfReso = data }

// HPFCutoff returns the high-pass cutoff.
func (r *Registers) HPFCutoff(ch int) uint16 { return r.voice(ch).hpfCutoff }

// SetHPFCutoff writes the high-pass cutoff; 0 bypasses the filter.
func (r *Registers) SetHPFCutoff(ch int, data uint16) { r.voice(ch).hpfCutoff = data }

// EQ returns EQ coefficient i (0-5).
func (r *Registers) EQ(ch, i int) uint16 {
	if i < 0 || i >= 6 {
		return 0
	}
	return uint16(r.voice(ch).eq[i])
}

// SetEQ writes EQ coefficient i. Other indexes are ignored.
func (r *Registers) SetEQ(ch, i int, data uint16) {
	if i < 0 || i >= 6 {
		return
	}
	r.voice(ch).eq[i] = int16(data)
}

// --- Key on ---

// KeyOnMask returns the staged key-on mask bits 16*sel to 16*sel+15.
func (r *Registers) KeyOnMask(sel int) uint16 {
	return uint16(r.c.keyonMask >> (16 * uint(sel&3)))
}

// SetKeyOnMask stages 16 bits of the key-on mask. Nothing happens until
// the key-on strobe.
func (r *Registers) SetKeyOnMask(sel int, data uint16) {
	shift := 16 * uint(sel&3)
	r.c.keyonMask = r.c.keyonMask&^(uint64(0xffff)<<shift) | uint64(data)<<shift
}

// KeyOn reads the strobe register, which holds no state.
func (r *Registers) KeyOn() uint16 {
	return 0
}

// SetKeyOn commits the staged mask: voices whose bit rose start, voices
// whose bit fell release.
func (r *Registers) SetKeyOn(uint16) {
	r.c.commitKeyOn()
}

// KeyOnVoice stages the bit of voice ch and commits.
func (r *Registers) KeyOnVoice(ch int) {
	r.c.keyonMask |= uint64(1) << uint(ch&0x3f)
	r.c.commitKeyOn()
}

// KeyOffVoice clears the bit of voice ch and commits.
func (r *Registers) KeyOffVoice(ch int) {
	r.c.keyonMask &^= uint64(1) << uint(ch&0x3f)
	r.c.commitKeyOn()
}

// --- Internal read port ---

// InternalAddress returns the internal read port address.
func (r *Registers) InternalAddress() uint16 { return r.c.internalAdr }

// SetInternalAddress selects what Internal returns.
func (r *Registers) SetInternalAddress(data uint16) { r.c.internalAdr = data }

// Internal returns the value selected by the internal address: bits 5-0
// pick the voice and bits 15-8 the item. Item 0 is the envelope as
// ((mode-1)<<14)|level, 0xffff when idle; item 6 is 0x8000 while the
// voice sounds.
func (r *Registers) Internal() uint16 {
	v := r.voice(int(r.c.internalAdr))
	switch r.c.internalAdr >> 8 {
	case 0:
		if v.envMode == envIdle {
			return 0xffff
		}
		return uint16(v.envMode-1)<<14 | uint16(v.envLevel>>14)&0x3fff
	case 6:
		if v.envMode == envIdle {
			return 0
		}
		return 0x8000
	}
	return 0
}

// --- MEG ---

// MEGProgramAddress returns the program word address used by MEGProgram.
func (r *Registers) MEGProgramAddress() uint16 { return r.c.megPrgAdr }

// SetMEGProgramAddress sets the program word address. Addresses wrap at
// the program size, so this is the one register that does not read back
// what was written above 0x17f.
func (r *Registers) SetMEGProgramAddress(data uint16) {
	r.c.megPrgAdr = data % meg.ProgramSize
}

// MEGProgram returns bits 16*sel to 16*sel+15 of the microword at the
// program address.
func (r *Registers) MEGProgram(sel int) uint16 {
	return uint16(r.c.meg.Program(int(r.c.megPrgAdr)) >> (16 * uint(sel&3)))
}

// SetMEGProgram writes 16 bits of the microword at the program address.
// Writing the top quarter (sel 3) advances the address.
func (r *Registers) SetMEGProgram(sel int, data uint16) {
	shift := 16 * uint(sel&3)
	adr := int(r.c.megPrgAdr)
	w := r.c.meg.Program(adr)
	r.c.meg.SetProgram(adr, w&^(uint64(0xffff)<<shift)|uint64(data)<<shift)
	if sel&3 == 3 {
		r.c.megPrgAdr = uint16((adr + 1) % meg.ProgramSize)
	}
}

// MEGConst returns constant i as raw bits.
func (r *Registers) MEGConst(i int) uint16 {
	if i < 0 || i >= meg.ConstCount {
		return 0
	}
	return uint16(r.c.meg.Const(i))
}

// SetMEGConst writes constant i.
func (r *Registers) SetMEGConst(i int, data uint16) {
	if i < 0 || i >= meg.ConstCount {
		return
	}
	r.c.meg.SetConst(i, int16(data))
}

// MEGOffset returns delay memory offset i.
func (r *Registers) MEGOffset(i int) uint16 {
	if i < 0 || i >= meg.OffsetCount {
		return 0
	}
	return r.c.meg.Offset(i)
}

// SetMEGOffset writes delay memory offset i.
func (r *Registers) SetMEGOffset(i int, data uint16) {
	if i < 0 || i >= meg.OffsetCount {
		return
	}
	r.c.meg.SetOffset(i, data)
}

// MEGLFO returns the control word of LFO i.
func (r *Registers) MEGLFO(i int) uint16 {
	if i < 0 || i >= meg.LFOCount {
		return 0
	}
	return r.c.meg.LFO(i)
}

// SetMEGLFO writes the control word of LFO i.
func (r *Registers) SetMEGLFO(i int, data uint16) {
	if i < 0 || i >= meg.LFOCount {
		return
	}
	r.c.meg.SetLFO(i, data)
}

// MEGMap returns delay memory map i.
func (r *Registers) MEGMap(i int) uint16 {
	if i < 0 || i >= meg.MapCount {
		return 0
	}
	return r.c.meg.Map(i)
}

// SetMEGMap writes delay memory map i.
func (r *Registers) SetMEGMap(i int, data uint16) {
	if i < 0 || i >= meg.MapCount {
		return
	}
	r.c.meg.SetMap(i, data)
}

// --- Wave ROM host access ---

// WaveROMAddressH returns the high half of the host read address.
func (r *Registers) WaveROMAddressH() uint16 { return hi16(r.c.waverom.adr) }

// WaveROMAddressL returns the low half of the host read address.
func (r *Registers) WaveROMAddressL() uint16 { return lo16(r.c.waverom.adr) }

// SetWaveROMAddressH writes the high half of the host read address.
func (r *Registers) SetWaveROMAddressH(data uint16) { setHi16(&r.c.waverom.adr, data) }

// SetWaveROMAddressL writes the low half of the host read address.
func (r *Registers) SetWaveROMAddressL(data uint16) { setLo16(&r.c.waverom.adr, data) }

// WaveROMModeH returns the high half of the host access mode.
func (r *Registers) WaveROMModeH() uint16 { return hi16(r.c.waverom.mode) }

// WaveROMModeL returns the low half of the host access mode; bit 0 is
// address auto-increment.
func (r *Registers) WaveROMModeL() uint16 { return lo16(r.c.waverom.mode) }

// SetWaveROMModeH writes the high half of the host access mode.
func (r *Registers) SetWaveROMModeH(data uint16) { setHi16(&r.c.waverom.mode, data) }

// SetWaveROMModeL writes the low half of the host access mode.
func (r *Registers) SetWaveROMModeL(data uint16) { setLo16(&r.c.waverom.mode, data) }

// WaveROMValueH returns the high half of the last word read.
func (r *Registers) WaveROMValueH() uint16 { return hi16(r.c.waverom.val) }

// WaveROMValueL returns the low half of the last word read.
func (r *Registers) WaveROMValueL() uint16 { return lo16(r.c.waverom.val) }

// WaveROMAccess returns the last value written to the access register.
func (r *Registers) WaveROMAccess() uint16 { return r.c.waverom.access }

// WaveROMBusy returns 0 while a host read is pending and 0x8000
// otherwise.
func (r *Registers) WaveROMBusy() uint16 { return r.c.waverom.busy() }

// SetWaveROMAccess starts a host read when bit 15 is set.
func (r *Registers) SetWaveROMAccess(data uint16) {
	r.c.waverom.startAccess(data, r.c.rom, r.c.cfg.ROMLatency)
}
