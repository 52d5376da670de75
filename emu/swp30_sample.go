package emu

// pitchStep converts a pitch register to a 24.8 per-tick position step.
// Bits 15-12 are a signed octave, bits 11-0 the fraction of an octave in
// a linear mantissa; pitch 0 plays at one sample per tick.
func pitchStep(p uint16) uint32 {
	octave := int(int16(p) >> 12)
	s := uint64(0x1000|p&0xfff) << 8
	if octave >= 0 {
		s <<= uint(octave)
	} else {
		s >>= uint(-octave)
	}
	return uint32(s >> 12)
}

// nextFrameIndex returns the frame played after frame n: the next one,
// the loop start at the end of a looping sample, or n itself at the end
// of a one-shot.
func nextFrameIndex(v *voice, n uint32) uint32 {
	start := v.sampleStart & 0xffffff
	end := v.sampleEnd & 0xffffff
	if n+1 < end {
		return n + 1
	}
	if v.sampleEnd&oneShotFlag != 0 || end <= start {
		return n
	}
	return start
}

// fetchFrame returns the interpolated frame at the voice's position,
// keeping frames n and n+1 in the history so steady playback needs at
// most one new fetch per frame boundary.
func (c *SWP30) fetchFrame(v *voice) [2]int32 {
	n := v.samplePos >> 8
	frac := int32(v.samplePos & 0xff)

	switch {
	case v.historyOK && n == v.historyIdx:
	case v.historyOK && n == nextFrameIndex(v, v.historyIdx):
		f1 := c.readFrame(v, nextFrameIndex(v, n))
		for side := 0; side < 2; side++ {
			v.history[side][0] = v.history[side][1]
			v.history[side][1] = f1[side]
		}
	default:
		f0 := c.readFrame(v, n)
		f1 := c.readFrame(v, nextFrameIndex(v, n))
		for side := 0; side < 2; side++ {
			v.history[side][0] = f0[side]
			v.history[side][1] = f1[side]
		}
	}
	v.historyIdx = n
	v.historyOK = true

	var out [2]int32
	for side := 0; side < 2; side++ {
		h0 := v.history[side][0]
		h1 := v.history[side][1]
		out[side] = h0 + ((h1-h0)*frac)>>8
	}
	return out
}

// readFrame reads frame n, duplicating mono samples to both sides.
func (c *SWP30) readFrame(v *voice, n uint32) [2]int32 {
	if v.sampleAddress&stereoFlag != 0 {
		return [2]int32{c.readSample(v, 2*n), c.readSample(v, 2*n+1)}
	}
	s := c.readSample(v, n)
	return [2]int32{s, s}
}

// readSample decodes sample n of the voice's sample data into 16-bit scale.
func (c *SWP30) readSample(v *voice, n uint32) int32 {
	base := v.sampleAddress & addressMask
	switch v.sampleAddress >> 30 {
	case format16:
		w := c.rom.ReadWord(base + n>>1)
		return int32(int16(w >> (16 * (n & 1))))
	case format12:
		bit := uint64(n) * 12
		wa := base + uint32(bit>>5)
		lo := uint64(c.rom.ReadWord(wa))
		hi := uint64(c.rom.ReadWord(wa + 1))
		raw := (hi<<32 | lo) >> (bit & 31) & 0xfff
		return int32(int16(uint16(raw << 4)))
	case format8:
		w := c.rom.ReadWord(base + n>>2)
		return int32(int8(w>>(8*(n&3)))) << 8
	default:
		w := c.rom.ReadWord(base + n>>2)
		return int32(sampleLog8[uint8(w>>(8*(n&3)))])
	}
}

// advancePosition steps the read position by the pitch. Looping samples
// wrap back into [start, end); one-shots and empty loops gate the voice
// off at the end.
func (c *SWP30) advancePosition(ch int) {
	v := &c.voices[ch]
	start := uint64(v.sampleStart&0xffffff) << 8
	end := uint64(v.sampleEnd&0xffffff) << 8
	pos := uint64(v.samplePos) + uint64(pitchStep(v.pitch))
	if pos >= end {
		if v.sampleEnd&oneShotFlag != 0 || end <= start {
			c.gateOff(ch)
			return
		}
		pos = start + (pos-start)%(end-start)
	}
	v.samplePos = uint32(pos)
}
