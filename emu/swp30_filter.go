package emu

// slewCutoff moves the current low-pass cutoff toward the register value.
// An increment of 0 jumps directly.
func (v *voice) slewCutoff() {
	target := int32(v.lpfCutoff) << 12
	inc := v.lpfCutoffInc & 0x7f
	if inc == 0 {
		v.lpfCur = target
		return
	}
	fpstep(&v.lpfCur, target, globalStep[inc])
}

// filter runs one side of the voice through LPF, HPF and EQ.
func (v *voice) filter(side int, x int32) int32 {
	x = v.lowPass(side, x)
	x = v.highPass(side, x)
	return v.equalize(side, x)
}

// lowPass is a two-pole filter with resonance. The packed cutoff scales
// each pole's update like an envelope level scales a sample: 0 is fully
// open and the filter is bypassed.
func (v *voice) lowPass(side int, x int32) int32 {
	st := &v.lpf[side]
	if v.lpfCur == 0 {
		st[0], st[1] = x, x
		return x
	}
	fb := (int64(v.lpfReso&0xff) * int64(st[0]-st[1])) >> 8
	st[0] = saturate24(int64(st[0]) + int64(lpffpapply(v.lpfCur, saturate24(int64(x)-int64(st[0])+fb))))
	st[1] = saturate24(int64(st[1]) + int64(lpffpapply(v.lpfCur, st[0]-st[1])))
	return st[1]
}

// highPass subtracts a one-pole low-pass from the input. The register holds
// a 4-bit exponent over a 12-bit mantissa; 0 bypasses.
func (v *voice) highPass(side int, x int32) int32 {
	if v.hpfCutoff == 0 {
		return x
	}
	k := (int64(0x1000|v.hpfCutoff&0xfff) << (v.hpfCutoff >> 12)) >> 13
	lp := &v.hpf[side]
	*lp = saturate24(int64(*lp) + ((int64(x)-int64(*lp))*k)>>16)
	return saturate24(int64(x) - int64(*lp))
}

// equalize runs two first-order sections. Each has coefficients
// (c0, c1, c2) stored as deltas from the identity:
//
//	y = (x*(0x4000+c0) + x1*c1 - y1*c2) >> 14
func (v *voice) equalize(side int, x int32) int32 {
	for sec := 0; sec < 2; sec++ {
		c0 := int64(v.eq[sec*3])
		c1 := int64(v.eq[sec*3+1])
		c2 := int64(v.eq[sec*3+2])
		y := (int64(x)*(0x4000+c0) + int64(v.eqX[side][sec])*c1 - int64(v.eqY[side][sec])*c2) >> 14
		v.eqX[side][sec] = x
		x = saturate24(y)
		v.eqY[side][sec] = x
	}
	return x
}

// sendAttenuation converts an 8-bit send level to a packed attenuation.
// 0xff mutes.
func sendAttenuation(level uint8) int32 {
	if level == 0xff {
		return LevelSilent
	}
	return int32(level) << 20
}

// resolvePan updates the resolved panmap entries from the pan register.
func (v *voice) resolvePan() {
	v.panL = panmap[(v.pan>>8)&0xf]
	v.panR = panmap[v.pan&0xf]
}

// accumulate adds one side of a voice to the dry bus and its three send
// buses. Envelope, global level, pan and send level all add up in the
// packed attenuation domain before a single multiply.
func (c *SWP30) accumulate(v *voice, side int, x int32) {
	pan := v.panL
	if side == 1 {
		pan = v.panR
	}
	base := v.envLevel + v.gloCur<<16 + pan<<16

	c.dry[side] += fpapply(base+sendAttenuation(uint8(v.dryRev>>8)), x)
	c.sends[v.routing[0]&7][side] += fpapply(base+sendAttenuation(uint8(v.dryRev)), x)
	c.sends[v.routing[1]&7][side] += fpapply(base+sendAttenuation(uint8(v.choVar>>8)), x)
	c.sends[v.routing[2]&7][side] += fpapply(base+sendAttenuation(uint8(v.choVar)), x)
}
