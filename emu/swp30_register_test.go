package emu

import "testing"

func TestRegisters_VoiceRoundTrip(t *testing.T) {
	c := newTestChip(t)
	r := c.Registers()

	type reg struct {
		name string
		set  func(ch int, v uint16)
		get  func(ch int) uint16
	}
	regs := []reg{
		{"SampleStartH", r.SetSampleStartH, r.SampleStartH},
		{"SampleStartL", r.SetSampleStartL, r.SampleStartL},
		{"SampleEndH", r.SetSampleEndH, r.SampleEndH},
		{"SampleEndL", r.SetSampleEndL, r.SampleEndL},
		{"SampleAddressH", r.SetSampleAddressH, r.SampleAddressH},
		{"SampleAddressL", r.SetSampleAddressL, r.SampleAddressL},
		{"Pitch", r.SetPitch, r.Pitch},
		{"Attack", r.SetAttack, r.Attack},
		{"Decay1", r.SetDecay1, r.Decay1},
		{"Decay2", r.SetDecay2, r.Decay2},
		{"ReleaseGlo", r.SetReleaseGlo, r.ReleaseGlo},
		{"Pan", r.SetPan, r.Pan},
		{"DryRev", r.SetDryRev, r.DryRev},
		{"ChoVar", r.SetChoVar, r.ChoVar},
		{"LPFCutoff", r.SetLPFCutoff, r.LPFCutoff},
		{"LPFCutoffInc", r.SetLPFCutoffInc, r.LPFCutoffInc},
		{"LPFReso", r.SetLPFReso, r.LPFReso},
		{"HPFCutoff", r.SetHPFCutoff, r.HPFCutoff},
	}
	for i, rg := range regs {
		for _, ch := range []int{0, 17, 63} {
			val := uint16(0x1234 + i*0x0101 + ch)
			rg.set(ch, val)
			if got := rg.get(ch); got != val {
				t.Errorf("%s voice %d: expected 0x%04X, got 0x%04X", rg.name, ch, val, got)
			}
		}
	}

	for sel := 0; sel < 3; sel++ {
		r.SetRouting(40, sel, uint16(sel+1))
		if got := r.Routing(40, sel); got != uint16(sel+1) {
			t.Errorf("Routing %d: expected %d, got %d", sel, sel+1, got)
		}
	}
	for i := 0; i < 6; i++ {
		r.SetEQ(41, i, uint16(0xf000+i))
		if got := r.EQ(41, i); got != uint16(0xf000+i) {
			t.Errorf("EQ %d: expected 0x%04X, got 0x%04X", i, 0xf000+i, got)
		}
	}
}

func TestRegisters_HalvesAreIndependent(t *testing.T) {
	c := newTestChip(t)
	r := c.Registers()
	r.SetSampleAddressH(3, 0xa000)
	r.SetSampleAddressL(3, 0x1234)
	r.SetSampleAddressH(3, 0x6000)
	if c.voices[3].sampleAddress != 0x60001234 {
		t.Errorf("expected 0x60001234, got 0x%08X", c.voices[3].sampleAddress)
	}
}

func TestRegisters_OutOfRangeIgnored(t *testing.T) {
	c := newTestChip(t)
	r := c.Registers()
	r.SetRouting(0, 3, 5)
	r.SetEQ(0, 6, 5)
	r.SetMEGConst(-1, 5)
	r.SetMEGOffset(0x80, 5)
	r.SetMEGLFO(0x18, 5)
	r.SetMEGMap(8, 5)
	if r.Routing(0, 3) != 0 || r.EQ(0, -1) != 0 || r.MEGConst(0x180) != 0 ||
		r.MEGOffset(-1) != 0 || r.MEGLFO(100) != 0 || r.MEGMap(8) != 0 {
		t.Error("out of range reads should return 0")
	}
}

func TestRegisters_VoiceIndexWraps(t *testing.T) {
	c := newTestChip(t)
	r := c.Registers()
	r.SetPitch(64+5, 0x4321)
	if r.Pitch(5) != 0x4321 {
		t.Error("voice 69 should alias voice 5")
	}
}

func TestRegisters_SetPanResolves(t *testing.T) {
	c := newTestChip(t)
	r := c.Registers()
	r.SetPan(9, 0x0803)
	v := &c.voices[9]
	if v.panL != panmap[8] || v.panR != panmap[3] {
		t.Errorf("expected resolved pan 0x%X/0x%X, got 0x%X/0x%X", panmap[8], panmap[3], v.panL, v.panR)
	}
}

func TestRegisters_KeyOnMaskStaging(t *testing.T) {
	c := newTestChip(t)
	r := c.Registers()
	for sel := 0; sel < 4; sel++ {
		r.SetKeyOnMask(sel, uint16(0x1111*(sel+1)))
	}
	if c.keyonMask != 0x4444333322221111 {
		t.Errorf("expected staged mask 0x4444333322221111, got 0x%016X", c.keyonMask)
	}
	for sel := 0; sel < 4; sel++ {
		if got := r.KeyOnMask(sel); got != uint16(0x1111*(sel+1)) {
			t.Errorf("KeyOnMask(%d): expected 0x%04X, got 0x%04X", sel, 0x1111*(sel+1), got)
		}
	}
	if c.ActiveMask() != 0 {
		t.Error("staging changed the active mask")
	}
	if r.KeyOn() != 0 {
		t.Error("strobe should read 0")
	}
}

func TestRegisters_MEGProgramAutoIncrement(t *testing.T) {
	c := newTestChip(t)
	r := c.Registers()
	r.SetMEGProgramAddress(5)
	for sel := 0; sel < 4; sel++ {
		r.SetMEGProgram(sel, uint16(0x1111*(sel+1)))
	}
	if got := c.MEG().Program(5); got != 0x4444333322221111 {
		t.Errorf("expected microword 0x4444333322221111, got 0x%016X", got)
	}
	if r.MEGProgramAddress() != 6 {
		t.Errorf("expected address 6, got %d", r.MEGProgramAddress())
	}

	r.SetMEGProgramAddress(5)
	for sel := 0; sel < 4; sel++ {
		if got := r.MEGProgram(sel); got != uint16(0x1111*(sel+1)) {
			t.Errorf("MEGProgram(%d): expected 0x%04X, got 0x%04X", sel, 0x1111*(sel+1), got)
		}
	}

	r.SetMEGProgramAddress(0x17f)
	r.SetMEGProgram(3, 0)
	if r.MEGProgramAddress() != 0 {
		t.Errorf("expected address to wrap to 0, got 0x%X", r.MEGProgramAddress())
	}
}

func TestRegisters_MEGProgramAddressWraps(t *testing.T) {
	r := newTestChip(t).Registers()
	tests := []struct {
		write, want uint16
	}{
		{0x000, 0x000},
		{0x17f, 0x17f},
		{0x180, 0x000},
		{0x200, 0x080},
		{0xffff, 0xffff % 0x180},
	}
	for _, tt := range tests {
		r.SetMEGProgramAddress(tt.write)
		if got := r.MEGProgramAddress(); got != tt.want {
			t.Errorf("wrote 0x%X: expected 0x%X, got 0x%X", tt.write, tt.want, got)
		}
	}
}

func TestRegisters_MEGTables(t *testing.T) {
	c := newTestChip(t)
	r := c.Registers()
	r.SetMEGConst(0x17f, 0x8001)
	r.SetMEGOffset(0x7f, 0x2345)
	r.SetMEGLFO(0x17, 0x0456)
	r.SetMEGMap(7, 0x0567)
	if r.MEGConst(0x17f) != 0x8001 || c.MEG().Const(0x17f) != -0x7fff {
		t.Error("const round trip failed")
	}
	if r.MEGOffset(0x7f) != 0x2345 || r.MEGLFO(0x17) != 0x0456 || r.MEGMap(7) != 0x0567 {
		t.Error("table round trip failed")
	}
}

func TestRegisters_InternalRead(t *testing.T) {
	c := newTestChip(t)
	r := c.Registers()
	r.KeyOnVoice(3)

	r.SetInternalAddress(3)
	if got := r.Internal(); got != 0x2000 {
		t.Errorf("attack at floor: expected 0x2000, got 0x%04X", got)
	}
	r.SetInternalAddress(0x0603)
	if got := r.Internal(); got != 0x8000 {
		t.Errorf("item 6 on a sounding voice: expected 0x8000, got 0x%04X", got)
	}

	c.voices[3].envMode = envRelease
	c.voices[3].envLevel = 0x04000000
	r.SetInternalAddress(3)
	if got := r.Internal(); got != 3<<14|0x1000 {
		t.Errorf("release: expected 0x%04X, got 0x%04X", 3<<14|0x1000, got)
	}

	r.SetInternalAddress(4)
	if got := r.Internal(); got != 0xffff {
		t.Errorf("idle voice: expected 0xffff, got 0x%04X", got)
	}
	r.SetInternalAddress(0x0604)
	if got := r.Internal(); got != 0 {
		t.Errorf("idle voice item 6: expected 0, got 0x%04X", got)
	}
	if r.InternalAddress() != 0x0604 {
		t.Error("internal address round trip failed")
	}
}
