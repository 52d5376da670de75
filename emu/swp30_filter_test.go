package emu

import "testing"

func TestPanLaw(t *testing.T) {
	want := [16]int32{
		16384, 14016, 12992, 11968, 10944, 9920, 8896, 8032,
		7520, 7008, 6496, 5984, 5472, 4960, 4448, 0,
	}
	for code := 0; code < 16; code++ {
		if got := fpapply(panmap[code]<<16, 0x4000); got != want[code] {
			t.Errorf("pan code %d: expected %d, got %d", code, want[code], got)
		}
		if got := fpapply(panmap[code]<<16, 0x1000); got != want[code]/4 {
			t.Errorf("pan code %d at 0x1000: expected %d, got %d", code, want[code]/4, got)
		}
	}
}

func TestAccumulate_PanSides(t *testing.T) {
	c := newTestChip(t)
	r := c.Registers()
	r.SetPan(0, 0x0f00) // left muted, right centre
	r.SetDryRev(0, 0x00ff)
	r.SetChoVar(0, 0xffff)
	v := &c.voices[0]
	v.envLevel = 0

	c.accumulate(v, 0, 0x4000)
	c.accumulate(v, 1, 0x4000)
	if c.dry != [2]int32{0, 0x4000} {
		t.Errorf("expected [0 16384], got %v", c.dry)
	}
}

func TestSendAttenuation(t *testing.T) {
	if sendAttenuation(0xff) != LevelSilent {
		t.Error("0xff should mute")
	}
	if got := fpapply(sendAttenuation(0x10), 4096); got != 2048 {
		t.Errorf("level 0x10: expected 2048, got %d", got)
	}
	if got := fpapply(sendAttenuation(0), 4096); got != 4096 {
		t.Errorf("level 0: expected 4096, got %d", got)
	}
}

func TestAccumulate_Routing(t *testing.T) {
	c := newTestChip(t)
	v := &c.voices[0]
	v.envLevel = 0
	v.dryRev = 0xff00 // dry muted, reverb full
	v.choVar = 0x0010 // chorus full, variation half
	v.routing = [3]uint16{2, 5, 0xf}

	c.accumulate(v, 0, 4096)
	if c.dry[0] != 0 {
		t.Errorf("expected muted dry, got %d", c.dry[0])
	}
	if c.sends[2][0] != 4096 {
		t.Errorf("reverb bus: expected 4096, got %d", c.sends[2][0])
	}
	if c.sends[5][0] != 4096 {
		t.Errorf("chorus bus: expected 4096, got %d", c.sends[5][0])
	}
	if c.sends[7][0] != 2048 {
		t.Errorf("variation bus (routing masked to 7): expected 2048, got %d", c.sends[7][0])
	}
}

func TestAccumulate_GlobalLevelAndEnvelope(t *testing.T) {
	c := newTestChip(t)
	v := &c.voices[0]
	v.dryRev = 0x00ff
	v.choVar = 0xffff
	v.envLevel = 0x00800000
	v.gloCur = 0x80 // half an octave more

	c.accumulate(v, 0, 1000)
	if c.dry[0] != 500 {
		t.Errorf("expected 500, got %d", c.dry[0])
	}
}

func TestEqualize_Identity(t *testing.T) {
	v := &voice{}
	for _, x := range []int32{0, 1000, -5000, 0x7fffff, -0x800000, 42} {
		if got := v.equalize(0, x); got != x {
			t.Errorf("expected %d, got %d", x, got)
		}
	}
}

func TestEqualize_Coefficients(t *testing.T) {
	v := &voice{}
	v.eq[0] = -0x2000
	if got := v.equalize(0, 1000); got != 500 {
		t.Errorf("half gain: expected 500, got %d", got)
	}

	v = &voice{}
	v.eq[1] = 0x4000 // y = x + x1
	if got := v.equalize(1, 1000); got != 1000 {
		t.Errorf("impulse: expected 1000, got %d", got)
	}
	if got := v.equalize(1, 0); got != 1000 {
		t.Errorf("delayed tap: expected 1000, got %d", got)
	}
	if got := v.equalize(1, 0); got != 0 {
		t.Errorf("after impulse: expected 0, got %d", got)
	}
	if v.eqX[0] != [2]int32{} {
		t.Error("right side touched the left side state")
	}
}

func TestFilters_Bypass(t *testing.T) {
	v := &voice{}
	for _, x := range []int32{100, -2000, 30000} {
		if got := v.filter(0, x); got != x {
			t.Errorf("expected bypass of %d, got %d", x, got)
		}
	}
}

func TestLowPass_Smooths(t *testing.T) {
	v := &voice{lpfCur: 0x01000000}
	first := v.lowPass(0, 1000)
	if first != 250 {
		t.Errorf("expected first output 250, got %d", first)
	}
	prev := first
	for i := 0; i < 200; i++ {
		y := v.lowPass(0, 1000)
		if y < prev {
			t.Fatalf("step response fell at %d: %d -> %d", i, prev, y)
		}
		prev = y
	}
	if prev < 995 || prev > 1000 {
		t.Errorf("expected to settle near 1000, got %d", prev)
	}
}

func TestHighPass_BlocksDC(t *testing.T) {
	v := &voice{hpfCutoff: 0xa000}
	if got := v.highPass(0, 10000); got != 9922 {
		t.Errorf("expected first output 9922, got %d", got)
	}
	var y int32
	for i := 0; i < 5000; i++ {
		y = v.highPass(0, 10000)
	}
	if y < 0 || y >= 128 {
		t.Errorf("expected DC removed, got %d", y)
	}
}

func TestSlewCutoff(t *testing.T) {
	v := &voice{lpfCutoff: 0x100}
	v.slewCutoff()
	if v.lpfCur != 0x100000 {
		t.Errorf("increment 0: expected jump to 0x100000, got 0x%X", v.lpfCur)
	}

	v = &voice{lpfCutoff: 0x100, lpfCutoffInc: 0x10}
	v.slewCutoff()
	if v.lpfCur != globalStep[0x10] {
		t.Errorf("expected one step of 0x%X, got 0x%X", globalStep[0x10], v.lpfCur)
	}
	for i := 0; i < 40000 && v.lpfCur != 0x100000; i++ {
		v.slewCutoff()
	}
	if v.lpfCur != 0x100000 {
		t.Errorf("cutoff never reached target, at 0x%X", v.lpfCur)
	}
}
