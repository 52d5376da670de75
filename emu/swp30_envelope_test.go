package emu

import (
	"math/rand"
	"testing"
)

func TestKeyOn_ResetsToAttackAtFloor(t *testing.T) {
	for _, mode := range []envMode{envIdle, envAttack, envDecay1, envDecay2, envRelease} {
		c := newTestChip(t)
		v := &c.voices[5]
		v.envMode = mode
		v.envLevel = 0x123456
		v.decay2Done = true
		v.samplePos = 0x4000
		v.sampleStart = 3

		c.keyOn(5)
		if v.envMode != envAttack {
			t.Errorf("from %s: expected attack, got %s", mode, v.envMode)
		}
		if v.envLevel != LevelFloor {
			t.Errorf("from %s: expected level 0x%X, got 0x%X", mode, LevelFloor, v.envLevel)
		}
		if v.decay2Done {
			t.Errorf("from %s: decay2Done not cleared", mode)
		}
		if v.samplePos != 3<<8 {
			t.Errorf("from %s: expected pos 0x300, got 0x%X", mode, v.samplePos)
		}
	}
}

func TestKeyOff_AlwaysReleases(t *testing.T) {
	for _, mode := range []envMode{envIdle, envAttack, envDecay1, envDecay2, envRelease} {
		c := newTestChip(t)
		c.voices[9].envMode = mode
		c.keyOff(9)
		if c.voices[9].envMode != envRelease {
			t.Errorf("from %s: expected release, got %s", mode, c.voices[9].envMode)
		}
	}
}

func TestKeyOnMask_CommitEdges(t *testing.T) {
	c := newTestChip(t)
	r := c.Registers()

	r.SetKeyOnMask(0, 0x0005)
	if c.voices[0].envMode != envIdle {
		t.Fatal("staging the mask must not key on")
	}
	r.SetKeyOn(0)
	if c.voices[0].envMode != envAttack || c.voices[2].envMode != envAttack {
		t.Fatal("expected voices 0 and 2 in attack")
	}
	if c.ActiveMask() != 0x5 {
		t.Errorf("expected active mask 0x5, got 0x%X", c.ActiveMask())
	}

	// Voice 2 stays on and is not retriggered, voice 0 releases
	c.voices[2].envLevel = 0x100
	r.SetKeyOnMask(0, 0x0004)
	r.SetKeyOn(0)
	if c.voices[0].envMode != envRelease {
		t.Errorf("expected voice 0 release, got %s", c.voices[0].envMode)
	}
	if c.voices[2].envLevel != 0x100 {
		t.Error("voice 2 was retriggered")
	}

	// High half selector reaches voice 63
	r.SetKeyOnMask(3, 0x8000)
	r.SetKeyOn(0)
	if c.voices[63].envMode != envAttack {
		t.Error("expected voice 63 in attack")
	}
}

func TestAttack_PreAttackDelay(t *testing.T) {
	c := newTestChip(t)
	v := &c.voices[0]
	v.attack = 0x8000 | 0x7f<<8
	c.keyOn(0)

	ticks := 0
	for v.envOnTimer {
		c.stepEnvelope(0)
		if v.envLevel != LevelFloor {
			t.Fatal("level moved during pre-attack delay")
		}
		ticks++
	}
	// globalStep[0x7f]<<1 = 0xf0000 per tick from 0x8000000
	if want := (int(LevelFloor) + 0xf0000 - 1) / 0xf0000; ticks != want {
		t.Errorf("expected %d delay ticks, got %d", want, ticks)
	}
}

func TestAttack_ToDecay1WithHold(t *testing.T) {
	c := newTestChip(t)
	v := &c.voices[0]
	v.attack = 0x7f00
	v.decay1 = 0x8000 | 0x7f00 | 0x10
	c.keyOn(0)

	c.stepEnvelope(0)
	c.stepEnvelope(0)
	if v.envMode != envDecay1 || v.envLevel != 0 {
		t.Fatalf("expected decay1 at 0, got %s 0x%X", v.envMode, v.envLevel)
	}
	if !v.envOnTimer {
		t.Fatal("decay1 bit 15 should start a hold")
	}
	for v.envOnTimer {
		c.stepEnvelope(0)
		if v.envLevel != 0 {
			t.Fatal("level moved during hold")
		}
	}
}

func TestDecay_BreakpointAndSustain(t *testing.T) {
	c := newTestChip(t)
	v := &c.voices[0]
	v.envMode = envDecay1
	v.envLevel = 0
	v.decay1 = 0x7f00 | 0x02 // fast linear decay to 0x200000
	v.decay2 = 0x7f00 | 0x04 // then to 0x400000

	for i := 0; i < 100 && v.envMode == envDecay1; i++ {
		c.stepEnvelope(0)
	}
	if v.envMode != envDecay2 || v.envLevel != 0x200000 {
		t.Fatalf("expected decay2 at breakpoint, got %s 0x%X", v.envMode, v.envLevel)
	}
	for i := 0; i < 100 && !v.decay2Done; i++ {
		c.stepEnvelope(0)
	}
	if !v.decay2Done || v.envLevel != 0x400000 || v.envMode != envDecay2 {
		t.Fatalf("expected sustain at 0x400000, got %s 0x%X done=%v", v.envMode, v.envLevel, v.decay2Done)
	}
	c.stepEnvelope(0)
	if v.envLevel != 0x400000 {
		t.Error("sustained level moved")
	}
}

func TestDecay_LinearMode(t *testing.T) {
	level := int32(0)
	stepDecay(&level, 0x7f00, 0xff<<20)
	if level != decayStep[0x1f] {
		t.Errorf("expected linear step 0x%X, got 0x%X", decayStep[0x1f], level)
	}

	level = 0
	stepDecay(&level, 0x1f00, 0xff<<20)
	if level != globalStep[0x1f] {
		t.Errorf("expected log step 0x%X, got 0x%X", globalStep[0x1f], level)
	}
}

func TestRelease_ToIdleClearsMasks(t *testing.T) {
	c := newTestChip(t)
	r := c.Registers()
	v := &c.voices[7]
	v.releaseGlo = 0x7f00
	r.KeyOnVoice(7)
	v.envMode = envDecay2
	v.envLevel = 0
	r.KeyOffVoice(7)
	if v.envMode != envRelease {
		t.Fatalf("expected release, got %s", v.envMode)
	}
	r.SetKeyOnMask(0, 0x0080) // restage without committing

	prev := v.envLevel
	for i := 0; i < 10000 && v.envMode == envRelease; i++ {
		c.stepEnvelope(7)
		if v.envLevel < prev {
			t.Fatal("release level decreased")
		}
		prev = v.envLevel
	}
	if v.envMode != envIdle {
		t.Fatal("release never reached idle")
	}
	if c.ActiveMask()&0x80 != 0 || c.keyonMask&0x80 != 0 {
		t.Error("idle voice left in key-on masks")
	}
}

func TestRelease_AboveFloorGoesIdle(t *testing.T) {
	c := newTestChip(t)
	c.voices[1].envMode = envRelease
	c.voices[1].envLevel = LevelFloor + 1
	if c.stepEnvelope(1) {
		t.Error("expected voice to go idle")
	}
	if c.voices[1].envMode != envIdle {
		t.Errorf("expected idle, got %s", c.voices[1].envMode)
	}
}

func TestEnvelope_Monotonic(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for trial := 0; trial < 200; trial++ {
		c := newTestChip(t)
		v := &c.voices[0]
		mode := envMode(1 + rng.Intn(4))
		v.envMode = mode
		v.envLevel = rng.Int31n(LevelFloor)
		reg := uint16(rng.Intn(0x8000)) // no hold/delay
		v.attack, v.decay1, v.decay2, v.releaseGlo = reg, reg, reg, reg

		prev := v.envLevel
		for i := 0; i < 2000 && v.envMode == mode; i++ {
			c.stepEnvelope(0)
			if v.envMode != mode {
				break
			}
			if mode == envAttack && v.envLevel > prev {
				t.Fatalf("attack attenuation rose: 0x%X -> 0x%X (reg 0x%04X)", prev, v.envLevel, reg)
			}
			if mode != envAttack && v.envLevel < prev {
				t.Fatalf("%s attenuation fell: 0x%X -> 0x%X (reg 0x%04X)", mode, prev, v.envLevel, reg)
			}
			prev = v.envLevel
		}
	}
}

func TestGlobalLevel_Slews(t *testing.T) {
	v := &voice{releaseGlo: 0x0002, gloCur: 0}
	v.slewGlobalLevel()
	if v.gloCur != 1 {
		t.Errorf("expected 1, got %d", v.gloCur)
	}
	for i := 0; i < 100; i++ {
		v.slewGlobalLevel()
	}
	if v.gloCur != 0x20 {
		t.Errorf("expected 0x20, got 0x%X", v.gloCur)
	}
}

func TestAttack_AllVoicesMatchStepTable(t *testing.T) {
	c := newTestChip(t)
	r := c.Registers()
	for ch := 0; ch < VoiceCount; ch++ {
		r.SetAttack(ch, 0x40<<8)
		r.SetSampleEndL(ch, 16)
		r.SetDryRev(ch, 0xffff)
		r.SetChoVar(ch, 0xffff)
	}
	for sel := 0; sel < 4; sel++ {
		r.SetKeyOnMask(sel, 0xffff)
	}
	r.SetKeyOn(0)

	step := int64(attackStep[0x40])
	ref := int64(LevelFloor)
	for n := 1; n <= 6000; n++ {
		if ref > 0 {
			ref -= step << uint(ref>>24)
			if ref < 0 {
				ref = 0
			}
		}
		c.Tick()
		for ch := 0; ch < VoiceCount; ch++ {
			v := &c.voices[ch]
			if int64(v.envLevel) != ref {
				t.Fatalf("tick %d voice %d: expected level 0x%X, got 0x%X", n, ch, ref, v.envLevel)
			}
			if ref > 0 && v.envMode != envAttack {
				t.Fatalf("tick %d voice %d: left attack early (%s)", n, ch, v.envMode)
			}
		}
	}
	if ref != 0 {
		t.Fatal("reference ramp did not finish")
	}
}
