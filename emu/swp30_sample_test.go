package emu

import (
	"math/rand"
	"testing"
)

func TestPitchStep(t *testing.T) {
	tests := []struct {
		pitch uint16
		want  uint32
	}{
		{0x0000, 0x100},  // one frame per tick
		{0x1000, 0x200},  // octave up
		{0xf000, 0x80},   // octave down
		{0x0800, 0x180},  // half an octave in the linear mantissa
		{0x7fff, 0xfff8}, // highest
		{0x8000, 0x1},    // lowest
	}
	for _, tt := range tests {
		if got := pitchStep(tt.pitch); got != tt.want {
			t.Errorf("pitchStep(0x%04X): expected 0x%X, got 0x%X", tt.pitch, tt.want, got)
		}
	}
}

func TestAdvancePosition_WrapsIntoLoop(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	c := newTestChip(t)
	v := &c.voices[0]
	for i := 0; i < 5000; i++ {
		start := uint32(rng.Intn(1000))
		length := uint32(1 + rng.Intn(500))
		v.sampleStart = start
		v.sampleEnd = start + length
		v.samplePos = start<<8 + uint32(rng.Intn(int(length<<8)))
		v.pitch = uint16(rng.Intn(0x10000))
		v.envMode = envAttack

		want := (v.samplePos+pitchStep(v.pitch)-start<<8)%(length<<8) + start<<8
		c.advancePosition(0)
		if v.envMode == envIdle {
			t.Fatalf("looping voice gated off (start %d len %d)", start, length)
		}
		if v.samplePos != want {
			t.Fatalf("start %d len %d pitch 0x%04X: expected pos 0x%X, got 0x%X",
				start, length, v.pitch, want, v.samplePos)
		}
		if v.samplePos < start<<8 || v.samplePos >= (start+length)<<8 {
			t.Fatalf("pos 0x%X outside loop [0x%X, 0x%X)", v.samplePos, start<<8, (start+length)<<8)
		}
	}
}

func TestOneShot_GatesAtEnd(t *testing.T) {
	c := newTestChip(t, constantROM(4)...)
	r := c.Registers()
	r.SetSampleEndH(0, 0x8000)
	r.SetSampleEndL(0, 4)
	r.KeyOnVoice(0)

	for i := 0; i < 3; i++ {
		c.Tick()
		if c.voices[0].envMode == envIdle {
			t.Fatalf("voice idle after %d ticks", i+1)
		}
	}
	c.Tick()
	if c.voices[0].envMode != envIdle {
		t.Fatal("one-shot did not stop at its end")
	}
	if c.ActiveMask() != 0 || r.KeyOnMask(0) != 0 {
		t.Error("one-shot left its key-on bits set")
	}
}

func TestEmptyLoop_GatesOff(t *testing.T) {
	c := newTestChip(t)
	r := c.Registers()
	r.SetSampleStartL(2, 8)
	r.SetSampleEndL(2, 8)
	r.KeyOnVoice(2)
	c.Tick()
	if c.voices[2].envMode != envIdle {
		t.Error("voice with end <= start kept playing")
	}
}

func TestReadSample_Formats(t *testing.T) {
	tests := []struct {
		name    string
		address uint32
		words   []uint32
		want    []int32
	}{
		{"16-bit", format16 << 30, []uint32{0x00020001, 0xffff8000}, []int32{1, 2, -32768, -1}},
		{"16-bit base", format16<<30 | 1, []uint32{0, 0x00020001}, []int32{1, 2}},
		{"12-bit", format12 << 30, []uint32{0x56abc123, 0x4}, []int32{4656, -21568, 17760}},
		{"8-bit", format8 << 30, []uint32{0x80ff7f01}, []int32{256, 32512, -256, -32768}},
		{"log8", format8Log << 30, []uint32{0x000080ff}, []int32{30208, 0, -30208, -30208}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestChip(t, tt.words...)
			v := &voice{sampleAddress: tt.address}
			for n, want := range tt.want {
				if got := c.readSample(v, uint32(n)); got != want {
					t.Errorf("sample %d: expected %d, got %d", n, want, got)
				}
			}
		})
	}
}

func TestReadFrame_Stereo(t *testing.T) {
	c := newTestChip(t, 0x00020001, 0x00040003)
	v := &voice{sampleAddress: stereoFlag}
	if got := c.readFrame(v, 0); got != [2]int32{1, 2} {
		t.Errorf("frame 0: expected [1 2], got %v", got)
	}
	if got := c.readFrame(v, 1); got != [2]int32{3, 4} {
		t.Errorf("frame 1: expected [3 4], got %v", got)
	}

	v.sampleAddress = 0
	if got := c.readFrame(v, 1); got != [2]int32{2, 2} {
		t.Errorf("mono frame 1: expected [2 2], got %v", got)
	}
}

func TestFetchFrame_Interpolates(t *testing.T) {
	c := newTestChip(t, 0x01000000)
	v := &voice{sampleEnd: 2, samplePos: 0x80}
	if got := c.fetchFrame(v); got != [2]int32{128, 128} {
		t.Errorf("expected midpoint 128, got %v", got)
	}
	v.samplePos = 0xc0
	if got := c.fetchFrame(v); got != [2]int32{192, 192} {
		t.Errorf("expected 192, got %v", got)
	}
}

func TestFetchFrame_HistoryRoll(t *testing.T) {
	c := newTestChip(t, 0x00020001, 0x00040003)
	v := &voice{sampleEnd: 4}

	steps := []struct {
		pos  uint32
		want [2]int32 // history of the left side
	}{
		{0x000, [2]int32{1, 2}},
		{0x100, [2]int32{2, 3}},
		{0x200, [2]int32{3, 4}},
		{0x300, [2]int32{4, 1}}, // frame n+1 wraps to the loop start
		{0x000, [2]int32{1, 2}},
		{0x200, [2]int32{3, 4}}, // skipped frame refetches both
	}
	for i, s := range steps {
		v.samplePos = s.pos
		c.fetchFrame(v)
		if v.history[0] != s.want {
			t.Errorf("step %d: expected history %v, got %v", i, s.want, v.history[0])
		}
		if v.historyIdx != s.pos>>8 {
			t.Errorf("step %d: expected index %d, got %d", i, s.pos>>8, v.historyIdx)
		}
	}
}

func TestFetchFrame_OneShotHoldsLastFrame(t *testing.T) {
	c := newTestChip(t, 0x00020001)
	v := &voice{sampleEnd: oneShotFlag | 2, samplePos: 0x180}
	if got := c.fetchFrame(v); got != [2]int32{2, 2} {
		t.Errorf("expected last frame held, got %v", got)
	}
}
