package ui

import (
	"testing"

	"github.com/user-none/emswp/emu"
)

func TestVoiceBarHeight(t *testing.T) {
	tests := []struct {
		s    emu.VoiceStatus
		want int
	}{
		{emu.VoiceStatus{Mode: "idle", Level: 0}, 0},
		{emu.VoiceStatus{Mode: "attack", Level: emu.LevelFloor}, 0},
		{emu.VoiceStatus{Mode: "attack", Level: 0}, MeterHeight},
		{emu.VoiceStatus{Mode: "decay2", Level: emu.LevelFloor / 2}, MeterHeight / 2},
		{emu.VoiceStatus{Mode: "release", Level: emu.LevelSilent}, 0},
		{emu.VoiceStatus{Mode: "release", Level: -1}, 0},
	}
	for _, tt := range tests {
		if got := VoiceBarHeight(tt.s); got != tt.want {
			t.Errorf("VoiceBarHeight(%+v): expected %d, got %d", tt.s, tt.want, got)
		}
	}
}

func pixelAt(pixels []byte, x, y int) [4]byte {
	i := (y*MeterWidth + x) * 4
	return [4]byte(pixels[i : i+4])
}

func TestPaintMeters(t *testing.T) {
	var s MeterSnapshot
	for ch := range s.Voices {
		s.Voices[ch] = emu.VoiceStatus{Mode: "idle", Level: emu.LevelFloor}
	}
	s.Voices[0] = emu.VoiceStatus{Mode: "attack", Level: 0}
	s.Voices[1] = emu.VoiceStatus{Mode: "release", Level: emu.LevelFloor / 2}
	s.Peak = [2]int16{32767, 0}

	pixels := make([]byte, MeterPixelsSize)
	PaintMeters(pixels, &s)

	checks := []struct {
		x, y int
		want [4]byte
	}{
		{0, 0, colorAttack},
		{2, MeterHeight - 1, colorAttack},
		{3, MeterHeight - 1, colorBackground}, // gap
		{4, MeterHeight/2 - 1, colorBackground},
		{4, MeterHeight / 2, colorRelease},
		{8, MeterHeight - 1, colorBackground}, // idle
		{peakX, 0, colorPeak},
		{peakX + peakBarPitch, MeterHeight - 1, colorBackground},
		{MeterWidth - 1, 0, colorBackground},
	}
	for _, c := range checks {
		if got := pixelAt(pixels, c.x, c.y); got != c.want {
			t.Errorf("pixel (%d,%d): expected %v, got %v", c.x, c.y, c.want, got)
		}
	}
}
