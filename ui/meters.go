package ui

import "github.com/user-none/emswp/emu"

// Meter image layout: one bar per voice, then the left and right output
// peaks.
const (
	voiceBarWidth = 3
	voiceBarPitch = 4
	peakBarWidth  = 7
	peakBarPitch  = 8
	peakX         = emu.VoiceCount*voiceBarPitch + 4

	MeterWidth  = peakX + 2*peakBarPitch
	MeterHeight = 128
)

var (
	colorBackground = [4]byte{0x10, 0x10, 0x18, 0xff}
	colorAttack     = [4]byte{0x40, 0xe0, 0x40, 0xff}
	colorDecay      = [4]byte{0xe0, 0xc0, 0x40, 0xff}
	colorRelease    = [4]byte{0xe0, 0x50, 0x40, 0xff}
	colorPeak       = [4]byte{0x40, 0xc0, 0xe0, 0xff}
)

// MeterPixelsSize is the RGBA buffer size PaintMeters expects.
const MeterPixelsSize = MeterWidth * MeterHeight * 4

// VoiceBarHeight maps an envelope level to a bar height: the floor and
// anything quieter is empty, zero attenuation is full.
func VoiceBarHeight(s emu.VoiceStatus) int {
	if s.Mode == "idle" || s.Level >= emu.LevelFloor || s.Level < 0 {
		return 0
	}
	return int(int64(MeterHeight) * int64(emu.LevelFloor-s.Level) / int64(emu.LevelFloor))
}

// PeakBarHeight maps an output magnitude to a bar height.
func PeakBarHeight(peak int16) int {
	return int(peak) * MeterHeight / 32767
}

func modeColor(mode string) [4]byte {
	switch mode {
	case "attack":
		return colorAttack
	case "release":
		return colorRelease
	}
	return colorDecay
}

// PaintMeters renders a snapshot into an RGBA pixel buffer of
// MeterPixelsSize bytes.
func PaintMeters(pixels []byte, s *MeterSnapshot) {
	for i := 0; i+4 <= len(pixels); i += 4 {
		copy(pixels[i:], colorBackground[:])
	}
	for ch, v := range s.Voices {
		fillBar(pixels, ch*voiceBarPitch, voiceBarWidth, VoiceBarHeight(v), modeColor(v.Mode))
	}
	for side, p := range s.Peak {
		fillBar(pixels, peakX+side*peakBarPitch, peakBarWidth, PeakBarHeight(p), colorPeak)
	}
}

// fillBar paints a bar of height h rising from the bottom row.
func fillBar(pixels []byte, x, w, h int, c [4]byte) {
	for y := MeterHeight - h; y < MeterHeight; y++ {
		row := y * MeterWidth * 4
		for dx := 0; dx < w; dx++ {
			copy(pixels[row+(x+dx)*4:], c[:])
		}
	}
}
