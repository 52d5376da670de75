package emu

// saturate16 clamps a bus sum to the 16-bit output range.
func saturate16(v int32) int16 {
	return int16(clampInt32(v, -32768, 32767))
}

// clampInt32 clamps v to [min, max].
func clampInt32(v, min, max int32) int32 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// Render runs frames ticks and returns the interleaved stereo output
// without touching the GenerateSamples buffer.
func (c *SWP30) Render(frames int) []int16 {
	out := make([]int16, 0, frames*2)
	for i := 0; i < frames; i++ {
		f := c.Tick()
		out = append(out, f.Out[0], f.Out[1])
	}
	return out
}
