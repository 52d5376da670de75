package emu

// Levels are attenuations in a packed 4.24 format: bits 27-24 hold an
// exponent, bits 23-0 a mantissa. Each exponent step halves the amplitude
// and the mantissa covers the octave linearly, so integer ordering of the
// packed value matches ordering of the attenuation.
const (
	// LevelFloor is where an envelope starts and ends (-48dB).
	LevelFloor int32 = 0x08000000
	// LevelSilent and anything above it produces no output.
	LevelSilent int32 = 0x10000000
	// levelMax is the quietest level that still has a valid encoding.
	levelMax int32 = 0x0fffffff

	mantissaBits = 24
	mantissaMask = 1<<mantissaBits - 1
)

// levelExp returns the exponent field of a packed level.
func levelExp(v int32) int32 {
	return v >> mantissaBits
}

// levelMantissa returns the top 15 mantissa bits used by the multipliers.
func levelMantissa(v int32) int64 {
	return int64((v >> 9) & 0x7fff)
}

// istep moves value toward limit by step, clamping at the limit.
// Returns true once value equals limit.
func istep(value *int32, limit, step int32) bool {
	if *value < limit {
		*value += step
		if *value >= limit {
			*value = limit
			return true
		}
		return false
	}
	if *value > limit {
		*value -= step
		if *value <= limit {
			*value = limit
			return true
		}
		return false
	}
	return true
}

// fpadd adds step scaled by the current exponent. Mantissa overflow carries
// into the exponent; the result saturates at levelMax.
func fpadd(value, step int32) int32 {
	e := int64(levelExp(value))
	m := int64(value&mantissaMask) + int64(step)<<uint(e)
	e += m >> mantissaBits
	m &= mantissaMask
	if e > 15 {
		return levelMax
	}
	return int32(e<<mantissaBits | m)
}

// fpsub subtracts step scaled by the current exponent. Mantissa underflow
// borrows from the exponent; the result saturates at zero.
func fpsub(value, step int32) int32 {
	e := int64(levelExp(value))
	m := int64(value&mantissaMask) - int64(step)<<uint(e)
	if m < 0 {
		borrow := (-m + mantissaMask) >> mantissaBits
		e -= borrow
		m += borrow << mantissaBits
	}
	if e < 0 {
		return 0
	}
	return int32(e<<mantissaBits | m)
}

// fpstep moves a packed level toward limit, clamping at the limit.
// Returns true once value equals limit.
func fpstep(value *int32, limit, step int32) bool {
	if *value < limit {
		*value = fpadd(*value, step)
		if *value >= limit {
			*value = limit
			return true
		}
		return false
	}
	if *value > limit {
		*value = fpsub(*value, step)
		if *value <= limit {
			*value = limit
			return true
		}
		return false
	}
	return true
}

// fpapply attenuates sample by a packed level.
func fpapply(value, sample int32) int32 {
	if value >= LevelSilent || value < 0 {
		return 0
	}
	s := int64(sample)
	return int32((s - (s*levelMantissa(value))>>16) >> uint(levelExp(value)))
}

// lpffpapply scales a filter delta by a packed cutoff coefficient.
func lpffpapply(value, sample int32) int32 {
	if value >= LevelSilent || value < 0 {
		return 0
	}
	s := int64(sample)
	return int32((s * (0x10000 - levelMantissa(value))) >> (16 + uint(levelExp(value))))
}

// saturate24 clamps v to a signed 24-bit range.
func saturate24(v int64) int32 {
	if v > 0x7fffff {
		return 0x7fffff
	}
	if v < -0x800000 {
		return -0x800000
	}
	return int32(v)
}
