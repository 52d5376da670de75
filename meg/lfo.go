package meg

import "math"

// LFO descriptor word:
//
//	15-14 wave (saw, triangle, sine, square)
//	13-8  amplitude
//	7-0   rate
const (
	lfoSaw = iota
	lfoTriangle
	lfoSine
	lfoSquare
)

const lfoPhaseMask = 0xffffff

var lfoSineTable [1024]uint16

func init() {
	for i := range lfoSineTable {
		v := 0x8000 + math.Round(0x7fff*math.Sin(2*math.Pi*float64(i)/float64(len(lfoSineTable))))
		lfoSineTable[i] = uint16(v)
	}
}

// advanceLFOs moves every LFO phase by its rate.
func (e *Engine) advanceLFOs() {
	for i, d := range e.lfos {
		e.lfoPhase[i] = (e.lfoPhase[i] + uint32(d&0xff)<<6) & lfoPhaseMask
	}
}

// lfoValue returns LFO i scaled by its amplitude, in 0..0xfc03.
func (e *Engine) lfoValue(i int) uint32 {
	d := e.lfos[i]
	phase := e.lfoPhase[i]
	var raw uint32
	switch d >> 14 {
	case lfoSaw:
		raw = phase >> 8
	case lfoTriangle:
		if phase&0x800000 != 0 {
			raw = (lfoPhaseMask - phase) >> 7
		} else {
			raw = phase >> 7
		}
	case lfoSine:
		raw = uint32(lfoSineTable[phase>>14])
	case lfoSquare:
		if phase&0x800000 != 0 {
			raw = 0xffff
		}
	}
	return raw * uint32(d>>8&0x3f) >> 6
}
