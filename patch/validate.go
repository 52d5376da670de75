package patch

import (
	"errors"
	"fmt"

	"github.com/user-none/emswp/emu"
	"github.com/user-none/emswp/meg"
	"github.com/user-none/emswp/rom"
)

var (
	ErrNoVoices       = errors.New("patch has no voices or instruments")
	ErrVoiceRange     = errors.New("voice out of range")
	ErrDuplicateVoice = errors.New("voice configured twice")
	ErrFormat         = errors.New("unknown sample format")
	ErrSampleRange    = errors.New("sample outside the wave ROM")
	ErrPan            = errors.New("pan code above 15")
	ErrRouting        = errors.New("routing above 7")
	ErrEQ             = errors.New("more than 6 EQ coefficients")
	ErrChannel        = errors.New("MIDI channel out of range")
	ErrKey            = errors.New("MIDI key out of range")
	ErrTableSize      = errors.New("MEG table too large")
	ErrEventTime      = errors.New("key event before time 0")
	ErrSampleRate     = errors.New("sample rate must be positive")
)

// sampleFormats maps format names to sample address bits 31-30.
var sampleFormats = map[string]uint32{
	"":     0,
	"16":   0,
	"12":   1,
	"8":    2,
	"log8": 3,
}

// Validate reports every problem in the patch at once.
func (p *Patch) Validate() error {
	var errs []error
	add := func(err error, format string, args ...any) {
		errs = append(errs, fmt.Errorf(format+": %w", append(args, err)...))
	}

	if p.SampleRate <= 0 {
		errs = append(errs, ErrSampleRate)
	}
	if len(p.Voices) == 0 && len(p.Instruments) == 0 {
		errs = append(errs, ErrNoVoices)
	}

	seen := make(map[int]bool)
	for i, v := range p.Voices {
		if v.Voice < 0 || v.Voice >= emu.VoiceCount {
			add(ErrVoiceRange, "voices[%d]: voice %d", i, v.Voice)
		} else if seen[v.Voice] {
			add(ErrDuplicateVoice, "voices[%d]: voice %d", i, v.Voice)
		}
		seen[v.Voice] = true
		for _, err := range v.Params.validate() {
			add(err, "voices[%d]", i)
		}
	}

	for i, in := range p.Instruments {
		if in.Channel < 0 || in.Channel > 15 {
			add(ErrChannel, "instruments[%d]: channel %d", i, in.Channel)
		}
		if in.Root < 0 || in.Root > 127 {
			add(ErrKey, "instruments[%d]: root %d", i, in.Root)
		}
		if len(in.Voices) == 0 {
			add(ErrNoVoices, "instruments[%d]", i)
		}
		for _, v := range in.Voices {
			if v < 0 || v >= emu.VoiceCount {
				add(ErrVoiceRange, "instruments[%d]: voice %d", i, v)
			} else if seen[v] {
				add(ErrDuplicateVoice, "instruments[%d]: voice %d", i, v)
			}
			seen[v] = true
		}
		for _, err := range in.Params.validate() {
			add(err, "instruments[%d]", i)
		}
	}

	m := &p.MEG
	for _, t := range []struct {
		name string
		n    int
		max  int
	}{
		{"program", len(m.Program), meg.ProgramSize},
		{"consts", len(m.Consts), meg.ConstCount},
		{"offsets", len(m.Offsets), meg.OffsetCount},
		{"lfos", len(m.LFOs), meg.LFOCount},
		{"maps", len(m.Maps), meg.MapCount},
	} {
		if t.n > t.max {
			add(ErrTableSize, "meg %s: %d entries, max %d", t.name, t.n, t.max)
		}
	}

	for i, e := range p.Events {
		if e.At < 0 {
			add(ErrEventTime, "keyon[%d]", i)
		}
		if e.Voice < 0 || e.Voice >= emu.VoiceCount {
			add(ErrVoiceRange, "keyon[%d]: voice %d", i, e.Voice)
		}
	}

	return errors.Join(errs...)
}

func (v *Params) validate() []error {
	var errs []error
	if _, ok := sampleFormats[v.Sample.Format]; !ok {
		errs = append(errs, fmt.Errorf("%w %q", ErrFormat, v.Sample.Format))
	}
	if v.Sample.Address > rom.AddressMask || v.Sample.Start > 0xffffff || v.Sample.End > 0xffffff {
		errs = append(errs, ErrSampleRange)
	}
	if v.Pan[0] > 15 || v.Pan[1] > 15 {
		errs = append(errs, ErrPan)
	}
	for _, r := range v.Routing {
		if r > 7 {
			errs = append(errs, ErrRouting)
			break
		}
	}
	if len(v.EQ) > 6 {
		errs = append(errs, ErrEQ)
	}
	return errs
}
