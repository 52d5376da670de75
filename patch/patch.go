// Package patch describes a chip setup in YAML: voice registers, MIDI
// instruments, the MEG program and a list of timed key events.
package patch

import (
	"fmt"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

type (
	// Patch is everything needed to render a piece without a host CPU.
	Patch struct {
		ROM         string       `yaml:",omitempty"`
		SampleRate  int          `yaml:"samplerate,omitempty"`
		Seconds     float64      `yaml:",omitempty"`
		Voices      []Voice      `yaml:",omitempty"`
		Instruments []Instrument `yaml:",omitempty"`
		MEG         MEG          `yaml:"meg,omitempty"`
		Events      []KeyEvent   `yaml:"keyon,omitempty"`
	}

	// Voice fixes the registers of one chip voice.
	Voice struct {
		Voice  int
		Params `yaml:",inline"`
	}

	// Instrument is a template applied to a voice when a MIDI note on its
	// channel is allocated. Root is the MIDI key that plays at Params.Pitch.
	Instrument struct {
		Name    string `yaml:",omitempty"`
		Channel int
		Root    int
		Voices  []int `yaml:",flow"`
		Params  `yaml:",inline"`
	}

	// Params holds voice register values. Levels are attenuations: 0 is
	// full volume and 255 mutes.
	Params struct {
		Sample    Sample    `yaml:"sample"`
		Pitch     uint16    `yaml:",omitempty"`
		Attack    uint16    `yaml:",omitempty"`
		Decay1    uint16    `yaml:",omitempty"`
		Decay2    uint16    `yaml:",omitempty"`
		Release   uint8     `yaml:",omitempty"`
		Global    uint8     `yaml:",omitempty"`
		Pan       [2]uint8  `yaml:",flow,omitempty"`
		Dry       *uint8    `yaml:",omitempty"` // Default full
		Reverb    *uint8    `yaml:",omitempty"` // Default muted
		Chorus    *uint8    `yaml:",omitempty"` // Default muted
		Variation *uint8    `yaml:",omitempty"` // Default muted
		Routing   [3]uint16 `yaml:",flow,omitempty"`
		LPF       Filter    `yaml:"lpf,omitempty"`
		HPF       uint16    `yaml:"hpf,omitempty"`
		EQ        []int16   `yaml:"eq,flow,omitempty"`
	}

	// Sample locates the voice's sample data in the wave ROM.
	Sample struct {
		Address uint32
		Format  string `yaml:",omitempty"` // 16, 12, 8 or log8
		Stereo  bool   `yaml:",omitempty"`
		Start   uint32
		End     uint32
		OneShot bool `yaml:"oneshot,omitempty"`
	}

	Filter struct {
		Cutoff uint16 `yaml:",omitempty"`
		Inc    uint16 `yaml:",omitempty"`
		Reso   uint16 `yaml:",omitempty"`
	}

	// KeyEvent keys a voice on, or off when Off is set, At seconds in.
	KeyEvent struct {
		At    float64
		Voice int
		Off   bool `yaml:",omitempty"`
	}
)

// DefaultSampleRate is used when a patch does not set one.
const DefaultSampleRate = 44100

// Parse decodes a patch from YAML.
func Parse(data []byte) (*Patch, error) {
	var p Patch
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	if p.SampleRate == 0 {
		p.SampleRate = DefaultSampleRate
	}
	return &p, nil
}

// Load reads and validates the patch at path.
func Load(fs afero.Fs, path string) (*Patch, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, err
	}
	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Marshal encodes the patch as YAML.
func (p *Patch) Marshal() ([]byte, error) {
	return yaml.Marshal(p)
}

// Ticks returns the render length in output samples.
func (p *Patch) Ticks() int {
	return int(p.Seconds * float64(p.SampleRate))
}

// Instrument returns the instrument listening on MIDI channel ch.
func (p *Patch) Instrument(ch int) (*Instrument, bool) {
	for i := range p.Instruments {
		if p.Instruments[i].Channel == ch {
			return &p.Instruments[i], true
		}
	}
	return nil, false
}
