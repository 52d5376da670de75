package emu

import (
	"errors"
	"log"

	"github.com/user-none/emswp/meg"
	"github.com/user-none/emswp/rom"
)

// Name and Version identify the core.
const (
	Name    = "emswp"
	Version = "0.1.0"
)

// VoiceCount is the number of independent voices.
const VoiceCount = 64

// BusPairs is the number of stereo send pairs feeding the MEG inputs.
const BusPairs = meg.InputCount / 2

// Sample address format bits 31-30
const (
	format16    = 0
	format12    = 1
	format8     = 2
	format8Log  = 3
	stereoFlag  = 1 << 29
	addressMask = 0x1ffffff
)

// sampleEnd bit 31 plays the sample once instead of looping.
const oneShotFlag = 0x80000000

// ErrNoROM is returned by New when no wave ROM is given.
var ErrNoROM = errors.New("swp30: no wave ROM")

// Config holds chip construction options.
type Config struct {
	SampleRate int  // Nominal output rate, 44100 on hardware
	ROMLatency int  // Ticks a host wave ROM read stays pending
	CacheLines int  // ROM cache size in lines
	Verbose    bool // Log key events and MEG execution
}

// DefaultConfig returns the settings of the real chip.
func DefaultConfig() Config {
	return Config{
		SampleRate: 44100,
		ROMLatency: 2,
		CacheLines: 256,
	}
}

// voice holds register and playback state for one of the 64 voices.
type voice struct {
	// Registers
	sampleStart   uint32
	sampleEnd     uint32 // Bit 31: one-shot
	sampleAddress uint32 // Bits 31-30: format, bit 29: stereo, 24-0: word base
	pitch         uint16 // Bits 15-12: signed octave, 11-0: fraction
	attack        uint16 // Bit 15: delay, 14-8: rate
	decay1        uint16 // Bit 15: hold, 14-8: rate, 7-0: breakpoint
	decay2        uint16 // 14-8: rate, 7-0: sustain
	releaseGlo    uint16 // 15-8: release rate, 7-0: global level
	pan           uint16 // 11-8: left code, 3-0: right code
	dryRev        uint16 // 15-8: dry level, 7-0: reverb send
	choVar        uint16 // 15-8: chorus send, 7-0: variation send
	lpfCutoff     uint16
	lpfCutoffInc  uint16
	lpfReso       uint16
	hpfCutoff     uint16
	eq            [6]int16
	routing       [3]uint16 // Bus pair for reverb, chorus, variation

	// Playback state
	samplePos  uint32      // 24.8 fixed point
	history    [2][2]int32 // [side][frame n, frame n+1]
	historyIdx uint32      // Frame index held in history[side][0]
	historyOK  bool

	// Envelope state
	envLevel   int32 // Packed attenuation
	envTimer   int32
	envOnTimer bool
	envMode    envMode
	decay2Done bool
	gloCur     int32 // Global level, slewed toward the register value

	// Resolved panmap entries
	panL int32
	panR int32

	// Filter state, per side
	lpfCur int32 // Packed cutoff, slewed toward lpfCutoff<<12
	lpf    [2][2]int32
	hpf    [2]int32
	eqX    [2][2]int32
	eqY    [2][2]int32
}

// Frame is one tick of output.
type Frame struct {
	Dry   [2]int32          // Sum of the voices' dry outputs
	Sends [BusPairs][2]int32 // Send buses as fed to the MEG
	Out   [2]int16          // Dry plus MEG outputs 0/1
	Aux   [2]int16          // MEG outputs 2/3
}

// SWP30 implements the Yamaha SWP30 AWM2 tone generator and its MEG
// effects processor.
type SWP30 struct {
	cfg    Config
	rom    *rom.Cache
	meg    *meg.Engine
	buffer []int16

	voices [VoiceCount]voice

	keyonMask   uint64 // Staged by the host
	activeMask  uint64 // Voices keyed on at the last commit
	internalAdr uint16
	megPrgAdr   uint16

	waverom waveROM

	// Per-tick accumulators
	dry   [2]int32
	sends [BusPairs][2]int32

	tickCount uint64
}

// New creates a chip reading samples from r.
func New(r rom.Reader, cfg Config) (*SWP30, error) {
	if r == nil {
		return nil, ErrNoROM
	}
	if cfg.CacheLines <= 0 {
		cfg.CacheLines = DefaultConfig().CacheLines
	}
	if cfg.ROMLatency < 0 {
		cfg.ROMLatency = 0
	}
	cache, err := rom.NewCache(r, cfg.CacheLines)
	if err != nil {
		return nil, err
	}
	c := &SWP30{
		cfg:    cfg,
		rom:    cache,
		meg:    meg.New(),
		buffer: make([]int16, 0, 2048),
	}
	c.meg.Verbose = cfg.Verbose
	c.Reset()
	return c, nil
}

// Reset returns every voice to IDLE and clears all registers, masks and
// the MEG.
func (c *SWP30) Reset() {
	c.voices = [VoiceCount]voice{}
	for i := range c.voices {
		c.voices[i].envLevel = levelMax
	}
	c.keyonMask = 0
	c.activeMask = 0
	c.internalAdr = 0
	c.megPrgAdr = 0
	c.waverom = waveROM{}
	c.dry = [2]int32{}
	c.sends = [BusPairs][2]int32{}
	c.tickCount = 0
	c.buffer = c.buffer[:0]
	c.meg.Reset()
}

// Registers returns the register access view of the chip.
func (c *SWP30) Registers() *Registers {
	return &Registers{c: c}
}

// MEG returns the effects engine.
func (c *SWP30) MEG() *meg.Engine {
	return c.meg
}

// ROM returns the cache in front of the wave ROM.
func (c *SWP30) ROM() *rom.Cache {
	return c.rom
}

// Tick computes one output frame: voices in index order, then one MEG
// pass over the send buses.
func (c *SWP30) Tick() Frame {
	c.waverom.tick(c.rom)

	c.dry = [2]int32{}
	c.sends = [BusPairs][2]int32{}
	for ch := range c.voices {
		c.tickVoice(ch)
	}

	var in [meg.InputCount]int32
	for p := range c.sends {
		in[p*2] = c.sends[p][0]
		in[p*2+1] = c.sends[p][1]
	}
	c.meg.Run(&in)
	out := c.meg.Outputs()

	c.tickCount++
	return Frame{
		Dry:   c.dry,
		Sends: c.sends,
		Out:   [2]int16{saturate16(c.dry[0] + out[0]), saturate16(c.dry[1] + out[1])},
		Aux:   [2]int16{saturate16(out[2]), saturate16(out[3])},
	}
}

// tickVoice runs one voice through envelope, playback, filters and
// accumulates it into the buses.
func (c *SWP30) tickVoice(ch int) {
	v := &c.voices[ch]
	if v.envMode == envIdle {
		return
	}
	if !c.stepEnvelope(ch) {
		return
	}
	v.slewGlobalLevel()
	v.slewCutoff()

	frame := c.fetchFrame(v)
	for side := 0; side < 2; side++ {
		x := v.filter(side, frame[side])
		c.accumulate(v, side, x)
	}
	c.advancePosition(ch)
}

// GenerateSamples runs n ticks and appends the stereo output to the
// internal buffer.
func (c *SWP30) GenerateSamples(n int) {
	for i := 0; i < n; i++ {
		f := c.Tick()
		c.buffer = append(c.buffer, f.Out[0], f.Out[1])
	}
}

// GetBuffer returns the accumulated interleaved stereo samples and resets
// the buffer. The slice is only valid until the next GenerateSamples call.
func (c *SWP30) GetBuffer() []int16 {
	buf := c.buffer
	c.buffer = c.buffer[:0]
	return buf
}

// TickCount returns the number of ticks since reset.
func (c *SWP30) TickCount() uint64 {
	return c.tickCount
}

// ActiveMask returns the voices keyed on at the last commit.
func (c *SWP30) ActiveMask() uint64 {
	return c.activeMask
}

// VoiceStatus is a read-only snapshot of one voice for monitoring.
type VoiceStatus struct {
	Mode  string
	Level int32 // Packed attenuation
	Pos   uint32
}

// VoiceStatus returns a snapshot of voice ch.
func (c *SWP30) VoiceStatus(ch int) VoiceStatus {
	v := &c.voices[ch&0x3f]
	return VoiceStatus{Mode: v.envMode.String(), Level: v.envLevel, Pos: v.samplePos}
}

// commitKeyOn applies the staged key-on mask: rising bits start voices,
// falling bits release them.
func (c *SWP30) commitKeyOn() {
	on := c.keyonMask &^ c.activeMask
	off := c.activeMask &^ c.keyonMask
	for ch := 0; ch < VoiceCount; ch++ {
		bit := uint64(1) << uint(ch)
		switch {
		case on&bit != 0:
			c.keyOn(ch)
		case off&bit != 0:
			c.keyOff(ch)
		}
	}
	c.activeMask = c.keyonMask
}

// gateOff silences a voice and drops it from both masks.
func (c *SWP30) gateOff(ch int) {
	c.voices[ch].envMode = envIdle
	bit := uint64(1) << uint(ch)
	c.activeMask &^= bit
	c.keyonMask &^= bit
	if c.cfg.Verbose {
		log.Printf("swp30: voice %d idle", ch)
	}
}
