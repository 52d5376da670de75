package emu

import "log"

// envMode is the envelope state of a voice.
type envMode uint8

const (
	envIdle envMode = iota
	envAttack
	envDecay1
	envDecay2
	envRelease
)

var envModeNames = [...]string{"idle", "attack", "decay1", "decay2", "release"}

func (m envMode) String() string {
	if int(m) < len(envModeNames) {
		return envModeNames[m]
	}
	return "invalid"
}

// keyOn restarts voice ch from its sample start with a fresh attack.
func (c *SWP30) keyOn(ch int) {
	v := &c.voices[ch]
	v.samplePos = (v.sampleStart & 0xffffff) << 8
	v.historyOK = false

	v.envLevel = LevelFloor
	v.envTimer = LevelFloor
	v.envOnTimer = v.attack&0x8000 != 0
	v.envMode = envAttack
	v.decay2Done = false
	v.gloCur = int32(v.releaseGlo&0xff) << 4

	v.lpfCur = int32(v.lpfCutoff) << 12
	v.lpf = [2][2]int32{}
	v.hpf = [2]int32{}
	v.eqX = [2][2]int32{}
	v.eqY = [2][2]int32{}

	if c.cfg.Verbose {
		log.Printf("swp30: key on voice %d start=%06x end=%06x pitch=%04x", ch,
			v.sampleStart&0xffffff, v.sampleEnd&0xffffff, v.pitch)
	}
}

// keyOff moves voice ch to RELEASE whatever its current mode.
func (c *SWP30) keyOff(ch int) {
	c.voices[ch].envMode = envRelease
	if c.cfg.Verbose {
		log.Printf("swp30: key off voice %d", ch)
	}
}

// stepEnvelope advances the envelope of voice ch by one tick. Returns false
// when the voice went idle.
func (c *SWP30) stepEnvelope(ch int) bool {
	v := &c.voices[ch]
	switch v.envMode {
	case envAttack:
		rate := (v.attack >> 8) & 0x7f
		if v.envOnTimer {
			// Pre-attack delay
			if istep(&v.envTimer, 0, globalStep[rate]<<1) {
				v.envOnTimer = false
			}
			break
		}
		if fpstep(&v.envLevel, 0, attackStep[rate]) {
			v.envMode = envDecay1
			v.envTimer = LevelFloor
			v.envOnTimer = v.decay1&0x8000 != 0
		}

	case envDecay1:
		if v.envOnTimer {
			// Hold at full level
			if istep(&v.envTimer, 0, globalStep[(v.decay1>>8)&0x7f]<<1) {
				v.envOnTimer = false
			}
			break
		}
		if stepDecay(&v.envLevel, v.decay1, decayTarget(v.decay1)) {
			v.envMode = envDecay2
			v.decay2Done = false
		}

	case envDecay2:
		if !v.decay2Done && stepDecay(&v.envLevel, v.decay2, decayTarget(v.decay2)) {
			v.decay2Done = true
		}

	case envRelease:
		if v.envLevel >= LevelFloor || stepDecay(&v.envLevel, v.releaseGlo, LevelFloor) {
			c.gateOff(ch)
			return false
		}
	}
	return true
}

// decayTarget is the attenuation a decay register ramps toward.
func decayTarget(reg uint16) int32 {
	return int32(reg&0xff) << 20
}

// stepDecay moves level toward the (quieter) target using the rate in
// bits 14-8 of reg. Rates with bits 14 and 13 both set use the linear
// decay table on the packed level; others step the attenuation directly.
// A level already at or past the target is left alone.
func stepDecay(level *int32, reg uint16, target int32) bool {
	if *level >= target {
		return true
	}
	if reg&0x6000 == 0x6000 {
		return fpstep(level, target, decayStep[(reg>>8)&0x1f])
	}
	return istep(level, target, globalStep[(reg>>8)&0x7f])
}

// slewGlobalLevel moves the current global level one step toward the
// register value.
func (v *voice) slewGlobalLevel() {
	istep(&v.gloCur, int32(v.releaseGlo&0xff)<<4, 1)
}
