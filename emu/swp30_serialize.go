package emu

import (
	"encoding/binary"
	"errors"

	"github.com/user-none/emswp/meg"
)

const (
	swp30SerializeVersion = 1
	// Per-voice registers:
	// sampleStart(4) + sampleEnd(4) + sampleAddress(4) + pitch(2) + attack(2) +
	// decay1(2) + decay2(2) + releaseGlo(2) + pan(2) + dryRev(2) + choVar(2) +
	// lpfCutoff(2) + lpfCutoffInc(2) + lpfReso(2) + hpfCutoff(2) + eq(12) + routing(6) = 54
	voiceRegisterSerializeSize = 54
	// Per-voice state:
	// samplePos(4) + history(16) + historyIdx(4) + historyOK(1) +
	// envLevel(4) + envTimer(4) + envOnTimer(1) + envMode(1) + decay2Done(1) + gloCur(4) +
	// panL(4) + panR(4) + lpfCur(4) + lpf(16) + hpf(8) + eqX(16) + eqY(16) = 108
	voiceStateSerializeSize = 108
	// Global state:
	// keyonMask(8) + activeMask(8) + internalAdr(2) + megPrgAdr(2) +
	// waverom adr(4) + mode(4) + val(4) + access(2) + state(1) + countdown(4) +
	// tickCount(8) = 47
	swp30GlobalSerializeSize = 47
	// SWP30SerializeSize is the total bytes needed for SWP30 serialization.
	SWP30SerializeSize = 1 + VoiceCount*(voiceRegisterSerializeSize+voiceStateSerializeSize) +
		swp30GlobalSerializeSize + meg.SerializeSize
)

func putU16(buf []byte, offset int, v uint16) int {
	binary.LittleEndian.PutUint16(buf[offset:], v)
	return offset + 2
}

func putU32(buf []byte, offset int, v uint32) int {
	binary.LittleEndian.PutUint32(buf[offset:], v)
	return offset + 4
}

func putU64(buf []byte, offset int, v uint64) int {
	binary.LittleEndian.PutUint64(buf[offset:], v)
	return offset + 8
}

func getU16(buf []byte, offset int) (uint16, int) {
	return binary.LittleEndian.Uint16(buf[offset:]), offset + 2
}

func getU32(buf []byte, offset int) (uint32, int) {
	return binary.LittleEndian.Uint32(buf[offset:]), offset + 4
}

func getI32(buf []byte, offset int) (int32, int) {
	return int32(binary.LittleEndian.Uint32(buf[offset:])), offset + 4
}

func getU64(buf []byte, offset int) (uint64, int) {
	return binary.LittleEndian.Uint64(buf[offset:]), offset + 8
}

// boolByte converts a bool to a uint8 (0 or 1).
func boolByte(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

// Serialize writes SWP30 state to buf. buf must be at least SWP30SerializeSize bytes.
func (c *SWP30) Serialize(buf []byte) error {
	if len(buf) < SWP30SerializeSize {
		return errors.New("SWP30 serialize buffer too small")
	}

	offset := 0
	buf[offset] = swp30SerializeVersion
	offset++

	for i := range c.voices {
		offset = serializeVoice(&c.voices[i], buf, offset)
	}

	offset = putU64(buf, offset, c.keyonMask)
	offset = putU64(buf, offset, c.activeMask)
	offset = putU16(buf, offset, c.internalAdr)
	offset = putU16(buf, offset, c.megPrgAdr)

	w := &c.waverom
	offset = putU32(buf, offset, w.adr)
	offset = putU32(buf, offset, w.mode)
	offset = putU32(buf, offset, w.val)
	offset = putU16(buf, offset, w.access)
	buf[offset] = uint8(w.state)
	offset++
	offset = putU32(buf, offset, uint32(w.countdown))

	offset = putU64(buf, offset, c.tickCount)

	return c.meg.Serialize(buf[offset:])
}

// Deserialize restores SWP30 state from buf.
func (c *SWP30) Deserialize(buf []byte) error {
	if len(buf) < SWP30SerializeSize {
		return errors.New("SWP30 deserialize buffer too small")
	}
	if buf[0] != swp30SerializeVersion {
		return errors.New("unsupported SWP30 serialize version")
	}

	offset := 1
	for i := range c.voices {
		offset = deserializeVoice(&c.voices[i], buf, offset)
	}

	c.keyonMask, offset = getU64(buf, offset)
	c.activeMask, offset = getU64(buf, offset)
	c.internalAdr, offset = getU16(buf, offset)
	c.megPrgAdr, offset = getU16(buf, offset)
	c.megPrgAdr %= meg.ProgramSize

	w := &c.waverom
	w.adr, offset = getU32(buf, offset)
	w.mode, offset = getU32(buf, offset)
	w.val, offset = getU32(buf, offset)
	w.access, offset = getU16(buf, offset)
	w.state = waveROMState(buf[offset])
	offset++
	w.countdown, offset = getI32(buf, offset)

	c.tickCount, offset = getU64(buf, offset)

	if err := c.meg.Deserialize(buf[offset:]); err != nil {
		return err
	}
	c.rom.Purge()
	return nil
}

func serializeVoice(v *voice, buf []byte, offset int) int {
	// Registers
	offset = putU32(buf, offset, v.sampleStart)
	offset = putU32(buf, offset, v.sampleEnd)
	offset = putU32(buf, offset, v.sampleAddress)
	for _, r := range [...]uint16{
		v.pitch, v.attack, v.decay1, v.decay2, v.releaseGlo,
		v.pan, v.dryRev, v.choVar,
		v.lpfCutoff, v.lpfCutoffInc, v.lpfReso, v.hpfCutoff,
	} {
		offset = putU16(buf, offset, r)
	}
	for _, e := range v.eq {
		offset = putU16(buf, offset, uint16(e))
	}
	for _, r := range v.routing {
		offset = putU16(buf, offset, r)
	}

	// Playback
	offset = putU32(buf, offset, v.samplePos)
	for side := 0; side < 2; side++ {
		offset = putU32(buf, offset, uint32(v.history[side][0]))
		offset = putU32(buf, offset, uint32(v.history[side][1]))
	}
	offset = putU32(buf, offset, v.historyIdx)
	buf[offset] = boolByte(v.historyOK)
	offset++

	// Envelope
	offset = putU32(buf, offset, uint32(v.envLevel))
	offset = putU32(buf, offset, uint32(v.envTimer))
	buf[offset] = boolByte(v.envOnTimer)
	offset++
	buf[offset] = uint8(v.envMode)
	offset++
	buf[offset] = boolByte(v.decay2Done)
	offset++
	offset = putU32(buf, offset, uint32(v.gloCur))

	offset = putU32(buf, offset, uint32(v.panL))
	offset = putU32(buf, offset, uint32(v.panR))

	// Filters
	offset = putU32(buf, offset, uint32(v.lpfCur))
	for side := 0; side < 2; side++ {
		offset = putU32(buf, offset, uint32(v.lpf[side][0]))
		offset = putU32(buf, offset, uint32(v.lpf[side][1]))
	}
	for side := 0; side < 2; side++ {
		offset = putU32(buf, offset, uint32(v.hpf[side]))
	}
	for side := 0; side < 2; side++ {
		offset = putU32(buf, offset, uint32(v.eqX[side][0]))
		offset = putU32(buf, offset, uint32(v.eqX[side][1]))
	}
	for side := 0; side < 2; side++ {
		offset = putU32(buf, offset, uint32(v.eqY[side][0]))
		offset = putU32(buf, offset, uint32(v.eqY[side][1]))
	}
	return offset
}

func deserializeVoice(v *voice, buf []byte, offset int) int {
	// Registers
	v.sampleStart, offset = getU32(buf, offset)
	v.sampleEnd, offset = getU32(buf, offset)
	v.sampleAddress, offset = getU32(buf, offset)
	for _, r := range [...]*uint16{
		&v.pitch, &v.attack, &v.decay1, &v.decay2, &v.releaseGlo,
		&v.pan, &v.dryRev, &v.choVar,
		&v.lpfCutoff, &v.lpfCutoffInc, &v.lpfReso, &v.hpfCutoff,
	} {
		*r, offset = getU16(buf, offset)
	}
	for i := range v.eq {
		var e uint16
		e, offset = getU16(buf, offset)
		v.eq[i] = int16(e)
	}
	for i := range v.routing {
		v.routing[i], offset = getU16(buf, offset)
	}

	// Playback
	v.samplePos, offset = getU32(buf, offset)
	for side := 0; side < 2; side++ {
		v.history[side][0], offset = getI32(buf, offset)
		v.history[side][1], offset = getI32(buf, offset)
	}
	v.historyIdx, offset = getU32(buf, offset)
	v.historyOK = buf[offset] != 0
	offset++

	// Envelope
	v.envLevel, offset = getI32(buf, offset)
	v.envTimer, offset = getI32(buf, offset)
	v.envOnTimer = buf[offset] != 0
	offset++
	v.envMode = envMode(buf[offset])
	if v.envMode > envRelease {
		v.envMode = envIdle
	}
	offset++
	v.decay2Done = buf[offset] != 0
	offset++
	v.gloCur, offset = getI32(buf, offset)

	v.panL, offset = getI32(buf, offset)
	v.panR, offset = getI32(buf, offset)

	// Filters
	v.lpfCur, offset = getI32(buf, offset)
	for side := 0; side < 2; side++ {
		v.lpf[side][0], offset = getI32(buf, offset)
		v.lpf[side][1], offset = getI32(buf, offset)
	}
	for side := 0; side < 2; side++ {
		v.hpf[side], offset = getI32(buf, offset)
	}
	for side := 0; side < 2; side++ {
		v.eqX[side][0], offset = getI32(buf, offset)
		v.eqX[side][1], offset = getI32(buf, offset)
	}
	for side := 0; side < 2; side++ {
		v.eqY[side][0], offset = getI32(buf, offset)
		v.eqY[side][1], offset = getI32(buf, offset)
	}
	return offset
}
