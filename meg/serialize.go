package meg

import (
	"encoding/binary"
	"errors"
)

const (
	serializeVersion = 1
	// version(1) + program(0x180*8) + consts(0x180*2) + offsets(0x80*2) +
	// lfos(0x18*2) + maps(8*2) + pc(2) + acc(4) + temps(0x40*4) +
	// lfoPhase(0x18*4) + memCounter(4) + inputs(16*4) + outputs(4*4) +
	// memory(0x40000*4)
	SerializeSize = 1 + ProgramSize*8 + ConstCount*2 + OffsetCount*2 +
		LFOCount*2 + MapCount*2 + 2 + 4 + TempCount*4 +
		LFOCount*4 + 4 + InputCount*4 + OutputCount*4 +
		MemorySize*4
)

// Serialize writes engine state to buf. buf must be at least SerializeSize bytes.
func (e *Engine) Serialize(buf []byte) error {
	if len(buf) < SerializeSize {
		return errors.New("meg serialize buffer too small")
	}
	le := binary.LittleEndian
	buf[0] = serializeVersion
	offset := 1

	for _, w := range e.program {
		le.PutUint64(buf[offset:], w)
		offset += 8
	}
	for _, c := range e.consts {
		le.PutUint16(buf[offset:], uint16(c))
		offset += 2
	}
	for _, v := range e.offsets {
		le.PutUint16(buf[offset:], v)
		offset += 2
	}
	for _, v := range e.lfos {
		le.PutUint16(buf[offset:], v)
		offset += 2
	}
	for _, v := range e.maps {
		le.PutUint16(buf[offset:], v)
		offset += 2
	}

	le.PutUint16(buf[offset:], e.pc)
	offset += 2
	le.PutUint32(buf[offset:], uint32(e.acc))
	offset += 4
	for _, v := range e.temps {
		le.PutUint32(buf[offset:], uint32(v))
		offset += 4
	}
	for _, v := range e.lfoPhase {
		le.PutUint32(buf[offset:], v)
		offset += 4
	}
	le.PutUint32(buf[offset:], e.memCounter)
	offset += 4
	for _, v := range e.inputs {
		le.PutUint32(buf[offset:], uint32(v))
		offset += 4
	}
	for _, v := range e.outputs {
		le.PutUint32(buf[offset:], uint32(v))
		offset += 4
	}
	for i := 0; i < MemorySize; i++ {
		var v int32
		if i < len(e.memory) {
			v = e.memory[i]
		}
		le.PutUint32(buf[offset:], uint32(v))
		offset += 4
	}
	return nil
}

// Deserialize restores engine state from buf.
func (e *Engine) Deserialize(buf []byte) error {
	if len(buf) < SerializeSize {
		return errors.New("meg deserialize buffer too small")
	}
	if buf[0] != serializeVersion {
		return errors.New("unsupported meg serialize version")
	}
	le := binary.LittleEndian
	offset := 1

	for i := range e.program {
		e.program[i] = le.Uint64(buf[offset:])
		offset += 8
	}
	for i := range e.consts {
		e.consts[i] = int16(le.Uint16(buf[offset:]))
		offset += 2
	}
	for i := range e.offsets {
		e.offsets[i] = le.Uint16(buf[offset:])
		offset += 2
	}
	for i := range e.lfos {
		e.lfos[i] = le.Uint16(buf[offset:])
		offset += 2
	}
	for i := range e.maps {
		e.maps[i] = le.Uint16(buf[offset:])
		offset += 2
	}

	e.pc = le.Uint16(buf[offset:]) % ProgramSize
	offset += 2
	e.acc = int32(le.Uint32(buf[offset:]))
	offset += 4
	for i := range e.temps {
		e.temps[i] = int32(le.Uint32(buf[offset:]))
		offset += 4
	}
	for i := range e.lfoPhase {
		e.lfoPhase[i] = le.Uint32(buf[offset:]) & lfoPhaseMask
		offset += 4
	}
	e.memCounter = le.Uint32(buf[offset:]) & (MemorySize - 1)
	offset += 4
	for i := range e.inputs {
		e.inputs[i] = int32(le.Uint32(buf[offset:]))
		offset += 4
	}
	for i := range e.outputs {
		e.outputs[i] = int32(le.Uint32(buf[offset:]))
		offset += 4
	}
	if len(e.memory) != MemorySize {
		e.memory = make([]int32, MemorySize)
	}
	for i := range e.memory {
		e.memory[i] = int32(le.Uint32(buf[offset:]))
		offset += 4
	}
	return nil
}
