// Package meg implements the effects microcode engine that runs one
// program pass per output sample over the voice send buses.
package meg

import "log"

// Table and state sizes
const (
	ProgramSize = 0x180
	ConstCount  = 0x180
	OffsetCount = 0x80
	LFOCount    = 0x18
	MapCount    = 8
	TempCount   = 0x40
	InputCount  = 16
	OutputCount = 4
	MemorySize  = 0x40000
)

// Engine is the MEG state. The program and the constant, offset, LFO and
// map tables are written by the host only; execution state persists
// across passes.
type Engine struct {
	program [ProgramSize]uint64
	consts  [ConstCount]int16
	offsets [OffsetCount]uint16
	lfos    [LFOCount]uint16
	maps    [MapCount]uint16

	pc         uint16
	acc        int32
	temps      [TempCount]int32
	lfoPhase   [LFOCount]uint32
	memCounter uint32
	memory     []int32
	inputs     [InputCount]int32
	outputs    [OutputCount]int32

	// Verbose logs each executed instruction.
	Verbose bool
}

// New creates an engine with an empty (all NOP) program.
func New() *Engine {
	return &Engine{memory: make([]int32, MemorySize)}
}

// Reset clears execution state and tables.
func (e *Engine) Reset() {
	mem := e.memory
	if mem == nil {
		mem = make([]int32, MemorySize)
	} else {
		clear(mem)
	}
	*e = Engine{memory: mem, Verbose: e.Verbose}
}

// Program returns microword i.
func (e *Engine) Program(i int) uint64 { return e.program[i] }

// SetProgram stores microword i.
func (e *Engine) SetProgram(i int, w uint64) { e.program[i] = w }

// Const returns constant i.
func (e *Engine) Const(i int) int16 { return e.consts[i] }

// SetConst stores constant i.
func (e *Engine) SetConst(i int, v int16) { e.consts[i] = v }

// Offset returns delay memory offset i.
func (e *Engine) Offset(i int) uint16 { return e.offsets[i] }

// SetOffset stores delay memory offset i.
func (e *Engine) SetOffset(i int, v uint16) { e.offsets[i] = v }

// LFO returns the control word of LFO i.
func (e *Engine) LFO(i int) uint16 { return e.lfos[i] }

// SetLFO stores the control word of LFO i.
func (e *Engine) SetLFO(i int, v uint16) { e.lfos[i] = v }

// Map returns delay memory map i.
func (e *Engine) Map(i int) uint16 { return e.maps[i] }

// SetMap stores delay memory map i.
func (e *Engine) SetMap(i int, v uint16) { e.maps[i] = v }

// PC returns the address of the next instruction.
func (e *Engine) PC() uint16 { return e.pc }

// Outputs returns the output slots as left by the last instruction that
// wrote them.
func (e *Engine) Outputs() [OutputCount]int32 { return e.outputs }

// SetInputs latches the bus values read by in operands.
func (e *Engine) SetInputs(in *[InputCount]int32) {
	for i, v := range in {
		e.inputs[i] = saturate24(int64(v))
	}
}

// Run latches inputs and executes until the end of the current pass.
func (e *Engine) Run(in *[InputCount]int32) {
	e.SetInputs(in)
	for !e.Step() {
	}
}

// Step executes a single instruction. LFOs advance when a pass starts.
// Returns true when the instruction ended the pass and pc wrapped to 0.
func (e *Engine) Step() bool {
	if e.pc == 0 {
		e.advanceLFOs()
	}
	in := Decode(e.program[e.pc])
	if e.Verbose {
		log.Printf("meg: %03x %s", e.pc, in)
	}
	e.execute(in, e.consts[e.pc])
	e.pc++
	if in.End || e.pc >= ProgramSize {
		e.pc = 0
		e.memCounter = (e.memCounter - 1) & (MemorySize - 1)
		return true
	}
	return false
}

func (e *Engine) execute(in Instruction, c int16) {
	if in.Op == OpNop || in.Op > OpInterp {
		return
	}
	a := int64(e.temps[in.A])
	b := int64(e.operandB(in))
	k := int64(c)

	var r int64
	switch in.Op {
	case OpMac:
		r = a + (b*k)>>15
	case OpMul:
		r = (a * b) >> 23
	case OpAdd:
		r = a + b
	case OpSub:
		r = a - b
	case OpAnd:
		r = a & b
	case OpOr:
		r = a | b
	case OpXor:
		r = a ^ b
	case OpAbs:
		r = b
		if r < 0 {
			r = -r
		}
	case OpMax:
		r = max(a, b)
	case OpMin:
		r = min(a, b)
	case OpLoad:
		r = (b * k) >> 15
	case OpInterp:
		r = a + ((b-a)*k)>>15
	}
	res := saturate24(r << in.Shift)
	e.acc = res

	if in.Write {
		e.temps[in.Dst] = res
	}
	if in.MemWrite {
		e.memory[e.memoryAddress(in)] = res
	}
	if in.Out >= 1 && in.Out <= OutputCount {
		e.outputs[in.Out-1] = res
	}
}

func (e *Engine) operandB(in Instruction) int32 {
	switch in.B {
	case SrcTemp:
		return e.temps[in.BIndex]
	case SrcInput:
		return e.inputs[in.BIndex%InputCount]
	case SrcMemory:
		return e.memory[e.memoryAddress(in)]
	case SrcLFO:
		return int32(e.lfoValue(int(in.BIndex) % LFOCount) << 7)
	case SrcAcc:
		return e.acc
	case SrcConst:
		return int32(e.consts[e.pc]) << 8
	case SrcOutput:
		return e.outputs[in.BIndex%OutputCount]
	}
	return 0
}

// memoryAddress resolves the delay memory word used by in. The offset
// word selects a map slot (bits 15-13) and a delta (bits 12-0, in units
// of 4 words); the map slot gives the region base and power of two size.
// The free-running counter makes every region a circular delay line.
func (e *Engine) memoryAddress(in Instruction) uint32 {
	ofs := e.offsets[in.Offset%OffsetCount]
	m := e.maps[ofs>>13]
	delta := uint32(ofs&0x1fff) << 2
	if in.LFO < LFOCount {
		delta += e.lfoValue(int(in.LFO)) >> 6
	}
	base := uint32(m>>4&0xfff) << 6
	size := uint32(0x400) << (m & 7)
	return (base + ((e.memCounter + delta) & (size - 1))) & (MemorySize - 1)
}

func saturate24(v int64) int32 {
	if v > 0x7fffff {
		return 0x7fffff
	}
	if v < -0x800000 {
		return -0x800000
	}
	return int32(v)
}
