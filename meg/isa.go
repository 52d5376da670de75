package meg

import (
	"errors"
	"fmt"
	"strings"
)

// Op is the ALU operation of a microword.
type Op uint8

const (
	OpNop    = Op(0)  // nop
	OpMac    = Op(1)  // mac: A + B*C
	OpMul    = Op(2)  // mul: A*B
	OpAdd    = Op(3)  // add
	OpSub    = Op(4)  // sub
	OpAnd    = Op(5)  // and
	OpOr     = Op(6)  // or
	OpXor    = Op(7)  // xor
	OpAbs    = Op(8)  // abs: |B|
	OpMax    = Op(9)  // max
	OpMin    = Op(10) // min
	OpLoad   = Op(11) // ld: B*C
	OpInterp = Op(12) // interp: A + (B-A)*C
)

var opNames = [16]string{
	"nop", "mac", "mul", "add", "sub", "and", "or", "xor",
	"abs", "max", "min", "ld", "interp", "op13", "op14", "op15",
}

func (op Op) String() string {
	return opNames[op&0xf]
}

// Source selects where operand B comes from.
type Source uint8

const (
	SrcZero   = Source(0) // zero
	SrcTemp   = Source(1) // t
	SrcInput  = Source(2) // in
	SrcMemory = Source(3) // mem
	SrcLFO    = Source(4) // lfo
	SrcAcc    = Source(5) // acc
	SrcConst  = Source(6) // const
	SrcOutput = Source(7) // out
)

var sourceNames = [8]string{"zero", "t", "in", "mem", "lfo", "acc", "const", "out"}

func (s Source) String() string {
	return sourceNames[s&7]
}

// NoLFO in Instruction.LFO leaves the memory address unmodulated.
const NoLFO = 0x1f

var (
	ErrUnknownOp     = errors.New("unknown op")
	ErrUnknownSource = errors.New("unknown source")
)

// ParseOp returns the Op named s.
func ParseOp(s string) (Op, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range opNames[:OpInterp+1] {
		if name == s {
			return Op(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownOp, s)
}

// ParseSource returns the Source named s.
func ParseSource(s string) (Source, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return SrcZero, nil
	}
	for i, name := range sourceNames {
		if name == s {
			return Source(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownSource, s)
}

// Instruction is a decoded 64-bit microword.
//
//	63-60 op      59-57 bsel    56-51 a      50-45 b
//	44    wt      43-38 dst     37-36 shift  35    mw
//	34-28 offset  27-23 lfo     22-20 out    19    end
type Instruction struct {
	Op       Op
	B        Source
	A        uint8 // temp index of operand A
	BIndex   uint8 // index for operand B (temp, input, lfo, output)
	Write    bool  // store result in temp Dst
	Dst      uint8
	Shift    uint8 // result << Shift
	MemWrite bool  // store result in delay memory
	Offset   uint8 // offset table index for delay memory
	LFO      uint8 // LFO modulating the delay address, NoLFO for none
	Out      uint8 // 1-4 writes output Out-1, 0 for none
	End      bool
}

// Decode splits a microword into its fields.
func Decode(w uint64) Instruction {
	return Instruction{
		Op:       Op(w >> 60 & 0xf),
		B:        Source(w >> 57 & 0x7),
		A:        uint8(w >> 51 & 0x3f),
		BIndex:   uint8(w >> 45 & 0x3f),
		Write:    w>>44&1 != 0,
		Dst:      uint8(w >> 38 & 0x3f),
		Shift:    uint8(w >> 36 & 0x3),
		MemWrite: w>>35&1 != 0,
		Offset:   uint8(w >> 28 & 0x7f),
		LFO:      uint8(w >> 23 & 0x1f),
		Out:      uint8(w >> 20 & 0x7),
		End:      w>>19&1 != 0,
	}
}

// Encode packs the instruction back into a microword.
func (in Instruction) Encode() uint64 {
	w := uint64(in.Op&0xf) << 60
	w |= uint64(in.B&0x7) << 57
	w |= uint64(in.A&0x3f) << 51
	w |= uint64(in.BIndex&0x3f) << 45
	if in.Write {
		w |= 1 << 44
	}
	w |= uint64(in.Dst&0x3f) << 38
	w |= uint64(in.Shift&0x3) << 36
	if in.MemWrite {
		w |= 1 << 35
	}
	w |= uint64(in.Offset&0x7f) << 28
	w |= uint64(in.LFO&0x1f) << 23
	w |= uint64(in.Out&0x7) << 20
	if in.End {
		w |= 1 << 19
	}
	return w
}

// usesMemory reports whether the instruction touches delay memory.
func (in Instruction) usesMemory() bool {
	return in.B == SrcMemory || in.MemWrite
}
