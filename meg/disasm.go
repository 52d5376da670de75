package meg

import (
	"fmt"
	"strings"
)

// String renders the instruction in assembler-like form, e.g.
//
//	mac t3, in2 -> t5 <<1 mw[o12+lfo3] out1 end
func (in Instruction) String() string {
	if in.Op == OpNop && !in.End {
		return "nop"
	}
	var sb strings.Builder
	sb.WriteString(in.Op.String())
	if in.Op != OpNop {
		fmt.Fprintf(&sb, " t%d, %s", in.A, in.operandString())
		if in.Write {
			fmt.Fprintf(&sb, " -> t%d", in.Dst)
		}
		if in.Shift != 0 {
			fmt.Fprintf(&sb, " <<%d", in.Shift)
		}
		if in.MemWrite {
			fmt.Fprintf(&sb, " mw[%s]", in.memString())
		}
		if in.Out >= 1 && in.Out <= OutputCount {
			fmt.Fprintf(&sb, " out%d", in.Out-1)
		}
	}
	if in.End {
		sb.WriteString(" end")
	}
	return sb.String()
}

func (in Instruction) operandString() string {
	switch in.B {
	case SrcZero, SrcAcc, SrcConst:
		return in.B.String()
	case SrcMemory:
		return "mem[" + in.memString() + "]"
	}
	return fmt.Sprintf("%s%d", in.B, in.BIndex)
}

func (in Instruction) memString() string {
	if in.LFO < LFOCount {
		return fmt.Sprintf("o%d+lfo%d", in.Offset, in.LFO)
	}
	return fmt.Sprintf("o%d", in.Offset)
}

// Disassemble lists a program up to and including the first end word,
// one instruction per line with its address and constant.
func Disassemble(program []uint64, consts []int16) string {
	var sb strings.Builder
	for pc, w := range program {
		in := Decode(w)
		c := int16(0)
		if pc < len(consts) {
			c = consts[pc]
		}
		fmt.Fprintf(&sb, "%03x: %016x  c=%6d  %s\n", pc, w, c, in)
		if in.End {
			break
		}
	}
	return sb.String()
}

// Disassemble lists the engine's loaded program.
func (e *Engine) Disassemble() string {
	return Disassemble(e.program[:], e.consts[:])
}
