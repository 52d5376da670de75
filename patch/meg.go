package patch

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/user-none/emswp/meg"
)

// MEG holds the effects program and its tables. Table entries are
// written from index 0.
type MEG struct {
	Program []Instruction `yaml:",omitempty"`
	Consts  []int16       `yaml:",flow,omitempty"`
	Offsets []uint16      `yaml:",flow,omitempty"`
	LFOs    []uint16      `yaml:"lfos,flow,omitempty"`
	Maps    []uint16      `yaml:",flow,omitempty"`
}

// Instruction is one program slot. In YAML it is either a raw microword
// ("0x3400...") or a mapping of named fields:
//
//	{op: mac, a: 0, b: in, index: 2, dst: 5, const: 0x4000, out: 1}
//
// A const given here overrides the constant table for this slot.
type Instruction struct {
	Word  uint64
	Const *int16
}

type instructionFields struct {
	Op     string
	A      uint8
	B      string
	Index  uint8
	Dst    *uint8
	Shift  uint8
	Mem    bool
	Offset uint8
	LFO    *uint8 `yaml:"lfo"`
	Out    uint8
	End    bool
	Const  *int16
}

func (in *Instruction) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.ScalarNode {
		w, err := strconv.ParseUint(n.Value, 0, 64)
		if err != nil {
			return fmt.Errorf("line %d: microword %q: %w", n.Line, n.Value, err)
		}
		in.Word = w
		in.Const = nil
		return nil
	}

	var f instructionFields
	if err := n.Decode(&f); err != nil {
		return err
	}
	op, err := meg.ParseOp(f.Op)
	if err != nil {
		return fmt.Errorf("line %d: %w", n.Line, err)
	}
	src, err := meg.ParseSource(f.B)
	if err != nil {
		return fmt.Errorf("line %d: %w", n.Line, err)
	}
	d := meg.Instruction{
		Op:       op,
		B:        src,
		A:        f.A,
		BIndex:   f.Index,
		Shift:    f.Shift,
		MemWrite: f.Mem,
		Offset:   f.Offset,
		LFO:      meg.NoLFO,
		Out:      f.Out,
		End:      f.End,
	}
	if f.Dst != nil {
		d.Write = true
		d.Dst = *f.Dst
	}
	if f.LFO != nil {
		d.LFO = *f.LFO
	}
	in.Word = d.Encode()
	in.Const = f.Const
	return nil
}

// MarshalYAML writes the raw microword, plus the slot constant when set.
func (in Instruction) MarshalYAML() (interface{}, error) {
	word := fmt.Sprintf("0x%016x", in.Word)
	if in.Const == nil {
		return word, nil
	}
	d := meg.Decode(in.Word)
	f := instructionFields{
		Op:     d.Op.String(),
		A:      d.A,
		B:      d.B.String(),
		Index:  d.BIndex,
		Shift:  d.Shift,
		Mem:    d.MemWrite,
		Offset: d.Offset,
		Out:    d.Out,
		End:    d.End,
		Const:  in.Const,
	}
	if d.Write {
		f.Dst = &d.Dst
	}
	if d.LFO != meg.NoLFO {
		f.LFO = &d.LFO
	}
	return f, nil
}

// Words returns the program as microwords.
func (m *MEG) Words() []uint64 {
	w := make([]uint64, len(m.Program))
	for i, in := range m.Program {
		w[i] = in.Word
	}
	return w
}

// ConstTable returns the constant table with the per-instruction
// constants folded in.
func (m *MEG) ConstTable() []int16 {
	n := max(len(m.Consts), len(m.Program))
	c := make([]int16, n)
	copy(c, m.Consts)
	for i, in := range m.Program {
		if in.Const != nil {
			c[i] = *in.Const
		}
	}
	return c
}
