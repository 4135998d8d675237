package registers

import (
	"fmt"
	"strings"
	"time"
)

// OpKind selects what an Op does
type OpKind uint8

const (
	OpWrite OpKind = iota // write Data starting at Reg
	OpBits                // masked update of Reg with Data[0]
	OpWait                // sleep for Delay
)

// Op is one step of a register sequence
type Op struct {
	Kind  OpKind
	Addr  uint8
	Reg   uint8
	Data  []byte
	Mask  uint8
	Delay time.Duration
}

// W returns a write of data to consecutive registers starting at reg
func W(addr uint8, reg uint8, data ...byte) Op {
	return Op{Kind: OpWrite, Addr: addr, Reg: reg, Data: data}
}

// Bank returns a bank select on addr
func Bank(addr uint8, bank uint8) Op {
	return W(addr, RegBank, bank)
}

// Bits returns a masked register update
func Bits(addr uint8, reg uint8, value uint8, mask uint8) Op {
	return Op{Kind: OpBits, Addr: addr, Reg: reg, Data: []byte{value}, Mask: mask}
}

// Wait returns a pause of d
func Wait(d time.Duration) Op {
	return Op{Kind: OpWait, Delay: d}
}

func (o Op) String() string {
	switch o.Kind {
	case OpWrite:
		return fmt.Sprintf("W 0x%02X 0x%02X % X", o.Addr, o.Reg, o.Data)
	case OpBits:
		return fmt.Sprintf("B 0x%02X 0x%02X %02X/%02X", o.Addr, o.Reg, o.Data[0], o.Mask)
	case OpWait:
		return fmt.Sprintf("D %s", o.Delay)
	}
	return fmt.Sprintf("? %d", o.Kind)
}

// Sequence is an ordered list of register operations
type Sequence []Op

// Then returns s with more appended
func (s Sequence) Then(more ...Op) Sequence {
	out := make(Sequence, 0, len(s)+len(more))
	out = append(out, s...)
	return append(out, more...)
}

// Concat joins sequences in order
func Concat(parts ...Sequence) Sequence {
	var out Sequence
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// Run executes every op in order and stops at the first failure. The
// returned error carries the index of the failing op.
func (s Sequence) Run(c *Client) error {
	for i, op := range s {
		var err error
		switch op.Kind {
		case OpWrite:
			err = c.Write(op.Addr, op.Reg, op.Data...)
		case OpBits:
			err = c.SetBits(op.Addr, op.Reg, op.Data[0], op.Mask)
		case OpWait:
			c.Delay(op.Delay)
		default:
			err = fmt.Errorf("unknown op kind %d", op.Kind)
		}
		if err != nil {
			return fmt.Errorf("step %d (%s): %w", i, op, err)
		}
	}
	return nil
}

// Writes returns the number of bus writes the sequence issues, not
// counting the reads behind masked updates
func (s Sequence) Writes() int {
	n := 0
	for _, op := range s {
		if op.Kind == OpWrite || (op.Kind == OpBits && op.Mask != 0) {
			n++
		}
	}
	return n
}

func (s Sequence) String() string {
	var b strings.Builder
	for _, op := range s {
		b.WriteString(op.String())
		b.WriteByte('\n')
	}
	return b.String()
}
