package registers

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestSequenceRun(t *testing.T) {
	m := NewMemory()
	m.Set(0x6C, 0x10, 0x66, 0xF0)

	var slept time.Duration
	c := &Client{Bus: m, Sleep: func(d time.Duration) { slept += d }}

	seq := Sequence{
		Bank(0x6C, 0x10),
		W(0x6C, 0x9F, 0x17, 0xA0),
		Bits(0x6C, 0x66, 0x01, 0x01),
		Wait(20 * time.Millisecond),
		Bits(0x6C, 0x67, 0xFF, 0x00),
	}
	if err := seq.Run(c); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if slept != 20*time.Millisecond {
		t.Errorf("slept %s, want 20ms", slept)
	}
	if got := m.Get(0x6C, 0x10, 0xA0); got != 0xA0 {
		t.Errorf("0xA0 = 0x%02X, want 0xA0", got)
	}
	if got := m.Get(0x6C, 0x10, 0x66); got != 0xF1 {
		t.Errorf("0x66 = 0x%02X, want 0xF1", got)
	}
	if seq.Writes() != 3 {
		t.Errorf("Writes() = %d, want 3", seq.Writes())
	}
}

func TestSequenceStopsAtFirstFailure(t *testing.T) {
	m := NewMemory()
	m.Fault = func(tr Transfer) error {
		if tr.Write && tr.Reg == 0x20 {
			return errors.New("nak")
		}
		return nil
	}
	c := &Client{Bus: m}

	seq := Sequence{W(0x6C, 0x10, 1), W(0x6C, 0x20, 2), W(0x6C, 0x30, 3)}
	err := seq.Run(c)
	if !errors.Is(err, ErrBus) {
		t.Fatalf("err = %v, want ErrBus", err)
	}
	if !strings.Contains(err.Error(), "step 1") {
		t.Errorf("err = %q, want step index", err)
	}
	if got := m.Get(0x6C, 0, 0x30); got != 0 {
		t.Errorf("op after failure was applied")
	}
}

func TestSequenceThenDoesNotAlias(t *testing.T) {
	base := make(Sequence, 1, 4)
	base[0] = W(0x10, 0x01, 1)
	a := base.Then(W(0x10, 0x02, 2))
	b := base.Then(W(0x10, 0x03, 3))
	if a[1].Reg != 0x02 || b[1].Reg != 0x03 {
		t.Errorf("Then shared backing storage: %v / %v", a, b)
	}
	if got := Concat(a, b); len(got) != 4 {
		t.Errorf("Concat length = %d, want 4", len(got))
	}
}
