package registers

import (
	"errors"
	"testing"
	"time"
)

func TestSetBits(t *testing.T) {
	tests := []struct {
		name      string
		current   uint8
		value     uint8
		mask      uint8
		want      uint8
		transfers int
	}{
		{"zero mask is a no-op", 0xA5, 0xFF, 0x00, 0xA5, 0},
		{"full mask writes directly", 0xA5, 0x3C, 0xFF, 0x3C, 1},
		{"low nibble merge", 0xA5, 0x0F, 0x0F, 0xAF, 2},
		{"single bit clear", 0xFF, 0x00, 0x80, 0x7F, 2},
		{"value bits outside mask ignored", 0x00, 0xFF, 0x10, 0x10, 2},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := NewMemory()
			m.Set(0x6C, 0, 0x32, tc.current)
			if err := SetBits(m, 0x6C, 0x32, tc.value, tc.mask); err != nil {
				t.Fatalf("SetBits: %v", err)
			}
			if got := m.Get(0x6C, 0, 0x32); got != tc.want {
				t.Errorf("register = 0x%02X, want 0x%02X", got, tc.want)
			}
			if n := len(m.Transfers()); n != tc.transfers {
				t.Errorf("transfers = %d, want %d", n, tc.transfers)
			}
		})
	}
}

func TestSetBitsReadFailureSkipsWrite(t *testing.T) {
	m := NewMemory()
	boom := errors.New("nak")
	m.Fault = func(tr Transfer) error {
		if !tr.Write {
			return boom
		}
		return nil
	}

	err := SetBits(m, 0x6C, 0x80, 0x08, 0x1F)
	if !errors.Is(err, ErrBus) {
		t.Fatalf("err = %v, want ErrBus", err)
	}
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want wrapped transport error", err)
	}
	if n := m.Count(func(tr Transfer) bool { return tr.Write }); n != 0 {
		t.Errorf("writes after failed read = %d, want 0", n)
	}
}

func TestSetBankedBitsSelectsBankFirst(t *testing.T) {
	m := NewMemory()
	m.Set(0x6C, 0x01, 0xC1, 0xFF)

	if err := SetBankedBits(m, 0x6C, 0x01, 0xC1, 0x00, 0x80); err != nil {
		t.Fatalf("SetBankedBits: %v", err)
	}

	log := m.Transfers()
	if len(log) != 3 {
		t.Fatalf("transfers = %v, want bank write, read, write", log)
	}
	if !log[0].Write || log[0].Reg != RegBank || log[0].Data[0] != 0x01 {
		t.Errorf("first transfer = %v, want bank select 0x01", log[0])
	}
	if got := m.Get(0x6C, 0x01, 0xC1); got != 0x7F {
		t.Errorf("register = 0x%02X, want 0x7F", got)
	}
}

func TestWithRepeaterAlwaysCloses(t *testing.T) {
	m := NewMemory()
	c := NewClient(m)
	var slept time.Duration
	c.Sleep = func(d time.Duration) { slept += d }

	boom := errors.New("tuner went away")
	err := c.WithRepeater(0x6E, func() error {
		if got := m.Get(0x6E, 0, RegRepeater); got != 0x01 {
			t.Errorf("repeater inside fn = %d, want 1", got)
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want fn error", err)
	}
	if got := m.Get(0x6E, 0, RegRepeater); got != 0x00 {
		t.Errorf("repeater after error = %d, want 0", got)
	}
	if slept != 2*RepeaterSettle {
		t.Errorf("settle time = %v, want %v", slept, 2*RepeaterSettle)
	}
}

func TestWithRepeaterEnableFailure(t *testing.T) {
	m := NewMemory()
	c := NewClient(m)
	c.Sleep = nil
	first := true
	m.Fault = func(tr Transfer) error {
		if tr.Write && tr.Reg == RegRepeater && first {
			first = false
			return errors.New("nak")
		}
		return nil
	}

	called := false
	err := c.WithRepeater(0x6E, func() error {
		called = true
		return nil
	})
	if !errors.Is(err, ErrBus) {
		t.Fatalf("err = %v, want ErrBus", err)
	}
	if called {
		t.Error("fn ran although the repeater could not be enabled")
	}
	if n := m.Count(func(tr Transfer) bool { return tr.Write && tr.Reg == RegRepeater }); n != 1 {
		t.Errorf("recorded repeater writes = %d, want the disable only", n)
	}
}

func TestMemoryBanking(t *testing.T) {
	m := NewMemory()
	if err := Write(m, 0x6C, RegBank, 0x10); err != nil {
		t.Fatal(err)
	}
	if err := Write(m, 0x6C, 0x9F, 0x11, 0xB8, 0x00); err != nil {
		t.Fatal(err)
	}
	if got := m.Get(0x6C, 0x10, 0xA0); got != 0xB8 {
		t.Errorf("auto-increment write landed 0x%02X, want 0xB8", got)
	}
	if got := m.Get(0x6C, 0x00, 0xA0); got != 0x00 {
		t.Errorf("bank 0 was modified: 0x%02X", got)
	}

	data, err := Read(m, 0x6C, 0x9F, 3)
	if err != nil {
		t.Fatal(err)
	}
	if data[0] != 0x11 || data[1] != 0xB8 || data[2] != 0x00 {
		t.Errorf("read back % X", data)
	}
}

func TestNewSlaves(t *testing.T) {
	s := NewSlaves(0x6C, 0x60)
	if s.X != 0x6E || s.R != 0x4C || s.M != 0x18 || s.Tuner != 0x60 {
		t.Errorf("slaves = %s", s)
	}
}
