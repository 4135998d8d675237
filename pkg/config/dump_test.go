package config

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/herlein/isdbfe/pkg/registers"
)

func TestDumpAndApply(t *testing.T) {
	slaves := registers.NewSlaves(0x6C, 0x60)
	src := registers.NewMemory()
	src.Set(slaves.T, 0x60, 0x10, 0x13)
	src.Set(slaves.X, 0x10, 0xA5, 0x01)

	ranges := []DumpRange{
		{Slave: "T", Bank: 0x60, Start: 0x10, Length: 2},
		{Slave: "X", Bank: 0x10, Start: 0xA5, Length: 1},
	}
	dump, err := DumpRegisters(&registers.Client{Bus: src}, slaves, ranges)
	if err != nil {
		t.Fatal(err)
	}
	if len(dump.Banks) != 2 || !bytes.Equal(dump.Banks[0].Data, []byte{0x13, 0x00}) {
		t.Fatalf("dump = %+v", dump.Banks)
	}

	path := filepath.Join(t.TempDir(), "dump.yaml")
	if err := SaveToFile(dump, path); err != nil {
		t.Fatal(err)
	}
	loaded, err := LoadDump(path)
	if err != nil {
		t.Fatal(err)
	}

	dst := registers.NewMemory()
	if err := ApplyDump(&registers.Client{Bus: dst}, loaded); err != nil {
		t.Fatal(err)
	}
	if got := dst.Get(slaves.T, 0x60, 0x10); got != 0x13 {
		t.Errorf("T/60/10 = %02X, want 13", got)
	}
	if got := dst.Get(slaves.X, 0x10, 0xA5); got != 0x01 {
		t.Errorf("X/10/A5 = %02X, want 01", got)
	}
}

func TestDumpRejectsBadRanges(t *testing.T) {
	slaves := registers.NewSlaves(0x6C, 0x60)
	c := &registers.Client{Bus: registers.NewMemory()}
	tests := []struct {
		name string
		r    DumpRange
	}{
		{"bank register", DumpRange{Slave: "T", Start: 0x00, Length: 4}},
		{"past end", DumpRange{Slave: "T", Start: 0xF0, Length: 0x20}},
		{"empty", DumpRange{Slave: "T", Start: 0x10}},
		{"unknown slave", DumpRange{Slave: "R", Start: 0x10, Length: 1}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := DumpRegisters(c, slaves, []DumpRange{tc.r}); !errors.Is(err, ErrInvalidDump) {
				t.Errorf("err = %v, want ErrInvalidDump", err)
			}
		})
	}
}

func TestApplyRejectsShortData(t *testing.T) {
	dump := &RegisterDump{
		Slaves: registers.NewSlaves(0x6C, 0x60),
		Banks: []BankDump{{
			DumpRange: DumpRange{Slave: "T", Bank: 0x10, Start: 0x01, Length: 4},
			Data:      HexBytes{0x01},
		}},
	}
	m := registers.NewMemory()
	if err := ApplyDump(&registers.Client{Bus: m}, dump); !errors.Is(err, ErrInvalidDump) {
		t.Fatalf("err = %v, want ErrInvalidDump", err)
	}
	if n := len(m.Transfers()); n != 0 {
		t.Errorf("%d transfers issued for a rejected dump", n)
	}
}
