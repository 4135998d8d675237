package frontend

import (
	"errors"
	"testing"
	"time"

	"github.com/herlein/isdbfe/pkg/registers"
)

func attach(t *testing.T, reg *Registry, m *registers.Memory, busID string, cfg Config) (*Frontend, error) {
	t.Helper()
	s := cfg.Slaves()
	m.Set(s.X, 0, 0xFB, 0x00)
	m.Set(s.X, 0, 0xFD, 0x91)
	return New(busID, m, cfg, Options{Registry: reg, Sleep: func(time.Duration) {}})
}

func TestRegistrySharesBase(t *testing.T) {
	reg := NewRegistry()
	m := registers.NewMemory()

	a, err := attach(t, reg, m, "usb1", testConfig)
	if err != nil {
		t.Fatal(err)
	}
	b, err := attach(t, reg, m, "usb1", testConfig)
	if err != nil {
		t.Fatal(err)
	}
	if a.b != b.b {
		t.Error("frontends on the same address do not share a base")
	}
	if a.ID() == b.ID() {
		t.Error("instance ids collide")
	}
	if got := reg.Refs("usb1", testConfig.DemodAddr); got != 2 {
		t.Errorf("Refs = %d, want 2", got)
	}

	a.Release()
	if got := reg.Refs("usb1", testConfig.DemodAddr); got != 1 {
		t.Errorf("Refs after one release = %d, want 1", got)
	}
	b.Release()
	if reg.Len() != 0 || len(reg.buses) != 0 {
		t.Errorf("registry not empty after last release: %d bases, %d buses", reg.Len(), len(reg.buses))
	}
}

func TestRegistrySharesBusLock(t *testing.T) {
	reg := NewRegistry()
	m := registers.NewMemory()

	other := testConfig
	other.DemodAddr = 0x64
	a, err := attach(t, reg, m, "usb1", testConfig)
	if err != nil {
		t.Fatal(err)
	}
	defer a.Release()
	b, err := attach(t, reg, m, "usb1", other)
	if err != nil {
		t.Fatal(err)
	}
	defer b.Release()
	c, err := attach(t, reg, m, "usb2", testConfig)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Release()

	if a.b == b.b {
		t.Error("different addresses share a base")
	}
	if a.b.bus != b.b.bus {
		t.Error("same bus identity does not share the bus lock")
	}
	if a.b.bus == c.b.bus {
		t.Error("different bus identities share a lock")
	}
}

func TestRegistryRejectsConflictingConfig(t *testing.T) {
	reg := NewRegistry()
	m := registers.NewMemory()

	a, err := attach(t, reg, m, "usb1", testConfig)
	if err != nil {
		t.Fatal(err)
	}
	defer a.Release()

	other := testConfig
	other.TunerAddr = 0x62
	if _, err := attach(t, reg, m, "usb1", other); !errors.Is(err, ErrAddressInUse) {
		t.Fatalf("err = %v, want ErrAddressInUse", err)
	}
	if got := reg.Refs("usb1", testConfig.DemodAddr); got != 1 {
		t.Errorf("Refs = %d, want 1", got)
	}
}

func TestAttachUnknownChip(t *testing.T) {
	reg := NewRegistry()
	m := registers.NewMemory()
	s := testConfig.Slaves()
	m.Set(s.X, 0, 0xFD, 0x25)

	_, err := New("usb1", m, testConfig, Options{Registry: reg})
	if !errors.Is(err, ErrChipNotDetected) {
		t.Fatalf("err = %v, want ErrChipNotDetected", err)
	}
	if reg.Len() != 0 {
		t.Error("failed attach left a registry entry")
	}
}
