package board

import (
	"errors"
	"testing"

	"github.com/herlein/isdbfe/pkg/config"
	"github.com/herlein/isdbfe/pkg/frontend"
	"github.com/herlein/isdbfe/pkg/registers"
)

func TestOpenRejectsInvalidConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Transport.Kind = "spi"
	if _, err := Open(nil, cfg); !errors.Is(err, config.ErrInvalidTransport) {
		t.Errorf("err = %v, want ErrInvalidTransport", err)
	}
}

func TestOpenUSBNeedsContext(t *testing.T) {
	if _, err := Open(nil, config.DefaultConfig()); err == nil {
		t.Error("usb transport opened without a context")
	}
}

func TestAttach(t *testing.T) {
	cfg := config.DefaultConfig()
	m := registers.NewMemory()
	s := cfg.Slaves()
	m.Set(s.X, 0, 0xFD, 0x91)

	b := &Board{Config: cfg, Bus: m, Name: "memory"}
	defer b.Close()

	reg := frontend.NewRegistry()
	fe, err := b.Attach(frontend.Options{Registry: reg})
	if err != nil {
		t.Fatal(err)
	}
	defer fe.Release()

	if fe.State() != frontend.StateUnknown {
		t.Errorf("State = %s, want Unknown", fe.State())
	}
	if got := reg.Refs(cfg.BusID(), cfg.DemodAddr); got != 1 {
		t.Errorf("Refs = %d, want 1", got)
	}
}
