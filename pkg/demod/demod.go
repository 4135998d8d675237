// Package demod sequences the demodulator core: cold boot, the
// sleep-to-active procedures for each broadcast system, transport stream
// output setup and the sleep procedures. Register programs are built as
// registers.Sequence values so they can be inspected without a bus.
package demod

import (
	"errors"
	"fmt"
	"time"

	"github.com/herlein/isdbfe/pkg/registers"
	"github.com/quan-to/slog"
)

var log = slog.Scope("Demod")

// ChipIDCXD2857 is the id reported by a supported demodulator
const ChipIDCXD2857 = 0x091

// ErrChipNotDetected indicates the X slave reported an unknown chip id
var ErrChipNotDetected = errors.New("demodulator chip not detected")

// System is a broadcast system the demodulator can run
type System uint8

const (
	SystemUnknown System = iota
	SystemISDBT
	SystemISDBS
	SystemISDBS3
)

func (s System) String() string {
	switch s {
	case SystemUnknown:
		return "Unknown"
	case SystemISDBT:
		return "ISDB-T"
	case SystemISDBS:
		return "ISDB-S"
	case SystemISDBS3:
		return "ISDB-S3"
	}
	return fmt.Sprintf("System(%d)", uint8(s))
}

// Satellite reports whether s is received through the satellite front end
func (s System) Satellite() bool {
	return s == SystemISDBS || s == SystemISDBS3
}

// Crystal is the demodulator reference oscillator, written as-is to the
// clock mode register
type Crystal uint8

const (
	Crystal16MHz Crystal = iota
	Crystal24MHz
	Crystal32MHz
)

// Demod drives one demodulator through its T and X slaves
type Demod struct {
	c *registers.Client
	s registers.Slaves
}

// New returns a Demod for the given slave addresses
func New(c *registers.Client, slaves registers.Slaves) *Demod {
	return &Demod{c: c, s: slaves}
}

// Slaves returns the addresses this Demod talks to
func (d *Demod) Slaves() registers.Slaves {
	return d.s
}

// ChipID reads the 10-bit chip id from the X slave
func (d *Demod) ChipID() (uint16, error) {
	if err := d.c.SelectBank(d.s.X, 0x00); err != nil {
		return 0, fmt.Errorf("failed to select chip id bank: %w", err)
	}
	hi, err := d.c.ReadReg(d.s.X, 0xFB)
	if err != nil {
		return 0, fmt.Errorf("failed to read chip id: %w", err)
	}
	lo, err := d.c.ReadReg(d.s.X, 0xFD)
	if err != nil {
		return 0, fmt.Errorf("failed to read chip id: %w", err)
	}
	return uint16(hi&0x03)<<8 | uint16(lo), nil
}

// Detect reads the chip id and rejects anything but a CXD2857
func (d *Demod) Detect() error {
	id, err := d.ChipID()
	if err != nil {
		return err
	}
	if id != ChipIDCXD2857 {
		return fmt.Errorf("%w: id 0x%03X", ErrChipNotDetected, id)
	}
	log.Info("Detected CXD2857 at 0x%02X", d.s.T)
	return nil
}

// ColdBoot clears the chip, starts the crystal oscillator and enables the
// tuner bus. The demodulator is left asleep.
func (d *Demod) ColdBoot(xtal Crystal) error {
	if err := coldBootSequence(d.s, xtal).Run(d.c); err != nil {
		return fmt.Errorf("failed to boot demodulator: %w", err)
	}
	return nil
}

// SetupTLV configures the output interface for 8-bit parallel TLV with
// the MSB on TSDATA7
func (d *Demod) SetupTLV() error {
	if err := tlvSetupSequence(d.s).Run(d.c); err != nil {
		return fmt.Errorf("failed to set up TLV output: %w", err)
	}
	return nil
}

// TuneEnd soft-resets the core after tuning and enables stream output
func (d *Demod) TuneEnd() error {
	if err := (registers.Sequence{
		registers.Bank(d.s.T, 0x00),
		registers.W(d.s.T, 0xFE, 0x01),
	}).Run(d.c); err != nil {
		return fmt.Errorf("failed to finish tune: %w", err)
	}
	return d.SetStreamOutput(true)
}

func coldBootSequence(s registers.Slaves, xtal Crystal) registers.Sequence {
	x := s.X
	return registers.Sequence{
		registers.W(x, 0x02, 0x00),
		registers.Wait(4 * time.Millisecond),
		registers.Bank(x, 0x00),
		registers.W(x, 0x10, 0x01),
		registers.W(x, 0x18, 0x01),
		registers.W(x, 0x28, 0x13),
		registers.W(x, 0x17, 0x01),
		registers.W(x, 0x1D, 0x00),
		registers.W(x, 0x14, byte(xtal)),
		registers.W(x, 0x1C, 0x03),
		registers.Wait(6 * time.Millisecond),
		registers.W(x, 0x50, 0x00),
		registers.Wait(5 * time.Millisecond),
		registers.W(x, 0x10, 0x00),
		registers.Wait(5 * time.Millisecond),
		registers.Bank(x, 0x00),
		registers.Bits(x, 0x1A, 0x01, 0xFF),
		registers.Wait(2 * time.Millisecond),
	}
}

func tlvSetupSequence(s registers.Slaves) registers.Sequence {
	t, x := s.T, s.X
	return registers.Concat(
		banked(t, 0xA0, 0xB9, 0x01, 0x01),
		banked(t, 0x01, 0xC1, 0x00, 0x80), // serial off
		banked(t, 0x01, 0xCF, 0x00, 0x01), // 8-bit parallel
		banked(t, 0x01, 0xC1, 0x00, 0x10), // MSB on TSDATA7
		banked(t, 0x00, 0xC4, 0x00, 0x80),
		banked(t, 0x01, 0xC8, 0x00, 0x08),
		registers.Sequence{
			registers.Bank(x, 0x01),
			registers.W(x, 0xF3, 0x02),
		},
		banked(x, 0x00, 0xA5, 0x04, 0x0F),
		banked(x, 0x00, 0x82, 0x00, 0x04),
		banked(x, 0x00, 0x81, 0xFF, 0x00),
	)
}

// banked selects bank and applies a masked update
func banked(addr uint8, bank uint8, reg uint8, value uint8, mask uint8) registers.Sequence {
	return registers.Sequence{
		registers.Bank(addr, bank),
		registers.Bits(addr, reg, value, mask),
	}
}
