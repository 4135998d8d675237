package demod

import (
	"fmt"

	"github.com/herlein/isdbfe/pkg/registers"
)

// ClockConfig is one row of the output clock tables
type ClockConfig struct {
	SerialClkMode  uint8
	SerialDutyMode uint8
	ClkPeriod      uint8
	ClkSelIF       uint8
}

// Serial clock table rows
const (
	clockGated = iota
	clockContinuous
)

// Serial clock table columns
const (
	clockHighFull = iota
	clockMidFull
	clockLowFull
	clockHighHalf
	clockMidHalf
	clockLowHalf
)

// Serial output always runs the continuous clock at mid frequency, full rate
const (
	serialClockMode = clockContinuous
	serialClockRate = clockMidFull
)

var (
	serialTSClocks = [2][6]ClockConfig{
		clockGated: {
			{3, 1, 8, 0}, {3, 1, 8, 1}, {3, 1, 8, 2},
			{0, 2, 16, 0}, {0, 2, 16, 1}, {0, 2, 16, 2},
		},
		clockContinuous: {
			{1, 1, 8, 0}, {1, 1, 8, 1}, {1, 1, 8, 2},
			{2, 2, 16, 0}, {2, 2, 16, 1}, {2, 2, 16, 2},
		},
	}
	tsParallelClock = ClockConfig{0, 0, 8, 1}

	serialTLVClocks = [2][6]ClockConfig{
		clockGated: {
			{3, 1, 0, 3}, {3, 1, 1, 4}, {3, 1, 2, 5},
			{0, 2, 0, 3}, {0, 2, 1, 4}, {0, 2, 2, 5},
		},
		clockContinuous: {
			{1, 1, 0, 3}, {1, 1, 1, 4}, {1, 1, 2, 5},
			{2, 2, 0, 3}, {2, 2, 1, 4}, {2, 2, 2, 5},
		},
	}
	tlvParallelClock = ClockConfig{1, 1, 2, 4}

	// high, mid and low frequency
	tlvTwoBitClocks = [3]ClockConfig{{0, 0, 0, 3}, {0, 0, 1, 4}, {0, 0, 2, 5}}
)

// ConfigureTSClock programs the TS interface clock for sys. The serial or
// parallel mode already chosen in register 0xC4 is kept.
func (d *Demod) ConfigureTSClock(sys System) error {
	if err := d.c.SelectBank(d.s.T, 0x00); err != nil {
		return fmt.Errorf("failed to set TS clock: %w", err)
	}
	mode, err := d.c.ReadReg(d.s.T, 0xC4)
	if err != nil {
		return fmt.Errorf("failed to read TS mode: %w", err)
	}
	if err := tsClockSequence(d.s.T, sys, mode&0x80 != 0).Run(d.c); err != nil {
		return fmt.Errorf("failed to set TS clock: %w", err)
	}
	return nil
}

func tsClockSequence(t uint8, sys System, serial bool) registers.Sequence {
	var rateCtrlOff, tsInOff uint8
	switch sys {
	case SystemISDBT, SystemISDBS:
		rateCtrlOff = 1
	case SystemISDBS3:
		rateCtrlOff, tsInOff = 1, 1
	}

	cfg := tsParallelClock
	if serial {
		cfg = serialTSClocks[serialClockMode][serialClockRate]
	}

	seq := registers.Sequence{
		registers.Bits(t, 0xD3, rateCtrlOff, 0x01),
		registers.Bits(t, 0xDE, tsInOff, 0x01),
		registers.Bits(t, 0xDA, 0x00, 0x01),
	}
	if serial {
		seq = append(seq,
			registers.Bits(t, 0xC4, cfg.SerialClkMode, 0x03),
			registers.Bits(t, 0xD1, cfg.SerialDutyMode, 0x03),
		)
	}
	return append(seq,
		registers.W(t, 0xD9, cfg.ClkPeriod),
		registers.Bits(t, 0x32, 0x00, 0x01), // TS IF clock off
		registers.Bits(t, 0x33, cfg.ClkSelIF, 0x03),
		registers.Bits(t, 0x32, 0x01, 0x01),
		registers.Bank(t, 0x10),
		registers.Bits(t, 0x66, 0x01, 0x01), // parity period
		registers.Bank(t, 0x40),
		registers.Bits(t, 0x66, 0x01, 0x01),
	)
}

// ConfigureTLVClock programs the TLV interface clock for sys from the
// serial and 2-bit parallel selections in bank 0x01
func (d *Demod) ConfigureTLVClock(sys System) error {
	if err := d.c.SelectBank(d.s.T, 0x01); err != nil {
		return fmt.Errorf("failed to set TLV clock: %w", err)
	}
	serial, err := d.c.ReadReg(d.s.T, 0xC1)
	if err != nil {
		return fmt.Errorf("failed to read TLV mode: %w", err)
	}
	twoBit, err := d.c.ReadReg(d.s.T, 0xCF)
	if err != nil {
		return fmt.Errorf("failed to read TLV mode: %w", err)
	}
	if err := tlvClockSequence(d.s.T, sys, serial&0x80 != 0, twoBit&0x01 != 0).Run(d.c); err != nil {
		return fmt.Errorf("failed to set TLV clock: %w", err)
	}
	return nil
}

func tlvClockSequence(t uint8, sys System, serial bool, twoBit bool) registers.Sequence {
	var seq registers.Sequence
	if sys == SystemISDBS3 && serial {
		seq = append(seq, registers.Bits(t, 0xE7, 0x00, 0x01))
	} else {
		seq = append(seq, registers.Bits(t, 0xE7, 0x01, 0x01))
	}

	var cfg ClockConfig
	switch {
	case serial:
		cfg = serialTLVClocks[serialClockMode][serialClockRate]
	case twoBit:
		cfg = tlvTwoBitClocks[clockMidFull]
	default:
		cfg = tlvParallelClock
		seq = registers.Concat(seq,
			banked(t, 0x01, 0xC1, 0x00, 0x80),
			banked(t, 0x01, 0xCF, 0x00, 0x01),
		)
	}

	seq = append(seq,
		registers.Bank(t, 0x56),
		registers.Bits(t, 0x83, cfg.ClkSelIF, 0x07),
	)
	if serial {
		seq = append(seq,
			registers.Bank(t, 0x01),
			registers.Bits(t, 0xC1, cfg.SerialClkMode, 0x03),
			registers.Bits(t, 0xCC, cfg.SerialDutyMode, 0x03),
		)
	}
	return append(seq,
		registers.Bank(t, 0x00),
		registers.Bits(t, 0x32, 0x00, 0x01),
		registers.Bits(t, 0x33, cfg.ClkPeriod, 0x03),
		registers.Bits(t, 0x32, 0x01, 0x01),
	)
}

// SetDataPinHiZ puts the stream data pins in use into (enable) or out of
// high impedance. The pins in use follow the current TS or TLV format.
func (d *Demod) SetDataPinHiZ(enable bool) error {
	mask, err := d.dataPinMask()
	if err != nil {
		return fmt.Errorf("failed to read output format: %w", err)
	}
	var value uint8
	if enable {
		value = 0xFF
	}
	if err := (registers.Sequence{
		registers.Bank(d.s.T, 0x00),
		registers.Bits(d.s.T, 0x81, value, mask),
	}).Run(d.c); err != nil {
		return fmt.Errorf("failed to set data pin Hi-Z: %w", err)
	}
	return nil
}

func (d *Demod) dataPinMask() (uint8, error) {
	t := d.s.T
	if err := d.c.SelectBank(t, 0x00); err != nil {
		return 0, err
	}
	sel, err := d.c.ReadReg(t, 0xA9)
	if err != nil {
		return 0, err
	}

	if sel&0x01 == 0 {
		mode, err := d.c.ReadReg(t, 0xC4)
		if err != nil {
			return 0, err
		}
		return serialPinMask(mode), nil
	}

	if err := d.c.SelectBank(t, 0x01); err != nil {
		return 0, err
	}
	mode, err := d.c.ReadReg(t, 0xC1)
	if err != nil {
		return 0, err
	}
	if mode&0x80 != 0 {
		return serialPinMask(mode), nil
	}
	par2, err := d.c.ReadReg(t, 0xCF)
	if err != nil {
		return 0, err
	}
	if par2&0x01 == 0 {
		return 0xFF, nil
	}
	pins, err := d.c.ReadReg(t, 0xEA)
	if err != nil {
		return 0, err
	}
	return TwoBitPinMask(pins), nil
}

// serialPinMask returns TSDATA0 or TSDATA7 for serial output and all
// pins for parallel output
func serialPinMask(mode uint8) uint8 {
	switch mode & 0x88 {
	case 0x80:
		return 0x01
	case 0x88:
		return 0x80
	}
	return 0xFF
}

// TwoBitPinMask decodes the LSB and MSB pin numbers of 2-bit parallel TLV
func TwoBitPinMask(pins uint8) uint8 {
	return 1<<(pins&0x07) | 1<<((pins>>4)&0x07)
}

// SetStreamOutput enables or disables TS or TLV output, whichever is
// selected
func (d *Demod) SetStreamOutput(enable bool) error {
	t := d.s.T
	if err := (registers.Sequence{
		registers.Bank(t, 0x00),
		registers.W(t, 0xFE, 0x01),
	}).Run(d.c); err != nil {
		return fmt.Errorf("failed to set stream output: %w", err)
	}
	sel, err := d.c.ReadReg(t, 0xA9)
	if err != nil {
		return fmt.Errorf("failed to read output select: %w", err)
	}
	if err := streamOutputSequence(t, sel, enable).Run(d.c); err != nil {
		return fmt.Errorf("failed to set stream output: %w", err)
	}
	return nil
}

func streamOutputSequence(t uint8, sel uint8, enable bool) registers.Sequence {
	var off uint8 = 0x01
	if enable {
		off = 0x00
	}
	switch {
	case sel&0x03 == 0x00:
		return registers.Sequence{registers.Bank(t, 0x00), registers.W(t, 0xC3, off)}
	case sel&0x01 != 0:
		return registers.Sequence{registers.Bank(t, 0x01), registers.W(t, 0xC0, off)}
	}
	return nil
}

// MuteTS stops TS output ahead of a same-system retune
func (d *Demod) MuteTS() error {
	return d.run("mute TS", registers.Sequence{
		registers.Bank(d.s.T, 0x00),
		registers.W(d.s.T, 0xC3, 0x01),
	})
}

// MuteTLV stops TLV output ahead of a same-system retune
func (d *Demod) MuteTLV() error {
	return d.run("mute TLV", registers.Sequence{
		registers.Bank(d.s.T, 0x01),
		registers.W(d.s.T, 0xC0, 0x01),
	})
}

func (d *Demod) run(what string, seq registers.Sequence) error {
	if err := seq.Run(d.c); err != nil {
		return fmt.Errorf("failed to %s: %w", what, err)
	}
	return nil
}
