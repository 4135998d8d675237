package demod

import (
	"fmt"

	"github.com/herlein/isdbfe/pkg/profiles"
	"github.com/herlein/isdbfe/pkg/registers"
)

// Symbol rates used to pick the satellite status layout
const (
	SymbolRateISDBS  = 28860000
	SymbolRateISDBS3 = 33750000
)

// Main mode values written to X register 0x17
const (
	modeSleep  = 0x01
	modeISDBT  = 0x06
	modeISDBS  = 0x0C
	modeISDBS3 = 0x0D
)

// ActivateISDBT takes a sleeping demodulator to ISDB-T reception with the
// band parameters in bp
func (d *Demod) ActivateISDBT(bp profiles.BandParameters) error {
	if err := d.ConfigureTSClock(SystemISDBT); err != nil {
		return err
	}
	if err := d.run("activate ISDB-T", isdbtActivateSequence(d.s, bp)); err != nil {
		return err
	}
	return d.SetDataPinHiZ(false)
}

// ActivateISDBS takes a sleeping demodulator to ISDB-S reception
func (d *Demod) ActivateISDBS() error {
	if err := d.ConfigureTSClock(SystemISDBS); err != nil {
		return err
	}
	if err := d.run("activate ISDB-S", isdbsActivateSequence(d.s)); err != nil {
		return err
	}
	return d.SetDataPinHiZ(false)
}

// ActivateISDBS3 takes a sleeping demodulator to ISDB-S3 reception with
// TLV output
func (d *Demod) ActivateISDBS3() error {
	if err := d.ConfigureTLVClock(SystemISDBS3); err != nil {
		return err
	}
	if err := d.run("activate ISDB-S3", isdbs3ActivateSequence(d.s)); err != nil {
		return err
	}
	return d.SetDataPinHiZ(false)
}

// SetBand reprograms the ISDB-T band parameters on an active demodulator
func (d *Demod) SetBand(bp profiles.BandParameters) error {
	return d.run("set ISDB-T band "+bp.Bandwidth.String(), BandSequence(d.s.T, bp))
}

// SetTSID selects the ISDB-S transport stream. Ids below 8 are relative
// TS numbers.
func (d *Demod) SetTSID(id uint16) error {
	return d.run(fmt.Sprintf("set TSID 0x%04X", id), tsidSequence(d.s.T, id))
}

// SetStreamID selects the ISDB-S3 stream
func (d *Demod) SetStreamID(id uint16) error {
	return d.run(fmt.Sprintf("set stream id 0x%04X", id), registers.Sequence{
		registers.Bank(d.s.T, 0xD0),
		registers.W(d.s.T, 0x87, byte(id>>8), byte(id)),
	})
}

// Sleep stops the output of an active demodulator and powers down the
// core for sys
func (d *Demod) Sleep(sys System) error {
	if err := d.SetStreamOutput(false); err != nil {
		return err
	}
	if err := d.run("sleep", registers.Sequence{
		registers.Bank(d.s.T, 0x00),
		registers.Bits(d.s.T, 0x80, 0x1F, 0x1F),
	}); err != nil {
		return err
	}
	if err := d.SetDataPinHiZ(true); err != nil {
		return err
	}
	return d.run("sleep "+sys.String(), sleepSequence(d.s, sys))
}

func tsidSequence(t uint8, id uint16) registers.Sequence {
	var relative byte
	if id < 8 {
		relative = 0x01
	}
	return registers.Sequence{
		registers.Bank(t, 0xC0),
		registers.W(t, 0xE9, byte(id>>8), byte(id), relative),
	}
}

// BandSequence programs timing recovery, interpolation filter and IF
// frequency for one ISDB-T bandwidth
func BandSequence(t uint8, bp profiles.BandParameters) registers.Sequence {
	ifw := bp.IFFreqBytes()
	return registers.Sequence{
		registers.Bank(t, 0x10),
		registers.W(t, 0x9F, bp.NominalRate[:]...),
		registers.W(t, 0xA6, bp.ITBCoef[:]...),
		registers.W(t, 0xB6, ifw[:]...),
		registers.W(t, 0xD7, bp.ChannelWidth),
		registers.W(t, 0xD9, bp.RegD9[:]...),
		registers.Bank(t, 0x12),
		registers.W(t, 0x71, bp.Reg1271),
		registers.Bank(t, 0x15),
		registers.W(t, 0xBE, bp.Reg15BE),
	}
}

func isdbtActivateSequence(s registers.Slaves, bp profiles.BandParameters) registers.Sequence {
	t, x := s.T, s.X
	seq := registers.Sequence{
		registers.Bank(x, 0x00),
		registers.W(x, 0x17, modeISDBT),
		registers.Bank(t, 0x00),
		registers.W(t, 0xA9, 0x00),
		registers.W(t, 0x2C, 0x01),
		registers.W(t, 0x4B, 0x74),
		registers.W(t, 0x49, 0x00),
		registers.W(x, 0x18, 0x00),

		registers.Bank(t, 0x11),
		registers.W(t, 0x6A, 0x50),
		registers.Bank(t, 0x10),
		registers.W(t, 0xA5, 0x01),
		registers.Bank(t, 0x00),
		registers.W(t, 0xCE, 0x00, 0x00),
		registers.Bank(t, 0x10),
		registers.W(t, 0x69, 0x04),
		registers.W(t, 0x6B, 0x03),
		registers.W(t, 0x9D, 0x50),
		registers.W(t, 0xD3, 0x06),
		registers.W(t, 0xED, 0x00),
		registers.W(t, 0xE2, 0xCE),
		registers.W(t, 0xF2, 0x13),
		registers.W(t, 0xDE, 0x2E),
		registers.Bank(t, 0x15),
		registers.W(t, 0xDE, 0x02),
		registers.Bank(t, 0x17),
		registers.W(t, 0x38, 0x00, 0x03),
		registers.Bank(t, 0x1E),
		registers.W(t, 0x73, 0x68),
		registers.Bank(t, 0x63),
		registers.W(t, 0x81, 0x00),
		registers.Bank(t, 0x11),
		registers.W(t, 0x33, 0x00, 0x03, 0x3B),
		registers.Bank(t, 0x60),
		registers.W(t, 0xA8, 0xB7, 0x1B),
	}
	return registers.Concat(seq, BandSequence(t, bp), registers.Sequence{
		registers.Bank(t, 0x00),
		registers.Bits(t, 0x80, 0x08, 0x1F),
	})
}

// satelliteCommon is shared by both satellite procedures after the mode
// and output select writes
func satelliteCommon(s registers.Slaves) registers.Sequence {
	t, x := s.T, s.X
	return registers.Sequence{
		registers.W(t, 0x2C, 0x01),
		registers.W(x, 0x28, 0x31),
		registers.W(t, 0x4B, 0x31),
		registers.W(t, 0x6A, 0x00),
		registers.W(x, 0x18, 0x00),
		registers.Bank(t, 0x00),
		registers.W(t, 0x20, 0x01),
	}
}

func isdbsActivateSequence(s registers.Slaves) registers.Sequence {
	t, x := s.T, s.X
	head := registers.Sequence{
		registers.Bank(x, 0x00),
		registers.W(x, 0x17, modeISDBS),
		registers.Bank(t, 0x00),
		registers.W(t, 0x2D, 0x00),
		registers.W(t, 0xA9, 0x00),
	}
	tail := registers.Sequence{
		registers.W(t, 0xCE, 0x00, 0x00),
		registers.Bank(t, 0xAE),
		registers.W(t, 0x20, 0x07, 0x37, 0x0A),
		registers.Bank(t, 0xA0),
		registers.W(t, 0xD7, 0x00),
		registers.Bank(t, 0x00),
		registers.Bits(t, 0x80, 0x10, 0x1F),
	}
	return registers.Concat(head, satelliteCommon(s), tail)
}

func isdbs3ActivateSequence(s registers.Slaves) registers.Sequence {
	t, x := s.T, s.X
	head := registers.Sequence{
		registers.Bank(x, 0x00),
		registers.W(x, 0x17, modeISDBS3),
		registers.Bank(t, 0x00),
		registers.W(t, 0x2D, 0x00),
		registers.W(t, 0xA9, 0x01), // TLV
	}
	tail := registers.Sequence{
		registers.Bank(t, 0xA3),
		registers.W(t, 0x43, 0x0B, 0x0B),
		registers.Bank(t, 0xAE),
		registers.W(t, 0x46, 0x04, 0x91),
		registers.Bank(t, 0xB6),
		registers.W(t, 0x74, 0x59),
		registers.Bank(t, 0xD5),
		registers.W(t, 0x61, 0x48, 0xFE, 0x4E, 0x6E, 0xFE),
		registers.W(t, 0x67, 0x4E, 0x6E),
		registers.W(t, 0x90, 0x10, 0x03, 0x10),
		registers.Bank(t, 0xD6),
		registers.W(t, 0x18, 0x33, 0xEB),
		registers.W(t, 0x1C, 0x59),
		registers.W(t, 0x1E, 0x6E),
		registers.W(t, 0x21, 0x4E, 0x80, 0x80, 0x10),
		registers.W(t, 0x51, 0xB3, 0xB3, 0xC3),
		registers.Bank(t, 0xDA),
		registers.W(t, 0xBC, 0x02),
		registers.W(t, 0xD6, 0x60, 0x70),
		registers.Bank(t, 0xAE),
		registers.W(t, 0x20, 0x08, 0x70, 0x64),
		registers.Bank(t, 0xDA),
		registers.W(t, 0xCB, 0x01),
		registers.W(t, 0xC1, 0x01),
		registers.Bank(t, 0xA0),
		registers.W(t, 0xD7, 0x00),
		registers.Bank(t, 0x00),
		registers.Bits(t, 0x80, 0x10, 0x1F),
	}
	return registers.Concat(head, satelliteCommon(s), tail)
}

func sleepSequence(s registers.Slaves, sys System) registers.Sequence {
	t, x := s.T, s.X
	switch sys {
	case SystemISDBT:
		return registers.Sequence{
			registers.Bank(t, 0x10),
			registers.W(t, 0x69, 0x05),
			registers.W(t, 0x6B, 0x07),
			registers.W(t, 0x9D, 0x14),
			registers.W(t, 0xD3, 0x00),
			registers.W(t, 0xED, 0x01),
			registers.W(t, 0xE2, 0x4E),
			registers.W(t, 0xF2, 0x03),
			registers.W(t, 0xDE, 0x32),
			registers.Bank(t, 0x15),
			registers.W(t, 0xDE, 0x03),
			registers.Bank(t, 0x17),
			registers.W(t, 0x38, 0x01, 0x02),
			registers.Bank(t, 0x1E),
			registers.W(t, 0x73, 0x00),
			registers.Bank(t, 0x63),
			registers.W(t, 0x81, 0x01),
			registers.Bank(x, 0x00),
			registers.W(x, 0x18, 0x01), // TADC
			registers.Bank(t, 0x00),
			registers.W(t, 0x49, 0x33),
			registers.W(t, 0x4B, 0x21),
			registers.W(t, 0xFE, 0x01), // soft reset
			registers.W(t, 0x2C, 0x00), // demod clock off
			registers.W(t, 0xA9, 0x00),
			registers.W(x, 0x17, modeSleep),
		}
	case SystemISDBS, SystemISDBS3:
		var seq registers.Sequence
		if sys == SystemISDBS3 {
			seq = registers.Sequence{
				registers.Bank(t, 0xA3),
				registers.W(t, 0x43, 0x0A, 0x0A),
			}
		}
		return append(seq,
			registers.Bank(x, 0x00),
			registers.W(x, 0x18, 0x01),
			registers.Bank(t, 0x00),
			registers.W(t, 0x6A, 0x11),
			registers.W(t, 0x4B, 0x21),
			registers.W(x, 0x28, 0x13),
			registers.W(t, 0xFE, 0x01),
			registers.W(t, 0x2C, 0x00),
			registers.W(t, 0xA9, 0x00),
			registers.W(t, 0x2D, 0x00),
			registers.W(x, 0x17, modeSleep),
			registers.Bank(t, 0xA0),
			registers.W(t, 0xD7, 0xA0),
		)
	}
	return nil
}
