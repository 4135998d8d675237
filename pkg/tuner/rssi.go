package tuner

import (
	"fmt"
	"time"

	"github.com/herlein/isdbfe/pkg/fixedpoint"
)

// IF BPF gain code to dB
var ifBPFGain = [16]int32{-6, -4, -2, 0, 2, 4, 6, 8, 10, 12, 14, 16, 18, 20, 20, 20}

// IF gain in 0.01 dB against IF AGC * 140, before the BPF gain offset
var ifGainModel = fixedpoint.Model{
	Segments: []fixedpoint.Segment{
		{Low: 0, High: 7650, SlopeNum: 780, SlopeDen: 2550, Intercept: 3860},
		{Low: 7650, High: 10200, SlopeNum: 700, SlopeDen: 2550, Intercept: 1520},
	},
	Floor: 820,
}

// RF gain in 0.01 dB against max(IF AGC, RF AGC) * 140, relative to the
// per-frequency maximum
var rfGainModel = fixedpoint.Model{
	Segments: []fixedpoint.Segment{
		{Low: 0, High: 3825},
		{Low: 3825, High: 6375, SlopeNum: 160, SlopeDen: 25500, Intercept: 0},
		{Low: 6375, High: 7650, SlopeNum: 1340, SlopeDen: 25500, Intercept: -16},
		{Low: 7650, High: 8925, SlopeNum: 3440, SlopeDen: 25500, Intercept: -83},
		{Low: 8925, High: 10200, SlopeNum: 5421, SlopeDen: 25500, Intercept: -258},
		{Low: 10200, High: 11475, SlopeNum: 7451, SlopeDen: 25500, Intercept: -529},
		{Low: 11475, High: 15300, SlopeNum: 8253, SlopeDen: 25500, Intercept: -902},
		{Low: 15300, High: 19125, SlopeNum: 6979, SlopeDen: 25500, Intercept: -2139},
		{Low: 19125, High: 24225, SlopeNum: 7468, SlopeDen: 25500, Intercept: -3186},
		{Low: 24225, High: 26775, SlopeNum: 5674, SlopeDen: 25500, Intercept: -4680},
		{Low: 26775, High: 29325, SlopeNum: 14592, SlopeDen: 25500, Intercept: -5247},
		{Low: 29325, High: 31875, SlopeNum: 16676, SlopeDen: 25500, Intercept: -6717},
	},
	Floor: -8384,
}

// Maximum RF gain in 0.01 dB by frequency band
var rfGainMax = []struct {
	belowKHz uint32
	gain     int32
}{
	{55000, 4690},
	{65000, 4800},
	{86000, 4920},
	{125000, 4960},
	{142000, 4890},
	{165000, 4770},
	{172000, 4610},
	{200000, 4580},
	{225000, 4680},
	{250000, 4770},
	{320000, 4840},
	{350000, 4740},
	{400000, 4750},
	{464000, 4750},
	{532000, 4450},
	{600000, 4530},
	{664000, 4580},
	{766000, 4630},
	{868000, 4630},
	{900000, 4600},
	{950000, 4480},
}

// RFGainMax returns the maximum RF gain in 0.01 dB at kHz
func RFGainMax(kHz uint32) int32 {
	for _, b := range rfGainMax {
		if kHz < b.belowKHz {
			return b.gain
		}
	}
	return 4300
}

// AGCReading is the raw state sampled from the tuner for an RSSI estimate
type AGCReading struct {
	IFAGC     uint8
	RFAGC     uint8
	IFBPFCode uint8 // register 0x69, low nibble
	Offset    uint8 // register 0x19, low nibble
}

// RSSI returns the terrestrial input level in 0.01 dB
func (r AGCReading) RSSI(kHz uint32) int32 {
	ifAGC := int32(r.IFAGC) * 140
	ifGain := ifGainModel.Offset(ifBPFGain[r.IFBPFCode&0x0F] * 100).Eval(ifAGC)

	maxAGC := ifAGC
	if r.RFAGC > r.IFAGC {
		maxAGC = int32(r.RFAGC) * 140
	}
	rfGain := rfGainModel.Offset(RFGainMax(kHz)).Eval(maxAGC)

	return -ifGain - rfGain - fixedpoint.TwosComplement(uint32(r.Offset&0x0F), 4)*100
}

// ReadISDBTRSSI samples the tuner AGC and returns the terrestrial input
// level in 0.01 dB
func (t *Tuner) ReadISDBTRSSI(kHz uint32) (int32, error) {
	r, err := t.readAGC()
	if err != nil {
		return 0, fmt.Errorf("failed to read ISDB-T RSSI: %w", err)
	}
	return r.RSSI(kHz), nil
}

func (t *Tuner) readAGC() (AGCReading, error) {
	var r AGCReading
	c, a := t.c, t.cfg.Addr

	if err := c.Write(a, 0x87, 0xC4, 0x41); err != nil {
		return r, err
	}
	if err := c.Write(a, 0x17, 0x7E, 0x06); err != nil {
		return r, err
	}
	c.Delay(4 * time.Millisecond)

	status, err := c.ReadReg(a, 0x1A)
	if err != nil {
		return r, err
	}
	if status != 0x00 {
		return r, fmt.Errorf("tuner CPU busy (0x%02X)", status)
	}
	if r.Offset, err = c.ReadReg(a, 0x19); err != nil {
		return r, err
	}
	if err := c.Write(a, 0x59, 0x05, 0x01); err != nil {
		return r, err
	}
	if r.IFAGC, err = c.ReadReg(a, 0x5B); err != nil {
		return r, err
	}
	if err := c.Write(a, 0x59, 0x03, 0x01); err != nil {
		return r, err
	}
	if r.RFAGC, err = c.ReadReg(a, 0x5B); err != nil {
		return r, err
	}
	for _, op := range [][2]uint8{{0x59, 0x04}, {0x88, 0x00}, {0x87, 0xC0}} {
		if err := c.WriteReg(a, op[0], op[1]); err != nil {
			return r, err
		}
	}
	if r.IFBPFCode, err = c.ReadReg(a, 0x69); err != nil {
		return r, err
	}
	r.Offset &= 0x0F
	r.IFBPFCode &= 0x0F
	return r, nil
}
