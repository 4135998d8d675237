package demod

import (
	"errors"
	"testing"
	"time"

	"github.com/herlein/isdbfe/pkg/profiles"
	"github.com/herlein/isdbfe/pkg/registers"
)

var slaves = registers.NewSlaves(0x6C, 0x60)

func newDemod(t *testing.T) (*Demod, *registers.Memory) {
	t.Helper()
	m := registers.NewMemory()
	c := &registers.Client{Bus: m, Sleep: func(time.Duration) {}}
	return New(c, slaves), m
}

func bandParams(t *testing.T, bw profiles.Bandwidth) profiles.BandParameters {
	t.Helper()
	bp, err := profiles.Lookup(bw)
	if err != nil {
		t.Fatal(err)
	}
	return bp
}

func expectBytes(t *testing.T, m *registers.Memory, addr, bank, reg uint8, want ...byte) {
	t.Helper()
	for i, b := range want {
		if got := m.Get(addr, bank, reg+uint8(i)); got != b {
			t.Errorf("0x%02X [%02X] 0x%02X = 0x%02X, want 0x%02X", addr, bank, reg+uint8(i), got, b)
		}
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name string
		hi   uint8
		lo   uint8
		want error
	}{
		{"cxd2857", 0xFC, 0x91, nil},
		{"other chip", 0x02, 0x25, ErrChipNotDetected},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d, m := newDemod(t)
			m.Set(slaves.X, 0, 0xFB, tc.hi)
			m.Set(slaves.X, 0, 0xFD, tc.lo)
			err := d.Detect()
			if !errors.Is(err, tc.want) {
				t.Fatalf("Detect() = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestColdBoot(t *testing.T) {
	d, m := newDemod(t)
	if err := d.ColdBoot(Crystal24MHz); err != nil {
		t.Fatalf("ColdBoot: %v", err)
	}
	expectBytes(t, m, slaves.X, 0, 0x14, 0x01)
	expectBytes(t, m, slaves.X, 0, 0x17, 0x01)
	expectBytes(t, m, slaves.X, 0, 0x10, 0x00)
	expectBytes(t, m, slaves.X, 0, 0x1A, 0x01)
	if m.Count(func(tr registers.Transfer) bool { return tr.Addr == slaves.T }) != 0 {
		t.Error("cold boot touched the T slave")
	}
}

func TestActivateISDBT(t *testing.T) {
	d, m := newDemod(t)
	bp := bandParams(t, profiles.Bandwidth6MHz)
	if err := d.ActivateISDBT(bp); err != nil {
		t.Fatalf("ActivateISDBT: %v", err)
	}

	expectBytes(t, m, slaves.X, 0, 0x17, modeISDBT)
	expectBytes(t, m, slaves.X, 0, 0x18, 0x00)
	ifw := bp.IFFreqBytes()
	expectBytes(t, m, slaves.T, 0x10, 0xB6, ifw[:]...)
	expectBytes(t, m, slaves.T, 0x10, 0xD7, bp.ChannelWidth)
	expectBytes(t, m, slaves.T, 0x12, 0x71, bp.Reg1271)
	expectBytes(t, m, slaves.T, 0x15, 0xBE, bp.Reg15BE)
	expectBytes(t, m, slaves.T, 0x00, 0x80, 0x08)
	expectBytes(t, m, slaves.T, 0x00, 0x81, 0x00)
	// TS clock for parallel output
	expectBytes(t, m, slaves.T, 0x00, 0xD9, 0x08)
}

func TestSetBandOnlyTouchesBandRegisters(t *testing.T) {
	d, m := newDemod(t)
	bp := bandParams(t, profiles.Bandwidth8MHz)
	if err := d.SetBand(bp); err != nil {
		t.Fatalf("SetBand: %v", err)
	}
	if m.Count(func(tr registers.Transfer) bool { return tr.Addr == slaves.X }) != 0 {
		t.Error("band update touched the X slave")
	}
	expectBytes(t, m, slaves.T, 0x10, 0xD9, bp.RegD9[:]...)
	expectBytes(t, m, slaves.T, 0x15, 0xBE, 0x03)
}

func TestActivateSatellite(t *testing.T) {
	tests := []struct {
		name     string
		activate func(*Demod) error
		mode     uint8
		sel      uint8
	}{
		{"ISDB-S", (*Demod).ActivateISDBS, modeISDBS, 0x00},
		{"ISDB-S3", (*Demod).ActivateISDBS3, modeISDBS3, 0x01},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d, m := newDemod(t)
			if err := tc.activate(d); err != nil {
				t.Fatalf("activate: %v", err)
			}
			expectBytes(t, m, slaves.X, 0, 0x17, tc.mode)
			expectBytes(t, m, slaves.X, 0, 0x28, 0x31)
			expectBytes(t, m, slaves.T, 0x00, 0xA9, tc.sel)
			expectBytes(t, m, slaves.T, 0x00, 0x80, 0x10)
			expectBytes(t, m, slaves.T, 0xA0, 0xD7, 0x00)
		})
	}
}

func TestActivateISDBS3Tables(t *testing.T) {
	d, m := newDemod(t)
	if err := d.ActivateISDBS3(); err != nil {
		t.Fatal(err)
	}
	expectBytes(t, m, slaves.T, 0xD5, 0x61, 0x48, 0xFE, 0x4E, 0x6E, 0xFE)
	expectBytes(t, m, slaves.T, 0xD6, 0x21, 0x4E, 0x80, 0x80, 0x10)
	expectBytes(t, m, slaves.T, 0xAE, 0x20, 0x08, 0x70, 0x64)
	expectBytes(t, m, slaves.T, 0xDA, 0xC1, 0x01)
}

func TestSleep(t *testing.T) {
	tests := []struct {
		sys  System
		a0d7 uint8
	}{
		{SystemISDBT, 0x00},
		{SystemISDBS, 0xA0},
		{SystemISDBS3, 0xA0},
	}
	for _, tc := range tests {
		t.Run(tc.sys.String(), func(t *testing.T) {
			d, m := newDemod(t)
			if err := d.Sleep(tc.sys); err != nil {
				t.Fatalf("Sleep: %v", err)
			}
			expectBytes(t, m, slaves.X, 0, 0x17, modeSleep)
			expectBytes(t, m, slaves.X, 0, 0x18, 0x01)
			expectBytes(t, m, slaves.T, 0x00, 0x80, 0x1F)
			expectBytes(t, m, slaves.T, 0x00, 0x81, 0xFF)
			expectBytes(t, m, slaves.T, 0x00, 0xC3, 0x01)
			expectBytes(t, m, slaves.T, 0xA0, 0xD7, tc.a0d7)
		})
	}
}

func TestSleepStopsAtFirstFailure(t *testing.T) {
	d, m := newDemod(t)
	m.Fault = func(tr registers.Transfer) error {
		if tr.Write && tr.Addr == slaves.T && tr.Bank == 0x15 && tr.Reg == 0xDE {
			return errors.New("nak")
		}
		return nil
	}
	err := d.Sleep(SystemISDBT)
	if !errors.Is(err, registers.ErrBus) {
		t.Fatalf("Sleep err = %v, want ErrBus", err)
	}
	if got := m.Get(slaves.X, 0, 0x17); got != 0 {
		t.Errorf("mode written after failure: 0x%02X", got)
	}
}

func TestSetTSID(t *testing.T) {
	tests := []struct {
		id   uint16
		want []byte
	}{
		{0x0005, []byte{0x00, 0x05, 0x01}},
		{0x40F0, []byte{0x40, 0xF0, 0x00}},
	}
	for _, tc := range tests {
		d, m := newDemod(t)
		if err := d.SetTSID(tc.id); err != nil {
			t.Fatal(err)
		}
		expectBytes(t, m, slaves.T, 0xC0, 0xE9, tc.want...)
	}
}

func TestSetStreamID(t *testing.T) {
	d, m := newDemod(t)
	if err := d.SetStreamID(0xB110); err != nil {
		t.Fatal(err)
	}
	expectBytes(t, m, slaves.T, 0xD0, 0x87, 0xB1, 0x10)
}

func TestISDBTLockLocked(t *testing.T) {
	tests := []struct {
		v    ISDBTLock
		want bool
	}{
		{0x03, true},
		{0x07, true},
		{0x13, false},
		{0x01, false},
		{0x02, false},
	}
	for _, tc := range tests {
		if got := tc.v.Locked(); got != tc.want {
			t.Errorf("ISDBTLock(0x%02X).Locked() = %v, want %v", uint8(tc.v), got, tc.want)
		}
	}
}

func TestReadSatelliteLock(t *testing.T) {
	tests := []struct {
		name string
		rate uint32
		reg  uint8
	}{
		{"ISDB-S3 two byte status", SymbolRateISDBS3, 0x11},
		{"ISDB-S three byte status", SymbolRateISDBS, 0x12},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d, m := newDemod(t)
			locked, err := d.ReadSatelliteLock(tc.rate)
			if err != nil || locked {
				t.Fatalf("unset status: locked=%v err=%v", locked, err)
			}
			m.Set(slaves.T, 0xA0, tc.reg, 0x40)
			if locked, err = d.ReadSatelliteLock(tc.rate); err != nil || !locked {
				t.Fatalf("locked=%v err=%v, want lock", locked, err)
			}
		})
	}
}

func TestReadCNRCode(t *testing.T) {
	d, m := newDemod(t)
	m.Set(slaves.T, 0xD0, 0xF3, 0x01, 0xFF, 0x23, 0x45)
	code, ok, err := d.ReadCNRCode(SystemISDBS3)
	if err != nil || !ok || code != 0x12345 {
		t.Errorf("ISDB-S3 code = 0x%X ok=%v err=%v", code, ok, err)
	}

	m.Set(slaves.T, 0xA1, 0x10, 0x00, 0xFF, 0xFF)
	code, ok, err = d.ReadCNRCode(SystemISDBS)
	if err != nil || ok || code != 0x1FFF {
		t.Errorf("ISDB-S code = 0x%X ok=%v err=%v", code, ok, err)
	}
}

func TestReadPacketErrors(t *testing.T) {
	d, m := newDemod(t)
	m.Set(slaves.T, 0x40, 0x1F, 0x01, 0x02)
	m.Set(slaves.T, 0x40, 0x5B, 0x03, 0xE8)
	pe, err := d.ReadPacketErrors()
	if err != nil {
		t.Fatal(err)
	}
	if pe.Errors != 0x0102 || pe.Period != 1000 {
		t.Errorf("got %+v", pe)
	}
}

func TestReadSatelliteIFAGC(t *testing.T) {
	d, m := newDemod(t)
	m.Set(slaves.T, 0xA0, 0x1F, 0xE4, 0x21)
	v, err := d.ReadSatelliteIFAGC()
	if err != nil || v != 0x0421 {
		t.Errorf("IF AGC = 0x%X err=%v, want 0x421", v, err)
	}
}

func TestTwoBitPinMask(t *testing.T) {
	if got := TwoBitPinMask(0x73); got != 0x88 {
		t.Errorf("TwoBitPinMask(0x73) = 0x%02X, want 0x88", got)
	}
	if got := serialPinMask(0x88); got != 0x80 {
		t.Errorf("serialPinMask(0x88) = 0x%02X, want 0x80", got)
	}
}

func TestClockTables(t *testing.T) {
	const T = 0x6C
	tests := []struct {
		name   string
		seq    registers.Sequence
		bank   uint8 // clock select register bank
		reg    uint8
		sel    uint8
		period uint8 // bank 0x00, 0xD9 for TS, 0x33 bits 1:0 for TLV
	}{
		{"TS serial", tsClockSequence(T, SystemISDBT, true), 0x00, 0x33, 1, 8},
		{"TS parallel", tsClockSequence(T, SystemISDBT, false), 0x00, 0x33, 1, 8},
		{"TLV serial", tlvClockSequence(T, SystemISDBS3, true, false), 0x56, 0x83, 4, 1},
		{"TLV 2-bit parallel", tlvClockSequence(T, SystemISDBS3, false, true), 0x56, 0x83, 4, 1},
		{"TLV parallel", tlvClockSequence(T, SystemISDBS3, false, false), 0x56, 0x83, 4, 2},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := registers.NewMemory()
			if err := tc.seq.Run(&registers.Client{Bus: m, Sleep: func(time.Duration) {}}); err != nil {
				t.Fatal(err)
			}
			if got := m.Get(T, tc.bank, tc.reg) & 0x07; got != tc.sel {
				t.Errorf("clock select = %d, want %d", got, tc.sel)
			}
			period := m.Get(T, 0x00, 0xD9)
			if tc.bank == 0x56 {
				period = m.Get(T, 0x00, 0x33) & 0x03
			}
			if period != tc.period {
				t.Errorf("clock period = %d, want %d", period, tc.period)
			}
		})
	}

	if c := serialTSClocks[serialClockMode][serialClockRate]; c != (ClockConfig{1, 1, 8, 1}) {
		t.Errorf("serial TS clock = %+v", c)
	}
	if c := serialTLVClocks[serialClockMode][serialClockRate]; c != (ClockConfig{1, 1, 1, 4}) {
		t.Errorf("serial TLV clock = %+v", c)
	}
}
