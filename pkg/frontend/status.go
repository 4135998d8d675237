package frontend

import (
	"context"
	"fmt"
	"strings"

	"github.com/herlein/isdbfe/pkg/demod"
	"github.com/herlein/isdbfe/pkg/fixedpoint"
)

// LockFlags is the DVB style frontend status bit set
type LockFlags uint8

const (
	HasSignal LockFlags = 1 << iota
	HasCarrier
	HasViterbi
	HasSync
	HasLock

	FullLock = HasSignal | HasCarrier | HasViterbi | HasSync | HasLock
)

func (l LockFlags) String() string {
	if l == 0 {
		return "none"
	}
	var out []string
	for i, name := range []string{"SIGNAL", "CARRIER", "VITERBI", "SYNC", "LOCK"} {
		if l&(1<<i) != 0 {
			out = append(out, name)
		}
	}
	return strings.Join(out, "|")
}

// Locked reports full lock
func (l LockFlags) Locked() bool {
	return l&FullLock == FullLock
}

// Stat is an optional measurement
type Stat struct {
	Value     int64
	Available bool
}

func available(v int64) Stat {
	return Stat{Value: v, Available: true}
}

func (s Stat) String() string {
	if !s.Available {
		return "n/a"
	}
	return fmt.Sprint(s.Value)
}

// SignalMetrics is one status reading. RFLevel and CNR are in 0.001 dB,
// CNRRelative is 0..0xFFFF and PER is in parts per million.
type SignalMetrics struct {
	RFLevel     Stat
	CNR         Stat
	CNRRelative Stat
	PER         Stat
}

// RFLevelDeciDB returns the RF level in 0.1 dB
func (m SignalMetrics) RFLevelDeciDB() Stat {
	return rescale(m.RFLevel, 100)
}

// CNRCentiDB returns the CNR in 0.01 dB
func (m SignalMetrics) CNRCentiDB() Stat {
	return rescale(m.CNR, 10)
}

// rescale divides a 0.001 dB stat by div, rounding half away from zero
func rescale(s Stat, div int32) Stat {
	if !s.Available {
		return Stat{}
	}
	return available(int64(fixedpoint.DivRound(int32(s.Value), div)))
}

// DeciBel converts a 0.001 dB value to dB
func DeciBel(milli int64) float64 {
	return float64(milli) / 1000
}

// ReadStatus reads the lock state and signal metrics of the running
// system. CNR and PER are only measured with full lock.
func (f *Frontend) ReadStatus(ctx context.Context) (LockFlags, SignalMetrics, error) {
	if err := f.begin(ctx); err != nil {
		return 0, SignalMetrics{}, err
	}
	defer f.b.bus.Unlock()

	if f.state != StateActive {
		return 0, SignalMetrics{}, fmt.Errorf("%w: no active system", ErrNotInitialized)
	}

	flags, err := f.readLock()
	if err != nil {
		return 0, SignalMetrics{}, hardware("read status", err)
	}

	var m SignalMetrics
	if m.RFLevel, err = f.readRFLevel(); err != nil {
		return flags, m, hardware("read status", err)
	}
	if flags.Locked() {
		if err := f.readQuality(&m); err != nil {
			return flags, m, hardware("read status", err)
		}
	}

	f.lastFlags, f.last = flags, m
	return flags, m, nil
}

func (f *Frontend) readLock() (LockFlags, error) {
	d := f.b.demod
	var locked bool
	switch f.system {
	case SystemISDBT:
		l, err := d.ReadISDBTLock()
		if err != nil {
			return 0, err
		}
		locked = l.Locked()
	case SystemISDBS, SystemISDBS3:
		var err error
		if locked, err = d.ReadSatelliteLock(f.symbolRate); err != nil {
			return 0, err
		}
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedSystem, f.system)
	}
	if locked {
		return FullLock, nil
	}
	return HasSignal | HasCarrier, nil
}

func (f *Frontend) readRFLevel() (Stat, error) {
	b := f.b
	if f.system == SystemISDBT {
		var rssi int32
		err := b.client.WithRepeater(b.demod.Slaves().X, func() error {
			var err error
			rssi, err = b.tuner.ReadISDBTRSSI(f.frequency)
			return err
		})
		if err != nil {
			return Stat{}, err
		}
		return available(int64(rssi)*10 - 4500), nil
	}
	ifagc, err := b.demod.ReadSatelliteIFAGC()
	if err != nil {
		return Stat{}, err
	}
	return available(SatelliteRFLevel(ifagc)), nil
}

func (f *Frontend) readQuality(m *SignalMetrics) error {
	d := f.b.demod
	if f.system == SystemISDBT {
		raw, err := d.ReadISDBTSNR()
		if err != nil {
			return err
		}
		m.CNR, m.CNRRelative = ISDBTCNR(raw)

		pe, err := d.ReadPacketErrors()
		if err != nil {
			return err
		}
		m.PER = PER(pe.Errors, pe.Period)
		return nil
	}

	sys, table := demod.SystemISDBS, fixedpoint.ISDBSCNTable
	if f.symbolRate >= demod.SymbolRateISDBS3 {
		sys, table = demod.SystemISDBS3, fixedpoint.ISDBS3CNTable
	}
	code, ok, err := d.ReadCNRCode(sys)
	if err != nil {
		return err
	}
	if ok {
		m.CNR = available(int64(table.Lookup(code)))
	}
	return nil
}

// SatelliteRFLevel converts the satellite IF AGC level to 0.001 dB
func SatelliteRFLevel(ifagc uint32) int64 {
	agc := fixedpoint.DivRound(int32(ifagc)*-1400, 403)
	return int64(agc+9700) * -10
}

// ISDBTCNR converts the raw ISDB-T MER monitor value to CNR in 0.001 dB
// and the 16-bit relative quality
func ISDBTCNR(raw uint32) (cnr Stat, relative Stat) {
	snr := 100*int64(fixedpoint.Log10(raw)) - 9031
	rel := (snr - 1500) / 1000 * 24 / 10
	if rel < 0 {
		rel = 0
	}
	if rel > 100 {
		rel = 100
	}
	rel *= 656
	if rel > 0xFFFF {
		rel = 0xFFFF
	}
	return available(snr - 1500), available(rel)
}

// PER returns errors/period in parts per million with two long division
// stages, rounding up when the final remainder reaches period/2 in
// integer division. A period of 1 is exact and never rounded. A zero
// period gives no measurement.
func PER(errors uint32, period uint32) Stat {
	if period == 0 {
		return Stat{}
	}
	q := errors * 1000 / period
	r := errors * 1000 % period
	r *= 1000
	q = q*1000 + r/period
	r %= period
	if period != 1 && r >= period/2 {
		q++
	}
	return available(int64(q))
}

// SignalStrength returns the relative signal strength of the last status
// read. RF level is only reported in dB, so this is always 0.
func (f *Frontend) SignalStrength() uint16 {
	return 0
}

// SNR returns the 16-bit relative CNR of the last status read, 0 when it
// was not measured
func (f *Frontend) SNR() uint16 {
	if !f.last.CNRRelative.Available {
		return 0
	}
	return uint16(f.last.CNRRelative.Value)
}

// UCBlocks is not counted by the demodulator
func (f *Frontend) UCBlocks() uint32 {
	return 0
}

// BER returns the packet error rate of the last locked status read
func (f *Frontend) BER() uint32 {
	if !f.last.PER.Available {
		return 0
	}
	return uint32(f.last.PER.Value)
}

// LastStatus returns the result of the last successful status read
func (f *Frontend) LastStatus() (LockFlags, SignalMetrics) {
	return f.lastFlags, f.last
}
