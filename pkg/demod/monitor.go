package demod

import (
	"fmt"
)

// ISDBTLock is the raw ISDB-T sync state byte (bank 0x60, 0x10)
type ISDBTLock uint8

// Locked reports TS lock with sync and no unlock detection
func (l ISDBTLock) Locked() bool {
	return l&0x10 == 0 && l&0x02 != 0 && l&0x01 != 0
}

// ReadISDBTLock reads the ISDB-T sync state
func (d *Demod) ReadISDBTLock() (ISDBTLock, error) {
	data, err := d.readBanked(0x60, 0x10, 1)
	if err != nil {
		return 0, fmt.Errorf("failed to read ISDB-T lock: %w", err)
	}
	return ISDBTLock(data[0]), nil
}

// ReadSatelliteLock reports TS or TLV lock of the satellite core. The
// status layout depends on the symbol rate of the running system.
func (d *Demod) ReadSatelliteLock(symbolRate uint32) (bool, error) {
	n := 3
	if symbolRate >= SymbolRateISDBS3 {
		n = 2
	}
	data, err := d.readBanked(0xA0, 0x10, n)
	if err != nil {
		return false, fmt.Errorf("failed to read satellite lock: %w", err)
	}
	return data[n-1]&0x40 != 0, nil
}

// ReadSatelliteIFAGC returns the 13-bit satellite IF AGC level
func (d *Demod) ReadSatelliteIFAGC() (uint32, error) {
	data, err := d.readBanked(0xA0, 0x1F, 2)
	if err != nil {
		return 0, fmt.Errorf("failed to read IF AGC: %w", err)
	}
	return uint32(data[0]&0x1F)<<8 | uint32(data[1]), nil
}

// ReadISDBTSNR returns the raw ISDB-T MER monitor value
func (d *Demod) ReadISDBTSNR() (uint32, error) {
	data, err := d.readBanked(0x60, 0x28, 2)
	if err != nil {
		return 0, fmt.Errorf("failed to read SNR: %w", err)
	}
	return uint32(data[0])<<8 | uint32(data[1]), nil
}

// ReadCNRCode returns the satellite C/N monitor code for sys. ok is false
// while the monitor has no valid result.
func (d *Demod) ReadCNRCode(sys System) (code uint32, ok bool, err error) {
	switch sys {
	case SystemISDBS3:
		data, err := d.readBanked(0xD0, 0xF3, 4)
		if err != nil {
			return 0, false, fmt.Errorf("failed to read C/N: %w", err)
		}
		code = (uint32(data[1])<<16 | uint32(data[2])<<8 | uint32(data[3])) & 0x1FFFF
		return code, data[0]&0x01 != 0, nil
	case SystemISDBS:
		data, err := d.readBanked(0xA1, 0x10, 3)
		if err != nil {
			return 0, false, fmt.Errorf("failed to read C/N: %w", err)
		}
		code = (uint32(data[1])<<8 | uint32(data[2])) & 0x1FFF
		return code, data[0]&0x01 != 0, nil
	}
	return 0, false, nil
}

// PacketErrors holds the ISDB-T packet error counter and its measurement
// period
type PacketErrors struct {
	Errors uint32
	Period uint32
}

// ReadPacketErrors reads the ISDB-T packet error counters
func (d *Demod) ReadPacketErrors() (PacketErrors, error) {
	errs, err := d.readBanked(0x40, 0x1F, 6)
	if err != nil {
		return PacketErrors{}, fmt.Errorf("failed to read packet errors: %w", err)
	}
	period, err := d.c.Read(d.s.T, 0x5B, 2)
	if err != nil {
		return PacketErrors{}, fmt.Errorf("failed to read packet error period: %w", err)
	}
	return PacketErrors{
		Errors: uint32(errs[0])<<8 | uint32(errs[1]),
		Period: uint32(period[0])<<8 | uint32(period[1]),
	}, nil
}

func (d *Demod) readBanked(bank uint8, reg uint8, n int) ([]byte, error) {
	if err := d.c.SelectBank(d.s.T, bank); err != nil {
		return nil, err
	}
	return d.c.Read(d.s.T, reg, n)
}
