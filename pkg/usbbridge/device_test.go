package usbbridge

import (
	"bytes"
	"errors"
	"testing"
)

type controlCall struct {
	requestType uint8
	request     uint8
	value       uint16
	index       uint16
	data        []byte
}

// fakeBridge answers control requests like a bridge with a register
// file behind one slave address
type fakeBridge struct {
	calls  []controlCall
	slave  uint8
	regs   [256]byte
	ptr    uint8
	status uint8
}

func (f *fakeBridge) Control(requestType uint8, request uint8, value uint16, index uint16, data []byte) (int, error) {
	f.calls = append(f.calls, controlCall{requestType, request, value, index, append([]byte(nil), data...)})

	switch {
	case request == CmdGetStatus:
		data[0] = f.status
	case request == CmdGetFunc:
		copy(data, []byte{0x01, 0x00, 0x0F, 0x0E})
	case request == CmdEcho:
		data[0], data[1] = uint8(value), uint8(value>>8)
	case request&^(CmdI2CBegin|CmdI2CEnd) == CmdI2CIO:
		if uint8(index) != f.slave {
			f.status = StatusAddressNak
			return len(data), nil
		}
		f.status = StatusAddressAck
		if value&I2CRead != 0 {
			for i := range data {
				data[i] = f.regs[f.ptr]
				f.ptr++
			}
			return len(data), nil
		}
		if len(data) > 0 {
			f.ptr = data[0]
			for _, b := range data[1:] {
				f.regs[f.ptr] = b
				f.ptr++
			}
		}
	}
	return len(data), nil
}

func newTestDevice(f *fakeBridge) *Device {
	return &Device{ctrl: f}
}

func TestInitReadsFunctions(t *testing.T) {
	f := &fakeBridge{}
	d := newTestDevice(f)
	if err := d.init(DefaultClockDelay); err != nil {
		t.Fatal(err)
	}
	if d.Functions != 0x0E0F0001 {
		t.Errorf("Functions = 0x%08X", d.Functions)
	}
	last := f.calls[len(f.calls)-1]
	if last.request != CmdSetDelay || last.value != DefaultClockDelay || last.requestType != RequestTypeVendorOut {
		t.Errorf("clock setup = %+v", last)
	}
}

func TestWriteFramesRegisterAndData(t *testing.T) {
	f := &fakeBridge{slave: 0x6C}
	d := newTestDevice(f)

	if err := d.Write(0x6C, 0x10, []byte{0xAA, 0xBB}); err != nil {
		t.Fatal(err)
	}
	io := f.calls[0]
	if io.request != CmdI2CIO|CmdI2CBegin|CmdI2CEnd || io.index != 0x6C || io.requestType != RequestTypeVendorOut {
		t.Errorf("write request = %+v", io)
	}
	if !bytes.Equal(io.data, []byte{0x10, 0xAA, 0xBB}) {
		t.Errorf("write payload = % X", io.data)
	}
	if f.regs[0x10] != 0xAA || f.regs[0x11] != 0xBB {
		t.Errorf("registers = %02X %02X", f.regs[0x10], f.regs[0x11])
	}
}

func TestReadUsesRepeatedStart(t *testing.T) {
	f := &fakeBridge{slave: 0x6C}
	f.regs[0x28] = 0x12
	f.regs[0x29] = 0x34
	d := newTestDevice(f)

	data, err := d.Read(0x6C, 0x28, 2)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(data, []byte{0x12, 0x34}) {
		t.Errorf("Read = % X", data)
	}

	var io []controlCall
	for _, c := range f.calls {
		if c.request != CmdGetStatus {
			io = append(io, c)
		}
	}
	if len(io) != 2 {
		t.Fatalf("%d i2c transfers, want 2", len(io))
	}
	if io[0].request != CmdI2CIO|CmdI2CBegin {
		t.Errorf("address phase sends STOP: %02X", io[0].request)
	}
	if io[1].value != I2CRead || io[1].requestType != RequestTypeVendorIn {
		t.Errorf("data phase = %+v", io[1])
	}
}

func TestAddressNak(t *testing.T) {
	f := &fakeBridge{slave: 0x6C}
	d := newTestDevice(f)

	if err := d.Write(0x10, 0x00, []byte{0x01}); !errors.Is(err, ErrAddressNak) {
		t.Errorf("Write err = %v, want ErrAddressNak", err)
	}
	if _, err := d.Read(0x10, 0x00, 1); !errors.Is(err, ErrAddressNak) {
		t.Errorf("Read err = %v, want ErrAddressNak", err)
	}

	ok, err := d.Probe(0x10)
	if ok || err != nil {
		t.Errorf("Probe(0x10) = %v, %v", ok, err)
	}
	ok, err = d.Probe(0x6C)
	if !ok || err != nil {
		t.Errorf("Probe(0x6C) = %v, %v", ok, err)
	}
}

func TestOversizedTransfer(t *testing.T) {
	d := newTestDevice(&fakeBridge{slave: 0x6C})
	if err := d.Write(0x6C, 0, make([]byte, MaxTransfer)); err == nil {
		t.Error("oversized write accepted")
	}
	if _, err := d.Read(0x6C, 0, MaxTransfer+1); err == nil {
		t.Error("oversized read accepted")
	}
}

func TestEcho(t *testing.T) {
	d := newTestDevice(&fakeBridge{})
	if err := d.Echo(0x1234); err != nil {
		t.Error(err)
	}
}
