package i2cbus

import (
	"bytes"
	"testing"

	"github.com/herlein/isdbfe/pkg/registers"
	"periph.io/x/conn/v3/i2c/i2ctest"
)

func TestWriteAndRead(t *testing.T) {
	pb := &i2ctest.Playback{
		Ops: []i2ctest.IO{
			{Addr: 0x6C, W: []byte{0x00, 0x60}},
			{Addr: 0x6C, W: []byte{0x10}, R: []byte{0x13}},
			{Addr: 0x6E, W: []byte{0x08, 0x01}},
		},
	}
	b := New(pb)
	c := &registers.Client{Bus: b}

	if err := c.SelectBank(0x6C, 0x60); err != nil {
		t.Fatal(err)
	}
	got, err := c.Read(0x6C, 0x10, 1)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, []byte{0x13}) {
		t.Errorf("Read = % X, want 13", got)
	}
	if err := c.WriteReg(0x6E, registers.RegRepeater, 0x01); err != nil {
		t.Fatal(err)
	}
	if err := pb.Close(); err != nil {
		t.Errorf("unconsumed transfers: %v", err)
	}
}

func TestTransportErrorIsBusError(t *testing.T) {
	pb := &i2ctest.Playback{DontPanic: true}
	c := &registers.Client{Bus: New(pb)}

	if err := c.WriteReg(0x6C, 0x01, 0x00); err == nil {
		t.Fatal("write past the end of the playback succeeded")
	}
	if _, err := c.Read(0x6C, 0x01, 1); err == nil {
		t.Fatal("read past the end of the playback succeeded")
	}
}
