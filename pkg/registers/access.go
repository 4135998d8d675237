package registers

import (
	"fmt"
	"time"
)

// Bus is the raw register transport shared by the demodulator and tuner.
// Multi-byte writes and reads auto-increment the register address.
type Bus interface {
	Write(addr uint8, reg uint8, data []byte) error
	Read(addr uint8, reg uint8, length int) ([]byte, error)
}

// RegBank selects the active bank on the demodulator slaves
const RegBank = 0x00

// RegRepeater gates the tuner bus through the X slave
const RegRepeater = 0x08

// RepeaterSettle is the wait after every repeater toggle
const RepeaterSettle = 20 * time.Millisecond

// Client wraps a Bus with the delay used between sequence steps.
// Every helper fails fast: the first transport error is returned as a
// *BusError and nothing after it is issued.
type Client struct {
	Bus   Bus
	Sleep func(time.Duration)
}

// NewClient returns a Client that waits with time.Sleep
func NewClient(bus Bus) *Client {
	return &Client{Bus: bus, Sleep: time.Sleep}
}

// Delay blocks for d using the client's sleep function
func (c *Client) Delay(d time.Duration) {
	if c.Sleep != nil {
		c.Sleep(d)
	}
}

// Write writes a block of registers starting at reg
func (c *Client) Write(addr uint8, reg uint8, data ...byte) error {
	return Write(c.Bus, addr, reg, data...)
}

// WriteReg writes a single register
func (c *Client) WriteReg(addr uint8, reg uint8, value uint8) error {
	return Write(c.Bus, addr, reg, value)
}

// Read reads length consecutive registers starting at reg
func (c *Client) Read(addr uint8, reg uint8, length int) ([]byte, error) {
	return Read(c.Bus, addr, reg, length)
}

// ReadReg reads a single register
func (c *Client) ReadReg(addr uint8, reg uint8) (uint8, error) {
	data, err := Read(c.Bus, addr, reg, 1)
	if err != nil {
		return 0, err
	}
	return data[0], nil
}

// SetBits updates the bits selected by mask
func (c *Client) SetBits(addr uint8, reg uint8, value uint8, mask uint8) error {
	return SetBits(c.Bus, addr, reg, value, mask)
}

// SetBankedBits selects bank and updates the bits selected by mask
func (c *Client) SetBankedBits(addr uint8, bank uint8, reg uint8, value uint8, mask uint8) error {
	return SetBankedBits(c.Bus, addr, bank, reg, value, mask)
}

// SelectBank writes the bank register of a demodulator slave
func (c *Client) SelectBank(addr uint8, bank uint8) error {
	return Write(c.Bus, addr, RegBank, bank)
}

// SetRepeater opens or closes the tuner bus gate on the X slave
func (c *Client) SetRepeater(xAddr uint8, enable bool) error {
	var v uint8
	if enable {
		v = 0x01
	}
	if err := c.WriteReg(xAddr, RegRepeater, v); err != nil {
		state := "disable"
		if enable {
			state = "enable"
		}
		return fmt.Errorf("failed to %s repeater: %w", state, err)
	}
	c.Delay(RepeaterSettle)
	return nil
}

// WithRepeater runs fn with the repeater enabled. The repeater is always
// disabled before returning, also when enabling it or fn failed.
func (c *Client) WithRepeater(xAddr uint8, fn func() error) (err error) {
	defer func() {
		if derr := c.SetRepeater(xAddr, false); derr != nil && err == nil {
			err = derr
		}
	}()
	if err = c.SetRepeater(xAddr, true); err != nil {
		return err
	}
	return fn()
}

// Write writes data to consecutive registers starting at reg
func Write(bus Bus, addr uint8, reg uint8, data ...byte) error {
	if err := bus.Write(addr, reg, data); err != nil {
		return &BusError{Op: "write", Addr: addr, Reg: reg, Err: err}
	}
	return nil
}

// Read reads length consecutive registers starting at reg
func Read(bus Bus, addr uint8, reg uint8, length int) ([]byte, error) {
	data, err := bus.Read(addr, reg, length)
	if err != nil {
		return nil, &BusError{Op: "read", Addr: addr, Reg: reg, Err: err}
	}
	if len(data) < length {
		return nil, &BusError{Op: "read", Addr: addr, Reg: reg,
			Err: fmt.Errorf("short read: got %d of %d bytes", len(data), length)}
	}
	return data, nil
}

// SetBits performs a masked read-modify-write of one register.
// A zero mask is a no-op and a full mask writes value without reading.
func SetBits(bus Bus, addr uint8, reg uint8, value uint8, mask uint8) error {
	if mask == 0 {
		return nil
	}
	if mask != 0xFF {
		current, err := Read(bus, addr, reg, 1)
		if err != nil {
			return err
		}
		value = (value & mask) | (current[0] &^ mask)
	}
	return Write(bus, addr, reg, value)
}

// SetBankedBits writes bank to the bank register and then calls SetBits
func SetBankedBits(bus Bus, addr uint8, bank uint8, reg uint8, value uint8, mask uint8) error {
	if err := Write(bus, addr, RegBank, bank); err != nil {
		return err
	}
	return SetBits(bus, addr, reg, value, mask)
}
