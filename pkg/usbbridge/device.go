// Package usbbridge drives a CXD2857 register bus through a USB to I2C
// bridge speaking the i2c-tiny-usb vendor protocol. A Device implements
// registers.Bus.
package usbbridge

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/gousb"
	"github.com/quan-to/slog"
)

var log = slog.Scope("USB")

// ErrAddressNak indicates the addressed slave did not acknowledge
var ErrAddressNak = errors.New("i2c address not acknowledged")

// controller is the part of *gousb.Device used by the bridge
type controller interface {
	Control(requestType uint8, request uint8, value uint16, index uint16, data []byte) (int, error)
}

// Device is one opened bridge
type Device struct {
	usbDevice *gousb.Device
	ctrl      controller
	mu        sync.Mutex

	Serial       string
	Manufacturer string
	Product      string
	Bus          int
	Address      int
	Functions    uint32
}

// FindAllDevices opens every connected bridge
func FindAllDevices(context *gousb.Context) ([]*Device, error) {
	devices := []*Device{}

	usbDevices, err := context.OpenDevices(func(descriptor *gousb.DeviceDesc) bool {
		return descriptor.Vendor == gousb.ID(VendorID) && descriptor.Product == gousb.ID(ProductID)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate devices: %w", err)
	}

	for _, usbDev := range usbDevices {
		device, err := wrapDevice(usbDev)
		if err != nil {
			log.Debug("Skipping bridge at %d:%d: %s", usbDev.Desc.Bus, usbDev.Desc.Address, err)
			usbDev.Close()
			continue
		}
		devices = append(devices, device)
	}

	return devices, nil
}

func wrapDevice(usbDev *gousb.Device) (*Device, error) {
	device := describe(usbDev)
	if err := device.init(DefaultClockDelay); err != nil {
		return nil, err
	}
	return device, nil
}

// describe wraps usbDev without talking to the bridge firmware
func describe(usbDev *gousb.Device) *Device {
	manufacturer, _ := usbDev.Manufacturer()
	product, _ := usbDev.Product()
	serial, _ := usbDev.SerialNumber()

	usbDev.ControlTimeout = USBDefaultTimeout

	desc := usbDev.Desc
	return &Device{
		usbDevice:    usbDev,
		ctrl:         usbDev,
		Serial:       serial,
		Manufacturer: manufacturer,
		Product:      product,
		Bus:          desc.Bus,
		Address:      desc.Address,
	}
}

func (d *Device) init(clockDelay uint16) error {
	funcs := make([]byte, 4)
	if _, err := d.ctrl.Control(RequestTypeVendorIn, CmdGetFunc, 0, 0, funcs); err != nil {
		return fmt.Errorf("failed to query bridge functions: %w", err)
	}
	d.Functions = uint32(funcs[0]) | uint32(funcs[1])<<8 | uint32(funcs[2])<<16 | uint32(funcs[3])<<24

	if _, err := d.ctrl.Control(RequestTypeVendorOut, CmdSetDelay, clockDelay, 0, nil); err != nil {
		return fmt.Errorf("failed to set bus clock: %w", err)
	}
	return nil
}

// Close releases the USB device
func (d *Device) Close() error {
	if d.usbDevice != nil {
		return d.usbDevice.Close()
	}
	return nil
}

// String returns a human-readable description of the device
func (d *Device) String() string {
	return fmt.Sprintf("%s %s (Serial: %s)", d.Manufacturer, d.Product, d.Serial)
}

// Location returns the bus:addr selector of the device
func (d *Device) Location() string {
	return fmt.Sprintf("%d:%d", d.Bus, d.Address)
}

func (d *Device) status() (uint8, error) {
	buf := make([]byte, 1)
	if _, err := d.ctrl.Control(RequestTypeVendorIn, CmdGetStatus, 0, 0, buf); err != nil {
		return 0, fmt.Errorf("failed to read bridge status: %w", err)
	}
	return buf[0], nil
}

// transfer runs one framed i2c message and checks the address phase
func (d *Device) transfer(flags uint8, value uint16, addr uint8, data []byte) error {
	requestType := uint8(RequestTypeVendorOut)
	if value&I2CRead != 0 {
		requestType = RequestTypeVendorIn
	}

	n, err := d.ctrl.Control(requestType, CmdI2CIO|flags, value, uint16(addr), data)
	if err != nil {
		return err
	}
	if n != len(data) {
		return fmt.Errorf("short transfer: %d of %d bytes", n, len(data))
	}

	st, err := d.status()
	if err != nil {
		return err
	}
	if st == StatusAddressNak {
		return fmt.Errorf("%w: 0x%02X", ErrAddressNak, addr)
	}
	return nil
}

// Write implements registers.Bus
func (d *Device) Write(addr uint8, reg uint8, data []byte) error {
	if len(data)+1 > MaxTransfer {
		return fmt.Errorf("write of %d bytes exceeds bridge limit", len(data))
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	buf := make([]byte, 1+len(data))
	buf[0] = reg
	copy(buf[1:], data)
	return d.transfer(CmdI2CBegin|CmdI2CEnd, 0, addr, buf)
}

// Read implements registers.Bus with a repeated start between the
// register address and the data phase
func (d *Device) Read(addr uint8, reg uint8, length int) ([]byte, error) {
	if length > MaxTransfer {
		return nil, fmt.Errorf("read of %d bytes exceeds bridge limit", length)
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.transfer(CmdI2CBegin, 0, addr, []byte{reg}); err != nil {
		return nil, err
	}
	data := make([]byte, length)
	if err := d.transfer(CmdI2CBegin|CmdI2CEnd, I2CRead, addr, data); err != nil {
		return nil, err
	}
	return data, nil
}

// Echo sends a value through the bridge and checks it comes back
func (d *Device) Echo(value uint16) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	buf := make([]byte, 2)
	if _, err := d.ctrl.Control(RequestTypeVendorIn, CmdEcho, value, 0, buf); err != nil {
		return fmt.Errorf("echo failed: %w", err)
	}
	if got := uint16(buf[0]) | uint16(buf[1])<<8; got != value {
		return fmt.Errorf("echo mismatch: sent 0x%04X, got 0x%04X", value, got)
	}
	return nil
}

// Probe reports whether a slave acknowledges its address
func (d *Device) Probe(addr uint8) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	err := d.transfer(CmdI2CBegin|CmdI2CEnd, 0, addr, nil)
	if errors.Is(err, ErrAddressNak) {
		return false, nil
	}
	return err == nil, err
}
