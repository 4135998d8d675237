package usbbridge

import "time"

// USB identifiers of the i2c-tiny-usb compatible bridge
const (
	VendorID  = 0x0403
	ProductID = 0xC631
)

// Vendor control requests
const (
	CmdEcho      = 0x00
	CmdGetFunc   = 0x01
	CmdSetDelay  = 0x02
	CmdGetStatus = 0x03
	CmdI2CIO     = 0x04
)

// Flags or'ed into CmdI2CIO to frame a transaction
const (
	CmdI2CBegin = 0x01 // send START before the transfer
	CmdI2CEnd   = 0x02 // send STOP after the transfer
)

// I2CRead is passed in wValue for the read half of a transfer
const I2CRead = 0x0001

// Bridge status returned by CmdGetStatus
const (
	StatusIdle       = 0x00
	StatusAddressAck = 0x01
	StatusAddressNak = 0x02
)

// Control request types
const (
	RequestTypeVendorIn  = 0xC1 // vendor, interface, device to host
	RequestTypeVendorOut = 0x41 // vendor, interface, host to device
)

// Bus timing
const (
	// DefaultClockDelay is the half-period in microseconds written with
	// CmdSetDelay; 10 gives roughly 50 kHz SCL
	DefaultClockDelay = 10

	USBDefaultTimeout = 1000 * time.Millisecond

	// MaxTransfer is the largest payload of one control transfer
	MaxTransfer = 256
)
