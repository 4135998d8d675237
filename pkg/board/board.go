// Package board opens the register bus named by a device configuration
// and attaches a frontend to it.
package board

import (
	"fmt"

	"github.com/google/gousb"
	"github.com/herlein/isdbfe/pkg/config"
	"github.com/herlein/isdbfe/pkg/frontend"
	"github.com/herlein/isdbfe/pkg/i2cbus"
	"github.com/herlein/isdbfe/pkg/registers"
	"github.com/herlein/isdbfe/pkg/usbbridge"
)

// Board is an opened transport plus the configuration it was opened with
type Board struct {
	Config *config.DeviceConfig
	Bus    registers.Bus
	Name   string

	close func() error
}

// Open opens the transport of cfg. usb may be nil for i2c transports.
func Open(usb *gousb.Context, cfg *config.DeviceConfig) (*Board, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Transport.Kind {
	case config.TransportUSB:
		if usb == nil {
			return nil, fmt.Errorf("usb transport needs a USB context")
		}
		dev, err := usbbridge.SelectDevice(usb, usbbridge.DeviceSelector(cfg.Transport.Device))
		if err != nil {
			return nil, err
		}
		return &Board{Config: cfg, Bus: dev, Name: dev.String(), close: dev.Close}, nil

	case config.TransportI2C:
		bus, err := i2cbus.Open(cfg.Transport.Device)
		if err != nil {
			return nil, err
		}
		return &Board{Config: cfg, Bus: bus, Name: bus.String(), close: bus.Close}, nil
	}

	return nil, fmt.Errorf("%w: %q", config.ErrInvalidTransport, cfg.Transport.Kind)
}

// Close releases the transport
func (b *Board) Close() error {
	if b.close == nil {
		return nil
	}
	return b.close()
}

// Client returns a register client on the board's bus
func (b *Board) Client() *registers.Client {
	return registers.NewClient(b.Bus)
}

// Attach attaches a frontend on the board's bus
func (b *Board) Attach(opts frontend.Options) (*frontend.Frontend, error) {
	return frontend.New(b.Config.BusID(), b.Bus, b.Config.FrontendConfig(), opts)
}
