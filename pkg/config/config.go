// Package config holds the board description of a CXD2857 frontend: how
// the register bus is reached, the slave addresses and crystals, and the
// output options. Configurations are stored as YAML.
package config

import (
	"fmt"

	"github.com/herlein/isdbfe/pkg/demod"
	"github.com/herlein/isdbfe/pkg/frontend"
	"github.com/herlein/isdbfe/pkg/registers"
	"github.com/herlein/isdbfe/pkg/tuner"
)

// Transport kinds
const (
	TransportUSB = "usb"
	TransportI2C = "i2c"
)

// Defaults for the common single-tuner boards
const (
	DefaultDemodAddr       = 0x6C
	DefaultTunerAddr       = 0x60
	DefaultDemodCrystalKHz = 24000
	DefaultTunerCrystalKHz = 24000
	DefaultI2CDevice       = "/dev/i2c-1"
)

// TransportConfig selects the register bus. Device is a USB device
// selector ("", "serial", "bus:addr", "#N") or an i2c-dev path.
type TransportConfig struct {
	Kind   string `yaml:"kind"`
	Device string `yaml:"device,omitempty"`
}

// DeviceConfig describes one demodulator and its tuner
type DeviceConfig struct {
	Name      string          `yaml:"name,omitempty"`
	Transport TransportConfig `yaml:"transport"`

	DemodAddr       uint8  `yaml:"demod_addr"`
	DemodCrystalKHz uint32 `yaml:"demod_crystal_khz"`

	TunerAddr       uint8  `yaml:"tuner_addr"`
	TunerCrystalKHz uint32 `yaml:"tuner_crystal_khz"`
	TunerIndex      uint8  `yaml:"tuner_index"`

	TLVMode                bool  `yaml:"tlv_mode"`
	RFPort                 uint8 `yaml:"rf_port"`
	LegacySatelliteProfile bool  `yaml:"legacy_satellite_profile,omitempty"`
}

// DefaultConfig returns a DeviceConfig for a USB bridge with the usual
// addresses and 24 MHz crystals
func DefaultConfig() *DeviceConfig {
	return &DeviceConfig{
		Transport:       TransportConfig{Kind: TransportUSB},
		DemodAddr:       DefaultDemodAddr,
		DemodCrystalKHz: DefaultDemodCrystalKHz,
		TunerAddr:       DefaultTunerAddr,
		TunerCrystalKHz: DefaultTunerCrystalKHz,
		TunerIndex:      1,
		TLVMode:         true,
	}
}

var demodCrystals = map[uint32]demod.Crystal{
	16000: demod.Crystal16MHz,
	24000: demod.Crystal24MHz,
	32000: demod.Crystal32MHz,
}

var tunerCrystals = map[uint32]tuner.Crystal{
	16000: tuner.Crystal16MHz,
	20500: tuner.Crystal20_5MHz,
	24000: tuner.Crystal24MHz,
	41000: tuner.Crystal41MHz,
}

// Validate checks the configuration for errors
func (c *DeviceConfig) Validate() error {
	switch c.Transport.Kind {
	case TransportUSB:
	case TransportI2C:
		if c.Transport.Device == "" {
			return fmt.Errorf("%w: i2c transport needs a device path", ErrInvalidTransport)
		}
	default:
		return fmt.Errorf("%w: %q", ErrInvalidTransport, c.Transport.Kind)
	}

	if c.DemodAddr < 0x54 || c.DemodAddr > 0x7D {
		return fmt.Errorf("%w: demodulator 0x%02X", ErrInvalidAddress, c.DemodAddr)
	}
	if c.TunerAddr > 0x7F {
		return fmt.Errorf("%w: tuner 0x%02X", ErrInvalidAddress, c.TunerAddr)
	}
	s := c.Slaves()
	for _, a := range []uint8{s.T, s.X} {
		if a == c.TunerAddr {
			return fmt.Errorf("%w: tuner 0x%02X collides with demodulator", ErrInvalidAddress, c.TunerAddr)
		}
	}

	if _, ok := demodCrystals[c.DemodCrystalKHz]; !ok {
		return fmt.Errorf("%w: demodulator %d kHz", ErrInvalidCrystal, c.DemodCrystalKHz)
	}
	if _, ok := tunerCrystals[c.TunerCrystalKHz]; !ok {
		return fmt.Errorf("%w: tuner %d kHz", ErrInvalidCrystal, c.TunerCrystalKHz)
	}
	if c.TunerIndex == 0 {
		return ErrInvalidTunerIndex
	}
	return nil
}

// Slaves returns the register slave addresses of the configuration
func (c *DeviceConfig) Slaves() registers.Slaves {
	return c.FrontendConfig().Slaves()
}

// FrontendConfig converts a validated configuration to the frontend's
// static wiring
func (c *DeviceConfig) FrontendConfig() frontend.Config {
	return frontend.Config{
		DemodAddr:              c.DemodAddr,
		DemodCrystal:           demodCrystals[c.DemodCrystalKHz],
		TunerAddr:              c.TunerAddr,
		TunerCrystal:           tunerCrystals[c.TunerCrystalKHz],
		TunerIndex:             c.TunerIndex,
		TLVMode:                c.TLVMode,
		RFPort:                 c.RFPort,
		LegacySatelliteProfile: c.LegacySatelliteProfile,
	}
}

// BusID returns the identity under which frontends on the same physical
// bus share a lock
func (c *DeviceConfig) BusID() string {
	return c.Transport.Kind + ":" + c.Transport.Device
}

// String returns a short description of the board
func (c *DeviceConfig) String() string {
	name := c.Name
	if name == "" {
		name = "frontend"
	}
	return fmt.Sprintf("%s (%s, demod 0x%02X @ %d kHz, tuner 0x%02X @ %d kHz)",
		name, c.BusID(), c.DemodAddr, c.DemodCrystalKHz, c.TunerAddr, c.TunerCrystalKHz)
}
