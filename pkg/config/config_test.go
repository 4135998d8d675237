package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/herlein/isdbfe/pkg/demod"
	"github.com/herlein/isdbfe/pkg/registers"
	"github.com/herlein/isdbfe/pkg/tuner"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *DeviceConfig)
		want   error
	}{
		{"default", func(c *DeviceConfig) {}, nil},
		{"i2c with device", func(c *DeviceConfig) { c.Transport = TransportConfig{Kind: TransportI2C, Device: DefaultI2CDevice} }, nil},
		{"i2c without device", func(c *DeviceConfig) { c.Transport.Kind = TransportI2C }, ErrInvalidTransport},
		{"unknown transport", func(c *DeviceConfig) { c.Transport.Kind = "spi" }, ErrInvalidTransport},
		{"demod address too low", func(c *DeviceConfig) { c.DemodAddr = 0x20 }, ErrInvalidAddress},
		{"tuner on X slave", func(c *DeviceConfig) { c.TunerAddr = 0x6E }, ErrInvalidAddress},
		{"tuner address 8 bit", func(c *DeviceConfig) { c.TunerAddr = 0xC0 }, ErrInvalidAddress},
		{"demod crystal", func(c *DeviceConfig) { c.DemodCrystalKHz = 27000 }, ErrInvalidCrystal},
		{"tuner crystal", func(c *DeviceConfig) { c.TunerCrystalKHz = 32000 }, ErrInvalidCrystal},
		{"tuner index", func(c *DeviceConfig) { c.TunerIndex = 0 }, ErrInvalidTunerIndex},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := DefaultConfig()
			tc.modify(c)
			err := c.Validate()
			if tc.want == nil {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tc.want) {
				t.Errorf("Validate() = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestFrontendConfig(t *testing.T) {
	c := DefaultConfig()
	c.DemodCrystalKHz = 16000
	c.TunerCrystalKHz = 41000
	c.RFPort = 3
	c.LegacySatelliteProfile = true

	fc := c.FrontendConfig()
	if fc.DemodAddr != 0x6C || fc.TunerAddr != 0x60 || fc.TunerIndex != 1 {
		t.Errorf("addresses = %02X/%02X index %d", fc.DemodAddr, fc.TunerAddr, fc.TunerIndex)
	}
	if fc.DemodCrystal != demod.Crystal16MHz {
		t.Errorf("DemodCrystal = %v, want 16 MHz", fc.DemodCrystal)
	}
	if fc.TunerCrystal != tuner.Crystal41MHz {
		t.Errorf("TunerCrystal = %v, want 41 MHz", fc.TunerCrystal)
	}
	if !fc.TLVMode || fc.RFPort != 3 || !fc.LegacySatelliteProfile {
		t.Errorf("options not carried over: %+v", fc)
	}
	if got := c.Slaves(); got != registers.NewSlaves(0x6C, 0x60) {
		t.Errorf("Slaves() = %s", got)
	}
	if got := c.BusID(); got != "usb:" {
		t.Errorf("BusID() = %q", got)
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "boards", "pt3.yaml")

	c := DefaultConfig()
	c.Name = "pt3"
	c.Transport = TransportConfig{Kind: TransportI2C, Device: "/dev/i2c-3"}
	c.TunerIndex = 2
	if err := SaveToFile(c, path); err != nil {
		t.Fatal(err)
	}

	got, err := LoadFromFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if *got != *c {
		t.Errorf("loaded %+v, want %+v", got, c)
	}
}

func TestLoadKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	if err := os.WriteFile(path, []byte("tuner_index: 2\n"), 0644); err != nil {
		t.Fatal(err)
	}
	got, err := LoadFromFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := DefaultConfig()
	want.TunerIndex = 2
	if *got != *want {
		t.Errorf("loaded %+v, want %+v", got, want)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("demod_crystal_khz: 27000\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFromFile(path); !errors.Is(err, ErrInvalidCrystal) {
		t.Errorf("err = %v, want ErrInvalidCrystal", err)
	}
}

func TestGetConfigPath(t *testing.T) {
	if got, want := GetConfigPath("pt3"), filepath.Join("etc", "isdbfe", "pt3.yaml"); got != want {
		t.Errorf("GetConfigPath = %q, want %q", got, want)
	}
}
