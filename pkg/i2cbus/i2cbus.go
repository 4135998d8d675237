// Package i2cbus exposes a host I2C adapter as a registers.Bus, for
// boards where the demodulator hangs directly off an SBC or PCIe bridge
// i2c-dev node.
package i2cbus

import (
	"fmt"
	"sync"

	"github.com/quan-to/slog"
	"periph.io/x/conn/v3/driver/driverreg"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"
)

var log = slog.Scope("I2C")

// DefaultSpeed is the SCL rate set on Open
const DefaultSpeed = 400 * physic.KiloHertz

var initOnce sync.Once
var initErr error

func initHost() error {
	initOnce.Do(func() {
		if _, err := host.Init(); err != nil {
			initErr = fmt.Errorf("failed to initialise host drivers: %w", err)
			return
		}
		if _, err := driverreg.Init(); err != nil {
			initErr = fmt.Errorf("failed to initialise drivers: %w", err)
		}
	})
	return initErr
}

// Bus adapts a periph i2c.Bus
type Bus struct {
	bus    i2c.Bus
	closer i2c.BusCloser
	name   string
}

// New wraps an already opened periph bus
func New(bus i2c.Bus) *Bus {
	return &Bus{bus: bus, name: bus.String()}
}

// Open opens an I2C adapter by name ("/dev/i2c-1", "1" or "" for the
// first one) and sets it to DefaultSpeed
func Open(name string) (*Bus, error) {
	if err := initHost(); err != nil {
		return nil, err
	}

	bc, err := i2creg.Open(name)
	if err != nil {
		return nil, fmt.Errorf("failed to open i2c bus %q: %w", name, err)
	}
	if err := bc.SetSpeed(DefaultSpeed); err != nil {
		log.Warn("Could not set %s to %s: %s", bc, DefaultSpeed, err)
	}

	log.Debug("Opened %s", bc)
	return &Bus{bus: bc, closer: bc, name: bc.String()}, nil
}

// Close releases the adapter if Open created it
func (b *Bus) Close() error {
	if b.closer == nil {
		return nil
	}
	return b.closer.Close()
}

func (b *Bus) String() string {
	return b.name
}

// Write implements registers.Bus
func (b *Bus) Write(addr uint8, reg uint8, data []byte) error {
	w := make([]byte, 1+len(data))
	w[0] = reg
	copy(w[1:], data)
	return b.bus.Tx(uint16(addr), w, nil)
}

// Read implements registers.Bus as one combined write/read transaction
func (b *Bus) Read(addr uint8, reg uint8, length int) ([]byte, error) {
	r := make([]byte, length)
	if err := b.bus.Tx(uint16(addr), []byte{reg}, r); err != nil {
		return nil, err
	}
	return r, nil
}
