package frontend

import (
	"errors"
	"fmt"

	"github.com/herlein/isdbfe/pkg/demod"
)

var (
	// ErrUnsupportedSystem indicates a request for a system or state the
	// state machine does not model. No hardware was touched.
	ErrUnsupportedSystem = errors.New("unsupported broadcast system")

	// ErrUnsupportedConfiguration indicates a configuration the driver
	// cannot run, such as TS output mode or an unknown bandwidth
	ErrUnsupportedConfiguration = errors.New("unsupported configuration")

	// ErrFrequencyOutOfRange indicates a frequency outside the band of the
	// requested system
	ErrFrequencyOutOfRange = errors.New("frequency out of range")

	// ErrChipNotDetected indicates the demodulator did not report a
	// supported chip id at attach
	ErrChipNotDetected = demod.ErrChipNotDetected

	// ErrNotInitialized indicates an operation on a released frontend or a
	// status read without an active system
	ErrNotInitialized = errors.New("frontend not initialized")

	// ErrAddressInUse indicates a second attach to an already registered
	// demodulator with a different configuration
	ErrAddressInUse = errors.New("demodulator address in use")
)

// HardwareIOError is returned when a step of a multi-step operation
// failed on the hardware. The frontend should be put to sleep or
// re-initialized before retrying.
type HardwareIOError struct {
	Op  string
	Err error
}

func (e *HardwareIOError) Error() string {
	return fmt.Sprintf("%s: hardware I/O failed: %v", e.Op, e.Err)
}

func (e *HardwareIOError) Unwrap() error {
	return e.Err
}

func hardware(op string, err error) error {
	if err == nil {
		return nil
	}
	return &HardwareIOError{Op: op, Err: err}
}
