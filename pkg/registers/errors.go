package registers

import (
	"errors"
	"fmt"
)

// ErrBus matches every transport failure returned by this package
var ErrBus = errors.New("register bus error")

// BusError describes a failed register transfer
type BusError struct {
	Op   string // "read" or "write"
	Addr uint8
	Reg  uint8
	Err  error
}

func (e *BusError) Error() string {
	return fmt.Sprintf("%s failed at 0x%02X/0x%02X: %v", e.Op, e.Addr, e.Reg, e.Err)
}

func (e *BusError) Unwrap() error {
	return e.Err
}

// Is reports true for ErrBus so callers can test with errors.Is
func (e *BusError) Is(target error) bool {
	return target == ErrBus
}
