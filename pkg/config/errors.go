package config

import "errors"

var (
	// ErrInvalidTransport indicates an unknown or incomplete bus transport
	ErrInvalidTransport = errors.New("invalid transport")

	// ErrInvalidAddress indicates a slave address outside the usable range
	ErrInvalidAddress = errors.New("invalid slave address")

	// ErrInvalidCrystal indicates a crystal frequency the chips do not support
	ErrInvalidCrystal = errors.New("unsupported crystal frequency")

	// ErrInvalidTunerIndex indicates a tuner index of zero
	ErrInvalidTunerIndex = errors.New("tuner index must be at least 1")

	// ErrInvalidDump indicates a register dump that cannot be applied
	ErrInvalidDump = errors.New("invalid register dump")
)
