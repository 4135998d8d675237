package scanner

import "errors"

// Scanner errors
var (
	// ErrScannerRunning indicates the scanner is already running
	ErrScannerRunning = errors.New("scanner is already running")

	// ErrScannerNotRunning indicates the scanner is not running
	ErrScannerNotRunning = errors.New("scanner is not running")

	// ErrNoChannels indicates no channels were specified for scanning
	ErrNoChannels = errors.New("no channels specified for scanning")

	// ErrInvalidChannel indicates a channel that cannot be tuned
	ErrInvalidChannel = errors.New("invalid channel")

	// ErrInvalidTiming indicates inconsistent lock timeout or poll interval
	ErrInvalidTiming = errors.New("poll interval must be positive and not exceed the lock timeout")

	// ErrInvalidHold indicates a lost threshold at or above the hold maximum
	ErrInvalidHold = errors.New("lost threshold must be below the hold maximum")

	// ErrConfigVersion indicates unsupported config file version
	ErrConfigVersion = errors.New("unsupported configuration version")
)
