// Package scanner walks ISDB channel plans with a frontend and tracks
// which channels lock. It is a client of frontend.Frontend like any other
// host: the frontend never polls on its own, and nothing in the frontend
// depends on this package.
package scanner

import "time"

// Default scanning parameters
const (
	// DefaultLockTimeout is how long a channel may take to reach full lock
	DefaultLockTimeout = 1500 * time.Millisecond

	// DefaultPollInterval is the delay between status reads while waiting
	// for lock
	DefaultPollInterval = 100 * time.Millisecond

	// DefaultScanInterval is the delay between scan cycles
	DefaultScanInterval = 10 * time.Second
)

// Channel tracking defaults, counted in scan cycles
const (
	// DefaultHoldMax is the maximum hold counter value
	DefaultHoldMax = 3

	// DefaultLostThreshold is when a channel is considered lost
	DefaultLostThreshold = 1
)

// CNR smoothing defaults, in 0.001 dB
const (
	// DefaultSmoothThreshold is the threshold for fast/slow adaptation
	DefaultSmoothThreshold float64 = 3000

	// DefaultKFast is the adaptation coefficient for large changes
	DefaultKFast float64 = 0.9

	// DefaultKSlow is the adaptation coefficient for small changes
	DefaultKSlow float64 = 0.2
)

// ConfigVersion is the only scan file version understood
const ConfigVersion = "1.0"
