package scanner

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/herlein/isdbfe/pkg/frontend"
	"github.com/quan-to/slog"
)

var log = slog.Scope("Scanner")

// Tuner is the part of a frontend the scanner drives
type Tuner interface {
	Tune(ctx context.Context, req frontend.TuneRequest, retune bool) (frontend.LockFlags, frontend.SignalMetrics, error)
}

// Scanner provides channel scanning capabilities
type Scanner interface {
	// Lifecycle
	Start() error
	Stop() error
	IsRunning() bool

	// Configuration
	SetConfig(config *ScanConfig) error
	GetConfig() *ScanConfig

	// Scanning
	ScanChannel(ctx context.Context, ch Channel) (*ScanResult, error)
	ScanOnce(ctx context.Context) ([]*ScanResult, error)
	ScanContinuous(ctx context.Context, results chan<- *ScanResult) error

	// Channel tracking
	GetActiveChannels() []*ChannelInfo
	GetAllChannels() []*ChannelInfo
	ClearHistory()
}

// scanner implements the Scanner interface
type scanner struct {
	tuner  Tuner
	config *ScanConfig

	// State
	mu       sync.RWMutex
	running  bool
	stopChan chan struct{}

	tracker *ChannelTracker

	// sleep, when set, replaces the context-aware wait between polls
	sleep func(time.Duration)
}

// New creates a new Scanner on tuner. A nil config uses DefaultConfig.
func New(tuner Tuner, config *ScanConfig) (Scanner, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	s := &scanner{
		tuner:    tuner,
		stopChan: make(chan struct{}),
	}
	s.apply(config)
	return s, nil
}

// NewFromConfigFile creates a Scanner from a YAML scan file
func NewFromConfigFile(tuner Tuner, configPath string) (Scanner, error) {
	configFile, err := LoadConfigFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	config, err := configFile.ToScanConfig()
	if err != nil {
		return nil, err
	}
	return New(tuner, config)
}

func (s *scanner) apply(config *ScanConfig) {
	s.config = config
	s.tracker = NewChannelTracker(config.HoldMax, config.LostThreshold, config.smoothing())
	s.tracker.SetCallbacks(config.OnChannelFound, config.OnChannelLost)
}

// Start marks the scanner as running
func (s *scanner) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return ErrScannerRunning
	}

	s.running = true
	s.stopChan = make(chan struct{})
	return nil
}

// Stop stops the scanner
func (s *scanner) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return ErrScannerNotRunning
	}

	close(s.stopChan)
	s.running = false
	return nil
}

// IsRunning returns true if the scanner is running
func (s *scanner) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// SetConfig replaces the configuration and resets channel tracking
func (s *scanner) SetConfig(config *ScanConfig) error {
	if err := config.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.apply(config)
	return nil
}

// GetConfig returns the current configuration
func (s *scanner) GetConfig() *ScanConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config
}

func (s *scanner) wait(ctx context.Context, d time.Duration) error {
	if s.sleep != nil {
		s.sleep(d)
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// ScanChannel tunes one channel and polls its status until full lock or
// the lock timeout. A channel that never locks is not an error.
func (s *scanner) ScanChannel(ctx context.Context, ch Channel) (*ScanResult, error) {
	config := s.GetConfig()
	req := ch.Request()
	result := &ScanResult{Channel: ch, Timestamp: time.Now()}

	flags, metrics, err := s.tuner.Tune(ctx, req, true)
	var waited time.Duration
	for err == nil && !flags.Locked() && waited < config.LockTimeout {
		if err = s.wait(ctx, config.PollInterval); err != nil {
			break
		}
		waited += config.PollInterval
		flags, metrics, err = s.tuner.Tune(ctx, req, false)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", ch.Name, err)
	}

	result.Flags = flags
	result.Metrics = metrics
	result.Locked = flags.Locked()
	result.LockTime = waited

	log.Debug("%s: %s after %s (cnr %s)", ch, flags, waited, metrics.CNR)
	return result, nil
}

// ScanOnce scans every configured channel in order. Channels that fail
// to tune are reported with Err set and do not stop the cycle; a
// cancelled context does.
func (s *scanner) ScanOnce(ctx context.Context) ([]*ScanResult, error) {
	s.mu.RLock()
	config := s.config
	tracker := s.tracker
	s.mu.RUnlock()

	results := make([]*ScanResult, 0, len(config.Channels))
	var locked, scanErrors int

	for _, ch := range config.Channels {
		result, err := s.ScanChannel(ctx, ch)
		if err != nil {
			if ctx.Err() != nil {
				return results, ctx.Err()
			}
			scanErrors++
			log.Error("%s", err)
			result = &ScanResult{Channel: ch, Err: err, Timestamp: time.Now()}
		}
		if result.Locked {
			locked++
		}
		tracker.Update(result)
		results = append(results, result)
	}

	log.Debug("ScanOnce: %d channels, %d locked, %d errors", len(results), locked, scanErrors)
	return results, nil
}

// ScanContinuous repeats ScanOnce every ScanInterval until the context
// is cancelled or Stop is called. results is closed on return. It only
// loops over ScanOnce; callers wanting their own schedule call ScanOnce.
func (s *scanner) ScanContinuous(ctx context.Context, results chan<- *ScanResult) error {
	defer close(results)

	if err := s.Start(); err != nil {
		return err
	}
	defer func() {
		if s.IsRunning() {
			s.Stop()
		}
	}()

	s.mu.RLock()
	stop := s.stopChan
	interval := s.config.ScanInterval
	s.mu.RUnlock()

	for {
		cycle, err := s.ScanOnce(ctx)
		for _, r := range cycle {
			select {
			case results <- r:
			default:
				// Channel full, skip this result
			}
		}
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			log.Error("Scan cycle failed: %s", err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-stop:
			return nil
		case <-time.After(interval):
		}
	}
}

// GetActiveChannels returns the channels currently considered on air
func (s *scanner) GetActiveChannels() []*ChannelInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tracker.GetActiveChannels()
}

// GetAllChannels returns every channel that locked at least once
func (s *scanner) GetAllChannels() []*ChannelInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tracker.GetAllChannels()
}

// ClearHistory clears all tracked channels
func (s *scanner) ClearHistory() {
	s.mu.RLock()
	defer s.mu.RUnlock()
	s.tracker.Clear()
}
