package scanner

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ScanConfig defines runtime scanning parameters
type ScanConfig struct {
	Channels []Channel

	LockTimeout  time.Duration // per channel
	PollInterval time.Duration // between status reads while waiting for lock
	ScanInterval time.Duration // between scan cycles

	// Channel tracking, in scan cycles
	HoldMax       int
	LostThreshold int

	// CNR smoothing
	SmoothingEnabled bool
	SmoothThreshold  float64
	SmoothKFast      float64
	SmoothKSlow      float64

	// Callbacks (optional, not serialized)
	OnChannelFound func(info *ChannelInfo)
	OnChannelLost  func(info *ChannelInfo)
}

// DefaultConfig returns a ScanConfig covering the UHF plan
func DefaultConfig() *ScanConfig {
	uhf, _ := Plan("uhf")
	return &ScanConfig{
		Channels:         uhf,
		LockTimeout:      DefaultLockTimeout,
		PollInterval:     DefaultPollInterval,
		ScanInterval:     DefaultScanInterval,
		HoldMax:          DefaultHoldMax,
		LostThreshold:    DefaultLostThreshold,
		SmoothingEnabled: true,
		SmoothThreshold:  DefaultSmoothThreshold,
		SmoothKFast:      DefaultKFast,
		SmoothKSlow:      DefaultKSlow,
	}
}

// Validate checks the configuration for errors
func (c *ScanConfig) Validate() error {
	if len(c.Channels) == 0 {
		return ErrNoChannels
	}

	for _, ch := range c.Channels {
		if err := ch.Request().Resolve().Validate(); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidChannel, ch.Name, err)
		}
	}

	if c.PollInterval <= 0 || c.PollInterval > c.LockTimeout {
		return ErrInvalidTiming
	}

	if c.HoldMax <= 0 || c.LostThreshold < 0 || c.LostThreshold >= c.HoldMax {
		return ErrInvalidHold
	}

	return nil
}

func (c *ScanConfig) smoothing() *SmoothingParams {
	if !c.SmoothingEnabled {
		return nil
	}
	return &SmoothingParams{Threshold: c.SmoothThreshold, KFast: c.SmoothKFast, KSlow: c.SmoothKSlow}
}

// --- YAML Configuration File Types ---

// ConfigFile represents the YAML scan file structure
type ConfigFile struct {
	Name        string    `yaml:"name"`
	Description string    `yaml:"description,omitempty"`
	Version     string    `yaml:"version"`
	Created     time.Time `yaml:"created,omitempty"`

	Plans          []string           `yaml:"plans,omitempty"`
	Channels       []string           `yaml:"channels,omitempty"`
	ScanParameters ScanParametersYAML `yaml:"scan_parameters"`
	Tracking       TrackingYAML       `yaml:"tracking"`
	Smoothing      SmoothingYAML      `yaml:"smoothing"`
}

// ScanParametersYAML holds scan timing settings
type ScanParametersYAML struct {
	LockTimeoutMs  uint32 `yaml:"lock_timeout_ms"`
	PollIntervalMs uint32 `yaml:"poll_interval_ms"`
	ScanIntervalMs uint32 `yaml:"scan_interval_ms"`
}

// TrackingYAML holds channel hysteresis settings
type TrackingYAML struct {
	HoldMax       int `yaml:"hold_max"`
	LostThreshold int `yaml:"lost_threshold"`
}

// SmoothingYAML holds CNR smoothing settings
type SmoothingYAML struct {
	Enabled     bool    `yaml:"enabled"`
	ThresholdDB float64 `yaml:"threshold_db"`
	KFast       float64 `yaml:"k_fast"`
	KSlow       float64 `yaml:"k_slow"`
}

// LoadConfigFile loads scanner configuration from a YAML file
func LoadConfigFile(path string) (*ConfigFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config ConfigFile
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// Validate checks the configuration file for errors
func (c *ConfigFile) Validate() error {
	if c.Version != ConfigVersion {
		return fmt.Errorf("%w: %s", ErrConfigVersion, c.Version)
	}

	if len(c.Plans) == 0 && len(c.Channels) == 0 {
		return ErrNoChannels
	}

	_, err := c.channels()
	return err
}

// channels expands plans then explicit channels, dropping duplicates
func (c *ConfigFile) channels() ([]Channel, error) {
	var out []Channel
	seen := make(map[string]bool)
	add := func(ch Channel) {
		if !seen[ch.Name] {
			seen[ch.Name] = true
			out = append(out, ch)
		}
	}

	for _, name := range c.Plans {
		plan, err := Plan(name)
		if err != nil {
			return nil, err
		}
		for _, ch := range plan {
			add(ch)
		}
	}
	for _, name := range c.Channels {
		ch, err := ParseChannel(name)
		if err != nil {
			return nil, err
		}
		add(ch)
	}
	return out, nil
}

// ToScanConfig converts the file to a runtime ScanConfig, filling unset
// values with defaults
func (c *ConfigFile) ToScanConfig() (*ScanConfig, error) {
	channels, err := c.channels()
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	cfg.Channels = channels

	if ms := c.ScanParameters.LockTimeoutMs; ms != 0 {
		cfg.LockTimeout = time.Duration(ms) * time.Millisecond
	}
	if ms := c.ScanParameters.PollIntervalMs; ms != 0 {
		cfg.PollInterval = time.Duration(ms) * time.Millisecond
	}
	if ms := c.ScanParameters.ScanIntervalMs; ms != 0 {
		cfg.ScanInterval = time.Duration(ms) * time.Millisecond
	}

	if c.Tracking.HoldMax != 0 {
		cfg.HoldMax = c.Tracking.HoldMax
	}
	if c.Tracking.LostThreshold != 0 {
		cfg.LostThreshold = c.Tracking.LostThreshold
	}

	cfg.SmoothingEnabled = c.Smoothing.Enabled
	if c.Smoothing.ThresholdDB != 0 {
		cfg.SmoothThreshold = c.Smoothing.ThresholdDB * 1000
	}
	if c.Smoothing.KFast != 0 {
		cfg.SmoothKFast = c.Smoothing.KFast
	}
	if c.Smoothing.KSlow != 0 {
		cfg.SmoothKSlow = c.Smoothing.KSlow
	}

	return cfg, nil
}

// SaveConfigFile saves scanner configuration to a YAML file
func SaveConfigFile(config *ConfigFile, path string) error {
	config.Created = time.Now()

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
