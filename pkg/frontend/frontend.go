// Package frontend is the tuning state machine for one CXD2857
// demodulator and its tuner. It tracks the demodulator lifecycle, the
// running broadcast system and the tuner sub-mode, drives the demod and
// tuner sequencers on tune and sleep requests and turns the chip's raw
// status registers into lock flags and signal metrics.
//
// All register traffic of frontends sharing one bus is serialised by a
// lock held in the Registry.
package frontend

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/herlein/isdbfe/pkg/demod"
	"github.com/herlein/isdbfe/pkg/profiles"
	"github.com/herlein/isdbfe/pkg/registers"
	"github.com/herlein/isdbfe/pkg/tuner"
	"github.com/quan-to/slog"
)

var log = slog.Scope("Frontend")

// DemodState is the demodulator lifecycle state
type DemodState uint8

const (
	StateUnknown DemodState = iota
	StateSleep
	StateActive
)

func (s DemodState) String() string {
	switch s {
	case StateUnknown:
		return "Unknown"
	case StateSleep:
		return "Sleep"
	case StateActive:
		return "Active"
	}
	return fmt.Sprintf("DemodState(%d)", uint8(s))
}

// System is the broadcast system being received
type System = demod.System

const (
	SystemUnknown = demod.SystemUnknown
	SystemISDBT   = demod.SystemISDBT
	SystemISDBS   = demod.SystemISDBS
	SystemISDBS3  = demod.SystemISDBS3
)

// TunerSubMode is the RF front-end configuration the state machine
// believes is loaded in the tuner
type TunerSubMode = tuner.SubMode

// Frequency limits per system in kHz
const (
	MinISDBTKHz     = 42000
	MaxISDBTKHz     = 1002000
	MinSatelliteKHz = 1032000
	MaxSatelliteKHz = 3224000
)

// settleAfterTune is waited after every tune with the bus lock released
const settleAfterTune = 20 * time.Millisecond

// TuneRequest is one request to receive a channel. StreamID is the TSID
// for ISDB-S and the stream id for ISDB-S3.
type TuneRequest struct {
	System       System
	Bandwidth    profiles.Bandwidth
	FrequencyKHz uint32
	StreamID     uint16
}

// Resolve returns the request with ISDB-S network ids 0xB and 0xC
// redirected to ISDB-S3
func (r TuneRequest) Resolve() TuneRequest {
	if r.System == SystemISDBS {
		switch (r.StreamID >> 12) & 0xF {
		case 0xB, 0xC:
			r.System = SystemISDBS3
		}
	}
	return r
}

// Validate checks the request against the frequency range of its system
// and, for ISDB-T, the bandwidth
func (r TuneRequest) Validate() error {
	lo, hi := uint32(MinSatelliteKHz), uint32(MaxSatelliteKHz)
	switch r.System {
	case SystemISDBT:
		lo, hi = MinISDBTKHz, MaxISDBTKHz
		if _, err := profiles.Lookup(r.Bandwidth); err != nil {
			return fmt.Errorf("%w: %w", ErrUnsupportedConfiguration, err)
		}
	case SystemISDBS, SystemISDBS3:
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedSystem, r.System)
	}
	if r.FrequencyKHz < lo || r.FrequencyKHz > hi {
		return fmt.Errorf("%w: %d kHz not in %d..%d kHz for %s", ErrFrequencyOutOfRange, r.FrequencyKHz, lo, hi, r.System)
	}
	return nil
}

func (r TuneRequest) String() string {
	if r.System == SystemISDBT {
		return fmt.Sprintf("%s %d kHz %s", r.System, r.FrequencyKHz, r.Bandwidth)
	}
	return fmt.Sprintf("%s %d kHz id 0x%04X", r.System, r.FrequencyKHz, r.StreamID)
}

// Config is the static wiring of one demodulator and tuner
type Config struct {
	DemodAddr              uint8
	DemodCrystal           demod.Crystal
	TunerAddr              uint8
	TunerCrystal           tuner.Crystal
	TunerIndex             uint8
	TLVMode                bool
	RFPort                 uint8
	LegacySatelliteProfile bool
}

// Slaves returns the register slave map derived from the configuration
func (c Config) Slaves() registers.Slaves {
	return registers.NewSlaves(c.DemodAddr, c.TunerAddr)
}

// Hooks are board level switches called at fixed points of a tune. Their
// results are not inspected.
type Hooks interface {
	RFSwitch(port uint8, on bool)
	TSSwitch(on bool)
	LEDSwitch(code uint8)
}

// NopHooks ignores every call
type NopHooks struct{}

func (NopHooks) RFSwitch(uint8, bool) {}
func (NopHooks) TSSwitch(bool)        {}
func (NopHooks) LEDSwitch(uint8)      {}

// ledModeEntry is signalled on every mode entry
const ledModeEntry = 5

// Options are the optional collaborators of a Frontend
type Options struct {
	Registry *Registry
	Hooks    Hooks
	// Sleep replaces time.Sleep for all in-line waits of a newly
	// registered demodulator
	Sleep func(time.Duration)
}

// Frontend is one attached demodulator instance
type Frontend struct {
	id    uuid.UUID
	log   slog.Instance
	reg   *Registry
	b     *base
	hooks Hooks

	state      DemodState
	system     System
	subMode    TunerSubMode
	symbolRate uint32
	frequency  uint32

	lastFlags LockFlags
	last      SignalMetrics
	released  bool
}

// New attaches to the demodulator at cfg.DemodAddr on bus. busID names
// the physical bus; frontends with the same busID share one lock. The
// chip id is checked before New returns.
func New(busID string, bus registers.Bus, cfg Config, opts Options) (*Frontend, error) {
	reg := opts.Registry
	if reg == nil {
		reg = DefaultRegistry
	}
	hooks := opts.Hooks
	if hooks == nil {
		hooks = NopHooks{}
	}

	b, created, err := reg.acquire(busID, bus, cfg, opts.Sleep)
	if err != nil {
		return nil, err
	}

	id, err := uuid.NewRandom()
	if err != nil {
		reg.release(b)
		return nil, fmt.Errorf("failed to generate frontend id: %w", err)
	}
	f := &Frontend{
		id:    id,
		log:   slog.Scope("FE " + strings.Split(id.String(), "-")[0]),
		reg:   reg,
		b:     b,
		hooks: hooks,
	}

	b.bus.Lock()
	err = b.demod.Detect()
	b.bus.Unlock()
	if err != nil {
		reg.release(b)
		return nil, fmt.Errorf("failed to attach frontend on %s: %w", busID, err)
	}

	if created {
		log.Info("Registered demodulator %s on %s", cfg.Slaves(), busID)
	}
	f.log.Debug("Attached (%d refs)", reg.Refs(busID, cfg.DemodAddr))
	return f, nil
}

// ID returns the instance id
func (f *Frontend) ID() uuid.UUID {
	return f.id
}

// String returns a human-readable description of the frontend
func (f *Frontend) String() string {
	return fmt.Sprintf("frontend %s at %s/0x%02X (%s, %s)", f.id, f.b.key.bus, f.b.key.addr, f.State(), f.System())
}

// State returns the demodulator lifecycle state
func (f *Frontend) State() DemodState {
	f.b.bus.Lock()
	defer f.b.bus.Unlock()
	return f.state
}

// System returns the running broadcast system
func (f *Frontend) System() System {
	f.b.bus.Lock()
	defer f.b.bus.Unlock()
	return f.system
}

// SubMode returns the tuner sub-mode of the running system
func (f *Frontend) SubMode() TunerSubMode {
	f.b.bus.Lock()
	defer f.b.bus.Unlock()
	return f.subMode
}

// Release detaches the frontend. The shared context goes away with the
// last frontend using it. Release is idempotent.
func (f *Frontend) Release() {
	if f.released {
		return
	}
	f.released = true
	f.reg.release(f.b)
	f.log.Debug("Released")
}
