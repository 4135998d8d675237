package frontend

import (
	"context"
	"errors"
	"fmt"

	"github.com/herlein/isdbfe/pkg/demod"
	"github.com/herlein/isdbfe/pkg/profiles"
	"github.com/herlein/isdbfe/pkg/tuner"
)

// Initialize cold-boots the demodulator and the tuner and leaves the
// frontend asleep. Only TLV output mode is supported.
func (f *Frontend) Initialize(ctx context.Context) error {
	if err := f.begin(ctx); err != nil {
		return err
	}
	defer f.b.bus.Unlock()
	return f.initLocked()
}

func (f *Frontend) initLocked() error {
	b := f.b
	if err := b.demod.ColdBoot(b.cfg.DemodCrystal); err != nil {
		return hardware("initialize", err)
	}
	f.state = StateSleep
	f.system = SystemUnknown
	f.subMode = tuner.SubModeNone

	err := b.client.WithRepeater(b.demod.Slaves().X, b.tuner.Init)
	if err != nil {
		return hardware("initialize", err)
	}

	if !b.cfg.TLVMode {
		return fmt.Errorf("%w: TS output mode", ErrUnsupportedConfiguration)
	}
	if err := b.demod.SetupTLV(); err != nil {
		return hardware("initialize", err)
	}
	b.warm = true
	f.log.Info("Initialized, tuner id 0x%02X", b.tuner.ID())
	return nil
}

// Sleep powers the demodulator down. The state becomes Sleep with no
// system and no tuner sub-mode, also when it was not active.
func (f *Frontend) Sleep(ctx context.Context) error {
	if err := f.begin(ctx); err != nil {
		return err
	}
	defer f.b.bus.Unlock()
	return hardware("sleep", f.sleepLocked())
}

func (f *Frontend) sleepLocked() error {
	if f.state == StateActive {
		f.log.Debug("Sleep from %s", f.system)
		if err := f.b.demod.Sleep(f.system); err != nil {
			return err
		}
	}
	f.state = StateSleep
	f.subMode = tuner.SubModeNone
	f.system = SystemUnknown
	f.b.tuner.Reset()
	return nil
}

// SetFrontend tunes to req. A cold demodulator is initialized first. A
// request for the running system only updates the band or stream; any
// other system goes through sleep and the full mode procedure.
func (f *Frontend) SetFrontend(ctx context.Context, req TuneRequest) error {
	req = req.Resolve()
	if err := req.Validate(); err != nil {
		return err
	}
	if err := f.begin(ctx); err != nil {
		return err
	}
	err := f.setLocked(ctx, req)
	f.b.bus.Unlock()
	if err != nil {
		return err
	}
	f.b.client.Delay(settleAfterTune)
	return nil
}

func (f *Frontend) setLocked(ctx context.Context, req TuneRequest) error {
	b := f.b
	if !b.warm {
		if err := f.initLocked(); err != nil {
			return err
		}
	} else if f.state == StateUnknown {
		f.state = StateSleep
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	f.log.Debug("Tune %s from %s/%s", req, f.state, f.system)
	f.hooks.RFSwitch(b.cfg.RFPort, true)
	f.hooks.TSSwitch(true)

	if err := f.transition(req); err != nil {
		if errors.Is(err, ErrUnsupportedSystem) {
			return err
		}
		return hardware("set frontend", err)
	}

	target := f.tunerTarget(req)
	err := b.client.WithRepeater(b.demod.Slaves().X, func() error {
		return b.tuner.Tune(target)
	})
	if err != nil {
		return hardware("set frontend", err)
	}
	f.subMode = target.Mode
	f.frequency = req.FrequencyKHz
	f.state = StateActive

	if err := b.demod.TuneEnd(); err != nil {
		return hardware("set frontend", err)
	}
	return nil
}

// transition runs the demodulator side of a tune: the same-system
// update, or sleep (when active) followed by the mode procedure
func (f *Frontend) transition(req TuneRequest) error {
	f.hooks.LEDSwitch(ledModeEntry)

	switch f.state {
	case StateActive:
		if f.system == req.System {
			return f.retune(req)
		}
		if err := f.sleepLocked(); err != nil {
			return err
		}
	case StateSleep:
	default:
		return fmt.Errorf("%w: %s requested in state %s", ErrUnsupportedSystem, req.System, f.state)
	}

	f.system = req.System
	return f.activate(req)
}

func (f *Frontend) activate(req TuneRequest) error {
	d := f.b.demod
	switch req.System {
	case SystemISDBT:
		bp, err := profiles.Lookup(req.Bandwidth)
		if err != nil {
			return err
		}
		f.symbolRate = 0
		return d.ActivateISDBT(bp)
	case SystemISDBS:
		f.symbolRate = demod.SymbolRateISDBS
		if err := d.SetTSID(req.StreamID); err != nil {
			return err
		}
		return d.ActivateISDBS()
	case SystemISDBS3:
		f.symbolRate = demod.SymbolRateISDBS3
		if err := d.SetStreamID(req.StreamID); err != nil {
			return err
		}
		return d.ActivateISDBS3()
	}
	return fmt.Errorf("%w: %s", ErrUnsupportedSystem, req.System)
}

func (f *Frontend) retune(req TuneRequest) error {
	d := f.b.demod
	switch req.System {
	case SystemISDBT:
		bp, err := profiles.Lookup(req.Bandwidth)
		if err != nil {
			return err
		}
		if err := d.MuteTS(); err != nil {
			return err
		}
		return d.SetBand(bp)
	case SystemISDBS:
		if err := d.SetTSID(req.StreamID); err != nil {
			return err
		}
		return d.MuteTS()
	case SystemISDBS3:
		if err := d.SetStreamID(req.StreamID); err != nil {
			return err
		}
		return d.MuteTLV()
	}
	return fmt.Errorf("%w: %s", ErrUnsupportedSystem, req.System)
}

func (f *Frontend) tunerTarget(req TuneRequest) tuner.Target {
	if req.System == SystemISDBT {
		bp, _ := profiles.Lookup(req.Bandwidth)
		return tuner.Target{
			Mode:         tuner.SubModeTerrestrial,
			FrequencyKHz: req.FrequencyKHz,
			Terrestrial:  bp.Tuner,
		}
	}
	profile := tuner.ProfileISDBS3
	if req.System == SystemISDBS && f.b.cfg.LegacySatelliteProfile {
		profile = tuner.ProfileISDBS
	}
	return tuner.Target{
		Mode:         tuner.SubModeSatellite,
		FrequencyKHz: req.FrequencyKHz,
		Satellite:    profile,
	}
}

// Tune sets the frontend when retune is true and then reads the status
func (f *Frontend) Tune(ctx context.Context, req TuneRequest, retune bool) (LockFlags, SignalMetrics, error) {
	if retune {
		if err := f.SetFrontend(ctx, req); err != nil {
			return 0, SignalMetrics{}, err
		}
	}
	return f.ReadStatus(ctx)
}

// begin checks ctx and the release flag and takes the bus lock
func (f *Frontend) begin(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if f.released {
		return ErrNotInitialized
	}
	f.b.bus.Lock()
	return nil
}
