// Package tuner drives the RF tuner integrated with the demodulator. All
// traffic goes through the demodulator's repeater, which callers must
// open before using a Tuner.
package tuner

import (
	"errors"
	"fmt"
	"time"

	"github.com/herlein/isdbfe/pkg/profiles"
	"github.com/herlein/isdbfe/pkg/registers"
	"github.com/quan-to/slog"
)

var log = slog.Scope("Tuner")

// ErrTunerInit indicates the tuner CPU did not come up after cold boot
var ErrTunerInit = errors.New("tuner init failed")

// SubMode is the RF front-end configuration loaded in the tuner
type SubMode uint8

const (
	SubModeNone SubMode = iota
	SubModeTerrestrial
	SubModeSatellite
)

func (m SubMode) String() string {
	switch m {
	case SubModeNone:
		return "None"
	case SubModeTerrestrial:
		return "Terrestrial"
	case SubModeSatellite:
		return "Satellite"
	}
	return fmt.Sprintf("SubMode(%d)", uint8(m))
}

// Crystal is the tuner reference oscillator
type Crystal uint8

const (
	Crystal16MHz Crystal = iota
	Crystal20_5MHz
	Crystal24MHz
	Crystal41MHz
)

// SatelliteProfile selects the satellite front-end register set
type SatelliteProfile uint8

const (
	// ProfileISDBS3 is used for both satellite systems
	ProfileISDBS3 SatelliteProfile = iota
	// ProfileISDBS is the older ISDB-S set without the high synthesizer path
	ProfileISDBS
)

// HighBandKHz is the satellite frequency above which the ISDB-S3 profile
// switches synthesizer path
const HighBandKHz = 2150000

// Config is the static tuner configuration
type Config struct {
	Addr    uint8
	Crystal Crystal
	Index   uint8 // tuners above index 1 keep REFOUT and GPIO off
}

// Target is one tuning request for the tuner
type Target struct {
	Mode         SubMode
	FrequencyKHz uint32
	Terrestrial  profiles.TerrestrialParams
	Satellite    SatelliteProfile
}

// Tuner sequences the tuner registers. It remembers which sub-mode is
// loaded in the chip until Init or Reset.
type Tuner struct {
	c      *registers.Client
	cfg    Config
	id     uint8
	loaded SubMode
}

// New returns a Tuner using c for bus access
func New(c *registers.Client, cfg Config) *Tuner {
	return &Tuner{c: c, cfg: cfg}
}

// ID returns the chip id read by the last Init
func (t *Tuner) ID() uint8 {
	return t.id
}

// Loaded returns the sub-mode currently programmed into the chip
func (t *Tuner) Loaded() SubMode {
	return t.loaded
}

// Reset forgets the loaded sub-mode. It is called when the demodulator
// sleeps; the next Tune runs the full setup of its sub-mode without a park.
func (t *Tuner) Reset() {
	t.loaded = SubModeNone
}

// Init cold-boots the tuner and waits for its CPU to start
func (t *Tuner) Init() error {
	id, err := t.c.ReadReg(t.cfg.Addr, 0x7F)
	if err != nil {
		return fmt.Errorf("failed to read tuner id: %w", err)
	}
	t.id = id & 0xFC
	t.loaded = SubModeNone
	log.Debug("tuner id is 0x%02X", t.id)

	if err := bootSequence(t.cfg).Run(t.c); err != nil {
		return fmt.Errorf("failed to boot tuner: %w", err)
	}

	status, err := t.c.ReadReg(t.cfg.Addr, 0x1A)
	if err != nil {
		return fmt.Errorf("failed to read tuner CPU status: %w", err)
	}
	if status != 0x00 {
		return fmt.Errorf("%w: CPU status 0x%02X", ErrTunerInit, status)
	}

	if err := postBootSequence(t.cfg).Run(t.c); err != nil {
		return fmt.Errorf("failed to finish tuner boot: %w", err)
	}
	return nil
}

// Tune programs the tuner for target. Changing between terrestrial and
// satellite parks the front end first. Staying in the loaded sub-mode
// only rewrites the frequency dependent registers.
func (t *Tuner) Tune(target Target) error {
	seq, err := t.plan(target)
	if err != nil {
		return err
	}
	log.Debug("tune %s %d kHz from %s (%d writes)", target.Mode, target.FrequencyKHz, t.loaded, seq.Writes())
	if err := seq.Run(t.c); err != nil {
		return fmt.Errorf("failed to tune %s: %w", target.Mode, err)
	}
	t.loaded = target.Mode
	return nil
}

// plan returns the sequence Tune would run from the current state
func (t *Tuner) plan(target Target) (registers.Sequence, error) {
	var seq registers.Sequence
	if t.loaded != SubModeNone && t.loaded != target.Mode {
		seq = parkSequence(t.cfg.Addr)
	}
	full := t.loaded != target.Mode

	switch target.Mode {
	case SubModeSatellite:
		return registers.Concat(seq, satelliteSequence(t.cfg, target.FrequencyKHz, target.Satellite, full)), nil
	case SubModeTerrestrial:
		return registers.Concat(seq, terrestrialSequence(t.cfg, target.FrequencyKHz, target.Terrestrial, full)), nil
	}
	return nil, fmt.Errorf("cannot tune sub-mode %s", target.Mode)
}

func bootSequence(cfg Config) registers.Sequence {
	a := cfg.Addr

	block := []byte{
		0x10, 0x84, 0xA4, 0x80, 0x01, 0x10, // 0x81-0x86 crystal, REFOUT, GPIO
		0xC4, 0x40, 0x10, // clock enable, CPU boot
		0x00, 0x45, 0x75, 0x07, // RF AGC, analog block
		0x08, 0x00, 0x00, 0x10, 0x20, 0x0A, 0x00,
	}
	if cfg.Crystal == Crystal24MHz {
		block[0] = 0x18
	}
	if cfg.Index > 1 {
		block[1], block[2], block[3], block[4] = 0x00, 0x00, 0x00, 0x00
	}

	return registers.Sequence{
		registers.W(a, 0x01, 0x00),
		registers.W(a, 0x67, 0x00),
		registers.W(a, 0x43, 0x06),
		registers.W(a, 0x45, 0x02),
		registers.W(a, 0x5E, 0x15, 0x00, 0x00),
		registers.W(a, 0x0C, 0x14),
		registers.W(a, 0x0D, 0x00),
		registers.W(a, 0x99, 0x7A, 0x01),
		registers.W(a, 0x81, block...),
		registers.W(a, 0x9B, 0x00),
		registers.Wait(10 * time.Millisecond),
	}
}

func postBootSequence(cfg Config) registers.Sequence {
	a := cfg.Addr
	return registers.Sequence{
		registers.W(a, 0x74, 0x12),
		registers.W(a, 0x67, 0x00),
		registers.W(a, 0x88, 0x00),
		registers.W(a, 0x87, 0xC0),
		registers.W(a, 0x80, 0x01),
		registers.W(a, 0x41, 0x07),
		registers.W(a, 0x42, 0x00),
		registers.W(a, 0x46, 0x00),
		registers.W(a, 0x7B, 0x02, 0x01),
	}
}

// parkSequence returns the analog front end to its idle configuration
func parkSequence(a uint8) registers.Sequence {
	return registers.Sequence{
		registers.W(a, 0x74, 0x02),
		registers.Bits(a, 0x67, 0x00, 0xFE),
		registers.W(a, 0x5E, 0x15, 0x00, 0x00),
		registers.W(a, 0x88, 0x00),
		registers.W(a, 0x87, 0xC0),
	}
}

func satelliteSequence(cfg Config, kHz uint32, profile SatelliteProfile, full bool) registers.Sequence {
	a := cfg.Addr
	var seq registers.Sequence
	if full {
		seq = registers.Sequence{
			registers.W(a, 0x15, 0x12),
			registers.W(a, 0x6A, 0x00, 0x00),
			registers.W(a, 0x74, 0x12, 0xF9, 0x0F, 0x25, 0x44),
			registers.W(a, 0x75, 0xF9),
			registers.W(a, 0x40, 0x07),
			registers.W(a, 0x41, 0x07),
			registers.W(a, 0x45, 0x03),
			registers.W(a, 0x48, 0x07),
		}
	}

	xtal := byte(0x02)
	if cfg.Crystal == Crystal24MHz {
		xtal = 0x03
	}
	setup := []byte{0xC4, 0x40, xtal, 0x00, 0xB4, 0x78, 0x08, 0x30}
	if profile == ProfileISDBS {
		copy(setup[3:], []byte{0x80, 0x70, 0x1E, 0x02, 0x24})
	}
	seq = append(seq, registers.W(a, 0x04, setup...))

	f := (kHz + 2) / 4
	word := []byte{byte(f), byte(f >> 8), byte(f>>16) & 0x0F}
	if kHz > HighBandKHz && profile == ProfileISDBS3 {
		seq = append(seq,
			registers.W(a, 0x45, 0x02),
			registers.W(a, 0x01, 0x03),
			registers.W(a, 0x0C, 0xFC, 0x32, 0x9E, 0x16, word[0], word[1], word[2], 0xFF, 0x00, 0x01),
		)
	} else {
		if !full {
			seq = append(seq, registers.W(a, 0x45, 0x03))
		}
		seq = append(seq,
			registers.W(a, 0x43, 0x04),
			registers.W(a, 0x01, 0x01),
			registers.W(a, 0x0C, 0xFE, 0x22, 0x9E, 0x16, word[0], word[1], word[2], 0xFF, 0x00, 0x01),
		)
	}

	return append(seq,
		registers.Wait(10*time.Millisecond),
		registers.W(a, 0x05, 0x00),
		registers.W(a, 0x04, 0xC0),
	)
}

func terrestrialSequence(cfg Config, kHz uint32, p profiles.TerrestrialParams, full bool) registers.Sequence {
	a := cfg.Addr
	seq := registers.Sequence{registers.W(a, 0x01, 0x00)}
	if full {
		seq = append(seq, registers.W(a, 0x74, 0x12, 0xF9, 0x0F, 0x05, 0x44))
	}
	seq = append(seq, registers.W(a, 0x87, 0xC4, 0x40))
	if full {
		xtal := byte(0x02)
		if cfg.Crystal == Crystal24MHz {
			xtal = 0x03
		}
		seq = append(seq,
			registers.W(a, 0x79, 0xA1),
			registers.W(a, 0x7D, 0x00),
			registers.W(a, 0x8D, 0x00),
			registers.W(a, 0x8E, 0x08),
			registers.W(a, 0x91, 0x0A, 0x0F),
			registers.W(a, 0x9C, 0x90, 0x00),
			registers.W(a, 0x5E, 0xEE, 0x02, 0x9E, 0x67, xtal, 0x38, 0x1E, 0x02, 0x24),
			registers.Bits(a, 0x67, 0x00, 0x02),
		)
	}

	return append(seq,
		registers.W(a, 0x68, terrestrialBlock(kHz, p)...),
		registers.Wait(50*time.Millisecond),
		registers.W(a, 0x88, 0x00),
		registers.W(a, 0x87, 0xC0),
	)
}

// terrestrialBlock builds registers 0x68-0x74
func terrestrialBlock(kHz uint32, p profiles.TerrestrialParams) []byte {
	b := make([]byte, 13)

	if p.RFGain == profiles.Auto {
		b[1] = 0x80
	} else {
		b[1] = (p.RFGain << 4) & 0x70
	}
	b[1] |= p.IFBPFGainControl & 0x0F

	rf, ifl := p.OverloadLevels(kHz)
	b[3] = rf & 0x0F
	b[4] = ifl&0x07 | 0x30

	b[5] = (p.IFBPFF0<<4)&0x30 | p.BW&0x03
	b[6] = p.FIFOffset & 0x1F
	b[7] = p.BWOffset & 0x1F

	b[8] = byte(kHz)
	b[9] = byte(kHz >> 8)
	b[10] = byte(kHz>>16) & 0x1F
	b[11] = 0xFF
	b[12] = 0x11
	return b
}
