// Package profiles provides the per-bandwidth ISDB-T parameter sets: the
// demodulator band setting (timing recovery, interpolation filter, IF
// frequency) and the tuner's terrestrial front-end adjustment. The values
// are calibration data and are kept exactly as characterised.
package profiles

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnsupportedBandwidth indicates a bandwidth with no parameter set
var ErrUnsupportedBandwidth = errors.New("unsupported ISDB-T bandwidth")

// Bandwidth is an ISDB-T channel width in MHz
type Bandwidth uint8

const (
	Bandwidth6MHz Bandwidth = 6
	Bandwidth7MHz Bandwidth = 7
	Bandwidth8MHz Bandwidth = 8
)

// String returns e.g. "6MHz"
func (b Bandwidth) String() string {
	return fmt.Sprintf("%dMHz", uint8(b))
}

// Auto leaves a tuner field under hardware control
const Auto = 0xFF

// Tuner IF filter bandwidth codes
const (
	BW6 = 0x00
	BW7 = 0x01
	BW8 = 0x02
)

// Offset encodes a signed tuner offset into its 5-bit register field
func Offset(n int8) uint8 {
	return uint8(n) & 0x1F
}

// TerrestrialParams adjusts the tuner's terrestrial path for one
// bandwidth. Overload detector levels come in three frequency ranges:
// VL up to 172 MHz, VH up to 464 MHz, U above.
type TerrestrialParams struct {
	RFGain           uint8 `yaml:"rf_gain"`
	IFBPFGainControl uint8 `yaml:"if_bpf_gc"`
	RFOverloadVL     uint8 `yaml:"rfovld_vl"`
	RFOverloadVH     uint8 `yaml:"rfovld_vh"`
	RFOverloadU      uint8 `yaml:"rfovld_u"`
	IFOverloadVL     uint8 `yaml:"ifovld_vl"`
	IFOverloadVH     uint8 `yaml:"ifovld_vh"`
	IFOverloadU      uint8 `yaml:"ifovld_u"`
	IFBPFF0          uint8 `yaml:"if_bpf_f0"`
	BW               uint8 `yaml:"bw"`
	FIFOffset        uint8 `yaml:"fif_offset"`
	BWOffset         uint8 `yaml:"bw_offset"`
	AGCSel           uint8 `yaml:"agc_sel"`
	IFOutSel         uint8 `yaml:"if_out_sel"`
}

// OverloadLevels returns the RF and IF overload detector settings for a
// tuned frequency
func (p TerrestrialParams) OverloadLevels(frequencyKHz uint32) (rf uint8, ifl uint8) {
	switch {
	case frequencyKHz <= 172000:
		return p.RFOverloadVL, p.IFOverloadVL
	case frequencyKHz <= 464000:
		return p.RFOverloadVH, p.IFOverloadVH
	default:
		return p.RFOverloadU, p.IFOverloadU
	}
}

// BandParameters is the demodulator band setting for one bandwidth
type BandParameters struct {
	Bandwidth    Bandwidth         `yaml:"bandwidth"`
	IFFreqMHz    float64           `yaml:"if_freq_mhz"`
	NominalRate  [5]byte           `yaml:"nominal_rate"` // TRCG nominal rate, bank 0x10 reg 0x9F
	ITBCoef      [14]byte          `yaml:"itb_coef"`     // bank 0x10 reg 0xA6
	ChannelWidth uint8             `yaml:"channel_width"`
	RegD9        [2]byte           `yaml:"reg_d9"`
	Reg1271      uint8             `yaml:"reg_12_71"`
	Reg15BE      uint8             `yaml:"reg_15_be"`
	Tuner        TerrestrialParams `yaml:"tuner"`
}

// IFFreqConfig converts an IF frequency in MHz to the demodulator's
// 24-bit IF word (f / 48 MHz * 2^24, rounded)
func IFFreqConfig(mhz float64) uint32 {
	return uint32(mhz/48.0*16777216.0 + 0.5)
}

// IFFreqMHz converts an IF word back to MHz
func IFFreqMHz(word uint32) float64 {
	return float64(word) * 48.0 / 16777216.0
}

// IFFreq returns the IF word for this bandwidth
func (p BandParameters) IFFreq() uint32 {
	return IFFreqConfig(p.IFFreqMHz)
}

// IFFreqBytes returns the IF word as written to bank 0x10 reg 0xB6, MSB first
func (p BandParameters) IFFreqBytes() [3]byte {
	w := p.IFFreq()
	return [3]byte{byte(w >> 16), byte(w >> 8), byte(w)}
}

// Lookup returns the parameter set for bw
func Lookup(bw Bandwidth) (BandParameters, error) {
	p, ok := isdbt[bw]
	if !ok {
		return BandParameters{}, fmt.Errorf("%w: %s", ErrUnsupportedBandwidth, bw)
	}
	return p, nil
}

// List returns every parameter set ordered by bandwidth
func List() []BandParameters {
	out := make([]BandParameters, 0, len(isdbt))
	for _, p := range isdbt {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Bandwidth < out[j].Bandwidth })
	return out
}
