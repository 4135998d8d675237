package registers

import "fmt"

// Slaves holds the bus addresses of the demodulator's register slaves
// and the tuner behind the repeater. All demodulator slaves are derived
// from the T slave address.
type Slaves struct {
	T     uint8 `yaml:"t"`     // demodulator core
	X     uint8 `yaml:"x"`     // system / clock control, repeater gate
	R     uint8 `yaml:"r"`     // reserved, unused by this driver
	M     uint8 `yaml:"m"`     // reserved, unused by this driver
	Tuner uint8 `yaml:"tuner"` // tuner, reachable with the repeater open
}

// NewSlaves derives the slave map from the T slave and tuner addresses
func NewSlaves(t uint8, tuner uint8) Slaves {
	return Slaves{
		T:     t,
		X:     t + 0x02,
		R:     t - 0x20,
		M:     t - 0x54,
		Tuner: tuner,
	}
}

// String returns a human-readable description of the slave map
func (s Slaves) String() string {
	return fmt.Sprintf("T=0x%02X X=0x%02X R=0x%02X M=0x%02X tuner=0x%02X", s.T, s.X, s.R, s.M, s.Tuner)
}
