package profiles

var isdbt = map[Bandwidth]BandParameters{
	Bandwidth6MHz: {
		Bandwidth:   Bandwidth6MHz,
		IFFreqMHz:   3.55,
		NominalRate: [5]byte{0x17, 0xA0, 0x00, 0x00, 0x00},
		ITBCoef: [14]byte{
			0x31, 0xA8, 0x29, 0x9B, 0x27, 0x9C, 0x28,
			0x9E, 0x29, 0xA4, 0x29, 0xA2, 0x29, 0xA8,
		},
		ChannelWidth: 0x04,
		RegD9:        [2]byte{0x1F, 0x79},
		Reg1271:      0x07,
		Reg15BE:      0x02,
		Tuner:        terrestrial(BW6, -9, -5),
	},
	Bandwidth7MHz: {
		Bandwidth:   Bandwidth7MHz,
		IFFreqMHz:   4.15,
		NominalRate: [5]byte{0x14, 0x40, 0x00, 0x00, 0x00},
		ITBCoef: [14]byte{
			0x30, 0xB1, 0x29, 0x9A, 0x28, 0x9C, 0x28,
			0xA0, 0x29, 0xA2, 0x2B, 0xA6, 0x2B, 0xAD,
		},
		ChannelWidth: 0x00,
		RegD9:        [2]byte{0x1A, 0xFA},
		Reg1271:      0x03,
		Reg15BE:      0x02,
		Tuner:        terrestrial(BW7, -7, -6),
	},
	Bandwidth8MHz: {
		Bandwidth:   Bandwidth8MHz,
		IFFreqMHz:   4.75,
		NominalRate: [5]byte{0x11, 0xB8, 0x00, 0x00, 0x00},
		ITBCoef: [14]byte{
			0x2F, 0xBA, 0x28, 0x9B, 0x28, 0x9D, 0x28,
			0xA1, 0x29, 0xA5, 0x2A, 0xAC, 0x29, 0xB5,
		},
		ChannelWidth: 0x00,
		RegD9:        [2]byte{0x13, 0xFC},
		Reg1271:      0x03,
		Reg15BE:      0x03,
		Tuner:        terrestrial(BW8, -5, -7),
	},
}

// The three ISDB-T bandwidths share gain and overload settings and only
// differ in filter width and offsets.
func terrestrial(bw uint8, fifOffset int8, bwOffset int8) TerrestrialParams {
	return TerrestrialParams{
		RFGain:           Auto,
		IFBPFGainControl: 0x07,
		RFOverloadVL:     0x0D,
		RFOverloadVH:     0x0D,
		RFOverloadU:      0x0D,
		IFOverloadVL:     0x03,
		IFOverloadVH:     0x03,
		IFOverloadU:      0x03,
		IFBPFF0:          0x00,
		BW:               bw,
		FIFOffset:        Offset(fifOffset),
		BWOffset:         Offset(bwOffset),
		AGCSel:           Auto,
		IFOutSel:         Auto,
	}
}
