package frontend

import "testing"

func TestPER(t *testing.T) {
	tests := []struct {
		name   string
		errors uint32
		period uint32
		want   Stat
	}{
		{"exact", 10, 1000, available(10000)},
		{"one third rounds on half period", 1, 3, available(333334)},
		{"one seventh stays", 1, 7, available(142857)},
		{"half exact", 1, 2, available(500000)},
		{"two thirds rounds up", 2, 3, available(666667)},
		{"no errors", 0, 1000, available(0)},
		{"period one", 5, 1, available(5000000)},
		{"no period", 7, 0, Stat{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := PER(tc.errors, tc.period); got != tc.want {
				t.Errorf("PER(%d, %d) = %+v, want %+v", tc.errors, tc.period, got, tc.want)
			}
		})
	}
}

func TestISDBTCNR(t *testing.T) {
	tests := []struct {
		raw     uint32
		cnr     int64
		relWant int64
	}{
		{1024, 19569, 29520},
		{1, -10531, 0},
		{65535, 37569, 57728},
	}
	for _, tc := range tests {
		cnr, rel := ISDBTCNR(tc.raw)
		if cnr != available(tc.cnr) || rel != available(tc.relWant) {
			t.Errorf("ISDBTCNR(%d) = %s, %s; want %d, %d", tc.raw, cnr, rel, tc.cnr, tc.relWant)
		}
	}
}

func TestSatelliteRFLevel(t *testing.T) {
	tests := []struct {
		ifagc uint32
		want  int64
	}{
		{0, -97000},
		{0x421, -60280},
		{0x1FFF, 187550},
	}
	for _, tc := range tests {
		if got := SatelliteRFLevel(tc.ifagc); got != tc.want {
			t.Errorf("SatelliteRFLevel(0x%X) = %d, want %d", tc.ifagc, got, tc.want)
		}
	}
}

func TestLockFlagsString(t *testing.T) {
	tests := []struct {
		f    LockFlags
		want string
	}{
		{0, "none"},
		{HasSignal | HasCarrier, "SIGNAL|CARRIER"},
		{FullLock, "SIGNAL|CARRIER|VITERBI|SYNC|LOCK"},
	}
	for _, tc := range tests {
		if got := tc.f.String(); got != tc.want {
			t.Errorf("String() = %q, want %q", got, tc.want)
		}
	}
	if (HasSignal | HasCarrier).Locked() {
		t.Error("partial flags reported as locked")
	}
}

func TestTuneRequestResolve(t *testing.T) {
	tests := []struct {
		sys  System
		id   uint16
		want System
	}{
		{SystemISDBS, 0x4010, SystemISDBS},
		{SystemISDBS, 0xB110, SystemISDBS3},
		{SystemISDBS, 0xC001, SystemISDBS3},
		{SystemISDBS, 0xD001, SystemISDBS},
		{SystemISDBT, 0xB110, SystemISDBT},
	}
	for _, tc := range tests {
		req := TuneRequest{System: tc.sys, StreamID: tc.id}
		if got := req.Resolve().System; got != tc.want {
			t.Errorf("Resolve(%s, 0x%04X) = %s, want %s", tc.sys, tc.id, got, tc.want)
		}
	}
}

func TestMetricUnits(t *testing.T) {
	tests := []struct {
		name    string
		m       SignalMetrics
		rf, cnr Stat
	}{
		{"satellite", SignalMetrics{RFLevel: available(-60280), CNR: available(19569)}, available(-603), available(1957)},
		{"exact", SignalMetrics{RFLevel: available(-45000), CNR: available(-10530)}, available(-450), available(-1053)},
		{"round down", SignalMetrics{RFLevel: available(12349), CNR: available(12344)}, available(123), available(1234)},
		{"not measured", SignalMetrics{RFLevel: available(-97000)}, available(-970), Stat{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.m.RFLevelDeciDB(); got != tc.rf {
				t.Errorf("RFLevelDeciDB() = %+v, want %+v", got, tc.rf)
			}
			if got := tc.m.CNRCentiDB(); got != tc.cnr {
				t.Errorf("CNRCentiDB() = %+v, want %+v", got, tc.cnr)
			}
		})
	}
}
