package usbbridge

import "testing"

func TestSelectorPick(t *testing.T) {
	devices := []*Device{
		{Serial: "A1", Bus: 1, Address: 4},
		{Serial: "B2", Bus: 1, Address: 7},
		{Serial: "B2", Bus: 2, Address: 3},
	}
	tests := []struct {
		sel     DeviceSelector
		want    int
		wantErr bool
	}{
		{"", 0, false},
		{"#1", 1, false},
		{"#3", -1, true},
		{"#x", -1, true},
		{"2:3", 2, false},
		{"2:9", -1, true},
		{"1:z", -1, true},
		{"A1", 0, false},
		{"B2", -1, true},
		{"C3", -1, true},
	}
	for _, tc := range tests {
		t.Run(string(tc.sel), func(t *testing.T) {
			p, err := tc.sel.parse()
			if err == nil {
				var got int
				got, err = p.pick(devices)
				if err == nil && got != tc.want {
					t.Errorf("pick = %d, want %d", got, tc.want)
				}
			}
			if (err != nil) != tc.wantErr {
				t.Errorf("err = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestSelectorNoDevices(t *testing.T) {
	p, _ := DeviceSelector("").parse()
	if _, err := p.pick(nil); err == nil {
		t.Error("empty device list accepted")
	}
}

func TestResetTargets(t *testing.T) {
	devices := []*Device{
		{Serial: "A1", Bus: 1, Address: 4},
		{Serial: "B2", Bus: 1, Address: 7},
	}
	tests := []struct {
		sel     DeviceSelector
		want    []string
		wantErr bool
	}{
		{"", []string{"1:4", "1:7"}, false},
		{"B2", []string{"1:7"}, false},
		{"#0", []string{"1:4"}, false},
		{"1:9", nil, true},
	}
	for _, tc := range tests {
		t.Run(string(tc.sel), func(t *testing.T) {
			p, err := tc.sel.parse()
			if err != nil {
				t.Fatal(err)
			}
			got, err := resetTargets(p, devices)
			if (err != nil) != tc.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tc.wantErr)
			}
			if len(got) != len(tc.want) {
				t.Fatalf("got %d targets, want %d", len(got), len(tc.want))
			}
			for i, d := range got {
				if d.Location() != tc.want[i] {
					t.Errorf("target %d = %s, want %s", i, d.Location(), tc.want[i])
				}
			}
		})
	}

	p, _ := DeviceSelector("").parse()
	if _, err := resetTargets(p, nil); err == nil {
		t.Error("empty device list accepted")
	}
}
