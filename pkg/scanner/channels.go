package scanner

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/herlein/isdbfe/pkg/frontend"
	"github.com/herlein/isdbfe/pkg/profiles"
)

// Channel is one named entry of a channel plan
type Channel struct {
	Name         string
	System       frontend.System
	FrequencyKHz uint32
	Bandwidth    profiles.Bandwidth
	StreamID     uint16
}

// Request returns the tune request of the channel
func (c Channel) Request() frontend.TuneRequest {
	return frontend.TuneRequest{
		System:       c.System,
		Bandwidth:    c.Bandwidth,
		FrequencyKHz: c.FrequencyKHz,
		StreamID:     c.StreamID,
	}
}

func (c Channel) String() string {
	return fmt.Sprintf("%s (%s)", c.Name, c.Request())
}

// Channel plan limits
const (
	FirstUHF = 13
	LastUHF  = 62
	FirstBS  = 1
	LastBS   = 23
	FirstND  = 2
	LastND   = 24
)

// UHF returns terrestrial UHF channel n. Centres sit 1/7 MHz above the
// 6 MHz raster; the fraction is truncated to whole kHz.
func UHF(n int) (Channel, error) {
	if n < FirstUHF || n > LastUHF {
		return Channel{}, fmt.Errorf("%w: UHF%d", ErrInvalidChannel, n)
	}
	return Channel{
		Name:         fmt.Sprintf("UHF%d", n),
		System:       frontend.SystemISDBT,
		FrequencyKHz: 473142 + 6000*uint32(n-FirstUHF),
		Bandwidth:    profiles.Bandwidth6MHz,
	}, nil
}

// BS returns BS right-hand transponder n (odd numbers only), first
// relative TS
func BS(n int) (Channel, error) {
	if n < FirstBS || n > LastBS || n%2 == 0 {
		return Channel{}, fmt.Errorf("%w: BS%d", ErrInvalidChannel, n)
	}
	return Channel{
		Name:         fmt.Sprintf("BS%d", n),
		System:       frontend.SystemISDBS,
		FrequencyKHz: 1049480 + 19180*uint32(n-FirstBS),
	}, nil
}

// ND returns 110 degree CS transponder n (even numbers only), first
// relative TS
func ND(n int) (Channel, error) {
	if n < FirstND || n > LastND || n%2 != 0 {
		return Channel{}, fmt.Errorf("%w: ND%d", ErrInvalidChannel, n)
	}
	return Channel{
		Name:         fmt.Sprintf("ND%d", n),
		System:       frontend.SystemISDBS,
		FrequencyKHz: 1613000 + 20000*uint32(n-FirstND),
	}, nil
}

var plans = []struct {
	prefix      string
	first, last int
	step        int
	make        func(int) (Channel, error)
}{
	{"UHF", FirstUHF, LastUHF, 1, UHF},
	{"BS", FirstBS, LastBS, 2, BS},
	{"ND", FirstND, LastND, 2, ND},
}

// ParseChannel parses a plan channel name such as "UHF27", "BS15" or
// "ND2". A "/0x..." suffix sets the stream id, e.g. "BS1/0x4010".
func ParseChannel(name string) (Channel, error) {
	base, id, hasID := strings.Cut(name, "/")
	upper := strings.ToUpper(base)

	for _, p := range plans {
		if !strings.HasPrefix(upper, p.prefix) {
			continue
		}
		n, err := strconv.Atoi(upper[len(p.prefix):])
		if err != nil {
			return Channel{}, fmt.Errorf("%w: %q", ErrInvalidChannel, name)
		}
		ch, err := p.make(n)
		if err != nil {
			return Channel{}, err
		}
		if hasID {
			v, err := strconv.ParseUint(id, 0, 16)
			if err != nil {
				return Channel{}, fmt.Errorf("%w: stream id %q", ErrInvalidChannel, id)
			}
			ch.StreamID = uint16(v)
			ch.Name = fmt.Sprintf("%s/0x%04X", ch.Name, ch.StreamID)
		}
		return ch, nil
	}
	return Channel{}, fmt.Errorf("%w: %q", ErrInvalidChannel, name)
}

// Plan returns every channel of a plan ("uhf", "bs" or "nd")
func Plan(name string) ([]Channel, error) {
	for _, p := range plans {
		if !strings.EqualFold(p.prefix, name) {
			continue
		}
		var out []Channel
		for n := p.first; n <= p.last; n += p.step {
			ch, err := p.make(n)
			if err != nil {
				return nil, err
			}
			out = append(out, ch)
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: unknown plan %q", ErrInvalidChannel, name)
}

// ScanResult holds the outcome of tuning one channel
type ScanResult struct {
	Channel  Channel
	Flags    frontend.LockFlags
	Metrics  frontend.SignalMetrics
	Locked   bool
	LockTime time.Duration // time from tune to full lock, or the timeout
	Err      error         // set when the channel could not be tuned

	Timestamp time.Time
}

// ChannelInfo represents a channel that has locked at least once
type ChannelInfo struct {
	Channel        Channel
	Flags          frontend.LockFlags
	RFLevel        frontend.Stat
	CNR            frontend.Stat // smoothed
	MaxCNR         frontend.Stat
	PER            frontend.Stat
	FirstSeen      time.Time
	LastSeen       time.Time
	DetectionCount uint32
	Hold           int
}
