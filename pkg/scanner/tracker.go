package scanner

import (
	"sort"
	"sync"
	"time"
)

// SmoothingParams configures per-channel CNR smoothing. A nil value
// disables smoothing.
type SmoothingParams struct {
	Threshold float64
	KFast     float64
	KSlow     float64
}

// ChannelTracker manages locked channels with hysteresis
type ChannelTracker struct {
	mu        sync.RWMutex
	channels  map[string]*ChannelInfo
	smoothers map[string]*MetricSmoother
	holdMax   int // hold counter after a lock
	lostAt    int // counter value when "lost" callback fires
	smoothing *SmoothingParams

	onFound func(*ChannelInfo)
	onLost  func(*ChannelInfo)
}

// NewChannelTracker creates a new channel tracker with the given
// parameters
func NewChannelTracker(holdMax, lostAt int, smoothing *SmoothingParams) *ChannelTracker {
	return &ChannelTracker{
		channels:  make(map[string]*ChannelInfo),
		smoothers: make(map[string]*MetricSmoother),
		holdMax:   holdMax,
		lostAt:    lostAt,
		smoothing: smoothing,
	}
}

// SetCallbacks sets the channel found and lost callbacks. Callbacks run
// on their own goroutine with a copy of the channel state.
func (t *ChannelTracker) SetCallbacks(onFound, onLost func(*ChannelInfo)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onFound = onFound
	t.onLost = onLost
}

// Update processes a scan result and updates tracking state
func (t *ChannelTracker) Update(result *ScanResult) {
	t.mu.Lock()
	defer t.mu.Unlock()

	key := result.Channel.Name
	info, exists := t.channels[key]

	if !result.Locked {
		if !exists || info.Hold == 0 {
			return
		}
		info.Hold--
		if info.Hold == t.lostAt && t.onLost != nil {
			infoCopy := *info
			go t.onLost(&infoCopy)
		}
		return
	}

	if !exists {
		info = &ChannelInfo{
			Channel:   result.Channel,
			FirstSeen: result.Timestamp,
		}
		t.channels[key] = info
		if t.smoothing != nil {
			t.smoothers[key] = NewMetricSmootherWithParams(t.smoothing.Threshold, t.smoothing.KFast, t.smoothing.KSlow)
		}
	}
	wasActive := info.Hold > 0

	info.Hold = t.holdMax
	info.Flags = result.Flags
	info.RFLevel = result.Metrics.RFLevel
	info.PER = result.Metrics.PER
	info.LastSeen = result.Timestamp
	info.DetectionCount++

	if cnr := result.Metrics.CNR; cnr.Available {
		if sm := t.smoothers[key]; sm != nil {
			sm.Update(float64(cnr.Value))
			cnr.Value = sm.Rounded()
		}
		info.CNR = cnr
		if !info.MaxCNR.Available || result.Metrics.CNR.Value > info.MaxCNR.Value {
			info.MaxCNR = result.Metrics.CNR
		}
	}

	if !wasActive && t.onFound != nil {
		infoCopy := *info
		go t.onFound(&infoCopy)
	}
}

// Get returns a copy of the tracking state of one channel
func (t *ChannelTracker) Get(name string) (*ChannelInfo, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	info, ok := t.channels[name]
	if !ok {
		return nil, false
	}
	infoCopy := *info
	return &infoCopy, true
}

// GetActiveChannels returns the channels whose hold counter is running,
// in frequency order
func (t *ChannelTracker) GetActiveChannels() []*ChannelInfo {
	return t.collect(func(info *ChannelInfo) bool { return info.Hold > 0 })
}

// GetAllChannels returns every channel that ever locked, in frequency
// order
func (t *ChannelTracker) GetAllChannels() []*ChannelInfo {
	return t.collect(func(*ChannelInfo) bool { return true })
}

func (t *ChannelTracker) collect(keep func(*ChannelInfo) bool) []*ChannelInfo {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]*ChannelInfo, 0, len(t.channels))
	for _, info := range t.channels {
		if keep(info) {
			infoCopy := *info
			out = append(out, &infoCopy)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Channel.FrequencyKHz != out[j].Channel.FrequencyKHz {
			return out[i].Channel.FrequencyKHz < out[j].Channel.FrequencyKHz
		}
		return out[i].Channel.Name < out[j].Channel.Name
	})
	return out
}

// Clear removes all tracked channels
func (t *ChannelTracker) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.channels = make(map[string]*ChannelInfo)
	t.smoothers = make(map[string]*MetricSmoother)
}

// PruneOld removes channels not seen since the given time
func (t *ChannelTracker) PruneOld(since time.Time) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	count := 0
	for key, info := range t.channels {
		if info.LastSeen.Before(since) {
			delete(t.channels, key)
			delete(t.smoothers, key)
			count++
		}
	}
	return count
}
