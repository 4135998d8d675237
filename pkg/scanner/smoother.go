package scanner

import "math"

// MetricSmoother implements adaptive smoothing of a reading such as CNR
// to prevent display jitter while following real changes quickly
type MetricSmoother struct {
	value     float64
	primed    bool
	threshold float64 // above this difference, use fast adaptation
	kFast     float64 // adaptation coefficient for large changes (0-1)
	kSlow     float64 // adaptation coefficient for small changes (0-1)
}

// NewMetricSmoother creates a smoother with default parameters
func NewMetricSmoother() *MetricSmoother {
	return NewMetricSmootherWithParams(DefaultSmoothThreshold, DefaultKFast, DefaultKSlow)
}

// NewMetricSmootherWithParams creates a smoother with custom parameters
func NewMetricSmootherWithParams(threshold, kFast, kSlow float64) *MetricSmoother {
	return &MetricSmoother{
		threshold: threshold,
		kFast:     kFast,
		kSlow:     kSlow,
	}
}

// Update applies adaptive smoothing to a new value and returns the
// smoothed value
func (s *MetricSmoother) Update(newValue float64) float64 {
	// First value is returned as-is
	if !s.primed {
		s.value = newValue
		s.primed = true
		return newValue
	}

	k := s.kSlow
	if math.Abs(newValue-s.value) > s.threshold {
		k = s.kFast
	}

	// Exponential moving average
	s.value += (newValue - s.value) * k

	return s.value
}

// Value returns the current smoothed value
func (s *MetricSmoother) Value() float64 {
	return s.value
}

// Rounded returns the current smoothed value rounded to an integer
func (s *MetricSmoother) Rounded() int64 {
	return int64(math.Round(s.value))
}

// Reset clears the smoother state
func (s *MetricSmoother) Reset() {
	s.value = 0
	s.primed = false
}
