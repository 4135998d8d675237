package fixedpoint

// CNEntry maps a raw demodulator code to a CNR value
type CNEntry struct {
	Code uint32
	CNR  int32
}

// CNTable is sorted by descending Code (ascending CNR)
type CNTable []CNEntry

// Lookup returns the CNR of the last entry whose code is not below the
// query. Queries above the first code return the first entry; queries
// below the last code return the last entry.
func (t CNTable) Lookup(code uint32) int32 {
	if len(t) == 0 {
		return 0
	}
	i := 1
	for ; i < len(t); i++ {
		if t[i].Code < code {
			break
		}
	}
	return t[i-1].CNR
}

// Segment is one linear piece of a Model. Inputs in [Low, High) map to
// Intercept - ((v-Low)*SlopeNum + SlopeDen/2) / SlopeDen.
type Segment struct {
	Low       int32
	High      int32
	SlopeNum  int32
	SlopeDen  int32
	Intercept int32
}

// Model is a piecewise-linear gain model. Segments must be ordered and
// contiguous; inputs past the last segment use Floor.
type Model struct {
	Segments []Segment
	Floor    int32
}

// Eval returns the model output for v
func (m Model) Eval(v int32) int32 {
	for _, s := range m.Segments {
		if v < s.High {
			if s.SlopeNum == 0 || s.SlopeDen == 0 {
				return s.Intercept
			}
			return s.Intercept - ((v-s.Low)*s.SlopeNum+s.SlopeDen/2)/s.SlopeDen
		}
	}
	return m.Floor
}

// Offset returns a copy of m with base added to every intercept and to
// the floor
func (m Model) Offset(base int32) Model {
	out := Model{Segments: make([]Segment, len(m.Segments)), Floor: m.Floor + base}
	for i, s := range m.Segments {
		s.Intercept += base
		out.Segments[i] = s
	}
	return out
}

// DivRound divides a by b rounding half away from zero, b > 0
func DivRound(a int32, b int32) int32 {
	neg := a < 0
	if neg {
		a = -a
	}
	q, r := a/b, a%b
	if r >= b/2 {
		q++
	}
	if neg {
		return -q
	}
	return q
}
