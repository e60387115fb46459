package selection

// Markers holds the start and end frame indices delimiting the exported
// range. Marking a start past the current end clears the end marker (and
// symmetrically) instead of swapping or rejecting; marking the same frame
// for both is allowed and exports a single frame.
type Markers struct {
	start    int
	end      int
	hasStart bool
	hasEnd   bool
}

// MarkStart records frame as the range start. An end marker strictly before
// frame is dropped.
func (m *Markers) MarkStart(frame int) {
	if frame < 0 {
		frame = 0
	}
	m.start = frame
	m.hasStart = true
	if m.hasEnd && m.end < frame {
		m.hasEnd = false
	}
}

// MarkEnd records frame as the range end. A start marker strictly after
// frame is dropped.
func (m *Markers) MarkEnd(frame int) {
	if frame < 0 {
		frame = 0
	}
	m.end = frame
	m.hasEnd = true
	if m.hasStart && m.start > frame {
		m.hasStart = false
	}
}

// Start returns the start marker when set.
func (m *Markers) Start() (int, bool) {
	return m.start, m.hasStart
}

// End returns the end marker when set.
func (m *Markers) End() (int, bool) {
	return m.end, m.hasEnd
}

// Clear resets both markers.
func (m *Markers) Clear() {
	*m = Markers{}
}

// Valid reports whether both markers are set, ordered, and within a video
// of frameCount frames.
func (m *Markers) Valid(frameCount int) bool {
	if !m.hasStart || !m.hasEnd {
		return false
	}
	return m.start >= 0 && m.start <= m.end && m.end < frameCount
}

// Range returns the marked frame range. ok is false unless both markers
// are set.
func (m *Markers) Range() (start, end int, ok bool) {
	if !m.hasStart || !m.hasEnd {
		return 0, 0, false
	}
	return m.start, m.end, true
}
